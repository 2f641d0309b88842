package commonModels

import "time"

type FileType string

const (
	FileTypeImage       FileType = "image"
	FileTypePDF         FileType = "pdf"
	FileTypeDOCX        FileType = "docx"
	FileTypeAudio       FileType = "audio"
	FileTypeYouTube     FileType = "youtube"
	FileTypeQAPair      FileType = "qa_pair"
	FileTypeDirectQuery FileType = "direct_query"
)

// Extraction is the transient per-request result of turning an input into
// text. It feeds the prompt assembler and is never persisted as its own
// entity.
type Extraction struct {
	FileType FileType
	Text     string
}

// Interaction is the record shape persisted in the vector store. Records are
// created once, never mutated, and deletable by id.
type Interaction struct {
	Id        string
	Text      string
	Type      FileType
	Timestamp time.Time

	//optional metadata
	Query  string
	Answer string
	URL    string
}

// Match is one similarity-search hit.
type Match struct {
	Id         string
	Text       string
	Similarity float32
	Type       FileType
	URL        string
	Query      string
	Answer     string
}

// Turn is one question/answer exchange in a chat's history.
type Turn struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}
