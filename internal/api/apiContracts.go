package api

// requests---------------------

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
	ChatID  string `json:"chat_id,omitempty"`
}

type AskRequest struct {
	Question string `json:"question" validate:"required"`
}

// responses--------------------

type APIError struct {
	Code    int    `json:"code" example:"400"`
	Kind    string `json:"kind,omitempty" example:"unsupported_url"`
	Message string `json:"message" example:"Unsupported URL type"`
}

type SimilarContent struct {
	Id         string  `json:"id"`
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	URL        string  `json:"url,omitempty"`
	Similarity float32 `json:"similarity"`
}

type ChatResponse struct {
	Answer         string           `json:"answer"`
	Error          *APIError        `json:"error"`
	SimilarContent []SimilarContent `json:"similar_content"`
	ChatID         string           `json:"chat_id,omitempty"`
}

type AskResponse struct {
	Answer string    `json:"answer,omitempty"`
	Error  *APIError `json:"error,omitempty"`
}

type AnalyzeResponse struct {
	Analysis string    `json:"analysis,omitempty"`
	Error    *APIError `json:"error,omitempty"`
}

type HealthResponse struct {
	Status   string          `json:"status" example:"ok"`
	Services map[string]bool `json:"services"`
}

type DeleteResponse struct {
	Id      string    `json:"id"`
	Deleted bool      `json:"deleted"`
	Error   *APIError `json:"error,omitempty"`
}
