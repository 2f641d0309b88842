package extract

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/vgorule/GeminiQA/internal/domain/commonModels"
	"github.com/vgorule/GeminiQA/internal/rag/transcribe"
	"github.com/vgorule/GeminiQA/pkg/logger_i"
)

// Extractor classifies an uploaded file and turns it into text. Each
// supported type routes to exactly one extraction path.
type Extractor struct {
	transcriber transcribe.Transcriber
	logger      *logger_i.Logger
}

func New(transcriber transcribe.Transcriber) *Extractor {
	return &Extractor{
		transcriber: transcriber,
		logger:      logger_i.NewLogger("Extractor"),
	}
}

// IsURL reports whether text parses as a URL with both scheme and host.
func IsURL(text string) bool {
	parsed, err := url.Parse(text)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}

// imageMimeTypes doubles as the image-extension allowlist: an extension
// classifies as an image exactly when it has an entry here, and every entry
// has a decoder registered in impl.go.
var imageMimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".bmp":  "image/bmp",
}

// ImageMimeType maps a filename onto its image MIME type. The second return
// is false for anything ClassifyPath would not treat as an image.
func ImageMimeType(path string) (string, bool) {
	mime, ok := imageMimeTypes[strings.ToLower(filepath.Ext(path))]
	return mime, ok
}

// ClassifyPath maps a file path onto one processing path by extension.
func ClassifyPath(path string) (commonModels.FileType, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := imageMimeTypes[ext]; ok {
		return commonModels.FileTypeImage, nil
	}
	switch ext {
	case ".pdf":
		return commonModels.FileTypePDF, nil
	case ".docx", ".doc", ".txt", ".rtf", ".odt":
		return commonModels.FileTypeDOCX, nil
	case ".mp3", ".wav", ".ogg", ".flac":
		return commonModels.FileTypeAudio, nil
	default:
		return "", commonModels.NewPipelineError(
			commonModels.KindUnsupportedFileType,
			"unsupported file type "+ext,
			nil,
		)
	}
}

// Process extracts text from the file at path. Failures come back as typed
// errors; the text field never carries an error message.
func (e *Extractor) Process(ctx context.Context, path string) (commonModels.Extraction, error) {
	fileType, err := ClassifyPath(path)
	if err != nil {
		return commonModels.Extraction{}, err
	}

	e.logger.Debug("Processing file", "path", path, "type", fileType)

	var text string
	switch fileType {
	case commonModels.FileTypeImage:
		text, err = describeImage(path)
	case commonModels.FileTypePDF:
		text, err = extractPDF(path, e.logger)
	case commonModels.FileTypeDOCX:
		text, err = extractDocument(path)
	case commonModels.FileTypeAudio:
		text, err = e.transcribeAudio(ctx, path)
	}
	if err != nil {
		e.logger.Error("Extraction failed", "path", path, "type", fileType, "error", err)
		if commonModels.KindOf(err) != "" {
			return commonModels.Extraction{}, err
		}
		return commonModels.Extraction{}, commonModels.NewPipelineError(
			commonModels.KindExtractionFailed,
			"could not extract content from "+strings.ToUpper(string(fileType))+" file",
			err,
		)
	}

	return commonModels.Extraction{FileType: fileType, Text: text}, nil
}

func (e *Extractor) transcribeAudio(ctx context.Context, path string) (string, error) {
	if e.transcriber == nil {
		return "", commonModels.NewPipelineError(
			commonModels.KindServiceUnavailable,
			"audio transcription not available",
			nil,
		)
	}
	return e.transcriber.Transcribe(ctx, path)
}
