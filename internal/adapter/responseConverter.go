package adapter

import (
	"errors"
	"net/http"

	"github.com/vgorule/GeminiQA/internal/api"
	"github.com/vgorule/GeminiQA/internal/domain/commonModels"
)

func ToSimilarContent(matches []commonModels.Match) []api.SimilarContent {
	out := make([]api.SimilarContent, 0, len(matches))
	for _, m := range matches {
		text := m.Text
		// cap on rune boundaries so multibyte text stays valid in the JSON
		if runes := []rune(text); len(runes) > 500 {
			text = string(runes[:500]) + "..."
		}
		out = append(out, api.SimilarContent{
			Id:         m.Id,
			Text:       text,
			Type:       string(m.Type),
			URL:        m.URL,
			Similarity: m.Similarity,
		})
	}
	return out
}

// ToAPIError maps a pipeline error kind onto an HTTP status and a response
// error body. Unknown kinds are an internal failure.
func ToAPIError(err error) (int, *api.APIError) {
	kind := commonModels.KindOf(err)
	code := http.StatusInternalServerError
	message := "Internal Server Error"

	switch kind {
	case commonModels.KindUnsupportedURL:
		code = http.StatusBadRequest
		message = "Unsupported URL type. Only YouTube links are supported."
	case commonModels.KindUnsupportedFileType:
		code = http.StatusBadRequest
		message = "Unsupported file type."
	case commonModels.KindExtractionFailed:
		code = http.StatusBadRequest
		message = "Failed to process the file: " + unwrapMessage(err)
	case commonModels.KindEmptyMessage:
		code = http.StatusBadRequest
		message = "No message provided"
	case commonModels.KindNotFound:
		code = http.StatusNotFound
		message = "Not found"
	case commonModels.KindServiceUnavailable:
		code = http.StatusServiceUnavailable
		message = unwrapMessage(err)
	}

	return code, &api.APIError{Code: code, Kind: string(kind), Message: message}
}

func unwrapMessage(err error) string {
	var pe *commonModels.PipelineError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
