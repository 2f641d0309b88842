package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vgorule/GeminiQA/internal/adapter/utils"
	"github.com/vgorule/GeminiQA/internal/api"
	"github.com/vgorule/GeminiQA/internal/config"
	"github.com/vgorule/GeminiQA/internal/domain/commonModels"
	"github.com/vgorule/GeminiQA/internal/metrics"
	"github.com/vgorule/GeminiQA/internal/rag/extract"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func validateContext(ctx context.Context) bool {
	log := logRH
	if traceId, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		log = logRH.With("traceId", traceId)
	}
	if ctx.Err() != nil {
		log.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		log.Warn("context cancelled")
		return false
	default:
		return true

	}
}

func getTargetDirectory() (string, string) {
	targetDir := config.UploadFolder()
	if err := os.MkdirAll(targetDir, 0750); err != nil {
		return "", "Storage Error"
	}
	return targetDir, ""
}

// saveUpload writes a multipart file into the upload folder under a fresh
// uuid name, keeping only the original extension. The extension must classify
// as a supported file type before anything is written.
func saveUpload(fileReader multipart.File, originalName string) (string, error) {
	if _, err := extract.ClassifyPath(originalName); err != nil {
		return "", err
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		return "", commonModels.NewPipelineError(commonModels.KindExtractionFailed,
			"could not prepare upload storage", nil)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	filename := fmt.Sprintf("%s%s", utils.GetNewUUID(), ext)
	destinationPath := filepath.Join(targetDir, filename)

	destinationFileWriter, err := os.Create(destinationPath)
	if err != nil {
		return "", commonModels.NewPipelineError(commonModels.KindExtractionFailed,
			"could not store the uploaded file", err)
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		os.Remove(destinationPath)
		return "", commonModels.NewPipelineError(commonModels.KindExtractionFailed,
			"could not write the uploaded file", err)
	}

	metrics.IncrementUploadsSaved()
	return destinationPath, nil
}

func ValidateChatRequest(requestData api.ChatRequest) bool {
	return strings.TrimSpace(requestData.Message) != ""
}

const maxUploadBytes = config.MaxUploadBytes

// WriteErrorResponse is used by the middleware layer, which has no specific
// response shape to fill in.
func WriteErrorResponse(w http.ResponseWriter, httpCode int, message string) {
	writeJsonResponse(w, httpCode, api.AskResponse{
		Error: &api.APIError{Code: httpCode, Message: message},
	})
}

func errEmptyMessage() error {
	return commonModels.NewPipelineError(commonModels.KindEmptyMessage,
		"no message provided", nil)
}
