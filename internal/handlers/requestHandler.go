package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/vgorule/GeminiQA/internal/adapter"
	"github.com/vgorule/GeminiQA/internal/api"
	"github.com/vgorule/GeminiQA/internal/rag"
	"github.com/vgorule/GeminiQA/internal/rag/extract"
	"github.com/vgorule/GeminiQA/pkg/logger_i"
)

var logRH = logger_i.NewLogger("Handlers :")

// Handler carries the injected service so tests can swap it for a mock.
type Handler struct {
	service rag.Service
}

func New(service rag.Service) *Handler {
	return &Handler{service: service}
}

// ChatHandler answers a chat message, optionally with an attached file.
// Accepts application/json {message, chat_id} or multipart/form-data with
// "message", "chat_id" and "file" fields.
func (h *Handler) ChatHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	input, ok := h.decodeChatInput(w, request)
	if !ok {
		return
	}

	result, err := h.service.Chat(request.Context(), input)
	if err != nil {
		writeChatError(w, err, input.ChatID)
		return
	}

	writeJsonResponse(w, http.StatusOK, api.ChatResponse{
		Answer:         result.Answer,
		Error:          nil,
		SimilarContent: adapter.ToSimilarContent(result.Similar),
		ChatID:         result.ChatID,
	})
}

func (h *Handler) decodeChatInput(w http.ResponseWriter, request *http.Request) (rag.ChatInput, bool) {
	contentType := request.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		return h.decodeMultipartChat(w, request)
	}

	var requestData api.ChatRequest
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logRH.Error("Couldn't close the Chat handler reader :", err)
		}
	}(request.Body)

	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateChatRequest(requestData) {
		logRH.Warn("Bad Chat Request: ", "error:", err, "request data:", requestData)
		writeChatError(w, errEmptyMessage(), requestData.ChatID)
		return rag.ChatInput{}, false
	}

	return rag.ChatInput{Message: requestData.Message, ChatID: requestData.ChatID}, true
}

func (h *Handler) decodeMultipartChat(w http.ResponseWriter, request *http.Request) (rag.ChatInput, bool) {
	if err := request.ParseMultipartForm(maxUploadBytes); err != nil {
		writeChatError(w, errEmptyMessage(), "")
		return rag.ChatInput{}, false
	}

	input := rag.ChatInput{
		Message: request.FormValue("message"),
		ChatID:  request.FormValue("chat_id"),
	}

	fileReader, fileMetadata, err := request.FormFile("file")
	if err == http.ErrMissingFile {
		if !ValidateChatRequest(api.ChatRequest{Message: input.Message}) {
			writeChatError(w, errEmptyMessage(), input.ChatID)
			return rag.ChatInput{}, false
		}
		return input, true
	}
	if err != nil {
		writeChatError(w, errEmptyMessage(), input.ChatID)
		return rag.ChatInput{}, false
	}
	defer fileReader.Close()

	path, err := saveUpload(fileReader, fileMetadata.Filename)
	if err != nil {
		logRH.Warn("Rejected upload", "filename", fileMetadata.Filename, "error", err)
		writeChatError(w, err, input.ChatID)
		return rag.ChatInput{}, false
	}

	if input.Message == "" {
		input.Message = "Analyze this content and summarize the key points."
	}
	input.FilePath = path
	return input, true
}

// AskHandler is the minimal question/answer endpoint: no chat session, no
// uploads.
func (h *Handler) AskHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.AskRequest
	defer request.Body.Close()
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil {
		logRH.Warn("Bad Ask Request: ", "error:", err)
		code, apiErr := adapter.ToAPIError(errEmptyMessage())
		writeJsonResponse(w, code, api.AskResponse{Error: apiErr})
		return
	}

	answer, err := h.service.Ask(request.Context(), requestData.Question)
	if err != nil {
		code, apiErr := adapter.ToAPIError(err)
		writeJsonResponse(w, code, api.AskResponse{Error: apiErr})
		return
	}

	writeJsonResponse(w, http.StatusOK, api.AskResponse{Answer: answer})
}

// AnalyzeHandler analyzes an uploaded file. Images go straight to the vision
// model; everything else is extracted to text and answered like a chat
// message.
func (h *Handler) AnalyzeHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	if err := request.ParseMultipartForm(maxUploadBytes); err != nil {
		code, apiErr := adapter.ToAPIError(errEmptyMessage())
		writeJsonResponse(w, code, api.AnalyzeResponse{Error: apiErr})
		return
	}

	fileReader, fileMetadata, err := request.FormFile("file")
	if err != nil {
		code, apiErr := adapter.ToAPIError(errEmptyMessage())
		writeJsonResponse(w, code, api.AnalyzeResponse{Error: apiErr})
		return
	}
	defer fileReader.Close()

	question := request.FormValue("question")

	if mime, isImage := extract.ImageMimeType(fileMetadata.Filename); isImage {
		imageData, err := io.ReadAll(fileReader)
		if err != nil {
			code, apiErr := adapter.ToAPIError(err)
			writeJsonResponse(w, code, api.AnalyzeResponse{Error: apiErr})
			return
		}

		analysis, err := h.service.AnalyzeImage(request.Context(), imageData, mime, question)
		if err != nil {
			code, apiErr := adapter.ToAPIError(err)
			writeJsonResponse(w, code, api.AnalyzeResponse{Error: apiErr})
			return
		}
		writeJsonResponse(w, http.StatusOK, api.AnalyzeResponse{Analysis: analysis})
		return
	}

	path, err := saveUpload(fileReader, fileMetadata.Filename)
	if err != nil {
		logRH.Warn("Rejected upload", "filename", fileMetadata.Filename, "error", err)
		code, apiErr := adapter.ToAPIError(err)
		writeJsonResponse(w, code, api.AnalyzeResponse{Error: apiErr})
		return
	}

	if question == "" {
		question = "Analyze this content and summarize the key points."
	}

	result, err := h.service.Chat(request.Context(), rag.ChatInput{Message: question, FilePath: path})
	if err != nil {
		code, apiErr := adapter.ToAPIError(err)
		writeJsonResponse(w, code, api.AnalyzeResponse{Error: apiErr})
		return
	}

	writeJsonResponse(w, http.StatusOK, api.AnalyzeResponse{Analysis: result.Answer})
}

func writeChatError(w http.ResponseWriter, err error, chatId string) {
	code, apiErr := adapter.ToAPIError(err)
	writeJsonResponse(w, code, api.ChatResponse{
		Error:          apiErr,
		SimilarContent: []api.SimilarContent{},
		ChatID:         chatId,
	})
}
