package rag

import (
	"context"
	"os"
	"time"

	"github.com/vgorule/GeminiQA/internal/config"
	"github.com/vgorule/GeminiQA/internal/data/store"
	"github.com/vgorule/GeminiQA/internal/domain/commonModels"
	"github.com/vgorule/GeminiQA/internal/metrics"
	"github.com/vgorule/GeminiQA/internal/rag/embedding"
	"github.com/vgorule/GeminiQA/internal/rag/extract"
	"github.com/vgorule/GeminiQA/internal/rag/llm"
	"github.com/vgorule/GeminiQA/internal/rag/vectorDB"
	"github.com/vgorule/GeminiQA/internal/rag/youtube"
	"github.com/vgorule/GeminiQA/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - This is the PUBLIC contract.
  - It defines the "behavior" (what the handlers can do).
  - We expose this to keep the handlers decoupled from our specific logic.

2. service (Private Struct):
  - This is the PRIVATE implementation.
  - It holds the "state" (database connections and LLM clients).
  - It is lowercase to prevent external packages from accessing our
    internal dependencies (vectorDB, llmProvider) directly.

3. Pointer Receiver (*service):
  - By defining methods on (*service), the struct IMPLICITLY satisfies
    the Service interface.
  - if it quacks like a duck, -it's a duck (Duck Typing)

4. Dependency Injection (NewService):
  - This constructor links the private struct to the public interface.
  - It allows us to swap real DBs for mocks during testing without
    changing the handlers' code.
*/

// FileExtractor turns a saved upload into plain text plus its detected type.
type FileExtractor interface {
	Process(ctx context.Context, path string) (commonModels.Extraction, error)
}

// VideoContextBuilder produces the context document for a YouTube URL.
// It never fails outright: degraded output carries whatever could be fetched.
type VideoContextBuilder interface {
	BuildContext(ctx context.Context, url string) string
}

// ChatInput is the normalized request the chat handler hands over. FilePath
// is the path of an already-saved upload, empty when the request was pure text.
type ChatInput struct {
	Message  string
	ChatID   string
	FilePath string
}

type ChatResult struct {
	Answer  string
	Similar []commonModels.Match
	ChatID  string
}

// Handlers will only call this service - they don't need to know the llm or the vector
type Service interface {
	Chat(ctx context.Context, input ChatInput) (ChatResult, error)
	Ask(ctx context.Context, question string) (string, error)
	AnalyzeImage(ctx context.Context, imageData []byte, mimeType string, prompt string) (string, error)
	DeleteInteraction(ctx context.Context, id string) error
	Availability(ctx context.Context) map[string]bool
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	history     store.HistoryStore
	extractor   FileExtractor
	video       VideoContextBuilder
	transcriber bool
	logger      *logger_i.Logger
}

// NewService constructor. vector may be nil when the vector store is offline
// or disabled; the service degrades to plain generation in that case.
func NewService(
	vector vectorDB.DataProcessor,
	llm llm.Provider,
	em embedding.Embedder,
	history store.HistoryStore,
	extractor FileExtractor,
	video VideoContextBuilder,
	transcriberReady bool,
) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llm,
		embedder:    em,
		history:     history,
		extractor:   extractor,
		video:       video,
		transcriber: transcriberReady,
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

func (s *service) Chat(ctx context.Context, input ChatInput) (ChatResult, error) {
	inMethodLogger := s.methodLogger(ctx, "chatId", input.ChatID)

	start := time.Now()
	defer func() { metrics.CaptureChatMetrics("chat", time.Since(start)) }()

	processContext, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	message, err := sanitizeMessage(input.Message)
	if err != nil {
		return ChatResult{}, err
	}

	chatId := s.ensureChat(processContext, inMethodLogger, input.ChatID)

	// Content extraction: file upload, YouTube link, or the message itself.
	extraction, err := s.executeExtractionStep(processContext, inMethodLogger, message, input.FilePath)
	if err != nil {
		return ChatResult{}, err
	}

	// Embedding
	queryVector := s.executeEmbeddingStep(processContext, embedText(message, extraction))

	// Vector DB Search
	matches := s.executeVectorSearchStep(processContext, inMethodLogger, queryVector)

	// History
	historyLines := s.recentHistory(processContext, inMethodLogger, chatId)

	// LLM Generation. Image uploads go to the vision model with the raw
	// bytes; everything else is answered from the assembled text prompt.
	prompt := buildChatPrompt(message, extraction, matches, historyLines)
	var answer string
	if extraction.FileType == commonModels.FileTypeImage && input.FilePath != "" {
		answer, err = s.executeVisionStep(processContext, prompt, input.FilePath)
	} else {
		answer, err = s.executeLLMStep(processContext, prompt)
	}
	if err != nil {
		return ChatResult{}, err
	}

	// Background persistence: interaction + question/answer pair.
	sourceURL := ""
	if extraction.FileType == commonModels.FileTypeYouTube {
		sourceURL = message
	}
	go s.persistExchange(context.WithoutCancel(ctx), message, answer, extraction, sourceURL)

	if err := s.history.AppendTurn(processContext, chatId, commonModels.Turn{
		Question: message,
		Answer:   answer,
	}); err != nil {
		inMethodLogger.Error("Failed to append chat turn", "error", err)
	}

	return ChatResult{Answer: answer, Similar: matches, ChatID: chatId}, nil
}

// Ask is the stateless endpoint: one question, one answer, no retrieval
// context and nothing persisted.
func (s *service) Ask(ctx context.Context, question string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureChatMetrics("ask", time.Since(start)) }()

	processContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	message, err := sanitizeMessage(question)
	if err != nil {
		return "", err
	}

	return s.executeLLMStep(processContext, message)
}

func (s *service) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string, prompt string) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureChatMetrics("analyze", time.Since(start)) }()

	processContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if prompt == "" {
		prompt = "Describe this image in detail."
	}

	answer, err := s.llmProvider.GenerateVision(processContext, prompt, imageData, mimeType)
	if err != nil {
		s.logger.Error("Vision generation failed", "error", err)
		return "", err
	}

	go s.persistExchange(context.WithoutCancel(ctx), prompt, answer,
		commonModels.Extraction{FileType: commonModels.FileTypeImage, Text: answer}, "")

	return answer, nil
}

func (s *service) DeleteInteraction(ctx context.Context, id string) error {
	if s.vectorDB == nil {
		return commonModels.NewPipelineError(commonModels.KindServiceUnavailable,
			"vector store is not available", nil)
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_delete", time.Since(start)) }()

	return s.vectorDB.Delete(ctx, id)
}

func (s *service) Availability(ctx context.Context) map[string]bool {
	return map[string]bool{
		"gemini":      s.llmProvider != nil,
		"vector_db":   s.vectorDB != nil,
		"history":     s.history != nil,
		"transcriber": s.transcriber,
	}
}

func (s *service) methodLogger(ctx context.Context, extra ...any) *logger_i.Logger {
	if traceId, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		return s.logger.With(append([]any{"traceId", traceId}, extra...)...)
	}
	return s.logger.With(extra...)
}

// ensureChat validates an incoming chat id or mints a new session.
func (s *service) ensureChat(ctx context.Context, log *logger_i.Logger, chatId string) string {
	if chatId != "" && s.history.ValidateChatId(ctx, chatId) {
		return chatId
	}
	newId := newChatId()
	if err := s.history.InitNewChat(ctx, newId); err != nil {
		log.Error("Failed to initialize chat session", "error", err)
	}
	return newId
}

func (s *service) executeExtractionStep(ctx context.Context, log *logger_i.Logger, message string, filePath string) (commonModels.Extraction, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("extraction", time.Since(start)) }()

	if filePath != "" {
		return s.extractor.Process(ctx, filePath)
	}

	if extract.IsURL(message) {
		if !youtube.IsYouTubeURL(message) {
			return commonModels.Extraction{}, commonModels.NewPipelineError(
				commonModels.KindUnsupportedURL,
				"only YouTube URLs are supported", nil)
		}
		log.Info("Building YouTube context", "url", message)
		return commonModels.Extraction{
			FileType: commonModels.FileTypeYouTube,
			Text:     s.video.BuildContext(ctx, message),
		}, nil
	}

	return commonModels.Extraction{FileType: commonModels.FileTypeDirectQuery}, nil
}

func (s *service) executeEmbeddingStep(ctx context.Context, text string) []float32 {
	return s.embedder.GetEmbedding(ctx, text)
}

func (s *service) executeVectorSearchStep(ctx context.Context, log *logger_i.Logger, emb []float32) []commonModels.Match {
	if s.vectorDB == nil {
		return nil
	}

	matches, err := s.vectorDB.Search(ctx, emb, config.SimilarSearchLimit)
	if err != nil {
		// Search failures degrade to plain generation rather than failing the chat.
		log.Error("Vector search failed", "error", err)
		return nil
	}
	return matches
}

func (s *service) recentHistory(ctx context.Context, log *logger_i.Logger, chatId string) []string {
	turns, err := s.history.RecentTurns(ctx, chatId)
	if err != nil {
		log.Error("Failed to load chat history", "error", err)
		return nil
	}
	return turns
}

func (s *service) executeLLMStep(ctx context.Context, prompt string) (string, error) {
	return s.llmProvider.Generate(ctx, prompt)
}

// executeVisionStep re-reads the saved upload and hands the pixels to the
// vision model; the prompt still carries retrieved context and history.
func (s *service) executeVisionStep(ctx context.Context, prompt string, path string) (string, error) {
	imageData, err := os.ReadFile(path)
	if err != nil {
		return "", commonModels.NewPipelineError(commonModels.KindExtractionFailed,
			"could not read the uploaded image", err)
	}
	mime, ok := extract.ImageMimeType(path)
	if !ok {
		mime = "application/octet-stream"
	}
	return s.llmProvider.GenerateVision(ctx, prompt, imageData, mime)
}
