package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/vgorule/GeminiQA/internal/config"
	"github.com/vgorule/GeminiQA/internal/data/store"
	"github.com/vgorule/GeminiQA/internal/handlers"
	"github.com/vgorule/GeminiQA/internal/rag"
	"github.com/vgorule/GeminiQA/internal/rag/embedding/googleEmbedding"
	"github.com/vgorule/GeminiQA/internal/rag/extract"
	"github.com/vgorule/GeminiQA/internal/rag/llm/gemini"
	"github.com/vgorule/GeminiQA/internal/rag/transcribe"
	"github.com/vgorule/GeminiQA/internal/rag/vectorDB"
	"github.com/vgorule/GeminiQA/internal/rag/vectorDB/qdrantDB"
	"github.com/vgorule/GeminiQA/internal/rag/youtube"
	"github.com/vgorule/GeminiQA/internal/server"
	"github.com/vgorule/GeminiQA/internal/telemetry"
	"github.com/vgorule/GeminiQA/pkg/logger_i"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using process environment")
	}
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	apikey := config.GoogleAPIKey()
	if apikey == "" {
		logger.Error("GOOGLE_API_KEY is not set. Shutting down.")
		return
	}

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	shutdownTracing, err := telemetry.Init(serviceContext)
	if err != nil {
		logger.Error("Tracing init failed, continuing without traces", "error", err)
	} else {
		defer shutdownTracing(context.Background())
	}

	//required services
	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GeminiEmbedModel, apikey)
	llmProvider := gemini.GetGeminiClient(serviceContext, apikey)

	if embeddingService == nil || llmProvider == nil {
		logger.Error("Gemini services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	//optional services: the pipeline degrades without them
	var vector vectorDB.DataProcessor
	if config.VectorDBDisabled() {
		logger.Warn("Vector store disabled by configuration")
	} else if holder := qdrantDB.GetQdrantClient(serviceContext); holder != nil {
		vector = holder
	} else {
		logger.Warn("Vector store is offline, similarity search disabled")
	}

	var transcriber transcribe.Transcriber
	if !config.TranscriberDisabled() {
		transcriber = transcribe.GetOpenAITranscriber(config.OpenAIAPIKey())
	}
	if transcriber == nil {
		logger.Warn("Transcription unavailable, audio and YouTube fall back to metadata")
	}

	history := historyStore(serviceContext, logger)

	ragService := rag.NewService(
		vector,
		llmProvider,
		embeddingService,
		history,
		extract.New(transcriber),
		youtube.GetProcessor(transcriber),
		transcriber != nil,
	)

	handler := handlers.New(ragService)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, handler)

	<-stopExecution
	logger.Info("Server stopped")
}

func historyStore(ctx context.Context, logger *logger_i.Logger) store.HistoryStore {
	if redisHistory := store.GetRedisHistoryStore(ctx); redisHistory != nil {
		return redisHistory
	}
	logger.Error("Redis store is offline, chat history kept in memory")
	return store.InitInMemoryHistoryStore()
}
