package googleEmbedding

import (
	"context"
	"sync"
	"time"

	"github.com/vgorule/GeminiQA/internal/config"
	"github.com/vgorule/GeminiQA/internal/metrics"
	"github.com/vgorule/GeminiQA/internal/rag/embedding"
	"github.com/vgorule/GeminiQA/pkg/logger_i"
	"google.golang.org/genai"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi *genai.Client
	model string
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		newGoogleEmbedder(ctx, modelName, apikey)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model}
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
		return
	}
	embeddingClient = &client{
		genAi: c,
		model: modelName,
	}
	logger.Info("Google Embedding client created", "model", modelName)
	go closeClient(ctx, embeddingClient)
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
	embeddingClient.genAi = nil
	embeddingClient.model = ""
}

func (c *client) Dimension() int {
	return int(dimension)
}

// GetEmbedding chunks long text, embeds each chunk, and averages the chunk
// vectors. Any failure degrades to the zero vector so the rest of the
// pipeline keeps moving; retrieval quality for that record suffers silently.
func (c *client) GetEmbedding(ctx context.Context, text string) []float32 {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	dim := int(dimension)
	chunks := embedding.SplitChunks(text, config.EmbeddingChunkSize)
	if len(chunks) == 0 {
		log.Warn("Empty text given to embedder, returning zero vector")
		return embedding.ZeroVector(dim)
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	result, err := c.doCall(ctx, getContent(chunks))
	if err != nil || result == nil || len(result.Embeddings) == 0 {
		if doRetry(err, log) {
			time.Sleep(5 * time.Second)
			log.Debug("Retrying embedding call")
			result, err = c.doCall(ctx, getContent(chunks))
		}
		if err != nil || result == nil || len(result.Embeddings) == 0 {
			log.Error("Error getting embeddings from Google, returning zero vector", "error", err)
			return embedding.ZeroVector(dim)
		}
	}

	vectors := make([][]float32, 0, len(result.Embeddings))
	for _, r := range result.Embeddings {
		vectors = append(vectors, embedding.FitDimension(r.Values, dim))
	}
	return embedding.MeanVector(vectors, dim)
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             "RETRIEVAL_DOCUMENT",
	})
}
