package gemini

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vgorule/GeminiQA/internal/config"
	"github.com/vgorule/GeminiQA/internal/metrics"
	"github.com/vgorule/GeminiQA/internal/rag/llm"
	"github.com/vgorule/GeminiQA/pkg/logger_i"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"
)

type llmClient struct {
	client      *genai.Client
	textModel   string
	visionModel string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

var tracer = otel.Tracer("llm_gemini")

func GetGeminiClient(ctx context.Context, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{
		client:      geminiClient.client,
		textModel:   geminiClient.textModel,
		visionModel: geminiClient.visionModel,
	}
}

func newGeminiClient(ctx context.Context, apikey string) {

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		return
	}
	geminiClient = &llmClient{
		client:      c,
		textModel:   config.GeminiTextModel,
		visionModel: config.GeminiVisionModel,
	}
	logger.Info("Gemini client created", "textModel", config.GeminiTextModel)
	go closeClient(ctx, geminiClient)
}

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, "text_generate", c.textModel, genai.Text(prompt))
}

func (c *llmClient) GenerateVision(ctx context.Context, prompt string, imageData []byte, mimeType string) (string, error) {
	parts := []*genai.Part{
		{InlineData: &genai.Blob{Data: imageData, MIMEType: mimeType}},
	}
	if prompt != "" {
		parts = append([]*genai.Part{{Text: prompt}}, parts...)
	}
	contents := []*genai.Content{{Parts: parts}}
	return c.generate(ctx, "vision_generate", c.visionModel, contents)
}

// generate runs one model call wrapped in a span recording input size,
// output size, latency and errors. With no OTLP endpoint configured the
// global tracer provider is a no-op.
func (c *llmClient) generate(ctx context.Context, spanName string, model string, contents []*genai.Content) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	ctx, span := tracer.Start(ctx, spanName)
	defer span.End()
	span.SetAttributes(
		attribute.String("gen_ai.request.model", model),
		attribute.Int("gen_ai.prompt.parts", len(contents)),
	)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics(spanName, time.Since(start)) }()

	systemInstruction := &genai.Content{
		Parts: []*genai.Part{
			{Text: config.ModelContext},
		},
	}

	result, err := c.client.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		log.Error("Gemini generation failed", "model", model, "error", err)
		return "", err
	}

	answer := result.Text()
	if answer == "" {
		err = errors.New("empty model response")
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty response")
		return "", err
	}

	span.SetAttributes(attribute.Int("gen_ai.response.chars", len(answer)))
	return answer, nil
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llm.client = nil
	llm.textModel = ""
	llm.visionModel = ""
}
