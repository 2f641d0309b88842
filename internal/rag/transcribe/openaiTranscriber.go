package transcribe

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/vgorule/GeminiQA/internal/config"
	"github.com/vgorule/GeminiQA/internal/metrics"
	"github.com/vgorule/GeminiQA/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var transcriberInstance *openaiTranscriber

type openaiTranscriber struct {
	client openai.Client
}

// GetOpenAITranscriber returns nil when no API key is configured; callers
// treat a nil transcriber as "audio transcription not available".
func GetOpenAITranscriber(apikey string) Transcriber {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_transcribe")
		if apikey == "" {
			logger.Warn("No OpenAI API key, audio transcription disabled")
			return
		}
		transcriberInstance = &openaiTranscriber{
			client: openai.NewClient(option.WithAPIKey(apikey)),
		}
		logger.Info("OpenAI transcription client created")
	})

	if transcriberInstance == nil {
		return nil
	}
	return transcriberInstance
}

func (t *openaiTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("opening audio file: %w", err)
	}
	defer f.Close()

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("transcription", time.Since(start)) }()

	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  f,
		Model: openai.AudioModelWhisper1,
	})
	if err != nil {
		log.Error("Transcription failed", "file", audioPath, "error", err)
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	log.Debug("Transcribed audio", "file", audioPath, "chars", len(resp.Text))
	return resp.Text, nil
}
