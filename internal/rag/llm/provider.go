package llm

import "context"

type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateVision(ctx context.Context, prompt string, imageData []byte, mimeType string) (string, error)
}
