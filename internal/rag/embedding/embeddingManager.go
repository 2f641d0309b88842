package embedding

import "context"

// Embedder turns text into a fixed-dimension vector. Implementations must
// never fail the pipeline: empty input or a provider failure yields the
// all-zero vector of the configured dimension instead of an error.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) []float32
	Dimension() int
}
