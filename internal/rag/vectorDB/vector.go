package vectorDB

import (
	"context"

	"github.com/vgorule/GeminiQA/internal/domain/commonModels"
)

// DataProcessor is the one pinned vector store contract. There is exactly one
// call shape per operation; supporting another backend version means writing
// an explicit adapter, not probing SDK surfaces at runtime.
type DataProcessor interface {
	Store(ctx context.Context, record commonModels.Interaction, vector []float32) (string, error)
	Search(ctx context.Context, vector []float32, limit int) ([]commonModels.Match, error)
	Delete(ctx context.Context, id string) error
}
