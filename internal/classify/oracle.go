package classify

import (
	"context"

	"secondbrain/internal/model"
)

// Oracle maps free text to a structured classification guess. Implementations
// are unreliable by contract: they may time out, return low confidence, or
// omit the due date entirely. Callers must carry a fallback.
type Oracle interface {
	Classify(ctx context.Context, text string) (*model.Classification, error)
}

// Embedder turns text into a vector for semantic search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
