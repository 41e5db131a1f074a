// Package embedder maps text to fixed-dimension vectors. Two backends exist:
// a deterministic hash embedder that needs no network access, and an adapter
// over an OpenAI-compatible embedding service. The backend is chosen once at
// construction; the pipeline never switches mid-request.
package embedder

import (
	"context"
	"errors"
)

// ErrUnavailable marks a failed call to an external embedding backend.
var ErrUnavailable = errors.New("embedding backend unavailable")

// Embedder produces fixed-dimension vectors for queries and document batches.
// EmbedDocuments is order-preserving and returns one vector per input text.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

const dimensionProbe = "__dimension_probe__"

// InferDimension probes the embedder with a sentinel string and reports the
// resulting vector length. The configured fallback applies when the probe
// fails or returns an empty vector.
func InferDimension(ctx context.Context, e Embedder, fallback int) int {
	vec, err := e.EmbedQuery(ctx, dimensionProbe)
	if err != nil || len(vec) == 0 {
		return fallback
	}
	return len(vec)
}
