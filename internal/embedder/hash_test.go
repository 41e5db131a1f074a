package embedder

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashEmbedderDeterministic(t *testing.T) {
	ctx := context.Background()
	e := NewHashEmbedder(32)

	a, err := e.EmbedQuery(ctx, "matte white fronts")
	require.NoError(t, err)
	b, err := e.EmbedQuery(ctx, "matte white fronts")
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Len(t, a, 32)
}

func TestHashEmbedderUnitNorm(t *testing.T) {
	e := NewHashEmbedder(64)
	vec, err := e.EmbedQuery(context.Background(), "walnut lowers pair with stainless pulls")
	require.NoError(t, err)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	require.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestHashEmbedderEmptyText(t *testing.T) {
	e := NewHashEmbedder(16)
	vec, err := e.EmbedQuery(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, vec, 16)
	for _, v := range vec {
		require.Zero(t, v)
	}
}

func TestHashEmbedderBatchOrder(t *testing.T) {
	ctx := context.Background()
	e := NewHashEmbedder(32)
	texts := []string{"first text", "second text", "third text"}

	vecs, err := e.EmbedDocuments(ctx, texts)
	require.NoError(t, err)
	require.Len(t, vecs, len(texts))
	for i, text := range texts {
		single, err := e.EmbedQuery(ctx, text)
		require.NoError(t, err)
		require.Equal(t, single, vecs[i])
	}
}

func TestHashEmbedderCaseInsensitiveTokens(t *testing.T) {
	ctx := context.Background()
	e := NewHashEmbedder(32)

	a, err := e.EmbedQuery(ctx, "Matte WHITE")
	require.NoError(t, err)
	b, err := e.EmbedQuery(ctx, "matte white")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestInferDimension(t *testing.T) {
	dim := InferDimension(context.Background(), NewHashEmbedder(48), 768)
	require.Equal(t, 48, dim)
}

type failingEmbedder struct{}

func (failingEmbedder) EmbedQuery(context.Context, string) ([]float32, error) {
	return nil, ErrUnavailable
}

func (failingEmbedder) EmbedDocuments(context.Context, []string) ([][]float32, error) {
	return nil, ErrUnavailable
}

func TestInferDimensionFallback(t *testing.T) {
	dim := InferDimension(context.Background(), failingEmbedder{}, 768)
	require.Equal(t, 768, dim)
}
