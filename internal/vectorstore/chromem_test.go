package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"advisor-rag/internal/schema"
)

func newChromem(t *testing.T) *ChromemStore {
	t.Helper()
	store, err := NewChromemStore(t.TempDir(), "test_chunks", 3)
	require.NoError(t, err)
	return store
}

func TestChromemStoreRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := newChromem(t)

	require.NoError(t, store.AddMany(ctx, []Row{
		{Chunk: schema.Chunk{ID: "c1", Content: "walnut lowers", Metadata: map[string]any{"title": "finishes", "index": 0}}, Embedding: []float32{1, 0, 0}},
		{Chunk: schema.Chunk{ID: "c2", Content: "stainless pulls", Metadata: map[string]any{"title": "hardware", "index": 1}}, Embedding: []float32{0, 1, 0}},
	}))

	results, err := store.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "c1", results[0].Chunk.ID)
	require.Equal(t, "walnut lowers", results[0].Chunk.Content)
	require.Equal(t, "finishes", results[0].Chunk.Metadata["title"])
	// chromem metadata is string-valued; non-strings are stringified.
	require.Equal(t, "0", results[0].Chunk.Metadata["index"])
	require.Greater(t, results[0].Score, results[1].Score)
}

func TestChromemStoreUpsert(t *testing.T) {
	ctx := context.Background()
	store := newChromem(t)

	require.NoError(t, store.Add(ctx, schema.Chunk{ID: "c1", Content: "old"}, []float32{1, 0, 0}))
	require.NoError(t, store.Add(ctx, schema.Chunk{ID: "c1", Content: "new"}, []float32{1, 0, 0}))

	results, err := store.Search(ctx, []float32{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "new", results[0].Chunk.Content)
}

func TestChromemStoreDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	store := newChromem(t)

	err := store.Add(ctx, schema.Chunk{ID: "c1", Content: "x"}, []float32{1, 0})
	var dimErr *DimensionError
	require.ErrorAs(t, err, &dimErr)

	_, err = store.Search(ctx, []float32{1, 0, 0, 0}, 3)
	require.ErrorAs(t, err, &dimErr)
}

func TestChromemStoreEmptySearch(t *testing.T) {
	store := newChromem(t)
	results, err := store.Search(context.Background(), []float32{1, 0, 0}, 4)
	require.NoError(t, err)
	require.Empty(t, results)
}
