package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkTitle(t *testing.T) {
	titled := Chunk{ID: "c1", Metadata: map[string]any{"title": "finishes"}}
	require.Equal(t, "finishes", titled.Title())

	untitled := Chunk{ID: "c2"}
	require.Equal(t, "c2", untitled.Title())

	nonString := Chunk{ID: "c3", Metadata: map[string]any{"title": 42}}
	require.Equal(t, "c3", nonString.Title())

	empty := Chunk{ID: "c4", Metadata: map[string]any{"title": ""}}
	require.Equal(t, "c4", empty.Title())
}

func TestQueryRequestNormalize(t *testing.T) {
	req := QueryRequest{Question: "What finish pairs well?"}
	req.Normalize()
	require.Equal(t, DefaultLocale, req.Locale)
	require.NotNil(t, req.Rerank)
	require.True(t, *req.Rerank)

	explicit := false
	req = QueryRequest{Question: "q", Locale: "de-DE", Rerank: &explicit}
	req.Normalize()
	require.Equal(t, "de-DE", req.Locale)
	require.False(t, *req.Rerank)
}
