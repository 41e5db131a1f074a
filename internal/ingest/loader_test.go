package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "finishes.txt", "Matte white fronts pair with walnut lowers.")

	chunks, err := LoadFile(path, Options{})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Equal(t, "Matte white fronts pair with walnut lowers.", chunks[0].Content)
	require.Equal(t, "finishes", chunks[0].Metadata["title"])
	require.Equal(t, "txt", chunks[0].Metadata["type"])
	require.Equal(t, path, chunks[0].Metadata["source"])
	require.Equal(t, 0, chunks[0].Metadata["index"])
	require.True(t, strings.HasPrefix(chunks[0].ID, "chunk_"))
	require.Len(t, chunks[0].ID, len("chunk_")+10)
}

func TestLoadFileMarkdownStripsSyntax(t *testing.T) {
	path := writeFile(t, t.TempDir(), "guide.md", "# Hardware\n\nStainless **pulls** complement matte textures.\n")

	chunks, err := LoadFile(path, Options{})
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	joined := chunks[0].Content
	require.Contains(t, joined, "Stainless pulls complement matte textures.")
	require.NotContains(t, joined, "**")
	require.NotContains(t, joined, "#")
}

func TestLoadFileStableIDs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "stable content")

	first, err := LoadFile(path, Options{})
	require.NoError(t, err)
	second, err := LoadFile(path, Options{})
	require.NoError(t, err)
	require.Equal(t, first[0].ID, second[0].ID, "re-ingesting the same file upserts by id")
}

func TestLoadFileSplitsLongText(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog. ")
	}
	path := writeFile(t, t.TempDir(), "long.txt", b.String())

	chunks, err := LoadFile(path, Options{ChunkSize: 200, ChunkOverlap: 40})
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	seen := map[string]bool{}
	for i, chunk := range chunks {
		require.False(t, seen[chunk.ID], "chunk ids are unique per file")
		seen[chunk.ID] = true
		require.Equal(t, i, chunk.Metadata["index"])
	}
}

func TestLoadFileEmpty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.txt", "   \n  ")
	chunks, err := LoadFile(path, Options{})
	require.NoError(t, err)
	require.Empty(t, chunks)
}

func TestLoadFileUnsupported(t *testing.T) {
	path := writeFile(t, t.TempDir(), "image.png", "not text")
	_, err := LoadFile(path, Options{})
	require.ErrorContains(t, err, "unsupported file format")
}

func TestLoadGlob(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.txt", "first document body")
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, sub, "two.txt", "second document body")

	chunks, err := LoadGlob(filepath.Join(dir, "**", "*.txt"), Options{})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
}
