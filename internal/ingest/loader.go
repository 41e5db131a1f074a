// Package ingest loads documents from disk and splits them into chunks
// ready for the pipeline. Chunk ids are content-derived (path and index),
// so re-ingesting the same files upserts instead of duplicating.
package ingest

import (
	"crypto/sha1"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tmc/langchaingo/textsplitter"

	"advisor-rag/internal/schema"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// Options controls the character splitter.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}
	if o.ChunkOverlap < 0 || o.ChunkOverlap >= o.ChunkSize {
		o.ChunkOverlap = defaultChunkOverlap
	}
	return o
}

// LoadGlob expands a doublestar pattern (supports **) and chunks every
// regular file it matches, in match order.
func LoadGlob(pattern string, opts Options) ([]schema.Chunk, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding glob %q: %w", pattern, err)
	}
	var chunks []schema.Chunk
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		fileChunks, err := LoadFile(match, opts)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, fileChunks...)
	}
	return chunks, nil
}

// LoadFile extracts plain text from one file and splits it into chunks with
// source metadata attached.
func LoadFile(path string, opts Options) ([]schema.Chunk, error) {
	opts = opts.withDefaults()
	text, err := extractText(path)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(opts.ChunkSize),
		textsplitter.WithChunkOverlap(opts.ChunkOverlap),
	)
	pieces, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("splitting %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	chunks := make([]schema.Chunk, 0, len(pieces))
	for idx, piece := range pieces {
		chunks = append(chunks, schema.Chunk{
			ID:      chunkID(path, idx),
			Content: piece,
			Metadata: map[string]any{
				"source": path,
				"title":  stem,
				"type":   strings.TrimPrefix(ext, "."),
				"index":  idx,
			},
		})
	}
	return chunks, nil
}

// chunkID derives a stable id from the file path and chunk index.
func chunkID(path string, idx int) string {
	digest := sha1.Sum([]byte(fmt.Sprintf("%s:%d", path, idx)))
	return fmt.Sprintf("chunk_%x", digest[:5])
}

func extractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ".md", ".markdown":
		return extractMarkdown(path)
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	case ".xlsx", ".ods":
		return extractSpreadsheet(path)
	default:
		return "", fmt.Errorf("unsupported file format: %s", filepath.Ext(path))
	}
}
