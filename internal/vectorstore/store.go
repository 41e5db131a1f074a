// Package vectorstore persists (id, text, metadata, vector) rows and answers
// nearest-neighbor queries by cosine similarity. Backends: an in-memory
// linear-scan store, a Postgres/pgvector store, and a chromem-go local
// persistent store. The backend is selected once at construction; if a
// durable backend is unreachable at that point the factory falls back to the
// in-memory store rather than failing startup.
package vectorstore

import (
	"context"
	"errors"
	"fmt"

	"advisor-rag/internal/schema"
)

// ErrStoreUnreachable wraps construction-time connection failures of a
// durable backend. The factory handles it locally; runtime connectivity loss
// during add/search is surfaced unwrapped instead.
var ErrStoreUnreachable = errors.New("vector store unreachable")

// DimensionError reports a vector whose length does not match the store's
// configured dimension. It is raised before any mutation or I/O.
type DimensionError struct {
	Got  int
	Want int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embedding dimension %d does not match store dimension %d", e.Got, e.Want)
}

// Mode tags which backend a constructed store runs on.
type Mode string

const (
	ModeMemory   Mode = "memory"
	ModePostgres Mode = "postgres"
	ModeChromem  Mode = "chromem"
)

// Row is one (chunk, embedding) pair for batch upserts.
type Row struct {
	Chunk     schema.Chunk
	Embedding []float32
}

// Store is the storage contract the pipeline depends on. AddMany upserts by
// chunk id; a later write for the same id replaces content, metadata and
// vector. Search returns at most limit results in descending score order.
type Store interface {
	Add(ctx context.Context, chunk schema.Chunk, embedding []float32) error
	AddMany(ctx context.Context, rows []Row) error
	Search(ctx context.Context, embedding []float32, limit int) ([]schema.ScoredChunk, error)
}

func checkDim(got, want int) error {
	if got != want {
		return &DimensionError{Got: got, Want: want}
	}
	return nil
}
