package vectorstore

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"

	"advisor-rag/internal/schema"
)

// ChromemStore keeps rows in a chromem-go collection persisted on local
// disk: durable without a database server. chromem-go keys documents by ID,
// so re-adding a chunk overwrites its previous row.
//
// chromem-go metadata values are strings; non-string chunk metadata is
// stringified on write and comes back as strings on search.
type ChromemStore struct {
	collection *chromem.Collection
	dim        int
}

// NewChromemStore opens (or creates) a persistent collection at path.
// Failures are wrapped in ErrStoreUnreachable for the factory fallback.
func NewChromemStore(path, collectionName string, dim int) (*ChromemStore, error) {
	if collectionName == "" {
		collectionName = DefaultTable
	}
	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnreachable, err)
	}
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnreachable, err)
	}
	return &ChromemStore{collection: collection, dim: dim}, nil
}

// Dim reports the store's fixed vector dimension.
func (s *ChromemStore) Dim() int { return s.dim }

func (s *ChromemStore) Add(ctx context.Context, chunk schema.Chunk, embedding []float32) error {
	return s.AddMany(ctx, []Row{{Chunk: chunk, Embedding: embedding}})
}

func (s *ChromemStore) AddMany(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	docs := make([]chromem.Document, len(rows))
	for i, row := range rows {
		if err := checkDim(len(row.Embedding), s.dim); err != nil {
			return err
		}
		docs[i] = chromem.Document{
			ID:        row.Chunk.ID,
			Content:   row.Chunk.Content,
			Metadata:  stringMetadata(row.Chunk.Metadata),
			Embedding: row.Embedding,
		}
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}
	return nil
}

func (s *ChromemStore) Search(ctx context.Context, embedding []float32, limit int) ([]schema.ScoredChunk, error) {
	if err := checkDim(len(embedding), s.dim); err != nil {
		return nil, err
	}
	// chromem-go rejects result counts above the collection size.
	if count := s.collection.Count(); limit > count {
		limit = count
	}
	if limit <= 0 {
		return nil, nil
	}
	found, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: embedding,
		NResults:       limit,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]schema.ScoredChunk, len(found))
	for i, res := range found {
		metadata := make(map[string]any, len(res.Metadata))
		for k, v := range res.Metadata {
			metadata[k] = v
		}
		results[i] = schema.ScoredChunk{
			Chunk: schema.Chunk{ID: res.ID, Content: res.Content, Metadata: metadata},
			Score: float64(res.Similarity),
		}
	}
	return results, nil
}

func stringMetadata(metadata map[string]any) map[string]string {
	if len(metadata) == 0 {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}
