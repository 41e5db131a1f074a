package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"

	"advisor-rag/internal/schema"
)

type memoryRow struct {
	chunk schema.Chunk
	vec   []float32 // unit-normalized at insertion
}

// MemoryStore is a linear-scan store holding normalized vectors in insertion
// order. Upserts replace the existing row in place, so ties between equal
// scores resolve by first-seen position. Safe for concurrent use.
type MemoryStore struct {
	dim   int
	mu    sync.RWMutex
	rows  []memoryRow
	index map[string]int
}

// NewMemoryStore creates an empty store with a fixed dimension.
func NewMemoryStore(dim int) *MemoryStore {
	return &MemoryStore{
		dim:   dim,
		index: make(map[string]int),
	}
}

// Dim reports the store's fixed vector dimension.
func (s *MemoryStore) Dim() int { return s.dim }

// Len reports the number of stored rows.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

func (s *MemoryStore) Add(ctx context.Context, chunk schema.Chunk, embedding []float32) error {
	return s.AddMany(ctx, []Row{{Chunk: chunk, Embedding: embedding}})
}

// AddMany validates every vector before touching the row set, so a
// dimension mismatch anywhere in the batch leaves no partial write.
func (s *MemoryStore) AddMany(_ context.Context, rows []Row) error {
	for _, row := range rows {
		if err := checkDim(len(row.Embedding), s.dim); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		normalized := unitVector(row.Embedding)
		if pos, ok := s.index[row.Chunk.ID]; ok {
			s.rows[pos] = memoryRow{chunk: row.Chunk, vec: normalized}
			continue
		}
		s.index[row.Chunk.ID] = len(s.rows)
		s.rows = append(s.rows, memoryRow{chunk: row.Chunk, vec: normalized})
	}
	return nil
}

// Search scores every stored row by the dot product of unit vectors, which
// equals cosine similarity.
func (s *MemoryStore) Search(_ context.Context, embedding []float32, limit int) ([]schema.ScoredChunk, error) {
	if err := checkDim(len(embedding), s.dim); err != nil {
		return nil, err
	}
	query := unitVector(embedding)

	s.mu.RLock()
	scored := make([]schema.ScoredChunk, len(s.rows))
	for i, row := range s.rows {
		scored[i] = schema.ScoredChunk{Chunk: row.chunk, Score: dot(query, row.vec)}
	}
	s.mu.RUnlock()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if limit < 0 {
		limit = 0
	}
	if limit < len(scored) {
		scored = scored[:limit]
	}
	return scored, nil
}

func unitVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1.0
	}
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
