package embedder

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"math"
	"strings"
)

const (
	// DefaultDim matches the width of the common embedding models this
	// service pairs with, so in-memory and durable rows stay compatible.
	DefaultDim = 768
	// DefaultSeed parameterizes the token hash; changing it produces a
	// different but equally valid embedding space.
	DefaultSeed = 13
)

// HashEmbedder is a deterministic bag-of-words embedder: each lowercased
// whitespace token is hashed into one of Dim buckets and the bucket counts
// are L2-normalized. No external service involved, which keeps offline
// operation and tests reproducible.
type HashEmbedder struct {
	Dim  int
	Seed uint64
}

// NewHashEmbedder returns a hash embedder with the given dimension, applying
// defaults for non-positive dimensions.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &HashEmbedder{Dim: dim, Seed: DefaultSeed}
}

// EmbedQuery embeds a single text.
func (h *HashEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, h.Dim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		vec[h.bucket(token)] += 1.0
	}
	normalize(vec)
	return vec, nil
}

// EmbedDocuments embeds each text independently, preserving input order.
func (h *HashEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := h.EmbedQuery(ctx, text)
		if err != nil {
			return nil, err
		}
		vecs[i] = vec
	}
	return vecs, nil
}

func (h *HashEmbedder) bucket(token string) int {
	hasher := fnv.New64a()
	var seed [8]byte
	binary.LittleEndian.PutUint64(seed[:], h.Seed)
	hasher.Write(seed[:])
	hasher.Write([]byte(token))
	return int(hasher.Sum64() % uint64(h.Dim))
}

// normalize scales vec to unit length in place. An all-zero vector is left
// untouched rather than divided by zero.
func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		norm = 1.0
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
