package pipeline

import (
	"sort"

	"advisor-rag/internal/schema"
)

// rrfSmoothing dampens the influence of rank position. 60 is the standard
// reciprocal-rank-fusion constant; it also keeps one retriever from
// dominating if multiple candidate lists are fused later.
const rrfSmoothing = 60.0

// Fuse reduces a ranked candidate list (best first) to at most limit
// distinct chunks by reciprocal rank fusion: each occurrence at 1-based rank
// r contributes 1/(r+60) to its chunk's fused score. Ties in fused score
// keep the first-occurrence order of the input list, and a duplicated chunk
// id maps back to its first occurrence.
func Fuse(candidates []schema.ScoredChunk, limit int) []schema.ScoredChunk {
	if len(candidates) == 0 {
		return nil
	}
	scores := make(map[string]float64, len(candidates))
	first := make(map[string]schema.ScoredChunk, len(candidates))
	order := make([]string, 0, len(candidates))
	for rank, item := range candidates {
		id := item.Chunk.ID
		if _, seen := scores[id]; !seen {
			order = append(order, id)
			first[id] = item
		}
		scores[id] += 1.0 / (float64(rank+1) + rrfSmoothing)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	if limit >= 0 && limit < len(order) {
		order = order[:limit]
	}

	fused := make([]schema.ScoredChunk, len(order))
	for i, id := range order {
		fused[i] = first[id]
	}
	return fused
}
