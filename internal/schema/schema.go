// Package schema holds the wire types shared by the API layer and the
// retrieval pipeline.
package schema

// Chunk is a normalized unit of ingestible text. It is immutable once
// created; re-ingesting the same ID replaces the stored row.
type Chunk struct {
	ID       string         `json:"chunk_id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Title returns the chunk's display label, falling back to its ID when no
// title metadata is present.
func (c Chunk) Title() string {
	if c.Metadata != nil {
		if v, ok := c.Metadata["title"]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return c.ID
}

// ScoredChunk pairs a chunk with its similarity score for one query.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// DefaultLocale is applied when a query request carries no locale tag.
const DefaultLocale = "en-US"

// QueryRequest is one retrieval question.
type QueryRequest struct {
	Question string `json:"question"`
	Locale   string `json:"locale,omitempty"`
	K        int    `json:"k,omitempty"`
	Rerank   *bool  `json:"rerank,omitempty"`
}

// Normalize fills locale and rerank defaults in place.
func (r *QueryRequest) Normalize() {
	if r.Locale == "" {
		r.Locale = DefaultLocale
	}
	if r.Rerank == nil {
		t := true
		r.Rerank = &t
	}
}

// Suggestion is one line of advisor guidance. Reasoning carries the full
// generated answer so consumers keep complete context per suggestion.
type Suggestion struct {
	Summary        string `json:"summary"`
	Reasoning      string `json:"reasoning"`
	TokensConsumed int    `json:"tokens_consumed"`
}

// Citation references a chunk that grounded the answer.
type Citation struct {
	ChunkID string `json:"chunk_id"`
	Label   string `json:"label"`
	URL     string `json:"url,omitempty"`
}

// AdvisorResponse is the full answer for one query, including the reranked
// candidate set for observability.
type AdvisorResponse struct {
	Question    string        `json:"question"`
	Locale      string        `json:"locale"`
	Suggestions []Suggestion  `json:"suggestions"`
	Citations   []Citation    `json:"citations"`
	Retrieved   []ScoredChunk `json:"retrieved"`
	Generator   string        `json:"generator"`
}
