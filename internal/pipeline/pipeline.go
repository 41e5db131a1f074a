// Package pipeline orchestrates embedding, vector search, rank fusion and
// answer generation into the ingest and query operations.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"advisor-rag/internal/embedder"
	"advisor-rag/internal/generator"
	"advisor-rag/internal/schema"
	"advisor-rag/internal/vectorstore"
)

// BatchSizeError reports an embedding provider that returned a different
// number of vectors than texts submitted. That is a provider contract
// violation, not a user error, and is never retried.
type BatchSizeError struct {
	Texts   int
	Vectors int
}

func (e *BatchSizeError) Error() string {
	return fmt.Sprintf("embedding provider returned %d vectors for %d texts", e.Vectors, e.Texts)
}

const (
	// DefaultK is the result count when neither the request nor the
	// configuration provides one.
	DefaultK = 4

	promptPreamble = "You are a deterministic kitchen design advisor.\n" +
		"Use the CONTEXT to answer the QUESTION.\n" +
		"Return 2 concise suggestions referencing chunk ids in brackets.\n"

	maxSuggestions     = 2
	summaryFallbackLen = 120
)

// Params wires a pipeline's collaborators. Backends are fixed for the
// pipeline's lifetime; there is no per-request switching.
type Params struct {
	Store        vectorstore.Store
	StoreMode    vectorstore.Mode
	Embedder     embedder.Embedder
	Generator    generator.Generator
	GeneratorTag string
	DefaultK     int
}

// Pipeline composes the embedding provider, vector store and generation
// provider. Safe for concurrent use as long as its collaborators are.
type Pipeline struct {
	store        vectorstore.Store
	storeMode    vectorstore.Mode
	embedder     embedder.Embedder
	generator    generator.Generator
	generatorTag string
	defaultK     int
}

// New assembles a pipeline from its collaborators.
func New(p Params) *Pipeline {
	if p.DefaultK <= 0 {
		p.DefaultK = DefaultK
	}
	return &Pipeline{
		store:        p.Store,
		storeMode:    p.StoreMode,
		embedder:     p.Embedder,
		generator:    p.Generator,
		generatorTag: p.GeneratorTag,
		defaultK:     p.DefaultK,
	}
}

// StoreMode reports which storage backend the pipeline runs on.
func (p *Pipeline) StoreMode() vectorstore.Mode { return p.storeMode }

// GeneratorTag reports which generation backend labels responses.
func (p *Pipeline) GeneratorTag() string { return p.generatorTag }

// Ingest embeds all chunk contents in one provider call and upserts the
// batch into the store. An empty input returns 0 without touching either
// collaborator. Returns the number of chunks ingested.
func (p *Pipeline) Ingest(ctx context.Context, chunks []schema.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(chunks) {
		return 0, &BatchSizeError{Texts: len(chunks), Vectors: len(vectors)}
	}
	rows := make([]vectorstore.Row, len(chunks))
	for i, chunk := range chunks {
		rows[i] = vectorstore.Row{Chunk: chunk, Embedding: vectors[i]}
	}
	if err := p.store.AddMany(ctx, rows); err != nil {
		return 0, err
	}
	log.Debug().Int("chunks", len(chunks)).Msg("Ingested chunk batch")
	return len(chunks), nil
}

// Query answers one request: embed the question, over-fetch 2x candidates,
// rerank (or truncate), generate against the assembled prompt, and bind
// suggestions and citations.
func (p *Pipeline) Query(ctx context.Context, req schema.QueryRequest) (*schema.AdvisorResponse, error) {
	req.Normalize()
	limit := p.defaultK
	if req.K > 0 {
		limit = req.K
	}

	queryVec, err := p.embedder.EmbedQuery(ctx, req.Question)
	if err != nil {
		return nil, err
	}
	retrieved, err := p.store.Search(ctx, queryVec, limit*2)
	if err != nil {
		return nil, err
	}

	var reranked []schema.ScoredChunk
	if *req.Rerank {
		reranked = Fuse(retrieved, limit)
	} else {
		reranked = retrieved
		if limit < len(reranked) {
			reranked = reranked[:limit]
		}
	}

	prompt := buildPrompt(reranked, req.Question, req.Locale)
	answer, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	citations := make([]schema.Citation, 0, limit)
	for _, item := range reranked {
		if len(citations) == limit {
			break
		}
		citations = append(citations, schema.Citation{
			ChunkID: item.Chunk.ID,
			Label:   item.Chunk.Title(),
		})
	}

	if reranked == nil {
		reranked = []schema.ScoredChunk{}
	}
	return &schema.AdvisorResponse{
		Question:    req.Question,
		Locale:      req.Locale,
		Suggestions: buildSuggestions(answer),
		Citations:   citations,
		Retrieved:   reranked,
		Generator:   p.generatorTag,
	}, nil
}

func buildPrompt(retrieved []schema.ScoredChunk, question, locale string) string {
	var context strings.Builder
	for i, item := range retrieved {
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "[%s] score=%.2f\n%s", item.Chunk.ID, item.Score, item.Chunk.Content)
	}
	return fmt.Sprintf("%sCONTEXT:\n%s\nQUESTION: %s\nLocale: %s",
		promptPreamble, context.String(), question, locale)
}

// buildSuggestions wraps each non-empty generated line as a suggestion.
// Reasoning is deliberately the complete answer rather than the single line,
// so downstream consumers keep full context.
func buildSuggestions(answer string) []schema.Suggestion {
	tokens := len(strings.Fields(answer))
	var suggestions []schema.Suggestion
	for _, line := range strings.Split(answer, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		suggestions = append(suggestions, schema.Suggestion{
			Summary:        trimmed,
			Reasoning:      answer,
			TokensConsumed: tokens,
		})
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	if len(suggestions) == 0 {
		summary := answer
		if len(summary) > summaryFallbackLen {
			summary = summary[:summaryFallbackLen]
		}
		suggestions = append(suggestions, schema.Suggestion{
			Summary:        summary,
			Reasoning:      answer,
			TokensConsumed: tokens,
		})
	}
	return suggestions
}
