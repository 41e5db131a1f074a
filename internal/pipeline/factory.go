package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"advisor-rag/internal/config"
	"advisor-rag/internal/embedder"
	"advisor-rag/internal/generator"
	"advisor-rag/internal/vectorstore"
)

// Build inspects the configuration once and assembles a pipeline: external
// backends when an API key is present, deterministic fallbacks otherwise,
// and the storage backend per the DSN/chromem-path precedence with
// construction-time fallback to in-memory.
func Build(ctx context.Context, cfg *config.Config) (*Pipeline, error) {
	emb, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	dim := embedder.InferDimension(ctx, emb, cfg.EmbedDim)

	store, mode := vectorstore.Build(ctx, vectorstore.Options{
		DSN:         cfg.VectorDSN,
		Table:       cfg.VectorTable,
		ChromemPath: cfg.ChromemPath,
		Dim:         dim,
		Debug:       cfg.DBDebug,
	})

	gen, tag, err := buildGenerator(cfg)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("store", string(mode)).
		Str("generator", tag).
		Int("dim", dim).
		Int("default_k", cfg.TopK).
		Msg("Pipeline constructed")

	return New(Params{
		Store:        store,
		StoreMode:    mode,
		Embedder:     emb,
		Generator:    gen,
		GeneratorTag: tag,
		DefaultK:     cfg.TopK,
	}), nil
}

func buildEmbedder(cfg *config.Config) (embedder.Embedder, error) {
	if cfg.OpenAIKey == "" {
		return embedder.NewHashEmbedder(cfg.EmbedDim), nil
	}
	emb, err := embedder.NewOpenAIEmbedder(cfg.OpenAIKey, cfg.OpenAIBase, cfg.EmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("building embedder: %w", err)
	}
	return emb, nil
}

func buildGenerator(cfg *config.Config) (generator.Generator, string, error) {
	if cfg.OpenAIKey == "" {
		return generator.NewEcho(), generator.TagEcho, nil
	}
	gen, err := generator.NewOpenAIGenerator(cfg.OpenAIKey, cfg.OpenAIBase, cfg.InferenceModel)
	if err != nil {
		return nil, "", fmt.Errorf("building generator: %w", err)
	}
	return gen, generator.TagOpenAI, nil
}
