package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"advisor-rag/internal/api"
	"advisor-rag/internal/config"
	"advisor-rag/internal/helper"
	"advisor-rag/internal/ingest"
	"advisor-rag/internal/pipeline"
	"advisor-rag/internal/schema"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	serve := flag.Bool("serve", false, "Run the HTTP server")
	filePath := flag.String("file", "", "Path to a document file to ingest")
	query := flag.String("query", "", "Question to be answered")
	k := flag.Int("k", 0, "Result count for -query (0 uses the configured default)")
	noRerank := flag.Bool("no-rerank", false, "Disable rank fusion for -query")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	ctx := context.Background()
	p, err := pipeline.Build(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building pipeline")
	}

	switch {
	case *serve:
		runServer(ctx, cfg, p)
	case *filePath != "":
		ingestFile(ctx, cfg, p, *filePath)
	case *query != "":
		runQuery(ctx, p, *query, *k, *noRerank)
	default:
		log.Fatal().Msg("Provide -serve, -file, or -query")
	}
}

func runServer(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline) {
	if cfg.SourceGlob != "" {
		chunks, err := ingest.LoadGlob(cfg.SourceGlob, ingest.Options{
			ChunkSize:    cfg.ChunkSize,
			ChunkOverlap: cfg.ChunkOverlap,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Error loading source glob")
		}
		count, err := p.Ingest(ctx, chunks)
		if err != nil {
			log.Fatal().Err(err).Msg("Error ingesting startup documents")
		}
		log.Info().Int("chunks", count).Str("glob", cfg.SourceGlob).Msg("Startup ingestion complete")
	}

	if err := api.New(p).Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func ingestFile(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, path string) {
	chunks, err := ingest.LoadFile(path, ingest.Options{
		ChunkSize:    cfg.ChunkSize,
		ChunkOverlap: cfg.ChunkOverlap,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error parsing document")
	}
	count, err := p.Ingest(ctx, chunks)
	if err != nil {
		log.Fatal().Err(err).Msg("Error ingesting document")
	}
	log.Info().Int("chunks", count).Str("file", path).Msg("Ingested document")
}

func runQuery(ctx context.Context, p *pipeline.Pipeline, question string, k int, noRerank bool) {
	rerank := !noRerank
	resp, err := p.Query(ctx, schema.QueryRequest{
		Question: question,
		K:        k,
		Rerank:   &rerank,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error querying")
	}
	helper.PrettyPrint(resp)
}
