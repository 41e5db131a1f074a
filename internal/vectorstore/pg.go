package vectorstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"advisor-rag/internal/schema"
)

const connectTimeout = 5 * time.Second

// DefaultTable is used when no table name is configured.
const DefaultTable = "ai_chunks"

type pgChunk struct {
	bun.BaseModel `bun:"table:ai_chunks,alias:c"`
	ID            string         `bun:"id,pk"`
	Content       string         `bun:"content,notnull"`
	Metadata      map[string]any `bun:"metadata,notnull,type:jsonb"`
	Embedding     string         `bun:"embedding,notnull,type:vector"`
}

// PgStore persists rows in Postgres with the pgvector extension. Each batch
// upsert and each search runs in its own transaction; concurrency control is
// the database's problem.
type PgStore struct {
	db    *bun.DB
	table string
	dim   int
}

// NewPgStore connects via the DSN, verifies reachability, and ensures the
// vector extension and table exist. Connection or schema failures come back
// wrapped in ErrStoreUnreachable so the factory can fall back.
func NewPgStore(ctx context.Context, dsn, table string, dim int, debug bool) (*PgStore, error) {
	if table == "" {
		table = DefaultTable
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnreachable, err)
	}

	store := &PgStore{db: db, table: table, dim: dim}
	if err := store.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStoreUnreachable, err)
	}
	return store, nil
}

func (s *PgStore) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return err
	}
	_, err := s.db.NewRaw(
		"CREATE TABLE IF NOT EXISTS ? (id varchar(128) PRIMARY KEY, content text NOT NULL, "+
			"metadata jsonb NOT NULL DEFAULT '{}'::jsonb, embedding vector(?) NOT NULL)",
		bun.Ident(s.table), bun.Safe(strconv.Itoa(s.dim)),
	).Exec(ctx)
	return err
}

// Dim reports the store's fixed vector dimension.
func (s *PgStore) Dim() int { return s.dim }

// Close releases the underlying connection pool.
func (s *PgStore) Close() error { return s.db.Close() }

func (s *PgStore) Add(ctx context.Context, chunk schema.Chunk, embedding []float32) error {
	return s.AddMany(ctx, []Row{{Chunk: chunk, Embedding: embedding}})
}

// AddMany upserts the batch atomically: validation happens before the
// transaction opens, and a primary-key conflict overwrites content,
// metadata and vector.
func (s *PgStore) AddMany(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	models := make([]pgChunk, len(rows))
	for i, row := range rows {
		if err := checkDim(len(row.Embedding), s.dim); err != nil {
			return err
		}
		metadata := row.Chunk.Metadata
		if metadata == nil {
			metadata = map[string]any{}
		}
		models[i] = pgChunk{
			ID:        row.Chunk.ID,
			Content:   row.Chunk.Content,
			Metadata:  metadata,
			Embedding: vectorLiteral(row.Embedding),
		}
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&models).
			ModelTableExpr("? AS c", bun.Ident(s.table)).
			On("CONFLICT (id) DO UPDATE").
			Set("content = EXCLUDED.content").
			Set("metadata = EXCLUDED.metadata").
			Set("embedding = EXCLUDED.embedding").
			Exec(ctx)
		return err
	})
}

// Search orders by cosine distance and reports score = 1 - distance.
func (s *PgStore) Search(ctx context.Context, embedding []float32, limit int) ([]schema.ScoredChunk, error) {
	if err := checkDim(len(embedding), s.dim); err != nil {
		return nil, err
	}
	query := vectorLiteral(embedding)

	var found []struct {
		ID       string         `bun:"id"`
		Content  string         `bun:"content"`
		Metadata map[string]any `bun:"metadata"`
		Score    float64        `bun:"score"`
	}
	err := s.db.NewSelect().
		TableExpr("? AS c", bun.Ident(s.table)).
		ColumnExpr("id, content, metadata").
		ColumnExpr("1 - (embedding <=> ?) AS score", query).
		OrderExpr("embedding <=> ?", query).
		Limit(limit).
		Scan(ctx, &found)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	results := make([]schema.ScoredChunk, len(found))
	for i, row := range found {
		results[i] = schema.ScoredChunk{
			Chunk: schema.Chunk{ID: row.ID, Content: row.Content, Metadata: row.Metadata},
			Score: row.Score,
		}
	}
	return results, nil
}

// vectorLiteral renders a vector in pgvector's text format, e.g. [0.1,0.2].
func vectorLiteral(vec []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
