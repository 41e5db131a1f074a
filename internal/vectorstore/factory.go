package vectorstore

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Options selects and configures a storage backend.
type Options struct {
	DSN         string // Postgres DSN; takes precedence when set
	Table       string
	ChromemPath string // local persistent store, used when no DSN is set
	Dim         int
	Debug       bool // bundebug verbose query logging
}

// Build constructs the configured backend, degrading to the in-memory store
// when a durable backend cannot be reached at construction time. The
// returned mode records which backend actually serves the process;
// availability wins over durability here, and data ingested against the
// fallback does not survive a restart.
func Build(ctx context.Context, opts Options) (Store, Mode) {
	if opts.DSN != "" {
		store, err := NewPgStore(ctx, opts.DSN, opts.Table, opts.Dim, opts.Debug)
		if err == nil {
			return store, ModePostgres
		}
		log.Warn().Err(err).Msg("Postgres vector store unavailable, using in-memory store")
	}
	if opts.ChromemPath != "" {
		store, err := NewChromemStore(opts.ChromemPath, opts.Table, opts.Dim)
		if err == nil {
			return store, ModeChromem
		}
		log.Warn().Err(err).Msg("chromem vector store unavailable, using in-memory store")
	}
	return NewMemoryStore(opts.Dim), ModeMemory
}
