// CLAUDE:SUMMARY SQLite-backed embedding cache keyed by SHA-256(model|text), with TTL pruning.
// Package embcache persists embedding vectors in SQLite so repeated
// clustering runs over the same tab titles skip the embedding backend.
//
// Entries are keyed by SHA-256 over the model name and the exact input
// text: a model change never serves stale vectors. Vectors are stored as
// little-endian float32 blobs.
package embcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/feldrik/tabd/dbopen"
	"github.com/feldrik/tabd/tabembed"
)

const schema = `
CREATE TABLE IF NOT EXISTS embedding_cache (
    key        TEXT PRIMARY KEY,
    model      TEXT NOT NULL,
    dim        INTEGER NOT NULL,
    vector     BLOB NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_embedding_cache_created ON embedding_cache(created_at);
`

// Cache is an SQLite-backed embedding store. Safe for concurrent use.
type Cache struct {
	db     *sql.DB
	logger *slog.Logger
}

// Config configures the cache.
type Config struct {
	// Path is the SQLite database file. Required unless DB is set.
	Path string `json:"path" yaml:"path"`

	// DB reuses an existing handle instead of opening Path.
	DB *sql.DB `json:"-" yaml:"-"`

	// Logger defaults to slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// Open opens (or creates) the cache database and applies the schema.
func Open(cfg Config) (*Cache, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	db := cfg.DB
	if db == nil {
		if cfg.Path == "" {
			return nil, fmt.Errorf("embcache: no path and no db handle")
		}
		var err error
		db, err = dbopen.Open(cfg.Path, dbopen.WithMkdirAll(), dbopen.WithSchema(schema))
		if err != nil {
			return nil, fmt.Errorf("embcache: %w", err)
		}
	} else {
		if _, err := db.Exec(schema); err != nil {
			return nil, fmt.Errorf("embcache: apply schema: %w", err)
		}
	}

	return &Cache{db: db, logger: cfg.Logger}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error { return c.db.Close() }

// Key derives the cache key for a model/text pair.
func Key(model, text string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached vector for model/text, or ok=false on a miss.
func (c *Cache) Get(ctx context.Context, model, text string) ([]float32, bool, error) {
	var blob []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT vector FROM embedding_cache WHERE key = ?`, Key(model, text)).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("embcache: get: %w", err)
	}
	return tabembed.DeserializeVector(blob), true, nil
}

// Put stores one vector, replacing any previous entry for the same key.
func (c *Cache) Put(ctx context.Context, model, text string, vec []float32) error {
	_, err := dbopen.Exec(ctx, c.db,
		`INSERT OR REPLACE INTO embedding_cache (key, model, dim, vector, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		Key(model, text), model, len(vec), tabembed.SerializeVector(vec), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("embcache: put: %w", err)
	}
	return nil
}

// PutBatch stores several vectors in one transaction. texts and vecs must
// have equal length.
func (c *Cache) PutBatch(ctx context.Context, model string, texts []string, vecs [][]float32) error {
	if len(texts) != len(vecs) {
		return fmt.Errorf("embcache: %d texts, %d vectors", len(texts), len(vecs))
	}
	now := time.Now().UnixMilli()
	return dbopen.RunTx(ctx, c.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT OR REPLACE INTO embedding_cache (key, model, dim, vector, created_at)
			 VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("embcache: prepare: %w", err)
		}
		defer stmt.Close()
		for i, text := range texts {
			if _, err := stmt.ExecContext(ctx,
				Key(model, text), model, len(vecs[i]), tabembed.SerializeVector(vecs[i]), now); err != nil {
				return fmt.Errorf("embcache: put batch: %w", err)
			}
		}
		return nil
	})
}

// Prune deletes entries older than maxAge and reports how many went.
func (c *Cache) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).UnixMilli()
	res, err := dbopen.Exec(ctx, c.db,
		`DELETE FROM embedding_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("embcache: prune: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		c.logger.Info("pruned embedding cache", "deleted", n, "max_age", maxAge)
	}
	return n, nil
}

// Len reports the number of cached entries.
func (c *Cache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM embedding_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("embcache: len: %w", err)
	}
	return n, nil
}
