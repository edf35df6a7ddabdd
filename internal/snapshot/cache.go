package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/photodesk/photodesk/internal/collection"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	filter_key TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	saved_at   TIMESTAMP NOT NULL
);
`

// Cache is a sqlite-backed implementation of collection.Snapshotter. One row
// is kept per filter digest; saving overwrites the previous snapshot for
// that filter.
type Cache struct {
	db     *sql.DB
	maxAge time.Duration
	logger *slog.Logger
}

// New opens (creating if needed) the snapshot database and ensures the schema.
func New(cfg *Config, logger *slog.Logger) (*Cache, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init snapshot schema: %w", err)
	}

	return &Cache{
		db:     db,
		maxAge: cfg.MaxAgeDuration(),
		logger: logger.With("system", "snapshot"),
	}, nil
}

// Save stores the snapshot for the given filter key, replacing any previous one.
func (c *Cache) Save(ctx context.Context, key string, snap collection.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	const query = `
		INSERT INTO snapshots (filter_key, payload, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT(filter_key) DO UPDATE SET
			payload = excluded.payload,
			saved_at = excluded.saved_at
	`
	if _, err := c.db.ExecContext(ctx, query, key, string(payload), snap.SavedAt); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the snapshot for key, or nil when none exists or the stored
// one is older than the configured maximum age.
func (c *Cache) Load(ctx context.Context, key string) (*collection.Snapshot, error) {
	const query = `SELECT payload, saved_at FROM snapshots WHERE filter_key = ?`

	var payload string
	var savedAt time.Time
	err := c.db.QueryRowContext(ctx, query, key).Scan(&payload, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	if time.Since(savedAt) > c.maxAge {
		c.logger.Debug("ignoring expired snapshot", "key", key, "saved_at", savedAt)
		return nil, nil
	}

	var snap collection.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Sweep deletes snapshots older than the configured maximum age and returns
// the number removed.
func (c *Cache) Sweep(ctx context.Context) (int64, error) {
	const query = `DELETE FROM snapshots WHERE saved_at < ?`

	res, err := c.db.ExecContext(ctx, query, time.Now().UTC().Add(-c.maxAge))
	if err != nil {
		return 0, fmt.Errorf("sweep snapshots: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
