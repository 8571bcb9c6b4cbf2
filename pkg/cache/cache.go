// Package cache stores synthesized audio so repeated requests skip the
// backend. Keys are derived from the full synthesis request; a cache is
// purely an optimization and every method degrades to a miss on error.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"voxa/pkg/db"
	"voxa/pkg/model"
)

// Cacher is the synthesis cache interface.
type Cacher interface {
	Get(ctx context.Context, key string) (model.AudioData, bool)
	Set(ctx context.Context, key string, audio model.AudioData) error
}

// Key derives a deterministic cache key from the synthesis parameters.
func Key(engine, voice, language string, speed float64, text string) string {
	h := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s|%g|%s", engine, voice, language, speed, text))
	return hex.EncodeToString(h[:])
}

// SQLiteCache implements Cacher on the application database.
type SQLiteCache struct {
	db *db.DB
}

// NewSQLiteCache creates a new cache.
func NewSQLiteCache(d *db.DB) *SQLiteCache {
	return &SQLiteCache{db: d}
}

// Get returns the cached audio for the key, if present.
func (c *SQLiteCache) Get(ctx context.Context, key string) (model.AudioData, bool) {
	row := c.db.QueryRowContext(ctx,
		`SELECT format, sample_rate, duration, audio FROM synthesis_cache WHERE key = ?`, key)

	var format string
	var sampleRate int
	var duration float64
	var payload []byte
	if err := row.Scan(&format, &sampleRate, &duration, &payload); err != nil {
		return model.AudioData{}, false
	}
	return model.NewAudioData(payload, format, sampleRate, duration), true
}

// Set stores audio under the key, replacing any previous entry.
func (c *SQLiteCache) Set(ctx context.Context, key string, audio model.AudioData) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO synthesis_cache (key, format, sample_rate, duration, audio) VALUES (?, ?, ?, ?, ?)`,
		key, audio.Format, audio.SampleRate, audio.Duration, audio.Bytes)
	if err != nil {
		slog.Warn("cache: failed to store entry", "key", key, "error", err)
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Null is a Cacher that never hits. Used when caching is disabled or the
// storage backend has no database.
type Null struct{}

func (Null) Get(ctx context.Context, key string) (model.AudioData, bool) { return model.AudioData{}, false }
func (Null) Set(ctx context.Context, key string, audio model.AudioData) error { return nil }
