package genstore

import (
	"context"
	"time"
)

// GenStore holds one generation counter per input format. A cached encoding
// is served only while its recorded generation matches the current one, so
// bumping a format retires every encoding cached for it at once.
//
// Use LocalGenStore (default) for a single process, or RedisGenStore when
// several processes share one cache.
type GenStore interface {
	// Snapshot returns the current generation of format; missing => 0.
	Snapshot(ctx context.Context, format string) (uint64, error)
	// Bump atomically increments and returns the new generation.
	Bump(ctx context.Context, format string) (uint64, error)
	// Cleanup prunes counters idle for longer than retention (no-op for Redis).
	Cleanup(retention time.Duration)
	// Close releases resources (no-op ok).
	Close(context.Context) error
}
