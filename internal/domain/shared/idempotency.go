package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys that were already accepted.
type IdempotencyStore interface {
	// MarkProcessed returns true if the key was newly marked, false if it was seen before.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been marked
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets a key so the request may be retried
	Release(ctx context.Context, key string) error
}

// DefaultIdempotencyTTL is how long an accepted key blocks replays.
const DefaultIdempotencyTTL = 24 * time.Hour
