package session

import (
	"context"
	"time"
)

// Store persists session values between dispatch calls.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the values saved for id.
	// Returns ErrNotFound if nothing is stored or the entry expired.
	Load(ctx context.Context, id string) (map[string]string, error)

	// Save replaces the values stored for id. The entry expires after ttl.
	Save(ctx context.Context, id string, values map[string]string, ttl time.Duration) error

	// Delete removes the values stored for id.
	Delete(ctx context.Context, id string) error
}

// Purger is implemented by stores that need explicit removal of expired entries.
type Purger interface {
	// PurgeExpired removes expired entries and returns how many were removed.
	PurgeExpired(ctx context.Context) (int64, error)
}
