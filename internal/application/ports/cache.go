package ports

import (
	"context"
	"time"
)

// IdempotencyCache is the TTL key-value gate shared by the orchestrator and
// the worker (spec §4.2). It is a fast path, never the source of truth —
// the WalletTransaction row remains authoritative past the TTL.
type IdempotencyCache interface {
	// Exists reports whether key has been remembered and has not expired.
	Exists(ctx context.Context, key string) (bool, error)

	// Remember stores payload (may be nil for a pure admission gate) under
	// key with the given TTL, overwriting any prior value.
	Remember(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// Get returns the payload remembered under key, if any. found is false
	// both when the key was never set and when it expired.
	Get(ctx context.Context, key string) (payload []byte, found bool, err error)
}
