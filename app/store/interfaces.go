package store

import "context"

// HashStore is the injected store of previously-seen content hashes, used
// for cross-batch deduplication. It is passed into the pipeline explicitly;
// the transformation core itself keeps no ambient state.
type HashStore interface {
	// Get reports whether the hash has been seen before.
	Get(ctx context.Context, hash string) (bool, error)
	// Put records the hash as seen.
	Put(ctx context.Context, hash string) error
	Close() error
}
