package store

import "context"

// KV is a durable key-value store. Every write replaces the whole value
// stored under a key.
type KV interface {
	// Get returns ErrRecordNotFound when nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Update runs fn against a transactional view of the store. Either all
	// writes made through that view are committed or none are.
	Update(ctx context.Context, fn func(KV) error) error

	// View runs fn against a consistent read view. Writes made through it
	// are discarded.
	View(ctx context.Context, fn func(KV) error) error
}

type Repository interface {
	KV
	Close() error
}
