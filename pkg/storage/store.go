// Package storage provides the key-value persistence port used by statekit
// stores, with in-memory, file, Redis, SQL and S3 backends.
package storage

import "context"

// Store is the persistence backend for statekit slots.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves the value for a key.
	// Returns (nil, nil) if the key doesn't exist.
	// Returns (nil, err) on backend errors.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under a key, overwriting any existing entry.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes a key. Must not return an error if the key doesn't
	// exist.
	Remove(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// ErrStoreClosed is returned when operations are attempted on a closed store.
type ErrStoreClosed struct{}

func (e ErrStoreClosed) Error() string {
	return "storage: store is closed"
}
