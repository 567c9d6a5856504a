package storage

import "context"

// NullStore is the degraded mode for environments with no storage medium:
// reads report absent, writes and removes are discarded. It never returns an
// error, so callers run uninterrupted on their in-memory state.
type NullStore struct{}

// NewNullStore creates a store that discards everything.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// Get always reports the key as absent.
func (NullStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, nil
}

// Set discards the value.
func (NullStore) Set(ctx context.Context, key string, value []byte) error {
	return nil
}

// Remove does nothing.
func (NullStore) Remove(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (NullStore) Close() error {
	return nil
}
