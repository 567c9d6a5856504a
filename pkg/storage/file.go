package storage

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore persists each key as one file under a directory. It is the
// durable local slot for CLI and desktop consoles, filling the role browser
// local storage plays for web ones.
type FileStore struct {
	dir    string
	mu     sync.Mutex
	closed bool
}

// FileStoreOption configures FileStore behavior.
type FileStoreOption func(*fileStoreConfig)

type fileStoreConfig struct {
	dirMode os.FileMode
}

// WithDirMode sets the permission bits used when creating the directory.
// Default: 0o700 (the stored values are credentials).
func WithDirMode(mode os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.dirMode = mode
	}
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string, opts ...FileStoreOption) (*FileStore, error) {
	cfg := &fileStoreConfig{
		dirMode: 0o700,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := os.MkdirAll(dir, cfg.dirMode); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// path maps a key to a file path. Characters outside [A-Za-z0-9._-] are
// hex-escaped so arbitrary keys (e.g. "statekit:auth") stay within one flat
// directory.
func (f *FileStore) path(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '.', c == '_', c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteString(hex.EncodeToString([]byte{c}))
		}
	}
	return filepath.Join(f.dir, b.String()+".json")
}

// Get reads the value for a key.
func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrStoreClosed{}
	}

	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set writes the value atomically: to a temp file first, then renamed over
// the final path, so a crash mid-write never leaves a truncated entry.
func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrStoreClosed{}
	}

	target := f.path(key)
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Remove deletes the file for a key.
func (f *FileStore) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrStoreClosed{}
	}

	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close marks the store as closed.
func (f *FileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Dir returns the backing directory. For testing/debugging.
func (f *FileStore) Dir() string {
	return f.dir
}
