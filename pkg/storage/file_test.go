package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "state"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	key := "statekit:auth"
	value := []byte(`{"state":{"authType":"basic"},"version":1}`)

	t.Run("RoundTrip", func(t *testing.T) {
		if err := store.Set(ctx, key, value); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := store.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != string(value) {
			t.Errorf("got %s, want %s", got, value)
		}
	})

	t.Run("SurvivesReopen", func(t *testing.T) {
		reopened, err := NewFileStore(store.Dir())
		if err != nil {
			t.Fatalf("reopen failed: %v", err)
		}
		defer reopened.Close()

		got, err := reopened.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(got) != string(value) {
			t.Errorf("reopened store lost the entry: got %s, want %s", got, value)
		}
	})

	t.Run("GetAbsent", func(t *testing.T) {
		got, err := store.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != nil {
			t.Error("expected absent key to return nil")
		}
	})

	t.Run("Remove", func(t *testing.T) {
		if err := store.Remove(ctx, key); err != nil {
			t.Fatalf("Remove failed: %v", err)
		}
		got, _ := store.Get(ctx, key)
		if got != nil {
			t.Error("entry still present after Remove")
		}

		// Removing again is fine.
		if err := store.Remove(ctx, key); err != nil {
			t.Errorf("Remove of absent key should not error: %v", err)
		}
	})
}

func TestFileStoreKeyEscaping(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	// Keys with path separators and shell metacharacters must stay inside
	// the store directory, one file per key.
	keys := []string{
		"statekit:auth",
		"../escape",
		"a/b/c",
		"plain",
	}
	for _, key := range keys {
		if err := store.Set(ctx, key, []byte(key)); err != nil {
			t.Fatalf("Set(%q) failed: %v", key, err)
		}
	}

	for _, key := range keys {
		got, err := store.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", key, err)
		}
		if string(got) != key {
			t.Errorf("Get(%q) = %s, want %s", key, got, key)
		}
	}

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != len(keys) {
		t.Errorf("expected %d files in store dir, got %d", len(keys), len(entries))
	}
	for _, e := range entries {
		if e.IsDir() {
			t.Errorf("unexpected directory %q in store dir", e.Name())
		}
		if strings.Contains(e.Name(), ":") {
			t.Errorf("unescaped separator in file name %q", e.Name())
		}
	}
}

func TestFileStoreClosed(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	store.Close()

	ctx := context.Background()
	if _, err := store.Get(ctx, "k"); err == nil {
		t.Error("Get on closed store should error")
	}
	if err := store.Set(ctx, "k", []byte("v")); err == nil {
		t.Error("Set on closed store should error")
	}
}
