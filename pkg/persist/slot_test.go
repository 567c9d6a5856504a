package persist

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/statekit-dev/statekit/pkg/storage"
)

type testState struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSlotRoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	defer store.Close()

	ctx := context.Background()
	slot := NewSlot[testState](store, "test:state")

	slot.Save(ctx, testState{Name: "alice", Count: 3})

	got, ok := slot.Load(ctx)
	if !ok {
		t.Fatal("expected entry after Save")
	}
	if got.Name != "alice" || got.Count != 3 {
		t.Errorf("got %+v, want {alice 3}", got)
	}
}

func TestSlotEnvelopeShape(t *testing.T) {
	store := storage.NewMemoryStore()
	defer store.Close()

	ctx := context.Background()
	slot := NewSlot[testState](store, "test:state")
	slot.Save(ctx, testState{Name: "bob"})

	raw, err := store.Get(ctx, "test:state")
	if err != nil || raw == nil {
		t.Fatalf("expected persisted entry, got (%v, %v)", raw, err)
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("envelope does not parse: %v", err)
	}
	if _, ok := env["state"]; !ok {
		t.Error(`envelope missing "state" field`)
	}

	var version int
	if err := json.Unmarshal(env["version"], &version); err != nil {
		t.Fatalf(`envelope missing "version" field: %v`, err)
	}
	if version != CurrentVersion {
		t.Errorf("version = %d, want %d", version, CurrentVersion)
	}
}

func TestSlotLoadAbsent(t *testing.T) {
	store := storage.NewMemoryStore()
	defer store.Close()

	slot := NewSlot[testState](store, "test:state")
	if _, ok := slot.Load(context.Background()); ok {
		t.Error("expected absent for an empty store")
	}
}

func TestSlotLoadMalformed(t *testing.T) {
	store := storage.NewMemoryStore()
	defer store.Close()

	ctx := context.Background()
	cases := []struct {
		name string
		raw  string
	}{
		{"NotJSON", `{{{`},
		{"WrongShape", `[1,2,3]`},
		{"BadState", `{"state":"not-an-object","version":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store.Set(ctx, "test:state", []byte(tc.raw))

			slot := NewSlot[testState](store, "test:state")
			if _, ok := slot.Load(ctx); ok {
				t.Error("malformed entry should load as absent")
			}
		})
	}
}

func TestSlotUnknownVersionDiscarded(t *testing.T) {
	store := storage.NewMemoryStore()
	defer store.Close()

	ctx := context.Background()
	store.Set(ctx, "test:state", []byte(`{"state":{"name":"old"},"version":99}`))

	slot := NewSlot[testState](store, "test:state")
	if _, ok := slot.Load(ctx); ok {
		t.Error("unknown version without a migration should load as absent")
	}
}

func TestSlotMigration(t *testing.T) {
	store := storage.NewMemoryStore()
	defer store.Close()

	ctx := context.Background()
	// Version 0 stored the name under "n".
	store.Set(ctx, "test:state", []byte(`{"state":{"n":"carol"},"version":0}`))

	migrate := func(version int, state json.RawMessage) (json.RawMessage, error) {
		if version != 0 {
			return nil, errors.New("unexpected version")
		}
		var old struct {
			N string `json:"n"`
		}
		if err := json.Unmarshal(state, &old); err != nil {
			return nil, err
		}
		return json.Marshal(testState{Name: old.N})
	}

	slot := NewSlot[testState](store, "test:state", WithMigration(migrate))
	got, ok := slot.Load(ctx)
	if !ok {
		t.Fatal("migrated entry should load")
	}
	if got.Name != "carol" {
		t.Errorf("got %+v, want name carol", got)
	}
}

func TestSlotClear(t *testing.T) {
	store := storage.NewMemoryStore()
	defer store.Close()

	ctx := context.Background()
	slot := NewSlot[testState](store, "test:state")
	slot.Save(ctx, testState{Name: "dave"})
	slot.Clear(ctx)

	if _, ok := slot.Load(ctx); ok {
		t.Error("expected absent after Clear")
	}
}

// failingStore errors on every operation, modeling an unavailable medium
// that still reports failures (unlike NullStore, which swallows them).
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("medium unavailable")
}
func (failingStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("medium unavailable")
}
func (failingStore) Remove(ctx context.Context, key string) error {
	return errors.New("medium unavailable")
}
func (failingStore) Close() error { return nil }

func TestSlotSwallowsStorageErrors(t *testing.T) {
	ctx := context.Background()
	slot := NewSlot[testState](failingStore{}, "test:state")

	// None of these may panic or surface an error.
	slot.Save(ctx, testState{Name: "erin"})
	slot.Clear(ctx)
	if _, ok := slot.Load(ctx); ok {
		t.Error("failing store should read as absent")
	}
}

func TestSlotOnNullStore(t *testing.T) {
	ctx := context.Background()
	slot := NewSlot[testState](storage.NewNullStore(), "test:state")

	slot.Save(ctx, testState{Name: "frank"})
	if _, ok := slot.Load(ctx); ok {
		t.Error("null store must read as absent even after Save")
	}
}
