package authstate

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/statekit-dev/statekit/pkg/persist"
	"github.com/statekit-dev/statekit/pkg/reactive"
	"github.com/statekit-dev/statekit/pkg/storage"
)

const slotKey = "statekit:auth"

func newTestStore(t *testing.T) (*Store, *storage.MemoryStore) {
	t.Helper()
	backend := storage.NewMemoryStore()
	t.Cleanup(func() { backend.Close() })

	slot := persist.NewSlot[Session](backend, slotKey)
	return New(slot), backend
}

func TestSetBasicCredentials(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"Simple", "alice", "secret"},
		{"EmptyPassword", "alice", ""},
		{"EmptyBoth", "", ""},
		{"ColonInPassword", "alice", "se:cret"},
		{"Unicode", "ålice", "pä55"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.SetBasicCredentials(ctx, tc.username, tc.password); err != nil {
				t.Fatalf("SetBasicCredentials failed: %v", err)
			}

			sess := store.Session()
			if sess.Type != TypeBasic {
				t.Errorf("type = %q, want basic", sess.Type)
			}
			if sess.Username != tc.username {
				t.Errorf("username = %q, want %q", sess.Username, tc.username)
			}

			header, ok := store.AuthorizationHeader()
			if !ok {
				t.Fatal("expected a header")
			}
			if !strings.HasPrefix(header, "Basic ") {
				t.Fatalf("header %q missing Basic prefix", header)
			}
			decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
			if err != nil {
				t.Fatalf("header does not decode: %v", err)
			}
			if want := tc.username + ":" + tc.password; string(decoded) != want {
				t.Errorf("decoded %q, want %q", decoded, want)
			}
		})
	}
}

func TestSetBasicCredentialsKnownValue(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.SetBasicCredentials(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("SetBasicCredentials failed: %v", err)
	}

	header, _ := store.AuthorizationHeader()
	if header != "Basic YWxpY2U6c2VjcmV0" {
		t.Errorf("header = %q, want Basic YWxpY2U6c2VjcmV0", header)
	}
}

func TestSetBearerToken(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	t.Run("Plain", func(t *testing.T) {
		store.SetBearerToken(ctx, "tok-1")
		header, ok := store.AuthorizationHeader()
		if !ok || header != "Bearer tok-1" {
			t.Errorf("header = %q, %v; want Bearer tok-1", header, ok)
		}
		if sess := store.Session(); sess.Type != TypeBearer {
			t.Errorf("type = %q, want bearer", sess.Type)
		}
	})

	t.Run("TrimsWhitespace", func(t *testing.T) {
		store.SetBearerToken(ctx, "  abc123  ")
		header, _ := store.AuthorizationHeader()
		if header != "Bearer abc123" {
			t.Errorf("header = %q, want Bearer abc123", header)
		}
	})

	t.Run("DropsPriorUsername", func(t *testing.T) {
		if err := store.SetBasicCredentials(ctx, "bob", "x"); err != nil {
			t.Fatalf("SetBasicCredentials failed: %v", err)
		}
		store.SetBearerToken(ctx, "tok")

		sess := store.Session()
		if sess.Type != TypeBearer {
			t.Errorf("type = %q, want bearer", sess.Type)
		}
		if sess.Username != "" {
			t.Errorf("username leaked through: %q", sess.Username)
		}
		if _, ok := store.Username(); ok {
			t.Error("Username should report absent for bearer")
		}
	})
}

func TestClear(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.SetBasicCredentials(ctx, "alice", "secret"); err != nil {
		t.Fatalf("SetBasicCredentials failed: %v", err)
	}
	store.Clear(ctx)

	if _, ok := store.AuthorizationHeader(); ok {
		t.Error("header should be absent after Clear")
	}
	if _, ok := store.Username(); ok {
		t.Error("username should be absent after Clear")
	}
	if sess := store.Session(); sess != (Session{}) {
		t.Errorf("session = %+v, want zero", sess)
	}

	// Idempotent: clearing twice yields the same state as once.
	store.Clear(ctx)
	if sess := store.Session(); sess != (Session{}) {
		t.Errorf("second Clear changed state: %+v", sess)
	}
}

func TestFreshStoreIsUnauthenticated(t *testing.T) {
	store, _ := newTestStore(t)

	if _, ok := store.AuthorizationHeader(); ok {
		t.Error("fresh store should have no header")
	}
	if sess := store.Session(); sess.Type != TypeNone {
		t.Errorf("type = %q, want none", sess.Type)
	}
}

func TestRestartRestoresSession(t *testing.T) {
	backend := storage.NewMemoryStore()
	defer backend.Close()
	ctx := context.Background()

	first := New(persist.NewSlot[Session](backend, slotKey))
	if err := first.SetBasicCredentials(ctx, "alice", "secret"); err != nil {
		t.Fatalf("SetBasicCredentials failed: %v", err)
	}
	want := first.Session()

	// Simulate a process restart: a new store over the same backend.
	second := New(persist.NewSlot[Session](backend, slotKey))
	if got := second.Session(); got != want {
		t.Errorf("restored session %+v, want %+v", got, want)
	}
	header, ok := second.AuthorizationHeader()
	if !ok || header != "Basic YWxpY2U6c2VjcmV0" {
		t.Errorf("restored header = %q, %v", header, ok)
	}
}

func TestRestartAfterClearStaysClear(t *testing.T) {
	backend := storage.NewMemoryStore()
	defer backend.Close()
	ctx := context.Background()

	first := New(persist.NewSlot[Session](backend, slotKey))
	first.SetBearerToken(ctx, "tok")
	first.Clear(ctx)

	second := New(persist.NewSlot[Session](backend, slotKey))
	if _, ok := second.AuthorizationHeader(); ok {
		t.Error("cleared session must not resurrect on restart")
	}
}

func TestPersistedEnvelopeShape(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	if err := store.SetBasicCredentials(ctx, "alice", "secret"); err != nil {
		t.Fatalf("SetBasicCredentials failed: %v", err)
	}

	raw, err := backend.Get(ctx, slotKey)
	if err != nil || raw == nil {
		t.Fatalf("expected persisted entry, got (%s, %v)", raw, err)
	}

	var env struct {
		State   map[string]*string `json:"state"`
		Version int                `json:"version"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("envelope does not parse: %v", err)
	}
	if env.Version != 1 {
		t.Errorf("version = %d, want 1", env.Version)
	}
	if got := env.State["authType"]; got == nil || *got != "basic" {
		t.Errorf("authType = %v, want basic", got)
	}
	if got := env.State["authorizationHeader"]; got == nil || *got != "Basic YWxpY2U6c2VjcmV0" {
		t.Errorf("authorizationHeader = %v", got)
	}
	if got := env.State["username"]; got == nil || *got != "alice" {
		t.Errorf("username = %v, want alice", got)
	}

	t.Run("ClearedStateIsAllNull", func(t *testing.T) {
		store.Clear(ctx)

		raw, _ := backend.Get(ctx, slotKey)
		if raw == nil {
			t.Fatal("Clear must persist the empty state, not drop the entry")
		}
		var env struct {
			State map[string]*string `json:"state"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("envelope does not parse: %v", err)
		}
		for _, field := range []string{"authType", "authorizationHeader", "username"} {
			if env.State[field] != nil {
				t.Errorf("%s = %q, want null", field, *env.State[field])
			}
		}
	})
}

func TestMalformedPersistedStateFallsBack(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		raw  string
	}{
		{"Garbage", `not json at all`},
		{"UnknownVersion", `{"state":{"authType":"bearer","authorizationHeader":"Bearer t","username":null},"version":7}`},
		{"UnknownAuthType", `{"state":{"authType":"digest","authorizationHeader":"Digest x","username":null},"version":1}`},
		{"HeaderWithoutType", `{"state":{"authType":null,"authorizationHeader":"Bearer t","username":null},"version":1}`},
		{"UsernameOnBearer", `{"state":{"authType":"bearer","authorizationHeader":"Bearer t","username":"alice"},"version":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := storage.NewMemoryStore()
			defer backend.Close()
			backend.Set(ctx, slotKey, []byte(tc.raw))

			store := New(persist.NewSlot[Session](backend, slotKey))
			if _, ok := store.AuthorizationHeader(); ok {
				t.Error("malformed entry must fall back to unauthenticated")
			}
		})
	}
}

func TestEncodingUnsupported(t *testing.T) {
	backend := storage.NewMemoryStore()
	defer backend.Close()
	ctx := context.Background()

	store := New(persist.NewSlot[Session](backend, slotKey), WithoutEncoder())

	// Establish a prior state through the still-working bearer path.
	store.SetBearerToken(ctx, "tok")
	before := store.Session()
	persisted, _ := backend.Get(ctx, slotKey)

	err := store.SetBasicCredentials(ctx, "alice", "secret")
	if err != ErrEncodingUnsupported {
		t.Fatalf("err = %v, want ErrEncodingUnsupported", err)
	}

	// Atomic failure: neither memory nor storage changed.
	if got := store.Session(); got != before {
		t.Errorf("session changed on failed operation: %+v", got)
	}
	after, _ := backend.Get(ctx, slotKey)
	if string(after) != string(persisted) {
		t.Error("persisted entry changed on failed operation")
	}
}

func TestCustomEncoder(t *testing.T) {
	backend := storage.NewMemoryStore()
	defer backend.Close()

	enc := func(b []byte) string { return base64.URLEncoding.EncodeToString(b) }
	store := New(persist.NewSlot[Session](backend, slotKey), WithEncoder(enc))

	if err := store.SetBasicCredentials(context.Background(), "a", "b?~"); err != nil {
		t.Fatalf("SetBasicCredentials failed: %v", err)
	}
	header, _ := store.AuthorizationHeader()
	want := "Basic " + base64.URLEncoding.EncodeToString([]byte("a:b?~"))
	if header != want {
		t.Errorf("header = %q, want %q", header, want)
	}
}

func TestStorageUnavailableIsSilent(t *testing.T) {
	ctx := context.Background()
	store := New(persist.NewSlot[Session](storage.NewNullStore(), slotKey))

	// All operations keep working against in-memory state.
	if err := store.SetBasicCredentials(ctx, "alice", "secret"); err != nil {
		t.Fatalf("SetBasicCredentials failed: %v", err)
	}
	if header, ok := store.AuthorizationHeader(); !ok || header != "Basic YWxpY2U6c2VjcmV0" {
		t.Errorf("in-memory state lost without storage: %q, %v", header, ok)
	}

	store.SetBearerToken(ctx, "tok")
	store.Clear(ctx)
	if _, ok := store.AuthorizationHeader(); ok {
		t.Error("Clear should work without storage")
	}
}

func TestSignalNotifiesSubscribers(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var seen []Session
	w := reactive.Watch(func() reactive.Cleanup {
		seen = append(seen, store.Signal().Get())
		return nil
	})
	defer w.Stop()

	store.SetBearerToken(ctx, "tok")
	store.Clear(ctx)

	if len(seen) != 3 {
		t.Fatalf("expected 3 observations (initial + 2 changes), got %d", len(seen))
	}
	if seen[1].Header != "Bearer tok" {
		t.Errorf("second observation = %+v", seen[1])
	}
	if seen[2] != (Session{}) {
		t.Errorf("third observation = %+v, want zero", seen[2])
	}
}

func TestAuthorizationHeaderDoesNotSubscribe(t *testing.T) {
	store, _ := newTestStore(t)

	runs := 0
	w := reactive.Watch(func() reactive.Cleanup {
		runs++
		_, _ = store.AuthorizationHeader() // point-in-time read
		return nil
	})
	defer w.Stop()

	store.SetBearerToken(context.Background(), "tok")
	if runs != 1 {
		t.Errorf("AuthorizationHeader must not subscribe the caller, watcher ran %d times", runs)
	}
}
