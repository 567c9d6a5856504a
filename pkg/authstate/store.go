package authstate

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/statekit-dev/statekit/pkg/persist"
	"github.com/statekit-dev/statekit/pkg/reactive"
)

// ErrEncodingUnsupported is returned by SetBasicCredentials when the store
// was built without an encoder. There is no way to derive a Basic header
// without one, so the operation performs no state change.
var ErrEncodingUnsupported = errors.New("authstate: base64 encoding unavailable")

// Encoder is the base64 capability injected at construction time, keeping
// the store logic platform-agnostic. A nil encoder models an environment
// where the transform is unavailable.
type Encoder func([]byte) string

// DefaultEncoder is standard base64, the transform remote services expect
// for Basic credentials.
var DefaultEncoder Encoder = base64.StdEncoding.EncodeToString

// Option configures a Store.
type Option func(*config)

type config struct {
	encoder Encoder
}

// WithEncoder sets a custom base64 encoder.
func WithEncoder(enc Encoder) Option {
	return func(c *config) {
		c.encoder = enc
	}
}

// WithoutEncoder builds a store for environments where base64 is
// unavailable: SetBasicCredentials fails with ErrEncodingUnsupported while
// bearer tokens keep working.
func WithoutEncoder() Option {
	return func(c *config) {
		c.encoder = nil
	}
}

// Store holds the console's authentication header state. Construct one per
// process and pass it by reference to consumers; all mutation goes through
// its methods, and every mutation is mirrored to the slot before returning.
type Store struct {
	session *reactive.Signal[Session]
	slot    *persist.Slot[Session]
	encoder Encoder
}

// New creates the store, restoring a prior session from the slot. An absent,
// malformed or invariant-violating entry falls back to the unauthenticated
// state; restore problems never fail construction.
func New(slot *persist.Slot[Session], opts ...Option) *Store {
	cfg := &config{
		encoder: DefaultEncoder,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	restored, ok := slot.Load(context.Background())
	if !ok || !restored.valid() {
		restored = Session{}
	}

	return &Store{
		session: reactive.NewSignal(restored),
		slot:    slot,
		encoder: cfg.encoder,
	}
}

// SetBasicCredentials derives a Basic header from the pair and makes it the
// active session. Credentials are passed through verbatim, empty strings
// included; this is a formatter, not a validator.
//
// With no encoder available the store is left untouched and
// ErrEncodingUnsupported is returned.
func (s *Store) SetBasicCredentials(ctx context.Context, username, password string) error {
	if s.encoder == nil {
		return ErrEncodingUnsupported
	}

	encoded := s.encoder([]byte(username + ":" + password))
	s.apply(ctx, Session{
		Type:     TypeBasic,
		Header:   "Basic " + encoded,
		Username: username,
	})
	return nil
}

// SetBearerToken makes the trimmed token the active session. Any previous
// basic-auth username is dropped. The token content is not validated.
func (s *Store) SetBearerToken(ctx context.Context, token string) {
	s.apply(ctx, Session{
		Type:   TypeBearer,
		Header: "Bearer " + strings.TrimSpace(token),
	})
}

// Clear resets the store to the unauthenticated state and persists it,
// overwriting any prior entry. Clearing an already clear store is a no-op
// for subscribers (the value didn't change) and rewrites the same envelope.
func (s *Store) Clear(ctx context.Context) {
	s.apply(ctx, Session{})
}

// apply atomically installs the new triple and mirrors it to the slot.
// The in-memory state is updated first; the slot write completes before
// apply returns but its failure never rolls the state back.
func (s *Store) apply(ctx context.Context, sess Session) {
	s.session.Set(sess)
	s.slot.Save(ctx, sess)
}

// AuthorizationHeader returns the current header value, or ok=false when no
// credentials are set. It is a point-in-time read with no side effects and
// subscribes nothing.
func (s *Store) AuthorizationHeader() (string, bool) {
	sess := s.session.Peek()
	if sess.Type == TypeNone {
		return "", false
	}
	return sess.Header, true
}

// Username returns the basic-auth username, or ok=false when the active
// scheme is not basic.
func (s *Store) Username() (string, bool) {
	sess := s.session.Peek()
	if sess.Type != TypeBasic {
		return "", false
	}
	return sess.Username, true
}

// Session returns the current triple as a point-in-time read.
func (s *Store) Session() Session {
	return s.session.Peek()
}

// Signal exposes the reactive handle so consumers can subscribe to session
// changes through reactive.Watch or a custom Listener.
func (s *Store) Signal() *reactive.Signal[Session] {
	return s.session
}
