// Package persist binds a Go value to one named key in a storage.Store,
// wrapping it in a versioned JSON envelope so the layout can evolve.
//
// Storage failures never surface to callers: a slot whose backend is down
// behaves like one with no entry, and writes are silently discarded. Stores
// built on a slot keep operating on their in-memory state.
package persist

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/statekit-dev/statekit/pkg/storage"
)

// CurrentVersion is the envelope format version written by this package.
// Increment when making breaking changes to a persisted state layout.
const CurrentVersion = 1

// Envelope is the persisted representation: the serialized state plus the
// format version tag.
type Envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

// Migration upgrades a persisted state from an older version to the current
// layout. It receives the envelope version and the raw state, and returns
// the state rewritten for CurrentVersion.
type Migration func(version int, state json.RawMessage) (json.RawMessage, error)

// SlotOption configures a Slot.
type SlotOption func(*slotConfig)

type slotConfig struct {
	migrate Migration
	logger  *slog.Logger
}

// WithMigration registers the migration policy for older envelope versions.
// Without one, any version other than CurrentVersion is discarded on load.
func WithMigration(m Migration) SlotOption {
	return func(c *slotConfig) {
		c.migrate = m
	}
}

// WithLogger sets the logger for swallowed storage failures.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) SlotOption {
	return func(c *slotConfig) {
		c.logger = logger
	}
}

// Slot is one named entry in a storage.Store holding a value of type T.
type Slot[T any] struct {
	store   storage.Store
	key     string
	migrate Migration
	logger  *slog.Logger
}

// NewSlot creates a slot over the given store and key.
func NewSlot[T any](store storage.Store, key string, opts ...SlotOption) *Slot[T] {
	cfg := &slotConfig{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Slot[T]{
		store:   store,
		key:     key,
		migrate: cfg.migrate,
		logger:  cfg.logger,
	}
}

// Key returns the storage key this slot occupies.
func (s *Slot[T]) Key() string {
	return s.key
}

// Load retrieves the slot value. It reports absent when the entry is
// missing, the backend fails, the envelope doesn't parse, or the version is
// unrecognized and no migration applies. It never returns an error: a
// malformed entry degrades to a fresh state rather than failing startup.
func (s *Slot[T]) Load(ctx context.Context) (T, bool) {
	var zero T

	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		s.logger.Debug("statekit: slot load skipped, storage unavailable",
			"key", s.key, "error", err)
		return zero, false
	}
	if data == nil {
		return zero, false
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		s.logger.Warn("statekit: discarding malformed slot entry",
			"key", s.key, "error", err)
		return zero, false
	}

	state := env.State
	if env.Version != CurrentVersion {
		if s.migrate == nil {
			s.logger.Warn("statekit: discarding slot entry with unknown version",
				"key", s.key, "version", env.Version)
			return zero, false
		}
		state, err = s.migrate(env.Version, state)
		if err != nil {
			s.logger.Warn("statekit: slot migration failed, discarding entry",
				"key", s.key, "version", env.Version, "error", err)
			return zero, false
		}
	}

	var value T
	if err := json.Unmarshal(state, &value); err != nil {
		s.logger.Warn("statekit: discarding malformed slot state",
			"key", s.key, "error", err)
		return zero, false
	}
	return value, true
}

// Save writes the value under the current envelope version. Storage failures
// are swallowed; the caller's in-memory state is already updated and remains
// authoritative.
func (s *Slot[T]) Save(ctx context.Context, value T) {
	state, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("statekit: slot state not serializable",
			"key", s.key, "error", err)
		return
	}

	data, err := json.Marshal(Envelope{State: state, Version: CurrentVersion})
	if err != nil {
		s.logger.Warn("statekit: slot envelope not serializable",
			"key", s.key, "error", err)
		return
	}

	if err := s.store.Set(ctx, s.key, data); err != nil {
		s.logger.Debug("statekit: slot save skipped, storage unavailable",
			"key", s.key, "error", err)
	}
}

// Clear removes the slot entry entirely. Storage failures are swallowed.
func (s *Slot[T]) Clear(ctx context.Context) {
	if err := s.store.Remove(ctx, s.key); err != nil {
		s.logger.Debug("statekit: slot clear skipped, storage unavailable",
			"key", s.key, "error", err)
	}
}
