// Package uistate holds the persisted UI chrome state of the console,
// currently the sidebar visibility flag. Last write wins; there are no
// invariants to enforce beyond that.
package uistate

import (
	"context"

	"github.com/statekit-dev/statekit/pkg/persist"
	"github.com/statekit-dev/statekit/pkg/reactive"
	"github.com/statekit-dev/statekit/pkg/storage"
)

// sidebarState is the persisted shape.
type sidebarState struct {
	Open bool `json:"open"`
}

// Sidebar tracks whether the console sidebar is open, mirrored to its
// storage slot on every change.
type Sidebar struct {
	open *reactive.Signal[bool]
	slot *persist.Slot[sidebarState]
}

// NewSidebar builds the store over the given backend and key, restoring the
// flag from a prior run. Fresh installs default to open: the console shows
// navigation until the user hides it.
func NewSidebar(store storage.Store, key string, opts ...persist.SlotOption) *Sidebar {
	slot := persist.NewSlot[sidebarState](store, key, opts...)

	open := true
	if state, ok := slot.Load(context.Background()); ok {
		open = state.Open
	}

	return &Sidebar{
		open: reactive.NewSignal(open),
		slot: slot,
	}
}

// Open returns the current flag as a point-in-time read.
func (s *Sidebar) Open() bool {
	return s.open.Peek()
}

// SetOpen sets the flag and persists it.
func (s *Sidebar) SetOpen(ctx context.Context, open bool) {
	s.open.Set(open)
	s.slot.Save(ctx, sidebarState{Open: open})
}

// Toggle flips the flag and persists it, returning the new value.
func (s *Sidebar) Toggle(ctx context.Context) bool {
	open := !s.open.Peek()
	s.SetOpen(ctx, open)
	return open
}

// Signal exposes the reactive handle for subscribers.
func (s *Sidebar) Signal() *reactive.Signal[bool] {
	return s.open
}
