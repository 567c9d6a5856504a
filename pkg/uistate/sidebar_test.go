package uistate

import (
	"context"
	"testing"

	"github.com/statekit-dev/statekit/pkg/reactive"
	"github.com/statekit-dev/statekit/pkg/storage"
)

const slotKey = "statekit:ui"

func TestSidebarDefaultsOpen(t *testing.T) {
	backend := storage.NewMemoryStore()
	defer backend.Close()

	sidebar := NewSidebar(backend, slotKey)
	if !sidebar.Open() {
		t.Error("fresh sidebar should default to open")
	}
}

func TestSidebarToggleAndPersist(t *testing.T) {
	backend := storage.NewMemoryStore()
	defer backend.Close()
	ctx := context.Background()

	sidebar := NewSidebar(backend, slotKey)
	if open := sidebar.Toggle(ctx); open {
		t.Error("toggling an open sidebar should close it")
	}
	if sidebar.Open() {
		t.Error("sidebar should be closed")
	}

	// Restart: the closed state survives.
	restored := NewSidebar(backend, slotKey)
	if restored.Open() {
		t.Error("closed state should survive a restart")
	}
}

func TestSidebarLastWriteWins(t *testing.T) {
	backend := storage.NewMemoryStore()
	defer backend.Close()
	ctx := context.Background()

	sidebar := NewSidebar(backend, slotKey)
	sidebar.SetOpen(ctx, false)
	sidebar.SetOpen(ctx, true)
	sidebar.SetOpen(ctx, false)

	if sidebar.Open() {
		t.Error("expected the last write to win")
	}
}

func TestSidebarSignal(t *testing.T) {
	backend := storage.NewMemoryStore()
	defer backend.Close()
	ctx := context.Background()

	sidebar := NewSidebar(backend, slotKey)

	runs := 0
	w := reactive.Watch(func() reactive.Cleanup {
		_ = sidebar.Signal().Get()
		runs++
		return nil
	})
	defer w.Stop()

	sidebar.SetOpen(ctx, false)
	if runs != 2 {
		t.Errorf("expected watcher to run twice (initial + change), ran %d", runs)
	}

	// Setting the same value does not notify.
	sidebar.SetOpen(ctx, false)
	if runs != 2 {
		t.Errorf("unchanged value must not notify, ran %d", runs)
	}
}
