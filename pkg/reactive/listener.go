package reactive

// Listener is anything that can be notified when a dependency changes.
// Watchers implement it; consumers that need custom scheduling (the devtools
// feed, UI bridges) can implement it directly.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// Cleanup is returned by a Watch body to release resources.
// It runs before the watcher re-runs and when the watcher is stopped.
type Cleanup func()
