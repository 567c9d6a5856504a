package reactive

import (
	"sync"
	"sync/atomic"
)

// Watcher is a reactive side effect that re-runs when its dependencies
// change. The body runs immediately when created and re-tracks its sources on
// every run, so conditional reads subscribe to exactly what was read last.
type Watcher struct {
	id uint64

	// fn is the watcher body.
	fn func() Cleanup

	// cleanup is the cleanup function from the last run.
	cleanup Cleanup

	// sources are the signals this watcher currently depends on.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// stopped indicates the watcher has been stopped.
	stopped atomic.Bool

	// running guards against re-entrant runs when the body writes one of
	// its own sources.
	running atomic.Bool
}

// Watch creates a watcher and runs its body immediately. The body re-runs
// synchronously whenever a signal it read changes. If the body returns a
// Cleanup, it is called before each re-run and on Stop.
//
// Example:
//
//	w := reactive.Watch(func() reactive.Cleanup {
//	    log.Printf("auth header: %q", session.Get().Header)
//	    return nil
//	})
//	defer w.Stop()
func Watch(fn func() Cleanup) *Watcher {
	w := &Watcher{
		id: nextID(),
		fn: fn,
	}
	w.run()
	return w
}

// MarkDirty re-runs the watcher. Implements Listener.
func (w *Watcher) MarkDirty() {
	if w.stopped.Load() {
		return
	}
	w.run()
}

// ID returns the unique identifier for this watcher. Implements Listener.
func (w *Watcher) ID() uint64 {
	return w.id
}

// Stop unsubscribes the watcher from all sources and runs its last cleanup.
// A stopped watcher never runs again.
func (w *Watcher) Stop() {
	if w.stopped.Swap(true) {
		return
	}

	if w.cleanup != nil {
		w.cleanup()
		w.cleanup = nil
	}

	w.sourcesMu.Lock()
	for _, source := range w.sources {
		source.unsubscribe(w)
	}
	w.sources = nil
	w.sourcesMu.Unlock()
}

// run executes the body, re-tracking dependencies.
func (w *Watcher) run() {
	if w.stopped.Load() {
		return
	}
	if !w.running.CompareAndSwap(false, true) {
		return
	}
	defer w.running.Store(false)

	if w.cleanup != nil {
		w.cleanup()
		w.cleanup = nil
	}

	// Unsubscribe from old sources before re-tracking.
	w.sourcesMu.Lock()
	for _, source := range w.sources {
		source.unsubscribe(w)
	}
	w.sources = w.sources[:0]
	w.sourcesMu.Unlock()

	old := setCurrentListener(w)
	w.cleanup = w.fn()
	setCurrentListener(old)
}

// addSource records a dependency. Called by signals read during the body.
func (w *Watcher) addSource(source *signalBase) {
	w.sourcesMu.Lock()
	defer w.sourcesMu.Unlock()

	for _, s := range w.sources {
		if s == source {
			return
		}
	}
	w.sources = append(w.sources, source)
}
