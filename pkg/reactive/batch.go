package reactive

// Batch groups multiple signal updates into a single notification phase.
// All updates inside fn are collected, deduplicated by listener ID, and the
// affected listeners are notified once when the batch completes.
//
// Batches can be nested; notifications only fire when the outermost batch
// completes.
//
// Example:
//
//	reactive.Batch(func() {
//	    header.Set(h)
//	    username.Set(u)
//	})
//	// Subscribers are notified once with both changes applied.
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			processPendingUpdates()
		}
	}()

	fn()
}

// processPendingUpdates deduplicates and notifies all pending listeners.
func processPendingUpdates() {
	updates := drainPendingUpdates()
	if len(updates) == 0 {
		return
	}

	seen := make(map[uint64]bool, len(updates))
	unique := make([]Listener, 0, len(updates))
	for _, listener := range updates {
		id := listener.ID()
		if !seen[id] {
			seen[id] = true
			unique = append(unique, listener)
		}
	}

	for _, listener := range unique {
		listener.MarkDirty()
	}
}

// Untracked runs fn without tracking signal reads as dependencies.
// For single reads, signal.Peek() is clearer and cheaper.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}
