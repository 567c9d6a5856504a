// Package reactive provides the signal primitives that back statekit stores.
//
// A Signal holds a value and notifies listeners when it changes. Reads made
// through Get during a tracked context (a Watch body, or code run under
// WithListener) subscribe the current listener automatically; Peek reads the
// value without subscribing. Batch groups multiple updates into a single
// notification pass.
//
// Example:
//
//	open := reactive.NewSignal(false)
//
//	w := reactive.Watch(func() reactive.Cleanup {
//	    fmt.Println("sidebar open:", open.Get())
//	    return nil
//	})
//	defer w.Stop()
//
//	open.Set(true) // watcher re-runs
package reactive
