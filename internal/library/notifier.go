package library

import "time"

// Notifier receives restore progress and terminal-state updates for
// presentation to the user. Implementations must tolerate being called
// from the restore worker goroutine.
type Notifier interface {
	// Progress reports one completed restore unit: either a resolved
	// reference-entity category or an imported book. label is the
	// category display name or the book title.
	Progress(processed, total int, label string)

	// Succeeded reports a completed run with its elapsed wall time.
	Succeeded(elapsed time.Duration)

	// Failed reports a fatal error with a human-readable cause.
	Failed(cause string)

	// Cancelled reports a cooperative early stop.
	Cancelled()
}

// NopNotifier discards all updates. Use in tests that do not assert on
// progress.
type NopNotifier struct{}

func (NopNotifier) Progress(int, int, string)   {}
func (NopNotifier) Succeeded(time.Duration)     {}
func (NopNotifier) Failed(string)               {}
func (NopNotifier) Cancelled()                  {}
