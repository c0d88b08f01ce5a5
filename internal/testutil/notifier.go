package testutil

import (
	"sync"
	"time"
)

// ProgressEvent is one recorded Progress call.
type ProgressEvent struct {
	Processed int
	Total     int
	Label     string
}

// RecordingNotifier captures every notification for assertions.
// AfterProgress, when set, runs after each Progress call — tests use it
// to trigger cancellation at a precise point in a run. Safe for
// concurrent use.
type RecordingNotifier struct {
	mu            sync.Mutex
	events        []ProgressEvent
	succeeded     bool
	elapsed       time.Duration
	failedCause   string
	failed        bool
	cancelled     bool
	AfterProgress func(processed, total int, label string)
}

// NewRecordingNotifier creates an empty RecordingNotifier.
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (n *RecordingNotifier) Progress(processed, total int, label string) {
	n.mu.Lock()
	n.events = append(n.events, ProgressEvent{Processed: processed, Total: total, Label: label})
	hook := n.AfterProgress
	n.mu.Unlock()

	if hook != nil {
		hook(processed, total, label)
	}
}

func (n *RecordingNotifier) Succeeded(elapsed time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.succeeded = true
	n.elapsed = elapsed
}

func (n *RecordingNotifier) Failed(cause string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = true
	n.failedCause = cause
}

func (n *RecordingNotifier) Cancelled() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = true
}

// Events returns a copy of the recorded progress events.
func (n *RecordingNotifier) Events() []ProgressEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	events := make([]ProgressEvent, len(n.events))
	copy(events, n.events)
	return events
}

// DidSucceed reports whether Succeeded was called, and with what elapsed time.
func (n *RecordingNotifier) DidSucceed() (bool, time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.succeeded, n.elapsed
}

// DidFail reports whether Failed was called, and with what cause.
func (n *RecordingNotifier) DidFail() (bool, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.failed, n.failedCause
}

// DidCancel reports whether Cancelled was called.
func (n *RecordingNotifier) DidCancel() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cancelled
}
