package library

import (
	"errors"
	"sync"
)

// ErrCancelled is returned by restore stages when the run's token was
// cancelled. It marks a deliberate stop, not a failure.
var ErrCancelled = errors.New("restore cancelled")

// CancelToken is a cooperative cancellation flag. Cancel may be called
// from any goroutine, any number of times; the restore loop polls
// Cancelled at each entity name and each book boundary.
type CancelToken struct {
	once sync.Once
	done chan struct{}
}

// NewCancelToken creates an uncancelled token.
func NewCancelToken() *CancelToken {
	return &CancelToken{done: make(chan struct{})}
}

// Cancel requests that the run stop at its next checkpoint. Idempotent.
func (t *CancelToken) Cancel() {
	t.once.Do(func() { close(t.done) })
}

// Cancelled reports whether Cancel has been called.
func (t *CancelToken) Cancelled() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done exposes the cancellation channel for select-based waiters.
func (t *CancelToken) Done() <-chan struct{} {
	return t.done
}
