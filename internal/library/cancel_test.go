package library_test

import (
	"testing"

	"shelf/internal/library"
)

func TestCancelToken(t *testing.T) {
	t.Parallel()

	t.Run("starts uncancelled", func(t *testing.T) {
		tok := library.NewCancelToken()
		if tok.Cancelled() {
			t.Error("new token reports cancelled")
		}
		select {
		case <-tok.Done():
			t.Error("new token's Done channel is closed")
		default:
		}
	})

	t.Run("cancel is observable and idempotent", func(t *testing.T) {
		tok := library.NewCancelToken()
		tok.Cancel()
		tok.Cancel()

		if !tok.Cancelled() {
			t.Error("token does not report cancelled after Cancel")
		}
		select {
		case <-tok.Done():
		default:
			t.Error("Done channel not closed after Cancel")
		}
	})
}
