package app

import (
	"fmt"
	"io"
	"time"

	"shelf/internal/library"
)

// ConsoleNotifier presents restore progress on the terminal, one line
// per completed restore unit plus a terminal-state line.
type ConsoleNotifier struct {
	w io.Writer
}

var _ library.Notifier = (*ConsoleNotifier)(nil)

// NewConsoleNotifier creates a notifier writing to w.
func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{w: w}
}

func (n *ConsoleNotifier) Progress(processed, total int, label string) {
	fmt.Fprintf(n.w, "[%d/%d] %s\n", processed, total, label)
}

func (n *ConsoleNotifier) Succeeded(elapsed time.Duration) {
	fmt.Fprintf(n.w, "restore completed in %s\n", elapsed.Round(time.Millisecond))
}

func (n *ConsoleNotifier) Failed(cause string) {
	fmt.Fprintf(n.w, "restore failed: %s\n", cause)
}

func (n *ConsoleNotifier) Cancelled() {
	fmt.Fprintln(n.w, "restore cancelled")
}
