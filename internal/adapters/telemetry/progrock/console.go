package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
)

var _ progrock.Writer = (*ConsoleWriter)(nil)

// ConsoleWriter renders progrock status updates as plain log lines, one
// per finished vertex. It is the non-TTY progress surface: stable output
// in CI logs, no cursor movement.
type ConsoleWriter struct {
	mu   sync.Mutex
	out  io.Writer
	done map[string]bool
}

// NewConsoleWriter creates a ConsoleWriter emitting to out.
func NewConsoleWriter(out io.Writer) *ConsoleWriter {
	return &ConsoleWriter{
		out:  out,
		done: make(map[string]bool),
	}
}

// WriteStatus prints a line for every vertex that reached a terminal
// state since the last update.
func (w *ConsoleWriter) WriteStatus(update *progrock.StatusUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, v := range update.Vertexes {
		if v.Completed == nil || w.done[v.Id] {
			continue
		}
		w.done[v.Id] = true

		switch {
		case v.Error != nil:
			fmt.Fprintf(w.out, "✗ %s: %s\n", v.Name, v.GetError())
		case v.Cached:
			fmt.Fprintf(w.out, "• %s (cached)\n", v.Name)
		default:
			fmt.Fprintf(w.out, "✓ %s\n", v.Name)
		}
	}
	return nil
}

// Close implements progrock.Writer.
func (w *ConsoleWriter) Close() error {
	return nil
}
