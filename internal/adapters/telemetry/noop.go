// Package telemetry provides the no-op implementation of the telemetry
// port. The progrock subpackage provides the recording implementation
// used when build progress is requested.
package telemetry

import (
	"context"
	"io"

	"go.trai.ch/baler/internal/core/domain"
	"go.trai.ch/baler/internal/core/ports"
)

var _ ports.Telemetry = (*Noop)(nil)

// Noop is a no-op implementation of ports.Telemetry. It is the default:
// a build without --progress records nothing.
type Noop struct{}

// NewNoop creates a new Noop telemetry.
func NewNoop() *Noop {
	return &Noop{}
}

// Record returns a vertex that discards everything.
func (n *Noop) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	v := &noopVertex{}
	return ports.ContextWithVertex(ctx, v), v
}

// Close does nothing.
func (n *Noop) Close() error {
	return nil
}

type noopVertex struct{}

func (v *noopVertex) Stdout() io.Writer               { return io.Discard }
func (v *noopVertex) Stderr() io.Writer               { return io.Discard }
func (v *noopVertex) Log(_ domain.LogLevel, _ string) {}
func (v *noopVertex) Complete(_ error)                {}
func (v *noopVertex) Cached()                         {}
