package telemetry

import (
	"context"
	"os"
	"sync/atomic"

	"github.com/grindlemire/graft"
	"go.trai.ch/baler/internal/adapters/telemetry/progrock"
	"go.trai.ch/baler/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry Graft node.
const NodeID graft.ID = "adapter.telemetry"

var progressEnabled atomic.Bool

// EnableProgress switches the telemetry node from the no-op recorder to
// per-vertex console progress. It must be called before the dependency
// graph executes.
func EnableProgress() {
	progressEnabled.Store(true)
}

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			if progressEnabled.Load() {
				return progrock.NewRecorder(progrock.NewConsoleWriter(os.Stderr)), nil
			}
			return NewNoop(), nil
		},
	})
}
