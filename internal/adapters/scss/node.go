package scss

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/baler/internal/core/ports"
)

// NodeID is the unique identifier for the SCSS compiler Graft node.
const NodeID graft.ID = "adapter.scss"

func init() {
	graft.Register(graft.Node[ports.Preprocessor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Preprocessor, error) {
			return NewCompiler(), nil
		},
	})
}
