package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/baler/internal/adapters/cache"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/baler/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/baler/internal/adapters/hashing"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/baler/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/baler/internal/adapters/scss"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/baler/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/baler/internal/core/ports"
)

// NodeID is the unique identifier for the pipeline Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.NodeID,
			scss.NodeID,
			cache.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Pipeline, error) {
			scanner, err := graft.Dep[ports.Scanner](ctx)
			if err != nil {
				return nil, err
			}

			preprocessor, err := graft.Dep[ports.Preprocessor](ctx)
			if err != nil {
				return nil, err
			}

			compileCache, err := graft.Dep[ports.CompileCache](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			hashers := make(map[string]ports.Hasher)
			for _, name := range hashing.Algorithms() {
				h, err := hashing.New(name)
				if err != nil {
					return nil, err
				}
				hashers[name] = h
			}

			return New(
				scanner,
				map[string]ports.Preprocessor{scss.Name: preprocessor},
				hashers,
				compileCache,
				tel,
				log,
			), nil
		},
	})
}
