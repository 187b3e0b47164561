package cache

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/baler/internal/adapters/config" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/baler/internal/core/domain"
	"go.trai.ch/baler/internal/core/ports"
)

// NodeID is the unique identifier for the compile cache Graft node.
const NodeID graft.ID = "adapter.compile_cache"

func init() {
	graft.Register(graft.Node[ports.CompileCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
		},
		Run: func(ctx context.Context) (ports.CompileCache, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}

			// The cache sits next to the configuration file so clean and
			// build agree on its location. Without a config the store is
			// rooted in the working directory; a build will fail on config
			// loading before ever touching it.
			dir := domain.DefaultBalerPath()
			if cfg, err := loader.Load("."); err == nil {
				dir = filepath.Join(cfg.Dir, domain.BalerDirName)
			}
			return NewStore(dir)
		},
	})
}
