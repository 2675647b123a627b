package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lucifer/internal/core/ports"
)

// LoaderNodeID is the unique identifier for the module loader Graft node.
const LoaderNodeID graft.ID = "adapter.fs.loader"

func init() {
	graft.Register(graft.Node[ports.ModuleLoader]{
		ID:        LoaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ModuleLoader, error) {
			return NewLoader(), nil
		},
	})
}
