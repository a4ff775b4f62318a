package engine

import (
	"time"

	"github.com/spaghettifunk/quatmesh/engine/mesh"
)

// SlabReport describes one tessellated plane pair.
type SlabReport struct {
	RunID string
	// 1-based index of the slab, out of Total.
	Index int
	Total int
	Stats mesh.SlabStats
	// Time spent sampling, evaluating and tessellating this slab.
	Elapsed time.Duration
	// Estimated time left for the remaining slabs.
	Remaining time.Duration
}

type OnSlab func(report SlabReport)

// Hooks are optional callbacks invoked from the pipeline goroutine.
type Hooks struct {
	OnSlab OnSlab
}
