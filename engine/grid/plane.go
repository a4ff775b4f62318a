package grid

import (
	"fmt"

	"github.com/spaghettifunk/quatmesh/engine/core"
	"github.com/spaghettifunk/quatmesh/engine/fractal"
)

// PlaneBuffer holds the two live scalar planes of the pipeline. Load writes
// the current plane; Swap turns it into the previous one and recycles the
// old previous plane for the next Load.
type PlaneBuffer struct {
	grid     Grid
	previous []float32
	current  []float32
}

func NewPlaneBuffer(g Grid) *PlaneBuffer {
	return &PlaneBuffer{
		grid:     g,
		previous: make([]float32, g.PlaneSize()),
		current:  make([]float32, g.PlaneSize()),
	}
}

// Load stores the terminal magnitude of each trajectory into the current
// plane. Trajectories must be in sampler order.
func (pb *PlaneBuffer) Load(trajectories []fractal.Trajectory) error {
	if len(trajectories) != len(pb.current) {
		return fmt.Errorf("%w: got %d trajectories for a plane of %d", core.ErrPlaneSize, len(trajectories), len(pb.current))
	}
	for i, t := range trajectories {
		pb.current[i] = t.Magnitude()
	}
	return nil
}

// Swap exchanges the planes without copying.
func (pb *PlaneBuffer) Swap() {
	pb.previous, pb.current = pb.current, pb.previous
}

func (pb *PlaneBuffer) Previous() []float32 {
	return pb.previous
}

func (pb *PlaneBuffer) Current() []float32 {
	return pb.current
}

// At reads the current plane at sample (x, y).
func (pb *PlaneBuffer) At(x, y int) float32 {
	return pb.current[pb.grid.Index(x, y)]
}
