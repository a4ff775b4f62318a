package grid

import (
	"errors"
	"fmt"
)

// Axis is one sampling dimension: Resolution samples spread evenly over
// [Min, Max], both ends included.
type Axis struct {
	Min        float32
	Max        float32
	Resolution int
}

func (a Axis) Step() float32 {
	if a.Resolution < 2 {
		return 0
	}
	return (a.Max - a.Min) / float32(a.Resolution-1)
}

// Coord maps a sample index onto world space.
func (a Axis) Coord(i int) float32 {
	return a.Min + float32(i)*a.Step()
}

func (a Axis) Validate() error {
	if a.Resolution < 2 {
		return fmt.Errorf("resolution must be at least 2, got %d", a.Resolution)
	}
	if !(a.Max > a.Min) {
		return fmt.Errorf("max (%v) must be greater than min (%v)", a.Max, a.Min)
	}
	return nil
}

// Grid is the 3D sampling domain.
type Grid struct {
	X, Y, Z Axis
}

func (g Grid) Validate() error {
	var errs []error
	for name, a := range map[string]Axis{"x": g.X, "y": g.Y, "z": g.Z} {
		if err := a.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("axis %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// PlaneSize is the number of samples in one z-plane.
func (g Grid) PlaneSize() int {
	return g.X.Resolution * g.Y.Resolution
}

// CellsPerSlab is the number of unit cells between two adjacent z-planes.
func (g Grid) CellsPerSlab() int {
	return (g.X.Resolution - 1) * (g.Y.Resolution - 1)
}

// Slabs is the number of adjacent z-plane pairs.
func (g Grid) Slabs() int {
	return g.Z.Resolution - 1
}

// Index is the position of sample (x, y) inside a plane: x-major, y-minor.
// The sampler and the plane buffer both go through it.
func (g Grid) Index(x, y int) int {
	return x*g.Y.Resolution + y
}
