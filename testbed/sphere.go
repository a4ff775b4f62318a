package testbed

import (
	"context"

	"github.com/spaghettifunk/quatmesh/engine/fractal"
	"github.com/spaghettifunk/quatmesh/engine/math"
)

const BackendSphere = "sphere"

// SphereEvaluator ignores the fractal parameters and returns the seed as a
// one-step trajectory, so a plane holds |p| and the isosurface at r is the
// sphere of radius r. Handy for checking mesh orientation and closure
// without the cost of the escape loop.
type SphereEvaluator struct{}

func NewSphereEvaluator() *SphereEvaluator {
	return &SphereEvaluator{}
}

func (se *SphereEvaluator) Name() string {
	return BackendSphere
}

func (se *SphereEvaluator) Evaluate(ctx context.Context, points []math.Quaternion, _ fractal.Params) ([]fractal.Trajectory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]fractal.Trajectory, len(points))
	for i, p := range points {
		out[i] = fractal.Trajectory{p}
	}
	return out, nil
}
