package fractal

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spaghettifunk/quatmesh/engine/core"
	"github.com/spaghettifunk/quatmesh/engine/math"
)

// Evaluator computes one trajectory per input point. The output is
// positionally aligned with the input: result[i] belongs to points[i].
type Evaluator interface {
	Name() string
	Evaluate(ctx context.Context, points []math.Quaternion, p Params) ([]Trajectory, error)
}

const (
	BackendPooled = "pooled"
	BackendSerial = "serial"
)

// BackendOptions carries knobs for the built-in backends.
type BackendOptions struct {
	Workers   int
	ChunkSize int
}

// NewEvaluator builds one of the built-in CPU backends.
func NewEvaluator(backend string, opts BackendOptions) (Evaluator, error) {
	switch backend {
	case BackendSerial:
		return NewSerialEvaluator(), nil
	case BackendPooled, "":
		workers := opts.Workers
		if workers <= 0 {
			workers = runtime.NumCPU()
		}
		return NewPooledEvaluator(workers, opts.ChunkSize)
	default:
		return nil, fmt.Errorf("%w: unknown evaluator backend %q", core.ErrEvaluatorUnavailable, backend)
	}
}

type SerialEvaluator struct{}

func NewSerialEvaluator() *SerialEvaluator {
	return &SerialEvaluator{}
}

func (se *SerialEvaluator) Name() string {
	return BackendSerial
}

func (se *SerialEvaluator) Evaluate(ctx context.Context, points []math.Quaternion, p Params) ([]Trajectory, error) {
	out := make([]Trajectory, len(points))
	for i, pt := range points {
		// Checking every point would dominate the loop.
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out[i] = Iterate(pt, p)
	}
	return out, nil
}
