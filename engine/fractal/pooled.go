package fractal

import (
	"context"
	"fmt"
	"sync"

	"github.com/spaghettifunk/quatmesh/engine/core"
	"github.com/spaghettifunk/quatmesh/engine/math"
	"github.com/spaghettifunk/quatmesh/engine/systems"
)

const DefaultChunkSize = 4096

// PooledEvaluator fans a batch out over a fixed worker pool in contiguous
// chunks. Each job writes only the output slots of its own chunk.
type PooledEvaluator struct {
	jobs      *systems.JobSystem
	chunkSize int
}

func NewPooledEvaluator(workers, chunkSize int) (*PooledEvaluator, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	js, err := systems.NewJobSystem(workers, workers*2)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrEvaluatorUnavailable, err)
	}
	core.LogDebug("pooled evaluator started with %d workers, %d points per chunk", js.Workers(), chunkSize)
	return &PooledEvaluator{
		jobs:      js,
		chunkSize: chunkSize,
	}, nil
}

func (pe *PooledEvaluator) Name() string {
	return BackendPooled
}

func (pe *PooledEvaluator) Evaluate(ctx context.Context, points []math.Quaternion, p Params) ([]Trajectory, error) {
	if pe.jobs == nil {
		return nil, core.ErrEvaluatorUnavailable
	}
	out := make([]Trajectory, len(points))

	var wg sync.WaitGroup
	for start := 0; start < len(points); start += pe.chunkSize {
		end := start + pe.chunkSize
		if end > len(points) {
			end = len(points)
		}
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		lo, hi := start, end
		pe.jobs.Submit(systems.JobTask{
			Name: fmt.Sprintf("trajectories[%d:%d]", lo, hi),
			OnStart: func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				for i := lo; i < hi; i++ {
					out[i] = Iterate(points[i], p)
				}
				return nil
			},
			OnCompletionCallback: wg.Done,
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close stops the worker pool. The evaluator must not be used afterwards.
func (pe *PooledEvaluator) Close() error {
	if pe.jobs == nil {
		return nil
	}
	err := pe.jobs.Shutdown()
	pe.jobs = nil
	return err
}
