package core

import (
	"time"

	"github.com/spaghettifunk/quatmesh/engine/containers"
)

const AVG_COUNT int = 30

// Metrics accumulates diagnostics for one pipeline run. The cell count is
// informational only and never drives output.
type Metrics struct {
	Slabs     int
	Cells     int
	Triangles int
	Elapsed   time.Duration

	window *containers.RingQueue[time.Duration]
}

func NewMetrics() *Metrics {
	return &Metrics{
		window: containers.NewRingQueue[time.Duration](AVG_COUNT),
	}
}

// SlabUpdate records one tessellated slab.
func (m *Metrics) SlabUpdate(elapsed time.Duration, cells, triangles int) {
	m.Slabs++
	m.Cells += cells
	m.Triangles += triangles
	m.Elapsed += elapsed

	if m.window.IsFull() {
		_, _ = m.window.Dequeue()
	}
	_ = m.window.Enqueue(elapsed)
}

// AverageSlab is the mean slab time over the last AVG_COUNT slabs.
func (m *Metrics) AverageSlab() time.Duration {
	values := m.window.Values()
	if len(values) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range values {
		sum += v
	}
	return sum / time.Duration(len(values))
}

// Remaining estimates the time left for the given number of slabs.
func (m *Metrics) Remaining(slabs int) time.Duration {
	if slabs <= 0 {
		return 0
	}
	return m.AverageSlab() * time.Duration(slabs)
}
