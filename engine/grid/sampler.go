package grid

import "github.com/spaghettifunk/quatmesh/engine/math"

// Sampler enumerates the 4D seed points of one z-plane. W is held fixed for
// the whole run.
type Sampler struct {
	Grid Grid
	W    float32
}

func NewSampler(g Grid, w float32) *Sampler {
	return &Sampler{Grid: g, W: w}
}

// Slice fills dst with the seeds of plane z in Index order, reusing its
// backing array when large enough.
func (s *Sampler) Slice(z int, dst []math.Quaternion) []math.Quaternion {
	n := s.Grid.PlaneSize()
	if cap(dst) < n {
		dst = make([]math.Quaternion, n)
	}
	dst = dst[:n]

	zc := s.Grid.Z.Coord(z)
	for x := 0; x < s.Grid.X.Resolution; x++ {
		xc := s.Grid.X.Coord(x)
		for y := 0; y < s.Grid.Y.Resolution; y++ {
			dst[s.Grid.Index(x, y)] = math.NewQuat(xc, s.Grid.Y.Coord(y), zc, s.W)
		}
	}
	return dst
}
