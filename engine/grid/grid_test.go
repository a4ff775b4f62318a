package grid

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/quatmesh/engine/core"
	"github.com/spaghettifunk/quatmesh/engine/fractal"
	"github.com/spaghettifunk/quatmesh/engine/math"
)

func testGrid() Grid {
	return Grid{
		X: Axis{Min: -1, Max: 1, Resolution: 3},
		Y: Axis{Min: 0, Max: 4, Resolution: 5},
		Z: Axis{Min: -2, Max: 2, Resolution: 2},
	}
}

func TestAxisStepAndCoord(t *testing.T) {
	a := Axis{Min: -1.5, Max: 1.5, Resolution: 4}
	if a.Step() != 1 {
		t.Fatalf("step %v, want 1", a.Step())
	}
	if a.Coord(0) != a.Min || a.Coord(3) != a.Max {
		t.Fatalf("ends not reached: %v .. %v", a.Coord(0), a.Coord(3))
	}
}

func TestAxisValidate(t *testing.T) {
	cases := []struct {
		axis Axis
		ok   bool
	}{
		{Axis{Min: -1, Max: 1, Resolution: 2}, true},
		{Axis{Min: -1, Max: 1, Resolution: 1}, false},
		{Axis{Min: 1, Max: 1, Resolution: 8}, false},
		{Axis{Min: 2, Max: -2, Resolution: 8}, false},
	}
	for i, c := range cases {
		if err := c.axis.Validate(); (err == nil) != c.ok {
			t.Fatalf("case %d: Validate() = %v, want ok=%v", i, err, c.ok)
		}
	}
	g := testGrid()
	g.Y.Resolution = 0
	if err := g.Validate(); err == nil {
		t.Fatalf("grid with a bad axis should not validate")
	}
}

func TestGridCounts(t *testing.T) {
	g := testGrid()
	if g.PlaneSize() != 15 || g.CellsPerSlab() != 8 || g.Slabs() != 1 {
		t.Fatalf("counts: plane=%d cells=%d slabs=%d", g.PlaneSize(), g.CellsPerSlab(), g.Slabs())
	}
}

func TestSamplerOrderMatchesIndex(t *testing.T) {
	g := testGrid()
	s := NewSampler(g, 0.25)
	pts := s.Slice(1, nil)
	if len(pts) != g.PlaneSize() {
		t.Fatalf("slice length %d, want %d", len(pts), g.PlaneSize())
	}
	for x := 0; x < g.X.Resolution; x++ {
		for y := 0; y < g.Y.Resolution; y++ {
			want := math.NewQuat(g.X.Coord(x), g.Y.Coord(y), g.Z.Coord(1), 0.25)
			if got := pts[g.Index(x, y)]; got != want {
				t.Fatalf("(%d,%d): got %+v want %+v", x, y, got, want)
			}
		}
	}
	// x-major: the second element advances y.
	if pts[1].X != pts[0].X || pts[1].Y == pts[0].Y {
		t.Fatalf("traversal is not x-major/y-minor: %+v %+v", pts[0], pts[1])
	}
}

func TestSamplerReusesBuffer(t *testing.T) {
	g := testGrid()
	s := NewSampler(g, 0)
	buf := make([]math.Quaternion, 0, g.PlaneSize())
	out := s.Slice(0, buf)
	if &out[0] != &buf[:1][0] {
		t.Fatalf("Slice should reuse a large enough buffer")
	}
}

func TestPlaneBufferLoadAndSwap(t *testing.T) {
	g := testGrid()
	pb := NewPlaneBuffer(g)
	s := NewSampler(g, 0)

	pts := s.Slice(0, nil)
	trajs := make([]fractal.Trajectory, len(pts))
	for i, p := range pts {
		trajs[i] = fractal.Trajectory{p}
	}
	if err := pb.Load(trajs); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for x := 0; x < g.X.Resolution; x++ {
		for y := 0; y < g.Y.Resolution; y++ {
			if got, want := pb.At(x, y), pts[g.Index(x, y)].Magnitude(); got != want {
				t.Fatalf("(%d,%d): %v want %v", x, y, got, want)
			}
		}
	}

	cur := pb.Current()
	prev := pb.Previous()
	pb.Swap()
	if &pb.Previous()[0] != &cur[0] || &pb.Current()[0] != &prev[0] {
		t.Fatalf("Swap should exchange the backing arrays")
	}
}

func TestPlaneBufferEmptyTrajectoryIsZero(t *testing.T) {
	g := testGrid()
	pb := NewPlaneBuffer(g)
	trajs := make([]fractal.Trajectory, g.PlaneSize())
	trajs[3] = fractal.Trajectory{math.NewQuat(3, 4, 0, 0)}
	if err := pb.Load(trajs); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if pb.Current()[0] != 0 || pb.Current()[3] != 5 {
		t.Fatalf("plane values: %v", pb.Current())
	}
}

func TestPlaneBufferRejectsWrongSize(t *testing.T) {
	pb := NewPlaneBuffer(testGrid())
	if err := pb.Load(make([]fractal.Trajectory, 2)); !errors.Is(err, core.ErrPlaneSize) {
		t.Fatalf("expected ErrPlaneSize, got %v", err)
	}
}
