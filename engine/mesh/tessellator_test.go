package mesh

import (
	"math/bits"
	"testing"

	"github.com/spaghettifunk/quatmesh/engine/grid"
	"github.com/spaghettifunk/quatmesh/engine/math"
)

func unitCell() grid.Grid {
	a := grid.Axis{Min: -1, Max: 1, Resolution: 2}
	return grid.Grid{X: a, Y: a, Z: a}
}

// cellPlanes spreads the eight corner values of a single cell over the
// low and high planes.
func cellPlanes(g grid.Grid, corners [8]float32) (lo, hi []float32) {
	lo = make([]float32, g.PlaneSize())
	hi = make([]float32, g.PlaneSize())
	for i, off := range cornerOffsets {
		plane := lo
		if off[2] == 1 {
			plane = hi
		}
		plane[g.Index(off[0], off[1])] = corners[i]
	}
	return lo, hi
}

func TestUniformZeroFieldEmitsNothing(t *testing.T) {
	g := unitCell()
	lo, hi := cellPlanes(g, [8]float32{})
	out := New()
	stats := NewTessellator(g, 4).TessellateSlab(lo, hi, 0, out)
	if out.Len() != 0 || stats.Triangles != 0 || stats.Cells != 0 {
		t.Fatalf("uniform inside field produced %d triangles, %d cells", out.Len(), stats.Cells)
	}
}

func TestUniformOutsideFieldEmitsNothing(t *testing.T) {
	g := unitCell()
	lo, hi := cellPlanes(g, [8]float32{10, 10, 10, 10, 10, 10, 10, 10})
	out := New()
	NewTessellator(g, 4).TessellateSlab(lo, hi, 0, out)
	if out.Len() != 0 {
		t.Fatalf("uniform outside field produced %d triangles", out.Len())
	}
}

func TestSingleCornerCase(t *testing.T) {
	g := unitCell()
	lo, hi := cellPlanes(g, [8]float32{10, 0, 0, 0, 0, 0, 0, 0})
	out := New()
	stats := NewTessellator(g, 4).TessellateSlab(lo, hi, 0, out)
	if out.Len() != 1 || stats.Triangles != 1 || stats.Cells != 1 {
		t.Fatalf("single corner case: %d triangles, %d cells", out.Len(), stats.Cells)
	}
	// One triangle through the three edges incident to corner 0.
	if crossed := edgeTable[0x01]; bits.OnesCount16(crossed) != 3 || crossed != 1<<0|1<<3|1<<8 {
		t.Fatalf("case 0x01 crosses edges %012b, expected edges 0, 3 and 8", crossed)
	}

	// t = (4-10)/(0-10) = 0.6 along each edge leaving corner 0 at (-1,-1,-1).
	want := [3]math.Vec3{
		math.NewVec3(0.2, -1, -1), // edge 0
		math.NewVec3(-1, -1, 0.2), // edge 8
		math.NewVec3(-1, 0.2, -1), // edge 3
	}
	tri := out.Triangles()[0]
	for i := range want {
		if !tri.Vertices[i].Compare(want[i], 1e-6) {
			t.Fatalf("vertex %d = %+v, want %+v", i, tri.Vertices[i], want[i])
		}
	}

	// The normal faces the outside corner.
	n := tri.Normal()
	if n.Dot(math.NewVec3(-1, -1, -1)) <= 0 {
		t.Fatalf("normal %+v does not point towards the outside corner", n)
	}
	if !n.Compare(math.NewVec3(-0.57735026, -0.57735026, -0.57735026), 1e-5) {
		t.Fatalf("normal %+v", n)
	}
}

func TestEveryMixedCaseEmitsTableTriangles(t *testing.T) {
	g := unitCell()
	ts := NewTessellator(g, 0.5)
	for c := 1; c < 255; c++ {
		var corners [8]float32
		for i := 0; i < 8; i++ {
			if c&(1<<i) != 0 {
				corners[i] = 1
			}
		}
		lo, hi := cellPlanes(g, corners)
		out := New()
		stats := ts.TessellateSlab(lo, hi, 0, out)

		want := 0
		for triTable[c][want*3] != -1 {
			want++
		}
		if want == 0 || want > 5 {
			t.Fatalf("case %#02x: table has %d triangles", c, want)
		}
		if out.Len() != want || stats.Cells != 1 {
			t.Fatalf("case %#02x: %d triangles, want %d", c, out.Len(), want)
		}
		for _, tri := range out.Triangles() {
			for _, v := range tri.Vertices {
				// Midpoint crossings: exactly one coordinate is 0, the others ±1.
				zeros := 0
				for _, x := range []float32{v.X, v.Y, v.Z} {
					switch x {
					case 0:
						zeros++
					case -1, 1:
					default:
						t.Fatalf("case %#02x: vertex %+v is not on a cell edge", c, v)
					}
				}
				if zeros != 1 {
					t.Fatalf("case %#02x: vertex %+v is not an edge midpoint", c, v)
				}
			}
			if tri.Normal() == math.NewVec3Zero() {
				t.Fatalf("case %#02x: degenerate triangle %+v", c, tri)
			}
		}
	}
}

func TestInterpolateDegenerateEdge(t *testing.T) {
	p0 := math.NewVec3(0, 0, 0)
	p1 := math.NewVec3(2, 4, 6)
	mid := interpolate(4, p0, p1, 3, 3)
	if mid != math.NewVec3(1, 2, 3) {
		t.Fatalf("equal end values should give the midpoint, got %+v", mid)
	}
	q := interpolate(1, p0, p1, 0, 4)
	if !q.Compare(math.NewVec3(0.5, 1, 1.5), 1e-6) {
		t.Fatalf("interpolation mismatch: %+v", q)
	}
}

func TestSlabOffsetsByZIndex(t *testing.T) {
	a := grid.Axis{Min: -1, Max: 1, Resolution: 2}
	g := grid.Grid{X: a, Y: a, Z: grid.Axis{Min: 0, Max: 3, Resolution: 4}}
	lo, hi := cellPlanes(g, [8]float32{10, 0, 0, 0, 0, 0, 0, 0})
	out := New()
	NewTessellator(g, 4).TessellateSlab(lo, hi, 2, out)
	if out.Len() != 1 {
		t.Fatalf("expected one triangle, got %d", out.Len())
	}
	for _, v := range out.Triangles()[0].Vertices {
		if v.Z < 2 || v.Z > 3 {
			t.Fatalf("vertex %+v lies outside slab z in [2,3]", v)
		}
	}
}

// sphereMesh tessellates |p| = radius plane by plane.
func sphereMesh(res int, radius float32) (*Mesh, int) {
	a := grid.Axis{Min: -1.5, Max: 1.5, Resolution: res}
	g := grid.Grid{X: a, Y: a, Z: a}
	fill := func(z int, plane []float32) {
		for x := 0; x < res; x++ {
			for y := 0; y < res; y++ {
				p := math.NewVec3(a.Coord(x), a.Coord(y), a.Coord(z))
				plane[g.Index(x, y)] = p.Length()
			}
		}
	}
	ts := NewTessellator(g, radius)
	out := New()
	lo := make([]float32, g.PlaneSize())
	hi := make([]float32, g.PlaneSize())
	fill(0, lo)
	cells := 0
	for z := 1; z < res; z++ {
		fill(z, hi)
		cells += ts.TessellateSlab(lo, hi, z-1, out).Cells
		lo, hi = hi, lo
	}
	return out, cells
}

func TestSphereIsClosedAndOutwardFacing(t *testing.T) {
	const radius = 1.1
	out, cells := sphereMesh(20, radius)
	if out.Len() == 0 || cells == 0 {
		t.Fatalf("sphere produced no triangles")
	}

	type edge [2]math.Vec3
	directed := map[edge]int{}
	volume := 0.0
	for _, tri := range out.Triangles() {
		v0, v1, v2 := tri.Vertices[0], tri.Vertices[1], tri.Vertices[2]
		for i := 0; i < 3; i++ {
			directed[edge{tri.Vertices[i], tri.Vertices[(i+1)%3]}]++
		}
		volume += float64(v0.Dot(v1.Cross(v2))) / 6

		c := v0.Add(v1).Add(v2).MulScalar(1.0 / 3.0)
		// Slivers have unreliable normals.
		if v1.Sub(v0).Cross(v2.Sub(v0)).Length() > 1e-4 {
			if tri.Normal().Dot(c) <= 0 {
				t.Fatalf("triangle %+v faces inwards (normal %+v)", tri, tri.Normal())
			}
		}
		if l := c.Length(); l < radius-0.2 || l > radius+0.2 {
			t.Fatalf("triangle centroid at radius %v, want about %v", l, radius)
		}
	}
	for e, n := range directed {
		if n != 1 {
			t.Fatalf("directed edge %+v used %d times", e, n)
		}
		if directed[edge{e[1], e[0]}] != 1 {
			t.Fatalf("edge %+v has no opposite half-edge, surface is open", e)
		}
	}

	// Outward winding makes the enclosed volume positive.
	want := 4.0 / 3.0 * 3.14159265 * radius * radius * radius
	if volume < 0.9*want || volume > 1.1*want {
		t.Fatalf("enclosed volume %v, want about %v", volume, want)
	}

	b := out.Bounds()
	if b.Max.X > radius+0.01 || b.Min.X < -radius-0.01 {
		t.Fatalf("bounds %+v exceed the sphere", b)
	}
}
