package mesh

import (
	"github.com/spaghettifunk/quatmesh/engine/grid"
	"github.com/spaghettifunk/quatmesh/engine/math"
)

// Corner offsets (dx, dy, dz) in canonical order; dz 0 is the low plane.
var cornerOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// Edge endpoints, each listed from the lower-coordinate corner so that a
// shared edge interpolates identically in every cell that touches it.
var edgeCorners = [12][2]int{
	{0, 1}, {1, 2}, {3, 2}, {0, 3},
	{4, 5}, {5, 6}, {7, 6}, {4, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// SlabStats is what one TessellateSlab call adds to the run.
type SlabStats struct {
	// Non-uniform cells. Diagnostic only.
	Cells     int
	Triangles int
}

// Tessellator runs marching cubes over a grid. A corner is outside when its
// value is >= Isovalue; outside corners set their bit in the case index and
// emitted normals point towards them.
type Tessellator struct {
	Grid     grid.Grid
	Isovalue float32
}

func NewTessellator(g grid.Grid, isovalue float32) *Tessellator {
	return &Tessellator{Grid: g, Isovalue: isovalue}
}

// TessellateSlab emits the triangles of the slab between plane lo (z index
// z) and plane hi (z+1) into out.
func (ts *Tessellator) TessellateSlab(lo, hi []float32, z int, out *Mesh) SlabStats {
	var stats SlabStats
	g := ts.Grid

	z0 := g.Z.Coord(z)
	z1 := g.Z.Coord(z + 1)

	var values [8]float32
	var positions [8]math.Vec3
	var crossings [12]math.Vec3

	for x := 0; x < g.X.Resolution-1; x++ {
		x0 := g.X.Coord(x)
		x1 := g.X.Coord(x + 1)
		for y := 0; y < g.Y.Resolution-1; y++ {
			y0 := g.Y.Coord(y)
			y1 := g.Y.Coord(y + 1)

			cubeIndex := 0
			for i, off := range cornerOffsets {
				plane := lo
				zc := z0
				if off[2] == 1 {
					plane = hi
					zc = z1
				}
				xc, yc := x0, y0
				if off[0] == 1 {
					xc = x1
				}
				if off[1] == 1 {
					yc = y1
				}
				values[i] = plane[g.Index(x+off[0], y+off[1])]
				positions[i] = math.NewVec3(xc, yc, zc)
				if values[i] >= ts.Isovalue {
					cubeIndex |= 1 << i
				}
			}

			if cubeIndex == 0x00 || cubeIndex == 0xFF {
				continue
			}
			stats.Cells++

			edges := edgeTable[cubeIndex]
			for e, c := range edgeCorners {
				if edges&(1<<e) != 0 {
					crossings[e] = interpolate(ts.Isovalue, positions[c[0]], positions[c[1]], values[c[0]], values[c[1]])
				}
			}

			row := &triTable[cubeIndex]
			for i := 0; row[i] != -1; i += 3 {
				out.Append(NewTriangle(crossings[row[i]], crossings[row[i+1]], crossings[row[i+2]]))
				stats.Triangles++
			}
		}
	}
	return stats
}

// interpolate returns the point on p0-p1 where the field crosses isovalue.
// Equal end values give the midpoint.
func interpolate(isovalue float32, p0, p1 math.Vec3, v0, v1 float32) math.Vec3 {
	t := float32(0.5)
	if v1 != v0 {
		t = (isovalue - v0) / (v1 - v0)
	}
	return p0.Lerp(p1, t)
}
