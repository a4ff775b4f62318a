package mesh

import "github.com/spaghettifunk/quatmesh/engine/math"

// Triangle stores its vertices only; the face normal is derived on demand.
type Triangle struct {
	Vertices [3]math.Vec3
}

func NewTriangle(v0, v1, v2 math.Vec3) Triangle {
	return Triangle{Vertices: [3]math.Vec3{v0, v1, v2}}
}

// Normal is normalize(cross(v1-v0, v2-v0)), or zero for degenerate triangles.
func (t Triangle) Normal() math.Vec3 {
	return math.FaceNormal(t.Vertices[0], t.Vertices[1], t.Vertices[2])
}

// Mesh is an append-only triangle list kept in generation order. No
// deduplication or topology checks happen here.
type Mesh struct {
	triangles []Triangle
}

func New() *Mesh {
	return &Mesh{}
}

func (m *Mesh) Append(tris ...Triangle) {
	m.triangles = append(m.triangles, tris...)
}

func (m *Mesh) Len() int {
	return len(m.triangles)
}

// Triangles exposes the accumulated triangles. Callers must not modify them.
func (m *Mesh) Triangles() []Triangle {
	return m.triangles
}

// Bounds returns the extents of every vertex in the mesh.
func (m *Mesh) Bounds() math.Extents3D {
	e := math.NewExtents3D()
	for _, t := range m.triangles {
		for _, v := range t.Vertices {
			e = e.Expand(v)
		}
	}
	return e
}
