package math

// FaceNormal returns the unit normal of the triangle (v0, v1, v2), following
// the right-hand rule on v1-v0 and v2-v0. Degenerate triangles get the zero
// vector.
func FaceNormal(v0, v1, v2 Vec3) Vec3 {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	return edge1.Cross(edge2).Normalize()
}

// NewExtents3D returns extents that contain nothing yet; the first Expand
// call sets both corners.
func NewExtents3D() Extents3D {
	return Extents3D{
		Min: Vec3{K_FLOAT_MAX, K_FLOAT_MAX, K_FLOAT_MAX},
		Max: Vec3{-K_FLOAT_MAX, -K_FLOAT_MAX, -K_FLOAT_MAX},
	}
}

// Expand grows e so that it contains p.
func (e Extents3D) Expand(p Vec3) Extents3D {
	e.Min = Vec3{Min(e.Min.X, p.X), Min(e.Min.Y, p.Y), Min(e.Min.Z, p.Z)}
	e.Max = Vec3{Max(e.Max.X, p.X), Max(e.Max.Y, p.Y), Max(e.Max.Z, p.Z)}
	return e
}

// IsEmpty reports whether e has not been expanded by any point.
func (e Extents3D) IsEmpty() bool {
	return e.Min.X > e.Max.X
}

// Size is the edge length along each axis.
func (e Extents3D) Size() Vec3 {
	if e.IsEmpty() {
		return NewVec3Zero()
	}
	return e.Max.Sub(e.Min)
}
