package math

// Plane is the set of points p with Normal·p + D = 0.
// Normal must be unit length; a scaled normal yields scaled reflections.
type Plane struct {
	Normal Vec3
	D      float32
}

// PlaneFromPoint returns the plane through point with the given unit normal.
func PlaneFromPoint(point, normal Vec3) Plane {
	return Plane{Normal: normal, D: -normal.Dot(point)}
}

// Vec4 returns the plane as (nx, ny, nz, d).
func (p Plane) Vec4() Vec4 {
	return Vec4{p.Normal.X, p.Normal.Y, p.Normal.Z, p.D}
}

// SignedDistance returns the signed distance of point from the plane.
func (p Plane) SignedDistance(point Vec3) float32 {
	return p.Normal.Dot(point) + p.D
}

// Offset returns the plane pushed along its normal by dist.
func (p Plane) Offset(dist float32) Plane {
	return Plane{Normal: p.Normal, D: p.D - dist}
}

// ReflectionMatrix returns the affine matrix mirroring points across p.
// The result is its own inverse and has determinant -1.
func ReflectionMatrix(p Plane) Mat4 {
	n := p.Normal
	d := p.D

	return Mat4{
		1 - 2*n.X*n.X, -2 * n.Y * n.X, -2 * n.Z * n.X, 0,
		-2 * n.X * n.Y, 1 - 2*n.Y*n.Y, -2 * n.Z * n.Y, 0,
		-2 * n.X * n.Z, -2 * n.Y * n.Z, 1 - 2*n.Z*n.Z, 0,
		-2 * d * n.X, -2 * d * n.Y, -2 * d * n.Z, 1,
	}
}

// CameraSpacePlane converts a world-space plane, given as a point and unit
// normal, into the view space of view. The plane is first pushed clipOffset
// along its normal. sideSign +1 keeps the half-space the normal points into,
// -1 keeps the opposite one.
func CameraSpacePlane(view Mat4, pos, normal Vec3, clipOffset, sideSign float32) Vec4 {
	offsetPos := pos.Add(normal.Scale(clipOffset))
	cpos := view.TransformVec3(offsetPos)
	cnormal := view.TransformDir(normal).Normalize().Scale(sideSign)
	return Vec4{cnormal.X, cnormal.Y, cnormal.Z, -cpos.Dot(cnormal)}
}

// ObliqueProjection returns proj with its near plane replaced by clip, a
// view-space plane whose positive side stays visible. Points on clip map to
// NDC z = -1. Only the third row changes, so x, y and w are preserved.
// The camera must lie on the negative side of clip.
func ObliqueProjection(proj Mat4, clip Vec4) Mat4 {
	// Far frustum corner opposite the plane, back in view space.
	q := proj.Inverse().MulVec4(Vec4{sgn(clip[0]), sgn(clip[1]), 1, 1})
	c := clip.Scale(2 / clip.Dot(q))

	result := proj
	result.SetRow(2, c.Sub(proj.Row(3)))
	return result
}

func sgn(a float32) float32 {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	default:
		return 0
	}
}
