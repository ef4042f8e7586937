package water

import "github.com/Faultbox/tidewater/pkg/math"

// Triangle is one half of a grid quad, with the shared apex first.
type Triangle [3]math.Vec3

// Triangle picks the half of quad (row, column) used to answer queries at p.
// The apex is whichever diagonal corner, (row, column) or (row-1, column-1),
// is nearer to p; the other two corners complete the triangle. This is a
// nearest-apex approximation, not a containment test: near the diagonal it
// can choose the triangle p is not inside.
func (g *HeightGrid) Triangle(p math.Vec3, row, column int) Triangle {
	far := g.WorldVertex(row, column)
	near := g.WorldVertex(row-1, column-1)

	apex := near
	if p.DistanceSq(far) < p.DistanceSq(near) {
		apex = far
	}

	return Triangle{
		apex,
		g.WorldVertex(row-1, column),
		g.WorldVertex(row, column-1),
	}
}

// Normal returns the upward-facing unit normal of the triangle's plane.
func (t Triangle) Normal() math.Vec3 {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Normalize()
	if n.Y < 0 {
		n = n.Neg()
	}
	return n
}

// HeightAt solves the triangle's plane for y at (x, z). A vertical triangle
// has no solution and yields ±Inf or NaN.
func (t Triangle) HeightAt(x, z float32) float32 {
	n := t.Normal()
	return (-(x * n.X) - (z * n.Z) + t[0].Dot(n)) / n.Y
}

func (g *HeightGrid) surfaceTriangle(p math.Vec3) (Triangle, bool) {
	row, column, ok := g.Locate(p)
	if !ok {
		return Triangle{}, false
	}
	return g.Triangle(p, row, column), true
}

// Height returns the water elevation below or above p. Points outside the
// grid see a flat extension at ReferenceHeight.
func (g *HeightGrid) Height(p math.Vec3) float32 {
	tri, ok := g.surfaceTriangle(p)
	if !ok {
		return g.ReferenceHeight()
	}
	return tri.HeightAt(p.X, p.Z)
}

// Normal returns the upward surface normal at p, or Up outside the grid.
func (g *HeightGrid) Normal(p math.Vec3) math.Vec3 {
	tri, ok := g.surfaceTriangle(p)
	if !ok {
		return g.Up()
	}
	return tri.Normal()
}

// IsUnderwater reports whether the surface is strictly above p.
func (g *HeightGrid) IsUnderwater(p math.Vec3) bool {
	return g.Height(p)-p.Y > 0
}
