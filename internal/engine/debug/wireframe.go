package debug

import (
	"github.com/Faultbox/tidewater/internal/engine/water"
	"github.com/Faultbox/tidewater/pkg/math"
)

// BoxWireframe creates line vertices for a wireframe box.
// Returns 24 vertices (12 edges × 2 endpoints), format: [x, y, z] per vertex.
func BoxWireframe(minB, maxB math.Vec3) []float32 {
	minX, minY, minZ := minB.X, minB.Y, minB.Z
	maxX, maxY, maxZ := maxB.X, maxB.Y, maxB.Z
	return []float32{
		// Bottom face (4 edges)
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face (4 edges)
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges (4 edges)
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// BoxSolid creates triangle vertices for a closed box, counter-clockwise when
// seen from outside. Returns 36 vertices, format: [x, y, z] per vertex.
func BoxSolid(minB, maxB math.Vec3) []float32 {
	c := [8]math.Vec3{
		{X: minB.X, Y: minB.Y, Z: minB.Z}, {X: maxB.X, Y: minB.Y, Z: minB.Z},
		{X: maxB.X, Y: maxB.Y, Z: minB.Z}, {X: minB.X, Y: maxB.Y, Z: minB.Z},
		{X: minB.X, Y: minB.Y, Z: maxB.Z}, {X: maxB.X, Y: minB.Y, Z: maxB.Z},
		{X: maxB.X, Y: maxB.Y, Z: maxB.Z}, {X: minB.X, Y: maxB.Y, Z: maxB.Z},
	}
	faces := [6][4]int{
		{4, 5, 6, 7}, // +Z
		{1, 0, 3, 2}, // -Z
		{5, 1, 2, 6}, // +X
		{0, 4, 7, 3}, // -X
		{3, 7, 6, 2}, // +Y
		{0, 1, 5, 4}, // -Y
	}

	out := make([]float32, 0, 36*3)
	for _, f := range faces {
		for _, i := range [6]int{f[0], f[1], f[2], f[0], f[2], f[3]} {
			out = append(out, c[i].X, c[i].Y, c[i].Z)
		}
	}
	return out
}

// TransformVertices returns a copy of verts ([x, y, z] per vertex) with every
// point carried through m.
func TransformVertices(m math.Mat4, verts []float32) []float32 {
	out := make([]float32, len(verts))
	for i := 0; i+2 < len(verts); i += 3 {
		p := m.TransformVec3(math.Vec3{X: verts[i], Y: verts[i+1], Z: verts[i+2]})
		out[i], out[i+1], out[i+2] = p.X, p.Y, p.Z
	}
	return out
}

// GridWireframe creates line vertices along every row and column of the
// grid's world-space vertices.
func GridWireframe(g *water.HeightGrid) []float32 {
	lines := make([]float32, 0, ((g.Rows+1)*g.Columns+(g.Columns+1)*g.Rows)*6)
	seg := func(a, b math.Vec3) {
		lines = append(lines, a.X, a.Y, a.Z, b.X, b.Y, b.Z)
	}

	for row := 0; row <= g.Rows; row++ {
		for col := 1; col <= g.Columns; col++ {
			seg(g.WorldVertex(row, col-1), g.WorldVertex(row, col))
		}
	}
	for col := 0; col <= g.Columns; col++ {
		for row := 1; row <= g.Rows; row++ {
			seg(g.WorldVertex(row-1, col), g.WorldVertex(row, col))
		}
	}
	return lines
}

// ProbeMarker creates a cross at p plus a line along the surface normal n.
func ProbeMarker(p, n math.Vec3, size float32) []float32 {
	h := size / 2
	tip := p.Add(n.Scale(size))
	return []float32{
		p.X - h, p.Y, p.Z, p.X + h, p.Y, p.Z,
		p.X, p.Y, p.Z - h, p.X, p.Y, p.Z + h,
		p.X, p.Y, p.Z, tip.X, tip.Y, tip.Z,
	}
}
