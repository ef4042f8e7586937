package water

import "github.com/Faultbox/tidewater/pkg/math"

// GridMesh is a flat rows x columns quad grid in mesh space, laid out the way
// HeightGrid expects: vertex (row, column) sits at (column*q, 0, row*q).
type GridMesh struct {
	Rows     int
	Columns  int
	QuadSize float32

	Base     []math.Vec3 // undeformed positions
	Vertices []math.Vec3 // current positions, rewritten by Waves.Apply
	Indices  []uint32    // two CCW triangles per quad, seen from +Y
}

// BuildGridMesh generates the grid mesh for the given shape.
func BuildGridMesh(rows, columns int, quadSize float32) *GridMesh {
	stride := columns + 1
	base := make([]math.Vec3, 0, (rows+1)*stride)
	for row := 0; row <= rows; row++ {
		for col := 0; col <= columns; col++ {
			base = append(base, math.Vec3{
				X: float32(col) * quadSize,
				Z: float32(row) * quadSize,
			})
		}
	}

	indices := make([]uint32, 0, rows*columns*6)
	for row := 1; row <= rows; row++ {
		for col := 1; col <= columns; col++ {
			a := uint32((row-1)*stride + col - 1) // near corner
			b := uint32((row-1)*stride + col)
			c := uint32(row*stride + col - 1)
			d := uint32(row*stride + col) // far corner
			indices = append(indices, a, c, b, b, c, d)
		}
	}

	vertices := make([]math.Vec3, len(base))
	copy(vertices, base)

	return &GridMesh{
		Rows:     rows,
		Columns:  columns,
		QuadSize: quadSize,
		Base:     base,
		Vertices: vertices,
		Indices:  indices,
	}
}

// Bounds returns the mesh-space extent of the current vertices.
func (m *GridMesh) Bounds() (minB, maxB math.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	minB, maxB = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		minB.X = min(minB.X, v.X)
		minB.Y = min(minB.Y, v.Y)
		minB.Z = min(minB.Z, v.Z)
		maxB.X = max(maxB.X, v.X)
		maxB.Y = max(maxB.Y, v.Y)
		maxB.Z = max(maxB.Z, v.Z)
	}
	return minB, maxB
}

// Positions flattens the current vertices into x,y,z triples for GPU upload.
func (m *GridMesh) Positions(dst []float32) []float32 {
	dst = dst[:0]
	for _, v := range m.Vertices {
		dst = append(dst, v.X, v.Y, v.Z)
	}
	return dst
}
