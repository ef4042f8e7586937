package water

import (
	"errors"
	"testing"

	"github.com/Faultbox/tidewater/pkg/math"
)

// flatVertices lays out a (rows+1) x (columns+1) grid at height y, row-major,
// with vertex (row, column) at (column*q, y, row*q).
func flatVertices(rows, columns int, q, y float32) []math.Vec3 {
	out := make([]math.Vec3, 0, (rows+1)*(columns+1))
	for r := 0; r <= rows; r++ {
		for c := 0; c <= columns; c++ {
			out = append(out, math.Vec3{X: float32(c) * q, Y: y, Z: float32(r) * q})
		}
	}
	return out
}

func mustGrid(t *testing.T, rows, columns int, q float32) *HeightGrid {
	t.Helper()
	g, err := NewHeightGrid(rows, columns, q)
	if err != nil {
		t.Fatalf("NewHeightGrid(%d, %d, %g): %v", rows, columns, q, err)
	}
	return g
}

func TestNewHeightGridRejectsInvalidShape(t *testing.T) {
	tests := []struct {
		name          string
		rows, columns int
		quad          float32
	}{
		{"no rows", 0, 4, 1},
		{"no columns", 4, 0, 1},
		{"negative rows", -1, 4, 1},
		{"zero quad", 4, 4, 0},
		{"negative quad", 4, 4, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHeightGrid(tt.rows, tt.columns, tt.quad)
			if !errors.Is(err, ErrInvalidShape) {
				t.Errorf("err = %v, want ErrInvalidShape", err)
			}
		})
	}
}

func TestIndexIsRowMajor(t *testing.T) {
	g := mustGrid(t, 3, 4, 1)

	if g.VertexCount() != 20 {
		t.Errorf("VertexCount() = %d, want 20", g.VertexCount())
	}
	if got := g.Index(0, 0); got != 0 {
		t.Errorf("Index(0,0) = %d", got)
	}
	if got := g.Index(1, 0); got != 5 {
		t.Errorf("Index(1,0) = %d, want 5", got)
	}
	if got := g.Index(3, 4); got != 19 {
		t.Errorf("Index(3,4) = %d, want 19", got)
	}
}

func TestRebuildRejectsVertexCountMismatch(t *testing.T) {
	g := mustGrid(t, 2, 2, 1)

	err := g.Rebuild(flatVertices(2, 1, 1, 0), math.Identity())
	if !errors.Is(err, ErrVertexCountMismatch) {
		t.Fatalf("err = %v, want ErrVertexCountMismatch", err)
	}
	if g.Ready() {
		t.Error("grid ready after rejected rebuild")
	}

	if err := g.Rebuild(flatVertices(2, 2, 1, 0.5), math.Identity()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if err := g.Rebuild(flatVertices(3, 3, 1, 9), math.Identity()); err == nil {
		t.Fatal("oversized rebuild accepted")
	}
	if got := g.WorldVertex(1, 1).Y; got != 0.5 {
		t.Errorf("rejected rebuild overwrote buffers: y = %f", got)
	}
	if !g.Ready() {
		t.Error("rejected rebuild cleared ready state")
	}
}

func TestRebuildTransformsToWorld(t *testing.T) {
	g := mustGrid(t, 2, 3, 0.5)
	toWorld := math.Translate(10, 2, -5)

	if err := g.Rebuild(flatVertices(2, 3, 0.5, 0), toWorld); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	want := math.Vec3{X: 11, Y: 2, Z: -4.5}
	if got := g.WorldVertex(1, 2); got != want {
		t.Errorf("WorldVertex(1,2) = %v, want %v", got, want)
	}
	if got := g.LocalVertex(1, 2); got != (math.Vec3{X: 1, Y: 0, Z: 0.5}) {
		t.Errorf("LocalVertex(1,2) = %v", got)
	}
	if got := g.ReferenceHeight(); got != 2 {
		t.Errorf("ReferenceHeight() = %f, want 2", got)
	}
}

func TestLocate(t *testing.T) {
	g := mustGrid(t, 3, 4, 0.5)
	if err := g.Rebuild(flatVertices(3, 4, 0.5, 0), math.Translate(10, 2, -5)); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	tests := []struct {
		name     string
		p        math.Vec3
		row, col int
		ok       bool
	}{
		{"interior vertex", math.Vec3{X: 11, Y: 2, Z: -4.5}, 1, 2, true},
		{"inside first quad", math.Vec3{X: 10.2, Y: 2, Z: -4.9}, 1, 1, true},
		{"inside last quad", math.Vec3{X: 11.9, Y: 0, Z: -3.6}, 3, 4, true},
		{"far edge", math.Vec3{X: 12, Y: 2, Z: -3.5}, 3, 4, true},
		{"origin edge", math.Vec3{X: 10, Y: 2, Z: -4}, 0, 0, false},
		{"before columns", math.Vec3{X: 9.9, Y: 2, Z: -4}, 0, 0, false},
		{"past columns", math.Vec3{X: 12.1, Y: 2, Z: -4}, 0, 0, false},
		{"past rows", math.Vec3{X: 11, Y: 2, Z: -3.4}, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col, ok := g.Locate(tt.p)
			if ok != tt.ok {
				t.Fatalf("Locate(%v) ok = %v, want %v", tt.p, ok, tt.ok)
			}
			if ok && (row != tt.row || col != tt.col) {
				t.Errorf("Locate(%v) = (%d, %d), want (%d, %d)", tt.p, row, col, tt.row, tt.col)
			}
		})
	}
}

func TestLocateBeforeRebuild(t *testing.T) {
	g := mustGrid(t, 2, 2, 1)
	if _, _, ok := g.Locate(math.Vec3{X: 1, Z: 1}); ok {
		t.Error("Locate succeeded on an unbuilt grid")
	}
}

func TestUpFollowsTransform(t *testing.T) {
	g := mustGrid(t, 1, 1, 1)
	if err := g.Rebuild(flatVertices(1, 1, 1, 0), math.QuatFromAxisAngle(math.Vec3{Z: 1}, 3.14159265/2).ToMat4()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	up := g.Up()
	if absf(up.X+1) > 1e-5 || absf(up.Y) > 1e-5 || absf(up.Z) > 1e-5 {
		t.Errorf("Up() = %v, want (-1, 0, 0)", up)
	}

	unbuilt := mustGrid(t, 1, 1, 1)
	if unbuilt.Up() != math.Up {
		t.Errorf("unbuilt Up() = %v, want %v", unbuilt.Up(), math.Up)
	}
}

func TestRotatedTransformHeightAtVertices(t *testing.T) {
	const n = 6
	g := mustGrid(t, n, n, 1)

	verts := flatVertices(n, n, 1, 0)
	for i := range verts {
		verts[i].Y = 0.1*verts[i].Z + 0.05*verts[i].X*verts[i].X
	}
	toWorld := math.Translate(3, 1, -2).Mul(math.RotateY(0.6))
	if err := g.Rebuild(verts, toWorld); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	for row := 1; row < n; row++ {
		for col := 1; col < n; col++ {
			w := g.WorldVertex(row, col)

			// Rounding in the inverse transform can push an exact vertex into
			// any of the four quads sharing it. Every one of them has the
			// vertex as a corner, so the height is unaffected.
			r, c, ok := g.Locate(w)
			if !ok || r < row || r > row+1 || c < col || c > col+1 {
				t.Errorf("Locate(vertex %d,%d) = %d,%d,%v; want a quad touching it", row, col, r, c, ok)
			}
			if h := g.Height(w); absf(h-w.Y) > 1e-4 {
				t.Errorf("Height at vertex (%d,%d) = %v, want %v", row, col, h, w.Y)
			}
		}
	}

	// Quad centres are far from any cell edge and locate exactly.
	for row := 1; row <= n; row++ {
		for col := 1; col <= n; col++ {
			centre := g.WorldVertex(row-1, col-1).Lerp(g.WorldVertex(row, col), 0.5)
			r, c, ok := g.Locate(centre)
			if !ok || r != row || c != col {
				t.Errorf("Locate(centre of %d,%d) = %d,%d,%v", row, col, r, c, ok)
			}
		}
	}
}
