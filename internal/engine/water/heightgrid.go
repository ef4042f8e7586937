package water

import (
	"errors"
	"fmt"
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/tidewater/internal/logger"
	"github.com/Faultbox/tidewater/pkg/math"
)

var (
	// ErrInvalidShape is returned for grids with no rows, no columns or a
	// non-positive quad size.
	ErrInvalidShape = errors.New("invalid grid shape")

	// ErrVertexCountMismatch is returned by Rebuild when the mesh does not
	// have (rows+1)*(columns+1) vertices.
	ErrVertexCountMismatch = errors.New("mesh vertex count does not match grid shape")
)

// HeightGrid is a rows x columns grid of quads sampled from a deforming mesh.
// Vertices are stored row-major in flat buffers; see Index.
//
// Rebuild is the only writer. Queries must not run concurrently with it.
type HeightGrid struct {
	Rows     int
	Columns  int
	QuadSize float32

	local []math.Vec3
	world []math.Vec3

	localToWorld math.Mat4
	worldToLocal math.Mat4
	ready        bool

	log *zap.Logger
}

// NewHeightGrid allocates a grid of the given shape.
func NewHeightGrid(rows, columns int, quadSize float32) (*HeightGrid, error) {
	if rows < 1 || columns < 1 || !(quadSize > 0) {
		return nil, fmt.Errorf("%w: rows=%d columns=%d quad_size=%g", ErrInvalidShape, rows, columns, quadSize)
	}

	n := (rows + 1) * (columns + 1)
	return &HeightGrid{
		Rows:         rows,
		Columns:      columns,
		QuadSize:     quadSize,
		local:        make([]math.Vec3, n),
		world:        make([]math.Vec3, n),
		localToWorld: math.Identity(),
		worldToLocal: math.Identity(),
		log:          logger.Named("water.grid"),
	}, nil
}

// VertexCount is the number of vertices the mesh must supply.
func (g *HeightGrid) VertexCount() int {
	return (g.Rows + 1) * (g.Columns + 1)
}

// Index maps a vertex coordinate to its position in the flat buffers.
func (g *HeightGrid) Index(row, column int) int {
	return row*(g.Columns+1) + column
}

// Rebuild copies the mesh vertices into the local buffer and transforms them
// to world space. On a count mismatch the grid keeps its previous contents.
func (g *HeightGrid) Rebuild(vertices []math.Vec3, localToWorld math.Mat4) error {
	if len(vertices) != len(g.local) {
		g.log.Warn("grid rebuild rejected",
			zap.Int("vertices", len(vertices)),
			zap.Int("expected", len(g.local)),
		)
		return fmt.Errorf("%w: got %d, want %d (%dx%d quads)",
			ErrVertexCountMismatch, len(vertices), len(g.local), g.Rows, g.Columns)
	}

	copy(g.local, vertices)
	for i, v := range g.local {
		g.world[i] = localToWorld.TransformVec3(v)
	}

	g.localToWorld = localToWorld
	g.worldToLocal = localToWorld.Inverse()
	g.ready = true
	return nil
}

// Ready reports whether Rebuild has succeeded at least once.
func (g *HeightGrid) Ready() bool {
	return g.ready
}

// WorldVertex returns the world position of vertex (row, column).
func (g *HeightGrid) WorldVertex(row, column int) math.Vec3 {
	return g.world[g.Index(row, column)]
}

// LocalVertex returns the mesh-space position of vertex (row, column).
func (g *HeightGrid) LocalVertex(row, column int) math.Vec3 {
	return g.local[g.Index(row, column)]
}

// ReferenceHeight is the elevation of the surface origin, used for points
// outside the grid.
func (g *HeightGrid) ReferenceHeight() float32 {
	return g.localToWorld.Translation().Y
}

// Up is the surface's nominal up axis in world space.
func (g *HeightGrid) Up() math.Vec3 {
	up := g.localToWorld.TransformDir(math.Up).Normalize()
	if up == (math.Vec3{}) {
		return math.Up
	}
	return up
}

// Locate returns the quad containing p, identified by its far corner: the quad
// spans vertices (row-1, column-1) to (row, column). ok is false when p lies
// outside the grid footprint or the grid has not been built.
func (g *HeightGrid) Locate(p math.Vec3) (row, column int, ok bool) {
	if !g.ready {
		return 0, 0, false
	}

	local := g.worldToLocal.TransformVec3(p)
	x := int(gomath.Ceil(float64(local.X / g.QuadSize)))
	z := int(gomath.Ceil(float64(local.Z / g.QuadSize)))

	if x <= 0 || z <= 0 || x >= g.Columns+1 || z >= g.Rows+1 {
		return 0, 0, false
	}
	return z, x, true
}
