// Package world holds the simulated water scene shared by the viewer and the
// probe tool.
package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/tidewater/internal/assets"
	"github.com/Faultbox/tidewater/internal/config"
	"github.com/Faultbox/tidewater/internal/engine/buoyancy"
	"github.com/Faultbox/tidewater/internal/engine/water"
	"github.com/Faultbox/tidewater/internal/logger"
	"github.com/Faultbox/tidewater/pkg/math"
)

// Probe is the result of querying the surface at one point.
type Probe struct {
	Point      math.Vec3
	Height     float32
	Normal     math.Vec3
	Underwater bool
}

// World is one water surface with the bodies floating on it. It is stepped
// once per frame and is not safe for concurrent use.
type World struct {
	Mesh      *water.GridMesh
	Grid      *water.HeightGrid
	Waves     water.Waves
	Transform math.Mat4 // mesh space to world space
	Rig       *water.Rig
	Bodies    []*buoyancy.Body

	Density    float32
	AutoUpdate bool

	time  float32
	built bool
	log   *zap.Logger
}

// New builds the world described by cfg. When cfg.Water.Mesh is set its
// positions replace the procedural grid's base; assets may be nil otherwise.
func New(cfg *config.Config, am *assets.Manager) (*World, error) {
	wc := cfg.Water

	grid, err := water.NewHeightGrid(wc.Rows, wc.Columns, wc.QuadSize)
	if err != nil {
		return nil, err
	}

	mesh := water.BuildGridMesh(wc.Rows, wc.Columns, wc.QuadSize)
	transform := math.Translate(
		-float32(wc.Columns)*wc.QuadSize/2, 0, -float32(wc.Rows)*wc.QuadSize/2,
	)

	if wc.Mesh != "" {
		if am == nil {
			am = assets.NewManager()
		}
		base, err := am.LoadMesh(wc.Mesh)
		if err != nil {
			return nil, err
		}
		if len(base) != grid.VertexCount() {
			return nil, fmt.Errorf("%s: %w: got %d, want %d",
				wc.Mesh, water.ErrVertexCountMismatch, len(base), grid.VertexCount())
		}
		copy(mesh.Base, base)
		copy(mesh.Vertices, base)
		transform = math.Identity()
	}

	rig := water.NewRig(wc.Mode, nil)
	rig.Supported = wc.SupportedMode
	rig.ClipPlaneOffset = wc.ClipPlaneOffset

	w := &World{
		Mesh:       mesh,
		Grid:       grid,
		Waves:      cfg.WaveSet(),
		Transform:  transform,
		Rig:        rig,
		Density:    wc.Density,
		AutoUpdate: wc.AutoUpdate,
		log:        logger.Named("world"),
	}

	w.log.Info("world created",
		zap.Int("rows", wc.Rows),
		zap.Int("columns", wc.Columns),
		zap.Float32("quad_size", wc.QuadSize),
		zap.String("mesh", wc.Mesh),
		zap.Stringer("mode", rig.EffectiveMode()),
	)
	return w, nil
}

// DefaultBody returns a 2 x 1 x 4 m box that floats about 40% submerged in
// fresh water.
func DefaultBody() *buoyancy.Body {
	return buoyancy.NewBody(3200, math.Vec3{X: 1, Y: 0.5, Z: 2}, 0.5)
}

// AddBody places b on the surface at position p.
func (w *World) AddBody(b *buoyancy.Body, p math.Vec3) {
	b.Position = p
	w.Bodies = append(w.Bodies, b)
}

// Time returns the simulated time in seconds.
func (w *World) Time() float32 {
	return w.time
}

// Step advances the world by dt seconds.
func (w *World) Step(dt float32) error {
	w.time += dt
	if len(w.Waves.Components) > 0 {
		w.Waves.Apply(w.Mesh, w.time)
	}

	if w.AutoUpdate || !w.built {
		if err := w.Refresh(); err != nil {
			return err
		}
	}

	for _, b := range w.Bodies {
		b.Step(dt, w.Grid, w.Density)
	}
	return nil
}

// Refresh rebuilds the height grid from the current mesh.
func (w *World) Refresh() error {
	if err := w.Grid.Rebuild(w.Mesh.Vertices, w.Transform); err != nil {
		return fmt.Errorf("rebuilding grid: %w", err)
	}
	w.built = true
	return nil
}

// Probe queries the surface at p.
func (w *World) Probe(p math.Vec3) Probe {
	return Probe{
		Point:      p,
		Height:     w.Grid.Height(p),
		Normal:     w.Grid.Normal(p),
		Underwater: w.Grid.IsUnderwater(p),
	}
}

// SurfacePlane returns the point and normal the mirror rig reflects about.
func (w *World) SurfacePlane() (point, normal math.Vec3) {
	return w.Transform.Translation(), w.Grid.Up()
}

// Mirror evaluates the rig for cam in pass.
func (w *World) Mirror(pass *water.RenderPass, cam *water.CameraState) (*water.Evaluation, error) {
	point, normal := w.SurfacePlane()
	return w.Rig.Evaluate(pass, cam, point, normal)
}

// Bounds returns the world-space extent of the surface.
func (w *World) Bounds() (minB, maxB math.Vec3) {
	lo, hi := w.Mesh.Bounds()
	a := w.Transform.TransformVec3(lo)
	b := w.Transform.TransformVec3(hi)
	return math.Vec3{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)},
		math.Vec3{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)}
}
