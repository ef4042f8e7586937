// Package viewer implements the interactive water viewer's main loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/tidewater/internal/assets"
	"github.com/Faultbox/tidewater/internal/config"
	"github.com/Faultbox/tidewater/internal/engine/camera"
	"github.com/Faultbox/tidewater/internal/engine/debug"
	"github.com/Faultbox/tidewater/internal/engine/framebuffer"
	"github.com/Faultbox/tidewater/internal/engine/input"
	"github.com/Faultbox/tidewater/internal/engine/picking"
	"github.com/Faultbox/tidewater/internal/engine/renderer"
	"github.com/Faultbox/tidewater/internal/engine/water"
	"github.com/Faultbox/tidewater/internal/engine/window"
	"github.com/Faultbox/tidewater/internal/logger"
	"github.com/Faultbox/tidewater/internal/world"
	"github.com/Faultbox/tidewater/pkg/math"
)

var (
	bodyColor   = [4]float32{0.78, 0.42, 0.18, 1}
	seabedColor = [4]float32{0.42, 0.38, 0.30, 1}
	gridColor   = [4]float32{0.9, 0.95, 1, 0.35}
	probeColor  = [4]float32{1, 0.2, 0.2, 1}
)

// seabedDepth is how far below the surface origin the floor slab sits.
const seabedDepth = 3

// Viewer is the interactive viewer instance.
type Viewer struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	assets   *assets.Manager

	camera *camera.OrbitCamera
	world  *world.World

	reflection *framebuffer.Framebuffer
	refraction *framebuffer.Framebuffer
	host       *renderer.Host
	snapshots  *debug.SnapshotWriter

	seabed   []float32
	probe    *world.Probe
	showGrid bool

	log *zap.Logger
}

// New creates a new viewer instance.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{
		cfg:       cfg,
		assets:    assets.NewManager(),
		camera:    camera.NewOrbitCamera(),
		snapshots: debug.NewSnapshotWriter("screenshots", "waterview", 8),
		log:       logger.Named("viewer"),
	}

	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	var err error
	v.world, err = world.New(cfg, v.assets)
	if err != nil {
		return nil, fmt.Errorf("failed to create world: %w", err)
	}

	// Create window (this also creates OpenGL context)
	v.window, err = window.New(window.Config{
		Title:      fmt.Sprintf("Tidewater - %s", v.world.Rig.EffectiveMode()),
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	v.renderer, err = renderer.New(renderer.Config{
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
		VSync:  cfg.Graphics.VSync,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	size := int32(cfg.Water.TextureSize)
	if v.reflection, err = framebuffer.New(size, size); err != nil {
		v.Close()
		return nil, fmt.Errorf("reflection target: %w", err)
	}
	if v.refraction, err = framebuffer.New(size, size); err != nil {
		v.Close()
		return nil, fmt.Errorf("refraction target: %w", err)
	}

	v.host = renderer.NewHost(v.reflection, v.refraction, v.drawScene)
	v.world.Rig.Host = v.host

	v.input = input.New()

	minB, maxB := v.world.Bounds()
	v.camera.FitToBounds(minB, maxB)
	v.world.AddBody(world.DefaultBody(), math.Vec3{Y: 1})

	floor := v.world.Transform.Translation().Y - seabedDepth
	v.seabed = debug.BoxSolid(
		math.Vec3{X: minB.X * 2, Y: floor - 0.2, Z: minB.Z * 2},
		math.Vec3{X: maxB.X * 2, Y: floor, Z: maxB.Z * 2},
	)

	v.log.Info("viewer initialized successfully")
	return v, nil
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var frameBudget time.Duration
	if v.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(v.cfg.Graphics.FPSLimit)
	}

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		if err := v.update(float32(dt)); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		if err := v.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		v.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("mirror_passes", v.host.Rendered()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if spent := time.Since(now); spent < frameBudget {
				time.Sleep(frameBudget - spent)
			}
		}
	}

	return nil
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.reflection != nil {
		v.reflection.Destroy()
	}
	if v.refraction != nil {
		v.refraction.Destroy()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
	v.assets.Close()
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(event.Width, event.Height)

		case input.EventKeyDown:
			v.handleKey(event.Key)

		case input.EventMouseMove:
			if v.input.IsButtonHeld(sdl.BUTTON_RIGHT) {
				v.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			}

		case input.EventMouseWheel:
			v.camera.HandleZoom(float32(event.DeltaY))

		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_LEFT {
				v.pick(event.MouseX, event.MouseY)
			}
		}
	}

	var forward, right, up float32
	if v.input.IsKeyHeld(sdl.SCANCODE_W) {
		forward++
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_S) {
		forward--
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_D) {
		right++
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_A) {
		right--
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_E) {
		up++
	}
	if v.input.IsKeyHeld(sdl.SCANCODE_Q) {
		up--
	}
	if forward != 0 || right != 0 || up != 0 {
		v.camera.HandleMovement(forward, right, up)
	}
}

// handleKey runs the one-shot key bindings.
func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false

	case sdl.SCANCODE_G:
		v.showGrid = !v.showGrid

	case sdl.SCANCODE_M:
		rig := v.world.Rig
		rig.Mode = (rig.Mode + 1) % (water.ModeRefractive + 1)
		v.cfg.Water.Mode = rig.Mode
		v.window.SetTitle(fmt.Sprintf("Tidewater - %s", rig.EffectiveMode()))
		v.log.Info("water mode", zap.Stringer("requested", rig.Mode), zap.Stringer("effective", rig.EffectiveMode()))

	case sdl.SCANCODE_O:
		settings := &v.camera.Settings
		settings.Orthographic = !settings.Orthographic
		v.log.Info("camera projection", zap.Bool("orthographic", settings.Orthographic))

	case sdl.SCANCODE_F5:
		if err := v.cfg.Save(); err != nil {
			v.log.Warn("saving config failed", zap.Error(err))
		} else {
			v.log.Info("config saved", zap.String("dir", config.ConfigDir()))
		}

	case sdl.SCANCODE_R:
		if err := v.world.Refresh(); err != nil {
			v.log.Warn("refresh failed", zap.Error(err))
		}

	case sdl.SCANCODE_H:
		v.saveSnapshot(func() (string, error) { return v.snapshots.WriteWebP(v.world.Grid) })

	case sdl.SCANCODE_F10:
		w, h := v.reflection.Size()
		v.saveSnapshot(func() (string, error) {
			return v.snapshots.CaptureFromPixels(v.reflection.ReadPixels(), int(w), int(h))
		})

	case sdl.SCANCODE_F12:
		w, h := v.renderer.Size()
		v.saveSnapshot(func() (string, error) {
			return v.snapshots.CaptureFromPixels(v.renderer.ReadPixels(), w, h)
		})
	}
}

func (v *Viewer) saveSnapshot(write func() (string, error)) {
	path, err := write()
	if err != nil {
		v.log.Warn("snapshot failed", zap.Error(err))
		return
	}
	v.log.Info("snapshot saved", zap.String("path", path))
}

// pick probes the surface under the cursor.
func (v *Viewer) pick(x, y int) {
	w, h := v.renderer.Size()
	state := v.camera.State(v.window.Aspect())
	inv := state.Projection.Mul(state.View).Inverse()

	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv)
	hit, ok := picking.PickSurface(ray, v.world.Grid)

	for i, b := range v.world.Bodies {
		t, bodyHit := ray.IntersectAABB(picking.NewAABB(b.Bounds()))
		if !bodyHit || (ok && t > hit.Sub(ray.Origin).Length()) {
			continue
		}
		v.log.Info("body picked",
			zap.Int("body", i),
			zap.Float32("y", b.Position.Y),
			zap.Float32("submerged", b.SubmergedFraction()),
			zap.Bool("underwater", b.Underwater()),
		)
		return
	}

	if !ok {
		v.probe = nil
		return
	}

	p := v.world.Probe(hit)
	v.probe = &p
	v.log.Info("surface picked",
		zap.Float32("x", hit.X),
		zap.Float32("z", hit.Z),
		zap.Float32("height", p.Height),
		zap.Float32s("normal", []float32{p.Normal.X, p.Normal.Y, p.Normal.Z}),
	)
}

func (v *Viewer) update(dt float32) error {
	if err := v.world.Step(dt); err != nil {
		return err
	}
	if v.probe != nil {
		p := v.world.Probe(v.probe.Point)
		p.Point.Y = p.Height
		v.probe = &p
	}
	v.renderer.Surface.Upload(v.world.Mesh)
	return nil
}

func (v *Viewer) render() error {
	state := v.camera.State(v.window.Aspect())

	// Mirror legs render first, into their own targets.
	var pass water.RenderPass
	eval, err := v.world.Mirror(&pass, state)
	if err != nil {
		return err
	}

	v.renderer.Begin(state.CameraSettings)
	v.drawScene(&pass, water.LegMain, state.View, state.Projection, state.Position)

	view := renderer.SurfaceView{
		ViewProj:  state.Projection.Mul(state.View),
		Model:     v.world.Transform,
		CameraPos: state.Position,
		Mode:      v.world.Rig.EffectiveMode(),
	}
	if eval != nil && eval.Reflection != nil {
		view.Reflection = v.reflection.ColorTexture()
	}
	if eval != nil && eval.Refraction != nil {
		view.Refraction = v.refraction.ColorTexture()
	}
	v.renderer.Surface.Render(view)

	v.drawDebug(view.ViewProj)
	v.renderer.End()
	return nil
}

// drawScene draws everything except the water surface. Mirror legs call it
// with their own matrices.
func (v *Viewer) drawScene(_ *water.RenderPass, _ water.Leg, view, projection math.Mat4, _ math.Vec3) {
	viewProj := projection.Mul(view)
	v.renderer.Solid.Triangles(viewProj, v.seabed, seabedColor)
	for _, b := range v.world.Bodies {
		box := debug.TransformVertices(b.Model(), debug.BoxSolid(b.LocalBounds()))
		v.renderer.Solid.Triangles(viewProj, box, bodyColor)
	}
}

func (v *Viewer) drawDebug(viewProj math.Mat4) {
	if v.showGrid {
		v.renderer.Solid.Lines(viewProj, debug.GridWireframe(v.world.Grid), gridColor)
		for _, b := range v.world.Bodies {
			v.renderer.Solid.Lines(viewProj, debug.BoxWireframe(b.Bounds()), gridColor)
		}
	}
	if v.probe != nil {
		v.renderer.Solid.Lines(viewProj, debug.ProbeMarker(v.probe.Point, v.probe.Normal, 1), probeColor)
	}
}
