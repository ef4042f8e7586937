// Package water implements the planar mirror camera rig used for water
// reflections and refractions, and the height-grid surface queries used by
// buoyancy.
package water

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/tidewater/internal/logger"
	"github.com/Faultbox/tidewater/pkg/math"
)

// DefaultClipPlaneOffset biases the mirror plane so geometry touching the
// surface does not leak into the reflection.
const DefaultClipPlaneOffset = 0.07

// ClearFlags selects how a camera clears its target before drawing.
type ClearFlags int

const (
	ClearSkybox ClearFlags = iota
	ClearSolidColor
	ClearDepth
	ClearNothing
)

// CameraSettings holds the non-matrix camera state that mirrored cameras copy
// verbatim from their source. The skybox reads the far plane, so a mismatch
// here shows up even when the matrices are right.
type CameraSettings struct {
	ClearFlags       ClearFlags
	Background       [4]float32
	Skybox           string // empty disables the skybox
	Near             float32
	Far              float32
	FieldOfView      float32 // vertical, radians
	Aspect           float32
	Orthographic     bool
	OrthographicSize float32
}

// CameraState is a read-only snapshot of a source camera.
type CameraState struct {
	View       math.Mat4 // world to view
	Projection math.Mat4
	Position   math.Vec3
	Rotation   math.Quat
	CameraSettings
}

// MirrorResult is what a mirrored camera must render with.
type MirrorResult struct {
	View          math.Mat4
	Projection    math.Mat4
	InvertWinding bool
	Position      math.Vec3
	Settings      CameraSettings
}

// Leg names one of the two passes a rig can produce. LegMain marks the
// ordinary camera view drawn outside any mirror pass.
type Leg int

const (
	LegReflection Leg = iota
	LegRefraction
	LegMain
)

func (l Leg) String() string {
	switch l {
	case LegReflection:
		return "reflection"
	case LegRefraction:
		return "refraction"
	case LegMain:
		return "main"
	default:
		return fmt.Sprintf("Leg(%d)", int(l))
	}
}

// Evaluation holds the legs produced by one rig evaluation. A leg is nil when
// the effective mode does not include it.
type Evaluation struct {
	Reflection *MirrorResult
	Refraction *MirrorResult
}

// Host renders a mirrored pass. It is called while the render pass guard is
// held, so rigs evaluated from inside RenderMirror are skipped.
type Host interface {
	RenderMirror(pass *RenderPass, leg Leg, result MirrorResult) error
}

// RenderPass is the per-frame context shared by every rig drawn in one pass.
// It guarantees at most one mirror evaluation is active at a time; nested
// evaluations are skipped. It is not safe for concurrent use.
type RenderPass struct {
	insideMirror bool
	skipped      int
}

// Active reports whether a mirror evaluation is in progress.
func (p *RenderPass) Active() bool {
	return p.insideMirror
}

// Skipped returns how many nested evaluations this pass has rejected.
func (p *RenderPass) Skipped() int {
	return p.skipped
}

func (p *RenderPass) enter() bool {
	if p.insideMirror {
		p.skipped++
		return false
	}
	p.insideMirror = true
	return true
}

func (p *RenderPass) exit() {
	p.insideMirror = false
}

// Rig builds mirror cameras for one reflective surface.
type Rig struct {
	ClipPlaneOffset float32
	Mode            Mode // requested feature level
	Supported       Mode // what the host can render
	Host            Host // optional

	log *zap.Logger
}

// NewRig creates a rig with the default clip offset and full host support.
func NewRig(mode Mode, host Host) *Rig {
	return &Rig{
		ClipPlaneOffset: DefaultClipPlaneOffset,
		Mode:            mode,
		Supported:       ModeRefractive,
		Host:            host,
		log:             logger.Named("water.mirror"),
	}
}

// EffectiveMode is the requested mode capped by host support.
func (r *Rig) EffectiveMode() Mode {
	if r.Supported < r.Mode {
		return r.Supported
	}
	return r.Mode
}

// Evaluate computes the mirrored cameras for src looking at the surface plane
// through point with the given unit normal. It returns nil without error when
// the evaluation is skipped, either because pass is already inside a mirror or
// because src is nil. When a Host is set each produced leg is rendered before
// the guard is released. A nil pass evaluates in a fresh pass of its own.
func (r *Rig) Evaluate(pass *RenderPass, src *CameraState, point, normal math.Vec3) (*Evaluation, error) {
	if pass == nil {
		pass = &RenderPass{}
	}
	if !pass.enter() {
		r.logger().Debug("nested mirror skipped")
		return nil, nil
	}
	defer pass.exit()

	if src == nil {
		return nil, nil
	}

	mode := r.EffectiveMode()
	eval := &Evaluation{}

	if mode >= ModeReflective {
		res := r.reflection(src, point, normal)
		eval.Reflection = &res
		if err := r.render(pass, LegReflection, res); err != nil {
			return nil, err
		}
	}

	if mode >= ModeRefractive {
		res := r.refraction(src, point, normal)
		eval.Refraction = &res
		if err := r.render(pass, LegRefraction, res); err != nil {
			return nil, err
		}
	}

	return eval, nil
}

func (r *Rig) reflection(src *CameraState, point, normal math.Vec3) MirrorResult {
	plane := math.PlaneFromPoint(point, normal).Offset(r.ClipPlaneOffset)
	reflect := math.ReflectionMatrix(plane)

	view := src.View.Mul(reflect)
	clip := math.CameraSpacePlane(view, point, normal, r.ClipPlaneOffset, 1)

	return MirrorResult{
		View:          view,
		Projection:    math.ObliqueProjection(src.Projection, clip),
		InvertWinding: true,
		Position:      reflect.TransformVec3(src.Position),
		Settings:      src.CameraSettings,
	}
}

func (r *Rig) refraction(src *CameraState, point, normal math.Vec3) MirrorResult {
	clip := math.CameraSpacePlane(src.View, point, normal, r.ClipPlaneOffset, -1)

	return MirrorResult{
		View:          src.View,
		Projection:    math.ObliqueProjection(src.Projection, clip),
		InvertWinding: false,
		Position:      src.Position,
		Settings:      src.CameraSettings,
	}
}

func (r *Rig) render(pass *RenderPass, leg Leg, res MirrorResult) error {
	if r.Host == nil {
		return nil
	}
	if err := r.Host.RenderMirror(pass, leg, res); err != nil {
		return fmt.Errorf("render %s: %w", leg, err)
	}
	return nil
}

func (r *Rig) logger() *zap.Logger {
	if r.log == nil {
		r.log = logger.Named("water.mirror")
	}
	return r.log
}
