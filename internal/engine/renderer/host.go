package renderer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/tidewater/internal/engine/water"
	"github.com/Faultbox/tidewater/internal/logger"
	"github.com/Faultbox/tidewater/pkg/math"
)

var (
	// ErrOutsidePass is returned when a mirror is rendered without the
	// render pass guard held.
	ErrOutsidePass = errors.New("mirror rendered outside an active pass")
	// ErrNoTarget is returned when no target is bound for a leg.
	ErrNoTarget = errors.New("no render target for leg")
)

// Target is an offscreen surface a mirrored pass draws into.
// *framebuffer.Framebuffer satisfies it.
type Target interface {
	BeginPass(invertWinding bool) func()
	ClearFor(s water.CameraSettings)
}

// SceneFunc draws the scene with the given camera matrices. The pass is the
// one the mirror is evaluated in, so rigs drawn from here are skipped.
type SceneFunc func(pass *water.RenderPass, leg water.Leg, view, projection math.Mat4, eye math.Vec3)

// Host renders mirror legs into their targets.
type Host struct {
	Reflection Target
	Refraction Target
	Scene      SceneFunc

	rendered int
	log      *zap.Logger
}

// NewHost creates a host drawing scene into the given targets.
func NewHost(reflection, refraction Target, scene SceneFunc) *Host {
	return &Host{
		Reflection: reflection,
		Refraction: refraction,
		Scene:      scene,
		log:        logger.Named("renderer.host"),
	}
}

// RenderMirror implements water.Host.
func (h *Host) RenderMirror(pass *water.RenderPass, leg water.Leg, result water.MirrorResult) error {
	if pass == nil || !pass.Active() {
		return ErrOutsidePass
	}

	target := h.Reflection
	if leg == water.LegRefraction {
		target = h.Refraction
	}
	if target == nil {
		return fmt.Errorf("%w: %s", ErrNoTarget, leg)
	}

	restore := target.BeginPass(result.InvertWinding)
	defer restore()

	target.ClearFor(result.Settings)
	if h.Scene != nil {
		h.Scene(pass, leg, result.View, result.Projection, result.Position)
	}

	h.rendered++
	if h.log != nil {
		h.log.Debug("mirror pass",
			zap.Stringer("leg", leg),
			zap.Bool("invert_winding", result.InvertWinding),
		)
	}
	return nil
}

// Rendered returns how many mirror passes have been drawn.
func (h *Host) Rendered() int {
	return h.rendered
}
