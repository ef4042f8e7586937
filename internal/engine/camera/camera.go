// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/tidewater/internal/engine/water"
	"github.com/Faultbox/tidewater/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Lens
	FieldOfView float32 // vertical, radians
	Near, Far   float32
	Settings    water.CameraSettings
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        20.0,
		RotationX:       0.5,
		RotationY:       0.0,
		MinDistance:     2.0,
		MaxDistance:     200.0,
		MinPitch:        -1.2,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FieldOfView:     float32(gomath.Pi / 3),
		Near:            0.1,
		Far:             500,
		Settings: water.CameraSettings{
			ClearFlags:       water.ClearSolidColor,
			Background:       [4]float32{0.45, 0.62, 0.78, 1},
			OrthographicSize: 10,
		},
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Up)
}

// ProjectionMatrix returns the projection for the given aspect. An
// orthographic camera shows OrthographicSize above and below its axis.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	if c.Settings.Orthographic {
		h := c.Settings.OrthographicSize
		w := h * aspect
		return math.Ortho(-w, w, -h, h, c.Near, c.Far)
	}
	return math.Perspective(c.FieldOfView, aspect, c.Near, c.Far)
}

// Rotation returns the camera orientation; the camera looks down its local -Z.
func (c *OrbitCamera) Rotation() math.Quat {
	return math.QuatFromEuler(-c.RotationX, c.RotationY, 0)
}

// State snapshots the camera for mirror evaluation.
func (c *OrbitCamera) State(aspect float32) *water.CameraState {
	settings := c.Settings
	settings.Near = c.Near
	settings.Far = c.Far
	settings.FieldOfView = c.FieldOfView
	settings.Aspect = aspect

	return &water.CameraState{
		View:           c.ViewMatrix(),
		Projection:     c.ProjectionMatrix(aspect),
		Position:       c.Position(),
		Rotation:       c.Rotation(),
		CameraSettings: settings,
	}
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	c.RotationX = min(max(c.RotationX, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}

// HandleMovement pans the camera center point based on keyboard input.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	dirX := float32(gomath.Sin(float64(c.RotationY)))
	dirZ := float32(gomath.Cos(float64(c.RotationY)))

	// Right direction (perpendicular to forward)
	rightX := float32(gomath.Cos(float64(c.RotationY)))
	rightZ := float32(-gomath.Sin(float64(c.RotationY)))

	// Negate forward so W moves "into" the scene
	c.Center.X += (-dirX*forward + rightX*right) * speed
	c.Center.Z += (-dirZ*forward + rightZ*right) * speed
	c.Center.Y += up * speed
}

// FitToBounds adjusts camera to view the given bounding box.
func (c *OrbitCamera) FitToBounds(minB, maxB math.Vec3) {
	c.Center = minB.Lerp(maxB, 0.5)

	size := max(maxB.X-minB.X, maxB.Z-minB.Z)
	c.Distance = min(max(size*1.2, c.MinDistance), c.MaxDistance)

	c.RotationX = 0.6 // Look down at ~35 degrees
	c.RotationY = 0.0
}
