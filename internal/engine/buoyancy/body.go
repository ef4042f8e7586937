// Package buoyancy floats rigid bodies on a water surface by sampling it at
// voxel points.
package buoyancy

import (
	gomath "math"

	"github.com/charmbracelet/harmonica"

	"github.com/Faultbox/tidewater/pkg/math"
)

// Gravity is the downward acceleration in m/s².
const Gravity = 9.81

// Default spring tuning for surface alignment: moderate speed, critically
// damped.
const (
	alignFrequency = 4.0
	alignDamping   = 1.0
)

// Surface is the water the body floats on. *water.HeightGrid satisfies it.
type Surface interface {
	Height(p math.Vec3) float32
	Normal(p math.Vec3) math.Vec3
	IsUnderwater(p math.Vec3) bool
}

// Body is a box-shaped floating object discretised into cubic voxels.
type Body struct {
	Mass      float32     // kg
	Voxels    []math.Vec3 // voxel centres in body space
	VoxelSize float32     // voxel edge length, m
	Position  math.Vec3   // world position of the body origin
	Velocity  math.Vec3
	Rotation  math.Quat

	// Yaw is the heading about world Y in radians. The water does not drive it.
	Yaw float32

	// LinearDrag is the velocity damping rate (1/s) at full submersion.
	LinearDrag float32

	pitch, roll angle
	springDT    float32

	submerged  float32
	underwater bool
}

// angle is one spring-driven orientation axis.
type angle struct {
	pos, vel float64
	spring   harmonica.Spring
}

func (a *angle) update(target float64) {
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, target)
}

// NewBody creates a body of the given mass filling a box of halfExtents
// around its origin with voxels of edge voxelSize. Each axis gets at least
// one voxel.
func NewBody(mass float32, halfExtents math.Vec3, voxelSize float32) *Body {
	nx := voxelCount(halfExtents.X, voxelSize)
	ny := voxelCount(halfExtents.Y, voxelSize)
	nz := voxelCount(halfExtents.Z, voxelSize)

	centre := func(i, n int) float32 {
		return (float32(i) - float32(n-1)/2) * voxelSize
	}

	voxels := make([]math.Vec3, 0, nx*ny*nz)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			for iz := 0; iz < nz; iz++ {
				voxels = append(voxels, math.Vec3{X: centre(ix, nx), Y: centre(iy, ny), Z: centre(iz, nz)})
			}
		}
	}

	return &Body{
		Mass:       mass,
		Voxels:     voxels,
		VoxelSize:  voxelSize,
		Rotation:   math.QuatIdentity(),
		LinearDrag: 1.5,
	}
}

func voxelCount(half, size float32) int {
	n := int(gomath.Round(float64(2 * half / size)))
	return max(n, 1)
}

// SubmergedFraction is the share of the body's volume under water after the
// last Step, in [0, 1].
func (b *Body) SubmergedFraction() float32 {
	return b.submerged
}

// Underwater reports whether the body origin was below the surface after the
// last Step.
func (b *Body) Underwater() bool {
	return b.underwater
}

// WorldVoxel returns the world position of voxel i.
func (b *Body) WorldVoxel(i int) math.Vec3 {
	return b.Position.Add(b.Rotation.Rotate(b.Voxels[i]))
}

// Model returns the body's local-to-world matrix.
func (b *Body) Model() math.Mat4 {
	return math.TRS(b.Position, b.Rotation, math.Vec3{X: 1, Y: 1, Z: 1})
}

// Bounds returns the world-space box around the voxel centres, grown by half
// a voxel.
func (b *Body) Bounds() (minB, maxB math.Vec3) {
	return b.voxelBox(b.WorldVoxel)
}

// LocalBounds is Bounds in body space, before rotation and translation.
func (b *Body) LocalBounds() (minB, maxB math.Vec3) {
	return b.voxelBox(func(i int) math.Vec3 { return b.Voxels[i] })
}

func (b *Body) voxelBox(at func(int) math.Vec3) (minB, maxB math.Vec3) {
	h := b.VoxelSize / 2
	pad := math.Vec3{X: h, Y: h, Z: h}
	for i := range b.Voxels {
		p := at(i)
		if i == 0 {
			minB, maxB = p, p
			continue
		}
		minB = math.Vec3{X: min(minB.X, p.X), Y: min(minB.Y, p.Y), Z: min(minB.Z, p.Z)}
		maxB = math.Vec3{X: max(maxB.X, p.X), Y: max(maxB.Y, p.Y), Z: max(maxB.Z, p.Z)}
	}
	return minB.Sub(pad), maxB.Add(pad)
}

// Step advances the body by dt seconds on surface s with the given water
// density (kg/m³). A body with no voxels or no mass only falls.
func (b *Body) Step(dt float32, s Surface, density float32) {
	if dt <= 0 {
		return
	}

	size := b.VoxelSize
	volume := size * size * size

	var lift, total float32
	var normal math.Vec3
	for i := range b.Voxels {
		p := b.WorldVoxel(i)
		h := s.Height(p)
		sub := min(max((h-p.Y+size/2)/size, 0), 1)
		if sub == 0 {
			continue
		}
		lift += density * Gravity * volume * sub
		total += sub
		normal = normal.Add(s.Normal(p).Scale(sub))
	}

	if len(b.Voxels) > 0 {
		b.submerged = total / float32(len(b.Voxels))
	} else {
		b.submerged = 0
	}
	b.underwater = s.IsUnderwater(b.Position)

	// Semi-implicit Euler: velocity first, then position.
	accel := math.Vec3{Y: -Gravity}
	if b.Mass > 0 {
		accel.Y += lift / b.Mass
	}
	b.Velocity = b.Velocity.Add(accel.Scale(dt))

	damp := 1 - b.LinearDrag*b.submerged*dt
	b.Velocity = b.Velocity.Scale(max(damp, 0))
	b.Position = b.Position.Add(b.Velocity.Scale(dt))

	b.align(dt, normal)
}

// align springs pitch and roll toward the mean wetted surface normal. With
// nothing wetted the body eases back to level.
func (b *Body) align(dt float32, normal math.Vec3) {
	if b.springDT != dt {
		b.pitch.spring = harmonica.NewSpring(float64(dt), alignFrequency, alignDamping)
		b.roll.spring = b.pitch.spring
		b.springDT = dt
	}

	var pitch, roll float64
	if n := normal.Normalize(); n.Y > 0 {
		// Express the normal in the body's heading frame.
		local := math.QuatFromAxisAngle(math.Up, -b.Yaw).Rotate(n)
		pitch = gomath.Atan2(float64(local.Z), float64(local.Y))
		roll = gomath.Atan2(float64(-local.X), float64(local.Y))
	}

	b.pitch.update(pitch)
	b.roll.update(roll)
	b.Rotation = math.QuatFromEuler(float32(b.pitch.pos), b.Yaw, float32(b.roll.pos)).Normalize()
}
