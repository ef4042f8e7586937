// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/tidewater/pkg/math"
)

// Sun is a directional light.
type Sun struct {
	Azimuth   float32 // rotation around Y in degrees, 0 along +Z
	Elevation float32 // degrees above the horizon
	Color     [3]float32
	Intensity float32
}

// DefaultSun returns a warm afternoon sun.
func DefaultSun() Sun {
	return Sun{
		Azimuth:   135,
		Elevation: 35,
		Color:     [3]float32{1, 0.95, 0.85},
		Intensity: 1,
	}
}

// Direction returns the unit vector pointing towards the sun.
func (s Sun) Direction() math.Vec3 {
	return SunDirection(s.Azimuth, s.Elevation)
}

// Radiance is the light color scaled by intensity.
func (s Sun) Radiance() math.Vec3 {
	return math.Vec3{X: s.Color[0], Y: s.Color[1], Z: s.Color[2]}.Scale(s.Intensity)
}

// SunDirection converts azimuth/elevation angles in degrees to a light
// direction vector pointing towards the sun.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	lon := float64(azimuth) * gomath.Pi / 180.0
	lat := float64(elevation) * gomath.Pi / 180.0

	// Spherical to Cartesian: azimuth around Y, elevation from the horizon.
	return math.Vec3{
		X: float32(gomath.Cos(lat) * gomath.Sin(lon)),
		Y: float32(gomath.Sin(lat)),
		Z: float32(gomath.Cos(lat) * gomath.Cos(lon)),
	}
}
