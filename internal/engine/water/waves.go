package water

import (
	gomath "math"

	"github.com/Faultbox/tidewater/pkg/math"
)

// Wave is one directional sine component of the surface.
type Wave struct {
	Direction math.Vec2 // horizontal travel direction, normalised on use
	Amplitude float32
	Length    float32 // wavelength in world units
	Speed     float32 // phase speed in world units per second
}

// Waves deforms a GridMesh with a sum of sine waves.
type Waves struct {
	Components []Wave
}

// DefaultWaves returns a gentle two-component swell.
func DefaultWaves() Waves {
	return Waves{Components: []Wave{
		{Direction: math.Vec2{X: 1, Y: 0.3}, Amplitude: 0.15, Length: 6, Speed: 1.2},
		{Direction: math.Vec2{X: -0.4, Y: 1}, Amplitude: 0.08, Length: 3.5, Speed: 0.8},
	}}
}

// HeightAt returns the wave displacement at horizontal position xz and time t.
func (w Waves) HeightAt(xz math.Vec2, t float32) float32 {
	var h float64
	for _, c := range w.Components {
		if c.Length <= 0 {
			continue
		}
		k := 2 * gomath.Pi / float64(c.Length)
		d := c.Direction.Normalize()
		phase := k * (float64(d.Dot(xz)) - float64(c.Speed)*float64(t))
		h += float64(c.Amplitude) * gomath.Sin(phase)
	}
	return float32(h)
}

// Apply sets every vertex height from the undeformed base at time t.
func (w Waves) Apply(m *GridMesh, t float32) {
	for i, b := range m.Base {
		m.Vertices[i] = math.Vec3{X: b.X, Y: b.Y + w.HeightAt(b.XZ(), t), Z: b.Z}
	}
}
