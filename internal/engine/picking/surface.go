package picking

import "github.com/Faultbox/tidewater/pkg/math"

// HeightField answers surface elevation queries. *water.HeightGrid satisfies it.
type HeightField interface {
	Height(p math.Vec3) float32
	ReferenceHeight() float32
}

// surfaceRefinements bounds the fixed-point iterations in PickSurface.
const surfaceRefinements = 8

// PickSurface finds where the ray meets a height field. It starts from the
// field's reference plane and repeatedly re-intersects with the horizontal
// plane at the height found under the previous hit. This converges for the
// gentle slopes of a water surface seen from above; steep grazing rays can
// land on the wrong crest.
func PickSurface(r Ray, f HeightField) (math.Vec3, bool) {
	hit, ok := r.IntersectPlaneY(f.ReferenceHeight())
	if !ok {
		return math.Vec3{}, false
	}

	for i := 0; i < surfaceRefinements; i++ {
		h := f.Height(hit)
		next, ok := r.IntersectPlaneY(h)
		if !ok {
			break
		}
		if next.DistanceSq(hit) < 1e-8 {
			hit = next
			break
		}
		hit = next
	}
	hit.Y = f.Height(hit)
	return hit, true
}
