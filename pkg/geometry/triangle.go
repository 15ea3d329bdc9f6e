package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// determinantEpsilon rejects rays (nearly) parallel to the triangle plane
const determinantEpsilon = 1e-12

// IntersectTriangle tests a ray against the triangle (v0, v1, v2) using the
// Moller-Trumbore algorithm. Hits at distance <= 0 are rejected. The
// returned barycentric weights belong to v0, v1 and v2 respectively.
func IntersectTriangle(origin, direction, v0, v1, v2 mgl64.Vec3) (bary mgl64.Vec3, t float64, ok bool) {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)

	h := direction.Cross(edge2)
	a := edge1.Dot(h)
	if math.Abs(a) < determinantEpsilon {
		return mgl64.Vec3{}, 0, false
	}

	f := 1.0 / a
	s := origin.Sub(v0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return mgl64.Vec3{}, 0, false
	}

	q := s.Cross(edge1)
	v := f * direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return mgl64.Vec3{}, 0, false
	}

	t = f * edge2.Dot(q)
	if t <= 0 {
		return mgl64.Vec3{}, 0, false
	}

	return mgl64.Vec3{1 - u - v, u, v}, t, true
}

// IntersectPlane intersects a ray with the plane through point p0 with
// normal n. Hits behind the origin are rejected.
func IntersectPlane(origin, direction, p0, n mgl64.Vec3) (t float64, ok bool) {
	denom := direction.Dot(n)
	if math.Abs(denom) < determinantEpsilon {
		return 0, false
	}
	t = p0.Sub(origin).Dot(n) / denom
	if t <= 0 {
		return 0, false
	}
	return t, true
}
