package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultRayEpsilon is the offset applied to secondary ray origins to avoid
// self-intersection with the surface they leave from.
const DefaultRayEpsilon = 7e-3

// unitTolerance bounds how far a ray direction may deviate from unit length
const unitTolerance = 1e-4

// Ray represents a ray with an origin and a unit-length direction
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay creates a new ray. The direction must already be normalized.
func NewRay(origin, direction mgl64.Vec3) Ray {
	Assertf(math.Abs(direction.Len()-1) < unitTolerance,
		"ray direction %v is not unit length", direction)
	return Ray{Origin: origin, Direction: direction}
}

// NewRayNormalized creates a ray after normalizing the direction
func NewRayNormalized(origin, direction mgl64.Vec3) Ray {
	Assertf(direction.Len() > 0, "ray direction must be non-zero")
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Offset returns a copy of the ray whose origin is pushed by epsilon along
// normal, flipped to the side the ray travels into.
func (r Ray) Offset(epsilon float64, normal mgl64.Vec3) Ray {
	if r.Direction.Dot(normal) < 0 {
		normal = normal.Mul(-1)
	}
	return Ray{Origin: r.Origin.Add(normal.Mul(epsilon)), Direction: r.Direction}
}
