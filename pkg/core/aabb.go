package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// parallelEpsilon is the magnitude below which a direction component is
// treated as parallel to the slab
const parallelEpsilon = 1e-12

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3 // Minimum corner
	Max mgl64.Vec3 // Maximum corner
}

// EmptyAABB returns a box that contains nothing. The first Extend turns it
// into a degenerate box around that point.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max mgl64.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...mgl64.Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box.Extend(p)
	}
	return box
}

// Extend grows the box to include p
func (b *AABB) Extend(p mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = math.Min(b.Min[i], p[i])
		b.Max[i] = math.Max(b.Max[i], p[i])
	}
}

// Union returns an AABB that bounds both this AABB and another
func (b AABB) Union(other AABB) AABB {
	var out AABB
	for i := 0; i < 3; i++ {
		out.Min[i] = math.Min(b.Min[i], other.Min[i])
		out.Max[i] = math.Max(b.Max[i], other.Max[i])
	}
	return out
}

// Intersect clips the parametric range [tMin, tMax] against the box using
// the slab method. On a hit it returns the clipped range; on a miss ok is
// false and the returned range is meaningless.
func (b AABB) Intersect(ray Ray, tMin, tMax float64) (near, far float64, ok bool) {
	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin[axis]
		direction := ray.Direction[axis]

		// Parallel to this slab: either always inside or never
		if math.Abs(direction) < parallelEpsilon {
			if origin < b.Min[axis] || origin > b.Max[axis] {
				return 0, 0, false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (b.Min[axis] - origin) * invDirection
		t2 := (b.Max[axis] - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}

// Hit tests if a ray intersects with this AABB within [tMin, tMax]
func (b AABB) Hit(ray Ray, tMin, tMax float64) bool {
	_, _, ok := b.Intersect(ray, tMin, tMax)
	return ok
}

// Contains reports whether other lies entirely inside this box
func (b AABB) Contains(other AABB) bool {
	for i := 0; i < 3; i++ {
		if other.Min[i] < b.Min[i] || other.Max[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p lies inside or on the box
func (b AABB) ContainsPoint(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// IsEmpty returns true until the box has been extended at least once
func (b AABB) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Center returns the center point of the AABB
func (b AABB) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (b AABB) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// SurfaceArea returns the surface area of the AABB, zero for an empty box
func (b AABB) SurfaceArea() float64 {
	if b.IsEmpty() {
		return 0
	}
	size := b.Size()
	return 2.0 * (size[0]*size[1] + size[1]*size[2] + size[2]*size[0])
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (b AABB) LongestAxis() int {
	size := b.Size()
	if size[0] > size[1] && size[0] > size[2] {
		return 0
	}
	if size[1] > size[2] {
		return 1
	}
	return 2
}
