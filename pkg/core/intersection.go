package core

import "github.com/go-gl/mathgl/mgl64"

// Intersection describes the nearest surface hit along a ray
type Intersection struct {
	Position    mgl64.Vec3 // World-space hit point
	Normal      mgl64.Vec3 // Interpolated shading normal, unit length
	UV          mgl64.Vec2 // Interpolated texture coordinate
	MaterialID  int        // Index into the owning scene's material pool
	T           float64    // Distance along the ray
	Triangle    int        // Index of the hit triangle in the soup
	Barycentric mgl64.Vec3 // Weights of v0, v1, v2 at the hit point
}
