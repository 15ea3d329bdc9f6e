package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
)

// ComputeUVFootprint estimates the texture-space size of a pixel at a hit.
// The four corner rays are intersected with the plane of the hit triangle,
// the hit points mapped to UV, and the extent of their bounding box returned
// as (du, dv). Corner rays parallel to the plane fall back to the hit point.
func ComputeUVFootprint(rays [4]core.Ray, isect core.Intersection, soup *geometry.TriangleSoup) mgl64.Vec2 {
	normal := soup.FaceNormal(isect.Triangle)
	if normal.Len() == 0 {
		return mgl64.Vec2{}
	}

	minUV := mgl64.Vec2{math.Inf(1), math.Inf(1)}
	maxUV := mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for _, ray := range rays {
		p := isect.Position
		if t, ok := geometry.IntersectPlane(ray.Origin, ray.Direction, isect.Position, normal); ok {
			p = ray.At(t)
		}
		uv := soup.UVAt(isect.Triangle, p)
		for k := 0; k < 2; k++ {
			minUV[k] = math.Min(minUV[k], uv[k])
			maxUV[k] = math.Max(maxUV[k], uv[k])
		}
	}
	return maxUV.Sub(minUV)
}
