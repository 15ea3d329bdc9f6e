package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// TriangleSoup stores triangles as flat parallel arrays. Triangle i owns
// Vertices[3*i .. 3*i+2] and the matching Normals and UVs entries, and
// MaterialIDs[i]. The soup is not modified after construction.
type TriangleSoup struct {
	Vertices    []mgl64.Vec3
	Normals     []mgl64.Vec3
	UVs         []mgl64.Vec2
	MaterialIDs []int
}

// NewTriangleSoup validates the parallel arrays and wraps them in a soup.
// Missing normals are replaced by flat face normals, missing UVs by zero.
func NewTriangleSoup(vertices, normals []mgl64.Vec3, uvs []mgl64.Vec2, materialIDs []int) *TriangleSoup {
	core.Assertf(len(vertices)%3 == 0, "vertex count %d is not a multiple of 3", len(vertices))
	numTriangles := len(vertices) / 3

	if normals == nil {
		normals = flatNormals(vertices)
	}
	if uvs == nil {
		uvs = make([]mgl64.Vec2, len(vertices))
	}
	if materialIDs == nil {
		materialIDs = make([]int, numTriangles)
	}

	core.Assertf(len(normals) == len(vertices), "normal count %d does not match vertex count %d", len(normals), len(vertices))
	core.Assertf(len(uvs) == len(vertices), "uv count %d does not match vertex count %d", len(uvs), len(vertices))
	core.Assertf(len(materialIDs) == numTriangles, "material count %d does not match triangle count %d", len(materialIDs), numTriangles)

	return &TriangleSoup{
		Vertices:    vertices,
		Normals:     normals,
		UVs:         uvs,
		MaterialIDs: materialIDs,
	}
}

// NumTriangles returns the number of triangles in the soup
func (s *TriangleSoup) NumTriangles() int {
	return len(s.Vertices) / 3
}

// Triangle returns the three vertices of triangle i
func (s *TriangleSoup) Triangle(i int) (v0, v1, v2 mgl64.Vec3) {
	return s.Vertices[3*i], s.Vertices[3*i+1], s.Vertices[3*i+2]
}

// TriangleBounds returns the bounding box of triangle i
func (s *TriangleSoup) TriangleBounds(i int) core.AABB {
	v0, v1, v2 := s.Triangle(i)
	return core.NewAABBFromPoints(v0, v1, v2)
}

// BoundsCenter returns the center of triangle i's bounding box along axis.
// This is the midpoint of the extreme vertex coordinates, not the centroid.
func (s *TriangleSoup) BoundsCenter(i, axis int) float64 {
	v0, v1, v2 := s.Triangle(i)
	lo := math.Min(math.Min(v0[axis], v1[axis]), v2[axis])
	hi := math.Max(math.Max(v0[axis], v1[axis]), v2[axis])
	return (lo + hi) / 2
}

// Bounds returns the bounding box of the whole soup
func (s *TriangleSoup) Bounds() core.AABB {
	box := core.EmptyAABB()
	for _, v := range s.Vertices {
		box.Extend(v)
	}
	return box
}

// Intersect tests the ray against triangle i only
func (s *TriangleSoup) Intersect(ray core.Ray, i int) (bary mgl64.Vec3, t float64, ok bool) {
	v0, v1, v2 := s.Triangle(i)
	return IntersectTriangle(ray.Origin, ray.Direction, v0, v1, v2)
}

// FillIntersection writes the surface attributes of triangle i at the given
// barycentric coordinates into isect.
func (s *TriangleSoup) FillIntersection(isect *core.Intersection, i int, t float64, bary mgl64.Vec3) {
	core.Assertf(i >= 0 && i < s.NumTriangles(), "triangle index %d out of range", i)

	base := 3 * i
	isect.Position = interpolate3(s.Vertices[base:base+3], bary)
	isect.Normal = interpolate3(s.Normals[base:base+3], bary)
	if l := isect.Normal.Len(); l > 0 {
		isect.Normal = isect.Normal.Mul(1 / l)
	}
	isect.UV = s.UVs[base].Mul(bary[0]).
		Add(s.UVs[base+1].Mul(bary[1])).
		Add(s.UVs[base+2].Mul(bary[2]))
	isect.MaterialID = s.MaterialIDs[i]
	isect.T = t
	isect.Triangle = i
	isect.Barycentric = bary
}

// BarycentricAt returns the barycentric coordinates of p projected onto the
// plane of triangle i. Points outside the triangle yield weights outside
// [0, 1], which extrapolate attributes linearly.
func (s *TriangleSoup) BarycentricAt(i int, p mgl64.Vec3) mgl64.Vec3 {
	v0, v1, v2 := s.Triangle(i)
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	ep := p.Sub(v0)

	d11 := e1.Dot(e1)
	d12 := e1.Dot(e2)
	d22 := e2.Dot(e2)
	dp1 := ep.Dot(e1)
	dp2 := ep.Dot(e2)

	denom := d11*d22 - d12*d12
	if denom == 0 {
		return mgl64.Vec3{1, 0, 0}
	}
	b1 := (d22*dp1 - d12*dp2) / denom
	b2 := (d11*dp2 - d12*dp1) / denom
	return mgl64.Vec3{1 - b1 - b2, b1, b2}
}

// UVAt returns the texture coordinate of p on the plane of triangle i
func (s *TriangleSoup) UVAt(i int, p mgl64.Vec3) mgl64.Vec2 {
	bary := s.BarycentricAt(i, p)
	base := 3 * i
	return s.UVs[base].Mul(bary[0]).
		Add(s.UVs[base+1].Mul(bary[1])).
		Add(s.UVs[base+2].Mul(bary[2]))
}

// FaceNormal returns the geometric normal of triangle i
func (s *TriangleSoup) FaceNormal(i int) mgl64.Vec3 {
	v0, v1, v2 := s.Triangle(i)
	n := v1.Sub(v0).Cross(v2.Sub(v0))
	if n.Len() == 0 {
		return mgl64.Vec3{}
	}
	return n.Normalize()
}

func interpolate3(values []mgl64.Vec3, bary mgl64.Vec3) mgl64.Vec3 {
	return values[0].Mul(bary[0]).
		Add(values[1].Mul(bary[1])).
		Add(values[2].Mul(bary[2]))
}

func flatNormals(vertices []mgl64.Vec3) []mgl64.Vec3 {
	normals := make([]mgl64.Vec3, len(vertices))
	for i := 0; i+2 < len(vertices); i += 3 {
		n := vertices[i+1].Sub(vertices[i]).Cross(vertices[i+2].Sub(vertices[i]))
		if n.Len() > 0 {
			n = n.Normalize()
		}
		normals[i], normals[i+1], normals[i+2] = n, n, n
	}
	return normals
}
