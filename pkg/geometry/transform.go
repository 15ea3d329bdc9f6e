package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// TransformPosition applies the affine transform m to the point p
func TransformPosition(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// TransformDirection applies m to the direction d and normalizes the result,
// even if d is not unit length.
func TransformDirection(m mgl64.Mat4, d mgl64.Vec3) mgl64.Vec3 {
	out := m.Mul4x1(d.Vec4(0)).Vec3()
	if out.Len() == 0 {
		return out
	}
	return out.Normalize()
}

// NormalMatrix returns the inverse transpose of m, which maps normals
// consistently with positions transformed by m.
func NormalMatrix(m mgl64.Mat4) mgl64.Mat4 {
	core.Assert(m.Det() != 0, "transform is not invertible")
	return m.Inv().Transpose()
}

// TransformRay maps a ray into the space described by m
func TransformRay(m mgl64.Mat4, ray core.Ray) core.Ray {
	return core.Ray{
		Origin:    TransformPosition(m, ray.Origin),
		Direction: TransformDirection(m, ray.Direction),
	}
}

// Transform returns a copy of the soup with every vertex moved by m and
// every normal moved by the normal matrix of m.
func (s *TriangleSoup) Transform(m mgl64.Mat4) *TriangleSoup {
	normalMatrix := NormalMatrix(m)

	vertices := make([]mgl64.Vec3, len(s.Vertices))
	normals := make([]mgl64.Vec3, len(s.Normals))
	for i := range s.Vertices {
		vertices[i] = TransformPosition(m, s.Vertices[i])
		normals[i] = TransformDirection(normalMatrix, s.Normals[i])
	}

	uvs := make([]mgl64.Vec2, len(s.UVs))
	copy(uvs, s.UVs)
	materials := make([]int, len(s.MaterialIDs))
	copy(materials, s.MaterialIDs)

	return &TriangleSoup{
		Vertices:    vertices,
		Normals:     normals,
		UVs:         uvs,
		MaterialIDs: materials,
	}
}
