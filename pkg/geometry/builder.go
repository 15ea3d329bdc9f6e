package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-bvh-raytracer/pkg/core"
)

// MeshBuilder accumulates indexed meshes and primitives into a single
// triangle soup. Geometry added while Transform is set is moved by it.
type MeshBuilder struct {
	Transform *mgl64.Mat4

	vertices  []mgl64.Vec3
	normals   []mgl64.Vec3
	uvs       []mgl64.Vec2
	materials []int
}

// NewMeshBuilder creates an empty builder
func NewMeshBuilder() *MeshBuilder {
	return &MeshBuilder{}
}

// IndexedMesh is a shared-vertex mesh as produced by file loaders.
// Normals and UVs are per vertex and optional. MaterialIDs is per face and
// optional; when absent every face gets MaterialID.
type IndexedMesh struct {
	Positions   []mgl64.Vec3
	Normals     []mgl64.Vec3
	UVs         []mgl64.Vec2
	Faces       []int
	MaterialIDs []int
	MaterialID  int
}

// AddIndexed expands an indexed mesh into the soup
func (b *MeshBuilder) AddIndexed(mesh IndexedMesh) {
	core.Assertf(len(mesh.Faces)%3 == 0, "face indices must be a multiple of 3, got %d", len(mesh.Faces))
	numFaces := len(mesh.Faces) / 3

	core.Assertf(mesh.Normals == nil || len(mesh.Normals) == len(mesh.Positions),
		"normal count %d does not match position count %d", len(mesh.Normals), len(mesh.Positions))
	core.Assertf(mesh.UVs == nil || len(mesh.UVs) == len(mesh.Positions),
		"uv count %d does not match position count %d", len(mesh.UVs), len(mesh.Positions))
	core.Assertf(mesh.MaterialIDs == nil || len(mesh.MaterialIDs) == numFaces,
		"material count %d does not match face count %d", len(mesh.MaterialIDs), numFaces)

	for f := 0; f < numFaces; f++ {
		var corners [3]mgl64.Vec3
		var uvs [3]mgl64.Vec2
		var normals *[3]mgl64.Vec3
		if mesh.Normals != nil {
			normals = &[3]mgl64.Vec3{}
		}

		for k := 0; k < 3; k++ {
			idx := mesh.Faces[3*f+k]
			core.Assertf(idx >= 0 && idx < len(mesh.Positions), "face index %d out of bounds", idx)
			corners[k] = mesh.Positions[idx]
			if mesh.UVs != nil {
				uvs[k] = mesh.UVs[idx]
			}
			if normals != nil {
				normals[k] = mesh.Normals[idx]
			}
		}

		materialID := mesh.MaterialID
		if mesh.MaterialIDs != nil {
			materialID = mesh.MaterialIDs[f]
		}
		b.AddTriangle(corners, normals, uvs, materialID)
	}
}

// AddTriangle appends one triangle. A nil normals pointer uses the face normal.
func (b *MeshBuilder) AddTriangle(corners [3]mgl64.Vec3, normals *[3]mgl64.Vec3, uvs [3]mgl64.Vec2, materialID int) {
	var n [3]mgl64.Vec3
	if normals != nil {
		n = *normals
	} else {
		face := corners[1].Sub(corners[0]).Cross(corners[2].Sub(corners[0]))
		if face.Len() > 0 {
			face = face.Normalize()
		}
		n = [3]mgl64.Vec3{face, face, face}
	}

	if b.Transform != nil {
		normalMatrix := NormalMatrix(*b.Transform)
		for k := 0; k < 3; k++ {
			corners[k] = TransformPosition(*b.Transform, corners[k])
			n[k] = TransformDirection(normalMatrix, n[k])
		}
	}

	b.vertices = append(b.vertices, corners[0], corners[1], corners[2])
	b.normals = append(b.normals, n[0], n[1], n[2])
	b.uvs = append(b.uvs, uvs[0], uvs[1], uvs[2])
	b.materials = append(b.materials, materialID)
}

// AddQuad appends the parallelogram spanned by u and v from corner as two
// triangles. UVs run from 0 to uvScale along each edge.
func (b *MeshBuilder) AddQuad(corner, u, v mgl64.Vec3, uvScale float64, materialID int) {
	p00 := corner
	p10 := corner.Add(u)
	p11 := corner.Add(u).Add(v)
	p01 := corner.Add(v)

	uv00 := mgl64.Vec2{0, 0}
	uv10 := mgl64.Vec2{uvScale, 0}
	uv11 := mgl64.Vec2{uvScale, uvScale}
	uv01 := mgl64.Vec2{0, uvScale}

	b.AddTriangle([3]mgl64.Vec3{p00, p10, p11}, nil, [3]mgl64.Vec2{uv00, uv10, uv11}, materialID)
	b.AddTriangle([3]mgl64.Vec3{p00, p11, p01}, nil, [3]mgl64.Vec2{uv00, uv11, uv01}, materialID)
}

// AddBox appends an axis-aligned box with the given center and half
// extents, with outward facing normals.
func (b *MeshBuilder) AddBox(center, halfSize mgl64.Vec3, materialID int) {
	lo := center.Sub(halfSize)
	size := halfSize.Mul(2)
	dx := mgl64.Vec3{size[0], 0, 0}
	dy := mgl64.Vec3{0, size[1], 0}
	dz := mgl64.Vec3{0, 0, size[2]}
	hi := lo.Add(size)

	// -Z, +Z, -X, +X, -Y, +Y
	b.AddQuad(lo, dy, dx, 1, materialID)
	b.AddQuad(lo.Add(dz), dx, dy, 1, materialID)
	b.AddQuad(lo, dz, dy, 1, materialID)
	b.AddQuad(hi.Sub(dy).Sub(dz), dy, dz, 1, materialID)
	b.AddQuad(lo, dx, dz, 1, materialID)
	b.AddQuad(hi.Sub(dx).Sub(dz), dz, dx, 1, materialID)
}

// AddSoup appends every triangle of soup, shifting its material IDs by
// materialOffset
func (b *MeshBuilder) AddSoup(soup *TriangleSoup, materialOffset int) {
	for i := 0; i < soup.NumTriangles(); i++ {
		corners := [3]mgl64.Vec3{soup.Vertices[3*i], soup.Vertices[3*i+1], soup.Vertices[3*i+2]}
		normals := [3]mgl64.Vec3{soup.Normals[3*i], soup.Normals[3*i+1], soup.Normals[3*i+2]}
		uvs := [3]mgl64.Vec2{soup.UVs[3*i], soup.UVs[3*i+1], soup.UVs[3*i+2]}
		b.AddTriangle(corners, &normals, uvs, soup.MaterialIDs[i]+materialOffset)
	}
}

// NumTriangles returns the number of triangles added so far
func (b *MeshBuilder) NumTriangles() int {
	return len(b.materials)
}

// Build returns the accumulated soup. The builder must not be reused.
func (b *MeshBuilder) Build() *TriangleSoup {
	return NewTriangleSoup(b.vertices, b.normals, b.uvs, b.materials)
}
