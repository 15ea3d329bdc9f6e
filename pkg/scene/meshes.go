package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-bvh-raytracer/pkg/geometry"
)

// Helper functions for creating indexed meshes

// pyramidMesh creates a square based pyramid centered at center
func pyramidMesh(center mgl64.Vec3, baseSize, height float64, materialID int) geometry.IndexedMesh {
	halfBase := baseSize * 0.5
	halfHeight := height * 0.5

	positions := []mgl64.Vec3{
		// Base vertices
		center.Add(mgl64.Vec3{-halfBase, -halfHeight, -halfBase}), // 0: left-back
		center.Add(mgl64.Vec3{+halfBase, -halfHeight, -halfBase}), // 1: right-back
		center.Add(mgl64.Vec3{+halfBase, -halfHeight, +halfBase}), // 2: right-front
		center.Add(mgl64.Vec3{-halfBase, -halfHeight, +halfBase}), // 3: left-front
		// Apex
		center.Add(mgl64.Vec3{0, +halfHeight, 0}), // 4
	}

	faces := []int{
		// Base (2 triangles)
		0, 1, 2, 0, 2, 3,
		// Side faces
		1, 0, 4, // back
		2, 1, 4, // right
		3, 2, 4, // front
		0, 3, 4, // left
	}
	return geometry.IndexedMesh{Positions: positions, Faces: faces, MaterialID: materialID}
}

// icosahedronMesh creates a 20-sided polyhedron with the given circumradius
func icosahedronMesh(center mgl64.Vec3, radius float64, materialID int) geometry.IndexedMesh {
	phi := (1 + math.Sqrt(5)) / 2
	scale := radius / math.Sqrt(1+phi*phi)

	corners := []mgl64.Vec3{
		{-1, phi, 0}, {1, phi, 0}, {-1, -phi, 0}, {1, -phi, 0},
		{0, -1, phi}, {0, 1, phi}, {0, -1, -phi}, {0, 1, -phi},
		{phi, 0, -1}, {phi, 0, 1}, {-phi, 0, -1}, {-phi, 0, 1},
	}
	positions := make([]mgl64.Vec3, len(corners))
	for i, c := range corners {
		positions[i] = center.Add(c.Mul(scale))
	}

	faces := []int{
		// 5 faces around point 0
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		// 5 adjacent faces
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		// 5 faces around point 3
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		// 5 adjacent faces
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}
	return geometry.IndexedMesh{Positions: positions, Faces: faces, MaterialID: materialID}
}

// groundQuad adds a horizontal square centered at center facing +Y, with UVs
// repeating uvScale times across it
func groundQuad(b *geometry.MeshBuilder, center mgl64.Vec3, size, uvScale float64, materialID int) {
	corner := center.Sub(mgl64.Vec3{size / 2, 0, size / 2})
	// u x v = (0,0,size) x (size,0,0) points up
	b.AddQuad(corner, mgl64.Vec3{0, 0, size}, mgl64.Vec3{size, 0, 0}, uvScale, materialID)
}

// rotatedY returns a transform rotating by angle radians about a vertical
// axis through pivot
func rotatedY(pivot mgl64.Vec3, angle float64) *mgl64.Mat4 {
	m := mgl64.Translate3D(pivot[0], pivot[1], pivot[2]).
		Mul4(mgl64.HomogRotate3DY(angle)).
		Mul4(mgl64.Translate3D(-pivot[0], -pivot[1], -pivot[2]))
	return &m
}
