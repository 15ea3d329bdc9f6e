package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/df07/go-bvh-raytracer/pkg/geometry"
)

// triangleColors are the diffuse colors cycled through by the spiral scene
var triangleColors = []mgl64.Vec4{
	{0.9, 0.9, 0.9, 1},
	{0.1, 0.1, 0.9, 1},
	{0.1, 0.9, 0.1, 1},
	{0.1, 0.9, 0.9, 1},
	{0.9, 0.1, 0.1, 1},
	{0.9, 0.1, 0.9, 1},
	{0.9, 0.9, 0.1, 1},
}

// SpiralSoup creates n unit triangles facing +Z, each 0.2 further from the
// viewer than the last and offset along a Lissajous curve
func SpiralSoup(n int) *geometry.TriangleSoup {
	vertices := make([]mgl64.Vec3, 0, 3*n)
	normals := make([]mgl64.Vec3, 0, 3*n)
	uvs := make([]mgl64.Vec2, 0, 3*n)
	materials := make([]int, 0, n)

	for i := 0; i < n; i++ {
		radius := float64(i+1) * 0.1
		x := radius * math.Sin(float64(2*i)/float64(n)*2*math.Pi)
		y := radius * math.Sin(float64(4*i)/float64(n)*2*math.Pi)
		z := 1.0 - float64(i)*0.2

		vertices = append(vertices,
			mgl64.Vec3{x - 0.5, y - 0.5, z},
			mgl64.Vec3{x + 0.5, y - 0.5, z},
			mgl64.Vec3{x, y + 0.5, z},
		)
		normals = append(normals, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1})
		uvs = append(uvs, mgl64.Vec2{0, 0}, mgl64.Vec2{1, 1}, mgl64.Vec2{1, 0})
		materials = append(materials, i%(len(triangleColors)-1))
	}
	return geometry.NewTriangleSoup(vertices, normals, uvs, materials)
}

// NewTriangleScene creates the spiral of opts.NumTriangles triangles
func NewTriangleScene(opts Options) (*Scene, error) {
	if opts.NumTriangles <= 0 {
		return nil, errors.Errorf("triangle scene needs a positive triangle count, got %d", opts.NumTriangles)
	}

	s := &Scene{
		Name: "triangles",
		View: View{
			Position: mgl64.Vec3{0, 0, 3},
			LookAt:   mgl64.Vec3{0, 0, 0.5},
			Up:       mgl64.Vec3{0, 1, 0},
			FovY:     60,
		},
		Background: mgl64.Vec4{0, 0, 0, 1},
		Soup:       SpiralSoup(opts.NumTriangles),
		Lights:     []Light{{Position: mgl64.Vec3{0, 2, 4}, Intensity: mgl64.Vec3{20, 20, 20}}},
	}
	for _, c := range triangleColors {
		s.AddMaterial(Material{Color: c, TextureID: NoTexture})
	}

	if err := s.Build(opts.BVH); err != nil {
		return nil, err
	}
	return s, nil
}
