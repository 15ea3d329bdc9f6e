package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/texture"
)

// NewDefaultScene creates a textured ground with a box, a pyramid and an
// icosahedron in front of a UV debug backdrop
func NewDefaultScene(opts Options) (*Scene, error) {
	s := &Scene{
		Name: "default",
		View: View{
			Position: mgl64.Vec3{0, 2, 10},
			LookAt:   mgl64.Vec3{0, 1, 0},
			Up:       mgl64.Vec3{0, 1, 0},
			FovY:     50,
		},
		Background: mgl64.Vec4{0.5, 0.7, 1.0, 1},
	}

	floorTexture, err := floorTexture(opts)
	if err != nil {
		return nil, err
	}
	floor := s.AddMaterial(Material{Name: "floor", Color: mgl64.Vec4{1, 1, 1, 1}, TextureID: s.AddTexture(floorTexture)})
	backdrop := s.AddMaterial(Material{
		Name:      "backdrop",
		Color:     mgl64.Vec4{1, 1, 1, 1},
		TextureID: s.AddTexture(texture.NewImageTexture(texture.UVDebug(256, 256), opts.Filter, opts.Wrap)),
	})
	red := s.AddMaterial(Material{Name: "red", Color: mgl64.Vec4{0.8, 0.2, 0.2, 1}, TextureID: NoTexture})
	blue := s.AddMaterial(Material{Name: "blue", Color: mgl64.Vec4{0.2, 0.3, 0.8, 1}, TextureID: NoTexture})
	gold := s.AddMaterial(Material{Name: "gold", Color: mgl64.Vec4{0.8, 0.6, 0.2, 1}, TextureID: NoTexture})

	b := geometry.NewMeshBuilder()
	groundQuad(b, mgl64.Vec3{0, 0, 0}, 40, 20, floor)
	b.AddQuad(mgl64.Vec3{-4, 0, -3}, mgl64.Vec3{8, 0, 0}, mgl64.Vec3{0, 4, 0}, 1, backdrop)

	// Box rotated 30 degrees to show multiple faces
	boxCenter := mgl64.Vec3{-2, 0.5, 0}
	b.Transform = rotatedY(boxCenter, math.Pi/6)
	b.AddBox(boxCenter, mgl64.Vec3{0.5, 0.5, 0.5}, red)

	pyramidCenter := mgl64.Vec3{0, 1, 0}
	b.Transform = rotatedY(pyramidCenter, math.Pi/4)
	b.AddIndexed(pyramidMesh(pyramidCenter, 1.5, 2, blue))

	b.Transform = nil
	b.AddIndexed(icosahedronMesh(mgl64.Vec3{2, 0.8, 0}, 0.8, gold))

	s.Soup = b.Build()
	s.Lights = []Light{
		{Position: mgl64.Vec3{2, 6, 3}, Intensity: mgl64.Vec3{45, 41, 37}},
		{Position: mgl64.Vec3{-3, 4, 2}, Intensity: mgl64.Vec3{12, 14, 16}},
	}

	if err := s.Build(opts.BVH); err != nil {
		return nil, err
	}
	return s, nil
}
