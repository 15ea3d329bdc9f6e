package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/loaders"
	"github.com/df07/go-bvh-raytracer/pkg/texture"
)

// meshHeight is the height a loaded mesh is scaled to
const meshHeight = 3.0

// NewMeshScene places soup, scaled to a fixed height and standing at the
// origin, on a textured floor. Material IDs of the mesh index meshMaterials;
// when none are given the whole mesh uses a light gray.
func NewMeshScene(soup *geometry.TriangleSoup, meshMaterials []Material, floor texture.Texture, opts Options) (*Scene, error) {
	if soup == nil || soup.NumTriangles() == 0 {
		return nil, errors.New("mesh scene needs at least one triangle")
	}
	s := &Scene{
		Name: "mesh",
		View: View{
			Position: mgl64.Vec3{0, 2, 10},
			LookAt:   mgl64.Vec3{0, 1.5, -1},
			Up:       mgl64.Vec3{0, 1, 0},
			FovY:     45,
		},
		Background: mgl64.Vec4{0.05, 0.05, 0.08, 1},
	}

	if len(meshMaterials) == 0 {
		meshMaterials = []Material{{Name: "mesh", Color: mgl64.Vec4{0.8, 0.8, 0.8, 1}, TextureID: NoTexture}}
	}
	for _, m := range meshMaterials {
		s.AddMaterial(m)
	}
	floorID := s.AddMaterial(Material{Name: "floor", Color: mgl64.Vec4{1, 1, 1, 1}, TextureID: s.AddTexture(floor)})

	// Uniform scale to meshHeight, centered on X/Z, resting on y = 0
	bounds := soup.Bounds()
	size := bounds.Size()
	scale := 1.0
	if size[1] > 0 {
		scale = meshHeight / size[1]
	}
	center := bounds.Center()
	fit := mgl64.Scale3D(scale, scale, scale).Mul4(mgl64.Translate3D(-center[0], -bounds.Min[1], -center[2]))

	b := geometry.NewMeshBuilder()
	b.AddSoup(soup.Transform(fit), 0)
	groundQuad(b, mgl64.Vec3{0, 0, 0}, 16, 4, floorID)
	s.Soup = b.Build()

	s.Lights = []Light{
		{Position: mgl64.Vec3{0, 6, 12}, Intensity: mgl64.Vec3{120, 120, 120}},
		{Position: mgl64.Vec3{0, 12, 6}, Intensity: mgl64.Vec3{120, 120, 120}},
	}

	if err := s.Build(opts.BVH); err != nil {
		return nil, err
	}
	opts.logger().Info("mesh scene assembled",
		zap.Int("meshTriangles", soup.NumTriangles()),
		zap.Float64("scale", scale),
	)
	return s, nil
}

// LoadMeshScene loads opts.MeshPath and builds a mesh scene around it
func LoadMeshScene(opts Options) (*Scene, error) {
	if opts.MeshPath == "" {
		return nil, errors.New("mesh scene requires a mesh path")
	}
	mesh, err := loaders.LoadMesh(opts.MeshPath)
	if err != nil {
		return nil, errors.Wrap(err, "load mesh scene")
	}

	var materials []Material
	for _, m := range mesh.Materials {
		materials = append(materials, Material{Name: m.Name, Color: m.BaseColor, TextureID: NoTexture})
	}
	// Unknown material references fall back to a single default material
	for _, id := range mesh.Soup.MaterialIDs {
		if id >= len(materials) {
			materials = nil
			mesh.Soup = withMaterial(mesh.Soup, 0)
			break
		}
	}

	floor, err := floorTexture(opts)
	if err != nil {
		return nil, err
	}
	return NewMeshScene(mesh.Soup, materials, floor, opts)
}

// floorTexture loads opts.TexturePath or falls back to a checkerboard
func floorTexture(opts Options) (texture.Texture, error) {
	if opts.TexturePath == "" {
		img := texture.Checkerboard(256, 256, 32, mgl64.Vec4{0.9, 0.9, 0.9, 1}, mgl64.Vec4{0.2, 0.2, 0.8, 1})
		return texture.NewImageTexture(img, opts.Filter, opts.Wrap), nil
	}
	img, err := loaders.LoadImage(opts.TexturePath, opts.SRGB)
	if err != nil {
		return nil, errors.Wrap(err, "load floor texture")
	}
	return texture.NewImageTexture(img, opts.Filter, opts.Wrap), nil
}

func withMaterial(soup *geometry.TriangleSoup, id int) *geometry.TriangleSoup {
	materials := make([]int, soup.NumTriangles())
	for i := range materials {
		materials[i] = id
	}
	return geometry.NewTriangleSoup(soup.Vertices, soup.Normals, soup.UVs, materials)
}
