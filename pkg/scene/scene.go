package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/df07/go-bvh-raytracer/pkg/bvh"
	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/geometry"
	"github.com/df07/go-bvh-raytracer/pkg/raster"
	"github.com/df07/go-bvh-raytracer/pkg/texture"
)

// NoTexture marks a material without a texture
const NoTexture = -1

// Material is a diffuse surface description. Triangles reference materials
// by index into Scene.Materials; materials reference textures by index into
// Scene.Textures, so one texture can back any number of materials.
type Material struct {
	Name      string
	Color     mgl64.Vec4 // Multiplied with the texture sample when TextureID is set
	TextureID int
}

// Light is a point light whose irradiance falls off with squared distance
type Light struct {
	Position  mgl64.Vec3
	Intensity mgl64.Vec3
}

// View is the default camera placement of a scene
type View struct {
	Position mgl64.Vec3
	LookAt   mgl64.Vec3
	Up       mgl64.Vec3
	FovY     float64 // Vertical field of view in degrees
}

// Scene owns the geometry, its acceleration structure and the material and
// texture pools. After Build the scene is read-only and safe for concurrent
// rendering.
type Scene struct {
	Name       string
	Soup       *geometry.TriangleSoup
	BVH        *bvh.BVH
	Materials  []Material
	Textures   []texture.Texture
	Lights     []Light
	View       View
	Background mgl64.Vec4
}

// Options controls how built-in scenes are assembled
type Options struct {
	BVH          bvh.Options
	Filter       texture.FilterMode
	Wrap         raster.WrapMode
	SRGB         bool   // Decode loaded textures from sRGB
	NumTriangles int    // Triangle count of the spiral scene
	MeshPath     string // Mesh file for the mesh scene
	TexturePath  string // Optional image replacing the procedural floor texture
	Logger       *zap.Logger
}

// DefaultOptions returns options for trilinear, repeating textures
func DefaultOptions() Options {
	return Options{
		BVH:          bvh.DefaultOptions(),
		Filter:       texture.FilterTrilinear,
		Wrap:         raster.WrapRepeat,
		SRGB:         true,
		NumTriangles: 16,
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// AddTexture appends t to the texture pool and returns its handle
func (s *Scene) AddTexture(t texture.Texture) int {
	s.Textures = append(s.Textures, t)
	return len(s.Textures) - 1
}

// AddMaterial appends m to the material pool and returns its handle
func (s *Scene) AddMaterial(m Material) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials) - 1
}

// Validate checks that every handle in the scene resolves
func (s *Scene) Validate() error {
	var errs error
	if s.Soup == nil {
		return errors.New("scene has no geometry")
	}
	for i, m := range s.Materials {
		if m.TextureID == NoTexture {
			continue
		}
		if m.TextureID < 0 || m.TextureID >= len(s.Textures) {
			errs = multierr.Append(errs, errors.Errorf("material %d (%s) references texture %d of %d", i, m.Name, m.TextureID, len(s.Textures)))
		} else if s.Textures[m.TextureID] == nil {
			errs = multierr.Append(errs, errors.Errorf("material %d (%s) references nil texture %d", i, m.Name, m.TextureID))
		}
	}
	for i, id := range s.Soup.MaterialIDs {
		if id < 0 || id >= len(s.Materials) {
			errs = multierr.Append(errs, errors.Errorf("triangle %d references material %d of %d", i, id, len(s.Materials)))
			break
		}
	}
	return errs
}

// Build validates the scene and constructs its BVH
func (s *Scene) Build(opts bvh.Options) error {
	if err := s.Validate(); err != nil {
		return errors.Wrapf(err, "invalid scene %s", s.Name)
	}
	s.BVH = bvh.New(s.Soup, opts)
	return nil
}

// Intersect finds the closest surface along ray
func (s *Scene) Intersect(ray core.Ray) (core.Intersection, bool) {
	core.Assert(s.BVH != nil, "scene must be built before intersecting")
	return s.BVH.Intersect(ray)
}

// Occluded reports whether anything blocks ray before maxT
func (s *Scene) Occluded(ray core.Ray, maxT float64) bool {
	core.Assert(s.BVH != nil, "scene must be built before intersecting")
	return s.BVH.Occluded(ray, maxT)
}

// Albedo returns the diffuse color at a hit, sampling the material's texture
// with the given UV footprint
func (s *Scene) Albedo(isect core.Intersection, dudv mgl64.Vec2) mgl64.Vec4 {
	core.Assertf(isect.MaterialID >= 0 && isect.MaterialID < len(s.Materials), "material %d out of range", isect.MaterialID)
	m := s.Materials[isect.MaterialID]
	if m.TextureID == NoTexture {
		return m.Color
	}
	tex := s.Textures[m.TextureID].Evaluate(isect.UV, dudv)
	return mgl64.Vec4{m.Color[0] * tex[0], m.Color[1] * tex[1], m.Color[2] * tex[2], m.Color[3] * tex[3]}
}

// PrepareTextures builds mip chains up front so the first rendered tiles do
// not pay for them
func (s *Scene) PrepareTextures() {
	for _, t := range s.Textures {
		if it, ok := t.(*texture.ImageTexture); ok {
			it.CreateMipmap()
		}
	}
}
