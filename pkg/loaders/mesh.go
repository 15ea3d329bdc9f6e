package loaders

import (
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/df07/go-bvh-raytracer/pkg/geometry"
)

// MaterialInfo is the subset of a file material the renderer uses
type MaterialInfo struct {
	Name      string
	BaseColor mgl64.Vec4
}

// Mesh is a loaded triangle soup plus the materials its IDs refer to
type Mesh struct {
	Soup      *geometry.TriangleSoup
	Materials []MaterialInfo
}

// LoadMesh picks a loader by file extension. PLY files carry no materials,
// so they get a single default one.
func LoadMesh(path string) (*Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ply":
		soup, err := LoadPLY(path)
		if err != nil {
			return nil, err
		}
		return &Mesh{Soup: soup, Materials: []MaterialInfo{defaultMaterial}}, nil
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, errors.Errorf("unsupported mesh format %q", filepath.Ext(path))
	}
}
