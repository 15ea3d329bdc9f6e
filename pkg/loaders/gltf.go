package loaders

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/df07/go-bvh-raytracer/pkg/geometry"
)

var defaultMaterial = MaterialInfo{Name: "default", BaseColor: mgl64.Vec4{0.8, 0.8, 0.8, 1}}

// LoadGLTF reads every triangle primitive of a .gltf or .glb file. Node
// transforms are not applied. Material IDs index the returned Materials;
// primitives without a material share a trailing default entry.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open glTF file")
	}

	mesh := &Mesh{}
	for _, m := range doc.Materials {
		info := MaterialInfo{Name: m.Name, BaseColor: defaultMaterial.BaseColor}
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			c := pbr.BaseColorFactorOrDefault()
			info.BaseColor = mgl64.Vec4{c[0], c[1], c[2], c[3]}
		}
		mesh.Materials = append(mesh.Materials, info)
	}
	defaultID := -1

	b := geometry.NewMeshBuilder()
	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			indexed, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, errors.Wrapf(err, "mesh %d primitive %d", mi, pi)
			}

			if prim.Material != nil {
				indexed.MaterialID = int(*prim.Material)
			} else {
				if defaultID < 0 {
					defaultID = len(mesh.Materials)
					mesh.Materials = append(mesh.Materials, defaultMaterial)
				}
				indexed.MaterialID = defaultID
			}
			b.AddIndexed(indexed)
		}
	}

	if b.NumTriangles() == 0 {
		return nil, errors.Errorf("%s contains no triangles", path)
	}
	mesh.Soup = b.Build()
	return mesh, nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (geometry.IndexedMesh, error) {
	var mesh geometry.IndexedMesh

	posAccessor, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return mesh, errors.New("primitive has no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posAccessor], [][3]float32{})
	if err != nil {
		return mesh, errors.Wrap(err, "failed to read positions")
	}
	mesh.Positions = make([]mgl64.Vec3, len(positions))
	for i, p := range positions {
		mesh.Positions[i] = mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
	}

	if normalAccessor, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[normalAccessor], [][3]float32{})
		if err != nil {
			return mesh, errors.Wrap(err, "failed to read normals")
		}
		if len(normals) == len(positions) {
			mesh.Normals = make([]mgl64.Vec3, len(normals))
			for i, n := range normals {
				mesh.Normals[i] = mgl64.Vec3{float64(n[0]), float64(n[1]), float64(n[2])}
			}
		}
	}

	if uvAccessor, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[uvAccessor], [][2]float32{})
		if err != nil {
			return mesh, errors.Wrap(err, "failed to read texture coordinates")
		}
		if len(uvs) == len(positions) {
			mesh.UVs = make([]mgl64.Vec2, len(uvs))
			for i, uv := range uvs {
				mesh.UVs[i] = mgl64.Vec2{float64(uv[0]), float64(uv[1])}
			}
		}
	}

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], []uint32{})
		if err != nil {
			return mesh, errors.Wrap(err, "failed to read indices")
		}
		mesh.Faces = make([]int, len(indices))
		for i, idx := range indices {
			if int(idx) >= len(positions) {
				return mesh, errors.Errorf("index %d out of range [0, %d)", idx, len(positions))
			}
			mesh.Faces[i] = int(idx)
		}
	} else {
		mesh.Faces = make([]int, len(positions))
		for i := range mesh.Faces {
			mesh.Faces[i] = i
		}
	}

	if len(mesh.Faces)%3 != 0 {
		return mesh, errors.Errorf("index count %d is not a multiple of 3", len(mesh.Faces))
	}
	return mesh, nil
}
