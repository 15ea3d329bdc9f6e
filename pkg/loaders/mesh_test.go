package loaders

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// writeTriangleGLTF writes a glTF with one indexed triangle that uses a red
// material and one unindexed triangle without a material
func writeTriangleGLTF(t *testing.T, dir string) string {
	var buf bytes.Buffer
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	binary.Write(&buf, binary.LittleEndian, positions)
	binary.Write(&buf, binary.LittleEndian, []uint16{0, 1, 2, 0})
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	doc := fmt.Sprintf(`{
  "asset": {"version": "2.0"},
  "buffers": [{"byteLength": %d, "uri": %q}],
  "bufferViews": [
    {"buffer": 0, "byteOffset": 0, "byteLength": 36},
    {"buffer": 0, "byteOffset": 36, "byteLength": 6}
  ],
  "accessors": [
    {"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [1, 1, 0]},
    {"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"}
  ],
  "materials": [
    {"name": "red", "pbrMetallicRoughness": {"baseColorFactor": [1, 0, 0, 1]}}
  ],
  "meshes": [{"primitives": [
    {"attributes": {"POSITION": 0}, "indices": 1, "material": 0},
    {"attributes": {"POSITION": 0}}
  ]}]
}`, buf.Len(), uri)

	path := filepath.Join(dir, "triangle.gltf")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("Failed to write glTF: %v", err)
	}
	return path
}

func TestLoadGLTF(t *testing.T) {
	mesh, err := LoadGLTF(writeTriangleGLTF(t, t.TempDir()))
	if err != nil {
		t.Fatalf("LoadGLTF failed: %v", err)
	}

	if mesh.Soup.NumTriangles() != 2 {
		t.Fatalf("Expected 2 triangles, got %d", mesh.Soup.NumTriangles())
	}
	if len(mesh.Materials) != 2 {
		t.Fatalf("Expected file material plus default, got %d", len(mesh.Materials))
	}
	if mesh.Materials[0].Name != "red" || !mesh.Materials[0].BaseColor.ApproxEqual(mgl64.Vec4{1, 0, 0, 1}) {
		t.Errorf("Expected red material, got %+v", mesh.Materials[0])
	}
	if mesh.Soup.MaterialIDs[0] != 0 || mesh.Soup.MaterialIDs[1] != 1 {
		t.Errorf("Expected material ids [0 1], got %v", mesh.Soup.MaterialIDs)
	}
	if !mesh.Soup.Vertices[1].ApproxEqual(mgl64.Vec3{1, 0, 0}) {
		t.Errorf("Expected second corner (1,0,0), got %v", mesh.Soup.Vertices[1])
	}
}

func TestLoadMesh_Dispatch(t *testing.T) {
	dir := t.TempDir()

	plyPath := filepath.Join(dir, "quad.PLY")
	if err := os.WriteFile(plyPath, []byte(asciiQuad), 0644); err != nil {
		t.Fatalf("Failed to write PLY: %v", err)
	}
	mesh, err := LoadMesh(plyPath)
	if err != nil {
		t.Fatalf("LoadMesh(ply) failed: %v", err)
	}
	if mesh.Soup.NumTriangles() != 2 || len(mesh.Materials) != 1 {
		t.Errorf("Expected 2 triangles and 1 material, got %d and %d", mesh.Soup.NumTriangles(), len(mesh.Materials))
	}

	mesh, err = LoadMesh(writeTriangleGLTF(t, dir))
	if err != nil {
		t.Fatalf("LoadMesh(gltf) failed: %v", err)
	}
	if mesh.Soup.NumTriangles() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.Soup.NumTriangles())
	}

	if _, err := LoadMesh(filepath.Join(dir, "model.obj")); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}
