package scene

import (
	"os"
	"path/filepath"
	"testing"
)

const quadPLY = `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 1
property list uchar int vertex_indices
end_header
0 0 0
1 0 0
1 1 0
0 1 0
4 0 1 2 3
`

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"stanford-bunny", "Stanford Bunny"},
		{"dragon_gold", "Dragon Gold"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestListScenes(t *testing.T) {
	scenes := ListScenes()
	expected := []string{"default", "mesh", "triangles"}
	if len(scenes) != len(expected) {
		t.Fatalf("Expected %d scenes, got %d", len(expected), len(scenes))
	}
	for i, id := range expected {
		if scenes[i].ID != id {
			t.Errorf("Scene %d: expected %s, got %s", i, id, scenes[i].ID)
		}
		if scenes[i].DisplayName == "" {
			t.Errorf("Scene %s has no display name", id)
		}
	}
}

func TestLoad(t *testing.T) {
	s, err := Load("", DefaultOptions())
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if s.Name != "default" {
		t.Errorf("Expected default scene, got %s", s.Name)
	}

	if _, err := Load("cornell-box", DefaultOptions()); err == nil {
		t.Error("Expected error for unknown scene")
	}
	if _, err := Load("mesh", DefaultOptions()); err == nil {
		t.Error("Expected error for mesh scene without a path")
	}
}

func TestLoad_MeshFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "little-quad.ply")
	if err := os.WriteFile(path, []byte(quadPLY), 0644); err != nil {
		t.Fatalf("Failed to write PLY: %v", err)
	}

	opts := DefaultOptions()
	opts.MeshPath = path
	s, err := Load("", opts)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Name != "Little Quad" {
		t.Errorf("Expected name from file, got %q", s.Name)
	}
	if s.Soup.NumTriangles() != 4 {
		t.Errorf("Expected 2 mesh and 2 floor triangles, got %d", s.Soup.NumTriangles())
	}

	opts.TexturePath = filepath.Join(t.TempDir(), "missing.png")
	if _, err := Load("mesh", opts); err == nil {
		t.Error("Expected error for missing floor texture")
	}
}
