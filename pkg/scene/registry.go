package scene

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// SceneInfo describes a scene that can be loaded by ID
type SceneInfo struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Description string `json:"description" yaml:"description"`
	NeedsMesh   bool   `json:"needsMesh" yaml:"needsMesh"` // Requires Options.MeshPath
}

type sceneEntry struct {
	info SceneInfo
	load func(Options) (*Scene, error)
}

var registry = map[string]sceneEntry{
	"default": {
		info: SceneInfo{
			ID:          "default",
			DisplayName: "Default Scene",
			Description: "Textured floor and backdrop with a box, a pyramid and an icosahedron",
		},
		load: NewDefaultScene,
	},
	"triangles": {
		info: SceneInfo{
			ID:          "triangles",
			DisplayName: "Triangle Spiral",
			Description: "Spiral of textured triangles facing the camera",
		},
		load: NewTriangleScene,
	},
	"mesh": {
		info: SceneInfo{
			ID:          "mesh",
			DisplayName: "Mesh",
			Description: "PLY or glTF mesh standing on a textured floor",
			NeedsMesh:   true,
		},
		load: LoadMeshScene,
	},
}

// ListScenes returns every registered scene sorted by ID
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(registry))
	for _, entry := range registry {
		scenes = append(scenes, entry.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// Load builds the scene registered under id. An empty id with a mesh path
// loads the mesh scene, otherwise the default scene.
func Load(id string, opts Options) (*Scene, error) {
	if id == "" {
		id = "default"
		if opts.MeshPath != "" {
			id = "mesh"
		}
	}
	entry, ok := registry[id]
	if !ok {
		return nil, errors.Errorf("unknown scene %q", id)
	}

	s, err := entry.load(opts)
	if err != nil {
		return nil, err
	}
	if entry.info.NeedsMesh {
		s.Name = titleCase(strings.TrimSuffix(filepath.Base(opts.MeshPath), filepath.Ext(opts.MeshPath)))
	}
	return s, nil
}

// titleCase converts a filename-style string to title case
// e.g., "stanford-bunny" -> "Stanford Bunny"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
