package main

import (
	"github.com/urfave/cli/v2"

	"github.com/df07/go-bvh-raytracer/pkg/config"
)

// sceneFlags select and parameterize the scene
var sceneFlags = []cli.Flag{
	&cli.StringFlag{Name: "scene", Aliases: []string{"s"}, Usage: "Scene ID (see the scenes command)"},
	&cli.StringFlag{Name: "mesh", Usage: "PLY, glTF or GLB `FILE` for the mesh scene"},
	&cli.StringFlag{Name: "texture", Usage: "Image `FILE` replacing the procedural floor texture"},
	&cli.IntFlag{Name: "triangles", Usage: "Triangle count of the spiral scene"},
	&cli.IntFlag{Name: "leaf-size", Usage: "Maximum triangles per BVH leaf"},
	&cli.BoolFlag{Name: "parallel-build", Usage: "Build BVH subtrees concurrently"},
}

// renderFlags control the image and how it is traced
var renderFlags = []cli.Flag{
	&cli.IntFlag{Name: "width", Usage: "Image width in pixels"},
	&cli.IntFlag{Name: "height", Usage: "Image height in pixels"},
	&cli.Float64Flag{Name: "fovy", Usage: "Vertical field of view in degrees"},
	&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: "shaded, desaturate, normal, uv, dudv, depth or time"},
	&cli.StringFlag{Name: "filter", Usage: "Texture filter: nearest, bilinear, trilinear or debug"},
	&cli.StringFlag{Name: "wrap", Usage: "Texture wrap mode: zero, clamp or repeat"},
	&cli.IntFlag{Name: "workers", Usage: "Render goroutines, 0 for one per CPU"},
	&cli.IntFlag{Name: "tile-size", Usage: "Tile edge length in pixels"},
	&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output image `FILE`"},
	&cli.StringFlag{Name: "save-config", Usage: "Write the effective configuration to `FILE`"},
}

// filterFlags control image convolution
var filterFlags = []cli.Flag{
	&cli.Float64Flag{Name: "sigma", Usage: "Gaussian standard deviation in pixels"},
	&cli.IntFlag{Name: "size", Usage: "Kernel size, positive and odd"},
	&cli.StringFlag{Name: "wrap", Usage: "Border handling: zero, clamp or repeat"},
	&cli.BoolFlag{Name: "separable", Usage: "Filter rows and columns in two passes"},
}

// applySceneFlags applies CLI flag overrides to the config.
func applySceneFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("scene") {
		cfg.Scene.Name = c.String("scene")
	}
	if c.IsSet("mesh") {
		cfg.Scene.Mesh = c.String("mesh")
	}
	if c.IsSet("texture") {
		cfg.Scene.Texture = c.String("texture")
	}
	if c.IsSet("triangles") {
		cfg.Scene.Triangles = c.Int("triangles")
	}
	if c.IsSet("leaf-size") {
		cfg.BVH.MaxTrianglesInLeaf = c.Int("leaf-size")
	}
	if c.IsSet("parallel-build") {
		cfg.BVH.ParallelBuild = c.Bool("parallel-build")
	}
}

// applyRenderFlags applies CLI flag overrides to the config.
func applyRenderFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("width") {
		cfg.Render.Width = c.Int("width")
	}
	if c.IsSet("height") {
		cfg.Render.Height = c.Int("height")
	}
	if c.IsSet("fovy") {
		cfg.Render.FovY = c.Float64("fovy")
	}
	if c.IsSet("mode") {
		cfg.Render.Mode = c.String("mode")
	}
	if c.IsSet("filter") {
		cfg.Texture.FilterMode = c.String("filter")
	}
	if c.IsSet("wrap") {
		cfg.Texture.WrapMode = c.String("wrap")
	}
	if c.IsSet("workers") {
		cfg.Render.Workers = c.Int("workers")
	}
	if c.IsSet("tile-size") {
		cfg.Render.TileSize = c.Int("tile-size")
	}
}

// applyFilterFlags applies CLI flag overrides to the config.
func applyFilterFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("sigma") {
		cfg.Filter.Sigma = c.Float64("sigma")
	}
	if c.IsSet("size") {
		cfg.Filter.KernelSize = c.Int("size")
	}
	if c.IsSet("wrap") {
		cfg.Filter.WrapMode = c.String("wrap")
	}
	if c.IsSet("separable") {
		cfg.Filter.Separable = c.Bool("separable")
	}
}
