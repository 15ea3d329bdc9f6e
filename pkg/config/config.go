// Package config handles loading, saving and validating the YAML settings
// shared by every command.
package config

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/df07/go-bvh-raytracer/pkg/bvh"
	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/raster"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
	"github.com/df07/go-bvh-raytracer/pkg/texture"
)

// Config holds all settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	BVH     BVHConfig     `yaml:"bvh"`
	Render  RenderConfig  `yaml:"render"`
	Camera  CameraConfig  `yaml:"camera"`
	Texture TextureConfig `yaml:"texture"`
	Filter  FilterConfig  `yaml:"filter"`
	Scene   SceneConfig   `yaml:"scene"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// BVHConfig holds acceleration structure build settings.
type BVHConfig struct {
	MaxTrianglesInLeaf int  `yaml:"max_triangles_in_leaf"`
	ParallelBuild      bool `yaml:"parallel_build"`
	ParallelThreshold  int  `yaml:"parallel_threshold"`
}

// RenderConfig holds image and tracing settings.
type RenderConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	FovY         float64 `yaml:"fovy"` // 0 keeps the scene's field of view
	Mode         string  `yaml:"mode"`
	TileSize     int     `yaml:"tile_size"`
	Workers      int     `yaml:"workers"` // 0 means one per CPU
	RayEpsilon   float64 `yaml:"ray_epsilon"`
	Ambient      float64 `yaml:"ambient"`
	DepthRange   float64 `yaml:"depth_range"`
	TimeExposure float64 `yaml:"time_exposure"`
	DudvScale    float64 `yaml:"dudv_scale"`
}

// CameraConfig overrides the scene's view. Empty vectors keep the scene's.
type CameraConfig struct {
	Position []float64 `yaml:"position,flow,omitempty"`
	LookAt   []float64 `yaml:"look_at,flow,omitempty"`
	Up       []float64 `yaml:"up,flow,omitempty"`
}

// TextureConfig holds texture sampling settings.
type TextureConfig struct {
	FilterMode string `yaml:"filter_mode"`
	WrapMode   string `yaml:"wrap_mode"`
	SRGB       bool   `yaml:"srgb"`
}

// FilterConfig holds image convolution settings.
type FilterConfig struct {
	Sigma      float64 `yaml:"sigma"`
	KernelSize int     `yaml:"kernel_size"`
	WrapMode   string  `yaml:"wrap_mode"`
	Separable  bool    `yaml:"separable"`
}

// SceneConfig selects and parameterizes the scene.
type SceneConfig struct {
	Name      string `yaml:"name"` // Empty picks mesh when a mesh is set, else default
	Mesh      string `yaml:"mesh"`
	Texture   string `yaml:"texture"`
	Triangles int    `yaml:"triangles"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		BVH: BVHConfig{
			MaxTrianglesInLeaf: bvh.MaxTrianglesInLeaf,
			ParallelBuild:      true,
			ParallelThreshold:  bvh.DefaultParallelThreshold,
		},
		Render: RenderConfig{
			Width:        640,
			Height:       480,
			Mode:         "shaded",
			TileSize:     32,
			RayEpsilon:   core.DefaultRayEpsilon,
			Ambient:      0.1,
			DepthRange:   20,
			TimeExposure: 50,
			DudvScale:    10,
		},
		Texture: TextureConfig{
			FilterMode: "trilinear",
			WrapMode:   "repeat",
			SRGB:       true,
		},
		Filter: FilterConfig{
			Sigma:      2,
			KernelSize: 13,
			WrapMode:   "clamp",
			Separable:  true,
		},
		Scene: SceneConfig{
			Triangles: 16,
		},
	}
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			errs = multierr.Append(errs, errors.Errorf(format, args...))
		}
	}

	check(c.BVH.MaxTrianglesInLeaf >= 1, "bvh.max_triangles_in_leaf must be at least 1, got %d", c.BVH.MaxTrianglesInLeaf)
	check(c.BVH.ParallelThreshold >= 1, "bvh.parallel_threshold must be at least 1, got %d", c.BVH.ParallelThreshold)

	check(c.Render.Width > 0 && c.Render.Height > 0, "render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	check(c.Render.FovY >= 0 && c.Render.FovY < 180, "render.fovy must be in [0, 180), got %g", c.Render.FovY)
	check(c.Render.TileSize > 0, "render.tile_size must be positive, got %d", c.Render.TileSize)
	check(c.Render.Workers >= 0, "render.workers must not be negative, got %d", c.Render.Workers)
	check(c.Render.RayEpsilon >= 0, "render.ray_epsilon must not be negative, got %g", c.Render.RayEpsilon)
	check(c.Render.DepthRange > 0, "render.depth_range must be positive, got %g", c.Render.DepthRange)
	if _, err := renderer.ParseMode(c.Render.Mode); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "render.mode"))
	}

	for name, v := range map[string][]float64{
		"camera.position": c.Camera.Position,
		"camera.look_at":  c.Camera.LookAt,
		"camera.up":       c.Camera.Up,
	} {
		check(len(v) == 0 || len(v) == 3, "%s must have 3 components, got %d", name, len(v))
	}

	if _, err := texture.ParseFilterMode(c.Texture.FilterMode); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "texture.filter_mode"))
	}
	if _, err := raster.ParseWrapMode(c.Texture.WrapMode); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "texture.wrap_mode"))
	}

	check(c.Filter.Sigma > 0, "filter.sigma must be positive, got %g", c.Filter.Sigma)
	check(c.Filter.KernelSize > 0 && c.Filter.KernelSize%2 == 1, "filter.kernel_size must be positive and odd, got %d", c.Filter.KernelSize)
	if _, err := raster.ParseWrapMode(c.Filter.WrapMode); err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "filter.wrap_mode"))
	}

	check(c.Scene.Triangles > 0, "scene.triangles must be positive, got %d", c.Scene.Triangles)
	return errs
}

// BVHOptions converts the bvh section to build options
func (c *Config) BVHOptions(log *zap.Logger) bvh.Options {
	return bvh.Options{
		MaxTrianglesInLeaf: c.BVH.MaxTrianglesInLeaf,
		Parallel:           c.BVH.ParallelBuild,
		ParallelThreshold:  c.BVH.ParallelThreshold,
		Logger:             log,
	}
}

// SceneOptions converts the scene, texture and bvh sections to scene options
func (c *Config) SceneOptions(log *zap.Logger) (scene.Options, error) {
	filter, err := texture.ParseFilterMode(c.Texture.FilterMode)
	if err != nil {
		return scene.Options{}, err
	}
	wrap, err := raster.ParseWrapMode(c.Texture.WrapMode)
	if err != nil {
		return scene.Options{}, err
	}
	return scene.Options{
		BVH:          c.BVHOptions(log),
		Filter:       filter,
		Wrap:         wrap,
		SRGB:         c.Texture.SRGB,
		NumTriangles: c.Scene.Triangles,
		MeshPath:     c.Scene.Mesh,
		TexturePath:  c.Scene.Texture,
		Logger:       log,
	}, nil
}

// RendererConfig converts the render section to renderer settings
func (c *Config) RendererConfig() (renderer.Config, error) {
	mode, err := renderer.ParseMode(c.Render.Mode)
	if err != nil {
		return renderer.Config{}, err
	}
	return renderer.Config{
		Mode:         mode,
		TileSize:     c.Render.TileSize,
		Workers:      c.Render.Workers,
		RayEpsilon:   c.Render.RayEpsilon,
		Ambient:      c.Render.Ambient,
		DepthRange:   c.Render.DepthRange,
		TimeExposure: c.Render.TimeExposure,
		DudvScale:    c.Render.DudvScale,
	}, nil
}

// NewCamera builds the camera for s, applying the camera section and fovy on
// top of the scene's view
func (c *Config) NewCamera(s *scene.Scene) *renderer.Camera {
	view := s.View
	if len(c.Camera.Position) == 3 {
		view.Position = vec3(c.Camera.Position)
	}
	if len(c.Camera.LookAt) == 3 {
		view.LookAt = vec3(c.Camera.LookAt)
	}
	if len(c.Camera.Up) == 3 {
		view.Up = vec3(c.Camera.Up)
	}
	if c.Render.FovY > 0 {
		view.FovY = c.Render.FovY
	}
	return renderer.NewCamera(view.Position, view.LookAt, view.Up, view.FovY, c.Render.Width, c.Render.Height)
}

// FilterWrapMode returns the parsed filter.wrap_mode
func (c *Config) FilterWrapMode() (raster.WrapMode, error) {
	return raster.ParseWrapMode(c.Filter.WrapMode)
}

func vec3(v []float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}
