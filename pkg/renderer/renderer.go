package renderer

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/df07/go-bvh-raytracer/pkg/core"
	"github.com/df07/go-bvh-raytracer/pkg/raster"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
)

// Config holds the per-render settings. It is passed to New explicitly and
// never shared through globals.
type Config struct {
	Mode         Mode
	TileSize     int     // Edge length of square tiles in pixels
	Workers      int     // Number of render goroutines, 0 means one per CPU
	RayEpsilon   float64 // Offset of shadow ray origins along the normal
	Ambient      float64 // Irradiance added to every lit surface
	DepthRange   float64 // Distance mapped to black in depth mode
	TimeExposure float64 // Brightness per millisecond in time mode
	DudvScale    float64 // Multiplier applied to footprints in dudv mode
}

// DefaultConfig returns settings for a shaded render
func DefaultConfig() Config {
	return Config{
		Mode:         ModeShaded,
		TileSize:     32,
		RayEpsilon:   core.DefaultRayEpsilon,
		Ambient:      0.1,
		DepthRange:   20,
		TimeExposure: 50,
		DudvScale:    10,
	}
}

// Renderer traces one image of a built scene. The scene is shared read-only
// by all workers.
type Renderer struct {
	scene  *scene.Scene
	camera *Camera
	config Config
	logger *zap.Logger
}

// New creates a renderer. A nil logger disables logging.
func New(s *scene.Scene, camera *Camera, config Config, log *zap.Logger) *Renderer {
	core.Assert(s != nil && s.BVH != nil, "renderer needs a built scene")
	core.Assert(camera != nil, "renderer needs a camera")
	core.Assertf(config.TileSize > 0, "tile size %d must be positive", config.TileSize)
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{scene: s, camera: camera, config: config, logger: log}
}

// Render traces every pixel and returns the image with aggregated stats.
// Cancelling ctx stops workers before their next tile; the partial image is
// returned along with the context error.
func (r *Renderer) Render(ctx context.Context) (*raster.Image, Stats, error) {
	start := time.Now()
	r.scene.PrepareTextures()

	img := raster.New(r.camera.Width(), r.camera.Height())
	tiles := NewTileGrid(img.Width(), img.Height(), r.config.TileSize)

	pool := NewWorkerPool(r, img, r.config.Workers, len(tiles))
	pool.Start(ctx)
	for i, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: i})
	}

	stats := Stats{Workers: pool.GetNumWorkers()}
	var errs error
	for range tiles {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			errs = multierr.Append(errs, result.Error)
			continue
		}
		stats.Add(result.Stats)
	}
	pool.Stop()
	stats.Duration = time.Since(start)

	if errs != nil {
		// Every cancelled tile reports the same context error
		return img, stats, errors.Wrap(multierr.Errors(errs)[0], "render interrupted")
	}

	r.logger.Info("render finished",
		zap.Stringer("mode", r.config.Mode),
		zap.Int("width", img.Width()),
		zap.Int("height", img.Height()),
		zap.Int("tiles", stats.Tiles),
		zap.Int("shadowRays", stats.ShadowRays),
		zap.Duration("elapsed", stats.Duration),
	)
	return img, stats, nil
}
