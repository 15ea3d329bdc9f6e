package main

import (
	"fmt"
	"math"
	"math/cmplx"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/df07/go-bvh-raytracer/pkg/bvh"
	"github.com/df07/go-bvh-raytracer/pkg/config"
	"github.com/df07/go-bvh-raytracer/pkg/loaders"
	"github.com/df07/go-bvh-raytracer/pkg/raster"
	"github.com/df07/go-bvh-raytracer/pkg/renderer"
	"github.com/df07/go-bvh-raytracer/pkg/scene"
	"github.com/df07/go-bvh-raytracer/pkg/texture"
	"github.com/df07/go-bvh-raytracer/web/server"
)

func renderCommand(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Trace a scene and write the image",
		Flags: append(append([]cli.Flag{}, sceneFlags...), renderFlags...),
		Action: func(c *cli.Context) error {
			cfg := st.cfg
			applySceneFlags(c, cfg)
			applyRenderFlags(c, cfg)
			if err := cfg.Validate(); err != nil {
				return cli.Exit(errors.Wrap(err, "invalid configuration"), 1)
			}
			if path := c.String("save-config"); path != "" {
				if err := cfg.SaveTo(path); err != nil {
					return cli.Exit(err, 1)
				}
			}

			s, err := loadScene(cfg, st.log)
			if err != nil {
				return cli.Exit(err, 1)
			}
			rcfg, err := cfg.RendererConfig()
			if err != nil {
				return cli.Exit(err, 1)
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()

			r := renderer.New(s, cfg.NewCamera(s), rcfg, st.log)
			img, stats, err := r.Render(ctx)
			if err != nil {
				return cli.Exit(err, 1)
			}

			output := c.String("output")
			if output == "" {
				timestamp := time.Now().Format("20060102_150405")
				output = filepath.Join("output", sceneDirName(s.Name), fmt.Sprintf("render_%s.png", timestamp))
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return cli.Exit(errors.Wrap(err, "failed to create output directory"), 1)
			}
			// Shading happens in linear space, the file stores sRGB
			if err := loaders.SaveImage(output, img, true); err != nil {
				return cli.Exit(err, 1)
			}

			t := table.NewWriter()
			t.AppendHeader(table.Row{"Scene", "Mode", "Size", "Rays", "Hits", "Time", "Rays/s"})
			t.AppendRow(table.Row{
				s.Name,
				rcfg.Mode,
				fmt.Sprintf("%dx%d", img.Width(), img.Height()),
				stats.PrimaryRays + stats.ShadowRays,
				stats.Hits,
				stats.Duration.Round(time.Millisecond),
				fmt.Sprintf("%.0f", stats.RaysPerSecond()),
			})
			fmt.Fprintln(c.App.Writer, t.Render())
			fmt.Fprintf(c.App.Writer, "Saved %s\n", output)
			return nil
		},
	}
}

func statsCommand(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Build a scene's BVH and print its structure",
		Flags: sceneFlags,
		Action: func(c *cli.Context) error {
			cfg := st.cfg
			applySceneFlags(c, cfg)
			if err := cfg.Validate(); err != nil {
				return cli.Exit(errors.Wrap(err, "invalid configuration"), 1)
			}
			s, err := loadScene(cfg, st.log)
			if err != nil {
				return cli.Exit(err, 1)
			}

			// Rebuild so the timing covers the hierarchy alone
			start := time.Now()
			tree := bvh.New(s.Soup, cfg.BVHOptions(st.log))
			buildTime := time.Since(start)

			valid := "ok"
			if err := tree.Validate(); err != nil {
				valid = err.Error()
			}

			stats := tree.Stats()
			t := table.NewWriter()
			t.SetTitle("%s", s.Name)
			t.AppendHeader(table.Row{"Property", "Value"})
			t.AppendRows([]table.Row{
				{"Triangles", stats.Triangles},
				{"Nodes", stats.Nodes},
				{"Leaves", stats.Leaves},
				{"Max depth", stats.MaxDepth},
				{"Avg leaf depth", fmt.Sprintf("%.2f", stats.AvgLeafDepth)},
				{"Max leaf triangles", stats.MaxLeafTriangles},
				{"SAH cost", fmt.Sprintf("%.2f", stats.SAHCost)},
				{"Build time", buildTime.Round(time.Microsecond)},
				{"Parallel build", cfg.BVH.ParallelBuild},
				{"Validate", valid},
			})
			fmt.Fprintln(c.App.Writer, t.Render())
			return nil
		},
	}
}

func scenesCommand() *cli.Command {
	return &cli.Command{
		Name:  "scenes",
		Usage: "List the built-in scenes",
		Action: func(c *cli.Context) error {
			t := table.NewWriter()
			t.AppendHeader(table.Row{"ID", "Name", "Needs mesh", "Description"})
			for _, info := range scene.ListScenes() {
				t.AppendRow(table.Row{info.ID, info.DisplayName, info.NeedsMesh, info.Description})
			}
			fmt.Fprintln(c.App.Writer, t.Render())
			return nil
		},
	}
}

func blurCommand(st *appState) *cli.Command {
	return &cli.Command{
		Name:      "blur",
		Usage:     "Apply a Gaussian blur to an image",
		ArgsUsage: "INPUT OUTPUT",
		Flags:     filterFlags,
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("blur needs an input and an output image", 1)
			}
			cfg := st.cfg
			applyFilterFlags(c, cfg)
			if err := cfg.Validate(); err != nil {
				return cli.Exit(errors.Wrap(err, "invalid configuration"), 1)
			}
			wrap, err := cfg.FilterWrapMode()
			if err != nil {
				return cli.Exit(err, 1)
			}

			img, err := loaders.LoadImage(c.Args().Get(0), cfg.Texture.SRGB)
			if err != nil {
				return cli.Exit(err, 1)
			}
			start := time.Now()
			blurred := raster.GaussianBlur(img, cfg.Filter.Sigma, cfg.Filter.KernelSize, wrap, cfg.Filter.Separable)
			st.log.Info("Blurred image",
				zap.Int("width", img.Width()),
				zap.Int("height", img.Height()),
				zap.Float64("sigma", cfg.Filter.Sigma),
				zap.Int("size", cfg.Filter.KernelSize),
				zap.Bool("separable", cfg.Filter.Separable),
				zap.Duration("elapsed", time.Since(start)))

			if err := loaders.SaveImage(c.Args().Get(1), blurred, cfg.Texture.SRGB); err != nil {
				return cli.Exit(err, 1)
			}
			fmt.Fprintf(c.App.Writer, "Saved %s\n", c.Args().Get(1))
			return nil
		},
	}
}

func mipmapCommand(st *appState) *cli.Command {
	return &cli.Command{
		Name:      "mipmap",
		Usage:     "Write every level of an image's mip chain",
		ArgsUsage: "INPUT OUTPUT_DIR",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("mipmap needs an input image and an output directory", 1)
			}
			cfg := st.cfg
			img, err := loaders.LoadImage(c.Args().Get(0), cfg.Texture.SRGB)
			if err != nil {
				return cli.Exit(err, 1)
			}
			dir := c.Args().Get(1)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return cli.Exit(errors.Wrap(err, "failed to create output directory"), 1)
			}

			tex := texture.NewImageTexture(img, texture.FilterTrilinear, raster.WrapRepeat)
			t := table.NewWriter()
			t.AppendHeader(table.Row{"Level", "Size", "File"})
			for l, level := range tex.MipLevels() {
				path := filepath.Join(dir, fmt.Sprintf("level_%d.png", l))
				if err := loaders.SaveImage(path, level, cfg.Texture.SRGB); err != nil {
					return cli.Exit(err, 1)
				}
				t.AppendRow(table.Row{l, fmt.Sprintf("%dx%d", level.Width(), level.Height()), path})
			}
			fmt.Fprintln(c.App.Writer, t.Render())
			return nil
		},
	}
}

func fourierCommand(st *appState) *cli.Command {
	return &cli.Command{
		Name:      "fourier",
		Usage:     "Write the amplitude, phase and inverse transform of an image",
		ArgsUsage: "INPUT OUTPUT_DIR",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("fourier needs an input image and an output directory", 1)
			}
			img, err := loaders.LoadImage(c.Args().Get(0), false)
			if err != nil {
				return cli.Exit(err, 1)
			}
			dir := c.Args().Get(1)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return cli.Exit(errors.Wrap(err, "failed to create output directory"), 1)
			}

			w, h := img.Width(), img.Height()
			spectrum := raster.Spectrum(img)

			// The DC term dwarfs the rest, so amplitudes are shown on a log scale
			logAmp := make([]complex128, len(spectrum))
			for i, coeff := range spectrum {
				logAmp[i] = complex(math.Log1p(cmplx.Abs(coeff)), 0)
			}

			outputs := []struct {
				name string
				img  *raster.Image
			}{
				{"amplitude.png", raster.ComplexToImage(w, h, logAmp, true)},
				{"phase.png", raster.Phase(w, h, spectrum)},
				{"reconstructed.png", raster.ComplexToImage(w, h, raster.Reconstruct(w, h, spectrum), false)},
			}
			for _, out := range outputs {
				path := filepath.Join(dir, out.name)
				if err := loaders.SaveImage(path, out.img, false); err != nil {
					return cli.Exit(err, 1)
				}
				fmt.Fprintf(c.App.Writer, "Saved %s\n", path)
			}
			st.log.Debug("Fourier transform written", zap.Int("width", w), zap.Int("height", h))
			return nil
		},
	}
}

func spectrumCommand(st *appState) *cli.Command {
	return &cli.Command{
		Name:      "spectrum",
		Usage:     "Write the visible monochromatic colors as an sRGB image",
		ArgsUsage: "OUTPUT",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "width", Value: 400, Usage: "Image width"},
			&cli.IntFlag{Name: "height", Value: 40, Usage: "Image height"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("spectrum needs an output path", 1)
			}
			w, h := c.Int("width"), c.Int("height")
			if w <= 0 || h <= 0 {
				return cli.Exit(fmt.Sprintf("invalid size %dx%d", w, h), 1)
			}
			path := c.Args().Get(0)
			if err := loaders.SaveImage(path, raster.VisibleSpectrum(w, h), true); err != nil {
				return cli.Exit(err, 1)
			}
			fmt.Fprintf(c.App.Writer, "Saved %s\n", path)
			st.log.Debug("Spectrum written", zap.Int("width", w), zap.Int("height", h))
			return nil
		},
	}
}

func serveCommand(st *appState) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve renders and pixel inspection over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "Listen address"},
		},
		Action: func(c *cli.Context) error {
			if err := st.cfg.Validate(); err != nil {
				return cli.Exit(errors.Wrap(err, "invalid configuration"), 1)
			}
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()

			fmt.Fprintf(c.App.Writer, "Visit http://localhost%s/api/health\n", c.String("addr"))
			if err := server.NewServer(st.cfg, st.log).ListenAndServe(ctx, c.String("addr")); err != nil {
				return cli.Exit(err, 1)
			}
			return nil
		},
	}
}

func loadScene(cfg *config.Config, log *zap.Logger) (*scene.Scene, error) {
	opts, err := cfg.SceneOptions(log)
	if err != nil {
		return nil, err
	}
	return scene.Load(cfg.Scene.Name, opts)
}

// sceneDirName turns a display name into a directory name
func sceneDirName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "scene"
	}
	return strings.Join(strings.Fields(name), "-")
}
