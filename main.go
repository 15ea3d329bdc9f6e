package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/df07/go-bvh-raytracer/pkg/config"
	"github.com/df07/go-bvh-raytracer/pkg/logger"
)

// appState is filled in by the app's Before hook and shared by all commands
type appState struct {
	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	st := &appState{}

	return &cli.App{
		Name:   "raytracer",
		Usage:  "BVH ray tracer with mip-mapped textures and image filtering",
		Writer: out,
		// main reports errors and sets the exit status
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE` (default " + config.DefaultFileName + " if present)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Also write logs to a rotating `FILE`",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return cli.Exit(err, 1)
			}
			if c.IsSet("log-level") {
				cfg.Logging.Level = c.String("log-level")
			}
			if c.IsSet("log-file") {
				cfg.Logging.LogFile = c.String("log-file")
			}

			log, err := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
			if err != nil {
				return cli.Exit(err, 1)
			}
			st.cfg = cfg
			st.log = log
			return nil
		},
		After: func(c *cli.Context) error {
			if st.log != nil {
				_ = st.log.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			renderCommand(st),
			statsCommand(st),
			scenesCommand(),
			blurCommand(st),
			mipmapCommand(st),
			fourierCommand(st),
			spectrumCommand(st),
			serveCommand(st),
		},
	}
}
