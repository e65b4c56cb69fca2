// Command brushdemo renders a scene of image-brush fills to a PNG file.
//
// Usage:
//
//	brushdemo [-config scene.yaml] [-output out.png] [-dump]
//
// Without -config a built-in scene is drawn. Settings can be overridden with
// BRUSHDEMO_* environment variables; see internal/config.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/config"
	"github.com/gogpu/canvas/internal/log"
)

func main() {
	var (
		configPath = flag.String("config", "", "scene YAML file (default: built-in scene)")
		output     = flag.String("output", "", "output PNG file (overrides the scene)")
		dump       = flag.Bool("dump", false, "print the effective scene as YAML and exit")
	)
	flag.Parse()

	if err := run(*configPath, *output, *dump); err != nil {
		fmt.Fprintln(os.Stderr, "brushdemo:", err)
		os.Exit(1)
	}
}

func run(configPath, output string, dump bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if output != "" {
		cfg.Output = output
	}
	if dump {
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	logger := log.New(log.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	}, os.Stderr)
	defer logger.Close()
	canvas.SetLogger(logger.Logger)

	img, err := render(cfg, logger.Logger)
	if err != nil {
		return err
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", cfg.Output, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	b := img.Bounds()
	logger.Info("scene saved", "path", cfg.Output, "width", b.Dx(), "height", b.Dy(), "fills", len(cfg.Fills))
	return nil
}
