// Command heightmap generates the valley terrain without a window and writes
// its height and colour maps as PNG files.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	xdraw "golang.org/x/image/draw"

	"github.com/1siamBot/peaceful-valley/engine/config"
	"github.com/1siamBot/peaceful-valley/engine/terrain"
)

func writePNG(path string, img image.Image, scale int) error {
	if scale > 1 {
		b := img.Bounds()
		r := image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale)
		var dst xdraw.Image = image.NewRGBA(r)
		if _, ok := img.(*image.Gray16); ok {
			dst = image.NewGray16(r)
		}
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
		img = dst
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("heightmap", flag.ContinueOnError)
	outDir := fs.String("out", ".", "output directory")
	scale := fs.Int("scale", 4, "integer upscale factor for the written images")
	cfg, err := config.Parse(fs, args)
	if err != nil {
		return err
	}
	if *scale < 1 {
		return errors.New("-scale must be at least 1")
	}

	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	fn, err := cfg.NoiseField()
	if err != nil {
		return err
	}
	grid := terrain.NewGrid(cfg.Terrain.Size, cfg.Terrain.Segments)
	workers := cfg.Terrain.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	stats, err := terrain.GenerateParallel(ctx, grid, fn, cfg.HeightParams(), workers)
	if err != nil {
		return fmt.Errorf("generate terrain: %w", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}
	heightPath := filepath.Join(*outDir, "height.png")
	colorPath := filepath.Join(*outDir, "color.png")
	if err := writePNG(heightPath, terrain.HeightImage(grid), *scale); err != nil {
		return err
	}
	if err := writePNG(colorPath, terrain.ColorImage(grid), *scale); err != nil {
		return err
	}

	slog.Info("heightmap written",
		"height", heightPath,
		"color", colorPath,
		"seed", cfg.Seed,
		"noise", cfg.Noise,
		"vertices", stats.Vertices,
		"min", stats.MinHeight,
		"max", stats.MaxHeight,
		"snow", stats.Snow,
		"rock", stats.Rock,
		"grass", stats.Grass,
	)
	return nil
}

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("heightmap failed", "error", err)
		os.Exit(1)
	}
}
