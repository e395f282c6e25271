package terrain

import (
	"context"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/1siamBot/peaceful-valley/engine/noise"
	"github.com/1siamBot/peaceful-valley/engine/render3d"
)

// HeightParams tunes height assignment and vertex colouring.
type HeightParams struct {
	FeatureScale    float64
	BaseAmplitude   float64
	DetailFrequency float64
	DetailAmplitude float64

	SnowHeight float64
	RockHeight float64
	RockSlope  float64 // minimum up-component of the normal for grass

	Grass render3d.Color3
	Rock  render3d.Color3
	Snow  render3d.Color3

	ShadeBase       float64
	ShadeAmplitude  float64
	ShadeHeightFreq float64
	ShadeIndexFreq  float64
}

// DefaultHeightParams returns the valley's terrain tuning.
func DefaultHeightParams() HeightParams {
	return HeightParams{
		FeatureScale:    44,
		BaseAmplitude:   12,
		DetailFrequency: 2,
		DetailAmplitude: 5,
		SnowHeight:      12,
		RockHeight:      7,
		RockSlope:       0.7,
		Grass:           render3d.Hex(0x68b36b),
		Rock:            render3d.Hex(0x8c8c8c),
		Snow:            render3d.Hex(0xf2f6fa),
		ShadeBase:       0.9,
		ShadeAmplitude:  0.1,
		ShadeHeightFreq: 0.5,
		ShadeIndexFreq:  0.001,
	}
}

// Class is the surface type of a vertex.
type Class uint8

const (
	Grass Class = iota
	Rock
	Snow
)

func (c Class) String() string {
	switch c {
	case Grass:
		return "grass"
	case Rock:
		return "rock"
	case Snow:
		return "snow"
	}
	return "unknown"
}

// Stats summarises one generation pass.
type Stats struct {
	Vertices  int
	Grass     int
	Rock      int
	Snow      int
	MinHeight float64
	MaxHeight float64
}

func (s *Stats) add(c Class, h float64) {
	if s.Vertices == 0 || h < s.MinHeight {
		s.MinHeight = h
	}
	if s.Vertices == 0 || h > s.MaxHeight {
		s.MaxHeight = h
	}
	s.Vertices++
	switch c {
	case Grass:
		s.Grass++
	case Rock:
		s.Rock++
	case Snow:
		s.Snow++
	}
}

func (s *Stats) merge(o Stats) {
	if o.Vertices == 0 {
		return
	}
	if s.Vertices == 0 || o.MinHeight < s.MinHeight {
		s.MinHeight = o.MinHeight
	}
	if s.Vertices == 0 || o.MaxHeight > s.MaxHeight {
		s.MaxHeight = o.MaxHeight
	}
	s.Vertices += o.Vertices
	s.Grass += o.Grass
	s.Rock += o.Rock
	s.Snow += o.Snow
}

// Height samples two octaves of fn at grid coordinates (x, y).
func Height(fn noise.Noise2, x, y float64, p HeightParams) float64 {
	sx, sy := x/p.FeatureScale, y/p.FeatureScale
	return fn(sx, sy)*p.BaseAmplitude +
		fn(sx*p.DetailFrequency, sy*p.DetailFrequency)*p.DetailAmplitude
}

// Classify picks a surface class from height and the up-component of the normal.
func Classify(h, up float64, p HeightParams) Class {
	switch {
	case h > p.SnowHeight:
		return Snow
	case up < p.RockSlope || h > p.RockHeight:
		return Rock
	}
	return Grass
}

// Shade returns the colour for a classified vertex. Grass is modulated by
// height and vertex index, so the result depends on the grid ordering.
func Shade(c Class, h float64, index int, p HeightParams) render3d.Color3 {
	switch c {
	case Snow:
		return p.Snow
	case Rock:
		return p.Rock
	}
	k := p.ShadeBase + p.ShadeAmplitude*math.Sin(p.ShadeHeightFreq*h+p.ShadeIndexFreq*float64(index))
	return p.Grass.Scale(k)
}

// Generate displaces grid heights with fn, recomputes normals, then colours
// every vertex. A nil or misbehaving fn produces flat ground.
func Generate(grid *Grid, fn noise.Noise2, p HeightParams) Stats {
	fn = noise.Safe(fn)
	assignHeights(grid, fn, p, 0, grid.Count())
	grid.ComputeNormals()
	stats := classify(grid, p, 0, grid.Count())
	logStats(stats)
	return stats
}

// GenerateParallel produces the same result as Generate, splitting the
// height and classification passes into row bands across workers. Normals
// are computed on the calling goroutine between the two passes.
func GenerateParallel(ctx context.Context, grid *Grid, fn noise.Noise2, p HeightParams, workers int) (Stats, error) {
	fn = noise.Safe(fn)
	bands := rowBands(grid, workers)

	g, gctx := errgroup.WithContext(ctx)
	for _, b := range bands {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			assignHeights(grid, fn, p, b[0], b[1])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	grid.ComputeNormals()

	partial := make([]Stats, len(bands))
	g, gctx = errgroup.WithContext(ctx)
	for i, b := range bands {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			partial[i] = classify(grid, p, b[0], b[1])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, s := range partial {
		stats.merge(s)
	}
	logStats(stats)
	return stats, nil
}

// rowBands splits the vertex range into contiguous [start, end) spans of
// whole rows, one per worker.
func rowBands(grid *Grid, workers int) [][2]int {
	rows := grid.Stride()
	if workers < 1 {
		workers = 1
	}
	if workers > rows {
		workers = rows
	}
	per := (rows + workers - 1) / workers
	bands := make([][2]int, 0, workers)
	for r := 0; r < rows; r += per {
		end := min(r+per, rows)
		bands = append(bands, [2]int{r * rows, end * rows})
	}
	return bands
}

func assignHeights(grid *Grid, fn noise.Noise2, p HeightParams, start, end int) {
	for i := start; i < end; i++ {
		grid.SetZ(i, Height(fn, grid.X(i), grid.Y(i), p))
	}
}

func classify(grid *Grid, p HeightParams, start, end int) Stats {
	var s Stats
	for i := start; i < end; i++ {
		h := grid.Z(i)
		c := Classify(h, grid.Normal(i).Z, p)
		grid.SetColor(i, Shade(c, h, i, p))
		s.add(c, h)
	}
	return s
}

func logStats(s Stats) {
	slog.Debug("terrain generated",
		"vertices", s.Vertices,
		"grass", s.Grass,
		"rock", s.Rock,
		"snow", s.Snow,
		"min_height", s.MinHeight,
		"max_height", s.MaxHeight,
	)
}
