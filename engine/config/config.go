package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1siamBot/peaceful-valley/engine/noise"
	"github.com/1siamBot/peaceful-valley/engine/render3d"
	"github.com/1siamBot/peaceful-valley/engine/terrain"
	"github.com/1siamBot/peaceful-valley/engine/water"
)

// Config describes the valley scene and the window it is shown in.
type Config struct {
	Window   WindowConfig  `yaml:"window"`
	Seed     int64         `yaml:"seed"`
	Noise    string        `yaml:"noise"` // simplex, perlin or flat
	LogLevel string        `yaml:"log_level"`
	Terrain  TerrainConfig `yaml:"terrain"`
	Water    WaterConfig   `yaml:"water"`
	Scene    SceneConfig   `yaml:"scene"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type TerrainConfig struct {
	Size            float64 `yaml:"size"`
	Segments        int     `yaml:"segments"`
	Workers         int     `yaml:"workers"` // 0 generates on the calling goroutine
	FeatureScale    float64 `yaml:"feature_scale"`
	BaseAmplitude   float64 `yaml:"base_amplitude"`
	DetailFrequency float64 `yaml:"detail_frequency"`
	DetailAmplitude float64 `yaml:"detail_amplitude"`
	SnowHeight      float64 `yaml:"snow_height"`
	RockHeight      float64 `yaml:"rock_height"`
	RockSlope       float64 `yaml:"rock_slope"`
	Grass           string  `yaml:"grass"`
	Rock            string  `yaml:"rock"`
	Snow            string  `yaml:"snow"`
}

type WaterConfig struct {
	ColorA     string  `yaml:"color_a"`
	ColorB     string  `yaml:"color_b"`
	ColorC     string  `yaml:"color_c"`
	Opacity    float64 `yaml:"opacity"`
	WaveHeight float64 `yaml:"wave_height"`
	WaveSpeed  float64 `yaml:"wave_speed"`
	// Modulate maps a parameter name (wave_height, wave_speed, opacity) to
	// an expression of Time and Millis evaluated every frame.
	Modulate map[string]string `yaml:"modulate,omitempty"`
	// Shader selects the GPU fragment stage; false shades on the CPU.
	Shader bool `yaml:"shader"`
}

type SceneConfig struct {
	Birds      int  `yaml:"birds"`
	DustMotes  int  `yaml:"dust_motes"`
	Phoenix    bool `yaml:"phoenix"`
	Props      bool `yaml:"props"`
	AutoRotate bool `yaml:"auto_rotate"`
	DayCycle   bool `yaml:"day_cycle"`
}

// Default returns the stock valley.
func Default() *Config {
	hp := terrain.DefaultHeightParams()
	wp := water.DefaultParams()
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Peaceful Valley",
		},
		Seed:     1,
		Noise:    noise.BackendSimplex,
		LogLevel: "info",
		Terrain: TerrainConfig{
			Size:            120,
			Segments:        120,
			FeatureScale:    hp.FeatureScale,
			BaseAmplitude:   hp.BaseAmplitude,
			DetailFrequency: hp.DetailFrequency,
			DetailAmplitude: hp.DetailAmplitude,
			SnowHeight:      hp.SnowHeight,
			RockHeight:      hp.RockHeight,
			RockSlope:       hp.RockSlope,
			Grass:           hp.Grass.String(),
			Rock:            hp.Rock.String(),
			Snow:            hp.Snow.String(),
		},
		Water: WaterConfig{
			ColorA:     wp.ColorA.String(),
			ColorB:     wp.ColorB.String(),
			ColorC:     wp.ColorC.String(),
			Opacity:    wp.Opacity,
			WaveHeight: wp.WaveHeight,
			WaveSpeed:  wp.WaveSpeed,
			Modulate: map[string]string{
				water.ParamWaveHeight: "0.15 + Sin(Time * 0.8) * 0.05",
				water.ParamWaveSpeed:  "1.2 + Sin(Time * 0.5) * 0.3",
			},
			Shader: true,
		},
		Scene: SceneConfig{
			Birds:     12,
			DustMotes: 50,
			Phoenix:   true,
			Props:     true,
			DayCycle:  true,
		},
	}
}

// Load layers the YAML file at path over Default and validates the result.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.New("window dimensions must be positive")
	}
	switch c.Noise {
	case noise.BackendSimplex, noise.BackendPerlin, noise.BackendFlat:
	default:
		return fmt.Errorf("noise must be one of simplex, perlin, flat; got %q", c.Noise)
	}
	if _, err := c.Level(); err != nil {
		return err
	}

	t := c.Terrain
	if t.Size <= 0 {
		return errors.New("terrain.size must be positive")
	}
	if t.Segments <= 0 {
		return errors.New("terrain.segments must be positive")
	}
	if t.Workers < 0 {
		return errors.New("terrain.workers cannot be negative")
	}
	if t.FeatureScale <= 0 {
		return errors.New("terrain.feature_scale must be positive")
	}
	if t.RockSlope < 0 || t.RockSlope > 1 {
		return errors.New("terrain.rock_slope must be within [0, 1]")
	}
	for name, hex := range map[string]string{"grass": t.Grass, "rock": t.Rock, "snow": t.Snow} {
		if _, err := render3d.ParseHex(hex); err != nil {
			return fmt.Errorf("terrain.%s: %w", name, err)
		}
	}

	w := c.Water
	for name, hex := range map[string]string{"color_a": w.ColorA, "color_b": w.ColorB, "color_c": w.ColorC} {
		if _, err := render3d.ParseHex(hex); err != nil {
			return fmt.Errorf("water.%s: %w", name, err)
		}
	}
	if w.Opacity < 0 || w.Opacity > 1 {
		return errors.New("water.opacity must be within [0, 1]")
	}
	if w.WaveHeight < 0 {
		return errors.New("water.wave_height cannot be negative")
	}
	if _, err := water.NewModulator(w.Modulate); err != nil {
		return fmt.Errorf("water.modulate: %w", err)
	}

	if c.Scene.Birds < 0 || c.Scene.DustMotes < 0 {
		return errors.New("scene entity counts cannot be negative")
	}
	return nil
}

// Level parses LogLevel for slog.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// HeightParams converts the terrain section. Colours that fail to parse fall
// back to the defaults; Validate reports them.
func (c *Config) HeightParams() terrain.HeightParams {
	p := terrain.DefaultHeightParams()
	t := c.Terrain
	p.FeatureScale = t.FeatureScale
	p.BaseAmplitude = t.BaseAmplitude
	p.DetailFrequency = t.DetailFrequency
	p.DetailAmplitude = t.DetailAmplitude
	p.SnowHeight = t.SnowHeight
	p.RockHeight = t.RockHeight
	p.RockSlope = t.RockSlope
	p.Grass = colorOr(t.Grass, p.Grass)
	p.Rock = colorOr(t.Rock, p.Rock)
	p.Snow = colorOr(t.Snow, p.Snow)
	return p
}

// WaterParams converts the water section.
func (c *Config) WaterParams() water.Params {
	p := water.DefaultParams()
	w := c.Water
	p.ColorA = colorOr(w.ColorA, p.ColorA)
	p.ColorB = colorOr(w.ColorB, p.ColorB)
	p.ColorC = colorOr(w.ColorC, p.ColorC)
	p.Opacity = w.Opacity
	p.WaveHeight = w.WaveHeight
	p.WaveSpeed = w.WaveSpeed
	return p
}

// NoiseField builds the configured noise backend.
func (c *Config) NoiseField() (noise.Noise2, error) {
	return noise.New(c.Noise, c.Seed)
}

func colorOr(hex string, fallback render3d.Color3) render3d.Color3 {
	col, err := render3d.ParseHex(hex)
	if err != nil {
		return fallback
	}
	return col
}

// Bind attaches the command-line overrides to fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.Int64Var(&c.Seed, "seed", c.Seed, "terrain noise seed")
	fs.StringVar(&c.Noise, "noise", c.Noise, "noise backend: simplex, perlin or flat")
	fs.IntVar(&c.Window.Width, "width", c.Window.Width, "window width in pixels")
	fs.IntVar(&c.Window.Height, "height", c.Window.Height, "window height in pixels")
	fs.IntVar(&c.Terrain.Workers, "workers", c.Terrain.Workers, "terrain generation workers (0 = sequential)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
}

// Parse registers -config plus the Bind flags on fs and parses args. Values
// given on the command line win over the file, which wins over the defaults.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	path := fs.String("config", "", "YAML scene configuration file")
	cli := Default()
	cli.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := Load(*path)
	if err != nil {
		return nil, err
	}

	file := flag.NewFlagSet(fs.Name(), flag.ContinueOnError)
	cfg.Bind(file)
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		dst := file.Lookup(f.Name)
		if dst == nil || setErr != nil {
			return
		}
		if err := dst.Value.Set(f.Value.String()); err != nil {
			setErr = fmt.Errorf("flag -%s: %w", f.Name, err)
		}
	})
	if setErr != nil {
		return nil, setErr
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
