package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1siamBot/peaceful-valley/engine/render3d"
	"github.com/1siamBot/peaceful-valley/engine/terrain"
	"github.com/1siamBot/peaceful-valley/engine/water"
)

func TestValidateDefaultConfig(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default configuration should be valid: %v", err)
	}
	if cfg.HeightParams() != terrain.DefaultHeightParams() {
		t.Errorf("HeightParams() = %+v, want defaults", cfg.HeightParams())
	}
	if cfg.WaterParams() != water.DefaultParams() {
		t.Errorf("WaterParams() = %+v, want defaults", cfg.WaterParams())
	}
}

func TestValidateDetectsInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero window",
			mutate:  func(c *Config) { c.Window.Width = 0 },
			wantErr: "window dimensions must be positive",
		},
		{
			name:    "unknown noise",
			mutate:  func(c *Config) { c.Noise = "worley" },
			wantErr: "noise must be one of",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: "log_level",
		},
		{
			name:    "zero segments",
			mutate:  func(c *Config) { c.Terrain.Segments = 0 },
			wantErr: "terrain.segments must be positive",
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Terrain.Workers = -1 },
			wantErr: "terrain.workers cannot be negative",
		},
		{
			name:    "zero feature scale",
			mutate:  func(c *Config) { c.Terrain.FeatureScale = 0 },
			wantErr: "terrain.feature_scale must be positive",
		},
		{
			name:    "bad grass colour",
			mutate:  func(c *Config) { c.Terrain.Grass = "#12345" },
			wantErr: "terrain.grass",
		},
		{
			name:    "bad water colour",
			mutate:  func(c *Config) { c.Water.ColorB = "blue" },
			wantErr: "water.color_b",
		},
		{
			name:    "opacity above one",
			mutate:  func(c *Config) { c.Water.Opacity = 1.5 },
			wantErr: "water.opacity must be within [0, 1]",
		},
		{
			name:    "bad modulation",
			mutate:  func(c *Config) { c.Water.Modulate = map[string]string{"opacity": "Sin("} },
			wantErr: "water.modulate",
		},
		{
			name:    "negative birds",
			mutate:  func(c *Config) { c.Scene.Birds = -3 },
			wantErr: "scene entity counts cannot be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "valley.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadLayersYAMLOverDefaults(t *testing.T) {
	path := writeConfig(t, `
seed: 99
noise: perlin
terrain:
  segments: 64
  snow: "#ffffff"
water:
  wave_height: 0.3
  modulate:
    opacity: "0.7 + Sin(Time) * 0.05"
scene:
  birds: 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Seed != 99 || cfg.Noise != "perlin" {
		t.Errorf("seed/noise = %d/%q", cfg.Seed, cfg.Noise)
	}
	if cfg.Terrain.Segments != 64 || cfg.Terrain.Size != 120 {
		t.Errorf("terrain = %+v", cfg.Terrain)
	}
	if got := cfg.HeightParams().Snow; got != render3d.Hex(0xffffff) {
		t.Errorf("snow = %v", got)
	}
	if got := cfg.HeightParams().Grass; got != terrain.DefaultHeightParams().Grass {
		t.Errorf("grass default lost: %v", got)
	}
	if cfg.WaterParams().WaveHeight != 0.3 || cfg.WaterParams().WaveSpeed != 1.2 {
		t.Errorf("water = %+v", cfg.WaterParams())
	}
	if cfg.Scene.Birds != 4 || cfg.Scene.DustMotes != 50 {
		t.Errorf("scene = %+v", cfg.Scene)
	}
}

func TestLoadEmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != Default().Seed || cfg.Terrain != Default().Terrain {
		t.Fatal("Load(\"\") should return defaults")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("/nonexistent/valley.yaml"); err == nil {
		t.Fatal("Load() = nil, want read error")
	}
	if _, err := Load(writeConfig(t, "terrain: [")); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load() = %v, want parse error", err)
	}
	if _, err := Load(writeConfig(t, "noise: worley\n")); err == nil || !strings.Contains(err.Error(), "validate config") {
		t.Fatalf("Load() = %v, want validate error", err)
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "valley.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HeightParams() != terrain.DefaultHeightParams() || cfg.WaterParams() != water.DefaultParams() {
		t.Fatal("default config did not survive a write/load cycle")
	}
}

func TestParseFlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "seed: 5\nnoise: perlin\nwindow:\n  width: 800\n")

	fs := flag.NewFlagSet("valley", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg, err := Parse(fs, []string{"-config", path, "-seed", "77"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 77 {
		t.Errorf("seed = %d, want flag value 77", cfg.Seed)
	}
	if cfg.Noise != "perlin" {
		t.Errorf("noise = %q, want file value perlin", cfg.Noise)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 720 {
		t.Errorf("window = %+v", cfg.Window)
	}
}

func TestParseRejectsInvalidFlag(t *testing.T) {
	fs := flag.NewFlagSet("valley", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := Parse(fs, []string{"-noise", "worley"}); err == nil {
		t.Fatal("Parse() = nil, want validation error")
	}
}
