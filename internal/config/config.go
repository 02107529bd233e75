// Package config loads and saves run configuration as YAML.
package config

import (
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.1
	DefaultDuration = 100.0
	DefaultPreset   = "binary"
	DefaultFPS      = 60
)

// Config describes one simulation run. When Bodies is non-empty it
// overrides the preset entirely.
type Config struct {
	Preset   string       `yaml:"preset"`
	Dt       float64      `yaml:"dt"`
	Duration float64      `yaml:"duration"`
	Seed     int64        `yaml:"seed"`
	FPS      int          `yaml:"fps"`
	Workers  int          `yaml:"workers"`
	Bodies   []BodyConfig `yaml:"bodies,omitempty"`
}

// BodyConfig is one explicit body in a config file.
type BodyConfig struct {
	Mass  float64    `yaml:"mass"`
	Pos   [2]float64 `yaml:"pos"`
	Vel   [2]float64 `yaml:"vel"`
	Color string     `yaml:"color,omitempty"` // "#rrggbb"
}

func Default() *Config {
	return &Config{
		Preset:   DefaultPreset,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		FPS:      DefaultFPS,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	for i, b := range c.Bodies {
		if b.Mass <= 0 {
			return fmt.Errorf("body %d: mass must be positive, got %f", i, b.Mass)
		}
	}
	return nil
}

// ParseColor converts "#rrggbb" to an RGBA color. Malformed input falls
// back to a pale default rather than failing the whole config.
func ParseColor(hex string) color.RGBA {
	var r, g, b uint8
	if len(hex) == 7 && hex[0] == '#' {
		if n, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err == nil && n == 3 {
			return color.RGBA{R: r, G: g, B: b, A: 255}
		}
	}
	return color.RGBA{R: 200, G: 200, B: 255, A: 255}
}

// FormatColor renders an RGBA color as "#rrggbb".
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
