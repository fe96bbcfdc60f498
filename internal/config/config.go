package config

import (
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDataDir    = "tests/data"
	DefaultManifest   = "manifest.json"
	DefaultUnitSize   = 16
	DefaultSideLength = 16
	DefaultDelay      = 250 * time.Millisecond
	DefaultFill       = "#000000"
	DefaultBackground = "#ffffff"
	DefaultTheme      = "cyberpunk"
	DefaultListen     = "127.0.0.1:8080"
)

type Config struct {
	DataDir    string        `yaml:"data_dir"`
	Manifest   string        `yaml:"manifest"`
	UnitSize   int           `yaml:"unit_size"`
	SideLength int           `yaml:"side_length"`
	Delay      time.Duration `yaml:"delay"`
	Fill       string        `yaml:"fill"`
	Background string        `yaml:"background"`
	Shade      bool          `yaml:"shade"`
	Theme      string        `yaml:"theme"`
	Listen     string        `yaml:"listen"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:    DefaultDataDir,
		Manifest:   DefaultManifest,
		UnitSize:   DefaultUnitSize,
		SideLength: DefaultSideLength,
		Delay:      DefaultDelay,
		Fill:       DefaultFill,
		Background: DefaultBackground,
		Theme:      DefaultTheme,
		Listen:     DefaultListen,
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base, so fields the file leaves
// out keep their base values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.UnitSize <= 0 {
		return fmt.Errorf("unit_size must be positive, got %d", c.UnitSize)
	}
	if c.SideLength <= 0 {
		return fmt.Errorf("side_length must be positive, got %d", c.SideLength)
	}
	if c.Delay <= 0 {
		return fmt.Errorf("delay must be positive, got %s", c.Delay)
	}
	if _, err := ParseColor(c.Fill); err != nil {
		return fmt.Errorf("fill: %w", err)
	}
	if _, err := ParseColor(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	return nil
}

// PixelSideLength is the width and height of one render surface.
func (c *Config) PixelSideLength() int {
	return c.UnitSize * c.SideLength
}

func (c *Config) FillColor() color.RGBA {
	return rgba(c.Fill)
}

func (c *Config) BackgroundColor() color.RGBA {
	return rgba(c.Background)
}

// ParseColor accepts #rgb and #rrggbb hex colors.
func ParseColor(hex string) (colorful.Color, error) {
	if len(hex) != 4 && len(hex) != 7 {
		return colorful.Color{}, fmt.Errorf("invalid color %q", hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}

func rgba(hex string) color.RGBA {
	c, _ := ParseColor(hex)
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
