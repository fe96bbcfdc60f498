package config

import (
	"sort"
	"time"
)

// Presets only set the fields they name; Apply copies them over a config.
var Presets = map[string]*Config{
	"classic": {
		UnitSize: 16, SideLength: 16, Delay: 250 * time.Millisecond,
		Fill: "#000000", Background: "#ffffff",
	},
	"large": {
		UnitSize: 24, SideLength: 16, Delay: 250 * time.Millisecond,
	},
	"wide": {
		UnitSize: 8, SideLength: 64, Delay: 250 * time.Millisecond,
	},
	"fast": {
		Delay: 80 * time.Millisecond,
	},
	"slow": {
		Delay: time.Second,
	},
	"heatmap": {
		Fill: "#ff6b6b", Background: "#2d1b2e", Shade: true, Theme: "sunset",
	},
	"phosphor": {
		Fill: "#00ff00", Background: "#001100", Theme: "retro",
	},
}

func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply overlays the non-zero fields of p onto c.
func (c *Config) Apply(p *Config) {
	if p == nil {
		return
	}
	if p.DataDir != "" {
		c.DataDir = p.DataDir
	}
	if p.Manifest != "" {
		c.Manifest = p.Manifest
	}
	if p.UnitSize != 0 {
		c.UnitSize = p.UnitSize
	}
	if p.SideLength != 0 {
		c.SideLength = p.SideLength
	}
	if p.Delay != 0 {
		c.Delay = p.Delay
	}
	if p.Fill != "" {
		c.Fill = p.Fill
	}
	if p.Background != "" {
		c.Background = p.Background
	}
	if p.Shade {
		c.Shade = true
	}
	if p.Theme != "" {
		c.Theme = p.Theme
	}
	if p.Listen != "" {
		c.Listen = p.Listen
	}
}
