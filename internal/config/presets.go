package config

import (
	"math"
	"sort"
)

// Presets are named starting points; fields left zero in a preset fall
// back to DefaultConfig when applied with GetPreset.
var Presets = map[string]func(*Config){
	"rain": func(c *Config) {
		c.Scene = "rain"
	},
	"pile": func(c *Config) {
		c.Scene = "rain"
		c.Bodies.Count = 400
		c.Bodies.MaxSpeed = 100
		c.Restitution = 0.5
		c.BounceFactor = 0.5
		c.Bounds.OpenTop = false
		c.Duration = 20
	},
	"inelastic": func(c *Config) {
		c.Scene = "rain"
		c.Bodies.Count = 150
		c.Restitution = 0
		c.BounceFactor = 0.3
	},
	"deferred": func(c *Config) {
		c.Scene = "rain"
		c.Bodies.Count = 200
		c.Mode = "deferred"
	},
	"cradle": func(c *Config) {
		c.Scene = "explicit"
		c.Gravity = 0
		c.Restitution = 1
		c.BounceFactor = 1
		c.Duration = 5
		c.Bounds.OpenTop = false
		c.BodyList = cradle(5, 20, c.Bounds.Width, c.Bounds.Height)
	},
	"billiards": func(c *Config) {
		c.Scene = "explicit"
		c.Gravity = 0
		c.Restitution = 0.95
		c.BounceFactor = 0.8
		c.Bounds.OpenTop = false
		c.BodyList = rack(5, 15, c.Bounds.Width, c.Bounds.Height)
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// cradle lines up n touching balls in the middle of the box and sends
// one more at them from the left.
func cradle(n int, r, w, h float64) []BodyConfig {
	out := make([]BodyConfig, 0, n+1)
	x0 := w/2 - float64(n-1)*r
	for i := 0; i < n; i++ {
		out = append(out, BodyConfig{X: x0 + float64(i)*2*r, Y: h / 2, Radius: r, Color: "#c0c0c0"})
	}
	out = append(out, BodyConfig{X: r * 2, Y: h / 2, VX: 300, Radius: r, Color: "#ff4040"})
	return out
}

// rack builds a triangle of rows balls and a cue ball aimed at its apex.
func rack(rows int, r, w, h float64) []BodyConfig {
	out := make([]BodyConfig, 0, rows*(rows+1)/2+1)
	apex := w * 0.65
	dx := r * math.Sqrt(3) * 1.001
	for row := 0; row < rows; row++ {
		for i := 0; i <= row; i++ {
			out = append(out, BodyConfig{
				X:      apex + float64(row)*dx,
				Y:      h/2 + (float64(i)-float64(row)/2)*2*r*1.001,
				Radius: r,
				Color:  "#ffcc00",
			})
		}
	}
	out = append(out, BodyConfig{X: w * 0.2, Y: h / 2, VX: 800, Radius: r, Color: "#ffffff"})
	return out
}
