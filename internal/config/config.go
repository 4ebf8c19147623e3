package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/bounce/internal/body"
	"github.com/san-kum/bounce/internal/collide"
	"github.com/san-kum/bounce/internal/sim"
)

const (
	DefaultDt          = 1.0 / 60
	DefaultDuration    = 10.0
	DefaultGravity     = 200.0
	DefaultRestitution = 0.9
	DefaultIterations  = 10
	DefaultWidth       = 800.0
	DefaultHeight      = 600.0
	DefaultBodies      = 300
	DefaultMaxSpeed    = 500.0
	DefaultMassScale   = 50.0
	DefaultMaxMassExp  = 3.0
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Scene        string       `yaml:"scene"`
	Seed         int64        `yaml:"seed"`
	Dt           float64      `yaml:"dt"`
	Duration     float64      `yaml:"duration"`
	Gravity      float64      `yaml:"gravity"`
	Restitution  float64      `yaml:"restitution"`
	BounceFactor float64      `yaml:"bounce_factor"`
	Iterations   int          `yaml:"iterations"`
	Mode         string       `yaml:"mode"`
	Policy       string       `yaml:"policy"`
	Bounds       BoundsConfig `yaml:"bounds"`
	Bodies       BodiesConfig `yaml:"bodies"`
	BodyList     []BodyConfig `yaml:"body_list,omitempty"`
}

type BoundsConfig struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OpenTop bool    `yaml:"open_top"`
}

// BodiesConfig drives random scene generation.
type BodiesConfig struct {
	Count      int     `yaml:"count"`
	MaxSpeed   float64 `yaml:"max_speed"`
	MinMassExp float64 `yaml:"min_mass_exp"`
	MaxMassExp float64 `yaml:"max_mass_exp"`
	MassScale  float64 `yaml:"mass_scale"`
}

// BodyConfig places one body explicitly. Mass defaults to 1.
type BodyConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass,omitempty"`
	Color  string  `yaml:"color,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene:        "rain",
		Dt:           DefaultDt,
		Duration:     DefaultDuration,
		Gravity:      DefaultGravity,
		Restitution:  DefaultRestitution,
		BounceFactor: DefaultRestitution,
		Iterations:   DefaultIterations,
		Mode:         collide.ModeSequential.String(),
		Policy:       collide.PolicyNearest.String(),
		Bounds: BoundsConfig{
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			OpenTop: true,
		},
		Bodies: BodiesConfig{
			Count:      DefaultBodies,
			MaxSpeed:   DefaultMaxSpeed,
			MinMassExp: 0,
			MaxMassExp: DefaultMaxMassExp,
			MassScale:  DefaultMassScale,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of DefaultConfig and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
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
	switch {
	case !(c.Dt > 0):
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalid, c.Dt)
	case !(c.Duration > 0):
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalid, c.Duration)
	case !(c.Bounds.Width > 0) || !(c.Bounds.Height > 0):
		return fmt.Errorf("%w: bounds must have positive size, got %vx%v", ErrInvalid, c.Bounds.Width, c.Bounds.Height)
	case c.Bodies.Count < 0:
		return fmt.Errorf("%w: negative body count %d", ErrInvalid, c.Bodies.Count)
	case c.Bodies.MaxMassExp < c.Bodies.MinMassExp:
		return fmt.Errorf("%w: max_mass_exp below min_mass_exp", ErrInvalid)
	case math.IsNaN(c.Gravity) || math.IsInf(c.Gravity, 0):
		return fmt.Errorf("%w: gravity must be finite", ErrInvalid)
	}
	if _, err := c.ResolverOptions(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	for i, b := range c.BodyList {
		if _, err := body.New(b.params()); err != nil {
			return fmt.Errorf("%w: body_list[%d]: %w", ErrInvalid, i, err)
		}
	}
	return nil
}

// ResolverOptions converts the collision settings.
func (c *Config) ResolverOptions() (collide.Options, error) {
	mode, err := collide.ParseMode(c.Mode)
	if err != nil {
		return collide.Options{}, err
	}
	policy, err := collide.ParsePolicy(c.Policy)
	if err != nil {
		return collide.Options{}, err
	}
	opts := collide.Options{
		Restitution: c.Restitution,
		Bounce:      c.BounceFactor,
		Iterations:  c.Iterations,
		Policy:      policy,
		Mode:        mode,
	}
	return opts, opts.Validate()
}

func (c *Config) WorldBounds() body.Bounds {
	b := body.NewBounds(c.Bounds.Width, c.Bounds.Height)
	if c.Bounds.OpenTop {
		b = b.OpenTop()
	}
	return b
}

func (c *Config) WorldParams() sim.Params {
	return sim.Params{Gravity: c.Gravity, Dt: c.Dt, Bounds: c.WorldBounds()}
}

func (c *Config) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Duration = c.Duration
	return cfg
}

// ExplicitBodies builds the bodies listed in body_list.
func (c *Config) ExplicitBodies() ([]*body.Body, error) {
	out := make([]*body.Body, 0, len(c.BodyList))
	for i, bc := range c.BodyList {
		b, err := body.New(bc.params())
		if err != nil {
			return nil, fmt.Errorf("body_list[%d]: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

func (b BodyConfig) params() body.Params {
	mass := b.Mass
	if mass == 0 {
		mass = 1
	}
	return body.Params{X: b.X, Y: b.Y, VX: b.VX, VY: b.VY, Radius: b.Radius, Mass: mass, Color: b.Color}
}

// SweepParams are the settings SetParam accepts.
var SweepParams = []string{"dt", "duration", "gravity", "restitution", "bounce_factor", "iterations", "bodies", "seed"}

// SetParam sets a numeric setting by its yaml name. Integer settings
// truncate v.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "dt":
		c.Dt = v
	case "duration":
		c.Duration = v
	case "gravity":
		c.Gravity = v
	case "restitution":
		c.Restitution = v
	case "bounce_factor":
		c.BounceFactor = v
	case "iterations":
		c.Iterations = int(v)
	case "bodies":
		c.Bodies.Count = int(v)
	case "seed":
		c.Seed = int64(v)
	default:
		return fmt.Errorf("%w: unknown parameter %q (have %v)", ErrInvalid, name, SweepParams)
	}
	return nil
}
