// Package scene builds the initial world for a config: either the
// explicit body list or a seeded random scatter of bodies.
package scene

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/bounce/internal/body"
	"github.com/san-kum/bounce/internal/config"
	"github.com/san-kum/bounce/internal/sim"
)

// Explicit is the scene name that uses only body_list.
const Explicit = "explicit"

// ResolveSeed replaces a zero seed with a time-derived one so a run can
// still be reproduced from the seed it recorded.
func ResolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

// Build creates the world described by cfg. Explicit bodies are placed
// first; unless the scene is explicit, cfg.Bodies.Count random bodies
// follow them.
func Build(cfg *config.Config) (*sim.World, error) {
	bodies, err := cfg.ExplicitBodies()
	if err != nil {
		return nil, err
	}
	if cfg.Scene != Explicit {
		rng := rand.New(rand.NewSource(cfg.Seed))
		random, err := Random(rng, cfg.Bodies, cfg.Bounds.Width, cfg.Bounds.Height)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, random...)
	}
	return sim.NewWorld(bodies, cfg.WorldParams())
}

// Random scatters spec.Count bodies uniformly over a width x height box.
// Mass is exp(U(min, max)) * scale and the radius is the square root of
// the mass, so area grows with mass.
func Random(rng *rand.Rand, spec config.BodiesConfig, width, height float64) ([]*body.Body, error) {
	if spec.Count < 0 {
		return nil, fmt.Errorf("scene: negative body count %d", spec.Count)
	}
	scale := spec.MassScale
	if scale <= 0 {
		scale = config.DefaultMassScale
	}

	out := make([]*body.Body, 0, spec.Count)
	for i := 0; i < spec.Count; i++ {
		mass := math.Exp(uniform(rng, spec.MinMassExp, spec.MaxMassExp)) * scale
		b, err := body.New(body.Params{
			X:      uniform(rng, 0, width),
			Y:      uniform(rng, 0, height),
			VX:     uniform(rng, -spec.MaxSpeed, spec.MaxSpeed),
			VY:     uniform(rng, -spec.MaxSpeed, spec.MaxSpeed),
			Radius: math.Sqrt(mass),
			Mass:   mass,
			Color:  RandomColor(rng),
		})
		if err != nil {
			return nil, fmt.Errorf("scene: body %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// RandomColor returns a warm, red-dominant "#rrggbb" colour.
func RandomColor(rng *rand.Rand) string {
	c := colorful.Color{
		R: float64(128+rng.Intn(128)) / 255,
		G: 0,
		B: float64(rng.Intn(65)) / 255,
	}
	return c.Hex()
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
