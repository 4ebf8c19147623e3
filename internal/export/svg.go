package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/bounce/internal/body"
	"github.com/san-kum/bounce/internal/sim"
)

// FrameToSVG draws every body as a filled circle in world coordinates.
// The box matches the world, so y grows downward as on screen.
func FrameToSVG(frame []body.Params, width, height float64) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, b := range frame {
		color := b.Color
		if color == "" {
			color = body.DefaultColor
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s"/>
`, b.X, b.Y, b.Radius, color, color)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// EnergyToSVG plots kinetic and total energy against time.
func EnergyToSVG(samples []sim.Sample, width, height int) string {
	if len(samples) < 2 {
		return ""
	}

	minT, maxT := samples[0].Time, samples[len(samples)-1].Time
	minE, maxE := samples[0].Kinetic, samples[0].Total
	for _, s := range samples {
		minE = min(minE, s.Kinetic, s.Total)
		maxE = max(maxE, s.Kinetic, s.Total)
	}

	rangeT := maxT - minT
	rangeE := maxE - minE
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeE == 0 {
		rangeE = 1
	}
	minE -= rangeE * 0.1
	rangeE *= 1.2

	path := func(value func(sim.Sample) float64) string {
		var sb strings.Builder
		for i, s := range samples {
			x := (s.Time - minT) / rangeT * float64(width)
			y := float64(height) - (value(s)-minE)/rangeE*float64(height)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		return sb.String()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
	fmt.Fprintf(&sb, `<path fill="none" stroke="#ff0000" stroke-width="1.5" d="%s"/>
`, path(func(s sim.Sample) float64 { return s.Kinetic }))
	fmt.Fprintf(&sb, `<path fill="none" stroke="#0000ff" stroke-width="1.5" d="%s"/>
`, path(func(s sim.Sample) float64 { return s.Total }))
	sb.WriteString("</svg>")
	return sb.String()
}
