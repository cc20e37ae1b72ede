package planeimg

import (
	"image/color"
	"math"

	"github.com/matzehuels/fatou/pkg/dynamics"
)

// Coloring maps classified points to colors: the smooth palette for the
// exterior, the interior algorithm for cycles, fixed colors for the rest.
type Coloring struct {
	Algorithm Incoloring
	Palette   Palette

	// EscPeriod is the period of infinity for the rendered family, used
	// by phase coloring.
	EscPeriod int

	// PhaseColoring hues escaping points by their escape phase instead
	// of the plain ramp.
	PhaseColoring bool
}

// NewColoring builds a coloring with the given interior algorithm and
// palette.
func NewColoring(algorithm Incoloring, palette Palette) *Coloring {
	return &Coloring{
		Algorithm: algorithm,
		Palette:   palette,
		EscPeriod: 1,
	}
}

// Map colors one classified point.
func (c *Coloring) Map(info dynamics.PointInfo) color.RGBA {
	switch info.Class {
	case dynamics.ClassEscaping:
		if c.PhaseColoring && info.Phase >= 0 {
			return c.Palette.MapPhase(math.Log(info.Potential), info.Phase, c.EscPeriod)
		}
		return c.Palette.Map(math.Log(info.Potential))
	case dynamics.ClassPeriodic:
		return c.Algorithm.colorPeriodic(&c.Palette, info.Cycle)
	case dynamics.ClassKnownPotential:
		return c.Algorithm.colorKnownPotential(&c.Palette, info.Potential, info.Cycle)
	case dynamics.ClassBounded:
		return c.Palette.InColor.Color()
	case dynamics.ClassDistanceEstimate:
		if c.PhaseColoring && info.Phase >= 0 {
			return c.Palette.MapPhase(-math.Log(info.Distance)/2, info.Phase, c.EscPeriod)
		}
		return c.Palette.Map(-math.Log(info.Distance) / 2)
	case dynamics.ClassWandering:
		return c.Palette.WanderingColor.Color()
	default:
		return c.Palette.UnknownColor.Color()
	}
}
