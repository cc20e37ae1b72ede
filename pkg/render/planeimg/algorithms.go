package planeimg

import (
	"image/color"
	"math"

	"github.com/matzehuels/fatou/pkg/dynamics"
)

// periodLumaModifier dims period hues uniformly; 1 keeps them full.
const periodLumaModifier = 1.0

// IncoloringKind selects how interior points are colored.
type IncoloringKind string

const (
	// KindSolid fills the interior with the palette's in-color.
	KindSolid IncoloringKind = "solid"

	// KindPeriod hues by cycle period.
	KindPeriod IncoloringKind = "period"

	// KindPeriodMultiplier hues by period, dimmed by the multiplier
	// norm, so superattracting centers go dark.
	KindPeriodMultiplier IncoloringKind = "period_multiplier"

	// KindPreperiod ramps by the convergence time.
	KindPreperiod IncoloringKind = "preperiod"

	// KindPreperiodPeriod hues by period, dimmed by convergence time.
	KindPreperiodPeriod IncoloringKind = "preperiod_period"

	// KindInternalPotential ramps by the potential relative to the
	// attracting cycle.
	KindInternalPotential IncoloringKind = "internal_potential"

	// KindPotentialAndPeriod hues by period, dimmed by the relative
	// potential at a multiplier-dependent rate.
	KindPotentialAndPeriod IncoloringKind = "potential_period"

	// KindMultiplier encodes the multiplier itself: argument as hue,
	// norm as intensity.
	KindMultiplier IncoloringKind = "multiplier"
)

// Incoloring is an interior coloring algorithm with its parameters. The
// potential kinds need the family's periodicity tolerance; the pipeline
// fills it in when building the coloring.
type Incoloring struct {
	Kind IncoloringKind `toml:"kind" json:"kind"`

	// PeriodicityTolerance is the detection tolerance the plane was
	// computed with.
	PeriodicityTolerance float64 `toml:"periodicity_tolerance,omitempty" json:"periodicity_tolerance,omitempty"`

	// CritDegree is the local degree of the first return map at the
	// critical point, used by the superattracting potential regime.
	CritDegree float64 `toml:"crit_degree,omitempty" json:"crit_degree,omitempty"`

	// FillRate scales how fast luminosity saturates.
	FillRate float64 `toml:"fill_rate,omitempty" json:"fill_rate,omitempty"`
}

// DefaultIncoloring returns period hues dimmed by the multiplier norm.
func DefaultIncoloring() Incoloring {
	return Incoloring{Kind: KindPeriodMultiplier}
}

// multiplierColoringRate converts a multiplier norm into a luminosity
// rate: the closer to superattracting, the faster the fill.
func multiplierColoringRate(multNorm, fillRate float64) float64 {
	if multNorm > 1e-10 {
		return -math.Log2(multNorm) * fillRate
	}
	return 10
}

// colorPeriodic colors a detected cycle.
func (a Incoloring) colorPeriodic(p *Palette, cycle dynamics.CycleInfo) color.RGBA {
	multNorm := cycle.Multiplier.Norm()
	n := float64(cycle.Period)
	k := float64(cycle.Preperiod)

	switch a.Kind {
	case KindSolid:
		return p.InColor.Color()
	case KindPeriod:
		return p.PeriodColoring.Map(n, periodLumaModifier)
	case KindPreperiod:
		return p.Map(k * k / n)
	case KindPreperiodPeriod:
		return p.PeriodColoring.Map(n, math.Tanh(k*a.FillRate/n))
	case KindInternalPotential:
		val := dynamics.RelativePotential(cycle, a.PeriodicityTolerance, a.CritDegree)
		return p.Map(val)
	case KindPotentialAndPeriod:
		luma := dynamics.RelativePotential(cycle, a.PeriodicityTolerance, a.CritDegree)
		rate := 0.1
		if multNorm > 1e-10 && math.Abs(1-multNorm) >= 1e-5 {
			rate = multiplierColoringRate(multNorm, a.FillRate)
		}
		return p.PeriodColoring.Map(n, math.Tanh(rate*luma))
	case KindMultiplier:
		return multiplierHsv(cycle.Multiplier.Arg(), multNorm)
	default:
		return p.PeriodColoring.Map(n, multNorm)
	}
}

// colorKnownPotential colors a closed-form interior classification.
func (a Incoloring) colorKnownPotential(p *Palette, potential float64, cycle dynamics.CycleInfo) color.RGBA {
	multNorm := cycle.Multiplier.Norm()
	n := float64(cycle.Period)
	rescaled := potential * potential / n

	switch a.Kind {
	case KindSolid:
		return p.InColor.Color()
	case KindPeriod:
		return p.PeriodColoring.Map(n, periodLumaModifier)
	case KindPreperiod:
		return p.Map(math.Floor(rescaled))
	case KindPreperiodPeriod:
		return p.PeriodColoring.Map(n, math.Tanh(rescaled*a.FillRate))
	case KindInternalPotential:
		return p.Map(rescaled)
	case KindPotentialAndPeriod:
		rate := multiplierColoringRate(multNorm, a.FillRate)
		return p.PeriodColoring.Map(n, math.Tanh(rate*rescaled))
	case KindMultiplier:
		return multiplierHsv(cycle.Multiplier.Arg(), multNorm)
	default:
		return p.PeriodColoring.Map(n, multNorm)
	}
}

func multiplierHsv(arg, norm float64) color.RGBA {
	return Hsv{
		Hue:        arg/(2*math.Pi) + 0.5,
		Saturation: 1,
		Intensity:  norm,
	}.Color()
}
