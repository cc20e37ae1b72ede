// Package family is the catalogue of concrete dynamical families: the
// Mandelbrot parameter plane and its Julia sets, the alternating
// biquadratic charts, and the arithmetic variants over Gaussian and
// Eisenstein integers. Each family is a plain value type embedding
// [dynamics.Defaults] and opting into the capability interfaces it
// supports.
package family

import (
	"math"

	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/plane"
	"github.com/matzehuels/fatou/pkg/polysolve"
)

func logBase(x, base float64) float64 {
	return math.Log(x) / math.Log(base)
}

// horner evaluates a polynomial with the given coefficients, constant
// term first.
func horner(x numeric.Complex, coeffs ...numeric.Complex) numeric.Complex {
	var v numeric.Complex
	for i := len(coeffs) - 1; i >= 0; i-- {
		v = v*x + coeffs[i]
	}
	return v
}

// hornerMonic is horner with an implicit leading coefficient of one.
func hornerMonic(x numeric.Complex, coeffs ...numeric.Complex) numeric.Complex {
	v := numeric.Complex(1)
	for i := len(coeffs) - 1; i >= 0; i-- {
		v = v*x + coeffs[i]
	}
	return v
}

// Mandelbrot is the parameter plane of z² + c: each parameter is
// colored by the fate of the critical orbit starting at 0.
type Mandelbrot struct {
	dynamics.Defaults
}

// NewMandelbrot returns the family with its natural view of the
// parameter plane.
func NewMandelbrot() Mandelbrot {
	return Mandelbrot{Defaults: dynamics.Defaults{
		Bounds: plane.NewBounds(-2.1, 0.55, -1.25, 1.25),
	}}
}

// Name identifies the family.
func (Mandelbrot) Name() string { return "Mandelbrot" }

// Map advances z one step under z² + c.
func (Mandelbrot) Map(z, c numeric.Complex) numeric.Complex { return z*z + c }

// MapAndMultiplier advances z and returns ∂f/∂z = 2z.
func (Mandelbrot) MapAndMultiplier(z, c numeric.Complex) (numeric.Complex, numeric.Complex) {
	return z*z + c, 2 * z
}

// ParamMap is the identity: the plane coordinate is the parameter.
func (Mandelbrot) ParamMap(t numeric.Complex) numeric.Complex { return t }

// StartPoint is the free critical point 0.
func (Mandelbrot) StartPoint(numeric.Complex, numeric.Complex) numeric.Complex { return 0 }

// EscapeRadius is far larger than the default so that external rays and
// potentials stay accurate close to the boundary.
func (Mandelbrot) EscapeRadius() float64 { return 1e26 }

// ChildBounds is the view rectangle for Julia sets of this family.
func (Mandelbrot) ChildBounds(numeric.Complex, numeric.Complex) plane.Bounds {
	return plane.CenteredSquare(2.2)
}

// EarlyBailout classifies parameters inside the main cardioid or the
// period-2 bulb in closed form, skipping iteration for the bulk of the
// interior. The returned potential is measured relative to the
// attracting fixed point (resp. cycle) in the same scale the cycle
// detector would produce.
func (m Mandelbrot) EarlyBailout(_, c numeric.Complex) (dynamics.Result[numeric.Complex], bool) {
	// Main cardioid.
	fourC := 4 * c
	y2 := fourC.Imag() * fourC.Imag()
	temp := fourC.Real() - 1
	muNorm2 := temp*temp + y2
	a := muNorm2 * (muNorm2*0.25 + temp)

	if a < y2 {
		multiplier := 1 - (1 - fourC).Sqrt()
		fixedPoint := 0.5 * multiplier
		initDist := (c - fixedPoint).NormSq()
		potential := -2 * logBase(initDist/m.PeriodicityTolerance(), multiplier.NormSq())
		return dynamics.KnownPotential[numeric.Complex](1, multiplier, potential), true
	}

	// Period-2 bulb.
	mu2 := fourC + 4
	if mu2.NormSq() < 1 {
		fixedPoint := -0.5 - 0.5*(-fourC-3).Sqrt()
		initDist := (c - fixedPoint).NormSq()
		potential := -4 * logBase(initDist/m.PeriodicityTolerance(), mu2.NormSq())
		return dynamics.KnownPotential[numeric.Complex](2, mu2, potential), true
	}

	return dynamics.Result[numeric.Complex]{}, false
}

// MarkedCycles returns the centers of the period-n hyperbolic
// components: the parameters whose critical orbit is exactly
// n-periodic. Periods beyond five have no stored table.
func (Mandelbrot) MarkedCycles(period int) []numeric.Complex {
	switch period {
	case 1:
		return []numeric.Complex{0}
	case 2:
		return []numeric.Complex{-1}
	case 3:
		r := polysolve.SolveCubic(1, 1, 2)
		return r[:]
	case 4:
		return polysolve.Solve([]numeric.Complex{1, 0, 2, 3, 3, 3, 1})
	case 5:
		return polysolve.Solve([]numeric.Complex{
			1, 1, 2, 5, 14, 26, 44, 69, 94, 114, 116, 94, 60, 28, 8, 1,
		})
	default:
		return nil
	}
}

// PeriodicPoints returns the dynamical-plane points of exact period n
// under z² + c: quadratic radicals for the fixed points and the
// two-cycle, dynatomic polynomials for periods three and four.
func (Mandelbrot) PeriodicPoints(c numeric.Complex, period int) []numeric.Complex {
	switch period {
	case 1:
		u := (1 - 4*c).Sqrt()
		return []numeric.Complex{0.5 * (1 + u), 0.5 * (1 - u)}
	case 2:
		u := (-3 - 4*c).Sqrt()
		return []numeric.Complex{0.5 * (-1 + u), -0.5 * (1 + u)}
	case 3:
		c2 := c * c
		return polysolve.Solve([]numeric.Complex{
			1 + c + (2+c)*c2,
			1 + c + c + c2,
			1 + 3*(c+c2),
			1 + c + c,
			1 + 3*c,
			1,
			1,
		})
	case 4:
		c2 := c * c
		return polysolve.Solve([]numeric.Complex{
			1 + c2*hornerMonic(c, 2, 3, 3, 3),
			c * hornerMonic(c, 2, 1, 2),
			c * horner(c, 1, 5, 6, 12, 6),
			1 + 4*c2*(1+c),
			c * horner(c, 4, 3, 18, 15),
			c * horner(c, 2, 6),
			1 + c2*(12+20*c),
			4 * c,
			3*c + 15*c2,
			1,
			6 * c,
			0,
			1,
		})
	default:
		return nil
	}
}

var (
	_ dynamics.ComplexFamily                                 = Mandelbrot{}
	_ dynamics.Bailer[numeric.Complex, numeric.Complex]      = Mandelbrot{}
	_ dynamics.CycleMarked[numeric.Complex, numeric.Complex] = Mandelbrot{}
)
