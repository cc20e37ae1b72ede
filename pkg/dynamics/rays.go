package dynamics

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/fatou/pkg/newton"
	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/plane"
)

// Ray tracing knobs shared by every family.
const (
	// RayDepth is the number of iteration bands a ray is traced through.
	RayDepth = 200

	// RaySharpness is the number of points computed per band.
	RaySharpness = 25
)

// Angle is a rational angle num/den of a full turn. Ray tracing
// repeatedly multiplies the angle by the map degree and reduces mod 1;
// rational arithmetic keeps that exact where floating point would lose
// the angle entirely after a few dozen bands.
type Angle struct {
	Num int64
	Den int64
}

// NewAngle returns the angle num/den reduced to lowest terms in [0, 1).
// den must be nonzero.
func NewAngle(num, den int64) Angle {
	if den == 0 {
		panic("dynamics: angle with zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	num = ((num % den) + den) % den
	if g := gcd(num, den); g > 1 {
		num /= g
		den /= g
	}
	return Angle{Num: num, Den: den}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// MulInt returns the angle k·a mod 1, exactly.
func (a Angle) MulInt(k int64) Angle {
	return NewAngle(a.Num*k, a.Den)
}

// Float returns the angle as a fraction of a full turn.
func (a Angle) Float() float64 { return float64(a.Num) / float64(a.Den) }

// Circle returns the point e^{2πi·a} on the unit circle.
func (a Angle) Circle() numeric.Complex {
	sin, cos := math.Sincos(2 * math.Pi * a.Float())
	return numeric.Complex(complex(cos, sin))
}

func (a Angle) String() string { return fmt.Sprintf("%d/%d", a.Num, a.Den) }

// TraceRay traces the external ray at the given angle from far outside
// the set toward its boundary, returning the plane points visited in
// order. The grid fixes the resolution-dependent stopping thresholds.
//
// Each band k refines [RaySharpness] points along the level curves of
// the Green's function between radius bands, each found by Newton's
// method on the k-times-iterated map seeded with the previous point.
// Tracing stops at [RayDepth] bands, when a point lands within a
// fraction of a pixel of the set, or when the iterate degenerates; the
// traced prefix is returned. Rays are only defined for families whose
// first return map at infinity has degree at least two, and assume the
// escape coefficient does not vary with the parameter.
func TraceRay[P any](f Family[numeric.Complex, P], g plane.Grid, angle Angle) []numeric.Complex {
	degReal := DegreeRealOf(f)
	deg := int64(math.Round(degReal))
	if math.IsNaN(degReal) || deg*deg <= 1 {
		return nil
	}
	absDeg := math.Abs(degReal)

	escapeRadiusLog := math.Log(16) * absDeg
	pixelWidth := g.PixelWidth() * 0.03
	maxErr := float64(g.ResX) * 1e-8

	// An arbitrary starting guess far enough out to escape immediately.
	basePoint := angle.Circle().MulF(65)
	var points []numeric.Complex

	targetAngle := angle
	factor := math.Exp2(-math.Log2(absDeg) / RaySharpness)

	a := EscapeCoeffOf(f, f.ParamMap(1))
	shift := a.Log().DivF(RaySharpness)

	escPeriod := EscapingPeriodOf(f)
	escPhase := EscapingPhaseOf(f)

	for k := 0; k < RayDepth; k++ {
		numIters := k*escPeriod + escPhase

		// f^k and d(f^k)/dt via the chain rule through the selection.
		fk := func(t numeric.Complex) (numeric.Complex, numeric.Complex) {
			c, dcdt := ParamMapDOf(f, t)
			z, dzdt, dzdc := StartPointDOf(f, t, c)
			dzdt += dzdc * dcdt
			for i := 0; i < numIters; i++ {
				next, dfdz, dfdc := GradientOf(f, z, c)
				dzdt = dzdt*dfdz + dfdc*dcdt
				z = next
			}
			return z, dzdt
		}

		u := escapeRadiusLog
		v := 2 * math.Pi * targetAngle.Float()
		tCurr := basePoint
		if len(points) > 0 {
			tCurr = points[len(points)-1]
		}

		for j := 0; j < RaySharpness; j++ {
			target := numeric.Complex(complex(u, v)).Exp()
			sol, fkv, dfk, err := newton.FindTargetErrD(fk, tCurr, target, maxErr)
			switch {
			case err == nil:
				tCurr = sol
				if tCurr.IsNaN() {
					return trimRay(points)
				}
				points = append(points, tCurr)

				dist := 2 * fkv.Norm() * logBase(fkv.Norm(), absDeg) / dfk.Norm()
				if dist < pixelWidth {
					return trimRay(points)
				}
			case errors.Is(err, newton.ErrNaN):
				return trimRay(points)
			}
			// On non-convergence the previous seed carries to the next
			// target.
			u *= factor
			u -= shift.Real()
			v -= shift.Imag()
		}
		targetAngle = targetAngle.MulInt(deg)
	}
	return trimRay(points)
}

// trimRay pops trailing points while consecutive steps grow: refinement
// near the landing point can overshoot, and a growing tail is spurious.
// Rays shorter than three points carry no direction and are dropped.
// L1 norms avoid squaring away the low bits of tiny steps.
func trimRay(points []numeric.Complex) []numeric.Complex {
	for {
		n := len(points)
		if n < 3 {
			return nil
		}
		d0 := l1Norm(points[n-1] - points[n-2])
		d1 := l1Norm(points[n-2] - points[n-3])
		if d0 <= d1 {
			return points
		}
		points = points[:n-1]
	}
}

func l1Norm(z numeric.Complex) float64 {
	return math.Abs(z.Real()) + math.Abs(z.Imag())
}
