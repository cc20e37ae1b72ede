package dynamics

import (
	"math"

	"github.com/matzehuels/fatou/pkg/numeric"
)

// logBase returns log_base(x).
func logBase(x, base float64) float64 {
	return math.Log(x) / math.Log(base)
}

// SmoothIterCount returns the fractional escape time of an orbit that
// crossed the escape radius at iteration iters with final value z. The
// integer count is corrected by the residual
//
//	log_D((ln R + q) / (ln |z|² + q)) · escapingPeriod
//
// where D is the escaping degree, R the escape radius, and q the log-norm
// of the escape coefficient, making the potential continuous across
// iteration bands.
func SmoothIterCount[S numeric.State[S], P any](f Family[S, P], iters int, z S, c P) float64 {
	u := math.Log(f.EscapeRadius())
	v := math.Log(z.NormSq())
	q := math.Log(EscapeCoeffOf(f, c).Norm())
	residual := logBase((u+q)/(v+q), DegreeRealOf(f))
	return residual*float64(EscapingPeriodOf(f)) + float64(iters)
}

// EscapeEncoder is implemented by families that override the default
// escaping-point encoding, typically because the first return map at
// infinity is not a plain power map or because NaN iterates need a
// family-specific sentinel.
type EscapeEncoder[S numeric.State[S], P any] interface {
	EncodeEscaping(iters int, z S, c P) PointInfo
}

// OrbitEncoder is implemented by families that override the encoding of
// whole orbit outcomes. The arithmetic families use it to reduce cycle
// multipliers back into the ring and to record results in their memo
// cache.
type OrbitEncoder[S numeric.State[S], P any] interface {
	EncodeOrbit(res Result[S], start S, c P) PointInfo
}

// EncodeOrbit maps a raw orbit outcome to a renderable classification,
// honoring the family's own whole-orbit encoding when it provides one.
func EncodeOrbit[S numeric.State[S], P any](f Family[S, P], res Result[S], start S, c P) PointInfo {
	if enc, ok := f.(OrbitEncoder[S, P]); ok {
		return enc.EncodeOrbit(res, start, c)
	}
	return EncodeResult(f, res, c)
}

// EncodeResult maps a raw orbit outcome to a renderable classification.
func EncodeResult[S numeric.State[S], P any](f Family[S, P], res Result[S], c P) PointInfo {
	switch res.Kind {
	case KindEscaped:
		if enc, ok := f.(EscapeEncoder[S, P]); ok {
			return enc.EncodeEscaping(res.Iters, res.Final, c)
		}
		return encodeEscaping(f, res.Iters, res.Final, c)
	case KindPeriodic:
		return PointInfo{Class: ClassPeriodic, Phase: -1, Cycle: res.Cycle}
	case KindKnownPotential:
		return PointInfo{
			Class:     ClassKnownPotential,
			Phase:     -1,
			Potential: res.Potential,
			Cycle:     res.Cycle,
		}
	case KindBounded:
		return PointInfo{Class: ClassBounded, Phase: -1}
	default:
		return PointInfo{Class: ClassUnknown, Phase: -1}
	}
}

// encodeEscaping computes the smooth potential of an escaped point. A NaN
// final value cannot carry a meaningful residual; exp(iters) preserves the
// ordering of escape times as a sentinel.
func encodeEscaping[S numeric.State[S], P any](f Family[S, P], iters int, z S, c P) PointInfo {
	if z.IsNaN() {
		return PointInfo{Class: ClassEscaping, Potential: math.Exp(float64(iters)), Phase: -1}
	}
	return PointInfo{
		Class:     ClassEscaping,
		Potential: SmoothIterCount(f, iters, z, c),
		Phase:     -1,
	}
}

// InternalPotential estimates the potential of a point relative to the
// attracting cycle it converges to, from the periodicity-detection error.
// Three regimes:
//
//   - superattracting (|λ| ≤ 1e-10): doubly logarithmic rate, assuming the
//     first return has local degree critDegree;
//   - parabolic (|1 − |λ|| ≤ 1e-5): linear in the error ratio;
//   - attracting: logarithmic with base |λ|.
//
// A non-finite result clamps to 0.2 so palettes always get a usable value.
func InternalPotential(err, tol, multNorm, critDegree float64) float64 {
	var potential float64
	switch {
	case multNorm <= 1e-10:
		potential = 2 * logBase(logBase(err, tol), critDegree)
	case math.Abs(1-multNorm) <= 1e-5:
		potential = err / tol
	default:
		potential = logBase(err/tol, multNorm)
	}

	if !(math.IsInf(potential, 0) || math.IsNaN(potential)) {
		return potential
	}
	return 0.2
}

// RelativePotential positions a periodic point within its attraction
// basin on a scale suited to interior shading: the squared difference
// between the normalized preperiod and the internal potential, weighted
// by the period.
func RelativePotential(cycle CycleInfo, tol, critDegree float64) float64 {
	n := float64(cycle.Period)
	k := float64(cycle.Preperiod)
	potential := InternalPotential(cycle.FinalError, tol, cycle.Multiplier.Norm(), critDegree)
	val := k/n - potential
	return val * val * n
}
