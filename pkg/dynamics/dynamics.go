// Package dynamics defines the contract between dynamical-map families and
// the engines that iterate them, together with the encoding that turns raw
// orbit outcomes into renderable point classifications.
//
// # The family contract
//
// A [Family] is a pure description of a parameterized dynamical system: how
// to step the map, how parameter-plane selections translate into parameters
// and starting points, and the thresholds the orbit engines should use.
// Implementations must be stateless with respect to iteration — every
// method is a pure function of its arguments — so one family value can be
// shared by any number of concurrent workers.
//
// Optional capabilities are discovered by type assertion and default to
// sensible behavior when absent:
//
//   - [Bailer]: closed-form membership tests or memoized lookups that skip
//     iteration entirely.
//   - [Differentiable]: derivative data for gradient-tracking orbits,
//     external rays, and distance estimation.
//   - [Stopper]: a replacement stop condition for maps whose escape is not
//     a norm threshold.
//   - [Escaping]: the first-return-map data at infinity used by the smooth
//     escape-time encoder and external rays.
//   - [CycleMarked]: closed-form marked cycles for overlays and the cycle
//     listing command.
//
// The [Defaults] struct supplies the shared knob plumbing; families embed
// it and override what they need.
package dynamics

import (
	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/plane"
)

// Defaults for families that do not override the corresponding knobs.
const (
	// DefaultEscapeRadius is the squared-norm escape threshold.
	DefaultEscapeRadius = 1e12

	// DefaultMaxIters bounds orbits that neither escape nor cycle.
	DefaultMaxIters = 1024

	// DefaultDegreeReal is the degree of the first return map at infinity
	// for the quadratic families that dominate the catalogue.
	DefaultDegreeReal = 2.0

	DefaultEscapingPeriod = 1
	DefaultEscapingPhase  = 1
)

// toleranceScale converts view area into the default periodicity
// tolerance, so cycle detection keeps working at deep zoom.
const toleranceScale = 1e-14

// Family describes a parameterized dynamical system over state type S and
// parameter type P. S is the orbit state (a point in the dynamical plane);
// P is whatever the family needs per orbit — a complex constant, a pair,
// or a richer struct.
//
// The derivative returned by MapAndMultiplier is always a complex scalar:
// families over exotic state spaces reduce or embed their step derivative
// into the complex plane, where the cycle-multiplier accumulator lives.
type Family[S numeric.State[S], P any] interface {
	// Name identifies the family in profiles, caches, and logs.
	Name() string

	// Map advances the state one step.
	Map(z S, c P) S

	// MapAndMultiplier advances the state and returns the derivative of
	// the step with respect to z, for multiplier accumulation.
	MapAndMultiplier(z S, c P) (S, numeric.Complex)

	// ParamMap converts a parameter-plane selection into a parameter.
	// For parameter planes this is typically the identity; for dynamical
	// planes it is constant.
	ParamMap(t numeric.Complex) P

	// StartPoint returns the initial state for the orbit of selection t
	// with parameter c.
	StartPoint(t numeric.Complex, c P) S

	// DefaultBounds is the natural view rectangle of the family.
	DefaultBounds() plane.Bounds

	// EscapeRadius is the squared-norm threshold beyond which an orbit
	// counts as escaped.
	EscapeRadius() float64

	// PeriodicityTolerance is the squared-distance threshold for the
	// cycle detector.
	PeriodicityTolerance() float64

	// MinIter is the iteration count before which no stop condition is
	// checked.
	MinIter() int

	// MaxIter is the iteration cap, after which an orbit is Bounded.
	MaxIter() int
}

// ComplexFamily is the scalar instantiation of [Family] shared by most of
// the catalogue. Assigning a concrete family to it (or passing it where a
// ComplexFamily is expected) lets the engine constructors infer their type
// arguments.
type ComplexFamily = Family[numeric.Complex, numeric.Complex]

// Bailer is implemented by families that can classify some starts without
// iterating: closed-form membership tests, memoized results, lookups.
type Bailer[S numeric.State[S], P any] interface {
	// EarlyBailout reports a terminal result for the orbit, or ok=false
	// to proceed with iteration.
	EarlyBailout(start S, c P) (Result[S], bool)
}

// Differentiable is implemented by families that can propagate derivative
// data, enabling gradient-tracking orbits, distance estimation, and
// external rays.
type Differentiable[S numeric.State[S], P any] interface {
	// Gradient advances the state and returns the partial derivatives of
	// the step with respect to z and to the parameter selection.
	Gradient(z S, c P) (next S, dfdz, dfdc numeric.Complex)

	// ParamMapD is ParamMap together with its derivative in t.
	ParamMapD(t numeric.Complex) (P, numeric.Complex)

	// StartPointD is StartPoint together with its derivatives in t and c.
	StartPointD(t numeric.Complex, c P) (z S, dzdt, dzdc numeric.Complex)
}

// Stopper is implemented by families that replace the default norm-based
// escape test with their own stop condition.
type Stopper[S numeric.State[S], P any] interface {
	// ExtraStopCondition reports a terminal result at this iterate, or
	// ok=false to keep going.
	ExtraStopCondition(z S, c P, iter int) (Result[S], bool)
}

// Escaping is implemented by families whose behavior near infinity
// deviates from a degree-2 monic first return: the encoder and the ray
// tracer use this data to keep potentials and angles comparable across
// families.
type Escaping[P any] interface {
	// DegreeReal is the degree of the first return map at infinity. NaN
	// disables external rays.
	DegreeReal() float64

	// EscapingPeriod is the period of infinity under the map.
	EscapingPeriod() int

	// EscapingPhase is the number of iterations before a large parameter
	// produces a large variable value. Almost always 0 or 1.
	EscapingPhase() int

	// EscapeCoeff is the leading coefficient of the first return map at
	// infinity.
	EscapeCoeff(c P) numeric.Complex

	// EscapeCoeffD is EscapeCoeff together with its parameter derivative.
	EscapeCoeffD(c P) (numeric.Complex, numeric.Complex)
}

// CycleMarked is implemented by families with closed-form marked cycles.
type CycleMarked[S numeric.State[S], P any] interface {
	// MarkedCycles returns the parameter-plane points whose critical
	// orbit is periodic with the given period.
	MarkedCycles(period int) []P

	// PeriodicPoints returns the dynamical-plane points of period
	// dividing the given period for parameter c.
	PeriodicPoints(c P, period int) []S
}

// Defaults carries the shared family knobs and provides the default
// implementations of the threshold methods. Families embed it by value
// and override individual methods as needed.
type Defaults struct {
	Bounds    plane.Bounds
	MaxIters  int
	Tolerance float64 // overrides the area-derived periodicity tolerance when > 0
}

// DefaultBounds returns the configured view rectangle.
func (d Defaults) DefaultBounds() plane.Bounds { return d.Bounds }

// EscapeRadius returns the default squared-norm escape threshold.
func (d Defaults) EscapeRadius() float64 { return DefaultEscapeRadius }

// PeriodicityTolerance returns the explicit tolerance when set, otherwise
// the view area scaled down to pixel-level precision.
func (d Defaults) PeriodicityTolerance() float64 {
	if d.Tolerance > 0 {
		return d.Tolerance
	}
	return d.Bounds.Area() * toleranceScale
}

// MinIter returns 0: stop conditions apply from the first iteration.
func (d Defaults) MinIter() int { return 0 }

// MaxIter returns the configured cap, defaulting to [DefaultMaxIters].
func (d Defaults) MaxIter() int {
	if d.MaxIters > 0 {
		return d.MaxIters
	}
	return DefaultMaxIters
}

// GradientOf returns the family's gradient when it implements
// [Differentiable], else the map step with ∂f/∂c = 1 — exact for the
// z² + c catalogue and the reason plain families still get distance
// estimates.
func GradientOf[S numeric.State[S], P any](f Family[S, P], z S, c P) (next S, dfdz, dfdc numeric.Complex) {
	if d, ok := f.(Differentiable[S, P]); ok {
		return d.Gradient(z, c)
	}
	next, dfdz = f.MapAndMultiplier(z, c)
	return next, dfdz, 1
}

// ParamMapDOf returns ParamMapD when available, else ParamMap with
// derivative 1 (the identity selection).
func ParamMapDOf[S numeric.State[S], P any](f Family[S, P], t numeric.Complex) (P, numeric.Complex) {
	if d, ok := f.(Differentiable[S, P]); ok {
		return d.ParamMapD(t)
	}
	return f.ParamMap(t), 1
}

// StartPointDOf returns StartPointD when available, else StartPoint with
// zero derivatives (a constant start such as a critical point).
func StartPointDOf[S numeric.State[S], P any](f Family[S, P], t numeric.Complex, c P) (z S, dzdt, dzdc numeric.Complex) {
	if d, ok := f.(Differentiable[S, P]); ok {
		return d.StartPointD(t, c)
	}
	return f.StartPoint(t, c), 0, 0
}

// DegreeRealOf resolves the escaping degree, defaulting to 2.
func DegreeRealOf[S numeric.State[S], P any](f Family[S, P]) float64 {
	if e, ok := f.(Escaping[P]); ok {
		return e.DegreeReal()
	}
	return DefaultDegreeReal
}

// EscapingPeriodOf resolves the escaping period, defaulting to 1.
func EscapingPeriodOf[S numeric.State[S], P any](f Family[S, P]) int {
	if e, ok := f.(Escaping[P]); ok {
		return e.EscapingPeriod()
	}
	return DefaultEscapingPeriod
}

// EscapingPhaseOf resolves the escaping phase, defaulting to 1.
func EscapingPhaseOf[S numeric.State[S], P any](f Family[S, P]) int {
	if e, ok := f.(Escaping[P]); ok {
		return e.EscapingPhase()
	}
	return DefaultEscapingPhase
}

// EscapeCoeffOf resolves the leading escape coefficient, defaulting to 1.
func EscapeCoeffOf[S numeric.State[S], P any](f Family[S, P], c P) numeric.Complex {
	if e, ok := f.(Escaping[P]); ok {
		return e.EscapeCoeff(c)
	}
	return 1
}

// EscapeCoeffDOf resolves the escape coefficient and its parameter
// derivative, defaulting to (1, 0).
func EscapeCoeffDOf[S numeric.State[S], P any](f Family[S, P], c P) (numeric.Complex, numeric.Complex) {
	if e, ok := f.(Escaping[P]); ok {
		return e.EscapeCoeffD(c)
	}
	return 1, 0
}
