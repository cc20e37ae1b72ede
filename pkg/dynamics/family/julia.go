package family

import (
	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/plane"
)

// childBounded is implemented by parent families that prescribe a view
// rectangle for their dynamical planes.
type childBounded[P any] interface {
	ChildBounds(t numeric.Complex, c P) plane.Bounds
}

// Julia is the dynamical-plane view of a parent family at a fixed
// parameter: orbits start at the selected point and the parameter never
// varies. It satisfies the same contract as its parent, so every orbit
// engine works on it unchanged.
type Julia[P any] struct {
	parent  dynamics.Family[numeric.Complex, P]
	stopper dynamics.Stopper[numeric.Complex, P]
	marked  dynamics.CycleMarked[numeric.Complex, P]
	c       P
	bounds  plane.Bounds
	name    string
}

// NewJulia fixes the parent family's parameter at selection t.
func NewJulia[P any](parent dynamics.Family[numeric.Complex, P], t numeric.Complex) Julia[P] {
	c := parent.ParamMap(t)
	bounds := parent.DefaultBounds()
	if cb, ok := parent.(childBounded[P]); ok {
		bounds = cb.ChildBounds(t, c)
	}
	j := Julia[P]{
		parent: parent,
		c:      c,
		bounds: bounds,
		name:   "Julia(" + parent.Name() + ")",
	}
	j.stopper, _ = parent.(dynamics.Stopper[numeric.Complex, P])
	j.marked, _ = parent.(dynamics.CycleMarked[numeric.Complex, P])
	return j
}

// Name identifies the view, wrapping the parent's name.
func (j Julia[P]) Name() string { return j.name }

// Param returns the fixed parameter of this dynamical plane.
func (j Julia[P]) Param() P { return j.c }

// Map advances z one step under the parent map.
func (j Julia[P]) Map(z numeric.Complex, c P) numeric.Complex {
	return j.parent.Map(z, c)
}

// MapAndMultiplier advances z and returns the parent's multiplier.
func (j Julia[P]) MapAndMultiplier(z numeric.Complex, c P) (numeric.Complex, numeric.Complex) {
	return j.parent.MapAndMultiplier(z, c)
}

// ParamMap is constant: every selection shares the fixed parameter.
func (j Julia[P]) ParamMap(numeric.Complex) P { return j.c }

// StartPoint is the selection itself.
func (j Julia[P]) StartPoint(t numeric.Complex, _ P) numeric.Complex { return t }

// DefaultBounds is the parent's prescribed view for this plane.
func (j Julia[P]) DefaultBounds() plane.Bounds { return j.bounds }

// EscapeRadius matches the parent.
func (j Julia[P]) EscapeRadius() float64 { return j.parent.EscapeRadius() }

// PeriodicityTolerance matches the parent.
func (j Julia[P]) PeriodicityTolerance() float64 { return j.parent.PeriodicityTolerance() }

// MinIter matches the parent.
func (j Julia[P]) MinIter() int { return j.parent.MinIter() }

// MaxIter matches the parent.
func (j Julia[P]) MaxIter() int { return j.parent.MaxIter() }

// Gradient fixes the parameter direction: variation flows only through
// the starting point.
func (j Julia[P]) Gradient(z numeric.Complex, c P) (numeric.Complex, numeric.Complex, numeric.Complex) {
	next, dfdz := j.parent.MapAndMultiplier(z, c)
	return next, dfdz, 0
}

// ParamMapD has zero derivative: the parameter does not vary.
func (j Julia[P]) ParamMapD(numeric.Complex) (P, numeric.Complex) { return j.c, 0 }

// StartPointD is the identity with unit derivative in the selection.
func (j Julia[P]) StartPointD(t numeric.Complex, _ P) (numeric.Complex, numeric.Complex, numeric.Complex) {
	return t, 1, 0
}

// ExtraStopCondition defers to the parent's stop condition, when it has
// one.
func (j Julia[P]) ExtraStopCondition(z numeric.Complex, c P, iter int) (dynamics.Result[numeric.Complex], bool) {
	if j.stopper == nil {
		return dynamics.Result[numeric.Complex]{}, false
	}
	return j.stopper.ExtraStopCondition(z, c, iter)
}

// DegreeReal matches the parent's first return map at infinity.
func (j Julia[P]) DegreeReal() float64 { return dynamics.DegreeRealOf(j.parent) }

// EscapingPeriod matches the parent.
func (j Julia[P]) EscapingPeriod() int { return dynamics.EscapingPeriodOf(j.parent) }

// EscapingPhase is 0 on dynamical planes: a large selection is already
// a large starting value.
func (j Julia[P]) EscapingPhase() int { return 0 }

// EscapeCoeff matches the parent at the fixed parameter.
func (j Julia[P]) EscapeCoeff(c P) numeric.Complex {
	return dynamics.EscapeCoeffOf(j.parent, c)
}

// EscapeCoeffD has zero derivative: the parameter does not vary.
func (j Julia[P]) EscapeCoeffD(c P) (numeric.Complex, numeric.Complex) {
	return dynamics.EscapeCoeffOf(j.parent, c), 0
}

// MarkedCycles is empty: the parameter plane of a Julia view is a
// single point.
func (j Julia[P]) MarkedCycles(int) []P { return nil }

// PeriodicPoints returns the parent's periodic points at the fixed
// parameter.
func (j Julia[P]) PeriodicPoints(c P, period int) []numeric.Complex {
	if j.marked == nil {
		return nil
	}
	return j.marked.PeriodicPoints(c, period)
}

// EncodeOrbit defers to the parent's encoding, preserving any
// family-specific overrides.
func (j Julia[P]) EncodeOrbit(res dynamics.Result[numeric.Complex], start numeric.Complex, c P) dynamics.PointInfo {
	return dynamics.EncodeOrbit(j.parent, res, start, c)
}

var (
	_ dynamics.ComplexFamily                                    = Julia[numeric.Complex]{}
	_ dynamics.Differentiable[numeric.Complex, numeric.Complex] = Julia[numeric.Complex]{}
	_ dynamics.Escaping[numeric.Complex]                        = Julia[numeric.Complex]{}
)
