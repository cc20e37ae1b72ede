// Package orbit implements the engines that run one orbit of a dynamical
// family to a terminal classification.
//
// [Floyd] is the workhorse: a tortoise-and-hare loop that detects cycles
// while watching for escape, with the slow pointer advancing on odd
// iterations only. The interleave is deliberate — checking periodicity on
// every step instead changes which short periods are detectable, so the
// schedule here must not be "simplified".
//
// [Simple] iterates forward with only escape and cap checks, for
// trajectory displays where cycle detection would cut the orbit short.
// [Potential] and [DistanceEstimator] are gradient-tracking variants of
// the Floyd loop that additionally propagate d/dt derivatives through the
// chain rule, feeding smooth shading and exterior distance estimates.
//
// Engines are cheap to construct but designed for reuse: a render worker
// builds one per goroutine and repositions it per pixel with
// ResetSelection. Resetting with identical inputs and re-running yields a
// bit-identical result.
package orbit

import (
	"math"

	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/numeric"
)

// Floyd is the cycle-detecting orbit engine. The exported fields expose
// the live iteration state for step-through inspection; mutate them only
// through Reset.
type Floyd[S numeric.State[S], P any] struct {
	family    dynamics.Family[S, P]
	bailer    dynamics.Bailer[S, P]
	stopper   dynamics.Stopper[S, P]
	tolerance float64
	radius    float64
	minIter   int
	maxIter   int

	// Param and Start are the orbit inputs fixed by the last Reset.
	Param P
	Start S

	// Slow and Fast are the tortoise and hare iterates. Fast advances
	// every iteration, Slow on odd iterations only.
	Slow S
	Fast S

	// Multiplier accumulates the step derivative along the fast orbit.
	Multiplier numeric.Complex

	// Iter counts completed iterations.
	Iter int

	state *dynamics.Result[S]
}

// NewFloyd returns an engine for the family, caching its thresholds and
// discovering its optional capabilities. Call ResetSelection or Reset
// before running.
func NewFloyd[S numeric.State[S], P any](f dynamics.Family[S, P]) *Floyd[S, P] {
	o := &Floyd[S, P]{
		family:    f,
		tolerance: f.PeriodicityTolerance(),
		radius:    f.EscapeRadius(),
		minIter:   f.MinIter(),
		maxIter:   f.MaxIter(),
	}
	if b, ok := f.(dynamics.Bailer[S, P]); ok {
		o.bailer = b
	}
	if s, ok := f.(dynamics.Stopper[S, P]); ok {
		o.stopper = s
	}
	return o
}

// Reset positions the orbit at start z with parameter c, clearing any
// previous result.
func (o *Floyd[S, P]) Reset(c P, z S) {
	o.state = nil
	o.Param = c
	o.Start = z
	o.Slow = z
	o.Fast = z
	o.Multiplier = 1
	o.Iter = 0
}

// ResetSelection derives the parameter and start point from a plane
// selection and resets onto them.
func (o *Floyd[S, P]) ResetSelection(t numeric.Complex) {
	c := o.family.ParamMap(t)
	o.Reset(c, o.family.StartPoint(t, c))
}

// Result returns the terminal outcome, or ok=false while the orbit is
// still running.
func (o *Floyd[S, P]) Result() (dynamics.Result[S], bool) {
	if o.state == nil {
		return dynamics.Result[S]{}, false
	}
	return *o.state, true
}

// Run drives the orbit to termination and returns the outcome. The
// family's early bailout, when present, is consulted once before the
// first iteration.
func (o *Floyd[S, P]) Run() dynamics.Result[S] {
	if o.state == nil && o.Iter == 0 && o.bailer != nil {
		if res, ok := o.bailer.EarlyBailout(o.Start, o.Param); ok {
			o.state = &res
			return res
		}
	}
	for o.state == nil {
		o.advance()
	}
	return *o.state
}

// Step advances the orbit one iteration, bypassing any early bailout so
// callers see the full trajectory. It reports false once a terminal
// result is available.
func (o *Floyd[S, P]) Step() bool {
	if o.state != nil {
		return false
	}
	o.advance()
	return o.state == nil
}

func (o *Floyd[S, P]) advance() {
	o.Iter++
	if o.Iter%2 == 1 {
		o.Slow = o.family.Map(o.Slow, o.Param)
		o.advanceFast()
		o.enforceStop()
	} else {
		o.advanceFast()
		o.checkPeriodicity()
	}
}

func (o *Floyd[S, P]) advanceFast() {
	var dz numeric.Complex
	o.Fast, dz = o.family.MapAndMultiplier(o.Fast, o.Param)
	o.Multiplier *= dz
}

func (o *Floyd[S, P]) terminate(res dynamics.Result[S]) {
	o.state = &res
}

// enforceStop applies the terminal checks to the fast iterate. A NaN
// forces Unknown before anything else: corrupted state must not be
// classified. The remaining checks wait for minIter, cap the orbit as
// Bounded past maxIter, and test escape — through the family's own stop
// condition when it declares one, else against the squared-norm radius.
func (o *Floyd[S, P]) enforceStop() bool {
	if o.Fast.IsNaN() {
		o.terminate(dynamics.Unknown(o.Fast))
		return true
	}
	if o.Iter < o.minIter {
		return false
	}
	if o.Iter > o.maxIter {
		o.terminate(dynamics.Bounded(o.Fast))
		return true
	}
	if o.stopper != nil {
		if res, ok := o.stopper.ExtraStopCondition(o.Fast, o.Param, o.Iter); ok {
			o.terminate(res)
			return true
		}
		return false
	}
	if o.Fast.NormSq() > o.radius {
		o.terminate(dynamics.Escaped(o.Iter, o.Fast))
		return true
	}
	return false
}

// checkPeriodicity runs on even iterations: after the stop checks, a
// fast/slow near-collision triggers period confirmation, and only a
// confirmed period terminates the orbit. An unconfirmed collision is a
// false positive and iteration continues.
func (o *Floyd[S, P]) checkPeriodicity() {
	if o.enforceStop() {
		return
	}
	err := o.Fast.DistSq(o.Slow)
	if err >= o.tolerance {
		return
	}
	period, mult, ok := o.confirmPeriod(math.Pow(o.tolerance, 0.75), o.Iter)
	if !ok {
		return
	}
	o.terminate(dynamics.Periodic(dynamics.CycleInfo{
		Preperiod:  o.Iter,
		Period:     period,
		Multiplier: mult,
		FinalError: err,
	}, o.Fast))
}

// confirmPeriod re-iterates from the fast iterate under a tightened
// tolerance (the 0.75 exponent is tuned, not derived), accumulating a
// fresh multiplier. The patience bound is the current iteration count: a
// genuine cycle must close within as many steps as it took to reach it.
func (o *Floyd[S, P]) confirmPeriod(tolerance float64, patience int) (int, numeric.Complex, bool) {
	z := o.Fast
	mult := numeric.Complex(1)
	for i := 1; i <= patience; i++ {
		var dz numeric.Complex
		z, dz = o.family.MapAndMultiplier(z, o.Param)
		mult *= dz
		if z.DistSq(o.Fast) <= tolerance {
			return i, mult, true
		}
	}
	return 0, 0, false
}

// Trajectory is a fully-run orbit together with every iterate it visited.
type Trajectory[S numeric.State[S], P any] struct {
	Param  P
	Start  S
	Points []S
	Result dynamics.Result[S]
}

// Trace runs a fresh cycle-detecting orbit from the selection and
// records the fast iterate at every step, terminal value included. Early
// bailouts are skipped so the recorded trajectory is complete.
func Trace[S numeric.State[S], P any](f dynamics.Family[S, P], t numeric.Complex) Trajectory[S, P] {
	o := NewFloyd(f)
	o.ResetSelection(t)

	points := []S{o.Fast}
	for o.Step() {
		points = append(points, o.Fast)
	}
	points = append(points, o.Fast)

	res, _ := o.Result()
	return Trajectory[S, P]{
		Param:  o.Param,
		Start:  o.Start,
		Points: points,
		Result: res,
	}
}
