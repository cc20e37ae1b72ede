package orbit

import (
	"math"

	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/numeric"
)

// DistanceEstimator runs the Floyd loop while propagating the orbit's
// t derivative alongside the multiplier. For escaping points the two
// accumulators yield the exterior distance estimate
//
//	distance ≈ |z|·ln|z| / |dz/dt|
//
// evaluated at the escape step; every other outcome falls back to the
// standard encoding.
type DistanceEstimator[S numeric.State[S], P any] struct {
	family    dynamics.Family[S, P]
	bailer    dynamics.Bailer[S, P]
	stopper   dynamics.Stopper[S, P]
	tolerance float64
	radius    float64
	minIter   int
	maxIter   int
	period    int

	param P
	dcdt  numeric.Complex

	start      S
	slow       S
	fast       S
	multiplier numeric.Complex
	dzdt       numeric.Complex
	iter       int

	state *dynamics.Result[S]
}

// NewDistanceEstimator returns a distance-estimating engine for the
// family. Call ResetSelection before running.
func NewDistanceEstimator[S numeric.State[S], P any](f dynamics.Family[S, P]) *DistanceEstimator[S, P] {
	d := &DistanceEstimator[S, P]{
		family:    f,
		tolerance: f.PeriodicityTolerance(),
		radius:    f.EscapeRadius(),
		minIter:   f.MinIter(),
		maxIter:   f.MaxIter(),
		period:    dynamics.EscapingPeriodOf(f),
	}
	if b, ok := f.(dynamics.Bailer[S, P]); ok {
		d.bailer = b
	}
	if s, ok := f.(dynamics.Stopper[S, P]); ok {
		d.stopper = s
	}
	return d
}

// ResetSelection derives the parameter, start point, and their t
// derivatives from a plane selection and resets onto them.
func (d *DistanceEstimator[S, P]) ResetSelection(t numeric.Complex) {
	c, dcdt := dynamics.ParamMapDOf(d.family, t)
	z, dzdt, dzdc := dynamics.StartPointDOf(d.family, t, c)
	dzdt += dzdc * dcdt

	d.state = nil
	d.param = c
	d.dcdt = dcdt
	d.start = z
	d.slow = z
	d.fast = z
	d.multiplier = 1
	d.dzdt = dzdt
	d.iter = 0
}

// advanceFast steps the fast iterate, folding the step derivatives into
// both accumulators.
func (d *DistanceEstimator[S, P]) advanceFast() {
	f, dfdz, dfdc := dynamics.GradientOf(d.family, d.fast, d.param)
	d.multiplier *= dfdz
	d.dzdt = dfdz*d.dzdt + dfdc*d.dcdt
	d.fast = f
}

func (d *DistanceEstimator[S, P]) enforceStop() bool {
	if d.fast.IsNaN() {
		res := dynamics.Unknown(d.fast)
		d.state = &res
		return true
	}
	if d.iter < d.minIter {
		return false
	}
	if d.iter > d.maxIter {
		res := dynamics.Bounded(d.fast)
		d.state = &res
		return true
	}
	if d.stopper != nil {
		if res, ok := d.stopper.ExtraStopCondition(d.fast, d.param, d.iter); ok {
			d.state = &res
			return true
		}
		return false
	}
	if d.fast.NormSq() > d.radius {
		res := dynamics.Escaped(d.iter, d.fast)
		d.state = &res
		return true
	}
	return false
}

func (d *DistanceEstimator[S, P]) checkPeriodicity() {
	if d.enforceStop() {
		return
	}
	err := d.fast.DistSq(d.slow)
	if err >= d.tolerance {
		return
	}
	period, mult, ok := d.confirmPeriod(math.Pow(d.tolerance, 0.75), d.iter)
	if !ok {
		return
	}
	res := dynamics.Periodic(dynamics.CycleInfo{
		Preperiod:  d.iter,
		Period:     period,
		Multiplier: mult,
		FinalError: err,
	}, d.fast)
	d.state = &res
}

func (d *DistanceEstimator[S, P]) confirmPeriod(tolerance float64, patience int) (int, numeric.Complex, bool) {
	z := d.fast
	mult := numeric.Complex(1)
	for i := 1; i <= patience; i++ {
		var dz numeric.Complex
		z, dz = d.family.MapAndMultiplier(z, d.param)
		mult *= dz
		if z.DistSq(d.fast) <= tolerance {
			return i, mult, true
		}
	}
	return 0, 0, false
}

// Run drives the orbit to termination and returns the encoded point:
// escaping points carry the distance estimate and escape phase, all
// others the standard classification.
func (d *DistanceEstimator[S, P]) Run() dynamics.PointInfo {
	if d.state == nil && d.iter == 0 && d.bailer != nil {
		if res, ok := d.bailer.EarlyBailout(d.start, d.param); ok {
			return dynamics.EncodeResult(d.family, res, d.param)
		}
	}
	for d.state == nil {
		d.iter++
		if d.iter%2 == 1 {
			d.slow = d.family.Map(d.slow, d.param)
			d.advanceFast()
			d.enforceStop()
		} else {
			d.advanceFast()
			d.checkPeriodicity()
		}
	}

	res := *d.state
	if res.Kind == dynamics.KindEscaped {
		normZ := math.Sqrt(res.Final.NormSq())
		return dynamics.PointInfo{
			Class:    dynamics.ClassDistanceEstimate,
			Distance: normZ * math.Log(normZ) / d.dzdt.Norm(),
			Phase:    res.Iters % d.period,
		}
	}
	return dynamics.EncodeResult(d.family, res, d.param)
}
