package orbit

import (
	"math"

	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/numeric"
)

// Potential runs a gradient-tracking Floyd loop over complex states and
// produces a smooth potential together with its plane gradient, the pair
// a hillshade renderer needs. Exterior points get the Green's function
// and its derivative; interior points get a linearizing coordinate —
// Koenigs for attracting cycles, Böttcher for superattracting ones.
type Potential[P any] struct {
	family    dynamics.Family[numeric.Complex, P]
	tolerance float64
	logTol    float64
	maxIter   int
	minIter   int
	radius    float64

	selection numeric.Complex
	param     P
	dcdt      numeric.Complex

	start    numeric.Complex
	slow     numeric.Complex
	fast     numeric.Complex
	dzdtFast numeric.Complex
	dzdtSlow numeric.Complex
	iter     int

	state *dynamics.Result[numeric.Complex]
}

// NewPotential returns a potential engine for the family. Call
// ResetSelection before running.
func NewPotential[P any](f dynamics.Family[numeric.Complex, P]) *Potential[P] {
	tol := f.PeriodicityTolerance()
	return &Potential[P]{
		family:    f,
		tolerance: tol,
		logTol:    math.Log(tol),
		maxIter:   f.MaxIter(),
		minIter:   f.MinIter(),
		radius:    f.EscapeRadius(),
	}
}

// ResetSelection derives the parameter, start point, and their t
// derivatives from a plane selection and resets onto them.
func (p *Potential[P]) ResetSelection(t numeric.Complex) {
	c, dcdt := dynamics.ParamMapDOf(p.family, t)
	z, dzdt, dzdc := dynamics.StartPointDOf(p.family, t, c)
	dzdt += dzdc * dcdt

	p.state = nil
	p.selection = t
	p.param = c
	p.dcdt = dcdt
	p.start = z
	p.slow = z
	p.fast = z
	p.dzdtFast = dzdt
	p.dzdtSlow = dzdt
	p.iter = 0
}

// updateSlow advances the slow iterate and its t derivative through the
// chain rule.
func (p *Potential[P]) updateSlow() {
	f, dfdz, dfdc := dynamics.GradientOf(p.family, p.slow, p.param)
	p.dzdtSlow = dfdz*p.dzdtSlow + dfdc*p.dcdt
	p.slow = f
}

func (p *Potential[P]) updateFast() {
	f, dfdz, dfdc := dynamics.GradientOf(p.family, p.fast, p.param)
	p.dzdtFast = dfdz*p.dzdtFast + dfdc*p.dcdt
	p.fast = f
}

func (p *Potential[P]) enforceStop() bool {
	if p.fast.IsNaN() {
		res := dynamics.Unknown(p.fast)
		p.state = &res
		return true
	}
	if p.iter < p.minIter {
		return false
	}
	if p.iter > p.maxIter {
		res := dynamics.Bounded(p.fast)
		p.state = &res
		return true
	}
	if p.fast.NormSq() > p.radius {
		res := dynamics.Escaped(p.iter, p.fast)
		p.state = &res
		return true
	}
	return false
}

func (p *Potential[P]) checkPeriodicity() {
	if p.enforceStop() {
		return
	}
	err := p.fast.DistSq(p.slow)
	if err >= p.tolerance {
		return
	}
	period, mult, ok := p.confirmPeriod(math.Pow(p.tolerance, 0.75), p.iter)
	if !ok {
		return
	}
	res := dynamics.Periodic(dynamics.CycleInfo{
		Preperiod:  p.iter,
		Period:     period,
		Multiplier: mult,
		FinalError: err,
	}, p.fast)
	p.state = &res
}

func (p *Potential[P]) confirmPeriod(tolerance float64, patience int) (int, numeric.Complex, bool) {
	z := p.fast
	mult := numeric.Complex(1)
	for i := 1; i <= patience; i++ {
		var dz numeric.Complex
		z, dz = p.family.MapAndMultiplier(z, p.param)
		mult *= dz
		if z.DistSq(p.fast) <= tolerance {
			return i, mult, true
		}
	}
	return 0, 0, false
}

// Run drives the orbit to termination and returns the potential and its
// gradient with respect to the selection. ok is false for bounded and
// unknown outcomes, which carry no usable potential.
func (p *Potential[P]) Run() (float64, numeric.Complex, bool) {
	for p.state == nil {
		p.iter++
		if p.iter%2 == 1 {
			p.updateSlow()
			p.updateFast()
			p.enforceStop()
		} else {
			p.updateFast()
			p.checkPeriodicity()
		}
	}

	switch res := *p.state; res.Kind {
	case dynamics.KindEscaped:
		// Green's function per escape step, rescaled so deep iterates
		// stay comparable across the plane.
		rescale := math.Pow(2, -float64(res.Iters))
		green := math.Log(res.Final.Norm()) * rescale
		dgreen := (p.dzdtFast / res.Final).Conj().MulF(rescale)
		return green, dgreen, true
	case dynamics.KindPeriodic:
		multNorm := res.Cycle.Multiplier.Norm()
		if multNorm <= 1e-10 {
			return p.periodicBoettcher(res.Cycle.Period)
		}
		return p.periodicKoenigs(res.Cycle.Period, multNorm)
	default:
		return 0, 0, false
	}
}

// periodicKoenigs linearizes around an attracting cycle: one more turn of
// the cycle contracts the error by the multiplier, so the log-ratio of
// errors locates the point in Koenigs coordinates.
func (p *Potential[P]) periodicKoenigs(period int, multNorm float64) (float64, numeric.Complex, bool) {
	z := p.fast
	dzdt := p.dzdtFast
	for range period {
		p.updateFast()
	}

	err := (p.fast - z).DivF(p.tolerance)
	derrDt := (p.dzdtFast - dzdt).DivF(p.tolerance)

	multNormLog := -math.Log(multNorm)
	value := math.Log(err.Norm()) / multNormLog
	grad := (derrDt / err).Conj().DivF(-multNormLog)
	return value, grad, true
}

// periodicBoettcher handles the superattracting case, where Koenigs
// degenerates: rerun the orbit from the start in lockstep with a copy
// advanced one period, and read the doubly-logarithmic convergence rate.
func (p *Potential[P]) periodicBoettcher(period int) (float64, numeric.Complex, bool) {
	p.ResetSelection(p.selection)
	for range period {
		p.updateFast()
	}
	for p.fast.DistSq(p.slow) > p.tolerance {
		if p.iter > p.maxIter || p.fast.IsNaN() {
			return 0, 0, false
		}
		p.updateSlow()
		p.updateFast()
		p.iter++
	}

	err := p.fast - p.slow
	derrDt := p.dzdtFast - p.dzdtSlow

	normErr := err.NormSq()
	logNormErr := math.Log(normErr)

	phi := math.Log(logNormErr/p.logTol) + float64(p.iter)*math.Ln2
	grad := err * derrDt.DivF(logNormErr*normErr).Conj()
	return phi, grad, true
}
