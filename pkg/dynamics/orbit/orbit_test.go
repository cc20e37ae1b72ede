package orbit_test

import (
	"math"
	"testing"

	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/dynamics/orbit"
	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/plane"
)

// quad is the z² + c parameter plane, the smallest family that exercises
// every engine path. Starting from the critical point 0 keeps the low
// cycles exactly representable, so several tests can assert equality
// rather than closeness.
type quad struct{ dynamics.Defaults }

func newQuad() quad {
	return quad{dynamics.Defaults{Bounds: plane.CenteredSquare(2.2), Tolerance: 1e-14}}
}

func (quad) Name() string { return "quad" }

func (quad) Map(z, c numeric.Complex) numeric.Complex { return z*z + c }

func (quad) MapAndMultiplier(z, c numeric.Complex) (numeric.Complex, numeric.Complex) {
	return z*z + c, 2 * z
}

func (quad) ParamMap(t numeric.Complex) numeric.Complex { return t }

func (quad) StartPoint(t, c numeric.Complex) numeric.Complex { return 0 }

// squaring is the dynamical plane of z²: the selection is the start
// point, and a minimum-iteration gate delays the stop checks.
type squaring struct {
	quad
	minIter int
}

func (s squaring) ParamMap(t numeric.Complex) numeric.Complex { return 0 }

func (s squaring) StartPoint(t, c numeric.Complex) numeric.Complex { return t }

func (s squaring) MinIter() int { return s.minIter }

// capped stops every orbit as Bounded at a fixed iteration, standing in
// for families that replace the norm-based escape test.
type capped struct {
	quad
	at int
}

func (s capped) ExtraStopCondition(z, c numeric.Complex, iter int) (dynamics.Result[numeric.Complex], bool) {
	if iter >= s.at {
		return dynamics.Bounded(z), true
	}
	return dynamics.Result[numeric.Complex]{}, false
}

// bailing classifies small parameters in closed form without iterating.
type bailing struct{ quad }

func (bailing) EarlyBailout(start, c numeric.Complex) (dynamics.Result[numeric.Complex], bool) {
	if c.NormSq() < 0.0625 {
		return dynamics.KnownPotential[numeric.Complex](1, 0.5, 0.3), true
	}
	return dynamics.Result[numeric.Complex]{}, false
}

func TestFloydDetectsTwoCycle(t *testing.T) {
	// c = -1: the critical orbit 0 → -1 → 0 is exact in floating point,
	// so detection fires at iteration 4 with multiplier f'(0)·f'(-1) = 0.
	var fam dynamics.ComplexFamily = newQuad()
	o := orbit.NewFloyd(fam)
	o.ResetSelection(-1)

	res := o.Run()
	if res.Kind != dynamics.KindPeriodic {
		t.Fatalf("Kind = %v, want periodic", res.Kind)
	}
	if res.Cycle.Period != 2 {
		t.Errorf("Period = %d, want 2", res.Cycle.Period)
	}
	if res.Cycle.Multiplier != 0 {
		t.Errorf("Multiplier = %v, want 0", res.Cycle.Multiplier)
	}
	if res.Cycle.Preperiod != 4 {
		t.Errorf("Preperiod = %d, want 4", res.Cycle.Preperiod)
	}
	if res.Cycle.FinalError != 0 {
		t.Errorf("FinalError = %v, want 0", res.Cycle.FinalError)
	}
}

func TestFloydEscape(t *testing.T) {
	// c = 2: the critical orbit 0, 2, 6, 38, 1446, 2090918 crosses the
	// default squared radius 1e12 on the fifth step.
	var fam dynamics.ComplexFamily = newQuad()
	o := orbit.NewFloyd(fam)
	o.ResetSelection(2)

	res := o.Run()
	if res.Kind != dynamics.KindEscaped {
		t.Fatalf("Kind = %v, want escaped", res.Kind)
	}
	if res.Iters != 5 {
		t.Errorf("Iters = %d, want 5", res.Iters)
	}
	if res.Final != 2090918 {
		t.Errorf("Final = %v, want 2090918", res.Final)
	}

	info := dynamics.EncodeResult(fam, res, o.Param)
	if info.Class != dynamics.ClassEscaping {
		t.Fatalf("Class = %v, want escaping", info.Class)
	}
	if math.Abs(info.Potential-4.924961) > 1e-5 {
		t.Errorf("Potential = %v, want ≈4.924961", info.Potential)
	}
}

func TestFloydAttractingFixedPoint(t *testing.T) {
	// c = -0.1 lies in the main cardioid; the attracting fixed point is
	// (1-√1.4)/2 with multiplier 1-√1.4.
	var fam dynamics.ComplexFamily = newQuad()
	o := orbit.NewFloyd(fam)
	o.ResetSelection(-0.1)

	res := o.Run()
	if res.Kind != dynamics.KindPeriodic {
		t.Fatalf("Kind = %v, want periodic", res.Kind)
	}
	if res.Cycle.Period != 1 {
		t.Errorf("Period = %d, want 1", res.Cycle.Period)
	}
	want := 1 - math.Sqrt(1.4)
	if math.Abs(res.Cycle.Multiplier.Real()-want) > 1e-9 || math.Abs(res.Cycle.Multiplier.Imag()) > 1e-9 {
		t.Errorf("Multiplier = %v, want %v", res.Cycle.Multiplier, want)
	}
}

func TestFloydParabolicBounded(t *testing.T) {
	// c = 1/4 converges to the parabolic fixed point 1/2 at rate 1/n,
	// far too slowly for the tolerance: the orbit runs into the cap.
	q := newQuad()
	q.MaxIters = 100
	var fam dynamics.ComplexFamily = q
	o := orbit.NewFloyd(fam)
	o.ResetSelection(0.25)

	res := o.Run()
	if res.Kind != dynamics.KindBounded {
		t.Fatalf("Kind = %v, want bounded", res.Kind)
	}
	if res.Final.NormSq() > 1 {
		t.Errorf("Final = %v, want near the fixed point 1/2", res.Final)
	}
}

func TestFloydNaNIsUnknown(t *testing.T) {
	var fam dynamics.ComplexFamily = newQuad()
	o := orbit.NewFloyd(fam)
	o.ResetSelection(numeric.NaN())

	res := o.Run()
	if res.Kind != dynamics.KindUnknown {
		t.Fatalf("Kind = %v, want unknown", res.Kind)
	}
	if !res.Final.IsNaN() {
		t.Errorf("Final = %v, want NaN", res.Final)
	}
}

func TestFloydMinIterDefersEscape(t *testing.T) {
	// Start at 1e7 under z²: the very first iterate is past the radius,
	// but the gate holds the stop checks back until iteration 4.
	var fam dynamics.ComplexFamily = squaring{quad: newQuad(), minIter: 4}
	o := orbit.NewFloyd(fam)
	o.ResetSelection(1e7)

	res := o.Run()
	if res.Kind != dynamics.KindEscaped {
		t.Fatalf("Kind = %v, want escaped", res.Kind)
	}
	if res.Iters != 4 {
		t.Errorf("Iters = %d, want 4", res.Iters)
	}
}

func TestFloydExtraStopCondition(t *testing.T) {
	// The override fires at iteration 3, before c = 2 would escape on
	// its own.
	var fam dynamics.ComplexFamily = capped{quad: newQuad(), at: 3}
	o := orbit.NewFloyd(fam)
	o.ResetSelection(2)

	res := o.Run()
	if res.Kind != dynamics.KindBounded {
		t.Fatalf("Kind = %v, want bounded", res.Kind)
	}
	if res.Final != 38 {
		t.Errorf("Final = %v, want 38 (third iterate)", res.Final)
	}
}

func TestFloydEarlyBailout(t *testing.T) {
	var fam dynamics.ComplexFamily = bailing{quad: newQuad()}
	o := orbit.NewFloyd(fam)
	o.ResetSelection(0.1)

	res := o.Run()
	if res.Kind != dynamics.KindKnownPotential {
		t.Fatalf("Kind = %v, want known-potential", res.Kind)
	}
	if o.Iter != 0 {
		t.Errorf("Iter = %d, want 0: bailout must precede iteration", o.Iter)
	}

	// Trace bypasses the bailout and sees the true orbit.
	tr := orbit.Trace(fam, 0.1)
	if tr.Result.Kind != dynamics.KindPeriodic {
		t.Errorf("traced Kind = %v, want periodic", tr.Result.Kind)
	}
}

func TestFloydResetDeterminism(t *testing.T) {
	var fam dynamics.ComplexFamily = newQuad()
	o := orbit.NewFloyd(fam)

	if _, ok := o.Result(); ok {
		t.Fatal("Result reported ok before any run")
	}

	o.ResetSelection(-1)
	first := o.Run()

	// Interleave an unrelated orbit, then rerun the same selection.
	o.ResetSelection(2)
	o.Run()

	o.ResetSelection(-1)
	if o.Iter != 0 || o.Multiplier != 1 {
		t.Fatalf("Reset left Iter = %d, Multiplier = %v", o.Iter, o.Multiplier)
	}
	second := o.Run()

	if first != second {
		t.Errorf("rerun diverged:\n first = %+v\nsecond = %+v", first, second)
	}
}

func TestTraceTwoCycle(t *testing.T) {
	var fam dynamics.ComplexFamily = newQuad()
	tr := orbit.Trace(fam, -1)

	want := []numeric.Complex{0, -1, 0, -1, 0}
	if len(tr.Points) != len(want) {
		t.Fatalf("len(Points) = %d, want %d", len(tr.Points), len(want))
	}
	for i, z := range want {
		if tr.Points[i] != z {
			t.Errorf("Points[%d] = %v, want %v", i, tr.Points[i], z)
		}
	}
	if tr.Result.Kind != dynamics.KindPeriodic {
		t.Errorf("Result.Kind = %v, want periodic", tr.Result.Kind)
	}
	if last := tr.Points[len(tr.Points)-1]; last != tr.Result.Final {
		t.Errorf("last point %v != final state %v", last, tr.Result.Final)
	}
}

func TestSimpleEscape(t *testing.T) {
	var fam dynamics.ComplexFamily = newQuad()
	s := orbit.NewSimple(fam, 2)

	points := s.Points()
	want := []numeric.Complex{0, 2, 6, 38, 1446, 2090918}
	if len(points) != len(want) {
		t.Fatalf("len(points) = %d, want %d", len(points), len(want))
	}
	for i, z := range want {
		if points[i] != z {
			t.Errorf("points[%d] = %v, want %v", i, points[i], z)
		}
	}

	res, ok := s.Result()
	if !ok || res.Kind != dynamics.KindEscaped {
		t.Fatalf("Result = %+v, ok = %v, want escaped", res, ok)
	}
	if res.Iters != 5 {
		t.Errorf("Iters = %d, want 5 (same count as the cycle detector)", res.Iters)
	}
}

func TestSimpleNeverDetectsCycles(t *testing.T) {
	// Simple follows the 2-cycle at c = -1 to the iteration cap instead
	// of stopping at first return.
	q := newQuad()
	q.MaxIters = 8
	var fam dynamics.ComplexFamily = q
	s := orbit.NewSimple(fam, -1)

	points := s.Points()
	if len(points) != 9 {
		t.Fatalf("len(points) = %d, want 9", len(points))
	}
	for i, z := range points {
		var want numeric.Complex
		if i%2 == 1 {
			want = -1
		}
		if z != want {
			t.Errorf("points[%d] = %v, want %v", i, z, want)
		}
	}

	res, ok := s.Result()
	if !ok || res.Kind != dynamics.KindBounded {
		t.Fatalf("Result = %+v, ok = %v, want bounded", res, ok)
	}
}

func TestPotentialExterior(t *testing.T) {
	// Green's function at c = 2: ln|z₅|·2⁻⁵ with z₅ = 2090918, and its
	// gradient from the accumulated dz/dc chain.
	var fam dynamics.ComplexFamily = newQuad()
	p := orbit.NewPotential(fam)
	p.ResetSelection(2)

	green, dgreen, ok := p.Run()
	if !ok {
		t.Fatal("Run reported no potential for an escaping point")
	}
	if math.Abs(green-0.4547848) > 1e-6 {
		t.Errorf("green = %v, want ≈0.4547848", green)
	}
	if math.Abs(dgreen.Real()-0.2004234) > 1e-6 || math.Abs(dgreen.Imag()) > 1e-12 {
		t.Errorf("dgreen = %v, want ≈0.2004234", dgreen)
	}
}

func TestPotentialInteriorKoenigs(t *testing.T) {
	var fam dynamics.ComplexFamily = newQuad()
	p := orbit.NewPotential(fam)
	p.ResetSelection(-0.1)

	value, grad, ok := p.Run()
	if !ok {
		t.Fatal("Run reported no potential for an interior point")
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		t.Errorf("value = %v, want finite", value)
	}
	if grad.IsNaN() {
		t.Errorf("grad = %v, want numeric", grad)
	}
}

func TestPotentialInteriorBoettcherCenter(t *testing.T) {
	// At the exact center c = -1 the start point lies on the cycle:
	// the Böttcher depth is infinite.
	var fam dynamics.ComplexFamily = newQuad()
	p := orbit.NewPotential(fam)
	p.ResetSelection(-1)

	value, _, ok := p.Run()
	if !ok {
		t.Fatal("Run reported no potential at a superattracting center")
	}
	if !math.IsInf(value, 1) {
		t.Errorf("value = %v, want +Inf at the cycle itself", value)
	}
}

func TestPotentialBoundedHasNone(t *testing.T) {
	q := newQuad()
	q.MaxIters = 100
	var fam dynamics.ComplexFamily = q
	p := orbit.NewPotential(fam)
	p.ResetSelection(0.25)

	if _, _, ok := p.Run(); ok {
		t.Error("Run reported a potential for a bounded, cycle-free orbit")
	}
}

func TestDistanceEstimatorExterior(t *testing.T) {
	// distance = |z|·ln|z| / |dz/dc| at the escape step for c = 2.
	var fam dynamics.ComplexFamily = newQuad()
	d := orbit.NewDistanceEstimator(fam)
	d.ResetSelection(2)

	info := d.Run()
	if info.Class != dynamics.ClassDistanceEstimate {
		t.Fatalf("Class = %v, want distance-estimate", info.Class)
	}
	if math.Abs(info.Distance-2.2691202) > 1e-6 {
		t.Errorf("Distance = %v, want ≈2.2691202", info.Distance)
	}
	if info.Phase != 0 {
		t.Errorf("Phase = %d, want 0", info.Phase)
	}
}

func TestDistanceEstimatorInteriorFallsBack(t *testing.T) {
	var fam dynamics.ComplexFamily = newQuad()
	d := orbit.NewDistanceEstimator(fam)
	d.ResetSelection(-1)

	info := d.Run()
	if info.Class != dynamics.ClassPeriodic {
		t.Fatalf("Class = %v, want periodic", info.Class)
	}
	if info.Cycle.Period != 2 {
		t.Errorf("Period = %d, want 2", info.Cycle.Period)
	}
}
