package family_test

import (
	"math"
	"testing"

	"github.com/matzehuels/fatou/pkg/cache"
	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/dynamics/family"
	"github.com/matzehuels/fatou/pkg/dynamics/orbit"
	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/numeric/qring"
	"github.com/matzehuels/fatou/pkg/plane"
)

// advance iterates z² + c n times from z.
func advance(z, c numeric.Complex, n int) numeric.Complex {
	for i := 0; i < n; i++ {
		z = z*z + c
	}
	return z
}

// containsRoot reports whether some root lies within 1e-8 of want.
func containsRoot(roots []numeric.Complex, want numeric.Complex) bool {
	for _, r := range roots {
		if r.DistSq(want) < 1e-16 {
			return true
		}
	}
	return false
}

func TestMandelbrotCardioidBailout(t *testing.T) {
	// c = -0.2+0.1i lies in the main cardioid: the closed-form test
	// classifies it without iterating, with multiplier 1-√(1-4c).
	fam := family.NewMandelbrot()

	res, ok := fam.EarlyBailout(0, numeric.Complex(complex(-0.2, 0.1)))
	if !ok {
		t.Fatal("EarlyBailout missed a cardioid interior point")
	}
	if res.Kind != dynamics.KindKnownPotential {
		t.Fatalf("Kind = %v, want known-potential", res.Kind)
	}
	if res.Cycle.Period != 1 {
		t.Errorf("Period = %d, want 1", res.Cycle.Period)
	}
	want := numeric.Complex(complex(-0.34979792773929264, 0.14817032675029349))
	if res.Cycle.Multiplier.DistSq(want) > 1e-24 {
		t.Errorf("Multiplier = %v, want %v", res.Cycle.Multiplier, want)
	}
	if math.Abs(res.Potential-24.487625494128523) > 1e-9 {
		t.Errorf("Potential = %v, want ≈24.4876255", res.Potential)
	}
}

func TestMandelbrotBasilicaBailout(t *testing.T) {
	// c = -1.05+0.02i lies in the period-2 bulb, where the cycle
	// multiplier is 4c+4.
	fam := family.NewMandelbrot()

	res, ok := fam.EarlyBailout(0, numeric.Complex(complex(-1.05, 0.02)))
	if !ok {
		t.Fatal("EarlyBailout missed a period-2 bulb point")
	}
	if res.Kind != dynamics.KindKnownPotential {
		t.Fatalf("Kind = %v, want known-potential", res.Kind)
	}
	if res.Cycle.Period != 2 {
		t.Errorf("Period = %d, want 2", res.Cycle.Period)
	}
	want := numeric.Complex(complex(-0.2, 0.08))
	if res.Cycle.Multiplier.DistSq(want) > 1e-24 {
		t.Errorf("Multiplier = %v, want %v", res.Cycle.Multiplier, want)
	}
	if math.Abs(res.Potential-24.062890363826508) > 1e-9 {
		t.Errorf("Potential = %v, want ≈24.0628904", res.Potential)
	}
}

func TestMandelbrotBailoutMissesExterior(t *testing.T) {
	// The cusp c = 0.25 sits on the cardioid boundary and must iterate;
	// the others are plainly outside both components.
	fam := family.NewMandelbrot()
	for _, c := range []numeric.Complex{0.3, 0.25, -2.5} {
		if _, ok := fam.EarlyBailout(0, c); ok {
			t.Errorf("EarlyBailout(%v) fired outside the known interior", c)
		}
	}
}

func TestMandelbrotMarkedCycles(t *testing.T) {
	fam := family.NewMandelbrot()

	counts := map[int]int{1: 1, 2: 1, 3: 3, 4: 6, 5: 15}
	for period, want := range counts {
		centers := fam.MarkedCycles(period)
		if len(centers) != want {
			t.Fatalf("MarkedCycles(%d) returned %d centers, want %d", period, len(centers), want)
		}
		// Every center's critical orbit returns exactly to 0.
		for _, c := range centers {
			if got := advance(0, c, period).NormSq(); got > 1e-12 {
				t.Errorf("period-%d center %v: |f^%d(0)|² = %v, want 0", period, c, period, got)
			}
		}
	}

	// Period 3: the airplane and the two rabbits.
	three := fam.MarkedCycles(3)
	for _, want := range []numeric.Complex{
		-1.7548776662466925,
		numeric.Complex(complex(-0.12256116687665362, 0.7448617666197442)),
		numeric.Complex(complex(-0.12256116687665362, -0.7448617666197442)),
	} {
		if !containsRoot(three, want) {
			t.Errorf("MarkedCycles(3) missing center near %v: got %v", want, three)
		}
	}

	// Period 4 centers have exact period 4, not a divisor.
	for _, c := range fam.MarkedCycles(4) {
		if advance(0, c, 2).NormSq() < 0.01 {
			t.Errorf("period-4 center %v has period ≤ 2", c)
		}
	}

	if fam.MarkedCycles(6) != nil {
		t.Error("MarkedCycles(6) should have no stored table")
	}
}

func TestMandelbrotPeriodicPoints(t *testing.T) {
	fam := family.NewMandelbrot()
	c := numeric.Complex(complex(-0.1, 0.2))

	counts := map[int]int{1: 2, 2: 2, 3: 6, 4: 12}
	for period, want := range counts {
		points := fam.PeriodicPoints(c, period)
		if len(points) != want {
			t.Fatalf("PeriodicPoints(%d) returned %d points, want %d", period, len(points), want)
		}
		for _, z := range points {
			if got := advance(z, c, period).DistSq(z); got > 1e-16 {
				t.Errorf("period-%d point %v: |f^%d(z)-z|² = %v, want 0", period, z, period, got)
			}
		}
	}

	// The dynatomic solutions have exact period, no divisors.
	for _, z := range fam.PeriodicPoints(c, 3) {
		if advance(z, c, 1).DistSq(z) < 0.25 {
			t.Errorf("period-3 point %v is a fixed point", z)
		}
	}
	for _, z := range fam.PeriodicPoints(c, 4) {
		if advance(z, c, 2).DistSq(z) < 0.25 {
			t.Errorf("period-4 point %v has period ≤ 2", z)
		}
	}

	if fam.PeriodicPoints(c, 5) != nil {
		t.Error("PeriodicPoints(5) should have no stored table")
	}
}

// newBasilicaJulia fixes the Mandelbrot parameter at -1.
func newBasilicaJulia(parent dynamics.ComplexFamily) family.Julia[numeric.Complex] {
	return family.NewJulia(parent, -1)
}

func TestJuliaFixesParameter(t *testing.T) {
	var parent dynamics.ComplexFamily = family.NewMandelbrot()
	j := newBasilicaJulia(parent)

	if j.Name() != "Julia(Mandelbrot)" {
		t.Errorf("Name = %q", j.Name())
	}
	if got := j.ParamMap(numeric.Complex(complex(2, 3))); got != -1 {
		t.Errorf("ParamMap = %v, want the fixed parameter -1", got)
	}
	sel := numeric.Complex(complex(0.3, -0.2))
	if got := j.StartPoint(sel, j.Param()); got != sel {
		t.Errorf("StartPoint = %v, want the selection %v", got, sel)
	}
	if got := j.DefaultBounds(); got != plane.CenteredSquare(2.2) {
		t.Errorf("DefaultBounds = %+v, want the parent's child view", got)
	}
	if j.EscapingPhase() != 0 {
		t.Errorf("EscapingPhase = %d, want 0 on a dynamical plane", j.EscapingPhase())
	}
	if j.EscapeRadius() != parent.EscapeRadius() {
		t.Errorf("EscapeRadius = %v, want the parent's %v", j.EscapeRadius(), parent.EscapeRadius())
	}
	if j.MarkedCycles(3) != nil {
		t.Error("MarkedCycles on a dynamical plane should be empty")
	}

	// The basilica two-cycle {0, -1} comes from the parent's tables.
	points := j.PeriodicPoints(j.Param(), 2)
	if len(points) != 2 || !containsRoot(points, 0) || !containsRoot(points, -1) {
		t.Errorf("PeriodicPoints(2) = %v, want {0, -1}", points)
	}
}

func TestJuliaOrbit(t *testing.T) {
	var parent dynamics.ComplexFamily = family.NewMandelbrot()
	var j dynamics.ComplexFamily = newBasilicaJulia(parent)
	o := orbit.NewFloyd(j)

	// The selection 0 starts on the superattracting cycle 0 → -1.
	o.ResetSelection(0)
	res := o.Run()
	if res.Kind != dynamics.KindPeriodic {
		t.Fatalf("Kind = %v, want periodic", res.Kind)
	}
	if res.Cycle.Period != 2 || res.Cycle.Multiplier != 0 {
		t.Errorf("cycle = %+v, want period 2 with multiplier 0", res.Cycle)
	}

	// The selection 3 escapes on the fifth step under the parent's
	// radius; encoding runs through the parent's escape-time formula.
	o.ResetSelection(3)
	res = o.Run()
	if res.Kind != dynamics.KindEscaped {
		t.Fatalf("Kind = %v, want escaped", res.Kind)
	}
	if res.Iters != 5 {
		t.Errorf("Iters = %d, want 5", res.Iters)
	}
	info := dynamics.EncodeOrbit(j, res, o.Start, o.Param)
	if info.Class != dynamics.ClassEscaping {
		t.Fatalf("Class = %v, want escaping", info.Class)
	}
	if math.Abs(info.Potential-4.853015334590778) > 1e-9 {
		t.Errorf("Potential = %v, want ≈4.8530153", info.Potential)
	}
}

func TestBiquadraticAlternatesPlanes(t *testing.T) {
	fam := family.NewBiquadratic(-0.3)
	c := fam.ParamMap(0.2)
	if c.A != 0.2 || c.B != -0.3 {
		t.Fatalf("ParamMap = %+v, want {0.2 -0.3}", c)
	}

	z := fam.StartPoint(0.2, c)
	if z.Plane != numeric.PlaneA || z.Value != 0 {
		t.Fatalf("StartPoint = %+v, want 0 on plane A", z)
	}

	z = fam.Map(z, c)
	if z.Plane != numeric.PlaneB || z.Value != 0.2 {
		t.Errorf("first half-step = %+v, want 0.2 on plane B", z)
	}
	z, mult := fam.MapAndMultiplier(z, c)
	if z.Plane != numeric.PlaneA || z.Value.DistSq(-0.26) > 1e-30 {
		t.Errorf("second half-step = %+v, want -0.26 on plane A", z)
	}
	if mult != 0.4 {
		t.Errorf("multiplier = %v, want 2·0.2", mult)
	}
}

func TestBiquadraticZeroOrbit(t *testing.T) {
	// With both increments zero the orbit pins 0, alternating planes
	// each half-step. The two-cycle closes only when the tortoise and
	// hare land on the same chart, so detection fires at iteration 4.
	var fam dynamics.Family[numeric.Bicomplex, numeric.Pair] = family.NewBiquadratic(0)
	o := orbit.NewFloyd(fam)
	o.Reset(numeric.Pair{}, numeric.Bicomplex{})

	res := o.Run()
	if res.Kind != dynamics.KindPeriodic {
		t.Fatalf("Kind = %v, want periodic", res.Kind)
	}
	if res.Cycle.Period != 2 || res.Cycle.Preperiod != 4 {
		t.Errorf("cycle = %+v, want period 2 at iteration 4", res.Cycle)
	}
	if res.Cycle.Multiplier != 0 || res.Cycle.FinalError != 0 {
		t.Errorf("cycle = %+v, want exact superattracting detection", res.Cycle)
	}
}

func TestBiquadraticEscapeEncoding(t *testing.T) {
	fam := family.NewBiquadratic(0.1)
	c := fam.ParamMap(0.2)

	// Half-steps count half an iteration against the degree-4 cycle.
	info := fam.EncodeEscaping(7, numeric.InA(1e8), c)
	if info.Class != dynamics.ClassEscaping {
		t.Fatalf("Class = %v, want escaping", info.Class)
	}
	if math.Abs(info.Potential-6.792481250360578) > 1e-12 {
		t.Errorf("Potential = %v, want ≈6.7924813", info.Potential)
	}

	// A NaN iterate encodes as one step before the blowup.
	info = fam.EncodeEscaping(7, numeric.InA(numeric.NaN()), c)
	if info.Potential != 6 {
		t.Errorf("NaN Potential = %v, want 6", info.Potential)
	}
}

func TestGaussianMandelMap(t *testing.T) {
	fam := family.NewGaussianMandel(qring.NewGaussian(3, 2), nil)

	z := qring.NewGaussian(2, 1)
	c := qring.NewGaussian(1, 0)
	if got, want := fam.Map(z, c), qring.NewGaussian(-2, 0); got != want {
		t.Errorf("Map = %v, want %v", got, want)
	}
	_, mult := fam.MapAndMultiplier(z, c)
	if mult != 1 {
		t.Errorf("multiplier = %v, want 2z reduced to 1", mult)
	}
}

func TestGaussianMandelMemoizedOrbit(t *testing.T) {
	memo := cache.NewShardedMap[family.OrbitKey[qring.Gaussian], dynamics.Result[qring.Gaussian]]()
	var fam dynamics.Family[qring.Gaussian, qring.Gaussian] =
		family.NewGaussianMandel(qring.NewGaussian(3, 2), memo)

	start := qring.NewGaussian(-2, -2)
	c := qring.NewGaussian(0, 2)

	// First run iterates: the orbit falls onto the two-cycle
	// {-2, 1} with raw multiplier (2·1)(2·(-2) mod M) = 2-2i.
	o := orbit.NewFloyd(fam)
	o.Reset(c, start)
	res := o.Run()
	if res.Kind != dynamics.KindPeriodic {
		t.Fatalf("Kind = %v, want periodic", res.Kind)
	}
	if res.Cycle.Period != 2 || res.Cycle.Preperiod != 4 {
		t.Errorf("cycle = %+v, want period 2 at iteration 4", res.Cycle)
	}
	if res.Cycle.Multiplier != numeric.Complex(complex(2, -2)) {
		t.Errorf("raw Multiplier = %v, want 2-2i", res.Cycle.Multiplier)
	}

	// Encoding reduces the multiplier into the ring and memoizes.
	info := dynamics.EncodeOrbit(fam, res, start, c)
	if info.Class != dynamics.ClassPeriodic {
		t.Fatalf("Class = %v, want periodic", info.Class)
	}
	if info.Cycle.Multiplier != numeric.Complex(complex(0, 1)) {
		t.Errorf("reduced Multiplier = %v, want i", info.Cycle.Multiplier)
	}
	if memo.Len() != 1 {
		t.Fatalf("memo holds %d orbits, want 1", memo.Len())
	}

	// Second run bails out on the memoized, already-reduced result.
	o.Reset(c, start)
	res = o.Run()
	if res.Kind != dynamics.KindPeriodic || res.Cycle.Period != 2 {
		t.Fatalf("memoized result = %+v, want the stored two-cycle", res)
	}
	if res.Cycle.Multiplier != numeric.Complex(complex(0, 1)) {
		t.Errorf("memoized Multiplier = %v, want i", res.Cycle.Multiplier)
	}
}

func TestEisensteinMandelFixedPoint(t *testing.T) {
	var fam dynamics.Family[qring.Eisenstein, qring.Eisenstein] =
		family.NewEisensteinMandel(qring.NewEisenstein(3, 1), nil)

	// 1+ω is a fixed point of z²+1 mod 3+ω, with multiplier
	// 2(1+ω) ≡ -ω.
	z := qring.NewEisenstein(1, 1)
	c := qring.NewEisenstein(1, 0)
	if got := fam.Map(z, c); got != z {
		t.Fatalf("Map = %v, want the fixed point %v", got, z)
	}

	o := orbit.NewFloyd(fam)
	o.Reset(c, z)
	res := o.Run()
	if res.Kind != dynamics.KindPeriodic {
		t.Fatalf("Kind = %v, want periodic", res.Kind)
	}
	if res.Cycle.Period != 1 {
		t.Errorf("Period = %d, want 1", res.Cycle.Period)
	}
	if res.Cycle.Multiplier.DistSq(-numeric.Omega) > 1e-24 {
		t.Errorf("Multiplier = %v, want -ω", res.Cycle.Multiplier)
	}

	// Encoding memoizes; the bailout then serves the stored result.
	dynamics.EncodeOrbit(fam, res, z, c)
	stored, ok := fam.(dynamics.Bailer[qring.Eisenstein, qring.Eisenstein]).EarlyBailout(z, c)
	if !ok {
		t.Fatal("EarlyBailout missed the memoized orbit")
	}
	if stored.Cycle.Period != 1 {
		t.Errorf("memoized Period = %d, want 1", stored.Cycle.Period)
	}
}
