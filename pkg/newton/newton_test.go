package newton

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/fatou/pkg/numeric"
)

// square is z² with its derivative, the canonical refinement target.
func square(z numeric.Complex) (numeric.Complex, numeric.Complex) {
	return z * z, 2 * z
}

func TestFindRootConverges(t *testing.T) {
	// z² − 4 from 3 lands on the root at 2
	f := func(z numeric.Complex) (numeric.Complex, numeric.Complex) {
		return z*z - 4, 2 * z
	}

	root, err := FindRoot(f, 3)
	if err != nil {
		t.Fatalf("FindRoot error: %v", err)
	}
	if root.DistSq(2) > 1e-14 {
		t.Errorf("root = %v, want 2 (within 1e-7)", root)
	}
}

func TestFindRootDReturnsValueAndDeriv(t *testing.T) {
	f := func(z numeric.Complex) (numeric.Complex, numeric.Complex) {
		return z*z - 4, 2 * z
	}

	root, value, deriv, err := FindRootD(f, 3)
	if err != nil {
		t.Fatalf("FindRootD error: %v", err)
	}
	// Value and derivative are evaluated at the penultimate iterate, so
	// they are consistent with a near-root point: tiny value, df ≈ 4.
	if value.NormSq() > 1e-10 {
		t.Errorf("value at root = %v, want ≈ 0", value)
	}
	if deriv.DistSq(4) > 1e-4 {
		t.Errorf("derivative at root = %v, want ≈ 4", deriv)
	}
	_ = root
}

func TestFindRootZeroDerivativeIsNaN(t *testing.T) {
	// The critical point of z² has a vanishing derivative; the first step
	// divides 0 by 0 and the iterate is poisoned.
	_, err := FindRoot(square, 0)
	if !errors.Is(err, ErrNaN) {
		t.Fatalf("err = %v, want ErrNaN", err)
	}
}

func TestFindRootNoConvergenceCarriesBestEstimate(t *testing.T) {
	// e^z has no zero: every Newton step has length exactly 1, so the cap
	// is reached with steps far above the acceptance threshold.
	f := func(z numeric.Complex) (numeric.Complex, numeric.Complex) {
		return z.Exp(), z.Exp()
	}

	_, err := FindRoot(f, 3)
	var nc *NoConvergenceError
	if !errors.As(err, &nc) {
		t.Fatalf("err = %v, want *NoConvergenceError", err)
	}
	// 16 unit steps down from 3
	if nc.Root.DistSq(numeric.Complex(complex(3-MaxIters, 0))) > 1e-9 {
		t.Errorf("best estimate = %v, want %v", nc.Root, 3-MaxIters)
	}
}

func TestFindTarget(t *testing.T) {
	// Solve z² = 2i starting near one of the solutions (1+i)
	target := numeric.Complex(complex(0, 2))
	root, err := FindTarget(square, complex(1.2, 0.8), target)
	if err != nil {
		t.Fatalf("FindTarget error: %v", err)
	}
	if (root * root).DistSq(target) > 1e-12 {
		t.Errorf("root² = %v, want %v", root*root, target)
	}
}

func TestFindTargetErrAcceptsLooseFinish(t *testing.T) {
	// A deliberately slow contraction: each step moves halfway to 1, so
	// after 16 iterations the step size is ~2^−16 — far above MinErr but
	// inside a loose caller threshold.
	f := func(z numeric.Complex) (numeric.Complex, numeric.Complex) {
		return z, 2
	}
	start := numeric.Complex(complex(2, 0))

	if _, err := FindTargetErr(f, start, 1, 1e-6); err != nil {
		t.Errorf("loose threshold rejected: %v", err)
	}
	if _, err := FindTargetErr(f, start, 1, 1e-12); err == nil {
		t.Error("tight threshold accepted a non-converged finish")
	}
}

func TestFindTargetRelative(t *testing.T) {
	// A target far from unit magnitude: the absolute test would demand
	// |z² − 10⁶| < 10⁻⁵, the relative test only |z²/10⁶ − 1| < 10⁻⁵.
	target := numeric.Complex(complex(1e6, 0))
	root, err := FindTargetRelative(square, 900, target)
	if err != nil {
		t.Fatalf("FindTargetRelative error: %v", err)
	}
	if math.Abs(root.Real()-1000) > 1e-4 || math.Abs(root.Imag()) > 1e-9 {
		t.Errorf("root = %v, want 1000", root)
	}
}

func TestFindTargetRelativeChecksBeforeStepping(t *testing.T) {
	// A start that already satisfies the target must return without a step.
	calls := 0
	f := func(z numeric.Complex) (numeric.Complex, numeric.Complex) {
		calls++
		return z * z, 2 * z
	}

	root, err := FindTargetRelative(f, 2, 4)
	if err != nil {
		t.Fatalf("FindTargetRelative error: %v", err)
	}
	if root != 2 {
		t.Errorf("root = %v, want the untouched start", root)
	}
	if calls != 1 {
		t.Errorf("evaluations = %d, want 1", calls)
	}
}

func TestFixedIterRunsExactly(t *testing.T) {
	calls := 0
	f := func(z numeric.Complex) (numeric.Complex, numeric.Complex) {
		calls++
		return z*z - 2, 2 * z
	}

	z := FixedIter(f, 1.5, 0, 3)
	if calls != 3 {
		t.Errorf("evaluations = %d, want 3", calls)
	}
	// Three Newton steps on √2 are accurate to ~10 digits
	if math.Abs(z.Real()-math.Sqrt2) > 1e-10 {
		t.Errorf("3-step estimate = %v, want √2", z)
	}
}

func TestUntilConvergence(t *testing.T) {
	f := func(z numeric.Complex) (numeric.Complex, numeric.Complex) {
		return z*z - 2, 2 * z
	}

	root, value, deriv := UntilConvergenceD(f, 1.5, 0, 1e-14)
	if math.Abs(root.Real()-math.Sqrt2) > 1e-7 {
		t.Errorf("root = %v, want √2", root)
	}
	if value.NormSq() > 1e-12 {
		t.Errorf("value = %v, want ≈ 0", value)
	}
	if deriv.DistSq(numeric.Complex(complex(2*math.Sqrt2, 0))) > 1e-6 {
		t.Errorf("derivative = %v, want 2√2", deriv)
	}
}
