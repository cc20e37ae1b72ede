// Package newton provides Newton's-method refinement over the complex
// plane: solve f(z) = target given a combined value-and-derivative
// evaluator.
//
// Every entry point takes a [FuncD]. The capped variants ([FindRoot],
// [FindTarget], [FindTargetErr], [FindTargetRelative]) give up after
// [MaxIters] steps and report how they stopped; callers must distinguish
// converged from gave-up, because a failed refinement still carries a best
// estimate that is often useful as the next seed. [UntilConvergence] has no
// cap and is reserved for callers with a structural convergence guarantee.
//
// # Result taxonomy
//
//   - success: the returned error is nil.
//   - [ErrNaN]: an iterate became NaN, typically from a zero derivative;
//     there is no usable estimate.
//   - [*NoConvergenceError]: the cap was reached outside the acceptance
//     threshold; the error carries the best estimate and the value and
//     derivative there.
//
// Use errors.Is and errors.As to tell them apart.
package newton

import (
	"errors"
	"fmt"
	"math"

	"github.com/matzehuels/fatou/pkg/numeric"
)

// FuncD evaluates a function and its derivative at z.
type FuncD func(z numeric.Complex) (f, df numeric.Complex)

// Refinement thresholds. A step shorter than MinErr (squared) counts as
// converged immediately; at the iteration cap a step shorter than MaxErr
// (squared) is still accepted.
const (
	MaxIters = 16
	MinErr   = 1e-12
	MaxErr   = 1e-5
)

// ErrNaN reports that an iterate became NaN before convergence.
var ErrNaN = errors.New("newton: NaN encountered")

// NoConvergenceError reports that the iteration cap was reached outside
// the acceptance threshold. Root is the best estimate; Value and Deriv are
// the function value and derivative there.
type NoConvergenceError struct {
	Root  numeric.Complex
	Value numeric.Complex
	Deriv numeric.Complex
}

func (e *NoConvergenceError) Error() string {
	return fmt.Sprintf("newton: failed to converge, best estimate %v", complex128(e.Root))
}

// FixedIter applies exactly iters unconditional Newton steps toward
// f(z) = target and returns the final iterate. No convergence checks are
// made; the caller owns the step budget.
func FixedIter(f FuncD, start, target numeric.Complex, iters int) numeric.Complex {
	z := start
	for range iters {
		fz, df := f(z)
		z += (target - fz) / df
	}
	return z
}

// UntilConvergence iterates until two successive iterates are within
// tolerance (squared distance). There is no iteration cap: this is the one
// unbounded entry point, for callers whose setup guarantees convergence.
// Everything else should use the capped variants.
func UntilConvergence(f FuncD, start, target numeric.Complex, tolerance float64) numeric.Complex {
	z, _, _ := UntilConvergenceD(f, start, target, tolerance)
	return z
}

// UntilConvergenceD is [UntilConvergence] returning the function value and
// derivative at the final iterate alongside it.
func UntilConvergenceD(f FuncD, start, target numeric.Complex, tolerance float64) (root, value, deriv numeric.Complex) {
	z := start
	zOld := start
	var fz, df numeric.Complex

	for err := math.Inf(1); err > tolerance; {
		fz, df = f(z)
		z += (target - fz) / df
		err = z.DistSq(zOld)
		zOld = z
	}
	return z, fz, df
}

// FindRoot refines start toward a zero of f, giving up after [MaxIters]
// steps.
func FindRoot(f FuncD, start numeric.Complex) (numeric.Complex, error) {
	z, _, _, err := FindRootD(f, start)
	return z, err
}

// FindRootD refines start toward a zero of f and returns the root together
// with the function value and derivative there. A step below [MinErr]
// converges immediately; at the cap a step below [MaxErr] is accepted, and
// anything else fails with the best estimate.
func FindRootD(f FuncD, start numeric.Complex) (root, value, deriv numeric.Complex, err error) {
	z := start
	zOld := start
	var fz, df numeric.Complex

	for range MaxIters {
		zOld = z
		fz, df = f(z)
		z -= fz / df

		if z.DistSq(zOld) < MinErr {
			return z, fz, df, nil
		}
		if z.IsNaN() {
			return z, fz, df, ErrNaN
		}
	}
	if z.DistSq(zOld) < MaxErr {
		return z, fz, df, nil
	}
	return z, fz, df, &NoConvergenceError{Root: z, Value: fz, Deriv: df}
}

// FindTarget refines start toward a solution of f(z) = target with the
// default acceptance threshold [MaxErr].
func FindTarget(f FuncD, start, target numeric.Complex) (numeric.Complex, error) {
	z, _, _, err := FindTargetD(f, start, target)
	return z, err
}

// FindTargetD is [FindTarget] returning the value and derivative at the
// solution.
func FindTargetD(f FuncD, start, target numeric.Complex) (root, value, deriv numeric.Complex, err error) {
	return FindTargetErrD(f, start, target, MaxErr)
}

// FindTargetErr refines start toward a solution of f(z) = target,
// accepting a final step below the caller-supplied squared threshold.
func FindTargetErr(f FuncD, start, target numeric.Complex, maxErr float64) (numeric.Complex, error) {
	z, _, _, err := FindTargetErrD(f, start, target, maxErr)
	return z, err
}

// FindTargetErrD refines start toward a solution of f(z) = target, giving
// up after [MaxIters] steps. A step below [MinErr] converges immediately;
// at the cap a step below maxErr is accepted.
func FindTargetErrD(f FuncD, start, target numeric.Complex, maxErr float64) (root, value, deriv numeric.Complex, err error) {
	z := start
	zOld := start
	var fz, df numeric.Complex

	for range MaxIters {
		zOld = z
		fz, df = f(z)
		z += (target - fz) / df

		if z.DistSq(zOld) < MinErr {
			return z, fz, df, nil
		}
		if z.IsNaN() {
			return z, fz, df, ErrNaN
		}
	}
	if z.DistSq(zOld) < maxErr {
		return z, fz, df, nil
	}
	return z, fz, df, &NoConvergenceError{Root: z, Value: fz, Deriv: df}
}

// FindTargetRelative refines start toward f(z) = target using the relative
// convergence test |f/target − 1|². Useful when the target is far from
// unit magnitude and absolute thresholds would be too strict or too loose.
func FindTargetRelative(f FuncD, start, target numeric.Complex) (numeric.Complex, error) {
	z, _, _, err := FindTargetRelativeD(f, start, target)
	return z, err
}

// FindTargetRelativeD is [FindTargetRelative] returning the value and
// derivative at the solution. The convergence test runs before each step,
// so a start that already satisfies the target returns immediately.
func FindTargetRelativeD(f FuncD, start, target numeric.Complex) (root, value, deriv numeric.Complex, err error) {
	z := start
	var fz, df numeric.Complex
	one := numeric.Complex(1)

	for range MaxIters {
		fz, df = f(z)

		if (fz / target).DistSq(one) < MinErr {
			return z, fz, df, nil
		}

		z += (target - fz) / df

		if z.IsNaN() {
			return z, fz, df, ErrNaN
		}
	}
	if (fz / target).DistSq(one) < MaxErr {
		return z, fz, df, nil
	}
	return z, fz, df, &NoConvergenceError{Root: z, Value: fz, Deriv: df}
}
