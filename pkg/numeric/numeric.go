// Package numeric provides the scalar types shared by the dynamics, orbit,
// and polynomial packages: a complex number carrying the capability set the
// orbit machinery relies on, ordered pairs and two-plane values for
// structured state spaces, and the constants used by the closed-form root
// solvers.
//
// # The State constraint
//
// Any type exposing a squared norm, a squared distance to another value of
// the same type, and NaN detection can be driven by the generic orbit
// iterators. [Complex], [Pair], [Bicomplex], and the quotient-ring integers
// in the qring subpackage all satisfy [State].
//
// # Usage
//
//	z := numeric.Complex(complex(0.3, -0.2))
//	if z.NormSq() > 1e12 {
//	    // escaped
//	}
package numeric

import (
	"encoding/json"
	"math"
	"math/cmplx"
)

// State is the capability set required of an orbit state: a squared norm
// for escape tests, a squared distance for periodicity detection, and NaN
// detection so a poisoned orbit terminates instead of spinning.
//
// The constraint is self-referential (S appears in its own bound) so that
// DistSq is typed against the concrete state. Orbit loops instantiated
// with a concrete S compile down to direct calls with no boxing.
type State[S any] interface {
	NormSq() float64
	DistSq(S) float64
	IsNaN() bool
}

// Complex is the engine's complex scalar. It is a defined type over
// complex128, so arithmetic keeps the native operators while the methods
// below satisfy [State].
type Complex complex128

// Primitive cube roots of unity. The closed-form cubic and quartic solvers
// use them to rotate between the three branches of the cube root.
const (
	Omega    Complex = complex(-0.5, 0.866025403784439)
	OmegaBar Complex = complex(-0.5, -0.866025403784439)
)

// OneThird is the cube-root exponent. Named so the closed-form solvers
// read the same as their derivations.
const OneThird = 1.0 / 3.0

// Real returns the real part.
func (z Complex) Real() float64 { return real(z) }

// Imag returns the imaginary part.
func (z Complex) Imag() float64 { return imag(z) }

// NormSq returns |z|², computed without a square root.
func (z Complex) NormSq() float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

// Norm returns |z|.
func (z Complex) Norm() float64 { return cmplx.Abs(complex128(z)) }

// L1Norm returns |Re z| + |Im z|, the taxicab length used when pruning
// divergent ray samples.
func (z Complex) L1Norm() float64 {
	return math.Abs(real(z)) + math.Abs(imag(z))
}

// DistSq returns |z−w|².
func (z Complex) DistSq(w Complex) float64 {
	dr := real(z) - real(w)
	di := imag(z) - imag(w)
	return dr*dr + di*di
}

// IsNaN reports whether either component is NaN.
func (z Complex) IsNaN() bool {
	return math.IsNaN(real(z)) || math.IsNaN(imag(z))
}

// Arg returns the principal argument of z in (−π, π].
func (z Complex) Arg() float64 { return cmplx.Phase(complex128(z)) }

// Conj returns the complex conjugate.
func (z Complex) Conj() Complex { return Complex(cmplx.Conj(complex128(z))) }

// MulF scales z by a real factor.
func (z Complex) MulF(x float64) Complex { return z * Complex(complex(x, 0)) }

// DivF divides z by a real factor.
func (z Complex) DivF(x float64) Complex { return z / Complex(complex(x, 0)) }

// Sqrt returns the principal square root.
func (z Complex) Sqrt() Complex { return Complex(cmplx.Sqrt(complex128(z))) }

// Exp returns e^z.
func (z Complex) Exp() Complex { return Complex(cmplx.Exp(complex128(z))) }

// Log returns the principal natural logarithm.
func (z Complex) Log() Complex { return Complex(cmplx.Log(complex128(z))) }

// Pow returns z^w.
func (z Complex) Pow(w Complex) Complex {
	return Complex(cmplx.Pow(complex128(z), complex128(w)))
}

// PowF returns z^p for a real exponent.
func (z Complex) PowF(p float64) Complex {
	return Complex(cmplx.Pow(complex128(z), complex(p, 0)))
}

// MarshalJSON encodes z as a [re, im] pair, since encoding/json has no
// native complex support.
func (z Complex) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{real(z), imag(z)})
}

// UnmarshalJSON decodes a [re, im] pair.
func (z *Complex) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	*z = Complex(complex(pair[0], pair[1]))
	return nil
}

// Rect returns the complex number with modulus r and argument theta.
func Rect(r, theta float64) Complex {
	return Complex(cmplx.Rect(r, theta))
}

// NaN returns the poisoned value (NaN, NaN).
func NaN() Complex {
	return Complex(complex(math.NaN(), math.NaN()))
}

// RootsOfUnity returns the n distinct nth roots of unity, starting at 1
// and proceeding counterclockwise. n must be positive.
func RootsOfUnity(n int) []Complex {
	roots := make([]Complex, n)
	for k := range roots {
		roots[k] = Rect(1, 2*math.Pi*float64(k)/float64(n))
	}
	return roots
}

// NthRoots returns the n distinct nth roots of z: the principal root
// multiplied by each nth root of unity.
func NthRoots(z Complex, n int) []Complex {
	principal := z.PowF(1 / float64(n))
	roots := RootsOfUnity(n)
	for k, w := range roots {
		roots[k] = principal * w
	}
	return roots
}
