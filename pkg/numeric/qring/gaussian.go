// Package qring implements arithmetic in two quadratic integer rings: the
// Gaussian integers Z[i] and the Eisenstein integers Z[ω]. The arithmetic
// families iterate polynomial maps over residues mod M, so both rings
// provide ring operations, a Euclidean Div/Mod pair based on the rounded
// complex quotient, and the capability set of numeric.State.
//
// Division rounds to the nearest lattice point, which keeps remainders in
// a bounded fundamental domain. For the Eisenstein lattice "nearest" is
// decided among the four corners of the containing fundamental
// parallelogram, since the lattice is not rectangular and componentwise
// rounding is wrong near cell edges.
package qring

import (
	"fmt"
	"math"

	"github.com/matzehuels/fatou/pkg/numeric"
)

// Gaussian is a Gaussian integer a + bi.
type Gaussian struct {
	A int64
	B int64
}

// NewGaussian returns a + bi.
func NewGaussian(a, b int64) Gaussian { return Gaussian{A: a, B: b} }

// Add returns the sum.
func (g Gaussian) Add(o Gaussian) Gaussian { return Gaussian{g.A + o.A, g.B + o.B} }

// Sub returns the difference.
func (g Gaussian) Sub(o Gaussian) Gaussian { return Gaussian{g.A - o.A, g.B - o.B} }

// Neg returns the additive inverse.
func (g Gaussian) Neg() Gaussian { return Gaussian{-g.A, -g.B} }

// Mul returns the ring product (a+bi)(c+di) = (ac−bd) + (ad+bc)i.
func (g Gaussian) Mul(o Gaussian) Gaussian {
	return Gaussian{g.A*o.A - g.B*o.B, g.A*o.B + g.B*o.A}
}

// Scale returns k·g.
func (g Gaussian) Scale(k int64) Gaussian { return Gaussian{k * g.A, k * g.B} }

// IsZero reports whether g is the additive identity.
func (g Gaussian) IsZero() bool { return g.A == 0 && g.B == 0 }

// Complex embeds g in the complex plane.
func (g Gaussian) Complex() numeric.Complex {
	return numeric.Complex(complex(float64(g.A), float64(g.B)))
}

// GaussianFromComplex rounds z to the nearest Gaussian integer.
func GaussianFromComplex(z numeric.Complex) Gaussian {
	return Gaussian{
		A: int64(math.Round(z.Real())),
		B: int64(math.Round(z.Imag())),
	}
}

// Div returns the nearest-integer quotient g/d, the division step of the
// Euclidean algorithm in Z[i]. d must be nonzero.
func (g Gaussian) Div(d Gaussian) Gaussian {
	if d.IsZero() {
		panic("qring: division of Gaussian integer by zero")
	}
	return GaussianFromComplex(g.Complex() / d.Complex())
}

// Mod returns the remainder g − (g/d)·d. With nearest-integer quotients
// the remainder norm is at most half the divisor norm, so iterated maps
// reduced mod d stay inside a bounded fundamental domain.
func (g Gaussian) Mod(d Gaussian) Gaussian {
	return g.Sub(g.Div(d).Mul(d))
}

// NormSq returns the ring norm a² + b².
func (g Gaussian) NormSq() float64 { return float64(g.A*g.A + g.B*g.B) }

// Norm returns the Euclidean length of g as a lattice point.
func (g Gaussian) Norm() float64 { return math.Sqrt(g.NormSq()) }

// DistSq returns the norm of the difference.
func (g Gaussian) DistSq(o Gaussian) float64 { return g.Sub(o).NormSq() }

// IsNaN always reports false: integer states cannot be poisoned.
func (g Gaussian) IsNaN() bool { return false }

func (g Gaussian) String() string {
	return fmt.Sprintf("%d%+di", g.A, g.B)
}
