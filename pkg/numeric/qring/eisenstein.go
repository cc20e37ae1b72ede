package qring

import (
	"fmt"
	"math"

	"github.com/matzehuels/fatou/pkg/numeric"
)

// Eisenstein is an Eisenstein integer a + bω, where ω = e^{2πi/3} is a
// primitive cube root of unity.
type Eisenstein struct {
	A int64
	B int64
}

// NewEisenstein returns a + bω.
func NewEisenstein(a, b int64) Eisenstein { return Eisenstein{A: a, B: b} }

// Add returns the sum.
func (e Eisenstein) Add(o Eisenstein) Eisenstein { return Eisenstein{e.A + o.A, e.B + o.B} }

// Sub returns the difference.
func (e Eisenstein) Sub(o Eisenstein) Eisenstein { return Eisenstein{e.A - o.A, e.B - o.B} }

// Neg returns the additive inverse.
func (e Eisenstein) Neg() Eisenstein { return Eisenstein{-e.A, -e.B} }

// Mul returns the ring product. Expanding (a+bω)(c+dω) with ω² = −1−ω
// gives (ac−bd) + ((a−b)d + bc)ω.
func (e Eisenstein) Mul(o Eisenstein) Eisenstein {
	return Eisenstein{
		A: e.A*o.A - e.B*o.B,
		B: (e.A-e.B)*o.B + e.B*o.A,
	}
}

// Scale returns k·e.
func (e Eisenstein) Scale(k int64) Eisenstein { return Eisenstein{k * e.A, k * e.B} }

// IsZero reports whether e is the additive identity.
func (e Eisenstein) IsZero() bool { return e.A == 0 && e.B == 0 }

// Complex embeds e in the plane as a + bω.
func (e Eisenstein) Complex() numeric.Complex {
	return numeric.Complex(complex(float64(e.A), 0)) +
		numeric.Complex(complex(float64(e.B), 0))*numeric.Omega
}

// EisensteinFromComplex rounds z to the nearest Eisenstein integer. It
// locates the fundamental parallelogram containing z and compares the four
// corners, because the skewed lattice makes componentwise rounding pick
// the wrong point near cell edges.
func EisensteinFromComplex(z numeric.Complex) Eisenstein {
	y := math.Floor(z.Imag() / numeric.Omega.Imag())
	x := math.Floor(0.5*y + z.Real())
	base := Eisenstein{A: int64(x), B: int64(y)}

	best := base
	bestDist := math.Inf(1)
	for _, corner := range [4]Eisenstein{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
		cand := base.Add(corner)
		if d := z.DistSq(cand.Complex()); d < bestDist {
			best = cand
			bestDist = d
		}
	}
	return best
}

// Div returns the nearest-lattice-point quotient e/d. d must be nonzero.
func (e Eisenstein) Div(d Eisenstein) Eisenstein {
	if d.IsZero() {
		panic("qring: division of Eisenstein integer by zero")
	}
	return EisensteinFromComplex(e.Complex() / d.Complex())
}

// Mod returns the remainder e − (e/d)·d.
func (e Eisenstein) Mod(d Eisenstein) Eisenstein {
	return e.Sub(e.Div(d).Mul(d))
}

// NormSq returns the ring norm a² − ab + b².
func (e Eisenstein) NormSq() float64 { return float64(e.A*e.A - e.A*e.B + e.B*e.B) }

// Norm returns the Euclidean length of e as a lattice point.
func (e Eisenstein) Norm() float64 { return math.Sqrt(e.NormSq()) }

// DistSq returns the norm of the difference.
func (e Eisenstein) DistSq(o Eisenstein) float64 { return e.Sub(o).NormSq() }

// IsNaN always reports false: integer states cannot be poisoned.
func (e Eisenstein) IsNaN() bool { return false }

func (e Eisenstein) String() string {
	return fmt.Sprintf("%d%+dω", e.A, e.B)
}
