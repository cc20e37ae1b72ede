// Package polysolve finds all complex roots of polynomials with complex
// coefficients.
//
// Degrees one through four are solved in closed form (quadratic formula,
// Cardano, Ferrari). Higher degrees use the Jenkins–Traub three-stage
// algorithm with deflation. [Solve] dispatches between the two and handles
// the degenerate inputs (NaN coefficients, leading and trailing zeros).
//
// # Usage
//
//	roots := polysolve.Solve([]numeric.Complex{2, -3, 1}) // 2 − 3x + x²
//	// roots ≈ [1, 2]
//
// Polynomials are coefficient slices with the constant term first, so
// index i carries the coefficient of xⁱ.
package polysolve

import (
	"math"

	"github.com/matzehuels/fatou/pkg/numeric"
)

// Polynomial is a dense polynomial over the complex numbers, constant term
// first. A trimmed polynomial has no high-order zero coefficients; the
// mutating operations preserve that invariant.
type Polynomial []numeric.Complex

// Degree returns len−1: the degree for a trimmed polynomial, −1 for the
// zero polynomial.
func (p Polynomial) Degree() int { return len(p) - 1 }

// Clone returns an independent copy.
func (p Polynomial) Clone() Polynomial {
	c := make(Polynomial, len(p))
	copy(c, p)
	return c
}

// Eval evaluates p at x by Horner's rule. The zero polynomial evaluates
// to 0.
func (p Polynomial) Eval(x numeric.Complex) numeric.Complex {
	var u numeric.Complex
	for i := len(p) - 1; i >= 0; i-- {
		u = u*x + p[i]
	}
	return u
}

// Derivative returns the formal derivative as a new polynomial.
func (p Polynomial) Derivative() Polynomial {
	if len(p) <= 1 {
		return Polynomial{}
	}
	d := make(Polynomial, len(p)-1)
	for i := 1; i < len(p); i++ {
		d[i-1] = numeric.Complex(complex(float64(i), 0)) * p[i]
	}
	return d
}

// trim drops high-order zero coefficients.
func (p *Polynomial) trim() {
	c := *p
	for len(c) > 0 && c[len(c)-1] == 0 {
		c = c[:len(c)-1]
	}
	*p = c
}

// Monic trims p and divides by the leading coefficient, making the
// polynomial monic in place. The zero polynomial is left alone.
func (p *Polynomial) Monic() {
	p.trim()
	c := *p
	if len(c) == 0 {
		return
	}
	lead := c[len(c)-1]
	for i := range c {
		c[i] /= lead
	}
}

// MulConst multiplies every coefficient by c in place.
func (p *Polynomial) MulConst(c numeric.Complex) {
	for i := range *p {
		(*p)[i] *= c
	}
}

// Add adds q to p in place, extending p when q has higher degree and
// trimming when the leading terms cancel.
func (p *Polynomial) Add(q Polynomial) {
	c := *p
	switch {
	case len(q) < len(c):
		for i, b := range q {
			c[i] += b
		}
	case len(q) == len(c):
		for i, b := range q {
			c[i] += b
		}
		*p = c
		p.trim()
	default:
		for i := range c {
			c[i] += q[i]
		}
		*p = append(c, q[len(c):]...)
	}
}

// DivideByVar divides p by x in place, discarding the constant term. The
// caller is responsible for that term being (numerically) zero.
func (p *Polynomial) DivideByVar() {
	if len(*p) > 0 {
		*p = (*p)[1:]
	}
}

// DivideByAffine divides p by (x − r) in place by synthetic division,
// discarding the remainder. Deflating by an approximate root r leaves a
// polynomial whose roots are the remaining roots of p, perturbed by the
// error in r.
func (p *Polynomial) DivideByAffine(r numeric.Complex) {
	c := *p
	var u numeric.Complex
	for i := len(c) - 1; i >= 1; i-- {
		u = u*r + c[i]
		c[i] = u
	}
	if len(c) > 0 {
		*p = c[1:]
	}
}

// CauchyPolynomial returns the real polynomial whose coefficients are the
// norms of p's coefficients. Its positive root bounds the moduli of p's
// roots and seeds the Jenkins–Traub shift circle.
func (p Polynomial) CauchyPolynomial() RealPolynomial {
	c := make(RealPolynomial, len(p))
	for i, a := range p {
		c[i] = a.Norm()
	}
	return c
}

// RealPolynomial is a dense polynomial with real coefficients, constant
// term first.
type RealPolynomial []float64

// Eval evaluates p at x by Horner's rule.
func (p RealPolynomial) Eval(x float64) float64 {
	var u float64
	for i := len(p) - 1; i >= 0; i-- {
		u = u*x + p[i]
	}
	return u
}

// Derivative returns the formal derivative.
func (p RealPolynomial) Derivative() RealPolynomial {
	if len(p) <= 1 {
		return RealPolynomial{}
	}
	d := make(RealPolynomial, len(p)-1)
	for i := 1; i < len(p); i++ {
		d[i-1] = float64(i) * p[i]
	}
	return d
}

// FindRootNewton runs capped Newton iteration from start, accepting when
// two successive iterates are within tol of each other. Reports failure
// when the cap is reached first.
func (p RealPolynomial) FindRootNewton(start, tol float64) (float64, bool) {
	deriv := p.Derivative()
	z := start
	for range newtonCap {
		next := z - p.Eval(z)/deriv.Eval(z)
		if math.Abs(z-next) < tol {
			return next, true
		}
		z = next
	}
	return 0, false
}

const newtonCap = 16
