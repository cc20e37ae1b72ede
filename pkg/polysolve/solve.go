package polysolve

import (
	"slices"

	"github.com/matzehuels/fatou/pkg/numeric"
)

// Solve returns all complex roots of the polynomial with the given
// coefficients, constant term first.
//
// Degenerate inputs are handled before dispatch: any NaN coefficient
// yields an empty root set, high-order zero coefficients are stripped,
// and zero constant terms are divided out as explicit roots at the
// origin. Degrees one through four then go to the closed forms and higher
// degrees to Jenkins–Traub.
func Solve(coeffs []numeric.Complex) []numeric.Complex {
	for _, c := range coeffs {
		if c.IsNaN() {
			return nil
		}
	}

	p := Polynomial(slices.Clone(coeffs))
	p.trim()
	if len(p) == 0 {
		return nil
	}

	roots := make([]numeric.Complex, 0, p.Degree())
	for len(p) > 1 && p[0] == 0 {
		p.DivideByVar()
		roots = append(roots, 0)
	}

	p.Monic()
	switch p.Degree() {
	case 0:
		// Constant: nothing further to solve.
	case 1:
		roots = append(roots, -p[0])
	case 2:
		r := SolveQuadratic(p[0], p[1])
		roots = append(roots, r[:]...)
	case 3:
		r := SolveCubic(p[0], p[1], p[2])
		roots = append(roots, r[:]...)
	case 4:
		r := SolveQuartic(p[0], p[1], p[2], p[3])
		roots = append(roots, r[:]...)
	default:
		roots = append(roots, NewJenkinsTraub(p).FindAllRoots()...)
	}
	return roots
}
