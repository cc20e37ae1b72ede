package polysolve

import (
	"github.com/matzehuels/fatou/pkg/numeric"
)

// SolveQuadratic returns both roots of a + bx + x².
func SolveQuadratic(a, b numeric.Complex) [2]numeric.Complex {
	disc := (b*b - 4*a).Sqrt()
	return [2]numeric.Complex{-0.5 * (b + disc), 0.5 * (disc - b)}
}

// SolveCubic returns the three roots of a + bx + cx² + x³ by the Cardano
// substitution, selecting branches with the primitive cube roots of unity.
func SolveCubic(a, b, c numeric.Complex) [3]numeric.Complex {
	x0 := -c / 3
	c2 := c * c
	c3 := c * c2
	bc := b * c
	d0 := -3*b + c2
	d1 := 27*a + 2*c3 - 9*bc
	disc := (0.5 * (d1 + (d1*d1 - 4*d0*d0*d0).Sqrt())).PowF(numeric.OneThird)
	x5 := -disc * numeric.OneThird
	x6 := -d0 / (3 * disc)
	return [3]numeric.Complex{
		x0 + x5 + x6,
		x0 + numeric.Omega*x5 + numeric.OmegaBar*x6,
		x0 + numeric.OmegaBar*x5 + numeric.Omega*x6,
	}
}

// SolveQuartic returns the four roots of a + bx + cx² + dx³ + x⁴ by
// Ferrari's method via the resolvent cubic.
func SolveQuartic(a, b, c, d numeric.Complex) [4]numeric.Complex {
	c2 := c * c
	d2 := d * d
	bd := b * d

	disc0 := c2 - 3*bd + 12*a
	disc1 := c*(c2+c2-9*bd-72*a) + 27*(d2*a+b*b)

	p := c - 0.375*d2
	q := 0.5*d*(0.25*d2-c) + b

	q1 := (0.5 * (disc1 + (disc1*disc1 - 4*disc0*disc0*disc0).Sqrt())).PowF(numeric.OneThird)
	s := 0.5 * (numeric.OneThird * (q1 + disc0/q1 - p - p)).Sqrt()

	x0 := -0.25 * d
	u := -4*s*s - p - p
	v := q / s

	disc2 := 0.5 * (u + v).Sqrt()
	disc3 := 0.5 * (u - v).Sqrt()

	return [4]numeric.Complex{
		x0 - s + disc2,
		x0 - s - disc2,
		x0 + s + disc3,
		x0 + s - disc3,
	}
}
