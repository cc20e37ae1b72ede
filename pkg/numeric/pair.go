package numeric

// Pair is an ordered pair of complex values. It serves as the structured
// parameter of maps with two knobs (a biquadratic map carries one constant
// per chart) and as a composite state where a system tracks two coordinates
// at once.
type Pair struct {
	A Complex
	B Complex
}

// NormSq returns |A|² + |B|².
func (p Pair) NormSq() float64 { return p.A.NormSq() + p.B.NormSq() }

// DistSq returns the componentwise squared distance.
func (p Pair) DistSq(q Pair) float64 { return p.A.DistSq(q.A) + p.B.DistSq(q.B) }

// IsNaN reports whether either component is NaN.
func (p Pair) IsNaN() bool { return p.A.IsNaN() || p.B.IsNaN() }
