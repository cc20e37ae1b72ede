package numeric

import "math"

// Plane tags which chart a [Bicomplex] value lives on.
type Plane uint8

// The two charts of a bicomplex value.
const (
	PlaneA Plane = iota
	PlaneB
)

func (p Plane) String() string {
	if p == PlaneB {
		return "B"
	}
	return "A"
}

// Bicomplex is a complex value tagged with the chart it belongs to. It is
// the natural state space for a composition of two maps: each half-step
// carries the point to the other chart. The zero value is 0 on plane A.
type Bicomplex struct {
	Value Complex
	Plane Plane
}

// InA places z on plane A.
func InA(z Complex) Bicomplex { return Bicomplex{Value: z, Plane: PlaneA} }

// InB places w on plane B.
func InB(w Complex) Bicomplex { return Bicomplex{Value: w, Plane: PlaneB} }

// NormSq returns |value|² regardless of chart.
func (b Bicomplex) NormSq() float64 { return b.Value.NormSq() }

// DistSq returns the squared distance when both values share a chart, and
// +Inf otherwise. Values on different charts are never close, so a
// mismatched pair can never register as a cycle.
func (b Bicomplex) DistSq(o Bicomplex) float64 {
	if b.Plane != o.Plane {
		return math.Inf(1)
	}
	return b.Value.DistSq(o.Value)
}

// IsNaN reports whether the carried value is NaN.
func (b Bicomplex) IsNaN() bool { return b.Value.IsNaN() }
