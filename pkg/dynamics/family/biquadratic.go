package family

import (
	"fmt"
	"math"

	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/plane"
)

// Biquadratic alternates two quadratic charts: z² + c maps the first
// plane into the second, w² + b maps back. The parameter plane varies c
// with the second increment b held fixed, so one full cycle through
// both charts is a degree-four map.
type Biquadratic struct {
	dynamics.Defaults

	// B is the fixed increment of the second chart.
	B numeric.Complex
}

// NewBiquadratic returns the parameter plane for the given second-chart
// increment.
func NewBiquadratic(b numeric.Complex) Biquadratic {
	return Biquadratic{
		Defaults: dynamics.Defaults{Bounds: plane.NewBounds(-1.6, 1.25, -1.25, 1.25)},
		B:        b,
	}
}

// Name identifies the family together with its fixed increment.
func (f Biquadratic) Name() string {
	return fmt.Sprintf("Biquadratic(%v)", complex128(f.B))
}

// Map advances one half-step, switching planes.
func (f Biquadratic) Map(zw numeric.Bicomplex, c numeric.Pair) numeric.Bicomplex {
	if zw.Plane == numeric.PlaneA {
		return numeric.InB(zw.Value*zw.Value + c.A)
	}
	return numeric.InA(zw.Value*zw.Value + c.B)
}

// MapAndMultiplier advances one half-step and returns the chart
// derivative 2z.
func (f Biquadratic) MapAndMultiplier(zw numeric.Bicomplex, c numeric.Pair) (numeric.Bicomplex, numeric.Complex) {
	return f.Map(zw, c), 2 * zw.Value
}

// ParamMap pairs the plane coordinate with the fixed second increment.
func (f Biquadratic) ParamMap(t numeric.Complex) numeric.Pair {
	return numeric.Pair{A: t, B: f.B}
}

// StartPoint is the critical point 0 in the first plane.
func (Biquadratic) StartPoint(numeric.Complex, numeric.Pair) numeric.Bicomplex {
	return numeric.Bicomplex{}
}

// Gradient tracks the parameter derivative through the first chart
// only; the second chart's increment does not vary with the selection.
func (f Biquadratic) Gradient(zw numeric.Bicomplex, c numeric.Pair) (numeric.Bicomplex, numeric.Complex, numeric.Complex) {
	next, dfdz := f.MapAndMultiplier(zw, c)
	if zw.Plane == numeric.PlaneA {
		return next, dfdz, 1
	}
	return next, dfdz, 0
}

// ParamMapD varies the first component of the pair with unit speed.
func (f Biquadratic) ParamMapD(t numeric.Complex) (numeric.Pair, numeric.Complex) {
	return f.ParamMap(t), 1
}

// StartPointD is constant in the selection.
func (Biquadratic) StartPointD(numeric.Complex, numeric.Pair) (numeric.Bicomplex, numeric.Complex, numeric.Complex) {
	return numeric.Bicomplex{}, 0, 0
}

// EncodeEscaping measures escape against the degree-four full cycle, so
// half-steps contribute half an iteration each. A NaN iterate encodes
// as one step before the blowup.
func (f Biquadratic) EncodeEscaping(iters int, zw numeric.Bicomplex, _ numeric.Pair) dynamics.PointInfo {
	if zw.IsNaN() {
		return dynamics.PointInfo{Class: dynamics.ClassEscaping, Potential: float64(iters) - 1, Phase: -1}
	}
	u := math.Log2(f.EscapeRadius())
	v := math.Log2(zw.NormSq())
	residual := math.Log2(v/u) / 2
	return dynamics.PointInfo{Class: dynamics.ClassEscaping, Potential: float64(iters) - residual, Phase: -1}
}

var (
	_ dynamics.Family[numeric.Bicomplex, numeric.Pair]         = Biquadratic{}
	_ dynamics.Differentiable[numeric.Bicomplex, numeric.Pair] = Biquadratic{}
	_ dynamics.EscapeEncoder[numeric.Bicomplex, numeric.Pair]  = Biquadratic{}
)
