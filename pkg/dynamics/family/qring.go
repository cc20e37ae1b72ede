package family

import (
	"fmt"
	"math"

	"github.com/matzehuels/fatou/pkg/cache"
	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/numeric/qring"
	"github.com/matzehuels/fatou/pkg/plane"
)

// OrbitKey identifies a memoized orbit by its start and parameter.
type OrbitKey[S comparable] struct {
	Start S
	Param S
}

// OrbitMemo is the sharded memoization map shared by the arithmetic
// families: over a finite ring the same orbits recur on every plane, so
// results are computed once and reused across renders.
type OrbitMemo[S comparable] = cache.ShardedMap[OrbitKey[S], dynamics.Result[S]]

// GaussianMandel iterates z² + c reduced modulo a Gaussian integer M.
// The ring is finite, so every orbit is eventually periodic; detected
// cycles have their multipliers reduced back into the ring.
type GaussianMandel struct {
	dynamics.Defaults
	mod  qring.Gaussian
	memo *OrbitMemo[qring.Gaussian]
}

// NewGaussianMandel builds the family for the given modulus, memoizing
// orbits in memo. A nil memo gets a private map.
func NewGaussianMandel(mod qring.Gaussian, memo *OrbitMemo[qring.Gaussian]) GaussianMandel {
	if memo == nil {
		memo = cache.NewShardedMap[OrbitKey[qring.Gaussian], dynamics.Result[qring.Gaussian]]()
	}
	radius := math.Sqrt(mod.NormSq()) / 2
	return GaussianMandel{
		Defaults: dynamics.Defaults{Bounds: plane.Square(radius, mod.Complex().DivF(2))},
		mod:      mod,
		memo:     memo,
	}
}

// Name identifies the family together with its modulus.
func (g GaussianMandel) Name() string {
	return fmt.Sprintf("Gaussian Integer Mandelbrot mod %s", g.mod)
}

// Mod returns the modulus.
func (g GaussianMandel) Mod() qring.Gaussian { return g.mod }

// Map advances z one step under z² + c, reduced modulo M.
func (g GaussianMandel) Map(z, c qring.Gaussian) qring.Gaussian {
	return z.Mul(z).Add(c).Mod(g.mod)
}

// MapAndMultiplier advances z and returns 2z mod M.
func (g GaussianMandel) MapAndMultiplier(z, c qring.Gaussian) (qring.Gaussian, numeric.Complex) {
	return g.Map(z, c), z.Scale(2).Mod(g.mod).Complex()
}

// ParamMap rounds the plane coordinate to the nearest ring element.
func (GaussianMandel) ParamMap(t numeric.Complex) qring.Gaussian {
	return qring.GaussianFromComplex(t)
}

// StartPoint is the ring zero.
func (GaussianMandel) StartPoint(numeric.Complex, qring.Gaussian) qring.Gaussian {
	return qring.Gaussian{}
}

// ChildBounds keeps the parameter-plane view for dynamical planes.
func (g GaussianMandel) ChildBounds(numeric.Complex, qring.Gaussian) plane.Bounds {
	return g.DefaultBounds()
}

// EarlyBailout returns the memoized outcome for this orbit, if any.
func (g GaussianMandel) EarlyBailout(start, c qring.Gaussian) (dynamics.Result[qring.Gaussian], bool) {
	return g.memo.Get(OrbitKey[qring.Gaussian]{Start: start, Param: c})
}

// EncodeOrbit reduces detected cycle multipliers into the ring and
// memoizes the outcome before encoding it.
func (g GaussianMandel) EncodeOrbit(res dynamics.Result[qring.Gaussian], start, c qring.Gaussian) dynamics.PointInfo {
	if res.Kind == dynamics.KindPeriodic {
		reduced := qring.GaussianFromComplex(res.Cycle.Multiplier).Mod(g.mod)
		res.Cycle.Multiplier = reduced.Complex()
	}
	g.memo.Put(OrbitKey[qring.Gaussian]{Start: start, Param: c}, res)
	return dynamics.EncodeResult[qring.Gaussian, qring.Gaussian](g, res, c)
}

// EisensteinMandel iterates z² + c reduced modulo an Eisenstein integer
// M, the hexagonal-lattice counterpart of [GaussianMandel].
type EisensteinMandel struct {
	dynamics.Defaults
	mod  qring.Eisenstein
	memo *OrbitMemo[qring.Eisenstein]
}

// NewEisensteinMandel builds the family for the given modulus,
// memoizing orbits in memo. A nil memo gets a private map.
func NewEisensteinMandel(mod qring.Eisenstein, memo *OrbitMemo[qring.Eisenstein]) EisensteinMandel {
	if memo == nil {
		memo = cache.NewShardedMap[OrbitKey[qring.Eisenstein], dynamics.Result[qring.Eisenstein]]()
	}
	return EisensteinMandel{
		Defaults: dynamics.Defaults{Bounds: plane.CenteredSquare(math.Sqrt(mod.NormSq()))},
		mod:      mod,
		memo:     memo,
	}
}

// Name identifies the family together with its modulus.
func (e EisensteinMandel) Name() string {
	return fmt.Sprintf("Eisenstein Integer Mandelbrot mod %s", e.mod)
}

// Mod returns the modulus.
func (e EisensteinMandel) Mod() qring.Eisenstein { return e.mod }

// Map advances z one step under z² + c, reduced modulo M.
func (e EisensteinMandel) Map(z, c qring.Eisenstein) qring.Eisenstein {
	return z.Mul(z).Add(c).Mod(e.mod)
}

// MapAndMultiplier advances z and returns 2z mod M.
func (e EisensteinMandel) MapAndMultiplier(z, c qring.Eisenstein) (qring.Eisenstein, numeric.Complex) {
	return e.Map(z, c), z.Scale(2).Mod(e.mod).Complex()
}

// ParamMap rounds the plane coordinate to the nearest ring element.
func (EisensteinMandel) ParamMap(t numeric.Complex) qring.Eisenstein {
	return qring.EisensteinFromComplex(t)
}

// StartPoint is the ring zero.
func (EisensteinMandel) StartPoint(numeric.Complex, qring.Eisenstein) qring.Eisenstein {
	return qring.Eisenstein{}
}

// ChildBounds keeps the parameter-plane view for dynamical planes.
func (e EisensteinMandel) ChildBounds(numeric.Complex, qring.Eisenstein) plane.Bounds {
	return e.DefaultBounds()
}

// EarlyBailout returns the memoized outcome for this orbit, if any.
func (e EisensteinMandel) EarlyBailout(start, c qring.Eisenstein) (dynamics.Result[qring.Eisenstein], bool) {
	return e.memo.Get(OrbitKey[qring.Eisenstein]{Start: start, Param: c})
}

// EncodeOrbit reduces detected cycle multipliers into the ring and
// memoizes the outcome before encoding it.
func (e EisensteinMandel) EncodeOrbit(res dynamics.Result[qring.Eisenstein], start, c qring.Eisenstein) dynamics.PointInfo {
	if res.Kind == dynamics.KindPeriodic {
		reduced := qring.EisensteinFromComplex(res.Cycle.Multiplier).Mod(e.mod)
		res.Cycle.Multiplier = reduced.Complex()
	}
	e.memo.Put(OrbitKey[qring.Eisenstein]{Start: start, Param: c}, res)
	return dynamics.EncodeResult[qring.Eisenstein, qring.Eisenstein](e, res, c)
}

var (
	_ dynamics.Family[qring.Gaussian, qring.Gaussian]           = GaussianMandel{}
	_ dynamics.Bailer[qring.Gaussian, qring.Gaussian]           = GaussianMandel{}
	_ dynamics.OrbitEncoder[qring.Gaussian, qring.Gaussian]     = GaussianMandel{}
	_ dynamics.Family[qring.Eisenstein, qring.Eisenstein]       = EisensteinMandel{}
	_ dynamics.Bailer[qring.Eisenstein, qring.Eisenstein]       = EisensteinMandel{}
	_ dynamics.OrbitEncoder[qring.Eisenstein, qring.Eisenstein] = EisensteinMandel{}
)
