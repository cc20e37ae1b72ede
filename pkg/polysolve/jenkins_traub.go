package polysolve

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/fatou/pkg/numeric"
)

// Jenkins–Traub stage limits. The stage-1 closeness factor 0.25 and the
// residual threshold are tuned values; changing them trades reliability
// against iteration count.
const (
	noShiftSteps   = 12
	limitStage1    = 50
	limitStage2    = 160
	maxTriesStage1 = 8
	maxTriesStage2 = 4
	solverEps      = 1e-17
)

// defaultSeed makes an unseeded solver deterministic. Any seed works: bad
// shift angles are recovered by the retry loops, so determinism costs
// nothing and keeps results reproducible run to run.
const defaultSeed uint64 = 1

// JenkinsTraubSolver finds roots of a polynomial by the three-stage
// Jenkins–Traub iteration: no-shift H-polynomial warmup, fixed random
// shifts on the Cauchy circle until the root estimate stabilizes, then
// variable shifts until the residual vanishes.
//
// The solver owns its working polynomial. Poly is monic after
// construction and loses one degree per found root as [FindAllRoots]
// deflates it.
type JenkinsTraubSolver struct {
	Poly Polynomial

	hPoly       Polynomial
	hInit       Polynomial
	cauchyRoot  float64
	rng         *rand.Rand
	bestRoot    numeric.Complex
	bestNorm    float64
	stage1Shift numeric.Complex
}

// NewJenkinsTraub returns a solver for p with the default seed.
func NewJenkinsTraub(p Polynomial) *JenkinsTraubSolver {
	return NewJenkinsTraubSeeded(p, defaultSeed)
}

// NewJenkinsTraubSeeded returns a solver for p drawing its shift angles
// from the given seed. The input is copied and normalized to monic form.
func NewJenkinsTraubSeeded(p Polynomial, seed uint64) *JenkinsTraubSolver {
	poly := p.Clone()
	poly.Monic()

	// The positive root of the coefficient-norm polynomial bounds the
	// root moduli. When the capped Newton search fails (it usually does:
	// the norm polynomial has no positive root unless the constant term
	// vanishes), seeds fall back to the unit circle.
	cauchyRoot, ok := poly.CauchyPolynomial().FindRootNewton(1.0, solverEps)
	if !ok {
		cauchyRoot = 1.0
	}

	return &JenkinsTraubSolver{
		Poly:        poly,
		hPoly:       poly.Derivative(),
		cauchyRoot:  cauchyRoot,
		rng:         rand.New(rand.NewPCG(seed, seed^0xdeadbeef)),
		bestRoot:    numeric.NaN(),
		bestNorm:    math.Inf(1),
		stage1Shift: numeric.NaN(),
	}
}

// incrementHNoShift advances H ← (c·H + P)/x with c chosen to cancel the
// constant term. A 0/0 ratio falls back to evaluation just off the origin.
func (s *JenkinsTraubSolver) incrementHNoShift() {
	c := -s.Poly.Eval(0) / s.hPoly.Eval(0)
	if c.IsNaN() {
		c = -s.Poly.Eval(solverEps) / s.hPoly.Eval(solverEps)
	}
	s.hPoly.MulConst(c)
	s.hPoly.Add(s.Poly)
	s.hPoly.DivideByVar()
}

// incrementH advances H ← (c·H + P)/(x − shift) with c chosen to cancel
// the value at the shift.
func (s *JenkinsTraubSolver) incrementH(shift numeric.Complex) {
	c := -s.Poly.Eval(shift) / s.hPoly.Eval(shift)
	s.hPoly.MulConst(c)
	s.hPoly.Add(s.Poly)
	s.hPoly.DivideByAffine(shift)
}

// seed picks a uniformly random angle on the Cauchy circle.
func (s *JenkinsTraubSolver) seed() numeric.Complex {
	theta := s.rng.Float64() * 2 * math.Pi
	return numeric.Rect(s.cauchyRoot, theta)
}

// estimate returns the current root estimate at the given shift.
func (s *JenkinsTraubSolver) estimate(shift numeric.Complex) numeric.Complex {
	return shift - s.Poly.Eval(shift)/s.hPoly.Eval(shift)
}

// resetH restores the H-polynomial saved after stage 0, discarding the
// shifts applied since.
func (s *JenkinsTraubSolver) resetH() {
	s.hPoly = s.hInit.Clone()
}

func (s *JenkinsTraubSolver) resetBest() {
	s.bestRoot = numeric.NaN()
	s.bestNorm = math.Inf(1)
}

// stage0 applies the no-shift warmup and saves the resulting H-polynomial
// so failed stage-2 attempts can restart from it.
func (s *JenkinsTraubSolver) stage0() {
	for range noShiftSteps {
		s.incrementHNoShift()
	}
	s.hInit = s.hPoly.Clone()
}

// stage1 applies fixed-shift iterations from a fresh random seed. The
// estimate is accepted only after two consecutive steps each move it by
// less than half its magnitude; a single close step is routinely a fluke.
func (s *JenkinsTraubSolver) stage1() (numeric.Complex, bool) {
	shift := s.seed()

	tCurr := numeric.NaN()
	wasClose := false

	for range limitStage1 {
		s.incrementH(shift)
		tNext := s.estimate(shift)

		switch {
		case (tCurr - tNext).NormSq() < 0.25*tCurr.NormSq():
			if wasClose {
				return tNext, true
			}
			wasClose = true
		case shift.IsNaN():
			return numeric.NaN(), false
		default:
			wasClose = false
		}

		tCurr = tNext
	}

	s.stage1Shift = shift
	return numeric.NaN(), false
}

// loopStage1 retries stage 1 with fresh seeds, falling through with the
// last shift when no estimate stabilizes.
func (s *JenkinsTraubSolver) loopStage1() numeric.Complex {
	for range maxTriesStage1 {
		if t, ok := s.stage1(); ok {
			return t
		}
	}
	return s.stage1Shift
}

// stage2 applies variable-shift iterations from the stage-1 estimate,
// accepting when the residual |P(s)|² drops below the threshold and
// recording the best candidate seen for the give-up path.
func (s *JenkinsTraubSolver) stage2(shift numeric.Complex) (numeric.Complex, bool) {
	for range limitStage2 {
		s.incrementH(shift)
		shift = s.estimate(shift)

		norm := s.Poly.Eval(shift).NormSq()
		if norm < solverEps {
			return shift, true
		}
		if norm < s.bestNorm {
			s.bestRoot = shift
			s.bestNorm = norm
		}

		if shift.IsNaN() {
			return shift, false
		}
	}
	return numeric.NaN(), false
}

// FindSmallestRoot runs the full three-stage iteration and returns one
// root. When every retry is exhausted it returns the lowest-residual
// candidate encountered, which may be NaN for a hopeless polynomial.
func (s *JenkinsTraubSolver) FindSmallestRoot() numeric.Complex {
	s.resetBest()
	s.stage0()

	for range maxTriesStage2 {
		shift := s.loopStage1()

		if root, ok := s.stage2(shift); ok {
			return root
		}
		s.resetH()
	}
	return s.bestRoot
}

// FindAllRoots finds the full root set, deflating the working polynomial
// by each root as it is found. Roots come out roughly smallest first;
// residuals against the original polynomial grow with the deflation
// depth.
func (s *JenkinsTraubSolver) FindAllRoots() []numeric.Complex {
	n := s.Poly.Degree()
	if n < 1 {
		return nil
	}
	roots := make([]numeric.Complex, 0, n)
	for range n {
		r := s.FindSmallestRoot()
		s.Poly.DivideByAffine(r)
		roots = append(roots, r)
	}
	return roots
}
