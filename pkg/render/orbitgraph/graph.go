package orbitgraph

import (
	"fmt"

	"github.com/matzehuels/fatou/pkg/numeric/qring"
)

// Graph is the functional graph of z ↦ z²+c on the residues mod M: every
// residue has exactly one successor, so the graph decomposes into trees
// hanging off disjoint cycles.
type Graph[S comparable] struct {
	// Title describes the map, for diagram headings.
	Title string

	// Nodes lists one canonical representative per residue class, in
	// enumeration order.
	Nodes []S

	// Succ maps each node to its image under the iteration.
	Succ map[S]S

	// Cycles holds the disjoint cycles in orbit order, in the order
	// they were discovered.
	Cycles [][]S

	cyclic map[S]bool
}

// OnCycle reports whether n lies on a cycle.
func (g *Graph[S]) OnCycle(n S) bool { return g.cyclic[n] }

// Order returns the number of residues mod M.
func (g *Graph[S]) Order() int { return len(g.Nodes) }

// Gaussian builds the functional graph of z ↦ z²+c over Z[i]/(m).
func Gaussian(c, m qring.Gaussian) (*Graph[qring.Gaussian], error) {
	if m.IsZero() {
		return nil, fmt.Errorf("modulus must be nonzero")
	}
	lat := newResidueLattice(m.A, m.B, -m.B, m.A)
	ca, cb := lat.canon(c.A, c.B)
	c = qring.NewGaussian(ca, cb)
	g := build(residues(lat, qring.NewGaussian), func(z qring.Gaussian) qring.Gaussian {
		w := z.Mul(z).Add(c)
		wa, wb := lat.canon(w.A, w.B)
		return qring.NewGaussian(wa, wb)
	})
	g.Title = fmt.Sprintf("z² + (%v) mod %v", c, m)
	return g, nil
}

// Eisenstein builds the functional graph of z ↦ z²+c over Z[ω]/(m).
func Eisenstein(c, m qring.Eisenstein) (*Graph[qring.Eisenstein], error) {
	if m.IsZero() {
		return nil, fmt.Errorf("modulus must be nonzero")
	}
	lat := newResidueLattice(m.A, m.B, -m.B, m.A-m.B)
	ca, cb := lat.canon(c.A, c.B)
	c = qring.NewEisenstein(ca, cb)
	g := build(residues(lat, qring.NewEisenstein), func(z qring.Eisenstein) qring.Eisenstein {
		w := z.Mul(z).Add(c)
		wa, wb := lat.canon(w.A, w.B)
		return qring.NewEisenstein(wa, wb)
	})
	g.Title = fmt.Sprintf("z² + (%v) mod %v", c, m)
	return g, nil
}

func residues[S any](lat residueLattice, mk func(int64, int64) S) []S {
	nodes := make([]S, 0, lat.xPeriod*lat.yStep)
	for b := int64(0); b < lat.yStep; b++ {
		for a := int64(0); a < lat.xPeriod; a++ {
			nodes = append(nodes, mk(a, b))
		}
	}
	return nodes
}

func build[S comparable](nodes []S, succ func(S) S) *Graph[S] {
	g := &Graph[S]{
		Nodes:  nodes,
		Succ:   make(map[S]S, len(nodes)),
		cyclic: make(map[S]bool),
	}
	for _, n := range nodes {
		g.Succ[n] = succ(n)
	}
	g.findCycles()
	return g
}

// findCycles walks each unexplored forward orbit. Hitting a node of the
// active walk closes a new cycle; hitting a finished node means the walk
// merged into a known component.
func (g *Graph[S]) findCycles() {
	const (
		unseen = iota
		active
		settled
	)
	state := make(map[S]int8, len(g.Nodes))

	for _, start := range g.Nodes {
		if state[start] != unseen {
			continue
		}
		var path []S
		n := start
		for state[n] == unseen {
			state[n] = active
			path = append(path, n)
			n = g.Succ[n]
		}
		if state[n] == active {
			i := len(path) - 1
			for path[i] != n {
				i--
			}
			cyc := append([]S(nil), path[i:]...)
			g.Cycles = append(g.Cycles, cyc)
			for _, v := range cyc {
				g.cyclic[v] = true
			}
		}
		for _, v := range path {
			state[v] = settled
		}
	}
}

// residueLattice reduces ring elements to a canonical transversal of the
// quotient by the ideal (m). The ideal is a rank-2 sublattice of the
// coordinate plane; a Hermite-style basis (one generator on the first
// axis, one of minimal positive second coordinate) turns class membership
// into two integer remainders. This sidesteps the tie cases of rounded
// division, which can hand equivalent elements different representatives.
type residueLattice struct {
	xPeriod int64 // (xPeriod, 0) generates the axis sublattice
	yStep   int64 // minimal positive second coordinate in the ideal
	yVecA   int64 // first coordinate of a generator (yVecA, yStep)
}

func newResidueLattice(ua, ub, va, vb int64) residueLattice {
	det := ua*vb - ub*va
	if det < 0 {
		det = -det
	}
	g, p, q := egcd(ub, vb)
	return residueLattice{
		xPeriod: det / g,
		yStep:   g,
		yVecA:   p*ua + q*va,
	}
}

func (l residueLattice) canon(a, b int64) (int64, int64) {
	k := floorDiv(b, l.yStep)
	a -= k * l.yVecA
	b -= k * l.yStep
	return floorMod(a, l.xPeriod), b
}

// egcd returns g = gcd(a, b) ≥ 0 with p·a + q·b = g.
func egcd(a, b int64) (g, p, q int64) {
	r0, r1 := a, b
	p0, p1 := int64(1), int64(0)
	q0, q1 := int64(0), int64(1)
	for r1 != 0 {
		k := r0 / r1
		r0, r1 = r1, r0-k*r1
		p0, p1 = p1, p0-k*p1
		q0, q1 = q1, q0-k*q1
	}
	if r0 < 0 {
		return -r0, -p0, -q0
	}
	return r0, p0, q0
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 { return a - floorDiv(a, b)*b }
