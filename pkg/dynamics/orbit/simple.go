package orbit

import (
	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/numeric"
)

// Simple iterates the map forward with only escape and cap checks — no
// cycle detection — so a trajectory display can follow an orbit around
// its cycle instead of stopping at first return.
type Simple[S numeric.State[S], P any] struct {
	family  dynamics.Family[S, P]
	param   P
	radius  float64
	maxIter int

	// Z is the current iterate and Iter the number of produced iterates,
	// so Z = f^(Iter-1) applied to the start point.
	Z    S
	Iter int

	state *dynamics.Result[S]
}

// NewSimple positions a plain forward orbit on the given selection. The
// start point itself is checked immediately: an already-escaped start
// reports Escaped with zero iterations.
func NewSimple[S numeric.State[S], P any](f dynamics.Family[S, P], t numeric.Complex) *Simple[S, P] {
	c := f.ParamMap(t)
	s := &Simple[S, P]{
		family:  f,
		param:   c,
		radius:  f.EscapeRadius(),
		maxIter: f.MaxIter(),
		Z:       f.StartPoint(t, c),
		Iter:    1,
	}
	s.enforceStop()
	return s
}

// Result returns the terminal outcome, or ok=false while the orbit is
// still running.
func (s *Simple[S, P]) Result() (dynamics.Result[S], bool) {
	if s.state == nil {
		return dynamics.Result[S]{}, false
	}
	return *s.state, true
}

// Points drives the orbit to its terminal state and returns every
// iterate from the start point through the final value.
func (s *Simple[S, P]) Points() []S {
	points := []S{s.Z}
	for s.state == nil {
		s.Z = s.family.Map(s.Z, s.param)
		s.Iter++
		s.enforceStop()
		points = append(points, s.Z)
	}
	return points
}

func (s *Simple[S, P]) enforceStop() {
	if s.Z.IsNaN() {
		res := dynamics.Unknown(s.Z)
		s.state = &res
		return
	}
	if s.Iter > s.maxIter {
		res := dynamics.Bounded(s.Z)
		s.state = &res
		return
	}
	if s.Z.NormSq() > s.radius {
		// Iter counts produced iterates, one ahead of map applications.
		res := dynamics.Escaped(s.Iter-1, s.Z)
		s.state = &res
	}
}
