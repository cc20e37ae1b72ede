package dynamics

import (
	"github.com/matzehuels/fatou/pkg/numeric"
)

// Kind classifies the raw outcome of an orbit computation.
type Kind uint8

const (
	// KindUnknown means the orbit could not be classified, typically
	// because an iterate became NaN.
	KindUnknown Kind = iota

	// KindEscaped means the orbit crossed the escape radius.
	KindEscaped

	// KindPeriodic means the cycle detector confirmed a cycle.
	KindPeriodic

	// KindKnownPotential means a closed-form membership test classified
	// the orbit without iterating.
	KindKnownPotential

	// KindBounded means the orbit reached the iteration cap without
	// escaping or cycling.
	KindBounded
)

func (k Kind) String() string {
	switch k {
	case KindEscaped:
		return "escaped"
	case KindPeriodic:
		return "periodic"
	case KindKnownPotential:
		return "known-potential"
	case KindBounded:
		return "bounded"
	default:
		return "unknown"
	}
}

// CycleInfo describes a detected (or closed-form) cycle.
type CycleInfo struct {
	// Preperiod is the iteration count at which the cycle was detected.
	Preperiod int `json:"preperiod,omitempty"`

	// Period is the confirmed cycle length.
	Period int `json:"period,omitempty"`

	// Multiplier is the accumulated derivative around the cycle.
	Multiplier numeric.Complex `json:"multiplier"`

	// FinalError is the squared slow/fast distance that triggered
	// detection; interior potential shading reads it.
	FinalError float64 `json:"final_error,omitempty"`
}

// Result is the raw outcome of running one orbit. It is a flat struct
// discriminated by Kind; fields not named by the kind's constructor are
// zero.
type Result[S any] struct {
	Kind Kind

	// Iters is the iteration count at escape.
	Iters int

	// Final is the last state: the escaping iterate, the bounded or
	// unknown endpoint, or a representative point of a detected cycle.
	Final S

	// Cycle is set for periodic and known-potential outcomes.
	Cycle CycleInfo

	// Potential is the closed-form interior potential of a
	// known-potential outcome.
	Potential float64
}

// Escaped reports an orbit that crossed the escape radius at iteration
// iters with final state z.
func Escaped[S any](iters int, z S) Result[S] {
	return Result[S]{Kind: KindEscaped, Iters: iters, Final: z}
}

// Periodic reports a confirmed cycle, with the iterate at which detection
// fired as a representative point on (or near) the cycle.
func Periodic[S any](cycle CycleInfo, z S) Result[S] {
	return Result[S]{Kind: KindPeriodic, Cycle: cycle, Final: z}
}

// Bounded reports an orbit that reached the iteration cap at state z.
func Bounded[S any](z S) Result[S] {
	return Result[S]{Kind: KindBounded, Final: z}
}

// Unknown reports an unclassifiable orbit ending at state z.
func Unknown[S any](z S) Result[S] {
	return Result[S]{Kind: KindUnknown, Final: z}
}

// KnownPotential reports a closed-form interior classification: the orbit
// converges to a cycle of the given period and multiplier, with the given
// potential relative to the cycle.
func KnownPotential[S any](period int, multiplier numeric.Complex, potential float64) Result[S] {
	return Result[S]{
		Kind:      KindKnownPotential,
		Cycle:     CycleInfo{Period: period, Multiplier: multiplier},
		Potential: potential,
	}
}

// Class is the final classification of a point, produced by the encoder
// and consumed by palettes, exports, and the explorer.
type Class uint8

const (
	// ClassUnknown marks unclassifiable points.
	ClassUnknown Class = iota

	// ClassEscaping marks points outside the filled set, carrying a
	// smooth potential.
	ClassEscaping

	// ClassPeriodic marks interior points with a confirmed cycle.
	ClassPeriodic

	// ClassKnownPotential marks interior points classified in closed
	// form.
	ClassKnownPotential

	// ClassBounded marks points that never escaped nor visibly cycled.
	ClassBounded

	// ClassWandering marks points confirmed to neither escape nor
	// converge (reserved for families that can prove it).
	ClassWandering

	// ClassDistanceEstimate marks escaping points carrying an exterior
	// distance estimate instead of a potential.
	ClassDistanceEstimate
)

func (c Class) String() string {
	switch c {
	case ClassEscaping:
		return "escaping"
	case ClassPeriodic:
		return "periodic"
	case ClassKnownPotential:
		return "known-potential"
	case ClassBounded:
		return "bounded"
	case ClassWandering:
		return "wandering"
	case ClassDistanceEstimate:
		return "distance-estimate"
	default:
		return "unknown"
	}
}

// PointInfo is the renderable classification of one point. It is a flat
// struct discriminated by Class.
type PointInfo struct {
	Class Class `json:"class"`

	// Potential is the smooth iteration count for escaping points and
	// the closed-form potential for known-potential points.
	Potential float64 `json:"potential,omitempty"`

	// Phase is the escape phase (iteration count modulo the escaping
	// period), or −1 when not meaningful.
	Phase int `json:"phase"`

	// Distance is the exterior distance estimate for
	// [ClassDistanceEstimate] points.
	Distance float64 `json:"distance,omitempty"`

	// Cycle carries the cycle data of periodic and known-potential
	// points.
	Cycle CycleInfo `json:"cycle,omitzero"`
}
