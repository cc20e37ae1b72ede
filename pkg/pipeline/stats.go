package pipeline

import (
	"time"

	"github.com/matzehuels/fatou/pkg/dynamics"
)

// Stats contains pipeline execution statistics.
type Stats struct {
	// Pixels is the number of classified points.
	Pixels int `json:"pixels"`

	// Classification counts. Escaped includes distance estimates,
	// Periodic includes closed-form interior memberships.
	Escaped  int `json:"escaped"`
	Periodic int `json:"periodic"`
	Interior int `json:"interior"`
	Unknown  int `json:"unknown"`

	ComputeTime time.Duration `json:"compute_time"`
	RenderTime  time.Duration `json:"render_time"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlaneHit  bool `json:"plane_hit"`  // Whether the computed plane came from cache
	RenderHit bool `json:"render_hit"` // Whether all artifacts came from cache
}

// Tally fills the classification counts from a computed plane.
func (s *Stats) Tally(p *dynamics.IterPlane) {
	s.Pixels = len(p.Points)
	s.Escaped, s.Periodic, s.Interior, s.Unknown = 0, 0, 0, 0

	for i := range p.Points {
		switch p.Points[i].Class {
		case dynamics.ClassEscaping, dynamics.ClassDistanceEstimate:
			s.Escaped++
		case dynamics.ClassPeriodic, dynamics.ClassKnownPotential:
			s.Periodic++
		case dynamics.ClassBounded:
			s.Interior++
		default:
			s.Unknown++
		}
	}
}

// EscapedShare returns the escaped fraction of the plane, for progress
// summaries.
func (s Stats) EscapedShare() float64 {
	if s.Pixels == 0 {
		return 0
	}
	return float64(s.Escaped) / float64(s.Pixels)
}
