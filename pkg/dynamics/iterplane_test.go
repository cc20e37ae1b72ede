package dynamics_test

import (
	"testing"

	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/plane"
)

func TestNewIterPlaneDefaults(t *testing.T) {
	grid := plane.NewGrid(8, 5, plane.CenteredSquare(2))
	p := dynamics.NewIterPlane(grid)

	if got, want := len(p.Points), grid.NumPixels(); got != want {
		t.Fatalf("len(Points) = %d, want %d", got, want)
	}
	for i, info := range p.Points {
		if info.Class != dynamics.ClassBounded || info.Phase != -1 {
			t.Fatalf("point %d = %+v, want bounded with phase -1", i, info)
		}
	}
}

func TestIterPlaneAtSet(t *testing.T) {
	p := dynamics.NewIterPlane(plane.NewGrid(8, 5, plane.CenteredSquare(2)))
	info := dynamics.PointInfo{Class: dynamics.ClassEscaping, Potential: 3.5, Phase: -1}

	p.Set(3, 2, info)
	if got := p.At(3, 2); got != info {
		t.Errorf("At(3, 2) = %+v, want %+v", got, info)
	}
	// The transposed pixel must stay untouched: indexing is row-major.
	if got := p.At(2, 3); got.Class != dynamics.ClassBounded {
		t.Errorf("At(2, 3) = %+v, want the bounded default", got)
	}
}

func TestIterPlaneRow(t *testing.T) {
	p := dynamics.NewIterPlane(plane.NewGrid(8, 5, plane.CenteredSquare(2)))

	row := p.Row(1)
	if len(row) != 8 {
		t.Fatalf("len(Row(1)) = %d, want 8", len(row))
	}
	row[6] = dynamics.PointInfo{Class: dynamics.ClassPeriodic, Phase: -1}
	if got := p.At(6, 1); got.Class != dynamics.ClassPeriodic {
		t.Errorf("At(6, 1) = %+v, want the row write to show through", got)
	}
}

func TestIterPlaneFill(t *testing.T) {
	p := dynamics.NewIterPlane(plane.NewGrid(4, 3, plane.CenteredSquare(1)))
	info := dynamics.PointInfo{Class: dynamics.ClassUnknown, Phase: -1}

	p.Fill(info)
	for i := range p.Points {
		if p.Points[i] != info {
			t.Fatalf("point %d = %+v, want %+v", i, p.Points[i], info)
		}
	}
}
