package cli

import (
	"testing"

	"github.com/matzehuels/fatou/pkg/dynamics/family"
	"github.com/matzehuels/fatou/pkg/numeric"
)

func TestSummarizeOrbitEscaped(t *testing.T) {
	sum := summarizeOrbit(family.NewMandelbrot(), numeric.Complex(complex(1, 0)))

	if sum.Kind != "escaped" {
		t.Errorf("Kind = %q, want %q", sum.Kind, "escaped")
	}
	if sum.Iters == 0 {
		t.Error("Iters should be positive for an escaping orbit")
	}
	if len(sum.Points) == 0 {
		t.Error("Points should record the iterates")
	}
	if sum.Period != 0 {
		t.Errorf("Period = %d, want 0 for an escaping orbit", sum.Period)
	}
}

func TestSummarizeOrbitPeriodic(t *testing.T) {
	// The critical orbit at c = 0 is the fixed point z = 0.
	sum := summarizeOrbit(family.NewMandelbrot(), numeric.Complex(0))

	if sum.Kind != "periodic" {
		t.Errorf("Kind = %q, want %q", sum.Kind, "periodic")
	}
	if sum.Period != 1 {
		t.Errorf("Period = %d, want 1", sum.Period)
	}
	if sum.Multiplier == "" {
		t.Error("Multiplier should be set for a periodic orbit")
	}
}

func TestAttachPotential(t *testing.T) {
	fam := family.NewMandelbrot()

	t.Run("escaping point", func(t *testing.T) {
		sum := summarizeOrbit(fam, numeric.Complex(complex(1, 0)))
		attachPotential(&sum, fam, numeric.Complex(complex(1, 0)))

		if sum.Potential == nil {
			t.Fatal("Potential should be set for an escaping point")
		}
		if *sum.Potential <= 0 {
			t.Errorf("Potential = %g, want > 0", *sum.Potential)
		}
		if sum.Gradient == "" {
			t.Error("Gradient should be set alongside the potential")
		}
	})

	t.Run("interior point", func(t *testing.T) {
		sum := summarizeOrbit(fam, numeric.Complex(0))
		attachPotential(&sum, fam, numeric.Complex(0))

		if sum.Potential != nil {
			t.Errorf("Potential = %g, want unset for an interior point", *sum.Potential)
		}
	})
}

func TestFmtC(t *testing.T) {
	tests := []struct {
		name  string
		input numeric.Complex
		want  string
	}{
		{name: "positive imaginary", input: numeric.Complex(complex(1.5, 2)), want: "1.5+2i"},
		{name: "negative imaginary", input: numeric.Complex(complex(-0.5, -0.25)), want: "-0.5-0.25i"},
		{name: "zero", input: numeric.Complex(0), want: "0+0i"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmtC(tt.input); got != tt.want {
				t.Errorf("fmtC(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
