package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/dynamics/family"
	"github.com/matzehuels/fatou/pkg/dynamics/orbit"
	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/numeric/qring"
	"github.com/matzehuels/fatou/pkg/pipeline"
)

// orbitCommand creates the orbit command.
func (c *CLI) orbitCommand() *cobra.Command {
	var (
		familyName    string
		paramStr      string
		modStr        string
		maxIters      int
		showPotential bool
		showAll       bool
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "orbit <re,im>",
		Short: "Trace one orbit and report its fate",
		Long: `Trace one orbit and report its fate.

The point is iterated with cycle detection until it escapes, lands on a
cycle, or hits the iteration cap. Every iterate is recorded, so the
output shows the path as well as the verdict.

Examples:
  fatou orbit -0.5,0.25                       # Mandelbrot parameter orbit
  fatou orbit 0.3,0.1 -F julia --param -1,0   # orbit in a Julia set
  fatou orbit 2,1 -F gaussian --mod 5,2       # orbit in Z[i]/(5+2i)
  fatou orbit 0.3,0.4 --potential             # include the smooth potential`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseComplexArg(args[0])
			if err != nil {
				return err
			}
			if err := pipeline.ValidateFamily(familyName); err != nil {
				return err
			}

			var param, mod numeric.Complex
			if paramStr != "" {
				if param, err = parseComplexArg(paramStr); err != nil {
					return fmt.Errorf("--param: %w", err)
				}
			}
			if modStr != "" {
				if mod, err = parseComplexArg(modStr); err != nil {
					return fmt.Errorf("--mod: %w", err)
				}
			}

			var sum orbitSummary
			switch familyName {
			case pipeline.FamilyMandelbrot:
				fam := family.NewMandelbrot()
				if maxIters > 0 {
					fam.MaxIters = maxIters
				}
				sum = summarizeOrbit(fam, t)
				if showPotential {
					attachPotential(&sum, fam, t)
				}

			case pipeline.FamilyJulia:
				parent := family.NewMandelbrot()
				if maxIters > 0 {
					parent.MaxIters = maxIters
				}
				fam := family.NewJulia(parent, param)
				sum = summarizeOrbit(fam, t)
				if showPotential {
					attachPotential(&sum, fam, t)
				}

			case pipeline.FamilyBiquadratic:
				fam := family.NewBiquadratic(param)
				if maxIters > 0 {
					fam.MaxIters = maxIters
				}
				sum = summarizeOrbit(fam, t)
				if showPotential {
					attachPotential(&sum, fam, t)
				}

			case pipeline.FamilyGaussian:
				if showPotential {
					return fmt.Errorf("--potential needs a complex-state family")
				}
				if mod == 0 {
					return fmt.Errorf("--mod is required for the gaussian family")
				}
				fam := family.NewGaussianMandel(qring.GaussianFromComplex(mod), nil)
				if maxIters > 0 {
					fam.MaxIters = maxIters
				}
				sum = summarizeOrbit(fam, t)

			case pipeline.FamilyEisenstein:
				if showPotential {
					return fmt.Errorf("--potential needs a complex-state family")
				}
				if mod == 0 {
					return fmt.Errorf("--mod is required for the eisenstein family")
				}
				fam := family.NewEisensteinMandel(qring.EisensteinFromComplex(mod), nil)
				if maxIters > 0 {
					fam.MaxIters = maxIters
				}
				sum = summarizeOrbit(fam, t)
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}
			printOrbit(sum, showAll)
			return nil
		},
	}

	cmd.Flags().StringVarP(&familyName, "family", "F", pipeline.FamilyMandelbrot, "family: mandelbrot, julia, biquadratic, gaussian, eisenstein")
	cmd.Flags().StringVar(&paramStr, "param", "", "family parameter as re,im")
	cmd.Flags().StringVar(&modStr, "mod", "", "quotient-ring modulus as re,im")
	cmd.Flags().IntVarP(&maxIters, "iters", "i", 0, "iteration cap")
	cmd.Flags().BoolVar(&showPotential, "potential", false, "compute the smooth potential and its gradient")
	cmd.Flags().BoolVar(&showAll, "all", false, "print every iterate, however long the orbit")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the trajectory as JSON")

	return cmd
}

// orbitSummary is the flattened, family-independent view of a traced
// orbit, shaped for both terminal and JSON output.
type orbitSummary struct {
	Family     string   `json:"family"`
	Start      string   `json:"start"`
	Kind       string   `json:"kind"`
	Iters      int      `json:"iters,omitempty"`
	Points     []string `json:"points"`
	Preperiod  int      `json:"preperiod,omitempty"`
	Period     int      `json:"period,omitempty"`
	Multiplier string   `json:"multiplier,omitempty"`
	Potential  *float64 `json:"potential,omitempty"`
	Gradient   string   `json:"gradient,omitempty"`
}

// summarizeOrbit traces t under f and flattens the trajectory.
func summarizeOrbit[S numeric.State[S], P any](f dynamics.Family[S, P], t numeric.Complex) orbitSummary {
	traj := orbit.Trace(f, t)
	sum := orbitSummary{
		Family: f.Name(),
		Start:  fmt.Sprintf("%v", traj.Start),
		Kind:   traj.Result.Kind.String(),
		Iters:  traj.Result.Iters,
		Points: make([]string, len(traj.Points)),
	}
	for i, p := range traj.Points {
		sum.Points[i] = fmt.Sprintf("%v", p)
	}
	if traj.Result.Kind == dynamics.KindPeriodic || traj.Result.Kind == dynamics.KindKnownPotential {
		sum.Preperiod = traj.Result.Cycle.Preperiod
		sum.Period = traj.Result.Cycle.Period
		sum.Multiplier = fmtC(traj.Result.Cycle.Multiplier)
	}
	return sum
}

// attachPotential runs the potential engine for complex-state families
// and records the result when the point escapes.
func attachPotential[P any](sum *orbitSummary, f dynamics.Family[numeric.Complex, P], t numeric.Complex) {
	pot := orbit.NewPotential(f)
	pot.ResetSelection(t)
	if v, grad, ok := pot.Run(); ok {
		sum.Potential = &v
		sum.Gradient = fmtC(grad)
	}
}

func printOrbit(sum orbitSummary, showAll bool) {
	printSuccess("Orbit of %s under %s", sum.Start, sum.Family)
	printKeyValue("kind", sum.Kind)
	if sum.Iters > 0 {
		printKeyValue("iters", strconv.Itoa(sum.Iters))
	}
	if sum.Period > 0 {
		if sum.Preperiod > 0 {
			printKeyValue("preperiod", strconv.Itoa(sum.Preperiod))
		}
		printKeyValue("period", strconv.Itoa(sum.Period))
		printKeyValue("multiplier", sum.Multiplier)
	}
	if sum.Potential != nil {
		printKeyValue("potential", fmt.Sprintf("%g", *sum.Potential))
		printKeyValue("gradient", sum.Gradient)
	}
	printNewline()
	printOrbitPoints(sum.Points, showAll)
}

// maxOrbitLines caps the iterates shown without --all.
const maxOrbitLines = 16

// printOrbitPoints lists the iterates, eliding the middle of long orbits.
func printOrbitPoints(points []string, showAll bool) {
	if showAll || len(points) <= maxOrbitLines {
		for i, p := range points {
			printIterate(i, p)
		}
		return
	}

	head, tail := maxOrbitLines-4, 2
	for i := 0; i < head; i++ {
		printIterate(i, points[i])
	}
	fmt.Printf("  %s\n", StyleDim.Render(fmt.Sprintf("… %d more …", len(points)-head-tail)))
	for i := len(points) - tail; i < len(points); i++ {
		printIterate(i, points[i])
	}
}

func printIterate(i int, p string) {
	fmt.Printf("  %s %s\n", StyleDim.Render(fmt.Sprintf("z%-4d", i)), p)
}

// fmtC formats a complex value as re+imi without parentheses.
func fmtC(z numeric.Complex) string {
	return fmt.Sprintf("%g%+gi", z.Real(), z.Imag())
}
