package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fatou/pkg/dynamics/family"
	"github.com/matzehuels/fatou/pkg/numeric"
)

// cyclesCommand creates the cycles command.
func (c *CLI) cyclesCommand() *cobra.Command {
	var (
		atStr  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "cycles <period>",
		Short: "List Mandelbrot cycle centers or periodic points",
		Long: `List Mandelbrot cycle centers or periodic points.

Without --at the output lives in the parameter plane: the centers of
the period-n hyperbolic components, i.e. the roots of the critical-orbit
polynomial. With --at it moves to the dynamical plane: the points of
exact period n under z² + c for the given c.

Centers are tabulated for periods one through five, periodic points for
periods one through four.

Examples:
  fatou cycles 3              # centers of the period-3 components
  fatou cycles 2 --at -1,0    # the 2-cycle of the basilica
  fatou cycles 1 --at 0.25,0 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, err := strconv.Atoi(args[0])
			if err != nil || period < 1 {
				return fmt.Errorf("period must be a positive integer, got %q", args[0])
			}

			fam := family.NewMandelbrot()
			var points []numeric.Complex
			var title string
			if atStr != "" {
				at, err := parseComplexArg(atStr)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				points = fam.PeriodicPoints(at, period)
				title = fmt.Sprintf("period-%d points at c = %s", period, fmtC(at))
			} else {
				points = fam.MarkedCycles(period)
				title = fmt.Sprintf("period-%d component centers", period)
			}
			if points == nil {
				return fmt.Errorf("no closed form or table for period %d", period)
			}

			sort.Slice(points, func(i, j int) bool {
				if points[i].Real() != points[j].Real() {
					return points[i].Real() < points[j].Real()
				}
				return points[i].Imag() < points[j].Imag()
			})

			if asJSON {
				out := struct {
					Period int               `json:"period"`
					Points []numeric.Complex `json:"points"`
				}{Period: period, Points: points}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			printSuccess("%d %s", len(points), title)
			for _, p := range points {
				fmt.Printf("  %s\n", fmtC(p))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&atStr, "at", "", "parameter c as re,im: list dynamical-plane periodic points instead of centers")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the points as JSON")

	return cmd
}
