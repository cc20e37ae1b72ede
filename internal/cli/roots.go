package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/polysolve"
)

// rootsCommand creates the roots command.
func (c *CLI) rootsCommand() *cobra.Command {
	var (
		showResiduals bool
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "roots <c0> <c1> ... <cn>",
		Short: "Solve a complex polynomial",
		Long: `Solve a complex polynomial.

Coefficients are given constant term first, each as re,im or a bare
real, so "roots 2 0 1" solves z² + 2. Degrees up to four use the closed
forms; higher degrees run the Jenkins-Traub iteration. Coefficients
beginning with a dash need a -- separator before them.

Examples:
  fatou roots -- -1 0 1             # z² − 1 = 0
  fatou roots 0,1 0 1               # z² + i = 0
  fatou roots --residuals 1 0 0 1   # cube roots of −1 with |p(z)| check`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coeffs := make([]numeric.Complex, len(args))
			for i, a := range args {
				z, err := parseComplexArg(a)
				if err != nil {
					return fmt.Errorf("coefficient %d: %w", i, err)
				}
				coeffs[i] = z
			}

			roots := polysolve.Solve(coeffs)
			if roots == nil {
				return fmt.Errorf("no roots: polynomial is constant or has NaN coefficients")
			}

			p := polysolve.Polynomial(coeffs)
			if asJSON {
				out := struct {
					Degree    int               `json:"degree"`
					Roots     []numeric.Complex `json:"roots"`
					Residuals []float64         `json:"residuals,omitempty"`
				}{Degree: len(roots), Roots: roots}
				if showResiduals {
					out.Residuals = residuals(p, roots)
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			printSuccess("%d root(s)", len(roots))
			res := residuals(p, roots)
			for i, r := range roots {
				line := fmtC(r)
				if showResiduals {
					line += "  " + StyleDim.Render(fmt.Sprintf("|p(z)| = %.2e", res[i]))
				}
				fmt.Printf("  %s %s\n", StyleDim.Render(fmt.Sprintf("z%-3d", i)), line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showResiduals, "residuals", false, "evaluate the polynomial at each root")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the roots as JSON")

	return cmd
}

// residuals evaluates |p(z)| at each root.
func residuals(p polysolve.Polynomial, roots []numeric.Complex) []float64 {
	out := make([]float64, len(roots))
	for i, r := range roots {
		out[i] = p.Eval(r).Norm()
	}
	return out
}
