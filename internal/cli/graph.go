package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fatou/pkg/numeric/qring"
	"github.com/matzehuels/fatou/pkg/render/orbitgraph"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		ring     string
		modStr   string
		paramStr string
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw the functional graph of z² + c over a finite quotient ring",
		Long: `Draw the functional graph of z² + c over a finite quotient ring.

Modding the Gaussian or Eisenstein integers by m leaves finitely many
residues, so the map becomes a functional graph: every residue has one
successor, and each connected component is a cycle with trees hanging
off it. Residues on a cycle are drawn as gold double circles.

Examples:
  fatou graph --mod 3,1                          # Z[i]/(3+i), c = 0
  fatou graph --mod 5,0 --param 1,1 --detailed   # with residue norms
  fatou graph --ring eisenstein --mod 3,1 --format png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ma, mb, err := parseIntPairArg(modStr)
			if err != nil {
				return fmt.Errorf("--mod: %w", err)
			}
			ca, cb := int64(0), int64(0)
			if paramStr != "" {
				if ca, cb, err = parseIntPairArg(paramStr); err != nil {
					return fmt.Errorf("--param: %w", err)
				}
			}
			if output == "" {
				output = "fatou-graph." + format
			}

			switch ring {
			case "gaussian":
				g, err := orbitgraph.Gaussian(qring.NewGaussian(ca, cb), qring.NewGaussian(ma, mb))
				if err != nil {
					return err
				}
				return emitGraph(g, format, output, detailed)
			case "eisenstein":
				g, err := orbitgraph.Eisenstein(qring.NewEisenstein(ca, cb), qring.NewEisenstein(ma, mb))
				if err != nil {
					return err
				}
				return emitGraph(g, format, output, detailed)
			default:
				return fmt.Errorf("unknown ring %q (want gaussian or eisenstein)", ring)
			}
		},
	}

	cmd.Flags().StringVar(&ring, "ring", "gaussian", "quotient ring: gaussian or eisenstein")
	cmd.Flags().StringVar(&modStr, "mod", "", "modulus as a,b (required)")
	cmd.Flags().StringVar(&paramStr, "param", "", "additive constant c as a,b")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, png, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: fatou-graph.<format>)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include residue norms in node labels")
	_ = cmd.MarkFlagRequired("mod")

	return cmd
}

// emitGraph renders the graph in the requested format, writes it, and
// prints the cycle structure.
func emitGraph[S interface {
	comparable
	String() string
	NormSq() float64
}](g *orbitgraph.Graph[S], format, output string, detailed bool) error {
	dot := orbitgraph.ToDOT(g, orbitgraph.Options{Detailed: detailed})

	var (
		data []byte
		err  error
	)
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = orbitgraph.RenderSVG(dot)
	case "png":
		data, err = orbitgraph.RenderPNG(dot)
	default:
		return fmt.Errorf("unknown format %q (want svg, png, or dot)", format)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("%s", g.Title)
	printKeyValue("residues", strconv.Itoa(g.Order()))
	printKeyValue("cycles", strconv.Itoa(len(g.Cycles)))
	for _, cyc := range g.Cycles {
		parts := make([]string, len(cyc))
		for i, n := range cyc {
			parts[i] = n.String()
		}
		printDetail("len %d: %s", len(cyc), strings.Join(parts, " → "))
	}
	printFile(output)
	return nil
}

// parseIntPairArg parses "a,b" (or a bare "a") into two integers.
func parseIntPairArg(s string) (int64, int64, error) {
	parts := strings.Split(s, ",")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("want a,b, got %q", s)
	}
	a, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid integer %q", parts[0])
	}
	var b int64
	if len(parts) == 2 {
		b, err = strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid integer %q", parts[1])
		}
	}
	return a, b, nil
}
