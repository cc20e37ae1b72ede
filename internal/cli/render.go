package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fatou/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      optionFlags
		formatsStr string
		output     string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a dynamical plane to image and data artifacts",
		Long: `Render a dynamical plane to image and data artifacts.

Every grid point is classified by its orbit (escaping, periodic,
bounded) and colored by the selected algorithm. Computed planes and
encoded artifacts are cached, so re-rendering the same view with a
different palette skips the iteration entirely.

Examples:
  fatou render                                    # default Mandelbrot view
  fatou render --profile seahorse                 # named profile
  fatou render -F julia --param -0.8,0.156        # Julia set for c
  fatou render -F gaussian --mod 3,1 -i 64        # Gaussian-integer family
  fatou render --center -0.743,0.1318 --radius 5e-4 -i 2000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			if formatsStr != "" {
				opts.Formats = parseFormats(formatsStr)
			}
			opts.Logger = loggerFromContext(cmd.Context())

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			sp := newSpinner(cmd.Context(), "Computing plane")
			sp.Start()
			result, err := runner.Execute(cmd.Context(), opts)
			if err != nil {
				sp.StopWithError("Render failed")
				return err
			}
			sp.Stop()

			paths, err := writeArtifacts(output, result)
			if err != nil {
				return err
			}

			printSuccess("Rendered %dx%d plane", result.Plane.Grid.ResX, result.Plane.Grid.ResY)
			printStats(result.Stats, result.CacheInfo.PlaneHit)
			if !result.CacheInfo.PlaneHit {
				printDetail("compute %s · render %s",
					result.Stats.ComputeTime.Round(time.Millisecond),
					result.Stats.RenderTime.Round(time.Millisecond))
			}
			for _, p := range paths {
				printFile(p)
			}
			printNextStep("Explore interactively", "fatou tui")
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png, json (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path base (default: fatou-<job>)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the plane and artifact caches")

	return cmd
}

// writeArtifacts writes the result's artifacts under a common base path,
// one file per format. An empty base derives one from the job ID.
func writeArtifacts(base string, result *pipeline.Result) ([]string, error) {
	if base == "" {
		base = "fatou-" + result.JobID[:8]
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	formats := make([]string, 0, len(result.Artifacts))
	for f := range result.Artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + f
		if err := os.WriteFile(path, result.Artifacts[f], 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
