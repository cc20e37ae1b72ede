package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/pipeline"
	"github.com/matzehuels/fatou/pkg/plane"
	"github.com/matzehuels/fatou/pkg/profile"
	"github.com/matzehuels/fatou/pkg/render/planeimg"
)

// =============================================================================
// Option Flags - shared by render, tui, and profile save
// =============================================================================

// optionFlags holds the command-line flags that select what to compute
// and how to color it. Flags left unset defer to the profile named by
// --profile (if any) and then to the pipeline defaults, so a profile can
// be partially overridden from the command line.
type optionFlags struct {
	profile   string
	family    string
	param     string // complex as "re,im"
	mod       string
	center    string
	radius    float64
	bounds    string // "minX,maxX,minY,maxY"
	resX      int
	resY      int
	maxIters  int
	engine    string
	workers   int
	algorithm string
	phase     bool
	fillRate  float64
	palette   string // palette TOML file
	refresh   bool
}

// register adds the option flags to cmd.
func (o *optionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.profile, "profile", "p", "", "seed options from a named profile")
	cmd.Flags().StringVarP(&o.family, "family", "F", "", "family: mandelbrot, julia, biquadratic, gaussian, eisenstein")
	cmd.Flags().StringVar(&o.param, "param", "", "family parameter as re,im (julia seed / biquadratic increment)")
	cmd.Flags().StringVar(&o.mod, "mod", "", "quotient-ring modulus as re,im")
	cmd.Flags().StringVar(&o.center, "center", "", "view center as re,im (with --radius)")
	cmd.Flags().Float64Var(&o.radius, "radius", 0, "view half-width around --center")
	cmd.Flags().StringVar(&o.bounds, "bounds", "", "view rectangle as minX,maxX,minY,maxY")
	cmd.Flags().IntVar(&o.resX, "res-x", 0, "image width in pixels")
	cmd.Flags().IntVar(&o.resY, "res-y", 0, "image height in pixels (default: from aspect ratio)")
	cmd.Flags().IntVarP(&o.maxIters, "iters", "i", 0, "iteration cap")
	cmd.Flags().StringVar(&o.engine, "engine", "", "orbit engine: floyd (default), distance")
	cmd.Flags().IntVar(&o.workers, "workers", 0, "parallel workers (default: GOMAXPROCS)")
	cmd.Flags().StringVarP(&o.algorithm, "algorithm", "a", "", "interior coloring algorithm")
	cmd.Flags().BoolVar(&o.phase, "phase", false, "hue escaping points by escape phase")
	cmd.Flags().Float64Var(&o.fillRate, "fill-rate", 0, "interior luminosity fill rate")
	cmd.Flags().StringVar(&o.palette, "palette", "", "palette TOML file")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "bypass cached planes and artifacts")
}

// options resolves the flags into pipeline options. The profile (if any)
// seeds the options, explicit flags override it, and anything still zero
// is left for the pipeline's own defaulting.
func (o *optionFlags) options(cmd *cobra.Command) (pipeline.Options, error) {
	var opts pipeline.Options

	if o.profile != "" {
		dir, err := profile.Dir()
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("profile dir: %w", err)
		}
		p, err := profile.Load(dir, o.profile)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts = p.Options()
	}

	if o.family != "" {
		opts.Family = o.family
	}
	if o.param != "" {
		z, err := parseComplexArg(o.param)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("--param: %w", err)
		}
		opts.Param = z
	}
	if o.mod != "" {
		z, err := parseComplexArg(o.mod)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("--mod: %w", err)
		}
		opts.Mod = z
	}
	if err := o.applyView(&opts); err != nil {
		return pipeline.Options{}, err
	}
	if o.resX > 0 {
		opts.ResX = o.resX
	}
	if o.resY > 0 {
		opts.ResY = o.resY
	}
	if o.maxIters > 0 {
		opts.MaxIters = o.maxIters
	}
	if o.engine != "" {
		opts.Engine = o.engine
	}
	if o.workers > 0 {
		opts.Workers = o.workers
	}
	if o.algorithm != "" {
		opts.Algorithm = o.algorithm
	}
	if cmd.Flags().Changed("phase") {
		opts.PhaseColoring = o.phase
	}
	if o.fillRate > 0 {
		opts.FillRate = o.fillRate
	}
	if o.palette != "" {
		pal, err := planeimg.LoadPalette(o.palette)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("load palette %s: %w", o.palette, err)
		}
		opts.Palette = pal
	}
	opts.Refresh = o.refresh

	return opts, nil
}

// applyView sets the view rectangle from --bounds or --center/--radius.
// The two forms are mutually exclusive.
func (o *optionFlags) applyView(opts *pipeline.Options) error {
	hasCenter := o.center != "" || o.radius != 0
	if o.bounds != "" && hasCenter {
		return fmt.Errorf("--bounds and --center/--radius are mutually exclusive")
	}

	switch {
	case o.bounds != "":
		b, err := parseBoundsArg(o.bounds)
		if err != nil {
			return fmt.Errorf("--bounds: %w", err)
		}
		opts.Bounds = b
	case hasCenter:
		if o.radius <= 0 {
			return fmt.Errorf("--center requires a positive --radius")
		}
		center, err := parseComplexArg(o.center)
		if err != nil {
			return fmt.Errorf("--center: %w", err)
		}
		opts.Bounds = plane.Square(o.radius, center)
	}
	return nil
}

// parseComplexArg parses "re,im" (or a bare "re") into a complex value.
func parseComplexArg(s string) (numeric.Complex, error) {
	parts := strings.Split(s, ",")
	if len(parts) > 2 {
		return 0, fmt.Errorf("want re,im, got %q", s)
	}
	re, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid real part %q", parts[0])
	}
	im := 0.0
	if len(parts) == 2 {
		im, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid imaginary part %q", parts[1])
		}
	}
	return numeric.Complex(complex(re, im)), nil
}

// parseBoundsArg parses "minX,maxX,minY,maxY" into a view rectangle.
func parseBoundsArg(s string) (plane.Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return plane.Bounds{}, fmt.Errorf("want minX,maxX,minY,maxY, got %q", s)
	}
	var vals [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return plane.Bounds{}, fmt.Errorf("invalid bound %q", p)
		}
		vals[i] = f
	}
	b := plane.NewBounds(vals[0], vals[1], vals[2], vals[3])
	if b.IsDegenerate() {
		return plane.Bounds{}, fmt.Errorf("degenerate rectangle %q", s)
	}
	return b, nil
}

// =============================================================================
// Profile Command
// =============================================================================

// profileCommand creates the profile management command.
func (c *CLI) profileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage named render profiles",
		Long: `Manage named render profiles.

Profiles are TOML files bundling a family, view, and coloring under a
name, stored in the profile directory. Builtin profiles ship with the
binary; a user profile with the same name shadows the builtin. Commands
that take --profile accept any listed name.`,
	}

	cmd.AddCommand(c.profileListCommand())
	cmd.AddCommand(c.profileShowCommand())
	cmd.AddCommand(c.profileSaveCommand())
	cmd.AddCommand(c.profileDeleteCommand())
	cmd.AddCommand(c.profileDirCommand())

	return cmd
}

// profileListCommand creates the "profile list" subcommand.
func (c *CLI) profileListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := profile.Dir()
			if err != nil {
				return err
			}
			names, err := profile.List(dir)
			if err != nil {
				return err
			}

			for _, name := range names {
				p, err := profile.Load(dir, name)
				if err != nil {
					printWarning("%s: %v", name, err)
					continue
				}
				desc := p.Description
				if desc == "" {
					desc = p.Family
				}
				fmt.Println(StyleHighlight.Render(name) + "  " + StyleDim.Render(desc))
			}
			return nil
		},
	}
}

// profileShowCommand creates the "profile show" subcommand.
func (c *CLI) profileShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a profile's resolved settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := profile.Dir()
			if err != nil {
				return err
			}
			p, err := profile.Load(dir, args[0])
			if err != nil {
				return err
			}

			printKeyValue("name", p.Name)
			if p.Description != "" {
				printKeyValue("description", p.Description)
			}
			printKeyValue("family", p.Family)
			if p.Param != nil {
				printKeyValue("param", fmt.Sprintf("%g,%g", p.Param[0], p.Param[1]))
			}
			if p.Mod != nil {
				printKeyValue("mod", fmt.Sprintf("%g,%g", p.Mod[0], p.Mod[1]))
			}
			if p.View.Center != nil {
				printKeyValue("center", fmt.Sprintf("%g,%g", p.View.Center[0], p.View.Center[1]))
				printKeyValue("radius", fmt.Sprintf("%g", p.View.Radius))
			}
			if p.View.Bounds != nil {
				b := p.View.Bounds
				printKeyValue("bounds", fmt.Sprintf("%g,%g,%g,%g", b[0], b[1], b[2], b[3]))
			}
			if p.View.ResX > 0 {
				printKeyValue("res-x", strconv.Itoa(p.View.ResX))
			}
			if p.Compute.MaxIters > 0 {
				printKeyValue("iters", strconv.Itoa(p.Compute.MaxIters))
			}
			if p.Compute.Engine != "" {
				printKeyValue("engine", p.Compute.Engine)
			}
			if p.Coloring.Algorithm != "" {
				printKeyValue("algorithm", p.Coloring.Algorithm)
			}
			return nil
		},
	}
}

// profileSaveCommand creates the "profile save" subcommand.
func (c *CLI) profileSaveCommand() *cobra.Command {
	var (
		flags       optionFlags
		description string
		formatsStr  string
	)

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the given flags as a named profile",
		Long: `Save the given flags as a named profile.

With --profile the named profile seeds the values first, so an existing
profile can be copied and adjusted in one step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.buildProfile(cmd)
			if err != nil {
				return err
			}
			p.Name = args[0]
			p.Description = description
			if formatsStr != "" {
				p.Formats = parseFormats(formatsStr)
			}

			dir, err := profile.Dir()
			if err != nil {
				return err
			}
			if err := profile.Save(dir, p); err != nil {
				return err
			}
			printSuccess("Saved profile %s", p.Name)
			printNextStep("Render", "fatou render --profile "+p.Name)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&description, "description", "", "profile description")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png, json (comma-separated)")

	return cmd
}

// buildProfile assembles a profile from the flags, seeding from --profile
// when given.
func (o *optionFlags) buildProfile(cmd *cobra.Command) (profile.Profile, error) {
	var p profile.Profile
	if o.profile != "" {
		dir, err := profile.Dir()
		if err != nil {
			return profile.Profile{}, err
		}
		p, err = profile.Load(dir, o.profile)
		if err != nil {
			return profile.Profile{}, err
		}
	}

	if o.family != "" {
		p.Family = o.family
	}
	if o.param != "" {
		z, err := parseComplexArg(o.param)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("--param: %w", err)
		}
		p.Param = &[2]float64{z.Real(), z.Imag()}
	}
	if o.mod != "" {
		z, err := parseComplexArg(o.mod)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("--mod: %w", err)
		}
		p.Mod = &[2]float64{z.Real(), z.Imag()}
	}
	if o.bounds != "" && (o.center != "" || o.radius != 0) {
		return profile.Profile{}, fmt.Errorf("--bounds and --center/--radius are mutually exclusive")
	}
	if o.bounds != "" {
		b, err := parseBoundsArg(o.bounds)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("--bounds: %w", err)
		}
		p.View.Bounds = &[4]float64{b.MinX, b.MaxX, b.MinY, b.MaxY}
		p.View.Center = nil
		p.View.Radius = 0
	}
	if o.center != "" {
		z, err := parseComplexArg(o.center)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("--center: %w", err)
		}
		p.View.Center = &[2]float64{z.Real(), z.Imag()}
		p.View.Radius = o.radius
		p.View.Bounds = nil
	}
	if o.resX > 0 {
		p.View.ResX = o.resX
	}
	if o.resY > 0 {
		p.View.ResY = o.resY
	}
	if o.maxIters > 0 {
		p.Compute.MaxIters = o.maxIters
	}
	if o.engine != "" {
		p.Compute.Engine = o.engine
	}
	if o.workers > 0 {
		p.Compute.Workers = o.workers
	}
	if o.algorithm != "" {
		p.Coloring.Algorithm = o.algorithm
	}
	if cmd.Flags().Changed("phase") {
		p.Coloring.PhaseColoring = o.phase
	}
	if o.fillRate > 0 {
		p.Coloring.FillRate = o.fillRate
	}
	if o.palette != "" {
		pal, err := planeimg.LoadPalette(o.palette)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("load palette %s: %w", o.palette, err)
		}
		p.Coloring.Palette = &pal
	}
	return p, nil
}

// profileDeleteCommand creates the "profile delete" subcommand.
func (c *CLI) profileDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a user profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := profile.Dir()
			if err != nil {
				return err
			}
			if err := profile.Delete(dir, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted profile %s", args[0])
			return nil
		},
	}
}

// profileDirCommand creates the "profile dir" subcommand.
func (c *CLI) profileDirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dir",
		Short: "Print the profile directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := profile.Dir()
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
}
