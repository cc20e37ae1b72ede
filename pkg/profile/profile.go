// Package profile provides named, reusable render configurations.
//
// A profile is a TOML file bundling a dynamical family with a view and
// coloring setup, so that a deep zoom or a tuned palette can be reproduced
// with `fatou render --profile seahorse` instead of a dozen flags.
//
// Profiles resolve in two layers: files in the user's profile directory
// (~/.config/fatou/profiles by default) shadow the builtin starter
// profiles compiled into the binary.
//
// # File Format
//
//	description = "Seahorse valley close-up"
//	family = "mandelbrot"
//	formats = ["png"]
//
//	[view]
//	center = [-0.7436438870371587, 0.1318259042053119]
//	radius = 5.0e-4
//	res_x = 1920
//
//	[compute]
//	max_iters = 5000
//	engine = "distance"
//
//	[coloring]
//	algorithm = "period_multiplier"
//	fill_rate = 0.04
//
// Complex values are written as [re, im] pairs. The view is either a
// center plus radius or an explicit bounds rectangle, never both.
package profile

import (
	"fmt"

	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/pipeline"
	"github.com/matzehuels/fatou/pkg/plane"
	"github.com/matzehuels/fatou/pkg/render/planeimg"
)

// Profile is a named render configuration.
type Profile struct {
	// Name identifies the profile. Derived from the file name, not the
	// file contents.
	Name string `toml:"-" json:"name"`

	// Description is free-form text shown in listings.
	Description string `toml:"description,omitempty" json:"description,omitempty"`

	// Family selects the dynamical family.
	Family string `toml:"family" json:"family"`

	// Param is the julia seed or biquadratic increment as [re, im].
	Param *[2]float64 `toml:"param" json:"param,omitempty"`

	// Mod is the arithmetic-family modulus as [re, im].
	Mod *[2]float64 `toml:"mod" json:"mod,omitempty"`

	// Formats lists the artifacts to produce.
	Formats []string `toml:"formats,omitempty" json:"formats,omitempty"`

	View     View     `toml:"view,omitempty" json:"view,omitzero"`
	Compute  Compute  `toml:"compute,omitempty" json:"compute,omitzero"`
	Coloring Coloring `toml:"coloring,omitempty" json:"coloring,omitzero"`
}

// View selects the plane region and image resolution.
type View struct {
	// Center and Radius describe a square window around a point.
	Center *[2]float64 `toml:"center" json:"center,omitempty"`
	Radius float64     `toml:"radius,omitempty" json:"radius,omitempty"`

	// Bounds is an explicit [min_x, max_x, min_y, max_y] rectangle,
	// mutually exclusive with Center/Radius.
	Bounds *[4]float64 `toml:"bounds" json:"bounds,omitempty"`

	ResX int `toml:"res_x,omitempty" json:"res_x,omitempty"`
	ResY int `toml:"res_y,omitempty" json:"res_y,omitempty"`
}

// Compute selects the orbit engine parameters.
type Compute struct {
	MaxIters int    `toml:"max_iters,omitempty" json:"max_iters,omitempty"`
	Engine   string `toml:"engine,omitempty" json:"engine,omitempty"`
	Workers  int    `toml:"workers,omitempty" json:"workers,omitempty"`
}

// Coloring selects the rendering style. A nil Palette keeps the default.
type Coloring struct {
	Algorithm     string            `toml:"algorithm,omitempty" json:"algorithm,omitempty"`
	PhaseColoring bool              `toml:"phase_coloring,omitempty" json:"phase_coloring,omitempty"`
	FillRate      float64           `toml:"fill_rate,omitempty" json:"fill_rate,omitempty"`
	Palette       *planeimg.Palette `toml:"palette" json:"palette,omitempty"`
}

// Validate checks the profile for inconsistencies. Field values that the
// pipeline validates (family, engine, algorithm, formats) are checked
// here too, so a broken profile fails at load time rather than mid-run.
func (p Profile) Validate() error {
	if p.Family != "" {
		if err := pipeline.ValidateFamily(p.Family); err != nil {
			return err
		}
	}
	if p.Compute.Engine != "" {
		if err := pipeline.ValidateEngine(p.Compute.Engine); err != nil {
			return err
		}
	}
	if p.Coloring.Algorithm != "" {
		if err := pipeline.ValidateAlgorithm(p.Coloring.Algorithm); err != nil {
			return err
		}
	}
	if len(p.Formats) > 0 {
		if err := pipeline.ValidateFormats(p.Formats); err != nil {
			return err
		}
	}
	if p.View.Radius < 0 {
		return fmt.Errorf("view: radius must be positive, got %g", p.View.Radius)
	}
	if p.View.Bounds != nil && (p.View.Center != nil || p.View.Radius > 0) {
		return fmt.Errorf("view: bounds and center/radius are mutually exclusive")
	}
	return nil
}

// Options assembles pipeline options from the profile. Zero-valued fields
// stay zero so the pipeline's own defaulting applies.
func (p Profile) Options() pipeline.Options {
	opts := pipeline.Options{
		Family:        p.Family,
		Param:         cx(p.Param),
		Mod:           cx(p.Mod),
		ResX:          p.View.ResX,
		ResY:          p.View.ResY,
		MaxIters:      p.Compute.MaxIters,
		Engine:        p.Compute.Engine,
		Workers:       p.Compute.Workers,
		Algorithm:     p.Coloring.Algorithm,
		PhaseColoring: p.Coloring.PhaseColoring,
		FillRate:      p.Coloring.FillRate,
		Formats:       p.Formats,
	}
	if p.Coloring.Palette != nil {
		opts.Palette = *p.Coloring.Palette
	}
	switch {
	case p.View.Bounds != nil:
		b := *p.View.Bounds
		opts.Bounds = plane.NewBounds(b[0], b[1], b[2], b[3])
	case p.View.Radius > 0:
		opts.Bounds = plane.Square(p.View.Radius, cx(p.View.Center))
	}
	return opts
}

// cx converts an optional [re, im] pair to a complex value.
func cx(p *[2]float64) numeric.Complex {
	if p == nil {
		return 0
	}
	return numeric.Complex(complex(p[0], p[1]))
}
