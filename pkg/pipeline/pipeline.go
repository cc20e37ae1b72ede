// Package pipeline provides the core rendering pipeline for Fatou.
//
// This package implements the complete compute → color → sink pipeline that
// can be used by CLI, server, and TUI components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Compute: Iterate every pixel's orbit to a classification, in parallel
//     across rows, encoding each outcome as it terminates
//  2. Color: Map classifications to colors through a palette and interior
//     algorithm
//  3. Sink: Encode outputs in various formats (PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Family:  "mandelbrot",
//	    ResX:    1024,
//	    Formats: []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// Run individual stages:
//
//	// Compute only
//	p, err := runner.ComputePlane(ctx, opts)
//
//	// Render an existing plane
//	artifacts, err := runner.Render(ctx, p, opts)
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fatou/pkg/cache"
	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/plane"
	"github.com/matzehuels/fatou/pkg/render/planeimg"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Server, and TUI
// =============================================================================

const (
	// DefaultResX is the default image width in pixels. The height is
	// derived from the view's aspect ratio unless set explicitly.
	DefaultResX = 1024

	// DefaultFillRate is the luminosity fill rate for the interior
	// coloring algorithms that ramp by convergence data.
	DefaultFillRate = 0.04

	// DefaultCritDegree is the local degree of the first return map at
	// the critical point, shared by the quadratic catalogue.
	DefaultCritDegree = 2.0
)

// DefaultEngine is the default orbit engine.
const DefaultEngine = EngineFloyd

// DefaultAlgorithm is the default interior coloring.
const DefaultAlgorithm = string(planeimg.KindPeriodMultiplier)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJSON: true,
}

// Engine constants for orbit engines.
const (
	EngineFloyd    = "floyd"
	EngineDistance = "distance"
)

// ValidEngines is the set of supported orbit engines.
var ValidEngines = map[string]bool{
	EngineFloyd:    true,
	EngineDistance: true,
}

// Family constants for the built-in catalogue.
const (
	FamilyMandelbrot  = "mandelbrot"
	FamilyJulia       = "julia"
	FamilyBiquadratic = "biquadratic"
	FamilyGaussian    = "gaussian"
	FamilyEisenstein  = "eisenstein"
)

// ValidFamilies is the set of supported families.
var ValidFamilies = map[string]bool{
	FamilyMandelbrot:  true,
	FamilyJulia:       true,
	FamilyBiquadratic: true,
	FamilyGaussian:    true,
	FamilyEisenstein:  true,
}

// ValidAlgorithms is the set of supported interior colorings.
var ValidAlgorithms = map[string]bool{
	string(planeimg.KindSolid):              true,
	string(planeimg.KindPeriod):             true,
	string(planeimg.KindPeriodMultiplier):   true,
	string(planeimg.KindPreperiod):          true,
	string(planeimg.KindPreperiodPeriod):    true,
	string(planeimg.KindInternalPotential):  true,
	string(planeimg.KindPotentialAndPeriod): true,
	string(planeimg.KindMultiplier):         true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Compute options
	Family   string          `json:"family"`
	Param    numeric.Complex `json:"param,omitzero"` // julia seed / biquadratic second increment
	Mod      numeric.Complex `json:"mod,omitzero"`   // arithmetic-family modulus
	Bounds   plane.Bounds    `json:"bounds,omitzero"`
	ResX     int             `json:"res_x,omitempty"`
	ResY     int             `json:"res_y,omitempty"` // 0 derives the height from the aspect ratio
	MaxIters int             `json:"max_iters,omitempty"`
	Engine   string          `json:"engine,omitempty"`
	Workers  int             `json:"workers,omitempty"`
	Refresh  bool            `json:"refresh,omitempty"`

	// Color options
	Algorithm     string           `json:"algorithm,omitempty"`
	Palette       planeimg.Palette `json:"palette,omitzero"`
	PhaseColoring bool             `json:"phase_coloring,omitempty"`
	FillRate      float64          `json:"fill_rate,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// JobID identifies this run in logs.
	JobID string

	// Plane is the computed classification of every pixel.
	Plane *dynamics.IterPlane

	// PlaneHash is the content hash of the plane.
	PlaneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and classification counts.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that an orbit engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return fmt.Errorf("invalid engine: %q (must be one of: floyd, distance)", engine)
	}
	return nil
}

// ValidateFamily checks that a family name is valid.
func ValidateFamily(family string) error {
	if !ValidFamilies[family] {
		return fmt.Errorf("invalid family: %q (must be one of: mandelbrot, julia, biquadratic, gaussian, eisenstein)", family)
	}
	return nil
}

// ValidateAlgorithm checks that an interior coloring is valid.
func ValidateAlgorithm(algorithm string) error {
	if !ValidAlgorithms[algorithm] {
		return fmt.Errorf("invalid algorithm: %q", algorithm)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForCompute(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateAlgorithm(o.Algorithm); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForCompute checks required fields for plane computation.
func (o *Options) ValidateForCompute() error {
	if o.Family == "" {
		return fmt.Errorf("family is required")
	}
	if err := ValidateFamily(o.Family); err != nil {
		return err
	}
	if (o.Family == FamilyGaussian || o.Family == FamilyEisenstein) && o.Mod == 0 {
		return fmt.Errorf("mod is required for arithmetic families")
	}

	// Compute defaults
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if o.ResX == 0 {
		o.ResX = DefaultResX
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetRenderDefaults sets default values for coloring and sinks.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if o.Palette == (planeimg.Palette{}) {
		o.Palette = planeimg.DefaultPalette()
	}
	if o.FillRate == 0 {
		o.FillRate = DefaultFillRate
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for coloring and sinks.
func (o *Options) ValidateForRender() error {
	if err := ValidateFamily(o.Family); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateAlgorithm(o.Algorithm)
}

// IsDynamical returns true if the options describe a dynamical plane.
func (o *Options) IsDynamical() bool {
	return o.Family == FamilyJulia
}

// selection describes the parameter selection for cache keys, empty for
// plain parameter planes.
func (o *Options) selection() string {
	s := ""
	if o.Param != 0 {
		s = fmt.Sprintf("%v", complex128(o.Param))
	}
	if o.Mod != 0 {
		s += fmt.Sprintf(" mod %v", complex128(o.Mod))
	}
	return s
}

// planeKeyOpts returns cache key options for the computed plane.
func (o *Options) planeKeyOpts(g plane.Grid) cache.PlaneKeyOpts {
	return cache.PlaneKeyOpts{
		Param:    o.selection(),
		Engine:   o.Engine,
		MinX:     g.Bounds.MinX,
		MaxX:     g.Bounds.MaxX,
		MinY:     g.Bounds.MinY,
		MaxY:     g.Bounds.MaxY,
		ResX:     g.ResX,
		ResY:     g.ResY,
		MaxIters: o.MaxIters,
	}
}

// renderKeyOpts returns cache key options for one rendered format.
func (o *Options) renderKeyOpts(format string) cache.RenderKeyOpts {
	fingerprint := ""
	if data, err := json.Marshal(o.Palette); err == nil {
		fingerprint = cache.Hash(data)
	}
	return cache.RenderKeyOpts{
		Format:        format,
		Palette:       fingerprint,
		Algorithm:     o.Algorithm,
		PhaseColoring: o.PhaseColoring,
		FillRate:      o.FillRate,
	}
}
