// Package pkg provides the core libraries for Fatou complex-dynamics computation.
//
// # Overview
//
// Fatou computes and renders the dynamics of quadratic map families: the
// Mandelbrot set and its relatives, Julia sets, and variants over other
// number systems. The pkg directory is organized into four main areas:
//
//  1. [dynamics] - Domain logic (map families, orbit iteration, rays, planes)
//  2. [numeric] - Number systems (complex arithmetic, quotient rings) and solvers
//  3. [render] - Visualization (plane images, functional graphs)
//  4. [pipeline] - Orchestration (compute → colorize → encode)
//
// # Architecture
//
// The typical data flow through Fatou:
//
//	Options (family, view, resolution)
//	         ↓
//	    [dynamics/family] package (map definitions)
//	         ↓
//	    [dynamics/orbit] package (cycle-detecting iteration)
//	         ↓
//	    [dynamics] IterPlane (per-pixel classification)
//	         ↓
//	    [render/planeimg] package (coloring + encoding)
//	         ↓
//	    PNG/JSON output
//
// # Quick Start
//
// Compute and render a Mandelbrot plane:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/charmbracelet/log"
//	    "github.com/matzehuels/fatou/pkg/cache"
//	    "github.com/matzehuels/fatou/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, log.Default())
//	defer runner.Close()
//
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Family:  pipeline.FamilyMandelbrot,
//	    ResX:    1024,
//	    Formats: []string{pipeline.FormatPNG},
//	})
//	os.WriteFile("mandelbrot.png", result.Artifacts["png"], 0644)
//
// # Main Packages
//
// ## Domain Logic
//
// [dynamics] - The family contract shared by every map, trajectory results,
// external ray tracing, and the IterPlane grid of per-pixel outcomes.
//
// [dynamics/family] - Concrete families: Mandelbrot, Julia (over any parent),
// biquadratic, and the Gaussian/Eisenstein quotient-ring Mandelbrot variants.
// Marked cycle centers and periodic points for low periods.
//
// [dynamics/orbit] - Orbit engines. Floyd's cycle detection classifies a point
// as escaped, periodic, or bounded; the potential engine smooths escape counts
// into a continuous Green's function value with its gradient.
//
// ## Number Systems and Solvers
//
// [numeric] - Complex arithmetic on a value type with the State contract used
// by generic orbit code.
//
// [numeric/qring] - Gaussian and Eisenstein integers with quotient-ring
// reduction, the finite number systems behind the arithmetic families.
//
// [newton] - Newton's method in several stopping flavors (fixed iterations,
// absolute or relative convergence, explicit targets) with derivative
// reporting for multiplier computations.
//
// [polysolve] - Roots of complex polynomials by Durand-Kerner iteration,
// used for periodic points and ray landing.
//
// ## Visualization
//
// [render/planeimg] - Color an IterPlane into an image: escape-time shading,
// smooth potential, distance estimation, phase coloring, TOML palettes.
//
// [render/orbitgraph] - Functional graphs of z² + c over finite quotient
// rings, rendered to DOT/SVG/PNG via Graphviz.
//
// ## Orchestration and Infrastructure
//
// [pipeline] - The compute → colorize → encode pipeline shared by CLI, TUI,
// and server. Validates options, dispatches families, caches planes and
// artifacts by content hash.
//
// [cache] - Plane and artifact caches: in-memory, sharded files, Redis, or
// disabled.
//
// [archive] - Persistent render history in MongoDB (or memory), with enough
// of the options recorded to replay any entry.
//
// [profile] - Named render profiles as TOML files with builtin fallbacks.
//
// [server] - The HTTP API: render, orbit, and ray endpoints under /api/v1
// with graceful shutdown.
//
// [plane] - View rectangles and pixel grids mapping indexes to complex
// coordinates.
//
// [errors], [httputil], [io], [observability] - Small shared layers for
// error kinds, HTTP plumbing, atomic file writes, and run metrics.
//
// # Common Workflows
//
// Trace a single orbit:
//
//	traj := orbit.Trace(family.NewMandelbrot(), numeric.Complex(complex(-0.5, 0.25)))
//	fmt.Println(traj.Result.Kind, traj.Result.Iters)
//
// Follow an external ray to the set boundary:
//
//	fam := family.NewMandelbrot()
//	g := plane.NewGridByResX(1024, fam.DefaultBounds())
//	points := dynamics.TraceRay(fam, g, dynamics.NewAngle(1, 3))
//	landing := points[len(points)-1]
//
// Solve for periodic points directly:
//
//	roots := polysolve.Solve(coeffs) // constant term first
//
// Draw the functional graph of a finite ring:
//
//	g, _ := orbitgraph.Gaussian(qring.NewGaussian(0, 0), qring.NewGaussian(3, 1))
//	svg, _ := orbitgraph.RenderSVG(orbitgraph.ToDOT(g, orbitgraph.Options{}))
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/dynamics/...           # Specific package
//	go test -run Example                 # Examples only
//
// [dynamics]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/dynamics
// [dynamics/family]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/dynamics/family
// [dynamics/orbit]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/dynamics/orbit
// [numeric]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/numeric
// [numeric/qring]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/numeric/qring
// [newton]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/newton
// [polysolve]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/polysolve
// [render]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/render
// [render/planeimg]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/render/planeimg
// [render/orbitgraph]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/render/orbitgraph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/cache
// [archive]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/archive
// [profile]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/profile
// [server]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/server
// [plane]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/plane
// [errors]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/httputil
// [io]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/fatou/pkg/observability
package pkg
