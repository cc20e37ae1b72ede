package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/fatou/pkg/cache"
	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/dynamics/family"
	"github.com/matzehuels/fatou/pkg/dynamics/orbit"
	planeio "github.com/matzehuels/fatou/pkg/io"
	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/numeric/qring"
	"github.com/matzehuels/fatou/pkg/observability"
	"github.com/matzehuels/fatou/pkg/plane"
	"github.com/matzehuels/fatou/pkg/render/planeimg"
)

// Runner encapsulates pipeline execution with caching.
// CLI, server, and TUI all use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, the logger, and the orbit
// memos shared by the arithmetic families - it doesn't store pipeline
// results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Orbit memos are shared across runs so a re-render over the same
	// modulus reuses every orbit already computed. One memo per modulus:
	// the reduction changes with M, so entries must not cross over.
	mu         sync.Mutex
	gaussMemos map[qring.Gaussian]*family.OrbitMemo[qring.Gaussian]
	eisenMemos map[qring.Eisenstein]*family.OrbitMemo[qring.Eisenstein]
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:      c,
		Keyer:      keyer,
		Logger:     logger,
		gaussMemos: make(map[qring.Gaussian]*family.OrbitMemo[qring.Gaussian]),
		eisenMemos: make(map[qring.Eisenstein]*family.OrbitMemo[qring.Eisenstein]),
	}
}

// Execute runs the complete compute → color → sink pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		JobID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}
	logger := r.Logger.With("job", result.JobID)

	// Stage 1: Compute
	computeStart := time.Now()
	p, planeHit, err := r.ComputePlaneWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("compute: %w", err)
	}
	result.Plane = p
	result.Stats.ComputeTime = time.Since(computeStart)
	result.Stats.Tally(p)
	result.CacheInfo.PlaneHit = planeHit

	// Compute the plane hash for cache keys and API responses
	if planeData, err := json.Marshal(p); err == nil {
		result.PlaneHash = cache.Hash(planeData)
	}

	logger.Info("computed plane",
		"family", opts.Family,
		"pixels", result.Stats.Pixels,
		"escaped", result.Stats.Escaped,
		"periodic", result.Stats.Periodic,
		"duration", result.Stats.ComputeTime)

	// Stage 2+3: Color and sink
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, p, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputePlaneWithCacheInfo computes the plane with caching and returns cache hit info.
func (r *Runner) ComputePlaneWithCacheInfo(ctx context.Context, opts Options) (*dynamics.IterPlane, bool, error) {
	if err := opts.ValidateForCompute(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	plan, err := r.planForFamily(opts)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.PlaneKey(opts.Family, opts.planeKeyOpts(plan.grid))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var p dynamics.IterPlane
			if err := json.Unmarshal(data, &p); err == nil && p.Grid == plan.grid {
				observability.Cache().OnCacheHit(ctx, "plane")
				return &p, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "plane")
	}

	// Compute
	start := time.Now()
	observability.Compute().OnComputeStart(ctx, opts.Family, plan.grid.NumPixels())
	p, err := plan.compute(ctx)
	observability.Compute().OnComputeComplete(ctx, opts.Family, plan.grid.NumPixels(), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := json.Marshal(p); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLPlane); err == nil {
			observability.Cache().OnCacheSet(ctx, "plane", len(data))
		}
	}

	return p, false, nil // Cache miss
}

// ComputePlane is a convenience wrapper that calls ComputePlaneWithCacheInfo
// and discards the cache hit info.
func (r *Runner) ComputePlane(ctx context.Context, opts Options) (*dynamics.IterPlane, error) {
	p, _, err := r.ComputePlaneWithCacheInfo(ctx, opts)
	return p, err
}

// RenderWithCacheInfo colors a plane and encodes the requested formats with
// caching, returning cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, p *dynamics.IterPlane, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// The plane hash keys every artifact rendered from this plane
	planeData, err := json.Marshal(p)
	if err != nil {
		return nil, false, fmt.Errorf("serialize plane for cache key: %w", err)
	}
	planeHash := cache.Hash(planeData)

	if artifacts, ok := r.cachedArtifacts(ctx, planeHash, opts); ok {
		observability.Cache().OnCacheHit(ctx, "render")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	// Color
	colorStart := time.Now()
	observability.Compute().OnColorStart(ctx, opts.Algorithm, len(p.Points))
	img, err := r.Colorize(p, opts)
	observability.Compute().OnColorComplete(ctx, opts.Algorithm, time.Since(colorStart), err)
	if err != nil {
		return nil, false, err
	}

	// Sink
	renderStart := time.Now()
	observability.Compute().OnRenderStart(ctx, opts.Formats)
	artifacts, err := r.encodeArtifacts(ctx, planeHash, img, p, opts)
	observability.Compute().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, false, err
	}

	return artifacts, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, p *dynamics.IterPlane, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, p, opts)
	return artifacts, err
}

// Colorize maps a computed plane through the configured coloring.
func (r *Runner) Colorize(p *dynamics.IterPlane, opts Options) (*image.RGBA, error) {
	opts.SetRenderDefaults()
	plan, err := r.planForFamily(opts)
	if err != nil {
		return nil, err
	}

	col := &planeimg.Coloring{
		Algorithm: planeimg.Incoloring{
			Kind:                 planeimg.IncoloringKind(opts.Algorithm),
			PeriodicityTolerance: plan.tolerance,
			CritDegree:           DefaultCritDegree,
			FillRate:             opts.FillRate,
		},
		Palette:       opts.Palette,
		EscPeriod:     plan.escPeriod,
		PhaseColoring: opts.PhaseColoring,
	}
	return planeimg.Render(p, col), nil
}

// cachedArtifacts returns all requested formats from cache, or ok=false
// when any is missing.
func (r *Runner) cachedArtifacts(ctx context.Context, planeHash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.RenderKey(planeHash, opts.renderKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, len(artifacts) == len(opts.Formats)
}

// encodeArtifacts encodes the requested formats and caches each one.
func (r *Runner) encodeArtifacts(ctx context.Context, planeHash string, img *image.RGBA, p *dynamics.IterPlane, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var buf bytes.Buffer
		switch format {
		case FormatPNG:
			if err := png.Encode(&buf, img); err != nil {
				return nil, fmt.Errorf("encode png: %w", err)
			}
		case FormatJSON:
			if err := planeio.WriteJSON(r.metadata(opts), p, &buf); err != nil {
				return nil, fmt.Errorf("encode json: %w", err)
			}
		default:
			return nil, fmt.Errorf("invalid format: %q", format)
		}
		artifacts[format] = buf.Bytes()

		cacheKey := r.Keyer.RenderKey(planeHash, opts.renderKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, artifacts[format], cache.TTLRender); err == nil {
			observability.Cache().OnCacheSet(ctx, "render", len(artifacts[format]))
		}
	}
	return artifacts, nil
}

// metadata describes a run for the JSON sink.
func (r *Runner) metadata(opts Options) planeio.Metadata {
	meta := planeio.Metadata{
		Family:    opts.Family,
		MaxIters:  opts.MaxIters,
		CreatedAt: time.Now().UTC(),
	}
	if opts.Param != 0 {
		param := opts.Param
		meta.Param = &param
	}
	return meta
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// gaussianMemo returns the shared orbit memo for a Gaussian modulus.
func (r *Runner) gaussianMemo(mod qring.Gaussian) *family.OrbitMemo[qring.Gaussian] {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.gaussMemos[mod]
	if !ok {
		m = cache.NewShardedMap[family.OrbitKey[qring.Gaussian], dynamics.Result[qring.Gaussian]]()
		r.gaussMemos[mod] = m
	}
	return m
}

// eisensteinMemo returns the shared orbit memo for an Eisenstein modulus.
func (r *Runner) eisensteinMemo(mod qring.Eisenstein) *family.OrbitMemo[qring.Eisenstein] {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.eisenMemos[mod]
	if !ok {
		m = cache.NewShardedMap[family.OrbitKey[qring.Eisenstein], dynamics.Result[qring.Eisenstein]]()
		r.eisenMemos[mod] = m
	}
	return m
}

// =============================================================================
// Family Dispatch
// =============================================================================

// familyPlan carries everything the runner derives from a family name:
// the resolved grid, the coloring traits, and the compute closure.
type familyPlan struct {
	grid      plane.Grid
	escPeriod int
	tolerance float64
	compute   func(context.Context) (*dynamics.IterPlane, error)
}

// planForFamily resolves the named family with the option overrides
// applied. Custom bounds replace the family's view so the periodicity
// tolerance tightens with the zoom.
func (r *Runner) planForFamily(opts Options) (familyPlan, error) {
	custom := opts.Bounds != (plane.Bounds{})

	switch opts.Family {
	case FamilyMandelbrot:
		fam := family.NewMandelbrot()
		if custom {
			fam.Bounds = opts.Bounds
		}
		if opts.MaxIters > 0 {
			fam.MaxIters = opts.MaxIters
		}
		return makePlan(fam, opts), nil

	case FamilyJulia:
		parent := family.NewMandelbrot()
		if custom {
			parent.Bounds = opts.Bounds
		}
		if opts.MaxIters > 0 {
			parent.MaxIters = opts.MaxIters
		}
		return makePlan(family.NewJulia(parent, opts.Param), opts), nil

	case FamilyBiquadratic:
		fam := family.NewBiquadratic(opts.Param)
		if custom {
			fam.Bounds = opts.Bounds
		}
		if opts.MaxIters > 0 {
			fam.MaxIters = opts.MaxIters
		}
		return makePlan(fam, opts), nil

	case FamilyGaussian:
		mod := qring.GaussianFromComplex(opts.Mod)
		fam := family.NewGaussianMandel(mod, r.gaussianMemo(mod))
		if custom {
			fam.Bounds = opts.Bounds
		}
		if opts.MaxIters > 0 {
			fam.MaxIters = opts.MaxIters
		}
		return makePlan(fam, opts), nil

	case FamilyEisenstein:
		mod := qring.EisensteinFromComplex(opts.Mod)
		fam := family.NewEisensteinMandel(mod, r.eisensteinMemo(mod))
		if custom {
			fam.Bounds = opts.Bounds
		}
		if opts.MaxIters > 0 {
			fam.MaxIters = opts.MaxIters
		}
		return makePlan(fam, opts), nil

	default:
		return familyPlan{}, ValidateFamily(opts.Family)
	}
}

// makePlan captures the family's grid, coloring traits, and compute
// closure with the type parameters resolved.
func makePlan[S numeric.State[S], P any](fam dynamics.Family[S, P], opts Options) familyPlan {
	grid := gridFor(opts, fam.DefaultBounds())
	return familyPlan{
		grid:      grid,
		escPeriod: dynamics.EscapingPeriodOf(fam),
		tolerance: fam.PeriodicityTolerance(),
		compute: func(ctx context.Context) (*dynamics.IterPlane, error) {
			return ComputePlane(ctx, fam, grid, opts.Engine, opts.Workers)
		},
	}
}

// gridFor builds the pixel grid, deriving the height from the aspect
// ratio unless set explicitly.
func gridFor(opts Options, def plane.Bounds) plane.Grid {
	b := opts.Bounds
	if b == (plane.Bounds{}) {
		b = def
	}
	if opts.ResY > 0 {
		return plane.NewGrid(opts.ResX, opts.ResY, b)
	}
	return plane.NewGridByResX(opts.ResX, b)
}

// =============================================================================
// Plane Computation
// =============================================================================

// pointEngine runs one pixel's orbit to an encoded classification.
type pointEngine interface {
	ResetSelection(t numeric.Complex)
	RunPoint() dynamics.PointInfo
}

type floydEngine[S numeric.State[S], P any] struct {
	family dynamics.Family[S, P]
	orbit  *orbit.Floyd[S, P]
}

func (e *floydEngine[S, P]) ResetSelection(t numeric.Complex) { e.orbit.ResetSelection(t) }

func (e *floydEngine[S, P]) RunPoint() dynamics.PointInfo {
	res := e.orbit.Run()
	return dynamics.EncodeOrbit(e.family, res, e.orbit.Start, e.orbit.Param)
}

type distanceEngine[S numeric.State[S], P any] struct {
	orbit *orbit.DistanceEstimator[S, P]
}

func (e *distanceEngine[S, P]) ResetSelection(t numeric.Complex) { e.orbit.ResetSelection(t) }

func (e *distanceEngine[S, P]) RunPoint() dynamics.PointInfo { return e.orbit.Run() }

// ComputePlane classifies every pixel of the grid, spreading rows across
// workers. Each worker owns one orbit engine and repositions it per pixel,
// so no state is shared beyond the plane's disjoint rows.
func ComputePlane[S numeric.State[S], P any](ctx context.Context, f dynamics.Family[S, P], g plane.Grid, engine string, workers int) (*dynamics.IterPlane, error) {
	newEngine := func() pointEngine {
		return &floydEngine[S, P]{family: f, orbit: orbit.NewFloyd(f)}
	}
	if engine == EngineDistance {
		newEngine = func() pointEngine {
			return &distanceEngine[S, P]{orbit: orbit.NewDistanceEstimator(f)}
		}
	}
	return computeRows(ctx, g, workers, newEngine)
}

// computeRows is the worker pool behind ComputePlane. Rows are handed out
// over a channel; cancellation stops feeding and drains the workers.
func computeRows(ctx context.Context, g plane.Grid, workers int, newEngine func() pointEngine) (*dynamics.IterPlane, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	p := dynamics.NewIterPlane(g)
	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			eng := newEngine()
			for j := range rows {
				row := p.Row(j)
				for i := range row {
					eng.ResetSelection(g.MapPixel(i, j))
					row[i] = eng.RunPoint()
				}
			}
		}()
	}

	// Workers drain the channel unconditionally, so a plain send cannot
	// block past the row in flight; cancellation is observed between rows.
	var cause error
	for j := 0; j < g.ResY; j++ {
		if err := ctx.Err(); err != nil {
			cause = err
			break
		}
		rows <- j
	}
	close(rows)
	wg.Wait()

	if cause != nil {
		return nil, cause
	}
	return p, nil
}
