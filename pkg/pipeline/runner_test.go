package pipeline

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fatou/pkg/cache"
	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/dynamics/family"
	planeio "github.com/matzehuels/fatou/pkg/io"
	"github.com/matzehuels/fatou/pkg/numeric/qring"
	"github.com/matzehuels/fatou/pkg/plane"
)

func testRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func testOptions() Options {
	return Options{
		Family:   "mandelbrot",
		ResX:     8,
		ResY:     8,
		MaxIters: 64,
		Workers:  2,
		Formats:  []string{"png", "json"},
	}
}

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRunnerExecute(t *testing.T) {
	r := testRunner(cache.NewMemoryCache())
	defer r.Close()

	result, err := r.Execute(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.JobID == "" {
		t.Error("JobID should be set")
	}
	if result.PlaneHash == "" {
		t.Error("PlaneHash should be set")
	}
	if result.Plane == nil || len(result.Plane.Points) != 64 {
		t.Fatalf("Plane should have 64 points, got %+v", result.Plane)
	}

	if !bytes.HasPrefix(result.Artifacts["png"], pngMagic) {
		t.Error("PNG artifact should start with the PNG signature")
	}
	if len(result.Artifacts["json"]) == 0 {
		t.Error("JSON artifact should not be empty")
	}

	// The default view has points on both sides of the boundary
	if result.Stats.Pixels != 64 {
		t.Errorf("Stats should count 64 pixels, got %d", result.Stats.Pixels)
	}
	if result.Stats.Escaped == 0 {
		t.Error("Some pixels should escape")
	}
	if result.Stats.Escaped == result.Stats.Pixels {
		t.Error("Some pixels should stay bounded")
	}
}

func TestRunnerExecuteCacheHits(t *testing.T) {
	r := testRunner(cache.NewMemoryCache())
	defer r.Close()
	ctx := context.Background()

	first, err := r.Execute(ctx, testOptions())
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if first.CacheInfo.PlaneHit || first.CacheInfo.RenderHit {
		t.Error("First run should miss the cache")
	}

	second, err := r.Execute(ctx, testOptions())
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if !second.CacheInfo.PlaneHit {
		t.Error("Second run should hit the plane cache")
	}
	if !second.CacheInfo.RenderHit {
		t.Error("Second run should hit the render cache")
	}
	if second.PlaneHash != first.PlaneHash {
		t.Errorf("Plane hash should be stable, got %s then %s", first.PlaneHash, second.PlaneHash)
	}
	if !bytes.Equal(second.Artifacts["png"], first.Artifacts["png"]) {
		t.Error("Cached PNG should match the original")
	}

	// Refresh bypasses the plane cache
	opts := testOptions()
	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Refresh run failed: %v", err)
	}
	if third.CacheInfo.PlaneHit {
		t.Error("Refresh should bypass the plane cache")
	}
}

func TestRunnerExecuteCancelled(t *testing.T) {
	r := testRunner(cache.NewNullCache())
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Execute(ctx, testOptions()); err == nil {
		t.Error("Cancelled context should fail")
	}
}

func TestRunnerExecuteJulia(t *testing.T) {
	r := testRunner(cache.NewNullCache())
	defer r.Close()

	opts := testOptions()
	opts.Family = "julia"
	opts.Param = -1 // basilica
	opts.Formats = []string{"png"}

	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(result.Plane.Points) != 64 {
		t.Errorf("Plane should have 64 points, got %d", len(result.Plane.Points))
	}
	if result.Stats.Escaped == 0 || result.Stats.Escaped == result.Stats.Pixels {
		t.Errorf("Basilica view should be mixed, got %d/%d escaped",
			result.Stats.Escaped, result.Stats.Pixels)
	}
}

func TestRunnerInvalidOptions(t *testing.T) {
	r := testRunner(cache.NewNullCache())
	defer r.Close()
	ctx := context.Background()

	if _, err := r.Execute(ctx, Options{}); err == nil {
		t.Error("Missing family should fail")
	}

	opts := testOptions()
	opts.Formats = []string{"svg"}
	if _, err := r.Execute(ctx, opts); err == nil {
		t.Error("Unsupported format should fail")
	}
}

func TestRunnerMemoSharedPerModulus(t *testing.T) {
	r := testRunner(cache.NewNullCache())
	defer r.Close()

	g1 := r.gaussianMemo(qring.NewGaussian(3, 1))
	g2 := r.gaussianMemo(qring.NewGaussian(3, 1))
	if g1 != g2 {
		t.Error("Same modulus should share one memo")
	}
	if g3 := r.gaussianMemo(qring.NewGaussian(5, 0)); g3 == g1 {
		t.Error("Different moduli should not share a memo")
	}

	e1 := r.eisensteinMemo(qring.NewEisenstein(4, 1))
	e2 := r.eisensteinMemo(qring.NewEisenstein(4, 1))
	if e1 != e2 {
		t.Error("Same modulus should share one memo")
	}
}

func TestRunnerJSONArtifactRoundTrip(t *testing.T) {
	r := testRunner(cache.NewNullCache())
	defer r.Close()

	opts := testOptions()
	opts.Formats = []string{"json"}

	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	meta, p, err := planeio.ReadJSON(bytes.NewReader(result.Artifacts["json"]))
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if meta.Family != "mandelbrot" {
		t.Errorf("Family should round-trip, got %q", meta.Family)
	}
	if meta.MaxIters != 64 {
		t.Errorf("MaxIters should round-trip, got %d", meta.MaxIters)
	}
	if p.Grid != result.Plane.Grid {
		t.Errorf("Grid should round-trip, got %+v", p.Grid)
	}
	if len(p.Points) != len(result.Plane.Points) {
		t.Errorf("Points should round-trip, got %d", len(p.Points))
	}
}

func TestComputePlaneDistanceEngine(t *testing.T) {
	fam := family.NewMandelbrot()
	fam.MaxIters = 64
	g := plane.NewGrid(8, 8, fam.Bounds)

	p, err := ComputePlane(context.Background(), fam, g, EngineDistance, 1)
	if err != nil {
		t.Fatalf("ComputePlane failed: %v", err)
	}

	distanced := 0
	for _, info := range p.Points {
		if info.Class == dynamics.ClassDistanceEstimate {
			distanced++
			if info.Distance <= 0 {
				t.Errorf("Distance estimate should be positive, got %g", info.Distance)
			}
		}
	}
	if distanced == 0 {
		t.Error("Exterior pixels should carry distance estimates")
	}
}

func TestRunnerColorize(t *testing.T) {
	r := testRunner(cache.NewNullCache())
	defer r.Close()

	opts := testOptions()
	p, err := r.ComputePlane(context.Background(), opts)
	if err != nil {
		t.Fatalf("ComputePlane failed: %v", err)
	}

	img, err := r.Colorize(p, opts)
	if err != nil {
		t.Fatalf("Colorize failed: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Errorf("Image should be 8x8, got %v", img.Bounds())
	}
}
