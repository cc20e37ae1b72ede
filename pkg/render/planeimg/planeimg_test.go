package planeimg

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/plane"
)

func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func TestTo8Saturates(t *testing.T) {
	cases := []struct {
		in   float64
		want uint8
	}{
		{0.5, 128},
		{1, 255},
		{2, 255},
		{-1, 0},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		if got := to8(tc.in); got != tc.want {
			t.Errorf("to8(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRGBText(t *testing.T) {
	text, err := Brown.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText error: %v", err)
	}
	if string(text) != "#a52a2a" {
		t.Errorf("Brown = %s, want #a52a2a", text)
	}

	var c RGB
	if err := c.UnmarshalText([]byte("#a52a2a")); err != nil {
		t.Fatalf("UnmarshalText error: %v", err)
	}
	if c != Brown {
		t.Errorf("roundtrip = %+v, want %+v", c, Brown)
	}

	if err := c.UnmarshalText([]byte("teal")); err == nil {
		t.Error("UnmarshalText should reject names")
	}
}

func TestHsvPrimaries(t *testing.T) {
	cases := []struct {
		hue  float64
		want color.RGBA
	}{
		{0, color.RGBA{255, 0, 0, 255}},
		{1.0 / 3, color.RGBA{0, 255, 0, 255}},
		{2.0 / 3, color.RGBA{0, 0, 255, 255}},
	}
	for _, tc := range cases {
		got := Hsv{Hue: tc.hue, Saturation: 1, Intensity: 1}.Color()
		if got != tc.want {
			t.Errorf("hue %v = %v, want %v", tc.hue, got, tc.want)
		}
	}

	// Zero saturation is white regardless of hue.
	if got := (Hsv{Hue: 0.37, Saturation: 0, Intensity: 1}).Color(); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("desaturated = %v, want white", got)
	}
}

func TestSinusoidValue(t *testing.T) {
	s := Sinusoid{Period: 8, Amplitude: 0.5, Midline: 0.5, Degree: 1}
	if got := s.Value(0); math.Abs(got-1) > 1e-12 {
		t.Errorf("Value(0) = %v, want 1", got)
	}
	if got := s.Value(2); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Value(2) = %v, want 0.5", got)
	}
	if got := s.Value(4); math.Abs(got) > 1e-12 {
		t.Errorf("Value(4) = %v, want 0", got)
	}

	// Degree 2 squares the cosine while keeping its sign.
	sq := NewSinusoid(8)
	if got, want := sq.Value(8.0/3), 0.375; math.Abs(got-want) > 1e-9 {
		t.Errorf("degree-2 Value(8/3) = %v, want %v", got, want)
	}
}

func TestPaletteMap(t *testing.T) {
	// In plain RGB the three equal channels come straight through the
	// ramp: potential 3 maps to log2(3-1) = 1, one eighth of the period.
	white := WhitePalette(8)
	want := color.RGBA{192, 192, 192, 255}
	if got := white.Map(3); got != want {
		t.Errorf("white Map(3) = %v, want %v", got, want)
	}

	// The default palette starts at black: potential 2 maps to ramp
	// position 0 where the phase-half cosine bottoms out.
	black := BlackPalette(32)
	if got := black.Map(2); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("black Map(2) = %v, want black", got)
	}
}

func TestPalettePhaseFallback(t *testing.T) {
	p := WhitePalette(8)
	// With escape period 1 there is no phase to color by.
	if got, want := p.MapPhase(3, 0, 1), p.Map(3); got != want {
		t.Errorf("MapPhase esc=1 = %v, want plain %v", got, want)
	}
	// With a real phase the hue wheel takes over.
	if got, want := p.MapPhase(3, 0, 2), p.Map(3); got == want {
		t.Error("MapPhase esc=2 should differ from the plain ramp")
	}
}

func TestDiscretePaletteCycles(t *testing.T) {
	d := StandardDiscrete()
	if got, want := d.Map(0, 1), d.Map(7, 1); got != want {
		t.Errorf("hues should cycle after seven: %v vs %v", got, want)
	}
	if got, same := d.Map(1, 1), d.Map(0, 1); got == same {
		t.Error("adjacent periods should get distinct hues")
	}
	// Zero luminosity is black regardless of hue.
	if got := d.Map(3, 0); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("dimmed to zero = %v, want black", got)
	}
}

func TestRandomPaletteDeterministic(t *testing.T) {
	a := RandomPalette(newTestRand(7), 0.9, 0.5)
	b := RandomPalette(newTestRand(7), 0.9, 0.5)
	if a != b {
		t.Error("same seed should reproduce the palette")
	}
	if a == RandomPalette(newTestRand(8), 0.9, 0.5) {
		t.Error("different seeds should differ")
	}

	// Contrast clamps keep every channel inside [0, 1].
	for _, s := range []Sinusoid{a.R, a.G, a.B} {
		if s.Period <= 0 {
			t.Errorf("period = %v, want positive", s.Period)
		}
		if s.Midline+s.Amplitude > 1+1e-12 || s.Midline-s.Amplitude < -1e-12 {
			t.Errorf("ramp [%v, %v] leaves the unit interval", s.Midline-s.Amplitude, s.Midline+s.Amplitude)
		}
	}
}

func TestIncoloringKinds(t *testing.T) {
	pal := BlackPalette(32)
	cycle := dynamics.CycleInfo{
		Preperiod:  12,
		Period:     3,
		Multiplier: numeric.Complex(complex(0, 1)),
		FinalError: 1e-14,
	}

	solid := Incoloring{Kind: KindSolid}
	if got := solid.colorPeriodic(&pal, cycle); got != pal.InColor.Color() {
		t.Errorf("solid = %v, want the in-color", got)
	}

	// A unit multiplier at angle π/2 lands three quarters around the
	// hue wheel at full intensity.
	mult := Incoloring{Kind: KindMultiplier}
	if got, want := mult.colorPeriodic(&pal, cycle), (color.RGBA{128, 0, 255, 255}); got != want {
		t.Errorf("multiplier = %v, want %v", got, want)
	}

	// A superattracting cycle dims period hues to black.
	super := cycle
	super.Multiplier = 0
	pm := DefaultIncoloring()
	if got := pm.colorPeriodic(&pal, super); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("superattracting period hue = %v, want black", got)
	}

	// Period hues must agree between detected and closed-form cycles.
	periodOnly := Incoloring{Kind: KindPeriod}
	if got, want := periodOnly.colorPeriodic(&pal, cycle), periodOnly.colorKnownPotential(&pal, 0.3, cycle); got != want {
		t.Errorf("period hue %v differs from known-potential hue %v", got, want)
	}
}

func TestColoringDispatch(t *testing.T) {
	c := NewColoring(Incoloring{Kind: KindSolid}, BlackPalette(32))

	if got := c.Map(dynamics.PointInfo{Class: dynamics.ClassBounded, Phase: -1}); got != White.Color() {
		t.Errorf("bounded = %v, want the in-color", got)
	}
	if got := c.Map(dynamics.PointInfo{Class: dynamics.ClassWandering, Phase: -1}); got != Brown.Color() {
		t.Errorf("wandering = %v, want brown", got)
	}
	if got := c.Map(dynamics.PointInfo{Class: dynamics.ClassUnknown, Phase: -1}); got != Gray.Color() {
		t.Errorf("unknown = %v, want gray", got)
	}
	if got := c.Map(dynamics.PointInfo{Class: dynamics.ClassPeriodic, Phase: -1}); got != White.Color() {
		t.Errorf("solid periodic = %v, want the in-color", got)
	}
}

func TestPaletteTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.toml")
	p := NewPalette(6, 9, 12).WithPhases(0.1, 0.2, 0.3).WithContrast(0.8, 0.5)

	if err := p.SaveFile(path); err != nil {
		t.Fatalf("SaveFile error: %v", err)
	}
	got, err := LoadPalette(path)
	if err != nil {
		t.Fatalf("LoadPalette error: %v", err)
	}
	if got != p {
		t.Errorf("roundtrip = %+v, want %+v", got, p)
	}
}

func TestLoadPalettePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	src := "color_space = \"rgb\"\n\n[color_map_r]\nperiod = 16.0\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	got, err := LoadPalette(path)
	if err != nil {
		t.Fatalf("LoadPalette error: %v", err)
	}
	if got.ColorSpace != SpaceRGB {
		t.Errorf("color space = %q, want rgb", got.ColorSpace)
	}
	if got.R.Period != 16 {
		t.Errorf("overridden period = %v, want 16", got.R.Period)
	}
	// Everything the file omits keeps its default.
	def := DefaultPalette()
	if got.R.Phase != def.R.Phase || got.G != def.G || got.InColor != def.InColor {
		t.Errorf("defaults not preserved: %+v", got)
	}
}

func TestRenderFlipsRows(t *testing.T) {
	p := dynamics.NewIterPlane(plane.NewGrid(1, 2, plane.CenteredSquare(1)))
	p.Set(0, 0, dynamics.PointInfo{Class: dynamics.ClassBounded, Phase: -1})
	p.Set(0, 1, dynamics.PointInfo{Class: dynamics.ClassUnknown, Phase: -1})

	img := Render(p, NewColoring(DefaultIncoloring(), BlackPalette(32)))

	// Grid row 1 (top, unknown) must land on image row 0.
	if got := img.RGBAAt(0, 0); got != Gray.Color() {
		t.Errorf("top pixel = %v, want gray", got)
	}
	if got := img.RGBAAt(0, 1); got != White.Color() {
		t.Errorf("bottom pixel = %v, want the in-color", got)
	}
}

func TestEncodePNG(t *testing.T) {
	p := dynamics.NewIterPlane(plane.NewGrid(2, 2, plane.CenteredSquare(1)))
	data, err := EncodePNG(p, NewColoring(DefaultIncoloring(), BlackPalette(32)))
	if err != nil {
		t.Fatalf("EncodePNG error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("decoded size = %dx%d, want 2x2", b.Dx(), b.Dy())
	}
}
