package planeimg

import (
	"image/color"
	"math"
	"math/rand/v2"
	"os"

	"github.com/BurntSushi/toml"
)

// Sinusoid is one color channel of a smooth palette: a raised cosine in
// the log-potential, so equipotential lines land on equal colors and each
// doubling of the potential advances the ramp by a constant amount.
type Sinusoid struct {
	Period    float64 `toml:"period" json:"period"`
	Phase     float64 `toml:"phase" json:"phase"`
	Amplitude float64 `toml:"amplitude" json:"amplitude"`
	Midline   float64 `toml:"midline" json:"midline"`
	Degree    int     `toml:"degree" json:"degree"`
}

// NewSinusoid returns the standard channel shape for the given period.
func NewSinusoid(period float64) Sinusoid {
	return Sinusoid{Period: period, Amplitude: 0.5, Midline: 0.5, Degree: 2}
}

// Value evaluates the channel at potential t. Degrees above one sharpen
// the crests while keeping the sign of the cosine.
func (s Sinusoid) Value(t float64) float64 {
	theta := 2 * math.Pi * (t/s.Period - s.Phase)
	val := math.Cos(theta)
	if s.Degree > 1 {
		val = math.Abs(math.Pow(val, float64(s.Degree))) * math.Copysign(1, val)
	}
	return s.Amplitude*val + s.Midline
}

// ColorSpace selects how the three channel values become a color.
type ColorSpace string

const (
	// SpaceRGB treats the channels as linear RGB.
	SpaceRGB ColorSpace = "rgb"

	// SpaceXYZ treats the channels as CIE XYZ, which trades saturation
	// for smoother perceptual ramps.
	SpaceXYZ ColorSpace = "xyz"
)

// Palette maps potentials and periods to colors. The exterior uses three
// channel sinusoids over the log-potential; the interior uses the
// discrete period palette plus the fixed component colors.
type Palette struct {
	R Sinusoid `toml:"color_map_r" json:"color_map_r"`
	G Sinusoid `toml:"color_map_g" json:"color_map_g"`
	B Sinusoid `toml:"color_map_b" json:"color_map_b"`

	PeriodColoring DiscretePalette `toml:"period_coloring" json:"period_coloring"`

	InColor        RGB `toml:"in_color" json:"in_color"`
	WanderingColor RGB `toml:"wandering_color" json:"wandering_color"`
	UnknownColor   RGB `toml:"unknown_color" json:"unknown_color"`

	ColorSpace ColorSpace `toml:"color_space" json:"color_space"`
}

// NewPalette returns a palette with per-channel periods in XYZ space.
func NewPalette(periodR, periodG, periodB float64) Palette {
	return Palette{
		R:              NewSinusoid(periodR),
		G:              NewSinusoid(periodG),
		B:              NewSinusoid(periodB),
		PeriodColoring: StandardDiscrete(),
		InColor:        Black,
		WanderingColor: Brown,
		UnknownColor:   Gray,
		ColorSpace:     SpaceXYZ,
	}
}

// WhitePalette returns a palette that fades to white with a black
// interior, in plain RGB.
func WhitePalette(period float64) Palette {
	s := NewSinusoid(period)
	return Palette{
		R:              s,
		G:              s,
		B:              s,
		PeriodColoring: StandardDiscrete(),
		InColor:        Black,
		WanderingColor: Brown,
		UnknownColor:   Gray,
		ColorSpace:     SpaceRGB,
	}
}

// BlackPalette returns a palette that fades to black with a white
// interior. This is the default.
func BlackPalette(period float64) Palette {
	s := Sinusoid{Period: period, Amplitude: 0.5, Midline: 0.5, Phase: 0.5, Degree: 1}
	return Palette{
		R:              s,
		G:              s,
		B:              s,
		PeriodColoring: StandardDiscrete(),
		InColor:        White,
		WanderingColor: Brown,
		UnknownColor:   Gray,
		ColorSpace:     SpaceXYZ,
	}
}

// DefaultPalette returns BlackPalette(32).
func DefaultPalette() Palette {
	return BlackPalette(32)
}

// RandomPalette draws channel phases uniformly and channel periods from a
// chi-squared distribution, so most periods land near the legible 4–12
// range with an occasional long ramp.
func RandomPalette(rng *rand.Rand, contrast, brightness float64) Palette {
	phaseR := rng.Float64()
	phaseG := rng.Float64()
	phaseB := rng.Float64()

	periodR := chiSquared(rng, 7.5)
	periodG := chiSquared(rng, 7.5)
	periodB := chiSquared(rng, 7.5)

	return NewPalette(periodR, periodG, periodB).
		WithPhases(phaseR, phaseG, phaseB).
		WithContrast(contrast, brightness).
		WithDegree(2)
}

// chiSquared samples a chi-squared variate with df degrees of freedom via
// the Marsaglia-Tsang gamma method.
func chiSquared(rng *rand.Rand, df float64) float64 {
	alpha := df / 2
	d := alpha - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		x := rng.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return 2 * d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return 2 * d * v
		}
	}
}

// WithPhases sets the three channel phases.
func (p Palette) WithPhases(phaseR, phaseG, phaseB float64) Palette {
	p.R.Phase = phaseR
	p.G.Phase = phaseG
	p.B.Phase = phaseB
	return p
}

// WithDegree sets the three channel degrees.
func (p Palette) WithDegree(degree int) Palette {
	p.R.Degree = degree
	p.G.Degree = degree
	p.B.Degree = degree
	return p
}

// WithContrast sets the channel amplitudes from a contrast and centers
// them on a brightness, clamping so the ramp stays inside [0, 1].
func (p Palette) WithContrast(contrast, brightness float64) Palette {
	amplitude := contrast / 2
	if amplitude > brightness {
		amplitude = brightness
	} else if amplitude > 1-brightness {
		amplitude = 1 - brightness
	}

	p.R.Amplitude = amplitude
	p.G.Amplitude = amplitude
	p.B.Amplitude = amplitude

	p.R.Midline = brightness
	p.G.Midline = brightness
	p.B.Midline = brightness

	return p
}

// sinusoidInput compresses an exterior potential so each doubling
// advances the ramp linearly.
func sinusoidInput(potential float64) float64 {
	return math.Log2(potential - 1)
}

// Map colors an exterior potential.
func (p *Palette) Map(potential float64) color.RGBA {
	t := sinusoidInput(potential)

	v0 := p.R.Value(t)
	v1 := p.G.Value(t)
	v2 := p.B.Value(t)

	if p.ColorSpace == SpaceXYZ {
		return Xyz{X: v0, Y: v1, Z: v2}.Color()
	}
	return RgbLinear{R: v0, G: v1, B: v2}.Color()
}

// MapPhase colors an exterior potential with the escape phase as hue,
// keeping lightness and chroma from the channel ramps. Families whose
// infinity has period one fall back to the plain ramp.
func (p *Palette) MapPhase(potential float64, phase, escPeriod int) color.RGBA {
	if escPeriod <= 1 {
		return p.Map(potential)
	}
	t := sinusoidInput(potential)

	l := p.R.Value(t)
	c := p.B.Value(t)

	lch := StandardDiscrete().WithNumColors(float64(escPeriod)).mapLch(float64(phase), 1)
	lch.L = l
	lch.C = c
	return lch.Color()
}

// ScalePeriod scales all three channel periods, stretching or squeezing
// the ramp.
func (p *Palette) ScalePeriod(factor float64) {
	p.R.Period *= factor
	p.G.Period *= factor
	p.B.Period *= factor
}

// AdjustPhase shifts all three channel phases, rotating the ramp.
func (p *Palette) AdjustPhase(shift float64) {
	p.R.Phase += shift
	p.G.Phase += shift
	p.B.Phase += shift
}

// SaveFile writes the palette as TOML.
func (p Palette) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(p)
}

// LoadPalette reads a TOML palette. Missing keys keep their defaults, so
// a file may override just the channel maps.
func LoadPalette(path string) (Palette, error) {
	p := DefaultPalette()
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return Palette{}, err
	}
	return p, nil
}

// DiscretePalette assigns qualitative hues to small integers, cycling
// after NumColors. Period coloring and phase coloring both draw from it.
type DiscretePalette struct {
	NumColors  float64 `toml:"num_colors" json:"num_colors"`
	BaseHue    float64 `toml:"base_hue" json:"base_hue"`
	Saturation float64 `toml:"saturation" json:"saturation"`
	Luminosity float64 `toml:"luminosity" json:"luminosity"`
}

// StandardDiscrete returns the default seven-hue wheel.
func StandardDiscrete() DiscretePalette {
	return DiscretePalette{
		NumColors:  7,
		BaseHue:    0.47,
		Saturation: 0.7,
		Luminosity: 1,
	}
}

// WithNumColors sets the hue cycle length.
func (d DiscretePalette) WithNumColors(n float64) DiscretePalette {
	d.NumColors = n
	return d
}

func (d DiscretePalette) mapHsv(period, luminosityMod float64) Hsv {
	hue := math.Mod(period/d.NumColors+d.BaseHue, 1)
	return Hsv{
		Hue:        hue,
		Saturation: d.Saturation,
		Intensity:  d.Luminosity * luminosityMod,
	}
}

func (d DiscretePalette) mapLch(period, luminosityMod float64) Lchab {
	h := math.Mod(period/d.NumColors+d.BaseHue+0.15, 1)
	return Lchab{
		H: h,
		C: d.Saturation,
		L: d.Luminosity * luminosityMod,
	}
}

// Map colors an integer index, dimmed by the luminosity modifier.
func (d DiscretePalette) Map(period, luminosityMod float64) color.RGBA {
	return d.mapHsv(period, luminosityMod).Color()
}
