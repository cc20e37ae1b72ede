package planeimg

import (
	"fmt"
	"image/color"
	"math"
)

// to8 scales a unit channel value to a byte, saturating like the float
// casts the conversion formulas assume. NaN maps to 0.
func to8(v float64) uint8 {
	n := 256 * v
	if !(n > 0) {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}

// RGB is a serializable sRGB color. Palette files store it as "#rrggbb".
type RGB struct {
	R, G, B uint8
}

// Color converts to a stdlib color with full alpha.
func (c RGB) Color() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// MarshalText encodes the color as "#rrggbb".
func (c RGB) MarshalText() ([]byte, error) {
	return fmt.Appendf(nil, "#%02x%02x%02x", c.R, c.G, c.B), nil
}

// UnmarshalText decodes "#rrggbb".
func (c *RGB) UnmarshalText(text []byte) error {
	var r, g, b uint8
	if _, err := fmt.Sscanf(string(text), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return fmt.Errorf("color %q: %w", text, err)
	}
	*c = RGB{R: r, G: g, B: b}
	return nil
}

// Default component colors.
var (
	Black = RGB{0, 0, 0}
	White = RGB{255, 255, 255}
	Gray  = RGB{160, 160, 160}
	Brown = RGB{165, 42, 42}
)

// Hsv is a hue/saturation/intensity triple, hue in turns.
type Hsv struct {
	Hue        float64
	Saturation float64
	Intensity  float64
}

// Color converts through the hexant algorithm.
func (h Hsv) Color() color.RGBA {
	c := h.Intensity * h.Saturation
	mode := h.Hue * 6
	x := c * (1 - math.Abs(math.Mod(mode, 2)-1))
	m := h.Intensity - c

	var r, g, b float64
	switch int(mode) % 6 {
	case 0:
		r, g, b = c, x, 0
	case 1:
		r, g, b = x, c, 0
	case 2:
		r, g, b = 0, c, x
	case 3:
		r, g, b = 0, x, c
	case 4:
		r, g, b = x, 0, c
	case 5:
		r, g, b = c, 0, x
	}
	return color.RGBA{R: to8(r + m), G: to8(g + m), B: to8(b + m), A: 255}
}

// Lchab is a cylindrical CIELAB color, hue in turns. The interleaved
// phase coloring drives lightness and chroma from the escape potential.
type Lchab struct {
	L, C, H float64
}

// Color converts through Lab and XYZ.
func (l Lchab) Color() color.RGBA {
	return l.lab().xyz().rgbLinear().Color()
}

func (l Lchab) lab() lab {
	theta := l.H * 2 * math.Pi
	return lab{
		l: l.L,
		a: l.C * math.Cos(theta),
		b: l.C * math.Sin(theta),
	}
}

type lab struct {
	l, a, b float64
}

// CIE conversion constants, D65 reference white.
const (
	refWhiteX = 0.95047
	refWhiteY = 1.0
	refWhiteZ = 1.08883
	cieKappa  = 903.3
	cieEps    = 0.008856
)

func (v lab) xyz() Xyz {
	l := v.l * 100

	fy := (l + 16) / 116
	fx := v.a/5 + fy
	fz := fy - v.b/2

	x0 := fx * fx * fx
	if x0 <= cieEps {
		x0 = (fx*116 - 16) / cieKappa
	}
	z0 := fz * fz * fz
	if z0 <= cieEps {
		z0 = (fz*116 - 16) / cieKappa
	}
	var y0 float64
	if l > 8 {
		f := (l + 16) / 116
		y0 = f * f * f
	} else {
		y0 = l / cieKappa
	}

	return Xyz{X: x0 * refWhiteX, Y: y0 * refWhiteY, Z: z0 * refWhiteZ}
}

// Xyz is a CIE 1931 tristimulus triple.
type Xyz struct {
	X, Y, Z float64
}

func (v Xyz) rgbLinear() RgbLinear {
	return RgbLinear{
		R: 2.3646138*v.X - 0.8965406*v.Y - 0.46807648*v.Z,
		G: -0.5151662*v.X + 1.426408*v.Y + 0.0887581*v.Z,
		B: 0.0052037*v.X - 0.01440816*v.Y + 1.0092045*v.Z,
	}
}

// Color converts through the linear RGB matrix.
func (v Xyz) Color() color.RGBA {
	return v.rgbLinear().Color()
}

// RgbLinear is a linear RGB triple with unit channels.
type RgbLinear struct {
	R, G, B float64
}

// Color clamps each channel to a byte.
func (v RgbLinear) Color() color.RGBA {
	return color.RGBA{R: to8(v.R), G: to8(v.G), B: to8(v.B), A: 255}
}
