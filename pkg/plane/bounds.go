// Package plane provides the view geometry shared by the compute pipeline,
// the renderers, and the interactive explorer: a rectangle in the complex
// plane and an immutable pixel grid mapped affinely onto it.
//
// Both types are plain values. Zooming, panning, and recentering return new
// values instead of mutating, so a grid handed to a running computation can
// never change underneath it.
package plane

import (
	"github.com/matzehuels/fatou/pkg/numeric"
)

// Bounds is an axis-aligned rectangle in the complex plane.
type Bounds struct {
	MinX float64 `json:"min_x" toml:"min_x"`
	MaxX float64 `json:"max_x" toml:"max_x"`
	MinY float64 `json:"min_y" toml:"min_y"`
	MaxY float64 `json:"max_y" toml:"max_y"`
}

// NewBounds returns the rectangle [minX, maxX] × [minY, maxY].
func NewBounds(minX, maxX, minY, maxY float64) Bounds {
	return Bounds{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY}
}

// CenteredSquare returns the square of the given radius centered at the
// origin.
func CenteredSquare(radius float64) Bounds {
	return Bounds{MinX: -radius, MaxX: radius, MinY: -radius, MaxY: radius}
}

// Square returns the square of the given radius centered at c.
func Square(radius float64, c numeric.Complex) Bounds {
	return Bounds{
		MinX: c.Real() - radius,
		MaxX: c.Real() + radius,
		MinY: c.Imag() - radius,
		MaxY: c.Imag() + radius,
	}
}

// RangeX returns the width of the rectangle.
func (b Bounds) RangeX() float64 { return b.MaxX - b.MinX }

// RangeY returns the height of the rectangle.
func (b Bounds) RangeY() float64 { return b.MaxY - b.MinY }

// Area returns width times height. The default periodicity tolerance of a
// family scales with this, so deep zooms keep detecting cycles that a
// fixed tolerance would miss.
func (b Bounds) Area() float64 { return b.RangeX() * b.RangeY() }

// MidX returns the horizontal midpoint.
func (b Bounds) MidX() float64 { return (b.MinX + b.MaxX) / 2 }

// MidY returns the vertical midpoint.
func (b Bounds) MidY() float64 { return (b.MinY + b.MaxY) / 2 }

// Center returns the midpoint as a complex number.
func (b Bounds) Center() numeric.Complex {
	return numeric.Complex(complex(b.MidX(), b.MidY()))
}

// Contains reports whether z lies inside the rectangle. The maximum edges
// are exclusive, matching pixel indexing.
func (b Bounds) Contains(z numeric.Complex) bool {
	return z.Real() >= b.MinX && z.Real() < b.MaxX &&
		z.Imag() >= b.MinY && z.Imag() < b.MaxY
}

// Translated returns the rectangle shifted by dz.
func (b Bounds) Translated(dz numeric.Complex) Bounds {
	return Bounds{
		MinX: b.MinX + dz.Real(),
		MaxX: b.MaxX + dz.Real(),
		MinY: b.MinY + dz.Imag(),
		MaxY: b.MaxY + dz.Imag(),
	}
}

// Zoomed returns the rectangle scaled about base. Scales below 1 zoom in.
func (b Bounds) Zoomed(scale float64, base numeric.Complex) Bounds {
	shifted := b.Translated(-base)
	shifted.MinX *= scale
	shifted.MaxX *= scale
	shifted.MinY *= scale
	shifted.MaxY *= scale
	return shifted.Translated(base)
}

// Recentered returns the rectangle moved so its center is c, keeping its
// size.
func (b Bounds) Recentered(c numeric.Complex) Bounds {
	return b.Translated(c - b.Center())
}

// IsDegenerate reports whether the rectangle has no interior.
func (b Bounds) IsDegenerate() bool {
	return b.MaxX <= b.MinX || b.MaxY <= b.MinY
}
