package plane

import (
	"github.com/matzehuels/fatou/pkg/numeric"
)

// Grid is an immutable affine mapping between pixel coordinates and a
// rectangle in the complex plane. Pixel (0, 0) maps to the lower-left
// corner; the y index grows upward, in mathematical orientation. Raster
// sinks that want the origin at the top-left flip rows when writing.
//
// The compute layers only ever read a Grid, so one value can safely be
// shared across workers.
type Grid struct {
	ResX   int    `json:"res_x"`
	ResY   int    `json:"res_y"`
	Bounds Bounds `json:"bounds"`
}

// NewGrid returns a grid with the given resolution over bounds.
func NewGrid(resX, resY int, bounds Bounds) Grid {
	return Grid{ResX: resX, ResY: resY, Bounds: bounds}
}

// NewGridByResX returns a grid of the given width whose height is derived
// from the aspect ratio of bounds, so pixels stay square.
func NewGridByResX(resX int, bounds Bounds) Grid {
	return NewGrid(resX, inferHeight(resX, bounds), bounds)
}

// NewGridByResY returns a grid of the given height whose width is derived
// from the aspect ratio of bounds.
func NewGridByResY(resY int, bounds Bounds) Grid {
	return NewGrid(inferWidth(resY, bounds), resY, bounds)
}

func inferHeight(resX int, b Bounds) int {
	return int(float64(resX) * b.RangeY() / b.RangeX())
}

func inferWidth(resY int, b Bounds) int {
	return int(float64(resY) * b.RangeX() / b.RangeY())
}

// PixelWidth returns the plane width of one pixel.
func (g Grid) PixelWidth() float64 { return g.Bounds.RangeX() / float64(g.ResX) }

// PixelHeight returns the plane height of one pixel.
func (g Grid) PixelHeight() float64 { return g.Bounds.RangeY() / float64(g.ResY) }

// MapPixel returns the plane point of pixel (i, j).
func (g Grid) MapPixel(i, j int) numeric.Complex {
	re := g.Bounds.MinX + float64(i)*g.PixelWidth()
	im := g.Bounds.MinY + float64(j)*g.PixelHeight()
	return numeric.Complex(complex(re, im))
}

// Locate returns the pixel containing z, or ok=false when z lies outside
// the grid.
func (g Grid) Locate(z numeric.Complex) (i, j int, ok bool) {
	if !g.Bounds.Contains(z) {
		return 0, 0, false
	}
	i = int((z.Real() - g.Bounds.MinX) / g.PixelWidth())
	j = int((z.Imag() - g.Bounds.MinY) / g.PixelHeight())
	return i, j, true
}

// Center returns the plane point at the middle of the grid.
func (g Grid) Center() numeric.Complex { return g.Bounds.Center() }

// Shape returns (width, height) in pixels.
func (g Grid) Shape() (int, int) { return g.ResX, g.ResY }

// NumPixels returns the total pixel count.
func (g Grid) NumPixels() int { return g.ResX * g.ResY }

// WithBounds returns a grid over the new bounds keeping this grid's width,
// rederiving the height from the new aspect ratio.
func (g Grid) WithBounds(bounds Bounds) Grid {
	return NewGridByResX(g.ResX, bounds)
}

// Zoomed returns the grid scaled about base, keeping the resolution.
func (g Grid) Zoomed(scale float64, base numeric.Complex) Grid {
	return Grid{ResX: g.ResX, ResY: g.ResY, Bounds: g.Bounds.Zoomed(scale, base)}
}

// Translated returns the grid shifted by dz, keeping the resolution.
func (g Grid) Translated(dz numeric.Complex) Grid {
	return Grid{ResX: g.ResX, ResY: g.ResY, Bounds: g.Bounds.Translated(dz)}
}
