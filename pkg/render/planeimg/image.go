package planeimg

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/matzehuels/fatou/pkg/dynamics"
)

// Render colors a computed plane into an image. Grid rows run bottom-up
// in mathematical orientation; the image flips them into raster order.
func Render(p *dynamics.IterPlane, c *Coloring) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Grid.ResX, p.Grid.ResY))
	for y := 0; y < p.Grid.ResY; y++ {
		row := p.Row(y)
		iy := p.Grid.ResY - 1 - y
		for x, info := range row {
			img.SetRGBA(x, iy, c.Map(info))
		}
	}
	return img
}

// EncodePNG renders a plane and returns the PNG bytes.
func EncodePNG(p *dynamics.IterPlane, c *Coloring) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Render(p, c)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// SavePNG renders a plane to a PNG file at path.
func SavePNG(p *dynamics.IterPlane, c *Coloring, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, Render(p, c)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
