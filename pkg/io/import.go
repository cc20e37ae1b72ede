package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/fatou/pkg/dynamics"
)

// ReadJSON decodes a stored plane from r.
//
// The input must be a JSON object with "meta", "grid", and "points"
// fields as produced by [WriteJSON]. Each point must carry a known class
// string; the other fields default to zero. The point array must match
// the grid's pixel count exactly, so indexes computed from the grid stay
// valid.
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - The grid resolution is not positive
//   - The point count does not match the grid
//   - A point names an unknown class
//
// Errors are wrapped with context describing which point caused the
// problem. The returned plane is independent of r and can be modified
// safely after ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Metadata, *dynamics.IterPlane, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return Metadata{}, nil, fmt.Errorf("decode: %w", err)
	}

	if data.Grid.ResX <= 0 || data.Grid.ResY <= 0 {
		return Metadata{}, nil, fmt.Errorf("grid resolution %dx%d is not positive", data.Grid.ResX, data.Grid.ResY)
	}
	if len(data.Points) != data.Grid.NumPixels() {
		return Metadata{}, nil, fmt.Errorf("%d points for a %dx%d grid", len(data.Points), data.Grid.ResX, data.Grid.ResY)
	}

	p := &dynamics.IterPlane{
		Grid:   data.Grid,
		Points: make([]dynamics.PointInfo, len(data.Points)),
	}
	for i, pt := range data.Points {
		class, ok := classFromString[pt.Class]
		if !ok {
			return Metadata{}, nil, fmt.Errorf("point %d: unknown class %q", i, pt.Class)
		}
		p.Points[i] = dynamics.PointInfo{
			Class:     class,
			Potential: pt.Potential,
			Phase:     pt.Phase,
			Distance:  pt.Distance,
			Cycle:     pt.Cycle,
		}
	}

	return data.Meta, p, nil
}

// ImportJSON reads a JSON file at path and returns the decoded plane.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. If the file cannot be opened, or if decoding fails, ImportJSON
// returns an error wrapping the underlying cause with the file path for
// context.
func ImportJSON(path string) (Metadata, *dynamics.IterPlane, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
