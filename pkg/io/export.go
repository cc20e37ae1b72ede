package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/plane"
)

var classToString = map[dynamics.Class]string{
	dynamics.ClassUnknown:          "unknown",
	dynamics.ClassEscaping:         "escaping",
	dynamics.ClassPeriodic:         "periodic",
	dynamics.ClassKnownPotential:   "known-potential",
	dynamics.ClassBounded:          "bounded",
	dynamics.ClassWandering:        "wandering",
	dynamics.ClassDistanceEstimate: "distance-estimate",
}

var classFromString = func() map[string]dynamics.Class {
	m := make(map[string]dynamics.Class, len(classToString))
	for k, v := range classToString {
		m[v] = k
	}
	return m
}()

// Metadata identifies what a stored plane was computed from.
type Metadata struct {
	// Family is the name of the dynamical family.
	Family string `json:"family"`

	// Param is the parameter selection for dynamical planes, absent for
	// parameter planes.
	Param *numeric.Complex `json:"param,omitempty"`

	// MaxIters is the iteration cap the plane was computed with.
	MaxIters int `json:"max_iters,omitempty"`

	// CreatedAt is the computation time.
	CreatedAt time.Time `json:"created_at,omitzero"`
}

type document struct {
	Meta   Metadata   `json:"meta"`
	Grid   plane.Grid `json:"grid"`
	Points []point    `json:"points"`
}

type point struct {
	Class     string             `json:"class"`
	Potential float64            `json:"potential,omitempty"`
	Phase     int                `json:"phase"`
	Distance  float64            `json:"distance,omitempty"`
	Cycle     dynamics.CycleInfo `json:"cycle,omitzero"`
}

// WriteJSON encodes a computed plane as JSON and writes it to w.
// The output carries the metadata, the grid, and every classified point,
// so the plane can be re-colored without recomputing any orbit. It can be
// re-imported with [ReadJSON].
func WriteJSON(meta Metadata, p *dynamics.IterPlane, w io.Writer) error {
	out := document{
		Meta:   meta,
		Grid:   p.Grid,
		Points: make([]point, len(p.Points)),
	}

	for i, info := range p.Points {
		out.Points[i] = point{
			Class:     classToString[info.Class],
			Potential: info.Potential,
			Phase:     info.Phase,
			Distance:  info.Distance,
			Cycle:     info.Cycle,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a computed plane to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(meta Metadata, p *dynamics.IterPlane, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(meta, p, f)
}
