package io_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/fatou/pkg/dynamics"
	"github.com/matzehuels/fatou/pkg/io"
	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/plane"
)

func samplePlane() *dynamics.IterPlane {
	p := dynamics.NewIterPlane(plane.NewGrid(2, 2, plane.CenteredSquare(2)))
	p.Set(0, 0, dynamics.PointInfo{Class: dynamics.ClassEscaping, Potential: 3.7134957, Phase: 0})
	p.Set(1, 0, dynamics.PointInfo{
		Class: dynamics.ClassPeriodic,
		Phase: -1,
		Cycle: dynamics.CycleInfo{
			Preperiod:  17,
			Period:     2,
			Multiplier: numeric.Complex(complex(-0.2, 0.08)),
			FinalError: 1.5e-15,
		},
	})
	p.Set(0, 1, dynamics.PointInfo{Class: dynamics.ClassDistanceEstimate, Distance: 0.0041, Phase: 1})
	return p
}

func TestRoundTrip(t *testing.T) {
	param := numeric.Complex(complex(-1, 0))
	meta := io.Metadata{
		Family:    "Julia(Mandelbrot)",
		Param:     &param,
		MaxIters:  1024,
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
	}
	src := samplePlane()

	var buf bytes.Buffer
	if err := io.WriteJSON(meta, src, &buf); err != nil {
		t.Fatalf("WriteJSON error: %v", err)
	}

	gotMeta, got, err := io.ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON error: %v", err)
	}

	if gotMeta.Family != meta.Family || gotMeta.MaxIters != meta.MaxIters {
		t.Errorf("meta = %+v, want %+v", gotMeta, meta)
	}
	if gotMeta.Param == nil || *gotMeta.Param != param {
		t.Errorf("param = %v, want %v", gotMeta.Param, param)
	}
	if !gotMeta.CreatedAt.Equal(meta.CreatedAt) {
		t.Errorf("created at = %v, want %v", gotMeta.CreatedAt, meta.CreatedAt)
	}
	if got.Grid != src.Grid {
		t.Errorf("grid = %+v, want %+v", got.Grid, src.Grid)
	}
	if len(got.Points) != len(src.Points) {
		t.Fatalf("point count = %d, want %d", len(got.Points), len(src.Points))
	}
	// Potentials, cycle data, and distances survive bit-for-bit.
	for i := range src.Points {
		if got.Points[i] != src.Points[i] {
			t.Errorf("point %d = %+v, want %+v", i, got.Points[i], src.Points[i])
		}
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plane.json")
	meta := io.Metadata{Family: "Mandelbrot", MaxIters: 256}
	src := samplePlane()

	if err := io.ExportJSON(meta, src, path); err != nil {
		t.Fatalf("ExportJSON error: %v", err)
	}
	gotMeta, got, err := io.ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON error: %v", err)
	}
	if gotMeta.Family != "Mandelbrot" {
		t.Errorf("family = %q, want Mandelbrot", gotMeta.Family)
	}
	if gotMeta.Param != nil {
		t.Errorf("param = %v, want none for a parameter plane", gotMeta.Param)
	}
	for i := range src.Points {
		if got.Points[i] != src.Points[i] {
			t.Errorf("point %d = %+v, want %+v", i, got.Points[i], src.Points[i])
		}
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	if _, _, err := io.ImportJSON(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("ImportJSON on missing file should error")
	}
}

func TestReadJSONValidation(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"malformed", `{"meta": {`},
		{"zero resolution", `{"meta":{"family":"f"},"grid":{"res_x":0,"res_y":2,"bounds":{}},"points":[]}`},
		{"count mismatch", `{"meta":{"family":"f"},"grid":{"res_x":2,"res_y":1,"bounds":{}},"points":[{"class":"bounded","phase":-1}]}`},
		{"unknown class", `{"meta":{"family":"f"},"grid":{"res_x":1,"res_y":1,"bounds":{}},"points":[{"class":"plaid","phase":-1}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := io.ReadJSON(strings.NewReader(tc.in)); err == nil {
				t.Errorf("ReadJSON accepted %s input", tc.name)
			}
		})
	}
}
