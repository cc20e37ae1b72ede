package archive

import (
	"testing"
	"time"

	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/pipeline"
)

func TestNewEntry(t *testing.T) {
	opts := pipeline.Options{
		Family:  pipeline.FamilyJulia,
		Param:   numeric.Complex(complex(-0.75, 0.11)),
		ResX:    320,
		Formats: []string{pipeline.FormatPNG, pipeline.FormatJSON},
	}
	result := &pipeline.Result{
		JobID:     "job-1",
		PlaneHash: "abc123",
		Stats: pipeline.Stats{
			Pixels:      100,
			Escaped:     60,
			Periodic:    30,
			Unknown:     10,
			ComputeTime: 1500 * time.Millisecond,
			RenderTime:  250 * time.Millisecond,
		},
	}

	e, err := NewEntry(result, opts)
	if err != nil {
		t.Fatalf("NewEntry() failed: %v", err)
	}

	if e.ID != "job-1" {
		t.Errorf("ID = %q, want job-1", e.ID)
	}
	if e.Family != pipeline.FamilyJulia {
		t.Errorf("Family = %q, want julia", e.Family)
	}
	if e.PlaneHash != "abc123" {
		t.Errorf("PlaneHash = %q, want abc123", e.PlaneHash)
	}
	if len(e.Formats) != 2 {
		t.Errorf("Formats = %v, want two entries", e.Formats)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
	if e.CreatedAt.Location() != time.UTC {
		t.Error("CreatedAt should be UTC")
	}
	if e.Stats.Pixels != 100 || e.Stats.Escaped != 60 {
		t.Errorf("Stats = %+v, want pixel counts carried over", e.Stats)
	}
	if e.Stats.ComputeMS != 1500 {
		t.Errorf("ComputeMS = %d, want 1500", e.Stats.ComputeMS)
	}
	if e.Stats.RenderMS != 250 {
		t.Errorf("RenderMS = %d, want 250", e.Stats.RenderMS)
	}
	if e.Options == "" {
		t.Error("Options is empty")
	}
}

func TestEntryDecodeOptions(t *testing.T) {
	opts := pipeline.Options{
		Family:   pipeline.FamilyJulia,
		Param:    numeric.Complex(complex(-0.75, 0.11)),
		ResX:     320,
		MaxIters: 500,
		Engine:   pipeline.EngineDistance,
		Formats:  []string{pipeline.FormatPNG},
	}
	result := &pipeline.Result{JobID: "job-2", PlaneHash: "h"}

	e, err := NewEntry(result, opts)
	if err != nil {
		t.Fatalf("NewEntry() failed: %v", err)
	}

	got, err := e.DecodeOptions()
	if err != nil {
		t.Fatalf("DecodeOptions() failed: %v", err)
	}
	if got.Family != opts.Family {
		t.Errorf("Family = %q, want %q", got.Family, opts.Family)
	}
	if got.Param != opts.Param {
		t.Errorf("Param = %v, want %v", got.Param, opts.Param)
	}
	if got.ResX != opts.ResX || got.MaxIters != opts.MaxIters {
		t.Errorf("resolution/iterations differ: got %+v", got)
	}
	if got.Engine != opts.Engine {
		t.Errorf("Engine = %q, want %q", got.Engine, opts.Engine)
	}
}

func TestEntryDecodeOptionsInvalid(t *testing.T) {
	e := Entry{ID: "bad", Options: "{not json"}
	if _, err := e.DecodeOptions(); err == nil {
		t.Fatal("DecodeOptions() succeeded on malformed payload")
	}
}
