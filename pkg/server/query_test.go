package server

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/pipeline"
	"github.com/matzehuels/fatou/pkg/plane"
)

func parseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	q, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("ParseQuery(%q): %v", raw, err)
	}
	return q
}

func TestOptionsFromQuery(t *testing.T) {
	s := &Server{cfg: Config{ProfileDir: t.TempDir()}}

	opts, err := s.optionsFromQuery(parseQuery(t,
		"family=julia&param_re=-1&param_im=0.25&res_x=640&max_iters=500&engine=distance&phase=true"))
	if err != nil {
		t.Fatalf("optionsFromQuery: %v", err)
	}
	if opts.Family != pipeline.FamilyJulia {
		t.Errorf("Family = %q, want julia", opts.Family)
	}
	if want := numeric.Complex(complex(-1, 0.25)); opts.Param != want {
		t.Errorf("Param = %v, want %v", opts.Param, want)
	}
	if opts.ResX != 640 || opts.MaxIters != 500 {
		t.Errorf("ResX/MaxIters = %d/%d, want 640/500", opts.ResX, opts.MaxIters)
	}
	if opts.Engine != pipeline.EngineDistance {
		t.Errorf("Engine = %q, want distance", opts.Engine)
	}
	if !opts.PhaseColoring {
		t.Error("PhaseColoring should be set")
	}
}

func TestOptionsFromQueryProfileSeed(t *testing.T) {
	s := &Server{cfg: Config{ProfileDir: t.TempDir()}}

	opts, err := s.optionsFromQuery(parseQuery(t, "profile=basilica&res_x=32"))
	if err != nil {
		t.Fatalf("optionsFromQuery: %v", err)
	}
	if opts.Family != pipeline.FamilyJulia {
		t.Errorf("Family = %q, want julia from profile", opts.Family)
	}
	if want := numeric.Complex(complex(-1, 0)); opts.Param != want {
		t.Errorf("Param = %v, want %v from profile", opts.Param, want)
	}
	if opts.ResX != 32 {
		t.Errorf("ResX = %d, query should override the profile's 1600", opts.ResX)
	}
	if opts.Algorithm != "period" || !opts.PhaseColoring {
		t.Errorf("coloring = %q/%v, want period/true from profile", opts.Algorithm, opts.PhaseColoring)
	}
}

func TestOptionsFromQueryUnknownProfile(t *testing.T) {
	s := &Server{cfg: Config{ProfileDir: t.TempDir()}}
	if _, err := s.optionsFromQuery(parseQuery(t, "profile=nope")); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestSetView(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    plane.Bounds
		wantErr string
	}{
		{
			name:  "explicit bounds",
			query: "min_x=-2&max_x=1&min_y=-1.5&max_y=1.5",
			want:  plane.NewBounds(-2, 1, -1.5, 1.5),
		},
		{
			name:  "center and radius",
			query: "center_re=-0.5&center_im=0.5&radius=0.25",
			want:  plane.Square(0.25, numeric.Complex(complex(-0.5, 0.5))),
		},
		{
			name:  "no view parameters",
			query: "res_x=100",
			want:  plane.Bounds{},
		},
		{
			name:    "partial bounds",
			query:   "min_x=-2&max_y=1",
			wantErr: "bounds require",
		},
		{
			name:    "bounds with radius",
			query:   "min_x=-2&max_x=1&min_y=-1&max_y=1&radius=0.5",
			wantErr: "mutually exclusive",
		},
		{
			name:    "zero radius",
			query:   "center_re=0&radius=0",
			wantErr: "radius must be positive",
		},
		{
			name:    "bad bound value",
			query:   "min_x=wide&max_x=1&min_y=-1&max_y=1",
			wantErr: "invalid min_x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts pipeline.Options
			err := setView(parseQuery(t, tt.query), &opts)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("setView: %v", err)
			}
			if opts.Bounds != tt.want {
				t.Errorf("Bounds = %+v, want %+v", opts.Bounds, tt.want)
			}
		})
	}
}

func TestSetComplexPartial(t *testing.T) {
	c := numeric.Complex(complex(1, 2))
	if err := setComplex(parseQuery(t, "param_im=5"), "param", &c); err != nil {
		t.Fatalf("setComplex: %v", err)
	}
	if want := numeric.Complex(complex(1, 5)); c != want {
		t.Errorf("got %v, want %v (real component kept)", c, want)
	}

	if err := setComplex(parseQuery(t, ""), "param", &c); err != nil {
		t.Fatalf("setComplex: %v", err)
	}
	if want := numeric.Complex(complex(1, 5)); c != want {
		t.Errorf("got %v, want %v (absent keys leave value unchanged)", c, want)
	}
}

func TestListOptionsFromQuery(t *testing.T) {
	opts, err := listOptionsFromQuery(parseQuery(t, "family=julia&limit=10&since=2026-06-01T00:00:00Z"))
	if err != nil {
		t.Fatalf("listOptionsFromQuery: %v", err)
	}
	if opts.Family != "julia" || opts.Limit != 10 {
		t.Errorf("Family/Limit = %q/%d, want julia/10", opts.Family, opts.Limit)
	}
	if want := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC); !opts.Since.Equal(want) {
		t.Errorf("Since = %v, want %v", opts.Since, want)
	}

	if _, err := listOptionsFromQuery(parseQuery(t, "limit=ten")); err == nil {
		t.Error("expected error for non-numeric limit")
	}
}
