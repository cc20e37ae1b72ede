package server

import (
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/fatou/pkg/archive"
	"github.com/matzehuels/fatou/pkg/errors"
	"github.com/matzehuels/fatou/pkg/numeric"
	"github.com/matzehuels/fatou/pkg/pipeline"
	"github.com/matzehuels/fatou/pkg/plane"
	"github.com/matzehuels/fatou/pkg/profile"
)

// optionsFromQuery builds pipeline options from URL query parameters.
// A profile parameter seeds the options; explicit parameters override it.
func (s *Server) optionsFromQuery(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options
	if name := q.Get("profile"); name != "" {
		p, err := profile.Load(s.cfg.ProfileDir, name)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts = p.Options()
	}

	if v := q.Get("family"); v != "" {
		opts.Family = v
	}
	if err := setComplex(q, "param", &opts.Param); err != nil {
		return pipeline.Options{}, err
	}
	if err := setComplex(q, "mod", &opts.Mod); err != nil {
		return pipeline.Options{}, err
	}
	if err := setView(q, &opts); err != nil {
		return pipeline.Options{}, err
	}
	if err := setInt(q, "res_x", &opts.ResX); err != nil {
		return pipeline.Options{}, err
	}
	if err := setInt(q, "res_y", &opts.ResY); err != nil {
		return pipeline.Options{}, err
	}
	if err := setInt(q, "max_iters", &opts.MaxIters); err != nil {
		return pipeline.Options{}, err
	}
	if err := setInt(q, "workers", &opts.Workers); err != nil {
		return pipeline.Options{}, err
	}
	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	if v := q.Get("algorithm"); v != "" {
		opts.Algorithm = v
	}
	if err := setBool(q, "phase", &opts.PhaseColoring); err != nil {
		return pipeline.Options{}, err
	}
	if err := setBool(q, "refresh", &opts.Refresh); err != nil {
		return pipeline.Options{}, err
	}
	if err := setFloat(q, "fill_rate", &opts.FillRate); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

// setView applies the bounds or center/radius view parameters.
func setView(q url.Values, opts *pipeline.Options) error {
	boundsKeys := [4]string{"min_x", "max_x", "min_y", "max_y"}
	var vals [4]float64
	n := 0
	for i, key := range boundsKeys {
		v := q.Get(key)
		if v == "" {
			continue
		}
		f, err := parseFloat(key, v)
		if err != nil {
			return err
		}
		vals[i] = f
		n++
	}

	hasCenter := q.Get("center_re") != "" || q.Get("center_im") != "" || q.Get("radius") != ""
	switch {
	case n == 4:
		if hasCenter {
			return errors.New(errors.ErrCodeInvalidInput, "bounds and center/radius are mutually exclusive")
		}
		opts.Bounds = plane.NewBounds(vals[0], vals[1], vals[2], vals[3])
	case n > 0:
		return errors.New(errors.ErrCodeInvalidInput, "bounds require min_x, max_x, min_y and max_y")
	case hasCenter:
		var center numeric.Complex
		if err := setComplex(q, "center", &center); err != nil {
			return err
		}
		var radius float64
		if err := setFloat(q, "radius", &radius); err != nil {
			return err
		}
		if radius <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "radius must be positive")
		}
		opts.Bounds = plane.Square(radius, center)
	}
	return nil
}

// listOptionsFromQuery builds archive list options from query parameters.
func listOptionsFromQuery(q url.Values) (archive.ListOptions, error) {
	var opts archive.ListOptions
	opts.Family = q.Get("family")
	if err := setInt(q, "limit", &opts.Limit); err != nil {
		return archive.ListOptions{}, err
	}
	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return archive.ListOptions{}, errors.New(errors.ErrCodeInvalidInput, "invalid since: %q (RFC 3339 expected)", v)
		}
		opts.Since = t
	}
	return opts, nil
}

func parseFloat(key, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", key, v)
	}
	return f, nil
}

func setFloat(q url.Values, key string, dst *float64) error {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	f, err := parseFloat(key, v)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

func setInt(q url.Values, key string, dst *int) error {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", key, v)
	}
	*dst = n
	return nil
}

func setBool(q url.Values, key string, dst *bool) error {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", key, v)
	}
	*dst = b
	return nil
}

// setComplex reads <key>_re and <key>_im, keeping the current value for
// whichever component is absent.
func setComplex(q url.Values, key string, dst *numeric.Complex) error {
	re, im := dst.Real(), dst.Imag()
	changed := false
	if v := q.Get(key + "_re"); v != "" {
		f, err := parseFloat(key+"_re", v)
		if err != nil {
			return err
		}
		re, changed = f, true
	}
	if v := q.Get(key + "_im"); v != "" {
		f, err := parseFloat(key+"_im", v)
		if err != nil {
			return err
		}
		im, changed = f, true
	}
	if changed {
		*dst = numeric.Complex(complex(re, im))
	}
	return nil
}
