package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/fatou/pkg/archive"
	"github.com/matzehuels/fatou/pkg/buildinfo"
	"github.com/matzehuels/fatou/pkg/cache"
	"github.com/matzehuels/fatou/pkg/errors"
	"github.com/matzehuels/fatou/pkg/httputil"
	"github.com/matzehuels/fatou/pkg/observability"
	"github.com/matzehuels/fatou/pkg/pipeline"
	"github.com/matzehuels/fatou/pkg/plane"
	"github.com/matzehuels/fatou/pkg/profile"
)

// fail reports a handler error through hooks, logs, and the response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	observability.Server().OnError(r.Context(), r.Method, r.URL.Path, err)
	s.cfg.Logger.Warn("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	httputil.WriteError(w, err)
}

// checkSize rejects requests whose resolution exceeds the configured cap.
// When the height is derived from custom bounds, the derived value counts.
func (s *Server) checkSize(opts pipeline.Options) error {
	maxDim := s.cfg.MaxDim
	if opts.ResX > maxDim || opts.ResY > maxDim {
		return errors.New(errors.ErrCodeInvalidInput, "resolution exceeds %d pixels per side", maxDim)
	}
	if opts.ResY == 0 && opts.Bounds != (plane.Bounds{}) && opts.Bounds.RangeX() > 0 {
		resX := opts.ResX
		if resX == 0 {
			resX = pipeline.DefaultResX
		}
		if h := float64(resX) * opts.Bounds.RangeY() / opts.Bounds.RangeX(); h > float64(maxDim) {
			return errors.New(errors.ErrCodeInvalidInput, "derived height exceeds %d pixels", maxDim)
		}
	}
	return nil
}

// =============================================================================
// Health and Catalogue
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

type familyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	UsesParam   bool   `json:"uses_param,omitempty"`
	UsesMod     bool   `json:"uses_mod,omitempty"`
}

var familyCatalogue = []familyInfo{
	{
		Name:        pipeline.FamilyMandelbrot,
		Description: "Quadratic Mandelbrot parameter plane",
	},
	{
		Name:        pipeline.FamilyJulia,
		Description: "Quadratic Julia dynamical plane for a chosen seed",
		UsesParam:   true,
	},
	{
		Name:        pipeline.FamilyBiquadratic,
		Description: "Parameter plane of the alternating z^2+c, z^2+b iteration",
		UsesParam:   true,
	},
	{
		Name:        pipeline.FamilyGaussian,
		Description: "Gaussian-integer orbits modulo a fixed Gaussian modulus",
		UsesMod:     true,
	},
	{
		Name:        pipeline.FamilyEisenstein,
		Description: "Eisenstein-integer orbits modulo a fixed Eisenstein modulus",
		UsesMod:     true,
	},
}

func (s *Server) handleFamilies(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, familyCatalogue)
}

// =============================================================================
// Profiles
// =============================================================================

type profileSummary struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Family      string `json:"family,omitempty"`
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	names, err := profile.List(s.cfg.ProfileDir)
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "listing profiles"))
		return
	}

	summaries := make([]profileSummary, 0, len(names))
	for _, name := range names {
		p, err := profile.Load(s.cfg.ProfileDir, name)
		if err != nil {
			// A broken user file should not hide the rest.
			s.cfg.Logger.Warn("skipping profile", "name", name, "error", err)
			continue
		}
		summaries = append(summaries, profileSummary{
			Name:        p.Name,
			Description: p.Description,
			Family:      p.Family,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := profile.Load(s.cfg.ProfileDir, chi.URLParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

// =============================================================================
// Rendering
// =============================================================================

// handleImage renders a PNG straight from query parameters. Responses
// are cached by normalized query string.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts, err := s.optionsFromQuery(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatPNG}
	if err := s.checkSize(opts); err != nil {
		s.fail(w, r, err)
		return
	}

	key := s.cfg.Keyer.HTTPKey("image", cache.Hash([]byte(r.URL.Query().Encode())))
	if data, ok, _ := s.cfg.Cache.Get(ctx, key); ok {
		observability.Cache().OnCacheHit(ctx, "http")
		writePNG(w, data)
		return
	}
	observability.Cache().OnCacheMiss(ctx, "http")

	result, err := s.execute(r, &opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data := result.Artifacts[pipeline.FormatPNG]
	if err := s.cfg.Cache.Set(ctx, key, data, cache.TTLHTTP); err == nil {
		observability.Cache().OnCacheSet(ctx, "http", len(data))
	}
	writePNG(w, data)
}

type renderResponse struct {
	JobID     string             `json:"job_id"`
	PlaneHash string             `json:"plane_hash"`
	Stats     pipeline.Stats     `json:"stats"`
	Cache     pipeline.CacheInfo `json:"cache"`
	Archived  bool               `json:"archived"`
	Artifacts map[string][]byte  `json:"artifacts"`
}

// handleRender runs the full pipeline from an options document and
// returns stats plus base64 artifacts.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid options document: %v", err))
		return
	}
	if err := s.checkSize(opts); err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := s.execute(r, &opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	archived := s.archiveResult(r, result, opts)

	httputil.WriteJSON(w, http.StatusOK, renderResponse{
		JobID:     result.JobID,
		PlaneHash: result.PlaneHash,
		Stats:     result.Stats,
		Cache:     result.CacheInfo,
		Archived:  archived,
		Artifacts: result.Artifacts,
	})
}

// execute runs the pipeline, classifying failures as client or server side.
func (s *Server) execute(r *http.Request, opts *pipeline.Options) (*pipeline.Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%v", err)
	}

	result, err := s.cfg.Runner.Execute(r.Context(), *opts)
	if err != nil {
		if r.Context().Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "render cancelled")
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render failed")
	}
	return result, nil
}

// archiveResult saves a run to the archive. Failures are logged, not fatal:
// the client still gets its render.
func (s *Server) archiveResult(r *http.Request, result *pipeline.Result, opts pipeline.Options) bool {
	if s.cfg.Archive == nil {
		return false
	}

	entry, err := archive.NewEntry(result, opts)
	if err == nil {
		err = s.cfg.Archive.Save(r.Context(), entry)
	}
	if err != nil {
		s.cfg.Logger.Warn("archive save failed", "job", result.JobID, "error", err)
		return false
	}
	return true
}

// =============================================================================
// History
// =============================================================================

func (s *Server) requireArchive() (archive.Store, error) {
	if s.cfg.Archive == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no archive configured")
	}
	return s.cfg.Archive, nil
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	store, err := s.requireArchive()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	listOpts, err := listOptionsFromQuery(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	entries, err := store.List(r.Context(), listOpts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if entries == nil {
		entries = []archive.Entry{}
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (s *Server) handleHistoryEntry(w http.ResponseWriter, r *http.Request) {
	store, err := s.requireArchive()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	entry, err := store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

// handleHistoryImage re-renders an archived run. The runner's caches make
// this cheap for anything rendered recently.
func (s *Server) handleHistoryImage(w http.ResponseWriter, r *http.Request) {
	store, err := s.requireArchive()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	entry, err := store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts, err := entry.DecodeOptions()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{pipeline.FormatPNG}

	result, err := s.execute(r, &opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writePNG(w, result.Artifacts[pipeline.FormatPNG])
}

func (s *Server) handleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	store, err := s.requireArchive()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}
