// Package archive persists completed render runs.
//
// Every successful pipeline run can be recorded as an [Entry]: the job ID,
// the options that produced it, the content hash of the computed plane, and
// the classification statistics. Entries let `fatou history` answer "what
// did I render last week" and let the server rehydrate a run's options.
//
// # Architecture
//
// The [Store] interface has two implementations:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for durable archives
//
// Entries store the pipeline options as an opaque JSON string rather than
// a nested document: BSON has no complex number type, so the parameter and
// modulus fields cannot round-trip as structured BSON. The queryable
// fields (family, creation time, plane hash) are flattened alongside.
//
// # Usage
//
// Record a run:
//
//	entry, err := archive.NewEntry(result, opts)
//	if err != nil {
//	    return err
//	}
//	if err := store.Save(ctx, entry); err != nil {
//	    return err
//	}
//
// Browse the archive:
//
//	entries, err := store.List(ctx, archive.ListOptions{
//	    Family: "mandelbrot",
//	    Limit:  20,
//	})
package archive

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/fatou/pkg/errors"
	"github.com/matzehuels/fatou/pkg/pipeline"
)

// Entry is one archived render run.
type Entry struct {
	// ID is the pipeline job ID that produced this entry.
	ID string `bson:"_id" json:"id"`

	// CreatedAt is when the entry was archived, in UTC.
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	// Family is the dynamical family that was rendered.
	Family string `bson:"family" json:"family"`

	// PlaneHash is the content hash of the computed plane. Two entries
	// with the same hash rendered the same classification data.
	PlaneHash string `bson:"plane_hash" json:"plane_hash"`

	// Formats lists the artifact formats that were produced.
	Formats []string `bson:"formats" json:"formats"`

	// Options is the full pipeline configuration, JSON-encoded. Stored
	// opaquely because BSON cannot represent the complex-valued fields.
	Options string `bson:"options" json:"options"`

	// Stats summarizes the run.
	Stats EntryStats `bson:"stats" json:"stats"`
}

// EntryStats mirrors the pipeline statistics in a storage-friendly shape.
type EntryStats struct {
	Pixels   int `bson:"pixels" json:"pixels"`
	Escaped  int `bson:"escaped" json:"escaped"`
	Periodic int `bson:"periodic" json:"periodic"`
	Interior int `bson:"interior" json:"interior"`
	Unknown  int `bson:"unknown" json:"unknown"`

	// Durations in milliseconds.
	ComputeMS int64 `bson:"compute_ms" json:"compute_ms"`
	RenderMS  int64 `bson:"render_ms" json:"render_ms"`
}

// NewEntry builds an archive entry from a completed pipeline run.
func NewEntry(result *pipeline.Result, opts pipeline.Options) (Entry, error) {
	raw, err := json.Marshal(opts)
	if err != nil {
		return Entry{}, errors.Wrap(errors.ErrCodeInternal, err, "encoding options")
	}
	return Entry{
		ID:        result.JobID,
		CreatedAt: time.Now().UTC(),
		Family:    opts.Family,
		PlaneHash: result.PlaneHash,
		Formats:   opts.Formats,
		Options:   string(raw),
		Stats: EntryStats{
			Pixels:    result.Stats.Pixels,
			Escaped:   result.Stats.Escaped,
			Periodic:  result.Stats.Periodic,
			Interior:  result.Stats.Interior,
			Unknown:   result.Stats.Unknown,
			ComputeMS: result.Stats.ComputeTime.Milliseconds(),
			RenderMS:  result.Stats.RenderTime.Milliseconds(),
		},
	}, nil
}

// DecodeOptions restores the pipeline options this entry was rendered with.
func (e Entry) DecodeOptions() (pipeline.Options, error) {
	var opts pipeline.Options
	if err := json.Unmarshal([]byte(e.Options), &opts); err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInternal, err, "decoding options for %s", e.ID)
	}
	return opts, nil
}

// ListOptions filters and bounds a listing.
type ListOptions struct {
	// Family restricts results to one dynamical family. Empty matches all.
	Family string

	// Limit caps the number of results. Zero means no limit.
	Limit int

	// Since restricts results to entries created at or after this time.
	Since time.Time
}

// Store is the interface for archive storage backends.
type Store interface {
	// Save records an entry. Saving an existing ID overwrites it.
	Save(ctx context.Context, e Entry) error

	// Get retrieves an entry by ID.
	// Returns an ErrCodeRenderNotFound error if no entry exists.
	Get(ctx context.Context, id string) (Entry, error)

	// List returns entries matching opts, newest first.
	List(ctx context.Context, opts ListOptions) ([]Entry, error)

	// Delete removes an entry. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases any underlying connections.
	Close(ctx context.Context) error
}
