package archive

import (
	"context"
	"sort"
	"sync"

	"github.com/matzehuels/fatou/pkg/errors"
)

// MemoryStore is an in-memory archive for development and testing.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory archive.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Save(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = e
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return Entry{}, errors.New(errors.ErrCodeRenderNotFound, "no archived render %q", id)
	}
	return e, nil
}

func (s *MemoryStore) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if opts.Family != "" && e.Family != opts.Family {
			continue
		}
		if !opts.Since.IsZero() && e.CreatedAt.Before(opts.Since) {
			continue
		}
		matched = append(matched, e)
	}

	// Newest first; break timestamp ties by ID so listings are stable.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}
