package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/series-resampler/internal/series"
)

var (
	// ErrNotFound is returned when no series is stored under an identifier.
	ErrNotFound = errors.New("no series for identifier")
)

type record struct {
	series    series.Series
	fetchedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory store holding the latest
// normalized Series per identifier.
type MemoryStore struct {
	mu sync.RWMutex

	// key: series identifier
	data map[string]record

	// retention configuration
	maxAge time.Duration // optional max age since fetch
	now    func() time.Time
}

// NewMemoryStore creates a new MemoryStore. If maxAge is <= 0, series never expire.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]record),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// SaveSeries replaces the stored series for s.ID and enforces retention.
func (s *MemoryStore) SaveSeries(ser series.Series, fetchedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[ser.ID] = record{series: ser, fetchedAt: fetchedAt}

	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		for id, rec := range s.data {
			if rec.fetchedAt.Before(cutoff) {
				delete(s.data, id)
			}
		}
	}
}

// Get returns the stored series for id.
func (s *MemoryStore) Get(id string) (series.Series, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[id]
	if !ok || s.stale(rec) {
		return series.Series{}, ErrNotFound
	}
	return rec.series, nil
}

// IDs returns the identifiers of all live series, sorted.
func (s *MemoryStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id, rec := range s.data {
		if s.stale(rec) {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *MemoryStore) stale(rec record) bool {
	return s.maxAge > 0 && rec.fetchedAt.Before(s.now().Add(-s.maxAge))
}
