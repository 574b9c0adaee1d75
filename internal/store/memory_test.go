package store

import (
	"errors"
	"testing"
	"time"

	"github.com/i474232898/series-resampler/internal/series"
)

func testSeries(id string) series.Series {
	return series.Series{
		ID:        id,
		Frequency: series.Hourly,
		Points: []series.TimePoint{
			{Time: time.Date(2015, 9, 13, 16, 0, 0, 0, time.UTC), Value: 1},
		},
	}
}

func TestMemoryStoreSaveAndGet(t *testing.T) {
	s := NewMemoryStore(0)
	now := time.Now()

	s.SaveSeries(testSeries("b"), now)
	s.SaveSeries(testSeries("a"), now)

	got, err := s.Get("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "a" {
		t.Fatalf("expected series a, got %s", got.ID)
	}

	ids := s.IDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("expected sorted ids [a b], got %v", ids)
	}

	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreRetention(t *testing.T) {
	now := time.Date(2015, 9, 13, 20, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Hour)
	s.now = func() time.Time { return now }

	s.SaveSeries(testSeries("old"), now.Add(-2*time.Hour))
	s.SaveSeries(testSeries("fresh"), now)

	if _, err := s.Get("old"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired series to be gone, got %v", err)
	}
	if _, err := s.Get("fresh"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(90 * time.Minute)
	if ids := s.IDs(); len(ids) != 0 {
		t.Fatalf("expected no live ids, got %v", ids)
	}
}
