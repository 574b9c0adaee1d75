package pipeline

import (
	"context"
	"time"

	"github.com/i474232898/series-resampler/internal/series"
)

// Payload is the raw result of a single fetch. Exactly one of Pairs (energy
// series shape) or Readings (multi-channel forecast shape) is set.
type Payload struct {
	ID        string
	Frequency series.Frequency
	Pairs     []series.RawPair
	Readings  []series.RawReading
}

// Source abstracts a hosted series API (EIA, OpenWeatherMap, a history CSV feed).
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Payload, error)
}

// Store is the contract the in-memory series store must satisfy.
type Store interface {
	SaveSeries(s series.Series, fetchedAt time.Time)
	Get(id string) (series.Series, error)
	IDs() []string
}
