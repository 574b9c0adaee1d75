package series

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is the nominal spacing between a series' observations.
type Frequency string

const (
	Annual  Frequency = "annual"
	Monthly Frequency = "monthly"
	Weekly  Frequency = "weekly"
	Daily   Frequency = "daily"
	Hourly  Frequency = "hourly"
)

// ParseFrequency accepts the long names above or the single-letter codes used by
// the EIA series API (A, M, W, D, H).
func ParseFrequency(code string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "a", "annual":
		return Annual, nil
	case "m", "monthly":
		return Monthly, nil
	case "w", "weekly":
		return Weekly, nil
	case "d", "daily":
		return Daily, nil
	case "h", "hourly":
		return Hourly, nil
	default:
		return "", fmt.Errorf("%w: unknown frequency %q", ErrMalformedTimestamp, code)
	}
}

// TimePoint is a single observation.
type TimePoint struct {
	Time  time.Time `json:"time"` // always UTC
	Value float64   `json:"value"`
}

// Series is an ordered set of observations at a fixed frequency.
// Points are strictly increasing in time and there is at least one of them.
type Series struct {
	ID        string      `json:"id"`
	Frequency Frequency   `json:"frequency"`
	Points    []TimePoint `json:"points"`
}

// Len returns the number of observations.
func (s Series) Len() int {
	return len(s.Points)
}

// Min returns the first observation time.
func (s Series) Min() time.Time {
	if len(s.Points) == 0 {
		return time.Time{}
	}
	return s.Points[0].Time
}

// Max returns the last observation time.
func (s Series) Max() time.Time {
	if len(s.Points) == 0 {
		return time.Time{}
	}
	return s.Points[len(s.Points)-1].Time
}

// Values returns a copy of the observation values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Between returns a copy of the series holding only points within [from, to].
// A zero from or to leaves that end open.
func (s Series) Between(from, to time.Time) Series {
	out := Series{ID: s.ID, Frequency: s.Frequency, Points: []TimePoint{}}
	for _, p := range s.Points {
		if (!from.IsZero() && p.Time.Before(from)) || (!to.IsZero() && p.Time.After(to)) {
			continue
		}
		out.Points = append(out.Points, p)
	}
	return out
}

// HourlyAxis builds the hourly axis spanning this series.
func (s Series) HourlyAxis() ([]time.Time, error) {
	if len(s.Points) == 0 {
		return nil, ErrEmptySeries
	}
	return HourlyAxis(s.Min(), s.Max())
}

// ResampledSeries is a series projected onto a uniform hourly axis.
type ResampledSeries struct {
	SourceID string      `json:"sourceId"`
	Mode     Mode        `json:"mode"`
	Method   Method      `json:"method"`
	Points   []TimePoint `json:"points"`
}

// Axis returns the axis instants in order.
func (r ResampledSeries) Axis() []time.Time {
	out := make([]time.Time, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Time
	}
	return out
}
