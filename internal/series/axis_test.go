package series

import (
	"errors"
	"testing"
	"time"
)

func TestHourlyAxisScenario(t *testing.T) {
	first := time.Date(2015, 9, 13, 16, 0, 0, 0, time.UTC)
	last := time.Date(2015, 9, 13, 19, 0, 0, 0, time.UTC)

	axis, err := HourlyAxis(first, last)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"2015-09-13 16:00:00",
		"2015-09-13 17:00:00",
		"2015-09-13 18:00:00",
		"2015-09-13 19:00:00",
	}
	if len(axis) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(axis))
	}
	for i, ts := range axis {
		if got := ts.Format(time.DateTime); got != want[i] {
			t.Errorf("axis[%d] = %s, want %s", i, got, want[i])
		}
	}
}

func TestHourlyAxisLengthAndSpacing(t *testing.T) {
	start := time.Date(2015, 9, 13, 16, 46, 40, 0, time.UTC)
	spans := []time.Duration{
		0,
		59 * time.Minute,
		time.Hour,
		3*time.Hour + 30*time.Minute,
		7 * 24 * time.Hour,
	}

	for _, span := range spans {
		axis, err := HourlyAxis(start, start.Add(span))
		if err != nil {
			t.Fatalf("span %s: unexpected error: %v", span, err)
		}
		want := int(span/time.Hour) + 1
		if len(axis) != want {
			t.Errorf("span %s: expected %d points, got %d", span, want, len(axis))
		}
		if !axis[0].Equal(start) {
			t.Errorf("span %s: expected axis to start at %s, got %s", span, start, axis[0])
		}
		for i := 1; i < len(axis); i++ {
			if d := axis[i].Sub(axis[i-1]); d != time.Hour {
				t.Errorf("span %s: spacing at %d = %s, want 1h", span, i, d)
			}
		}
	}
}

func TestHourlyAxisCenturiesSpan(t *testing.T) {
	first := time.Date(1650, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

	axis, err := HourlyAxis(first, last)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 365 years with 88 leap days.
	want := (365*365+88)*24 + 1
	if len(axis) != want {
		t.Fatalf("expected %d points, got %d", want, len(axis))
	}
	if !axis[len(axis)-1].Equal(last) {
		t.Errorf("expected axis to end at %s, got %s", last, axis[len(axis)-1])
	}
}

func TestHourlyAxisInverted(t *testing.T) {
	first := time.Date(2015, 9, 13, 19, 0, 0, 0, time.UTC)
	_, err := HourlyAxis(first, first.Add(-time.Hour))
	if !errors.Is(err, ErrAxisOutOfRange) {
		t.Fatalf("expected ErrAxisOutOfRange, got %v", err)
	}
}

func TestHourlyAxisIdempotentOnHourlySeries(t *testing.T) {
	s := hourlySeries(t, "h", time.Date(2015, 9, 13, 0, 0, 0, 0, time.UTC), time.Hour, 1, 4, 9, 16, 25)

	axis, err := s.HourlyAxis()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(axis) != s.Len() {
		t.Fatalf("expected axis length %d, got %d", s.Len(), len(axis))
	}
	for i, ts := range axis {
		if !ts.Equal(s.Points[i].Time) {
			t.Errorf("axis[%d] = %s, want %s", i, ts, s.Points[i].Time)
		}
	}
}

// hourlySeries builds a Series with one point every step starting at start.
func hourlySeries(t *testing.T, id string, start time.Time, step time.Duration, values ...float64) Series {
	t.Helper()
	points := make([]TimePoint, len(values))
	for i, v := range values {
		points[i] = TimePoint{Time: start.Add(time.Duration(i) * step), Value: v}
	}
	return Series{ID: id, Frequency: Hourly, Points: points}
}
