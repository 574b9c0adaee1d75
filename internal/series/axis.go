package series

import (
	"fmt"
	"time"
)

// HourlyAxis returns every instant from start stepping one hour while not past
// end, so the axis holds floor((end-start)/1h)+1 points. The axis is hourly no
// matter the native frequency of the series it is built for.
//
// The axis is anchored on start, not on the clock hour: a series whose first
// observation is at 15:53 gets instants at 15:53, 16:53 and so on.
func HourlyAxis(start, end time.Time) ([]time.Time, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: axis end %s before start %s", ErrAxisOutOfRange,
			end.Format(time.DateTime), start.Format(time.DateTime))
	}

	// time.Duration saturates past ~292 years; annual series reach further.
	n := int(elapsedSeconds(start, end)/3600) + 1
	axis := make([]time.Time, n)
	ts := start
	for i := range axis {
		axis[i] = ts
		ts = ts.Add(time.Hour)
	}
	return axis, nil
}

// elapsedSeconds is end-start in whole seconds without going through
// time.Duration.
func elapsedSeconds(start, end time.Time) int64 {
	return end.Unix() - start.Unix()
}

// elapsedHours is end-start in fractional hours without going through
// time.Duration.
func elapsedHours(start, end time.Time) float64 {
	secs := float64(elapsedSeconds(start, end))
	secs += float64(end.Nanosecond()-start.Nanosecond()) / 1e9
	return secs / 3600
}
