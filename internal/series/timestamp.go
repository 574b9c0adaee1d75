package series

import (
	"fmt"
	"strings"
	"time"
)

// layouts lists the accepted raw timestamp layouts per frequency, tried in order.
// Weekly observations are stamped with the day that opens the week.
var layouts = map[Frequency][]string{
	Annual:  {"2006"},
	Monthly: {"200601", "2006-01"},
	Weekly:  {"20060102", "2006-01-02"},
	Daily:   {"20060102", "2006-01-02"},
	Hourly:  {"20060102 15", "2006-01-02 15", "2006-01-02 15:04", "2006-01-02 15:04:05"},
}

// ParseTimestamp converts a raw timestamp string at the given frequency into a
// UTC instant with second precision.
//
// Hourly stamps may carry an ISO-8601 style "T" separator and a trailing "Z"
// zone marker; both are dropped before parsing, so "20150913T16Z" and
// "20150913 16" name the same instant.
func ParseTimestamp(raw string, freq Frequency) (time.Time, error) {
	candidates, ok := layouts[freq]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: unknown frequency %q", ErrMalformedTimestamp, freq)
	}

	s := strings.TrimSpace(raw)
	if freq == Hourly {
		s = collapseISO(s)
	}

	for _, layout := range candidates {
		ts, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return ts.Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q does not match %s layouts", ErrMalformedTimestamp, raw, freq)
}

func collapseISO(s string) string {
	s = strings.TrimSuffix(s, "Z")
	return strings.Replace(s, "T", " ", 1)
}
