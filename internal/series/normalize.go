package series

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// RawPair is one [timestamp, value] observation as delivered by a series API.
type RawPair struct {
	Timestamp string
	Value     any
}

// UnmarshalJSON decodes the two-element array form ["20150913T16Z", 1234.5].
// A numeric timestamp (e.g. a bare year) is kept in its textual form.
func (p *RawPair) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("observation pair must have 2 elements, got %d", len(raw))
	}

	var ts any
	dec := json.NewDecoder(bytes.NewReader(raw[0]))
	dec.UseNumber()
	if err := dec.Decode(&ts); err != nil {
		return err
	}
	switch v := ts.(type) {
	case string:
		p.Timestamp = v
	case json.Number:
		p.Timestamp = v.String()
	default:
		return fmt.Errorf("%w: timestamp %s is not a string", ErrMalformedTimestamp, raw[0])
	}

	dec = json.NewDecoder(bytes.NewReader(raw[1]))
	dec.UseNumber()
	return dec.Decode(&p.Value)
}

// RawReading is a timestamped reading carrying several named value channels,
// e.g. the temp/temp_max/temp_min fields of a forecast step.
type RawReading struct {
	Timestamp string
	Values    map[string]float64
}

// Normalize parses raw pairs into a Series. Input order is kept as-is; the pairs
// must already be in strictly increasing time order.
func Normalize(id string, freq Frequency, pairs []RawPair) (Series, error) {
	if len(pairs) == 0 {
		return Series{}, fmt.Errorf("%w: %s", ErrEmptySeries, id)
	}

	points := make([]TimePoint, 0, len(pairs))
	for i, p := range pairs {
		ts, err := ParseTimestamp(p.Timestamp, freq)
		if err != nil {
			return Series{}, fmt.Errorf("series %s point %d: %w", id, i, err)
		}
		v, err := toFloat(p.Value)
		if err != nil {
			return Series{}, fmt.Errorf("series %s point %d: %w", id, i, err)
		}
		points = append(points, TimePoint{Time: ts, Value: v})
	}

	if err := checkOrder(points); err != nil {
		return Series{}, fmt.Errorf("series %s: %w", id, err)
	}

	return Series{ID: id, Frequency: freq, Points: points}, nil
}

// NormalizeReadings splits multi-channel readings into one Series per channel,
// keyed id + ":" + channel. The channel set is taken from the first reading and
// every reading must carry all of them.
func NormalizeReadings(id string, freq Frequency, readings []RawReading) (map[string]Series, error) {
	if len(readings) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySeries, id)
	}

	channels := make([]string, 0, len(readings[0].Values))
	for ch := range readings[0].Values {
		channels = append(channels, ch)
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: %s has no value channels", ErrEmptySeries, id)
	}
	sort.Strings(channels)

	times := make([]time.Time, len(readings))
	for i, r := range readings {
		ts, err := ParseTimestamp(r.Timestamp, freq)
		if err != nil {
			return nil, fmt.Errorf("readings %s row %d: %w", id, i, err)
		}
		times[i] = ts
	}

	out := make(map[string]Series, len(channels))
	for _, ch := range channels {
		points := make([]TimePoint, len(readings))
		for i, r := range readings {
			v, ok := r.Values[ch]
			if !ok {
				return nil, fmt.Errorf("readings %s row %d: %w: missing channel %q", id, i, ErrMalformedValue, ch)
			}
			points[i] = TimePoint{Time: times[i], Value: v}
		}
		if err := checkOrder(points); err != nil {
			return nil, fmt.Errorf("readings %s: %w", id, err)
		}
		key := ChannelID(id, ch)
		out[key] = Series{ID: key, Frequency: freq, Points: points}
	}
	return out, nil
}

// ChannelID is the series identifier for one channel of a multi-channel source.
func ChannelID(id, channel string) string {
	return id + ":" + channel
}

func checkOrder(points []TimePoint) error {
	for i := 1; i < len(points); i++ {
		if !points[i].Time.After(points[i-1].Time) {
			return fmt.Errorf("%w: point %d (%s) does not follow %s", ErrUnorderedSeries, i,
				points[i].Time.Format(time.DateTime), points[i-1].Time.Format(time.DateTime))
		}
	}
	return nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedValue, n.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedValue, n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrMalformedValue, v)
	}
}
