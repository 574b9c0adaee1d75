package series

import "errors"

var (
	// ErrMalformedTimestamp is returned when a raw timestamp does not match the
	// layouts registered for its frequency, or the frequency is unknown.
	ErrMalformedTimestamp = errors.New("malformed timestamp")

	// ErrMalformedValue is returned when an observation value cannot be read as a number.
	ErrMalformedValue = errors.New("malformed value")

	// ErrEmptySeries is returned when a series has no observations.
	ErrEmptySeries = errors.New("empty series")

	// ErrUnorderedSeries is returned when observation timestamps are not strictly increasing.
	ErrUnorderedSeries = errors.New("series timestamps not strictly increasing")

	// ErrInsufficientSamples is returned when a series has too few points for a cubic fit.
	ErrInsufficientSamples = errors.New("insufficient samples for cubic interpolation")

	// ErrAxisOutOfRange is returned when a target axis reaches outside the source span.
	ErrAxisOutOfRange = errors.New("axis out of range")
)
