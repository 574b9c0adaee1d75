package series

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/interp"
)

// Mode selects how observation times map onto the interpolation abscissa.
type Mode string

const (
	// ModeIndex places the N samples at positions 1..N regardless of the time
	// between them. Correct only for gap-free fixed-frequency series.
	ModeIndex Mode = "index"
	// ModeElapsed places samples at their elapsed hours since the first sample.
	ModeElapsed Mode = "elapsed"
)

// ParseMode maps a textual mode; the empty string selects ModeIndex.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeIndex:
		return ModeIndex, nil
	case ModeElapsed:
		return ModeElapsed, nil
	default:
		return "", fmt.Errorf("unknown resample mode %q", s)
	}
}

// Method selects the cubic spline end conditions.
type Method string

const (
	MethodNotAKnot Method = "not-a-knot"
	MethodNatural  Method = "natural"
)

// ParseMethod maps a textual method; the empty string selects MethodNotAKnot.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", MethodNotAKnot:
		return MethodNotAKnot, nil
	case MethodNatural:
		return MethodNatural, nil
	default:
		return "", fmt.Errorf("unknown interpolation method %q", s)
	}
}

// DefaultMinSamples is the smallest series a not-a-knot cubic fit is attempted on.
const DefaultMinSamples = 4

// Resampler interpolates series onto hourly axes. The zero value is not usable;
// construct one with NewResampler.
type Resampler struct {
	mode       Mode
	method     Method
	minSamples int
}

// Option configures a Resampler.
type Option func(*Resampler)

// WithMode sets the abscissa mode.
func WithMode(m Mode) Option {
	return func(r *Resampler) { r.mode = m }
}

// WithMethod sets the spline end conditions.
func WithMethod(m Method) Option {
	return func(r *Resampler) { r.method = m }
}

// WithMinSamples sets the minimum series length. Values below 2 are raised to 2.
func WithMinSamples(n int) Option {
	return func(r *Resampler) { r.minSamples = n }
}

// NewResampler creates a Resampler in index mode with not-a-knot splines.
func NewResampler(opts ...Option) *Resampler {
	r := &Resampler{
		mode:       ModeIndex,
		method:     MethodNotAKnot,
		minSamples: DefaultMinSamples,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.minSamples < 2 {
		r.minSamples = 2
	}
	return r
}

// Resample projects s onto the hourly axis spanning its own first and last
// observation.
//
// In index mode the axis' M instants are evaluated at M evenly spaced positions
// across 1..N.
func (r *Resampler) Resample(s Series) (ResampledSeries, error) {
	axis, err := s.HourlyAxis()
	if err != nil {
		return ResampledSeries{}, fmt.Errorf("series %s: %w", s.ID, err)
	}
	if r.mode != ModeIndex {
		return r.ResampleOnto(s, axis)
	}

	predictor, method, err := r.fit(s)
	if err != nil {
		return ResampledSeries{}, err
	}

	n := float64(s.Len())
	m := len(axis)
	points := make([]TimePoint, m)
	for i, ts := range axis {
		pos := 1.0
		if m > 1 {
			pos = 1 + (n-1)*float64(i)/float64(m-1)
		}
		points[i] = TimePoint{Time: ts, Value: predictor.Predict(pos)}
	}
	return r.result(s, method, points), nil
}

// ResampleOnto evaluates s at each instant of an externally supplied axis. Any
// instant outside the source's [first, last] span fails the whole call with
// ErrAxisOutOfRange; values are never extrapolated.
func (r *Resampler) ResampleOnto(s Series, axis []time.Time) (ResampledSeries, error) {
	predictor, method, err := r.fit(s)
	if err != nil {
		return ResampledSeries{}, err
	}

	first, last := s.Min(), s.Max()
	span := elapsedHours(first, last)
	n := float64(s.Len())

	points := make([]TimePoint, len(axis))
	for i, ts := range axis {
		if ts.Before(first) || ts.After(last) {
			return ResampledSeries{}, fmt.Errorf("series %s: %w: %s outside [%s, %s]", s.ID, ErrAxisOutOfRange,
				ts.Format(time.DateTime), first.Format(time.DateTime), last.Format(time.DateTime))
		}

		var x float64
		switch r.mode {
		case ModeElapsed:
			x = elapsedHours(first, ts)
		default:
			x = 1 + (n-1)*elapsedHours(first, ts)/span
		}
		points[i] = TimePoint{Time: ts, Value: predictor.Predict(x)}
	}
	return r.result(s, method, points), nil
}

func (r *Resampler) fit(s Series) (interp.Predictor, Method, error) {
	if s.Len() < r.minSamples {
		return nil, "", fmt.Errorf("series %s: %w: have %d, need %d", s.ID, ErrInsufficientSamples, s.Len(), r.minSamples)
	}

	if err := checkOrder(s.Points); err != nil {
		return nil, "", fmt.Errorf("series %s: %w", s.ID, err)
	}

	xs := make([]float64, s.Len())
	first := s.Min()
	for i, p := range s.Points {
		switch r.mode {
		case ModeElapsed:
			xs[i] = elapsedHours(first, p.Time)
		default:
			xs[i] = float64(i + 1)
		}
	}

	method := r.method
	if method == MethodNotAKnot && len(xs) < 4 {
		// not-a-knot needs four knots
		method = MethodNatural
	}

	var fitter interp.FittablePredictor
	switch method {
	case MethodNatural:
		fitter = &interp.NaturalCubic{}
	default:
		fitter = &interp.NotAKnotCubic{}
	}
	if err := fitter.Fit(xs, s.Values()); err != nil {
		return nil, "", fmt.Errorf("series %s: fit: %w", s.ID, err)
	}
	return fitter, method, nil
}

func (r *Resampler) result(s Series, method Method, points []TimePoint) ResampledSeries {
	return ResampledSeries{
		SourceID: s.ID,
		Mode:     r.mode,
		Method:   method,
		Points:   points,
	}
}

// Resample projects s onto its hourly axis with the default index-mode resampler.
func Resample(s Series) (ResampledSeries, error) {
	return NewResampler().Resample(s)
}
