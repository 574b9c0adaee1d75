package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/i474232898/series-resampler/internal/series"
	"github.com/i474232898/series-resampler/internal/store"
)

type fakeSource struct {
	name    string
	payload Payload
	err     error
}

func (f fakeSource) Name() string { return f.name }

func (f fakeSource) Fetch(ctx context.Context) (Payload, error) {
	return f.payload, f.err
}

func forecastPayload() Payload {
	return Payload{
		ID:        "Seattle,US",
		Frequency: series.Hourly,
		Readings: []series.RawReading{
			{Timestamp: "2015-09-13 18:00:00", Values: map[string]float64{"temp": 60, "temp_max": 62, "temp_min": 58}},
			{Timestamp: "2015-09-13 21:00:00", Values: map[string]float64{"temp": 63, "temp_max": 65, "temp_min": 61}},
			{Timestamp: "2015-09-14 00:00:00", Values: map[string]float64{"temp": 66, "temp_max": 68, "temp_min": 64}},
			{Timestamp: "2015-09-14 03:00:00", Values: map[string]float64{"temp": 69, "temp_max": 71, "temp_min": 67}},
		},
	}
}

func energyPayload() Payload {
	return Payload{
		ID:        "ELEC.GEN.ALL-US-99.A",
		Frequency: series.Annual,
		Pairs: []series.RawPair{
			{Timestamp: "2014", Value: 100.0},
			{Timestamp: "2015", Value: 110.0},
		},
	}
}

func TestServiceRefreshAndResample(t *testing.T) {
	memStore := store.NewMemoryStore(0)
	svc := NewService(memStore, []Source{
		fakeSource{name: "forecast", payload: forecastPayload()},
		fakeSource{name: "energy", payload: energyPayload()},
		fakeSource{name: "broken", err: errors.New("boom")},
	})

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids := svc.IDs()
	if len(ids) != 4 {
		t.Fatalf("expected 4 stored series, got %v", ids)
	}

	out, err := svc.Resampled("Seattle,US:temp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Points) != 10 {
		t.Fatalf("expected 10 hourly points, got %d", len(out.Points))
	}
	for i, p := range out.Points {
		if want := 60 + float64(i); math.Abs(p.Value-want) > 1e-9 {
			t.Errorf("point %d value = %f, want %f", i, p.Value, want)
		}
	}

	if _, err := svc.Resampled("ELEC.GEN.ALL-US-99.A"); !errors.Is(err, series.ErrInsufficientSamples) {
		t.Fatalf("expected ErrInsufficientSamples, got %v", err)
	}
	if _, err := svc.Resampled("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceResampledOptions(t *testing.T) {
	memStore := store.NewMemoryStore(0)
	svc := NewService(memStore, []Source{fakeSource{name: "forecast", payload: forecastPayload()}},
		series.WithMode(series.ModeElapsed))

	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := svc.Resampled("Seattle,US:temp_min")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Mode != series.ModeElapsed {
		t.Errorf("expected default mode elapsed, got %s", out.Mode)
	}

	out, err = svc.Resampled("Seattle,US:temp_min", series.WithMode(series.ModeIndex), series.WithMethod(series.MethodNatural))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Mode != series.ModeIndex || out.Method != series.MethodNatural {
		t.Errorf("expected per-request options to win, got %s/%s", out.Mode, out.Method)
	}
}

func TestServiceRefreshAllFailing(t *testing.T) {
	svc := NewService(store.NewMemoryStore(0), []Source{
		fakeSource{name: "a", err: errors.New("down")},
		fakeSource{name: "b", payload: Payload{ID: "empty", Frequency: series.Daily}},
	})

	err := svc.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected error when every source fails")
	}
	if !errors.Is(err, series.ErrEmptySeries) {
		t.Fatalf("expected joined error to carry ErrEmptySeries, got %v", err)
	}
	if len(svc.IDs()) != 0 {
		t.Fatalf("expected nothing stored, got %v", svc.IDs())
	}
}

func TestServiceRefreshNoSources(t *testing.T) {
	svc := NewService(store.NewMemoryStore(0), nil)
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected error with no sources")
	}
}
