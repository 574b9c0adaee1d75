package config

import (
	"testing"
	"time"

	"github.com/i474232898/series-resampler/internal/series"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EIA_SERIES_IDS", "")
	t.Setenv("FORECAST_LOCATIONS", "")
	t.Setenv("HISTORY_URL", "")
	t.Setenv("FETCH_INTERVAL", "")
	t.Setenv("RESAMPLE_MODE", "")
	t.Setenv("RESAMPLE_METHOD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.FetchInterval != 15*time.Minute {
		t.Errorf("expected 15m interval, got %s", cfg.FetchInterval)
	}
	if cfg.ResampleMode != series.ModeIndex {
		t.Errorf("expected index mode, got %s", cfg.ResampleMode)
	}
	if cfg.ResampleMethod != series.MethodNotAKnot {
		t.Errorf("expected not-a-knot, got %s", cfg.ResampleMethod)
	}
	if cfg.History != nil {
		t.Errorf("expected no history feed, got %+v", cfg.History)
	}
}

func TestLoadSources(t *testing.T) {
	t.Setenv("EIA_SERIES_IDS", "EBA.SCL-ALL.D.H, ELEC.GEN.ALL-US-99.A")
	t.Setenv("FORECAST_LOCATIONS", "Seattle,US; Portland,US")
	t.Setenv("HISTORY_URL", "https://example.com/lcd.csv")
	t.Setenv("HISTORY_REPORT_TYPES", "FM-15,FM-16")
	t.Setenv("RESAMPLE_MODE", "elapsed")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.EIASeries) != 2 || cfg.EIASeries[1].ID != "ELEC.GEN.ALL-US-99.A" {
		t.Errorf("unexpected series: %+v", cfg.EIASeries)
	}
	if len(cfg.ForecastLocations) != 2 || cfg.ForecastLocations[1].Key() != "Portland,US" {
		t.Errorf("unexpected locations: %+v", cfg.ForecastLocations)
	}
	if cfg.History == nil || len(cfg.History.ReportTypes) != 2 {
		t.Errorf("unexpected history config: %+v", cfg.History)
	}
	if cfg.ResampleMode != series.ModeElapsed {
		t.Errorf("expected elapsed mode, got %s", cfg.ResampleMode)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("FORECAST_LOCATIONS", "Seattle")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed location")
	}

	t.Setenv("FORECAST_LOCATIONS", "")
	t.Setenv("FETCH_INTERVAL", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed interval")
	}
}
