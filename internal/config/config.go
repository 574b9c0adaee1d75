package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/series-resampler/internal/pipeline/sources"
	"github.com/i474232898/series-resampler/internal/series"
)

// SeriesRef names an EIA series to track.
type SeriesRef struct {
	ID string
}

// HistoryConfig describes a station weather-history CSV feed.
type HistoryConfig struct {
	StationID   string
	URL         string
	ReportTypes []string
	Columns     []string
}

type AppConfig struct {
	EIAAPIKey         string
	OpenWeatherAPIKey string

	// Sources to track.
	EIASeries         []SeriesRef
	ForecastLocations []sources.ForecastLocation
	History           *HistoryConfig

	// FetchInterval controls how often every source is refreshed.
	FetchInterval time.Duration
	HTTPTimeout   time.Duration

	// Response cache and series store retention.
	CacheTTL        time.Duration
	CacheMaxEntries int
	StoreMaxAge     time.Duration // 0 = unlimited

	ResampleMode   series.Mode
	ResampleMethod series.Method
	MinSamples     int

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.EIAAPIKey = os.Getenv("EIA_API_KEY")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")

	var err error
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", "10m"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}
	cfg.CacheMaxEntries = getenvInt("CACHE_MAX_ENTRIES", 256)
	cfg.MinSamples = getenvInt("RESAMPLE_MIN_SAMPLES", series.DefaultMinSamples)

	if cfg.ResampleMode, err = series.ParseMode(os.Getenv("RESAMPLE_MODE")); err != nil {
		return nil, fmt.Errorf("invalid RESAMPLE_MODE: %w", err)
	}
	if cfg.ResampleMethod, err = series.ParseMethod(os.Getenv("RESAMPLE_METHOD")); err != nil {
		return nil, fmt.Errorf("invalid RESAMPLE_METHOD: %w", err)
	}

	cfg.EIASeries = parseSeriesRefs(os.Getenv("EIA_SERIES_IDS"))

	locs, err := parseLocations(os.Getenv("FORECAST_LOCATIONS"))
	if err != nil {
		return nil, err
	}
	cfg.ForecastLocations = locs

	if u := os.Getenv("HISTORY_URL"); u != "" {
		cfg.History = &HistoryConfig{
			StationID:   getenvDefault("HISTORY_STATION_ID", "station"),
			URL:         u,
			ReportTypes: splitList(getenvDefault("HISTORY_REPORT_TYPES", "FM-15"), ","),
			Columns:     splitList(getenvDefault("HISTORY_COLUMNS", "HourlyDryBulbTemperature"), ","),
		}
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// Options returns the resampler options the config selects.
func (c *AppConfig) Options() []series.Option {
	return []series.Option{
		series.WithMode(c.ResampleMode),
		series.WithMethod(c.ResampleMethod),
		series.WithMinSamples(c.MinSamples),
	}
}

func parseSeriesRefs(v string) []SeriesRef {
	var refs []SeriesRef
	for _, id := range splitList(v, ",") {
		refs = append(refs, SeriesRef{ID: id})
	}
	return refs
}

// parseLocations reads "City,CC;City,CC".
func parseLocations(v string) ([]sources.ForecastLocation, error) {
	var locs []sources.ForecastLocation
	for _, item := range splitList(v, ";") {
		parts := strings.Split(item, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid FORECAST_LOCATIONS entry %q: want City,Country", item)
		}
		locs = append(locs, sources.ForecastLocation{
			City:    strings.TrimSpace(parts[0]),
			Country: strings.TrimSpace(parts[1]),
		})
	}
	return locs, nil
}

func splitList(v, sep string) []string {
	var out []string
	for _, item := range strings.Split(v, sep) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
