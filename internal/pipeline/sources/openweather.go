package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/series-resampler/internal/pipeline"
	"github.com/i474232898/series-resampler/internal/series"
)

// Forecast channels reported for every 3-hour step.
const (
	ChannelTemp    = "temp"
	ChannelTempMax = "temp_max"
	ChannelTempMin = "temp_min"
)

// ForecastLocation identifies an OpenWeatherMap location, e.g. Seattle,US.
type ForecastLocation struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Key returns the location's query form and series identifier prefix.
func (l ForecastLocation) Key() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

// OpenWeatherForecastSource fetches the 5-day / 3-hour forecast for a location.
type OpenWeatherForecastSource struct {
	name     string
	apiKey   string
	units    string
	location ForecastLocation
	baseURL  string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
	cache    ResponseCache
}

// NewOpenWeatherForecastSource creates a forecast source reporting fahrenheit.
// cache may be nil.
func NewOpenWeatherForecastSource(client *http.Client, cache ResponseCache, apiKey string, loc ForecastLocation) *OpenWeatherForecastSource {
	return &OpenWeatherForecastSource{
		name:     "openweathermap",
		apiKey:   apiKey,
		units:    "imperial",
		location: loc,
		baseURL:  "https://api.openweathermap.org/data/2.5/forecast",
		httpCfg:  defaultHTTPConfig(client),
		circuit:  newBreaker("openweather"),
		cache:    cache,
	}
}

// WithBaseURL points the source at a different endpoint.
func (p *OpenWeatherForecastSource) WithBaseURL(u string) *OpenWeatherForecastSource {
	p.baseURL = u
	return p
}

func (p *OpenWeatherForecastSource) Name() string {
	return p.name + ":" + p.location.Key()
}

func (p *OpenWeatherForecastSource) Fetch(ctx context.Context) (pipeline.Payload, error) {
	if p.apiKey == "" {
		return pipeline.Payload{}, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", p.units)
	values.Set("q", p.location.Key())
	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())

	body, err := fetchBody(ctx, p.httpCfg, p.circuit, p.cache, u, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, u, nil)
	})
	if err != nil {
		return pipeline.Payload{}, err
	}

	var payload struct {
		List []struct {
			Dt    int64  `json:"dt"`
			DtTxt string `json:"dt_txt"`
			Main  struct {
				Temp    float64 `json:"temp"`
				TempMax float64 `json:"temp_max"`
				TempMin float64 `json:"temp_min"`
			} `json:"main"`
		} `json:"list"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return pipeline.Payload{}, fmt.Errorf("decode openweather forecast: %w", err)
	}

	readings := make([]series.RawReading, 0, len(payload.List))
	for _, step := range payload.List {
		readings = append(readings, series.RawReading{
			// dt_txt is the UTC step start, "2006-01-02 15:04:05".
			Timestamp: step.DtTxt,
			Values: map[string]float64{
				ChannelTemp:    step.Main.Temp,
				ChannelTempMax: step.Main.TempMax,
				ChannelTempMin: step.Main.TempMin,
			},
		})
	}

	return pipeline.Payload{
		ID:        p.location.Key(),
		Frequency: series.Hourly,
		Readings:  readings,
	}, nil
}
