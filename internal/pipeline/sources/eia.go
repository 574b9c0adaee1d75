package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/series-resampler/internal/pipeline"
	"github.com/i474232898/series-resampler/internal/series"
)

// EIASource fetches one series from the EIA series API.
type EIASource struct {
	name     string
	apiKey   string
	seriesID string
	baseURL  string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
	cache    ResponseCache
}

// NewEIASource creates a source for seriesID. cache may be nil.
func NewEIASource(client *http.Client, cache ResponseCache, apiKey, seriesID string) *EIASource {
	return &EIASource{
		name:     "eia",
		apiKey:   apiKey,
		seriesID: seriesID,
		baseURL:  "https://api.eia.gov/series/",
		httpCfg:  defaultHTTPConfig(client),
		circuit:  newBreaker("eia"),
		cache:    cache,
	}
}

// WithBaseURL points the source at a different endpoint.
func (p *EIASource) WithBaseURL(u string) *EIASource {
	p.baseURL = u
	return p
}

func (p *EIASource) Name() string {
	return p.name + ":" + p.seriesID
}

type eiaResponse struct {
	Series []struct {
		SeriesID  string           `json:"series_id"`
		Name      string           `json:"name"`
		Units     string           `json:"units"`
		Frequency string           `json:"f"`
		Data      []series.RawPair `json:"data"`
	} `json:"series"`
}

func (p *EIASource) Fetch(ctx context.Context) (pipeline.Payload, error) {
	if p.apiKey == "" {
		return pipeline.Payload{}, fmt.Errorf("eia api key is not configured")
	}

	values := url.Values{}
	values.Set("api_key", p.apiKey)
	values.Set("series_id", p.seriesID)
	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())

	body, err := fetchBody(ctx, p.httpCfg, p.circuit, p.cache, u, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, u, nil)
	})
	if err != nil {
		return pipeline.Payload{}, err
	}

	// The API reports bad requests with a 200 and an "error" field nested
	// somewhere in the document.
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return pipeline.Payload{}, fmt.Errorf("decode eia response: %w", err)
	}
	if msgs := FindField(doc, "error"); len(msgs) > 0 {
		return pipeline.Payload{}, fmt.Errorf("eia series %s: %v", p.seriesID, msgs[0])
	}

	var payload eiaResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&payload); err != nil {
		return pipeline.Payload{}, fmt.Errorf("decode eia series: %w", err)
	}
	if len(payload.Series) == 0 {
		return pipeline.Payload{}, fmt.Errorf("eia series %s: %w", p.seriesID, series.ErrEmptySeries)
	}

	s := payload.Series[0]
	freq, err := series.ParseFrequency(s.Frequency)
	if err != nil {
		return pipeline.Payload{}, fmt.Errorf("eia series %s: %w", p.seriesID, err)
	}

	// Observations arrive newest first.
	pairs := make([]series.RawPair, len(s.Data))
	for i, pair := range s.Data {
		pairs[len(s.Data)-1-i] = pair
	}

	id := s.SeriesID
	if id == "" {
		id = p.seriesID
	}
	return pipeline.Payload{
		ID:        id,
		Frequency: freq,
		Pairs:     pairs,
	}, nil
}

// FindField walks a decoded JSON document and returns every value stored under
// key field, at any depth, in document order for arrays.
func FindField(doc map[string]any, field string) []any {
	var found []any
	for key, value := range doc {
		if key == field {
			found = append(found, value)
			continue
		}
		found = append(found, findIn(value, field)...)
	}
	return found
}

func findIn(value any, field string) []any {
	switch v := value.(type) {
	case map[string]any:
		return FindField(v, field)
	case []any:
		var found []any
		for _, item := range v {
			found = append(found, findIn(item, field)...)
		}
		return found
	default:
		return nil
	}
}
