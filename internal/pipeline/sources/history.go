package sources

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/series-resampler/internal/common"
	"github.com/i474232898/series-resampler/internal/pipeline"
	"github.com/i474232898/series-resampler/internal/series"
)

const (
	historyDateColumn   = "DATE"
	historyReportColumn = "REPORT_TYPE"
)

// HistorySource reads station weather history delivered as CSV with one row per
// report, keeping only rows whose REPORT_TYPE matches one of reportTypes.
type HistorySource struct {
	name        string
	stationID   string
	url         string
	reportTypes []string
	columns     []string
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
	cache       ResponseCache
}

// NewHistorySource creates a history source. columns names the numeric CSV
// columns to turn into channels, e.g. HourlyDryBulbTemperature.
func NewHistorySource(client *http.Client, cache ResponseCache, stationID, url string, reportTypes, columns []string) *HistorySource {
	return &HistorySource{
		name:        "history",
		stationID:   stationID,
		url:         url,
		reportTypes: reportTypes,
		columns:     columns,
		httpCfg:     defaultHTTPConfig(client),
		circuit:     newBreaker("history"),
		cache:       cache,
	}
}

func (p *HistorySource) Name() string {
	return p.name + ":" + p.stationID
}

func (p *HistorySource) Fetch(ctx context.Context) (pipeline.Payload, error) {
	if p.url == "" {
		return pipeline.Payload{}, fmt.Errorf("history url is not configured")
	}

	body, err := fetchBody(ctx, p.httpCfg, p.circuit, p.cache, p.url, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, p.url, nil)
	})
	if err != nil {
		return pipeline.Payload{}, err
	}

	readings, err := p.parse(bytes.NewReader(body))
	if err != nil {
		return pipeline.Payload{}, fmt.Errorf("history %s: %w", p.stationID, err)
	}

	return pipeline.Payload{
		ID:        p.stationID,
		Frequency: series.Hourly,
		Readings:  readings,
	}, nil
}

func (p *HistorySource) parse(r io.Reader) ([]series.RawReading, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	required := append([]string{historyDateColumn, historyReportColumn}, p.columns...)
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var (
		readings []series.RawReading
		skipped  int
	)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(row) < len(header) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", line, len(header), len(row))
		}

		if len(p.reportTypes) > 0 && !common.MatchesAny(row[index[historyReportColumn]], p.reportTypes...) {
			continue
		}

		values, ok := rowValues(row, index, p.columns)
		if !ok {
			skipped++
			continue
		}
		readings = append(readings, series.RawReading{
			Timestamp: row[index[historyDateColumn]],
			Values:    values,
		})
	}

	if skipped > 0 {
		log.Printf("INFO: history %s: skipped %d reports with missing or non-numeric values", p.stationID, skipped)
	}
	return readings, nil
}

// rowValues reads the numeric channel columns of a row. A trailing "s" marks a
// suspect value and is dropped; blanks and other flags reject the row.
func rowValues(row []string, index map[string]int, columns []string) (map[string]float64, bool) {
	values := make(map[string]float64, len(columns))
	for _, name := range columns {
		raw := strings.TrimSuffix(strings.TrimSpace(row[index[name]]), "s")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		values[name] = v
	}
	return values, true
}
