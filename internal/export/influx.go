package export

import (
	"fmt"
	"time"

	influx "github.com/influxdata/influxdb/client/v2"

	"github.com/i474232898/series-resampler/internal/series"
)

// InfluxConfig holds the connection settings for an InfluxDB upload.
type InfluxConfig struct {
	Addr     string
	Username string
	Password string
}

// Batch converts resampled series into a point batch for one measurement. Each
// point is tagged with its source series and resample mode.
func Batch(database, measurement string, tags map[string]string, resampled ...series.ResampledSeries) (influx.BatchPoints, error) {
	bp, err := influx.NewBatchPoints(influx.BatchPointsConfig{
		Database:  database,
		Precision: "s",
	})
	if err != nil {
		return nil, err
	}

	for _, r := range resampled {
		pointTags := make(map[string]string, len(tags)+2)
		for k, v := range tags {
			pointTags[k] = v
		}
		pointTags["series"] = r.SourceID
		pointTags["mode"] = string(r.Mode)

		for _, p := range r.Points {
			pt, err := influx.NewPoint(measurement, pointTags, map[string]interface{}{
				"value": p.Value,
			}, p.Time)
			if err != nil {
				return nil, fmt.Errorf("point %s at %s: %w", r.SourceID, p.Time.Format(time.DateTime), err)
			}
			bp.AddPoint(pt)
		}
	}
	return bp, nil
}

// Upload writes the batch to InfluxDB after checking the server is reachable.
func Upload(cfg InfluxConfig, bp influx.BatchPoints) error {
	c, err := influx.NewHTTPClient(influx.HTTPConfig{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	if _, _, err := c.Ping(1 * time.Second); err != nil {
		return fmt.Errorf("ping influxdb: %w", err)
	}
	return c.Write(bp)
}

// LineProtocol renders the batch in line protocol, one point per line.
func LineProtocol(bp influx.BatchPoints) []string {
	var lines []string
	for _, p := range bp.Points() {
		if p == nil {
			continue
		}
		lines = append(lines, p.PrecisionString("s"))
	}
	return lines
}
