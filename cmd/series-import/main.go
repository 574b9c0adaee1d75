package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"sort"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/i474232898/series-resampler/internal/export"
	"github.com/i474232898/series-resampler/internal/pipeline"
	"github.com/i474232898/series-resampler/internal/pipeline/sources"
	"github.com/i474232898/series-resampler/internal/series"
)

func main() {
	var upload = flag.Bool("upload", false, "pass to upload data to InfluxDB, otherwise the data will be output")
	var influxAddr = flag.String("influx-addr", "http://localhost:8086", "InfluxDB HTTP address")
	var influxUser = flag.String("influx-user", "", "InfluxDB username")
	var influxPass = flag.String("influx-password", "", "InfluxDB password")
	var influxDB = flag.String("influx-db", "series", "InfluxDB database")
	var measurementName = flag.String("measurement-name", "resampled", "measurement name")
	var eiaKey = flag.String("eia-key", os.Getenv("EIA_API_KEY"), "EIA API key")
	var owmKey = flag.String("owm-key", os.Getenv("OPENWEATHER_API_KEY"), "OpenWeatherMap API key")
	var seriesID = flag.StringP("series-id", "s", "", "EIA series ID, e.g. EBA.SCL-ALL.D.H")
	var city = flag.StringP("city", "c", "", "forecast city, e.g. Seattle")
	var country = flag.String("country", "US", "forecast country code")
	var modeFlag = flag.StringP("mode", "m", "index", "resample mode: index or elapsed")
	var methodFlag = flag.String("method", "not-a-knot", "spline end conditions: not-a-knot or natural")
	var timeout = flag.Duration("timeout", 30*time.Second, "overall fetch timeout")

	flag.Parse()

	mode, err := series.ParseMode(*modeFlag)
	if err != nil {
		log.Fatal(err)
	}
	method, err := series.ParseMethod(*methodFlag)
	if err != nil {
		log.Fatal(err)
	}

	httpC := &http.Client{Timeout: 10 * time.Second}

	var src pipeline.Source
	switch {
	case *seriesID != "":
		src = sources.NewEIASource(httpC, nil, *eiaKey, *seriesID)
	case *city != "":
		src = sources.NewOpenWeatherForecastSource(httpC, nil, *owmKey, sources.ForecastLocation{City: *city, Country: *country})
	default:
		flag.Usage()
		log.Fatal("please specify a series ID or a forecast city")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	payload, err := src.Fetch(ctx)
	if err != nil {
		log.Fatalf("failed to fetch %s: %v", src.Name(), err)
	}

	normalized, err := pipeline.Normalize(payload)
	if err != nil {
		log.Fatalf("failed to normalize %s: %v", src.Name(), err)
	}

	ids := make([]string, 0, len(normalized))
	for id := range normalized {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	resampler := series.NewResampler(series.WithMode(mode), series.WithMethod(method))
	var resampled []series.ResampledSeries
	for _, id := range ids {
		r, err := resampler.Resample(normalized[id])
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to resample %s: %v\n", id, err)
			continue
		}
		resampled = append(resampled, r)
	}
	if len(resampled) == 0 {
		log.Fatal("nothing to output")
	}

	bp, err := export.Batch(*influxDB, *measurementName, map[string]string{"source": src.Name()}, resampled...)
	if err != nil {
		log.Fatal(err)
	}

	if *upload {
		if err := export.Upload(export.InfluxConfig{
			Addr:     *influxAddr,
			Username: *influxUser,
			Password: *influxPass,
		}, bp); err != nil {
			log.Fatal(err)
		}
		return
	}

	for _, line := range export.LineProtocol(bp) {
		fmt.Println(line)
	}
}
