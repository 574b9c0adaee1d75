package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/series-resampler/internal/api/http"
	"github.com/i474232898/series-resampler/internal/cache"
	"github.com/i474232898/series-resampler/internal/config"
	"github.com/i474232898/series-resampler/internal/pipeline"
	"github.com/i474232898/series-resampler/internal/pipeline/sources"
	"github.com/i474232898/series-resampler/internal/scheduler"
	"github.com/i474232898/series-resampler/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound source calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Response cache shared by every source.
	responses := cache.NewTTL(cfg.CacheTTL, cfg.CacheMaxEntries)

	memStore := store.NewMemoryStore(cfg.StoreMaxAge)

	var srcs []pipeline.Source
	for _, ref := range cfg.EIASeries {
		srcs = append(srcs, sources.NewEIASource(httpClient, responses, cfg.EIAAPIKey, ref.ID))
	}
	for _, loc := range cfg.ForecastLocations {
		srcs = append(srcs, sources.NewOpenWeatherForecastSource(httpClient, responses, cfg.OpenWeatherAPIKey, loc))
	}
	if h := cfg.History; h != nil {
		srcs = append(srcs, sources.NewHistorySource(httpClient, responses, h.StationID, h.URL, h.ReportTypes, h.Columns))
	}
	if len(srcs) == 0 {
		log.Printf("INFO: no sources configured; set EIA_SERIES_IDS, FORECAST_LOCATIONS or HISTORY_URL")
	}

	service := pipeline.NewService(memStore, srcs, cfg.Options()...)

	if len(srcs) > 0 {
		sched := scheduler.New(cfg.FetchInterval, service)
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "series-resampler",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "series-resampler",
			"series":  len(service.IDs()),
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
