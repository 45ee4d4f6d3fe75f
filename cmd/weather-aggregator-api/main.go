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

	"weather-aggregator-api/internal/alerts"
	httpapi "weather-aggregator-api/internal/api/http"
	"weather-aggregator-api/internal/config"
	"weather-aggregator-api/internal/geo"
	"weather-aggregator-api/internal/geo/nominatim"
	"weather-aggregator-api/internal/prefs"
	"weather-aggregator-api/internal/scheduler"
	"weather-aggregator-api/internal/store"
	"weather-aggregator-api/internal/weather"
	"weather-aggregator-api/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound geocoder and provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Persistence: SQLite when configured, in-memory otherwise.
	var (
		subscriptions alerts.SubscriptionStore
		history       prefs.HistoryStore
	)
	if cfg.DBPath != "" {
		gormStore, err := store.OpenGorm(cfg.DBPath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		subscriptions, history = gormStore, gormStore
		log.Printf("INFO: using sqlite store at %s", cfg.DBPath)
	} else {
		memStore := store.NewMemoryStore()
		subscriptions, history = memStore, memStore
		log.Println("INFO: DB_PATH not set, using in-memory store")
	}

	// Location resolution: Nominatim behind fuzzy matching and a TTL cache.
	geocoder := nominatim.NewClient(httpClient, cfg.NominatimBaseURL)
	resolver := geo.NewCachingResolver(
		geo.NewFuzzyResolver(geocoder),
		cfg.GeocodeCacheSize,
		cfg.GeocodeCacheTTL,
	)

	// Weather providers with resilience (backoff + circuit breaker).
	openMeteo := providers.NewOpenMeteoProvider(httpClient)

	var detailed weather.DetailedProvider
	if cfg.WeatherAPIKey != "" {
		detailed = providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey)
	} else {
		log.Println("INFO: WEATHERAPI_API_KEY not set, detailed forecasts disabled")
	}

	ranker := prefs.NewRanker(history)
	weatherSvc := weather.NewService(resolver, openMeteo, detailed, ranker)
	alertSvc := alerts.NewService(subscriptions)

	// Periodic sweep re-evaluating stored subscriptions.
	sweeper := scheduler.New(subscriptions, weatherSvc, cfg.SweepInterval)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sweeper.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-aggregator-api",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
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

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, httpapi.Services{
		Weather: weatherSvc,
		Alerts:  alertSvc,
		Prefs:   ranker,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
