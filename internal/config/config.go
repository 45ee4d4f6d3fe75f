package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string

	// HTTPTimeout bounds every outbound provider and geocoder call.
	HTTPTimeout time.Duration

	// WeatherAPIKey enables the detailed-forecast provider when set.
	WeatherAPIKey string

	// NominatimBaseURL overrides the public Nominatim endpoint (used in tests
	// and for self-hosted instances). Empty means the public default.
	NominatimBaseURL string

	// DBPath is the SQLite file for subscriptions and search history. Empty
	// selects the in-memory store.
	DBPath string

	// SweepInterval controls how often stored subscriptions are re-evaluated.
	SweepInterval time.Duration

	// Geocode cache bounds.
	GeocodeCacheTTL  time.Duration
	GeocodeCacheSize int
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:             getenvDefault("PORT", "8080"),
		WeatherAPIKey:    os.Getenv("WEATHERAPI_API_KEY"),
		NominatimBaseURL: os.Getenv("NOMINATIM_BASE_URL"),
		DBPath:           os.Getenv("DB_PATH"),
		GeocodeCacheSize: getenvInt("GEOCODE_CACHE_SIZE", 256),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getenvDuration("SWEEP_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.GeocodeCacheTTL, err = getenvDuration("GEOCODE_CACHE_TTL", "1h"); err != nil {
		return nil, err
	}

	if cfg.GeocodeCacheSize <= 0 {
		return nil, fmt.Errorf("GEOCODE_CACHE_SIZE must be positive")
	}

	return cfg, nil
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
