// Package config loads the service configuration from the environment.
// All tunables (timeouts, freshness window, cost-model constants) live in an
// explicit struct so tests and callers never reach for os.Getenv themselves.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// CostModel holds the constants used by the feasibility pre-check.
// The per-kilometer rates are deliberately tunable: they are rough floor
// estimates, not a pricing contract.
type CostModel struct {
	// Express transport: faster mode, higher base fare and per-km rate.
	ExpressBase  float64
	ExpressPerKm float64
	// Budget transport: sleeper bus/train class.
	BudgetBase  float64
	BudgetPerKm float64
	// Cheapest acceptable hotel room per night. Two travelers share a room.
	NightlyRate float64
	// Food and incidentals per traveler per day.
	FoodPerDay float64
}

// DefaultCostModel returns the stock cost-model constants.
func DefaultCostModel() CostModel {
	return CostModel{
		ExpressBase:  1500,
		ExpressPerKm: 3.0,
		BudgetBase:   300,
		BudgetPerKm:  1.5,
		NightlyRate:  1500,
		FoodPerDay:   800,
	}
}

// Config is the full service configuration, assembled once at startup and
// passed down to the components that need it.
type Config struct {
	Port        string
	BearerToken string

	DatabaseURL string
	RedisURL    string

	// PlannerURL is the base URL of the itinerary generation service.
	PlannerURL string
	// PlannerTimeout bounds a single generation call. The planner is slow by
	// nature, so this is on the order of minutes.
	PlannerTimeout time.Duration

	GeocoderURL    string
	GeocoderAPIKey string

	ImageSearchURL    string
	ImageSearchAPIKey string

	// FreshnessWindow is how long a stored itinerary may be served from cache
	// before a regeneration is required.
	FreshnessWindow time.Duration

	// GeoCacheTTL is the expiry for Redis-held coordinates. Zero means keep
	// forever; city coordinates do not move.
	GeoCacheTTL time.Duration

	Costs CostModel
}

const (
	defaultPlannerTimeout  = 3 * time.Minute
	defaultFreshnessWindow = 24 * time.Hour
	defaultGeocoderURL     = "https://api.opentripmap.com/0.1/en/places/geoname"
	defaultImageSearchURL  = "https://google.serper.dev"
)

// Load reads configuration from the environment. A local .env file is loaded
// first when present (development convenience; production sets real env vars).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		BearerToken:       os.Getenv("BEARER_TOKEN"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		PlannerURL:        os.Getenv("PLANNER_URL"),
		PlannerTimeout:    getDuration("PLANNER_TIMEOUT", defaultPlannerTimeout),
		GeocoderURL:       getEnv("GEOCODER_URL", defaultGeocoderURL),
		GeocoderAPIKey:    os.Getenv("GEOCODER_API_KEY"),
		ImageSearchURL:    getEnv("IMAGE_SEARCH_URL", defaultImageSearchURL),
		ImageSearchAPIKey: os.Getenv("IMAGE_SEARCH_API_KEY"),
		FreshnessWindow:   getDuration("FRESHNESS_WINDOW", defaultFreshnessWindow),
		GeoCacheTTL:       getDuration("GEO_CACHE_TTL", 0),
		Costs:             loadCostModel(),
	}

	for _, required := range []struct{ key, val string }{
		{"DATABASE_URL", cfg.DatabaseURL},
		{"REDIS_URL", cfg.RedisURL},
		{"PLANNER_URL", cfg.PlannerURL},
		{"BEARER_TOKEN", cfg.BearerToken},
	} {
		if required.val == "" {
			return nil, fmt.Errorf("required environment variable %s not set", required.key)
		}
	}

	return cfg, nil
}

func loadCostModel() CostModel {
	m := DefaultCostModel()
	m.ExpressBase = getFloat("COST_EXPRESS_BASE", m.ExpressBase)
	m.ExpressPerKm = getFloat("COST_EXPRESS_PER_KM", m.ExpressPerKm)
	m.BudgetBase = getFloat("COST_BUDGET_BASE", m.BudgetBase)
	m.BudgetPerKm = getFloat("COST_BUDGET_PER_KM", m.BudgetPerKm)
	m.NightlyRate = getFloat("COST_NIGHTLY_RATE", m.NightlyRate)
	m.FoodPerDay = getFloat("COST_FOOD_PER_DAY", m.FoodPerDay)
	return m
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
