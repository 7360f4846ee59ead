package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Storefront StorefrontConfig
	Cart       CartConfig
	Catalog    CatalogConfig
	Session    SessionConfig
	Redis      RedisConfig
	CORS       CORSConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type StorefrontConfig struct {
	// Endpoint is the commerce backend's storefront query endpoint.
	Endpoint string
	// AccessToken authenticates storefront queries.
	AccessToken string
	// Timeout bounds a single query round trip.
	Timeout time.Duration
	// CatalogPageSize is the number of products fetched for the grid.
	CatalogPageSize int
}

type CartConfig struct {
	// Backend selects cart snapshot storage: "file" or "redis".
	Backend string
	// StorageDir holds per-session cart snapshot files (file backend).
	StorageDir string
}

type CatalogConfig struct {
	// WarmSchedule is a cron expression for catalog snapshot refresh.
	WarmSchedule string
	// CacheTTL is how long a warmed catalog snapshot stays fresh.
	CacheTTL time.Duration
}

type SessionConfig struct {
	// IdleTTL is how long untouched per-session state is kept in
	// memory before being evicted (carts rehydrate from storage).
	IdleTTL time.Duration
	// SweepSchedule is a cron expression for the eviction sweep.
	SweepSchedule string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Storefront: StorefrontConfig{
			Endpoint:        getEnv("STOREFRONT_ENDPOINT", "http://localhost:9090/api/2024-01/graphql.json"),
			AccessToken:     getEnv("STOREFRONT_ACCESS_TOKEN", ""),
			Timeout:         parseDuration(getEnv("STOREFRONT_TIMEOUT", "10s"), 10*time.Second),
			CatalogPageSize: parseInt(getEnv("STOREFRONT_CATALOG_PAGE_SIZE", "12"), 12),
		},
		Cart: CartConfig{
			Backend:    getEnv("CART_BACKEND", "file"),
			StorageDir: getEnv("CART_STORAGE_DIR", "./data/carts"),
		},
		Catalog: CatalogConfig{
			WarmSchedule: getEnv("CATALOG_WARM_SCHEDULE", "@every 10m"),
			CacheTTL:     parseDuration(getEnv("CATALOG_CACHE_TTL", "10m"), 10*time.Minute),
		},
		Session: SessionConfig{
			IdleTTL:       parseDuration(getEnv("SESSION_IDLE_TTL", "2h"), 2*time.Hour),
			SweepSchedule: getEnv("SESSION_SWEEP_SCHEDULE", "@every 30m"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for i := 0; i < len(s); {
		end := i
		for end < len(s) && s[end] != ',' {
			end++
		}
		result = append(result, s[i:end])
		i = end + 1
	}
	return result
}
