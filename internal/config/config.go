package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	infraconfig "goldprice/internal/infrastructure/config"
)

type Config struct {
	// Common
	LogLevel string
	// Fetcher
	Provider    string
	GoldAPIURL  string
	GoldZone    string
	HTTPTimeout time.Duration
	FetchRetry  int
	// Writer
	CSVPath       string
	TZOffsetHours int
	SchemaDrift   string
	// Lock
	LockBackend   string
	LockTTL       time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	// Postgres mirror
	PGMirror    bool
	DatabaseURL string
	// API
	Port          string
	PriceKeyField string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func boolDef(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

func msDef(s string, def time.Duration) time.Duration {
	ms, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Provider:      getEnv("PROVIDER", "pnj"),
		GoldAPIURL:    getEnv("GOLD_API_URL", infraconfig.DefaultGoldAPIURL),
		GoldZone:      getEnv("GOLD_ZONE", infraconfig.DefaultGoldZone),
		HTTPTimeout:   time.Duration(atoiDef(getEnv("HTTP_TIMEOUT_MS", "0"), 0)) * time.Millisecond,
		FetchRetry:    atoiDef(getEnv("FETCH_RETRIES", "0"), 0),
		CSVPath:       getEnv("CSV_PATH", infraconfig.DefaultCSVPath),
		TZOffsetHours: atoiDef(getEnv("TZ_OFFSET_HOURS", strconv.Itoa(infraconfig.DefaultTZOffsetHours)), infraconfig.DefaultTZOffsetHours),
		SchemaDrift:   strings.ToLower(getEnv("SCHEMA_DRIFT", "align")),
		LockBackend:   strings.ToLower(getEnv("LOCK_BACKEND", "file")),
		LockTTL:       msDef(getEnv("LOCK_TTL_MS", ""), infraconfig.DefaultLockTTL),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       atoiDef(getEnv("REDIS_DB", "0"), 0),
		PGMirror:      boolDef(getEnv("PG_MIRROR", "false"), false),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Port:          getEnv("PORT", infraconfig.DefaultHTTPPort),
		PriceKeyField: getEnv("PRICE_KEY_FIELD", infraconfig.DefaultPriceKeyField),
	}
}
