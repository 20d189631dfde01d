package config

import (
	"os"
	"strconv"
	"time"
)

// Config enumerates everything the product service needs. Nothing reads the
// environment after Load returns.
type Config struct {
	Port         string
	ProductTable string

	// Read-through cache. Disabled when RedisURL is empty.
	RedisURL string
	CacheTTL time.Duration
}

func Load() Config {
	return Config{
		Port:         getEnv("PORT", "8082"),
		ProductTable: getEnv("PRODUCT_TABLE", "product"),
		RedisURL:     os.Getenv("REDIS_URL"),
		CacheTTL:     getDurationEnv("CACHE_TTL_SECONDS", 300*time.Second),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if secs, err := strconv.Atoi(val); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}
