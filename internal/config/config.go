package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port      string
	DBPath    string
	BaseURL   string
	GeoIPPath string
	APIKeys   map[string]string // API key → owner id
	CacheSize int
	LogLevel  string
	Env       string
}

func Load() (*Config, error) {
	keysRaw := os.Getenv("GETSHORT_API_KEYS")
	if keysRaw == "" {
		return nil, fmt.Errorf("GETSHORT_API_KEYS is required")
	}
	keys, err := parseAPIKeys(keysRaw)
	if err != nil {
		return nil, err
	}

	port := envOrDefault("GETSHORT_PORT", "8080")

	cfg := &Config{
		Port:      port,
		DBPath:    envOrDefault("GETSHORT_DB_PATH", "./getshort.db"),
		BaseURL:   envOrDefault("GETSHORT_BASE_URL", "http://localhost:"+port),
		GeoIPPath: os.Getenv("GETSHORT_GEOIP_PATH"),
		APIKeys:   keys,
		CacheSize: parseInt("GETSHORT_CACHE_SIZE", 10000),
		LogLevel:  envOrDefault("GETSHORT_LOG_LEVEL", "info"),
		Env:       envOrDefault("GETSHORT_ENV", "development"),
	}

	if cfg.CacheSize <= 0 {
		return nil, fmt.Errorf("GETSHORT_CACHE_SIZE must be positive")
	}

	return cfg, nil
}

// parseAPIKeys parses "key1:alice,key2:bob" into a key → owner map.
func parseAPIKeys(raw string) (map[string]string, error) {
	keys := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, owner, ok := strings.Cut(pair, ":")
		if !ok || key == "" || owner == "" {
			return nil, fmt.Errorf("GETSHORT_API_KEYS entry %q must be key:owner", pair)
		}
		keys[key] = owner
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("GETSHORT_API_KEYS has no usable entries")
	}
	return keys, nil
}

// ShortURL builds the public short URL for a code.
func (c *Config) ShortURL(code string) string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + code
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
