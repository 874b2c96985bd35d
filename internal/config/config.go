package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the application.
type Config struct {
	// HTTP listen address, e.g. ":8080".
	Addr string

	// Public base URL used to build absolute links (short links, media).
	BaseURL string

	DatabasePath string
	MediaDir     string

	JWTSecret string
	TokenTTL  time.Duration
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	dbPath := os.Getenv("FOODGRAM_DB_PATH")
	if dbPath == "" {
		return nil, fmt.Errorf("FOODGRAM_DB_PATH environment variable not set")
	}

	mediaDir := os.Getenv("FOODGRAM_MEDIA_DIR")
	if mediaDir == "" {
		return nil, fmt.Errorf("FOODGRAM_MEDIA_DIR environment variable not set")
	}

	jwtSecret := os.Getenv("FOODGRAM_JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("FOODGRAM_JWT_SECRET environment variable not set")
	}

	addr := os.Getenv("FOODGRAM_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	baseURL := os.Getenv("FOODGRAM_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	tokenTTL := 7 * 24 * time.Hour
	if raw := os.Getenv("FOODGRAM_TOKEN_TTL_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("FOODGRAM_TOKEN_TTL_HOURS must be a positive integer, got %q", raw)
		}
		tokenTTL = time.Duration(hours) * time.Hour
	}

	return &Config{
		Addr:         addr,
		BaseURL:      baseURL,
		DatabasePath: dbPath,
		MediaDir:     mediaDir,
		JWTSecret:    jwtSecret,
		TokenTTL:     tokenTTL,
	}, nil
}
