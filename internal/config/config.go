// Package config provides application configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all client configuration.
type Config struct {
	ServerURL       string // base HTTP(S) URL of the commerce backend
	WSPath          string // websocket endpoint path on the backend
	CredentialsPath string
	HistoryDBPath   string
	LookupTimeout   time.Duration
	StackSize       int // size of the recent-product stack view
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	stackSize := getEnvInt("CONCIERGE_STACK_SIZE", 5)
	if stackSize <= 0 {
		stackSize = 5
	}

	cfg := &Config{
		ServerURL:       getEnv("CONCIERGE_SERVER_URL", "http://localhost:8080"),
		WSPath:          getEnv("CONCIERGE_WS_PATH", "/ws"),
		CredentialsPath: getEnv("CONCIERGE_CREDENTIALS", defaultCredentialsPath()),
		HistoryDBPath:   getEnv("CONCIERGE_HISTORY_DB", "./data/concierge.db"),
		LookupTimeout:   getEnvDuration("CONCIERGE_LOOKUP_TIMEOUT", 10*time.Second),
		StackSize:       stackSize,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("CONCIERGE_SERVER_URL cannot be empty")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("CONCIERGE_SERVER_URL must be an http(s) URL")
	}
	if !strings.HasPrefix(c.WSPath, "/") {
		return fmt.Errorf("CONCIERGE_WS_PATH must start with /")
	}
	if c.CredentialsPath == "" {
		return fmt.Errorf("CONCIERGE_CREDENTIALS cannot be empty")
	}
	if c.HistoryDBPath == "" {
		return fmt.Errorf("CONCIERGE_HISTORY_DB cannot be empty")
	}
	if c.LookupTimeout <= 0 {
		return fmt.Errorf("CONCIERGE_LOOKUP_TIMEOUT must be > 0")
	}
	return nil
}

// WebSocketURL returns the ws(s) URL derived from ServerURL and WSPath.
func (c *Config) WebSocketURL() string {
	wsURL := c.ServerURL + c.WSPath
	if strings.HasPrefix(wsURL, "https://") {
		return "wss://" + strings.TrimPrefix(wsURL, "https://")
	}
	return "ws://" + strings.TrimPrefix(wsURL, "http://")
}

// IsDevelopment returns true if pointed at a local backend.
func (c *Config) IsDevelopment() bool {
	return strings.Contains(c.ServerURL, "localhost") ||
		strings.Contains(c.ServerURL, "127.0.0.1")
}

func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./credentials.json"
	}
	return home + "/.concierge/credentials.json"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
