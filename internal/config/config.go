// Package config holds the settings shared by the CLI commands.
package config

import (
	"os"
	"strconv"
	"time"
)

const (
	DefaultBaseURL = "https://api.onegov.nsw.gov.au/FuelCheckApp/v1/fuel"
	DefaultAuthURL = "https://api.onegov.nsw.gov.au/oauth/client_credential/accesstoken?grant_type=client_credentials"
)

type Config struct {
	// FuelCheck API endpoint, without a trailing slash
	BaseURL string
	// OAuth client credentials token endpoint
	AuthURL string
	// Sent as the apikey header when set
	APIKey string
	// OAuth client credentials, both required to request a bearer token
	ClientID     string
	ClientSecret string
	// Per request timeout
	Timeout time.Duration
	// sqlite archive location
	DBPath string
	// HTTP API server port
	Port int
	// Log level (debug, info, warn, error)
	LogLevel string
	// Log format (json, console)
	LogFormat string
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		AuthURL:   DefaultAuthURL,
		Timeout:   10 * time.Second,
		DBPath:    "data/fuel_prices.db",
		Port:      8080,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// LoadFromEnv overrides defaults with any environment variables that are set.
// Values that fail to parse are ignored.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("FUELCHECK_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("FUELCHECK_AUTH_URL"); v != "" {
		c.AuthURL = v
	}
	if v := os.Getenv("FUELCHECK_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("CLIENT_ID"); v != "" {
		c.ClientID = v
	}
	if v := os.Getenv("CLIENT_SECRET"); v != "" {
		c.ClientSecret = v
	}
	if v := os.Getenv("FUELCHECK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Timeout = d
		}
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 && i <= 65535 {
			c.Port = i
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
}

// UseOAuth reports whether bearer tokens should be requested.
func (c *Config) UseOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
