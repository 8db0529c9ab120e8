package auth

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/Sgiath/auth/pkg/jwtx"
)

// AdminSource selects where admin identity comes from. Exactly one
// source is consulted per deployment.
type AdminSource int

const (
	// AdminFromCallback asks the configured AdminLoader (the default).
	AdminFromCallback AdminSource = iota
	// AdminFromActClaim takes the token's act.sub claim as the admin
	// identity; no callback is consulted.
	AdminFromActClaim
)

type Config struct {
	ProviderURL  string // Required: identity provider base URL (also the expected token issuer)
	ClientID     string // Required: our client ID at the provider (expected token audience)
	ClientSecret string // Required: client secret for provider API calls
	CallbackURL  string // Optional: OAuth callback URL, recorded for the host's sign-in handlers

	SignInPath  string // Path users are sent to when unauthenticated (default: /sign-in)
	RefreshPath string // Endpoint performing the refresh exchange for views (default: /auth/refresh)
	HomePath    string // Default/home path (default: /)
	NoOrgPath   string // Required: where organization-less users are sent (no default)

	AutoCreateOrg bool        // Create an organization for users without one (default: off)
	AdminSource   AdminSource // Where admin identity comes from (default: callback)

	KeyRefreshInterval time.Duration // JWKS poll interval (default: 2s)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
}

// LoadConfig reads configuration from the environment.
func LoadConfig() Config {
	return Config{
		ProviderURL:        os.Getenv("AUTH_PROVIDER_URL"),
		ClientID:           os.Getenv("AUTH_CLIENT_ID"),
		ClientSecret:       os.Getenv("AUTH_CLIENT_SECRET"),
		CallbackURL:        os.Getenv("AUTH_CALLBACK_URL"),
		SignInPath:         getEnvOrDefault("AUTH_SIGN_IN_PATH", "/sign-in"),
		RefreshPath:        getEnvOrDefault("AUTH_REFRESH_PATH", "/auth/refresh"),
		HomePath:           getEnvOrDefault("AUTH_HOME_PATH", "/"),
		NoOrgPath:          os.Getenv("AUTH_NO_ORG_PATH"),
		AutoCreateOrg:      getEnvBoolOrDefault("AUTH_AUTO_CREATE_ORG", false),
		AdminSource:        parseAdminSource(os.Getenv("AUTH_ADMIN_SOURCE")),
		KeyRefreshInterval: getEnvDurationOrDefault("AUTH_KEY_REFRESH_INTERVAL", jwtx.DefaultKeyRefreshInterval),
		Env:                getEnvOrDefault("ENV", "dev"),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          getEnvOrDefault("LOG_FORMAT", "json"),
	}
}

// applyDefaults fills in defaults for programmatically built configs.
func (c *Config) applyDefaults() {
	if c.SignInPath == "" {
		c.SignInPath = "/sign-in"
	}
	if c.RefreshPath == "" {
		c.RefreshPath = "/auth/refresh"
	}
	if c.HomePath == "" {
		c.HomePath = "/"
	}
	if c.KeyRefreshInterval <= 0 {
		c.KeyRefreshInterval = jwtx.DefaultKeyRefreshInterval
	}
}

// Validate reports the first missing required option.
func (c *Config) Validate() error {
	if c.ProviderURL == "" {
		return errors.New("auth: ProviderURL is required")
	}
	if c.ClientID == "" {
		return errors.New("auth: ClientID is required")
	}
	if c.NoOrgPath == "" {
		return errors.New("auth: NoOrgPath is required and has no default")
	}
	return nil
}

func parseAdminSource(s string) AdminSource {
	if s == "act_claim" {
		return AdminFromActClaim
	}
	return AdminFromCallback
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
