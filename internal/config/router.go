// Package config loads and validates the routing service configuration from
// environment variables and optional YAML files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// RouterConfig holds configuration for the routing service.
type RouterConfig struct {
	// Provider names the upstream adapter: "openai", "anthropic", or "noop".
	// Default: "anthropic"
	Provider string

	// APIKey is the upstream credential. Read from the provider-specific
	// variable (ANTHROPIC_API_KEY / OPENAI_API_KEY) with ROUTER_API_KEY as
	// an override. May be empty only for the noop provider.
	APIKey string

	// ListenAddr is the daemon's HTTP listen address. Default: ":8080"
	ListenAddr string

	// MetricsAddr is the Prometheus metrics listen address. Default: ":9090"
	MetricsAddr string

	// CatalogTTL is how long a catalog snapshot is served before a refresh.
	// Default: 1h
	CatalogTTL time.Duration

	// CatalogFilterPath optionally points at a YAML file overriding the
	// built-in excluded family list. Empty means use the defaults.
	CatalogFilterPath string

	// MaxAttemptsPerBackend bounds transient retries per backend. Default: 3
	MaxAttemptsPerBackend int

	// RetryBaseDelay is the base wait between same-backend retries. Default: 1s
	RetryBaseDelay time.Duration

	// AttemptTimeout bounds one backend attempt. Default: 60s
	AttemptTimeout time.Duration

	// RequestTimeout bounds one whole routed request. Default: 5m
	RequestTimeout time.Duration

	// WarmRefreshSchedule is the cron spec for the daemon's periodic catalog
	// warm refresh. Default: "@every 30m"
	WarmRefreshSchedule string
}

// LoadRouterConfig loads configuration from environment variables.
//
// Environment variables:
//   - ROUTER_PROVIDER: upstream provider name (default: "anthropic")
//   - ROUTER_API_KEY: credential override
//   - ROUTER_LISTEN_ADDR: HTTP listen address (default: ":8080")
//   - ROUTER_METRICS_ADDR: metrics listen address (default: ":9090")
//   - ROUTER_CATALOG_TTL: catalog snapshot lifetime (default: "1h")
//   - ROUTER_CATALOG_FILTER: path to a YAML family filter file
//   - ROUTER_MAX_ATTEMPTS: transient retries per backend (default: 3)
//   - ROUTER_RETRY_BASE_DELAY: base retry wait (default: "1s")
//   - ROUTER_ATTEMPT_TIMEOUT: per-attempt timeout (default: "60s")
//   - ROUTER_REQUEST_TIMEOUT: per-request timeout (default: "5m")
//   - ROUTER_WARM_REFRESH: cron spec for warm refresh (default: "@every 30m")
func LoadRouterConfig() (*RouterConfig, error) {
	provider := getEnvOrDefault("ROUTER_PROVIDER", "anthropic")

	cfg := &RouterConfig{
		Provider:              provider,
		APIKey:                loadAPIKey(provider),
		ListenAddr:            getEnvOrDefault("ROUTER_LISTEN_ADDR", ":8080"),
		MetricsAddr:           getEnvOrDefault("ROUTER_METRICS_ADDR", ":9090"),
		CatalogTTL:            getEnvDuration("ROUTER_CATALOG_TTL", time.Hour),
		CatalogFilterPath:     os.Getenv("ROUTER_CATALOG_FILTER"),
		MaxAttemptsPerBackend: getEnvInt("ROUTER_MAX_ATTEMPTS", 3),
		RetryBaseDelay:        getEnvDuration("ROUTER_RETRY_BASE_DELAY", time.Second),
		AttemptTimeout:        getEnvDuration("ROUTER_ATTEMPT_TIMEOUT", 60*time.Second),
		RequestTimeout:        getEnvDuration("ROUTER_REQUEST_TIMEOUT", 5*time.Minute),
		WarmRefreshSchedule:   getEnvOrDefault("ROUTER_WARM_REFRESH", "@every 30m"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid router configuration: %w", err)
	}

	return cfg, nil
}

// loadAPIKey resolves the credential for the given provider. ROUTER_API_KEY
// wins over the provider-specific variable.
func loadAPIKey(provider string) string {
	if key := os.Getenv("ROUTER_API_KEY"); key != "" {
		return key
	}
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}

// Validate checks configuration correctness.
func (c *RouterConfig) Validate() error {
	switch c.Provider {
	case "openai", "anthropic", "noop":
	default:
		return fmt.Errorf("ROUTER_PROVIDER must be one of openai, anthropic, noop; got %q", c.Provider)
	}

	if c.Provider != "noop" && c.APIKey == "" {
		return fmt.Errorf("provider %q requires an API key", c.Provider)
	}

	if c.ListenAddr == "" {
		return fmt.Errorf("ROUTER_LISTEN_ADDR cannot be empty")
	}

	if c.CatalogTTL <= 0 {
		return fmt.Errorf("ROUTER_CATALOG_TTL must be positive")
	}

	if c.MaxAttemptsPerBackend <= 0 || c.MaxAttemptsPerBackend > 10 {
		return fmt.Errorf("ROUTER_MAX_ATTEMPTS must be between 1 and 10")
	}

	if c.RetryBaseDelay <= 0 {
		return fmt.Errorf("ROUTER_RETRY_BASE_DELAY must be positive")
	}

	if c.AttemptTimeout <= 0 {
		return fmt.Errorf("ROUTER_ATTEMPT_TIMEOUT must be positive")
	}

	if c.RequestTimeout < c.AttemptTimeout {
		return fmt.Errorf("ROUTER_REQUEST_TIMEOUT must be at least the attempt timeout")
	}

	if c.WarmRefreshSchedule == "" {
		return fmt.Errorf("ROUTER_WARM_REFRESH cannot be empty")
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
