package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Tier limits applied by DefaultEndpointConfigs.
type Tiers struct {
	DossierPerHour  int // full dossiers, each one fans out to every section
	LLMPerMinute    int // single LLM-backed sections
	SearchPerMinute int
}

// DefaultTiers returns the built-in tier limits.
func DefaultTiers() Tiers {
	return Tiers{
		DossierPerHour:  30,
		LLMPerMinute:    30,
		SearchPerMinute: 60,
	}
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	defaults := DefaultTiers()
	tiers := Tiers{
		DossierPerHour:  getEnvInt("RATE_LIMIT_DOSSIER_PER_HOUR", defaults.DossierPerHour),
		LLMPerMinute:    getEnvInt("RATE_LIMIT_LLM_PER_MINUTE", defaults.LLMPerMinute),
		SearchPerMinute: getEnvInt("RATE_LIMIT_SEARCH_PER_MINUTE", defaults.SearchPerMinute),
	}

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(getEnvString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(getEnvString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(tiers),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific configurations for the given tiers.
func DefaultEndpointConfigs(tiers Tiers) []EndpointConfig {
	dossier := func(path string) EndpointConfig {
		return EndpointConfig{Path: path, Method: "POST", Limit: tiers.DossierPerHour, Window: time.Hour, Burst: max(1, tiers.DossierPerHour/10)}
	}
	llmBacked := func(path string) EndpointConfig {
		return EndpointConfig{Path: path, Method: "POST", Limit: tiers.LLMPerMinute, Window: time.Minute, Burst: max(1, tiers.LLMPerMinute/3)}
	}
	searchBacked := func(path string) EndpointConfig {
		return EndpointConfig{Path: path, Method: "POST", Limit: tiers.SearchPerMinute, Window: time.Minute, Burst: max(1, tiers.SearchPerMinute/3)}
	}

	return []EndpointConfig{
		// Tier 1: full dossiers (strictest limits)
		dossier("/api/dossier"),
		dossier("/api/dossier/stream"),

		// Tier 2: one LLM call or research task per request
		llmBacked("/api/summary"),
		llmBacked("/api/roast"),
		llmBacked("/api/praise"),
		llmBacked("/api/career"),
		llmBacked("/api/funFacts"),

		// Tier 3: one or two search calls per request
		searchBacked("/api/fetchLinkedInResults"),
		searchBacked("/api/fetchwikipedia"),
		searchBacked("/api/profiles"),
		searchBacked("/api/exaSearch"),
		searchBacked("/api/similar"),
		searchBacked("/api/fetchcrunchbase"),
		searchBacked("/api/fetchyoutubevideos"),

		// Tier 4: local work and history reads - handled by default limit
		// Tier 5: health check (unlimited) - handled by special case in matcher
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
