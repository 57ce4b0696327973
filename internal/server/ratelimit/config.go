package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultLimit applies to endpoints without their own configuration.
	DefaultLimit = 1000
	// AnalyzeLimit is the per-minute budget of the analysis endpoint.
	AnalyzeLimit = 60
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path      string        // Exact path, or prefix when it ends in "/"
	Method    string        // HTTP method, empty for any
	Limit     int           // Maximum requests per window
	Window    time.Duration // Time window
	Burst     int           // Burst capacity (defaults to Limit if 0)
	Unlimited bool          // Never limited (health, metrics)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	analyzeLimit := getEnvInt("RATE_LIMIT_ANALYZE_LIMIT", AnalyzeLimit)
	analyzeWindow := getEnvDuration("RATE_LIMIT_ANALYZE_WINDOW", time.Minute)

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", DefaultLimit),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(getEnvString("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(getEnvString("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: endpointConfigs(analyzeLimit, analyzeWindow),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return endpointConfigs(AnalyzeLimit, time.Minute)
}

func endpointConfigs(analyzeLimit int, analyzeWindow time.Duration) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/api/accessibility/analyze", Method: "POST", Limit: analyzeLimit, Window: analyzeWindow, Burst: analyzeLimit},
		{Path: "/up", Unlimited: true},
		{Path: "/metrics", Unlimited: true},
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

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
