package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit applied to one route.
type EndpointConfig struct {
	Path   string        // exact path, or a prefix when it ends in "/"
	Method string        // HTTP method
	Limit  int           // requests per window; 0 means unlimited
	Window time.Duration // refill window
	Burst  int           // bucket capacity (defaults to Limit)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration // buckets unused for longer are dropped
	Allowlist       map[string]bool
	Denylist        map[string]bool
	Endpoints       []EndpointConfig
}

// LoadConfig reads the rate limit settings from RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         time.Hour,
		Allowlist:       parseIPList(os.Getenv("RATE_LIMIT_ALLOWLIST")),
		Denylist:        parseIPList(os.Getenv("RATE_LIMIT_DENYLIST")),
		Endpoints:       DefaultEndpoints(envInt("RATE_LIMIT_ANALYZE_PER_MINUTE", 30)),
	}
}

// DefaultEndpoints limits the document-processing routes. Probes and metrics are never limited.
func DefaultEndpoints(perMinute int) []EndpointConfig {
	burst := max(perMinute/6, 1)
	return []EndpointConfig{
		{Path: "/health", Method: "GET", Limit: 0},
		{Path: "/metrics", Method: "GET", Limit: 0},
		{Path: "/v1/analyze", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: burst},
		{Path: "/v1/outline", Method: "POST", Limit: perMinute * 2, Window: time.Minute, Burst: burst * 2},
	}
}

// match returns the endpoint config for a request, or nil when the default applies.
// Exact paths win over prefixes.
func match(path, method string, endpoints []EndpointConfig) *EndpointConfig {
	var prefix *EndpointConfig
	for i := range endpoints {
		ep := &endpoints[i]
		if ep.Method != method {
			continue
		}
		if ep.Path == path {
			return ep
		}
		if prefix == nil && strings.HasSuffix(ep.Path, "/") && strings.HasPrefix(path, ep.Path) {
			prefix = ep
		}
	}
	return prefix
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
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
