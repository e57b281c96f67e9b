package config

import (
	"os"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	HTTP              time.Duration // Per-request timeout, uploads included
	IPWait            time.Duration // Default for machine ip --wait
	RetryInitialDelay time.Duration // First delay between address polls
	RetryMaxDelay     time.Duration // Cap on the delay between address polls
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - MRP_TIMEOUT_HTTP (default: 5m)
//   - MRP_TIMEOUT_IP_WAIT (default: 10m)
//   - MRP_RETRY_INITIAL_DELAY (default: 2s)
//   - MRP_RETRY_MAX_DELAY (default: 30s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		HTTP:              parseDuration("MRP_TIMEOUT_HTTP", 5*time.Minute),
		IPWait:            parseDuration("MRP_TIMEOUT_IP_WAIT", 10*time.Minute),
		RetryInitialDelay: parseDuration("MRP_RETRY_INITIAL_DELAY", 2*time.Second),
		RetryMaxDelay:     parseDuration("MRP_RETRY_MAX_DELAY", 30*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set, not a duration or not positive, the default
// value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}

	return d
}
