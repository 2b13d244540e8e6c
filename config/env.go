package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv applies environment overrides with a prefix (e.g. ROUTING_).
func LoadFromEnv(prefix string, base Config) Config {
	get := func(key string) string { return os.Getenv(prefix + key) }
	duration := func(key string, target *time.Duration) {
		if value := get(key); value != "" {
			if d, err := time.ParseDuration(value); err == nil {
				*target = d
			}
		}
	}

	if value := get("ADDRESS"); value != "" {
		base.Address = value
	}
	duration("READ_TIMEOUT", &base.ReadTimeout)
	duration("WRITE_TIMEOUT", &base.WriteTimeout)
	duration("IDLE_TIMEOUT", &base.IdleTimeout)
	duration("READ_HEADER_TIMEOUT", &base.ReadHeaderTimeout)
	duration("SHUTDOWN_TIMEOUT", &base.ShutdownTimeout)
	if value := get("MAX_HEADER_BYTES"); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			base.MaxHeaderBytes = n
		}
	}
	if value := get("LOG_LEVEL"); value != "" {
		base.LogLevel = value
	}
	if value := get("LOG_FORMAT"); value != "" {
		base.LogFormat = value
	}
	if value := get("FILTERING"); value != "" {
		if enabled, err := strconv.ParseBool(value); err == nil {
			base.Filtering = enabled
		}
	}
	if value := get("TRACE_NAME"); value != "" {
		base.TraceName = value
	}
	if value := get("METRICS_NAMESPACE"); value != "" {
		base.MetricsNamespace = value
	}

	return base
}
