package config

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"slices"
	"strings"
	"time"
)

var (
	metricsNamespace = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	logLevels        = []string{"debug", "info", "warn", "error"}
	logFormats       = []string{"text", "json"}
)

// Validate reports every invalid setting in cfg, joined into one error.
func Validate(cfg Config) error {
	var issues []string
	add := func(format string, args ...any) {
		issues = append(issues, fmt.Sprintf(format, args...))
	}

	if cfg.Address != "" {
		if _, _, err := net.SplitHostPort(cfg.Address); err != nil {
			add("address %q must be host:port", cfg.Address)
		}
	}

	durations := []struct {
		key   string
		value time.Duration
	}{
		{"read_timeout", cfg.ReadTimeout},
		{"write_timeout", cfg.WriteTimeout},
		{"idle_timeout", cfg.IdleTimeout},
		{"read_header_timeout", cfg.ReadHeaderTimeout},
		{"shutdown_timeout", cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if d.value < 0 {
			add("%s must be >= 0", d.key)
		}
	}
	if cfg.MaxHeaderBytes < 0 {
		add("max_header_bytes must be >= 0")
	}

	if cfg.LogLevel != "" && !slices.Contains(logLevels, strings.ToLower(cfg.LogLevel)) {
		add("log_level must be one of %s", strings.Join(logLevels, "|"))
	}
	if cfg.LogFormat != "" && !slices.Contains(logFormats, strings.ToLower(cfg.LogFormat)) {
		add("log_format must be one of %s", strings.Join(logFormats, "|"))
	}

	if strings.TrimSpace(cfg.TraceName) == "" {
		add("trace_name is required")
	}
	if cfg.MetricsNamespace != "" && !metricsNamespace.MatchString(cfg.MetricsNamespace) {
		add("metrics_namespace %q is not a valid prometheus name", cfg.MetricsNamespace)
	}

	if len(issues) > 0 {
		return errors.New(strings.Join(issues, "; "))
	}
	return nil
}
