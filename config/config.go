package config

import "time"

// Config holds router and server configuration.
type Config struct {
	Address           string        `json:"address" yaml:"address" toml:"address"`
	ReadTimeout       time.Duration `json:"read_timeout" yaml:"read_timeout" toml:"read_timeout"`
	WriteTimeout      time.Duration `json:"write_timeout" yaml:"write_timeout" toml:"write_timeout"`
	IdleTimeout       time.Duration `json:"idle_timeout" yaml:"idle_timeout" toml:"idle_timeout"`
	ReadHeaderTimeout time.Duration `json:"read_header_timeout" yaml:"read_header_timeout" toml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	MaxHeaderBytes    int           `json:"max_header_bytes" yaml:"max_header_bytes" toml:"max_header_bytes"`

	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`

	// Filtering toggles every before/after filter at dispatch time.
	Filtering        bool   `json:"filtering" yaml:"filtering" toml:"filtering"`
	TraceName        string `json:"trace_name" yaml:"trace_name" toml:"trace_name"`
	MetricsNamespace string `json:"metrics_namespace" yaml:"metrics_namespace" toml:"metrics_namespace"`
}

// Default returns safe defaults.
func Default() Config {
	return Config{
		Address:           ":8080",
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		LogLevel:          "info",
		LogFormat:         "text",
		Filtering:         true,
		TraceName:         "github.com/lopn/routing",
		MetricsNamespace:  "routing",
	}
}
