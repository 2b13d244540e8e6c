package routing

import "github.com/lopn/routing/config"

// Config is the router configuration.
type Config = config.Config

// ConfigProfile describes layered config sources.
type ConfigProfile = config.Profile

// DefaultConfig returns default config values.
func DefaultConfig() config.Config {
	return config.Default()
}

// LoadConfigProfile loads config from base/env/secrets profiles with validation.
func LoadConfigProfile(profile config.Profile) (config.Config, error) {
	return config.LoadProfile(profile)
}
