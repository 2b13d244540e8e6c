package config

import (
	"errors"
	"io/fs"
)

// Profile describes layered config sources, applied in field order.
type Profile struct {
	BasePath     string
	EnvPath      string
	SecretsPath  string
	EnvPrefix    string
	AllowMissing bool
}

// LoadProfile merges profile layers over the defaults and validates the result.
func LoadProfile(profile Profile) (Config, error) {
	cfg := Default()

	for _, path := range []string{profile.BasePath, profile.EnvPath, profile.SecretsPath} {
		if path == "" {
			continue
		}
		next, err := LoadFromFile(path, cfg)
		if err != nil {
			if profile.AllowMissing && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return cfg, err
		}
		cfg = next
	}
	if profile.EnvPrefix != "" {
		cfg = LoadFromEnv(profile.EnvPrefix, cfg)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
