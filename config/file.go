package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// LoadFromFile loads configuration into the base config. The format is
// chosen by extension: .json, .yaml/.yml or .toml. Unknown keys are rejected.
func LoadFromFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	if err := decode(filepath.Ext(path), data, &base); err != nil {
		return base, fmt.Errorf("config %s: %w", path, err)
	}
	return base, nil
}

func decode(ext string, data []byte, dst *Config) error {
	switch strings.ToLower(ext) {
	case ".json", "":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		return decoder.Decode(dst)
	case ".yaml", ".yml":
		return yaml.UnmarshalWithOptions(data, dst, yaml.Strict())
	case ".toml":
		meta, err := toml.Decode(string(data), dst)
		if err != nil {
			return err
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown key %q", undecoded[0].String())
		}
		return nil
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}
