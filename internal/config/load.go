// internal/config/load.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

var (
	ErrUnsupportedFormat = errors.New("config: unsupported format")
	ErrLoadFailed        = errors.New("config: load failed")
	ErrParseFailed       = errors.New("config: parse failed")
)

// Load reads a YAML or JSON file on top of Default().
// An empty path returns Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	if err := decode(data, filepath.Ext(path), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decode merges data (format chosen by extension) into cfg.
// Keys absent from data keep their current values.
func decode(data []byte, ext string, cfg *Config) error {
	var parser koanf.Parser
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}

	k := koanf.New(".")
	if len(data) > 0 {
		if err := k.Load(rawbytes.Provider(data), parser); err != nil {
			return fmt.Errorf("%w: %w", ErrParseFailed, err)
		}
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	return nil
}
