// internal/config/dump.go
package config

import (
	"io"

	"gopkg.in/yaml.v3"
)

// Dump writes the effective configuration as YAML.
func Dump(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
