// internal/config/normalize.go
package config

import "strings"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// Fixed override values stay raw: they are parsed per tick.
	cfg.Sampler.Mode = strings.ToLower(strings.TrimSpace(cfg.Sampler.Mode))
	if cfg.Sampler.Mode == "" {
		cfg.Sampler.Mode = "simulate"
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	// ------------------------------------------------------------
	// MIRROR NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	if !cfg.Mirror.Enabled() {
		return
	}

	// device_name: ASCII already validated, truncate to 16 characters
	if len(cfg.Mirror.DeviceName) > 16 {
		cfg.Mirror.DeviceName = cfg.Mirror.DeviceName[:16]
	}
}
