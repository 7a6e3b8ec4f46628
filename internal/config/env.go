// internal/config/env.go
package config

import "os"

// Environment variables, read once at startup.
const (
	EnvMode           = "RASPI_MODE"
	EnvFixedTemp      = "RASPI_FIXED_TEMPERATURE"
	EnvFixedHeartRate = "RASPI_FIXED_HEARTRATE"
	EnvFixedSpO2      = "RASPI_FIXED_SPO2"
	EnvListen         = "RASPI_LISTEN"
	EnvLogLevel       = "RASPI_LOG_LEVEL"
	EnvMirrorEndpoint = "RASPI_MIRROR_ENDPOINT"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays environment values onto cfg.
// A variable that is not set leaves the file value untouched.
// It mutates cfg and MUST be called before Validate.
func ApplyEnv(cfg *Config, lookup LookupFunc) {
	if cfg == nil {
		return
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookup(EnvMode); ok && v != "" {
		cfg.Sampler.Mode = v
	}
	if v, ok := lookup(EnvFixedTemp); ok {
		cfg.Sampler.Fixed.Temperature = &v
	}
	if v, ok := lookup(EnvFixedHeartRate); ok {
		cfg.Sampler.Fixed.HeartRate = &v
	}
	if v, ok := lookup(EnvFixedSpO2); ok {
		cfg.Sampler.Fixed.SpO2 = &v
	}
	if v, ok := lookup(EnvListen); ok && v != "" {
		cfg.Server.Listen = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvMirrorEndpoint); ok {
		cfg.Mirror.Endpoint = v
	}
}
