// internal/config/config.go
package config

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Sampler SamplerConfig `yaml:"sampler"`
	Mirror  MirrorConfig  `yaml:"mirror"`
	Log     LogConfig     `yaml:"log"`
}

// ---- SERVER ----

type ServerConfig struct {
	Listen              string `yaml:"listen"`
	CORSOrigin          string `yaml:"cors_origin"`
	ReadHeaderTimeoutMs int    `yaml:"read_header_timeout_ms"`
	ShutdownTimeoutMs   int    `yaml:"shutdown_timeout_ms"`
}

// ---- SAMPLER ----

type SamplerConfig struct {
	Mode           string      `yaml:"mode"` // simulate|fixed|hardware
	IntervalMs     int         `yaml:"interval_ms"`
	PollIntervalMs int         `yaml:"poll_interval_ms"`
	SettleMs       int         `yaml:"settle_ms"` // /api/max/once settle delay
	Fixed          FixedConfig `yaml:"fixed"`
}

// FixedConfig keeps raw strings; they are parsed on every tick.
// nil => not configured (absent reading).
type FixedConfig struct {
	Temperature *string `yaml:"temperature,omitempty"`
	HeartRate   *string `yaml:"heart_rate,omitempty"`
	SpO2        *string `yaml:"spo2,omitempty"`
}

// ---- MIRROR ----

// MirrorConfig is opt-in: an empty endpoint disables the Modbus mirror.
type MirrorConfig struct {
	Endpoint      string `yaml:"endpoint"`
	UnitID        int    `yaml:"unit_id"`
	TimeoutMs     int    `yaml:"timeout_ms"`
	BaseAddress   int    `yaml:"base_address"`
	StatusAddress int    `yaml:"status_address"`
	DeviceName    string `yaml:"device_name"`
}

// Enabled reports whether the mirror is configured.
func (m MirrorConfig) Enabled() bool { return m.Endpoint != "" }

// ---- LOG ----

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // text|json
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Listen:              "0.0.0.0:7000",
			CORSOrigin:          "*",
			ReadHeaderTimeoutMs: 5000,
			ShutdownTimeoutMs:   5000,
		},
		Sampler: SamplerConfig{
			Mode:           "simulate",
			IntervalMs:     1000,
			PollIntervalMs: 200,
			SettleMs:       1000,
		},
		Mirror: MirrorConfig{
			UnitID:        1,
			TimeoutMs:     1000,
			BaseAddress:   0,
			StatusAddress: 100,
			DeviceName:    "raspi",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}
