// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
)

// Sizes of the mirror blocks, in registers.
// Kept here so validation does not depend on the mirror package.
const (
	mirrorReadingsSlots = 6
	mirrorStatusSlots   = 20
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	// ------------------------------------------------------------
	// SERVER
	// ------------------------------------------------------------

	if strings.TrimSpace(cfg.Server.Listen) == "" {
		return fmt.Errorf("server.listen is required")
	}
	if cfg.Server.ReadHeaderTimeoutMs < 0 {
		return fmt.Errorf("server.read_header_timeout_ms must be >= 0, got %d", cfg.Server.ReadHeaderTimeoutMs)
	}
	if cfg.Server.ShutdownTimeoutMs < 0 {
		return fmt.Errorf("server.shutdown_timeout_ms must be >= 0, got %d", cfg.Server.ShutdownTimeoutMs)
	}

	// ------------------------------------------------------------
	// SAMPLER
	// ------------------------------------------------------------

	// Unknown modes are not an error: they fall back to the hardware placeholder.
	if cfg.Sampler.IntervalMs <= 0 {
		return fmt.Errorf("sampler.interval_ms must be > 0, got %d", cfg.Sampler.IntervalMs)
	}
	if cfg.Sampler.PollIntervalMs <= 0 {
		return fmt.Errorf("sampler.poll_interval_ms must be > 0, got %d", cfg.Sampler.PollIntervalMs)
	}
	if cfg.Sampler.SettleMs < 0 {
		return fmt.Errorf("sampler.settle_ms must be >= 0, got %d", cfg.Sampler.SettleMs)
	}

	// ------------------------------------------------------------
	// MIRROR (OPT-IN)
	// ------------------------------------------------------------

	if err := validateMirror(cfg.Mirror); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	switch strings.ToLower(strings.TrimSpace(cfg.Log.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug|info|warn|error", cfg.Log.Level)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Log.Format)) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q is not one of text|json", cfg.Log.Format)
	}
	if cfg.Log.File != "" && cfg.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("log.max_size_mb must be > 0 when log.file is set")
	}

	return nil
}

func validateMirror(m MirrorConfig) error {
	// device_name sanity (ASCII only), checked even when disabled
	for i := 0; i < len(m.DeviceName); i++ {
		if m.DeviceName[i] > 0x7F {
			return fmt.Errorf("mirror.device_name must contain ASCII characters only")
		}
	}

	if !m.Enabled() {
		return nil
	}

	if m.UnitID < 0 || m.UnitID > 255 {
		return fmt.Errorf("mirror.unit_id %d out of range 0..255", m.UnitID)
	}
	if m.TimeoutMs < 0 {
		return fmt.Errorf("mirror.timeout_ms must be >= 0, got %d", m.TimeoutMs)
	}

	type span struct {
		name       string
		start, end int
	}
	spans := []span{
		{"base_address", m.BaseAddress, m.BaseAddress + mirrorReadingsSlots - 1},
		{"status_address", m.StatusAddress, m.StatusAddress + mirrorStatusSlots - 1},
	}
	for _, s := range spans {
		if s.start < 0 || s.end > 0xFFFF {
			return fmt.Errorf("mirror.%s block %d-%d outside register space", s.name, s.start, s.end)
		}
	}

	// overlap check (inclusive)
	a, b := spans[0], spans[1]
	if !(a.end < b.start || a.start > b.end) {
		return fmt.Errorf(
			"mirror overlap: readings range=%d-%d overlaps status range=%d-%d",
			a.start, a.end, b.start, b.end,
		)
	}

	return nil
}
