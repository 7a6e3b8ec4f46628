package config

import "testing"

// helper to build a valid config with a mirror enabled
func withMirror(base, statusAddr int) *Config {
	cfg := Default()
	cfg.Mirror.Endpoint = "10.0.0.5:502"
	cfg.Mirror.BaseAddress = base
	cfg.Mirror.StatusAddress = statusAddr
	return &cfg
}

// ---- tests ----

func TestValidate_Defaults(t *testing.T) {
	cfg := Default()
	if err := Validate(&cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownModeAllowed(t *testing.T) {
	cfg := Default()
	cfg.Sampler.Mode = "max30102"
	if err := Validate(&cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Intervals(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.Sampler.IntervalMs = 0 },
		func(c *Config) { c.Sampler.PollIntervalMs = -1 },
		func(c *Config) { c.Sampler.SettleMs = -1 },
		func(c *Config) { c.Server.Listen = " " },
		func(c *Config) { c.Server.ShutdownTimeoutMs = -5 },
		func(c *Config) { c.Log.Level = "loud" },
		func(c *Config) { c.Log.Format = "xml" },
		func(c *Config) { c.Log.File = "/tmp/x.log"; c.Log.MaxSizeMB = 0 },
	}
	for i, mutate := range cases {
		cfg := Default()
		mutate(&cfg)
		if err := Validate(&cfg); err == nil {
			t.Fatalf("case %d: expected error, got nil", i)
		}
	}
}

func TestValidate_MirrorDisabledSkipsGeometry(t *testing.T) {
	cfg := Default()
	cfg.Mirror.BaseAddress = 100 // would overlap status, but mirror is off
	if err := Validate(&cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MirrorTouchingRangesAllowed(t *testing.T) {
	// readings 0–5, status 6–25
	if err := Validate(withMirror(0, 6)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MirrorOverlapDetected(t *testing.T) {
	// readings 0–5, status 5–24 → overlap
	if err := Validate(withMirror(0, 5)); err == nil {
		t.Fatalf("expected overlap error, got nil")
	}
	// status 0–19, readings 10–15 → overlap
	if err := Validate(withMirror(10, 0)); err == nil {
		t.Fatalf("expected overlap error, got nil")
	}
}

func TestValidate_MirrorOutOfRegisterSpace(t *testing.T) {
	if err := Validate(withMirror(0, 65530)); err == nil {
		t.Fatalf("expected range error, got nil")
	}
}

func TestValidate_MirrorUnitID(t *testing.T) {
	cfg := withMirror(0, 100)
	cfg.Mirror.UnitID = 300
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected unit id error, got nil")
	}
}

func TestValidate_DeviceNameASCII(t *testing.T) {
	cfg := Default()
	cfg.Mirror.DeviceName = "pulsoxímetro"
	if err := Validate(&cfg); err == nil {
		t.Fatalf("expected ASCII error, got nil")
	}
}

func TestNormalize(t *testing.T) {
	cfg := withMirror(0, 100)
	cfg.Sampler.Mode = "  Fixed "
	cfg.Log.Level = "DEBUG"
	cfg.Mirror.DeviceName = "bedside-monitor-ward-7"

	Normalize(cfg)

	if cfg.Sampler.Mode != "fixed" {
		t.Fatalf("mode=%q", cfg.Sampler.Mode)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("level=%q", cfg.Log.Level)
	}
	if cfg.Mirror.DeviceName != "bedside-monitor-" {
		t.Fatalf("device_name=%q", cfg.Mirror.DeviceName)
	}

	empty := Default()
	empty.Sampler.Mode = ""
	Normalize(&empty)
	if empty.Sampler.Mode != "simulate" {
		t.Fatalf("mode=%q", empty.Sampler.Mode)
	}
}
