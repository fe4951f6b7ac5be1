package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("http addr = %q", cfg.HTTP.Addr)
	}
	if cfg.Thermal.OnC != 14.0 || cfg.Thermal.OffC != 10.0 {
		t.Errorf("thermal on/off = %v/%v", cfg.Thermal.OnC, cfg.Thermal.OffC)
	}
	if cfg.Thermal.EvapMinOnC != -7.0 || cfg.Thermal.EvapMinOffC != -2.0 {
		t.Errorf("evap floors = %v/%v", cfg.Thermal.EvapMinOnC, cfg.Thermal.EvapMinOffC)
	}
	if cfg.Decay.HighToMedSeconds != 90 || cfg.Decay.MedToLowSeconds != 180 || cfg.Decay.LowToOffSeconds != 300 {
		t.Errorf("decay = %+v", cfg.Decay)
	}
	if cfg.Actuation.SettleMs != 5000 || cfg.Actuation.WindingGapMs != 250 {
		t.Errorf("actuation = %+v", cfg.Actuation)
	}
	if cfg.Sensors.JumpC != 5.0 || cfg.Sensors.JumpRetries != 5 {
		t.Errorf("sensor jump guard = %v/%d", cfg.Sensors.JumpC, cfg.Sensors.JumpRetries)
	}
	if cfg.Watchdog.PingFailThreshold != 5 {
		t.Errorf("ping fail threshold = %d", cfg.Watchdog.PingFailThreshold)
	}
	if cfg.Persist.Path != "/run/aircond/region.json" {
		t.Errorf("persist path = %q", cfg.Persist.Path)
	}
	if cfg.Kernel.ControllerTickMs != 250 {
		t.Errorf("controller tick = %d", cfg.Kernel.ControllerTickMs)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yaml := `
log_level: debug
http:
  addr: ":9090"
thermal:
  on_c: 16.0
watchdog:
  ping_fail_threshold: 3
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != "debug" || cfg.HTTP.Addr != ":9090" {
		t.Errorf("overrides not applied: %q %q", cfg.LogLevel, cfg.HTTP.Addr)
	}
	if cfg.Thermal.OnC != 16.0 {
		t.Errorf("thermal.on_c = %v, want 16", cfg.Thermal.OnC)
	}
	if cfg.Watchdog.PingFailThreshold != 3 {
		t.Errorf("ping fail threshold = %d, want 3", cfg.Watchdog.PingFailThreshold)
	}
	// Keys the file does not mention keep their defaults.
	if cfg.Thermal.OffC != 10.0 {
		t.Errorf("thermal.off_c = %v, want default 10", cfg.Thermal.OffC)
	}
	if cfg.MQTT.Broker == "" {
		t.Error("mqtt broker default lost")
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("missing config file should not be an error: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("http addr = %q, want default", cfg.HTTP.Addr)
	}
}

func TestLoadMalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(":\n  - not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestHeartbeatInterval(t *testing.T) {
	m := MQTT{HeartbeatSeconds: 900}
	if m.HeartbeatInterval() != 15*time.Minute {
		t.Errorf("interval = %v, want 15m", m.HeartbeatInterval())
	}
}
