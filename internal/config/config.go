// Package config loads daemon configuration from YAML with viper.
//
// Every tunable the control loop depends on lives here rather than as a
// hardcoded literal: thermal thresholds, standby decay intervals, actuation
// settle times, relay pins, sensor addresses and the watchdog policy.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the full daemon configuration.
type Config struct {
	HTTP      HTTP      `mapstructure:"http"`
	MQTT      MQTT      `mapstructure:"mqtt"`
	Sensors   Sensors   `mapstructure:"sensors"`
	Thermal   Thermal   `mapstructure:"thermal"`
	Decay     Decay     `mapstructure:"decay"`
	Actuation Actuation `mapstructure:"actuation"`
	Pins      Pins      `mapstructure:"pins"`
	Watchdog  Watchdog  `mapstructure:"watchdog"`
	Persist   Persist   `mapstructure:"persist"`
	Kernel    Kernel    `mapstructure:"kernel"`
	LogLevel  string    `mapstructure:"log_level"`
}

// HTTP configures the command/status API.
type HTTP struct {
	Addr            string  `mapstructure:"addr"`
	RateLimitPerSec float64 `mapstructure:"rate_limit_per_sec"`
	RateLimitBurst  int     `mapstructure:"rate_limit_burst"`
}

// MQTT configures the telemetry publisher.
type MQTT struct {
	Broker           string `mapstructure:"broker"`
	HeartbeatSeconds int    `mapstructure:"heartbeat_seconds"`
}

// Sensors configures the one-wire bus channels and the validator.
type Sensors struct {
	EvaporatorAddr string  `mapstructure:"evaporator_addr"`
	OutletAddr     string  `mapstructure:"outlet_addr"`
	PollMs         int64   `mapstructure:"poll_ms"`
	ToleranceC     float64 `mapstructure:"tolerance_c"`
	MinC           float64 `mapstructure:"min_c"`
	MaxC           float64 `mapstructure:"max_c"`
	SentinelC      float64 `mapstructure:"sentinel_c"`
	JumpC          float64 `mapstructure:"jump_c"`
	JumpRetries    int     `mapstructure:"jump_retries"`
}

// Thermal holds the safety governor thresholds. All values in degrees C.
type Thermal struct {
	EvapMinOnC    float64 `mapstructure:"evap_min_on_c"`
	EvapMinOffC   float64 `mapstructure:"evap_min_off_c"`
	OutletMinOnC  float64 `mapstructure:"outlet_min_on_c"`
	OutletMinOffC float64 `mapstructure:"outlet_min_off_c"`
	OffC          float64 `mapstructure:"off_c"`
	OnC           float64 `mapstructure:"on_c"`
	MinRangeC     float64 `mapstructure:"min_range_c"`
	MinEvapDeltaC float64 `mapstructure:"min_evap_delta_c"`
	MaxEvapDeltaC float64 `mapstructure:"max_evap_delta_c"`
}

// Decay holds the standby tier wind-down intervals.
type Decay struct {
	HighToMedSeconds int64 `mapstructure:"high_to_med_s"`
	MedToLowSeconds  int64 `mapstructure:"med_to_low_s"`
	LowToOffSeconds  int64 `mapstructure:"low_to_off_s"`
}

// Actuation holds relay switching delays. Settle is hardware-derived (breaker
// recovery), not tunable per mode.
type Actuation struct {
	SettleMs     int64 `mapstructure:"settle_ms"`
	WindingGapMs int64 `mapstructure:"winding_gap_ms"`
}

// Pins maps actuator outputs to BCM pin numbers.
type Pins struct {
	Compressor int `mapstructure:"compressor"`
	FanLow     int `mapstructure:"fan_low"`
	FanMed     int `mapstructure:"fan_med"`
	FanHigh    int `mapstructure:"fan_high"`
}

// Watchdog configures connectivity liveness checks.
type Watchdog struct {
	Gateway           string `mapstructure:"gateway"`
	Iface             string `mapstructure:"iface"`
	ProbeSeconds      int64  `mapstructure:"probe_s"`
	LinkSeconds       int64  `mapstructure:"link_s"`
	PingFailThreshold int    `mapstructure:"ping_fail_threshold"`
	ProbeTimeoutMs    int64  `mapstructure:"probe_timeout_ms"`
}

// Persist configures the reboot-survivable counter region.
type Persist struct {
	Path string `mapstructure:"path"`
}

// Kernel configures the two scheduler contexts.
type Kernel struct {
	PollMs           int64 `mapstructure:"poll_ms"`
	ControllerTickMs int64 `mapstructure:"controller_tick_ms"`
}

// Load reads configuration from the given YAML file, falling back to defaults
// for any missing key. An empty path loads pure defaults; a missing file at an
// explicit path is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, statErr := os.Stat(path); statErr == nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.rate_limit_per_sec", 5.0)
	v.SetDefault("http.rate_limit_burst", 10)

	v.SetDefault("mqtt.broker", "tcp://192.168.1.200:1883")
	v.SetDefault("mqtt.heartbeat_seconds", 900)

	v.SetDefault("sensors.evaporator_addr", "28-0316a279a0ff")
	v.SetDefault("sensors.outlet_addr", "28-0316a2c81bff")
	v.SetDefault("sensors.poll_ms", 1000)
	v.SetDefault("sensors.tolerance_c", 0.5)
	v.SetDefault("sensors.min_c", -30.0)
	v.SetDefault("sensors.max_c", 60.0)
	v.SetDefault("sensors.sentinel_c", 85.0)
	v.SetDefault("sensors.jump_c", 5.0)
	v.SetDefault("sensors.jump_retries", 5)

	v.SetDefault("thermal.evap_min_on_c", -7.0)
	v.SetDefault("thermal.evap_min_off_c", -2.0)
	v.SetDefault("thermal.outlet_min_on_c", 1.0)
	v.SetDefault("thermal.outlet_min_off_c", 4.0)
	v.SetDefault("thermal.off_c", 10.0)
	v.SetDefault("thermal.on_c", 14.0)
	v.SetDefault("thermal.min_range_c", 2.0)
	v.SetDefault("thermal.min_evap_delta_c", 2.0)
	v.SetDefault("thermal.max_evap_delta_c", 12.0)

	v.SetDefault("decay.high_to_med_s", 90)
	v.SetDefault("decay.med_to_low_s", 180)
	v.SetDefault("decay.low_to_off_s", 300)

	v.SetDefault("actuation.settle_ms", 5000)
	v.SetDefault("actuation.winding_gap_ms", 250)

	v.SetDefault("pins.compressor", 17)
	v.SetDefault("pins.fan_low", 22)
	v.SetDefault("pins.fan_med", 23)
	v.SetDefault("pins.fan_high", 24)

	v.SetDefault("watchdog.gateway", "192.168.1.1")
	v.SetDefault("watchdog.iface", "wlan0")
	v.SetDefault("watchdog.probe_s", 10)
	v.SetDefault("watchdog.link_s", 15)
	v.SetDefault("watchdog.ping_fail_threshold", 5)
	v.SetDefault("watchdog.probe_timeout_ms", 2000)

	v.SetDefault("persist.path", "/run/aircond/region.json")

	v.SetDefault("kernel.poll_ms", 10)
	v.SetDefault("kernel.controller_tick_ms", 250)
}

// HeartbeatInterval returns the MQTT heartbeat period as a Duration.
func (m MQTT) HeartbeatInterval() time.Duration {
	return time.Duration(m.HeartbeatSeconds) * time.Second
}
