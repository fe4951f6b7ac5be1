// Package status assembles point-in-time snapshots of daemon state for the
// HTTP endpoint and MQTT system events.
package status

import (
	"time"

	"github.com/sweeney/aircon-controller/internal/control"
	"github.com/sweeney/aircon-controller/internal/persist"
	"github.com/sweeney/aircon-controller/internal/shared"
)

// Config contains daemon configuration for display.
type Config struct {
	SensorPollMs     int64
	ControllerTickMs int64
	Broker           string
	HTTPAddr         string
}

// Snapshot is a point-in-time view of daemon state. It is a value type,
// safe to use after collection.
type Snapshot struct {
	Command    control.Command
	Appliance  control.ApplianceState
	Compressor control.CompressorState
	Fan        control.FanState

	Evaporator control.Reading
	Outlet     control.Reading

	SensorErrors uint64
	PingFailures uint32
	Disconnects  uint32

	// BootedMs is uptime since this boot; PoweredMs adds the persisted base,
	// so it runs continuously across restarts.
	BootedMs  int64
	PoweredMs int64

	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Collector builds snapshots from shared state plus the boot-time persisted
// region. The region only changes immediately before a restart, so the copy
// taken at boot stays accurate for the life of the process.
type Collector struct {
	st     *shared.State
	region persist.Region
	clock  func() int64
	cfg    Config

	// mqttConnected reports live broker connectivity; may be nil.
	mqttConnected func() bool
}

// NewCollector creates a Collector.
func NewCollector(st *shared.State, region persist.Region, clock func() int64, cfg Config, mqttConnected func() bool) *Collector {
	return &Collector{st: st, region: region, clock: clock, cfg: cfg, mqttConnected: mqttConnected}
}

// Snapshot collects the current state. The field set is stable across polls:
// nothing is optional once the daemon is up.
func (c *Collector) Snapshot() Snapshot {
	booted := c.clock()
	s := Snapshot{
		Command:      c.st.Command(),
		Appliance:    c.st.Appliance(),
		Compressor:   c.st.Compressor(),
		Fan:          c.st.Fan(),
		Evaporator:   c.st.Evaporator(),
		Outlet:       c.st.Outlet(),
		SensorErrors: c.st.SensorErrors(),
		PingFailures: c.region.PingFailures,
		Disconnects:  c.region.Disconnects,
		BootedMs:     booted,
		PoweredMs:    int64(c.region.PoweredBaseMs) + booted,
		Now:          time.Now(),
		Config:       c.cfg,
	}
	if c.mqttConnected != nil {
		s.MQTTConnected = c.mqttConnected()
	}
	return s
}
