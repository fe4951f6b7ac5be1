// Package shared holds the state crossing the two scheduler contexts.
//
// There is no lock: every field has exactly one writer context, and all
// access goes through atomic load/store. The network context owns Command;
// the control context owns the appliance, actuator and temperature fields.
// Readers on the other context may observe a value one tick old; the control
// loop is self-correcting on the next tick.
package shared

import (
	"math"
	"sync/atomic"

	"github.com/sweeney/aircon-controller/internal/control"
)

// State is created once at startup and lives for the life of the process.
type State struct {
	command    atomic.Int32 // writer: network context
	appliance  atomic.Int32 // writer: control context
	compressor atomic.Int32 // writer: control context (actuation layer)
	fan        atomic.Int32 // writer: control context (actuation layer)

	evapBits    atomic.Uint64 // writer: control context (sensor validator)
	evapValid   atomic.Bool
	outletBits  atomic.Uint64
	outletValid atomic.Bool

	sensorErrors atomic.Uint64 // writer: control context
}

// New returns a State with everything off and no valid readings.
func New() *State {
	return &State{}
}

// Command returns the last externally supplied command.
func (s *State) Command() control.Command {
	return control.Command(s.command.Load())
}

// SetCommand is called by the network context only.
func (s *State) SetCommand(c control.Command) {
	s.command.Store(int32(c))
}

// Appliance returns the current operating mode.
func (s *State) Appliance() control.ApplianceState {
	return control.ApplianceState(s.appliance.Load())
}

// SetAppliance is called by the control context only.
func (s *State) SetAppliance(a control.ApplianceState) {
	s.appliance.Store(int32(a))
}

// Compressor returns the compressor output state.
func (s *State) Compressor() control.CompressorState {
	return control.CompressorState(s.compressor.Load())
}

// SetCompressor is called by the actuation layer only, after the settle hold.
func (s *State) SetCompressor(c control.CompressorState) {
	s.compressor.Store(int32(c))
}

// Fan returns the fan relay bank state.
func (s *State) Fan() control.FanState {
	return control.FanState(s.fan.Load())
}

// SetFan is called by the actuation layer only, after the settle hold.
func (s *State) SetFan(f control.FanState) {
	s.fan.Store(int32(f))
}

// Evaporator returns the evaporator channel's last validated reading.
func (s *State) Evaporator() control.Reading {
	return control.Reading{
		TempC: math.Float64frombits(s.evapBits.Load()),
		Valid: s.evapValid.Load(),
	}
}

// SetEvaporator is called by the sensor validator only.
func (s *State) SetEvaporator(r control.Reading) {
	s.evapBits.Store(math.Float64bits(r.TempC))
	s.evapValid.Store(r.Valid)
}

// Outlet returns the outlet channel's last validated reading.
func (s *State) Outlet() control.Reading {
	return control.Reading{
		TempC: math.Float64frombits(s.outletBits.Load()),
		Valid: s.outletValid.Load(),
	}
}

// SetOutlet is called by the sensor validator only.
func (s *State) SetOutlet(r control.Reading) {
	s.outletBits.Store(math.Float64bits(r.TempC))
	s.outletValid.Store(r.Valid)
}

// Temps returns both monitored channels as one value.
func (s *State) Temps() control.Temps {
	return control.Temps{Evaporator: s.Evaporator(), Outlet: s.Outlet()}
}

// SensorErrors returns the count of rejected sensor samples since boot.
func (s *State) SensorErrors() uint64 {
	return s.sensorErrors.Load()
}

// AddSensorError is called by the sensor validator only.
func (s *State) AddSensorError() {
	s.sensorErrors.Add(1)
}
