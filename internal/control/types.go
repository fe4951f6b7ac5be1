// Package control contains the pure appliance logic: command and state
// enumerations, the transition function, and the thermal safety governor.
// This package has NO external dependencies (no GPIO, HTTP, MQTT, OS, or
// time.Sleep). Elapsed time is always injected as a parameter.
package control

// Command is externally supplied intent, written by the network context and
// read once per appliance-state-machine tick. Last write wins between ticks.
type Command int

const (
	CmdOff Command = iota
	CmdCoolHigh
	CmdCoolMed
	CmdCoolLow
	CmdKill
	CmdFanHigh
	CmdFanMed
	CmdFanLow
)

func (c Command) String() string {
	switch c {
	case CmdOff:
		return "OFF"
	case CmdCoolHigh:
		return "COOL_HIGH"
	case CmdCoolMed:
		return "COOL_MED"
	case CmdCoolLow:
		return "COOL_LOW"
	case CmdKill:
		return "KILL"
	case CmdFanHigh:
		return "FAN_HIGH"
	case CmdFanMed:
		return "FAN_MED"
	case CmdFanLow:
		return "FAN_LOW"
	default:
		return "UNKNOWN"
	}
}

// Code returns the single-character wire code used by the command endpoint.
// The wire representation is deliberately separate from the internal
// discriminant.
func (c Command) Code() byte {
	switch c {
	case CmdOff:
		return 'o'
	case CmdCoolHigh:
		return 'h'
	case CmdCoolMed:
		return 'm'
	case CmdCoolLow:
		return 'l'
	case CmdKill:
		return 'k'
	case CmdFanHigh:
		return 'H'
	case CmdFanMed:
		return 'M'
	case CmdFanLow:
		return 'L'
	default:
		return '?'
	}
}

// ParseCommand maps a wire code to a Command. Unrecognized codes return
// ok=false and must leave the current command unchanged.
func ParseCommand(code byte) (Command, bool) {
	switch code {
	case 'o':
		return CmdOff, true
	case 'h':
		return CmdCoolHigh, true
	case 'm':
		return CmdCoolMed, true
	case 'l':
		return CmdCoolLow, true
	case 'k':
		return CmdKill, true
	case 'H':
		return CmdFanHigh, true
	case 'M':
		return CmdFanMed, true
	case 'L':
		return CmdFanLow, true
	default:
		return CmdOff, false
	}
}

// IsCool reports whether the command requests active cooling.
func (c Command) IsCool() bool {
	return c == CmdCoolHigh || c == CmdCoolMed || c == CmdCoolLow
}

// IsFanOnly reports whether the command requests fan-only operation.
func (c Command) IsFanOnly() bool {
	return c == CmdFanHigh || c == CmdFanMed || c == CmdFanLow
}

// ApplianceState is the appliance's current operating mode. Exactly one value
// is active at a time; it is mutated only by the appliance state machine.
type ApplianceState int

const (
	PowerOff ApplianceState = iota
	CoolHigh
	CoolMed
	CoolLow
	StandbyHigh
	StandbyMed
	StandbyLow
)

func (s ApplianceState) String() string {
	switch s {
	case PowerOff:
		return "POWER_OFF"
	case CoolHigh:
		return "COOL_HIGH"
	case CoolMed:
		return "COOL_MED"
	case CoolLow:
		return "COOL_LOW"
	case StandbyHigh:
		return "STANDBY_HIGH"
	case StandbyMed:
		return "STANDBY_MED"
	case StandbyLow:
		return "STANDBY_LOW"
	default:
		return "UNKNOWN"
	}
}

// IsCool reports whether the state is an active cooling tier.
func (s ApplianceState) IsCool() bool {
	return s == CoolHigh || s == CoolMed || s == CoolLow
}

// IsStandby reports whether the state is a fan-only standby tier.
func (s ApplianceState) IsStandby() bool {
	return s == StandbyHigh || s == StandbyMed || s == StandbyLow
}

// StandbyFor returns the standby tier matching a cool tier. For non-cool
// states it returns the state unchanged.
func StandbyFor(s ApplianceState) ApplianceState {
	switch s {
	case CoolHigh:
		return StandbyHigh
	case CoolMed:
		return StandbyMed
	case CoolLow:
		return StandbyLow
	default:
		return s
	}
}

// CompressorState is the compressor output state, mutated only by the
// actuation layer and gated by the thermal safety governor.
type CompressorState int

const (
	CompressorOff CompressorState = iota
	CompressorOn
)

func (s CompressorState) String() string {
	if s == CompressorOn {
		return "ON"
	}
	return "OFF"
}

// FanState is the fan relay bank state. At most one winding is energized at
// a time; mutated only by the actuation layer.
type FanState int

const (
	FanOff FanState = iota
	FanLow
	FanMed
	FanHigh
)

func (s FanState) String() string {
	switch s {
	case FanLow:
		return "LOW"
	case FanMed:
		return "MED"
	case FanHigh:
		return "HIGH"
	default:
		return "OFF"
	}
}

// FanFor maps an appliance state to its fan speed.
func FanFor(s ApplianceState) FanState {
	switch s {
	case CoolHigh, StandbyHigh:
		return FanHigh
	case CoolMed, StandbyMed:
		return FanMed
	case CoolLow, StandbyLow:
		return FanLow
	default:
		return FanOff
	}
}

// tiersFor returns the cool and standby tiers matching a COOL command.
func tiersFor(c Command) (cool, standby ApplianceState) {
	switch c {
	case CmdCoolHigh:
		return CoolHigh, StandbyHigh
	case CmdCoolMed:
		return CoolMed, StandbyMed
	default:
		return CoolLow, StandbyLow
	}
}

// standbyForFan returns the standby tier matching a FAN-only command.
func standbyForFan(c Command) ApplianceState {
	switch c {
	case CmdFanHigh:
		return StandbyHigh
	case CmdFanMed:
		return StandbyMed
	default:
		return StandbyLow
	}
}

// Reading is one temperature channel's exposed value. A channel's value is
// never a reading that failed validation; it retains the previous valid
// value until a new one passes.
type Reading struct {
	TempC float64
	Valid bool
}

// Temps is the pair of monitored channels consulted by the governor and the
// hysteresis control.
type Temps struct {
	Evaporator Reading
	Outlet     Reading
}
