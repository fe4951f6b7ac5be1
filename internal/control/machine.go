package control

// Decay holds the standby tier wind-down intervals in milliseconds. The
// staged decay lets ductwork return to ambient and the coil dry before the
// fan finally stops.
type Decay struct {
	HighToMedMs int64
	MedToLowMs  int64
	LowToOffMs  int64
}

// CompressorAction is the machine's verdict on the compressor for this tick.
type CompressorAction int

const (
	// ComprHold leaves the compressor untouched.
	ComprHold CompressorAction = iota
	// ComprOn requests engagement. Only ever issued when EvaporatorSafe.
	ComprOn
	// ComprOff requests (or confirms) disengagement.
	ComprOff
)

// Decision is the result of one state evaluation.
type Decision struct {
	Next       ApplianceState
	Compressor CompressorAction
}

// Machine is the appliance state machine. It is pure: Next depends only on
// its arguments and the configured thresholds/intervals, never on wall-clock
// time or I/O.
type Machine struct {
	Thresholds Thresholds
	Decay      Decay
}

// Next evaluates exactly one transition for the current state under the
// given command. elapsedMs is the time since the last state change, used by
// the standby decay timers. No transition is taken speculatively; repeated
// invocation with unchanged inputs yields the identical result.
func (m *Machine) Next(state ApplianceState, cmd Command, temps Temps, compressorOn bool, elapsedMs int64) Decision {
	switch {
	case cmd.IsCool():
		return m.cool(state, cmd, temps, compressorOn)
	case cmd == CmdKill:
		if state.IsCool() {
			return Decision{Next: StandbyFor(state), Compressor: ComprOff}
		}
		return Decision{Next: PowerOff, Compressor: ComprOff}
	case cmd.IsFanOnly():
		return Decision{Next: standbyForFan(cmd), Compressor: ComprOff}
	default: // CmdOff
		return m.off(state, elapsedMs)
	}
}

// cool handles COOL commands: stage through the matching standby tier so the
// fan reaches target speed before the compressor may engage, then run
// hysteresis control while holding the cool tier.
func (m *Machine) cool(state ApplianceState, cmd Command, temps Temps, compressorOn bool) Decision {
	cool, standby := tiersFor(cmd)
	switch state {
	case cool:
		return Decision{Next: state, Compressor: m.hysteresis(temps, compressorOn)}
	case standby:
		// Fan is already at target speed; engage cooling. The compressor is
		// decided on the next evaluation, once in the cool tier.
		return Decision{Next: cool, Compressor: ComprHold}
	default:
		return Decision{Next: standby, Compressor: ComprOff}
	}
}

// off handles the OFF command: cool tiers step down to their standby tier
// (never directly to POWER_OFF, the fan must run on), and standby tiers
// decay one tier at a time on their configured intervals.
func (m *Machine) off(state ApplianceState, elapsedMs int64) Decision {
	if state.IsCool() {
		return Decision{Next: StandbyFor(state), Compressor: ComprOff}
	}

	next := state
	switch state {
	case StandbyHigh:
		if elapsedMs >= m.Decay.HighToMedMs {
			next = StandbyMed
		}
	case StandbyMed:
		if elapsedMs >= m.Decay.MedToLowMs {
			next = StandbyLow
		}
	case StandbyLow:
		if elapsedMs >= m.Decay.LowToOffMs {
			next = PowerOff
		}
	}
	return Decision{Next: next, Compressor: ComprOff}
}

// hysteresis toggles the compressor while a cool tier holds. Off conditions
// take priority over on conditions when both are momentarily true. The
// engagement threshold is re-derived from live evaporator temperature every
// evaluation rather than using a fixed constant.
func (m *Machine) hysteresis(temps Temps, compressorOn bool) CompressorAction {
	if !m.Thresholds.EvaporatorSafe(temps, compressorOn) {
		return ComprOff
	}
	if temps.Outlet.Valid && temps.Outlet.TempC <= m.Thresholds.Off {
		return ComprOff
	}
	if temps.Outlet.Valid && temps.Evaporator.Valid {
		engage := m.Thresholds.EngageTemperature(temps.Evaporator.TempC)
		if temps.Outlet.TempC >= engage {
			return ComprOn
		}
	}
	return ComprHold
}
