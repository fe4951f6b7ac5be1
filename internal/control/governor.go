package control

// Thresholds holds the thermal safety governor's configuration. All values
// are degrees C. The minimum evaporator/outlet temperatures differ by
// compressor state: a running compressor can legitimately drive the
// evaporator colder, so the floor is lower while it runs.
type Thresholds struct {
	EvapMinOn    float64 // minimum evaporator temp while compressor runs
	EvapMinOff   float64 // minimum evaporator temp while compressor is off
	OutletMinOn  float64
	OutletMinOff float64

	Off          float64 // outlet temp at or below which the compressor turns off
	On           float64 // configured outlet temp at which the compressor may turn on
	MinRange     float64 // minimum hysteresis band above Off
	MinEvapDelta float64 // engagement must sit at least this far below evaporator temp
	MaxEvapDelta float64 // engagement must sit at most this far below evaporator temp
}

// EvaporatorSafe reports whether compressor operation is currently safe.
// It returns false when both monitored channels are invalid, or when any
// valid channel reads below its mode-specific minimum.
func (t Thresholds) EvaporatorSafe(temps Temps, compressorOn bool) bool {
	if !temps.Evaporator.Valid && !temps.Outlet.Valid {
		return false
	}

	evapMin, outletMin := t.EvapMinOff, t.OutletMinOff
	if compressorOn {
		evapMin, outletMin = t.EvapMinOn, t.OutletMinOn
	}

	if temps.Evaporator.Valid && temps.Evaporator.TempC < evapMin {
		return false
	}
	if temps.Outlet.Valid && temps.Outlet.TempC < outletMin {
		return false
	}
	return true
}

// EngageTemperature re-derives the compressor engagement threshold from the
// live evaporator temperature. The configured On threshold is clamped into a
// window: never above evapTempC-MinEvapDelta (cooling would be immediately
// self-defeating) and never below max(evapTempC-MaxEvapDelta, Off+MinRange)
// (start-up against too large a differential risks electrical failure). When
// the window inverts, the lower bound wins, so the result never drops to or
// below the Off threshold.
func (t Thresholds) EngageTemperature(evapTempC float64) float64 {
	upper := t.On
	if ceil := evapTempC - t.MinEvapDelta; ceil < upper {
		upper = ceil
	}

	lower := evapTempC - t.MaxEvapDelta
	if floor := t.Off + t.MinRange; floor > lower {
		lower = floor
	}

	if upper >= lower {
		return upper
	}
	return lower
}
