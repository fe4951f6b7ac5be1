// Package actuate sequences the fan and compressor outputs.
//
// Every change holds the calling scheduler context for the settle time
// before the new state becomes observable: no other task on that context
// runs during the hold. This is a deliberate context-wide stall, not an
// async yield — the switching hardware (and the breaker feeding the
// compressor) needs the quiet period.
package actuate

import (
	"time"

	"github.com/sweeney/aircon-controller/internal/control"
	"github.com/sweeney/aircon-controller/internal/gpio"
	"github.com/sweeney/aircon-controller/internal/logger"
	"github.com/sweeney/aircon-controller/internal/shared"
)

// Actuator drives the relay outputs. It runs on the control context only and
// is the sole writer of the fan and compressor fields in shared state.
type Actuator struct {
	out gpio.Outputs
	st  *shared.State
	log *logger.Logger

	// sleep blocks the calling context. Injectable for tests.
	sleep func(time.Duration)

	// settle is the fixed hold after any output change, hardware-derived.
	settle time.Duration
	// windingGap lets a de-energized winding's field collapse before the
	// next winding energizes, preventing overlap between speeds.
	windingGap time.Duration

	fan        control.FanState
	compressor control.CompressorState
}

// New creates an Actuator with everything de-energized.
func New(out gpio.Outputs, st *shared.State, settle, windingGap time.Duration, log *logger.Logger) *Actuator {
	return &Actuator{
		out:        out,
		st:         st,
		log:        log,
		sleep:      time.Sleep,
		settle:     settle,
		windingGap: windingGap,
	}
}

// SetSleep replaces the blocking sleep. Tests use this to run without delays.
func (a *Actuator) SetSleep(sleep func(time.Duration)) {
	a.sleep = sleep
}

// Fan returns the current fan state.
func (a *Actuator) Fan() control.FanState {
	return a.fan
}

// Compressor returns the current compressor state.
func (a *Actuator) Compressor() control.CompressorState {
	return a.compressor
}

// SetFan moves the fan to the target speed. It is an idempotent no-op when
// the target already matches. The active winding is always de-energized
// before a new one energizes, so at most one winding is ever on; callers
// observe the old state until the settle hold has elapsed.
func (a *Actuator) SetFan(target control.FanState) error {
	if target == a.fan {
		return nil
	}

	if a.fan != control.FanOff {
		if err := a.out.Set(windingFor(a.fan), false); err != nil {
			return err
		}
		if target != control.FanOff {
			a.sleep(a.windingGap)
		}
	}
	if target != control.FanOff {
		if err := a.out.Set(windingFor(target), true); err != nil {
			return err
		}
	}

	a.sleep(a.settle)
	if a.log != nil {
		a.log.Infow("fan changed", "from", a.fan.String(), "to", target.String())
	}
	a.fan = target
	a.st.SetFan(target)
	return nil
}

// SetCompressor toggles the compressor output. Idempotent no-op when the
// target already matches. The settle hold is the same hardware-derived
// constant as the fan's: long enough for the breaker to recover from the
// switching transient.
func (a *Actuator) SetCompressor(target control.CompressorState) error {
	if target == a.compressor {
		return nil
	}

	if err := a.out.Set(gpio.LineCompressor, target == control.CompressorOn); err != nil {
		return err
	}

	a.sleep(a.settle)
	if a.log != nil {
		a.log.Infow("compressor changed", "from", a.compressor.String(), "to", target.String())
	}
	a.compressor = target
	a.st.SetCompressor(target)
	return nil
}

func windingFor(f control.FanState) gpio.Line {
	switch f {
	case control.FanLow:
		return gpio.LineFanLow
	case control.FanMed:
		return gpio.LineFanMed
	default:
		return gpio.LineFanHigh
	}
}
