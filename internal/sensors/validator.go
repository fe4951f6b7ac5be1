package sensors

import (
	"math"

	"github.com/sweeney/aircon-controller/internal/control"
	"github.com/sweeney/aircon-controller/internal/logger"
	"github.com/sweeney/aircon-controller/internal/shared"
)

// Params configures sample validation.
type Params struct {
	// ToleranceC is the maximum disagreement between two back-to-back samples.
	ToleranceC float64
	// MinC and MaxC bound the admissible physical range.
	MinC, MaxC float64
	// SentinelC is the sensor's power-on reset value, never a real reading.
	SentinelC float64
	// JumpC is the coarse granularity threshold for the jump guard: a new
	// value this far from the previous exposed value triggers resampling.
	JumpC float64
	// JumpRetries bounds the resample loop. When exhausted, the last sample
	// is accepted anyway to avoid permanent staleness.
	JumpRetries int
}

// Channel is one sensed point. Its exposed value is never a reading that
// failed validation; it retains the previous valid value until a new one
// passes.
type Channel struct {
	Name string
	Addr string

	// publish stores the exposed value into shared state.
	publish func(control.Reading)

	value float64
	valid bool
}

// Validator acquires raw readings, rejects noise and implausible values, and
// holds last-known-good per-channel state. It runs on the control context
// only.
type Validator struct {
	bus      Bus
	params   Params
	channels []*Channel
	st       *shared.State
	log      *logger.Logger
}

// New creates a Validator publishing the evaporator and outlet channels into
// shared state.
func New(bus Bus, params Params, evapAddr, outletAddr string, st *shared.State, log *logger.Logger) *Validator {
	return &Validator{
		bus:    bus,
		params: params,
		st:     st,
		log:    log,
		channels: []*Channel{
			{Name: "evaporator", Addr: evapAddr, publish: st.SetEvaporator},
			{Name: "outlet", Addr: outletAddr, publish: st.SetOutlet},
		},
	}
}

// Poll validates one reading per channel and publishes the results. It is
// registered as a periodic task on the control kernel.
func (v *Validator) Poll() {
	for _, ch := range v.channels {
		if v.read(ch) {
			ch.publish(control.Reading{TempC: ch.value, Valid: true})
		}
	}
}

// read takes two back-to-back samples and accepts only if both individually
// pass the plausibility test and agree within tolerance. A stale-but-valid
// value is preferred over a corrupt one: on rejection the exposed value is
// unchanged and the error counter increments by exactly one.
func (v *Validator) read(ch *Channel) bool {
	a, errA := v.bus.ReadTemp(ch.Addr)
	b, errB := v.bus.ReadTemp(ch.Addr)

	if errA != nil || errB != nil {
		v.reject(ch, "read error", errA, errB)
		return false
	}
	if !v.plausible(a) || !v.plausible(b) {
		v.reject(ch, "implausible sample", nil, nil)
		return false
	}
	if math.Abs(a-b) > v.params.ToleranceC {
		v.reject(ch, "sample disagreement", nil, nil)
		return false
	}

	candidate := b

	// Jump guard: a transient bus misread can pass the agreement test yet
	// land far from the previous exposed value. Resample until the candidate
	// is within the coarse granularity threshold, accepting the last sample
	// when retries run out.
	if ch.valid {
		for i := 0; i < v.params.JumpRetries && math.Abs(candidate-ch.value) >= v.params.JumpC; i++ {
			s, err := v.bus.ReadTemp(ch.Addr)
			if err != nil || !v.plausible(s) {
				continue
			}
			candidate = s
		}
	}

	ch.value = candidate
	ch.valid = true
	return true
}

func (v *Validator) plausible(t float64) bool {
	if math.IsNaN(t) || t == v.params.SentinelC {
		return false
	}
	return t >= v.params.MinC && t <= v.params.MaxC
}

func (v *Validator) reject(ch *Channel, reason string, errA, errB error) {
	v.st.AddSensorError()
	if v.log != nil {
		v.log.Warnw("sensor sample rejected", "channel", ch.Name, "reason", reason, "errA", errA, "errB", errB)
	}
}

// Current returns a channel's exposed value by name, for diagnostics.
func (v *Validator) Current(name string) (float64, bool) {
	for _, ch := range v.channels {
		if ch.Name == name {
			return ch.value, ch.valid
		}
	}
	return 0, false
}
