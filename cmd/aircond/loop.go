package main

import (
	"time"

	"github.com/sweeney/aircon-controller/internal/actuate"
	"github.com/sweeney/aircon-controller/internal/control"
	"github.com/sweeney/aircon-controller/internal/kernel"
	"github.com/sweeney/aircon-controller/internal/logger"
	"github.com/sweeney/aircon-controller/internal/mqtt"
	"github.com/sweeney/aircon-controller/internal/shared"
	"github.com/sweeney/aircon-controller/internal/status"
)

// controlLoop binds the pure state machine to shared state and actuation.
// It runs as a task on the control kernel; its tick performs exactly one
// state evaluation.
type controlLoop struct {
	machine *control.Machine
	st      *shared.State
	act     *actuate.Actuator
	clock   kernel.Clock
	log     *logger.Logger

	// lastChange is when the appliance state last changed, feeding the
	// standby decay timers.
	lastChange int64
}

func newControlLoop(machine *control.Machine, st *shared.State, act *actuate.Actuator, clock kernel.Clock, log *logger.Logger) *controlLoop {
	return &controlLoop{
		machine: machine,
		st:      st,
		act:     act,
		clock:   clock,
		log:     log,
	}
}

func (l *controlLoop) tick() {
	cmd := l.st.Command()
	state := l.st.Appliance()
	temps := l.st.Temps()
	compressorOn := l.act.Compressor() == control.CompressorOn

	d := l.machine.Next(state, cmd, temps, compressorOn, l.clock()-l.lastChange)

	// The compressor always de-energizes before any fan change; it only
	// engages after the fan holds the target speed.
	if d.Compressor == control.ComprOff {
		if err := l.act.SetCompressor(control.CompressorOff); err != nil && l.log != nil {
			l.log.Errorw("compressor off failed", "err", err)
		}
	}

	if d.Next != state {
		l.st.SetAppliance(d.Next)
		if err := l.act.SetFan(control.FanFor(d.Next)); err != nil && l.log != nil {
			l.log.Errorw("fan change failed", "target", control.FanFor(d.Next).String(), "err", err)
		}
		// Decay timers measure from actual completion of the actuation holds.
		l.lastChange = l.clock()
		if l.log != nil {
			l.log.Infow("state change", "from", state.String(), "to", d.Next.String(), "command", cmd.String())
		}
	}

	if d.Compressor == control.ComprOn {
		if err := l.act.SetCompressor(control.CompressorOn); err != nil && l.log != nil {
			l.log.Errorw("compressor on failed", "err", err)
		}
	}
}

// telemetryLoop runs on the network kernel: it publishes a transition event
// whenever it observes a new appliance state in shared memory, and a
// periodic heartbeat carrying the full status snapshot. Reading one tick
// behind the control context is fine — the next tick catches up.
type telemetryLoop struct {
	st        *shared.State
	pub       mqtt.Publisher
	collector *status.Collector
	clock     kernel.Clock
	log       *logger.Logger

	heartbeatMs   int64
	lastState     control.ApplianceState
	lastHeartbeat int64
}

func newTelemetryLoop(st *shared.State, pub mqtt.Publisher, collector *status.Collector, clock kernel.Clock, heartbeatMs int64, log *logger.Logger) *telemetryLoop {
	return &telemetryLoop{
		st:        st,
		pub:       pub,
		collector: collector,
		clock:     clock,
		log:       log,

		heartbeatMs: heartbeatMs,
		lastState:   st.Appliance(),
	}
}

func (t *telemetryLoop) tick() {
	cur := t.st.Appliance()
	if cur != t.lastState {
		event := mqtt.TransitionEvent{
			Timestamp:  time.Now(),
			From:       t.lastState,
			To:         cur,
			Compressor: t.st.Compressor(),
			Fan:        t.st.Fan(),
		}
		if err := t.pub.PublishTransition(event); err != nil && t.log != nil {
			t.log.Warnw("publish transition", "err", err)
		}
		t.lastState = cur
	}

	if t.heartbeatMs > 0 && t.clock()-t.lastHeartbeat >= t.heartbeatMs {
		t.lastHeartbeat = t.clock()
		snap := t.collector.Snapshot()
		event := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "HEARTBEAT",
			RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
		}
		if err := t.pub.PublishSystem(event); err != nil && t.log != nil {
			t.log.Warnw("publish heartbeat", "err", err)
		}
	}
}
