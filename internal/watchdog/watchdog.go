// Package watchdog restarts the device when the network becomes unreachable.
//
// The network stack's failure modes are not locally diagnosable or cleanly
// resettable, so recovery is always a full restart, never a local retry.
// Before restarting, the reboot-survivable counters are advanced so reported
// powered time stays continuous and the restart reason is attributable.
package watchdog

import (
	"context"
	"time"

	"github.com/sweeney/aircon-controller/internal/logger"
	"github.com/sweeney/aircon-controller/internal/persist"
)

// Prober checks reachability of the local network gateway.
type Prober interface {
	Probe(ctx context.Context) error
}

// LinkChecker checks the physical/administrative link state.
type LinkChecker interface {
	Up() (bool, error)
}

// Rebooter performs the full device restart.
type Rebooter interface {
	Reboot(reason string)
}

// Watchdog runs the two liveness checks as periodic tasks on the network
// context kernel.
type Watchdog struct {
	prober   Prober
	link     LinkChecker
	rebooter Rebooter
	store    *persist.Store
	region   persist.Region
	log      *logger.Logger

	// clock is the monotonic millisecond counter; its value is the booted
	// uptime, used to advance the powered-time base before a restart.
	clock func() int64

	threshold    int
	probeTimeout time.Duration

	consecutiveFails int

	// notify, when set, is called with the restart reason before the
	// rebooter runs (used to publish a final telemetry event).
	notify func(reason string)
}

// New creates a Watchdog. region is the state loaded at boot; the watchdog
// owns it from here on.
func New(prober Prober, link LinkChecker, rebooter Rebooter, store *persist.Store, region persist.Region,
	clock func() int64, threshold int, probeTimeout time.Duration, log *logger.Logger) *Watchdog {
	return &Watchdog{
		prober:       prober,
		link:         link,
		rebooter:     rebooter,
		store:        store,
		region:       region,
		clock:        clock,
		threshold:    threshold,
		probeTimeout: probeTimeout,
		log:          log,
	}
}

// SetNotify installs a pre-restart callback.
func (w *Watchdog) SetNotify(fn func(reason string)) {
	w.notify = fn
}

// Region returns the current counter values for status reporting.
func (w *Watchdog) Region() persist.Region {
	return w.region
}

// ConsecutiveFails returns the current failed-probe run length.
func (w *Watchdog) ConsecutiveFails() int {
	return w.consecutiveFails
}

// CheckReachability probes the gateway once. A run of consecutive failures
// reaching the threshold triggers a restart; any success resets the run.
func (w *Watchdog) CheckReachability() {
	ctx, cancel := context.WithTimeout(context.Background(), w.probeTimeout)
	defer cancel()

	if err := w.prober.Probe(ctx); err != nil {
		w.consecutiveFails++
		if w.log != nil {
			w.log.Warnw("gateway probe failed", "consecutive", w.consecutiveFails, "threshold", w.threshold, "err", err)
		}
		if w.consecutiveFails >= w.threshold {
			w.region.PingFailures++
			w.restart("ping_failures")
		}
		return
	}
	w.consecutiveFails = 0
}

// CheckLink verifies the link is up. A single failed check triggers a
// restart.
func (w *Watchdog) CheckLink() {
	up, err := w.link.Up()
	if err == nil && up {
		return
	}
	if w.log != nil {
		w.log.Warnw("link check failed", "up", up, "err", err)
	}
	w.region.Disconnects++
	w.restart("disconnect")
}

// restart advances the powered-time base by the booted uptime, persists the
// region, and hands off to the rebooter.
func (w *Watchdog) restart(reason string) {
	w.region.PoweredBaseMs += uint64(w.clock())
	if err := w.store.Save(w.region); err != nil && w.log != nil {
		w.log.Errorw("persist region before restart", "err", err)
	}
	if w.notify != nil {
		w.notify(reason)
	}
	if w.log != nil {
		w.log.Warnw("restarting device", "reason", reason)
	}
	w.rebooter.Reboot(reason)
}
