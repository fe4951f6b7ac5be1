package main

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sweeney/aircon-controller/internal/actuate"
	"github.com/sweeney/aircon-controller/internal/control"
	"github.com/sweeney/aircon-controller/internal/gpio"
	"github.com/sweeney/aircon-controller/internal/kernel"
	"github.com/sweeney/aircon-controller/internal/persist"
	"github.com/sweeney/aircon-controller/internal/sensors"
	"github.com/sweeney/aircon-controller/internal/shared"
	"github.com/sweeney/aircon-controller/internal/watchdog"
)

// rig wires the full control context the way run() does, with fake hardware
// and a hand-advanced clock driving a real scheduler.
type rig struct {
	nowMs int64
	st    *shared.State
	bus   *sensors.FakeBus
	out   *gpio.FakeOutputs
	k     *kernel.Kernel
}

func newRig(t *testing.T, evap, outlet float64) *rig {
	t.Helper()
	r := &rig{st: shared.New(), out: gpio.NewFakeOutputs()}

	r.bus = sensors.NewFakeBus(nil)
	r.setTemps(evap, outlet)

	params := sensors.Params{
		ToleranceC: 0.5, MinC: -30, MaxC: 60, SentinelC: 85, JumpC: 5, JumpRetries: 5,
	}
	validator := sensors.New(r.bus, params, "28-evap", "28-outlet", r.st, nil)

	act := actuate.New(r.out, r.st, 5*time.Second, 250*time.Millisecond, nil)
	act.SetSleep(func(time.Duration) {})

	clock := func() int64 { return r.nowMs }
	loop := newControlLoop(testMachine(), r.st, act, clock, nil)

	r.k = kernel.New(clock)
	r.k.Register(validator.Poll, 1000)
	r.k.Register(loop.tick, 250)
	return r
}

// setTemps rewrites the scripted samples; the fake bus repeats the last
// sample once the script is exhausted, so each pair holds until changed.
func (r *rig) setTemps(evap, outlet float64) {
	r.bus.Samples = map[string][]float64{
		"28-evap":   {evap, evap},
		"28-outlet": {outlet, outlet},
	}
}

// advance moves the clock forward in scheduler-poll steps, ticking the kernel
// at each step the way Run does.
func (r *rig) advance(ms int64) {
	for elapsed := int64(0); elapsed < ms; elapsed += 250 {
		r.nowMs += 250
		r.k.Tick()
	}
}

func TestCoolCommandBringsFanThenCompressor(t *testing.T) {
	r := newRig(t, 8, 20)
	r.advance(2000) // let the validator establish readings

	r.st.SetCommand(control.CmdCoolHigh)
	r.advance(1000)

	if r.st.Appliance() != control.CoolHigh {
		t.Fatalf("state = %s, want COOL_HIGH", r.st.Appliance())
	}
	if !r.out.Values[gpio.LineFanHigh] {
		t.Error("fan high winding not energized")
	}
	if !r.out.Values[gpio.LineCompressor] {
		t.Error("compressor not engaged with outlet at 20")
	}
	if r.st.Fan() != control.FanHigh || r.st.Compressor() != control.CompressorOn {
		t.Errorf("shared actuator state = %s/%s", r.st.Fan(), r.st.Compressor())
	}

	// The fan must have been holding the target speed before the compressor
	// line ever energized.
	fanAt, comprAt := -1, -1
	for i, tr := range r.out.Transitions {
		if tr.Line == gpio.LineFanHigh && tr.On && fanAt == -1 {
			fanAt = i
		}
		if tr.Line == gpio.LineCompressor && tr.On && comprAt == -1 {
			comprAt = i
		}
	}
	if fanAt == -1 || comprAt == -1 || comprAt < fanAt {
		t.Errorf("compressor engaged before fan: transitions %v", r.out.Transitions)
	}
}

func TestOutletReachingSetpointDisengagesCompressor(t *testing.T) {
	r := newRig(t, 8, 20)
	r.advance(2000)
	r.st.SetCommand(control.CmdCoolMed)
	r.advance(1000)
	if !r.out.Values[gpio.LineCompressor] {
		t.Fatal("setup: compressor should be running")
	}

	// Outlet air falls to the off threshold: compressor out, state holds.
	r.setTemps(5, 9.5)
	r.advance(2000)

	if r.out.Values[gpio.LineCompressor] {
		t.Error("compressor still engaged below off threshold")
	}
	if r.st.Appliance() != control.CoolMed {
		t.Errorf("state = %s, want COOL_MED held", r.st.Appliance())
	}
	if !r.out.Values[gpio.LineFanMed] {
		t.Error("fan stopped while cooling demand persists")
	}
}

func TestEvaporatorFreezeProtectionOverridesDemand(t *testing.T) {
	r := newRig(t, 8, 25)
	r.advance(2000)
	r.st.SetCommand(control.CmdCoolHigh)
	r.advance(1000)
	if !r.out.Values[gpio.LineCompressor] {
		t.Fatal("setup: compressor should be running")
	}

	// Coil drops below the running floor while the outlet still calls for
	// cooling: safety wins.
	r.setTemps(-8, 25)
	r.advance(3000)

	if r.out.Values[gpio.LineCompressor] {
		t.Error("compressor running with evaporator below the safety floor")
	}
	if r.st.Appliance() != control.CoolHigh {
		t.Errorf("state = %s, want COOL_HIGH (fan keeps running)", r.st.Appliance())
	}
}

func TestOffCommandDecaysThroughStandbyTiers(t *testing.T) {
	r := newRig(t, 8, 11)
	r.advance(2000)
	r.st.SetCommand(control.CmdCoolLow)
	r.advance(1000)
	if r.st.Appliance() != control.CoolLow {
		t.Fatalf("setup: state = %s", r.st.Appliance())
	}

	r.st.SetCommand(control.CmdOff)
	r.advance(500)
	if r.st.Appliance() != control.StandbyLow {
		t.Fatalf("state = %s, want STANDBY_LOW", r.st.Appliance())
	}

	// STANDBY_LOW winds down to POWER_OFF after its interval.
	r.advance(299_000)
	if r.st.Appliance() != control.StandbyLow {
		t.Fatalf("decayed early: %s", r.st.Appliance())
	}
	r.advance(2_000)
	if r.st.Appliance() != control.PowerOff {
		t.Fatalf("state = %s, want POWER_OFF", r.st.Appliance())
	}
	if r.out.EnergizedCount() != 0 {
		t.Errorf("%d lines energized at power off", r.out.EnergizedCount())
	}
}

func TestWatchdogRestartSurvivesWithCounters(t *testing.T) {
	store := persist.NewStore(filepath.Join(t.TempDir(), "region.json"))
	region, firstBoot, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !firstBoot {
		t.Fatal("expected first boot")
	}

	prober := &watchdog.FakeProber{Results: []error{errors.New("unreachable")}}
	rebooter := &watchdog.FakeRebooter{}
	var nowMs int64 = 30_000
	w := watchdog.New(prober, &watchdog.FakeLink{IsUp: true}, rebooter, store, region,
		func() int64 { return nowMs }, 5, time.Second, nil)

	k := kernel.New(func() int64 { return nowMs })
	k.Register(w.CheckReachability, 10_000)

	// Five probe intervals of sustained failure.
	for i := 0; i < 5; i++ {
		nowMs += 10_000
		k.Tick()
	}

	if len(rebooter.Reasons) != 1 || rebooter.Reasons[0] != "ping_failures" {
		t.Fatalf("reboot reasons = %v", rebooter.Reasons)
	}

	// "Next boot": the region is intact, not re-initialized, and carries the
	// incremented counter plus the accumulated powered time.
	region, firstBoot, err = store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if firstBoot {
		t.Error("region re-initialized across soft restart")
	}
	if region.PingFailures != 1 {
		t.Errorf("ping failures = %d, want 1", region.PingFailures)
	}
	if region.PoweredBaseMs != uint64(nowMs) {
		t.Errorf("powered base = %d, want %d", region.PoweredBaseMs, nowMs)
	}
}
