package control

import "testing"

var testDecay = Decay{
	HighToMedMs: 90_000,
	MedToLowMs:  180_000,
	LowToOffMs:  300_000,
}

func testMachine() *Machine {
	return &Machine{Thresholds: testThresholds, Decay: testDecay}
}

// warmTemps keeps the hysteresis control in its Hold band: safe evaporator,
// outlet between Off and the engagement threshold.
func warmTemps() Temps {
	return Temps{Evaporator: valid(8), Outlet: valid(11)}
}

func TestCoolCommandStagesThroughStandby(t *testing.T) {
	m := testMachine()

	tests := []struct {
		name  string
		state ApplianceState
		cmd   Command
		want  ApplianceState
	}{
		{"power off to standby high", PowerOff, CmdCoolHigh, StandbyHigh},
		{"power off to standby med", PowerOff, CmdCoolMed, StandbyMed},
		{"power off to standby low", PowerOff, CmdCoolLow, StandbyLow},
		{"standby high to cool high", StandbyHigh, CmdCoolHigh, CoolHigh},
		{"standby med to cool med", StandbyMed, CmdCoolMed, CoolMed},
		{"standby low to cool low", StandbyLow, CmdCoolLow, CoolLow},
		{"wrong standby tier restages", StandbyLow, CmdCoolHigh, StandbyHigh},
		{"cool tier change restages", CoolHigh, CmdCoolLow, StandbyLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := m.Next(tt.state, tt.cmd, warmTemps(), false, 0)
			if d.Next != tt.want {
				t.Errorf("Next(%s, %s) = %s, want %s", tt.state, tt.cmd, d.Next, tt.want)
			}
		})
	}
}

func TestCoolEntryNeverEngagesCompressor(t *testing.T) {
	m := testMachine()

	// Staging into a standby tier forces the compressor off.
	d := m.Next(PowerOff, CmdCoolHigh, warmTemps(), false, 0)
	if d.Compressor != ComprOff {
		t.Errorf("staging transition: compressor = %v, want ComprOff", d.Compressor)
	}

	// Standby to cool leaves the compressor untouched; engagement is a
	// separate decision on the next evaluation.
	d = m.Next(StandbyHigh, CmdCoolHigh, warmTemps(), false, 0)
	if d.Next != CoolHigh {
		t.Fatalf("expected CoolHigh, got %s", d.Next)
	}
	if d.Compressor != ComprHold {
		t.Errorf("standby->cool: compressor = %v, want ComprHold", d.Compressor)
	}
}

func TestHysteresisTurnsCompressorOn(t *testing.T) {
	m := testMachine()
	// Outlet above the engagement threshold, evaporator safe and warm.
	temps := Temps{Evaporator: valid(20), Outlet: valid(25)}

	d := m.Next(CoolHigh, CmdCoolHigh, temps, false, 0)
	if d.Next != CoolHigh {
		t.Fatalf("state changed unexpectedly to %s", d.Next)
	}
	if d.Compressor != ComprOn {
		t.Errorf("compressor = %v, want ComprOn", d.Compressor)
	}
}

func TestHysteresisTurnsCompressorOff(t *testing.T) {
	m := testMachine()
	// Outlet at the off threshold.
	temps := Temps{Evaporator: valid(8), Outlet: valid(10)}

	d := m.Next(CoolHigh, CmdCoolHigh, temps, true, 0)
	if d.Next != CoolHigh {
		t.Fatalf("state changed unexpectedly to %s", d.Next)
	}
	if d.Compressor != ComprOff {
		t.Errorf("compressor = %v, want ComprOff", d.Compressor)
	}
}

func TestHysteresisOffPriority(t *testing.T) {
	m := testMachine()
	// Force both conditions at once: outlet below Off yet evaporator unsafe
	// readings make the on-condition impossible to honor anyway; and a case
	// where outlet sits at Off while also above a collapsed engagement
	// threshold. Off must win.
	th := testThresholds
	th.Off = 20
	th.On = 20
	mm := &Machine{Thresholds: th, Decay: testDecay}
	temps := Temps{Evaporator: valid(40), Outlet: valid(20)}

	d := mm.Next(CoolHigh, CmdCoolHigh, temps, true, 0)
	if d.Compressor != ComprOff {
		t.Errorf("compressor = %v, want ComprOff (off has priority)", d.Compressor)
	}
	_ = m
}

func TestCompressorNeverEngagesWhenUnsafe(t *testing.T) {
	m := testMachine()

	unsafeTemps := []Temps{
		{Evaporator: invalid(), Outlet: invalid()},
		{Evaporator: valid(-8), Outlet: valid(30)},
		{Evaporator: valid(-3), Outlet: valid(30)}, // below off-mode floor
		{Evaporator: valid(5), Outlet: valid(0)},
	}

	for _, temps := range unsafeTemps {
		for _, comprOn := range []bool{false, true} {
			if m.Thresholds.EvaporatorSafe(temps, comprOn) {
				continue // only exercising unsafe combinations
			}
			d := m.Next(CoolHigh, CmdCoolHigh, temps, comprOn, 0)
			if d.Compressor == ComprOn {
				t.Errorf("compressor engaged while unsafe: temps=%+v comprOn=%v", temps, comprOn)
			}
		}
	}
}

func TestOffStepsCoolDownToStandby(t *testing.T) {
	m := testMachine()

	tests := []struct {
		state, want ApplianceState
	}{
		{CoolHigh, StandbyHigh},
		{CoolMed, StandbyMed},
		{CoolLow, StandbyLow},
	}
	for _, tt := range tests {
		d := m.Next(tt.state, CmdOff, warmTemps(), true, 1_000_000)
		if d.Next != tt.want {
			t.Errorf("OFF from %s = %s, want %s (never directly to POWER_OFF)", tt.state, d.Next, tt.want)
		}
		if d.Compressor != ComprOff {
			t.Errorf("OFF from %s: compressor = %v, want ComprOff", tt.state, d.Compressor)
		}
	}
}

func TestStandbyDecayHonorsIntervals(t *testing.T) {
	m := testMachine()

	tests := []struct {
		name    string
		state   ApplianceState
		elapsed int64
		want    ApplianceState
	}{
		{"high before interval", StandbyHigh, 89_999, StandbyHigh},
		{"high at interval", StandbyHigh, 90_000, StandbyMed},
		{"med before interval", StandbyMed, 179_999, StandbyMed},
		{"med at interval", StandbyMed, 180_000, StandbyLow},
		{"low before interval", StandbyLow, 299_999, StandbyLow},
		{"low at interval", StandbyLow, 300_000, PowerOff},
		{"power off stays", PowerOff, 1_000_000, PowerOff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := m.Next(tt.state, CmdOff, warmTemps(), false, tt.elapsed)
			if d.Next != tt.want {
				t.Errorf("OFF from %s after %dms = %s, want %s", tt.state, tt.elapsed, d.Next, tt.want)
			}
		})
	}
}

func TestStandbyDecayIsMonotonicOneDirectional(t *testing.T) {
	m := testMachine()

	// Walk the full decay under continuous OFF: each step moves exactly one
	// tier, never skipping and never reversing, even with huge elapsed time.
	state := StandbyHigh
	want := []ApplianceState{StandbyMed, StandbyLow, PowerOff}
	for i, expected := range want {
		d := m.Next(state, CmdOff, warmTemps(), false, 10_000_000)
		if d.Next != expected {
			t.Fatalf("step %d: decay from %s = %s, want %s", i, state, d.Next, expected)
		}
		state = d.Next
	}

	// Terminal state holds.
	d := m.Next(state, CmdOff, warmTemps(), false, 10_000_000)
	if d.Next != PowerOff {
		t.Errorf("POWER_OFF decayed to %s", d.Next)
	}
}

func TestKillReachesSafetyInOneTransition(t *testing.T) {
	m := testMachine()

	all := []ApplianceState{PowerOff, CoolHigh, CoolMed, CoolLow, StandbyHigh, StandbyMed, StandbyLow}
	for _, state := range all {
		d := m.Next(state, CmdKill, warmTemps(), true, 0)
		if d.Next.IsCool() {
			t.Errorf("KILL from %s landed in cool tier %s", state, d.Next)
		}
		if state.IsCool() && d.Next != StandbyFor(state) {
			t.Errorf("KILL from %s = %s, want %s", state, d.Next, StandbyFor(state))
		}
		if !state.IsCool() && d.Next != PowerOff {
			t.Errorf("KILL from %s = %s, want POWER_OFF", state, d.Next)
		}
		if d.Compressor != ComprOff {
			t.Errorf("KILL from %s: compressor = %v, want ComprOff", state, d.Compressor)
		}
	}
}

func TestFanOnlyCommands(t *testing.T) {
	m := testMachine()

	tests := []struct {
		cmd  Command
		want ApplianceState
	}{
		{CmdFanHigh, StandbyHigh},
		{CmdFanMed, StandbyMed},
		{CmdFanLow, StandbyLow},
	}
	all := []ApplianceState{PowerOff, CoolHigh, CoolMed, CoolLow, StandbyHigh, StandbyMed, StandbyLow}

	for _, tt := range tests {
		for _, state := range all {
			d := m.Next(state, tt.cmd, warmTemps(), true, 0)
			if d.Next != tt.want {
				t.Errorf("%s from %s = %s, want %s", tt.cmd, state, d.Next, tt.want)
			}
			if d.Compressor != ComprOff {
				t.Errorf("%s from %s: compressor = %v, want ComprOff", tt.cmd, state, d.Compressor)
			}
		}
	}
}

func TestNextIsIdempotentUnderStableInput(t *testing.T) {
	m := testMachine()

	all := []ApplianceState{PowerOff, CoolHigh, CoolMed, CoolLow, StandbyHigh, StandbyMed, StandbyLow}
	cmds := []Command{CmdOff, CmdCoolHigh, CmdCoolMed, CmdCoolLow, CmdKill, CmdFanHigh, CmdFanMed, CmdFanLow}

	for _, state := range all {
		for _, cmd := range cmds {
			for _, comprOn := range []bool{false, true} {
				first := m.Next(state, cmd, warmTemps(), comprOn, 42_000)
				second := m.Next(state, cmd, warmTemps(), comprOn, 42_000)
				if first != second {
					t.Errorf("Next(%s, %s, on=%v) not idempotent: %+v vs %+v", state, cmd, comprOn, first, second)
				}
			}
		}
	}
}

func TestParseCommandRoundTrip(t *testing.T) {
	cmds := []Command{CmdOff, CmdCoolHigh, CmdCoolMed, CmdCoolLow, CmdKill, CmdFanHigh, CmdFanMed, CmdFanLow}
	for _, cmd := range cmds {
		got, ok := ParseCommand(cmd.Code())
		if !ok {
			t.Errorf("ParseCommand(%q) rejected", cmd.Code())
		}
		if got != cmd {
			t.Errorf("ParseCommand(%q) = %s, want %s", cmd.Code(), got, cmd)
		}
	}
}

func TestParseCommandRejectsUnknown(t *testing.T) {
	for _, code := range []byte{'x', 'z', '0', ' ', '?'} {
		if _, ok := ParseCommand(code); ok {
			t.Errorf("ParseCommand(%q) accepted", code)
		}
	}
}

func TestFanFor(t *testing.T) {
	tests := []struct {
		state ApplianceState
		want  FanState
	}{
		{PowerOff, FanOff},
		{CoolHigh, FanHigh},
		{CoolMed, FanMed},
		{CoolLow, FanLow},
		{StandbyHigh, FanHigh},
		{StandbyMed, FanMed},
		{StandbyLow, FanLow},
	}
	for _, tt := range tests {
		if got := FanFor(tt.state); got != tt.want {
			t.Errorf("FanFor(%s) = %s, want %s", tt.state, got, tt.want)
		}
	}
}
