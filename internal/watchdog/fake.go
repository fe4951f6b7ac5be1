package watchdog

import "context"

// FakeProber returns scripted probe results. Each call consumes the next
// entry; when exhausted, the last entry repeats.
type FakeProber struct {
	Results []error
	Calls   int

	index int
}

// Probe returns the next scripted result.
func (f *FakeProber) Probe(ctx context.Context) error {
	f.Calls++
	if len(f.Results) == 0 {
		return nil
	}
	r := f.Results[f.index]
	if f.index < len(f.Results)-1 {
		f.index++
	}
	return r
}

// FakeLink reports a fixed link state.
type FakeLink struct {
	IsUp bool
	Err  error
}

// Up returns the configured state.
func (f *FakeLink) Up() (bool, error) {
	return f.IsUp, f.Err
}

// FakeRebooter records restart requests instead of restarting.
type FakeRebooter struct {
	Reasons []string
}

// Reboot records the reason.
func (f *FakeRebooter) Reboot(reason string) {
	f.Reasons = append(f.Reasons, reason)
}
