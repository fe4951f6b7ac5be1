package sensors

import "fmt"

// FakeBus is a test double that returns scripted temperature samples per
// address. Each call to ReadTemp consumes the next sample for that address;
// when samples are exhausted, the last one repeats.
type FakeBus struct {
	// Samples contains scripted readings keyed by sensor address.
	Samples map[string][]float64

	// ReadError, if set, will be returned by every ReadTemp call.
	ReadError error

	// Reads counts ReadTemp calls per address.
	Reads map[string]int

	index map[string]int
}

// NewFakeBus creates a FakeBus with the given scripted samples.
func NewFakeBus(samples map[string][]float64) *FakeBus {
	return &FakeBus{
		Samples: samples,
		Reads:   make(map[string]int),
		index:   make(map[string]int),
	}
}

// ReadTemp returns the next scripted sample for the address.
func (f *FakeBus) ReadTemp(addr string) (float64, error) {
	f.Reads[addr]++
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	samples, ok := f.Samples[addr]
	if !ok || len(samples) == 0 {
		return 0, fmt.Errorf("no samples configured for %s", addr)
	}
	sample := samples[f.index[addr]]
	if f.index[addr] < len(samples)-1 {
		f.index[addr]++
	}
	return sample, nil
}

// Reset rewinds all addresses to their first sample.
func (f *FakeBus) Reset() {
	f.index = make(map[string]int)
	f.Reads = make(map[string]int)
}
