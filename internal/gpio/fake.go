package gpio

// Transition records a single output change for test assertions.
type Transition struct {
	Line Line
	On   bool
}

// FakeOutputs is a test double recording every Set call in order, so tests
// can assert de-energize-before-energize sequencing.
type FakeOutputs struct {
	// Values holds the current level of each line.
	Values map[Line]bool

	// Transitions records every Set call in order.
	Transitions []Transition

	// SetError, if set, will be returned by Set.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeOutputs creates a FakeOutputs with all lines de-energized.
func NewFakeOutputs() *FakeOutputs {
	return &FakeOutputs{Values: make(map[Line]bool)}
}

// Set records the transition and updates the line level.
func (f *FakeOutputs) Set(line Line, on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Values[line] = on
	f.Transitions = append(f.Transitions, Transition{Line: line, On: on})
	return nil
}

// Close marks the outputs as closed.
func (f *FakeOutputs) Close() error {
	f.Closed = true
	return nil
}

// EnergizedCount returns how many lines are currently high.
func (f *FakeOutputs) EnergizedCount() int {
	n := 0
	for _, on := range f.Values {
		if on {
			n++
		}
	}
	return n
}

// Reset clears recorded transitions and levels.
func (f *FakeOutputs) Reset() {
	f.Values = make(map[Line]bool)
	f.Transitions = nil
	f.Closed = false
	f.SetError = nil
}
