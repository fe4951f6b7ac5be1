package mqtt

// FakePublisher records published telemetry for test assertions.
type FakePublisher struct {
	// Transitions holds every published state-change event in order.
	Transitions []TransitionEvent
	// Payloads holds the serialized form of each transition.
	Payloads [][]byte
	// SystemEvents holds every published lifecycle event in order.
	SystemEvents []SystemEvent

	// PublishError and PublishSystemError inject failures.
	PublishError       error
	PublishSystemError error

	// Connected controls IsConnected; Closed tracks Close.
	Connected bool
	Closed    bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// PublishTransition records the transition event and its payload.
func (f *FakePublisher) PublishTransition(event TransitionEvent) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Transitions = append(f.Transitions, event)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// PublishSystem records the lifecycle event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	f.SystemEvents = append(f.SystemEvents, event)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports the configured connectivity.
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears all recorded telemetry and injected errors.
func (f *FakePublisher) Reset() {
	*f = FakePublisher{}
}
