//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealOutputs drives relays through the Linux GPIO character device.
type RealOutputs struct {
	chip  *gpiocdev.Chip
	lines map[Line]*gpiocdev.Line
}

// NewRealOutputs requests all actuator lines as de-energized outputs.
func NewRealOutputs(pins Pins) (*RealOutputs, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	o := &RealOutputs{chip: chip, lines: make(map[Line]*gpiocdev.Line)}
	for line, pin := range map[Line]int{
		LineCompressor: pins.Compressor,
		LineFanLow:     pins.FanLow,
		LineFanMed:     pins.FanMed,
		LineFanHigh:    pins.FanHigh,
	} {
		// Request as output driven low so nothing energizes at startup.
		l, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			o.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", line, pin, err)
		}
		o.lines[line] = l
	}
	return o, nil
}

// Set drives a line high (energized) or low.
func (o *RealOutputs) Set(line Line, on bool) error {
	l, ok := o.lines[line]
	if !ok {
		return fmt.Errorf("unknown line %v", line)
	}
	v := 0
	if on {
		v = 1
	}
	if err := l.SetValue(v); err != nil {
		return fmt.Errorf("set %s: %w", line, err)
	}
	return nil
}

// Close de-energizes every line before releasing it, so a daemon restart
// never leaves a winding or the compressor held on.
func (o *RealOutputs) Close() error {
	var errs []error
	for line, l := range o.lines {
		if err := l.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", line, err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", line, err))
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
