// Package gpio provides relay output control with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Line identifies one actuator output.
type Line int

const (
	LineCompressor Line = iota
	LineFanLow
	LineFanMed
	LineFanHigh
)

func (l Line) String() string {
	switch l {
	case LineCompressor:
		return "compressor"
	case LineFanLow:
		return "fan_low"
	case LineFanMed:
		return "fan_med"
	case LineFanHigh:
		return "fan_high"
	default:
		return "unknown"
	}
}

// Outputs drives the actuator relay lines. All lines are active-high.
type Outputs interface {
	// Set energizes (true) or de-energizes (false) a line.
	Set(line Line, on bool) error

	// Close de-energizes everything and releases GPIO resources.
	Close() error
}

// Pins maps actuator lines to BCM pin numbers.
type Pins struct {
	Compressor int
	FanLow     int
	FanMed     int
	FanHigh    int
}

// DefaultPins are the stock pin assignments (BCM numbering).
var DefaultPins = Pins{
	Compressor: 17,
	FanLow:     22,
	FanMed:     23,
	FanHigh:    24,
}
