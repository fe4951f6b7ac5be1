// Package sensors provides one-wire temperature acquisition with validation.
// The real bus reads DS18B20-style sensors through the Linux w1 sysfs
// interface. The fake bus allows testing without hardware.
package sensors

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Bus reads raw temperatures from addressable channels by identity token.
type Bus interface {
	// ReadTemp returns the raw temperature in degrees C for the sensor at
	// the given one-wire address.
	ReadTemp(addr string) (float64, error)
}

// DefaultBusDir is the sysfs directory exposing enumerated one-wire devices.
const DefaultBusDir = "/sys/bus/w1/devices"

// OneWireBus reads temperatures from the kernel w1 therm driver. Each read
// triggers a fresh bus conversion, which takes the better part of a second;
// the sensor bus shares wiring with the switching compressor and fan loads
// and misreads under electrical noise, hence the validator in this package.
type OneWireBus struct {
	// Dir is the sysfs devices directory. Defaults to DefaultBusDir.
	Dir string
}

// NewOneWireBus returns a bus rooted at the default sysfs directory.
func NewOneWireBus() *OneWireBus {
	return &OneWireBus{Dir: DefaultBusDir}
}

// ReadTemp reads the millidegree temperature file for the addressed sensor.
func (b *OneWireBus) ReadTemp(addr string) (float64, error) {
	dir := b.Dir
	if dir == "" {
		dir = DefaultBusDir
	}
	raw, err := os.ReadFile(filepath.Join(dir, addr, "temperature"))
	if err != nil {
		return 0, fmt.Errorf("read sensor %s: %w", addr, err)
	}
	milli, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse sensor %s: %w", addr, err)
	}
	return float64(milli) / 1000.0, nil
}
