//go:build linux && !tinygo

package board

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PeriphIndicator drives a single GPIO-backed LED, grounded on
// driver/wshat's host.Init()-then-pin-handle setup (there: buttons
// read as gpio.PinIn; here: one status LED driven as gpio.PinOut).
// Unlike wshat's fixed bcm283x pin table, the pin is looked up by name
// through gpioreg so the same binary runs on any periph.io-supported
// board without a pin-constant table per platform.
type PeriphIndicator struct {
	pin gpio.PinOut
}

// OpenPeriphIndicator initializes the periph.io host drivers and binds
// the named GPIO pin (e.g. "GPIO21") as an output.
func OpenPeriphIndicator(pinName string) (*PeriphIndicator, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("board: periph host init: %w", err)
	}
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("board: no such gpio pin %q", pinName)
	}
	return &PeriphIndicator{pin: pin}, nil
}

// Set drives the LED on or off. state is accepted for interface
// compatibility with other Indicator implementations (e.g. an RGB
// pixel that varies color by state); a single LED only varies
// brightness/on-off, so state is otherwise unused here.
func (p *PeriphIndicator) Set(on bool, state IndicatorState) {
	level := gpio.Low
	if on {
		level = gpio.High
	}
	p.pin.Out(level)
}

var _ Indicator = (*PeriphIndicator)(nil)
