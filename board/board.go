// Package board models the external collaborators of spec.md §6 as
// small interfaces, each with a host-side stub used by cmd/vpwadapter's
// dry-run mode and by tests, grounded on driver/wshat (a GPIO-backed
// collaborator exposed through a clean boundary rather than touched
// directly by callers) and driver/otp (hardware register access hidden
// behind a narrow Go interface).
package board

import "time"

// IndicatorState names the bus condition an Indicator lights for.
type IndicatorState int

const (
	StateReceive IndicatorState = iota
	StateSOF
	StateEOF
	StateEOT
	StateSend
	StateCongestion
)

// Indicator is the LED/pixel callback of spec.md §6.
type Indicator interface {
	Set(on bool, state IndicatorState)
}

// Clock is the RTC collaborator: Now reports the current time and
// whether the clock lost power (spec.md's lost_power), Begin
// initializes the chip, Adjust sets it.
type Clock interface {
	Now() (time.Time, bool)
	Begin() error
	Adjust(t time.Time) error
}

// Sensors backs ATCT/ATMEM.
type Sensors interface {
	Temperature() (float64, error)
	FreeMemory() (uint64, error)
}

// Serial is the host wire transport: on real hardware a UART, on the
// host build github.com/tarm/serial.
type Serial interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
	SetDTR(v bool) error
	DSR() (bool, error)
}
