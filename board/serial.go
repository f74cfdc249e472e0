//go:build !tinygo

package board

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/tarm/serial"
)

// SerialPort is the host build's Serial backend, grounded on
// driver/mjolnir.Open's devices-to-try-in-order fallback idiom.
// DTR/DSR control is handled by the platform-specific modem-line
// helpers in serial_linux.go; on platforms without one, SetDTR/DSR
// are no-ops/unsupported, matching tarm/serial's own lack of a
// portable modem-control API.
type SerialPort struct {
	*serial.Port
	name string
}

// OpenSerial opens dev at baud, or tries the platform's default device
// names if dev is empty.
func OpenSerial(dev string, baud int) (*SerialPort, error) {
	var devices []string
	if dev != "" {
		devices = append(devices, dev)
	} else {
		switch runtime.GOOS {
		case "windows":
			devices = append(devices, "COM3")
		case "linux":
			devices = append(devices, "/dev/ttyUSB0", "/dev/ttyUSB1", "/dev/ttyACM0")
		}
	}
	if len(devices) == 0 {
		return nil, errors.New("board: no serial device specified")
	}
	var firstErr error
	for _, d := range devices {
		p, err := serial.OpenPort(&serial.Config{Name: d, Baud: baud})
		if err == nil {
			return &SerialPort{Port: p, name: d}, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("board: open serial: %w", firstErr)
}

var _ Serial = (*SerialPort)(nil)
