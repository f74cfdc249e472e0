//go:build linux && !tinygo

package board

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// modemFD is a second, independent handle onto the same tty device
// used only for TIOCM* modem-line ioctls: tarm/serial.Port does not
// expose the file descriptor it owns, so DTR/DSR control is done
// through a side channel rather than through the Port itself,
// mirroring how github.com/daedaluz/goserial layers its ModemLine
// ioctls over a raw fd rather than a buffered port abstraction.
type modemFD struct {
	f *os.File
}

func openModemFD(path string) (*modemFD, error) {
	f, err := os.OpenFile(path, os.O_RDWR|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("board: open modem control: %w", err)
	}
	return &modemFD{f: f}, nil
}

func (m *modemFD) setDTR(v bool) error {
	req := uint(unix.TIOCMBIS)
	if !v {
		req = uint(unix.TIOCMBIC)
	}
	return unix.IoctlSetInt(int(m.f.Fd()), req, unix.TIOCM_DTR)
}

func (m *modemFD) dsr() (bool, error) {
	bits, err := unix.IoctlGetInt(int(m.f.Fd()), unix.TIOCMGET)
	if err != nil {
		return false, err
	}
	return bits&unix.TIOCM_DSR != 0, nil
}

func (s *SerialPort) SetDTR(v bool) error {
	m, err := openModemFD(s.name)
	if err != nil {
		return err
	}
	defer m.f.Close()
	return m.setDTR(v)
}

func (s *SerialPort) DSR() (bool, error) {
	m, err := openModemFD(s.name)
	if err != nil {
		return false, err
	}
	defer m.f.Close()
	return m.dsr()
}
