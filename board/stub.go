package board

import (
	"sync"
	"time"
)

// StubIndicator records the last state set, for tests and for
// cmd/vpwadapter when -indicator-pin is empty; it drives nothing.
type StubIndicator struct {
	mu    sync.Mutex
	On    bool
	State IndicatorState
}

func (s *StubIndicator) Set(on bool, state IndicatorState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.On, s.State = on, state
}

// StubClock is an in-memory Clock for tests and cmd/vpwadapter.
type StubClock struct {
	mu       sync.Mutex
	now      time.Time
	lostPow  bool
	begun    bool
}

// NewStubClock creates a StubClock reporting lost power until Begin is
// called, matching a real RTC chip after power loss.
func NewStubClock(now time.Time) *StubClock {
	return &StubClock{now: now, lostPow: true}
}

func (c *StubClock) Now() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now, c.lostPow
}

func (c *StubClock) Begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.begun = true
	c.lostPow = false
	return nil
}

func (c *StubClock) Adjust(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
	c.lostPow = false
	return nil
}

// StubSensors reports fixed values for tests and cmd/vpwadapter.
type StubSensors struct {
	Temp float64
	Mem  uint64
}

func (s *StubSensors) Temperature() (float64, error) { return s.Temp, nil }
func (s *StubSensors) FreeMemory() (uint64, error)   { return s.Mem, nil }

// StubSerial is an in-memory Serial for tests and -host-stub mode: writes
// accumulate in Out, and Feed queues bytes a subsequent Read drains.
type StubSerial struct {
	mu  sync.Mutex
	Out []byte
	in  []byte
	dtr bool
	dsr bool
}

func (s *StubSerial) Feed(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.in = append(s.in, b...)
}

func (s *StubSerial) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.in) == 0 {
		return 0, nil
	}
	n := copy(p, s.in)
	s.in = s.in[n:]
	return n, nil
}

func (s *StubSerial) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Out = append(s.Out, p...)
	return len(p), nil
}

func (s *StubSerial) Close() error { return nil }

func (s *StubSerial) SetDTR(v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dtr = v
	return nil
}

func (s *StubSerial) DSR() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dsr, nil
}

var (
	_ Indicator = (*StubIndicator)(nil)
	_ Clock     = (*StubClock)(nil)
	_ Sensors   = (*StubSensors)(nil)
	_ Serial    = (*StubSerial)(nil)
)
