package vpwbus

import "sync"

// Simulator is a host-side stand-in for a PIO-backed Transceiver,
// grounded on driver/mjolnir.Simulator: callers inject line events on
// one side and observe transmitted bytes on the other, synchronously,
// so tests can drive the producer state machine and the send path
// without real hardware.
type Simulator struct {
	events chan LineEvent

	mu          sync.Mutex
	idle        bool
	echoOK      bool
	transmitted []byte
	closed      bool
}

// NewSimulator creates a Simulator that starts idle with echo
// confirmation enabled.
func NewSimulator() *Simulator {
	return &Simulator{
		events: make(chan LineEvent, 256),
		idle:   true,
		echoOK: true,
	}
}

// Inject pushes a line event as if sampled from the bus.
func (s *Simulator) Inject(ev LineEvent) {
	s.events <- ev
}

// InjectFrame injects the full event sequence for a frame: SOF, one
// EvDataByte per byte, EOF.
func (s *Simulator) InjectFrame(data []byte) {
	s.Inject(LineEvent{Kind: EvSOF})
	for _, b := range data {
		s.Inject(LineEvent{Kind: EvDataByte, Byte: b})
	}
	s.Inject(LineEvent{Kind: EvEOF})
}

// Close stops further delivery; it is idempotent.
func (s *Simulator) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.events)
}

func (s *Simulator) LineEvents() <-chan LineEvent {
	return s.events
}

// SetIdle controls what Idle() reports, for exercising the
// arbitration/congestion path.
func (s *Simulator) SetIdle(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idle = v
}

func (s *Simulator) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idle
}

// SetEchoOK controls whether TransmitByte reports a matching echo, for
// exercising the NO_ECHO status.
func (s *Simulator) SetEchoOK(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.echoOK = v
}

func (s *Simulator) TransmitByte(b byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transmitted = append(s.transmitted, b)
	return s.echoOK, nil
}

// Transmitted returns and clears the bytes sent via TransmitByte so
// far.
func (s *Simulator) Transmitted() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.transmitted
	s.transmitted = nil
	return out
}

var _ Transceiver = (*Simulator)(nil)
