package vpwbus

import (
	"sync/atomic"

	"obd2vpw.dev/frame"
)

// LineState is the producer's state per spec.md §4.C.
type LineState int

const (
	StateIdle LineState = iota
	StateInFrame
)

// Transceiver is the hardware boundary a real PIO-backed VPW line
// driver satisfies. It is never implemented in this module (the PIO
// programs are explicitly out of scope, per spec.md §1); Simulator
// below is the host-side stand-in used for development and tests.
type Transceiver interface {
	// LineEvents delivers raw line events as they're sampled. The
	// channel is closed when the transceiver is closed.
	LineEvents() <-chan LineEvent
	// TransmitByte clocks one byte onto the bus using the active
	// encoding and reports whether the monitored echo matched.
	TransmitByte(b byte) (echoOK bool, err error)
	// Idle reports whether the bus is currently idle (used for
	// arbitration sampling before a send).
	Idle() bool
}

// LineEventKind classifies a sampled line event.
type LineEventKind int

const (
	EvSOF LineEventKind = iota
	EvDataByte
	EvEOD
	EvEOF
	EvBreak
	EvUnexpectedSOF
	EvUnexpectedEOF
	EvLineStuckHigh
	EvRunt
	EvMode1X
	EvMode4X
	EvIdleTimeout
)

// LineEvent is one hardware-layer event sampled off the bus.
type LineEvent struct {
	Kind LineEventKind
	Byte byte
}

// Bus drives the producer state machine of spec.md §4.C over a
// Transceiver, emitting Tokens for the assembler to consume.
type Bus struct {
	xcvr         Transceiver
	state        LineState
	useTimestamp bool
	// send4X mirrors the spec's process-wide SEND_4X flag: a plain
	// atomic, written only by the assembler (via Set4X) and read by
	// the transmit path, matching spec.md §5's "relaxed memory order
	// suffices because only one writer at a time" note.
	send4X atomic.Bool
}

// New creates a Bus driving xcvr. useTimestamp controls whether a
// timestamp prelude is emitted on SOF.
func New(xcvr Transceiver, useTimestamp bool) *Bus {
	return &Bus{xcvr: xcvr, state: StateIdle, useTimestamp: useTimestamp}
}

// Send4X reports the current value of the global 4X-speed-request
// flag.
func (b *Bus) Send4X() bool { return b.send4X.Load() }

// Set4X sets the global 4X-speed-request flag. Called by the
// assembler on mode-switch frames and reset to false on BRK.
func (b *Bus) Set4X(v bool) { b.send4X.Store(v) }

// Tokens runs the producer state machine over the transceiver's line
// events and returns a channel of Tokens for the assembler. The
// channel is closed when the transceiver's event channel closes.
func (b *Bus) Tokens(now func() (sec, usec uint32)) <-chan Token {
	out := make(chan Token, 64)
	go func() {
		defer close(out)
		for ev := range b.xcvr.LineEvents() {
			b.step(ev, out, now)
		}
	}()
	return out
}

func (b *Bus) step(ev LineEvent, out chan<- Token, now func() (sec, usec uint32)) {
	switch ev.Kind {
	case EvSOF:
		switch b.state {
		case StateIdle:
			if b.useTimestamp && now != nil {
				s, u := now()
				out <- Token{Kind: TokTimestamp, Sec: s, USec: u}
			}
			out <- Token{Kind: TokSOF}
			b.state = StateInFrame
		default:
			out <- Token{Kind: TokErrorUnexpectedSOF}
			b.state = StateIdle
		}
	case EvDataByte:
		out <- Token{Kind: TokByte, Byte: ev.Byte}
	case EvEOD:
		out <- Token{Kind: TokEOD}
	case EvEOF:
		if b.state == StateInFrame {
			out <- Token{Kind: TokEOF}
			b.state = StateIdle
		} else {
			out <- Token{Kind: TokErrorUnexpectedEOF}
			b.state = StateIdle
		}
	case EvBreak:
		out <- Token{Kind: TokBRK}
		b.state = StateIdle
	case EvUnexpectedSOF:
		out <- Token{Kind: TokErrorUnexpectedSOF}
		b.state = StateIdle
	case EvUnexpectedEOF:
		out <- Token{Kind: TokErrorUnexpectedEOF}
		b.state = StateIdle
	case EvLineStuckHigh:
		out <- Token{Kind: TokErrorLineStuckHigh}
		b.state = StateIdle
	case EvRunt:
		out <- Token{Kind: TokErrorRunt}
	case EvMode1X:
		out <- Token{Kind: TokMode1X}
	case EvMode4X:
		out <- Token{Kind: TokMode4X}
	case EvIdleTimeout:
		if b.state == StateIdle {
			out <- Token{Kind: TokEOT}
		}
	}
}

// SendStatus is the result of a transmit attempt, the Go analogue of
// the original sendVPW_status_t.
type SendStatus int

const (
	StatusOK SendStatus = iota
	StatusCongestion
	StatusInvalidCRC
	StatusTooShort
	StatusTooLong
	StatusNoEcho
	StatusStillSending
)

func (s SendStatus) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusCongestion:
		return "BUS BUSY"
	case StatusInvalidCRC:
		return "DATA ERROR"
	case StatusTooShort:
		return "DATA ERROR"
	case StatusTooLong:
		return "DATA ERROR"
	case StatusNoEcho:
		return "NO DATA"
	case StatusStillSending:
		return "BUS BUSY"
	default:
		return "?"
	}
}

const (
	minFrameLen = 5
	maxFrame1X  = 12
)

// Send transmits frame per spec.md §4.C's send() contract: reject
// unless allowInvalid or frame.Valid(); enforce the 1X length bounds
// (4X frames may exceed them); arbitrate by sampling the line; clock
// bytes out, confirming echo bit-by-bit.
func (b *Bus) Send(f frame.Frame, allowInvalid, send4X bool) SendStatus {
	raw := f.Raw()
	if !allowInvalid && !f.Valid() {
		return StatusInvalidCRC
	}
	if len(raw) < minFrameLen {
		return StatusTooShort
	}
	if !send4X && len(raw) > maxFrame1X {
		return StatusTooLong
	}
	if !b.xcvr.Idle() {
		return StatusCongestion
	}
	for _, by := range raw {
		ok, err := b.xcvr.TransmitByte(by)
		if err != nil {
			return StatusStillSending
		}
		if !ok {
			return StatusNoEcho
		}
	}
	return StatusOK
}
