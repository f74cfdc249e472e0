// Package assembler implements the message assembler of spec.md §4.D:
// a state machine that consumes the vpwbus token stream, reassembles
// frames, timestamps them, and enqueues validated messages, grounded
// on nfc/poller.Poller's read-classify-dispatch loop (there: bytes
// classified into tag-type decoders; here: tokens classified into
// buffer-append / emit / control-update).
package assembler

import (
	"obd2vpw.dev/frame"
	"obd2vpw.dev/syncutil"
	"obd2vpw.dev/vpwbus"
)

// Bus is the subset of *vpwbus.Bus the assembler needs: writing the
// global 4X-request flag, set or cleared on mode-switch frames and
// reset on BRK.
type Bus interface {
	Set4X(v bool)
}

// Assembler consumes a token stream and produces Messages onto Queue.
type Assembler struct {
	Queue *syncutil.Queue[*frame.Message]
	bus   Bus

	buffer []byte
	sec    uint32
	usec   uint32
	mode   frame.SpeedMode
}

// New creates an Assembler that pushes completed messages onto queue
// and drives bus's SEND_4X flag from mode-switch frames.
func New(queue *syncutil.Queue[*frame.Message], bus Bus) *Assembler {
	return &Assembler{Queue: queue, bus: bus, mode: frame.SpeedUnspecified}
}

// Run drains tokens until the channel closes, calling Step for each.
func (a *Assembler) Run(tokens <-chan vpwbus.Token) {
	for tok := range tokens {
		a.Step(tok)
	}
}

// Step processes one token and reports whether the bus is idle enough
// for a cooperative scheduler to yield to other work — true only for
// a W_EOT token observed while the assembler's buffer is empty
// (spec.md §4.D: "yield iff the bus is currently idle").
func (a *Assembler) Step(tok vpwbus.Token) (yield bool) {
	switch tok.Kind {
	case vpwbus.TokTimestamp:
		a.sec, a.usec = tok.Sec, tok.USec
	case vpwbus.TokSOF:
		a.buffer = a.buffer[:0]
	case vpwbus.TokEOF:
		a.emitFrame()
	case vpwbus.TokBRK:
		a.buffer = a.buffer[:0]
		a.bus.Set4X(false)
		a.push(frame.Annotated(a.sec, a.usec, a.mode, "[BREAK]"))
	case vpwbus.TokErrorLineStuckHigh:
		a.push(frame.Annotated(a.sec, a.usec, a.mode, "[BUS ERROR]"))
	case vpwbus.TokMode1X:
		a.mode = frame.Speed1X
	case vpwbus.TokMode4X:
		a.mode = frame.Speed4X
	case vpwbus.TokDebugString:
		a.push(frame.Annotated(a.sec, a.usec, a.mode, tok.Text))
	case vpwbus.TokDebugValue:
		a.push(frame.Annotated(a.sec, a.usec, a.mode, itoa(tok.Byte)))
	case vpwbus.TokEOT:
		return len(a.buffer) == 0
	case vpwbus.TokByte:
		a.buffer = append(a.buffer, tok.Byte)
	case vpwbus.TokEOD, vpwbus.TokErrorUnexpectedSOF, vpwbus.TokErrorUnexpectedEOF, vpwbus.TokErrorRunt:
		// Ignored on VPW (EOD) or not separately surfaced as a
		// message (the producer has already reset its own state).
	}
	return false
}

func (a *Assembler) emitFrame() {
	f := frame.New(a.buffer, true)
	msg := frame.Message{Frame: f, Sec: a.sec, USec: a.usec, Speed: a.mode}
	a.push(msg)

	if f.Target() == 0xFE {
		switch f.SecondaryAddress() {
		case 0xA1:
			a.bus.Set4X(true)
		case 0x20:
			a.bus.Set4X(false)
		}
	}
}

func (a *Assembler) push(msg frame.Message) {
	m := msg
	a.Queue.Push(&m)
}

func itoa(b byte) string {
	if b == 0 {
		return "0"
	}
	var buf [3]byte
	i := len(buf)
	for b > 0 {
		i--
		buf[i] = byte('0' + b%10)
		b /= 10
	}
	return string(buf[i:])
}
