// Package cliterm implements the per-host-port terminal loop of
// spec.md §4.H: a line editor with echo/CR-CRLF handling, DTR/DSR
// output gating, and a priority-ordered pump over host input, the
// incoming-message queue, and the notification queue.
//
// The line-accumulation state machine is designed after
// kylelemons-goat/term's TTY (character-at-a-time input accumulated
// until CR/LF, each byte echoed as it arrives when Config.E is set) but
// written fresh for this module's narrower needs: no arrow-key
// history or cursor movement, since the ELM command language has
// neither.
package cliterm

import (
	"obd2vpw.dev/board"
	"obd2vpw.dev/crc8"
	"obd2vpw.dev/elm"
	"obd2vpw.dev/frame"
	"obd2vpw.dev/syncutil"
)

const outputBufferCapacity = 64

// Session is one host serial port's terminal state. Each Session holds
// its own *elm.Interpreter but reads from the shared Automation state
// passed to it at construction.
type Session struct {
	Port        board.Serial
	Interpreter *elm.Interpreter

	Incoming      *syncutil.Queue[*frame.Message]
	Notifications *syncutil.Queue[string]

	line        []byte
	dtrAsserted bool
	buffered    []string
	waitMonitor bool
	atPrompt    bool
}

// New creates a Session over port, driving interp and consuming msgs
// from incoming (normally board.Log.Queue or the message queue fed by
// the assembler).
func New(port board.Serial, interp *elm.Interpreter, incoming *syncutil.Queue[*frame.Message]) *Session {
	return &Session{
		Port:          port,
		Interpreter:   interp,
		Incoming:      incoming,
		Notifications: &syncutil.Queue[string]{},
		dtrAsserted:   true,
	}
}

// SetDTR updates the session's view of the host-asserted DTR line.
// While deasserted, queued monitor/notification output is buffered
// rather than written, per spec.md §4.H.
func (s *Session) SetDTR(asserted bool) {
	s.dtrAsserted = asserted
	if asserted {
		s.flushBuffered()
	}
}

// queueOutput appends line to the bounded output buffer when DTR is
// deasserted (displacing the oldest entry once full), or writes it
// immediately when DTR is asserted.
func (s *Session) queueOutput(line string) {
	if !s.dtrAsserted {
		if len(s.buffered) >= outputBufferCapacity {
			s.buffered = s.buffered[1:]
		}
		s.buffered = append(s.buffered, line)
		return
	}
	s.write(line)
}

func (s *Session) flushBuffered() {
	pending := s.buffered
	s.buffered = nil
	for _, line := range pending {
		s.write(line)
	}
}

func (s *Session) write(line string) {
	term := "\r"
	if s.Interpreter.Config.L {
		term = "\r\n"
	}
	s.Port.Write([]byte(line + term))
	s.atPrompt = false
}

func (s *Session) prompt() {
	if s.atPrompt {
		return
	}
	s.Port.Write([]byte("\r\n>"))
	s.atPrompt = true
}

// PumpOnce runs one iteration of the priority-ordered loop: host input
// first, then one incoming message, then one notification — matching
// spec.md §4.H's "(a) host input bytes, (b) the incoming message
// queue, (c) the notifications queue, in that priority order."
func (s *Session) PumpOnce() {
	if s.pumpHostInput() {
		return
	}
	if s.pumpIncoming() {
		return
	}
	s.pumpNotification()
}

func (s *Session) pumpHostInput() bool {
	var buf [256]byte
	n, err := s.Port.Read(buf[:])
	if err != nil || n == 0 {
		return false
	}
	for _, b := range buf[:n] {
		s.feed(b)
	}
	return true
}

// feed processes one byte of host input per spec.md §4.H: echoed if
// Config.E, accumulated until CR/LF, then dispatched.
func (s *Session) feed(b byte) {
	if b == '\r' || b == '\n' {
		if s.Interpreter.Config.E {
			s.Port.Write([]byte{b})
		}
		line := string(s.line)
		s.line = s.line[:0]
		if line == "" {
			s.prompt()
			return
		}
		s.waitMonitor = false
		resp := s.Interpreter.Handle(line)
		s.write(resp)
		s.prompt()
		return
	}
	if s.Interpreter.Config.E {
		s.Port.Write([]byte{b})
	}
	s.line = append(s.line, b)
}

func (s *Session) pumpIncoming() bool {
	msg, ok := s.Incoming.TryPull()
	if !ok {
		return false
	}
	if s.waitMonitor {
		return true
	}
	if line, ok := s.Interpreter.FormatMonitorLine(msg); ok {
		s.queueOutput(line)
	}
	if s.Interpreter.Responder != nil && s.Interpreter.Bus != nil {
		for _, reply := range s.Interpreter.Responder.Consider(msg) {
			s.transmitReply(reply)
		}
	}
	return true
}

// transmitReply sends one programmatic-response payload. automation's
// Responder hands back the raw value bytes only (it has no notion of
// Config), so the session's own header (Config.SH) is prepended here,
// and the CRC byte appended iff Config.CRC ("subject to autoCRC",
// spec.md scenario S3) — the same two steps a host-originated ATSH+
// hex-send would go through before reaching Bus.Send.
func (s *Session) transmitReply(reply frame.Frame) {
	sh := s.Interpreter.Config.SH
	raw := append([]byte{sh[0], sh[1], sh[2]}, reply.Raw()...)
	if s.Interpreter.Config.CRC {
		raw = crc8.Append(raw)
	}
	s.Interpreter.Bus.Send(frame.New(raw, false), true, s.Interpreter.Bus.Send4X())
}

func (s *Session) pumpNotification() bool {
	if !s.Interpreter.Config.N {
		return false
	}
	note, ok := s.Notifications.TryPull()
	if !ok {
		return false
	}
	s.queueOutput(note)
	return true
}
