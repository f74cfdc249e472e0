// Package frame implements the SAE J1850 VPW frame and message model:
// an immutable byte-oriented frame with header-field accessors, and a
// Message wrapping a Frame with timestamp and speed-mode metadata.
package frame

import (
	"fmt"

	"obd2vpw.dev/crc8"
)

// Frame is an immutable J1850 VPW frame. The zero Frame is invalid and
// empty.
type Frame struct {
	raw   []byte
	valid bool
}

// New builds a Frame from raw bytes, checking the trailing CRC-8/VPW
// byte iff checkCRC is set. A Frame is valid only if it has at least 5
// bytes (header + primary address + at least one data byte + CRC) and,
// when checkCRC is set, the CRC matches.
func New(raw []byte, checkCRC bool) Frame {
	cp := append([]byte(nil), raw...)
	valid := len(cp) >= 5
	if valid && checkCRC {
		valid = crc8.Valid(cp)
	}
	return Frame{raw: cp, valid: valid}
}

// Raw returns the frame's bytes. The caller must not modify the
// returned slice.
func (f Frame) Raw() []byte { return f.raw }

// Valid reports whether the frame passed construction-time validation.
func (f Frame) Valid() bool { return f.valid }

// Len returns the number of bytes in the frame.
func (f Frame) Len() int { return len(f.raw) }

// HeaderLength is 1 for a GM-style short header (bit 4 of byte 0 set),
// else 3 for the standard 3-byte header.
func (f Frame) HeaderLength() int {
	if len(f.raw) == 0 {
		return 3
	}
	if f.raw[0]&0x10 != 0 {
		return 1
	}
	return 3
}

// Hdr is the first (mode) byte of the frame.
func (f Frame) Hdr() byte { return f.byteAt(0) }

// Target is the destination address byte.
func (f Frame) Target() byte { return f.byteAt(1) }

// Source is the source address byte.
func (f Frame) Source() byte { return f.byteAt(2) }

// SecondaryAddress is the fourth byte, present on physically addressed
// frames that carry a sub-address (e.g. the mode-switch frames to
// target 0xFE).
func (f Frame) SecondaryAddress() byte { return f.byteAt(3) }

// ExtendedAddress is the fifth byte, present iff IsExtended.
func (f Frame) ExtendedAddress() byte { return f.byteAt(4) }

// Priority is the 3-bit priority field of the header byte.
func (f Frame) Priority() byte { return f.Hdr() >> 5 }

// Type is the 2-bit message-type field of the header byte.
func (f Frame) Type() byte { return f.Hdr() & 3 }

// IsFunctional reports whether the frame is functionally addressed
// (bit 2 of the header byte clear).
func (f Frame) IsFunctional() bool { return f.Hdr()&4 == 0 }

// IsPhysical is the complement of IsFunctional.
func (f Frame) IsPhysical() bool { return !f.IsFunctional() }

// IFR reports whether an in-frame response is requested (bit 3 of the
// header byte clear). Kept for header-decode completeness even though
// VPW never uses it (it is a J1850 PWM concept).
func (f Frame) IFR() bool { return f.Hdr()&8 == 0 }

// IsExtended reports whether the frame uses the extended (5-byte)
// header form.
func (f Frame) IsExtended() bool { return (f.Hdr()>>1)&5 == 5 }

func (f Frame) byteAt(i int) byte {
	if i >= len(f.raw) {
		return 0
	}
	return f.raw[i]
}

// Equal reports byte-wise equality. Validity is not part of the
// comparison since it is derived from raw.
func (f Frame) Equal(g Frame) bool {
	if len(f.raw) != len(g.raw) {
		return false
	}
	for i := range f.raw {
		if f.raw[i] != g.raw[i] {
			return false
		}
	}
	return true
}

func (f Frame) String() string {
	return fmt.Sprintf("Frame(%x, valid=%t)", f.raw, f.valid)
}

// SpeedMode is the VPW bus speed a message was observed at.
type SpeedMode int

const (
	SpeedUnspecified SpeedMode = iota
	Speed1X
	Speed4X
)

func (m SpeedMode) String() string {
	switch m {
	case Speed1X:
		return "1X"
	case Speed4X:
		return "4X"
	default:
		return "--"
	}
}

// Message is a Frame plus delivery metadata: timestamp, speed mode, and
// an optional free-text annotation used for synthetic entries such as
// "[BREAK]" or "[BUS ERROR]".
type Message struct {
	Frame      Frame
	Sec        uint32
	USec       uint32
	Speed      SpeedMode
	Annotation string
}

// Annotated builds a text-only Message carrying no frame data, used for
// break/error/debug notices.
func Annotated(sec, usec uint32, speed SpeedMode, text string) Message {
	return Message{Sec: sec, USec: usec, Speed: speed, Annotation: text}
}
