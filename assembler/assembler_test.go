package assembler

import (
	"testing"

	"obd2vpw.dev/crc8"
	"obd2vpw.dev/frame"
	"obd2vpw.dev/syncutil"
	"obd2vpw.dev/vpwbus"
)

type fakeBus struct {
	send4X bool
}

func (f *fakeBus) Set4X(v bool) { f.send4X = v }

func tok(kind vpwbus.TokenKind, b byte) vpwbus.Token {
	return vpwbus.Token{Kind: kind, Byte: b}
}

// TestScenarioS1 feeds the exact token sequence of spec.md scenario
// S1 and checks the resulting message.
func TestScenarioS1(t *testing.T) {
	payload := []byte{0x68, 0x6A, 0xF1, 0x01, 0x00}
	crcByte := crc8.Checksum(payload)

	q := &syncutil.Queue[*frame.Message]{}
	bus := &fakeBus{}
	a := New(q, bus)

	a.Step(vpwbus.Token{Kind: vpwbus.TokSOF})
	for _, b := range payload {
		a.Step(tok(vpwbus.TokByte, b))
	}
	a.Step(tok(vpwbus.TokByte, crcByte))
	a.Step(vpwbus.Token{Kind: vpwbus.TokEOF})

	msg, ok := q.TryPull()
	if !ok {
		t.Fatal("no message enqueued")
	}
	if !msg.Frame.Valid() {
		t.Fatal("message should be valid")
	}
	if got := msg.Frame.Raw(); len(got) != 6 {
		t.Fatalf("raw len = %d, want 6", len(got))
	}
	if msg.Frame.Hdr() != 0x68 || msg.Frame.Target() != 0x6A || msg.Frame.Source() != 0xF1 {
		t.Fatalf("unexpected header fields: %+v", msg.Frame)
	}
	if _, ok := q.TryPull(); ok {
		t.Fatal("expected exactly one message")
	}
}

// TestScenarioS5 exercises the 4X mode-switch and BRK reset.
func TestScenarioS5(t *testing.T) {
	q := &syncutil.Queue[*frame.Message]{}
	bus := &fakeBus{}
	a := New(q, bus)

	a.Step(vpwbus.Token{Kind: vpwbus.TokSOF})
	for _, b := range []byte{0x68, 0xFE, 0xF1, 0xA1, 0x00} {
		a.Step(tok(vpwbus.TokByte, b))
	}
	a.Step(vpwbus.Token{Kind: vpwbus.TokEOF})

	if !bus.send4X {
		t.Fatal("SEND_4X should be true after target=0xFE secondary=0xA1 frame")
	}

	a.Step(vpwbus.Token{Kind: vpwbus.TokBRK})
	if bus.send4X {
		t.Fatal("SEND_4X should be reset to false on BRK")
	}

	msg, ok := q.TryPull() // the mode-switch frame itself
	if !ok {
		t.Fatal("expected mode-switch message")
	}
	_ = msg
	brkMsg, ok := q.TryPull()
	if !ok || brkMsg.Annotation != "[BREAK]" {
		t.Fatalf("expected [BREAK] annotated message, got %+v, ok=%v", brkMsg, ok)
	}
}

func TestMode4XReturnTo1X(t *testing.T) {
	q := &syncutil.Queue[*frame.Message]{}
	bus := &fakeBus{send4X: true}
	a := New(q, bus)

	a.Step(vpwbus.Token{Kind: vpwbus.TokSOF})
	for _, b := range []byte{0x68, 0xFE, 0xF1, 0x20, 0x00} {
		a.Step(tok(vpwbus.TokByte, b))
	}
	a.Step(vpwbus.Token{Kind: vpwbus.TokEOF})

	if bus.send4X {
		t.Fatal("SEND_4X should be false after secondary=0x20")
	}
}

func TestBusErrorAnnotation(t *testing.T) {
	q := &syncutil.Queue[*frame.Message]{}
	a := New(q, &fakeBus{})
	a.Step(vpwbus.Token{Kind: vpwbus.TokErrorLineStuckHigh})
	msg, ok := q.TryPull()
	if !ok || msg.Annotation != "[BUS ERROR]" {
		t.Fatalf("expected [BUS ERROR] annotation, got %+v ok=%v", msg, ok)
	}
}

func TestEOTYieldsOnlyWhenBufferEmpty(t *testing.T) {
	a := New(&syncutil.Queue[*frame.Message]{}, &fakeBus{})
	if yield := a.Step(vpwbus.Token{Kind: vpwbus.TokEOT}); !yield {
		t.Fatal("EOT with empty buffer should yield true")
	}
	a.Step(vpwbus.Token{Kind: vpwbus.TokSOF})
	a.Step(tok(vpwbus.TokByte, 0x01))
	if yield := a.Step(vpwbus.Token{Kind: vpwbus.TokEOT}); yield {
		t.Fatal("EOT with nonempty buffer should yield false")
	}
}

func TestModeTracking(t *testing.T) {
	q := &syncutil.Queue[*frame.Message]{}
	a := New(q, &fakeBus{})
	a.Step(vpwbus.Token{Kind: vpwbus.TokMode4X})
	a.Step(vpwbus.Token{Kind: vpwbus.TokSOF})
	for _, b := range []byte{1, 2, 3, 4, 5} {
		a.Step(tok(vpwbus.TokByte, b))
	}
	a.Step(vpwbus.Token{Kind: vpwbus.TokEOF})
	msg, ok := q.TryPull()
	if !ok || msg.Speed != frame.Speed4X {
		t.Fatalf("expected Speed4X message, got %+v ok=%v", msg, ok)
	}
}
