package vpwbus

import (
	"testing"

	"obd2vpw.dev/frame"
)

func TestTokensEmitsSOFAndEOF(t *testing.T) {
	sim := NewSimulator()
	bus := New(sim, false)
	tokens := bus.Tokens(nil)

	sim.InjectFrame([]byte{0x01, 0x02})
	sim.Close()

	var got []TokenKind
	for tok := range tokens {
		got = append(got, tok.Kind)
	}
	want := []TokenKind{TokSOF, TokByte, TokByte, TokEOF}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTokensWithTimestamp(t *testing.T) {
	sim := NewSimulator()
	bus := New(sim, true)
	tokens := bus.Tokens(func() (uint32, uint32) { return 42, 7 })

	sim.InjectFrame([]byte{0xAB})
	sim.Close()

	first := <-tokens
	if first.Kind != TokTimestamp || first.Sec != 42 || first.USec != 7 {
		t.Fatalf("first token = %+v, want timestamp(42,7)", first)
	}
	if second := <-tokens; second.Kind != TokSOF {
		t.Fatalf("second token kind = %v, want SOF", second.Kind)
	}
}

func TestIdleTimeoutYieldsEOTOnlyWhenIdle(t *testing.T) {
	sim := NewSimulator()
	bus := New(sim, false)
	tokens := bus.Tokens(nil)

	sim.Inject(LineEvent{Kind: EvIdleTimeout})
	sim.InjectFrame([]byte{0x01})
	sim.Inject(LineEvent{Kind: EvIdleTimeout}) // fired while state is back to idle after EOF
	sim.Close()

	var kinds []TokenKind
	for tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}
	eotCount := 0
	for _, k := range kinds {
		if k == TokEOT {
			eotCount++
		}
	}
	if eotCount != 2 {
		t.Fatalf("EOT count = %d, want 2 (idle at both points): %v", eotCount, kinds)
	}
}

func TestSendRejectsInvalidUnlessAllowed(t *testing.T) {
	sim := NewSimulator()
	bus := New(sim, false)
	invalid := frame.New([]byte{1, 2, 3, 4, 5}, true) // bad CRC

	if got := bus.Send(invalid, false, false); got != StatusInvalidCRC {
		t.Fatalf("Send(invalid, false, ...) = %v, want StatusInvalidCRC", got)
	}
	if got := bus.Send(invalid, true, false); got != StatusOK {
		t.Fatalf("Send(invalid, true, ...) = %v, want StatusOK", got)
	}
}

func TestSendTooShort(t *testing.T) {
	sim := NewSimulator()
	bus := New(sim, false)
	short := frame.New([]byte{1, 2, 3}, false)
	if got := bus.Send(short, true, false); got != StatusTooShort {
		t.Fatalf("Send(short) = %v, want StatusTooShort", got)
	}
}

func TestSendTooLongAt1X(t *testing.T) {
	sim := NewSimulator()
	bus := New(sim, false)
	long := frame.New(make([]byte, 13), true)
	if got := bus.Send(long, true, false); got != StatusTooLong {
		t.Fatalf("Send(13 bytes, 1X) = %v, want StatusTooLong", got)
	}
	if got := bus.Send(long, true, true); got != StatusOK {
		t.Fatalf("Send(13 bytes, 4X) = %v, want StatusOK", got)
	}
}

func TestSendCongestion(t *testing.T) {
	sim := NewSimulator()
	sim.SetIdle(false)
	bus := New(sim, false)
	f := frame.New(make([]byte, 5), false)
	if got := bus.Send(f, true, false); got != StatusCongestion {
		t.Fatalf("Send() during congestion = %v, want StatusCongestion", got)
	}
}

func TestSendNoEcho(t *testing.T) {
	sim := NewSimulator()
	sim.SetEchoOK(false)
	bus := New(sim, false)
	f := frame.New(make([]byte, 5), false)
	if got := bus.Send(f, true, false); got != StatusNoEcho {
		t.Fatalf("Send() with bad echo = %v, want StatusNoEcho", got)
	}
}

func TestSend4XFlag(t *testing.T) {
	sim := NewSimulator()
	bus := New(sim, false)
	if bus.Send4X() {
		t.Fatal("Send4X() initial = true, want false")
	}
	bus.Set4X(true)
	if !bus.Send4X() {
		t.Fatal("Send4X() after Set4X(true) = false, want true")
	}
}

func TestWildcardRoundTrip(t *testing.T) {
	toks := []Token{
		{Kind: TokByte, Byte: 0x01},
		{Kind: TokByte, Byte: Wildcard},
		{Kind: TokSOF},
		{Kind: TokTimestamp, Sec: 100, USec: 200},
		{Kind: TokDebugString, Text: "hi"},
		{Kind: TokEOF},
	}
	var buf []byte
	for _, tok := range toks {
		buf = EncodeWildcard(buf, tok)
	}
	var got []Token
	for len(buf) > 0 {
		tok, n, ok := DecodeWildcard(buf)
		if !ok {
			t.Fatalf("DecodeWildcard: incomplete at %x", buf)
		}
		got = append(got, tok)
		buf = buf[n:]
	}
	if len(got) != len(toks) {
		t.Fatalf("got %d tokens, want %d: %+v", len(got), len(toks), got)
	}
	for i := range toks {
		if got[i] != toks[i] {
			t.Fatalf("token %d = %+v, want %+v", i, got[i], toks[i])
		}
	}
}
