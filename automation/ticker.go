package automation

import (
	"time"

	"obd2vpw.dev/frame"
	"obd2vpw.dev/hexutil"
)

// Ticker drives the periodic broadcast tasks of spec.md §4.F: a
// tester-present keep-alive, a power-mode/key-position frame, and a VIN
// report frame, each gated by its State flag. It is pumped once per
// cooperative-loop iteration rather than running its own goroutine,
// grounded on driver/wshat's debounce-timeout goroutine pattern
// adapted here from an edge-driven wait to a fixed-period one driven
// by the caller's own loop.
type Ticker struct {
	State    *State
	Interval time.Duration

	last time.Time
}

// NewTicker creates a Ticker that fires at most once per interval.
func NewTicker(state *State, interval time.Duration) *Ticker {
	return &Ticker{State: state, Interval: interval}
}

// Due reports whether at least one Interval has elapsed since the last
// firing, and if so resets the internal clock. The first call always
// fires.
func (t *Ticker) Due(now time.Time) bool {
	if now.Sub(t.last) < t.Interval {
		return false
	}
	t.last = now
	return true
}

// Frames returns the broadcast frames enabled in State, to be
// transmitted by the caller when Due reports true. Header bytes follow
// the standard 0x68 functional-broadcast convention used throughout
// this module's test scenarios.
func (t *Ticker) Frames() []frame.Frame {
	var out []frame.Frame
	t.State.mu.Lock()
	sendTP := t.State.SendTesterPresent
	sendPM := t.State.SendPowerMode
	sendVIN := t.State.SendVIN
	powerMode := t.State.PowerMode
	keyPos := t.State.KeyPosition
	vin := t.State.VIN
	t.State.mu.Unlock()

	if sendTP {
		out = append(out, frame.New([]byte{0x68, 0x6A, 0xF1, 0x3E}, false))
	}
	if sendPM {
		out = append(out, frame.New([]byte{0x68, 0x6A, 0xF1, powerMode, keyPos}, false))
	}
	if sendVIN && len(vin) == 17 {
		data := append([]byte{0x68, 0x6A, 0xF1, 0x49, 0x02}, hexutil.Decode(hexVIN(vin), 0)...)
		out = append(out, frame.New(data, false))
	}
	return out
}

// hexVIN renders a 17-character VIN as its hex-digit-pair ASCII
// encoding, one pair per character, matching the transport convention
// used for the other text-bearing response frames.
func hexVIN(vin string) string {
	var s string
	for i := 0; i < len(vin); i++ {
		s += hexutil.Encode(uint64(vin[i]), 2)
	}
	return s
}
