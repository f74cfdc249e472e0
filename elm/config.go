package elm

import "obd2vpw.dev/hexutil"

// Config holds the ~25 flags/bytes of spec.md §3's per-session
// configuration. Field names follow the persisted key names of
// spec.md §6 ("SH, E, AL, L, AR, R, S, CH, H, MT, MR, ST, AT, TA, N,
// AI, TS, VM, CRC, W, RC, VPW") so CSV (de)serialization is a direct
// field walk rather than a translation table. IA (inactive time, set
// by ATIA) is a real field but is not part of that persisted key list
// and so is never serialized — matching the original firmware, which
// never writes it into the CFG CSV either.
type Config struct {
	SH  [3]byte // custom/default header (ATSH)
	E   bool    // echo
	AL  bool    // allow long frames
	L   bool    // linefeed (CRLF vs CR)
	AR  bool    // auto-receive
	R   bool    // responses
	S   bool    // spaces
	CH  bool    // custom-header mode
	H   bool    // headers
	MT  byte    // monitor-transmit filter byte
	MR  byte    // monitor-receive filter byte
	ST  byte    // inter-byte monitor timeout
	AT  byte    // adaptive timing
	TA  byte    // tester address
	N   bool    // notifications
	AI  bool    // allow-invalid-frames display
	TS  bool    // show timestamp
	VM  bool    // show VPW mode
	CRC bool    // auto-CRC on transmit
	W   bool    // wait before send (ATW)
	RC  byte    // response count
	VPW byte    // 'A', '1', or '4'

	IA byte // inactive-time byte (ATIA), not persisted

	SP byte // protocol select byte ('2' or '0'/'A')
	RA byte // receive filter byte
	SR byte // receive address (ATSR)

	Monitor byte // 0 (off), 'A', 'B', 'R', 'T'

	TZ string // POSIX TZ string (persisted separately as elm-tz)

	TSZeroed     bool
	TSOffsetSec  uint32
	TSOffsetUSec uint32
}

// DefaultHeader is the standard 3-byte J1850 VPW header ATD restores.
var DefaultHeader = [3]byte{0x68, 0x6A, 0xF1}

// Defaults returns the "warm start" column of spec.md §4.G, used by
// ATD, ATWS, and ATZ.
func Defaults() Config {
	return Config{
		SH:  DefaultHeader,
		E:   true,
		AL:  false,
		L:   false,
		AR:  true,
		R:   true,
		S:   false,
		CH:  false,
		H:   false,
		MT:  0,
		MR:  0,
		ST:  0x32,
		AT:  0x01,
		TA:  0xF1,
		N:   true,
		AI:  false,
		TS:  false,
		VM:  false,
		CRC: true,
		W:   false,
		RC:  1,
		VPW: 'A',
		SP:  '2',
		RA:  0,
		IA:  0,
	}
}

// fields lists, in persisted order, each key name and its formatted
// value for Serialize/ATCFG's CSV form.
func (c Config) fields() [][2]string {
	b := func(v bool) string {
		if v {
			return "1"
		}
		return "0"
	}
	return [][2]string{
		{"SH", hexutil.Format(c.SH[:], false)},
		{"E", b(c.E)},
		{"AL", b(c.AL)},
		{"L", b(c.L)},
		{"AR", b(c.AR)},
		{"R", b(c.R)},
		{"S", b(c.S)},
		{"CH", b(c.CH)},
		{"H", b(c.H)},
		{"MT", hexutil.Encode(uint64(c.MT), 2)},
		{"MR", hexutil.Encode(uint64(c.MR), 2)},
		{"ST", hexutil.Encode(uint64(c.ST), 2)},
		{"AT", hexutil.Encode(uint64(c.AT), 2)},
		{"TA", hexutil.Encode(uint64(c.TA), 2)},
		{"N", b(c.N)},
		{"AI", b(c.AI)},
		{"TS", b(c.TS)},
		{"VM", b(c.VM)},
		{"CRC", b(c.CRC)},
		{"W", b(c.W)},
		{"RC", hexutil.Encode(uint64(c.RC), 2)},
		{"VPW", string(c.VPW)},
	}
}

// Serialize renders Config as a comma-separated KEY=VALUE list in
// persisted-key order, used by ATCFG ? and by invariant 5's
// ATD-then-serialize comparison.
func (c Config) Serialize() string {
	fs := c.fields()
	out := ""
	for i, f := range fs {
		if i > 0 {
			out += ","
		}
		out += f[0] + "=" + f[1]
	}
	return out
}
