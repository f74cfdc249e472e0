package hexutil

import "testing"

func TestEncode(t *testing.T) {
	cases := []struct {
		v     uint64
		width int
		want  string
	}{
		{0x5B, 2, "5B"},
		{0x5, 2, "05"},
		{0x5, 0, "5"},
		{0, 0, "0"},
		{0xABCD, 4, "ABCD"},
	}
	for _, c := range cases {
		if got := Encode(c.v, c.width); got != c.want {
			t.Errorf("Encode(%#x, %d) = %q, want %q", c.v, c.width, got, c.want)
		}
	}
}

func TestDecode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"686AF10100", "\x68\x6a\xf1\x01\x00"},
		{"686AF101", "\x68\x6a\xf1\x01"},
		{"A", "\x0a"},
		{"00", "\x00"},
		{"", ""},
		{"ZZ", ""},
		{"68 6A", ""},
	}
	for _, c := range cases {
		got := string(Decode(c.in, 0))
		if got != c.want {
			t.Errorf("Decode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDecodeMaxLen(t *testing.T) {
	got := Decode("0102030405", 2)
	if string(got) != "\x01\x02" {
		t.Fatalf("Decode with maxLen=2 = %x, want 0102", got)
	}
}

func TestRoundTrip(t *testing.T) {
	s := "686AF10100"
	if got := Format(Decode(s, 0), false); got != s {
		t.Fatalf("Format(Decode(%q)) = %q", s, got)
	}
}

func TestFormatSpaces(t *testing.T) {
	got := Format([]byte{0x68, 0x6A, 0xF1}, true)
	if want := "68 6A F1"; got != want {
		t.Fatalf("Format(spaces) = %q, want %q", got, want)
	}
}
