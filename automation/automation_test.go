package automation

import (
	"testing"
	"time"

	"obd2vpw.dev/frame"
)

// TestPRSetQuery is invariant 6: ATPR KEY=V; ATPR KEY? returns KEY=V.
func TestPRSetQuery(t *testing.T) {
	s := New()
	s.SetPR("686AF10100", "4F4F")
	v, ok := s.GetPR("686AF10100")
	if !ok || v != "4F4F" {
		t.Fatalf("GetPR = %q, %v", v, ok)
	}
}

// TestPRAppend is invariant 7.
func TestPRAppend(t *testing.T) {
	s := New()
	s.AppendPR("KEY", "V1")
	s.AppendPR("KEY", "V2")
	v, ok := s.GetPR("KEY")
	if !ok || v != "V1,V2" {
		t.Fatalf("GetPR = %q, %v", v, ok)
	}
}

// TestPRRemove is invariant 8.
func TestPRRemove(t *testing.T) {
	s := New()
	s.SetPR("KEY", "V1,V2")
	s.RemovePR("KEY", "V1")
	v, ok := s.GetPR("KEY")
	if !ok || v != "V2" {
		t.Fatalf("GetPR after remove = %q, %v", v, ok)
	}
	s.RemovePR("KEY", "V2")
	if _, ok := s.GetPR("KEY"); ok {
		t.Fatal("expected key erased once list is empty")
	}
}

func TestPRSetEmptyErases(t *testing.T) {
	s := New()
	s.SetPR("KEY", "V1")
	s.SetPR("KEY", "")
	if _, ok := s.GetPR("KEY"); ok {
		t.Fatal("expected SetPR with empty value to erase key")
	}
}

func TestListPRSorted(t *testing.T) {
	s := New()
	s.SetPR("B", "2")
	s.SetPR("A", "1")
	got := s.ListPR()
	want := []string{"A=1", "B=2"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("ListPR = %v, want %v", got, want)
	}
}

// TestResponderConsider is scenario S3: ATPR 686AF10100=4F4F, then an
// inbound frame with that header+data yields a transmit of 4F 4F.
func TestResponderConsider(t *testing.T) {
	s := New()
	s.SetPR("686AF10100", "4F4F")
	r := &Responder{State: s}

	msg := &frame.Message{Frame: frame.New([]byte{0x68, 0x6A, 0xF1, 0x01, 0x00, 0x5B}, true)}
	frames := r.Consider(msg)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}
	if got := frames[0].Raw(); len(got) != 2 || got[0] != 0x4F || got[1] != 0x4F {
		t.Fatalf("frame raw = %x, want [4F 4F]", got)
	}
}

func TestResponderDisabled(t *testing.T) {
	s := New()
	s.SetPR("686AF10100", "4F4F")
	s.SetPREnabled(false)
	r := &Responder{State: s}
	msg := &frame.Message{Frame: frame.New([]byte{0x68, 0x6A, 0xF1, 0x01, 0x00, 0x5B}, true)}
	if frames := r.Consider(msg); frames != nil {
		t.Fatalf("expected nil frames while disabled, got %v", frames)
	}
}

func TestResponderNoMatch(t *testing.T) {
	s := New()
	r := &Responder{State: s}
	msg := &frame.Message{Frame: frame.New([]byte{0x68, 0x6A, 0xF1, 0x01, 0x00, 0x5B}, true)}
	if frames := r.Consider(msg); frames != nil {
		t.Fatalf("expected nil frames, got %v", frames)
	}
}

func TestResetClearsState(t *testing.T) {
	s := New()
	s.SetPR("KEY", "V")
	s.SendVIN = true
	s.Reset()
	if _, ok := s.GetPR("KEY"); ok {
		t.Fatal("expected PR table cleared by Reset")
	}
	if s.SendVIN {
		t.Fatal("expected SendVIN cleared by Reset")
	}
	if !s.PREnabled() {
		t.Fatal("expected PR re-enabled after Reset")
	}
}

func TestTickerDue(t *testing.T) {
	s := New()
	tk := NewTicker(s, 10*time.Millisecond)
	t0 := time.Unix(0, 0)
	if !tk.Due(t0) {
		t.Fatal("expected first Due to fire immediately")
	}
	if tk.Due(t0.Add(time.Millisecond)) {
		t.Fatal("expected Due to be false before interval elapses")
	}
	if !tk.Due(t0.Add(11 * time.Millisecond)) {
		t.Fatal("expected Due to fire once interval elapses")
	}
}

func TestTickerFramesGatedByFlags(t *testing.T) {
	s := New()
	tk := NewTicker(s, time.Second)
	if frames := tk.Frames(); len(frames) != 0 {
		t.Fatalf("expected no frames with all flags off, got %d", len(frames))
	}
	s.SendTesterPresent = true
	s.SendPowerMode = true
	s.VIN = "1HGCM82633A004352"[:17]
	s.SendVIN = true
	frames := tk.Frames()
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3: %v", len(frames), frames)
	}
}
