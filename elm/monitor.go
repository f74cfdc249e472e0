package elm

import (
	"obd2vpw.dev/frame"
)

// enterMonitor implements the shared transition logic of ATMA/B/R/T:
// any of the four letters sets Config.Monitor to that letter and emits
// "SEARCHING...", except a redundant ATMB issued while already in B,
// which instead toggles monitor mode off and emits "STOPPED".
func (i *Interpreter) enterMonitor(letter byte) string {
	if letter == 'B' && i.Config.Monitor == 'B' {
		i.Config.Monitor = 0
		return "STOPPED"
	}
	i.Config.Monitor = letter
	return "SEARCHING..."
}

func (i *Interpreter) cmdMA(data string) string { return i.enterMonitor('A') }
func (i *Interpreter) cmdMB(data string) string { return i.enterMonitor('B') }

func (i *Interpreter) cmdMR(data string) string {
	if b, ok := parseByte(data); ok {
		i.Config.MR = b
	}
	return i.enterMonitor('R')
}

func (i *Interpreter) cmdMT(data string) string {
	if b, ok := parseByte(data); ok {
		i.Config.MT = b
	}
	return i.enterMonitor('T')
}

// endMonitorUnlessTransition implements "any other AT command
// terminates monitor mode and returns to the prompt": a line that
// isn't itself one of the four monitor-entry commands clears
// Config.Monitor before falling through to normal dispatch, so the
// command that actually terminated monitor mode still gets its own
// response.
func (i *Interpreter) endMonitorUnlessTransition(cmd string) {
	for _, prefix := range []string{"ATMA", "ATMB", "ATMR", "ATMT"} {
		if len(cmd) >= len(prefix) && cmd[:len(prefix)] == prefix {
			return
		}
	}
	i.Config.Monitor = 0
}

// FormatMonitorLine renders msg for monitor-mode output per §4.E,
// honoring the active monitor filter (monitorReceive/monitorTransmit
// byte-equality on target/source) and the allowLong truncation rule.
// It returns ok=false if msg is filtered out and should not be shown.
func (i *Interpreter) FormatMonitorLine(msg *frame.Message) (line string, ok bool) {
	switch i.Config.Monitor {
	case 0:
		return "", false
	case 'R':
		if msg.Frame.Len() > 1 && i.Config.MR != 0 && msg.Frame.Target() != i.Config.MR {
			return "", false
		}
	case 'T':
		if msg.Frame.Len() > 2 && i.Config.MT != 0 && msg.Frame.Source() != i.Config.MT {
			return "", false
		}
	}
	opts := frame.StringOpts{
		ShowTS:         i.Config.TS,
		IncludeHeaders: i.Config.H,
		Spaces:         i.Config.S,
		AllowLong:      i.Config.AL,
		ShowMode:       i.Config.VM,
	}
	return msg.String(opts), true
}
