// Command vpwadapter runs the J1850 VPW bus bridge and ELM327-style
// command interpreter of spec.md over a real serial port and
// indicator LED. The PIO-backed line transceiver itself is always
// vpwbus.Simulator — real PIO state machine programs are hardware
// this module never implements, spec.md's own out-of-scope list — but
// the host serial port (board.OpenSerial) is a real §6 collaborator
// and runs for real unless -host-stub asks for its host stand-in, and
// the status LED (board.OpenPeriphIndicator) is real whenever
// -indicator-pin names a pin (by default it is empty and a stand-in
// is used), the way cmd/cli's -n dry-run flag lets
// SeedHammer's CLI skip only the engraver while still touching real
// storage.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"obd2vpw.dev/assembler"
	"obd2vpw.dev/automation"
	"obd2vpw.dev/board"
	"obd2vpw.dev/cliterm"
	"obd2vpw.dev/elm"
	"obd2vpw.dev/settings"
	"obd2vpw.dev/vpwbus"
)

var (
	serialDev    = flag.String("device", "", "host serial device (empty tries platform defaults)")
	baud         = flag.Int("baud", 38400, "host serial baud rate")
	settingsIn   = flag.String("settings", "", "settings directory (empty uses an in-memory store)")
	logPath      = flag.String("log", "", "bus log file (empty discards)")
	hostStub     = flag.Bool("host-stub", false, "use an in-process stand-in instead of a real serial port")
	indicatorPin = flag.String("indicator-pin", "", "GPIO pin name driving the status LED (empty uses a no-op stand-in)")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vpwadapter: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	store, err := openStore(*settingsIn)
	if err != nil {
		return err
	}
	sink, err := openLogSink(*logPath)
	if err != nil {
		return err
	}

	port, err := openHostPort(*hostStub, *serialDev, *baud)
	if err != nil {
		return err
	}
	defer port.Close()

	indicator, err := openIndicator(*indicatorPin)
	if err != nil {
		return err
	}

	xcvr := vpwbus.NewSimulator()
	bus := vpwbus.New(xcvr, true)
	blog := board.NewLog(sink)
	asm := assembler.New(blog.Queue, bus)
	go forwardTokens(bus.Tokens(monotonicClock), asm, indicator)

	auto := automation.New()
	interp := elm.New(auto, bus, store)
	interp.Sensors = &board.StubSensors{Temp: 21.5, Mem: 1 << 16}
	interp.Clock = board.NewStubClock(time.Now())
	interp.BoardID = boardID()
	session := cliterm.New(port, interp, blog.Queue)

	ticker := automation.NewTicker(auto, 2*time.Second)
	log.Println("vpwadapter: ready")
	for {
		session.PumpOnce()
		if ticker.Due(time.Now()) {
			for _, f := range ticker.Frames() {
				indicator.Set(true, board.StateSend)
				bus.Send(f, false, bus.Send4X())
			}
		}
	}
}

// forwardTokens drives the assembler from tok, lighting indicator for
// the line conditions spec.md §6 assigns it (receive activity, SOF,
// EOF, and the idle/EOT yield point).
func forwardTokens(tok <-chan vpwbus.Token, asm *assembler.Assembler, indicator board.Indicator) {
	for t := range tok {
		switch t.Kind {
		case vpwbus.TokSOF:
			indicator.Set(true, board.StateSOF)
		case vpwbus.TokByte:
			indicator.Set(true, board.StateReceive)
		case vpwbus.TokEOF:
			indicator.Set(true, board.StateEOF)
		case vpwbus.TokErrorLineStuckHigh, vpwbus.TokErrorUnexpectedSOF, vpwbus.TokErrorUnexpectedEOF:
			indicator.Set(true, board.StateCongestion)
		}
		if yield := asm.Step(t); yield {
			indicator.Set(false, board.StateEOT)
		}
	}
}

func openStore(dir string) (settings.Store, error) {
	if dir == "" {
		return settings.NewMemStore(), nil
	}
	return settings.NewFileStore(dir)
}

func openLogSink(path string) (io.Writer, error) {
	if path == "" {
		return io.Discard, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, fmt.Errorf("vpwadapter: open log: %w", err)
	}
	return f, nil
}

func openHostPort(stub bool, device string, baudRate int) (board.Serial, error) {
	if stub {
		return &board.StubSerial{}, nil
	}
	return board.OpenSerial(device, baudRate)
}

// openIndicator binds the real periph.io-backed status LED when pin
// is non-empty, else a no-op stand-in for boards without one wired.
func openIndicator(pin string) (board.Indicator, error) {
	if pin == "" {
		return &board.StubIndicator{}, nil
	}
	return board.OpenPeriphIndicator(pin)
}

func monotonicClock() (sec, usec uint32) {
	now := time.Now()
	return uint32(now.Unix()), uint32(now.Nanosecond() / 1000)
}

func boardID() string { return "VPW-0001" }
