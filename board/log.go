package board

import (
	"io"
	"sync"

	"obd2vpw.dev/frame"
	"obd2vpw.dev/syncutil"
)

// Log is the SD-card collaborator of spec.md §6: an append-only byte
// sink mirrored into a message queue so a consumer (e.g. a future
// upload task) can drain recent entries without reparsing the sink,
// grounded on internal/golden's plain os.WriteFile append style.
type Log struct {
	w     io.Writer
	mu    sync.Mutex
	Queue *syncutil.Queue[*frame.Message]
}

// NewLog wraps w, appending every logged Message's raw bytes to it
// while also pushing the Message onto Queue.
func NewLog(w io.Writer) *Log {
	return &Log{w: w, Queue: &syncutil.Queue[*frame.Message]{}}
}

// Append writes msg's frame bytes to the underlying sink and pushes
// msg onto Queue. Write failures are returned but never block the
// queue push — the in-memory mirror stays usable even if the sink
// fails, matching spec.md §7's "no error aborts the cooperative loop."
func (l *Log) Append(msg *frame.Message) error {
	l.Queue.Push(msg)
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.w.Write(msg.Frame.Raw())
	return err
}

// Clear drops all queued entries without touching the underlying sink.
// The elm interpreter holds no Log, so ATWS and ATZ do not call it and
// leave the log buffer as it is.
func (l *Log) Clear() {
	for {
		if _, ok := l.Queue.TryPull(); !ok {
			return
		}
	}
}
