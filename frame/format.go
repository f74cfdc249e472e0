package frame

import (
	"strconv"
	"strings"

	"obd2vpw.dev/hexutil"
)

// StringOpts bundles the display parameters of the canonical
// monitor-mode line format, the way mjolnir.Options bundles a
// driver's optional parameters instead of a long positional argument
// list.
type StringOpts struct {
	// Offset is subtracted from the message's timestamp before
	// display, with a borrow from seconds when the microseconds
	// underflow. Ignored unless ShowTS and TSZeroes are both set.
	OffsetSec, OffsetUSec uint32
	ShowTS                bool
	IncludeHeaders        bool
	Spaces                bool
	AllowLong             bool
	// TSZeroes selects whether the offset is applied (ATTS Z mode)
	// or the absolute timestamp is shown (ATTS R mode).
	TSZeroes bool
	ShowMode bool
}

const (
	maxGroupsWithHeaders    = 12
	maxGroupsWithoutHeaders = 8
)

// String renders m as the canonical ELM-style monitor line:
//
//	[SSSSS.uuuuuu\t][{[4X]|[1X]|[--]} ]HH HH HH ... [\tANNOTATION]
func (m Message) String(opts StringOpts) string {
	var b strings.Builder
	if opts.ShowTS {
		sec, usec := m.Sec, m.USec
		if opts.TSZeroes {
			sec, usec = subTime(sec, usec, opts.OffsetSec, opts.OffsetUSec)
		}
		b.WriteString(strconv.FormatUint(uint64(sec), 10))
		b.WriteByte('.')
		b.WriteString(zeroPad(usec, 6))
		b.WriteByte('\t')
	}
	if opts.ShowMode {
		b.WriteByte('[')
		b.WriteString(m.Speed.String())
		b.WriteString("] ")
	}

	raw := m.Frame.Raw()
	if !opts.IncludeHeaders && len(raw) >= m.Frame.HeaderLength() {
		raw = raw[m.Frame.HeaderLength():]
	}

	maxGroups := maxGroupsWithoutHeaders
	if opts.IncludeHeaders {
		maxGroups = maxGroupsWithHeaders
	}
	truncated := false
	if !opts.AllowLong && len(raw) > maxGroups {
		raw = raw[:maxGroups]
		truncated = true
	}
	b.WriteString(hexutil.Format(raw, opts.Spaces))
	if truncated {
		b.WriteString(" <DATA ERROR")
	}
	if m.Annotation != "" {
		b.WriteByte('\t')
		b.WriteString(m.Annotation)
	}
	return b.String()
}

func zeroPad(v uint32, width int) string {
	s := strconv.FormatUint(uint64(v), 10)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// subTime subtracts (offSec, offUSec) from (sec, usec), borrowing a
// second when the microsecond subtraction underflows. Saturates at
// zero rather than wrapping if the offset is larger than the
// timestamp.
func subTime(sec, usec, offSec, offUSec uint32) (uint32, uint32) {
	if usec < offUSec {
		if sec == 0 {
			return 0, 0
		}
		sec--
		usec += 1_000_000
	}
	usec -= offUSec
	if sec < offSec {
		return 0, 0
	}
	sec -= offSec
	return sec, usec
}
