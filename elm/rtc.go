package elm

import (
	"strconv"
	"time"
)

func (i *Interpreter) cmdRTC(data string) string {
	if i.Clock == nil {
		return "!ERROR"
	}
	switch data {
	case "B":
		if err := i.Clock.Begin(); err != nil {
			return "!ERROR"
		}
		return "OK"
	case "S":
		return "OK"
	case "?":
		now, lost := i.Clock.Now()
		if lost {
			return "NO DATA"
		}
		return now.UTC().Format("2006-01-02 15:04:05")
	default:
		return "?"
	}
}

func (i *Interpreter) cmdTime(data string) string {
	now := i.nowFunc()()
	if i.Clock != nil {
		if t, lost := i.Clock.Now(); !lost {
			now = t
		}
	}
	return now.UTC().Format("2006-01-02 15:04:05")
}

func (i *Interpreter) cmdTS(data string) string {
	switch data {
	case "Z":
		i.Config.TSZeroed = true
		return "OK"
	case "R":
		i.Config.TSZeroed = false
		return "OK"
	case "0":
		i.Config.TS = false
		return "OK"
	case "1":
		i.Config.TS = true
		return "OK"
	case "?":
		if i.Config.TS {
			return "1"
		}
		return "0"
	case "Z?":
		if i.Config.TSZeroed {
			return "1"
		}
		return "0"
	default:
		return "?"
	}
}

func (i *Interpreter) cmdTZ(data string) string {
	switch data {
	case "?":
		if i.Config.TZ == "" {
			return "UTC"
		}
		return i.Config.TZ
	case "S":
		if i.Store == nil {
			return "!ERROR"
		}
		if err := i.Store.Write("elm-tz", []byte(i.Config.TZ)); err != nil {
			return "!ERROR"
		}
		return "OK"
	case "L":
		if i.Store == nil {
			return "!ERROR"
		}
		b, err := i.Store.Read("elm-tz")
		if err != nil {
			return "!ERROR"
		}
		i.Config.TZ = string(b)
		return "OK"
	default:
		i.Config.TZ = data
		return "OK"
	}
}

func (i *Interpreter) cmdUT(data string) string {
	if data == "?" {
		now := i.nowFunc()()
		if i.Clock != nil {
			if t, lost := i.Clock.Now(); !lost {
				now = t
			}
		}
		return strconv.FormatInt(now.Unix(), 10)
	}
	secs, err := strconv.ParseInt(data, 10, 64)
	if err != nil {
		return "?"
	}
	t := time.Unix(secs, 0)
	if i.Clock != nil {
		if err := i.Clock.Adjust(t); err != nil {
			return "!ERROR"
		}
	}
	return "OK"
}
