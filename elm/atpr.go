package elm

import "strings"

// handlePR implements ATPR per spec.md §4.G/§9: a bounded, iterative,
// cursor-based parser (no regexp — the original's regex implementation
// is documented to blow the stack on long input) for the grammar
// `KEY<op>VALUE`, plus the 0/1/?/??/??? sub-forms, grounded on
// nonstandard/parse.go's style of cutting a string at explicit
// delimiters rather than matching against a grammar library.
func (i *Interpreter) handlePR(data string) string {
	switch data {
	case "0":
		i.Automation.SetPREnabled(false)
		return "OK"
	case "1":
		i.Automation.SetPREnabled(true)
		return "OK"
	case "?":
		if i.Automation.PREnabled() {
			return "1"
		}
		return "0"
	case "??":
		return strings.Join(i.Automation.ListPR(), ",")
	case "???":
		return prettyPrintPR(i.Automation.ListPR())
	}

	key, op, value, ok := parsePRLine(data)
	if !ok {
		return "?"
	}
	switch op {
	case '=':
		i.Automation.SetPR(key, value)
		return "OK"
	case '+':
		if value == "" {
			return "?"
		}
		i.Automation.AppendPR(key, value)
		return "OK"
	case '-':
		i.Automation.RemovePR(key, value)
		return "OK"
	case '?':
		v, _ := i.Automation.GetPR(key)
		return key + "=" + v
	}
	return "?"
}

// parsePRLine walks data character by character with an explicit
// cursor: KEY is one or more uppercase hex digits, op is one of
// =+-?, VALUE (absent for '?') is a comma-separated run of
// even-length uppercase hex byte-strings with no leading comma;
// trailing commas are trimmed.
func parsePRLine(data string) (key string, op byte, value string, ok bool) {
	n := len(data)
	cursor := 0
	for cursor < n && isHexDigit(data[cursor]) {
		cursor++
	}
	if cursor == 0 {
		return "", 0, "", false
	}
	key = data[:cursor]
	if cursor >= n {
		return "", 0, "", false
	}
	op = data[cursor]
	switch op {
	case '=', '+', '-':
		cursor++
	case '?':
		if cursor != n-1 {
			return "", 0, "", false
		}
		return key, op, "", true
	default:
		return "", 0, "", false
	}
	raw := data[cursor:]
	raw = strings.TrimRight(raw, ",")
	if raw == "" {
		return key, op, "", true
	}
	if raw[0] == ',' {
		return "", 0, "", false
	}
	for _, run := range strings.Split(raw, ",") {
		if run == "" || len(run)%2 != 0 {
			return "", 0, "", false
		}
		for i := 0; i < len(run); i++ {
			if !isHexDigit(run[i]) {
				return "", 0, "", false
			}
		}
	}
	return key, op, raw, true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')
}

// prettyPrintPR renders each pair on its own line for ATPR ???.
func prettyPrintPR(pairs []string) string {
	return strings.Join(pairs, "\r\n")
}
