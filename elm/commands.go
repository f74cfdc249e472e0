package elm

import (
	"strconv"
	"strings"

	"obd2vpw.dev/hexutil"
)

func (i *Interpreter) cmdAt1(data string) string { return DeviceDescription(i.BoardName) }

func (i *Interpreter) cmdAI(data string) string {
	v, resp, ok := toggle01(data, i.Config.AI)
	if ok {
		i.Config.AI = v
	}
	return resp
}

func (i *Interpreter) cmdAL(data string) string {
	v, resp, ok := toggle01(data, i.Config.AL)
	if ok {
		i.Config.AL = v
	}
	return resp
}

func (i *Interpreter) cmdNL(data string) string {
	i.Config.AL = false
	return "OK"
}

func (i *Interpreter) cmdAR(data string) string {
	i.Config.AR = true
	return "OK"
}

func (i *Interpreter) cmdCFG(data string) string {
	if data == "?" {
		return i.Config.Serialize()
	}
	if err := i.loadCSV(data); err != nil {
		return "?"
	}
	return "OK"
}

// loadCSV parses a Serialize-format CSV string back into Config,
// KEY=VALUE pairs comma-separated, rejecting anything malformed.
func (i *Interpreter) loadCSV(csv string) error {
	c := i.Config
	for _, pair := range strings.Split(csv, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return errBadCSV
		}
		key, val := kv[0], kv[1]
		switch key {
		case "SH":
			b := hexutil.Decode(val, 3)
			if len(b) != 3 {
				return errBadCSV
			}
			c.SH = [3]byte{b[0], b[1], b[2]}
		case "E":
			c.E = val == "1"
		case "AL":
			c.AL = val == "1"
		case "L":
			c.L = val == "1"
		case "AR":
			c.AR = val == "1"
		case "R":
			c.R = val == "1"
		case "S":
			c.S = val == "1"
		case "CH":
			c.CH = val == "1"
		case "H":
			c.H = val == "1"
		case "MT":
			b, ok := parseByte(val)
			if !ok {
				return errBadCSV
			}
			c.MT = b
		case "MR":
			b, ok := parseByte(val)
			if !ok {
				return errBadCSV
			}
			c.MR = b
		case "ST":
			b, ok := parseByte(val)
			if !ok {
				return errBadCSV
			}
			c.ST = b
		case "AT":
			b, ok := parseByte(val)
			if !ok {
				return errBadCSV
			}
			c.AT = b
		case "TA":
			b, ok := parseByte(val)
			if !ok {
				return errBadCSV
			}
			c.TA = b
		case "N":
			c.N = val == "1"
		case "AI":
			c.AI = val == "1"
		case "TS":
			c.TS = val == "1"
		case "VM":
			c.VM = val == "1"
		case "CRC":
			c.CRC = val == "1"
		case "W":
			c.W = val == "1"
		case "RC":
			b, ok := parseByte(val)
			if !ok {
				return errBadCSV
			}
			c.RC = b
		case "VPW":
			if len(val) != 1 {
				return errBadCSV
			}
			c.VPW = val[0]
		default:
			return errBadCSV
		}
	}
	i.Config = c
	return nil
}

func (i *Interpreter) cmdCH(data string) string {
	switch data {
	case "1":
		i.Config.CH = true
		i.Config.SH = [3]byte{}
		return "OK"
	case "0":
		i.Config.CH = false
		if i.Config.SH == ([3]byte{}) {
			i.Config.SH = DefaultHeader
		}
		return "OK"
	default:
		return "?"
	}
}

func (i *Interpreter) cmdCRC(data string) string {
	v, resp, ok := toggle01(data, i.Config.CRC)
	if ok {
		i.Config.CRC = v
	}
	return resp
}

func (i *Interpreter) cmdW(data string) string {
	v, resp, ok := toggle01(data, i.Config.W)
	if ok {
		i.Config.W = v
	}
	return resp
}

func (i *Interpreter) cmdCT(data string) string {
	if i.Sensors == nil {
		return "!ERROR"
	}
	t, err := i.Sensors.Temperature()
	if err != nil {
		return "!ERROR"
	}
	return strconv.FormatFloat(t, 'f', 1, 64)
}

func (i *Interpreter) cmdMEM(data string) string {
	if i.Sensors == nil {
		return "!ERROR"
	}
	m, err := i.Sensors.FreeMemory()
	if err != nil {
		return "!ERROR"
	}
	return strconv.FormatUint(m, 10)
}

func (i *Interpreter) cmdD(data string) string {
	i.Config = Defaults()
	return "OK"
}

func (i *Interpreter) cmdDP(data string) string { return "J1850VPW" }

func (i *Interpreter) cmdDPN(data string) string { return "2" }

func (i *Interpreter) cmdE(data string) string {
	v, resp, ok := toggle01(data, i.Config.E)
	if ok {
		i.Config.E = v
	}
	return resp
}

func (i *Interpreter) cmdH(data string) string {
	v, resp, ok := toggle01(data, i.Config.H)
	if ok {
		i.Config.H = v
	}
	return resp
}

func (i *Interpreter) cmdI(data string) string { return Version }

func (i *Interpreter) cmdIA(data string) string {
	if data == "?" {
		return hexutil.Encode(uint64(i.Config.IA), 2)
	}
	b, ok := parseByte(data)
	if !ok {
		return "?"
	}
	i.Config.IA = b
	return "OK"
}

func (i *Interpreter) cmdID(data string) string { return i.BoardID }

func (i *Interpreter) cmdL(data string) string {
	v, resp, ok := toggle01(data, i.Config.L)
	if ok {
		i.Config.L = v
	}
	return resp
}

func (i *Interpreter) cmdLoad(data string) string {
	if i.Store == nil {
		return "!ERROR"
	}
	b, err := i.Store.Read("elm-" + data)
	if err != nil {
		return "!ERROR"
	}
	if err := i.loadCSV(string(b)); err != nil {
		return "!ERROR"
	}
	return "OK"
}

func (i *Interpreter) cmdSave(data string) string {
	if i.Store == nil {
		return "!ERROR"
	}
	if err := i.Store.Write("elm-"+data, []byte(i.Config.Serialize())); err != nil {
		return "!ERROR"
	}
	return "OK"
}

func (i *Interpreter) cmdN(data string) string {
	v, resp, ok := toggle01(data, i.Config.N)
	if ok {
		i.Config.N = v
	}
	return resp
}

func (i *Interpreter) cmdPR(data string) string { return i.handlePR(data) }

func (i *Interpreter) cmdR(data string) string {
	v, resp, ok := toggle01(data, i.Config.R)
	if ok {
		i.Config.R = v
	}
	return resp
}

func (i *Interpreter) cmdRA(data string) string {
	b, ok := parseByte(data)
	if !ok {
		return "?"
	}
	i.Config.RA = b
	i.Config.AR = false
	return "OK"
}

func (i *Interpreter) cmdRC(data string) string {
	if data == "?" {
		return hexutil.Encode(uint64(i.Config.RC), 2)
	}
	b, ok := parseByte(data)
	if !ok {
		return "?"
	}
	i.Config.RC = b
	return "OK"
}

func (i *Interpreter) cmdS(data string) string {
	v, resp, ok := toggle01(data, i.Config.S)
	if ok {
		i.Config.S = v
	}
	return resp
}

func (i *Interpreter) cmdSH(data string) string {
	b := hexutil.Decode(data, 3)
	if len(b) != 3 {
		return "?"
	}
	i.Config.SH = [3]byte{b[0], b[1], b[2]}
	return "OK"
}

func (i *Interpreter) cmdSP(data string) string {
	switch data {
	case "2", "0", "A":
		i.Config.SP = '2'
		return "OK"
	default:
		return "?"
	}
}

func (i *Interpreter) cmdSR(data string) string {
	b, ok := parseByte(data)
	if !ok {
		return "?"
	}
	i.Config.SR = b
	return "OK"
}

func (i *Interpreter) cmdST(data string) string {
	if data == "?" {
		return hexutil.Encode(uint64(i.Config.ST), 2)
	}
	b, ok := parseByte(data)
	if !ok {
		return "?"
	}
	if b == 0 {
		b = 0x32
	} else if b < 0x08 {
		b = 0x08
	}
	i.Config.ST = b
	return "OK"
}

func (i *Interpreter) cmdTA(data string) string {
	b, ok := parseByte(data)
	if !ok {
		return "?"
	}
	i.Config.TA = b
	return "OK"
}

func (i *Interpreter) cmdVM(data string) string {
	v, resp, ok := toggle01(data, i.Config.VM)
	if ok {
		i.Config.VM = v
	}
	return resp
}

func (i *Interpreter) cmdVPW(data string) string {
	switch data {
	case "A", "1", "4":
		i.Config.VPW = data[0]
		return "OK"
	case "?":
		return string(i.Config.VPW)
	default:
		return "?"
	}
}

func (i *Interpreter) cmdWS(data string) string {
	i.Config = Defaults()
	i.Automation.Reset()
	return "OK"
}

func (i *Interpreter) cmdZ(data string) string {
	i.Config = Defaults()
	i.Automation.Reset()
	return "OK"
}

var errBadCSV = &csvError{}

type csvError struct{}

func (*csvError) Error() string { return "elm: malformed config CSV" }

// DXI/DXPT/DXSM/DXUS/DXVS — OBDX-Pro extension subset.
func (i *Interpreter) cmdDXI(data string) string { return i.BoardID }

func (i *Interpreter) cmdDXPT(data string) string {
	// Palindrome form of the unique ID, a minor OBDX-Pro affordance.
	b := []byte(i.BoardID)
	for l, r := 0, len(b)-1; l < r; l, r = l+1, r-1 {
		b[l], b[r] = b[r], b[l]
	}
	return string(b)
}

func (i *Interpreter) cmdDXSM(data string) string {
	v, resp, ok := toggle01(data, i.Config.Monitor != 0)
	if ok {
		if v {
			i.Config.Monitor = 'A'
		} else {
			i.Config.Monitor = 0
		}
	}
	return resp
}

func (i *Interpreter) cmdDXUS(data string) string { return i.cmdVPW(data) }

func (i *Interpreter) cmdDXVS(data string) string { return string(i.Config.VPW) }

func (i *Interpreter) cmdGMTP(data string) string {
	v, resp, ok := toggle01(data, i.Automation.SendTesterPresent)
	if ok {
		i.Automation.SendTesterPresent = v
	}
	return resp
}

func (i *Interpreter) cmdGMPM(data string) string {
	v, resp, ok := toggle01(data, i.Automation.SendPowerMode)
	if ok {
		i.Automation.SendPowerMode = v
	}
	return resp
}

func (i *Interpreter) cmdGMVIN(data string) string {
	v, resp, ok := toggle01(data, i.Automation.SendVIN)
	if ok {
		i.Automation.SendVIN = v
	}
	return resp
}
