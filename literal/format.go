package literal

import (
	"math"
	"strconv"
	"strings"
)

// Format returns the shortest source text for a number that reparses to exactly the same double. It chooses between plain decimal, exponent and hexadecimal notation. NaN and the infinities return their global names and -0 is rendered as "-0".
func Format(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	} else if math.IsInf(f, 1) {
		return "Infinity"
	} else if math.IsInf(f, -1) {
		return "-Infinity"
	} else if f == 0 {
		if math.Signbit(f) {
			return "-0"
		}
		return "0"
	} else if f < 0 {
		return "-" + formatPositive(-f)
	}
	return formatPositive(f)
}

func formatPositive(f float64) string {
	// integers below 1000 never benefit from an exponent
	if f < 1000 && f == math.Trunc(f) {
		return strconv.Itoa(int(f))
	}

	digits, exp := decompose(f)
	k := len(digits)

	var best string
	if k-1 <= exp {
		// integer: 1200, 1e21
		best = digits + strings.Repeat("0", exp-k+1)
	} else if 0 <= exp {
		// 12.5
		best = digits[:exp+1] + "." + digits[exp+1:]
	} else {
		// .0012
		best = "." + strings.Repeat("0", -exp-1) + digits
	}

	// 12e-5, 15e299
	if s := digits + "e" + strconv.Itoa(exp-k+1); len(s) < len(best) {
		best = s
	}

	if f == math.Trunc(f) && f < 1<<64 {
		if s := "0x" + strings.ToUpper(strconv.FormatUint(uint64(f), 16)); len(s) < len(best) {
			best = s
		}
	}
	return best
}

// ParseNumber converts the source text of a numeric literal into a Value. Literals whose value cannot be reproduced unambiguously, such as legacy octal integers, numeric separators and BigInts, return an Other value with the raw text.
func ParseNumber(raw string) Value {
	if raw == "" || strings.IndexByte(raw, '_') != -1 || raw[len(raw)-1] == 'n' {
		return Other(raw)
	}
	if 1 < len(raw) && raw[0] == '0' {
		base := 0
		switch raw[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		default:
			if '0' <= raw[1] && raw[1] <= '9' {
				// legacy octal or decimal with a leading zero
				return Other(raw)
			}
		}
		if base != 0 {
			u, err := strconv.ParseUint(raw[2:], base, 64)
			if err != nil {
				return Other(raw)
			}
			return Number(float64(u))
		}
	}
	if !isDecimal(raw) {
		return Other(raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); !ok || numErr.Err != strconv.ErrRange {
			return Other(raw)
		}
	}
	return Number(f)
}
