package literal

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ToNumber implements the ECMAScript ToNumber operation.
func ToNumber(v Value) (float64, error) {
	switch v.Kind {
	case NullKind:
		return 0, nil
	case BooleanKind:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case NumberKind:
		return v.Num, nil
	case StringKind:
		return StringToNumber(v.Str), nil
	}
	return 0, ErrNotConstant
}

// ToBoolean implements the ECMAScript ToBoolean operation.
func ToBoolean(v Value) (bool, error) {
	switch v.Kind {
	case NullKind:
		return false, nil
	case BooleanKind:
		return v.Bool, nil
	case NumberKind:
		return v.Num != 0 && !math.IsNaN(v.Num), nil
	case StringKind:
		return v.Str != "", nil
	}
	return false, ErrNotConstant
}

// ToString implements the ECMAScript ToString operation.
func ToString(v Value) (string, error) {
	switch v.Kind {
	case NullKind:
		return "null", nil
	case BooleanKind:
		if v.Bool {
			return "true", nil
		}
		return "false", nil
	case NumberKind:
		return NumberToString(v.Num), nil
	case StringKind:
		return v.Str, nil
	}
	return "", ErrNotConstant
}

// ToInt32 converts to a signed 32-bit integer. It fails instead of truncating when the number is not integral or lies outside of [-2^31, 2^32-1].
func ToInt32(v Value) (int32, error) {
	f, err := ToNumber(v)
	if err != nil {
		return 0, err
	}
	return Int32(f)
}

// ToUint32 converts to an unsigned 32-bit integer, with the same failure conditions as ToInt32.
func ToUint32(v Value) (uint32, error) {
	f, err := ToNumber(v)
	if err != nil {
		return 0, err
	}
	return Uint32(f)
}

// Int32 is ToInt32 for a number.
func Int32(f float64) (int32, error) {
	if f != math.Trunc(f) || f < math.MinInt32 || math.MaxUint32 < f {
		return 0, ErrNotInt32
	}
	return int32(uint32(int64(f))), nil
}

// Uint32 is ToUint32 for a number.
func Uint32(f float64) (uint32, error) {
	if f != math.Trunc(f) || f < math.MinInt32 || math.MaxUint32 < f {
		return 0, ErrNotInt32
	}
	return uint32(int64(f)), nil
}

// isSpace reports the ECMAScript WhiteSpace and LineTerminator code points.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0xA0, 0xFEFF, 0x2028, 0x2029:
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// StringToNumber implements ToNumber applied to a string, following the StringNumericLiteral grammar.
func StringToNumber(s string) float64 {
	s = strings.TrimFunc(s, isSpace)
	if s == "" {
		return 0
	}
	if 2 < len(s) && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			return parseRadix(s[2:], base)
		}
	}

	sign := 1.0
	t := s
	if t[0] == '+' || t[0] == '-' {
		if t[0] == '-' {
			sign = -1.0
		}
		t = t[1:]
	}
	if t == "Infinity" {
		return sign * math.Inf(1)
	} else if !isDecimal(t) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); !ok || numErr.Err != strconv.ErrRange {
			return math.NaN()
		}
	}
	return sign * f
}

// parseRadix parses unsigned digits in the given base, rounding to the nearest double like ECMAScript does for large values.
func parseRadix(s string, base int) float64 {
	if s == "" {
		return math.NaN()
	}
	f := 0.0
	exact := true
	var u uint64
	for _, c := range []byte(s) {
		d := digitValue(c)
		if d < 0 || base <= d {
			return math.NaN()
		}
		if exact {
			if u > (math.MaxUint64-uint64(d))/uint64(base) {
				exact = false
				f = float64(u)
			} else {
				u = u*uint64(base) + uint64(d)
				continue
			}
		}
		f = f*float64(base) + float64(d)
	}
	if exact {
		return float64(u)
	}
	return f
}

func digitValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

// isDecimal reports whether s is a StrUnsignedDecimalLiteral without the Infinity form.
func isDecimal(s string) bool {
	i := 0
	digits := 0
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && '0' <= s[i] && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < len(s) && '0' <= s[i] && s[i] <= '9' {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

// NumberToString implements the ECMAScript Number::toString with radix 10.
func NumberToString(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	} else if f == 0 {
		return "0"
	} else if math.IsInf(f, 1) {
		return "Infinity"
	} else if math.IsInf(f, -1) {
		return "-Infinity"
	} else if f < 0 {
		return "-" + NumberToString(-f)
	}

	digits, exp := decompose(f)
	k := len(digits)
	n := exp + 1
	if k <= n && n <= 21 {
		return digits + strings.Repeat("0", n-k)
	} else if 0 < n && n <= 21 {
		return digits[:n] + "." + digits[n:]
	} else if -6 < n && n <= 0 {
		return "0." + strings.Repeat("0", -n) + digits
	}

	e := n - 1
	sign := "+"
	if e < 0 {
		sign = "-"
		e = -e
	}
	if k == 1 {
		return digits + "e" + sign + strconv.Itoa(e)
	}
	return digits[:1] + "." + digits[1:] + "e" + sign + strconv.Itoa(e)
}

// decompose returns the shortest significant digits of a positive finite f and the decimal exponent of its first digit.
func decompose(f float64) (string, int) {
	s := strconv.FormatFloat(f, 'e', -1, 64)
	e := strings.IndexByte(s, 'e')
	mantissa := s[:e]
	exp, _ := strconv.Atoi(s[e+1:])
	digits := strings.Replace(mantissa, ".", "", 1)
	return digits, exp
}

// StringLength returns the length of a string in UTF-16 code units, as the length property in JavaScript.
func StringLength(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if 0xFFFF < r {
			n += 2
		} else {
			n++
		}
	}
	return n
}
