package literal

import (
	"math"
	"strconv"
	"testing"

	"github.com/tdewolff/test"
)

func TestFormat(t *testing.T) {
	var tests = []struct {
		f        float64
		expected string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "-0"},
		{1, "1"},
		{-1, "-1"},
		{100, "100"},
		{1000, "1e3"},
		{12000, "12e3"},
		{123456, "123456"},
		{0.5, ".5"},
		{0.001, ".001"},
		{0.0001, "1e-4"},
		{123.45, "123.45"},
		{1.5e-7, "15e-8"},
		{1e21, "1e21"},
		{1.5e300, "15e299"},
		{0.30000000000000004, ".30000000000000004"},
		{1.0 / 3.0, ".3333333333333333"},
		{281474976710655, "0xFFFFFFFFFFFF"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			test.String(t, Format(tt.f), tt.expected)
		})
	}
}

func TestFormatRoundTrip(t *testing.T) {
	values := []float64{1, 3, 7.25, 1e-7, 123456789, 9007199254740992, 9007199254740993, 1.7976931348623157e308, 5e-324, 0.1, 2.5e-5, 4294967295, 1e15, 1e100}
	for _, f := range values {
		for _, v := range []float64{f, -f} {
			s := Format(v)
			var g float64
			if len(s) > 2 && (s[:2] == "0x" || len(s) > 3 && s[:3] == "-0x") {
				neg := s[0] == '-'
				if neg {
					s = s[1:]
				}
				u, err := strconv.ParseUint(s[2:], 16, 64)
				test.Error(t, err)
				g = float64(u)
				if neg {
					g = -g
				}
			} else {
				var err error
				g, err = strconv.ParseFloat(s, 64)
				test.Error(t, err)
			}
			test.That(t, g == v, "round trip of", v, "via", s)
		}
	}
}

func TestNumberToString(t *testing.T) {
	var tests = []struct {
		f        float64
		expected string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{-1.5, "-1.5"},
		{1e21, "1e+21"},
		{1e20, "100000000000000000000"},
		{123e-20, "1.23e-18"},
		{0.000001, "0.000001"},
		{0.0000001, "1e-7"},
		{0.30000000000000004, "0.30000000000000004"},
		{math.NaN(), "NaN"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			test.String(t, NumberToString(tt.f), tt.expected)
		})
	}
}

func TestStringToNumber(t *testing.T) {
	var tests = []struct {
		s        string
		expected float64
	}{
		{"", 0},
		{"  \n", 0},
		{"42", 42},
		{" 42 ", 42},
		{"-1.5e2", -150},
		{".5", 0.5},
		{"5.", 5},
		{"0x1F", 31},
		{"0b101", 5},
		{"0o17", 15},
		{"+Infinity", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
		{"1e400", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			test.T(t, StringToNumber(tt.s), tt.expected)
		})
	}

	for _, s := range []string{"abc", "1a", "-0x10", "infinity", "1e", "0x", ".", "1_000", "NaN"} {
		test.That(t, math.IsNaN(StringToNumber(s)), s)
	}
	test.That(t, math.Signbit(StringToNumber("-0")), "-0 must keep its sign")
}

func TestCoercions(t *testing.T) {
	n, err := ToNumber(Null())
	test.Error(t, err)
	test.T(t, n, 0.0)
	n, err = ToNumber(Bool(true))
	test.Error(t, err)
	test.T(t, n, 1.0)
	_, err = ToNumber(Other("010"))
	test.T(t, err, ErrNotConstant)

	for _, tt := range []struct {
		v        Value
		expected bool
	}{
		{Null(), false},
		{Bool(false), false},
		{Number(0), false},
		{Number(math.Copysign(0, -1)), false},
		{Number(math.NaN()), false},
		{Number(-1), true},
		{String(""), false},
		{String("0"), true},
	} {
		b, err := ToBoolean(tt.v)
		test.Error(t, err)
		test.T(t, b, tt.expected, tt.v.String())
	}

	s, err := ToString(Number(1e21))
	test.Error(t, err)
	test.String(t, s, "1e+21")
	s, err = ToString(Null())
	test.Error(t, err)
	test.String(t, s, "null")
}

func TestInt32(t *testing.T) {
	i, err := Int32(-1)
	test.Error(t, err)
	test.T(t, i, int32(-1))
	i, err = Int32(4294967295)
	test.Error(t, err)
	test.T(t, i, int32(-1))
	i, err = Int32(2147483648)
	test.Error(t, err)
	test.T(t, i, int32(math.MinInt32))

	u, err := Uint32(-1)
	test.Error(t, err)
	test.T(t, u, uint32(4294967295))

	for _, f := range []float64{0.5, 4294967296, -2147483649, math.NaN(), math.Inf(1), 1e100} {
		_, err := Int32(f)
		test.T(t, err, ErrNotInt32, f)
		_, err = Uint32(f)
		test.T(t, err, ErrNotInt32, f)
	}

	i, err = ToInt32(String("12"))
	test.Error(t, err)
	test.T(t, i, int32(12))
	_, err = ToInt32(String("1.5"))
	test.T(t, err, ErrNotInt32)
}

func TestSafety(t *testing.T) {
	test.That(t, IsSafe(String("x")))
	test.That(t, IsSafe(Number(1<<53)))
	test.That(t, IsSafe(Number(-(1 << 53))))
	test.That(t, !IsSafe(Number(1<<53+2)))
	test.That(t, !IsSafe(Number(math.NaN())))
	test.That(t, !IsSafe(Other("010")))
	test.That(t, IsSafeInteger(9007199254740992))
	test.That(t, !IsSafeInteger(0.5))

	test.That(t, IsOneOrPositiveZero(Number(1)))
	test.That(t, IsOneOrPositiveZero(Number(0)))
	test.That(t, !IsOneOrPositiveZero(Number(math.Copysign(0, -1))))
	test.That(t, !IsOneOrPositiveZero(Number(2)))
	test.That(t, !IsOneOrPositiveZero(Bool(true)))

	// host equality treats the zeros as equal while rendering distinguishes them
	negZero := math.Copysign(0, -1)
	test.That(t, negZero == 0)
	test.That(t, Format(negZero) != Format(0))
	test.That(t, !Number(negZero).Equal(Number(0)))
}

func TestParseNumber(t *testing.T) {
	test.T(t, ParseNumber("42"), Number(42))
	test.T(t, ParseNumber("0x10"), Number(16))
	test.T(t, ParseNumber("0b11"), Number(3))
	test.T(t, ParseNumber("1e3"), Number(1000))
	test.T(t, ParseNumber(".5"), Number(0.5))
	test.T(t, ParseNumber("1e400"), Number(math.Inf(1)))
	test.T(t, ParseNumber("010"), Other("010"))
	test.T(t, ParseNumber("09"), Other("09"))
	test.T(t, ParseNumber("1_000"), Other("1_000"))
	test.T(t, ParseNumber("10n"), Other("10n"))
	test.T(t, ParseNumber("0"), Number(0))
}

func TestQuote(t *testing.T) {
	var tests = []struct {
		s        string
		expected string
	}{
		{"", `""`},
		{"abc", `"abc"`},
		{`a"b`, `'a"b'`},
		{`a'b`, `"a'b"`},
		{`a"b'c"`, `'a"b\'c"'`},
		{"a\nb", `"a\nb"`},
		{"a\\b", `"a\\b"`},
		{"\x001", `"\x001"`},
		{"\x00", `"\0"`},
		{"\x01", `"\x01"`},
		{"</script>", `"<\/script>"`},
		{"\u2028", `"\u2028"`},
		{"a\u2029b", `"a\u2029b"`},
		{"héllo", `"héllo"`},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			test.String(t, Quote(tt.s), tt.expected)
		})
	}
}

func TestUnquote(t *testing.T) {
	var tests = []struct {
		raw      string
		expected string
	}{
		{`""`, ""},
		{`'abc'`, "abc"},
		{`"a\nb"`, "a\nb"},
		{`"\x41"`, "A"},
		{`"A"`, "A"},
		{`"\u{1F600}"`, "\U0001F600"},
		{`"😀"`, "\U0001F600"},
		{`"\q"`, "q"},
		{`"\0"`, "\x00"},
		{"\"a\\\nb\"", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			s, ok := Unquote(tt.raw)
			test.That(t, ok)
			test.String(t, s, tt.expected)
		})
	}

	for _, raw := range []string{`"abc'`, `"\uD800"`, `"\x4"`, `"\01"`, `a`} {
		_, ok := Unquote(raw)
		test.That(t, !ok, raw)
	}
}
