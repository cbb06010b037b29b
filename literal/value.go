// Package literal implements constant values of JavaScript literals, their ECMAScript coercions and their shortest textual representation.
package literal

import (
	"errors"
	"math"
	"strconv"
)

// ErrNotInt32 is returned by ToInt32 and ToUint32 when the value is not an integral double within the 32-bit range.
var ErrNotInt32 = errors.New("value is not an integral 32-bit number")

// ErrNotConstant is returned when a coercion is requested for a value whose constant meaning is unknown.
var ErrNotConstant = errors.New("value is not a known constant")

// Kind is the type tag of a Value.
type Kind uint8

// Kind values.
const (
	NullKind Kind = iota
	BooleanKind
	NumberKind
	StringKind
	OtherKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "Null"
	case BooleanKind:
		return "Boolean"
	case NumberKind:
		return "Number"
	case StringKind:
		return "String"
	case OtherKind:
		return "Other"
	}
	return "Invalid(" + strconv.Itoa(int(k)) + ")"
}

// Value is a compile-time constant. Other keeps literal source text verbatim when its numeric meaning cannot be reproduced losslessly.
type Value struct {
	Kind Kind
	Bool bool
	Num  float64
	Str  string
}

// Null returns the null value.
func Null() Value {
	return Value{Kind: NullKind}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{Kind: BooleanKind, Bool: b}
}

// Number returns a number value.
func Number(f float64) Value {
	return Value{Kind: NumberKind, Num: f}
}

// String returns a string value.
func String(s string) Value {
	return Value{Kind: StringKind, Str: s}
}

// Other returns a value that is kept exactly as written in the source.
func Other(raw string) Value {
	return Value{Kind: OtherKind, Str: raw}
}

// IsConstant returns true if the value has a known ECMAScript meaning.
func (v Value) IsConstant() bool {
	return v.Kind != OtherKind
}

// Equal returns true if both values have the same type and the same content. Numbers compare bitwise so that NaN equals NaN and -0 differs from 0.
func (v Value) Equal(w Value) bool {
	if v.Kind != w.Kind {
		return false
	}
	switch v.Kind {
	case NullKind:
		return true
	case BooleanKind:
		return v.Bool == w.Bool
	case NumberKind:
		return math.Float64bits(v.Num) == math.Float64bits(w.Num) || math.IsNaN(v.Num) && math.IsNaN(w.Num)
	}
	return v.Str == w.Str
}

// String returns the JavaScript source text of the value.
func (v Value) String() string {
	switch v.Kind {
	case NullKind:
		return "null"
	case BooleanKind:
		if v.Bool {
			return "true"
		}
		return "false"
	case NumberKind:
		return Format(v.Num)
	case StringKind:
		return Quote(v.Str)
	}
	return v.Str
}

// TypeOf returns the result of the typeof operator for the value.
func (v Value) TypeOf() (string, bool) {
	switch v.Kind {
	case NullKind:
		return "object", true
	case BooleanKind:
		return "boolean", true
	case NumberKind:
		return "number", true
	case StringKind:
		return "string", true
	}
	return "", false
}

const maxSafeInteger = 1 << 53

// IsSafe returns true if the value may take part in folding: any non-number, or a number within ±2^53.
func IsSafe(v Value) bool {
	if v.Kind == OtherKind {
		return false
	} else if v.Kind != NumberKind {
		return true
	}
	return -maxSafeInteger <= v.Num && v.Num <= maxSafeInteger
}

// IsSafeInteger returns true for integral numbers within ±2^53.
func IsSafeInteger(f float64) bool {
	return f == math.Trunc(f) && -maxSafeInteger <= f && f <= maxSafeInteger
}

// IsOneOrPositiveZero returns true for the numbers 1 and +0, but not for -0.
func IsOneOrPositiveZero(v Value) bool {
	if v.Kind != NumberKind {
		return false
	}
	return v.Num == 1 || v.Num == 0 && !math.Signbit(v.Num)
}
