package fold

import (
	"math"
	"unicode/utf16"

	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/config"
	"github.com/tdewolff/crunch/literal"
)

// category returns the modification that allows folding op on operands of the given types.
func category(op ast.Op, x, y literal.Value) config.Modification {
	switch op {
	case ast.AddOp:
		if x.Kind == literal.StringKind || y.Kind == literal.StringKind {
			return config.EvaluateStringExpressions
		}
		return config.EvaluateNumericExpressions
	case ast.SubOp, ast.MulOp, ast.DivOp, ast.ModOp, ast.BitAndOp, ast.BitOrOp, ast.BitXorOp, ast.ShlOp, ast.ShrOp, ast.UShrOp:
		return config.EvaluateNumericExpressions
	}
	return config.EvaluateLogicalExpressions
}

// concatenable returns true if the value converts to the same string on every host. Fractional numbers are excluded.
func concatenable(v literal.Value) bool {
	if v.Kind != literal.NumberKind {
		return v.IsConstant()
	}
	return literal.IsSafeInteger(v.Num) || math.IsNaN(v.Num) || math.IsInf(v.Num, 0)
}

// concat returns the string concatenation of two constants, one of which is a string.
func concat(x, y literal.Value) (literal.Value, bool) {
	if !concatenable(x) || !concatenable(y) {
		return literal.Value{}, false
	}
	s, err := literal.ToString(x)
	if err != nil {
		return literal.Value{}, false
	}
	t, err := literal.ToString(y)
	if err != nil {
		return literal.Value{}, false
	}
	return literal.String(s + t), true
}

func numbers(x, y literal.Value) (float64, float64, bool) {
	a, err := literal.ToNumber(x)
	if err != nil {
		return 0, 0, false
	}
	b, err := literal.ToNumber(y)
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

// evaluate applies a binary operator to two constants. It returns false when the result cannot be computed exactly, or when the operation is not reproducible by every host.
func evaluate(op ast.Op, x, y literal.Value) (literal.Value, bool) {
	switch op {
	case ast.AddOp:
		if x.Kind == literal.StringKind || y.Kind == literal.StringKind {
			return concat(x, y)
		}
		fallthrough
	case ast.SubOp, ast.MulOp, ast.DivOp, ast.ModOp:
		if !literal.IsSafe(x) || !literal.IsSafe(y) {
			return literal.Value{}, false
		}
		a, b, ok := numbers(x, y)
		if !ok {
			return literal.Value{}, false
		}
		return literal.Number(arithmetic(op, a, b)), true
	case ast.BitAndOp, ast.BitOrOp, ast.BitXorOp, ast.ShlOp, ast.ShrOp, ast.UShrOp:
		return bitwise(op, x, y)
	case ast.LtOp, ast.GtOp, ast.LtEqOp, ast.GtEqOp:
		return compare(op, x, y)
	case ast.EqOp, ast.NotEqOp:
		eq, ok := looseEqual(x, y)
		return literal.Bool(eq == (op == ast.EqOp)), ok
	case ast.StrictEqOp, ast.StrictNotEqOp:
		eq := strictEqual(x, y)
		return literal.Bool(eq == (op == ast.StrictEqOp)), true
	}
	return literal.Value{}, false
}

func arithmetic(op ast.Op, a, b float64) float64 {
	switch op {
	case ast.AddOp:
		return a + b
	case ast.SubOp:
		return a - b
	case ast.MulOp:
		return a * b
	case ast.DivOp:
		return a / b
	}
	return math.Mod(a, b)
}

// bitwise folds the bitwise and shift operators. The operands must already be integral 32-bit numbers, otherwise folding is abandoned.
func bitwise(op ast.Op, x, y literal.Value) (literal.Value, bool) {
	a, err := literal.ToInt32(x)
	if err != nil {
		return literal.Value{}, false
	}
	b, err := literal.ToUint32(y)
	if err != nil {
		return literal.Value{}, false
	}
	switch op {
	case ast.BitAndOp:
		return literal.Number(float64(a & int32(b))), true
	case ast.BitOrOp:
		return literal.Number(float64(a | int32(b))), true
	case ast.BitXorOp:
		return literal.Number(float64(a ^ int32(b))), true
	case ast.ShlOp:
		return literal.Number(float64(a << (b & 31))), true
	case ast.ShrOp:
		return literal.Number(float64(a >> (b & 31))), true
	}
	return literal.Number(float64(uint32(a) >> (b & 31))), true
}

// compare folds the relational operators. Strings compare by UTF-16 code units, everything else numerically where NaN compares false.
func compare(op ast.Op, x, y literal.Value) (literal.Value, bool) {
	if x.Kind == literal.StringKind && y.Kind == literal.StringKind {
		c := compareUTF16(x.Str, y.Str)
		switch op {
		case ast.LtOp:
			return literal.Bool(c < 0), true
		case ast.GtOp:
			return literal.Bool(0 < c), true
		case ast.LtEqOp:
			return literal.Bool(c <= 0), true
		}
		return literal.Bool(0 <= c), true
	}
	a, b, ok := numbers(x, y)
	if !ok {
		return literal.Value{}, false
	}
	switch op {
	case ast.LtOp:
		return literal.Bool(a < b), true
	case ast.GtOp:
		return literal.Bool(a > b), true
	case ast.LtEqOp:
		return literal.Bool(a <= b), true
	}
	return literal.Bool(a >= b), true
}

func compareUTF16(s, t string) int {
	a, b := utf16.Encode([]rune(s)), utf16.Encode([]rune(t))
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

// strictEqual uses host float equality for numbers, so that 0 === -0 while NaN !== NaN.
func strictEqual(x, y literal.Value) bool {
	if x.Kind != y.Kind {
		return false
	}
	switch x.Kind {
	case literal.NullKind:
		return true
	case literal.BooleanKind:
		return x.Bool == y.Bool
	case literal.NumberKind:
		return x.Num == y.Num
	}
	return x.Str == y.Str
}

// looseEqual implements the abstract equality comparison between primitives.
func looseEqual(x, y literal.Value) (bool, bool) {
	if !x.IsConstant() || !y.IsConstant() {
		return false, false
	} else if x.Kind == y.Kind {
		return strictEqual(x, y), true
	} else if x.Kind == literal.NullKind || y.Kind == literal.NullKind {
		// null only equals undefined
		return false, true
	}
	a, b, ok := numbers(x, y)
	return a == b, ok
}
