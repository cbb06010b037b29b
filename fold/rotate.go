package fold

import (
	"math/big"

	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/literal"
	"github.com/tdewolff/crunch/printer"
)

// rotate combines the constant operand of n with the adjacent constant operand of its binary child, and promotes the child into the place of n. For (a op k) op c the constant k is adjacent to c, as it is for c op (k op a).
func (f *Folder) rotate(n *ast.Node) bool {
	if n.Parent() == nil {
		return false
	}
	x, y := n.Child(0), n.Child(1)
	var m, a, k, c *ast.Node
	left := false
	if _, ok := constant(y); ok && x.Kind == ast.BinaryNode {
		m, a, k, c, left = x, x.Child(0), x.Child(1), y, true
	} else if _, ok := constant(x); ok && y.Kind == ast.BinaryNode {
		m, a, k, c = y, y.Child(1), y.Child(0), x
	} else {
		return false
	}
	kv, ok := constant(k)
	if !ok {
		return false
	}
	cv, _ := constant(c)

	var op ast.Op
	var v literal.Value
	if left {
		op, v, ok = combineLeft(m.Op, n.Op, kv, cv, typeOf(a))
	} else {
		op, v, ok = combineRight(n.Op, m.Op, cv, kv, typeOf(a))
	}
	if !ok || !f.allowed(category(n.Op, kv, cv)) {
		return false
	} else if len(printer.Literal(kv))+len(n.Op.String())+len(printer.Literal(cv)) < len(printer.Literal(v)) {
		return false
	}

	lit := ast.NewLiteral(v)
	lit.Span = k.Span
	ast.ReplaceChild(m, k, lit)
	m.Op = op
	f.replace(n, m)
	f.expr(m)
	return true
}

// combineLeft combines (a op1 k) op2 c into a op K.
func combineLeft(op1, op2 ast.Op, k, c literal.Value, ta primitive) (ast.Op, literal.Value, bool) {
	switch {
	case op1 == ast.AddOp && op2 == ast.AddOp && k.Kind == literal.StringKind:
		// a+k is a string whatever a is
		v, ok := concat(k, c)
		return ast.AddOp, v, ok
	case isAdditive(op1) && isAdditive(op2):
		if op1 == ast.AddOp && ta != numberType {
			return 0, literal.Value{}, false
		}
		i, j, ok := integers(k, c)
		if !ok {
			return 0, literal.Value{}, false
		}
		s := sign(op1)*i + sign(op2)*j
		if s == 0 || !literal.IsSafeInteger(s) {
			return 0, literal.Value{}, false
		} else if 0 < s && ta == numberType {
			return ast.AddOp, literal.Number(s), true
		}
		// a is converted to a number by the subtraction
		return ast.SubOp, literal.Number(-s), true
	case isMultiplicative(op1) && isMultiplicative(op2):
		r, ok := ratio(k, op1 == ast.MulOp)
		if !ok {
			return 0, literal.Value{}, false
		}
		s, ok := ratio(c, op2 == ast.MulOp)
		if !ok {
			return 0, literal.Value{}, false
		}
		return factor(r.Mul(r, s))
	case op1 == op2 && (op1 == ast.BitAndOp || op1 == ast.BitOrOp || op1 == ast.BitXorOp):
		v, ok := bitwise(op1, k, c)
		return op1, v, ok
	}
	return 0, literal.Value{}, false
}

// combineRight combines c op2 (k op1 a) into K op a.
func combineRight(op2, op1 ast.Op, c, k literal.Value, ta primitive) (ast.Op, literal.Value, bool) {
	switch {
	case op2 == ast.AddOp && op1 == ast.AddOp && k.Kind == literal.StringKind:
		// k+a is a string whatever a is
		v, ok := concat(c, k)
		return ast.AddOp, v, ok
	case isAdditive(op1) && isAdditive(op2):
		i, j, ok := integers(c, k)
		if !ok {
			return 0, literal.Value{}, false
		}
		s := i + sign(op2)*j
		op := ast.AddOp
		if sign(op2)*sign(op1) < 0 {
			op = ast.SubOp
		}
		if !literal.IsSafeInteger(s) {
			return 0, literal.Value{}, false
		} else if (op1 == ast.AddOp || op == ast.AddOp) && ta != numberType {
			return 0, literal.Value{}, false
		}
		return op, literal.Number(s), true
	case isMultiplicative(op1) && isMultiplicative(op2):
		r, ok := ratio(c, true)
		if !ok {
			return 0, literal.Value{}, false
		}
		s, ok := ratio(k, op2 == ast.MulOp)
		if !ok {
			return 0, literal.Value{}, false
		}
		op := op1
		if op2 == ast.DivOp {
			op = flip(op1)
		}
		if q, ok := integer(r.Mul(r, s)); ok {
			return op, q, true
		}
	case op1 == op2 && (op1 == ast.BitAndOp || op1 == ast.BitOrOp || op1 == ast.BitXorOp):
		v, ok := bitwise(op1, c, k)
		return op1, v, ok
	}
	return 0, literal.Value{}, false
}

func isAdditive(op ast.Op) bool {
	return op == ast.AddOp || op == ast.SubOp
}

func isMultiplicative(op ast.Op) bool {
	return op == ast.MulOp || op == ast.DivOp
}

func sign(op ast.Op) float64 {
	if op == ast.SubOp {
		return -1.0
	}
	return 1.0
}

func flip(op ast.Op) ast.Op {
	if op == ast.MulOp {
		return ast.DivOp
	}
	return ast.MulOp
}

// integers returns two numbers that are safe integers.
func integers(x, y literal.Value) (float64, float64, bool) {
	if x.Kind != literal.NumberKind || y.Kind != literal.NumberKind || !literal.IsSafeInteger(x.Num) || !literal.IsSafeInteger(y.Num) {
		return 0, 0, false
	}
	return x.Num, y.Num, true
}

// ratio returns a nonzero safe integer as an exact fraction, or its reciprocal.
func ratio(v literal.Value, mul bool) (*big.Rat, bool) {
	if v.Kind != literal.NumberKind || v.Num == 0 || !literal.IsSafeInteger(v.Num) {
		return nil, false
	}
	r := new(big.Rat).SetInt64(int64(v.Num))
	if !mul {
		r.Inv(r)
	}
	return r, true
}

// integer returns r as a number if it is a nonzero safe integer.
func integer(r *big.Rat) (literal.Value, bool) {
	if !r.IsInt() || r.Sign() == 0 || !r.Num().IsInt64() {
		return literal.Value{}, false
	}
	i := float64(r.Num().Int64())
	if !literal.IsSafeInteger(i) {
		return literal.Value{}, false
	}
	return literal.Number(i), true
}

// factor returns a multiplication by r, or a division by its reciprocal, when either is an integer.
func factor(r *big.Rat) (ast.Op, literal.Value, bool) {
	if v, ok := integer(r); ok {
		return ast.MulOp, v, true
	} else if v, ok := integer(new(big.Rat).Inv(r)); ok {
		return ast.DivOp, v, true
	}
	return 0, literal.Value{}, false
}
