package ast

// Op is the operator of binary, assignment and unary expressions.
type Op uint8

// Op values.
const (
	NoOp Op = iota

	// binary
	CommaOp
	OrOp
	AndOp
	BitOrOp
	BitXorOp
	BitAndOp
	EqOp
	NotEqOp
	StrictEqOp
	StrictNotEqOp
	LtOp
	GtOp
	LtEqOp
	GtEqOp
	InOp
	InstanceofOp
	ShlOp
	ShrOp
	UShrOp
	AddOp
	SubOp
	MulOp
	DivOp
	ModOp

	// assignment
	AssignOp
	AddAssignOp
	SubAssignOp
	MulAssignOp
	DivAssignOp
	ModAssignOp
	ShlAssignOp
	ShrAssignOp
	UShrAssignOp
	BitAndAssignOp
	BitOrAssignOp
	BitXorAssignOp

	// unary
	PosOp
	NegOp
	NotOp
	BitNotOp
	TypeofOp
	VoidOp
	DeleteOp
	PreIncrOp
	PreDecrOp
	PostIncrOp
	PostDecrOp
)

var opText = [...]string{
	NoOp:           "",
	CommaOp:        ",",
	OrOp:           "||",
	AndOp:          "&&",
	BitOrOp:        "|",
	BitXorOp:       "^",
	BitAndOp:       "&",
	EqOp:           "==",
	NotEqOp:        "!=",
	StrictEqOp:     "===",
	StrictNotEqOp:  "!==",
	LtOp:           "<",
	GtOp:           ">",
	LtEqOp:         "<=",
	GtEqOp:         ">=",
	InOp:           "in",
	InstanceofOp:   "instanceof",
	ShlOp:          "<<",
	ShrOp:          ">>",
	UShrOp:         ">>>",
	AddOp:          "+",
	SubOp:          "-",
	MulOp:          "*",
	DivOp:          "/",
	ModOp:          "%",
	AssignOp:       "=",
	AddAssignOp:    "+=",
	SubAssignOp:    "-=",
	MulAssignOp:    "*=",
	DivAssignOp:    "/=",
	ModAssignOp:    "%=",
	ShlAssignOp:    "<<=",
	ShrAssignOp:    ">>=",
	UShrAssignOp:   ">>>=",
	BitAndAssignOp: "&=",
	BitOrAssignOp:  "|=",
	BitXorAssignOp: "^=",
	PosOp:          "+",
	NegOp:          "-",
	NotOp:          "!",
	BitNotOp:       "~",
	TypeofOp:       "typeof",
	VoidOp:         "void",
	DeleteOp:       "delete",
	PreIncrOp:      "++",
	PreDecrOp:      "--",
	PostIncrOp:     "++",
	PostDecrOp:     "--",
}

func (op Op) String() string {
	if int(op) < len(opText) {
		return opText[op]
	}
	return "?"
}

// IsBinary returns true for binary operators.
func (op Op) IsBinary() bool {
	return CommaOp <= op && op <= ModOp
}

// IsAssign returns true for assignment operators.
func (op Op) IsAssign() bool {
	return AssignOp <= op && op <= BitXorAssignOp
}

// IsUnary returns true for unary operators.
func (op Op) IsUnary() bool {
	return PosOp <= op && op <= PostDecrOp
}

// IsPostfix returns true for the postfix update operators.
func (op Op) IsPostfix() bool {
	return op == PostIncrOp || op == PostDecrOp
}

// IsComparison returns true for operators that always produce a boolean.
func (op Op) IsComparison() bool {
	return EqOp <= op && op <= InstanceofOp
}

// IsBitwise returns true for operators that convert their operands with ToInt32 or ToUint32.
func (op Op) IsBitwise() bool {
	switch op {
	case BitOrOp, BitXorOp, BitAndOp, ShlOp, ShrOp, UShrOp:
		return true
	}
	return false
}

// BinaryOf returns the binary operator of a compound assignment operator.
func (op Op) BinaryOf() Op {
	switch op {
	case AddAssignOp:
		return AddOp
	case SubAssignOp:
		return SubOp
	case MulAssignOp:
		return MulOp
	case DivAssignOp:
		return DivOp
	case ModAssignOp:
		return ModOp
	case ShlAssignOp:
		return ShlOp
	case ShrAssignOp:
		return ShrOp
	case UShrAssignOp:
		return UShrOp
	case BitAndAssignOp:
		return BitAndOp
	case BitOrAssignOp:
		return BitOrOp
	case BitXorAssignOp:
		return BitXorOp
	}
	return NoOp
}

// Negated returns the comparison operator that gives the opposite result, if it is exact for all operands including NaN.
func (op Op) Negated() (Op, bool) {
	switch op {
	case EqOp:
		return NotEqOp, true
	case NotEqOp:
		return EqOp, true
	case StrictEqOp:
		return StrictNotEqOp, true
	case StrictNotEqOp:
		return StrictEqOp, true
	}
	return NoOp, false
}

var binaryOps = map[string]Op{}
var assignOps = map[string]Op{}

func init() {
	for op := CommaOp; op <= ModOp; op++ {
		binaryOps[opText[op]] = op
	}
	for op := AssignOp; op <= BitXorAssignOp; op++ {
		assignOps[opText[op]] = op
	}
}

// BinaryOp returns the binary operator for its source text.
func BinaryOp(text string) (Op, bool) {
	op, ok := binaryOps[text]
	return op, ok
}

// AssignmentOp returns the assignment operator for its source text.
func AssignmentOp(text string) (Op, bool) {
	op, ok := assignOps[text]
	return op, ok
}

// Prec is an operator precedence level, higher binds tighter.
type Prec uint8

// Prec values.
const (
	PrecLowest Prec = iota
	PrecComma
	PrecAssign
	PrecCond
	PrecOr
	PrecAnd
	PrecBitOr
	PrecBitXor
	PrecBitAnd
	PrecEquals
	PrecCompare
	PrecShift
	PrecAdd
	PrecMul
	PrecPrefix
	PrecPostfix
	PrecNew
	PrecCall
	PrecMember
	PrecPrimary
)

// Prec returns the precedence of a binary or unary operator.
func (op Op) Prec() Prec {
	switch op {
	case CommaOp:
		return PrecComma
	case OrOp:
		return PrecOr
	case AndOp:
		return PrecAnd
	case BitOrOp:
		return PrecBitOr
	case BitXorOp:
		return PrecBitXor
	case BitAndOp:
		return PrecBitAnd
	case EqOp, NotEqOp, StrictEqOp, StrictNotEqOp:
		return PrecEquals
	case LtOp, GtOp, LtEqOp, GtEqOp, InOp, InstanceofOp:
		return PrecCompare
	case ShlOp, ShrOp, UShrOp:
		return PrecShift
	case AddOp, SubOp:
		return PrecAdd
	case MulOp, DivOp, ModOp:
		return PrecMul
	case PostIncrOp, PostDecrOp:
		return PrecPostfix
	}
	if op.IsAssign() {
		return PrecAssign
	} else if op.IsUnary() {
		return PrecPrefix
	}
	return PrecLowest
}
