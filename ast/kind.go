package ast

import "strconv"

// Kind is the node type.
type Kind uint8

// Kind values.
const (
	ErrorNode Kind = iota

	// statements
	ProgramNode   // stmt...
	BlockNode     // stmt...
	VarNode       // VarDecl...
	VarDeclNode   // [init]
	ExprStmtNode  // [expr]
	EmptyNode     //
	IfNode        // [cond, then, else]
	ForNode       // [init, cond, update, body]
	ForInNode     // [lhs, object, body]
	WhileNode     // [cond, body]
	DoWhileNode   // [body, cond]
	SwitchNode    // [discriminant], Case...
	CaseNode      // [test], stmt...; a nil test is the default case
	TryNode       // [block, catch, finally]
	CatchNode     // [param, block]
	ReturnNode    // [value]
	ThrowNode     // [value]
	BreakNode     //
	ContinueNode  //
	LabeledNode   // [stmt]
	WithNode      // [object, body]
	DebuggerNode  //
	FunctionNode  // [ParamList, Block]
	ParamListNode // Param...
	ParamNode     //

	// expressions
	BinaryNode   // [x, y]
	AssignNode   // [target, value]
	UnaryNode    // [x]
	CondNode     // [cond, x, y]
	CallNode     // [callee], arg...
	NewNode      // [callee], arg...
	MemberNode   // [object]; Name is the property
	IndexNode    // [object, key]
	LookupNode   //
	LiteralNode  //
	RegExpNode   //
	ThisNode     //
	ArrayNode    // element...
	ElisionNode  //
	ObjectNode   // Property...
	PropertyNode // [value]
)

var kindNames = map[Kind]string{
	ErrorNode:     "Error",
	ProgramNode:   "Program",
	BlockNode:     "Block",
	VarNode:       "Var",
	VarDeclNode:   "VarDecl",
	ExprStmtNode:  "ExprStmt",
	EmptyNode:     "Empty",
	IfNode:        "If",
	ForNode:       "For",
	ForInNode:     "ForIn",
	WhileNode:     "While",
	DoWhileNode:   "DoWhile",
	SwitchNode:    "Switch",
	CaseNode:      "Case",
	TryNode:       "Try",
	CatchNode:     "Catch",
	ReturnNode:    "Return",
	ThrowNode:     "Throw",
	BreakNode:     "Break",
	ContinueNode:  "Continue",
	LabeledNode:   "Labeled",
	WithNode:      "With",
	DebuggerNode:  "Debugger",
	FunctionNode:  "Function",
	ParamListNode: "ParamList",
	ParamNode:     "Param",
	BinaryNode:    "Binary",
	AssignNode:    "Assign",
	UnaryNode:     "Unary",
	CondNode:      "Cond",
	CallNode:      "Call",
	NewNode:       "New",
	MemberNode:    "Member",
	IndexNode:     "Index",
	LookupNode:    "Lookup",
	LiteralNode:   "Literal",
	RegExpNode:    "RegExp",
	ThisNode:      "This",
	ArrayNode:     "Array",
	ElisionNode:   "Elision",
	ObjectNode:    "Object",
	PropertyNode:  "Property",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Invalid(" + strconv.Itoa(int(k)) + ")"
}

// fixedSlots returns the number of leading child slots that always exist for a kind. Such slots hold nil when the child is absent.
func fixedSlots(k Kind) int {
	switch k {
	case VarDeclNode, ExprStmtNode, ReturnNode, ThrowNode, LabeledNode, UnaryNode, MemberNode, PropertyNode,
		SwitchNode, CaseNode, CallNode, NewNode:
		return 1
	case WhileNode, DoWhileNode, CatchNode, WithNode, FunctionNode, BinaryNode, AssignNode, IndexNode:
		return 2
	case IfNode, TryNode, CondNode, ForInNode:
		return 3
	case ForNode:
		return 4
	}
	return 0
}

// IsVariadic returns true if a kind holds a list of children after its fixed slots, from which removed children are dropped.
func (k Kind) IsVariadic() bool {
	switch k {
	case ProgramNode, BlockNode, VarNode, ParamListNode, ArrayNode, ObjectNode, SwitchNode, CaseNode, CallNode, NewNode:
		return true
	}
	return false
}

// IsStatement returns true for statement kinds.
func (k Kind) IsStatement() bool {
	return ProgramNode <= k && k <= FunctionNode && k != VarDeclNode && k != CaseNode && k != CatchNode
}

// IsExpression returns true for expression kinds. Function nodes are expressions when they carry the expression flag.
func (k Kind) IsExpression() bool {
	return BinaryNode <= k && k <= PropertyNode && k != PropertyNode && k != ElisionNode
}

// IsLoop returns true for iteration statements.
func (k Kind) IsLoop() bool {
	return k == ForNode || k == ForInNode || k == WhileNode || k == DoWhileNode
}
