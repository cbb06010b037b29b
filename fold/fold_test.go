package fold

import (
	"math"
	"testing"

	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/config"
	"github.com/tdewolff/crunch/literal"
	"github.com/tdewolff/crunch/parser"
	"github.com/tdewolff/crunch/printer"
	"github.com/tdewolff/crunch/resolve"
	"github.com/tdewolff/test"
)

func fold(t *testing.T, js string, settings *config.Settings) string {
	t.Helper()
	prog, err := parser.ParseString(js)
	test.Error(t, err)
	resolve.Resolve(prog, settings, nil)
	Fold(prog, settings)
	test.Error(t, ast.Check(prog))
	return printer.String(prog)
}

func TestFold(t *testing.T) {
	var tests = []struct {
		js       string
		expected string
	}{
		// arithmetic
		{"x = 3 * 4", "x=12"},
		{"x = 2 + 2 * 3", "x=8"},
		{"x = 999 + 1", "x=1e3"},
		{"x = 1 / 3", "x=1/3"},
		{"x = 1 / 0", "x=1/0"},
		{"x = 0 / 0", "x=NaN"},
		{"x = 7 % 4", "x=3"},
		{"x = '5' - 2", "x=3"},
		{"x = true + null", "x=1"},
		{"x = -0", "x=-0"},
		{"x = -'5'", "x=-5"},
		{"x = +'abc'", "x=NaN"},
		{"x = ~5", "x=-6"},

		// to number
		{"y - 0", "+y"},
		{"x = y - 0", "x=+y"},
		{"x = y * 1", "x=+y"},
		{"x = y / 1", "x=+y"},
		{"x = y - -0", "x=y- -0"},
		{"x = y + 0", "x=y+0"},

		// bitwise
		{"x = 5 & 3", "x=1"},
		{"x = 4294967295 | 0", "x=-1"},
		{"x = 5 & 3.5", "x=5&3.5"},
		{"x = 1 << 31", "x=1<<31"},
		{"x = -1 >>> 28", "x=15"},
		{"x = -16 >> 2", "x=-4"},

		// strings
		{"x = 'a' + 'b'", `x="ab"`},
		{"x = 'a' + 1", `x="a1"`},
		{"x = 'a' + 1.5", `x="a"+1.5`},
		{"x = 'a' + NaN", `x="aNaN"`},
		{"x = 'a' + true", `x="a"+!0`},
		{"x = 1 + 2 + 'a'", `x="3a"`},
		{"x = typeof 1", `x="number"`},
		{"x = typeof null", `x="object"`},

		// comparisons
		{"x = 'b' > 'a'", "x=!0"},
		{"x = 1 < 'a'", "x=!1"},
		{"x = 2 >= 2", "x=!0"},
		{"x = null == 0", "x=!1"},
		{"x = '1' == 1", "x=!0"},
		{"x = true == 1", "x=!0"},
		{"x = 'x' === 5", "x=!1"},
		{"x = 'x' !== 5", "x=!0"},
		{"x = typeof y === 5", "x=!1"},
		{"x = y() === 5", "x=y()===5"},
		{"x = typeof y === 'undefined'", `x=typeof y==="undefined"`},

		// logical
		{"x = !0", "x=!0"},
		{"x = !'a'", "x=!1"},
		{"x = 1 && y", "x=y"},
		{"x = 0 && y", "x=0"},
		{"x = 0 || y", "x=y"},
		{"x = 'a' || y", `x="a"`},
		{"x = y && 1", "x=y&&1"},
		{"x = 1 ? y : z", "x=y"},
		{"x = '' ? y : z", "x=z"},
		{"x = void 'abc'", "x=void 0"},
		{"x = void 0", "x=void 0"},

		// comma
		{"x = (1, y)", "x=y"},
		{"x = (y(), 1, z)", "x=(y(),z)"},
		{"x = (y(), z)", "x=(y(),z)"},

		// rotation
		{"x = y + 'a' + 'b'", `x=y+"ab"`},
		{"x = y + 'a' + 1", `x=y+"a1"`},
		{"x = 'a' + ('b' + y)", `x="ab"+y`},
		{"x = y + 1 + 2", "x=y+1+2"},
		{"x = y + 1 + 'a'", `x=y+1+"a"`},
		{"x = y - 1 - 2", "x=y-3"},
		{"x = y - 1 + 2", "x=y- -1"},
		{"x = y - 2 + 2", "x=y-2+2"},
		{"x = -y + 1 + 2", "x=-y+3"},
		{"x = -y + 1 - 3", "x=-y-2"},
		{"x = 1 + (2 - y)", "x=3-y"},
		{"x = 1 - (2 - y)", "x=1-(2-y)"},
		{"x = 1 - (2 - -y)", "x=-1+-y"},
		{"x = y * 2 * 3", "x=y*6"},
		{"x = y / 2 / 3", "x=y/6"},
		{"x = y * 6 / 3", "x=y*2"},
		{"x = y * 2 / 6", "x=y/3"},
		{"x = y * 2 / 3", "x=y*2/3"},
		{"x = y * 2 / 2", "x=+y"},
		{"x = 2 * (3 * y)", "x=6*y"},
		{"x = 12 / (3 * y)", "x=4/y"},
		{"x = 12 / (3 / y)", "x=4*y"},
		{"x = y & 3 & 5", "x=y&1"},
		{"x = y | 1 | 2", "x=y|3"},
		{"x = y << 1 << 2", "x=y<<1<<2"},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, fold(t, tt.js, nil), tt.expected)
		})
	}
}

func TestFoldEdgeCases(t *testing.T) {
	var tests = []struct {
		js       string
		expected string
	}{
		{"x = -0 + 0", "x=0"},
		{"x = -0 - 0", "x=-0"},
		{"x = 0 * -1", "x=-0"},
		{"x = 1 / -0", "x=-1/0"},
		{"x = -0 === 0", "x=!0"},
		{"x = -0 == 0", "x=!0"},
		{"x = NaN === NaN", "x=!1"},
		{"x = NaN != NaN", "x=!0"},
		{"x = NaN < 1", "x=!1"},
		{"x = NaN >= NaN", "x=!1"},
		{"x = NaN + 1", "x=NaN+1"},
		{"x = Infinity - Infinity", "x=Infinity-Infinity"},
		{"x = 1 / 0 > 9007199254740992", "x=!0"},
		{"x = '' + Infinity", `x="Infinity"`},
		{"x = '' + -Infinity", `x=""+-1/0`},
		{"x = 9007199254740992 + 1", "x=9007199254740992"},
		{"x = 9007199254740992 * 2", "x=0x40000000000000"},
		{"x = -9007199254740992 - 1", "x=-9007199254740992"},
		{"x = 9007199254740994 + 1", "x=9007199254740994+1"},
		{"x = 'a' + 9007199254740994", `x="a"+9007199254740994`},
		{"x = y + 4503599627370496 + 4503599627370497", "x=y+4503599627370496+4503599627370497"},
		{"x = 010 + 1", "x=010+1"},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, fold(t, tt.js, nil), tt.expected)
		})
	}
}

func TestFoldCallee(t *testing.T) {
	var tests = []struct {
		js       string
		expected string
	}{
		{"(0, a.b)()", "(0,a.b)()"},
		{"(0, a[b])()", "(0,a[b])()"},
		{"(0, eval)(s)", "(0,eval)(s)"},
		{"(1 && a.b)()", "(0,a.b)()"},
		{"(0 || a.b)()", "(0,a.b)()"},
		{"(1 ? a.b : c)()", "(0,a.b)()"},
		{"(0 ? c : eval)(s)", "(0,eval)(s)"},
		{"delete (1 && a.b)", "delete(0,a.b)"},
		{"delete (0, x)", "delete(0,x)"},
		{"(0, f)()", "f()"},
		{"(1 && f)()", "f()"},
		{"(1 ? f : g)()", "f()"},
		{"x = (0, a.b)", "x=a.b"},
		{"x = (1 && a.b)(), (1 && a.b)", "x=(0,a.b)(),a.b"},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, fold(t, tt.js, nil), tt.expected)
		})
	}
}

func TestFoldDisallowed(t *testing.T) {
	var tests = []struct {
		js       string
		disallow config.Modification
		expected string
	}{
		{"x = 3 * 4", config.EvaluateNumericExpressions, "x=3*4"},
		{"x = y - 0", config.EvaluateNumericExpressions, "x=y-0"},
		{"x = y * 2 * 3", config.EvaluateNumericExpressions, "x=y*2*3"},
		{"x = 'a' + 'b'", config.EvaluateStringExpressions, `x="a"+"b"`},
		{"x = typeof 1", config.EvaluateStringExpressions, "x=typeof 1"},
		{"x = 1 && y", config.EvaluateLogicalExpressions, "x=1&&y"},
		{"x = 1 ? y : z", config.EvaluateLogicalExpressions, "x=1?y:z"},
		{"x = 'x' === 5", config.EvaluateLogicalExpressions, `x="x"===5`},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			settings := &config.Settings{}
			settings.Allow(tt.disallow, false)
			test.String(t, fold(t, tt.js, settings), tt.expected)
		})
	}
}

var operands = []literal.Value{
	literal.Number(0),
	literal.Number(math.Copysign(0, -1)),
	literal.Number(1),
	literal.Number(-1),
	literal.Number(0.5),
	literal.Number(3),
	literal.Number(math.NaN()),
	literal.Number(math.Inf(1)),
	literal.Number(math.Inf(-1)),
	literal.Number(1 << 53),
	literal.Number(-(1 << 53)),
	literal.String(""),
	literal.String("1"),
	literal.String("a"),
	literal.Bool(true),
	literal.Bool(false),
	literal.Null(),
}

var operators = []ast.Op{
	ast.AddOp, ast.SubOp, ast.MulOp, ast.DivOp, ast.ModOp,
	ast.LtOp, ast.GtOp, ast.LtEqOp, ast.GtEqOp,
	ast.EqOp, ast.NotEqOp, ast.StrictEqOp, ast.StrictNotEqOp,
	ast.BitAndOp, ast.BitOrOp, ast.BitXorOp, ast.ShlOp, ast.ShrOp, ast.UShrOp,
}

// assignment returns the program x=(a op b) and its right-hand side.
func assignment(op ast.Op, a, b literal.Value) (*ast.Node, *ast.Node) {
	bin := ast.NewBinary(op, ast.NewLiteral(a), ast.NewLiteral(b))
	stmt := ast.New(ast.ExprStmtNode, ast.NewAssign(ast.AssignOp, ast.NewLookup("x", nil), bin))
	return ast.New(ast.ProgramNode, stmt), stmt.Child(0)
}

func TestFoldSoundness(t *testing.T) {
	for _, op := range operators {
		for _, a := range operands {
			for _, b := range operands {
				prog, assign := assignment(op, a, b)
				Fold(prog, nil)
				res := assign.Child(1)
				if res.Kind != ast.LiteralNode {
					continue
				}
				name := a.String() + op.String() + b.String()

				if a.Kind == literal.NumberKind && b.Kind == literal.NumberKind {
					x, y := a.Num, b.Num
					switch op {
					case ast.AddOp, ast.SubOp, ast.MulOp, ast.DivOp, ast.ModOp:
						var expected float64
						switch op {
						case ast.AddOp:
							expected = x + y
						case ast.SubOp:
							expected = x - y
						case ast.MulOp:
							expected = x * y
						case ast.DivOp:
							expected = x / y
						default:
							expected = math.Mod(x, y)
						}
						test.That(t, res.Value.Equal(literal.Number(expected)), name, res.Value)
					case ast.StrictEqOp, ast.EqOp:
						test.T(t, res.Value, literal.Bool(x == y), name)
					case ast.StrictNotEqOp, ast.NotEqOp:
						test.T(t, res.Value, literal.Bool(x != y), name)
					case ast.LtOp:
						test.T(t, res.Value, literal.Bool(x < y), name)
					case ast.GtOp:
						test.T(t, res.Value, literal.Bool(x > y), name)
					}
				}
				if a.Kind != b.Kind && (op == ast.StrictEqOp || op == ast.StrictNotEqOp) {
					test.T(t, res.Value, literal.Bool(op == ast.StrictNotEqOp), name)
				}
				if math.IsNaN(a.Num) && a.Kind == literal.NumberKind && (op == ast.LtOp || op == ast.GtOp || op == ast.LtEqOp || op == ast.GtEqOp) {
					test.T(t, res.Value, literal.Bool(false), name)
				}
			}
		}
	}
}

func TestFoldMinimality(t *testing.T) {
	for _, op := range operators {
		for _, a := range operands {
			for _, b := range operands {
				prog, _ := assignment(op, a, b)
				before := printer.String(prog)
				Fold(prog, nil)
				after := printer.String(prog)
				test.That(t, len(after) <= len(before), before, "grew to", after)
			}
		}
	}

	// 1/3 has a longer decimal expansion
	prog, assign := assignment(ast.DivOp, literal.Number(1), literal.Number(3))
	test.That(t, !Fold(prog, nil))
	test.T(t, assign.Child(1).Kind, ast.BinaryNode)
}

func TestFoldIdempotent(t *testing.T) {
	var tests = []string{
		"x = y + 'a' + 'b' + 1",
		"x = y * 6 / 3 - 0",
		"x = (a(), 1, b) ? 2 * 3 : -0",
		"x = 1 / 0 + typeof 1",
		"(1 && a.b)()",
		"(1 ? eval : a)(s)",
	}
	for _, js := range tests {
		t.Run(js, func(t *testing.T) {
			prog, err := parser.ParseString(js)
			test.Error(t, err)
			resolve.Resolve(prog, nil, nil)
			Fold(prog, nil)
			first := printer.String(prog)
			test.That(t, !Fold(prog, nil), "second fold changed", first, "to", printer.String(prog))
		})
	}
}

func TestTypeOf(t *testing.T) {
	var tests = []struct {
		js       string
		expected primitive
	}{
		{"1", numberType},
		{"'a'", stringType},
		{"null", nullType},
		{"!a", booleanType},
		{"void a", undefinedType},
		{"typeof a", stringType},
		{"a + 'b'", stringType},
		{"a + 1", unknownType},
		{"-a + 1", numberType},
		{"a - b", numberType},
		{"a < b", booleanType},
		{"a ? 1 : 2", numberType},
		{"a ? 1 : 'b'", mixedType},
		{"a ? 1 : b", unknownType},
		{"a", unknownType},
		{"a()", unknownType},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			prog, err := parser.ParseString("(" + tt.js + ")")
			test.Error(t, err)
			test.T(t, typeOf(prog.Child(0).Child(0)), tt.expected)
		})
	}
}
