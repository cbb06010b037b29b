package printer

import (
	"bytes"
	"math"
	"testing"

	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/literal"
	"github.com/tdewolff/crunch/parser"
	"github.com/tdewolff/test"
)

func TestPrint(t *testing.T) {
	var tests = []struct {
		js       string
		expected string
	}{
		{"", ""},
		{"a ; b", "a;b"},
		{"var a = 1, b;", "var a=1,b"},
		{"let a = 1; const b = 2", "let a=1;const b=2"},
		{"if (a) b; else c", "if(a)b;else c"},
		{"if (a) { b } else { c }", "if(a){b}else{c}"},
		{"if (a) { if (b) c } else d", "if(a){if(b)c}else d"},
		{"if (a) ; else b", "if(a);else b"},
		{"for (var i = 0; i < 10; i++) x()", "for(var i=0;i<10;i++)x()"},
		{"for (;;) {}", "for(;;){}"},
		{"for (var a = (b in c);;);", "for(var a=(b in c);;);"},
		{"for (a in b) c", "for(a in b)c"},
		{"for (var a in b) c", "for(var a in b)c"},
		{"while (a) b", "while(a)b"},
		{"do a(); while (b)", "do a();while(b)"},
		{"do { a() } while (b)", "do{a()}while(b)"},
		{"switch (a) { case 1: b; break; default: c }", "switch(a){case 1:b;break;default:c}"},
		{"try { a } catch (e) { b } finally { c }", "try{a}catch(e){b}finally{c}"},
		{"function f(a, b) { return a + b }", "function f(a,b){return a+b}"},
		{"(function () {})()", "(function(){})()"},
		{"x = function () {}", "x=function(){}"},
		{"({a: 1}).a", "({a:1}).a"},
		{"a: for (;;) break a", "a:for(;;)break a"},
		{"with (a) b", "with(a)b"},
		{"debugger", "debugger"},
		{"throw new Error('x')", `throw new Error("x")`},

		// precedence
		{"(a + b) * c", "(a+b)*c"},
		{"a + (b * c)", "a+b*c"},
		{"a - (b - c)", "a-(b-c)"},
		{"(a - b) - c", "a-b-c"},
		{"a = b = c", "a=b=c"},
		{"(a, b) ? c : d", "(a,b)?c:d"},
		{"a ? b : c ? d : e", "a?b:c?d:e"},
		{"(a ? b : c) ? d : e", "(a?b:c)?d:e"},
		{"f((a, b))", "f((a,b))"},
		{"new (f())()", "new(f())"},
		{"new (a().b)()", "new(a().b)"},
		{"new a.b()", "new a.b"},
		{"new a().b", "new a().b"},
		{"(new a).b", "new a().b"},
		{"new new a()()", "new new a()"},
		{"typeof a", "typeof a"},
		{"typeof (a + b)", "typeof(a+b)"},
		{"- -a", "- -a"},
		{"a - -b", "a- -b"},
		{"a + +b", "a+ +b"},
		{"a + ++b", "a+ ++b"},
		{"a++ + b", "a++ +b"},
		{"-(a + b)", "-(a+b)"},
		{"!(a && b)", "!(a&&b)"},
		{"a.b.c[d](e)", "a.b.c[d](e)"},
		{"(a + b).c", "(a+b).c"},
		{"1..toString()", "1..toString()"},
		{"1.5.toString()", "1.5.toString()"},
		{"a < !--b", "a< !--b"},
		{"a = /x/g in b", "a=/x/g in b"},
		{"a = /x/ in b", "a=/x/ in b"},
		{"a / /x/", "a/ /x/"},
		{"[a, , b, ]", "[a,,b]"},
		{"[, ]", "[,]"},
		{"[a, , ]", "[a,,]"},
		{"x = {'a': 1, 'b-c': 2, 3: 4, '5': 6, get d() { return 1 }, set d(v) {}}", `x={a:1,"b-c":2,3:4,5:6,get d(){return 1},set d(v){}}`},

		// literals
		{"a = 1000", "a=1e3"},
		{"a = 0.5", "a=.5"},
		{"a = 0xff", "a=255"},
		{"a = 010", "a=010"},
		{"a = 'it\\'s'", `a="it's"`},
		{"a = true", "a=!0"},
		{"a = null", "a=null"},
		{"'use strict'; a", `"use strict";a`},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			prog, err := parser.ParseString(tt.js)
			test.Error(t, err)
			test.String(t, String(prog), tt.expected)
		})
	}
}

func TestPrintLiteral(t *testing.T) {
	var tests = []struct {
		v        literal.Value
		expected string
	}{
		{literal.Bool(true), "!0"},
		{literal.Bool(false), "!1"},
		{literal.Number(math.Inf(1)), "1/0"},
		{literal.Number(math.Inf(-1)), "-1/0"},
		{literal.Number(math.NaN()), "NaN"},
		{literal.Number(math.Copysign(0, -1)), "-0"},
		{literal.String("a"), `"a"`},
		{literal.Null(), "null"},
		{literal.Other("010"), "010"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			test.String(t, Literal(tt.v), tt.expected)
		})
	}
}

func TestPrintConstructed(t *testing.T) {
	// trees built by rewrites rather than parsed
	x := ast.NewLookup("x", nil)
	neg := ast.NewUnary(ast.NegOp, ast.NewLiteral(literal.Number(-1)))
	test.String(t, String(neg), "- -1")

	member := ast.New(ast.MemberNode, ast.NewLiteral(literal.Number(-1)))
	member.Name = "a"
	test.String(t, String(member), "(-1).a")

	mul := ast.NewBinary(ast.MulOp, x, ast.NewLiteral(literal.Number(math.Inf(1))))
	test.String(t, String(mul), "x*(1/0)")

	stmt := ast.New(ast.ExprStmtNode, ast.New(ast.CallNode, ast.New(ast.FunctionNode, ast.New(ast.ParamListNode), ast.New(ast.BlockNode))))
	stmt.Child(0).Child(0).Flags |= ast.ExprFlag
	test.String(t, String(stmt), "(function(){})()")

	f := &ast.Field{Name: "longName", Crunched: "a"}
	test.String(t, String(ast.NewLookup("longName", f)), "a")

	ifStmt := ast.New(ast.IfNode, ast.NewLookup("c", nil), nil, nil)
	test.String(t, String(ifStmt), "if(c);")
	test.T(t, Len(ast.NewBinary(ast.DivOp, ast.NewLiteral(literal.Number(1)), ast.NewLiteral(literal.Number(3)))), 3)
}

func TestPrintErrors(t *testing.T) {
	prog, err := parser.ParseString("a")
	test.Error(t, err)
	w := test.NewErrorWriter(0)
	test.T(t, Print(w, prog), test.ErrPlain)

	buf := &bytes.Buffer{}
	test.Error(t, Print(buf, prog))
	test.String(t, buf.String(), "a")
}
