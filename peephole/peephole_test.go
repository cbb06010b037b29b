package peephole_test

import (
	"testing"

	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/config"
	"github.com/tdewolff/crunch/parser"
	"github.com/tdewolff/crunch/peephole"
	"github.com/tdewolff/crunch/printer"
	"github.com/tdewolff/crunch/resolve"
	"github.com/tdewolff/test"
)

func simplify(t *testing.T, js string, settings *config.Settings) string {
	t.Helper()
	prog, err := parser.ParseString(js)
	test.Error(t, err)
	resolve.Resolve(prog, settings, nil)
	test.Error(t, ast.Check(prog))
	return printer.String(prog)
}

func TestSimplify(t *testing.T) {
	var tests = []struct {
		js       string
		expected string
	}{
		// var statements
		{"var a; var a = 2", "var a=2"},
		{"var a = 1; var b", "var a=1,b"},
		{"let a = 1; let b = 2", "let a=1,b=2"},
		{"var i; for (i = 0; i < 10; i++) {}", "for(var i=0;i<10;i++);"},
		{"var a = 1; for (;;) {}", "for(var a=1;;);"},
		{"var a; for (var b;;) x()", "for(var a,b;;)x()"},
		{"var a; for (b = 0;;);", "var a;for(b=0;;);"},
		{"function f() { var x = g(); return x }", "function f(){return g()}"},
		{"function f() { var a = 1, x = g(); return x }", "function f(){var a=1;return g()}"},
		{"function f() { var x = g(); h(x); return x }", "function f(){var x=g();return h(x),x}"},
		{"function f(x) { var x = g(); return x }", "function f(x){var x=g();return x}"},

		// if and return
		{"function f() { if (c) return 1; return 2 }", "function f(){return c?1:2}"},
		{"function f() { if (c) return 1; else return 2 }", "function f(){return c?1:2}"},
		{"function f() { if (a) return 1; if (b) return 2; return 3 }", "function f(){return a?1:b?2:3}"},
		{"function f() { if (!c) return 1; return 2 }", "function f(){return c?2:1}"},
		{"function f() { if (c) return 1; return }", "function f(){if(c)return 1}"},
		{"function f() { if (c) return; return 1 }", "function f(){if(!c)return 1}"},
		{"function f() { a(); return }", "function f(){a()}"},
		{"function f() { b(); if (a) return }", "function f(){b(),a}"},
		{"function f() { if (a) { return 1 } else { b() } }", "function f(){if(a)return 1;b()}"},

		// if statements
		{"if (a) b(); else c()", "a?b():c()"},
		{"if (a) b()", "a&&b()"},
		{"if (!a) b()", "a||b()"},
		{"if (a) onclick()", "if(a)onclick()"},
		{"if (a) {} else b()", "a||b()"},
		{"if (a) {}", "a"},
		{"if (a) { b; c }", "if(a)b,c"},
		{"if (a) { if (b) c() } else d()", "a?b&&c():d()"},
		{"if (a) throw b; else throw c", "throw a?b:c"},

		// blocks, loops and switches
		{"{ a(); { b() } }", "a(),b()"},
		{"{ let a = 1; b(a) }", "{let a=1;b(a)}"},
		{"while (a) {}", "while(a);"},
		{"for (x in y) {}", "for(x in y);"},
		{"do {} while (a)", "do;while(a)"},
		{";;a()", "a()"},
		{"switch (a) { case 1: b(); break; case 2: default: }", "switch(a){case 1:b()}"},
		{"switch (a) { case 1: b(); break; default: break }", "switch(a){case 1:b()}"},
		{"switch (a) { case b: default: }", "switch(a){case b:}"},
		{"l: switch (a) { case 1: b(); break l }", "l:switch(a){case 1:b()}"},
		{"l: { b(); break l }", "l:{b();break l}"},

		// expression statements
		{"a(); b()", "a(),b()"},
		{"a(); if (b) c()", "a(),b&&c()"},
		{"function f() { a(); return b }", "function f(){return a(),b}"},
		{"a(); for (;;);", "for(a();;);"},
		{"'use strict'; a(); b()", `"use strict";a(),b()`},
		{"debugger; Debug.assert(a)", "debugger;Debug.assert(a)"},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			test.String(t, simplify(t, tt.js, nil), tt.expected)
		})
	}
}

func TestSimplifyDisallowed(t *testing.T) {
	var tests = []struct {
		js       string
		disallow config.Modification
		expected string
	}{
		{"var a; var b", config.CombineVarStatements, "var a;var b"},
		{"var a; for (;;);", config.MoveVarIntoFor, "var a;for(;;);"},
		{"function f() { var x = g(); return x }", config.ReturnVarCollapse, "function f(){var x=g();return x}"},
		{"function f() { if (c) return 1; return 2 }", config.IfReturnToConditional, "function f(){if(c)return 1;return 2}"},
		{"switch (a) { case 1: b(); default: }", config.RemoveDefaultCase, "switch(a){case 1:b();default:}"},
		{"if (a) b()", config.IfToAndCall, "if(a)b()"},
		{"a(); b()", config.CombineExpressionStatements, "a();b()"},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			settings := &config.Settings{}
			settings.Allow(tt.disallow, false)
			test.String(t, simplify(t, tt.js, settings), tt.expected)
		})
	}
}

func TestStripDebug(t *testing.T) {
	settings := &config.Settings{}
	test.String(t, simplify(t, "debugger; Debug.assert(a); $Debug.trace.log(b); c()", settings), "c()")
	test.String(t, simplify(t, "var Debug; Debug.assert(a)", settings), "var Debug;Debug.assert(a)")
	test.String(t, simplify(t, "if (a) debugger; else b()", settings), "a||b()")

	// statements moved out of an else branch are stripped as well
	test.String(t, simplify(t, "for (;;) { if (a) break; else debugger; b() }", settings), "for(;;){if(a)break;b()}")
}

func TestListFlattensFirst(t *testing.T) {
	// the statements of a nested block get the same rewrites as the list itself
	prog, err := parser.ParseString("{ debugger; if (a) b() } c()")
	test.Error(t, err)
	test.That(t, peephole.New(&config.Settings{}).List(prog))
	test.String(t, printer.String(prog), "a&&b(),c()")
}

func TestWalk(t *testing.T) {
	// lists of unresolved trees are simplified as well
	prog, err := parser.ParseString("var a; var b; if (a) { c() }")
	test.Error(t, err)
	test.That(t, peephole.New(nil).Walk(prog))
	test.String(t, printer.String(prog), "var a,b;a&&c()")
	test.That(t, !peephole.New(nil).Walk(prog))
}
