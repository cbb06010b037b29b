package crunch

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/tdewolff/crunch/config"
	"github.com/tdewolff/crunch/diag"
	"github.com/tdewolff/crunch/parser"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/test"
)

func TestString(t *testing.T) {
	var tests = []struct {
		js       string
		expected string
	}{
		{"x - 0", "+x"},
		{"var a; var a = 2;", "var a=2"},
		{"function f(){ if (c) return 1; return 2; }", "function f(){return c?1:2}"},
		{"x = 3 * 4", "x=12"},
		{`x = "x" === 5`, "x=!1"},
		{"function f(){ var a = 1; function g(){ var b = 2; return a + b } return g() }", "function f(){var a=1;function b(){var b=2;return a+b}return b()}"},

		{"function f(foo, bar) { return bar }", "function f(b,a){return a}"},
		{"function f(x) { if (1) { var y = x * 2 * 3; g(y) } else { var z } }", "function f(a){var c,b=a*6;g(b)}"},
		{"function f(x) { while (!0) { if (x()) break } }", "function f(a){for(;;)if(a())break}"},
		{"function f(a) { g(a); return void 'x' }", "function f(a){return g(a),void 0}"},
		{"debugger; x = 1", "debugger;x=1"},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			s, err := String(tt.js)
			test.Error(t, err)
			test.String(t, s, tt.expected)
		})
	}
}

func TestIdempotent(t *testing.T) {
	var tests = []string{
		"x - 0",
		"var a; var a = 2;",
		"function f(){ if (c) return 1; return 2; }",
		"function f(){ var a = 1; function g(){ var b = 2; return a + b } return g() }",
		"function f(x) { if (1) { var y = x * 2 * 3; g(y) } else { var z } }",
		"function f(a, b) { try { g(a) } catch (e) { return e + b } }",
		"x = y + 'a' + 'b'; while (1) { if (x) break }",
		"function f() { var k = 1; try { g() } catch (e) { var z = e + k } return z }",
		"function f(o) { try { g() } catch (e) { for (var p in o) h(e, p) } }",
		"(1 && a.b)(); (0, eval)(s)",
	}
	for _, js := range tests {
		t.Run(js, func(t *testing.T) {
			first, err := String(js)
			test.Error(t, err)
			second, err := String(first)
			test.Error(t, err)
			test.String(t, second, first)
		})
	}
}

func TestOptimizeSettings(t *testing.T) {
	settings := DefaultSettings()
	settings.Allow(config.CombineDuplicateLiterals, true)
	settings.Allow(config.StripDebugStatements, true)

	var tests = []struct {
		js       string
		expected string
	}{
		{"debugger; x = 1", "x=1"},
		{"function f(){ return ['abcdef', 'abcdef', 'abcdef'] }", `function f(){var a="abcdef";return[a,a,a]}`},
	}
	for _, tt := range tests {
		t.Run(tt.js, func(t *testing.T) {
			b, err := Bytes(context.Background(), []byte(tt.js), settings, nil)
			test.Error(t, err)
			test.String(t, string(b), tt.expected)
		})
	}
}

func TestOptimizeStats(t *testing.T) {
	prog, err := parser.ParseString("function f(foo){ return foo * 2 * 3 }")
	test.Error(t, err)
	stats, err := Optimize(context.Background(), prog, nil, nil)
	test.Error(t, err)
	test.T(t, stats.Renamed, 1)
	test.T(t, stats.Literals, 0)
	test.That(t, stats.Folded)
}

func TestFatal(t *testing.T) {
	settings := DefaultSettings()
	settings.Fatal = []string{diag.UndeclaredVariable}

	prog, err := parser.ParseString("function f(a){ return a + b }")
	test.Error(t, err)
	c := &Collector{}
	_, err = Optimize(context.Background(), prog, settings, c)

	var fatal *FatalError
	test.That(t, errors.As(err, &fatal), "expected fatal error, got", err)
	test.String(t, fatal.Stage, "resolve")
	test.String(t, fatal.Diagnostic.Code, diag.UndeclaredVariable)
	test.That(t, c.Has(diag.UndeclaredVariable))

	// parameters are not renamed after the run was abandoned
	test.That(t, prog.Scope.Children[0].Field("a").Crunched == "")
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prog, err := parser.ParseString("x = 3 * 4")
	test.Error(t, err)
	_, err = Optimize(ctx, prog, nil, nil)
	test.That(t, errors.Is(err, context.Canceled), "expected canceled, got", err)
}

func TestParseError(t *testing.T) {
	_, err := String("x = (")
	var perr *parse.Error
	test.That(t, errors.As(err, &perr), "expected parse error, got", err)
}

func TestMinify(t *testing.T) {
	w := &bytes.Buffer{}
	test.Error(t, Minify(w, strings.NewReader("x = 1 + 2")))
	test.String(t, w.String(), "x=3")

	err := Minify(w, test.NewErrorReader(0))
	test.T(t, err, test.ErrPlain)

	err = Minify(test.NewErrorWriter(0), strings.NewReader("x = 1 + 2"))
	test.T(t, err, test.ErrPlain)
}

func TestLogReporter(t *testing.T) {
	src := []byte("x = 1;\ny = z")
	warnings := &bytes.Buffer{}
	reporter := &LogReporter{
		Filename: "in.js",
		Src:      src,
		Warning:  log.New(warnings, "", 0),
	}
	_, err := Bytes(context.Background(), src, nil, reporter)
	test.Error(t, err)
	test.That(t, strings.Contains(warnings.String(), "in.js:2:5: z is not declared (undeclared-variable)"), warnings.String())
}
