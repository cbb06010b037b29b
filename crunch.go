// Package crunch is an optimizing JavaScript minifier. It rewrites the syntax tree of a parsed program in place into shorter code with the same behavior: statements are simplified, local names are shortened and constant expressions are folded.
package crunch

import (
	"context"
	"fmt"
	"io"

	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/crunch/cleanup"
	"github.com/tdewolff/crunch/config"
	"github.com/tdewolff/crunch/diag"
	"github.com/tdewolff/crunch/fold"
	"github.com/tdewolff/crunch/literals"
	"github.com/tdewolff/crunch/parser"
	"github.com/tdewolff/crunch/peephole"
	"github.com/tdewolff/crunch/printer"
	"github.com/tdewolff/crunch/rename"
	"github.com/tdewolff/crunch/resolve"
)

type (
	// Settings configures which rewrites are applied.
	Settings = config.Settings
	// Modification is a category of rewrites.
	Modification = config.Modification
	// Diagnostic is a condition found in the source.
	Diagnostic = diag.Diagnostic
	// Reporter receives diagnostics.
	Reporter = diag.Reporter
	// Collector stores diagnostics.
	Collector = diag.Collector
	// LogReporter writes diagnostics to loggers.
	LogReporter = diag.LogReporter
)

// DefaultSettings returns the settings used when none are given.
var DefaultSettings = config.Default

// FatalError is returned when a diagnostic was reported whose code is configured to be fatal. The tree is left as it was after the stage that reported it.
type FatalError struct {
	Stage      string
	Diagnostic Diagnostic
}

func (err *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", err.Stage, err.Diagnostic)
}

// Stats counts the work done by Optimize.
type Stats struct {
	Literals int  // generated variables holding duplicate literals
	Renamed  int  // locals that received a shorter name
	Folded   bool // constant expressions were folded
}

type fatalReporter struct {
	settings *Settings
	reporter Reporter
	fatal    *Diagnostic
}

func (r *fatalReporter) Report(d Diagnostic) {
	r.reporter.Report(d)
	if r.fatal == nil && r.settings.IsFatal(d.Code) {
		r.fatal = &d
	}
}

// Optimize runs all stages on a program returned by the parser. The stages run in order and the run stops between stages when ctx is done or a fatal diagnostic was reported. A nil reporter discards diagnostics.
func Optimize(ctx context.Context, prog *ast.Node, settings *Settings, reporter Reporter) (Stats, error) {
	if reporter == nil {
		reporter = diag.Discard
	}
	r := &fatalReporter{
		settings: settings,
		reporter: reporter,
	}

	stats := Stats{}
	stages := []struct {
		name string
		run  func()
	}{
		{"resolve", func() {
			resolve.Resolve(prog, settings, r)
		}},
		{"combine literals", func() {
			stats.Literals = literals.Combine(prog, settings)
		}},
		{"rename", func() {
			stats.Renamed = rename.Rename(prog, settings)
		}},
		{"fold", func() {
			if stats.Folded = fold.Fold(prog, settings); stats.Folded {
				peephole.New(settings).Walk(prog)
			}
		}},
		{"cleanup", func() {
			cleanup.Clean(prog, settings)
		}},
	}
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("%s: %w", stage.name, err)
		}
		stage.run()
		if r.fatal != nil {
			return stats, &FatalError{stage.name, *r.fatal}
		}
	}
	return stats, nil
}

// Minify reads a program from r and writes its optimized version to w using the default settings.
func Minify(w io.Writer, r io.Reader) error {
	return MinifyContext(context.Background(), w, r, DefaultSettings(), nil)
}

// MinifyContext reads a program from r and writes its optimized version to w.
func MinifyContext(ctx context.Context, w io.Writer, r io.Reader, settings *Settings, reporter Reporter) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b, err := Bytes(ctx, src, settings, reporter)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Bytes returns the optimized version of the program in src.
func Bytes(ctx context.Context, src []byte, settings *Settings, reporter Reporter) ([]byte, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	if _, err := Optimize(ctx, prog, settings, reporter); err != nil {
		return nil, err
	}
	return printer.Bytes(prog), nil
}

// String returns the optimized version of a program using the default settings.
func String(src string) (string, error) {
	b, err := Bytes(context.Background(), []byte(src), DefaultSettings(), nil)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
