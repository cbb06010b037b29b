// Package diag defines the diagnostics reported while optimizing and the sinks that receive them.
package diag

import (
	"bytes"
	"fmt"
	"log"

	"github.com/tdewolff/crunch/ast"
	"github.com/tdewolff/parse/v2"
)

// Severity of a diagnostic.
type Severity uint8

// Severity values.
const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

// Diagnostic codes.
const (
	UndeclaredVariable    = "undeclared-variable"
	UndeclaredFunction    = "undeclared-function"
	AmbiguousFunctionName = "ambiguous-function-name"
	InvalidRegExp         = "invalid-regexp"
	SuspiciousWith        = "suspicious-with"
	SuspectAssignment     = "suspect-assignment"
)

// Diagnostic is a condition found in the source that does not stop the optimizer.
type Diagnostic struct {
	Severity Severity
	Code     string
	Span     ast.Span
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%v: %s (%s)", d.Severity, d.Message, d.Code)
}

// Reporter receives diagnostics.
type Reporter interface {
	Report(Diagnostic)
}

// ReporterFunc is an adapter to use a function as a Reporter.
type ReporterFunc func(Diagnostic)

// Report calls f(d).
func (f ReporterFunc) Report(d Diagnostic) {
	f(d)
}

// Discard drops all diagnostics.
var Discard Reporter = ReporterFunc(func(Diagnostic) {})

// Collector stores diagnostics in the order they were reported.
type Collector struct {
	Diagnostics []Diagnostic
}

// Report appends d.
func (c *Collector) Report(d Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, d)
}

// Codes returns the codes of the collected diagnostics.
func (c *Collector) Codes() []string {
	codes := make([]string, 0, len(c.Diagnostics))
	for _, d := range c.Diagnostics {
		codes = append(codes, d.Code)
	}
	return codes
}

// Has returns true if a diagnostic with the given code was collected.
func (c *Collector) Has(code string) bool {
	for _, d := range c.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

// LogReporter writes diagnostics to loggers, with the line and column computed from the source.
type LogReporter struct {
	Filename string
	Src      []byte
	Warning  *log.Logger // receives warnings and infos
	Error    *log.Logger // receives errors
}

// Report writes d to the logger matching its severity.
func (r *LogReporter) Report(d Diagnostic) {
	logger := r.Warning
	if d.Severity == Error {
		logger = r.Error
	}
	if logger == nil {
		return
	}
	line, col, _ := parse.Position(bytes.NewReader(r.Src), d.Span.Start)
	if r.Filename != "" {
		logger.Printf("%s:%d:%d: %s (%s)", r.Filename, line, col, d.Message, d.Code)
	} else {
		logger.Printf("%d:%d: %s (%s)", line, col, d.Message, d.Code)
	}
}

// KnownCodes lists all diagnostic codes in the order they are declared.
var KnownCodes = []string{
	UndeclaredVariable,
	UndeclaredFunction,
	AmbiguousFunctionName,
	InvalidRegExp,
	SuspiciousWith,
	SuspectAssignment,
}
