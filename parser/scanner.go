package parser

import (
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

type tokenClass uint8

const (
	eofToken tokenClass = iota
	identToken
	numericToken
	stringToken
	punctuatorToken
	regexpToken
	templateToken
)

func (c tokenClass) String() string {
	switch c {
	case eofToken:
		return "EOF"
	case identToken:
		return "identifier"
	case numericToken:
		return "number"
	case stringToken:
		return "string"
	case punctuatorToken:
		return "punctuator"
	case regexpToken:
		return "regular expression"
	case templateToken:
		return "template"
	}
	return "invalid"
}

type token struct {
	class tokenClass
	text  string
	start int
	nl    bool // a line terminator precedes the token
}

func (t token) String() string {
	if t.class == eofToken {
		return "EOF"
	}
	return t.text
}

// scanner wraps the lexer, skipping whitespace and comments and keeping a single token of lookahead.
type scanner struct {
	l      *js.Lexer
	in     *parse.Input
	err    error
	tok    token
	peeked *token
}

func newScanner(src []byte) *scanner {
	in := parse.NewInputBytes(src)
	return &scanner{
		l:  js.NewLexer(in),
		in: in,
	}
}

func (s *scanner) next() {
	if s.peeked != nil {
		s.tok = *s.peeked
		s.peeked = nil
		return
	}
	s.tok = s.read()
}

func (s *scanner) peek() token {
	if s.peeked == nil {
		t := s.read()
		s.peeked = &t
	}
	return *s.peeked
}

func (s *scanner) read() token {
	nl := false
	for {
		tt, data := s.l.Next()
		switch tt {
		case js.ErrorToken:
			if isLegacyOctal(data, s.l.Err()) {
				return s.legacyNumber(nl)
			}
			if err := s.l.Err(); err != io.EOF && s.err == nil {
				s.err = err
			}
			return token{class: eofToken, start: s.in.Offset(), nl: true}
		case js.WhitespaceToken, js.CommentToken:
			continue
		case js.LineTerminatorToken, js.CommentLineTerminatorToken:
			nl = true
			continue
		}
		return token{
			class: classify(data),
			text:  string(data),
			start: s.in.Offset() - len(data),
			nl:    nl,
		}
	}
}

// isLegacyOctal returns true when the lexer stopped at the leading zero of a literal such as 010 or 09.
func isLegacyOctal(data []byte, err error) bool {
	perr, ok := err.(*parse.Error)
	return ok && len(data) == 1 && data[0] == '0' && perr.Message == "legacy octal numbers are not supported"
}

// legacyNumber scans the rest of a numeric literal with a leading zero, including the fraction and exponent of a decimal
// such as 09.5.
func (s *scanner) legacyNumber(nl bool) token {
	octal := true
	for c := s.in.Peek(0); '0' <= c && c <= '9'; c = s.in.Peek(0) {
		octal = octal && c <= '7'
		s.in.Move(1)
	}
	if !octal {
		if s.in.Peek(0) == '.' {
			s.in.Move(1)
			for c := s.in.Peek(0); '0' <= c && c <= '9'; c = s.in.Peek(0) {
				s.in.Move(1)
			}
		}
		if c := s.in.Peek(0); c == 'e' || c == 'E' {
			n := 1
			if c := s.in.Peek(1); c == '+' || c == '-' {
				n++
			}
			if c := s.in.Peek(n); '0' <= c && c <= '9' {
				s.in.Move(n)
				for c := s.in.Peek(0); '0' <= c && c <= '9'; c = s.in.Peek(0) {
					s.in.Move(1)
				}
			}
		}
	}
	text := "0" + string(s.in.Shift())
	return token{
		class: numericToken,
		text:  text,
		start: s.in.Offset() - len(text),
		nl:    nl,
	}
}

// regexp reinterprets the current division token as the start of a regular expression literal.
func (s *scanner) regexp() bool {
	if s.peeked != nil || s.tok.text != "/" && s.tok.text != "/=" {
		return false
	}
	tt, data := s.l.RegExp()
	if tt != js.RegExpToken {
		return false
	}
	s.tok.class = regexpToken
	s.tok.text = string(data)
	return true
}

func classify(data []byte) tokenClass {
	c := data[0]
	switch {
	case c == '"' || c == '\'':
		return stringToken
	case c == '`' || c == '}' && 1 < len(data):
		return templateToken
	case '0' <= c && c <= '9' || c == '.' && 1 < len(data) && '0' <= data[1] && data[1] <= '9':
		return numericToken
	case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '$' || c == '_' || c == '\\' || 0x80 <= c:
		return identToken
	}
	return punctuatorToken
}
