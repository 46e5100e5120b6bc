// Package lexer turns PlainTalk source text into tokens. It runs three
// stages: comment stripping, per-line scanning and the layout pass that
// resolves indentation into INDENT/DEDENT markers and joins continued
// statements.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/plaintalk-lang/plaintalk/diag"
	"github.com/plaintalk-lang/plaintalk/token"
)

// Lex produces the token stream for one object file. Recoverable
// problems (invalid characters) are recorded in bag; the returned error
// is non-nil only for fatal conditions: unterminated comment or string,
// inconsistent indentation.
func Lex(file, source string, bag *diag.Bag) ([]token.Token, error) {
	stripped, _, err := Strip(file, source)
	if err != nil {
		if uc, ok := err.(UnterminatedCommentError); ok {
			return nil, token.PosError{Where: uc.Open, Err: uc}
		}

		return nil, err
	}

	lines, err := scan(file, stripped, bag)
	if err != nil {
		return nil, err
	}

	return layout(file, lines, bag)
}

// line is one physical source line: its leading whitespace and the
// tokens after it.
type line struct {
	indent string
	number int
	tokens []token.Token
}

type UnterminatedStringError struct {
	Open token.Span
}

func (e UnterminatedStringError) Error() string {
	return fmt.Sprintf("unterminated string opened at %d:%d", e.Open.Line, e.Open.Column)
}

type scanner struct {
	file   string
	runes  []rune
	lineNo int
	pos    int // index into runes
	bag    *diag.Bag
	tokens []token.Token
}

func scan(file, stripped string, bag *diag.Bag) ([]line, error) {
	var lines []line
	for i, text := range strings.Split(stripped, "\n") {
		s := scanner{
			file:   file,
			runes:  []rune(strings.TrimRight(text, "\r")),
			lineNo: i + 1,
			bag:    bag,
		}
		indent := s.indent()
		if err := s.run(); err != nil {
			return nil, err
		}
		lines = append(lines, line{indent: indent, number: i + 1, tokens: s.tokens})
	}

	return lines, nil
}

func (s *scanner) indent() string {
	start := s.pos
	for s.pos < len(s.runes) && (s.runes[s.pos] == ' ' || s.runes[s.pos] == '\t') {
		s.pos++
	}

	return string(s.runes[start:s.pos])
}

func (s *scanner) span() token.Span {
	return token.Span{File: s.file, Line: s.lineNo, Column: s.pos + 1}
}

func (s *scanner) peek() rune {
	if s.pos >= len(s.runes) {
		return 0
	}

	return s.runes[s.pos]
}

func (s *scanner) peekNth(n int) rune {
	if s.pos+n >= len(s.runes) {
		return 0
	}

	return s.runes[s.pos+n]
}

func (s *scanner) advance() rune {
	r := s.runes[s.pos]
	s.pos++

	return r
}

func (s *scanner) add(kind token.Kind, span token.Span, lexeme string, literal any) {
	s.tokens = append(s.tokens, token.Token{Kind: kind, Lexeme: lexeme, Span: span, Literal: literal})
}

func (s *scanner) run() error {
	for s.pos < len(s.runes) {
		span := s.span()
		r := s.peek()
		switch {
		case r == ' ' || r == '\t':
			s.pos++
		case isDigit(r):
			s.number(span)
		case isWordStart(r):
			s.word(span)
		case r == '"':
			if err := s.text(span); err != nil {
				return err
			}
		case r == '\'':
			s.possessive(span)
		case r == '.':
			s.pos++
			s.add(token.PERIOD, span, ".", nil)
		case r == ':':
			s.pos++
			s.add(token.COLON, span, ":", nil)
		case r == ',':
			s.pos++
			s.add(token.COMMA, span, ",", nil)
		default:
			s.operator(span)
		}
	}

	return nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isWordStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isWordPart(r rune) bool {
	return unicode.IsLetter(r) || isDigit(r) || r == '_'
}

// number scans an integer or float literal. A period belongs to the
// literal only when it sits directly between two digits; otherwise it
// is left for the statement-terminator case.
func (s *scanner) number(span token.Span) {
	start := s.pos
	for s.pos < len(s.runes) && isDigit(s.peek()) {
		s.pos++
	}

	if s.peek() == '.' && isDigit(s.peekNth(1)) {
		s.pos++
		for s.pos < len(s.runes) && isDigit(s.peek()) {
			s.pos++
		}
		lexeme := string(s.runes[start:s.pos])
		value, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			s.bag.Errorf(span, "invalid float literal %q", lexeme)

			return
		}
		s.add(token.FLOAT, span, lexeme, value)

		return
	}

	lexeme := string(s.runes[start:s.pos])
	value, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		s.bag.Errorf(span, "invalid integer literal %q", lexeme)

		return
	}
	s.add(token.INTEGER, span, lexeme, value)
}

// word scans an identifier, keyword or word-shaped literal. `look-up`
// is the one keyword containing a hyphen and gets an explicit check so
// that `-` stays a minus operator everywhere else.
func (s *scanner) word(span token.Span) {
	start := s.pos
	for s.pos < len(s.runes) && isWordPart(s.peek()) {
		s.pos++
	}
	lexeme := string(s.runes[start:s.pos])

	if lexeme == "look" && s.peek() == '-' && s.peekNth(1) == 'u' && s.peekNth(2) == 'p' && !isWordPart(s.peekNth(3)) {
		s.pos += 3
		s.add(token.LOOKUP, span, "look-up", nil)

		return
	}

	switch lexeme {
	case "true":
		s.add(token.BOOLEAN, span, lexeme, true)
	case "false":
		s.add(token.BOOLEAN, span, lexeme, false)
	case "nothing":
		s.add(token.NOTHING, span, lexeme, nil)
	default:
		if kind, ok := token.Keywords[lexeme]; ok {
			s.add(kind, span, lexeme, nil)
		} else {
			s.add(token.IDENT, span, lexeme, nil)
		}
	}
}

// text scans a string literal. Strings are single-line; escaped quotes
// and the usual escapes are decoded into the token's literal value.
func (s *scanner) text(span token.Span) error {
	s.advance() // opening quote

	var value strings.Builder
	for {
		if s.pos >= len(s.runes) {
			return token.PosError{Where: span, Err: UnterminatedStringError{Open: span}}
		}
		r := s.advance()
		if r == '"' {
			break
		}
		if r == '\\' {
			if s.pos >= len(s.runes) {
				return token.PosError{Where: span, Err: UnterminatedStringError{Open: span}}
			}
			switch esc := s.advance(); esc {
			case 'n':
				value.WriteRune('\n')
			case 't':
				value.WriteRune('\t')
			default:
				value.WriteRune(esc)
			}

			continue
		}
		value.WriteRune(r)
	}

	lexeme := string(s.runes[span.Column-1 : s.pos])
	s.add(token.STRING, span, lexeme, value.String())

	return nil
}

func (s *scanner) possessive(span token.Span) {
	if s.peekNth(1) == 's' && !isWordPart(s.peekNth(2)) {
		s.pos += 2
		s.add(token.POSSESSIVE, span, "'s", nil)

		return
	}
	s.pos++
	s.bag.Errorf(span, "invalid character `'`")
}

var operators = map[string]struct{}{
	"==": {}, "!=": {}, "<": {}, "<=": {}, ">": {}, ">=": {},
	"%": {}, "^": {}, "+": {}, "-": {}, "*": {}, "/": {},
}

func (s *scanner) operator(span token.Span) {
	r := s.advance()
	lexeme := string(r)
	if s.peek() == '=' {
		two := lexeme + "="
		if _, ok := operators[two]; ok {
			s.pos++
			s.add(token.OPERATOR, span, two, nil)

			return
		}
	}
	if _, ok := operators[lexeme]; ok {
		s.add(token.OPERATOR, span, lexeme, nil)

		return
	}

	s.bag.Errorf(span, "invalid character %q", lexeme)
}
