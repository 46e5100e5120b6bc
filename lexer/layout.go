package lexer

import (
	"strings"

	"github.com/plaintalk-lang/plaintalk/diag"
	"github.com/plaintalk-lang/plaintalk/token"
)

type IndentationError struct {
	Reason string
}

func (e IndentationError) Error() string {
	return e.Reason
}

// layout resolves line indentation into INDENT/DEDENT tokens and joins
// multi-line statements. Indentation is compared as literal whitespace
// prefixes: a nested line must extend the enclosing prefix, and a
// dedent must land exactly on a prefix already open. Continuation lines
// of an unterminated statement all share one prefix strictly deeper
// than the statement's first line.
func layout(file string, lines []line, bag *diag.Bag) ([]token.Token, error) {
	l := layouter{file: file, stack: []string{""}, bag: bag}
	for _, ln := range lines {
		if len(ln.tokens) == 0 {
			continue
		}
		if err := l.push(ln); err != nil {
			return nil, err
		}
	}

	return l.finish(lines), nil
}

type layouter struct {
	file  string
	stack []string
	bag   *diag.Bag
	out   []token.Token

	expectBlock    bool   // previous logical line ended with `:`
	inContinuation bool   // previous logical line had no terminator
	stmtIndent     string // indent of the continued statement's first line
	contIndent     string // indent chosen by its first continuation line
}

func extends(indent, base string) bool {
	return len(indent) > len(base) && strings.HasPrefix(indent, base)
}

func (l *layouter) top() string {
	return l.stack[len(l.stack)-1]
}

func (l *layouter) push(ln line) error {
	first := ln.tokens[0].Span

	if l.inContinuation {
		if l.contIndent == "" {
			if !extends(ln.indent, l.stmtIndent) {
				return token.PosError{Where: first, Err: IndentationError{
					Reason: "statement continuation must be indented one level deeper than its first line",
				}}
			}
			l.contIndent = ln.indent
		} else if ln.indent != l.contIndent {
			return token.PosError{Where: first, Err: IndentationError{
				Reason: "inconsistent indentation in statement continuation",
			}}
		}
	} else if err := l.level(ln.indent, first); err != nil {
		return err
	}

	l.out = append(l.out, ln.tokens...)

	switch ln.tokens[len(ln.tokens)-1].Kind {
	case token.PERIOD:
		l.inContinuation = false
		l.contIndent = ""
	case token.COLON:
		l.inContinuation = false
		l.contIndent = ""
		l.expectBlock = true
	default:
		if !l.inContinuation {
			l.inContinuation = true
			l.stmtIndent = ln.indent
			l.contIndent = ""
		}
	}

	return nil
}

// level opens or closes blocks so that the stack matches the line's
// indentation.
func (l *layouter) level(indent string, first token.Span) error {
	if l.expectBlock {
		l.expectBlock = false
		if extends(indent, l.top()) {
			l.stack = append(l.stack, indent)
			l.out = append(l.out, token.Token{Kind: token.INDENT, Lexeme: "", Span: first})

			return nil
		}
		// Header with no body: the parser reports the missing block
		// when it fails to find the INDENT marker.
	}

	if indent == l.top() {
		return nil
	}

	if extends(indent, l.top()) {
		l.bag.Errorf(first, "unexpected indentation")

		return nil
	}

	for len(l.stack) > 1 && l.top() != indent {
		l.stack = l.stack[:len(l.stack)-1]
		l.out = append(l.out, token.Token{Kind: token.DEDENT, Lexeme: "", Span: first})
	}
	if l.top() != indent {
		return token.PosError{Where: first, Err: IndentationError{
			Reason: "inconsistent indentation: no enclosing block at this level",
		}}
	}

	return nil
}

func (l *layouter) finish(lines []line) []token.Token {
	end := token.Span{File: l.file, Line: len(lines) + 1, Column: 1}
	if n := len(lines); n > 0 {
		end.Line = lines[n-1].number + 1
	}
	for len(l.stack) > 1 {
		l.stack = l.stack[:len(l.stack)-1]
		l.out = append(l.out, token.Token{Kind: token.DEDENT, Lexeme: "", Span: end})
	}
	l.out = append(l.out, token.Token{Kind: token.EOF, Lexeme: "", Span: end})

	return l.out
}
