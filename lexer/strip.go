package lexer

import (
	"fmt"
	"strings"

	"github.com/plaintalk-lang/plaintalk/token"
)

// Region is a stripped comment span, inclusive of both brackets.
type Region struct {
	Start token.Span
	End   token.Span
}

type UnterminatedCommentError struct {
	Open token.Span
}

func (e UnterminatedCommentError) Error() string {
	return fmt.Sprintf("unterminated comment opened at %d:%d", e.Open.Line, e.Open.Column)
}

// Strip removes bracketed comment spans from source. Comments open with
// `[`, close with `]` and nest. Every stripped rune except line breaks
// is replaced with a space so that line and column numbers of the
// remaining text are unchanged. A comment that is still open at end of
// file is fatal and no output is produced.
func Strip(file, source string) (string, []Region, error) {
	var builder strings.Builder
	builder.Grow(len(source))

	var regions []Region
	var open token.Span

	depth := 0
	line, column := 1, 1
	for _, r := range source {
		switch {
		case r == '\n':
			// Line breaks survive inside comments so statement
			// continuation and positions keep working around them.
			builder.WriteRune(r)
			line++
			column = 1

			continue
		case r == '[':
			if depth == 0 {
				open = token.Span{File: file, Line: line, Column: column}
			}
			depth++
			builder.WriteRune(' ')
		case r == ']' && depth > 0:
			depth--
			if depth == 0 {
				regions = append(regions, Region{
					Start: open,
					End:   token.Span{File: file, Line: line, Column: column},
				})
			}
			builder.WriteRune(' ')
		case depth > 0:
			builder.WriteRune(' ')
		default:
			builder.WriteRune(r)
		}
		column++
	}

	if depth > 0 {
		return "", nil, UnterminatedCommentError{Open: open}
	}

	return builder.String(), regions, nil
}
