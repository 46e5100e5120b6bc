package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plaintalk-lang/plaintalk/ast"
	"github.com/plaintalk-lang/plaintalk/diag"
	"github.com/plaintalk-lang/plaintalk/lexer"
	"github.com/plaintalk-lang/plaintalk/parser"
)

func parse(t *testing.T, source string) *ast.File {
	t.Helper()

	bag := diag.New()
	tokens, err := lexer.Lex("test", source, bag)
	require.NoError(t, err)

	file := parser.New(tokens, bag).ParseFile("test")
	require.False(t, bag.HasErrors(), "diagnostics:\n%s", bag)

	return file
}

func TestFormat(t *testing.T) {
	t.Parallel()

	source := "create integer variable x with 10.\n" +
		"\n" +
		"create function describe:\n" +
		"\tcreate input integer variable n with 0.\n" +
		"\tif n > 3 is true:\n" +
		"\t\tcall print with n.\n" +
		"\totherwise:\n" +
		"\t\tchange x by 1.\n"

	assert.Equal(t, source, ast.Format(parse(t, source)))
}

func TestFormatPrivate(t *testing.T) {
	t.Parallel()

	source := "create private float variable ratio with 0.5.\n" +
		"\n" +
		"create private function reset:\n" +
		"\tchange ratio to 0.5.\n"

	assert.Equal(t, source, ast.Format(parse(t, source)))
}

// Printing a parsed file and parsing the output again is a fixed point
// on the printed text.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	sources := []string{
		"create list of integer variable xs with nothing.\n",
		"create dictionary of string to integer variable ages with nothing.\n",
		"create function run:\n" +
			"\tcreate output boolean variable done with false.\n" +
			"\trepeat 3 times:\n" +
			"\t\tcreate index integer variable i with 0.\n" +
			"\t\tchange total by i.\n" +
			"\twhile done is false:\n" +
			"\t\tchange done to look-up i in flags.\n" +
			"\tcall report with total and done.\n" +
			"\treturn.\n",
		"create function pick:\n" +
			"\tif a == b is false:\n" +
			"\t\tchange x to a's size as float.\n" +
			"\totherwise if a < b is true:\n" +
			"\t\tchange x to new shape.\n" +
			"\totherwise:\n" +
			"\t\tchange x to not ready.\n",
	}

	for _, source := range sources {
		printed := ast.Format(parse(t, source))
		again := ast.Format(parse(t, printed))
		assert.Equal(t, printed, again, "source: %s", source)
	}
}

func TestFormatStmt(t *testing.T) {
	t.Parallel()

	bag := diag.New()
	tokens, err := lexer.Lex("test", "change x to 1 + 2.\n", bag)
	require.NoError(t, err)

	stmt := parser.New(tokens, bag).ParseStmt()
	require.NotNil(t, stmt)
	assert.Equal(t, "change x to 1 + 2.\n", ast.FormatStmt(stmt))
}
