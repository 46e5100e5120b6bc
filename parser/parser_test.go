package parser_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plaintalk-lang/plaintalk/ast"
	"github.com/plaintalk-lang/plaintalk/diag"
	"github.com/plaintalk-lang/plaintalk/lexer"
	"github.com/plaintalk-lang/plaintalk/parser"
	"github.com/plaintalk-lang/plaintalk/utils"
)

func parseFile(t *testing.T, source string) (*ast.File, *diag.Bag) {
	t.Helper()

	bag := diag.New()
	tokens, err := lexer.Lex("test", source, bag)
	require.NoError(t, err)

	return parser.New(tokens, bag).ParseFile("test"), bag
}

func parseStmt(t *testing.T, source string) (ast.Stmt, *diag.Bag) {
	t.Helper()

	bag := diag.New()
	tokens, err := lexer.Lex("test", source, bag)
	require.NoError(t, err)

	return parser.New(tokens, bag).ParseStmt(), bag
}

// completeStmt parses a statement expected to be error-free and
// compares its s-expression form.
func completeStmt(t *testing.T, input string, expected string) {
	t.Helper()

	stmt, bag := parseStmt(t, input)
	require.NotNil(t, stmt, "ParseStmt(%q) produced no statement:\n%s", input, bag)
	assert.False(t, bag.HasErrors(), "ParseStmt(%q) produced diagnostics:\n%s", input, bag)
	assert.Equal(t, expected, stmt.String(), "input: %s", input)
}

func TestParseFileVariable(t *testing.T) {
	t.Parallel()

	file, bag := parseFile(t, "create integer variable x with 10.\n")
	assert.Equal(t, 0, bag.Len())
	require.Len(t, file.Vars, 1)
	assert.Equal(t, ast.Public, file.Vars[0].Vis)
	assert.Equal(t, "(file test (variable x integer (literal 10)))", file.String())
}

func TestParseFunction(t *testing.T) {
	t.Parallel()

	source := "create function add:\n" +
		"\tcreate input integer variable a with 0.\n" +
		"\tcreate input integer variable b with 0.\n" +
		"\tcreate output integer variable sum with 0.\n" +
		"\tchange sum to a + b.\n"

	file, bag := parseFile(t, source)
	assert.Equal(t, 0, bag.Len())
	require.Len(t, file.Funcs, 1)

	fn := file.Funcs[0]
	assert.Len(t, fn.Inputs, 2)
	require.NotNil(t, fn.Output)
	assert.Equal(t, "sum", fn.Output.Name.Lexeme)
	assert.Equal(t,
		"(function add (variable input a integer (literal 0)) (variable input b integer (literal 0)) (variable output sum integer (literal 0)) (change-to (ref sum) (+ (ref a) (ref b))))",
		fn.String())
}

func TestParseStatements(t *testing.T) {
	t.Parallel()

	completeStmt(t, "change x to 1 + 2 * 3.\n",
		"(change-to (ref x) (+ (literal 1) (* (literal 2) (literal 3))))")
	completeStmt(t, "change x to 2 ^ 3 ^ 2.\n",
		"(change-to (ref x) (^ (literal 2) (^ (literal 3) (literal 2))))")
	completeStmt(t, "change count by 1.\n",
		"(change-by (ref count) (literal 1))")
	completeStmt(t, "change x to a is b.\n",
		"(change-to (ref x) (is (ref a) (ref b)))")
	completeStmt(t, "change x to not done or ready and armed.\n",
		"(change-to (ref x) (or (not (ref done)) (and (ref ready) (ref armed))))")
	completeStmt(t, "change x to y as string.\n",
		"(change-to (ref x) (as (ref y) string))")
	completeStmt(t, "change x to look-up 2 in xs.\n",
		"(change-to (ref x) (look-up (literal 2) (ref xs)))")
	completeStmt(t, "change x to look-up k in geometry's sides.\n",
		"(change-to (ref x) (look-up (ref k) (member geometry sides)))")
	completeStmt(t, "change geometry's pi to 3.14.\n",
		"(change-to (member geometry pi) (literal 3.14))")
	completeStmt(t, "change x to new geometry.\n",
		"(change-to (ref x) (new geometry))")
	completeStmt(t, "call my_func with 10, 20 and 30.\n",
		"(call (ref my_func) (literal 10) (literal 20) (literal 30))")
	completeStmt(t, "call tick.\n",
		"(call (ref tick))")
	completeStmt(t, "return.\n",
		"(return)")
}

func TestParseIfChain(t *testing.T) {
	t.Parallel()

	source := "if x is true:\n" +
		"\tcall foo.\n" +
		"otherwise if y is false:\n" +
		"\tcall baz.\n" +
		"otherwise:\n" +
		"\tcall bar.\n"

	completeStmt(t, source,
		"(if (ref x) true (call (ref foo)) (otherwise-if (ref y) false (call (ref baz))) (otherwise (call (ref bar))))")
}

func TestParseRepeatIndex(t *testing.T) {
	t.Parallel()

	source := "repeat 3 times:\n" +
		"\tcreate index integer variable i with 0.\n" +
		"\tchange total by i.\n"

	completeStmt(t, source,
		"(repeat (literal 3) (variable index i integer (literal 0)) (change-by (ref total) (ref i)))")
}

func TestParseWhile(t *testing.T) {
	t.Parallel()

	source := "while x < 10 is true:\n" +
		"\tchange x by 1.\n"

	completeStmt(t, source,
		"(while (< (ref x) (literal 10)) true (change-by (ref x) (literal 1)))")
}

func TestParseCompositeTypes(t *testing.T) {
	t.Parallel()

	file, bag := parseFile(t,
		"create list of integer variable xs with nothing.\n"+
			"create dictionary of string to integer variable ages with nothing.\n"+
			"create geometry variable shape with nothing.\n")
	assert.Equal(t, 0, bag.Len())
	require.Len(t, file.Vars, 3)
	assert.Equal(t, "list of integer", file.Vars[0].DeclaredType.String())
	assert.Equal(t, "dictionary of string to integer", file.Vars[1].DeclaredType.String())
	assert.Equal(t, "geometry", file.Vars[2].DeclaredType.String())
}

func TestParseDanglingOtherwise(t *testing.T) {
	t.Parallel()

	stmt, bag := parseStmt(t, "otherwise:\n\tcall foo.\n")
	assert.Nil(t, stmt)
	assert.Equal(t, 1, bag.Len())
}

func TestParseCallWithoutAnd(t *testing.T) {
	t.Parallel()

	stmt, bag := parseStmt(t, "call f with 1, 2.\n")
	require.NotNil(t, stmt)
	assert.Equal(t, 1, bag.Len())
}

// Arguments must be literals or references; a compound argument fails
// the statement with a single diagnostic.
func TestParseCompoundArgument(t *testing.T) {
	t.Parallel()

	stmt, bag := parseStmt(t, "call f with 1 + 2.\n")
	assert.Nil(t, stmt)
	assert.Equal(t, 1, bag.Len())
}

// A second output variable yields exactly one diagnostic and the first
// output stays bound.
func TestParseSecondOutput(t *testing.T) {
	t.Parallel()

	source := "create function f:\n" +
		"\tcreate output integer variable a with 0.\n" +
		"\tcreate output integer variable b with 1.\n"

	file, bag := parseFile(t, source)
	assert.Equal(t, 1, bag.Len())
	require.Len(t, file.Funcs, 1)

	fn := file.Funcs[0]
	require.NotNil(t, fn.Output)
	assert.Equal(t, "a", fn.Output.Name.Lexeme)
	require.Len(t, fn.Body, 1)
	assert.Equal(t, ast.Plain, fn.Body[0].(*ast.VarDecl).Role)
}

func TestParseIndexRules(t *testing.T) {
	t.Parallel()

	_, bag := parseStmt(t, "repeat 3 times:\n\tcreate index integer variable i with nothing.\n")
	assert.Equal(t, 1, bag.Len())

	_, bag = parseStmt(t, "repeat 3 times:\n\tcreate index float variable i with 0.\n")
	assert.Equal(t, 1, bag.Len())

	// Index declarations outside a repeat block are demoted.
	file, bag := parseFile(t,
		"create function f:\n\tcreate index integer variable i with 0.\n")
	assert.Equal(t, 1, bag.Len())
	require.Len(t, file.Funcs, 1)
	require.Len(t, file.Funcs[0].Body, 1)
	assert.Equal(t, ast.Plain, file.Funcs[0].Body[0].(*ast.VarDecl).Role)
}

// A broken statement aborts only itself; the parser resynchronizes and
// keeps going.
func TestParseResync(t *testing.T) {
	t.Parallel()

	file, bag := parseFile(t,
		"create integer variable x with .\n"+
			"create integer variable y with 2.\n")
	assert.Equal(t, 1, bag.Len())
	require.Len(t, file.Vars, 1)
	assert.Equal(t, "y", file.Vars[0].Name.Lexeme)

	file, bag = parseFile(t,
		"create function f:\n"+
			"\tcall 5.\n"+
			"\tcall g.\n")
	assert.Equal(t, 1, bag.Len())
	require.Len(t, file.Funcs, 1)
	require.Len(t, file.Funcs[0].Body, 1)
	assert.Equal(t, "(call (ref g))", file.Funcs[0].Body[0].String())
}

func TestParseNestedFunction(t *testing.T) {
	t.Parallel()

	file, bag := parseFile(t,
		"create function f:\n"+
			"\tcreate function g:\n"+
			"\t\treturn.\n")
	assert.True(t, bag.HasErrors())
	require.Len(t, file.Funcs, 1)
	assert.Equal(t, "f", file.Funcs[0].Name.Lexeme)
}

func TestParseYAML(t *testing.T) {
	t.Parallel()

	source, err := os.ReadFile("testdata/parse.yaml")
	require.NoError(t, err)

	for _, testcase := range utils.ReadTestData(source) {
		testcase := testcase
		t.Run(testcase.Label, func(t *testing.T) {
			t.Parallel()

			if expected, ok := testcase.Expected["sexpr"]; ok {
				completeStmt(t, testcase.Input, expected)
			}
		})
	}
}
