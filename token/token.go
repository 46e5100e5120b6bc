package token

import "fmt"

type Kind int

const (
	EOF Kind = iota

	// Layout markers emitted by the indentation tracker.
	INDENT
	DEDENT

	// Punctuation.
	PERIOD
	COLON
	COMMA
	POSSESSIVE // 's

	// Literals and identifiers.
	IDENT
	INTEGER
	FLOAT
	STRING
	BOOLEAN
	NOTHING
	OPERATOR // == != < <= > >= % ^ + - * /

	// Keywords.
	CREATE
	CALL
	WITH
	AND
	NEW
	RETURN
	AS
	CHANGE
	TO
	BY
	LOOKUP // look-up
	IF
	OTHERWISE
	REPEAT
	WHILE
	INDEX
	INPUT
	OUTPUT
	PUBLIC
	PRIVATE
	VARIABLE
	FUNCTION
	TIMES
	OF
	IN
	IS
	OR
	NOT
)

var kindNames = map[Kind]string{
	EOF:        "EOF",
	INDENT:     "INDENT",
	DEDENT:     "DEDENT",
	PERIOD:     "`.`",
	COLON:      "`:`",
	COMMA:      "`,`",
	POSSESSIVE: "`'s`",
	IDENT:      "identifier",
	INTEGER:    "integer",
	FLOAT:      "float",
	STRING:     "string",
	BOOLEAN:    "boolean",
	NOTHING:    "`nothing`",
	OPERATOR:   "operator",
	CREATE:     "`create`",
	CALL:       "`call`",
	WITH:       "`with`",
	AND:        "`and`",
	NEW:        "`new`",
	RETURN:     "`return`",
	AS:         "`as`",
	CHANGE:     "`change`",
	TO:         "`to`",
	BY:         "`by`",
	LOOKUP:     "`look-up`",
	IF:         "`if`",
	OTHERWISE:  "`otherwise`",
	REPEAT:     "`repeat`",
	WHILE:      "`while`",
	INDEX:      "`index`",
	INPUT:      "`input`",
	OUTPUT:     "`output`",
	PUBLIC:     "`public`",
	PRIVATE:    "`private`",
	VARIABLE:   "`variable`",
	FUNCTION:   "`function`",
	TIMES:      "`times`",
	OF:         "`of`",
	IN:         "`in`",
	IS:         "`is`",
	OR:         "`or`",
	NOT:        "`not`",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps each reserved word to its kind. `true`, `false` and
// `nothing` lex as literals, not keywords.
var Keywords = map[string]Kind{
	"create":    CREATE,
	"call":      CALL,
	"with":      WITH,
	"and":       AND,
	"new":       NEW,
	"return":    RETURN,
	"as":        AS,
	"change":    CHANGE,
	"to":        TO,
	"by":        BY,
	"look-up":   LOOKUP,
	"if":        IF,
	"otherwise": OTHERWISE,
	"repeat":    REPEAT,
	"while":     WHILE,
	"index":     INDEX,
	"input":     INPUT,
	"output":    OUTPUT,
	"public":    PUBLIC,
	"private":   PRIVATE,
	"variable":  VARIABLE,
	"function":  FUNCTION,
	"times":     TIMES,
	"of":        OF,
	"in":        IN,
	"is":        IS,
	"or":        OR,
	"not":       NOT,
}

// Span is a position in an object file. Columns count runes from 1.
type Span struct {
	File   string
	Line   int
	Column int
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Before reports whether s comes before other in source order.
// Spans from different files order by file name.
func (s Span) Before(other Span) bool {
	if s.File != other.File {
		return s.File < other.File
	}
	if s.Line != other.Line {
		return s.Line < other.Line
	}

	return s.Column < other.Column
}

// Token is one lexical element. Literal carries the decoded value for
// INTEGER (int64), FLOAT (float64), STRING (string) and BOOLEAN (bool)
// tokens and is nil otherwise. Tokens are immutable once produced.
type Token struct {
	Kind    Kind
	Lexeme  string
	Span    Span
	Literal any
}

func (t Token) String() string {
	return fmt.Sprintf("{%v, %q, %s, %v}", t.Kind, t.Lexeme, t.Span, t.Literal)
}

// PosError attaches a source position to an error.
type PosError struct {
	Where Span
	Err   error
}

func (e PosError) Error() string {
	return fmt.Sprintf("%s: %s", e.Where, e.Err.Error())
}

func (e PosError) Unwrap() error {
	return e.Err
}
