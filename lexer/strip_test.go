package lexer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plaintalk-lang/plaintalk/lexer"
	"github.com/plaintalk-lang/plaintalk/token"
)

func TestStripPreservesShape(t *testing.T) {
	t.Parallel()

	source := "create [a note] integer variable x with 10.\n"
	stripped, regions, err := lexer.Strip("test", source)
	require.NoError(t, err)

	assert.Len(t, stripped, len(source))
	assert.Equal(t, "create          integer variable x with 10.\n", stripped)
	require.Len(t, regions, 1)
	assert.Equal(t, token.Span{File: "test", Line: 1, Column: 8}, regions[0].Start)
	assert.Equal(t, token.Span{File: "test", Line: 1, Column: 15}, regions[0].End)
}

func TestStripNested(t *testing.T) {
	t.Parallel()

	stripped, regions, err := lexer.Strip("test", "x [outer [inner] outer] y")
	require.NoError(t, err)

	assert.Equal(t, "x "+strings.Repeat(" ", 21)+" y", stripped)
	assert.Len(t, regions, 1)
}

func TestStripKeepsLineBreaks(t *testing.T) {
	t.Parallel()

	stripped, _, err := lexer.Strip("test", "a [one\ntwo] b")
	require.NoError(t, err)

	lines := strings.Split(stripped, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "a     ", lines[0])
	assert.Equal(t, "     b", lines[1])
}

// A comment may land inside a token; the statement around it survives
// even though the token is cut in two.
func TestStripMidToken(t *testing.T) {
	t.Parallel()

	stripped, _, err := lexer.Strip("test", "change cou[split]nt to 1.")
	require.NoError(t, err)
	assert.Equal(t, "change cou       nt to 1.", stripped)
}

func TestStripUnterminated(t *testing.T) {
	t.Parallel()

	_, _, err := lexer.Strip("test", "x [never closed\nstill open")
	require.Error(t, err)

	var uc lexer.UnterminatedCommentError
	require.ErrorAs(t, err, &uc)
	assert.Equal(t, token.Span{File: "test", Line: 1, Column: 3}, uc.Open)
}
