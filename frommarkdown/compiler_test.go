package frommarkdown

import (
	"testing"

	"github.com/rgonek/mdast-attention/mdast"
	"github.com/rgonek/mdast-attention/unist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tok(tokenType string, start, end int) Token {
	return Token{
		Type:  tokenType,
		Start: unist.Point{Line: 1, Column: start + 1, Offset: start},
		End:   unist.Point{Line: 1, Column: end + 1, Offset: end},
	}
}

func textTok(value string, start int) Token {
	t := tok(TokenText, start, start+len(value))
	t.Value = value
	return t
}

func newTestCompiler(t testing.TB, extensions ...Extension) *Compiler {
	t.Helper()

	compiler, err := New(Config{Extensions: extensions})
	require.NoError(t, err)
	return compiler
}

func TestCompileParagraph(t *testing.T) {
	compiler := newTestCompiler(t)

	paragraph := tok(TokenParagraph, 0, 9)
	emphasis := tok(TokenEmphasis, 2, 7)
	events := []Event{
		Enter(paragraph),
		Enter(textTok("a ", 0)), Exit(textTok("a ", 0)),
		Enter(emphasis),
		Enter(textTok("bcd", 3)), Exit(textTok("bcd", 3)),
		Exit(emphasis),
		Enter(textTok("e", 8)), Exit(textTok("e", 8)),
		Exit(paragraph),
	}

	result, err := compiler.Compile(events)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	tree := result.Tree
	require.Len(t, tree.Children, 1)
	p := tree.Children[0]
	assert.Equal(t, mdast.TypeParagraph, p.Type)
	require.Len(t, p.Children, 3)
	assert.Equal(t, "a ", p.Children[0].Value)
	assert.Equal(t, mdast.TypeEmphasis, p.Children[1].Type)
	assert.Equal(t, "bcd", p.Children[1].Children[0].Value)

	require.NotNil(t, p.Children[1].Position)
	assert.Equal(t, 2, p.Children[1].Position.Start.Offset)
	assert.Equal(t, 7, p.Children[1].Position.End.Offset)
	require.NotNil(t, tree.Position)
	assert.Equal(t, 9, tree.Position.End.Offset)
}

func TestCompileMergesAdjacentText(t *testing.T) {
	compiler := newTestCompiler(t)

	paragraph := tok(TokenParagraph, 0, 4)
	result, err := compiler.Compile([]Event{
		Enter(paragraph),
		Enter(textTok("ab", 0)), Exit(textTok("ab", 0)),
		Enter(textTok("cd", 2)), Exit(textTok("cd", 2)),
		Exit(paragraph),
	})
	require.NoError(t, err)

	p := result.Tree.Children[0]
	require.Len(t, p.Children, 1)
	assert.Equal(t, "abcd", p.Children[0].Value)
	assert.Equal(t, 0, p.Children[0].Position.Start.Offset)
	assert.Equal(t, 4, p.Children[0].Position.End.Offset)
}

func TestCompileLineEndings(t *testing.T) {
	custom := Extension{
		Enter: map[string]Handle{"flat": enterParent("flat")},
		Exit:  map[string]Handle{"flat": exitNode},
	}
	compiler := newTestCompiler(t, custom)

	paragraph := tok(TokenParagraph, 0, 8)
	flat := tok("flat", 4, 8)
	eol := tok(TokenLineEnding, 1, 2)
	innerEOL := tok(TokenLineEnding, 6, 7)
	result, err := compiler.Compile([]Event{
		Enter(paragraph),
		Enter(textTok("a", 0)), Exit(textTok("a", 0)),
		Enter(eol), Exit(eol),
		Enter(textTok("b ", 2)), Exit(textTok("b ", 2)),
		Enter(flat),
		Enter(textTok("c", 5)), Exit(textTok("c", 5)),
		Enter(innerEOL), Exit(innerEOL),
		Enter(textTok("d", 7)), Exit(textTok("d", 7)),
		Exit(flat),
		Exit(paragraph),
	})
	require.NoError(t, err)

	p := result.Tree.Children[0]
	require.Len(t, p.Children, 2)
	assert.Equal(t, "a\nb ", p.Children[0].Value)
	assert.Equal(t, "cd", mdast.ToString(p.Children[1]))
}

func TestCompileUnbalanced(t *testing.T) {
	compiler := newTestCompiler(t)

	t.Run("mismatched exit", func(t *testing.T) {
		_, err := compiler.Compile([]Event{
			Enter(tok(TokenParagraph, 0, 1)),
			Exit(tok(TokenEmphasis, 0, 1)),
		})
		require.ErrorIs(t, err, ErrUnbalanced)
		assert.Contains(t, err.Error(), `cannot close "emphasis"`)
	})

	t.Run("exit without enter", func(t *testing.T) {
		_, err := compiler.Compile([]Event{Exit(tok(TokenParagraph, 0, 1))})
		require.ErrorIs(t, err, ErrUnbalanced)
	})

	t.Run("never closed", func(t *testing.T) {
		_, err := compiler.Compile([]Event{Enter(tok(TokenParagraph, 0, 1))})
		require.ErrorIs(t, err, ErrUnbalanced)
		assert.Contains(t, err.Error(), "never closed")
	})
}

func TestCompileUnknownTokenWarnsOnce(t *testing.T) {
	compiler := newTestCompiler(t)

	result, err := compiler.Compile([]Event{
		Enter(tok("mystery", 0, 1)), Exit(tok("mystery", 0, 1)),
		Enter(tok("mystery", 1, 2)), Exit(tok("mystery", 1, 2)),
	})
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, unist.WarningUnknownToken, result.Warnings[0].Type)
	assert.Equal(t, "mystery", result.Warnings[0].NodeType)
	assert.Empty(t, result.Tree.Children)
}

func TestExtensionsOverrideInOrder(t *testing.T) {
	first := Extension{Enter: map[string]Handle{TokenParagraph: enterParent("first")}}
	second := Extension{Enter: map[string]Handle{TokenParagraph: enterParent("second")}}
	compiler := newTestCompiler(t, first, second, Strikethrough())

	paragraph := tok(TokenParagraph, 0, 1)
	result, err := compiler.Compile([]Event{Enter(paragraph), Exit(paragraph)})
	require.NoError(t, err)
	assert.Equal(t, "second", result.Tree.Children[0].Type)
}

func TestConfigValidate(t *testing.T) {
	_, err := New(Config{Extensions: []Extension{{Enter: map[string]Handle{"": exitNode}}}})
	require.Error(t, err)

	_, err = New(Config{Extensions: []Extension{{Exit: map[string]Handle{"x": nil}}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `handler for "x" is nil`)

	_, err = New(Config{Extensions: []Extension{{CanContainEols: []string{" "}}}})
	require.Error(t, err)
}
