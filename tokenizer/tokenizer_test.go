package tokenizer

import (
	"testing"

	"github.com/rgonek/mdast-attention/frommarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	sub = Syntax{Name: "sub", Tag: "sub", Delimiter: '~'}
	sup = Syntax{Name: "sup", Tag: "sup", Delimiter: '^'}
)

func newTestTokenizer(t testing.TB, config Config) *Tokenizer {
	t.Helper()

	tokenizer, err := New(config)
	require.NoError(t, err)
	return tokenizer
}

func describe(events []frommarkdown.Event) []string {
	out := make([]string, 0, len(events))
	for _, event := range events {
		out = append(out, event.Kind.String()+" "+event.Token.Type)
	}
	return out
}

func findToken(events []frommarkdown.Event, tokenType string) (frommarkdown.Token, bool) {
	for _, event := range events {
		if event.Kind == frommarkdown.EventEnter && event.Token.Type == tokenType {
			return event.Token, true
		}
	}
	return frommarkdown.Token{}, false
}

func TestTokenizeAttention(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{Syntaxes: []Syntax{sub, sup}})

	result := tokenizer.Tokenize([]byte("~H2O~"))
	assert.Empty(t, result.Warnings)
	assert.Equal(t, []string{
		"enter paragraph",
		"enter sub",
		"enter text",
		"exit text",
		"exit sub",
		"exit paragraph",
	}, describe(result.Events))

	span, ok := findToken(result.Events, "sub")
	require.True(t, ok)
	assert.Equal(t, 0, span.Start.Offset)
	assert.Equal(t, 5, span.End.Offset)

	text, ok := findToken(result.Events, frommarkdown.TokenText)
	require.True(t, ok)
	assert.Equal(t, "H2O", text.Value)
	assert.Equal(t, 2, text.Start.Column)
}

func TestTokenizeSuperscript(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{Syntaxes: []Syntax{sub, sup}})

	result := tokenizer.Tokenize([]byte("x^2^"))
	span, ok := findToken(result.Events, "sup")
	require.True(t, ok)
	assert.Equal(t, 1, span.Start.Offset)
	assert.Equal(t, 4, span.End.Offset)
	_, ok = findToken(result.Events, "sub")
	assert.False(t, ok)
}

func TestTokenizeDoesNotConflictWithStrikethrough(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{Syntaxes: []Syntax{sub}, Strikethrough: true})

	result := tokenizer.Tokenize([]byte("~~strike~~"))
	_, ok := findToken(result.Events, frommarkdown.TokenDelete)
	assert.True(t, ok)
	_, ok = findToken(result.Events, "sub")
	assert.False(t, ok)

	result = tokenizer.Tokenize([]byte("~a~ and ~~b~~"))
	_, ok = findToken(result.Events, "sub")
	assert.True(t, ok)
	_, ok = findToken(result.Events, frommarkdown.TokenDelete)
	assert.True(t, ok)
}

func TestTokenizeDoubleDelimiterWithoutStrikethrough(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{Syntaxes: []Syntax{sub}})

	result := tokenizer.Tokenize([]byte("~~x~~"))
	_, ok := findToken(result.Events, "sub")
	assert.False(t, ok)
}

func TestTokenizeUnclosedDelimiterIsText(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{Syntaxes: []Syntax{sub}})

	result := tokenizer.Tokenize([]byte("a ~b"))
	_, ok := findToken(result.Events, "sub")
	assert.False(t, ok)
}

func TestTokenizeAfterEscapedDelimiter(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{Syntaxes: []Syntax{sub}})

	tests := []struct {
		name   string
		source string
		isSpan bool
	}{
		{name: "escaped", source: "x\\~~a~", isSpan: true},
		{name: "escaped backslash", source: "x\\\\~~a~", isSpan: false},
		{name: "literal", source: "x~~a~", isSpan: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tokenizer.Tokenize([]byte(tt.source))
			span, ok := findToken(result.Events, "sub")
			assert.Equal(t, tt.isSpan, ok)
			if tt.isSpan {
				assert.Equal(t, 3, span.Start.Offset)
				assert.Equal(t, 6, span.End.Offset)
			}
		})
	}
}

func TestTokenizeSkipsDefinitionParagraph(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{Syntaxes: []Syntax{sub}})

	result := tokenizer.Tokenize([]byte("[a]: /u\n\ntext ~x~"))
	assert.Equal(t, []string{
		"enter paragraph",
		"enter text",
		"exit text",
		"enter sub",
		"enter text",
		"exit text",
		"exit sub",
		"exit paragraph",
	}, describe(result.Events))
}

func TestTokenizeBlocks(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{})

	result := tokenizer.Tokenize([]byte("# Title\n\n- a\n- b\n\n```go\nx\n```\n"))
	assert.Empty(t, result.Warnings)

	heading, ok := findToken(result.Events, frommarkdown.TokenHeading)
	require.True(t, ok)
	assert.Equal(t, 1, heading.Depth)

	list, ok := findToken(result.Events, frommarkdown.TokenList)
	require.True(t, ok)
	assert.False(t, list.Ordered)
	assert.False(t, list.Spread)

	code, ok := findToken(result.Events, frommarkdown.TokenCode)
	require.True(t, ok)
	assert.Equal(t, "go", code.Lang)
	assert.Equal(t, "x", code.Value)
}

func TestRenderHTML(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{Syntaxes: []Syntax{sub, sup}})

	html, err := tokenizer.RenderHTML([]byte("~x~ and y^2^"))
	require.NoError(t, err)
	assert.Equal(t, "<p><sub>x</sub> and y<sup>2</sup></p>\n", html)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "empty", config: Config{}},
		{name: "two syntaxes", config: Config{Syntaxes: []Syntax{sub, sup}}},
		{name: "shared delimiter", config: Config{Syntaxes: []Syntax{sub, {Name: "low", Tag: "small", Delimiter: '~'}}}, wantErr: true},
		{name: "reserved delimiter", config: Config{Syntaxes: []Syntax{{Name: "x", Tag: "x", Delimiter: '*'}}}, wantErr: true},
		{name: "letter delimiter", config: Config{Syntaxes: []Syntax{{Name: "x", Tag: "x", Delimiter: 'a'}}}, wantErr: true},
		{name: "name with space", config: Config{Syntaxes: []Syntax{{Name: "a b", Tag: "x", Delimiter: '='}}}, wantErr: true},
		{name: "empty tag", config: Config{Syntaxes: []Syntax{{Name: "x", Delimiter: '='}}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
