package processor

import (
	"errors"
	"sync"
	"testing"

	"github.com/rgonek/mdast-attention/attention"
	"github.com/rgonek/mdast-attention/mdast"
	"github.com/rgonek/mdast-attention/unist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuildsAttentionNodes(t *testing.T) {
	p := newGoldenProcessor(t)

	result, err := p.Parse("H~2~O")
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	paragraph := result.Tree.Children[0]
	require.Len(t, paragraph.Children, 3)
	sub := paragraph.Children[1]
	assert.Equal(t, "sub", sub.Type)
	require.NotNil(t, sub.Data)
	assert.Equal(t, "sub", sub.Data.HName)
	require.NotNil(t, sub.Position)
	assert.Equal(t, unist.Point{Line: 1, Column: 2, Offset: 1}, sub.Position.Start)
	assert.Equal(t, unist.Point{Line: 1, Column: 5, Offset: 4}, sub.Position.End)
}

func TestFormatTree(t *testing.T) {
	p := newGoldenProcessor(t)

	tree := mdast.Root(mdast.Parent(mdast.TypeParagraph,
		mdast.Text("x"),
		mdast.Parent("sup", mdast.Text("2")),
		mdast.Parent("sub"),
	))
	result, err := p.Format(tree)
	require.NoError(t, err)
	assert.Equal(t, "x^2^~~\n", result.Markdown)
}

func TestFromHTML(t *testing.T) {
	p := newGoldenProcessor(t)

	result, err := p.FromHTML("<sub>x</sub>")
	require.NoError(t, err)

	node := mdast.StripPositions(result.Tree.Children[0].Children[0])
	assert.Equal(t, mdast.Parent("sub", mdast.Text("x")), node)
}

func TestHTMLToMarkdownDirect(t *testing.T) {
	p := newGoldenProcessor(t)

	markdown, err := p.HTMLToMarkdownDirect("<p>H<sub>2</sub>O and x<sup>2</sup></p>")
	require.NoError(t, err)
	assert.Equal(t, "H~2~O and x^2^", markdown)
}

func TestNonASCIISyntaxIsNotTokenized(t *testing.T) {
	mark := attention.Options{SourceNodeName: "mark", TargetTagName: "mark", Delimiter: '→'}
	p, err := New(Config{Syntaxes: []attention.Options{mark}})
	require.NoError(t, err)

	parsed, err := p.Parse("→x→")
	require.NoError(t, err)
	require.Len(t, parsed.Warnings, 1)
	assert.Equal(t, unist.WarningDroppedFeature, parsed.Warnings[0].Type)
	assert.Equal(t, "mark", parsed.Warnings[0].NodeType)

	converted, err := p.HTMLToMarkdown("<p><mark>x</mark> a→b</p>")
	require.NoError(t, err)
	assert.Equal(t, "→x→ a&#x2192;b\n", converted.Markdown)
}

func TestConfigValidate(t *testing.T) {
	sub := attention.Subscript
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "empty", config: Config{}},
		{name: "presets", config: Config{Syntaxes: []attention.Options{attention.Subscript, attention.Superscript}}},
		{name: "duplicate node name", config: Config{Syntaxes: []attention.Options{sub, {SourceNodeName: "sub", TargetTagName: "small", Delimiter: '='}}}, wantErr: true},
		{name: "duplicate tag", config: Config{Syntaxes: []attention.Options{sub, {SourceNodeName: "low", TargetTagName: "sub", Delimiter: '='}}}, wantErr: true},
		{name: "built-in node type", config: Config{Syntaxes: []attention.Options{{SourceNodeName: "emphasis", TargetTagName: "x", Delimiter: '='}}}, wantErr: true},
		{name: "built-in tag", config: Config{Syntaxes: []attention.Options{{SourceNodeName: "x", TargetTagName: "em", Delimiter: '='}}}, wantErr: true},
		{name: "strikethrough tag without strikethrough", config: Config{Syntaxes: []attention.Options{{SourceNodeName: "x", TargetTagName: "del", Delimiter: '='}}}},
		{name: "strikethrough tag", config: Config{Strikethrough: true, Syntaxes: []attention.Options{{SourceNodeName: "x", TargetTagName: "del", Delimiter: '='}}}, wantErr: true},
		{name: "invalid options", config: Config{Syntaxes: []attention.Options{{SourceNodeName: "x"}}}, wantErr: true},
		{name: "invalid bullet", config: Config{Bullet: '#'}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
		})
	}
}

func TestConfigValidateWrapsInvalidOptions(t *testing.T) {
	_, err := New(Config{Syntaxes: []attention.Options{attention.Subscript, attention.Subscript}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, attention.ErrInvalidOptions))
}

func TestProcessorIsSafeForConcurrentUse(t *testing.T) {
	p := newGoldenProcessor(t)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := p.Reformat("a ~b~ c^d^")
			if err == nil {
				results[i] = result.Markdown
			}
		}(i)
	}
	wg.Wait()

	for _, result := range results {
		assert.Equal(t, "a ~b~ c^d^\n", result)
	}
}
