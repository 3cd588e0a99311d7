// Package htmlmd provides html-to-markdown plugins that write an element
// as an attention span, without going through an mdast tree.
package htmlmd

import (
	"bytes"
	"fmt"
	"unicode"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"golang.org/x/net/html"
)

// Plugin renders one tag as its content wrapped in a delimiter. Delimiters
// inside the content are not escaped.
type Plugin struct {
	tag       string
	delimiter string
}

// New returns a plugin that renders <tag>x</tag> as x wrapped in delimiter.
func New(tag string, delimiter rune) *Plugin {
	return &Plugin{tag: tag, delimiter: string(delimiter)}
}

func (p *Plugin) Name() string {
	return "attention-" + p.tag
}

func (p *Plugin) Init(conv *converter.Converter) error {
	conv.Register.RendererFor(p.tag, converter.TagTypeInline, p.render, converter.PriorityStandard)
	return nil
}

func (p *Plugin) render(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
	var buf bytes.Buffer
	ctx.RenderChildNodes(ctx, &buf, n)

	content := buf.Bytes()
	trimmed := bytes.TrimFunc(content, unicode.IsSpace)
	if len(trimmed) == 0 {
		_, _ = w.Write(content)
		return converter.RenderSuccess
	}

	leading := content[:len(content)-len(bytes.TrimLeftFunc(content, unicode.IsSpace))]
	trailing := content[len(bytes.TrimRightFunc(content, unicode.IsSpace)):]

	_, _ = w.Write(leading)
	_, _ = w.WriteString(p.delimiter)
	_, _ = w.Write(trimmed)
	_, _ = w.WriteString(p.delimiter)
	_, _ = w.Write(trailing)
	return converter.RenderSuccess
}

// NewConverter returns an html-to-markdown converter with the base and
// CommonMark plugins followed by plugins.
func NewConverter(plugins ...converter.Plugin) *converter.Converter {
	all := append([]converter.Plugin{
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	}, plugins...)
	return converter.NewConverter(converter.WithPlugins(all...))
}

// Convert converts an HTML string with the given plugins.
func Convert(source string, plugins ...converter.Plugin) (string, error) {
	markdown, err := NewConverter(plugins...).ConvertString(source)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}
