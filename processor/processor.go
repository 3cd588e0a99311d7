// Package processor wires attention syntaxes into complete pipelines:
// markdown to mdast, mdast to markdown, HTML to mdast and markdown to HTML.
package processor

import (
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/rgonek/mdast-attention/attention"
	"github.com/rgonek/mdast-attention/fromhtml"
	"github.com/rgonek/mdast-attention/frommarkdown"
	"github.com/rgonek/mdast-attention/htmlmd"
	"github.com/rgonek/mdast-attention/mdast"
	"github.com/rgonek/mdast-attention/tokenizer"
	"github.com/rgonek/mdast-attention/tomarkdown"
	"github.com/rgonek/mdast-attention/unist"
)

// TreeResult holds a parsed tree and the issues found building it.
type TreeResult struct {
	Tree     *mdast.Node     `json:"tree"`
	Warnings []unist.Warning `json:"warnings,omitempty"`
}

// MarkdownResult holds serialized markdown and the issues found writing it.
type MarkdownResult struct {
	Markdown string          `json:"markdown"`
	Warnings []unist.Warning `json:"warnings,omitempty"`
}

// Processor converts between markdown, mdast and HTML for a fixed set of
// syntaxes. It is safe for concurrent use.
type Processor struct {
	config     Config
	attentions []*attention.Attention
	// untokenized names syntaxes whose delimiter the tokenizer cannot read.
	untokenized []string

	tokenizer  *tokenizer.Tokenizer
	compiler   *frommarkdown.Compiler
	serializer *tomarkdown.Serializer
	converter  *fromhtml.Converter
	plugins    []converter.Plugin
}

// New creates a Processor.
func New(config Config) (*Processor, error) {
	cfg := config.applyDefaults().clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Processor{config: cfg}

	var (
		syntaxes []tokenizer.Syntax
		fromMD   []frommarkdown.Extension
		toMD     []tomarkdown.Extension
		fromHTML []fromhtml.Handlers
		phrasing []string
		plugins  []converter.Plugin
	)
	if cfg.Strikethrough {
		fromMD = append(fromMD, frommarkdown.Strikethrough())
		toMD = append(toMD, tomarkdown.Strikethrough())
		fromHTML = append(fromHTML, fromhtml.Strikethrough())
		plugins = append(plugins, strikethrough.NewStrikethroughPlugin())
	}

	for _, opts := range cfg.Syntaxes {
		a, err := attention.New(opts)
		if err != nil {
			return nil, err
		}
		p.attentions = append(p.attentions, a)

		if syntax, err := a.Syntax(); err == nil {
			syntaxes = append(syntaxes, syntax)
		} else {
			p.untokenized = append(p.untokenized, opts.SourceNodeName)
		}

		fromMD = append(fromMD, a.FromMarkdown())
		toMD = append(toMD, a.ToMarkdown())
		fromHTML = append(fromHTML, a.FromHTML())
		phrasing = append(phrasing, opts.SourceNodeName)
		plugins = append(plugins, a.HTMLPlugin())
	}

	var err error
	p.tokenizer, err = tokenizer.New(tokenizer.Config{Syntaxes: syntaxes, Strikethrough: cfg.Strikethrough})
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer: %w", err)
	}
	p.compiler, err = frommarkdown.New(frommarkdown.Config{Extensions: fromMD})
	if err != nil {
		return nil, fmt.Errorf("failed to create compiler: %w", err)
	}
	p.serializer, err = tomarkdown.New(tomarkdown.Config{
		Extensions:   toMD,
		Bullet:       cfg.Bullet,
		Emphasis:     cfg.Emphasis,
		Strong:       cfg.Strong,
		UnknownNodes: cfg.UnknownNodes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create serializer: %w", err)
	}
	p.converter, err = fromhtml.New(fromhtml.Config{Handlers: fromHTML, Phrasing: phrasing})
	if err != nil {
		return nil, fmt.Errorf("failed to create html converter: %w", err)
	}
	p.plugins = plugins

	return p, nil
}

// Syntaxes returns the configured syntaxes.
func (p *Processor) Syntaxes() []attention.Options {
	return append([]attention.Options(nil), p.config.Syntaxes...)
}

// Parse turns markdown into an mdast tree.
func (p *Processor) Parse(markdown string) (TreeResult, error) {
	tokens := p.tokenizer.Tokenize([]byte(markdown))

	compiled, err := p.compiler.Compile(tokens.Events)
	if err != nil {
		return TreeResult{}, fmt.Errorf("failed to compile markdown: %w", err)
	}

	warnings := append(tokens.Warnings, compiled.Warnings...)
	for _, name := range p.untokenized {
		warnings = append(warnings, unist.Warning{
			Type:     unist.WarningDroppedFeature,
			NodeType: name,
			Message:  fmt.Sprintf("syntax %q has a non-ASCII delimiter and is not recognized in markdown", name),
		})
	}

	return TreeResult{Tree: compiled.Tree, Warnings: warnings}, nil
}

// Format turns an mdast tree into markdown.
func (p *Processor) Format(tree *mdast.Node) (MarkdownResult, error) {
	result, err := p.serializer.Serialize(tree)
	if err != nil {
		return MarkdownResult{}, fmt.Errorf("failed to serialize tree: %w", err)
	}
	return MarkdownResult{Markdown: result.Markdown, Warnings: result.Warnings}, nil
}

// Reformat parses markdown and writes it back in canonical form.
func (p *Processor) Reformat(markdown string) (MarkdownResult, error) {
	parsed, err := p.Parse(markdown)
	if err != nil {
		return MarkdownResult{}, err
	}
	formatted, err := p.Format(parsed.Tree)
	if err != nil {
		return MarkdownResult{}, err
	}
	formatted.Warnings = append(parsed.Warnings, formatted.Warnings...)
	return formatted, nil
}

// FromHTML turns an HTML fragment into an mdast tree.
func (p *Processor) FromHTML(html string) (TreeResult, error) {
	result, err := p.converter.ConvertHTML(strings.NewReader(html))
	if err != nil {
		return TreeResult{}, fmt.Errorf("failed to convert html: %w", err)
	}
	return TreeResult{Tree: result.Tree, Warnings: result.Warnings}, nil
}

// HTMLToMarkdown turns an HTML fragment into markdown through mdast, so
// text is escaped for the configured syntaxes.
func (p *Processor) HTMLToMarkdown(html string) (MarkdownResult, error) {
	converted, err := p.FromHTML(html)
	if err != nil {
		return MarkdownResult{}, err
	}
	formatted, err := p.Format(converted.Tree)
	if err != nil {
		return MarkdownResult{}, err
	}
	formatted.Warnings = append(converted.Warnings, formatted.Warnings...)
	return formatted, nil
}

// HTMLToMarkdownDirect turns an HTML fragment into markdown with
// html-to-markdown and the syntaxes' plugins, without building a tree.
// Literal delimiters in text are not escaped.
func (p *Processor) HTMLToMarkdownDirect(html string) (string, error) {
	return htmlmd.Convert(html, p.plugins...)
}

// RenderHTML renders markdown to HTML.
func (p *Processor) RenderHTML(markdown string) (string, error) {
	return p.tokenizer.RenderHTML([]byte(markdown))
}
