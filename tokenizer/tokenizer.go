// Package tokenizer turns markdown source into the enter/exit events
// consumed by package frommarkdown. Parsing is done by goldmark; attention
// syntaxes are registered as goldmark extensions.
package tokenizer

import (
	"bytes"
	"fmt"

	"github.com/rgonek/mdast-attention/frommarkdown"
	"github.com/rgonek/mdast-attention/unist"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Config holds tokenizer configuration.
type Config struct {
	Syntaxes      []Syntax `json:"syntaxes,omitempty"`
	Strikethrough bool     `json:"strikethrough,omitempty"`
}

func (c Config) clone() Config {
	c.Syntaxes = append([]Syntax(nil), c.Syntaxes...)
	return c
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	delimiters := make(map[byte]string)
	for _, syntax := range c.Syntaxes {
		if err := syntax.Validate(); err != nil {
			return err
		}
		if other, ok := delimiters[syntax.Delimiter]; ok {
			return fmt.Errorf("syntaxes %q and %q share delimiter %q", other, syntax.Name, syntax.Delimiter)
		}
		delimiters[syntax.Delimiter] = syntax.Name
	}
	return nil
}

// Result holds the output of tokenization.
type Result struct {
	Events   []frommarkdown.Event `json:"events"`
	Warnings []unist.Warning      `json:"warnings,omitempty"`
}

// Tokenizer turns markdown into events.
type Tokenizer struct {
	config   Config
	markdown goldmark.Markdown
}

// New creates a Tokenizer for CommonMark plus the configured syntaxes.
func New(config Config) (*Tokenizer, error) {
	cfg := config.clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var extensions []goldmark.Extender
	if cfg.Strikethrough {
		extensions = append(extensions, extension.Strikethrough)
	}
	for _, syntax := range cfg.Syntaxes {
		extensions = append(extensions, syntax)
	}

	return &Tokenizer{
		config:   cfg,
		markdown: goldmark.New(goldmark.WithExtensions(extensions...)),
	}, nil
}

// Tokenize parses source and returns its events.
func (t *Tokenizer) Tokenize(source []byte) Result {
	root := t.markdown.Parser().Parse(text.NewReader(source))

	w := &walker{
		source: source,
		index:  unist.NewLineIndex(source),
	}
	w.walkBlocks(root)

	return Result{
		Events:   w.events,
		Warnings: w.warnings,
	}
}

// RenderHTML renders source to HTML, with attention spans as their tags.
func (t *Tokenizer) RenderHTML(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := t.markdown.Convert(source, &buf); err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}
	return buf.String(), nil
}

// Markdown returns the underlying goldmark instance.
func (t *Tokenizer) Markdown() goldmark.Markdown {
	return t.markdown
}
