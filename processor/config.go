package processor

import (
	"fmt"

	"github.com/rgonek/mdast-attention/attention"
	"github.com/rgonek/mdast-attention/fromhtml"
	"github.com/rgonek/mdast-attention/mdast"
	"github.com/rgonek/mdast-attention/tomarkdown"
)

// Config configures a Processor.
type Config struct {
	// Syntaxes are the attention syntaxes to support, for example
	// attention.Subscript.
	Syntaxes []attention.Options `json:"syntaxes,omitempty" yaml:"syntaxes,omitempty"`
	// Strikethrough enables GFM ~~strikethrough~~ in all directions.
	Strikethrough bool `json:"strikethrough,omitempty" yaml:"strikethrough,omitempty"`

	Bullet       rune                     `json:"bullet,omitempty" yaml:"bullet,omitempty"`
	Emphasis     rune                     `json:"emphasis,omitempty" yaml:"emphasis,omitempty"`
	Strong       rune                     `json:"strong,omitempty" yaml:"strong,omitempty"`
	UnknownNodes tomarkdown.UnknownPolicy `json:"unknownNodes,omitempty" yaml:"unknownNodes,omitempty"`
}

func (c Config) applyDefaults() Config {
	if c.Bullet == 0 {
		c.Bullet = '-'
	}
	if c.Emphasis == 0 {
		c.Emphasis = '*'
	}
	if c.Strong == 0 {
		c.Strong = '*'
	}
	if c.UnknownNodes == "" {
		c.UnknownNodes = tomarkdown.UnknownText
	}
	return c
}

func (c Config) clone() Config {
	c.Syntaxes = append([]attention.Options(nil), c.Syntaxes...)
	return c
}

func strikethroughTags() []string {
	tags := make([]string, 0, len(fromhtml.Strikethrough()))
	for tag := range fromhtml.Strikethrough() {
		tags = append(tags, tag)
	}
	return tags
}

// Validate checks every syntax and rejects node names and tags that are
// used twice or taken by built-in node types and elements.
func (c Config) Validate() error {
	tags := make(map[string]string)
	for tag := range fromhtml.Base() {
		tags[tag] = "built-in"
	}
	if c.Strikethrough {
		for _, tag := range strikethroughTags() {
			tags[tag] = "strikethrough"
		}
	}

	names := make(map[string]bool)
	for _, syntax := range c.Syntaxes {
		if err := syntax.Validate(); err != nil {
			return err
		}

		if mdast.IsBuiltinType(syntax.SourceNodeName) {
			return fmt.Errorf("%w: node name %q is a built-in node type", attention.ErrInvalidOptions, syntax.SourceNodeName)
		}
		if names[syntax.SourceNodeName] {
			return fmt.Errorf("%w: node name %q is used twice", attention.ErrInvalidOptions, syntax.SourceNodeName)
		}
		names[syntax.SourceNodeName] = true

		if owner, ok := tags[syntax.TargetTagName]; ok {
			return fmt.Errorf("%w: tag %q is already handled by %s", attention.ErrInvalidOptions, syntax.TargetTagName, owner)
		}
		tags[syntax.TargetTagName] = syntax.SourceNodeName
	}

	return tomarkdown.Config{
		Bullet:       c.Bullet,
		Emphasis:     c.Emphasis,
		Strong:       c.Strong,
		UnknownNodes: c.UnknownNodes,
	}.Validate()
}
