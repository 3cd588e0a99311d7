package attention

import (
	"fmt"
	"unicode/utf8"

	"github.com/rgonek/mdast-attention/fromhtml"
	"github.com/rgonek/mdast-attention/frommarkdown"
	"github.com/rgonek/mdast-attention/hast"
	"github.com/rgonek/mdast-attention/htmlmd"
	"github.com/rgonek/mdast-attention/mdast"
	"github.com/rgonek/mdast-attention/tokenizer"
	"github.com/rgonek/mdast-attention/tomarkdown"
)

// FromMarkdown returns the extension that turns attention tokens into
// attention nodes.
func FromMarkdown(opts Options) (frommarkdown.Extension, error) {
	if err := opts.Validate(); err != nil {
		return frommarkdown.Extension{}, err
	}

	name, tag := opts.SourceNodeName, opts.TargetTagName
	return frommarkdown.Extension{
		CanContainEols: []string{name},
		Enter: map[string]frommarkdown.Handle{
			name: func(c *frommarkdown.Context, tok frommarkdown.Token) error {
				c.Enter(&mdast.Node{
					Type:     name,
					Children: []*mdast.Node{},
					Data:     &mdast.Data{HName: tag},
				}, tok)
				return nil
			},
		},
		Exit: map[string]frommarkdown.Handle{
			name: func(c *frommarkdown.Context, tok frommarkdown.Token) error {
				return c.Exit(tok)
			},
		},
	}, nil
}

// ToMarkdown returns the extension that writes attention nodes as their
// children wrapped in the delimiter, and escapes literal delimiters in
// phrasing.
func ToMarkdown(opts Options) (tomarkdown.Extension, error) {
	if err := opts.Validate(); err != nil {
		return tomarkdown.Extension{}, err
	}

	name := opts.SourceNodeName
	delimiter := string(opts.Delimiter)

	handle := func(node, _ *mdast.Node, s *tomarkdown.State, info tomarkdown.Info) (string, error) {
		exit := s.Enter(name)

		value := delimiter
		current := tomarkdown.NewTracker(info).Move(value).Current()
		inner, err := s.ContainerPhrasing(node, current.Around(value, delimiter))
		exit()
		if err != nil {
			return "", err
		}

		return value + inner + delimiter, nil
	}

	peek := func(_, _ *mdast.Node, _ *tomarkdown.State, _ tomarkdown.Info) string {
		return delimiter
	}

	return tomarkdown.Extension{
		Unsafe: []tomarkdown.Unsafe{{
			Character:      opts.Delimiter,
			InConstruct:    []string{tomarkdown.ConstructPhrasing},
			NotInConstruct: tomarkdown.FullPhrasingSpans(),
		}},
		Handlers: map[string]tomarkdown.Handler{
			name: {Handle: handle, Peek: peek},
		},
	}, nil
}

// FromHTML returns the handlers that turn the target element into an
// attention node.
func FromHTML(opts Options) (fromhtml.Handlers, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	name := opts.SourceNodeName
	return fromhtml.Handlers{
		opts.TargetTagName: func(s *fromhtml.State, el *hast.Node) []*mdast.Node {
			node := mdast.Parent(name, s.All(el)...)
			s.Patch(el, node)
			return []*mdast.Node{node}
		},
	}, nil
}

// Attention bundles the extensions of one validated Options value.
type Attention struct {
	opts         Options
	fromMarkdown frommarkdown.Extension
	toMarkdown   tomarkdown.Extension
	fromHTML     fromhtml.Handlers
}

// New validates opts and builds all extensions.
func New(opts Options) (*Attention, error) {
	fromMarkdown, err := FromMarkdown(opts)
	if err != nil {
		return nil, err
	}
	toMarkdown, err := ToMarkdown(opts)
	if err != nil {
		return nil, err
	}
	fromHTML, err := FromHTML(opts)
	if err != nil {
		return nil, err
	}

	return &Attention{
		opts:         opts,
		fromMarkdown: fromMarkdown,
		toMarkdown:   toMarkdown,
		fromHTML:     fromHTML,
	}, nil
}

// Options returns the options a was built from.
func (a *Attention) Options() Options {
	return a.opts
}

// FromMarkdown returns the markdown-to-mdast extension.
func (a *Attention) FromMarkdown() frommarkdown.Extension {
	return a.fromMarkdown
}

// ToMarkdown returns the mdast-to-markdown extension.
func (a *Attention) ToMarkdown() tomarkdown.Extension {
	return a.toMarkdown
}

// FromHTML returns the HTML-to-mdast handlers.
func (a *Attention) FromHTML() fromhtml.Handlers {
	return a.fromHTML
}

// Syntax returns the goldmark syntax that produces the tokens FromMarkdown
// consumes. The tokenizer only supports ASCII delimiters.
func (a *Attention) Syntax() (tokenizer.Syntax, error) {
	if a.opts.Delimiter >= utf8.RuneSelf {
		return tokenizer.Syntax{}, fmt.Errorf("%w: delimiter %q is not ASCII and cannot be tokenized", ErrInvalidOptions, a.opts.Delimiter)
	}

	syntax := tokenizer.Syntax{
		Name:      a.opts.SourceNodeName,
		Tag:       a.opts.TargetTagName,
		Delimiter: byte(a.opts.Delimiter),
	}
	if err := syntax.Validate(); err != nil {
		return tokenizer.Syntax{}, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	return syntax, nil
}

// HTMLPlugin returns an html-to-markdown plugin that writes the target tag
// as an attention span.
func (a *Attention) HTMLPlugin() *htmlmd.Plugin {
	return htmlmd.New(a.opts.TargetTagName, a.opts.Delimiter)
}
