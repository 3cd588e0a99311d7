// Package fromhtml converts HTML trees to mdast.
//
// Elements are converted by handlers looked up by tag name. Elements without
// handler are replaced by their converted children.
package fromhtml

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rgonek/mdast-attention/hast"
	"github.com/rgonek/mdast-attention/mdast"
	"github.com/rgonek/mdast-attention/unist"
)

// Config holds converter configuration.
type Config struct {
	// Handlers are applied over the base handlers in order; later entries
	// win.
	Handlers []Handlers `json:"-"`
	// Phrasing lists extra mdast node types that count as phrasing content
	// when runs of inline nodes are wrapped in paragraphs.
	Phrasing []string `json:"phrasing,omitempty"`
}

func (c Config) clone() Config {
	c.Handlers = append([]Handlers(nil), c.Handlers...)
	c.Phrasing = append([]string(nil), c.Phrasing...)
	return c
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	for i, handlers := range c.Handlers {
		for tagName := range handlers {
			if strings.TrimSpace(tagName) == "" || tagName != strings.ToLower(tagName) {
				return fmt.Errorf("handlers %d: tag name %q must be non-empty and lower-case", i, tagName)
			}
		}
	}
	for _, nodeType := range c.Phrasing {
		if strings.TrimSpace(nodeType) == "" {
			return errors.New("phrasing node types must be non-empty")
		}
	}
	return nil
}

// Result holds the output of a conversion.
type Result struct {
	Tree     *mdast.Node     `json:"tree"`
	Warnings []unist.Warning `json:"warnings,omitempty"`
}

// Converter turns HTML trees into mdast trees.
type Converter struct {
	config   Config
	handlers Handlers
}

// New creates a Converter with the base handlers and the configured ones.
func New(config Config) (*Converter, error) {
	cfg := config.clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	handlers := Base()
	for _, extra := range cfg.Handlers {
		for tagName, handle := range extra {
			handlers[tagName] = handle
		}
	}
	handlers["pre"] = preformatted(handlers["pre"])

	return &Converter{config: cfg, handlers: handlers}, nil
}

// Convert converts tree, which is usually a root, into an mdast root.
func (c *Converter) Convert(tree *hast.Node) (Result, error) {
	if tree == nil {
		return Result{}, errors.New("nil tree")
	}

	state := &State{
		handlers: c.handlers,
		phrasing: c.config.Phrasing,
	}

	root := mdast.Root(state.Wrap(state.One(tree))...)
	state.Patch(tree, root)

	return Result{
		Tree:     root,
		Warnings: state.warnings,
	}, nil
}

// ConvertHTML parses r as an HTML fragment and converts it.
func (c *Converter) ConvertHTML(r io.Reader) (Result, error) {
	tree, err := hast.Parse(r)
	if err != nil {
		return Result{}, err
	}
	return c.Convert(tree)
}

// preformatted keeps whitespace inside pre elements, whichever handler is
// registered for them.
func preformatted(handle Handle) Handle {
	if handle == nil {
		return nil
	}
	return func(s *State, el *hast.Node) []*mdast.Node {
		previous := s.inPre
		s.inPre = true
		defer func() { s.inPre = previous }()
		return handle(s, el)
	}
}
