// Package tomarkdown serializes mdast trees to markdown.
//
// Node types are serialized by handlers looked up by type. Extensions add
// handlers and unsafe patterns; a Serializer is built once from its Config
// and can then be used concurrently.
package tomarkdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rgonek/mdast-attention/mdast"
	"github.com/rgonek/mdast-attention/unist"
)

// ErrUnknownNode indicates a node type without handler under UnknownError.
var ErrUnknownNode = errors.New("unknown node type")

// Handle serializes one node.
type Handle func(node, parent *mdast.Node, s *State, info Info) (string, error)

// Peek returns the first characters Handle would emit for node, without
// serializing it.
type Peek func(node, parent *mdast.Node, s *State, info Info) string

// Handler serializes a node type.
type Handler struct {
	Handle Handle
	Peek   Peek
}

// Extension adds unsafe patterns and handlers.
type Extension struct {
	Unsafe   []Unsafe
	Handlers map[string]Handler
}

// UnknownPolicy controls what happens to nodes without handler.
type UnknownPolicy string

const (
	UnknownText  UnknownPolicy = "text"
	UnknownSkip  UnknownPolicy = "skip"
	UnknownError UnknownPolicy = "error"
)

// Config holds serializer configuration.
type Config struct {
	Extensions   []Extension   `json:"-"`
	Bullet       rune          `json:"bullet,omitempty"`
	Emphasis     rune          `json:"emphasis,omitempty"`
	Strong       rune          `json:"strong,omitempty"`
	UnknownNodes UnknownPolicy `json:"unknownNodes,omitempty"`
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
		c.UnknownNodes = UnknownText
	}
	return c
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if c.Bullet != '-' && c.Bullet != '*' && c.Bullet != '+' {
		return fmt.Errorf("invalid bullet %q: must be one of -, *, +", c.Bullet)
	}
	if c.Emphasis != '*' && c.Emphasis != '_' {
		return fmt.Errorf("invalid emphasis %q: must be * or _", c.Emphasis)
	}
	if c.Strong != '*' && c.Strong != '_' {
		return fmt.Errorf("invalid strong %q: must be * or _", c.Strong)
	}
	if c.UnknownNodes != UnknownText && c.UnknownNodes != UnknownSkip && c.UnknownNodes != UnknownError {
		return fmt.Errorf("invalid unknownNodes %q", c.UnknownNodes)
	}

	for i, ext := range c.Extensions {
		for nodeType, handler := range ext.Handlers {
			if strings.TrimSpace(nodeType) == "" {
				return fmt.Errorf("extension %d: handler node types must be non-empty", i)
			}
			if handler.Handle == nil {
				return fmt.Errorf("extension %d: handler for %q has no Handle", i, nodeType)
			}
		}
		for _, pattern := range ext.Unsafe {
			if pattern.Character == 0 {
				return fmt.Errorf("extension %d: unsafe pattern without character", i)
			}
		}
	}

	return nil
}

// Result holds the output of a serialization.
type Result struct {
	Markdown string          `json:"markdown"`
	Warnings []unist.Warning `json:"warnings,omitempty"`
}

// Serializer turns mdast trees into markdown.
type Serializer struct {
	config   Config
	handlers map[string]Handler
	unsafe   []compiledUnsafe
}

// New creates a Serializer with the CommonMark handlers and the given
// extensions. Later extensions override handlers of earlier ones; unsafe
// patterns accumulate.
func New(config Config) (*Serializer, error) {
	cfg := config.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	extensions := append([]Extension{CommonMark()}, cfg.Extensions...)

	handlers := make(map[string]Handler)
	var unsafe []compiledUnsafe
	for _, ext := range extensions {
		for nodeType, handler := range ext.Handlers {
			handlers[nodeType] = handler
		}
		for _, pattern := range ext.Unsafe {
			compiled, err := compileUnsafe(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid unsafe pattern for %q: %w", pattern.Character, err)
			}
			unsafe = append(unsafe, compiled)
		}
	}

	return &Serializer{
		config:   cfg,
		handlers: handlers,
		unsafe:   unsafe,
	}, nil
}

// Serialize returns the markdown for tree. A root always ends in a line
// ending; other nodes are returned exactly as their handler emits them.
func (s *Serializer) Serialize(tree *mdast.Node) (Result, error) {
	if tree == nil {
		return Result{}, errors.New("nil tree")
	}

	state := &State{
		config:   s.config,
		handlers: s.handlers,
		unsafe:   s.unsafe,
	}

	info := Info{
		Before: "\n",
		After:  "\n",
		Now:    unist.Point{Line: 1, Column: 1},
	}
	value, err := state.Handle(tree, nil, info)
	if err != nil {
		return Result{}, err
	}

	if tree.Type == mdast.TypeRoot && value != "" && !strings.HasSuffix(value, "\n") {
		value += "\n"
	}

	return Result{
		Markdown: value,
		Warnings: state.warnings,
	}, nil
}
