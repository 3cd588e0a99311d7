// Package frommarkdown turns tokenizer events into an mdast tree.
//
// The tokenizer reports every construct it recognizes as a pair of enter and
// exit events. The Compiler dispatches each event to the handler registered
// for its token type; handlers open and close nodes through the Context.
package frommarkdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rgonek/mdast-attention/mdast"
	"github.com/rgonek/mdast-attention/unist"
)

// Config configures a Compiler.
type Config struct {
	// Extensions are applied after the CommonMark handlers, in order.
	Extensions []Extension
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	for i, ext := range c.Extensions {
		for _, nodeType := range ext.CanContainEols {
			if strings.TrimSpace(nodeType) == "" {
				return fmt.Errorf("extension %d: canContainEols entries must be non-empty", i)
			}
		}
		if err := validateHandles(ext.Enter); err != nil {
			return fmt.Errorf("extension %d: enter: %w", i, err)
		}
		if err := validateHandles(ext.Exit); err != nil {
			return fmt.Errorf("extension %d: exit: %w", i, err)
		}
	}
	return nil
}

func validateHandles(m map[string]Handle) error {
	for tokenType, handle := range m {
		if strings.TrimSpace(tokenType) == "" {
			return errors.New("token types must be non-empty")
		}
		if handle == nil {
			return fmt.Errorf("handler for %q is nil", tokenType)
		}
	}
	return nil
}

// Result holds the output of a compilation.
type Result struct {
	Tree     *mdast.Node     `json:"tree"`
	Warnings []unist.Warning `json:"warnings,omitempty"`
}

// Compiler builds mdast trees from events. It is safe for concurrent use.
type Compiler struct {
	handlers handlers
}

// New creates a Compiler with the CommonMark handlers and the given extensions.
func New(config Config) (*Compiler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	extensions := append([]Extension{CommonMark()}, config.Extensions...)
	return &Compiler{handlers: merge(extensions)}, nil
}

// Compile folds events into a tree rooted at a root node.
func (c *Compiler) Compile(events []Event) (Result, error) {
	root := mdast.Root()
	ctx := newContext(c.handlers, root)

	for _, event := range events {
		table := ctx.handlers.enter
		if event.Kind == EventExit {
			table = ctx.handlers.exit
		}

		handle, ok := table[event.Token.Type]
		if !ok {
			ctx.warnOnce(event.Token.Type)
			continue
		}
		if err := handle(ctx, event.Token); err != nil {
			return Result{}, err
		}
	}

	if open := ctx.openType(); open != "" {
		return Result{}, fmt.Errorf("%w: %q is never closed", ErrUnbalanced, open)
	}

	if len(events) > 0 {
		root.Position = &unist.Position{
			Start: events[0].Token.Start,
			End:   events[len(events)-1].Token.End,
		}
	}

	return Result{Tree: root, Warnings: ctx.warnings}, nil
}
