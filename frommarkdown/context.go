package frommarkdown

import (
	"errors"
	"fmt"

	"github.com/rgonek/mdast-attention/mdast"
	"github.com/rgonek/mdast-attention/unist"
)

// ErrUnbalanced indicates enter and exit events that do not pair up.
var ErrUnbalanced = errors.New("unbalanced token events")

// Context is the state of one compilation. Handlers use it to open and close
// nodes on the stack of open nodes.
type Context struct {
	handlers handlers
	stack    []*mdast.Node
	tokens   []Token
	warnings []unist.Warning
	warned   map[string]bool
}

func newContext(h handlers, root *mdast.Node) *Context {
	return &Context{
		handlers: h,
		stack:    []*mdast.Node{root},
		warned:   make(map[string]bool),
	}
}

// Current returns the innermost open node.
func (c *Context) Current() *mdast.Node {
	return c.stack[len(c.stack)-1]
}

// Enter appends node to the current node and opens it for tok.
func (c *Context) Enter(node *mdast.Node, tok Token) {
	c.Current().Append(node)
	node.Position = &unist.Position{Start: tok.Start, End: tok.End}
	c.push(node, tok)
}

// Exit closes the innermost open node. tok must have the type of the token
// that opened it.
func (c *Context) Exit(tok Token) error {
	if len(c.tokens) == 0 {
		return fmt.Errorf("%w: cannot close %q at %s, nothing is open", ErrUnbalanced, tok.Type, tok.End)
	}

	open := c.tokens[len(c.tokens)-1]
	if open.Type != tok.Type {
		return fmt.Errorf(
			"%w: cannot close %q at %s, %q opened at %s is open",
			ErrUnbalanced, tok.Type, tok.End, open.Type, open.Start,
		)
	}

	node := c.stack[len(c.stack)-1]
	if node.Position != nil {
		node.Position.End = tok.End
	}

	c.stack = c.stack[:len(c.stack)-1]
	c.tokens = c.tokens[:len(c.tokens)-1]
	return nil
}

// CanContainEols reports whether text inside nodeType keeps line endings.
func (c *Context) CanContainEols(nodeType string) bool {
	return c.handlers.canContainEols[nodeType]
}

// AddWarning records a non-fatal issue.
func (c *Context) AddWarning(warnType unist.WarningType, nodeType, message string) {
	c.warnings = append(c.warnings, unist.Warning{
		Type:     warnType,
		NodeType: nodeType,
		Message:  message,
	})
}

func (c *Context) push(node *mdast.Node, tok Token) {
	c.stack = append(c.stack, node)
	c.tokens = append(c.tokens, tok)
}

func (c *Context) openType() string {
	if len(c.tokens) == 0 {
		return ""
	}
	return c.tokens[len(c.tokens)-1].Type
}

func (c *Context) warnOnce(tokenType string) {
	if c.warned[tokenType] {
		return
	}
	c.warned[tokenType] = true
	c.AddWarning(unist.WarningUnknownToken, tokenType, fmt.Sprintf("no handler for token %q, token ignored", tokenType))
}
