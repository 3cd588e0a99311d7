package frommarkdown

import "github.com/rgonek/mdast-attention/mdast"

// CommonMark returns the handlers for CommonMark constructs. Compilers always
// start from it.
func CommonMark() Extension {
	return Extension{
		CanContainEols: []string{
			mdast.TypeParagraph,
			mdast.TypeHeading,
			mdast.TypeEmphasis,
			mdast.TypeStrong,
			mdast.TypeLink,
		},
		Enter: map[string]Handle{
			TokenParagraph:     enterParent(mdast.TypeParagraph),
			TokenHeading:       enterHeading,
			TokenThematicBreak: enterLeaf(mdast.TypeThematicBreak),
			TokenBlockquote:    enterParent(mdast.TypeBlockquote),
			TokenList:          enterList,
			TokenListItem:      enterListItem,
			TokenCode:          enterCode,
			TokenHTML:          enterLiteral(mdast.TypeHTML),
			TokenText:          enterText,
			TokenLineEnding:    enterLineEnding,
			TokenEmphasis:      enterParent(mdast.TypeEmphasis),
			TokenStrong:        enterParent(mdast.TypeStrong),
			TokenInlineCode:    enterLiteral(mdast.TypeInlineCode),
			TokenBreak:         enterLeaf(mdast.TypeBreak),
			TokenLink:          enterLink,
			TokenImage:         enterImage,
		},
		Exit: map[string]Handle{
			TokenParagraph:     exitNode,
			TokenHeading:       exitNode,
			TokenThematicBreak: exitNode,
			TokenBlockquote:    exitNode,
			TokenList:          exitNode,
			TokenListItem:      exitNode,
			TokenCode:          exitNode,
			TokenHTML:          exitNode,
			TokenText:          exitNode,
			TokenLineEnding:    exitLineEnding,
			TokenEmphasis:      exitNode,
			TokenStrong:        exitNode,
			TokenInlineCode:    exitNode,
			TokenBreak:         exitNode,
			TokenLink:          exitNode,
			TokenImage:         exitNode,
		},
	}
}

// Strikethrough returns the handlers for GFM strikethrough.
func Strikethrough() Extension {
	return Extension{
		CanContainEols: []string{mdast.TypeDelete},
		Enter:          map[string]Handle{TokenDelete: enterParent(mdast.TypeDelete)},
		Exit:           map[string]Handle{TokenDelete: exitNode},
	}
}

func enterParent(nodeType string) Handle {
	return func(c *Context, tok Token) error {
		c.Enter(mdast.Parent(nodeType), tok)
		return nil
	}
}

func enterLeaf(nodeType string) Handle {
	return func(c *Context, tok Token) error {
		c.Enter(&mdast.Node{Type: nodeType}, tok)
		return nil
	}
}

func enterLiteral(nodeType string) Handle {
	return func(c *Context, tok Token) error {
		c.Enter(&mdast.Node{Type: nodeType, Value: tok.Value}, tok)
		return nil
	}
}

func exitNode(c *Context, tok Token) error {
	return c.Exit(tok)
}

func enterHeading(c *Context, tok Token) error {
	node := mdast.Parent(mdast.TypeHeading)
	node.Depth = tok.Depth
	c.Enter(node, tok)
	return nil
}

func enterList(c *Context, tok Token) error {
	node := mdast.Parent(mdast.TypeList)
	node.Ordered = tok.Ordered
	node.Spread = tok.Spread
	if tok.Ordered {
		node.Start = tok.Begin
	}
	c.Enter(node, tok)
	return nil
}

func enterListItem(c *Context, tok Token) error {
	node := mdast.Parent(mdast.TypeListItem)
	node.Spread = tok.Spread
	c.Enter(node, tok)
	return nil
}

func enterCode(c *Context, tok Token) error {
	c.Enter(&mdast.Node{
		Type:  mdast.TypeCode,
		Lang:  tok.Lang,
		Meta:  tok.Meta,
		Value: tok.Value,
	}, tok)
	return nil
}

func enterLink(c *Context, tok Token) error {
	node := mdast.Parent(mdast.TypeLink)
	node.URL = tok.URL
	node.Title = tok.Title
	c.Enter(node, tok)
	return nil
}

func enterImage(c *Context, tok Token) error {
	c.Enter(&mdast.Node{
		Type:  mdast.TypeImage,
		URL:   tok.URL,
		Title: tok.Title,
		Alt:   tok.Alt,
	}, tok)
	return nil
}

// enterText appends to the previous text node when there is one, so
// consecutive data tokens produce a single node.
func enterText(c *Context, tok Token) error {
	if tail := c.Current().Last(); tail != nil && tail.Type == mdast.TypeText {
		tail.Value += tok.Value
		c.push(tail, tok)
		return nil
	}

	c.Enter(mdast.Text(tok.Value), tok)
	return nil
}

func enterLineEnding(c *Context, tok Token) error {
	if !c.CanContainEols(c.Current().Type) {
		return nil
	}

	tok.Value = "\n"
	return enterText(c, tok)
}

func exitLineEnding(c *Context, tok Token) error {
	if c.openType() != TokenLineEnding {
		return nil
	}
	return c.Exit(tok)
}
