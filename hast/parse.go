package hast

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/rgonek/mdast-attention/unist"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// closesParagraph lists the start tags that end an open <p>.
var closesParagraph = map[atom.Atom]bool{
	atom.Address:    true,
	atom.Article:    true,
	atom.Aside:      true,
	atom.Blockquote: true,
	atom.Div:        true,
	atom.Dl:         true,
	atom.Fieldset:   true,
	atom.Figure:     true,
	atom.Footer:     true,
	atom.Form:       true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Header:     true,
	atom.Hr:         true,
	atom.Main:       true,
	atom.Nav:        true,
	atom.Ol:         true,
	atom.P:          true,
	atom.Pre:        true,
	atom.Section:    true,
	atom.Table:      true,
	atom.Ul:         true,
}

type openElement struct {
	node  *Node
	start int
}

type builder struct {
	index *unist.LineIndex
	root  *Node
	stack []openElement
}

// Parse parses an HTML fragment into a tree whose nodes carry their source
// positions. Unlike a full HTML5 parse, no html/head/body elements are
// synthesized; only void elements, unclosed <p> and <li> elements and
// unmatched end tags are repaired.
func Parse(r io.Reader) (*Node, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read html: %w", err)
	}

	b := &builder{
		index: unist.NewLineIndex(source),
		root:  &Node{Type: RootNode},
	}

	z := html.NewTokenizer(bytes.NewReader(source))
	offset := 0
	for {
		tokenType := z.Next()
		start := offset
		offset += len(z.Raw())

		switch tokenType {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				b.closeAll(offset)
				b.root.Position = b.position(0, len(source))
				return b.root, nil
			}
			return nil, fmt.Errorf("failed to tokenize html: %w", z.Err())
		case html.TextToken:
			b.appendText(string(z.Text()), start, offset)
		case html.CommentToken:
			b.append(&Node{Type: CommentNode, Value: string(z.Text())}, start, offset)
		case html.StartTagToken, html.SelfClosingTagToken:
			b.startTag(z, tokenType == html.SelfClosingTagToken, start, offset)
		case html.EndTagToken:
			name, _ := z.TagName()
			b.endTag(string(name), offset)
		}
	}
}

func (b *builder) startTag(z *html.Tokenizer, selfClosing bool, start, stop int) {
	name, hasAttr := z.TagName()
	node := &Node{Type: ElementNode, TagName: string(name)}
	for hasAttr {
		var key, value []byte
		key, value, hasAttr = z.TagAttr()
		if node.Properties == nil {
			node.Properties = make(map[string]string)
		}
		node.Properties[string(key)] = string(value)
	}

	tag := atom.Lookup(name)
	if closesParagraph[tag] && b.currentIs(atom.P) {
		b.pop(start)
	}
	if tag == atom.Li && b.currentIs(atom.Li) {
		b.pop(start)
	}

	b.append(node, start, stop)
	if selfClosing || voidElements[tag] {
		return
	}
	b.stack = append(b.stack, openElement{node: node, start: start})
}

func (b *builder) endTag(name string, stop int) {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].node.TagName != name {
			continue
		}
		for len(b.stack) > i+1 {
			b.pop(stop)
		}
		b.pop(stop)
		return
	}
}

func (b *builder) currentIs(tag atom.Atom) bool {
	return len(b.stack) > 0 && atom.Lookup([]byte(b.stack[len(b.stack)-1].node.TagName)) == tag
}

func (b *builder) parent() *Node {
	if len(b.stack) == 0 {
		return b.root
	}
	return b.stack[len(b.stack)-1].node
}

func (b *builder) append(node *Node, start, stop int) {
	node.Position = b.position(start, stop)
	parent := b.parent()
	parent.Children = append(parent.Children, node)
}

func (b *builder) appendText(value string, start, stop int) {
	parent := b.parent()
	if n := len(parent.Children); n > 0 && parent.Children[n-1].Type == TextNode {
		last := parent.Children[n-1]
		last.Value += value
		last.Position.End = b.index.Point(stop)
		return
	}
	b.append(&Node{Type: TextNode, Value: value}, start, stop)
}

// pop closes the innermost open element at stop.
func (b *builder) pop(stop int) {
	open := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	open.node.Position = b.position(open.start, stop)
}

func (b *builder) closeAll(stop int) {
	for len(b.stack) > 0 {
		b.pop(stop)
	}
}

func (b *builder) position(start, stop int) *unist.Position {
	position := b.index.Position(start, stop)
	return &position
}
