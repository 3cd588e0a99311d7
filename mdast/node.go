// Package mdast defines the markdown syntax tree shared by the parsing,
// serializing and HTML conversion pipelines.
//
// Node types are plain strings. The CommonMark and GFM types are listed as
// constants, but any other type is a valid node: extensions introduce their
// own types (for example "sub" or "sup") without registering them here.
package mdast

import (
	"strings"

	"github.com/rgonek/mdast-attention/unist"
)

const (
	TypeRoot          = "root"
	TypeParagraph     = "paragraph"
	TypeHeading       = "heading"
	TypeThematicBreak = "thematicBreak"
	TypeBlockquote    = "blockquote"
	TypeList          = "list"
	TypeListItem      = "listItem"
	TypeCode          = "code"
	TypeHTML          = "html"
	TypeDefinition    = "definition"
	TypeText          = "text"
	TypeEmphasis      = "emphasis"
	TypeStrong        = "strong"
	TypeDelete        = "delete"
	TypeInlineCode    = "inlineCode"
	TypeBreak         = "break"
	TypeLink          = "link"
	TypeImage         = "image"
	TypeLinkReference = "linkReference"
)

// Node is a markdown syntax tree node. Only the fields meaningful for Type
// are set.
type Node struct {
	Type     string  `json:"type"`
	Children []*Node `json:"children,omitempty"`
	Value    string  `json:"value,omitempty"`

	Depth   int    `json:"depth,omitempty"`
	Ordered bool   `json:"ordered,omitempty"`
	Start   int    `json:"start,omitempty"`
	Spread  bool   `json:"spread,omitempty"`
	Lang    string `json:"lang,omitempty"`
	Meta    string `json:"meta,omitempty"`
	URL     string `json:"url,omitempty"`
	Title   string `json:"title,omitempty"`
	Alt     string `json:"alt,omitempty"`
	Label   string `json:"label,omitempty"`

	// ReferenceType is "full", "collapsed" or "shortcut" on linkReference nodes.
	ReferenceType string `json:"referenceType,omitempty"`

	Data     *Data           `json:"data,omitempty"`
	Position *unist.Position `json:"position,omitempty"`
}

// Data carries hints for other pipelines. They are not part of the markdown
// semantics of a node.
type Data struct {
	// HName is the HTML tag name the node should be rendered as.
	HName string `json:"hName,omitempty"`
}

// Text returns a text node.
func Text(value string) *Node {
	return &Node{Type: TypeText, Value: value}
}

// Parent returns a node of the given type with children.
func Parent(nodeType string, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Type: nodeType, Children: children}
}

// Root returns a root node with children.
func Root(children ...*Node) *Node {
	return Parent(TypeRoot, children...)
}

// IsParent reports whether the node can hold children.
func (n *Node) IsParent() bool {
	return n.Children != nil
}

// Append adds child as the last child of n.
func (n *Node) Append(child *Node) {
	n.Children = append(n.Children, child)
}

// Last returns the last child of n, or nil.
func (n *Node) Last() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

// ToString returns the plain text content of a node.
func ToString(n *Node) string {
	if n == nil {
		return ""
	}
	switch n.Type {
	case TypeImage:
		return n.Alt
	case TypeText, TypeInlineCode, TypeCode, TypeHTML:
		return n.Value
	}

	var sb strings.Builder
	for _, child := range n.Children {
		sb.WriteString(ToString(child))
	}
	return sb.String()
}

// StripPositions removes position metadata from n and its descendants.
func StripPositions(n *Node) *Node {
	if n == nil {
		return nil
	}
	n.Position = nil
	for _, child := range n.Children {
		StripPositions(child)
	}
	return n
}
