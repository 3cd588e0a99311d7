// Package hast holds the HTML syntax tree consumed by package fromhtml.
package hast

import (
	"strings"

	"github.com/rgonek/mdast-attention/unist"
)

// NodeType identifies the kind of a hast node.
type NodeType string

const (
	RootNode    NodeType = "root"
	ElementNode NodeType = "element"
	TextNode    NodeType = "text"
	CommentNode NodeType = "comment"
)

// Node is a node of an HTML tree.
type Node struct {
	Type       NodeType          `json:"type"`
	TagName    string            `json:"tagName,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Children   []*Node           `json:"children,omitempty"`
	Value      string            `json:"value,omitempty"`
	Position   *unist.Position   `json:"position,omitempty"`
}

// Element returns an element with the given children.
func Element(tagName string, children ...*Node) *Node {
	return &Node{Type: ElementNode, TagName: tagName, Children: children}
}

// Text returns a text node.
func Text(value string) *Node {
	return &Node{Type: TextNode, Value: value}
}

// Property returns the named attribute, or "" when it is not set.
func (n *Node) Property(name string) string {
	if n == nil || n.Properties == nil {
		return ""
	}
	return n.Properties[name]
}

// IsElement reports whether n is an element, and when names are given,
// whether its tag is one of them.
func IsElement(n *Node, names ...string) bool {
	if n == nil || n.Type != ElementNode {
		return false
	}
	if len(names) == 0 {
		return true
	}
	for _, name := range names {
		if strings.EqualFold(n.TagName, name) {
			return true
		}
	}
	return false
}

// ToText returns the concatenated text content of n.
func ToText(n *Node) string {
	var sb strings.Builder
	var walk func(current *Node)
	walk = func(current *Node) {
		switch current.Type {
		case TextNode:
			sb.WriteString(current.Value)
		case ElementNode, RootNode:
			for _, child := range current.Children {
				walk(child)
			}
		}
	}
	if n != nil {
		walk(n)
	}
	return sb.String()
}
