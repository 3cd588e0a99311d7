package fromhtml

import (
	"strconv"
	"strings"

	"github.com/rgonek/mdast-attention/hast"
	"github.com/rgonek/mdast-attention/mdast"
)

// Base returns the handlers for the HTML elements that have a CommonMark
// equivalent. Elements that carry no content, such as script, map to a nil
// handler and are dropped.
func Base() Handlers {
	return Handlers{
		"p":          handleParagraph,
		"h1":         handleHeading,
		"h2":         handleHeading,
		"h3":         handleHeading,
		"h4":         handleHeading,
		"h5":         handleHeading,
		"h6":         handleHeading,
		"blockquote": handleBlockquote,
		"ul":         handleList,
		"ol":         handleList,
		"li":         handleListItem,
		"pre":        handlePre,
		"code":       handleInlineCode,
		"em":         phrasing(mdast.TypeEmphasis),
		"i":          phrasing(mdast.TypeEmphasis),
		"strong":     phrasing(mdast.TypeStrong),
		"b":          phrasing(mdast.TypeStrong),
		"a":          handleLink,
		"img":        handleImage,
		"br":         void(mdast.TypeBreak),
		"hr":         void(mdast.TypeThematicBreak),
		"script":     nil,
		"style":      nil,
		"head":       nil,
		"template":   nil,
	}
}

// Strikethrough returns the handlers for the elements that map to GFM
// strikethrough.
func Strikethrough() Handlers {
	handle := phrasing(mdast.TypeDelete)
	return Handlers{
		"del":    handle,
		"s":      handle,
		"strike": handle,
	}
}

func one(node *mdast.Node) []*mdast.Node {
	return []*mdast.Node{node}
}

func phrasing(nodeType string) Handle {
	return func(s *State, el *hast.Node) []*mdast.Node {
		node := mdast.Parent(nodeType, s.All(el)...)
		s.Patch(el, node)
		return one(node)
	}
}

func void(nodeType string) Handle {
	return func(s *State, el *hast.Node) []*mdast.Node {
		node := &mdast.Node{Type: nodeType}
		s.Patch(el, node)
		return one(node)
	}
}

func handleParagraph(s *State, el *hast.Node) []*mdast.Node {
	children := trimPhrasing(s.All(el))
	if len(children) == 0 {
		return nil
	}
	node := mdast.Parent(mdast.TypeParagraph, children...)
	s.Patch(el, node)
	return one(node)
}

func handleHeading(s *State, el *hast.Node) []*mdast.Node {
	node := mdast.Parent(mdast.TypeHeading, trimPhrasing(s.All(el))...)
	node.Depth, _ = strconv.Atoi(strings.TrimPrefix(strings.ToLower(el.TagName), "h"))
	s.Patch(el, node)
	return one(node)
}

func handleBlockquote(s *State, el *hast.Node) []*mdast.Node {
	node := mdast.Parent(mdast.TypeBlockquote, s.Wrap(s.All(el))...)
	s.Patch(el, node)
	return one(node)
}

func handleList(s *State, el *hast.Node) []*mdast.Node {
	node := mdast.Parent(mdast.TypeList)
	node.Ordered = hast.IsElement(el, "ol")
	if node.Ordered {
		node.Start = 1
		if start, err := strconv.Atoi(el.Property("start")); err == nil {
			node.Start = start
		}
	}

	var loose []*mdast.Node
	flushLoose := func() {
		if content := s.Wrap(loose); len(content) > 0 {
			node.Append(mdast.Parent(mdast.TypeListItem, content...))
		}
		loose = nil
	}
	for _, child := range el.Children {
		if hast.IsElement(child, "li") {
			flushLoose()
			for _, item := range s.One(child) {
				node.Append(item)
			}
			continue
		}
		loose = append(loose, s.One(child)...)
	}
	flushLoose()

	s.Patch(el, node)
	return one(node)
}

func handleListItem(s *State, el *hast.Node) []*mdast.Node {
	node := mdast.Parent(mdast.TypeListItem, s.Wrap(s.All(el))...)
	s.Patch(el, node)
	return one(node)
}

func handlePre(s *State, el *hast.Node) []*mdast.Node {
	node := &mdast.Node{Type: mdast.TypeCode}

	source := el
	for _, child := range el.Children {
		if hast.IsElement(child, "code") {
			source = child
			break
		}
	}
	for _, class := range strings.Fields(source.Property("class")) {
		if lang, ok := strings.CutPrefix(class, "language-"); ok {
			node.Lang = lang
			break
		}
	}

	node.Value = strings.TrimSuffix(hast.ToText(source), "\n")
	s.Patch(el, node)
	return one(node)
}

func handleInlineCode(s *State, el *hast.Node) []*mdast.Node {
	node := &mdast.Node{Type: mdast.TypeInlineCode, Value: hast.ToText(el)}
	s.Patch(el, node)
	return one(node)
}

func handleLink(s *State, el *hast.Node) []*mdast.Node {
	node := mdast.Parent(mdast.TypeLink, s.All(el)...)
	node.URL = el.Property("href")
	node.Title = el.Property("title")
	s.Patch(el, node)
	return one(node)
}

func handleImage(s *State, el *hast.Node) []*mdast.Node {
	node := &mdast.Node{
		Type:  mdast.TypeImage,
		URL:   el.Property("src"),
		Alt:   el.Property("alt"),
		Title: el.Property("title"),
	}
	s.Patch(el, node)
	return one(node)
}
