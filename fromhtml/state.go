package fromhtml

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rgonek/mdast-attention/hast"
	"github.com/rgonek/mdast-attention/mdast"
	"github.com/rgonek/mdast-attention/unist"
)

// Handle turns one element into mdast nodes. It may return nothing, one
// node, or the converted children of el.
type Handle func(s *State, el *hast.Node) []*mdast.Node

// Handlers maps lower-case tag names to handlers.
type Handlers map[string]Handle

// State is the state of one conversion.
type State struct {
	handlers Handlers
	phrasing []string
	warned   map[string]bool
	warnings []unist.Warning
	inPre    bool
}

// All converts the children of parent.
func (s *State) All(parent *hast.Node) []*mdast.Node {
	var nodes []*mdast.Node
	for _, child := range parent.Children {
		nodes = append(nodes, s.One(child)...)
	}
	return mergeText(nodes)
}

// One converts a single node.
func (s *State) One(node *hast.Node) []*mdast.Node {
	switch node.Type {
	case hast.TextNode:
		return s.text(node)
	case hast.ElementNode:
		handle, ok := s.handlers[strings.ToLower(node.TagName)]
		if ok {
			if handle == nil {
				return nil
			}
			return handle(s, node)
		}
		s.warnOnce(node.TagName)
		return s.All(node)
	case hast.RootNode:
		return s.All(node)
	default:
		return nil
	}
}

// Patch copies the position of from onto to.
func (s *State) Patch(from *hast.Node, to *mdast.Node) {
	if from == nil || from.Position == nil {
		return
	}
	position := *from.Position
	to.Position = &position
}

// IsPhrasing reports whether node is phrasing content, counting the extra
// phrasing types the converter was configured with.
func (s *State) IsPhrasing(node *mdast.Node) bool {
	return mdast.IsPhrasing(node, s.phrasing...)
}

// Wrap groups runs of phrasing nodes into paragraphs so that nodes can be
// used where flow content is expected. Runs of only whitespace are dropped.
func (s *State) Wrap(nodes []*mdast.Node) []*mdast.Node {
	var flow, run []*mdast.Node
	flush := func() {
		run = trimPhrasing(run)
		if len(run) > 0 {
			paragraph := mdast.Parent(mdast.TypeParagraph, run...)
			paragraph.Position = spanning(run)
			flow = append(flow, paragraph)
		}
		run = nil
	}

	for _, node := range nodes {
		if s.IsPhrasing(node) {
			run = append(run, node)
			continue
		}
		flush()
		flow = append(flow, node)
	}
	flush()

	if flow == nil {
		flow = []*mdast.Node{}
	}
	return flow
}

// AddWarning records a non-fatal issue.
func (s *State) AddWarning(warnType unist.WarningType, nodeType, message string) {
	s.warnings = append(s.warnings, unist.Warning{
		Type:     warnType,
		NodeType: nodeType,
		Message:  message,
	})
}

func (s *State) warnOnce(tagName string) {
	if s.warned[tagName] {
		return
	}
	if s.warned == nil {
		s.warned = make(map[string]bool)
	}
	s.warned[tagName] = true
	s.AddWarning(unist.WarningUnknownNode, tagName, fmt.Sprintf("unknown element passed through: %s", tagName))
}

var whitespaceRun = regexp.MustCompile(`[ \t\n\r\f]+`)

func (s *State) text(node *hast.Node) []*mdast.Node {
	value := node.Value
	if !s.inPre {
		value = whitespaceRun.ReplaceAllString(value, " ")
	}
	if value == "" {
		return nil
	}

	text := mdast.Text(value)
	s.Patch(node, text)
	return []*mdast.Node{text}
}

// mergeText joins adjacent text nodes.
func mergeText(nodes []*mdast.Node) []*mdast.Node {
	var merged []*mdast.Node
	for _, node := range nodes {
		if n := len(merged); n > 0 && node.Type == mdast.TypeText && merged[n-1].Type == mdast.TypeText {
			last := merged[n-1]
			last.Value += node.Value
			if last.Position != nil && node.Position != nil {
				last.Position.End = node.Position.End
			}
			continue
		}
		merged = append(merged, node)
	}
	return merged
}

// trimPhrasing strips whitespace at the edges of a phrasing run and around
// hard breaks, dropping text nodes left empty.
func trimPhrasing(nodes []*mdast.Node) []*mdast.Node {
	for index, node := range nodes {
		if node.Type != mdast.TypeText {
			continue
		}
		if index == 0 || nodes[index-1].Type == mdast.TypeBreak {
			node.Value = strings.TrimLeft(node.Value, " ")
		}
		if index == len(nodes)-1 || nodes[index+1].Type == mdast.TypeBreak {
			node.Value = strings.TrimRight(node.Value, " ")
		}
	}

	trimmed := nodes[:0]
	for _, node := range nodes {
		if node.Type == mdast.TypeText && node.Value == "" {
			continue
		}
		trimmed = append(trimmed, node)
	}
	return trimmed
}

func spanning(nodes []*mdast.Node) *unist.Position {
	first, last := nodes[0].Position, nodes[len(nodes)-1].Position
	if first == nil || last == nil {
		return nil
	}
	return &unist.Position{Start: first.Start, End: last.End}
}
