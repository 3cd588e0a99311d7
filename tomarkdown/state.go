package tomarkdown

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/rgonek/mdast-attention/mdast"
	"github.com/rgonek/mdast-attention/unist"
)

// State is the state of one serialization. Handlers receive it to recurse
// into children and to escape text.
type State struct {
	config   Config
	handlers map[string]Handler
	unsafe   []compiledUnsafe
	stack    []string
	warnings []unist.Warning
}

// Enter pushes construct onto the construct stack and returns the function
// that pops it.
func (s *State) Enter(construct string) func() {
	s.stack = append(s.stack, construct)
	return func() {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// Stack returns a copy of the construct stack, outermost first.
func (s *State) Stack() []string {
	return append([]string(nil), s.stack...)
}

// Options returns the serializer configuration.
func (s *State) Options() Config {
	return s.config
}

// AddWarning records a non-fatal issue.
func (s *State) AddWarning(warnType unist.WarningType, nodeType, message string) {
	s.warnings = append(s.warnings, unist.Warning{
		Type:     warnType,
		NodeType: nodeType,
		Message:  message,
	})
}

// Handle serializes node with the handler registered for its type.
func (s *State) Handle(node, parent *mdast.Node, info Info) (string, error) {
	handler, ok := s.handlers[node.Type]
	if ok && handler.Handle != nil {
		return handler.Handle(node, parent, s, info)
	}
	return s.handleUnknown(node, info)
}

// Peek returns the start of node's output. It uses the handler's Peek when
// there is one and serializes the node otherwise.
func (s *State) Peek(node, parent *mdast.Node, info Info) string {
	handler, ok := s.handlers[node.Type]
	if !ok || handler.Handle == nil {
		return ""
	}
	if handler.Peek != nil {
		return handler.Peek(node, parent, s, info)
	}

	warnings := len(s.warnings)
	value, err := handler.Handle(node, parent, s, info)
	s.warnings = s.warnings[:warnings]
	if err != nil {
		return ""
	}
	return value
}

func (s *State) handleUnknown(node *mdast.Node, info Info) (string, error) {
	switch s.config.UnknownNodes {
	case UnknownError:
		return "", fmt.Errorf("%w: %s", ErrUnknownNode, node.Type)
	case UnknownSkip:
		s.AddWarning(unist.WarningUnknownNode, node.Type, fmt.Sprintf("unknown node skipped: %s", node.Type))
		return "", nil
	default:
		s.AddWarning(unist.WarningUnknownNode, node.Type, fmt.Sprintf("unknown node serialized as its content: %s", node.Type))
		if node.IsParent() {
			return s.ContainerPhrasing(node, info)
		}
		return s.Safe(node.Value, info), nil
	}
}

// ContainerPhrasing serializes the phrasing children of parent. Each child
// learns the character emitted right before it and the first character the
// next sibling will emit.
func (s *State) ContainerPhrasing(parent *mdast.Node, info Info) (string, error) {
	tracker := NewTracker(info)
	before := info.Before
	children := parent.Children

	var sb strings.Builder
	for index, child := range children {
		after := info.After
		if index+1 < len(children) {
			peeked := s.Peek(children[index+1], parent, tracker.Current())
			after = firstRune(peeked)
		}

		value, err := s.Handle(child, parent, tracker.Current().Around(before, after))
		if err != nil {
			return "", err
		}

		sb.WriteString(value)
		tracker = tracker.Move(value)
		before = lastRune(value)
	}

	return sb.String(), nil
}

// ContainerFlow serializes the block children of parent, separated by a
// blank line, or a single line break inside tight lists.
func (s *State) ContainerFlow(parent *mdast.Node, info Info) (string, error) {
	tracker := NewTracker(info)
	join := "\n\n"
	if (parent.Type == mdast.TypeList || parent.Type == mdast.TypeListItem) && !parent.Spread {
		join = "\n"
	}

	var sb strings.Builder
	for index, child := range parent.Children {
		if index > 0 {
			sb.WriteString(join)
			tracker = tracker.Move(join)
		}

		value, err := s.Handle(child, parent, tracker.Current().Around("\n", "\n"))
		if err != nil {
			return "", err
		}

		sb.WriteString(value)
		tracker = tracker.Move(value)
	}

	return sb.String(), nil
}

type escapeInfo struct {
	before bool
	after  bool
}

// Safe escapes the characters of input that would otherwise be read as
// markup, given the text around it and the current construct stack.
// ASCII punctuation is escaped with a backslash, anything else with a
// numeric character reference.
func (s *State) Safe(input string, info Info) string {
	value := info.Before + input + info.After

	var positions []int
	infos := make(map[int]*escapeInfo)

	for _, pattern := range s.unsafe {
		if !patternInScope(s.stack, pattern.Unsafe) {
			continue
		}

		before := pattern.hasBefore
		after := pattern.After != ""
		for _, match := range pattern.expression.FindAllStringSubmatchIndex(value, -1) {
			position := match[0]
			if before {
				position = match[3]
			}

			if existing, ok := infos[position]; ok {
				if existing.before && !before {
					existing.before = false
				}
				if existing.after && !after {
					existing.after = false
				}
				continue
			}

			positions = append(positions, position)
			infos[position] = &escapeInfo{before: before, after: after}
		}
	}

	sort.Ints(positions)

	start := len(info.Before)
	end := len(value) - len(info.After)
	last := start

	var sb strings.Builder
	for index, position := range positions {
		if position < start || position >= end {
			continue
		}

		// A character that only needs escaping because of its neighbour is
		// left alone when that neighbour gets escaped anyway.
		if index+1 < len(positions) && positions[index+1] == position+1 &&
			infos[position].after && !infos[position+1].before && !infos[position+1].after {
			continue
		}
		if index > 0 && positions[index-1] == position-1 &&
			infos[position].before && !infos[position-1].before && !infos[position-1].after {
			continue
		}

		if last != position {
			sb.WriteString(escapeBackslashes(value[last:position], `\`))
		}
		last = position

		r, size := utf8.DecodeRuneInString(value[position:])
		if isASCIIPunctuation(r) {
			sb.WriteByte('\\')
			continue
		}

		sb.WriteString(characterReference(r))
		last += size
	}

	sb.WriteString(escapeBackslashes(value[last:end], info.After))
	return sb.String()
}

// inScope reports whether any unsafe pattern for character applies in the
// current construct stack.
func (s *State) inScope(character rune) bool {
	for _, pattern := range s.unsafe {
		if pattern.Character == character && patternInScope(s.stack, pattern.Unsafe) {
			return true
		}
	}
	return false
}

func (s *State) swapStack(stack []string) []string {
	previous := s.stack
	s.stack = stack
	return previous
}

// escapeBackslashes doubles backslashes that would otherwise escape the
// punctuation following them.
func escapeBackslashes(value, after string) string {
	whole := value + after

	var sb strings.Builder
	start := 0
	for index := 0; index < len(value); index++ {
		if value[index] != '\\' || index+1 >= len(whole) || !isASCIIPunctuation(rune(whole[index+1])) {
			continue
		}
		sb.WriteString(value[start:index])
		sb.WriteByte('\\')
		start = index
	}
	sb.WriteString(value[start:])

	return sb.String()
}

func isASCIIPunctuation(r rune) bool {
	return (r >= '!' && r <= '/') || (r >= ':' && r <= '@') || (r >= '[' && r <= '`') || (r >= '{' && r <= '~')
}

func characterReference(r rune) string {
	return fmt.Sprintf("&#x%X;", r)
}

func firstRune(value string) string {
	if value == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(value)
	return value[:size]
}

func lastRune(value string) string {
	if value == "" {
		return ""
	}
	_, size := utf8.DecodeLastRuneInString(value)
	return value[len(value)-size:]
}
