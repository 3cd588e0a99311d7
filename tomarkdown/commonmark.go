package tomarkdown

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rgonek/mdast-attention/mdast"
)

// CommonMark returns the handlers for CommonMark nodes. Serializers always
// start from it.
func CommonMark() Extension {
	return Extension{
		Unsafe: commonMarkUnsafe,
		Handlers: map[string]Handler{
			mdast.TypeRoot:          {Handle: handleRoot},
			mdast.TypeParagraph:     {Handle: handleParagraph},
			mdast.TypeHeading:       {Handle: handleHeading, Peek: peekHeading},
			mdast.TypeThematicBreak: {Handle: handleThematicBreak},
			mdast.TypeBlockquote:    {Handle: handleBlockquote},
			mdast.TypeList:          {Handle: handleList},
			mdast.TypeListItem:      {Handle: handleListItem},
			mdast.TypeCode:          {Handle: handleCode},
			mdast.TypeHTML:          {Handle: handleHTML, Peek: peekHTML},
			mdast.TypeDefinition:    {Handle: handleDefinition},
			mdast.TypeText:          {Handle: handleText},
			mdast.TypeEmphasis:      {Handle: handleEmphasis, Peek: peekEmphasis},
			mdast.TypeStrong:        {Handle: handleStrong, Peek: peekStrong},
			mdast.TypeInlineCode:    {Handle: handleInlineCode, Peek: peekInlineCode},
			mdast.TypeBreak:         {Handle: handleBreak},
			mdast.TypeLink:          {Handle: handleLink, Peek: peekLink},
			mdast.TypeImage:         {Handle: handleImage, Peek: peekImage},
			mdast.TypeLinkReference: {Handle: handleLinkReference, Peek: peekLinkReference},
		},
	}
}

func handleRoot(node, _ *mdast.Node, s *State, info Info) (string, error) {
	for _, child := range node.Children {
		if mdast.IsPhrasing(child) {
			return s.ContainerPhrasing(node, info)
		}
	}
	return s.ContainerFlow(node, info)
}

func handleParagraph(node, _ *mdast.Node, s *State, info Info) (string, error) {
	exit := s.Enter(ConstructParagraph)
	subexit := s.Enter(ConstructPhrasing)
	value, err := s.ContainerPhrasing(node, info)
	subexit()
	exit()
	return value, err
}

var leadingSpaceOrTab = regexp.MustCompile(`^[\t ]`)

func handleHeading(node, _ *mdast.Node, s *State, info Info) (string, error) {
	depth := min(max(node.Depth, 1), 6)
	sequence := strings.Repeat("#", depth)

	exit := s.Enter(ConstructHeadingAtx)
	subexit := s.Enter(ConstructPhrasing)
	tracker := NewTracker(info).Move(sequence + " ")
	value, err := s.ContainerPhrasing(node, tracker.Current().Around("# ", "\n"))
	subexit()
	exit()
	if err != nil {
		return "", err
	}

	if leadingSpaceOrTab.MatchString(value) {
		value = characterReference(rune(value[0])) + value[1:]
	}
	if value == "" {
		return sequence, nil
	}
	return sequence + " " + value, nil
}

func peekHeading(node, _ *mdast.Node, _ *State, _ Info) string {
	return "#"
}

func handleThematicBreak(_, _ *mdast.Node, _ *State, _ Info) (string, error) {
	return "***", nil
}

func handleBlockquote(node, _ *mdast.Node, s *State, info Info) (string, error) {
	exit := s.Enter(ConstructBlockquote)
	tracker := NewTracker(info).Move("> ").Shift(2)
	value, err := s.ContainerFlow(node, tracker.Current())
	exit()
	if err != nil {
		return "", err
	}

	return indentLines(value, func(line string, _ int, blank bool) string {
		if blank {
			return ">"
		}
		return "> " + line
	}), nil
}

func handleList(node, _ *mdast.Node, s *State, info Info) (string, error) {
	exit := s.Enter(ConstructList)
	value, err := s.ContainerFlow(node, info)
	exit()
	return value, err
}

func handleListItem(node, parent *mdast.Node, s *State, info Info) (string, error) {
	marker := string(s.config.Bullet)
	if parent != nil && parent.Type == mdast.TypeList && parent.Ordered {
		marker = strconv.Itoa(parent.Start+indexOf(parent, node)) + "."
	}
	size := len(marker) + 1

	exit := s.Enter(ConstructListItem)
	tracker := NewTracker(info).Move(marker + " ").Shift(size)
	value, err := s.ContainerFlow(node, tracker.Current())
	exit()
	if err != nil {
		return "", err
	}

	indent := strings.Repeat(" ", size)
	return indentLines(value, func(line string, index int, blank bool) string {
		if index == 0 {
			if blank {
				return marker
			}
			return marker + " " + line
		}
		if blank {
			return ""
		}
		return indent + line
	}), nil
}

func handleCode(node, _ *mdast.Node, s *State, info Info) (string, error) {
	fence := strings.Repeat("`", max(3, longestRun(node.Value, '`')+1))

	exit := s.Enter(ConstructCodeFenced)
	defer exit()

	tracker := NewTracker(info).Move(fence)
	value := fence
	if node.Lang != "" {
		subexit := s.Enter(ConstructCodeFencedLangGraveAccent)
		lang := s.Safe(node.Lang, tracker.Current().Around(value, " "))
		value += lang
		tracker = tracker.Move(lang)
		subexit()
	}
	if node.Lang != "" && node.Meta != "" {
		subexit := s.Enter(ConstructCodeFencedMetaGraveAccent)
		value += " " + s.Safe(node.Meta, tracker.Move(" ").Current().Around(value+" ", "\n"))
		subexit()
	}

	value += "\n"
	if node.Value != "" {
		value += node.Value + "\n"
	}
	return value + fence, nil
}

func handleHTML(node, _ *mdast.Node, _ *State, _ Info) (string, error) {
	return node.Value, nil
}

func peekHTML(_, _ *mdast.Node, _ *State, _ Info) string {
	return "<"
}

func handleText(node, _ *mdast.Node, s *State, info Info) (string, error) {
	return s.Safe(node.Value, info), nil
}

func handleEmphasis(node, _ *mdast.Node, s *State, info Info) (string, error) {
	marker := string(s.config.Emphasis)
	return wrapPhrasing(node, s, info, ConstructEmphasis, marker)
}

func peekEmphasis(_, _ *mdast.Node, s *State, _ Info) string {
	return string(s.config.Emphasis)
}

func handleStrong(node, _ *mdast.Node, s *State, info Info) (string, error) {
	marker := strings.Repeat(string(s.config.Strong), 2)
	return wrapPhrasing(node, s, info, ConstructStrong, marker)
}

func peekStrong(_, _ *mdast.Node, s *State, _ Info) string {
	return string(s.config.Strong)
}

// wrapPhrasing emits the children of node between two copies of marker
// inside construct.
func wrapPhrasing(node *mdast.Node, s *State, info Info, construct, marker string) (string, error) {
	exit := s.Enter(construct)
	tracker := NewTracker(info).Move(marker)
	inner, err := s.ContainerPhrasing(node, tracker.Current().Around(marker, marker))
	exit()
	if err != nil {
		return "", err
	}
	return marker + inner + marker, nil
}

func handleInlineCode(node, _ *mdast.Node, _ *State, _ Info) (string, error) {
	value := node.Value
	sequence := strings.Repeat("`", longestRun(value, '`')+1)

	if strings.HasPrefix(value, "`") || strings.HasSuffix(value, "`") ||
		(strings.TrimLeft(value, " \r\n") != value && strings.TrimRight(value, " \r\n") != value && strings.TrimSpace(value) != "") {
		value = " " + value + " "
	}

	return sequence + value + sequence, nil
}

func peekInlineCode(_, _ *mdast.Node, _ *State, _ Info) string {
	return "`"
}

func handleBreak(_, _ *mdast.Node, s *State, _ Info) (string, error) {
	if s.inScope('\n') {
		return " ", nil
	}
	return "\\\n", nil
}

var (
	autolinkScheme   = regexp.MustCompile(`(?i)^[a-z][a-z+.-]+:`)
	autolinkInvalid  = regexp.MustCompile("[\x00- <>\x7f]")
	destinationSpace = regexp.MustCompile("[\x00- \x7f]")
)

func formatLinkAsAutolink(node *mdast.Node) bool {
	if node.URL == "" || node.Title != "" || len(node.Children) != 1 || node.Children[0].Type != mdast.TypeText {
		return false
	}
	text := mdast.ToString(node)
	if text != node.URL && "mailto:"+text != node.URL {
		return false
	}
	return autolinkScheme.MatchString(node.URL) && !autolinkInvalid.MatchString(node.URL)
}

func handleLink(node, _ *mdast.Node, s *State, info Info) (string, error) {
	tracker := NewTracker(info)

	if formatLinkAsAutolink(node) {
		exit := s.Enter(ConstructAutolink)
		tracker = tracker.Move("<")
		inner, err := s.ContainerPhrasing(node, tracker.Current().Around("<", ">"))
		exit()
		if err != nil {
			return "", err
		}
		return "<" + inner + ">", nil
	}

	exit := s.Enter(ConstructLink)
	defer exit()

	subexit := s.Enter(ConstructLabel)
	value := "["
	tracker = tracker.Move(value)
	label, err := s.ContainerPhrasing(node, tracker.Current().Around(value, "]("))
	subexit()
	if err != nil {
		return "", err
	}
	value += label + "]("
	tracker = tracker.Move(label + "](")

	return value + destinationAndTitle(node.URL, node.Title, ")", s, tracker, value) + ")", nil
}

func peekLink(node, _ *mdast.Node, _ *State, _ Info) string {
	if formatLinkAsAutolink(node) {
		return "<"
	}
	return "["
}

// destinationAndTitle emits a link destination and optional title. end is
// the text that follows them.
func destinationAndTitle(url, title, end string, s *State, tracker Tracker, before string) string {
	var value string
	if (url == "" && title != "") || destinationSpace.MatchString(url) {
		subexit := s.Enter(ConstructDestinationLiteral)
		value = "<" + s.Safe(url, tracker.Move("<").Current().Around(before+"<", ">")) + ">"
		subexit()
	} else {
		after := end
		if title != "" {
			after = " "
		}
		subexit := s.Enter(ConstructDestinationRaw)
		value = s.Safe(url, tracker.Current().Around(before, after))
		subexit()
	}

	if title == "" {
		return value
	}

	tracker = tracker.Move(value + " \"")
	subexit := s.Enter(ConstructTitleQuote)
	value += " \"" + s.Safe(title, tracker.Current().Around(before+value+" \"", "\"")) + "\""
	subexit()
	return value
}

func handleImage(node, _ *mdast.Node, s *State, info Info) (string, error) {
	exit := s.Enter(ConstructImage)
	defer exit()

	tracker := NewTracker(info)
	subexit := s.Enter(ConstructLabel)
	value := "!["
	tracker = tracker.Move(value)
	alt := s.Safe(node.Alt, tracker.Current().Around(value, "]"))
	subexit()

	value += alt + "]("
	tracker = tracker.Move(alt + "](")
	return value + destinationAndTitle(node.URL, node.Title, ")", s, tracker, value) + ")", nil
}

func peekImage(_, _ *mdast.Node, _ *State, _ Info) string {
	return "!"
}

func handleLinkReference(node, _ *mdast.Node, s *State, info Info) (string, error) {
	exit := s.Enter(ConstructLinkReference)
	defer exit()

	tracker := NewTracker(info)
	subexit := s.Enter(ConstructLabel)
	value := "["
	tracker = tracker.Move(value)
	text, err := s.ContainerPhrasing(node, tracker.Current().Around(value, "]"))
	subexit()
	if err != nil {
		return "", err
	}
	value += text + "]["
	tracker = tracker.Move(text + "][")

	// The reference is escaped on its own: nothing around it is phrasing.
	stack := s.swapStack(nil)
	subexit = s.Enter(ConstructReference)
	reference := s.Safe(associationID(node), tracker.Current().Around(value, "]"))
	subexit()
	s.swapStack(stack)

	switch {
	case node.ReferenceType == "" || node.ReferenceType == "full" || text == "" || text != reference:
		return value + reference + "]", nil
	case node.ReferenceType == "shortcut":
		return value[:len(value)-1], nil
	default:
		return value + "]", nil
	}
}

func peekLinkReference(_, _ *mdast.Node, _ *State, _ Info) string {
	return "["
}

func handleDefinition(node, _ *mdast.Node, s *State, info Info) (string, error) {
	exit := s.Enter(ConstructDefinition)
	defer exit()

	tracker := NewTracker(info)
	subexit := s.Enter(ConstructLabel)
	value := "["
	tracker = tracker.Move(value)
	label := s.Safe(associationID(node), tracker.Current().Around(value, "]"))
	subexit()

	value += label + "]: "
	tracker = tracker.Move(label + "]: ")
	return value + destinationAndTitle(node.URL, node.Title, "\n", s, tracker, value), nil
}

func associationID(node *mdast.Node) string {
	if node.Label != "" {
		return node.Label
	}
	return mdast.ToString(node)
}

// indentLines rewrites every line of value with fn.
func indentLines(value string, fn func(line string, index int, blank bool) string) string {
	lines := strings.Split(value, "\n")
	for index, line := range lines {
		lines[index] = fn(line, index, line == "")
	}
	return strings.Join(lines, "\n")
}

func indexOf(parent, node *mdast.Node) int {
	for index, child := range parent.Children {
		if child == node {
			return index
		}
	}
	return 0
}

func longestRun(value string, char byte) int {
	longest, current := 0, 0
	for index := 0; index < len(value); index++ {
		if value[index] != char {
			current = 0
			continue
		}
		current++
		longest = max(longest, current)
	}
	return longest
}
