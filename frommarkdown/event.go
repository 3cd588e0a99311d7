package frommarkdown

import "github.com/rgonek/mdast-attention/unist"

// EventKind says whether a token opens or closes.
type EventKind int

const (
	EventEnter EventKind = iota
	EventExit
)

func (k EventKind) String() string {
	if k == EventExit {
		return "exit"
	}
	return "enter"
}

// Token types emitted by the tokenizer for CommonMark and GFM constructs.
// Extensions add their own token types.
const (
	TokenParagraph     = "paragraph"
	TokenHeading       = "heading"
	TokenThematicBreak = "thematicBreak"
	TokenBlockquote    = "blockquote"
	TokenList          = "list"
	TokenListItem      = "listItem"
	TokenCode          = "code"
	TokenHTML          = "html"
	TokenText          = "text"
	TokenLineEnding    = "lineEnding"
	TokenEmphasis      = "emphasis"
	TokenStrong        = "strong"
	TokenDelete        = "delete"
	TokenInlineCode    = "inlineCode"
	TokenBreak         = "break"
	TokenLink          = "link"
	TokenImage         = "image"
)

// Token is a span of source recognized by the tokenizer. Only the fields
// meaningful for Type are set.
type Token struct {
	Type  string
	Start unist.Point
	End   unist.Point

	Value   string
	Depth   int
	Ordered bool
	Spread  bool
	Begin   int
	Lang    string
	Meta    string
	URL     string
	Title   string
	Alt     string
}

// Event is one enter or exit signal for a token.
type Event struct {
	Kind  EventKind
	Token Token
}

// Enter returns an enter event for tok.
func Enter(tok Token) Event {
	return Event{Kind: EventEnter, Token: tok}
}

// Exit returns an exit event for tok.
func Exit(tok Token) Event {
	return Event{Kind: EventExit, Token: tok}
}
