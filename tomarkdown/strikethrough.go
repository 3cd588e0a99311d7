package tomarkdown

import "github.com/rgonek/mdast-attention/mdast"

// Strikethrough returns the handler and unsafe pattern for GFM strikethrough.
func Strikethrough() Extension {
	return Extension{
		Unsafe: []Unsafe{
			{Character: '~', InConstruct: inPhrasing, NotInConstruct: fullPhrasingSpans},
		},
		Handlers: map[string]Handler{
			mdast.TypeDelete: {Handle: handleDelete, Peek: peekDelete},
		},
	}
}

func handleDelete(node, _ *mdast.Node, s *State, info Info) (string, error) {
	return wrapPhrasing(node, s, info, ConstructStrikethrough, "~~")
}

func peekDelete(_, _ *mdast.Node, _ *State, _ Info) string {
	return "~"
}
