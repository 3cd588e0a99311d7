package frommarkdown

// Handle is called for an enter or exit event of one token type.
type Handle func(c *Context, tok Token) error

// Extension adds or overrides token handlers.
type Extension struct {
	// CanContainEols lists node types whose text may contain line endings.
	// Line endings inside other nodes are dropped.
	CanContainEols []string
	Enter          map[string]Handle
	Exit           map[string]Handle
}

type handlers struct {
	canContainEols map[string]bool
	enter          map[string]Handle
	exit           map[string]Handle
}

// merge folds extensions in order; later handlers replace earlier ones and
// CanContainEols accumulate.
func merge(extensions []Extension) handlers {
	merged := handlers{
		canContainEols: make(map[string]bool),
		enter:          make(map[string]Handle),
		exit:           make(map[string]Handle),
	}

	for _, ext := range extensions {
		for _, nodeType := range ext.CanContainEols {
			merged.canContainEols[nodeType] = true
		}
		for tokenType, handle := range ext.Enter {
			merged.enter[tokenType] = handle
		}
		for tokenType, handle := range ext.Exit {
			merged.exit[tokenType] = handle
		}
	}

	return merged
}
