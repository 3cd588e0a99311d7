package mdast

var phrasingTypes = map[string]bool{
	TypeText:          true,
	TypeEmphasis:      true,
	TypeStrong:        true,
	TypeDelete:        true,
	TypeInlineCode:    true,
	TypeBreak:         true,
	TypeLink:          true,
	TypeImage:         true,
	TypeLinkReference: true,
	TypeHTML:          true,
}

// IsPhrasing reports whether n is phrasing content. extra lists additional
// node types that count as phrasing, such as attention spans.
func IsPhrasing(n *Node, extra ...string) bool {
	if n == nil {
		return false
	}
	if phrasingTypes[n.Type] {
		return true
	}
	for _, nodeType := range extra {
		if n.Type == nodeType {
			return true
		}
	}
	return false
}

// IsBuiltinType reports whether nodeType is one of the CommonMark or GFM types.
func IsBuiltinType(nodeType string) bool {
	switch nodeType {
	case TypeRoot, TypeParagraph, TypeHeading, TypeThematicBreak, TypeBlockquote,
		TypeList, TypeListItem, TypeCode, TypeDefinition:
		return true
	}
	return phrasingTypes[nodeType]
}
