package mdast

import (
	"testing"

	"github.com/rgonek/mdast-attention/unist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToString(t *testing.T) {
	tree := Root(
		Parent(TypeParagraph,
			Text("a "),
			Parent(TypeEmphasis, Text("b")),
			&Node{Type: TypeInlineCode, Value: "c"},
			&Node{Type: TypeImage, Alt: "d"},
			Parent("sub", Text("e")),
		),
	)

	assert.Equal(t, "a bcde", ToString(tree))
	assert.Equal(t, "", ToString(nil))
}

func TestParentAlwaysHasChildrenSlice(t *testing.T) {
	node := Parent("sup")
	require.NotNil(t, node.Children)
	assert.True(t, node.IsParent())
	assert.Nil(t, node.Last())

	node.Append(Text("x"))
	assert.Equal(t, "x", node.Last().Value)
	assert.False(t, Text("y").IsParent())
}

func TestIsPhrasing(t *testing.T) {
	assert.True(t, IsPhrasing(Text("x")))
	assert.True(t, IsPhrasing(Parent(TypeLink)))
	assert.False(t, IsPhrasing(Parent(TypeParagraph)))
	assert.False(t, IsPhrasing(Parent("sub")))
	assert.True(t, IsPhrasing(Parent("sub"), "sup", "sub"))
	assert.False(t, IsPhrasing(nil))
}

func TestIsBuiltinType(t *testing.T) {
	assert.True(t, IsBuiltinType(TypeRoot))
	assert.True(t, IsBuiltinType(TypeText))
	assert.False(t, IsBuiltinType("sub"))
}

func TestStripPositions(t *testing.T) {
	pos := &unist.Position{Start: unist.Point{Line: 1, Column: 1}}
	tree := Root(&Node{Type: TypeText, Value: "x", Position: pos})
	tree.Position = pos

	StripPositions(tree)
	assert.Nil(t, tree.Position)
	assert.Nil(t, tree.Children[0].Position)
}
