package unist

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Point is a place in a source document. Line and Column are 1-indexed,
// Offset is a 0-indexed byte offset.
type Point struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Position is the span of source a node was produced from.
type Position struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

func (p Position) String() string {
	return p.Start.String() + "-" + p.End.String()
}

// LineIndex resolves byte offsets of one source into points.
type LineIndex struct {
	source []byte
	starts []int
}

// NewLineIndex indexes the line starts of source. \n, \r\n and \r all end a line.
func NewLineIndex(source []byte) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '\n':
			starts = append(starts, i+1)
		case '\r':
			if i+1 < len(source) && source[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{source: source, starts: starts}
}

// Point returns the point for offset. Offsets outside the source are clamped.
func (idx *LineIndex) Point(offset int) Point {
	if offset < 0 {
		offset = 0
	}
	if offset > len(idx.source) {
		offset = len(idx.source)
	}

	line := sort.Search(len(idx.starts), func(i int) bool {
		return idx.starts[i] > offset
	}) - 1

	return Point{
		Line:   line + 1,
		Column: utf8.RuneCount(idx.source[idx.starts[line]:offset]) + 1,
		Offset: offset,
	}
}

// Position returns the position spanning [start, stop).
func (idx *LineIndex) Position(start, stop int) Position {
	return Position{Start: idx.Point(start), End: idx.Point(stop)}
}
