package tomarkdown

import (
	"strings"
	"unicode/utf8"

	"github.com/rgonek/mdast-attention/unist"
)

// Info is what a handler knows about where its output goes: the text
// directly around it and the point it starts at.
type Info struct {
	// Before is text emitted before the node; its last character decides
	// whether the start of the node needs escaping.
	Before string
	// After is text emitted after the node; its first character decides
	// whether the end of the node needs escaping.
	After string
	// Now is the point where the node's output starts.
	Now unist.Point
	// LineShift is the width of the prefix that containers such as block
	// quotes add to every line.
	LineShift int
}

// Around returns a copy of info with Before and After replaced.
func (i Info) Around(before, after string) Info {
	i.Before = before
	i.After = after
	return i
}

// Tracker follows the point reached while output is emitted. It is a value:
// Move returns an advanced copy and leaves the receiver unchanged.
type Tracker struct {
	now       unist.Point
	lineShift int
}

// NewTracker starts tracking at info's point.
func NewTracker(info Info) Tracker {
	now := info.Now
	if now.Line == 0 {
		now.Line = 1
	}
	if now.Column == 0 {
		now.Column = 1
	}
	return Tracker{now: now, lineShift: info.LineShift}
}

// Current returns the tracked point as Info with empty Before and After.
func (t Tracker) Current() Info {
	return Info{Now: t.now, LineShift: t.lineShift}
}

// Shift returns a tracker whose following lines start n columns further in.
func (t Tracker) Shift(n int) Tracker {
	t.lineShift += n
	return t
}

// Move returns a tracker advanced past value.
func (t Tracker) Move(value string) Tracker {
	value = strings.ReplaceAll(value, "\r\n", "\n")
	value = strings.ReplaceAll(value, "\r", "\n")

	lines := strings.Count(value, "\n")
	tail := value[strings.LastIndexByte(value, '\n')+1:]

	if lines == 0 {
		t.now.Column += utf8.RuneCountInString(tail)
		return t
	}

	t.now.Line += lines
	t.now.Column = 1 + utf8.RuneCountInString(tail) + t.lineShift
	return t
}
