package tokenizer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgonek/mdast-attention/frommarkdown"
	"github.com/rgonek/mdast-attention/unist"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"
)

type walker struct {
	source   []byte
	index    *unist.LineIndex
	events   []frommarkdown.Event
	warnings []unist.Warning
	warned   map[string]bool
	// cursor is the end of the last span seen; nodes without source
	// segments are placed there.
	cursor int
}

func (w *walker) token(tokenType string, start, stop int) frommarkdown.Token {
	position := w.index.Position(start, stop)
	if stop > w.cursor {
		w.cursor = stop
	}
	return frommarkdown.Token{
		Type:  tokenType,
		Start: position.Start,
		End:   position.End,
	}
}

// emit writes enter and exit events for tok around the events written by
// children.
func (w *walker) emit(tok frommarkdown.Token, children func()) {
	w.events = append(w.events, frommarkdown.Enter(tok))
	if children != nil {
		children()
	}
	w.events = append(w.events, frommarkdown.Exit(tok))
}

func (w *walker) walkBlocks(parent ast.Node) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		w.walkBlock(child)
	}
}

func (w *walker) walkBlock(node ast.Node) {
	start, stop := w.span(node)

	switch typed := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		// Link reference definitions leave their paragraph behind without
		// lines or children.
		if lines := node.Lines(); (lines == nil || lines.Len() == 0) && !node.HasChildren() {
			return
		}
		w.emit(w.token(frommarkdown.TokenParagraph, start, stop), func() { w.walkInlines(node) })

	case *ast.Heading:
		tok := w.token(frommarkdown.TokenHeading, start, stop)
		tok.Depth = typed.Level
		w.emit(tok, func() { w.walkInlines(node) })

	case *ast.ThematicBreak:
		w.emit(w.token(frommarkdown.TokenThematicBreak, start, stop), nil)

	case *ast.Blockquote:
		w.emit(w.token(frommarkdown.TokenBlockquote, start, stop), func() { w.walkBlocks(node) })

	case *ast.List:
		tok := w.token(frommarkdown.TokenList, start, stop)
		tok.Ordered = typed.IsOrdered()
		tok.Begin = typed.Start
		tok.Spread = !typed.IsTight
		w.emit(tok, func() { w.walkBlocks(node) })

	case *ast.ListItem:
		tok := w.token(frommarkdown.TokenListItem, start, stop)
		if list, ok := node.Parent().(*ast.List); ok {
			tok.Spread = !list.IsTight
		}
		w.emit(tok, func() { w.walkBlocks(node) })

	case *ast.FencedCodeBlock:
		tok := w.token(frommarkdown.TokenCode, start, stop)
		tok.Value = w.linesValue(node)
		tok.Lang = string(typed.Language(w.source))
		if typed.Info != nil {
			info := bytes.TrimSpace(typed.Info.Segment.Value(w.source))
			if _, meta, ok := bytes.Cut(info, []byte(" ")); ok {
				tok.Meta = string(bytes.TrimSpace(meta))
			}
		}
		w.emit(tok, nil)

	case *ast.CodeBlock:
		tok := w.token(frommarkdown.TokenCode, start, stop)
		tok.Value = w.linesValue(node)
		w.emit(tok, nil)

	case *ast.HTMLBlock:
		value := w.linesValue(node)
		if typed.HasClosure() {
			if value != "" {
				value += "\n"
			}
			value += string(trimEOL(typed.ClosureLine.Value(w.source)))
		}
		tok := w.token(frommarkdown.TokenHTML, start, stop)
		tok.Value = value
		w.emit(tok, nil)

	default:
		w.warnUnknown(node)
		if node.HasChildren() {
			w.walkBlocks(node)
		}
	}
}

func (w *walker) walkInlines(parent ast.Node) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		w.walkInline(child)
	}
}

func (w *walker) walkInline(node ast.Node) {
	switch typed := node.(type) {
	case *ast.Text:
		start, stop := typed.Segment.Start, typed.Segment.Stop
		tok := w.token(frommarkdown.TokenText, start, stop)
		tok.Value = unescape(typed.Segment.Value(w.source))
		if tok.Value != "" {
			w.emit(tok, nil)
		}
		switch {
		case typed.HardLineBreak():
			w.emit(w.token(frommarkdown.TokenBreak, stop, w.lineEnd(stop)), nil)
		case typed.SoftLineBreak():
			tok := w.token(frommarkdown.TokenLineEnding, stop, w.lineEnd(stop))
			tok.Value = "\n"
			w.emit(tok, nil)
		}

	case *ast.String:
		tok := w.token(frommarkdown.TokenText, w.cursor, w.cursor)
		tok.Value = string(typed.Value)
		w.emit(tok, nil)

	case *ast.CodeSpan:
		start, stop := w.expand(node, '`')
		tok := w.token(frommarkdown.TokenInlineCode, start, stop)
		tok.Value = w.codeSpanValue(typed)
		w.emit(tok, nil)

	case *ast.Emphasis:
		tokenType := frommarkdown.TokenEmphasis
		if typed.Level >= 2 {
			tokenType = frommarkdown.TokenStrong
		}
		start, stop := w.span(node)
		start, stop = w.widen(start, stop, typed.Level)
		w.emit(w.token(tokenType, start, stop), func() { w.walkInlines(node) })

	case *extast.Strikethrough:
		start, stop := w.expand(node, '~')
		w.emit(w.token(frommarkdown.TokenDelete, start, stop), func() { w.walkInlines(node) })

	case *Attention:
		start, stop := w.span(node)
		start, stop = w.widen(start, stop, 1)
		w.emit(w.token(typed.Name, start, stop), func() { w.walkInlines(node) })

	case *ast.Link:
		start, stop := w.span(node)
		tok := w.token(frommarkdown.TokenLink, start, stop)
		tok.URL = string(typed.Destination)
		tok.Title = string(typed.Title)
		w.emit(tok, func() { w.walkInlines(node) })

	case *ast.Image:
		start, stop := w.span(node)
		tok := w.token(frommarkdown.TokenImage, start, stop)
		tok.URL = string(typed.Destination)
		tok.Title = string(typed.Title)
		tok.Alt = w.plainText(node)
		w.emit(tok, nil)

	case *ast.AutoLink:
		label := string(typed.Label(w.source))
		url := string(typed.URL(w.source))
		if typed.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(url, "mailto:") {
			url = "mailto:" + url
		}
		start := w.cursor
		if idx := bytes.Index(w.source[w.cursor:], []byte("<"+label+">")); idx >= 0 {
			start = w.cursor + idx
		}
		stop := start + len(label) + 2
		tok := w.token(frommarkdown.TokenLink, start, stop)
		tok.URL = url
		w.emit(tok, func() {
			text := w.token(frommarkdown.TokenText, start+1, stop-1)
			text.Value = label
			w.emit(text, nil)
		})

	case *ast.RawHTML:
		var value []byte
		start, stop := w.cursor, w.cursor
		for i := 0; i < typed.Segments.Len(); i++ {
			segment := typed.Segments.At(i)
			if i == 0 {
				start = segment.Start
			}
			stop = segment.Stop
			value = append(value, segment.Value(w.source)...)
		}
		tok := w.token(frommarkdown.TokenHTML, start, stop)
		tok.Value = string(value)
		w.emit(tok, nil)

	default:
		w.warnUnknown(node)
		if node.HasChildren() {
			w.walkInlines(node)
		}
	}
}

// span returns the source range of node. Blocks use their lines, other
// nodes the union of their descendants. Nodes without source get an empty
// range at the cursor.
func (w *walker) span(node ast.Node) (int, int) {
	if text, ok := node.(*ast.Text); ok {
		return text.Segment.Start, text.Segment.Stop
	}

	if node.Type() == ast.TypeBlock {
		if lines := node.Lines(); lines != nil && lines.Len() > 0 {
			stop := lines.At(lines.Len() - 1).Stop
			for stop > 0 && (w.source[stop-1] == '\n' || w.source[stop-1] == '\r') {
				stop--
			}
			return lines.At(0).Start, stop
		}
	}

	start, stop := -1, -1
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		childStart, childStop := w.span(child)
		if childStart == childStop && childStart == w.cursor {
			continue
		}
		if start < 0 || childStart < start {
			start = childStart
		}
		if childStop > stop {
			stop = childStop
		}
	}
	if start < 0 {
		return w.cursor, w.cursor
	}
	return start, stop
}

// widen grows a range by n characters on each side.
func (w *walker) widen(start, stop, n int) (int, int) {
	return max(start-n, 0), min(stop+n, len(w.source))
}

// expand grows the range of node over the runs of char around it.
func (w *walker) expand(node ast.Node, char byte) (int, int) {
	start, stop := w.span(node)
	for start > 0 && w.source[start-1] == char {
		start--
	}
	for stop < len(w.source) && w.source[stop] == char {
		stop++
	}
	return start, stop
}

// lineEnd returns the offset after the line ending that starts at or after
// offset.
func (w *walker) lineEnd(offset int) int {
	for offset < len(w.source) && w.source[offset] != '\n' && w.source[offset] != '\r' {
		offset++
	}
	if offset < len(w.source) && w.source[offset] == '\r' {
		offset++
	}
	if offset < len(w.source) && w.source[offset] == '\n' {
		offset++
	}
	return offset
}

func (w *walker) linesValue(node ast.Node) string {
	var buf bytes.Buffer
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		buf.Write(segment.Value(w.source))
	}
	return string(trimEOL(buf.Bytes()))
}

func (w *walker) codeSpanValue(node *ast.CodeSpan) string {
	var buf bytes.Buffer
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch typed := child.(type) {
		case *ast.Text:
			buf.Write(typed.Segment.Value(w.source))
		case *ast.String:
			buf.Write(typed.Value)
		}
	}
	value := bytes.ReplaceAll(buf.Bytes(), []byte("\r\n"), []byte(" "))
	return string(bytes.ReplaceAll(value, []byte("\n"), []byte(" ")))
}

func (w *walker) plainText(node ast.Node) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch typed := n.(type) {
		case *ast.Text:
			buf.Write(unescapeBytes(typed.Segment.Value(w.source)))
		case *ast.String:
			buf.Write(typed.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func (w *walker) warnUnknown(node ast.Node) {
	kind := node.Kind().String()
	if w.warned[kind] {
		return
	}
	if w.warned == nil {
		w.warned = make(map[string]bool)
	}
	w.warned[kind] = true
	w.warnings = append(w.warnings, unist.Warning{
		Type:     unist.WarningUnknownNode,
		NodeType: kind,
		Message:  fmt.Sprintf("unsupported markdown node: %s", kind),
	})
}

func unescape(value []byte) string {
	return string(unescapeBytes(value))
}

// unescapeBytes resolves character references and backslash escapes, which
// goldmark leaves in text segments.
func unescapeBytes(value []byte) []byte {
	value = util.ResolveNumericReferences(value)
	value = util.ResolveEntityNames(value)
	return util.UnescapePunctuations(value)
}

func trimEOL(value []byte) []byte {
	return bytes.TrimRight(value, "\r\n")
}
