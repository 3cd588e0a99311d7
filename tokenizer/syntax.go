package tokenizer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// attentionPriority places attention parsers before GFM strikethrough so a
// single tilde is tried as attention first.
const attentionPriority = 450

// reservedDelimiters are characters CommonMark already gives a meaning that
// an attention span would shadow or never see.
const reservedDelimiters = "*_`[]!<>&\\#"

// Syntax recognizes spans wrapped in a single Delimiter, such as ~x~, as
// attention nodes named Name and rendered as Tag.
type Syntax struct {
	Name      string `json:"name"`
	Tag       string `json:"tag"`
	Delimiter byte   `json:"delimiter"`
}

// Validate checks that the syntax can be parsed by goldmark.
func (s Syntax) Validate() error {
	if s.Name == "" || strings.IndexFunc(s.Name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("invalid syntax name %q: must be non-empty without whitespace", s.Name)
	}
	if s.Tag == "" || strings.IndexFunc(s.Tag, unicode.IsSpace) >= 0 {
		return fmt.Errorf("invalid tag name %q: must be non-empty without whitespace", s.Tag)
	}
	if !util.IsPunct(s.Delimiter) {
		return fmt.Errorf("invalid delimiter %q: must be ASCII punctuation", s.Delimiter)
	}
	if strings.IndexByte(reservedDelimiters, s.Delimiter) >= 0 {
		return fmt.Errorf("invalid delimiter %q: reserved by CommonMark", s.Delimiter)
	}
	return nil
}

// Extend registers the inline parser and the HTML renderer of s.
func (s Syntax) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&attentionParser{syntax: s, processor: &delimiterProcessor{syntax: s}}, attentionPriority),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&AttentionRenderer{}, attentionPriority),
	))
}

// KindAttention is the goldmark node kind of attention spans.
var KindAttention = ast.NewNodeKind("Attention")

// Attention is a span recognized by a Syntax.
type Attention struct {
	ast.BaseInline

	Name string
	Tag  string
}

// NewAttention returns an empty attention node.
func NewAttention(name, tag string) *Attention {
	return &Attention{Name: name, Tag: tag}
}

func (n *Attention) Kind() ast.NodeKind {
	return KindAttention
}

func (n *Attention) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name": n.Name,
		"Tag":  n.Tag,
	}, nil)
}

type delimiterProcessor struct {
	syntax Syntax
}

func (p *delimiterProcessor) IsDelimiter(b byte) bool {
	return b == p.syntax.Delimiter
}

func (p *delimiterProcessor) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char && opener.Processor == closer.Processor
}

func (p *delimiterProcessor) OnMatch(consumes int) ast.Node {
	return NewAttention(p.syntax.Name, p.syntax.Tag)
}

type attentionParser struct {
	syntax    Syntax
	processor *delimiterProcessor
}

func (p *attentionParser) Trigger() []byte {
	return []byte{p.syntax.Delimiter}
}

// Parse accepts runs of exactly one delimiter. Longer runs are left to other
// parsers, such as strikethrough for ~~. A backslash-escaped delimiter does
// not count towards the run.
func (p *attentionParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	before := block.PrecendingCharacter()
	line, segment := block.PeekLine()
	if before == rune(p.syntax.Delimiter) && !escaped(block.Source(), segment.Start-1) {
		return nil
	}

	delimiter := parser.ScanDelimiter(line, before, 1, p.processor)
	if delimiter == nil || delimiter.OriginalLength != 1 {
		return nil
	}

	delimiter.Segment = segment.WithStop(segment.Start + delimiter.OriginalLength)
	block.Advance(delimiter.OriginalLength)
	pc.PushDelimiter(delimiter)
	return delimiter
}

// escaped reports whether the byte at offset is preceded by an odd number
// of backslashes.
func escaped(source []byte, offset int) bool {
	backslashes := 0
	for i := offset - 1; i >= 0 && source[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 1
}

// AttentionRenderer renders attention nodes as their tag.
type AttentionRenderer struct{}

func (r *AttentionRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAttention, r.renderAttention)
}

func (r *AttentionRenderer) renderAttention(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	node, ok := n.(*Attention)
	if !ok {
		return ast.WalkStop, errors.New("unexpected node for attention renderer")
	}
	if entering {
		_, _ = w.WriteString("<" + node.Tag + ">")
	} else {
		_, _ = w.WriteString("</" + node.Tag + ">")
	}
	return ast.WalkContinue, nil
}
