package tomarkdown

import "regexp"

// Construct names tracked on the construct stack.
const (
	ConstructPhrasing                  = "phrasing"
	ConstructParagraph                 = "paragraph"
	ConstructHeadingAtx                = "headingAtx"
	ConstructBlockquote                = "blockquote"
	ConstructList                      = "list"
	ConstructListItem                  = "listItem"
	ConstructCodeFenced                = "codeFenced"
	ConstructCodeFencedLangGraveAccent = "codeFencedLangGraveAccent"
	ConstructCodeFencedMetaGraveAccent = "codeFencedMetaGraveAccent"
	ConstructEmphasis                  = "emphasis"
	ConstructStrong                    = "strong"
	ConstructStrikethrough             = "strikethrough"
	ConstructInlineCode                = "inlineCode"
	ConstructLink                      = "link"
	ConstructLinkReference             = "linkReference"
	ConstructImage                     = "image"
	ConstructDefinition                = "definition"
	ConstructLabel                     = "label"
	ConstructAutolink                  = "autolink"
	ConstructDestinationLiteral        = "destinationLiteral"
	ConstructDestinationRaw            = "destinationRaw"
	ConstructReference                 = "reference"
	ConstructTitleQuote                = "titleQuote"
	ConstructTitleApostrophe           = "titleApostrophe"
)

// Unsafe describes a character that has to be escaped when it would be
// emitted literally in certain places.
type Unsafe struct {
	Character rune
	// InConstruct limits the pattern to these constructs; empty means
	// everywhere.
	InConstruct []string
	// NotInConstruct disables the pattern inside these constructs.
	NotInConstruct []string
	// Before and After are regular expressions the surrounding text must
	// match.
	Before string
	After  string
	// AtBreak only matches the character at the start of a line.
	AtBreak bool
}

// fullPhrasingSpans are constructs that occur in phrasing but cannot contain
// emphasis-like spans, so span delimiters need no escaping inside them.
var fullPhrasingSpans = []string{
	ConstructAutolink,
	ConstructDestinationLiteral,
	ConstructDestinationRaw,
	ConstructReference,
	ConstructTitleQuote,
	ConstructTitleApostrophe,
}

// FullPhrasingSpans returns the constructs that occur in phrasing but cannot
// contain emphasis, strikethrough or other delimiter spans. Extensions that
// add such spans use it as NotInConstruct of their delimiter.
func FullPhrasingSpans() []string {
	return append([]string(nil), fullPhrasingSpans...)
}

var (
	inPhrasing       = []string{ConstructPhrasing}
	codeFencedLang   = []string{ConstructCodeFencedLangGraveAccent}
	lineSensitive    = []string{ConstructCodeFencedLangGraveAccent, ConstructCodeFencedMetaGraveAccent, ConstructDestinationLiteral, ConstructHeadingAtx}
	labelOrReference = []string{ConstructLabel, ConstructReference}
)

var commonMarkUnsafe = []Unsafe{
	{Character: '\t', After: `[\r\n]`, InConstruct: inPhrasing},
	{Character: '\t', Before: `[\r\n]`, InConstruct: inPhrasing},
	{Character: '\t', InConstruct: codeFencedLang},
	{Character: '\r', InConstruct: lineSensitive},
	{Character: '\n', InConstruct: lineSensitive},
	{Character: ' ', After: `[\r\n]`, InConstruct: inPhrasing},
	{Character: ' ', Before: `[\r\n]`, InConstruct: inPhrasing},
	{Character: ' ', InConstruct: codeFencedLang},
	{Character: '!', After: `\[`, InConstruct: inPhrasing, NotInConstruct: fullPhrasingSpans},
	{Character: '"', InConstruct: []string{ConstructTitleQuote}},
	{AtBreak: true, Character: '#'},
	{Character: '#', InConstruct: []string{ConstructHeadingAtx}, After: `(?:[\r\n]|$)`},
	{Character: '&', After: `[#A-Za-z]`, InConstruct: inPhrasing},
	{Character: '\'', InConstruct: []string{ConstructTitleApostrophe}},
	{Character: '(', InConstruct: []string{ConstructDestinationRaw}},
	{Before: `\]`, Character: '(', InConstruct: inPhrasing, NotInConstruct: fullPhrasingSpans},
	{AtBreak: true, Before: `\d+`, Character: ')'},
	{Character: ')', InConstruct: []string{ConstructDestinationRaw}},
	{AtBreak: true, Character: '*', After: `(?:[ \t\r\n*])`},
	{Character: '*', InConstruct: inPhrasing, NotInConstruct: fullPhrasingSpans},
	{AtBreak: true, Character: '+', After: `(?:[ \t\r\n])`},
	{AtBreak: true, Character: '-', After: `(?:[ \t\r\n-])`},
	{AtBreak: true, Before: `\d+`, Character: '.', After: `(?:[ \t\r\n]|$)`},
	{AtBreak: true, Character: '<', After: `[!/?A-Za-z]`},
	{Character: '<', After: `[!/?A-Za-z]`, InConstruct: inPhrasing, NotInConstruct: fullPhrasingSpans},
	{Character: '<', InConstruct: []string{ConstructDestinationLiteral}},
	{AtBreak: true, Character: '='},
	{AtBreak: true, Character: '>'},
	{Character: '>', InConstruct: []string{ConstructDestinationLiteral}},
	{AtBreak: true, Character: '['},
	{Character: '[', InConstruct: inPhrasing, NotInConstruct: fullPhrasingSpans},
	{Character: '[', InConstruct: labelOrReference},
	{Character: '\\', After: `[\r\n]`, InConstruct: inPhrasing},
	{Character: ']', InConstruct: labelOrReference},
	{AtBreak: true, Character: '_'},
	{Character: '_', InConstruct: inPhrasing, NotInConstruct: fullPhrasingSpans},
	{AtBreak: true, Character: '`'},
	{Character: '`', InConstruct: []string{ConstructCodeFencedLangGraveAccent, ConstructCodeFencedMetaGraveAccent}},
	{Character: '`', InConstruct: inPhrasing, NotInConstruct: fullPhrasingSpans},
	{AtBreak: true, Character: '~'},
}

type compiledUnsafe struct {
	Unsafe
	expression *regexp.Regexp
	hasBefore  bool
}

func compileUnsafe(pattern Unsafe) (compiledUnsafe, error) {
	before := ""
	if pattern.AtBreak {
		before = `[\r\n][\t ]*`
	}
	if pattern.Before != "" {
		before += "(?:" + pattern.Before + ")"
	}

	expr := ""
	if before != "" {
		expr = "(" + before + ")"
	}
	expr += regexp.QuoteMeta(string(pattern.Character))
	if pattern.After != "" {
		expr += "(?:" + pattern.After + ")"
	}

	compiled, err := regexp.Compile(expr)
	if err != nil {
		return compiledUnsafe{}, err
	}

	return compiledUnsafe{
		Unsafe:     pattern,
		expression: compiled,
		hasBefore:  before != "",
	}, nil
}

func patternInScope(stack []string, pattern Unsafe) bool {
	return listInScope(stack, pattern.InConstruct, true) &&
		!listInScope(stack, pattern.NotInConstruct, false)
}

func listInScope(stack, list []string, none bool) bool {
	if len(list) == 0 {
		return none
	}
	for _, construct := range list {
		for _, open := range stack {
			if open == construct {
				return true
			}
		}
	}
	return false
}
