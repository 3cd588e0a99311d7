// Package attention builds the extensions for single-character attention
// syntaxes, such as ~subscript~ and ^superscript^, for the three mdast
// pipelines: markdown to mdast, mdast to markdown, and HTML to mdast.
//
// All extensions are produced from one Options value:
//
//	opts := attention.Options{SourceNodeName: "sub", TargetTagName: "sub", Delimiter: '~'}
//	a, err := attention.New(opts)
package attention

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidOptions indicates Options that cannot produce extensions.
var ErrInvalidOptions = errors.New("invalid attention options")

// Options configures one attention syntax.
type Options struct {
	// SourceNodeName is the mdast node type, for example "sub".
	SourceNodeName string `json:"sourceNodeName" yaml:"sourceNodeName"`
	// TargetTagName is the HTML tag the node renders as and is converted
	// from, for example "sub".
	TargetTagName string `json:"targetTagName" yaml:"targetTagName"`
	// Delimiter wraps the span in markdown, for example '~'.
	Delimiter rune `json:"delimiter" yaml:"delimiter"`
}

var (
	// Subscript is ~x~ as <sub>.
	Subscript = Options{SourceNodeName: "sub", TargetTagName: "sub", Delimiter: '~'}
	// Superscript is ^x^ as <sup>.
	Superscript = Options{SourceNodeName: "sup", TargetTagName: "sup", Delimiter: '^'}
)

// Validate checks that the options are usable.
func (o Options) Validate() error {
	if err := validateName("sourceNodeName", o.SourceNodeName); err != nil {
		return err
	}
	if err := validateName("targetTagName", o.TargetTagName); err != nil {
		return err
	}
	if !utf8.ValidRune(o.Delimiter) || o.Delimiter == utf8.RuneError {
		return fmt.Errorf("%w: delimiter %U is not a valid character", ErrInvalidOptions, o.Delimiter)
	}
	if unicode.IsSpace(o.Delimiter) || !unicode.IsPrint(o.Delimiter) {
		return fmt.Errorf("%w: delimiter %q must be a printable, non-space character", ErrInvalidOptions, o.Delimiter)
	}
	return nil
}

func validateName(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidOptions, field)
	}
	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %s %q must not contain whitespace", ErrInvalidOptions, field, value)
	}
	return nil
}

// ParseDelimiter returns the single character of value.
func ParseDelimiter(value string) (rune, error) {
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf("%w: delimiter %q must be exactly one character", ErrInvalidOptions, value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError {
		return 0, fmt.Errorf("%w: delimiter %q is not valid UTF-8", ErrInvalidOptions, value)
	}
	return r, nil
}
