package processor

import (
	"testing"

	"github.com/rgonek/mdast-attention/attention"
)

func BenchmarkReformat(b *testing.B) {
	p, err := New(Config{
		Syntaxes:      []attention.Options{attention.Subscript, attention.Superscript},
		Strikethrough: true,
	})
	if err != nil {
		b.Fatalf("failed to create processor: %v", err)
	}

	input := `# Water is H~2~O

Energy is E = mc^2^ and ~~not~~ something else.

- x~i~ for every i
- [link](https://example.com/~user) and <https://example.com/~a>

> Quote with ^sup^ and \~literal\~ tildes.
`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.Reformat(input); err != nil {
			b.Fatalf("reformat failed: %v", err)
		}
	}
}

func BenchmarkHTMLToMarkdown(b *testing.B) {
	p, err := New(Config{Syntaxes: []attention.Options{attention.Subscript, attention.Superscript}})
	if err != nil {
		b.Fatalf("failed to create processor: %v", err)
	}

	input := `<h1>Water is H<sub>2</sub>O</h1><p>Energy is E = mc<sup>2</sup>.</p><ul><li>x<sub>i</sub></li><li>a~b</li></ul>`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.HTMLToMarkdown(input); err != nil {
			b.Fatalf("html to markdown failed: %v", err)
		}
	}
}
