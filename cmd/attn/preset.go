package main

import (
	"fmt"
	"strings"

	"github.com/rgonek/mdast-attention/attention"
	"github.com/rgonek/mdast-attention/processor"
	"github.com/rgonek/mdast-attention/tomarkdown"
)

const (
	presetSubSup = "subsup"
	presetNone   = "none"
	presetGFM    = "gfm"
	presetPandoc = "pandoc"
	presetStrict = "strict"
)

func presetConfig(preset string) (processor.Config, error) {
	switch strings.ToLower(strings.TrimSpace(preset)) {
	case "", presetSubSup:
		return processor.Config{
			Syntaxes: []attention.Options{attention.Subscript, attention.Superscript},
		}, nil
	case presetNone:
		return processor.Config{}, nil
	case presetGFM:
		return processor.Config{Strikethrough: true}, nil
	case presetPandoc:
		return processor.Config{
			Syntaxes:      []attention.Options{attention.Subscript, attention.Superscript},
			Strikethrough: true,
		}, nil
	case presetStrict:
		return processor.Config{
			Syntaxes:     []attention.Options{attention.Subscript, attention.Superscript},
			UnknownNodes: tomarkdown.UnknownError,
		}, nil
	default:
		return processor.Config{}, fmt.Errorf("unknown preset %q (allowed: subsup, none, gfm, pandoc, strict)", preset)
	}
}

// parseSyntax reads a "name:tag:delimiter" flag value. The tag defaults to
// the name when omitted, as in "mark::=".
func parseSyntax(value string) (attention.Options, error) {
	parts := strings.SplitN(value, ":", 3)
	if len(parts) != 3 {
		return attention.Options{}, fmt.Errorf("syntax %q must look like name:tag:delimiter", value)
	}

	delimiter, err := attention.ParseDelimiter(parts[2])
	if err != nil {
		return attention.Options{}, err
	}

	opts := attention.Options{
		SourceNodeName: parts[0],
		TargetTagName:  parts[1],
		Delimiter:      delimiter,
	}
	if opts.TargetTagName == "" {
		opts.TargetTagName = opts.SourceNodeName
	}
	if err := opts.Validate(); err != nil {
		return attention.Options{}, err
	}
	return opts, nil
}

func resolveConfig(preset string, strikethrough bool, syntaxes []string, unknown string) (processor.Config, error) {
	cfg, err := presetConfig(preset)
	if err != nil {
		return processor.Config{}, err
	}

	if strikethrough {
		cfg.Strikethrough = true
	}
	for _, value := range syntaxes {
		opts, err := parseSyntax(value)
		if err != nil {
			return processor.Config{}, err
		}
		cfg.Syntaxes = append(cfg.Syntaxes, opts)
	}

	switch policy := tomarkdown.UnknownPolicy(strings.ToLower(strings.TrimSpace(unknown))); policy {
	case "":
	case tomarkdown.UnknownText, tomarkdown.UnknownSkip, tomarkdown.UnknownError:
		cfg.UnknownNodes = policy
	default:
		return processor.Config{}, fmt.Errorf("unknown node policy %q (allowed: text, skip, error)", unknown)
	}

	return cfg, nil
}
