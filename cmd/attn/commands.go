package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rgonek/mdast-attention/attention"
	"github.com/rgonek/mdast-attention/mdast"
)

func (a *app) parseCmd() *cobra.Command {
	var positions bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse markdown and print the mdast tree as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.processor()
			if err != nil {
				return err
			}
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			result, err := p.Parse(input)
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), result.Warnings)
			return writeTree(cmd, result.Tree, positions)
		},
	}
	cmd.Flags().BoolVar(&positions, "positions", false, "Include source positions")
	return cmd
}

func (a *app) formatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format [file]",
		Short: "Parse markdown and write it back in canonical form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.processor()
			if err != nil {
				return err
			}
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			result, err := p.Reformat(input)
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), result.Warnings)
			fmt.Fprint(cmd.OutOrStdout(), result.Markdown)
			return nil
		},
	}
}

func (a *app) fromHTMLCmd() *cobra.Command {
	var (
		direct bool
		tree   bool
	)

	cmd := &cobra.Command{
		Use:   "fromhtml [file]",
		Short: "Convert an HTML fragment to markdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if direct && tree {
				return fmt.Errorf("--direct and --tree cannot be combined")
			}
			p, err := a.processor()
			if err != nil {
				return err
			}
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			switch {
			case direct:
				markdown, err := p.HTMLToMarkdownDirect(input)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), markdown)
			case tree:
				result, err := p.FromHTML(input)
				if err != nil {
					return err
				}
				printWarnings(cmd.ErrOrStderr(), result.Warnings)
				return writeTree(cmd, result.Tree, true)
			default:
				result, err := p.HTMLToMarkdown(input)
				if err != nil {
					return err
				}
				printWarnings(cmd.ErrOrStderr(), result.Warnings)
				fmt.Fprint(cmd.OutOrStdout(), result.Markdown)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&direct, "direct", false, "Convert with html-to-markdown plugins instead of through mdast")
	cmd.Flags().BoolVar(&tree, "tree", false, "Print the mdast tree as JSON instead of markdown")
	return cmd
}

func (a *app) renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render [file]",
		Short: "Render markdown to HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.processor()
			if err != nil {
				return err
			}
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			html, err := p.RenderHTML(input)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), html)
			return nil
		},
	}
}

func (a *app) syntaxesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "syntaxes",
		Short: "List the configured syntaxes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.processor()
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Node", "Tag", "Delimiter", "Markdown"})
			for _, opts := range p.Syntaxes() {
				t.AppendRow(table.Row{opts.SourceNodeName, opts.TargetTagName, strconv.QuoteRune(opts.Delimiter), tokenized(opts)})
			}
			t.Render()
			return nil
		},
	}
}

// tokenized reports whether markdown input can produce the syntax.
func tokenized(opts attention.Options) string {
	a, err := attention.New(opts)
	if err != nil {
		return "no"
	}
	if _, err := a.Syntax(); err != nil {
		return "no"
	}
	return "yes"
}

func writeTree(cmd *cobra.Command, tree *mdast.Node, positions bool) error {
	if !positions {
		tree = mdast.StripPositions(tree)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	return nil
}
