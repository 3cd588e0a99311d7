package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rgonek/mdast-attention/processor"
	"github.com/rgonek/mdast-attention/unist"
)

// app carries the state shared by all subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "attn",
		Short: "Convert markdown with single-character attention syntaxes.",
		Long: `attn parses, formats and converts markdown that uses single-character
attention syntaxes such as ~subscript~ and ^superscript^, and converts HTML
back into that markdown.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.attn/config.yaml)")
	flags.String("preset", presetSubSup, "Preset: subsup|none|gfm|pandoc|strict")
	flags.Bool("strikethrough", false, "Enable GFM ~~strikethrough~~")
	flags.StringSlice("syntax", nil, "Extra syntax as name:tag:delimiter, repeatable")
	flags.String("unknown-nodes", "", "Unknown node policy: text|skip|error")

	for _, key := range []string{"preset", "strikethrough", "syntax", "unknown-nodes"} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}

	rootCmd.AddCommand(
		a.parseCmd(),
		a.formatCmd(),
		a.fromHTMLCmd(),
		a.renderCmd(),
		a.syntaxesCmd(),
	)
	return rootCmd
}

func (a *app) initConfig() error {
	a.v.SetEnvPrefix("attn")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".attn"))
		}
		a.v.SetConfigName("config")
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func (a *app) processor() (*processor.Processor, error) {
	cfg, err := resolveConfig(
		a.v.GetString("preset"),
		a.v.GetBool("strikethrough"),
		a.v.GetStringSlice("syntax"),
		a.v.GetString("unknown-nodes"),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid preset: %w", err)
	}

	p, err := processor.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return p, nil
}

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

func printWarnings(w io.Writer, warnings []unist.Warning) {
	yellow := color.New(color.FgYellow).SprintFunc()
	for _, warning := range warnings {
		if warning.NodeType != "" {
			fmt.Fprintf(w, "%s %s (%s): %s\n", yellow("warning:"), warning.Type, warning.NodeType, warning.Message)
			continue
		}
		fmt.Fprintf(w, "%s %s: %s\n", yellow("warning:"), warning.Type, warning.Message)
	}
}
