package main

import (
	"errors"
	"testing"

	"github.com/rgonek/mdast-attention/attention"
	"github.com/rgonek/mdast-attention/processor"
	"github.com/rgonek/mdast-attention/tomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetConfig(t *testing.T) {
	subsup := []attention.Options{attention.Subscript, attention.Superscript}

	t.Run("subsup", func(t *testing.T) {
		cfg, err := presetConfig(presetSubSup)
		require.NoError(t, err)
		assert.Equal(t, processor.Config{Syntaxes: subsup}, cfg)
	})

	t.Run("empty defaults to subsup", func(t *testing.T) {
		cfg, err := presetConfig("")
		require.NoError(t, err)
		assert.Equal(t, processor.Config{Syntaxes: subsup}, cfg)
	})

	t.Run("none", func(t *testing.T) {
		cfg, err := presetConfig(presetNone)
		require.NoError(t, err)
		assert.Equal(t, processor.Config{}, cfg)
	})

	t.Run("gfm", func(t *testing.T) {
		cfg, err := presetConfig(presetGFM)
		require.NoError(t, err)
		assert.True(t, cfg.Strikethrough)
		assert.Empty(t, cfg.Syntaxes)
	})

	t.Run("pandoc", func(t *testing.T) {
		cfg, err := presetConfig(" Pandoc ")
		require.NoError(t, err)
		assert.True(t, cfg.Strikethrough)
		assert.Equal(t, subsup, cfg.Syntaxes)
	})

	t.Run("strict", func(t *testing.T) {
		cfg, err := presetConfig(presetStrict)
		require.NoError(t, err)
		assert.Equal(t, tomarkdown.UnknownError, cfg.UnknownNodes)
		assert.Equal(t, subsup, cfg.Syntaxes)
	})

	t.Run("every preset builds a processor", func(t *testing.T) {
		for _, preset := range []string{presetSubSup, presetNone, presetGFM, presetPandoc, presetStrict} {
			cfg, err := presetConfig(preset)
			require.NoError(t, err)
			_, err = processor.New(cfg)
			assert.NoError(t, err, preset)
		}
	})
}

func TestPresetConfigInvalid(t *testing.T) {
	_, err := presetConfig("unknown")
	require.Error(t, err)
	assert.Equal(t, `unknown preset "unknown" (allowed: subsup, none, gfm, pandoc, strict)`, err.Error())
}

func TestParseSyntax(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    attention.Options
		wantErr bool
	}{
		{
			name:  "full",
			value: "mark:mark:=",
			want:  attention.Options{SourceNodeName: "mark", TargetTagName: "mark", Delimiter: '='},
		},
		{
			name:  "tag defaults to name",
			value: "ins::+",
			want:  attention.Options{SourceNodeName: "ins", TargetTagName: "ins", Delimiter: '+'},
		},
		{
			name:  "colon delimiter",
			value: "kbd:kbd::",
			want:  attention.Options{SourceNodeName: "kbd", TargetTagName: "kbd", Delimiter: ':'},
		},
		{
			name:  "non-ascii delimiter",
			value: "arrow:span:→",
			want:  attention.Options{SourceNodeName: "arrow", TargetTagName: "span", Delimiter: '→'},
		},
		{name: "missing parts", value: "mark:=", wantErr: true},
		{name: "long delimiter", value: "mark:mark:==", wantErr: true},
		{name: "empty name", value: ":mark:=", wantErr: true},
		{name: "space delimiter", value: "mark:mark: ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSyntax(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveConfigFlagsExtendPreset(t *testing.T) {
	cfg, err := resolveConfig(presetSubSup, true, []string{"mark:mark:="}, "skip")
	require.NoError(t, err)

	assert.True(t, cfg.Strikethrough)
	require.Len(t, cfg.Syntaxes, 3)
	assert.Equal(t, "mark", cfg.Syntaxes[2].SourceNodeName)
	assert.Equal(t, tomarkdown.UnknownSkip, cfg.UnknownNodes)
}

func TestResolveConfigStrictKeepsPolicyWithoutFlag(t *testing.T) {
	cfg, err := resolveConfig(presetStrict, false, nil, "")
	require.NoError(t, err)
	assert.Equal(t, tomarkdown.UnknownError, cfg.UnknownNodes)
	assert.False(t, cfg.Strikethrough)
}

func TestResolveConfigErrors(t *testing.T) {
	_, err := resolveConfig("bogus", false, nil, "")
	assert.Error(t, err)

	_, err = resolveConfig(presetNone, false, []string{"mark:mark:=="}, "")
	assert.True(t, errors.Is(err, attention.ErrInvalidOptions))

	_, err = resolveConfig(presetNone, false, nil, "panic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown node policy "panic"`)
}
