package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAttn(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestFormatCommand(t *testing.T) {
	out, _, err := runAttn(t, "H~2~O and x^2^", "format")
	require.NoError(t, err)
	assert.Equal(t, "H~2~O and x^2^\n", out)
}

func TestFormatCommandReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.md")
	require.NoError(t, os.WriteFile(path, []byte("- ~a~\n- b\n"), 0o644))

	out, _, err := runAttn(t, "", "format", path)
	require.NoError(t, err)
	assert.Equal(t, "- ~a~\n- b\n", out)
}

func TestParseCommand(t *testing.T) {
	out, _, err := runAttn(t, "H~2~O", "parse")
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "sub"`)
	assert.Contains(t, out, `"hName": "sub"`)
	assert.NotContains(t, out, `"position"`)

	out, _, err = runAttn(t, "H~2~O", "parse", "--positions")
	require.NoError(t, err)
	assert.Contains(t, out, `"position"`)
}

func TestParseCommandCustomSyntax(t *testing.T) {
	out, _, err := runAttn(t, "a =b= c", "parse", "--preset", "none", "--syntax", "mark:mark:=")
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "mark"`)
}

func TestRenderCommand(t *testing.T) {
	out, _, err := runAttn(t, "H~2~O", "render")
	require.NoError(t, err)
	assert.Equal(t, "<p>H<sub>2</sub>O</p>\n", out)
}

func TestFromHTMLCommand(t *testing.T) {
	out, _, err := runAttn(t, "<p>H<sub>2</sub>O</p>", "fromhtml")
	require.NoError(t, err)
	assert.Equal(t, "H~2~O\n", out)

	out, _, err = runAttn(t, "<p>H<sub>2</sub>O</p>", "fromhtml", "--direct")
	require.NoError(t, err)
	assert.Equal(t, "H~2~O\n", out)

	out, _, err = runAttn(t, "<p>H<sub>2</sub>O</p>", "fromhtml", "--tree")
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "sub"`)

	_, _, err = runAttn(t, "", "fromhtml", "--tree", "--direct")
	assert.Error(t, err)
}

func TestFromHTMLCommandPrintsWarnings(t *testing.T) {
	out, stderr, err := runAttn(t, "<p>a<mark>b</mark></p>", "fromhtml")
	require.NoError(t, err)
	assert.Equal(t, "ab\n", out)
	assert.Contains(t, stderr, "unknown_node")
	assert.Contains(t, stderr, "mark")
}

func TestSyntaxesCommand(t *testing.T) {
	out, _, err := runAttn(t, "", "syntaxes", "--syntax", "arrow:span:→")
	require.NoError(t, err)
	assert.Contains(t, out, "sub")
	assert.Contains(t, out, "sup")
	assert.Contains(t, out, "'~'")
	assert.Contains(t, out, "arrow")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "no")
}

func TestEnvironmentSelectsPreset(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ATTN_PRESET", "none")

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"syntaxes"})
	cmd.SetOut(&stdout)
	require.NoError(t, cmd.Execute())
	assert.NotContains(t, stdout.String(), "sub")
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attn.yaml")
	require.NoError(t, os.WriteFile(path, []byte("preset: gfm\nsyntax:\n  - mark:mark:=\n"), 0o644))

	out, _, err := runAttn(t, "", "syntaxes", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "mark")
	assert.NotContains(t, out, "sup")
}

func TestMissingConfigFile(t *testing.T) {
	_, _, err := runAttn(t, "", "syntaxes", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestUnknownPresetFails(t *testing.T) {
	_, _, err := runAttn(t, "x", "format", "--preset", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown preset "bogus"`)
}
