// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func TestParseCodeBlocks(t *testing.T) {
	text := "intro\n```go\nfmt.Println(1)\n```\nmiddle\n```\nplain\ntext\n```\n"
	blocks := ParseCodeBlocks(text)
	require.Len(t, blocks, 2)

	assert.Equal(t, "go", blocks[0].Language)
	assert.Equal(t, "fmt.Println(1)", blocks[0].Code)
	assert.Equal(t, 1, blocks[0].StartLine)
	assert.Equal(t, 3, blocks[0].EndLine)

	assert.Equal(t, "", blocks[1].Language)
	assert.Equal(t, "plain\ntext", blocks[1].Code)
}

func TestParseCodeBlocks_Unclosed(t *testing.T) {
	blocks := ParseCodeBlocks("```python\nprint('hi')")
	require.Len(t, blocks, 1)
	assert.Equal(t, -1, blocks[0].EndLine)
	assert.Equal(t, "print('hi')", blocks[0].Code)
}

func TestParseCodeBlocks_None(t *testing.T) {
	assert.Empty(t, ParseCodeBlocks("just **bold** text"))
}

func TestHighlight_KeepsCode(t *testing.T) {
	out := Highlight("x := 1", "go", "monokai")
	assert.Contains(t, stripANSI(out), "x := 1")

	out = Highlight("whatever", "no-such-language", "no-such-style")
	assert.Contains(t, stripANSI(out), "whatever")
}

func TestRender_NoTTYKeepsText(t *testing.T) {
	r, err := New(Options{Style: StyleNoTTY, Width: 60})
	require.NoError(t, err)

	out := r.Render("# Sushi\n\nChal **sushi** khane chalte hai 🍣")
	plain := stripANSI(out)
	assert.Contains(t, plain, "Sushi")
	assert.Contains(t, plain, "khane chalte hai")
	assert.False(t, strings.HasPrefix(out, "\n"))
}

func TestRender_Lite(t *testing.T) {
	r, err := New(Options{Style: StyleLite, Width: 40})
	require.NoError(t, err)

	out := r.Render("Here you go:\n```go\nfunc main() {}\n```\nDone")
	plain := stripANSI(out)
	assert.Contains(t, plain, "Here you go:")
	assert.Contains(t, plain, "func main() {}")
	assert.Contains(t, plain, "Done")
	assert.NotContains(t, plain, "```")
}

func TestRender_LiteWrapsProseWithoutLosingWords(t *testing.T) {
	r, err := New(Options{Style: StyleLite, Width: 20})
	require.NoError(t, err)

	text := "**bold** stays literal and this line is long enough to wrap\n\nshort"
	plain := stripANSI(r.Render(text))

	lines := strings.Split(plain, "\n")
	assert.Greater(t, len(lines), 3)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), 20, "line %q", l)
	}
	assert.Equal(t, strings.Fields(text), strings.Fields(plain))
	assert.Contains(t, lines, "")
}

func TestRender_EmptyText(t *testing.T) {
	r, err := New(Options{Style: StyleLite})
	require.NoError(t, err)
	assert.Equal(t, "", r.Render(""))
}

func TestNew_UnknownStyle(t *testing.T) {
	_, err := New(Options{Style: "sparkly"})
	assert.Error(t, err)
}

func TestSetWidth(t *testing.T) {
	r, err := New(Options{Style: StyleNoTTY, Width: 80})
	require.NoError(t, err)
	require.NoError(t, r.SetWidth(30))
	assert.Equal(t, 30, r.Width())
	require.NoError(t, r.SetWidth(0))
	assert.Equal(t, 30, r.Width())

	long := strings.Repeat("word ", 30)
	assert.Greater(t, strings.Count(stripANSI(r.Render(long)), "\n"), 1, "long text wraps")
}

func TestRenderLite_Defaults(t *testing.T) {
	out := RenderLite("hello", 0, "")
	assert.Equal(t, "hello", stripANSI(out))
}
