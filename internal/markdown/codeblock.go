// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// DefaultCodeStyle is the chroma style used when none is configured.
const DefaultCodeStyle = "monokai"

// CodeBlock is a fenced code block found in markdown text. StartLine and
// EndLine are zero-based line indexes of the opening and closing fences;
// EndLine is -1 for a block left open at the end of the text.
type CodeBlock struct {
	Language  string
	Code      string
	StartLine int
	EndLine   int
}

// ParseCodeBlocks returns the fenced (```) code blocks of text in order.
func ParseCodeBlocks(text string) []CodeBlock {
	var (
		blocks  []CodeBlock
		current *CodeBlock
		code    []string
	)
	for i, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "```") {
			if current != nil {
				code = append(code, line)
			}
			continue
		}
		if current == nil {
			current = &CodeBlock{
				Language:  strings.TrimSpace(strings.TrimPrefix(trimmed, "```")),
				StartLine: i,
			}
			code = nil
			continue
		}
		current.Code = strings.Join(code, "\n")
		current.EndLine = i
		blocks = append(blocks, *current)
		current = nil
	}
	if current != nil {
		current.Code = strings.Join(code, "\n")
		current.EndLine = -1
		blocks = append(blocks, *current)
	}
	return blocks
}

// Highlight returns code with ANSI syntax highlighting. Unknown languages
// are guessed from the code; on any chroma error the code is returned
// unchanged.
func Highlight(code, language, style string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	s := chromaStyles.Get(style)
	if s == nil {
		s = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, s, iterator); err != nil {
		return code
	}
	return buf.String()
}
