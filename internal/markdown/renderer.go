// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
)

// Styles accepted by Options.Style.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StyleNoTTY = "notty"
	StyleLite  = "lite"
)

const maxCacheEntries = 512

// Options configures a Renderer.
type Options struct {
	Style     string // see Style constants; empty means auto
	Width     int    // word wrap width; <= 0 means 80
	CodeStyle string // chroma style for lite code blocks
}

// Renderer turns markdown into terminal text. It is safe for concurrent
// use.
type Renderer struct {
	mu    sync.Mutex
	opts  Options
	term  *glamour.TermRenderer
	cache map[string]string
}

// New creates a renderer.
func New(opts Options) (*Renderer, error) {
	r := &Renderer{cache: make(map[string]string)}
	if err := r.configure(opts); err != nil {
		return nil, err
	}
	return r, nil
}

func normalize(opts Options) Options {
	opts.Style = strings.ToLower(strings.TrimSpace(opts.Style))
	if opts.Style == "" {
		opts.Style = StyleAuto
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.CodeStyle == "" {
		opts.CodeStyle = DefaultCodeStyle
	}
	return opts
}

func (r *Renderer) configure(opts Options) error {
	opts = normalize(opts)

	var term *glamour.TermRenderer
	if opts.Style != StyleLite {
		styleOpt := glamour.WithAutoStyle()
		switch opts.Style {
		case StyleAuto:
		case StyleDark, StyleLight, StyleNoTTY:
			styleOpt = glamour.WithStandardStyle(opts.Style)
		default:
			return fmt.Errorf("unknown markdown style %q", opts.Style)
		}
		var err error
		term, err = glamour.NewTermRenderer(
			styleOpt,
			glamour.WithWordWrap(opts.Width),
			glamour.WithEmoji(),
		)
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
	}

	r.opts = opts
	r.term = term
	r.cache = make(map[string]string)
	return nil
}

// SetWidth changes the wrap width. It is a no-op when the width is
// unchanged.
func (r *Renderer) SetWidth(width int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width <= 0 || width == r.opts.Width {
		return nil
	}
	opts := r.opts
	opts.Width = width
	return r.configure(opts)
}

// SetStyle switches the markdown and code styles.
func (r *Renderer) SetStyle(style, codeStyle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	opts := r.opts
	opts.Style = style
	opts.CodeStyle = codeStyle
	return r.configure(opts)
}

// Width returns the wrap width.
func (r *Renderer) Width() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opts.Width
}

// Render renders text. It never fails: if glamour cannot render the text
// the lite renderer is used instead. Results are cached per text until the
// width or style changes.
func (r *Renderer) Render(text string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if out, ok := r.cache[text]; ok {
		return out
	}

	var out string
	if r.term != nil {
		rendered, err := r.term.Render(text)
		if err == nil {
			out = strings.Trim(rendered, "\n")
		}
	}
	if out == "" && strings.TrimSpace(text) != "" {
		out = renderLite(text, r.opts.Width, r.opts.CodeStyle)
	}

	if len(r.cache) >= maxCacheEntries {
		r.cache = make(map[string]string)
	}
	r.cache[text] = out
	return out
}

// RenderLite renders text with the lite renderer regardless of style.
func RenderLite(text string, width int, codeStyle string) string {
	if width <= 0 {
		width = 80
	}
	if codeStyle == "" {
		codeStyle = DefaultCodeStyle
	}
	return renderLite(text, width, codeStyle)
}

// renderLite wraps prose to width and highlights fenced code blocks.
func renderLite(text string, width int, codeStyle string) string {
	lines := strings.Split(text, "\n")
	blocks := ParseCodeBlocks(text)

	var out []string
	next := 0
	for i := 0; i < len(lines); {
		if next < len(blocks) && blocks[next].StartLine == i {
			b := blocks[next]
			next++
			highlighted := Highlight(b.Code, b.Language, codeStyle)
			for _, l := range strings.Split(strings.TrimRight(highlighted, "\n"), "\n") {
				out = append(out, "  "+l)
			}
			if b.EndLine < 0 {
				break
			}
			i = b.EndLine + 1
			continue
		}
		if strings.TrimSpace(lines[i]) == "" {
			out = append(out, "")
		} else {
			out = append(out, wordwrap.String(lines[i], width))
		}
		i++
	}
	return strings.Join(out, "\n")
}
