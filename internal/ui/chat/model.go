// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/thaplubot/thaplubot-tui/internal/config"
	"github.com/thaplubot/thaplubot-tui/internal/conversation"
	"github.com/thaplubot/thaplubot-tui/internal/logging"
	"github.com/thaplubot/thaplubot-tui/internal/markdown"
	"github.com/thaplubot/thaplubot-tui/internal/shortcut"
	"github.com/thaplubot/thaplubot-tui/internal/ui/components"
	"github.com/thaplubot/thaplubot-tui/internal/ui/styles"
)

// Placeholder is shown in the empty input.
const Placeholder = "Ask ThapluBot anything..."

const (
	inputHeight = 3
	// Input border (2) plus the status line.
	chromeHeight = inputHeight + 2 + 1
	minViewport  = 3
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options are the dependencies of the chat screen.
type Options struct {
	// Context bounds every manager call made from the UI.
	Context context.Context

	// Manager is required. The caller starts and closes it.
	Manager *conversation.Manager

	// Config supplies the UI settings; nil means defaults.
	Config *config.Config

	// Clipboard writes text to the system clipboard. Defaults to
	// atotto/clipboard.
	Clipboard func(string) error

	// Logger receives debug events; nil disables logging.
	Logger *zap.Logger
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model of the chat screen.
type Model struct {
	ctx         context.Context
	mgr         *conversation.Manager
	updates     <-chan conversation.State
	unsubscribe func()
	state       conversation.State

	ui       config.UIConfig
	theme    *styles.Theme
	renderer *markdown.Renderer
	keys     KeyMap

	header *components.Header
	list   *components.MessageList
	empty  *components.EmptyState
	note   *components.NoteView
	status *components.StatusBar
	typing components.TypingIndicator

	input    textarea.Model
	viewport viewport.Model

	width     int
	height    int
	ready     bool
	showNote  bool
	noticeSeq int

	clipboard func(string) error
	log       *zap.Logger
}

// New creates the chat screen and subscribes it to the manager.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	write := opts.Clipboard
	if write == nil {
		write = clipboard.WriteAll
	}
	log := logging.OrNop(opts.Logger)

	updates, unsubscribe := opts.Manager.Subscribe()

	ta := textarea.New()
	ta.Placeholder = Placeholder
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	// Enter sends; newlines come from the Newline binding.
	ta.KeyMap.InsertNewline.SetEnabled(false)

	m := Model{
		ctx:         ctx,
		mgr:         opts.Manager,
		updates:     updates,
		unsubscribe: unsubscribe,
		state:       opts.Manager.Snapshot(),
		ui:          cfg.UI,
		keys:        DefaultKeyMap(),
		input:       ta,
		viewport:    viewport.New(80, 20),
		width:       80,
		height:      24,
		clipboard:   write,
		log:         log,
	}
	m.theme = styles.NewTheme(cfg.UI.Theme)
	m.renderer = newRenderer(cfg.UI, m.theme, log)
	m.buildComponents()
	m.syncInput()
	m.refresh(true)
	return m
}

// newRenderer creates the markdown renderer. "auto" is resolved against
// the theme here because glamour cannot query the terminal once the
// program owns it.
func newRenderer(ui config.UIConfig, theme *styles.Theme, log *zap.Logger) *markdown.Renderer {
	opts := markdown.Options{
		Style:     resolveMarkdownStyle(ui.MarkdownStyle, theme),
		Width:     ui.WordWrap,
		CodeStyle: ui.CodeStyle,
	}
	r, err := markdown.New(opts)
	if err != nil {
		log.Warn("markdown_style_invalid", zap.String("style", ui.MarkdownStyle), zap.Error(err))
		opts.Style = markdown.StyleLite
		r, _ = markdown.New(opts)
	}
	return r
}

func resolveMarkdownStyle(style string, theme *styles.Theme) string {
	if strings.ToLower(style) != markdown.StyleAuto && style != "" {
		return style
	}
	if theme.IsDark {
		return markdown.StyleDark
	}
	return markdown.StyleLight
}

// buildComponents (re)creates the components for the current theme,
// keeping the list's selection and expansion.
func (m *Model) buildComponents() {
	var selected, expanded string
	if m.list != nil {
		selected, expanded = m.list.Selected, m.list.Expanded
	}
	m.header = components.NewHeader(m.theme)
	m.list = components.NewMessageList(m.theme, m.renderer)
	m.list.Selected, m.list.Expanded = selected, expanded
	m.list.ShowTimestamps = m.ui.ShowTimestamps
	m.empty = components.NewEmptyState(m.theme)
	m.note = components.NewNoteView(m.theme)
	m.status = components.NewStatusBar(m.theme)
	m.typing = components.NewTypingIndicator(m.theme)
	m.layout()
}

// Close stops listening to the manager.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// State returns the last state received from the manager.
func (m Model) State() conversation.State {
	return m.state
}

// ShowingNote reports whether the note page is open.
func (m Model) ShowingNote() bool {
	return m.showNote
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForState(m.updates), textarea.Blink)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		m.refresh(false)
		return m, nil

	case StateMsg:
		return m.applyState(msg.State)

	case stateClosedMsg:
		return m, nil

	case sendDoneMsg, clearDoneMsg:
		return m, nil

	case copyDoneMsg:
		if msg.err != nil {
			m.log.Warn("clipboard_write_failed", zap.Error(msg.err))
			return m.setNotice("Copy failed: " + msg.err.Error())
		}
		return m.setNotice(fmt.Sprintf("Copied reply to clipboard (%d chars)", msg.chars))

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.status.Notice = ""
		}
		return m, nil

	case noteTickMsg:
		if !m.showNote {
			return m, nil
		}
		m.note.Tick++
		return m, noteTick()

	case spinner.TickMsg:
		if !m.state.Pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.typing, cmd = m.typing.Update(msg)
		m.refresh(false)
		return m, cmd

	case ConfigReloadedMsg:
		return m.applyConfig(msg.Config)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.inputEnabled() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) applyState(s conversation.State) (tea.Model, tea.Cmd) {
	prev := m.state
	m.state = s

	cmds := []tea.Cmd{waitForState(m.updates)}
	if len(s.Messages) == 0 {
		m.list.Reset()
	}
	if s.Pending && !prev.Pending {
		cmds = append(cmds, m.typing.Tick)
	}
	if cmd := m.syncInput(); cmd != nil {
		cmds = append(cmds, cmd)
	}

	m.layout()
	m.refresh(len(s.Messages) != len(prev.Messages) || s.Pending != prev.Pending)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.showNote {
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Submit) {
			m.showNote = false
			return m, m.syncInput()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.Newline):
		if m.inputEnabled() {
			m.input.InsertString("\n")
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		if m.state.MessageCount() == 0 && m.state.SessionID == "" {
			return m, nil
		}
		m.list.Reset()
		return m, clearCmd(m.ctx, m.mgr)

	case key.Matches(msg, m.keys.NextMessage):
		m.list.SelectNext(m.state.Messages)
		m.refresh(false)
		return m, nil

	case key.Matches(msg, m.keys.PrevMessage):
		m.list.SelectPrev(m.state.Messages)
		m.refresh(false)
		return m, nil

	case key.Matches(msg, m.keys.SourcesAlways),
		key.Matches(msg, m.keys.ToggleSources) && !m.inputEnabled():
		m.toggleSelectedSources()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		sel, ok := m.list.SelectedMessage(m.state.Messages)
		if !ok {
			return m.setNotice("No reply to copy")
		}
		return m, copyCmd(m.clipboard, sel.Content)

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	if text, ok := m.suggestionFor(msg); ok {
		return m, sendCmd(m.ctx, m.mgr, text)
	}

	if m.inputEnabled() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit sends the input, or opens the note page for the secret phrase.
// Neither happens while the input is disabled.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" || !m.state.CanSend() {
		return m, nil
	}
	m.input.Reset()
	if shortcut.IsSecretNote(text) {
		m.showNote = true
		m.note.Tick = 0
		m.syncInput()
		m.log.Debug("note_opened")
		return m, noteTick()
	}
	return m, sendCmd(m.ctx, m.mgr, text)
}

// suggestionFor maps alt+1..alt+4 on an empty chat to a suggestion. It is
// not gated on connectivity: a suggestion picked while disconnected is
// sent and fails like any other message.
func (m Model) suggestionFor(msg tea.KeyMsg) (string, bool) {
	if !msg.Alt || len(m.state.Messages) > 0 || m.state.Pending {
		return "", false
	}
	return components.SuggestionAt(string(msg.Runes))
}

func (m *Model) toggleSelectedSources() {
	sel, ok := m.list.SelectedMessage(m.state.Messages)
	if !ok {
		return
	}
	m.list.ToggleSources(m.state.Messages, sel.ID)
	m.refresh(false)
}

func (m Model) setNotice(text string) (tea.Model, tea.Cmd) {
	m.noticeSeq++
	m.status.Notice = text
	return m, noticeTimeout(m.noticeSeq)
}

func (m Model) applyConfig(cfg *config.Config) (tea.Model, tea.Cmd) {
	if cfg == nil {
		return m, nil
	}
	ui := cfg.UI
	if ui.Theme != m.ui.Theme {
		m.theme = styles.NewTheme(ui.Theme)
	}
	if err := m.renderer.SetStyle(resolveMarkdownStyle(ui.MarkdownStyle, m.theme), ui.CodeStyle); err != nil {
		m.log.Warn("markdown_style_invalid", zap.String("style", ui.MarkdownStyle), zap.Error(err))
	}
	m.ui = ui
	m.buildComponents()
	m.refresh(false)
	m.log.Debug("config_reloaded", zap.String("theme", ui.Theme), zap.String("markdown_style", ui.MarkdownStyle))
	return m.setNotice("Settings reloaded")
}

// =============================================================================
// INPUT AND LAYOUT
// =============================================================================

func (m Model) inputEnabled() bool {
	return !m.showNote && m.state.CanSend()
}

// syncInput focuses the input when sending is possible and blurs it
// otherwise.
func (m *Model) syncInput() tea.Cmd {
	if m.inputEnabled() {
		if !m.input.Focused() {
			return m.input.Focus()
		}
		return nil
	}
	m.input.Blur()
	return nil
}

func (m *Model) layout() {
	m.theme.SetSize(m.width, m.height)
	m.header.SetWidth(m.width)
	m.header.SetStatus(m.state.Connected, m.state.MessageCount())
	m.list.SetWidth(m.width)
	m.empty.Width = m.width
	m.note.Width = m.width
	m.status.Width = m.width
	// Border (2) and padding (2).
	m.input.SetWidth(max(m.width-4, 10))

	wrap := max(styles.BubbleWidth(m.width)-4, 20)
	if m.ui.WordWrap > 0 {
		wrap = min(wrap, m.ui.WordWrap)
	}
	if err := m.renderer.SetWidth(wrap); err != nil {
		m.log.Debug("markdown_resize_failed", zap.Error(err))
	}

	used := lineCount(m.header.View()) + chromeHeight
	if m.state.ShowErrorBanner() {
		used++
	}
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-used, minViewport)
}

// refresh re-renders the viewport. With follow set, or when the view was
// already at the bottom, it scrolls to the newest message.
func (m *Model) refresh(follow bool) {
	atBottom := m.viewport.AtBottom()

	var content string
	if len(m.state.Messages) == 0 {
		content = m.empty.View()
	} else {
		content = m.list.View(m.state.Messages)
		if m.state.Pending {
			content += "\n\n" + m.typing.View()
		}
	}
	m.viewport.SetContent(content)
	if follow || atBottom {
		m.viewport.GotoBottom()
	}
}

func lineCount(s string) int {
	return strings.Count(s, "\n") + 1
}
