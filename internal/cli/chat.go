// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/thaplubot/thaplubot-tui/internal/config"
	"github.com/thaplubot/thaplubot-tui/internal/conversation"
	"github.com/thaplubot/thaplubot-tui/internal/shortcut"
	"github.com/thaplubot/thaplubot-tui/internal/ui/components"
	"github.com/thaplubot/thaplubot-tui/internal/ui/styles"
)

// linePrompt is plain text: liner measures the prompt and cannot skip
// escape sequences.
const linePrompt = "you> "

func newChatCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat in line mode with input history",
		Long: `Chat without the full-screen interface. Arrow keys browse earlier
input. Commands:

  /sources [N]   list the sources of the last (or Nth) reply
  /status        show connection and session details
  /clear         start a new conversation
  /help          show this list
  /quit          leave (also Ctrl+D)

Start a line with // to send a question that begins with a slash.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
	}
}

func runChat(cmd *cobra.Command, opts *rootOptions) error {
	e, err := opts.setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	ctx := cmd.Context()
	recorder, closeStore := e.openRecorder()
	defer closeStore()

	mgr := e.newManager(recorder)
	defer mgr.Close()
	mgr.CheckConnectivity(ctx)

	out := cmd.OutOrStdout()
	r := &repl{
		mgr:     mgr,
		out:     out,
		render:  newOutputRenderer(e.cfg, out),
		baseURL: e.cfg.API.BaseURL,
	}
	r.banner()

	line := newLineReader()
	defer line.Close()

	for ctx.Err() == nil {
		input, err := line.Prompt(linePrompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if r.handle(ctx, input) {
			return nil
		}
	}
	return nil
}

// =============================================================================
// LINE EDITOR
// =============================================================================

// lineReader wraps liner with a persistent history file.
type lineReader struct {
	*liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	lr := &lineReader{State: line}
	if path, err := config.ReplHistoryPath(); err == nil {
		lr.historyFile = path
		if f, err := os.Open(path); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	return lr
}

// Close saves the history with owner-only permissions and restores the
// terminal.
func (l *lineReader) Close() error {
	if l.historyFile != "" && config.EnsureConfigDir() == nil {
		if f, err := os.OpenFile(l.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = l.WriteHistory(f)
			f.Close()
		}
	}
	return l.State.Close()
}

// =============================================================================
// REPL
// =============================================================================

// repl executes one line of input at a time against a manager.
type repl struct {
	mgr     *conversation.Manager
	out     io.Writer
	render  func(string) string
	baseURL string
}

func (r *repl) banner() {
	fmt.Fprintln(r.out, TitleStyle.Render(components.Greeting))
	fmt.Fprintln(r.out, DimStyle.Render("Type a question, /help for commands, /quit to leave."))
	if st := r.mgr.Snapshot(); !st.Connected {
		fmt.Fprintln(r.out, ErrorStyle.Render(styles.StatusIndicators.Error+" "+st.LastError))
	}
	fmt.Fprintln(r.out)
}

// handle processes one line and reports whether the session should end.
func (r *repl) handle(ctx context.Context, input string) bool {
	text := strings.TrimSpace(input)
	switch {
	case text == "":
		return false
	case shortcut.IsSecretNote(text):
		fmt.Fprintln(r.out, shortcut.PlainNote())
		return false
	case strings.HasPrefix(text, "//"):
		text = text[1:]
	case strings.HasPrefix(text, "/"):
		return r.command(ctx, text)
	}
	r.send(ctx, text)
	return false
}

func (r *repl) command(ctx context.Context, text string) bool {
	fields := strings.Fields(text)
	switch strings.ToLower(fields[0]) {
	case "/quit", "/exit", "/q":
		return true
	case "/help", "/h", "/?":
		r.help()
	case "/clear", "/c":
		r.mgr.ClearChat(ctx)
		fmt.Fprintln(r.out, SuccessStyle.Render("Conversation cleared."))
	case "/sources", "/s":
		r.sources(fields[1:])
	case "/status":
		r.status()
	default:
		fmt.Fprintf(r.out, "%s unknown command %s, try /help (start with // to send it as a question)\n", WarningStyle.Render(styles.StatusIndicators.Error), fields[0])
	}
	return false
}

func (r *repl) help() {
	for _, c := range [][2]string{
		{"/sources [N]", "sources of the last (or Nth) reply"},
		{"/status", "connection and session details"},
		{"/clear", "start a new conversation"},
		{"/quit", "leave"},
		{"//text", "send text starting with /"},
	} {
		fmt.Fprintln(r.out, renderField(c[0], c[1]))
	}
}

func (r *repl) sources(args []string) {
	replies := botMessages(r.mgr.Snapshot().Messages)
	if len(replies) == 0 {
		fmt.Fprintln(r.out, DimStyle.Render("No replies yet."))
		return
	}
	msg := replies[len(replies)-1]
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > len(replies) {
			fmt.Fprintf(r.out, "%s pick a reply between 1 and %d\n", WarningStyle.Render(styles.StatusIndicators.Error), len(replies))
			return
		}
		msg = replies[n-1]
	}
	writeSources(r.out, msg)
}

func (r *repl) status() {
	st := r.mgr.Snapshot()
	conn := SuccessStyle.Render(styles.StatusIndicators.Connected + " " + components.ConnectionLabel(true))
	if !st.Connected {
		conn = ErrorStyle.Render(styles.StatusIndicators.Disconnected + " " + components.ConnectionLabel(false))
	}
	session := st.SessionID
	if session == "" {
		session = "(none)"
	}
	fmt.Fprintln(r.out, renderField("Backend", r.baseURL))
	fmt.Fprintln(r.out, renderField("Status", conn))
	fmt.Fprintln(r.out, renderField("Session", session))
	fmt.Fprintln(r.out, renderField("Messages", strconv.Itoa(st.MessageCount())))
	if st.HasError() {
		fmt.Fprintln(r.out, renderField("Last error", st.LastError))
	}
}

// send asks the backend. A disconnected manager is probed once more first
// so the line-mode chat recovers without the background probe.
func (r *repl) send(ctx context.Context, text string) {
	if !r.mgr.Snapshot().Connected {
		r.mgr.CheckConnectivity(ctx)
		if st := r.mgr.Snapshot(); !st.Connected {
			fmt.Fprintln(r.out, ErrorStyle.Render(styles.StatusIndicators.Error+" "+st.LastError))
			return
		}
	}

	fmt.Fprintln(r.out, DimStyle.Render(components.ThinkingLabel+"..."))
	err := r.mgr.SendMessage(ctx, text)

	st := r.mgr.Snapshot()
	if reply, ok := lastBotMessage(st.Messages); ok {
		writeReply(r.out, reply, r.render)
	}
	if err != nil && st.HasError() {
		fmt.Fprintln(r.out, ErrorStyle.Render(styles.StatusIndicators.Error+" "+st.LastError))
	}
	fmt.Fprintln(r.out)
}
