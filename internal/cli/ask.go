// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thaplubot/thaplubot-tui/internal/model"
	"github.com/thaplubot/thaplubot-tui/internal/shortcut"
)

// MaxStdinSize caps the question read from a pipe (64KB).
const MaxStdinSize = 64 * 1024

// errNoQuestion is returned when neither arguments nor stdin supply text.
var errNoQuestion = errors.New("no question given: pass it as arguments or pipe it on stdin")

type askOptions struct {
	json bool
}

// askResult is the --json output of ask.
type askResult struct {
	Success            bool           `json:"success"`
	Response           string         `json:"response"`
	Sources            []model.Source `json:"sources"`
	VerificationStatus string         `json:"verification_status,omitempty"`
	SessionID          string         `json:"session_id,omitempty"`
	Timestamp          string         `json:"timestamp,omitempty"`
	Error              string         `json:"error,omitempty"`
}

func newAskCommand(opts *rootOptions) *cobra.Command {
	ao := &askOptions{}
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one question and print the answer",
		Long: `Ask one question and print the answer. When stdin is a pipe its
content is appended to the question. Replies are rendered as markdown on
a terminal and printed raw otherwise.`,
		Example: `  thaplubot ask "best sushi in Tokyo?"
  cat notes.txt | thaplubot ask "summarize this"
  thaplubot ask --json "what is an API?" | jq .sources`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, opts, ao, args)
		},
	}
	cmd.Flags().BoolVar(&ao.json, "json", false, "print the reply as JSON")
	return cmd
}

func runAsk(cmd *cobra.Command, opts *rootOptions, ao *askOptions, args []string) error {
	question, err := readQuestion(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if shortcut.IsSecretNote(question) {
		fmt.Fprintln(out, shortcut.PlainNote())
		return nil
	}

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
	if st := mgr.Snapshot(); !st.Connected {
		if ao.json {
			_ = writeJSON(out, askResult{Error: st.LastError})
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render(st.LastError))
		}
		return &ExitError{Code: 1}
	}

	sendErr := mgr.SendMessage(ctx, question)
	st := mgr.Snapshot()
	reply, _ := lastBotMessage(st.Messages)

	if ao.json {
		res := askResult{
			Success:            sendErr == nil,
			Response:           reply.Content,
			Sources:            reply.Sources(),
			VerificationStatus: string(reply.Verification()),
			SessionID:          st.SessionID,
			Timestamp:          reply.Timestamp,
			Error:              st.LastError,
		}
		if res.Sources == nil {
			res.Sources = []model.Source{}
		}
		if err := writeJSON(out, res); err != nil {
			return err
		}
	} else if sendErr != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render(st.LastError))
	} else {
		writeReply(out, reply, newOutputRenderer(e.cfg, out))
	}

	if sendErr != nil {
		return &ExitError{Code: 1}
	}
	return nil
}

// readQuestion joins args and, when stdin is not a terminal, the piped
// input.
func readQuestion(in io.Reader, args []string) (string, error) {
	question := strings.TrimSpace(strings.Join(args, " "))

	if in != nil && !isTerminal(in) {
		data, err := io.ReadAll(io.LimitReader(in, MaxStdinSize))
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		if piped := strings.TrimSpace(string(data)); piped != "" {
			if question == "" {
				question = piped
			} else {
				question += "\n\n" + piped
			}
		}
	}

	if question == "" {
		return "", errNoQuestion
	}
	return question, nil
}
