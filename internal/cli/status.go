// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/thaplubot/thaplubot-tui/internal/ui/components"
	"github.com/thaplubot/thaplubot-tui/internal/ui/styles"
)

// statusResult is the --json output of status.
type statusResult struct {
	APIURL    string `json:"api_url"`
	Connected bool   `json:"connected"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
	Config    string `json:"config"`
	History   bool   `json:"history"`
	Saved     int    `json:"saved_conversations"`
}

func newStatusCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check whether the backend is reachable",
		Long: `Probe the backend once and print the result. The exit code is 1
when the backend cannot be reached, so the command works in scripts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, opts, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func runStatus(cmd *cobra.Command, opts *rootOptions, asJSON bool) error {
	e, err := opts.setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	mgr := e.newManager(nil)
	defer mgr.Close()

	start := time.Now()
	mgr.CheckConnectivity(cmd.Context())
	latency := time.Since(start)
	st := mgr.Snapshot()

	res := statusResult{
		APIURL:    e.cfg.API.BaseURL,
		Connected: st.Connected,
		LatencyMS: latency.Milliseconds(),
		Error:     st.LastError,
		Config:    e.configPath,
		History:   e.cfg.History.Enabled,
	}
	if res.History {
		if store, err := e.openStore(); err == nil {
			if metas, err := store.List(); err == nil {
				res.Saved = len(metas)
			}
			store.Close()
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if err := writeJSON(out, res); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, TitleStyle.Render(components.HeaderTitle+" status"))
		fmt.Fprintln(out, renderSeparator(40))
		fmt.Fprintln(out, renderField("API URL", res.APIURL))
		if res.Connected {
			fmt.Fprintln(out, renderField("Backend", SuccessStyle.Render(styles.StatusIndicators.Connected+" "+components.ConnectionLabel(true))+
				DimStyle.Render(fmt.Sprintf(" (%dms)", res.LatencyMS))))
		} else {
			fmt.Fprintln(out, renderField("Backend", ErrorStyle.Render(styles.StatusIndicators.Disconnected+" "+components.ConnectionLabel(false))))
			fmt.Fprintln(out, renderField("Error", res.Error))
		}

		cfgNote := res.Config
		if _, err := os.Stat(res.Config); err != nil {
			cfgNote += DimStyle.Render(" (not found, using defaults)")
		}
		fmt.Fprintln(out, renderField("Config", cfgNote))

		if res.History {
			fmt.Fprintln(out, renderField("History", fmt.Sprintf("enabled, %s saved", humanize.Comma(int64(res.Saved)))))
		} else {
			fmt.Fprintln(out, renderField("History", "disabled"))
		}
	}

	if !res.Connected {
		return &ExitError{Code: 1}
	}
	return nil
}
