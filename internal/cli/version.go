// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func newVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionLine(opts.build))
			fmt.Fprintf(cmd.OutOrStdout(), "  go:     %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}

// versionLine renders the --version output.
func versionLine(info BuildInfo) string {
	if info.Commit != "" && info.Commit != "unknown" {
		return fmt.Sprintf("thaplubot %s\n  commit: %s\n  built:  %s\n", info.Version, info.Commit, info.Date)
	}
	return fmt.Sprintf("thaplubot %s\n", info.Version)
}
