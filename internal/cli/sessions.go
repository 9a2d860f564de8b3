// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/thaplubot/thaplubot-tui/internal/storage"
	"github.com/thaplubot/thaplubot-tui/internal/util"
)

// DefaultSearchLimit caps `sessions search` results.
const DefaultSearchLimit = 20

func newSessionsCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session", "history"},
		Short:   "Manage saved conversations",
		Long: `Saved conversations are written after every reply when history is
enabled. A conversation is referenced by its list position, its id, or
a unique id prefix.`,
	}
	cmd.AddCommand(
		newSessionsListCommand(opts),
		newSessionsShowCommand(opts),
		newSessionsSearchCommand(opts),
		newSessionsDeleteCommand(opts),
		newSessionsExportCommand(opts),
		newSessionsReindexCommand(opts),
	)
	return cmd
}

// withStore runs fn with the transcript store open.
func withStore(cmd *cobra.Command, opts *rootOptions, fn func(*env, *storage.Store) error) error {
	e, err := opts.setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	store, err := e.openStore()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()
	return fn(e, store)
}

func newSessionsListCommand(opts *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved conversations, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(_ *env, store *storage.Store) error {
				metas, err := store.List()
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), nonNilMetas(metas))
				}
				fmt.Fprint(cmd.OutOrStdout(), storage.FormatList(metas, time.Now()))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newSessionsShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ref>",
		Short: "Print a saved conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(e *env, store *storage.Store) error {
				conv, err := store.Resolve(args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				render := newOutputRenderer(e.cfg, out)
				fmt.Fprintln(out, strings.TrimRight(render(storage.ExportMarkdown(conv)), "\n"))
				return nil
			})
		},
	}
}

func newSessionsSearchCommand(opts *rootOptions) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search titles, messages and sources",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(_ *env, store *storage.Store) error {
				metas, err := store.Search(strings.Join(args, " "), limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), nonNilMetas(metas))
				}
				if len(metas) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No matching conversations.")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), storage.FormatList(metas, time.Now()))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", DefaultSearchLimit, "maximum results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newSessionsDeleteCommand(opts *rootOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "delete <ref>...",
		Aliases: []string{"rm"},
		Short:   "Delete saved conversations",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return errors.New("--all takes no arguments")
			}
			if !all && len(args) == 0 {
				return errors.New("give at least one conversation, or --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(_ *env, store *storage.Store) error {
				out := cmd.OutOrStdout()
				if all {
					if err := store.Clear(); err != nil {
						return err
					}
					fmt.Fprintln(out, SuccessStyle.Render("Deleted all conversations."))
					return nil
				}

				// Resolve everything first: positions shift once deletions start.
				var ids []string
				for _, ref := range args {
					conv, err := store.Resolve(ref)
					if err != nil {
						return err
					}
					ids = append(ids, conv.ID)
				}
				for _, id := range ids {
					if err := store.Delete(id); err != nil {
						return err
					}
					fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render("Deleted"), id)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "delete every saved conversation")
	return cmd
}

func newSessionsExportCommand(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export <ref>",
		Short: "Export a conversation as markdown, JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(_ *env, store *storage.Store) error {
				conv, err := store.Resolve(args[0])
				if err != nil {
					return err
				}
				data, err := storage.Export(conv, format)
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := util.AtomicWriteFile(output, data, 0600); err != nil {
					return fmt.Errorf("failed to write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", SuccessStyle.Render("Exported to"), output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", storage.FormatMarkdown, "md, json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func newSessionsReindexCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the saved files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, opts, func(_ *env, store *storage.Store) error {
				if err := store.Reindex(); err != nil {
					return fmt.Errorf("failed to rebuild index: %w", err)
				}
				metas, err := store.List()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s conversations\n",
					SuccessStyle.Render("Reindexed"), humanize.Comma(int64(len(metas))))
				return nil
			})
		},
	}
}

func nonNilMetas(metas []storage.Meta) []storage.Meta {
	if metas == nil {
		return []storage.Meta{}
	}
	return metas
}
