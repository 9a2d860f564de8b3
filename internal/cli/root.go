// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thaplubot/thaplubot-tui/internal/api"
	"github.com/thaplubot/thaplubot-tui/internal/config"
	"github.com/thaplubot/thaplubot-tui/internal/conversation"
	"github.com/thaplubot/thaplubot-tui/internal/logging"
	"github.com/thaplubot/thaplubot-tui/internal/storage"
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// ExitError ends the process with Code. The command has already told the
// user what went wrong.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	apiURL     string
	debug      bool

	build BuildInfo
}

// Execute runs the command line and returns the process exit code.
func Execute(info BuildInfo) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCommand(info)
	if err := cmd.ExecuteContext(ctx); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	if info.Version == "" {
		info.Version = "dev"
	}
	opts := &rootOptions{build: info}

	cmd := &cobra.Command{
		Use:   "thaplubot",
		Short: "Terminal client for the ThapluBot assistant",
		Long: `ThapluBot answers questions with web search and multi-source
verification. Run without arguments to open the chat; use the
subcommands for scripting and transcript management.`,
		Args: cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			lipgloss.SetColorProfile(colorProfile(cmd.OutOrStdout()))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate(versionLine(info))

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default ~/.thaplubot/config.toml)")
	pf.StringVar(&opts.apiURL, "api-url", "", "backend base URL, overrides the config for this run")
	pf.BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newChatCommand(opts),
		newAskCommand(opts),
		newStatusCommand(opts),
		newSessionsCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(opts),
	)
	return cmd
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// env is what a command needs to talk to the backend.
type env struct {
	cfg        *config.Config
	configPath string
	log        *zap.Logger
	closeLog   func() error
	userAgent  string
}

// setup loads the configuration, applies the persistent flags and opens
// the log file. Logging failures are reported on errOut and otherwise
// ignored.
func (o *rootOptions) setup(errOut io.Writer) (*env, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(o.apiURL), "/")
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid --api-url: %w", err)
		}
	}
	if o.debug {
		cfg.Log.Level = "debug"
	}

	path, err := o.resolveConfigPath()
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:        cfg,
		configPath: path,
		log:        zap.NewNop(),
		closeLog:   func() error { return nil },
		userAgent:  "thaplubot/" + o.build.Version,
	}

	logPath, err := cfg.LogPath()
	if err == nil {
		e.log, e.closeLog, err = logging.New(logging.Options{Level: cfg.Log.Level, Path: logPath})
	}
	if err != nil {
		fmt.Fprintln(errOut, WarningStyle.Render("Warning:"), "logging disabled:", err)
	}
	return e, nil
}

func (e *env) close() {
	_ = e.closeLog()
}

// newClient returns an API client configured from the environment.
func (e *env) newClient() *api.Client {
	return api.NewClient(e.cfg.API.BaseURL).
		WithTimeout(e.cfg.API.Timeout.Std()).
		WithRateLimit(e.cfg.API.RateLimit, e.cfg.API.RateBurst).
		WithUserAgent(e.userAgent).
		WithLogger(e.log)
}

// openStore opens the transcript store.
func (e *env) openStore() (*storage.Store, error) {
	dir, err := e.cfg.HistoryDir()
	if err != nil {
		return nil, err
	}
	return storage.Open(dir, e.cfg.History.MaxConversations)
}

// openRecorder returns a transcript recorder when history is enabled. The
// returned close function is always safe to call.
func (e *env) openRecorder() (conversation.Recorder, func()) {
	if !e.cfg.History.Enabled {
		return nil, func() {}
	}
	store, err := e.openStore()
	if err != nil {
		e.log.Warn("history_disabled", zap.Error(err))
		return nil, func() {}
	}
	return storage.NewRecorder(store), func() { _ = store.Close() }
}

// newManager creates a conversation manager over a fresh client.
func (e *env) newManager(recorder conversation.Recorder) *conversation.Manager {
	return conversation.New(e.newClient(), conversation.Config{
		HealthInterval: e.cfg.API.HealthInterval.Std(),
		SingleFlight:   e.cfg.API.SingleFlight,
		Logger:         e.log,
		Recorder:       recorder,
	})
}
