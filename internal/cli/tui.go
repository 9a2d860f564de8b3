// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thaplubot/thaplubot-tui/internal/config"
	"github.com/thaplubot/thaplubot-tui/internal/ui/chat"
)

// runTUI opens the full-screen chat.
func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	e, err := opts.setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	recorder, closeStore := e.openRecorder()
	defer closeStore()

	mgr := e.newManager(recorder)
	mgr.Start(ctx)
	defer mgr.Close()

	e.log.Info("tui_start",
		zap.String("version", opts.build.Version),
		zap.String("api_url", e.cfg.API.BaseURL),
		zap.Bool("history", recorder != nil),
	)

	m := chat.New(chat.Options{
		Context: ctx,
		Manager: mgr,
		Config:  e.cfg,
		Logger:  e.log,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	watchConfig(ctx, e, func(cfg *config.Config) {
		p.Send(chat.ConfigReloadedMsg{Config: cfg})
	})

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	e.log.Info("tui_exit")
	return nil
}

// watchConfig reloads the config file in the background until ctx is done.
// Only UI settings of the reloaded config are applied by the receiver.
func watchConfig(ctx context.Context, e *env, onChange func(*config.Config)) {
	if err := config.EnsureConfigDir(); err != nil {
		e.log.Warn("config_watch_disabled", zap.Error(err))
		return
	}
	w, err := config.NewWatcher(e.configPath)
	if err != nil {
		e.log.Warn("config_watch_disabled", zap.Error(err))
		return
	}
	go w.Run(ctx, func(cfg *config.Config) {
		e.log.Info("config_reloaded", zap.String("path", e.configPath))
		onChange(cfg)
	}, func(err error) {
		e.log.Warn("config_reload_failed", zap.Error(err))
	})
}
