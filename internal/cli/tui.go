// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/yassine-work/Chatbot-v2/internal/config"
	"github.com/yassine-work/Chatbot-v2/internal/ui/chat"
)

func tuiCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the full-screen chat interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}
}

// runTUI runs the Bubble Tea program until the user quits. Edits to the
// config file are applied while it runs.
func runTUI(cmd *cobra.Command, flags *globalFlags) error {
	if !Interactive() {
		return errors.New("the chat interface needs a terminal; use 'chatbot chat' for line mode")
	}

	a, err := newApp(flags, false)
	if err != nil {
		return err
	}
	defer a.close()

	bridge := chat.NewBridge()
	m := chat.New(chat.Options{
		Config:    a.cfg,
		Responder: a.responder(),
		Logger:    a.logger,
		Bridge:    bridge,
	})
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	bridge.Attach(p.Send)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if a.cfgPath != "" {
		if _, statErr := os.Stat(a.cfgPath); statErr == nil {
			go watchConfig(ctx, a, bridge)
		}
	}

	a.logger.Info("tui starting", "endpoint", a.cfg.Responder.Endpoint)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("chat interface failed: %w", err)
	}
	return nil
}

// watchConfig forwards config reloads to the running program. Flag
// overrides from this run are kept.
func watchConfig(ctx context.Context, a *app, bridge *chat.Bridge) {
	err := config.Watch(ctx, a.cfgPath,
		func(cfg *config.Config) {
			if err := applyFlags(cfg, a.flags); err != nil {
				bridge.Send(chat.ConfigErrorMsg{Err: err})
				return
			}
			bridge.Send(chat.ConfigReloadMsg{Config: cfg})
		},
		func(err error) {
			a.logger.Warn("config reload failed", "error", err)
			bridge.Send(chat.ConfigErrorMsg{Err: err})
		},
	)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Warn("config watch stopped", "error", err)
	}
}
