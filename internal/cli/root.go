// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/spf13/cobra"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	endpoint   string
	intervalMs int
	logFile    string
	debug      bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "chatbot",
		Short: "Terminal chat client for the Carbon Jar assistant",
		Long: "chatbot sends your questions to a chat endpoint and reveals the\n" +
			"replies word by word. Without a subcommand it starts the full-screen\n" +
			"interface, or line mode when stdin or stdout is not a terminal.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if Interactive() {
				return runTUI(cmd, flags)
			}
			return runChat(cmd, flags, chatOptions{})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "path to config file (default: ~/.chatbot/config.toml)")
	pf.StringVar(&flags.endpoint, "endpoint", "", "chat endpoint URL")
	pf.IntVar(&flags.intervalMs, "interval", 0, "reveal interval per word in milliseconds")
	pf.StringVar(&flags.logFile, "log-file", "", "log file path")
	pf.BoolVar(&flags.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		tuiCmd(flags),
		chatCmd(flags),
		askCmd(flags),
		serveCmd(flags),
		configCmd(flags),
		versionCmd(),
	)
	return root
}

// Execute runs the command line.
func Execute() error {
	return NewRootCommand().Execute()
}
