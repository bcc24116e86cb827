// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yassine-work/Chatbot-v2/internal/submit"
)

// AskResult is the --json output of the ask command.
type AskResult struct {
	Query    string `json:"query"`
	Response string `json:"response"`
	Error    bool   `json:"error"`
}

// errReplyFailed marks a reply that carries an error message. The message
// itself has already been printed.
var errReplyFailed = errors.New("reply failed")

func askCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, flags, strings.Join(args, " "), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func runAsk(cmd *cobra.Command, flags *globalFlags, query string, asJSON bool) error {
	a, err := newApp(flags, false)
	if err != nil {
		return err
	}
	defer a.close()

	flow := submit.New(submit.Options{Responder: a.responder(), Logger: a.logger})
	defer flow.Dispose()

	reply, ok := flow.Submit(cmd.Context(), query)
	if !ok {
		return errors.New("nothing to ask")
	}

	failed := strings.HasPrefix(reply.Content, submit.ErrorPrefix)
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(AskResult{Query: query, Response: reply.Content, Error: failed}); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, reply.Content)
	}

	if failed {
		cmd.SilenceErrors = true
		return errReplyFailed
	}
	return nil
}
