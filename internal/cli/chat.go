// Copyright (c) 2025-2026 yassine-work / Chatbot-v2 contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/yassine-work/Chatbot-v2/internal/config"
	"github.com/yassine-work/Chatbot-v2/internal/logging"
	"github.com/yassine-work/Chatbot-v2/internal/model"
	"github.com/yassine-work/Chatbot-v2/internal/reveal"
	"github.com/yassine-work/Chatbot-v2/internal/submit"
	"github.com/yassine-work/Chatbot-v2/internal/suggest"
	"github.com/yassine-work/Chatbot-v2/internal/ui/styles"
	"github.com/yassine-work/Chatbot-v2/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	assistantStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)
)

// =============================================================================
// COMMAND
// =============================================================================

type chatOptions struct {
	// instant prints replies at once instead of word by word.
	instant bool

	// in and out replace the terminal; used by tests.
	in  io.Reader
	out io.Writer
}

func chatCmd(flags *globalFlags) *cobra.Command {
	var opts chatOptions
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Line-mode chat with input history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.out = cmd.OutOrStdout()
			if cmd.InOrStdin() != os.Stdin {
				opts.in = cmd.InOrStdin()
			}
			return runChat(cmd, flags, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.instant, "instant", false, "print replies at once instead of word by word")
	return cmd
}

// =============================================================================
// INPUT
// =============================================================================

// lineReader reads one line of user input.
type lineReader interface {
	ReadInput(prompt string) (string, error)
	Close()
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads the saved history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{line: line, historyFile: filepath.Join(dir, "chat_history")}
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
	return c
}

// ReadInput reads a line with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with owner-only permissions and restores the terminal.
func (c *ChatCLI) Close() {
	var buf strings.Builder
	if _, err := c.line.WriteHistory(&buf); err == nil {
		_ = util.AtomicWriteFile(c.historyFile, []byte(buf.String()), 0o600)
	}
	c.line.Close()
}

// plainReader reads lines from a non-terminal source.
type plainReader struct {
	scanner *bufio.Scanner
}

func newPlainReader(r io.Reader) *plainReader {
	return &plainReader{scanner: bufio.NewScanner(r)}
}

func (p *plainReader) ReadInput(string) (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

func (p *plainReader) Close() {}

// =============================================================================
// REVEAL OUTPUT
// =============================================================================

// revealPrinter writes each newly revealed word as it is published.
type revealPrinter struct {
	mu      sync.Mutex
	out     io.Writer
	printed map[model.CorrelationID]string
	updates chan struct{}
}

func newRevealPrinter(out io.Writer) *revealPrinter {
	return &revealPrinter{
		out:     out,
		printed: make(map[model.CorrelationID]string),
		updates: make(chan struct{}, 1),
	}
}

// publish is the scheduler's PublishFunc. Prefixes only grow, so only the
// new tail is written.
func (p *revealPrinter) publish(id model.CorrelationID, prefix string) {
	p.mu.Lock()
	prev := p.printed[id]
	if len(prefix) > len(prev) && strings.HasPrefix(prefix, prev) {
		fmt.Fprint(p.out, prefix[len(prev):])
		p.printed[id] = prefix
	}
	p.mu.Unlock()

	select {
	case p.updates <- struct{}{}:
	default:
	}
}

// write prints text outside of any reveal.
func (p *revealPrinter) write(text string) {
	p.mu.Lock()
	fmt.Fprint(p.out, text)
	p.mu.Unlock()
}

// finish prints whatever part of final is still unrevealed.
func (p *revealPrinter) finish(id model.CorrelationID, final string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.printed[id]
	if strings.HasPrefix(final, prev) {
		fmt.Fprint(p.out, final[len(prev):])
	}
	p.printed[id] = final
}

// wait blocks until final has been printed for id.
func (p *revealPrinter) wait(ctx context.Context, id model.CorrelationID, final string) error {
	for {
		p.mu.Lock()
		cur := p.printed[id]
		p.mu.Unlock()
		if cur == final {
			return nil
		}
		select {
		case <-p.updates:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// =============================================================================
// SESSION
// =============================================================================

type chatSession struct {
	flow      *submit.Flow
	scheduler *reveal.Scheduler
	picker    *suggest.Picker
	printer   *revealPrinter
	logger    *logging.Logger
	out       io.Writer
	started   time.Time
}

func runChat(cmd *cobra.Command, flags *globalFlags, opts chatOptions) error {
	a, err := newApp(flags, false)
	if err != nil {
		return err
	}
	defer a.close()

	out := opts.out
	if out == nil {
		out = cmd.OutOrStdout()
	}
	setupColorProfile()

	var input lineReader
	switch {
	case opts.in != nil:
		input = newPlainReader(opts.in)
	case IsTTY():
		input = NewChatCLI()
	default:
		input = newPlainReader(os.Stdin)
	}
	defer input.Close()

	s := newChatSession(a, out, opts.instant)
	defer s.close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s.printWelcome(a.cfg.Responder.Endpoint)
	for {
		line, err := input.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C, Ctrl+D and end of input all end the session.
			if !errors.Is(err, liner.ErrPromptAborted) && !errors.Is(err, io.EOF) {
				a.logger.Warn("input failed", "error", err)
			}
			s.printExitSummary()
			return nil
		}

		// Trimmed text decides emptiness and commands; messages go out as typed.
		line = strings.TrimRight(line, "\r\n")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "/") || strings.EqualFold(trimmed, "exit") || strings.EqualFold(trimmed, "quit") {
			if !s.handleCommand(ctx, trimmed) {
				s.printExitSummary()
				return nil
			}
			continue
		}
		s.send(ctx, line)
	}
}

func newChatSession(a *app, out io.Writer, instant bool) *chatSession {
	s := &chatSession{
		flow: submit.New(submit.Options{
			Responder: a.responder(),
			Logger:    a.logger,
			Notifier: submit.NotifierFunc(func(msg string) {
				fmt.Fprintln(out, styles.RenderWarning(msg))
			}),
		}),
		picker:  suggest.NewPicker(a.cfg.Suggestions),
		printer: newRevealPrinter(out),
		logger:  a.logger,
		out:     out,
		started: time.Now(),
	}
	if !a.cfg.UI.ShowSuggestions {
		s.picker.Hide()
	}
	if !instant {
		s.scheduler = reveal.New(reveal.Options{
			Interval: a.revealInterval(),
			Publish:  s.printer.publish,
			Logger:   a.logger,
		})
		s.flow.OnChange(func(msgs []model.Message) {
			s.scheduler.OnMessagesChanged(msgs)
		})
	}
	return s
}

func (s *chatSession) close() {
	s.flow.Dispose()
	if s.scheduler != nil {
		s.scheduler.Dispose()
	}
}

// send submits text and prints the reply, word by word unless instant.
func (s *chatSession) send(ctx context.Context, text string) {
	s.picker.Hide()

	reqCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	// The label goes out first; reveal timers start as soon as the reply lands.
	s.printer.write(assistantStyle.Render("assistant> "))
	reply, ok := s.flow.Submit(reqCtx, text)
	if !ok {
		s.printer.write("\n")
		return
	}

	final := strings.Join(strings.Fields(reply.Content), " ")
	claimed := false
	if s.scheduler != nil && final != "" {
		_, claimed = s.scheduler.Revealed(reply.ID)
	}
	if !claimed {
		s.printer.write(reply.Content + "\n")
		return
	}

	if err := s.printer.wait(reqCtx, reply.ID, final); err != nil {
		// Interrupted mid-reveal: show the rest at once.
		s.scheduler.Dispose()
		s.printer.finish(reply.ID, final)
		s.restartScheduler()
	}
	s.printer.write("\n")
}

// restartScheduler replaces a disposed scheduler so later replies animate.
// The flow observer reads s.scheduler on each call and picks it up.
func (s *chatSession) restartScheduler() {
	s.scheduler = reveal.New(reveal.Options{
		Interval: s.scheduler.Interval(),
		Publish:  s.printer.publish,
		Logger:   s.logger,
	})
}

// handleCommand runs a slash command. It returns false to end the session.
func (s *chatSession) handleCommand(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case "/exit", "/quit", "exit", "quit":
		return false

	case "/help":
		s.printHelp()

	case "/suggestions":
		s.printSuggestions()

	case "/pick":
		if len(fields) < 2 {
			fmt.Fprintln(s.out, styles.RenderError("usage: /pick N"))
			return true
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Fprintln(s.out, styles.RenderError("not a number: "+fields[1]))
			return true
		}
		action, ok := s.picker.Select(n - 1)
		if !ok {
			fmt.Fprintln(s.out, styles.RenderError("no such suggestion"))
			return true
		}
		fmt.Fprintln(s.out, promptStyle.Render("you> ")+action)
		s.send(ctx, action)

	default:
		fmt.Fprintln(s.out, styles.RenderError("unknown command: "+fields[0]+" (try /help)"))
	}
	return true
}

// =============================================================================
// OUTPUT
// =============================================================================

func (s *chatSession) printWelcome(endpoint string) {
	fmt.Fprintln(s.out, welcomeStyle.Render("Carbon Jar assistant"))
	fmt.Fprintln(s.out, infoStyle.Render("Connected to "+endpoint+". Type /help for commands."))
	s.printSuggestions()
}

func (s *chatSession) printSuggestions() {
	items := s.picker.Items()
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(s.out)
	for i, item := range items {
		fmt.Fprintf(s.out, "  %s %s %s\n",
			commandStyle.Render(fmt.Sprintf("/pick %d", i+1)),
			item.Title,
			infoStyle.Render("("+item.Label+")"))
	}
	fmt.Fprintln(s.out)
}

func (s *chatSession) printHelp() {
	fmt.Fprintln(s.out, welcomeStyle.Render("Commands"))
	fmt.Fprintf(s.out, "  %s  list suggested questions\n", commandStyle.Render("/suggestions"))
	fmt.Fprintf(s.out, "  %s       ask suggested question N\n", commandStyle.Render("/pick N"))
	fmt.Fprintf(s.out, "  %s          leave the chat\n", commandStyle.Render("/exit"))
}

func (s *chatSession) printExitSummary() {
	exchanges := s.flow.Transcript().Len() / 2
	if exchanges == 0 {
		fmt.Fprintln(s.out, infoStyle.Render("Goodbye!"))
		return
	}
	elapsed := time.Since(s.started).Round(time.Second)
	fmt.Fprintln(s.out, infoStyle.Render(fmt.Sprintf("Goodbye! %d exchanges in %s.", exchanges, elapsed)))
}
