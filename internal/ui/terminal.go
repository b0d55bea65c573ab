package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// CancelWord aborts any prompt.
const CancelWord = "/cancel"

// ClearWord answers a prefilled input with an empty value.
const ClearWord = "/clear"

var (
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#005F87", Dark: "#8BE9FD"})
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5555"}).Bold(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	linkStyle   = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39"))
)

// TerminalOption customizes a Terminal.
type TerminalOption func(*Terminal)

// WithCopyLinks copies every link shown to the system clipboard.
func WithCopyLinks(enabled bool) TerminalOption {
	return func(t *Terminal) { t.copyLinks = enabled }
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(write func(string) error) TerminalOption {
	return func(t *Terminal) { t.writeClipboard = write }
}

// Terminal implements UI on a line-oriented reader and writer.
// EOF or the CancelWord cancels a prompt.
type Terminal struct {
	mu             sync.Mutex
	in             *bufio.Reader
	out            io.Writer
	copyLinks      bool
	writeClipboard func(string) error

	// tty is set when in is an interactive terminal; passwords are then read
	// from fd with echo off.
	tty          bool
	fd           uintptr
	readPassword func(fd uintptr) ([]byte, error)
}

// NewTerminal creates a Terminal.
func NewTerminal(in io.Reader, out io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		in:             bufio.NewReader(in),
		out:            out,
		writeClipboard: clipboard.WriteAll,
		readPassword:   term.ReadPassword,
	}
	if f, ok := in.(interface{ Fd() uintptr }); ok && term.IsTerminal(f.Fd()) {
		t.tty = true
		t.fd = f.Fd()
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetCopyLinks toggles clipboard copying at runtime.
func (t *Terminal) SetCopyLinks(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.copyLinks = enabled
}

// ReadLine prints prompt and reads one line without the trailing newline.
// It returns io.EOF when input is exhausted.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	t.mu.Lock()
	if prompt != "" {
		_, _ = fmt.Fprint(t.out, promptStyle.Render(prompt))
	}
	t.mu.Unlock()

	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *Terminal) ask(ctx context.Context, prompt string) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	line, err := t.ReadLine(prompt)
	if err != nil {
		if err != io.EOF {
			slog.Debug("Prompt read failed", slog.String("error", err.Error()))
		}
		return "", false
	}
	if strings.TrimSpace(line) == CancelWord {
		return "", false
	}
	return line, true
}

// Input implements Prompter.
func (t *Terminal) Input(ctx context.Context, opts InputOptions) (string, bool) {
	label := opts.Prompt
	if label == "" {
		label = opts.Placeholder
	}
	if opts.Value != "" {
		t.println(hintStyle.Render("current: " + opts.Value + " (empty keeps it, " + ClearWord + " empties it)"))
	}
	line, ok := t.ask(ctx, label+": ")
	if !ok {
		return "", false
	}
	switch {
	case strings.TrimSpace(line) == ClearWord:
		return "", true
	case line == "" && opts.Value != "":
		return opts.Value, true
	}
	return line, true
}

// Password implements Prompter. On an interactive terminal the answer is not
// echoed; piped input is read as a plain line.
func (t *Terminal) Password(ctx context.Context, prompt string) (string, bool) {
	if !t.tty || t.in.Buffered() > 0 {
		return t.ask(ctx, prompt+": ")
	}
	if ctx.Err() != nil {
		return "", false
	}

	t.mu.Lock()
	_, _ = fmt.Fprint(t.out, promptStyle.Render(prompt+" (input hidden): "))
	t.mu.Unlock()
	raw, err := t.readPassword(t.fd)
	t.println("")
	if err != nil {
		slog.Debug("Password read failed", slog.String("error", err.Error()))
		return "", false
	}
	answer := strings.TrimRight(string(raw), "\r\n")
	if strings.TrimSpace(answer) == CancelWord {
		return "", false
	}
	return answer, true
}

// QuickPick implements Prompter by listing items with 1-based numbers.
func (t *Terminal) QuickPick(ctx context.Context, placeholder string, items []PickItem) (int, bool) {
	if len(items) == 0 {
		t.Warn("Nothing to pick from")
		return 0, false
	}
	t.println(promptStyle.Render(placeholder))
	for i, item := range items {
		line := fmt.Sprintf("  %d) %s", i+1, item.Label)
		if item.Detail != "" {
			line += " " + hintStyle.Render(item.Detail)
		}
		t.println(line)
	}
	for {
		answer, ok := t.ask(ctx, "> ")
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(answer))
		if err == nil && n >= 1 && n <= len(items) {
			return n - 1, true
		}
		t.println(hintStyle.Render(fmt.Sprintf("enter a number between 1 and %d, or %s", len(items), CancelWord)))
	}
}

// Info implements Notifier.
func (t *Terminal) Info(msg string) { t.println(infoStyle.Render(msg)) }

// Warn implements Notifier.
func (t *Terminal) Warn(msg string) { t.println(warnStyle.Render("warning: ") + msg) }

// Error implements Notifier.
func (t *Terminal) Error(msg string) { t.println(errorStyle.Render("error: ") + msg) }

// Link implements Notifier.
func (t *Terminal) Link(msg, url string) {
	t.println(infoStyle.Render(msg) + " " + linkStyle.Render(url))

	t.mu.Lock()
	copyLinks := t.copyLinks
	t.mu.Unlock()
	if !copyLinks {
		return
	}
	if err := t.writeClipboard(url); err != nil {
		slog.Warn("Could not copy link to clipboard", slog.String("error", err.Error()))
		return
	}
	t.println(hintStyle.Render("(link copied to clipboard)"))
}

// Println writes a plain line.
func (t *Terminal) Println(s string) { t.println(s) }

func (t *Terminal) println(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintln(t.out, s)
}
