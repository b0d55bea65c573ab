package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Exit codes returned by the CLI.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitAuth       = 5
	ExitConfig     = 7
	ExitService    = 8
	ExitInternal   = 10
	ExitLocalState = 11
)

var exitCodes = map[ErrorCategory]int{
	CategoryValidation: ExitUsage,
	CategoryNotFound:   ExitUsage,
	CategoryConfig:     ExitConfig,
	CategoryAuth:       ExitAuth,
	CategoryNetwork:    ExitService,
	CategoryAPI:        ExitService,
	CategoryFileSystem: ExitLocalState,
	CategoryStorage:    ExitLocalState,
	CategoryInternal:   ExitInternal,
}

// CLIErrorAdapter turns errors returned by commands into a message and an exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: os.Stderr, exit: os.Exit}
}

// ExitCodeFor maps err onto a process exit code.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	classified, ok := AsClassified(err)
	if !ok {
		return ExitGeneral
	}
	if code, ok := exitCodes[classified.category]; ok {
		return code
	}
	return ExitGeneral
}

// FormatError renders err as a single line for the terminal.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	switch {
	case !ok:
		return fmt.Sprintf("Error: %v", err)
	case a.verbose:
		return classified.Error()
	case classified.category == CategoryInternal:
		return "Internal error occurred (use -v for details)"
	case classified.NeedsUserAction():
		return "Error: " + classified.message + " (run 'restyaboard auth' or check your configuration)"
	default:
		return "Error: " + classified.message
	}
}

// Report logs err when warranted, prints it and returns the exit code.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return ExitOK
	}
	if a.shouldLog(err) {
		a.logError(err)
	}
	fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

// HandleError reports err and exits. It returns normally when err is nil.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.exit(a.Report(err))
}

func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	if classified, ok := AsClassified(err); ok {
		return classified.Severity() == SeverityFatal
	}
	return true
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	attrs := []slog.Attr{slog.String("category", string(classified.category))}
	if classified.CanRetry() {
		attrs = append(attrs, slog.Bool("retryable", true))
	}
	for k, v := range classified.context {
		attrs = append(attrs, slog.Any(k, v))
	}
	a.logger.LogAttrs(context.Background(), severityLevel(classified.Severity()), classified.message, attrs...)
}

func severityLevel(s ErrorSeverity) slog.Level {
	switch s {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
