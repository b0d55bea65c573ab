package preview

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// TerminalOpener prints the preview document and optionally opens the HTML
// rendering in the system browser.
type TerminalOpener struct {
	Out io.Writer
	// OpenBrowser reports whether the HTML rendering should be opened; nil means never.
	OpenBrowser func() bool
	// Launch starts an external program; defaults to exec.CommandContext(...).Start.
	Launch func(ctx context.Context, name string, args ...string) error
}

// Open implements Opener.
func (o *TerminalOpener) Open(ctx context.Context, doc Document, viewColumn int) (bool, error) {
	_, _ = fmt.Fprintf(o.Out, "\n%s\n(preview: %s, column %d)\n", doc.Markdown, doc.MarkdownPath, viewColumn)
	if o.OpenBrowser == nil || !o.OpenBrowser() {
		return false, nil
	}
	name, args := browserCommand(runtime.GOOS, doc.HTMLPath)
	launch := o.Launch
	if launch == nil {
		launch = startCommand
	}
	if err := launch(ctx, name, args...); err != nil {
		return false, fmt.Errorf("open browser: %w", err)
	}
	return true, nil
}

func browserCommand(goos, target string) (string, []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	case "darwin":
		return "open", []string{target}
	default:
		return "xdg-open", []string{target}
	}
}

func startCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
