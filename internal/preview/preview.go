// Package preview writes the rendered card to the scratch files in the editor
// settings directory and opens them.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/restyaboard/internal/foundation/errors"
	"git.home.luguber.info/inful/restyaboard/internal/logfields"
	"git.home.luguber.info/inful/restyaboard/internal/render"
	"git.home.luguber.info/inful/restyaboard/internal/restya"
)

// ScratchFileName is the markdown file written for every shown card.
const ScratchFileName = "~vscodeRestyaboard.md"

// SettingPrefix namespaces viewer settings in user-facing messages.
const SettingPrefix = "restyaboardViewer"

// DefaultViewColumn is used when the configured column is not valid.
const DefaultViewColumn = 2

// ViewColumns lists the accepted view columns.
var ViewColumns = []int{-2, -1, 1, 2, 3, 4, 5, 6, 7, 8, 9}

// Notifier shows preview problems to the user.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// Document is a written preview.
type Document struct {
	Title        string
	Markdown     string
	MarkdownPath string
	HTMLPath     string
}

// Opener displays a written preview at a view column. external reports
// whether the HTML file was handed to another program.
type Opener interface {
	Open(ctx context.Context, doc Document, viewColumn int) (external bool, err error)
}

// Preview manages the scratch files.
type Preview struct {
	dir      string
	opener   Opener
	notifier Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	written  bool
	external bool
}

// New creates a Preview writing into dir (the editor settings directory).
func New(dir string, opener Opener, notifier Notifier) *Preview {
	return &Preview{dir: dir, opener: opener, notifier: notifier, logger: slog.Default()}
}

// Path is the markdown scratch file.
func (p *Preview) Path() string {
	return filepath.Join(p.dir, ScratchFileName)
}

// HTMLPath is the HTML rendering next to the scratch file.
func (p *Preview) HTMLPath() string {
	return strings.TrimSuffix(p.Path(), ".md") + ".html"
}

// ValidateViewColumn returns column when it is accepted, otherwise reports it
// and returns DefaultViewColumn.
func ValidateViewColumn(column int, notifier Notifier) int {
	if slices.Contains(ViewColumns, column) {
		return column
	}
	if notifier != nil {
		notifier.Info(fmt.Sprintf("Invalid %s.viewColumn %d specified", SettingPrefix, column))
	}
	return DefaultViewColumn
}

// Show writes card's document and opens it. Existing scratch files are overwritten.
func (p *Preview) Show(ctx context.Context, card restya.Card, markdown string, viewColumn int) error {
	if p.dir == "" {
		err := errors.FileSystemError("editor settings directory is unknown on this platform").Build()
		p.notifier.Error(err.Message())
		return err
	}
	column := ValidateViewColumn(viewColumn, p.notifier)

	content, err := withFrontMatter(card, markdown)
	if err != nil {
		return errors.InternalError("failed to build preview front matter").WithCause(err).Build()
	}
	html, err := render.HTML(card.Name, markdown)
	if err != nil {
		return errors.InternalError("failed to render preview HTML").WithCause(err).Build()
	}

	doc := Document{Title: card.Name, Markdown: markdown, MarkdownPath: p.Path(), HTMLPath: p.HTMLPath()}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return p.writeFailed(err)
	}
	if err := os.WriteFile(doc.MarkdownPath, content, 0o600); err != nil {
		return p.writeFailed(err)
	}
	if err := os.WriteFile(doc.HTMLPath, []byte(html), 0o600); err != nil {
		return p.writeFailed(err)
	}
	p.logger.Info("Wrote card preview", logfields.Path(doc.MarkdownPath), logfields.CardID(card.ID.String()))

	external, err := p.opener.Open(ctx, doc, column)
	p.mu.Lock()
	p.written = true
	p.external = p.external || external
	p.mu.Unlock()
	return err
}

func (p *Preview) writeFailed(err error) error {
	p.notifier.Error(fmt.Sprintf("Error writing to temp file: %v", err))
	return errors.FileSystemError("failed to write preview").
		WithCause(err).
		WithContext("path", p.Path()).
		Build()
}

// Remove deletes the scratch files. Missing files are ignored.
func (p *Preview) Remove() error {
	return p.remove(p.Path(), p.HTMLPath())
}

// Release deletes the scratch files this Preview wrote, at the end of a
// one-shot command. The HTML file is kept when it was handed to a browser.
func (p *Preview) Release() error {
	p.mu.Lock()
	written, external := p.written, p.external
	p.mu.Unlock()
	switch {
	case !written:
		return nil
	case external:
		return p.remove(p.Path())
	default:
		return p.remove(p.Path(), p.HTMLPath())
	}
}

func (p *Preview) remove(paths ...string) error {
	var firstErr error
	for _, path := range paths {
		err := os.Remove(path)
		if err == nil {
			p.logger.Info("Deleted file", logfields.Path(path))
			continue
		}
		if !os.IsNotExist(err) && firstErr == nil {
			firstErr = errors.FileSystemError("failed to remove preview").WithCause(err).WithContext("path", path).Build()
		}
	}
	return firstErr
}

type frontMatter struct {
	Card        string `yaml:"card"`
	Board       string `yaml:"board,omitempty"`
	List        string `yaml:"list,omitempty"`
	Title       string `yaml:"title"`
	Fingerprint string `yaml:"fingerprint,omitempty"`
}

// withFrontMatter prefixes markdown with YAML identifying the card and a
// content fingerprint of the rest of the front matter plus the body.
func withFrontMatter(card restya.Card, markdown string) ([]byte, error) {
	fm := frontMatter{
		Card:  card.ID.String(),
		Board: card.BoardID.String(),
		List:  card.ListID.String(),
		Title: card.Name,
	}
	base, err := yaml.Marshal(fm)
	if err != nil {
		return nil, err
	}
	fm.Fingerprint = mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(base), "\n"), markdown)

	out, err := yaml.Marshal(fm)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString("---\n")
	b.Write(out)
	b.WriteString("---\n")
	b.WriteString(markdown)
	return []byte(b.String()), nil
}
