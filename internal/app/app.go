// Package app wires the credential store, board client, tree, preview and
// actions together for the command line and the shell.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/restyaboard/internal/actions"
	"git.home.luguber.info/inful/restyaboard/internal/config"
	"git.home.luguber.info/inful/restyaboard/internal/credentials"
	"git.home.luguber.info/inful/restyaboard/internal/metrics"
	"git.home.luguber.info/inful/restyaboard/internal/preview"
	"git.home.luguber.info/inful/restyaboard/internal/restya"
	"git.home.luguber.info/inful/restyaboard/internal/tree"
	"git.home.luguber.info/inful/restyaboard/internal/ui"
	"git.home.luguber.info/inful/restyaboard/internal/userdata"
)

// Options customizes New. Zero values select the production defaults.
type Options struct {
	In  io.Reader
	Out io.Writer
	// Store replaces the SQLite credential store in the configured state dir.
	Store credentials.Store
	// PreviewDir replaces the editor settings directory.
	PreviewDir string
	HTTPClient *http.Client
	// Clipboard replaces the system clipboard.
	Clipboard func(string) error
	// Launch replaces the browser launcher.
	Launch func(ctx context.Context, name string, args ...string) error
	// Metrics enables the Prometheus recorder.
	Metrics bool
	Logger  *slog.Logger
}

// App is a fully wired viewer.
type App struct {
	// Config is the configuration the App was built from; reloads do not replace it.
	Config      *config.Config
	Settings    *Settings
	Credentials *credentials.Manager
	Client      *restya.Client
	Tree        *tree.Provider
	Registry    *actions.Registry
	Actions     *actions.Actions
	Preview     *preview.Preview
	Terminal    *ui.Terminal
	Recorder    metrics.Recorder
	// MetricsRegistry is nil unless Options.Metrics was set.
	MetricsRegistry *prom.Registry

	store credentials.Store
}

// New builds an App from cfg.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store := opts.Store
	if store == nil {
		s, err := credentials.OpenStateDir(cfg.State.Dir)
		if err != nil {
			return nil, err
		}
		store = s
	}
	manager, err := credentials.NewManager(ctx, store)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	a := &App{
		Config:      cfg,
		Settings:    NewSettings(cfg.Viewer),
		Credentials: manager,
		Registry:    actions.NewRegistry(),
		Recorder:    metrics.NoopRecorder{},
		store:       store,
	}
	if opts.Metrics {
		a.MetricsRegistry = metrics.NewRegistry()
		a.Recorder = metrics.NewPrometheusRecorder(a.MetricsRegistry)
	}

	termOpts := []ui.TerminalOption{ui.WithCopyLinks(a.Settings.CopyLinks())}
	if opts.Clipboard != nil {
		termOpts = append(termOpts, ui.WithClipboard(opts.Clipboard))
	}
	a.Terminal = ui.NewTerminal(opts.In, opts.Out, termOpts...)

	clientOpts := []restya.Option{restya.WithRecorder(a.Recorder), restya.WithLogger(logger)}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, restya.WithHTTPClient(opts.HTTPClient))
	}
	a.Client = restya.NewClient(manager, a.Terminal, clientOpts...)

	a.Tree = tree.NewProvider(a.Client, manager, a.Terminal, a.Registry.DispatchFunc(),
		tree.WithStarred(a.Settings.StarredBoardsOnly),
		tree.WithRecorder(a.Recorder),
		tree.WithLogger(logger),
	)
	a.Registry.Register(actions.CommandRefresh, func(ctx context.Context, _ any) actions.Status {
		a.Tree.Refresh(ctx)
		return actions.StatusOK
	})

	previewDir := opts.PreviewDir
	if previewDir == "" {
		previewDir = userdata.Default().CodeSettingsDir()
	}
	opener := &preview.TerminalOpener{Out: opts.Out, OpenBrowser: a.Settings.OpenBrowser, Launch: opts.Launch}
	a.Preview = preview.New(previewDir, opener, a.Terminal)

	a.Actions = actions.New(a.Client, manager, a.Terminal, a.Registry, a.Preview,
		actions.WithViewColumn(a.Settings.ViewColumn),
		actions.WithRecorder(a.Recorder),
		actions.WithLogger(logger),
	)
	return a, nil
}

// ApplyConfig takes over the runtime-adjustable parts of a reloaded configuration.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Settings.Apply(cfg.Viewer)
	a.Terminal.SetCopyLinks(cfg.Viewer.CopyLinks)
}

// Close releases the credential store.
func (a *App) Close() error {
	return a.store.Close()
}
