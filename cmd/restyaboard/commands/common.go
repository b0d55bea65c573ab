package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/restyaboard/internal/app"
	"git.home.luguber.info/inful/restyaboard/internal/config"
	"git.home.luguber.info/inful/restyaboard/internal/foundation/errors"
)

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
	// In and Out default to the process streams.
	In  io.Reader
	Out io.Writer
	// AppOptions is merged into the options every command builds its App with.
	AppOptions app.Options
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"restyaboard.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init             InitCmd             `cmd:"" help:"Write an example configuration file"`
	Auth             AuthCmd             `cmd:"" help:"Authenticate through the browser and store the access token"`
	SetCredentials   SetCredentialsCmd   `cmd:"" name:"set-credentials" help:"Enter the Restyaboard URL and access token directly"`
	ResetCredentials ResetCredentialsCmd `cmd:"" name:"reset-credentials" help:"Forget the stored URL and token"`
	Info             InfoCmd             `cmd:"" help:"Show the stored credentials"`
	Boards           BoardsCmd           `cmd:"" help:"List boards"`
	Tree             TreeCmd             `cmd:"" help:"Print the board, list and card hierarchy"`
	Card             CardCmd             `cmd:"" help:"Work with a single card or list"`
	Shell            ShellCmd            `cmd:"" help:"Start the interactive board browser"`

	cfg    *config.Config
	cfgErr error
}

// AfterApply runs after flag parsing; it loads the configuration and sets up logging once.
func (c *CLI) AfterApply(g *Global) error {
	c.cfg, c.cfgErr = config.Load(c.Config)

	level := slog.LevelInfo
	format := config.LogFormatText
	if c.cfg != nil {
		level = c.cfg.Logging.Level.SlogLevel()
		format = c.cfg.Logging.Format
	}
	if c.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	if g != nil {
		g.Logger = logger
	}
	return nil
}

// LoadedConfig returns the configuration read in AfterApply.
func (c *CLI) LoadedConfig() (*config.Config, error) {
	if c.cfgErr != nil {
		return nil, errors.ConfigError("failed to load configuration").
			WithCause(c.cfgErr).
			WithContext("path", c.Config).
			Build()
	}
	if c.cfg == nil {
		return config.Default(), nil
	}
	return c.cfg, nil
}

// newApp wires an App for one command. Callers must Close it.
func newApp(ctx context.Context, g *Global, root *CLI, metrics bool) (*app.App, error) {
	cfg, err := root.LoadedConfig()
	if err != nil {
		return nil, err
	}
	opts := g.AppOptions
	opts.In = g.In
	opts.Out = g.Out
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	opts.Logger = g.Logger
	opts.Metrics = opts.Metrics || metrics
	return app.New(ctx, cfg, opts)
}

// withApp runs fn against a freshly wired App, waits for background tree
// fetches and releases the preview files before closing it.
func withApp(g *Global, root *CLI, fn func(ctx context.Context, a *app.App) error) error {
	ctx := context.Background()
	a, err := newApp(ctx, g, root, false)
	if err != nil {
		return err
	}
	defer func() {
		a.Tree.Wait()
		if perr := a.Preview.Release(); perr != nil {
			slog.Warn("Failed to remove preview files", "error", perr)
		}
		if cerr := a.Close(); cerr != nil {
			slog.Warn("Failed to close credential store", "error", cerr)
		}
	}()
	return fn(ctx, a)
}
