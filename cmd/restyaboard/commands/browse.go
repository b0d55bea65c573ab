package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/restyaboard/internal/app"
	"git.home.luguber.info/inful/restyaboard/internal/shell"
)

// BoardsCmd implements the 'boards' command.
type BoardsCmd struct {
	All bool `help:"Include boards that are not starred"`
}

func (b *BoardsCmd) Run(g *Global, root *CLI) error {
	return withApp(g, root, func(ctx context.Context, a *app.App) error {
		if b.All {
			a.Settings.SetStarredBoardsOnly(false)
		}
		return shell.New(a, shell.Options{}).Execute(ctx, "ls")
	})
}

// TreeCmd implements the 'tree' command.
type TreeCmd struct {
	Depth int  `short:"d" help:"How many levels to print" default:"3"`
	All   bool `help:"Include boards that are not starred"`
}

func (t *TreeCmd) Run(g *Global, root *CLI) error {
	return withApp(g, root, func(ctx context.Context, a *app.App) error {
		if t.All {
			a.Settings.SetStarredBoardsOnly(false)
		}
		return shell.New(a, shell.Options{}).Execute(ctx, fmt.Sprintf("tree %d", t.Depth))
	})
}

// ShellCmd implements the 'shell' command.
type ShellCmd struct {
	MetricsAddr string `name:"metrics-addr" help:"Serve Prometheus metrics on this address (overrides metrics.addr)"`
	NoWatch     bool   `name:"no-watch" help:"Do not reload viewer settings when the config file changes"`
}

func (s *ShellCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := root.LoadedConfig()
	if err != nil {
		return err
	}
	addr := s.MetricsAddr
	if addr == "" {
		addr = cfg.Metrics.Addr
	}

	a, err := newApp(ctx, g, root, addr != "")
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			slog.Warn("Failed to close credential store", "error", cerr)
		}
	}()

	opts := shell.Options{MetricsAddr: addr}
	if !s.NoWatch {
		opts.ConfigPath = root.Config
	}
	return shell.New(a, opts).Run(ctx)
}
