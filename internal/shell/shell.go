// Package shell is the interactive board browser: a line-oriented loop over
// the cached tree with every card action available as a command.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"

	"git.home.luguber.info/inful/restyaboard/internal/actions"
	"git.home.luguber.info/inful/restyaboard/internal/app"
	"git.home.luguber.info/inful/restyaboard/internal/config"
	"git.home.luguber.info/inful/restyaboard/internal/logfields"
	"git.home.luguber.info/inful/restyaboard/internal/tree"
)

// Prompt is shown before every command.
const Prompt = "restyaboard> "

// UpdatedMarker is printed when the tree changes while the shell is idle.
const UpdatedMarker = "(tree updated)"

// DefaultTreeDepth bounds the tree command.
const DefaultTreeDepth = 3

var (
	indexStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardStyle = lipgloss.NewStyle().Bold(true)
	listStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	idStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	markStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// errQuit ends the loop.
var errQuit = errors.New("quit")

// Options customizes a Shell.
type Options struct {
	// ConfigPath enables hot reload of viewer settings when set.
	ConfigPath string
	// MetricsAddr serves Prometheus metrics when set and the App records metrics.
	MetricsAddr string
}

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, args []string) error
}

// Shell runs commands against an App.
type Shell struct {
	app      *app.App
	opts     Options
	commands map[string]command
	busy     atomic.Bool
	logger   *slog.Logger
	// metricsURL is the base URL of the running metrics endpoint.
	metricsURL string
}

// New creates a Shell for a.
func New(a *app.App, opts Options) *Shell {
	s := &Shell{app: a, opts: opts, logger: slog.Default()}
	s.commands = s.buildCommands()
	a.Tree.Subscribe(func() {
		if !s.busy.Load() {
			a.Terminal.Println(markStyle.Render(UpdatedMarker))
		}
	})
	return s
}

func (s *Shell) buildCommands() map[string]command {
	cmds := map[string]command{
		"ls":                {usage: "ls [path]", help: "list the children of path (root when empty)", run: s.cmdList},
		"tree":              {usage: "tree [depth]", help: "print the hierarchy", run: s.cmdTree},
		"refresh":           {usage: "refresh", help: "discard the cache and reload boards", run: s.cmdRefresh},
		"show":              {usage: "show <path>", help: "render a card into the preview", run: s.cmdShow},
		"add-card":          {usage: "add-card <list path>", help: "create a card in a list", run: s.nodeAction(s.app.Actions.AddCard)},
		"edit-title":        {usage: "edit-title <card path>", help: "rename a card", run: s.nodeAction(s.app.Actions.EditTitle)},
		"edit-desc":         {usage: "edit-desc <card path>", help: "edit a card description", run: s.nodeAction(s.app.Actions.EditDescription)},
		"comment":           {usage: "comment <card path>", help: "comment on a card", run: s.nodeAction(s.app.Actions.AddComment)},
		"add-self":          {usage: "add-self <card path>", help: "assign yourself", run: s.nodeAction(s.app.Actions.AddSelf)},
		"remove-self":       {usage: "remove-self <card path>", help: "unassign yourself", run: s.nodeAction(s.app.Actions.RemoveSelf)},
		"add-user":          {usage: "add-user <card path>", help: "assign a board member", run: s.nodeAction(s.app.Actions.AddUser)},
		"remove-user":       {usage: "remove-user <card path>", help: "unassign a member", run: s.nodeAction(s.app.Actions.RemoveUser)},
		"move":              {usage: "move <card path>", help: "move a card to another list", run: s.nodeAction(s.app.Actions.MoveCard)},
		"archive":           {usage: "archive <card path>", help: "archive a card", run: s.nodeAction(s.app.Actions.ArchiveCard)},
		"auth":              {usage: "auth", help: "authenticate through the browser", run: s.plainAction(s.app.Actions.Authenticate)},
		"set-credentials":   {usage: "set-credentials", help: "enter site URL and token", run: s.plainAction(s.app.Actions.SetCredentials)},
		"reset-credentials": {usage: "reset-credentials", help: "forget the stored credentials", run: s.plainAction(s.app.Actions.ResetCredentials)},
		"info":              {usage: "info", help: "show the stored credentials", run: s.plainAction(s.app.Actions.ShowInfo)},
		"help":              {usage: "help", help: "show this help", run: s.cmdHelp},
		"quit":              {usage: "quit", help: "leave the shell", run: func(context.Context, []string) error { return errQuit }},
	}
	cmds["exit"] = cmds["quit"]
	return cmds
}

// Run reads commands until quit, end of input or ctx cancellation.
func (s *Shell) Run(ctx context.Context) error {
	term := s.app.Terminal
	stopWatch := s.startWatcher(ctx)
	defer stopWatch()
	stopMetrics := s.startMetrics()
	defer stopMetrics()

	defer s.cleanup()

	term.Info("Type help for commands.")
	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := term.ReadLine(Prompt)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}
		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			term.Error(err.Error())
		}
	}
}

// Execute runs one command line.
func (s *Shell) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, ok := s.commands[fields[0]]
	if !ok {
		return fmt.Errorf("unknown command %q (try help)", fields[0])
	}

	s.busy.Store(true)
	defer s.busy.Store(false)
	s.logger.Debug("Shell command", logfields.Command(fields[0]))
	return cmd.run(ctx, fields[1:])
}

func (s *Shell) cleanup() {
	s.app.Tree.Wait()
	if err := s.app.Preview.Remove(); err != nil {
		s.logger.Warn("Failed to remove preview files", logfields.Error(err))
	}
}

func (s *Shell) startWatcher(ctx context.Context) func() {
	if s.opts.ConfigPath == "" {
		return func() {}
	}
	w, err := config.NewWatcher(s.opts.ConfigPath, s.app.Config, func(_ context.Context, cfg *config.Config) {
		s.app.ApplyConfig(cfg)
		s.app.Terminal.Info("Configuration reloaded")
	})
	if err == nil {
		err = w.Start(ctx)
	}
	if err != nil {
		s.logger.Warn("Config hot reload disabled", logfields.Error(err))
		return func() {}
	}
	return func() { _ = w.Stop() }
}

// resolve walks a 1-based index path such as 2/1/3 from the root.
// An empty path resolves to the root (nil).
func (s *Shell) resolve(ctx context.Context, path string) (*tree.Node, error) {
	var node *tree.Node
	walked := make([]string, 0, 3)
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 1 {
			return nil, fmt.Errorf("invalid path element %q", part)
		}
		children := s.app.Tree.Expand(ctx, node)
		if idx > len(children) {
			return nil, fmt.Errorf("no item %d under %q", idx, "/"+strings.Join(walked, "/"))
		}
		n := children[idx-1]
		node = &n
		walked = append(walked, part)
	}
	return node, nil
}

func pathArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func (s *Shell) nodeAction(fn func(context.Context, *tree.Node) actions.Status) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		var node *tree.Node
		if p := pathArg(args); p != "" {
			n, err := s.resolve(ctx, p)
			if err != nil {
				return err
			}
			node = n
		}
		s.logStatus(fn(ctx, node))
		return nil
	}
}

func (s *Shell) plainAction(fn func(context.Context) actions.Status) func(context.Context, []string) error {
	return func(ctx context.Context, _ []string) error {
		s.logStatus(fn(ctx))
		return nil
	}
}

func (s *Shell) logStatus(st actions.Status) {
	s.logger.Debug("Command finished", logfields.Result(int(st)), slog.String("status", st.String()))
}

func (s *Shell) cmdList(ctx context.Context, args []string) error {
	node, err := s.resolve(ctx, pathArg(args))
	if err != nil {
		return err
	}
	children := s.app.Tree.Expand(ctx, node)
	if len(children) == 0 {
		s.app.Terminal.Println(markStyle.Render("(empty)"))
		return nil
	}
	for i, c := range children {
		s.app.Terminal.Println(formatNode(i+1, c, 0))
	}
	return nil
}

func (s *Shell) cmdTree(ctx context.Context, args []string) error {
	depth := DefaultTreeDepth
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			return fmt.Errorf("invalid depth %q", args[0])
		}
		depth = d
	}
	s.printTree(ctx, nil, 0, depth)
	return nil
}

func (s *Shell) printTree(ctx context.Context, node *tree.Node, level, depth int) {
	if level >= depth {
		return
	}
	for i, c := range s.app.Tree.Expand(ctx, node) {
		s.app.Terminal.Println(formatNode(i+1, c, level))
		if c.Collapse != tree.CollapseNone {
			s.printTree(ctx, &c, level+1, depth)
		}
	}
}

func (s *Shell) cmdRefresh(ctx context.Context, _ []string) error {
	s.app.Registry.Dispatch(ctx, actions.CommandRefresh, nil)
	s.app.Tree.Wait()
	return nil
}

func (s *Shell) cmdShow(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: show <path>")
	}
	node, err := s.resolve(ctx, args[0])
	if err != nil {
		return err
	}
	if node == nil || node.Command == nil {
		s.app.Terminal.Info(tree.MsgNoCard)
		return nil
	}
	s.logStatus(s.app.Registry.Dispatch(ctx, node.Command.Name, node.Command.Card))
	return nil
}

func (s *Shell) cmdHelp(context.Context, []string) error {
	names := make([]string, 0, len(s.commands))
	for name := range s.commands {
		if name != "exit" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		c := s.commands[name]
		s.app.Terminal.Println(fmt.Sprintf("  %-28s %s", c.usage, indexStyle.Render(c.help)))
	}
	s.app.Terminal.Println(indexStyle.Render("Paths are 1-based indices, e.g. 2/1/3 is the third card of the first list of the second board."))
	return nil
}

func formatNode(index int, n tree.Node, level int) string {
	label := n.Label
	switch n.Type {
	case tree.TypeBoard:
		label = boardStyle.Render(label)
	case tree.TypeList:
		label = listStyle.Render(label)
	}
	return fmt.Sprintf("%s%s %s %s",
		strings.Repeat("  ", level),
		indexStyle.Render(strconv.Itoa(index)+"."),
		label,
		idStyle.Render("("+n.Tooltip+")"),
	)
}
