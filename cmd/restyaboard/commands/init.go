package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/restyaboard/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	return RunInit(outOf(g), root.Config, i.Force)
}

func RunInit(out io.Writer, configPath string, force bool) error {
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		_, _ = fmt.Fprintln(out, "Initialization failed")
		return err
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	return nil
}

func outOf(g *Global) io.Writer {
	if g != nil && g.Out != nil {
		return g.Out
	}
	return os.Stdout
}
