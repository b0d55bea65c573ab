package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/restyaboard/cmd/restyaboard/commands"
	"git.home.luguber.info/inful/restyaboard/internal/foundation/errors"
	"git.home.luguber.info/inful/restyaboard/internal/version"
)

func main() {
	cli := &commands.CLI{}
	globals := &commands.Global{}
	ctx := kong.Parse(cli,
		kong.Name("restyaboard"),
		kong.Description("Browse and edit Restyaboard boards from the terminal."),
		kong.UsageOnError(),
		kong.Bind(globals),
		kong.Vars{"version": version.String()},
	)

	err := ctx.Run(globals, cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
