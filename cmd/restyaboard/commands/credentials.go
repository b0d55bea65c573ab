package commands

import (
	"context"

	"git.home.luguber.info/inful/restyaboard/internal/app"
)

// AuthCmd implements the 'auth' command.
type AuthCmd struct{}

func (AuthCmd) Run(g *Global, root *CLI) error {
	return withApp(g, root, func(ctx context.Context, a *app.App) error {
		return a.Actions.Authenticate(ctx).Err("auth")
	})
}

// SetCredentialsCmd implements the 'set-credentials' command.
type SetCredentialsCmd struct{}

func (SetCredentialsCmd) Run(g *Global, root *CLI) error {
	return withApp(g, root, func(ctx context.Context, a *app.App) error {
		return a.Actions.SetCredentials(ctx).Err("set-credentials")
	})
}

// ResetCredentialsCmd implements the 'reset-credentials' command.
type ResetCredentialsCmd struct{}

func (ResetCredentialsCmd) Run(g *Global, root *CLI) error {
	return withApp(g, root, func(ctx context.Context, a *app.App) error {
		return a.Actions.ResetCredentials(ctx).Err("reset-credentials")
	})
}

// InfoCmd implements the 'info' command.
type InfoCmd struct{}

func (InfoCmd) Run(g *Global, root *CLI) error {
	return withApp(g, root, func(ctx context.Context, a *app.App) error {
		return a.Actions.ShowInfo(ctx).Err("info")
	})
}
