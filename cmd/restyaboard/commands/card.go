package commands

import (
	"context"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/restyaboard/internal/actions"
	"git.home.luguber.info/inful/restyaboard/internal/app"
	"git.home.luguber.info/inful/restyaboard/internal/foundation/errors"
	"git.home.luguber.info/inful/restyaboard/internal/restya"
	"git.home.luguber.info/inful/restyaboard/internal/tree"
)

// ListRef addresses a list by its board.
type ListRef struct {
	Board string `short:"b" required:"" help:"Board id"`
	List  string `short:"l" required:"" help:"List id"`
}

// Node is the tree node the actions operate on.
func (r ListRef) Node() *tree.Node {
	return &tree.Node{Type: tree.TypeList, ID: restya.ID(r.List), BoardID: restya.ID(r.Board)}
}

// CardRef addresses a card by board and list.
type CardRef struct {
	Board string `short:"b" required:"" help:"Board id"`
	List  string `short:"l" required:"" help:"List id"`
	Card  string `short:"k" required:"" help:"Card id"`
}

// Node is the tree node the actions operate on.
func (r CardRef) Node() *tree.Node {
	return &tree.Node{Type: tree.TypeCard, ID: restya.ID(r.Card), BoardID: restya.ID(r.Board), ListID: restya.ID(r.List)}
}

// CardCmd groups the single-card commands.
type CardCmd struct {
	Add        CardAddCmd  `cmd:"" help:"Create a card in a list"`
	Show       CardShowCmd `cmd:"" help:"Render a card into the preview"`
	EditTitle  cardAction  `cmd:"" name:"edit-title" help:"Rename a card"`
	EditDesc   cardAction  `cmd:"" name:"edit-desc" help:"Edit a card description"`
	Comment    cardAction  `cmd:"" help:"Comment on a card"`
	AddSelf    cardAction  `cmd:"" name:"add-self" help:"Assign yourself to a card"`
	RemoveSelf cardAction  `cmd:"" name:"remove-self" help:"Unassign yourself from a card"`
	AddUser    cardAction  `cmd:"" name:"add-user" help:"Assign a board member to a card"`
	RemoveUser cardAction  `cmd:"" name:"remove-user" help:"Unassign a member from a card"`
	Move       cardAction  `cmd:"" help:"Move a card to another list"`
	Archive    cardAction  `cmd:"" help:"Archive a card"`
}

// CardAddCmd implements 'card add'.
type CardAddCmd struct {
	ListRef `embed:""`
}

func (c *CardAddCmd) Run(g *Global, root *CLI) error {
	return withApp(g, root, func(ctx context.Context, a *app.App) error {
		return a.Actions.AddCard(ctx, c.Node()).Err("card add")
	})
}

// CardShowCmd implements 'card show'.
type CardShowCmd struct {
	CardRef `embed:""`
}

func (c *CardShowCmd) Run(g *Global, root *CLI) error {
	return withApp(g, root, func(ctx context.Context, a *app.App) error {
		res := a.Client.Card(ctx, restya.ID(c.Board), restya.ID(c.List), restya.ID(c.Card))
		switch {
		case res.Failed():
			return actions.StatusRequestFailed.Err("card show")
		case res.Empty():
			a.Terminal.Error(actions.MsgInvalidCard)
			return errors.NotFoundError("card show: card not found").
				WithContext("board_id", c.Board).
				WithContext("list_id", c.List).
				WithContext("card_id", c.Card).
				Build()
		}
		card := res.Value
		if card.BoardID == "" {
			card.BoardID = restya.ID(c.Board)
		}
		if card.ListID == "" {
			card.ListID = restya.ID(c.List)
		}
		return a.Registry.Dispatch(ctx, actions.CommandShowCard, card).Err("card show")
	})
}

// cardAction is a card subcommand that runs one action against --board/--list/--card.
type cardAction struct {
	CardRef `embed:""`
}

func (c *cardAction) Run(g *Global, root *CLI, kctx *kong.Context) error {
	name := kctx.Command()
	fn, ok := cardActions[name]
	if !ok {
		return actions.StatusInvalidContext.Err(name)
	}
	return withApp(g, root, func(ctx context.Context, a *app.App) error {
		return fn(a.Actions)(ctx, c.Node()).Err(name)
	})
}

type nodeAction func(*actions.Actions) func(context.Context, *tree.Node) actions.Status

// cardActions maps the kong command path of each cardAction to its action.
var cardActions = map[string]nodeAction{
	"card edit-title":  func(a *actions.Actions) func(context.Context, *tree.Node) actions.Status { return a.EditTitle },
	"card edit-desc":   func(a *actions.Actions) func(context.Context, *tree.Node) actions.Status { return a.EditDescription },
	"card comment":     func(a *actions.Actions) func(context.Context, *tree.Node) actions.Status { return a.AddComment },
	"card add-self":    func(a *actions.Actions) func(context.Context, *tree.Node) actions.Status { return a.AddSelf },
	"card remove-self": func(a *actions.Actions) func(context.Context, *tree.Node) actions.Status { return a.RemoveSelf },
	"card add-user":    func(a *actions.Actions) func(context.Context, *tree.Node) actions.Status { return a.AddUser },
	"card remove-user": func(a *actions.Actions) func(context.Context, *tree.Node) actions.Status { return a.RemoveUser },
	"card move":        func(a *actions.Actions) func(context.Context, *tree.Node) actions.Status { return a.MoveCard },
	"card archive":     func(a *actions.Actions) func(context.Context, *tree.Node) actions.Status { return a.ArchiveCard },
}
