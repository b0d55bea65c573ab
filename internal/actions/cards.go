package actions

import (
	"context"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/restyaboard/internal/logfields"
	"git.home.luguber.info/inful/restyaboard/internal/render"
	"git.home.luguber.info/inful/restyaboard/internal/restya"
	"git.home.luguber.info/inful/restyaboard/internal/tree"
	"git.home.luguber.info/inful/restyaboard/internal/ui"
)

func inputSite() ui.InputOptions {
	return ui.InputOptions{Prompt: "Restyaboard URL", Placeholder: "Your RestyaBoard URL"}
}

// AddCard creates a card in list.
func (a *Actions) AddCard(ctx context.Context, list *tree.Node) Status {
	const cmd = "addCard"
	if !a.ready(ctx, list, tree.TypeList) {
		return a.finish(cmd, StatusInvalidContext)
	}
	name, ok := a.ui.Input(ctx, ui.InputOptions{Prompt: "Card name", Placeholder: "Enter name of card"})
	if !ok {
		return a.finish(cmd, StatusCancelled)
	}

	res := a.api.CreateCard(ctx, list.BoardID, list.ID, name)
	if res.Failed() {
		return a.finish(cmd, StatusRequestFailed)
	}
	a.refresh(ctx)
	act := res.Value.Activity
	a.ui.Link(fmt.Sprintf("Created Card: %s-%s", act.CardID, act.CardName), render.CardURL(a.creds.SiteURL(), list.BoardID, act.CardID))
	return a.finish(cmd, StatusOK)
}

// fetchCard loads the full card behind node. Failures were already reported.
func (a *Actions) fetchCard(ctx context.Context, node *tree.Node) (restya.Card, bool) {
	res := a.api.Card(ctx, node.BoardID, node.ListID, node.ID)
	if res.Failed() {
		return restya.Card{}, false
	}
	if res.Empty() {
		a.ui.Error(MsgInvalidCard)
		return restya.Card{}, false
	}
	return res.Value, true
}

// EditTitle renames a card, prefilling the current name.
func (a *Actions) EditTitle(ctx context.Context, card *tree.Node) Status {
	const cmd = "editTitle"
	if !a.ready(ctx, card, tree.TypeCard) {
		return a.finish(cmd, StatusInvalidContext)
	}
	current, ok := a.fetchCard(ctx, card)
	if !ok {
		return a.finish(cmd, StatusRequestFailed)
	}
	name, ok := a.ui.Input(ctx, ui.InputOptions{Prompt: "Card title", Value: current.Name})
	if !ok {
		return a.finish(cmd, StatusCancelled)
	}

	res := a.api.UpdateCard(ctx, card.BoardID, card.ListID, card.ID, restya.CardUpdate{Name: &name})
	if res.Failed() {
		return a.finish(cmd, StatusRequestFailed)
	}
	a.refresh(ctx)
	a.ui.Info("Updated title for card: " + name)
	return a.finish(cmd, StatusOK)
}

// EscapeDescription shows newlines as the two characters `\n` so a
// multi-line description fits a single-line input.
func EscapeDescription(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", `\n`)
}

// UnescapeDescription turns `\n` back into newlines.
func UnescapeDescription(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

// EditDescription replaces a card description.
func (a *Actions) EditDescription(ctx context.Context, card *tree.Node) Status {
	const cmd = "editDescription"
	if !a.ready(ctx, card, tree.TypeCard) {
		return a.finish(cmd, StatusInvalidContext)
	}
	current, ok := a.fetchCard(ctx, card)
	if !ok {
		return a.finish(cmd, StatusRequestFailed)
	}
	raw, ok := a.ui.Input(ctx, ui.InputOptions{
		Prompt:      "Description",
		Placeholder: "Enter description for card",
		Value:       EscapeDescription(current.Description),
	})
	if !ok {
		return a.finish(cmd, StatusCancelled)
	}
	description := UnescapeDescription(raw)

	res := a.api.UpdateCard(ctx, card.BoardID, card.ListID, card.ID, restya.CardUpdate{Description: &description})
	if res.Failed() {
		return a.finish(cmd, StatusRequestFailed)
	}
	a.refresh(ctx)
	shown := res.Value.Activity.Description
	if shown == "" {
		shown = description
	}
	a.ui.Info("Updated description for card: " + shown)
	return a.finish(cmd, StatusOK)
}

// me fetches the current user. Failures were already reported.
func (a *Actions) me(ctx context.Context) (restya.Me, bool) {
	res := a.api.Me(ctx)
	if res.Failed() {
		return restya.Me{}, false
	}
	if res.Value.UserID() == "" {
		a.ui.Error("Could not determine the current user")
		return restya.Me{}, false
	}
	return res.Value, true
}

// AddComment posts a comment on a card as the current user.
func (a *Actions) AddComment(ctx context.Context, card *tree.Node) Status {
	const cmd = "addComment"
	if !a.ready(ctx, card, tree.TypeCard) {
		return a.finish(cmd, StatusInvalidContext)
	}
	user, ok := a.me(ctx)
	if !ok {
		return a.finish(cmd, StatusRequestFailed)
	}
	text, ok := a.ui.Input(ctx, ui.InputOptions{Prompt: "Comment", Placeholder: "Add comment"})
	if !ok {
		return a.finish(cmd, StatusCancelled)
	}

	res := a.api.AddComment(ctx, card.BoardID, card.ListID, card.ID, user.UserID(), text)
	if res.Failed() {
		return a.finish(cmd, StatusRequestFailed)
	}
	a.refresh(ctx)
	a.ui.Info("Added comment to card: " + card.Label)
	return a.finish(cmd, StatusOK)
}

// AddSelf assigns the current user to a card.
func (a *Actions) AddSelf(ctx context.Context, card *tree.Node) Status {
	const cmd = "addSelf"
	if !a.ready(ctx, card, tree.TypeCard) {
		return a.finish(cmd, StatusInvalidContext)
	}
	user, ok := a.me(ctx)
	if !ok {
		return a.finish(cmd, StatusRequestFailed)
	}

	res := a.api.AddCardUser(ctx, card.BoardID, card.ListID, card.ID, user.UserID())
	if res.Failed() {
		return a.finish(cmd, StatusRequestFailed)
	}
	a.refresh(ctx)
	a.ui.Info(fmt.Sprintf("Added user %s to card", user.User.Initials))
	return a.finish(cmd, StatusOK)
}

// RemoveSelf removes the current user's assignment from a card.
func (a *Actions) RemoveSelf(ctx context.Context, card *tree.Node) Status {
	const cmd = "removeSelf"
	if !a.ready(ctx, card, tree.TypeCard) {
		return a.finish(cmd, StatusInvalidContext)
	}
	user, ok := a.me(ctx)
	if !ok {
		return a.finish(cmd, StatusRequestFailed)
	}
	current, ok := a.fetchCard(ctx, card)
	if !ok {
		return a.finish(cmd, StatusRequestFailed)
	}

	var assignment *restya.Member
	for i := range current.Members {
		if current.Members[i].UserID == user.UserID() {
			assignment = &current.Members[i]
			break
		}
	}
	if assignment == nil {
		a.ui.Error(MsgNotAssigned)
		return a.finish(cmd, StatusRequestFailed)
	}

	res := a.api.RemoveCardUser(ctx, card.BoardID, card.ListID, card.ID, assignment.ID)
	if res.Failed() {
		return a.finish(cmd, StatusRequestFailed)
	}
	a.refresh(ctx)
	a.ui.Info(fmt.Sprintf("Removed user %s from card", user.User.Initials))
	return a.finish(cmd, StatusOK)
}

// AddUser assigns a board member picked from a list to a card.
func (a *Actions) AddUser(ctx context.Context, card *tree.Node) Status {
	const cmd = "addUser"
	if !a.ready(ctx, card, tree.TypeCard) {
		return a.finish(cmd, StatusInvalidContext)
	}
	board := a.api.Board(ctx, card.BoardID)
	if board.Failed() || len(board.Value.BoardsUsers) == 0 {
		if !board.Failed() {
			a.ui.Error("No users found on board")
		}
		return a.finish(cmd, StatusRequestFailed)
	}

	users := board.Value.BoardsUsers
	items := make([]ui.PickItem, 0, len(users))
	for _, u := range users {
		items = append(items, ui.PickItem{Label: u.FullName})
	}
	idx, ok := a.ui.QuickPick(ctx, "Add user from board:", items)
	if !ok {
		return a.finish(cmd, StatusCancelled)
	}
	picked := users[idx]

	res := a.api.AddCardUser(ctx, card.BoardID, card.ListID, card.ID, picked.UserID)
	if res.Failed() {
		return a.finish(cmd, StatusRequestFailed)
	}
	a.refresh(ctx)
	a.ui.Info(fmt.Sprintf("Added user %s to card", picked.FullName))
	return a.finish(cmd, StatusOK)
}

// RemoveUser removes an assignment picked from the card's members.
func (a *Actions) RemoveUser(ctx context.Context, card *tree.Node) Status {
	const cmd = "removeUser"
	if !a.ready(ctx, card, tree.TypeCard) {
		return a.finish(cmd, StatusInvalidContext)
	}
	current, ok := a.fetchCard(ctx, card)
	if !ok {
		return a.finish(cmd, StatusRequestFailed)
	}

	members := current.Members
	items := make([]ui.PickItem, 0, len(members))
	for _, m := range members {
		items = append(items, ui.PickItem{Label: m.FullName})
	}
	idx, ok := a.ui.QuickPick(ctx, "Remove user from card:", items)
	if !ok {
		return a.finish(cmd, StatusCancelled)
	}
	picked := members[idx]

	res := a.api.RemoveCardUser(ctx, card.BoardID, card.ListID, card.ID, picked.ID)
	if res.Failed() {
		return a.finish(cmd, StatusRequestFailed)
	}
	a.refresh(ctx)
	a.ui.Info(fmt.Sprintf("Removed user %s from card", picked.FullName))
	return a.finish(cmd, StatusOK)
}

// MoveCard moves a card to another list of the same board, keeping its position.
func (a *Actions) MoveCard(ctx context.Context, card *tree.Node) Status {
	const cmd = "moveCard"
	if !a.ready(ctx, card, tree.TypeCard) {
		return a.finish(cmd, StatusInvalidContext)
	}
	lists := a.api.Lists(ctx, card.BoardID)
	if lists.Failed() {
		return a.finish(cmd, StatusRequestFailed)
	}
	current, ok := a.fetchCard(ctx, card)
	if !ok {
		return a.finish(cmd, StatusRequestFailed)
	}

	items := make([]ui.PickItem, 0, len(lists.Value))
	for _, l := range lists.Value {
		items = append(items, ui.PickItem{Label: l.Name})
	}
	idx, ok := a.ui.QuickPick(ctx, "Move card to list:", items)
	if !ok {
		return a.finish(cmd, StatusCancelled)
	}
	target := lists.Value[idx]

	position := current.Position
	res := a.api.UpdateCard(ctx, card.BoardID, card.ListID, card.ID, restya.CardUpdate{
		ListID:   target.ID,
		BoardID:  card.BoardID,
		Position: &position,
	})
	if res.Failed() {
		return a.finish(cmd, StatusRequestFailed)
	}
	a.refresh(ctx)
	a.ui.Info("Moved card to list: " + target.Name)
	return a.finish(cmd, StatusOK)
}

// ArchiveCard archives a card.
func (a *Actions) ArchiveCard(ctx context.Context, card *tree.Node) Status {
	const cmd = "archiveCard"
	if !a.ready(ctx, card, tree.TypeCard) {
		return a.finish(cmd, StatusInvalidContext)
	}
	res := a.api.UpdateCard(ctx, card.BoardID, card.ListID, card.ID, restya.CardUpdate{IsArchived: 1})
	if res.Failed() {
		return a.finish(cmd, StatusRequestFailed)
	}
	a.refresh(ctx)
	act := res.Value.Activity
	cardID := act.CardID
	if cardID == "" {
		cardID = card.ID
	}
	a.ui.Link(fmt.Sprintf("Archived Card: %s-%s", cardID, act.CardName), render.CardURL(a.creds.SiteURL(), card.BoardID, cardID))
	return a.finish(cmd, StatusOK)
}

// ShowCard renders card with its comments and opens the preview. It does not refresh the tree.
func (a *Actions) ShowCard(ctx context.Context, card restya.Card) Status {
	const cmd = "showCard"
	if card.ID == "" {
		a.ui.Error(MsgNoCardSelected)
		return a.finish(cmd, StatusInvalidContext)
	}
	if !a.creds.IsProvided() {
		a.ui.Warn(tree.MsgMissingCredentials)
		a.registry.Dispatch(ctx, CommandAuthenticate, nil)
		return a.finish(cmd, StatusInvalidContext)
	}

	// A failed comment fetch was reported; the card is still shown.
	comments := a.api.Comments(ctx, card.BoardID, card.ListID, card.ID)
	doc := render.Document(card, comments.Value, a.creds.SiteURL())

	if err := a.preview.Show(ctx, card, doc, a.viewColumn()); err != nil {
		a.logger.Error("Showing card failed", logfields.CardID(card.ID.String()), logfields.Error(err))
		return a.finish(cmd, StatusRequestFailed)
	}
	return a.finish(cmd, StatusOK)
}
