// Package actions implements the user commands: every mutating action talks
// to the board service, reports the outcome, and on success dispatches exactly
// one tree refresh.
package actions

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/restyaboard/internal/logfields"
	"git.home.luguber.info/inful/restyaboard/internal/metrics"
	"git.home.luguber.info/inful/restyaboard/internal/restya"
	"git.home.luguber.info/inful/restyaboard/internal/tree"
	"git.home.luguber.info/inful/restyaboard/internal/ui"
)

// User-facing messages.
const (
	MsgInvalidList        = "Could not get valid list"
	MsgInvalidCard        = "Could not get valid card"
	MsgNoCardSelected     = "No card selected or invalid card."
	MsgNotAssigned        = "Card not assigned to you!"
	MsgCredentialsReset   = "Credentials have been reset"
	MsgEnterSiteURL       = "Get your Restyaboard Access Token by entering your restyaboard URL"
	MsgAuthenticateFailed = "Error during authentication"
	MsgSetCredsFailed     = "Error while setting credentials"
)

// OAuth parameters of the board service's editor integration.
const (
	oauthClientID = "9335847554774492"
	oauthState    = "1562312999016"
)

// API is the subset of the board service client the actions use.
type API interface {
	Board(ctx context.Context, boardID restya.ID) restya.Result[restya.Board]
	Lists(ctx context.Context, boardID restya.ID) restya.Result[[]restya.List]
	Card(ctx context.Context, boardID, listID, cardID restya.ID) restya.Result[restya.Card]
	Comments(ctx context.Context, boardID, listID, cardID restya.ID) restya.Result[[]restya.Comment]
	Me(ctx context.Context) restya.Result[restya.Me]
	CreateCard(ctx context.Context, boardID, listID restya.ID, name string) restya.Result[restya.CardActivity]
	UpdateCard(ctx context.Context, boardID, listID, cardID restya.ID, update restya.CardUpdate) restya.Result[restya.CardActivity]
	AddComment(ctx context.Context, boardID, listID, cardID, userID restya.ID, text string) restya.Result[restya.CardActivity]
	AddCardUser(ctx context.Context, boardID, listID, cardID, userID restya.ID) restya.Result[restya.CardActivity]
	RemoveCardUser(ctx context.Context, boardID, listID, cardID, assignmentID restya.ID) restya.Result[restya.CardActivity]
}

// Credentials is the credential manager as seen by the actions.
type Credentials interface {
	SiteURL() string
	IsProvided() bool
	Set(ctx context.Context, site, token string) error
	SetSiteURL(ctx context.Context, site string) error
	SetToken(ctx context.Context, token string) error
	Reset(ctx context.Context) error
	Info() string
}

// Previewer writes and opens a card document.
type Previewer interface {
	Show(ctx context.Context, card restya.Card, markdown string, viewColumn int) error
}

// Actions holds the collaborators every command needs.
type Actions struct {
	api        API
	creds      Credentials
	ui         ui.UI
	registry   *Registry
	preview    Previewer
	viewColumn func() int
	recorder   metrics.Recorder
	logger     *slog.Logger
}

// Option customizes Actions.
type Option func(*Actions)

// WithViewColumn sets the source of the configured preview column.
func WithViewColumn(fn func() int) Option {
	return func(a *Actions) { a.viewColumn = fn }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(a *Actions) { a.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Actions) { a.logger = l }
}

// New creates Actions and registers the authenticate and showCard commands on registry.
// The refresh command is registered by whoever owns the tree.
func New(api API, creds Credentials, u ui.UI, registry *Registry, preview Previewer, opts ...Option) *Actions {
	a := &Actions{
		api:        api,
		creds:      creds,
		ui:         u,
		registry:   registry,
		preview:    preview,
		viewColumn: func() int { return 2 },
		recorder:   metrics.NoopRecorder{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	registry.Register(CommandAuthenticate, func(ctx context.Context, _ any) Status {
		return a.Authenticate(ctx)
	})
	registry.Register(CommandShowCard, func(ctx context.Context, arg any) Status {
		switch v := arg.(type) {
		case restya.Card:
			return a.ShowCard(ctx, v)
		case *restya.Card:
			if v != nil {
				return a.ShowCard(ctx, *v)
			}
		}
		return a.ShowCard(ctx, restya.Card{})
	})
	return a
}

func (a *Actions) finish(command string, s Status) Status {
	a.recorder.IncCommandResult(command, int(s))
	a.logger.Debug("Command finished", logfields.Command(command), logfields.Result(int(s)))
	return s
}

func (a *Actions) refresh(ctx context.Context) {
	a.registry.Dispatch(ctx, CommandRefresh, nil)
}

// ready checks the node context and the credentials.
func (a *Actions) ready(ctx context.Context, node *tree.Node, want tree.NodeType) bool {
	if node == nil || node.Type != want || node.ID == "" {
		if want == tree.TypeList {
			a.ui.Error(MsgInvalidList)
		} else {
			a.ui.Error(MsgInvalidCard)
		}
		return false
	}
	if !a.creds.IsProvided() {
		a.ui.Warn(tree.MsgMissingCredentials)
		a.registry.Dispatch(ctx, CommandAuthenticate, nil)
		return false
	}
	return true
}
