package actions

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/restyaboard/internal/credentials"
	"git.home.luguber.info/inful/restyaboard/internal/restya"
	"git.home.luguber.info/inful/restyaboard/internal/tree"
	"git.home.luguber.info/inful/restyaboard/internal/ui"
)

type call struct {
	Name   string
	Args   []restya.ID
	Text   string
	Update restya.CardUpdate
}

type fakeAPI struct {
	mu       sync.Mutex
	calls    []call
	board    restya.Result[restya.Board]
	lists    restya.Result[[]restya.List]
	card     restya.Result[restya.Card]
	comments restya.Result[[]restya.Comment]
	me       restya.Result[restya.Me]
	mutation restya.Result[restya.CardActivity]
}

func (f *fakeAPI) record(c call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeAPI) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Name)
	}
	return out
}

func (f *fakeAPI) last() call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func (f *fakeAPI) Board(_ context.Context, b restya.ID) restya.Result[restya.Board] {
	f.record(call{Name: "Board", Args: []restya.ID{b}})
	return f.board
}

func (f *fakeAPI) Lists(_ context.Context, b restya.ID) restya.Result[[]restya.List] {
	f.record(call{Name: "Lists", Args: []restya.ID{b}})
	return f.lists
}

func (f *fakeAPI) Card(_ context.Context, b, l, c restya.ID) restya.Result[restya.Card] {
	f.record(call{Name: "Card", Args: []restya.ID{b, l, c}})
	return f.card
}

func (f *fakeAPI) Comments(_ context.Context, b, l, c restya.ID) restya.Result[[]restya.Comment] {
	f.record(call{Name: "Comments", Args: []restya.ID{b, l, c}})
	return f.comments
}

func (f *fakeAPI) Me(context.Context) restya.Result[restya.Me] {
	f.record(call{Name: "Me"})
	return f.me
}

func (f *fakeAPI) CreateCard(_ context.Context, b, l restya.ID, name string) restya.Result[restya.CardActivity] {
	f.record(call{Name: "CreateCard", Args: []restya.ID{b, l}, Text: name})
	return f.mutation
}

func (f *fakeAPI) UpdateCard(_ context.Context, b, l, c restya.ID, u restya.CardUpdate) restya.Result[restya.CardActivity] {
	f.record(call{Name: "UpdateCard", Args: []restya.ID{b, l, c}, Update: u})
	return f.mutation
}

func (f *fakeAPI) AddComment(_ context.Context, b, l, c, u restya.ID, text string) restya.Result[restya.CardActivity] {
	f.record(call{Name: "AddComment", Args: []restya.ID{b, l, c, u}, Text: text})
	return f.mutation
}

func (f *fakeAPI) AddCardUser(_ context.Context, b, l, c, u restya.ID) restya.Result[restya.CardActivity] {
	f.record(call{Name: "AddCardUser", Args: []restya.ID{b, l, c, u}})
	return f.mutation
}

func (f *fakeAPI) RemoveCardUser(_ context.Context, b, l, c, id restya.ID) restya.Result[restya.CardActivity] {
	f.record(call{Name: "RemoveCardUser", Args: []restya.ID{b, l, c, id}})
	return f.mutation
}

type fakePreview struct {
	cards   []restya.Card
	docs    []string
	columns []int
	err     error
}

func (p *fakePreview) Show(_ context.Context, card restya.Card, md string, col int) error {
	p.cards = append(p.cards, card)
	p.docs = append(p.docs, md)
	p.columns = append(p.columns, col)
	return p.err
}

func ok[T any](v T) restya.Result[T] { return restya.Result[T]{Value: v, Outcome: restya.OutcomeOK} }

func failedResult[T any]() restya.Result[T] { return restya.Result[T]{Outcome: restya.OutcomeFailed} }

type harness struct {
	api       *fakeAPI
	ui        *ui.Scripted
	creds     *credentials.Manager
	preview   *fakePreview
	actions   *Actions
	refreshes int
}

func newHarness(t *testing.T, withCreds bool, answers ...ui.Answer) *harness {
	t.Helper()
	ctx := t.Context()
	creds, err := credentials.NewManager(ctx, credentials.NewMemoryStore())
	require.NoError(t, err)
	if withCreds {
		require.NoError(t, creds.Set(ctx, "https://board.example.com", "tok"))
	}

	h := &harness{
		api: &fakeAPI{
			board: ok(restya.Board{ID: "1", BoardsUsers: []restya.BoardUser{
				{UserID: "9", FullName: "Ada Lovelace"},
				{UserID: "12", FullName: "Grace Hopper"},
			}}),
			lists: ok([]restya.List{{ID: "10", Name: "Todo"}, {ID: "11", Name: "Done"}}),
			card: ok(restya.Card{ID: "100", Name: "Fix login", Description: "line1\nline2", Position: 4,
				Members: []restya.Member{{ID: "40", UserID: "9", FullName: "Ada Lovelace"}}}),
			comments: ok([]restya.Comment{}),
			me:       ok(restya.Me{ID: "9", User: restya.User{ID: "9", Initials: "AL"}}),
			mutation: ok(restya.CardActivity{}),
		},
		ui:      ui.NewScripted(answers...),
		creds:   creds,
		preview: &fakePreview{},
	}
	h.api.mutation.Value.Activity.CardID = "100"
	h.api.mutation.Value.Activity.CardName = "Fix login"

	registry := NewRegistry()
	registry.Register(CommandRefresh, func(context.Context, any) Status {
		h.refreshes++
		return StatusOK
	})
	h.actions = New(h.api, creds, h.ui, registry, h.preview, WithViewColumn(func() int { return 3 }))
	return h
}

var (
	listNode = &tree.Node{Type: tree.TypeList, ID: "10", BoardID: "1", Label: "Todo"}
	cardNode = &tree.Node{Type: tree.TypeCard, ID: "100", BoardID: "1", ListID: "10", Label: "Fix login"}
)

func TestMutatingActions_RefreshExactlyOnceOnSuccess(t *testing.T) {
	tests := []struct {
		name    string
		answers []ui.Answer
		run     func(*Actions, context.Context) Status
		apiCall string
	}{
		{"add card", []ui.Answer{{Value: "New"}}, func(a *Actions, ctx context.Context) Status { return a.AddCard(ctx, listNode) }, "CreateCard"},
		{"edit title", []ui.Answer{{Value: "Renamed"}}, func(a *Actions, ctx context.Context) Status { return a.EditTitle(ctx, cardNode) }, "UpdateCard"},
		{"edit description", []ui.Answer{{Value: `a\nb`}}, func(a *Actions, ctx context.Context) Status { return a.EditDescription(ctx, cardNode) }, "UpdateCard"},
		{"add comment", []ui.Answer{{Value: "looks good"}}, func(a *Actions, ctx context.Context) Status { return a.AddComment(ctx, cardNode) }, "AddComment"},
		{"add self", nil, func(a *Actions, ctx context.Context) Status { return a.AddSelf(ctx, cardNode) }, "AddCardUser"},
		{"remove self", nil, func(a *Actions, ctx context.Context) Status { return a.RemoveSelf(ctx, cardNode) }, "RemoveCardUser"},
		{"add user", []ui.Answer{{Index: 1}}, func(a *Actions, ctx context.Context) Status { return a.AddUser(ctx, cardNode) }, "AddCardUser"},
		{"remove user", []ui.Answer{{Index: 0}}, func(a *Actions, ctx context.Context) Status { return a.RemoveUser(ctx, cardNode) }, "RemoveCardUser"},
		{"move card", []ui.Answer{{Index: 1}}, func(a *Actions, ctx context.Context) Status { return a.MoveCard(ctx, cardNode) }, "UpdateCard"},
		{"archive card", nil, func(a *Actions, ctx context.Context) Status { return a.ArchiveCard(ctx, cardNode) }, "UpdateCard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, true, tt.answers...)
			status := tt.run(h.actions, t.Context())
			assert.Equal(t, StatusOK, status)
			assert.Equal(t, 1, h.refreshes)
			assert.Equal(t, tt.apiCall, h.api.last().Name)
			assert.Empty(t, h.ui.Recorded("error"))
		})

		t.Run(tt.name+" failed request", func(t *testing.T) {
			h := newHarness(t, true, tt.answers...)
			h.api.mutation = failedResult[restya.CardActivity]()
			status := tt.run(h.actions, t.Context())
			assert.Equal(t, StatusRequestFailed, status)
			assert.Zero(t, h.refreshes)
		})

		t.Run(tt.name+" cancelled", func(t *testing.T) {
			if len(tt.answers) == 0 {
				t.Skip("no prompt")
			}
			h := newHarness(t, true)
			assert.Equal(t, StatusCancelled, tt.run(h.actions, t.Context()))
			assert.Zero(t, h.refreshes)
			assert.Empty(t, h.ui.Recorded(""))
		})
	}
}

func TestActions_InvalidContext(t *testing.T) {
	h := newHarness(t, true)
	ctx := t.Context()

	assert.Equal(t, StatusInvalidContext, h.actions.AddCard(ctx, nil))
	assert.Equal(t, StatusInvalidContext, h.actions.AddCard(ctx, cardNode))
	assert.Equal(t, StatusInvalidContext, h.actions.EditTitle(ctx, nil))
	assert.Equal(t, StatusInvalidContext, h.actions.ArchiveCard(ctx, listNode))

	errs := h.ui.Recorded("error")
	require.Len(t, errs, 4)
	assert.Equal(t, MsgInvalidList, errs[0].Text)
	assert.Equal(t, MsgInvalidCard, errs[2].Text)
	assert.Empty(t, h.api.names())
	assert.Zero(t, h.refreshes)
}

func TestActions_MissingCredentialsDispatchesAuthenticate(t *testing.T) {
	h := newHarness(t, false)
	status := h.actions.ArchiveCard(t.Context(), cardNode)

	assert.Equal(t, StatusInvalidContext, status)
	warns := h.ui.Recorded("warn")
	require.Len(t, warns, 1)
	assert.Equal(t, tree.MsgMissingCredentials, warns[0].Text)
	// authenticate ran and prompted for the site URL (cancelled by the empty script)
	assert.NotEmpty(t, h.ui.Prompts)
	assert.Empty(t, h.api.names())
}

func TestEditTitle_PrefillsCurrentName(t *testing.T) {
	h := newHarness(t, true, ui.Answer{Value: "Renamed"})
	require.Equal(t, StatusOK, h.actions.EditTitle(t.Context(), cardNode))
	assert.Equal(t, []string{"Fix login"}, h.ui.Prefills)
	require.NotNil(t, h.api.last().Update.Name)
	assert.Equal(t, "Renamed", *h.api.last().Update.Name)
	assert.Equal(t, "Updated title for card: Renamed", h.ui.Recorded("info")[0].Text)
}

func TestEditDescription_EscapesNewlines(t *testing.T) {
	h := newHarness(t, true, ui.Answer{Value: `first\nsecond`})
	require.Equal(t, StatusOK, h.actions.EditDescription(t.Context(), cardNode))
	assert.Equal(t, []string{`line1\nline2`}, h.ui.Prefills)
	require.NotNil(t, h.api.last().Update.Description)
	assert.Equal(t, "first\nsecond", *h.api.last().Update.Description)
}

func TestEditDescription_ClearWordEmptiesDescription(t *testing.T) {
	h := newHarness(t, true)
	term := ui.NewTerminal(strings.NewReader(ui.ClearWord+"\n"), io.Discard)
	a := New(h.api, h.creds, term, NewRegistry(), h.preview)

	require.Equal(t, StatusOK, a.EditDescription(t.Context(), cardNode))
	require.NotNil(t, h.api.last().Update.Description)
	assert.Empty(t, *h.api.last().Update.Description)
}

func TestEditTitle_CardFetchFails(t *testing.T) {
	h := newHarness(t, true, ui.Answer{Value: "x"})
	h.api.card = failedResult[restya.Card]()
	assert.Equal(t, StatusRequestFailed, h.actions.EditTitle(t.Context(), cardNode))
	assert.Empty(t, h.ui.Prompts)
}

func TestAddCard_LinksToNewCard(t *testing.T) {
	h := newHarness(t, true, ui.Answer{Value: "New"})
	require.Equal(t, StatusOK, h.actions.AddCard(t.Context(), listNode))

	c := h.api.last()
	assert.Equal(t, []restya.ID{"1", "10"}, c.Args)
	assert.Equal(t, "New", c.Text)
	links := h.ui.Recorded("link")
	require.Len(t, links, 1)
	assert.Equal(t, "Created Card: 100-Fix login", links[0].Text)
	assert.Equal(t, "https://board.example.com/#/board/1/card/100", links[0].URL)
}

func TestRemoveSelf_NotAssigned(t *testing.T) {
	h := newHarness(t, true)
	h.api.me = ok(restya.Me{ID: "77", User: restya.User{Initials: "ZZ"}})
	assert.Equal(t, StatusRequestFailed, h.actions.RemoveSelf(t.Context(), cardNode))
	assert.Equal(t, MsgNotAssigned, h.ui.Recorded("error")[0].Text)
	assert.Zero(t, h.refreshes)
	assert.NotContains(t, h.api.names(), "RemoveCardUser")
}

func TestRemoveSelf_UsesAssignmentID(t *testing.T) {
	h := newHarness(t, true)
	require.Equal(t, StatusOK, h.actions.RemoveSelf(t.Context(), cardNode))
	assert.Equal(t, restya.ID("40"), h.api.last().Args[3])
	assert.Equal(t, "Removed user AL from card", h.ui.Recorded("info")[0].Text)
}

func TestAddUser_PicksBoardUser(t *testing.T) {
	h := newHarness(t, true, ui.Answer{Index: 1})
	require.Equal(t, StatusOK, h.actions.AddUser(t.Context(), cardNode))
	assert.Equal(t, restya.ID("12"), h.api.last().Args[3])
	assert.Equal(t, "Added user Grace Hopper to card", h.ui.Recorded("info")[0].Text)
}

func TestMoveCard_KeepsPosition(t *testing.T) {
	h := newHarness(t, true, ui.Answer{Index: 1})
	require.Equal(t, StatusOK, h.actions.MoveCard(t.Context(), cardNode))
	u := h.api.last().Update
	assert.Equal(t, restya.ID("11"), u.ListID)
	assert.Equal(t, restya.ID("1"), u.BoardID)
	require.NotNil(t, u.Position)
	assert.Equal(t, restya.Number(4), *u.Position)
	assert.Equal(t, "Moved card to list: Done", h.ui.Recorded("info")[0].Text)
}

func TestArchiveCard(t *testing.T) {
	h := newHarness(t, true)
	require.Equal(t, StatusOK, h.actions.ArchiveCard(t.Context(), cardNode))
	assert.Equal(t, 1, h.api.last().Update.IsArchived)
	assert.Equal(t, "Archived Card: 100-Fix login", h.ui.Recorded("link")[0].Text)
}

func TestShowCard(t *testing.T) {
	h := newHarness(t, true)
	h.api.comments = ok([]restya.Comment{{FullName: "Ada", Created: "2024-03-05T14:07:00", Comment: "hi"}})

	card := restya.Card{ID: "100", BoardID: "1", ListID: "10", Name: "Fix login"}
	require.Equal(t, StatusOK, h.actions.ShowCard(t.Context(), card))
	require.Len(t, h.preview.docs, 1)
	assert.Contains(t, h.preview.docs[0], "Fix login")
	assert.Contains(t, h.preview.docs[0], "Ada - 05 Mar 2024")
	assert.Equal(t, []int{3}, h.preview.columns)
	assert.Zero(t, h.refreshes, "showing a card does not refresh")

	assert.Equal(t, StatusInvalidContext, h.actions.ShowCard(t.Context(), restya.Card{}))
	assert.Equal(t, MsgNoCardSelected, h.ui.Recorded("error")[0].Text)
}

func TestShowCard_ViaRegistry(t *testing.T) {
	h := newHarness(t, true)
	status := h.actions.registry.Dispatch(t.Context(), CommandShowCard, restya.Card{ID: "100", BoardID: "1", ListID: "10"})
	assert.Equal(t, StatusOK, status)
	assert.Len(t, h.preview.cards, 1)
}

func TestAuthenticate(t *testing.T) {
	h := newHarness(t, false, ui.Answer{Value: "https://board.example.com/"}, ui.Answer{Value: "secret"})
	require.Equal(t, StatusOK, h.actions.Authenticate(t.Context()))

	assert.True(t, h.creds.IsProvided())
	assert.Equal(t, "https://board.example.com", h.creds.SiteURL())
	assert.Equal(t, 1, h.refreshes)
	links := h.ui.Recorded("link")
	require.Len(t, links, 1)
	assert.Equal(t, AuthorizeURL("https://board.example.com"), links[0].URL)
}

func TestAuthenticate_StoresURLAsTyped(t *testing.T) {
	h := newHarness(t, false, ui.Answer{Value: "board.example.com"}, ui.Answer{Value: "secret"})
	require.Equal(t, StatusOK, h.actions.Authenticate(t.Context()))

	assert.Equal(t, "board.example.com", h.creds.SiteURL())
	assert.True(t, h.creds.IsProvided())
	assert.Empty(t, h.ui.Recorded("error"))
	assert.Equal(t, 1, h.refreshes)
}

func TestAuthenticate_CancelledURL(t *testing.T) {
	h := newHarness(t, false)
	assert.Equal(t, StatusCancelled, h.actions.Authenticate(t.Context()))
	assert.Equal(t, MsgEnterSiteURL, h.ui.Recorded("info")[0].Text)
	assert.Zero(t, h.refreshes)
}

func TestAuthorizeURL(t *testing.T) {
	assert.Equal(t,
		"https://b.example.com/oauth/authorize?response_type=code&client_id=9335847554774492&scope=read%20write&state=1562312999016&redirect_uri=https://b.example.com/apps/r_visualstudio/login.html",
		AuthorizeURL("https://b.example.com/"))
}

func TestSetCredentials(t *testing.T) {
	h := newHarness(t, false, ui.Answer{Cancel: true}, ui.Answer{Value: "tok"})
	require.Equal(t, StatusOK, h.actions.SetCredentials(t.Context()))
	assert.Equal(t, "tok", h.creds.Token())
	assert.Empty(t, h.creds.SiteURL())
	assert.Zero(t, h.refreshes)

	h = newHarness(t, false)
	assert.Equal(t, StatusCancelled, h.actions.SetCredentials(t.Context()))
}

func TestResetCredentials(t *testing.T) {
	h := newHarness(t, true)
	require.Equal(t, StatusOK, h.actions.ResetCredentials(t.Context()))
	assert.False(t, h.creds.IsProvided())
	assert.Equal(t, MsgCredentialsReset, h.ui.Recorded("info")[0].Text)
	assert.Equal(t, 1, h.refreshes)
}

func TestShowInfo_MasksToken(t *testing.T) {
	h := newHarness(t, false)
	require.NoError(t, h.creds.Set(t.Context(), "https://b.example.com", "abcdefgh1234"))
	h.actions.ShowInfo(t.Context())
	info := h.ui.Recorded("info")[0].Text
	assert.Contains(t, info, "1234")
	assert.NotContains(t, info, "abcdefgh")
}

func TestStatus_Err(t *testing.T) {
	assert.NoError(t, StatusOK.Err("x"))
	assert.NoError(t, StatusCancelled.Err("x"))
	assert.Error(t, StatusInvalidContext.Err("x"))
	assert.Error(t, StatusRequestFailed.Err("x"))
	assert.Equal(t, "request_failed", StatusRequestFailed.String())
}

func TestRegistry_UnknownCommand(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, StatusInvalidContext, r.Dispatch(t.Context(), "nope", nil))
}

// End to end against an HTTP server: a failing request is reported once and never refreshes.
func TestArchiveCard_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "database down")
	}))
	defer srv.Close()

	ctx := t.Context()
	creds, err := credentials.NewManager(ctx, credentials.NewMemoryStore())
	require.NoError(t, err)
	require.NoError(t, creds.Set(ctx, srv.URL, "tok"))

	script := ui.NewScripted()
	client := restya.NewClient(creds, script)
	registry := NewRegistry()
	refreshes := 0
	registry.Register(CommandRefresh, func(context.Context, any) Status { refreshes++; return StatusOK })
	a := New(client, creds, script, registry, &fakePreview{})

	assert.Equal(t, StatusRequestFailed, a.ArchiveCard(ctx, cardNode))
	assert.Zero(t, refreshes)
	errs := script.Recorded("error")
	require.Len(t, errs, 1)
	assert.Equal(t, "HTTP error: 500 - database down", errs[0].Text)
}
