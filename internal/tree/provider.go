package tree

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/restyaboard/internal/logfields"
	"git.home.luguber.info/inful/restyaboard/internal/metrics"
	"git.home.luguber.info/inful/restyaboard/internal/restya"
)

// Messages shown through the Notifier.
const (
	MsgMissingCredentials = "Missing Credentials: please provide your Restyaboard URL and token to use."
	MsgNoCard             = "No card available"
)

// AuthenticateCommand is dispatched when a refresh finds no credentials.
const AuthenticateCommand = "authenticate"

// Fetcher loads one level of the hierarchy. Failures are reported by the
// implementation; the provider only inspects the outcome.
type Fetcher interface {
	Boards(ctx context.Context, starred bool) restya.Result[[]restya.Board]
	Lists(ctx context.Context, boardID restya.ID) restya.Result[[]restya.List]
	Cards(ctx context.Context, boardID, listID restya.ID) restya.Result[[]restya.Card]
}

// Credentials reports whether the site URL and token are both present.
type Credentials interface {
	IsProvided() bool
}

// Notifier shows warnings to the user.
type Notifier interface {
	Warn(msg string)
}

// DispatchFunc runs a named command.
type DispatchFunc func(ctx context.Context, command string)

type loadState int

const (
	stateUnloaded loadState = iota
	stateLoading
	stateLoaded
)

type boardEntry struct {
	board      restya.Board
	listsState loadState
	lists      []*listEntry
}

type listEntry struct {
	list       restya.List
	cardsState loadState
	cards      []restya.Card
}

// Provider is the hierarchy cache. It is safe for concurrent use.
type Provider struct {
	fetcher  Fetcher
	creds    Credentials
	notifier Notifier
	dispatch DispatchFunc
	starred  func() bool
	recorder metrics.Recorder
	logger   *slog.Logger

	mu         sync.Mutex
	generation uint64
	rootState  loadState
	firstLoad  bool
	boards     []*boardEntry
	listeners  []func()

	inflight sync.WaitGroup
}

// Option customizes a Provider.
type Option func(*Provider)

// WithStarred sets the source of the "starred boards only" setting (default true).
func WithStarred(fn func() bool) Option {
	return func(p *Provider) { p.starred = fn }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Provider) { p.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// NewProvider creates an empty Provider. dispatch may be nil.
func NewProvider(fetcher Fetcher, creds Credentials, notifier Notifier, dispatch DispatchFunc, opts ...Option) *Provider {
	p := &Provider{
		fetcher:   fetcher,
		creds:     creds,
		notifier:  notifier,
		dispatch:  dispatch,
		starred:   func() bool { return true },
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
		firstLoad: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subscribe registers fn to run after every change to the cached hierarchy.
func (p *Provider) Subscribe(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func (p *Provider) fire() {
	p.mu.Lock()
	listeners := append([]func(){}, p.listeners...)
	p.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// Wait blocks until every background fetch started so far has finished.
func (p *Provider) Wait() {
	p.inflight.Wait()
}

// Refresh discards the whole cache and starts re-fetching boards.
// Without credentials it warns, clears the cache and dispatches authenticate instead.
func (p *Provider) Refresh(ctx context.Context) {
	if !p.creds.IsProvided() {
		p.mu.Lock()
		p.generation++
		p.boards = nil
		p.rootState = stateUnloaded
		p.firstLoad = false
		p.mu.Unlock()

		p.notifier.Warn(MsgMissingCredentials)
		p.fire()
		if p.dispatch != nil {
			p.dispatch(ctx, AuthenticateCommand)
		}
		return
	}

	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.boards = nil
	p.rootState = stateLoading
	p.firstLoad = false
	p.inflight.Add(1)
	p.mu.Unlock()

	p.logger.Debug("Refreshing boards", logfields.Generation(gen))
	go p.fetchBoards(context.WithoutCancel(ctx), gen, p.starred())
}

func (p *Provider) fetchBoards(ctx context.Context, gen uint64, starred bool) {
	defer p.inflight.Done()
	res := p.fetcher.Boards(ctx, starred)

	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		p.recorder.IncTreeFetch("boards", metrics.ResultDropped)
		p.logger.Debug("Dropping stale boards response", logfields.Generation(gen))
		return
	}
	p.boards = nil
	for _, b := range res.Value {
		p.boards = append(p.boards, &boardEntry{board: b})
	}
	p.rootState = stateLoaded
	p.mu.Unlock()

	p.recorder.IncTreeFetch("boards", resultLabel(res.Outcome))
	p.fire()
}

// GetChildren returns the cached children of node (nil for the root).
// Unloaded children are fetched in the background and an empty slice is
// returned; subscribers are notified once they arrive.
func (p *Provider) GetChildren(ctx context.Context, node *Node) []Node {
	return p.children(ctx, node, true)
}

// Expand is GetChildren followed by a wait for any fetch it started.
// It does not start a second fetch when the first one failed.
func (p *Provider) Expand(ctx context.Context, node *Node) []Node {
	children := p.children(ctx, node, true)
	if len(children) > 0 {
		return children
	}
	p.Wait()
	return p.children(ctx, node, false)
}

func (p *Provider) children(ctx context.Context, node *Node, load bool) []Node {
	if node == nil {
		return p.rootChildren(ctx, load)
	}
	switch node.Type {
	case TypeBoard:
		return p.boardChildren(ctx, node.ID, load)
	case TypeList:
		return p.listChildren(ctx, node.BoardID, node.ID, load)
	default:
		return []Node{}
	}
}

func (p *Provider) rootChildren(ctx context.Context, load bool) []Node {
	p.mu.Lock()
	refresh := load && p.rootState == stateUnloaded && p.firstLoad
	nodes := make([]Node, 0, len(p.boards))
	for _, b := range p.boards {
		nodes = append(nodes, boardNode(b.board))
	}
	p.mu.Unlock()

	if refresh {
		p.Refresh(ctx)
	}
	return nodes
}

func (p *Provider) boardChildren(ctx context.Context, boardID restya.ID, load bool) []Node {
	p.mu.Lock()
	defer p.mu.Unlock()

	b := p.findBoard(boardID)
	if b == nil {
		p.logger.Error("Board not found in cache", logfields.BoardID(boardID.String()))
		return []Node{}
	}

	switch b.listsState {
	case stateUnloaded:
		if !load {
			return []Node{}
		}
		b.listsState = stateLoading
		p.inflight.Add(1)
		go p.fetchLists(context.WithoutCancel(ctx), p.generation, b)
		return []Node{}
	case stateLoading:
		return []Node{}
	}

	nodes := make([]Node, 0, len(b.lists))
	for _, l := range b.lists {
		nodes = append(nodes, listNode(l.list, boardID))
	}
	return nodes
}

func (p *Provider) fetchLists(ctx context.Context, gen uint64, b *boardEntry) {
	defer p.inflight.Done()
	res := p.fetcher.Lists(ctx, b.board.ID)

	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		p.recorder.IncTreeFetch("lists", metrics.ResultDropped)
		return
	}
	if res.Failed() {
		b.listsState = stateUnloaded
		p.mu.Unlock()
		p.recorder.IncTreeFetch("lists", metrics.ResultFailed)
		return
	}
	b.lists = make([]*listEntry, 0, len(res.Value))
	for _, l := range res.Value {
		b.lists = append(b.lists, &listEntry{list: l})
	}
	b.listsState = stateLoaded
	p.mu.Unlock()

	p.recorder.IncTreeFetch("lists", resultLabel(res.Outcome))
	p.fire()
}

func (p *Provider) listChildren(ctx context.Context, boardID, listID restya.ID, load bool) []Node {
	p.mu.Lock()
	defer p.mu.Unlock()

	b := p.findBoard(boardID)
	if b == nil {
		p.logger.Error("Board not found in cache", logfields.BoardID(boardID.String()))
		return []Node{}
	}
	l := b.findList(listID)
	if l == nil {
		p.logger.Error("List not found in cache",
			logfields.BoardID(boardID.String()),
			logfields.ListID(listID.String()))
		return []Node{}
	}

	switch l.cardsState {
	case stateUnloaded:
		if !load {
			return []Node{}
		}
		l.cardsState = stateLoading
		p.inflight.Add(1)
		go p.fetchCards(context.WithoutCancel(ctx), p.generation, boardID, l)
		return []Node{}
	case stateLoading:
		return []Node{}
	}

	nodes := make([]Node, 0, len(l.cards))
	for _, c := range l.cards {
		nodes = append(nodes, cardNode(c, boardID, listID))
	}
	return nodes
}

func (p *Provider) fetchCards(ctx context.Context, gen uint64, boardID restya.ID, l *listEntry) {
	defer p.inflight.Done()
	res := p.fetcher.Cards(ctx, boardID, l.list.ID)

	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		p.recorder.IncTreeFetch("cards", metrics.ResultDropped)
		return
	}
	if res.Failed() {
		l.cardsState = stateUnloaded
		p.mu.Unlock()
		p.recorder.IncTreeFetch("cards", metrics.ResultFailed)
		return
	}
	l.cards = append([]restya.Card{}, res.Value...)
	l.cardsState = stateLoaded
	p.mu.Unlock()

	p.recorder.IncTreeFetch("cards", resultLabel(res.Outcome))
	if len(res.Value) == 0 {
		p.notifier.Warn(MsgNoCard)
		return
	}
	p.fire()
}

// Card returns a cached card.
func (p *Provider) Card(boardID, listID, cardID restya.ID) (restya.Card, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b := p.findBoard(boardID)
	if b == nil {
		return restya.Card{}, false
	}
	l := b.findList(listID)
	if l == nil {
		return restya.Card{}, false
	}
	for _, c := range l.cards {
		if c.ID == cardID {
			return c, true
		}
	}
	return restya.Card{}, false
}

// findBoard requires p.mu.
func (p *Provider) findBoard(id restya.ID) *boardEntry {
	for _, b := range p.boards {
		if b.board.ID == id {
			return b
		}
	}
	return nil
}

func (b *boardEntry) findList(id restya.ID) *listEntry {
	for _, l := range b.lists {
		if l.list.ID == id {
			return l
		}
	}
	return nil
}

func resultLabel(o restya.Outcome) metrics.ResultLabel {
	switch o {
	case restya.OutcomeEmpty:
		return metrics.ResultEmpty
	case restya.OutcomeFailed:
		return metrics.ResultFailed
	default:
		return metrics.ResultOK
	}
}
