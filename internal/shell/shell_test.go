package shell

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/restyaboard/internal/app"
	"git.home.luguber.info/inful/restyaboard/internal/config"
	"git.home.luguber.info/inful/restyaboard/internal/credentials"
	"git.home.luguber.info/inful/restyaboard/internal/preview"
)

// boardService is a minimal board service with one board, two lists and one card.
type boardService struct {
	mu      sync.Mutex
	created []string
	hits    map[string]int
}

func (b *boardService) handler() http.Handler {
	mux := http.NewServeMux()
	reply := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			b.hits[r.Method+" "+r.URL.Path]++
			b.mu.Unlock()
			_, _ = io.WriteString(w, body)
		}
	}
	mux.HandleFunc("GET /api/v1/boards.json", reply(`{"data":[{"id":1,"name":"Roadmap"}]}`))
	mux.HandleFunc("GET /api/v1/boards/1/lists.json", reply(`{"data":[{"id":10,"name":"Todo","board_id":1},{"id":11,"name":"Done","board_id":1}]}`))
	mux.HandleFunc("GET /api/v1/boards/1/lists/10/cards.json", reply(`{"data":[{"id":100,"name":"Fix login","board_id":1,"list_id":10}]}`))
	mux.HandleFunc("GET /api/v1/boards/1/lists/11/cards.json", reply(`{"data":[]}`))
	mux.HandleFunc("GET /api/v1/boards/1/lists/10/cards/100/activities.json", reply(`{"data":[]}`))
	mux.HandleFunc("POST /api/v1/boards/1/lists/10/cards.json", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.created = append(b.created, string(raw))
		b.mu.Unlock()
		_, _ = io.WriteString(w, `{"status":"success","activity":{"card_id":101,"card_name":"New card"}}`)
	})
	return mux
}

func (b *boardService) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[key]
}

type harness struct {
	shell   *Shell
	app     *app.App
	out     *bytes.Buffer
	service *boardService
	preview string
}

func newHarness(t *testing.T, input string, withCreds bool) *harness {
	t.Helper()
	svc := &boardService{hits: map[string]int{}}
	srv := httptest.NewServer(svc.handler())
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.State.Dir = t.TempDir()
	out := &bytes.Buffer{}
	previewDir := t.TempDir()

	ctx := t.Context()
	a, err := app.New(ctx, cfg, app.Options{
		In:         strings.NewReader(input),
		Out:        out,
		Store:      credentials.NewMemoryStore(),
		PreviewDir: previewDir,
		Clipboard:  func(string) error { return nil },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	if withCreds {
		require.NoError(t, a.Credentials.Set(ctx, srv.URL, "tok"))
	}

	return &harness{shell: New(a, Options{}), app: a, out: out, service: svc, preview: previewDir}
}

func TestShellBrowsesTree(t *testing.T) {
	h := newHarness(t, "ls\nls 1\nls 1/1\nls 1/2\ntree\nquit\n", true)

	require.NoError(t, h.shell.Run(t.Context()))

	out := h.out.String()
	assert.Contains(t, out, "Roadmap")
	assert.Contains(t, out, "Todo")
	assert.Contains(t, out, "Done")
	assert.Contains(t, out, "Fix login")
	assert.Contains(t, out, "(id: 100)")
	assert.Contains(t, out, "(empty)")
	// Cached levels are not fetched again by tree.
	assert.Equal(t, 1, h.service.count("GET /api/v1/boards.json"))
	assert.Equal(t, 1, h.service.count("GET /api/v1/boards/1/lists.json"))
	assert.Equal(t, 1, h.service.count("GET /api/v1/boards/1/lists/10/cards.json"))
}

func TestShellAddCardRefreshesOnce(t *testing.T) {
	h := newHarness(t, "ls 1/1\nadd-card 1/1\nNew card\nquit\n", true)

	require.NoError(t, h.shell.Run(t.Context()))

	require.Len(t, h.service.created, 1)
	assert.Contains(t, h.service.created[0], `"name":"New card"`)
	assert.Contains(t, h.out.String(), "Created Card: 101-New card")
	// Initial load plus the single refresh after creating the card.
	assert.Equal(t, 2, h.service.count("GET /api/v1/boards.json"))
}

func TestShellShowCardWritesAndRemovesPreview(t *testing.T) {
	h := newHarness(t, "show 1/1/1\n", true)

	require.NoError(t, h.shell.Run(t.Context()))

	out := h.out.String()
	assert.Contains(t, out, "Fix login")
	assert.Contains(t, out, "(preview: "+filepath.Join(h.preview, preview.ScratchFileName))
	assert.Equal(t, 1, h.service.count("GET /api/v1/boards/1/lists/10/cards/100/activities.json"))

	_, err := os.Stat(filepath.Join(h.preview, preview.ScratchFileName))
	assert.True(t, os.IsNotExist(err), "scratch file removed on exit")
}

func TestShellReportsBadPaths(t *testing.T) {
	h := newHarness(t, "ls 9\nls x\nshow\nbogus\n", true)

	require.NoError(t, h.shell.Run(t.Context()))

	out := h.out.String()
	assert.Contains(t, out, `no item 9 under "/"`)
	assert.Contains(t, out, `invalid path element "x"`)
	assert.Contains(t, out, "usage: show <path>")
	assert.Contains(t, out, `unknown command "bogus"`)
}

func TestShellCardActionWithoutPath(t *testing.T) {
	h := newHarness(t, "archive\n", true)

	require.NoError(t, h.shell.Run(t.Context()))
	assert.Contains(t, h.out.String(), "Could not get valid card")
}

func TestShellWithoutCredentialsAsksToAuthenticate(t *testing.T) {
	h := newHarness(t, "ls\n/cancel\n", false)

	require.NoError(t, h.shell.Run(t.Context()))

	out := h.out.String()
	assert.Contains(t, out, "Missing Credentials")
	assert.Zero(t, h.service.count("GET /api/v1/boards.json"))
}

func TestShellPrintsUpdateMarkerWhenIdle(t *testing.T) {
	h := newHarness(t, "", true)

	h.app.Tree.Refresh(context.Background())
	h.app.Tree.Wait()

	assert.Contains(t, h.out.String(), UpdatedMarker)
}

func TestShellHelpListsCommands(t *testing.T) {
	h := newHarness(t, "help\n", true)

	require.NoError(t, h.shell.Run(t.Context()))

	out := h.out.String()
	for _, name := range []string{"add-card", "edit-desc", "remove-user", "set-credentials", "reset-credentials", "quit"} {
		assert.Contains(t, out, name)
	}
}
