package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveRequest("GET", "boards", 200, 150*time.Millisecond)
	pr.ObserveRequest("PUT", "card", 500, 20*time.Millisecond)
	pr.IncTreeFetch("cards", ResultEmpty)
	pr.IncCommandResult("addCard", 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	require.True(t, names["restyaboard_api_requests_total"])
	require.True(t, names["restyaboard_api_request_duration_seconds"])
	require.True(t, names["restyaboard_tree_fetches_total"])
	require.True(t, names["restyaboard_command_results_total"])
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncCommandResult("archiveCard", 3)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `restyaboard_command_results_total{command="archiveCard",status="3"} 1`))
}

func TestNewRegistryIncludesBaseCollectors(t *testing.T) {
	reg := NewRegistry()
	NewPrometheusRecorder(reg).IncCommandResult("showCard", 3)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	require.Contains(t, body, "go_goroutines")
	require.Contains(t, body, "restyaboard_build_info")
	require.Contains(t, body, `restyaboard_command_results_total{command="showCard",status="3"} 1`)
}
