package restya

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/restyaboard/internal/foundation/errors"
	"git.home.luguber.info/inful/restyaboard/internal/logfields"
	"git.home.luguber.info/inful/restyaboard/internal/metrics"
	"git.home.luguber.info/inful/restyaboard/internal/version"
)

// maxErrorBody bounds how much of a failed response body is shown to the user.
const maxErrorBody = 512

// Session supplies the site URL and access token for each request.
// The credentials manager implements it; values are read per request so a
// re-authentication takes effect without rebuilding the client.
type Session interface {
	SiteURL() string
	Token() string
}

// Reporter shows a failure to the user.
type Reporter interface {
	Error(msg string)
}

// BaseClient provides the HTTP plumbing shared by all endpoints: URL building,
// token placement, JSON encoding, error classification and reporting.
type BaseClient struct {
	httpClient *http.Client
	session    Session
	reporter   Reporter
	recorder   metrics.Recorder
	logger     *slog.Logger
	userAgent  string
}

// Option customizes a BaseClient.
type Option func(*BaseClient)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(b *BaseClient) { b.httpClient = c }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *BaseClient) { b.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *BaseClient) { b.logger = l }
}

// NewBaseClient creates a BaseClient. A nil reporter discards user messages.
func NewBaseClient(session Session, reporter Reporter, opts ...Option) *BaseClient {
	b := &BaseClient{
		httpClient: http.DefaultClient,
		session:    session,
		reporter:   reporter,
		recorder:   metrics.NoopRecorder{},
		logger:     slog.Default(),
		userAgent:  "restyaboard-viewer/" + version.Version,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewRequest creates an HTTP request against the configured site.
// Endpoint is a path like "/api/v1/boards.json" and may carry its own query string;
// query values are merged on top of it.
func (b *BaseClient) NewRequest(ctx context.Context, method, endpoint string, query url.Values, body any) (*http.Request, error) {
	siteURL := b.session.SiteURL()
	if siteURL == "" {
		return nil, errors.AuthError("site URL is not configured").Build()
	}

	cleanEndpoint := strings.TrimPrefix(endpoint, "/")
	var rawQuery string
	if idx := strings.Index(cleanEndpoint, "?"); idx != -1 {
		rawQuery = cleanEndpoint[idx+1:]
		cleanEndpoint = cleanEndpoint[:idx]
	}

	u, err := url.Parse(siteURL)
	if err != nil {
		return nil, errors.ConfigError("failed to parse site URL").
			WithCause(err).
			WithContext("site_url", siteURL).
			Build()
	}

	// Join paths while preserving a base path (sites hosted under a prefix).
	basePath := strings.TrimSuffix(u.Path, "/")
	u.Path = path.Join("/", basePath, cleanEndpoint)

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, errors.InternalError("invalid endpoint query").
			WithCause(err).
			WithContext("endpoint", endpoint).
			Build()
	}
	for key, vs := range query {
		for _, v := range vs {
			values.Add(key, v)
		}
	}
	u.RawQuery = values.Encode()

	var reader io.Reader = http.NoBody
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, errors.InternalError("failed to marshal request body").
				WithCause(err).
				Build()
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, errors.InternalError("failed to create request").
			WithCause(err).
			WithContext("method", method).
			WithContext("url", u.String()).
			Build()
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	return req, nil
}

// DoRequest executes req and decodes a JSON body into result (when non-nil and the body is not empty).
// Any failure is reported to the user exactly once and returned as a classified error.
// The returned bool is false when the body was empty or JSON null.
func (b *BaseClient) DoRequest(req *http.Request, route string, result any) (bool, error) {
	start := time.Now()
	requestID := req.Header.Get("X-Request-ID")
	logger := b.logger.With(
		logfields.Method(req.Method),
		logfields.Route(route),
		logfields.RequestID(requestID),
	)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.recorder.ObserveRequest(req.Method, route, 0, time.Since(start))
		cerr := errors.NetworkError("failed to execute request").
			WithCause(err).
			WithContext("url", redact(req.URL)).
			Build()
		logger.Error("Request failed", logfields.Error(err))
		b.report(fmt.Sprintf("HTTP error: request failed - %v", err))
		return false, cerr
	}
	defer func() { _ = resp.Body.Close() }()
	b.recorder.ObserveRequest(req.Method, route, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 400 {
		limitedBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		bodyStr := strings.TrimSpace(strings.ReplaceAll(string(limitedBody), "\n", " "))

		builder := errors.APIError(fmt.Sprintf("HTTP error: %d - %s", resp.StatusCode, bodyStr))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			builder = errors.AuthError(fmt.Sprintf("HTTP error: %d - %s", resp.StatusCode, bodyStr))
		}
		cerr := builder.
			WithContext("status", resp.StatusCode).
			WithContext("url", redact(req.URL)).
			WithContext("response", bodyStr).
			Build()

		logger.Error("Request returned error status",
			logfields.Status(resp.StatusCode),
			slog.String("response", bodyStr))
		b.report(cerr.Message())
		return false, cerr
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		cerr := errors.NetworkError("failed to read response").WithCause(err).Build()
		logger.Error("Reading response failed", logfields.Error(err))
		b.report(fmt.Sprintf("HTTP error: %d - %v", resp.StatusCode, err))
		return false, cerr
	}

	logger.Debug("Request completed",
		logfields.Status(resp.StatusCode),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false, nil
	}
	if result != nil {
		if err := json.Unmarshal(trimmed, result); err != nil {
			cerr := errors.APIError("failed to decode response").
				WithCause(err).
				WithContext("status", resp.StatusCode).
				Build()
			logger.Error("Decoding response failed", logfields.Error(err))
			b.report(fmt.Sprintf("HTTP error: %d - unexpected response: %v", resp.StatusCode, err))
			return false, cerr
		}
	}
	return true, nil
}

func (b *BaseClient) report(msg string) {
	if b.reporter != nil {
		b.reporter.Error(msg)
	}
}

// redact drops the token from a URL before it is logged or attached to an error.
func redact(u *url.URL) string {
	c := *u
	q := c.Query()
	if q.Has("token") {
		q.Set("token", "REDACTED")
		c.RawQuery = q.Encode()
	}
	return c.String()
}
