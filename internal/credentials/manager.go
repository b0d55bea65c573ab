package credentials

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Fixed store keys.
const (
	KeySiteURL = "restyaboardViewerSiteURL"
	KeyToken   = "restyaboardViewerApiToken"
)

// Credentials is the pair needed to talk to the board service.
type Credentials struct {
	SiteURL string
	Token   string
}

// Provided reports whether both values are non-empty.
func (c Credentials) Provided() bool {
	return c.SiteURL != "" && c.Token != ""
}

// Manager caches the credentials in memory and writes every change through to the Store.
// It satisfies the API client's Session interface.
type Manager struct {
	mu    sync.RWMutex
	store Store
	creds Credentials
}

// NewManager loads the current values from store.
func NewManager(ctx context.Context, store Store) (*Manager, error) {
	site, err := store.Get(ctx, KeySiteURL)
	if err != nil {
		return nil, err
	}
	token, err := store.Get(ctx, KeyToken)
	if err != nil {
		return nil, err
	}
	return &Manager{store: store, creds: Credentials{SiteURL: site, Token: token}}, nil
}

// Get returns a snapshot of the credentials.
func (m *Manager) Get() Credentials {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.creds
}

// SiteURL returns the stored site URL.
func (m *Manager) SiteURL() string { return m.Get().SiteURL }

// Token returns the stored API token.
func (m *Manager) Token() string { return m.Get().Token }

// IsProvided reports whether both site URL and token are set.
func (m *Manager) IsProvided() bool { return m.Get().Provided() }

// Set stores whichever of site and token are non-empty.
func (m *Manager) Set(ctx context.Context, site, token string) error {
	if site != "" {
		if err := m.SetSiteURL(ctx, site); err != nil {
			return err
		}
	}
	if token != "" {
		return m.SetToken(ctx, token)
	}
	return nil
}

// SetSiteURL stores the site URL. Trailing slashes are dropped so endpoint paths join cleanly.
func (m *Manager) SetSiteURL(ctx context.Context, site string) error {
	site = strings.TrimRight(strings.TrimSpace(site), "/")
	return m.put(ctx, KeySiteURL, site, func(c *Credentials) { c.SiteURL = site })
}

// SetToken stores the API token.
func (m *Manager) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	return m.put(ctx, KeyToken, token, func(c *Credentials) { c.Token = token })
}

// Reset clears both values.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Delete(ctx, KeySiteURL); err != nil {
		return err
	}
	m.creds.SiteURL = ""
	if err := m.store.Delete(ctx, KeyToken); err != nil {
		return err
	}
	m.creds.Token = ""
	slog.Debug("Credentials reset")
	return nil
}

func (m *Manager) put(ctx context.Context, key, value string, apply func(*Credentials)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.Set(ctx, key, value); err != nil {
		return err
	}
	apply(&m.creds)
	return nil
}

// Info describes the stored credentials for display. The token is masked.
func (m *Manager) Info() string {
	c := m.Get()
	site := c.SiteURL
	if site == "" {
		site = "(not set)"
	}
	return fmt.Sprintf("Restyaboard URL: %s\nAPI token: %s", site, MaskToken(c.Token))
}

// MaskToken hides all but the last four characters of token.
func MaskToken(token string) string {
	switch {
	case token == "":
		return "(not set)"
	case len(token) <= 4:
		return strings.Repeat("*", len(token))
	default:
		return strings.Repeat("*", len(token)-4) + token[len(token)-4:]
	}
}
