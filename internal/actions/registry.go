package actions

import (
	"context"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/restyaboard/internal/logfields"
)

// Command names shared by the tree, the actions and the shell.
const (
	CommandRefresh      = "refresh"
	CommandAuthenticate = "authenticate"
	CommandShowCard     = "showCard"
)

// Handler runs a command. arg carries the command argument (a card for showCard).
type Handler func(ctx context.Context, arg any) Status

// Registry maps command names to handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds name to h, replacing any previous handler.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Dispatch runs the named command. Unknown commands are logged and reported
// as StatusInvalidContext.
func (r *Registry) Dispatch(ctx context.Context, name string, arg any) Status {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		slog.Warn("Unknown command", logfields.Command(name))
		return StatusInvalidContext
	}
	return h(ctx, arg)
}

// DispatchFunc adapts the registry to callers that only pass a command name.
func (r *Registry) DispatchFunc() func(ctx context.Context, name string) {
	return func(ctx context.Context, name string) {
		r.Dispatch(ctx, name, nil)
	}
}
