// Package ui defines the prompts and notifications the actions use, with a
// terminal implementation and a scripted one for tests.
package ui

import "context"

// InputOptions configures an input box.
type InputOptions struct {
	Prompt      string
	Placeholder string
	// Value prefills the input; an empty answer keeps it.
	Value string
}

// PickItem is one quick pick entry.
type PickItem struct {
	Label  string
	Detail string
}

// Prompter asks the user for values. ok is false when the user cancelled.
type Prompter interface {
	Input(ctx context.Context, opts InputOptions) (value string, ok bool)
	Password(ctx context.Context, prompt string) (value string, ok bool)
	QuickPick(ctx context.Context, placeholder string, items []PickItem) (index int, ok bool)
}

// Notifier shows messages. Link shows msg with a card link the user may follow.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Link(msg, url string)
}

// UI combines both halves.
type UI interface {
	Prompter
	Notifier
}
