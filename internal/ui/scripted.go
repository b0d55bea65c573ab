package ui

import (
	"context"
	"sync"
)

// Answer is one scripted prompt response. Cancel makes the prompt report cancellation.
type Answer struct {
	Value  string
	Index  int
	Cancel bool
}

// Message is a recorded notification.
type Message struct {
	Level string // info, warn, error, link
	Text  string
	URL   string
}

// Scripted is a UI that replays queued answers and records every message.
// A prompt with no queued answer is treated as cancelled.
type Scripted struct {
	mu       sync.Mutex
	answers  []Answer
	Prompts  []string
	Prefills []string
	Messages []Message
}

// NewScripted queues answers in order.
func NewScripted(answers ...Answer) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) next(prompt string) Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Prompts = append(s.Prompts, prompt)
	if len(s.answers) == 0 {
		return Answer{Cancel: true}
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a
}

func (s *Scripted) Input(_ context.Context, opts InputOptions) (string, bool) {
	s.mu.Lock()
	s.Prefills = append(s.Prefills, opts.Value)
	s.mu.Unlock()
	a := s.next(opts.Prompt + opts.Placeholder)
	return a.Value, !a.Cancel
}

func (s *Scripted) Password(_ context.Context, prompt string) (string, bool) {
	a := s.next(prompt)
	return a.Value, !a.Cancel
}

func (s *Scripted) QuickPick(_ context.Context, placeholder string, items []PickItem) (int, bool) {
	a := s.next(placeholder)
	if a.Cancel || a.Index < 0 || a.Index >= len(items) {
		return 0, false
	}
	return a.Index, true
}

func (s *Scripted) record(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, m)
}

func (s *Scripted) Info(msg string)      { s.record(Message{Level: "info", Text: msg}) }
func (s *Scripted) Warn(msg string)      { s.record(Message{Level: "warn", Text: msg}) }
func (s *Scripted) Error(msg string)     { s.record(Message{Level: "error", Text: msg}) }
func (s *Scripted) Link(msg, url string) { s.record(Message{Level: "link", Text: msg, URL: url}) }

// Recorded returns a copy of the messages at the given level ("" for all).
func (s *Scripted) Recorded(level string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Message
	for _, m := range s.Messages {
		if level == "" || m.Level == level {
			out = append(out, m)
		}
	}
	return out
}
