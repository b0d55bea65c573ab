package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTerminal(input string, opts ...TerminalOption) (*Terminal, *bytes.Buffer) {
	var out bytes.Buffer
	return NewTerminal(strings.NewReader(input), &out, opts...), &out
}

func TestTerminal_Input(t *testing.T) {
	term, _ := newTestTerminal("My card\n")
	v, ok := term.Input(t.Context(), InputOptions{Placeholder: "Enter name of card"})
	require.True(t, ok)
	assert.Equal(t, "My card", v)
}

func TestTerminal_InputKeepsPrefill(t *testing.T) {
	term, out := newTestTerminal("\n")
	v, ok := term.Input(t.Context(), InputOptions{Prompt: "Title", Value: "Old title"})
	require.True(t, ok)
	assert.Equal(t, "Old title", v)
	assert.Contains(t, out.String(), "Old title")
}

func TestTerminal_InputClearWordEmptiesPrefill(t *testing.T) {
	term, out := newTestTerminal("/clear\n")
	v, ok := term.Input(t.Context(), InputOptions{Prompt: "Description", Value: "old text"})
	require.True(t, ok)
	assert.Empty(t, v)
	assert.Contains(t, out.String(), "/clear empties it")
}

func TestTerminal_PasswordOnTTYIsNotEchoed(t *testing.T) {
	term, out := newTestTerminal("")
	term.tty = true
	term.fd = 7
	var gotFD uintptr
	term.readPassword = func(fd uintptr) ([]byte, error) {
		gotFD = fd
		return []byte("s3cret-token"), nil
	}

	v, ok := term.Password(t.Context(), "Your Restyaboard API token")
	require.True(t, ok)
	assert.Equal(t, "s3cret-token", v)
	assert.Equal(t, uintptr(7), gotFD)
	assert.Contains(t, out.String(), "(input hidden)")
	assert.NotContains(t, out.String(), "s3cret-token")

	term.readPassword = func(uintptr) ([]byte, error) { return []byte(CancelWord), nil }
	_, ok = term.Password(t.Context(), "token")
	assert.False(t, ok)

	term.readPassword = func(uintptr) ([]byte, error) { return nil, errors.New("interrupted") }
	_, ok = term.Password(t.Context(), "token")
	assert.False(t, ok)
}

func TestTerminal_PasswordFromPipeReadsLine(t *testing.T) {
	term, _ := newTestTerminal("piped-token\n")
	term.readPassword = func(uintptr) ([]byte, error) {
		t.Fatal("piped input must not switch the terminal")
		return nil, nil
	}
	v, ok := term.Password(t.Context(), "token")
	require.True(t, ok)
	assert.Equal(t, "piped-token", v)
}

func TestTerminal_Cancel(t *testing.T) {
	term, _ := newTestTerminal("/cancel\n")
	_, ok := term.Input(t.Context(), InputOptions{Prompt: "x"})
	assert.False(t, ok)

	term, _ = newTestTerminal("")
	_, ok = term.Password(t.Context(), "token")
	assert.False(t, ok, "EOF cancels")
}

func TestTerminal_LastLineWithoutNewline(t *testing.T) {
	term, _ := newTestTerminal("abc")
	v, ok := term.Input(t.Context(), InputOptions{Prompt: "x"})
	require.True(t, ok)
	assert.Equal(t, "abc", v)
}

func TestTerminal_QuickPick(t *testing.T) {
	term, out := newTestTerminal("7\nzero\n2\n")
	idx, ok := term.QuickPick(t.Context(), "Move card to list:", []PickItem{{Label: "Todo"}, {Label: "Done"}})
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Contains(t, out.String(), "1) Todo")
	assert.Contains(t, out.String(), "enter a number between 1 and 2")
}

func TestTerminal_QuickPickEmpty(t *testing.T) {
	term, _ := newTestTerminal("1\n")
	_, ok := term.QuickPick(t.Context(), "pick", nil)
	assert.False(t, ok)
}

func TestTerminal_LinkCopiesWhenEnabled(t *testing.T) {
	var copied []string
	clip := func(s string) error { copied = append(copied, s); return nil }

	term, out := newTestTerminal("", WithClipboard(clip))
	term.Link("Created Card: 1-x", "https://b.example.com/#/board/1/card/1")
	assert.Empty(t, copied)
	assert.Contains(t, out.String(), "https://b.example.com/#/board/1/card/1")

	term.SetCopyLinks(true)
	term.Link("Created Card: 1-x", "https://b.example.com/#/board/1/card/1")
	assert.Equal(t, []string{"https://b.example.com/#/board/1/card/1"}, copied)
	assert.Contains(t, out.String(), "copied")
}

func TestTerminal_LinkClipboardFailure(t *testing.T) {
	term, out := newTestTerminal("", WithCopyLinks(true), WithClipboard(func(string) error { return errors.New("no clipboard") }))
	term.Link("msg", "https://x")
	assert.NotContains(t, out.String(), "copied")
}

func TestTerminal_Messages(t *testing.T) {
	term, out := newTestTerminal("")
	term.Info("hello")
	term.Warn("careful")
	term.Error("broken")
	s := out.String()
	assert.Contains(t, s, "hello")
	assert.Contains(t, s, "careful")
	assert.Contains(t, s, "broken")
}

func TestScripted(t *testing.T) {
	s := NewScripted(Answer{Value: "a"}, Answer{Index: 1}, Answer{Cancel: true})
	v, ok := s.Input(t.Context(), InputOptions{Prompt: "p", Value: "pre"})
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	idx, ok := s.QuickPick(t.Context(), "q", []PickItem{{}, {}})
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	_, ok = s.Password(t.Context(), "pw")
	assert.False(t, ok)
	_, ok = s.Input(t.Context(), InputOptions{})
	assert.False(t, ok, "exhausted script cancels")
	assert.Equal(t, []string{"pre", ""}, s.Prefills)

	s.Warn("w")
	s.Link("l", "u")
	assert.Len(t, s.Recorded(""), 2)
	assert.Equal(t, "u", s.Recorded("link")[0].URL)
}
