package app

import (
	"sync/atomic"

	"git.home.luguber.info/inful/restyaboard/internal/config"
)

// Settings holds the viewer settings that can change while the shell runs.
type Settings struct {
	viewColumn  atomic.Int64
	starred     atomic.Bool
	copyLinks   atomic.Bool
	openBrowser atomic.Bool
}

// NewSettings creates Settings from the viewer configuration.
func NewSettings(v config.ViewerConfig) *Settings {
	s := &Settings{}
	s.Apply(v)
	return s
}

// Apply replaces every setting with the values from v.
func (s *Settings) Apply(v config.ViewerConfig) {
	s.viewColumn.Store(int64(v.ViewColumn))
	s.starred.Store(v.StarredBoardsOnly)
	s.copyLinks.Store(v.CopyLinks)
	s.openBrowser.Store(v.OpenBrowser)
}

func (s *Settings) ViewColumn() int        { return int(s.viewColumn.Load()) }
func (s *Settings) StarredBoardsOnly() bool { return s.starred.Load() }
func (s *Settings) CopyLinks() bool         { return s.copyLinks.Load() }
func (s *Settings) OpenBrowser() bool       { return s.openBrowser.Load() }

// SetStarredBoardsOnly overrides the starred filter until the next Apply.
func (s *Settings) SetStarredBoardsOnly(v bool) { s.starred.Store(v) }
