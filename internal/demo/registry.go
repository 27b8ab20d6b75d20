package demo

import (
	"fmt"

	"github.com/bnema/undock/pkg/tiles"
)

// presetNames seed the first few panes with recognizable titles.
var presetNames = []string{"editor", "terminal", "logs", "files", "music", "chat"}

// paneSet is the demo's pane registry: titled placeholder panes created
// on demand, keyed by their own name so layouts survive a restart.
type paneSet struct {
	titles map[tiles.PaneID]string
	next   int
}

func newPaneSet() *paneSet {
	return &paneSet{titles: make(map[tiles.PaneID]string)}
}

// create mints a fresh pane.
func (s *paneSet) create() tiles.PaneID {
	for {
		var name string
		if s.next < len(presetNames) {
			name = presetNames[s.next]
		} else {
			name = fmt.Sprintf("pane-%d", s.next+1)
		}
		s.next++
		id := tiles.PaneID(name)
		if _, taken := s.titles[id]; !taken {
			s.titles[id] = name
			return id
		}
	}
}

func (s *paneSet) PaneTitle(p tiles.PaneID) string {
	if t, ok := s.titles[p]; ok {
		return t
	}
	return string(p)
}

func (s *paneSet) PaneKey(p tiles.PaneID) (string, bool) {
	return string(p), true
}

// PaneByKey revives a persisted pane. The demo's panes are pure
// placeholders, so any key resolves.
func (s *paneSet) PaneByKey(key string) (tiles.PaneID, bool) {
	id := tiles.PaneID(key)
	if _, ok := s.titles[id]; !ok {
		s.titles[id] = key
	}
	return id, true
}
