package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/undock/pkg/tiles"
)

func TestPaneSetPresetNames(t *testing.T) {
	s := newPaneSet()

	assert.Equal(t, tiles.PaneID("editor"), s.create())
	assert.Equal(t, tiles.PaneID("terminal"), s.create())
	assert.Equal(t, "terminal", s.PaneTitle("terminal"))
	assert.Equal(t, "ghost", s.PaneTitle("ghost"), "unknown panes fall back to their id")
}

func TestPaneSetSkipsRevivedNames(t *testing.T) {
	s := newPaneSet()

	// A restored layout can claim a preset name before create runs.
	id, ok := s.PaneByKey("editor")
	assert.True(t, ok)
	assert.Equal(t, tiles.PaneID("editor"), id)

	assert.Equal(t, tiles.PaneID("terminal"), s.create(), "create skips names a layout took")
}

func TestPaneSetKeysRoundTrip(t *testing.T) {
	s := newPaneSet()
	id := s.create()

	key, ok := s.PaneKey(id)
	assert.True(t, ok)
	back, ok := s.PaneByKey(key)
	assert.True(t, ok)
	assert.Equal(t, id, back)
}
