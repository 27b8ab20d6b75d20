package dock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

func TestFloating_OpenRaiseClose(t *testing.T) {
	b, be := newTestBridge(t)
	seedSplit(t, b, "one", "two")

	fa, err := b.OpenFloating(RootViewport, "alpha", geom.Vec{X: 40, Y: 40}, geom.Size{})
	require.NoError(t, err)
	fb, err := b.OpenFloating(RootViewport, "beta", geom.Vec{X: 60, Y: 60}, geom.Sz(200, 100))
	require.NoError(t, err)

	assert.Equal(t, DefaultOptions().DefaultFloatingSize, fa.Size(),
		"zero size means the configured default")
	assert.Equal(t, geom.Sz(200, 100), fb.Size())
	assert.Equal(t, []FloatingID{fa.ID(), fb.ID()}, b.FloatingIDs(RootViewport),
		"z-order runs bottom to top")

	require.NoError(t, b.RaiseFloating(RootViewport, fa.ID()))
	assert.Equal(t, []FloatingID{fb.ID(), fa.ID()}, b.FloatingIDs(RootViewport))

	_, err = b.OpenFloating("nowhere", "x", geom.Vec{}, geom.Size{})
	assert.ErrorIs(t, err, ErrUnknownViewport)

	require.NoError(t, b.CloseFloating(RootViewport, fb.ID()))
	assert.Equal(t, []FloatingID{fa.ID()}, b.FloatingIDs(RootViewport))
	assert.ErrorIs(t, b.CloseFloating(RootViewport, fb.ID()), ErrUnknownFloating)
	assert.Contains(t, eventKinds(b), EventReapFloating)
	assert.Empty(t, be.created, "contained floats never become OS windows")
}

func TestFloating_TileDragDocksIntoHostTree(t *testing.T) {
	b, _ := newTestBridge(t)
	seedSplit(t, b, "one", "two")

	// Park the float in the top-right so the drop point below is over
	// the host tree, not the float itself.
	f, err := b.OpenFloating(RootViewport, "alpha", geom.Vec{X: 500, Y: 40}, geom.Sz(200, 150))
	require.NoError(t, err)
	floatTile, _ := f.Tree().Root()

	// Frame 1: grab the float's root tile.
	b.BeginFrame(FrameInput{PointerGlobal: ptr(560, 100), PointerDown: true})
	pass := rootPass(t, b, ptr(560, 100), false)
	require.NoError(t, pass.DragFloatingTile(f.ID(), floatTile))
	pass.End()
	b.EndFrame()
	require.True(t, b.DragActive())

	// Frame 2: release dead center of pane one. The float is a foreign
	// surface to the host tree, so the bridge owns the drop.
	b.BeginFrame(FrameInput{PointerGlobal: ptr(200, 300), PointerReleased: true})
	pass = rootPass(t, b, ptr(200, 300), false)
	dec := pass.Overlay()
	assert.Equal(t, AuthorityBridge, dec.Authority)
	assert.Equal(t, TargetPaneZone, dec.Target)
	pass.End()
	b.EndFrame()

	require.False(t, b.DragActive())
	assert.Equal(t, []tiles.PaneID{"one", "alpha", "two"}, b.Tree().Panes())
	assert.Empty(t, b.Tree().Integrity())

	var activePane tiles.PaneID
	b.Tree().Walk(func(_ tiles.TileID, tile tiles.Tile) bool {
		if tile.Kind == tiles.KindTabs {
			if at, ok := b.Tree().Tile(tile.Active); ok {
				activePane = at.Pane
			}
		}
		return true
	})
	assert.Equal(t, tiles.PaneID("alpha"), activePane, "docked pane lands as the active tab")

	assert.Empty(t, b.FloatingIDs(RootViewport), "emptied float is reaped")
	assert.Contains(t, eventKinds(b), EventDropApplied)
	assert.Contains(t, eventKinds(b), EventReapFloating)
}

func TestFloating_CtrlTearOffSpawnsFloatingWindow(t *testing.T) {
	b, be := newTestBridge(t)
	ids := seedSplit(t, b, "one", "two")

	b.BeginFrame(FrameInput{PointerGlobal: ptr(100, 10), PointerDown: true})
	pass := rootPass(t, b, ptr(100, 10), false)
	require.NoError(t, pass.DragTile(ids[0]))
	pass.End()
	b.EndFrame()

	// Release clear of every viewport while holding ctrl: the fragment
	// floats on the source viewport instead of becoming an OS window.
	b.BeginFrame(FrameInput{
		PointerGlobal:   ptr(900, 300),
		PointerReleased: true,
		Modifiers:       Modifiers{Ctrl: true},
	})
	rootPass(t, b, nil, false).End()
	b.EndFrame()

	require.False(t, b.DragActive())
	assert.Empty(t, b.Detached())
	assert.Empty(t, be.created)

	floats := b.FloatingIDs(RootViewport)
	require.Len(t, floats, 1)
	f, ok := b.Floating(RootViewport, floats[0])
	require.True(t, ok)
	assert.Equal(t, []tiles.PaneID{"one"}, f.Tree().Panes())
	assert.Equal(t, DefaultOptions().DefaultFloatingSize, f.Size())

	assert.Equal(t, []tiles.PaneID{"two"}, b.Tree().Panes())
	assert.Empty(t, b.Tree().Integrity())
	assert.Contains(t, eventKinds(b), EventTearOff)

	_, ghostLive := b.Ghost()
	assert.False(t, ghostLive, "ghost finalizes into the floating window")
}
