package dock

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// keyedRegistry keys panes by their own id but can be told to forget
// keys, like panes whose content is gone after a restart, or to treat
// panes as transient so they never persist.
type keyedRegistry struct {
	forgotten map[string]bool
	transient map[tiles.PaneID]bool
}

func (r *keyedRegistry) PaneTitle(p tiles.PaneID) string { return string(p) }

func (r *keyedRegistry) PaneKey(p tiles.PaneID) (string, bool) {
	if r.transient[p] {
		return "", false
	}
	return string(p), true
}

func (r *keyedRegistry) PaneByKey(key string) (tiles.PaneID, bool) {
	if r.forgotten[key] {
		return "", false
	}
	return tiles.PaneID(key), true
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	b, _ := newTestBridge(t)
	ids := seedSplit(t, b, "one", "two", "three")

	// Stack three onto two as tabs, detach one, and float a palette.
	require.NoError(t, b.Tree().Move(ids[2], &tiles.InsertionPoint{Parent: ids[1], Kind: tiles.IntoTabs}))
	d, err := b.DetachTile(RootViewport, ids[0])
	require.NoError(t, err)
	f, err := b.OpenFloating(RootViewport, "palette", geom.Vec{X: 40, Y: 40}, geom.Sz(200, 150))
	require.NoError(t, err)
	f.SetCollapsed(true)

	snap := b.Snapshot()

	b2, be2 := newTestBridge(t)
	require.NoError(t, b2.Restore(snap))

	assert.Equal(t, []tiles.PaneID{"two", "three"}, b2.Tree().Panes())
	assert.Empty(t, b2.Tree().Integrity())

	var activePane tiles.PaneID
	b2.Tree().Walk(func(_ tiles.TileID, tile tiles.Tile) bool {
		if tile.Kind == tiles.KindTabs {
			if at, ok := b2.Tree().Tile(tile.Active); ok {
				activePane = at.Pane
			}
		}
		return true
	})
	assert.Equal(t, tiles.PaneID("three"), activePane, "active tab survives the round trip")

	require.Len(t, b2.Detached(), 1)
	det := b2.Detached()[0]
	d2, ok := b2.DetachedDock(det)
	require.True(t, ok)
	assert.Equal(t, []tiles.PaneID{"one"}, d2.Tree().Panes())
	assert.Equal(t, []ViewportID{det}, be2.created, "restore realizes detached windows through the backend")

	p2, ok := b2.Placement(det)
	require.True(t, ok)
	require.NotNil(t, p2.Pos)
	assert.Equal(t, d.Placement().Size, p2.Size)
	assert.Equal(t, "one", p2.Title)

	floats := b2.FloatingIDs(RootViewport)
	require.Len(t, floats, 1)
	f2, ok := b2.Floating(RootViewport, floats[0])
	require.True(t, ok)
	assert.Equal(t, geom.Vec{X: 40, Y: 40}, f2.Offset())
	assert.Equal(t, geom.Sz(200, 150), f2.Size())
	assert.True(t, f2.Collapsed())
	assert.Equal(t, []tiles.PaneID{"palette"}, f2.Tree().Panes())

	assert.Contains(t, eventKinds(b2), EventLayoutRestore)
}

func TestRestore_RejectsForeignSnapshot(t *testing.T) {
	b, _ := newTestBridge(t)
	require.NoError(t, b.Tree().SetRoot(b.Tree().NewPane("one")))
	snap := b.Snapshot()
	snap.BridgeID = "someone-else"

	b2, _ := newTestBridge(t)
	require.NoError(t, b2.Tree().SetRoot(b2.Tree().NewPane("keep")))

	require.ErrorIs(t, b2.Restore(snap), ErrForeignSnapshot)
	assert.Equal(t, []tiles.PaneID{"keep"}, b2.Tree().Panes(), "a refused restore must not touch the layout")
}

func TestRestore_EndsActiveDragSession(t *testing.T) {
	b, _ := newTestBridge(t)
	ids := seedSplit(t, b, "one", "two")
	snap := b.Snapshot()

	b.BeginFrame(FrameInput{PointerGlobal: ptr(100, 10), PointerDown: true})
	pass := rootPass(t, b, ptr(100, 10), false)
	require.NoError(t, pass.DragTile(ids[0]))
	pass.End()
	b.EndFrame()
	require.True(t, b.DragActive())

	require.NoError(t, b.Restore(snap))

	assert.False(t, b.DragActive())
	assert.Contains(t, eventKinds(b), EventSessionEnd)
	assert.Equal(t, []tiles.PaneID{"one", "two"}, b.Tree().Panes())
	assert.Empty(t, b.Tree().Integrity())
}

func TestRestore_DropsPanesTheRegistryForgot(t *testing.T) {
	reg := &keyedRegistry{forgotten: map[string]bool{}, transient: map[tiles.PaneID]bool{}}
	b := New(DefaultOptions(), newRecordingBackend(), reg, zerolog.Nop())
	seedSplit(t, b, "one", "two", "three")
	snap := b.Snapshot()

	reg.forgotten["two"] = true
	require.NoError(t, b.Restore(snap))
	assert.Equal(t, []tiles.PaneID{"one", "three"}, b.Tree().Panes())
	assert.Empty(t, b.Tree().Integrity())

	// Losing all but one child collapses the container entirely.
	reg.forgotten["three"] = true
	require.NoError(t, b.Restore(snap))
	root, ok := b.Tree().Root()
	require.True(t, ok)
	tile, ok := b.Tree().Tile(root)
	require.True(t, ok)
	assert.Equal(t, tiles.KindPane, tile.Kind, "a one-child split restores as a bare pane")
	assert.Equal(t, tiles.PaneID("one"), tile.Pane)
}

func TestSnapshot_OmitsTransientPanes(t *testing.T) {
	reg := &keyedRegistry{forgotten: map[string]bool{}, transient: map[tiles.PaneID]bool{"scratch": true}}
	b := New(DefaultOptions(), newRecordingBackend(), reg, zerolog.Nop())
	seedSplit(t, b, "one", "scratch")

	snap := b.Snapshot()

	b2 := New(DefaultOptions(), newRecordingBackend(), reg, zerolog.Nop())
	require.NoError(t, b2.Restore(snap))
	assert.Equal(t, []tiles.PaneID{"one"}, b2.Tree().Panes(), "keyless panes do not survive a restore")
}

func TestRestore_SkipsEmptyDetachedWindows(t *testing.T) {
	reg := &keyedRegistry{forgotten: map[string]bool{}, transient: map[tiles.PaneID]bool{}}
	b := New(DefaultOptions(), newRecordingBackend(), reg, zerolog.Nop())
	ids := seedSplit(t, b, "one", "two")
	_, err := b.DetachTile(RootViewport, ids[1])
	require.NoError(t, err)
	snap := b.Snapshot()

	// The detached window's only pane is gone: no window should appear.
	reg.forgotten["two"] = true
	be2 := newRecordingBackend()
	b2 := New(DefaultOptions(), be2, reg, zerolog.Nop())
	require.NoError(t, b2.Restore(snap))

	assert.Empty(t, b2.Detached())
	assert.Empty(t, be2.created)
}

func TestRestore_ClampsPlacementOntoMonitors(t *testing.T) {
	b, _ := newTestBridge(t)
	ids := seedSplit(t, b, "one", "two")
	d, err := b.DetachTile(RootViewport, ids[1])
	require.NoError(t, err)

	// Park the window far outside the monitor the restoring bridge will
	// know about.
	p := d.Placement()
	pos := geom.Pt(5000, 2000)
	p.Pos = &pos
	require.NoError(t, b.NotifyWindowPlacement(d.ID(), p))
	snap := b.Snapshot()

	b2, _ := newTestBridge(t)
	monitor := geom.R(0, 0, 1920, 1080)
	b2.BeginFrame(FrameInput{Monitors: []geom.Rect{monitor}})
	b2.EndFrame()
	require.NoError(t, b2.Restore(snap))

	require.Len(t, b2.Detached(), 1)
	p2, ok := b2.Placement(b2.Detached()[0])
	require.True(t, ok)
	rect, ok := p2.Rect()
	require.True(t, ok)
	assert.True(t, monitor.Contains(rect.Min), "restored window must start on a monitor")
	assert.True(t, rect.Max.X <= monitor.Max.X && rect.Max.Y <= monitor.Max.Y,
		"restored window must end on a monitor")
}

func TestClampPlacement(t *testing.T) {
	monitors := []geom.Rect{geom.R(0, 0, 1920, 1080), geom.R(1920, 0, 3840, 1080)}

	// Hanging off the bottom-right corner slides back in.
	pos := geom.Pt(1700, 950)
	clamped := ClampPlacement(WindowPlacement{Pos: &pos, Size: geom.Sz(400, 300)}, monitors)
	rect, ok := clamped.Rect()
	require.True(t, ok)
	assert.Equal(t, geom.R(1520, 780, 1920, 1080), rect)

	// Fully off-screen snaps to the nearest monitor.
	pos = geom.Pt(4200, 500)
	clamped = ClampPlacement(WindowPlacement{Pos: &pos, Size: geom.Sz(400, 300)}, monitors)
	rect, ok = clamped.Rect()
	require.True(t, ok)
	assert.Equal(t, geom.R(3440, 500, 3840, 800), rect)

	// Oversized windows shrink to the monitor.
	pos = geom.Pt(100, 100)
	clamped = ClampPlacement(WindowPlacement{Pos: &pos, Size: geom.Sz(2500, 900)}, monitors)
	assert.Equal(t, geom.Sz(1920, 900), clamped.Size)

	// Without a position or monitors there is nothing to clamp.
	unplaced := WindowPlacement{Size: geom.Sz(400, 300)}
	assert.Equal(t, unplaced, ClampPlacement(unplaced, monitors))
	placed := WindowPlacement{Pos: &pos, Size: geom.Sz(400, 300)}
	assert.Equal(t, placed, ClampPlacement(placed, nil))
}
