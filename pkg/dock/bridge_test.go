package dock

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// recordingBackend captures every window request the bridge makes.
type recordingBackend struct {
	created    []ViewportID
	updated    []ViewportID
	moved      []ViewportID
	closed     []ViewportID
	focused    []ViewportID
	placements map[ViewportID]WindowPlacement
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{placements: make(map[ViewportID]WindowPlacement)}
}

func (r *recordingBackend) CreateWindow(id ViewportID, p WindowPlacement) error {
	r.created = append(r.created, id)
	r.placements[id] = p
	return nil
}

func (r *recordingBackend) UpdateWindow(id ViewportID, p WindowPlacement) error {
	r.updated = append(r.updated, id)
	r.placements[id] = p
	return nil
}

func (r *recordingBackend) BeginNativeMove(id ViewportID) error {
	r.moved = append(r.moved, id)
	return nil
}

func (r *recordingBackend) CloseWindow(id ViewportID) error {
	r.closed = append(r.closed, id)
	return nil
}

func (r *recordingBackend) Focus(id ViewportID) error {
	r.focused = append(r.focused, id)
	return nil
}

func newTestBridge(t *testing.T) (*Bridge, *recordingBackend) {
	t.Helper()
	be := newRecordingBackend()
	return New(DefaultOptions(), be, nil, zerolog.Nop()), be
}

func ptr(x, y float64) *geom.Point {
	p := geom.Pt(x, y)
	return &p
}

var (
	rootInner = geom.R(0, 0, 800, 600)
	rootDock  = geom.R(0, 0, 800, 600)
	// A detached test window parked well clear of the root.
	detInner = geom.R(1000, 0, 1400, 300)
	detDock  = geom.R(0, 0, 400, 300)
)

func rootPass(t *testing.T, b *Bridge, pointer *geom.Point, released bool) *ViewportPass {
	t.Helper()
	pass, err := b.BeginPass(RootViewport, PassInput{
		InnerRect:       rootInner,
		DockRect:        rootDock,
		Pointer:         pointer,
		PointerReleased: released,
	})
	require.NoError(t, err)
	return pass
}

func detachedPass(t *testing.T, b *Bridge, vp ViewportID, pointer *geom.Point, released bool) *ViewportPass {
	t.Helper()
	pass, err := b.BeginPass(vp, PassInput{
		InnerRect:       detInner,
		DockRect:        detDock,
		Pointer:         pointer,
		PointerReleased: released,
	})
	require.NoError(t, err)
	return pass
}

// seedSplit roots the bridge's tree with a horizontal split of fresh
// panes and returns their tile ids in order.
func seedSplit(t *testing.T, b *Bridge, panes ...tiles.PaneID) []tiles.TileID {
	t.Helper()
	tr := b.Tree()
	ids := make([]tiles.TileID, len(panes))
	for i, p := range panes {
		ids[i] = tr.NewPane(p)
	}
	require.NoError(t, tr.SetRoot(tr.NewSplit(tiles.Horizontal, ids...)))
	return ids
}

func eventKinds(b *Bridge) []string {
	var out []string
	for _, e := range b.Events() {
		out = append(out, e.Kind)
	}
	return out
}

func TestBridge_TearOffCreatesDetachedWindow(t *testing.T) {
	b, be := newTestBridge(t)
	ids := seedSplit(t, b, "one", "two")

	b.BeginFrame(FrameInput{PointerGlobal: ptr(100, 10), PointerDown: true})
	pass := rootPass(t, b, ptr(100, 10), false)
	require.NoError(t, pass.DragTile(ids[0]))
	pass.End()
	b.EndFrame()
	require.True(t, b.DragActive())

	// Pointer leaves the window entirely, then releases.
	b.BeginFrame(FrameInput{PointerGlobal: ptr(1200, 300), PointerReleased: true})
	pass = rootPass(t, b, nil, false)
	ghost, ok := b.Ghost()
	require.True(t, ok, "ghost should spawn beyond the tear-off threshold")
	assert.True(t, ghost.Native, "ghost upgrades to native outside the source viewport")
	pass.End()
	b.EndFrame()

	require.False(t, b.DragActive())
	require.Len(t, b.Detached(), 1)

	d, ok := b.DetachedDock(b.Detached()[0])
	require.True(t, ok)
	assert.Equal(t, []tiles.PaneID{"one"}, d.Tree().Panes())
	assert.Equal(t, []tiles.PaneID{"two"}, b.Tree().Panes())
	assert.False(t, b.Tree().Contains(ids[0]), "torn-off tile id must not linger in the source")
	assert.Empty(t, b.Tree().Integrity())

	require.Len(t, be.created, 1)
	placement := be.placements[d.ID()]
	require.NotNil(t, placement.Pos)
	assert.Equal(t, "one", placement.Title)
	assert.Contains(t, eventKinds(b), EventGhostFinalize)
	assert.Contains(t, eventKinds(b), EventTearOff)
}

func TestBridge_DeferredDropResolvesIntoHintedViewport(t *testing.T) {
	b, _ := newTestBridge(t)
	ids := seedSplit(t, b, "one", "two", "three")

	d, err := b.DetachTile(RootViewport, ids[2])
	require.NoError(t, err)
	det := d.ID()

	// Frame 1: drag pane one's tile inside the root.
	b.BeginFrame(FrameInput{PointerGlobal: ptr(100, 10), PointerDown: true})
	pass := rootPass(t, b, ptr(100, 10), false)
	require.NoError(t, pass.DragTile(ids[0]))
	pass.End()
	detachedPass(t, b, det, nil, false).End()
	b.EndFrame()

	// Frame 2: the release event is delivered to the root viewport, but
	// the backend hints the pointer is over the detached window, dead
	// center of its single pane.
	hovered := det
	b.BeginFrame(FrameInput{PointerGlobal: ptr(1200, 150), HoveredViewport: &hovered})
	rootPass(t, b, nil, true).End()
	detachedPass(t, b, det, ptr(200, 150), false).End()
	b.EndFrame()

	require.False(t, b.DragActive())
	assert.Equal(t, []tiles.PaneID{"two"}, b.Tree().Panes(),
		"source loses exactly the dragged subtree")
	assert.ElementsMatch(t, []tiles.PaneID{"three", "one"}, d.Tree().Panes(),
		"hinted viewport gains the subtree")
	assert.Empty(t, d.Tree().Integrity())
	assert.Contains(t, eventKinds(b), EventDropApplied)
}

func TestBridge_WindowDragWithoutTargetIsPureNoop(t *testing.T) {
	b, be := newTestBridge(t)
	ids := seedSplit(t, b, "one", "two", "three")
	d, err := b.DetachTile(RootViewport, ids[2])
	require.NoError(t, err)
	det := d.ID()

	rootBefore := b.Tree().String()
	detBefore := d.Tree().String()
	placementBefore := d.Placement()

	// Frame 1: grab the detached window by its frame.
	b.BeginFrame(FrameInput{PointerDown: true})
	rootPass(t, b, nil, false).End()
	pass := detachedPass(t, b, det, ptr(200, 150), false)
	require.NoError(t, pass.DragWindowFrame())
	pass.End()
	b.EndFrame()
	assert.Equal(t, []ViewportID{det}, be.moved)

	// Frame 2: release over the middle of a root pane, far from any tab
	// bar or title band.
	b.BeginFrame(FrameInput{PointerGlobal: ptr(200, 300), PointerReleased: true})
	rootPass(t, b, ptr(200, 300), false).End()
	detachedPass(t, b, det, nil, false).End()
	b.EndFrame()

	require.False(t, b.DragActive())
	assert.Equal(t, rootBefore, b.Tree().String(), "root tree untouched")
	assert.Equal(t, detBefore, d.Tree().String(), "dragged window's tree untouched")
	assert.Equal(t, placementBefore, d.Placement())
	assert.Equal(t, []ViewportID{det}, b.Detached())
	assert.Empty(t, be.closed)
	assert.Contains(t, eventKinds(b), EventDropNoop)
}

func TestBridge_DetachedContentOntoRootRightEdge(t *testing.T) {
	b, be := newTestBridge(t)
	ids := seedSplit(t, b, "one", "two", "three")
	d, err := b.DetachTile(RootViewport, ids[2])
	require.NoError(t, err)
	det := d.ID()

	detRoot, ok := d.Tree().Root()
	require.True(t, ok)

	// Frame 1: drag the detached window's whole content by its tab
	// strip; the payload is the root tile, not the window.
	b.BeginFrame(FrameInput{PointerGlobal: ptr(1200, 10), PointerDown: true})
	rootPass(t, b, nil, false).End()
	pass := detachedPass(t, b, det, ptr(200, 10), false)
	require.NoError(t, pass.DragTile(detRoot))
	pass.End()
	b.EndFrame()

	// Frame 2: release inside the root's right edge band.
	b.BeginFrame(FrameInput{PointerGlobal: ptr(795, 300)})
	detachedPass(t, b, det, nil, false).End()
	rootPass(t, b, ptr(795, 300), true).End()
	b.EndFrame()

	require.False(t, b.DragActive())

	root, ok := b.Tree().Root()
	require.True(t, ok)
	rootTile, ok := b.Tree().Tile(root)
	require.True(t, ok)
	require.Equal(t, tiles.KindSplit, rootTile.Kind)
	require.Equal(t, tiles.Horizontal, rootTile.Dir)
	require.Len(t, rootTile.Children, 3, "incoming content joins the existing split")

	rightPanes := collectPanes(b.Tree(), rootTile.Children[2])
	assert.Equal(t, []tiles.PaneID{"three"}, rightPanes, "incoming content sits on the right")
	assert.Equal(t, []tiles.PaneID{"one", "two", "three"}, b.Tree().Panes())
	assert.Empty(t, b.Tree().Integrity())

	assert.Empty(t, b.Detached(), "emptied window is reaped in the same frame")
	assert.Equal(t, []ViewportID{det}, be.closed)
	assert.Contains(t, eventKinds(b), EventReapDetached)
}

func collectPanes(tr *tiles.Tree, from tiles.TileID) []tiles.PaneID {
	var out []tiles.PaneID
	var walk func(id tiles.TileID)
	walk = func(id tiles.TileID) {
		tile, ok := tr.Tile(id)
		if !ok {
			return
		}
		if tile.Kind == tiles.KindPane {
			out = append(out, tile.Pane)
			return
		}
		for _, c := range tile.Children {
			walk(c)
		}
	}
	walk(from)
	return out
}

func TestBridge_PreviewDecisionEqualsOutcome(t *testing.T) {
	b, _ := newTestBridge(t)
	ids := seedSplit(t, b, "one", "two")

	b.BeginFrame(FrameInput{PointerGlobal: ptr(100, 10), PointerDown: true})
	pass := rootPass(t, b, ptr(100, 10), false)
	require.NoError(t, pass.DragTile(ids[0]))
	pass.End()
	b.EndFrame()

	// Pane two occupies the right half; its center hits the overlay
	// cross's tab button.
	target := ptr(600, 300)

	b.BeginFrame(FrameInput{PointerGlobal: target})
	pass = rootPass(t, b, target, false)
	preview := pass.Overlay()
	pass.End()
	b.EndFrame()

	require.Equal(t, AuthorityBridge, preview.Authority)
	assert.True(t, preview.SuppressTreePreview, "tree preview must yield to the explicit target")
	require.NotNil(t, preview.Insertion)
	assert.Equal(t, ids[1], preview.Insertion.Parent)
	assert.Equal(t, tiles.IntoTabs, preview.Insertion.Kind)

	// Release with identical inputs: the committed mutation is the
	// previewed insertion.
	b.BeginFrame(FrameInput{PointerGlobal: target})
	pass = rootPass(t, b, target, true)
	pass.End()
	b.EndFrame()

	require.False(t, b.DragActive())
	parent, ok := b.Tree().Parent(ids[0])
	require.True(t, ok)
	parentTile, ok := b.Tree().Tile(parent)
	require.True(t, ok)
	assert.Equal(t, tiles.KindTabs, parentTile.Kind)
	assert.Equal(t, []tiles.TileID{ids[1], ids[0]}, parentTile.Children)
	assert.Equal(t, ids[0], parentTile.Active, "docked tab becomes active")
	assert.Empty(t, b.Tree().Integrity())
}

func TestBridge_ClaimReleaseAppliesAtMostOnce(t *testing.T) {
	b, _ := newTestBridge(t)
	ids := seedSplit(t, b, "one", "two")

	b.BeginFrame(FrameInput{PointerGlobal: ptr(100, 10), PointerDown: true})
	pass := rootPass(t, b, ptr(100, 10), false)
	require.NoError(t, pass.DragTile(ids[0]))
	pass.End()
	b.EndFrame()

	// Release over an explicit target; the local resolve claims the
	// session. A stale pending drop for the same session must then be
	// refused.
	b.BeginFrame(FrameInput{PointerGlobal: ptr(600, 300)})
	pass = rootPass(t, b, ptr(600, 300), true)
	pass.End()

	require.True(t, b.session.Claimed())
	b.applyPendingDrop(PendingDrop{Payload: DragPayload{BridgeID: b.opts.BridgeID, Source: RootViewport, Tile: ids[0]}, Pointer: ptr(600, 300)})
	b.EndFrame()

	kinds := eventKinds(b)
	assert.Contains(t, kinds, EventClaimRefused)

	applied := 0
	for _, k := range kinds {
		if k == EventDropApplied {
			applied++
		}
	}
	assert.Equal(t, 1, applied, "exactly one mutation per drag")
}

func TestBridge_SecondDragWhileActiveIsRejected(t *testing.T) {
	b, _ := newTestBridge(t)
	ids := seedSplit(t, b, "one", "two")

	b.BeginFrame(FrameInput{PointerGlobal: ptr(100, 10), PointerDown: true})
	pass := rootPass(t, b, ptr(100, 10), false)
	require.NoError(t, pass.DragTile(ids[0]))
	require.NoError(t, pass.DragTile(ids[0]), "re-asserting the same drag is idempotent")
	require.ErrorIs(t, pass.DragTile(ids[1]), ErrSessionActive)
	pass.End()
	b.EndFrame()
}

func TestBridge_WindowDocksOntoTabBar(t *testing.T) {
	b, be := newTestBridge(t)
	tr := b.Tree()
	one := tr.NewPane("one")
	two := tr.NewPane("two")
	three := tr.NewPane("three")
	tabs := tr.NewTabs(one, two, three)
	require.NoError(t, tr.SetRoot(tabs))

	d, err := b.DetachTile(RootViewport, three)
	require.NoError(t, err)
	det := d.ID()

	// Frame 1: title drag of the detached window.
	b.BeginFrame(FrameInput{PointerDown: true})
	rootPass(t, b, nil, false).End()
	pass := detachedPass(t, b, det, ptr(200, 5), false)
	require.NoError(t, pass.DragWindowFrame())
	pass.End()
	b.EndFrame()

	// Frame 2: release on the root tab bar, right of both tabs.
	b.BeginFrame(FrameInput{PointerGlobal: ptr(790, 10), PointerReleased: true})
	rootPass(t, b, ptr(790, 10), false).End()
	detachedPass(t, b, det, nil, false).End()
	b.EndFrame()

	require.False(t, b.DragActive())
	rootTile, ok := b.Tree().Tile(tabs)
	require.True(t, ok)
	require.Len(t, rootTile.Children, 3, "window content joins the strip")
	assert.Equal(t, rootTile.Children[2], rootTile.Active, "docked tab becomes active")
	assert.Equal(t, []tiles.PaneID{"one", "two", "three"}, b.Tree().Panes())
	assert.Empty(t, b.Detached())
	assert.Equal(t, []ViewportID{det}, be.closed)
	assert.Contains(t, be.focused, RootViewport)
}

func TestBridge_ShiftSuspendsWindowDocking(t *testing.T) {
	b, _ := newTestBridge(t)
	tr := b.Tree()
	three := tr.NewPane("three")
	tabs := tr.NewTabs(tr.NewPane("one"), tr.NewPane("two"), three)
	require.NoError(t, tr.SetRoot(tabs))

	d, err := b.DetachTile(RootViewport, three)
	require.NoError(t, err)
	det := d.ID()

	b.BeginFrame(FrameInput{PointerDown: true})
	rootPass(t, b, nil, false).End()
	pass := detachedPass(t, b, det, ptr(200, 5), false)
	require.NoError(t, pass.DragWindowFrame())
	pass.End()
	b.EndFrame()

	// Same tab-bar release as the docking test, but with shift held the
	// gate is closed.
	b.BeginFrame(FrameInput{PointerGlobal: ptr(790, 10), PointerReleased: true, Modifiers: Modifiers{Shift: true}})
	rootPass(t, b, ptr(790, 10), false).End()
	detachedPass(t, b, det, nil, false).End()
	b.EndFrame()

	require.False(t, b.DragActive())
	rootTile, _ := b.Tree().Tile(tabs)
	assert.Len(t, rootTile.Children, 2, "gated drop must not dock")
	assert.Equal(t, []ViewportID{det}, b.Detached())
	assert.Contains(t, eventKinds(b), EventDropNoop)
}

func TestBridge_GhostDiscardedWhenDropWins(t *testing.T) {
	b, _ := newTestBridge(t)
	ids := seedSplit(t, b, "one", "two")

	b.BeginFrame(FrameInput{PointerGlobal: ptr(100, 10), PointerDown: true})
	pass := rootPass(t, b, ptr(100, 10), false)
	require.NoError(t, pass.DragTile(ids[0]))
	pass.End()
	b.EndFrame()

	// Wander outside: a ghost spawns.
	b.BeginFrame(FrameInput{PointerGlobal: ptr(1200, 300)})
	rootPass(t, b, nil, false).End()
	_, ok := b.Ghost()
	require.True(t, ok)
	b.EndFrame()

	// Come back and release over pane two's tab button: the dock claims
	// the session, the ghost dissolves, no window is created.
	b.BeginFrame(FrameInput{PointerGlobal: ptr(600, 300)})
	pass = rootPass(t, b, ptr(600, 300), true)
	_, ok = b.Ghost()
	assert.False(t, ok, "ghost retires once the pointer is back over the dock")
	pass.End()
	b.EndFrame()

	require.False(t, b.DragActive())
	assert.Empty(t, b.Detached(), "no window despite the mid-drag ghost")
	parent, ok := b.Tree().Parent(ids[0])
	require.True(t, ok)
	parentTile, _ := b.Tree().Tile(parent)
	assert.Equal(t, tiles.KindTabs, parentTile.Kind)
	assert.Contains(t, eventKinds(b), EventGhostDiscard)
}

func TestBridge_StaleHintPrefersGeometry(t *testing.T) {
	b, _ := newTestBridge(t)
	seedSplit(t, b, "one", "two")

	b.BeginFrame(FrameInput{PointerGlobal: ptr(5000, 5000)})
	pass := rootPass(t, b, ptr(100, 100), false)
	pass.End()
	b.EndFrame()

	require.NotNil(t, b.pointer.global)
	assert.Equal(t, geom.Pt(100, 100), *b.pointer.global, "local observation wins")
	assert.Contains(t, eventKinds(b), EventStaleHint)
}
