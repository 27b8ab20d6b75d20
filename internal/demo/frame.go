package demo

import (
	"github.com/bnema/undock/pkg/dock"
	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// grab is a pressed-but-not-yet-dragging handle. The drag session only
// opens once the pointer travels a cell, so a plain click can still
// select a tab.
type grab struct {
	vp     dock.ViewportID
	float  dock.FloatingID
	tile   tiles.TileID
	tabs   tiles.TileID
	window bool
	at     geom.Point
}

// runFrame drives one bridge frame from the current pointer state: the
// frame input, one pass per window, and the end-of-frame apply.
func (m *Model) runFrame(released bool) {
	rects := m.viewportRects()

	var hovered dock.ViewportID
	hoveredSet := false
	if m.pointerKnown {
		for i := len(rects) - 1; i >= 0; i-- {
			if rects[i].win.Contains(m.pointer) {
				hovered = rects[i].vp
				hoveredSet = true
				break
			}
		}
	}

	in := dock.FrameInput{
		PointerDown:     m.mouseDown,
		PointerReleased: released,
		Modifiers:       m.mods,
		Monitors:        []geom.Rect{m.deskRect()},
	}
	if m.pointerKnown {
		p := m.pointer
		in.PointerGlobal = &p
	}
	if hoveredSet {
		vp := hovered
		in.HoveredViewport = &vp
	}
	m.bridge.BeginFrame(in)

	decisions := make(map[dock.ViewportID]dock.OverlayDecision)
	for _, vr := range rects {
		pass, err := m.bridge.BeginPass(vr.vp, m.passInput(vr, hovered, released))
		if err != nil {
			continue
		}
		if m.armed != nil && !m.dragging && m.armed.vp == vr.vp &&
			m.pointerKnown && m.armed.at.Dist(m.pointer) >= 1 {
			m.startDrag(pass)
		}
		if m.bridge.DragActive() {
			decisions[vr.vp] = pass.Overlay()
		}
		pass.End()
	}
	m.bridge.EndFrame()
	m.decisions = decisions
	m.noteEvents()
}

func (m *Model) passInput(vr viewportRect, hovered dock.ViewportID, released bool) dock.PassInput {
	in := dock.PassInput{
		InnerRect: vr.inner,
		DockRect:  geom.R(0, 0, vr.inner.Width(), vr.inner.Height()),
	}
	if m.pointerKnown && vr.inner.Contains(m.pointer) {
		lp := geom.Pt(m.pointer.X-vr.inner.Min.X, m.pointer.Y-vr.inner.Min.Y)
		in.Pointer = &lp
	}
	// The terminal has one event loop; the release is delivered to the
	// window under the pointer, like per-window loops would see it.
	in.PointerReleased = released && hovered == vr.vp
	return in
}

func (m *Model) startDrag(pass *dock.ViewportPass) {
	g := m.armed
	var err error
	switch {
	case g.window && g.float != 0:
		err = pass.DragFloating(g.float)
	case g.window:
		err = pass.DragWindowFrame()
	case g.float != 0:
		err = pass.DragFloatingTile(g.float, g.tile)
	default:
		err = pass.DragTile(g.tile)
	}
	if err != nil {
		m.status = "drag refused: " + err.Error()
		m.armed = nil
		return
	}
	m.dragging = true
}

// hitDesk resolves what a press grabbed, topmost window first.
func (m *Model) hitDesk(p geom.Point) *grab {
	rects := m.viewportRects()
	opts := m.bridge.Options()

	for i := len(rects) - 1; i >= 0; i-- {
		vr := rects[i]
		if !vr.win.Contains(p) {
			continue
		}

		// The top border row is the window's title: grabbing it moves
		// the whole window. The root has no frame to drag.
		if vr.vp != dock.RootViewport && int(p.Y) == int(vr.win.Min.Y) {
			m.moveGrab = p.Sub(vr.win.Min)
			return &grab{vp: vr.vp, window: true, at: p}
		}
		if !vr.inner.Contains(p) {
			return nil
		}
		local := geom.Pt(p.X-vr.inner.Min.X, p.Y-vr.inner.Min.Y)

		// Floating windows, topmost first
		ids := m.bridge.FloatingIDs(vr.vp)
		for j := len(ids) - 1; j >= 0; j-- {
			f, ok := m.bridge.Floating(vr.vp, ids[j])
			if !ok {
				continue
			}
			header := geom.RectFromMinSize(geom.Pt(f.Offset().X, f.Offset().Y), geom.Sz(f.Size().W, opts.FloatingHeaderHeight))
			if header.Contains(local) {
				_ = m.bridge.RaiseFloating(vr.vp, ids[j])
				return &grab{vp: vr.vp, float: ids[j], window: true, at: p}
			}
			if f.Collapsed() {
				continue
			}
			content := geom.RectFromMinSize(geom.Pt(f.Offset().X, f.Offset().Y+opts.FloatingHeaderHeight), f.Size())
			if !content.Contains(local) {
				continue
			}
			_ = m.bridge.RaiseFloating(vr.vp, ids[j])
			tree := f.Tree()
			tree.Layout(content, opts.Layout)
			if tile, tabs, ok := treeHit(tree, local); ok {
				return &grab{vp: vr.vp, float: ids[j], tile: tile, tabs: tabs, at: p}
			}
			return nil
		}

		tree := m.surfaceTreeOf(vr.vp, 0)
		if tree == nil || tree.IsEmpty() {
			return nil
		}
		tree.Layout(geom.R(0, 0, vr.inner.Width(), vr.inner.Height()), opts.Layout)
		if tile, tabs, ok := treeHit(tree, local); ok {
			return &grab{vp: vr.vp, tile: tile, tabs: tabs, at: p}
		}
		return nil
	}
	return nil
}

// treeHit finds a draggable handle in a laid-out tree: a tab button or
// a pane's title border.
func treeHit(tree *tiles.Tree, local geom.Point) (tile, tabs tiles.TileID, ok bool) {
	for _, id := range tree.VisibleTiles() {
		t, found := tree.Tile(id)
		if !found {
			continue
		}
		switch t.Kind {
		case tiles.KindTabs:
			bar, barOK := tree.TabBarRect(id)
			if !barOK || !bar.Contains(local) || len(t.Children) == 0 {
				continue
			}
			cellW := bar.Width() / float64(len(t.Children))
			idx := int((local.X - bar.Min.X) / cellW)
			if idx < 0 {
				idx = 0
			}
			if idx >= len(t.Children) {
				idx = len(t.Children) - 1
			}
			return t.Children[idx], id, true

		case tiles.KindPane:
			r, rOK := tree.Rect(id)
			if !rOK || !r.Contains(local) {
				continue
			}
			if int(local.Y) == int(r.Min.Y) {
				return id, 0, true
			}
		}
	}
	return 0, 0, false
}

func (m *Model) surfaceTreeOf(vp dock.ViewportID, f dock.FloatingID) *tiles.Tree {
	if f != 0 {
		fw, ok := m.bridge.Floating(vp, f)
		if !ok {
			return nil
		}
		return fw.Tree()
	}
	if vp == dock.RootViewport {
		return m.bridge.Tree()
	}
	d, ok := m.bridge.DetachedDock(vp)
	if !ok {
		return nil
	}
	return d.Tree()
}

// emulateNativeMove plays the window system's part of a native title
// drag: the window follows the pointer and the bridge is told where it
// went.
func (m *Model) emulateNativeMove() {
	vp := m.backend.nativeMove
	if vp == "" || !m.pointerKnown {
		return
	}
	p, ok := m.bridge.Placement(vp)
	if !ok {
		return
	}
	pos := geom.Pt(m.pointer.X-m.moveGrab.X, m.pointer.Y-m.moveGrab.Y)
	p.Pos = &pos
	_ = m.bridge.NotifyWindowPlacement(vp, p)
}

// finishPress settles a release: a click that never became a drag
// selects the pressed tab, and any native move ends.
func (m *Model) finishPress() {
	if m.armed != nil && !m.dragging && m.armed.tabs != 0 {
		if tree := m.surfaceTreeOf(m.armed.vp, m.armed.float); tree != nil {
			_ = tree.SetActiveTab(m.armed.tabs, m.armed.tile)
		}
	}
	m.armed = nil
	m.dragging = false
	m.backend.nativeMove = ""
	m.markDirty()
}

func (m *Model) noteEvents() {
	if ev := m.backend.lastEvent; ev != "" {
		m.backend.lastEvent = ""
		m.status = ev
	}
	events := m.bridge.Events()
	if len(events) == 0 {
		return
	}
	last := events[len(events)-1].String()
	if last != m.lastEvent {
		m.lastEvent = last
		m.status = last
	}
}

func (m *Model) markDirty() {
	if m.saver == nil {
		return
	}
	m.saver.MarkDirty(m.bridge.Snapshot())
}
