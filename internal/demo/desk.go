package demo

import (
	"math"

	"github.com/bnema/undock/pkg/dock"
	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// Desk geometry: the terminal grid is the desk. Row 0 is the toolbar,
// the two bottom rows are status and help; everything between is desk
// space where windows live in cell coordinates.
const (
	deskTop    = 1
	bottomRows = 2
)

// viewportRect is one window on the desk: its outer box and the dock
// surface inside the border.
type viewportRect struct {
	vp    dock.ViewportID
	win   geom.Rect
	inner geom.Rect
}

func (m *Model) deskRect() geom.Rect {
	bottom := float64(m.height - bottomRows)
	if bottom <= deskTop+1 {
		bottom = deskTop + 1
	}
	return geom.R(0, deskTop, float64(m.width), bottom)
}

// rootWinRect pins the root viewport to the left side of the desk. The
// root window never moves; detached windows get the rest of the desk.
func (m *Model) rootWinRect() geom.Rect {
	desk := m.deskRect()
	w := math.Round(desk.Width() * 0.55)
	if w > desk.Width()-6 {
		w = desk.Width() - 6
	}
	if w < 24 {
		w = math.Min(24, desk.Width()-2)
	}
	return geom.R(desk.Min.X+2, desk.Min.Y+1, desk.Min.X+2+w, desk.Max.Y-1)
}

// viewportRects lists every window bottom to top: the root first, then
// detached windows in creation order.
func (m *Model) viewportRects() []viewportRect {
	out := []viewportRect{{vp: dock.RootViewport, win: m.rootWinRect()}}
	for _, vp := range m.bridge.Detached() {
		p, ok := m.bridge.Placement(vp)
		if !ok {
			continue
		}
		rect, ok := p.Rect()
		if !ok {
			continue
		}
		out = append(out, viewportRect{vp: vp, win: rect})
	}
	for i := range out {
		out[i].inner = out[i].win.Expand(-1)
	}
	return out
}

// deskToCanvas shifts desk coordinates onto the desk-only canvas.
func deskToCanvas(r geom.Rect) geom.Rect {
	return r.Translate(geom.Vec{Y: -deskTop})
}

func (m *Model) renderDeskLines() []string {
	desk := m.deskRect()
	c := newCanvas(m.width, int(desk.Height()))

	for _, vr := range m.viewportRects() {
		m.drawViewport(c, vr)
	}
	m.drawGhost(c)
	if m.showEvents {
		m.drawEventLog(c, desk)
	}
	return c.lines()
}

func (m *Model) drawViewport(c *canvas, vr viewportRect) {
	win := deskToCanvas(vr.win)
	c.fill(win, ' ', styleNone)
	chrome := styleChrome
	if vr.vp == m.backend.focused {
		chrome = styleFocus
	}
	c.box(win, chrome)
	title := m.windowTitle(vr.vp)
	c.text(int(win.Min.X)+2, int(win.Min.Y), " "+title+" ", int(win.Width())-4, styleTitle)

	tree := m.surfaceTreeOf(vr.vp, 0)
	if tree == nil {
		return
	}
	params := m.bridge.Options().Layout
	off := geom.Vec{X: vr.inner.Min.X, Y: vr.inner.Min.Y - deskTop}

	if !tree.IsEmpty() {
		tree.Layout(geom.R(0, 0, vr.inner.Width(), vr.inner.Height()), params)
		m.drawTree(c, tree, off)
	}

	for _, id := range m.bridge.FloatingIDs(vr.vp) {
		f, ok := m.bridge.Floating(vr.vp, id)
		if !ok {
			continue
		}
		m.drawFloat(c, f, off, params)
	}

	if dec, ok := m.decisions[vr.vp]; ok {
		m.drawDecision(c, vr, dec, off)
	}
}

func (m *Model) drawTree(c *canvas, tree *tiles.Tree, off geom.Vec) {
	for _, id := range tree.VisibleTiles() {
		t, ok := tree.Tile(id)
		if !ok {
			continue
		}
		switch t.Kind {
		case tiles.KindPane:
			r, ok := tree.Rect(id)
			if !ok {
				continue
			}
			r = r.Translate(off)
			c.box(r, styleChrome)
			c.text(int(r.Min.X)+1, int(r.Min.Y), " "+m.bridge.PaneTitle(t.Pane)+" ", int(r.Width())-2, styleNone)

		case tiles.KindTabs:
			bar, ok := tree.TabBarRect(id)
			if !ok || len(t.Children) == 0 {
				continue
			}
			bar = bar.Translate(off)
			cellW := bar.Width() / float64(len(t.Children))
			for i, child := range t.Children {
				cell := geom.R(bar.Min.X+float64(i)*cellW, bar.Min.Y, bar.Min.X+float64(i+1)*cellW, bar.Max.Y)
				style := styleChrome
				if child == t.Active {
					style = styleActiveTab
				}
				c.fill(cell, ' ', style)
				c.text(int(cell.Min.X)+1, int(cell.Min.Y), m.tileLabel(tree, child), int(cell.Width())-1, style)
			}
		}
	}
}

func (m *Model) drawFloat(c *canvas, f *dock.FloatingWindow, off geom.Vec, params tiles.LayoutParams) {
	headerH := m.bridge.Options().FloatingHeaderHeight
	header := geom.RectFromMinSize(geom.Pt(f.Offset().X, f.Offset().Y), geom.Sz(f.Size().W, headerH))
	content := geom.RectFromMinSize(geom.Pt(f.Offset().X, f.Offset().Y+headerH), f.Size())

	if f.Collapsed() {
		h := header.Translate(off)
		c.fill(h, ' ', styleActiveTab)
		c.text(int(h.Min.X)+1, int(h.Min.Y), m.floatTitle(f), int(h.Width())-2, styleActiveTab)
		return
	}

	outer := geom.R(header.Min.X, header.Min.Y, content.Max.X, content.Max.Y).Translate(off)
	c.fill(outer, ' ', styleNone)
	h := header.Translate(off)
	c.fill(h, ' ', styleActiveTab)
	c.text(int(h.Min.X)+1, int(h.Min.Y), m.floatTitle(f), int(h.Width())-2, styleActiveTab)

	tree := f.Tree()
	if !tree.IsEmpty() {
		tree.Layout(content, params)
		m.drawTree(c, tree, off)
	}
}

// drawDecision paints the per-frame preview: the bridge overlay's rect
// under bridge authority, the tree's own nearest zone under tree
// authority. A suppressed tree preview never paints, so two highlight
// systems cannot show at once.
func (m *Model) drawDecision(c *canvas, vr viewportRect, dec dock.OverlayDecision, off geom.Vec) {
	switch dec.Authority {
	case dock.AuthorityBridge:
		if dec.Target == dock.TargetNone {
			return
		}
		c.shade(dec.Preview.Translate(off), stylePreview)

	case dock.AuthorityTree:
		if dec.SuppressTreePreview {
			return
		}
		payload, ok := m.bridge.CurrentPayload()
		if !ok || !m.pointerKnown || !vr.inner.Contains(m.pointer) {
			return
		}
		tree := m.surfaceTreeOf(dec.Surface.Viewport, dec.Surface.Floating)
		if tree == nil {
			return
		}
		local := geom.Pt(m.pointer.X-vr.inner.Min.X, m.pointer.Y-vr.inner.Min.Y)
		if z, ok := tree.DockZoneAt(local, payload.Tile); ok {
			c.shade(z.Preview.Translate(off), styleTreePreview)
		}
	}
}

func (m *Model) drawGhost(c *canvas) {
	ghost, ok := m.bridge.Ghost()
	if !ok {
		return
	}
	r := deskToCanvas(ghost.Rect)
	if ghost.Native {
		c.box(r, styleGhost)
	} else {
		c.boxDashed(r, styleGhost)
	}
	c.text(int(r.Min.X)+2, int(r.Min.Y), " "+m.payloadTitle(ghost.Payload)+" ", int(r.Width())-4, styleGhost)
}

func (m *Model) drawEventLog(c *canvas, desk geom.Rect) {
	events := m.bridge.Events()
	const shown = 8
	if len(events) > shown {
		events = events[len(events)-shown:]
	}
	w := 44.0
	if w > desk.Width()-4 {
		w = desk.Width() - 4
	}
	box := deskToCanvas(geom.R(desk.Max.X-w-1, desk.Min.Y, desk.Max.X-1, desk.Min.Y+float64(len(events))+2))
	c.fill(box, ' ', styleNone)
	c.box(box, styleChrome)
	c.text(int(box.Min.X)+2, int(box.Min.Y), " events ", int(box.Width())-4, styleTitle)
	for i, e := range events {
		c.text(int(box.Min.X)+1, int(box.Min.Y)+1+i, e.String(), int(box.Width())-2, styleNone)
	}
}

func (m *Model) windowTitle(vp dock.ViewportID) string {
	if vp == dock.RootViewport {
		return "undock"
	}
	if p, ok := m.bridge.Placement(vp); ok && p.Title != "" {
		return p.Title
	}
	return string(vp)
}

func (m *Model) floatTitle(f *dock.FloatingWindow) string {
	if pane, ok := f.Tree().FirstPane(); ok {
		return m.bridge.PaneTitle(pane)
	}
	return "floating"
}

func (m *Model) tileLabel(tree *tiles.Tree, id tiles.TileID) string {
	t, ok := tree.Tile(id)
	if !ok {
		return "?"
	}
	switch t.Kind {
	case tiles.KindPane:
		return m.bridge.PaneTitle(t.Pane)
	case tiles.KindTabs:
		return "tabs"
	default:
		return "split"
	}
}

func (m *Model) payloadTitle(p dock.DragPayload) string {
	tree := m.surfaceTreeOf(p.Source, p.SourceFloating)
	if tree == nil {
		return p.String()
	}
	if t, ok := tree.Tile(p.Tile); ok && t.Kind == tiles.KindPane {
		return m.bridge.PaneTitle(t.Pane)
	}
	if pane, ok := tree.FirstPane(); ok {
		return m.bridge.PaneTitle(pane) + " +"
	}
	return p.String()
}
