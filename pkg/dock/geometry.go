package dock

import (
	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// viewGeometry is the per-viewport geometry cache: the viewport's inner
// rect in global space, the dock surface in local space, and the
// floating window rects in z-order. Rebuilt at the start of each
// viewport pass, strictly before any hit-testing that frame; kept after
// the frame as the "last known" geometry the deferred-drop fallback
// relies on.
type viewGeometry struct {
	inner     geom.Rect
	dockLocal geom.Rect
	floats    []floatRect
	seenFrame uint64
}

type floatRect struct {
	id   FloatingID
	rect geom.Rect // local, header included
}

// rebuildGeometry replaces the viewport's cache from this frame's pass
// input. Never mutates trees.
func (b *Bridge) rebuildGeometry(vp ViewportID, in PassInput) *viewGeometry {
	g := &viewGeometry{
		inner:     in.InnerRect,
		dockLocal: in.DockRect,
		seenFrame: b.frame,
	}
	if set, ok := b.floats[vp]; ok {
		for _, f := range set.ordered() {
			g.floats = append(g.floats, floatRect{id: f.id, rect: f.rect(b.opts.FloatingHeaderHeight)})
		}
	}
	b.geo[vp] = g
	return g
}

// floatingAt returns the topmost floating window containing the local
// point. The z-slice runs bottom to top, so the last containing window
// wins; the result is deterministic given the frame's z-order snapshot.
func (b *Bridge) floatingAt(vp ViewportID, local geom.Point) (FloatingID, bool) {
	g, ok := b.geo[vp]
	if !ok {
		return 0, false
	}
	var hit FloatingID
	found := false
	for _, fr := range g.floats {
		if fr.rect.Contains(local) {
			hit, found = fr.id, true
		}
	}
	return hit, found
}

// surfaceAt resolves which surface of a viewport the local point is
// over: the topmost floating window if any contains it, else the dock
// tree. excludeFloating skips the named floating window, so a floating
// window being dragged does not hit-test against itself.
func (b *Bridge) surfaceAt(vp ViewportID, local geom.Point, excludeFloating FloatingID) Surface {
	g, ok := b.geo[vp]
	if !ok {
		return Surface{Viewport: vp}
	}
	var hit FloatingID
	for _, fr := range g.floats {
		if fr.id == excludeFloating {
			continue
		}
		if fr.rect.Contains(local) {
			hit = fr.id
		}
	}
	return Surface{Viewport: vp, Floating: hit}
}

// viewportUnderGlobal finds the viewport whose inner rect contains the
// global point, preferring the smallest-area match so a compact detached
// window overlapping the root wins. exclude removes a viewport from
// consideration (a window being dragged is under the pointer by
// construction and must not capture its own drop).
func (b *Bridge) viewportUnderGlobal(global geom.Point, exclude ViewportID) (ViewportID, bool) {
	var best ViewportID
	bestArea := 0.0
	found := false
	for _, vp := range b.sortedGeoViewports() {
		if vp == exclude {
			continue
		}
		g := b.geo[vp]
		if !g.inner.Contains(global) {
			continue
		}
		area := g.inner.Area()
		if !found || area < bestArea {
			best, bestArea, found = vp, area, true
		}
	}
	return best, found
}

// globalToLocal converts a global point into a viewport's local space.
func (b *Bridge) globalToLocal(vp ViewportID, global geom.Point) (geom.Point, bool) {
	g, ok := b.geo[vp]
	if !ok {
		return geom.Point{}, false
	}
	return geom.Pt(global.X-g.inner.Min.X, global.Y-g.inner.Min.Y), true
}

// localToGlobal converts a viewport-local point into global space.
func (b *Bridge) localToGlobal(vp ViewportID, local geom.Point) (geom.Point, bool) {
	g, ok := b.geo[vp]
	if !ok {
		return geom.Point{}, false
	}
	return geom.Pt(local.X+g.inner.Min.X, local.Y+g.inner.Min.Y), true
}

// dockRectGlobal returns a viewport's dock surface in global space.
func (b *Bridge) dockRectGlobal(vp ViewportID) (geom.Rect, bool) {
	g, ok := b.geo[vp]
	if !ok {
		return geom.Rect{}, false
	}
	return g.dockLocal.Translate(g.inner.Min.Vec()), true
}

// ghostGrabOffset keeps a torn-off window's title under the pointer
// instead of at its corner.
var ghostGrabOffset = geom.V(20, 10)

// inferDetachedPlacement derives where and how big a freshly detached
// window should be. Size comes from the subtree's last laid-out rect
// when one is known, floored to the minimum; position puts the title
// strip under the pointer, falling back to an offset from the source
// viewport, then to a fixed corner.
func (b *Bridge) inferDetachedPlacement(sourceVP ViewportID, tileRect *geom.Rect, pointerGlobal *geom.Point) WindowPlacement {
	size := b.opts.DefaultDetachedSize
	if tileRect != nil && tileRect.Size().IsPositive() {
		size = tileRect.Size().Max(b.opts.MinDetachedSize)
	}

	var pos *geom.Point
	switch {
	case pointerGlobal != nil:
		p := pointerGlobal.SubVec(ghostGrabOffset)
		pos = &p
	default:
		if g, ok := b.geo[sourceVP]; ok {
			p := g.inner.Min.Add(geom.V(64, 64))
			pos = &p
		} else {
			p := geom.Pt(64, 64)
			pos = &p
		}
	}

	return WindowPlacement{Pos: pos, Size: size, Decorations: b.opts.Decorations}
}

// tileRectGlobal returns a tile's laid-out rect in global space, when
// the tile is visible on the viewport's dock surface.
func (b *Bridge) tileRectGlobal(vp ViewportID, tree *tiles.Tree, id tiles.TileID) (geom.Rect, bool) {
	r, ok := tree.Rect(id)
	if !ok {
		return geom.Rect{}, false
	}
	g, ok := b.geo[vp]
	if !ok {
		return geom.Rect{}, false
	}
	return r.Translate(g.inner.Min.Vec()), true
}
