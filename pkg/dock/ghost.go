package dock

import "github.com/bnema/undock/pkg/geom"

// GhostDrag is the live preview of a tear-off in flight: the window the
// subtree will become if the drag releases outside every dock target.
// The subtree itself stays in its source tree until release; the ghost
// is pure presentation plus a remembered geometry for the finalize step.
type GhostDrag struct {
	Payload DragPayload
	// Rect is where the future window currently sits, in global
	// coordinates, following the pointer.
	Rect geom.Rect
	// Native reports that the preview should be presented as (or will
	// become) a native window, set once the pointer leaves the source
	// viewport when the option allows.
	Native bool
}

// updateGhost advances ghost state for the frame: spawn when a subtree
// drag crosses the tear-off threshold, follow the pointer, upgrade to
// native outside the source viewport, and retire when the pointer comes
// back over the dock.
func (b *Bridge) updateGhost() {
	if b.opts.TearOffMode != TearOffGhost {
		return
	}
	payload, ok := b.session.Payload()
	if !ok || payload.IsWindowDrag() {
		return
	}
	global := b.pointer.global
	if global == nil {
		return
	}

	outside, known := b.beyondTearOffThreshold(payload, *global)
	if !known {
		return
	}

	if !outside {
		if b.ghost != nil {
			b.record(EventGhostDiscard, payload.Source, "pointer back over dock")
			b.ghost = nil
		}
		return
	}

	if b.ghost == nil {
		size := b.ghostSize(payload)
		b.ghost = &GhostDrag{
			Payload: payload,
			Rect:    geom.RectFromMinSize(global.SubVec(ghostGrabOffset), size),
		}
		b.record(EventGhostSpawn, payload.Source, "tear-off preview")
	} else {
		b.ghost.Rect = geom.RectFromMinSize(global.SubVec(ghostGrabOffset), b.ghost.Rect.Size())
	}

	if b.opts.GhostNativeOnLeave && !b.ghost.Native {
		if g, ok := b.geo[payload.Source]; ok && !g.inner.Contains(*global) {
			b.ghost.Native = true
		}
	}
}

// beyondTearOffThreshold reports whether the pointer has left the source
// dock surface by more than the configured threshold. Unknown geometry
// returns known=false: without a dock rect there is no boundary to
// leave.
func (b *Bridge) beyondTearOffThreshold(payload DragPayload, global geom.Point) (outside, known bool) {
	var rect geom.Rect
	switch {
	case payload.FromFloating():
		f, ok := b.Floating(payload.Source, payload.SourceFloating)
		if !ok {
			return false, false
		}
		g, okG := b.geo[payload.Source]
		if !okG {
			return false, false
		}
		rect = f.rect(b.opts.FloatingHeaderHeight).Translate(g.inner.Min.Vec())
	default:
		r, ok := b.dockRectGlobal(payload.Source)
		if !ok {
			return false, false
		}
		rect = r
	}
	return rect.DistToPoint(global) > b.opts.TearOffThreshold, true
}

// ghostSize estimates the future window from the dragged subtree's last
// laid-out rect, floored to the minimum window size.
func (b *Bridge) ghostSize(payload DragPayload) geom.Size {
	srcTree, ok := b.surfaceTree(payload.sourceSurface())
	if !ok {
		return b.opts.DefaultDetachedSize
	}
	if r, ok := srcTree.Rect(payload.Tile); ok && r.Size().IsPositive() {
		return r.Size().Max(b.opts.MinDetachedSize)
	}
	return b.opts.DefaultDetachedSize
}
