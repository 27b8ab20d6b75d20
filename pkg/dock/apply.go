package dock

import (
	"fmt"
	"sort"

	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// EndFrame closes the frame after every viewport pass ended. This is the
// single point where deferred drops apply, tear-offs finalize, drag
// sessions end and emptied windows are reaped, so a frame never observes
// half of a cross-window mutation.
func (b *Bridge) EndFrame() {
	// Safety net for a release nobody routed: the drop viewport's pass
	// ran before the release was known, or the pointer sat over no
	// viewport at all.
	if payload, ok := b.session.Payload(); ok && b.pointer.released && !b.routed && b.pending == nil {
		b.routed = true
		b.capturePending(payload)
	}

	if pd := b.pending; pd != nil {
		b.pending = nil
		b.applyPendingDrop(*pd)
	}

	if b.pointer.released && b.session.Active() {
		b.endSession("release")
	}

	b.reap()
	if b.opts.DebugIntegrityChecks {
		b.integritySweep()
	}
}

// applyPendingDrop is the deferred half of the drop protocol: re-resolve
// the recorded release against every viewport's current geometry, then
// apply at most one mutation. A drop that resolves nowhere degrades to a
// tear-off (subtree beyond the threshold) or a silent no-op.
func (b *Bridge) applyPendingDrop(pd PendingDrop) {
	if !b.session.ClaimRelease() {
		b.record(EventClaimRefused, pd.Payload.Source, "deferred apply after prior claim")
		return
	}

	if res, ok := b.resolveDropTarget(pd); ok {
		switch res.dec.Authority {
		case AuthorityTree:
			b.applyTreeReorder(pd.Payload, res.dec.Surface, res.local)
		case AuthorityBridge:
			b.applyBridgeMove(pd.Payload, res.dec)
		}
		return
	}
	b.tearOffOrNoop(pd)
}

// dropResolution is a target decision plus the pointer in the target
// viewport's local space.
type dropResolution struct {
	dec   OverlayDecision
	local geom.Point
}

// resolveDropTarget re-runs the overlay policy for the recorded pointer
// over each candidate viewport, nearest hint first, and returns the
// first decision with any authority.
func (b *Bridge) resolveDropTarget(pd PendingDrop) (dropResolution, bool) {
	if pd.Pointer == nil {
		return dropResolution{}, false
	}
	global := *pd.Pointer

	for _, vp := range b.dropCandidates(pd.Payload, global) {
		local, ok := b.globalToLocal(vp, global)
		if !ok {
			continue
		}
		exclude := FloatingID(0)
		if pd.Payload.IsWindowDrag() && pd.Payload.FromFloating() && pd.Payload.Source == vp {
			exclude = pd.Payload.SourceFloating
		}
		s := b.surfaceAt(vp, local, exclude)
		dec := b.decideOverlay(s, local, b.queryFor(pd.Payload, s, pd.Mods))
		if dec.Authority == AuthorityNone {
			continue
		}
		return dropResolution{dec: dec, local: local}, true
	}
	return dropResolution{}, false
}

// dropCandidates orders the viewports whose content area contains the
// global point, smallest first so a compact window overlapping the root
// wins; a fresh hover hint that agrees with geometry goes to the front.
// A natively dragged window is under the pointer by construction and is
// excluded.
func (b *Bridge) dropCandidates(payload DragPayload, global geom.Point) []ViewportID {
	exclude := ViewportID("")
	if payload.IsWindowDrag() && !payload.FromFloating() {
		exclude = payload.Source
	}

	type cand struct {
		vp   ViewportID
		area float64
	}
	var cands []cand
	for vp, g := range b.geo {
		if vp == exclude || !g.inner.Contains(global) {
			continue
		}
		cands = append(cands, cand{vp, g.inner.Area()})
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].area != cands[j].area {
			return cands[i].area < cands[j].area
		}
		return cands[i].vp < cands[j].vp
	})

	out := make([]ViewportID, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.vp)
	}
	if b.pointer.hintedHovered && b.pointer.hovered != nil {
		hint := *b.pointer.hovered
		for i, vp := range out {
			if vp == hint && i > 0 {
				copy(out[1:i+1], out[:i])
				out[0] = hint
				break
			}
		}
	}
	return out
}

// applyTreeReorder performs a same-surface drop under tree authority:
// the tree's own nearest-zone heuristic picks the insertion, exactly as
// it previewed it.
func (b *Bridge) applyTreeReorder(payload DragPayload, s Surface, local geom.Point) {
	tree, ok := b.surfaceTree(s)
	if !ok {
		b.record(EventDropRejected, s.Viewport, "drop surface vanished")
		return
	}
	zone, ok := tree.DockZoneAt(local, payload.Tile)
	if !ok {
		b.record(EventDropNoop, s.Viewport, "no dock zone under release")
		return
	}
	ins := zone.Insertion
	if err := tree.Move(payload.Tile, &ins); err != nil {
		b.record(EventDropRejected, s.Viewport, err.Error())
		return
	}
	b.record(EventDropApplied, s.Viewport, fmt.Sprintf("reorder %s of tile #%d", ins.Kind, payload.Tile))
}

// applyBridgeMove performs a drop under bridge authority: an explicit
// overlay target or the cross-surface fallback zone.
func (b *Bridge) applyBridgeMove(payload DragPayload, dec OverlayDecision) {
	if payload.IsWindowDrag() {
		b.dockWindow(payload, dec)
		return
	}

	if dec.Surface == payload.sourceSurface() {
		// Same tree: move in place, keeping ids and the target's parent
		// alive through the transition.
		tree, ok := b.surfaceTree(dec.Surface)
		if !ok {
			b.record(EventDropRejected, dec.Surface.Viewport, "drop surface vanished")
			return
		}
		if dec.Insertion == nil {
			b.record(EventDropNoop, dec.Surface.Viewport, "explicit target without insertion")
			return
		}
		if err := tree.Move(payload.Tile, dec.Insertion); err != nil {
			b.record(EventDropRejected, dec.Surface.Viewport, err.Error())
			return
		}
		b.record(EventDropApplied, dec.Surface.Viewport, fmt.Sprintf("%s onto %s", payload, dec.Target))
		return
	}

	sub, err := b.takeFromHost(payload)
	if err != nil {
		b.record(EventDropRejected, payload.Source, err.Error())
		return
	}
	if _, err := b.insertIntoHost(sub, dec.Surface, dec.Insertion); err != nil {
		b.restoreFragment(payload, sub)
		b.record(EventDropRejected, dec.Surface.Viewport, err.Error())
		return
	}
	b.record(EventDropApplied, dec.Surface.Viewport, fmt.Sprintf("%s onto %s", payload, dec.Target))
}

// dockWindow merges a whole window's tree into the drop target and lets
// the reap retire the emptied source window.
func (b *Bridge) dockWindow(payload DragPayload, dec OverlayDecision) {
	sub, err := b.takeFromHost(payload)
	if err != nil {
		b.record(EventDropRejected, payload.Source, err.Error())
		return
	}
	if _, err := b.insertIntoHost(sub, dec.Surface, dec.Insertion); err != nil {
		b.restoreFragment(payload, sub)
		b.record(EventDropRejected, dec.Surface.Viewport, err.Error())
		return
	}
	b.record(EventDropApplied, dec.Surface.Viewport, fmt.Sprintf("%s docked as %s", payload, dec.Target))
	if err := b.backend.Focus(dec.Surface.Viewport); err != nil {
		b.log.Debug().Err(err).Str("viewport", string(dec.Surface.Viewport)).Msg("focus after dock failed")
	}
}

// restoreFragment re-homes a fragment whose insert failed after it was
// already taken from its source. Losing it would silently drop panes, so
// it goes back to the source root, or into a fresh window when the
// source is gone.
func (b *Bridge) restoreFragment(payload DragPayload, sub *tiles.Subtree) {
	if tree, ok := b.surfaceTree(payload.sourceSurface()); ok {
		if _, err := tree.Insert(sub, nil); err == nil {
			b.record(EventRestoreDrop, payload.Source, "failed drop restored to source root")
			return
		}
	}
	if d := b.spawnDetached(sub, nil, nil, payload.Source); d != nil {
		b.record(EventRestoreDrop, d.id, "failed drop re-homed to a new window")
	}
}

// tearOffOrNoop settles a release that resolved no dock target: a
// subtree beyond the tear-off threshold (or force-released) becomes a
// window, everything else is a silent no-op that leaves every tree
// byte-identical.
func (b *Bridge) tearOffOrNoop(pd PendingDrop) {
	payload := pd.Payload
	if payload.IsWindowDrag() {
		// The window already lives where the user dragged it.
		b.record(EventDropNoop, payload.Source, "window release clear of all targets")
		return
	}

	force := b.opts.ForceTearOffWithAlt && pd.Mods.Alt
	outside := false
	if pd.Pointer != nil {
		if out, known := b.beyondTearOffThreshold(payload, *pd.Pointer); known {
			outside = out
		}
	}
	if !force && !outside {
		b.record(EventDropNoop, payload.Source, "release inside the source dock")
		return
	}
	b.tearOff(pd)
}

// tearOff extracts the dragged subtree into its own window: a contained
// floating window under the ctrl chord, otherwise a detached viewport.
func (b *Bridge) tearOff(pd PendingDrop) {
	payload := pd.Payload

	// Capture the subtree's on-screen rect before extraction invalidates
	// the source layout.
	var tileRect *geom.Rect
	if srcTree, ok := b.surfaceTree(payload.sourceSurface()); ok && !payload.FromFloating() {
		if r, ok := b.tileRectGlobal(payload.Source, srcTree, payload.Tile); ok {
			tileRect = &r
		}
	}

	sub, err := b.takeFromHost(payload)
	if err != nil {
		b.record(EventDropRejected, payload.Source, "tear-off failed: "+err.Error())
		return
	}

	if b.opts.FloatingWithCtrl && pd.Mods.Ctrl {
		vp := payload.Source
		if pd.Pointer != nil {
			if under, ok := b.viewportUnderGlobal(*pd.Pointer, ""); ok {
				vp = under
			}
		}
		f := b.spawnFloating(vp, sub, pd.Pointer)
		if f == nil {
			b.restoreFragment(payload, sub)
		}
		return
	}
	b.spawnDetached(sub, tileRect, pd.Pointer, payload.Source)
}

// spawnDetached realizes a fragment as a new detached viewport. A live
// ghost matching the session is finalized in place; otherwise placement
// is inferred from the fragment's old rect and the pointer, then clamped
// onto the monitors.
func (b *Bridge) spawnDetached(sub *tiles.Subtree, tileRect *geom.Rect, pointer *geom.Point, source ViewportID) *DetachedDock {
	tree := tiles.NewTree()
	if _, err := tree.Insert(sub, nil); err != nil {
		b.log.Error().Err(err).Msg("detached window could not adopt fragment")
		return nil
	}

	var placement WindowPlacement
	if g := b.ghost; g != nil {
		pos := g.Rect.Min
		placement = WindowPlacement{Pos: &pos, Size: g.Rect.Size(), Decorations: b.opts.Decorations}
		b.ghost = nil
		b.record(EventGhostFinalize, source, "ghost became the window")
	} else {
		placement = b.inferDetachedPlacement(source, tileRect, pointer)
	}
	placement.Title = b.titleFor(tree)
	placement = ClampPlacement(placement, b.monitors)

	id := b.newDetachedID()
	d := &DetachedDock{id: id, tree: tree, placement: placement}
	b.detached[id] = d
	b.detachedOrder = append(b.detachedOrder, id)

	if err := b.backend.CreateWindow(id, placement); err != nil {
		// The dock keeps living headless; the backend may realize the
		// window later from a snapshot.
		b.log.Warn().Err(err).Str("viewport", string(id)).Msg("window creation failed")
	}
	b.record(EventTearOff, id, fmt.Sprintf("%d pane(s) from %s", tree.LeafCount(), source))
	return d
}

// spawnFloating realizes a fragment as a contained floating window of a
// viewport, placed under the pointer when known.
func (b *Bridge) spawnFloating(vp ViewportID, sub *tiles.Subtree, pointerGlobal *geom.Point) *FloatingWindow {
	if _, ok := b.viewportTree(vp); !ok {
		return nil
	}
	tree := tiles.NewTree()
	if _, err := tree.Insert(sub, nil); err != nil {
		b.log.Error().Err(err).Msg("floating window could not adopt fragment")
		return nil
	}

	offset := geom.V(48, 48)
	if pointerGlobal != nil {
		if local, ok := b.globalToLocal(vp, *pointerGlobal); ok {
			offset = local.SubVec(ghostGrabOffset).Vec()
		}
	}

	b.nextFloating++
	f := &FloatingWindow{id: b.nextFloating, tree: tree, offset: offset, size: b.opts.DefaultFloatingSize}
	b.floatingSetFor(vp).add(f)
	if b.ghost != nil {
		b.ghost = nil
		b.record(EventGhostFinalize, vp, "ghost became a floating window")
	}
	b.record(EventTearOff, vp, fmt.Sprintf("floating %d, %d pane(s)", f.id, tree.LeafCount()))
	return f
}

// endSession closes the drag session exactly once, discarding any ghost
// that did not finalize and releasing the dragged marker on the source
// tree.
func (b *Bridge) endSession(reason string) {
	payload, ok := b.session.Payload()
	if !ok {
		return
	}
	if b.ghost != nil {
		b.record(EventGhostDiscard, payload.Source, "drag ended without tear-off")
		b.ghost = nil
	}
	b.floatDrag = nil
	if tree, ok := b.surfaceTree(payload.sourceSurface()); ok {
		tree.SetDragged(0)
	}
	b.session.End()
	b.record(EventSessionEnd, payload.Source, reason)
}

// reap retires hosts emptied during the frame: floating windows with no
// tiles, then detached viewports whose dock tree and overlay layer are
// both empty. Reaping in the same frame keeps "window exists" equivalent
// to "window has content".
func (b *Bridge) reap() {
	for vp, set := range b.floats {
		for _, f := range set.ordered() {
			if f.tree.IsEmpty() {
				set.remove(f.id)
				b.record(EventReapFloating, vp, fmt.Sprintf("floating %d empty", f.id))
			}
		}
	}

	for _, vp := range append([]ViewportID(nil), b.detachedOrder...) {
		d, ok := b.detached[vp]
		if !ok || !d.tree.IsEmpty() {
			continue
		}
		if set, ok := b.floats[vp]; ok && !set.empty() {
			// Still hosting floating windows; the window stays until
			// they are gone too.
			continue
		}
		b.removeDetached(vp, "dock tree empty")
	}
}

func (b *Bridge) removeDetached(vp ViewportID, why string) {
	delete(b.detached, vp)
	for i, id := range b.detachedOrder {
		if id == vp {
			b.detachedOrder = append(b.detachedOrder[:i], b.detachedOrder[i+1:]...)
			break
		}
	}
	delete(b.floats, vp)
	delete(b.geo, vp)
	if err := b.backend.CloseWindow(vp); err != nil {
		b.log.Debug().Err(err).Str("viewport", string(vp)).Msg("window close failed")
	}
	b.record(EventReapDetached, vp, why)
}

// integritySweep checks every live tree and logs findings. Debug tooling
// only; a healthy bridge never records integrity events.
func (b *Bridge) integritySweep() {
	check := func(vp ViewportID, label string, tree *tiles.Tree) {
		for _, finding := range tree.Integrity() {
			b.record(EventIntegrity, vp, label+": "+finding)
			b.log.Error().Str("viewport", string(vp)).Str("tree", label).Msg(finding)
		}
	}
	check(RootViewport, "dock", b.tree)
	for vp, d := range b.detached {
		check(vp, "dock", d.tree)
	}
	for vp, set := range b.floats {
		for _, f := range set.ordered() {
			check(vp, fmt.Sprintf("floating %d", f.id), f.tree)
		}
	}
}
