package dock

import (
	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// floatingDrag tracks a grabbed floating window between frames: which
// window, and where inside it the pointer took hold.
type floatingDrag struct {
	vp   ViewportID
	id   FloatingID
	grab geom.Vec
}

// BeginFrame opens a frame. The host calls it once, before any viewport
// pass, with whatever platform hints the backend produced since the last
// frame; every hint is optional.
func (b *Bridge) BeginFrame(in FrameInput) {
	b.frame++
	b.routed = false
	b.pointer.beginFrame(in)
	if in.Monitors != nil {
		b.monitors = append(b.monitors[:0], in.Monitors...)
	}
}

// ViewportPass is one viewport's slice of the frame. The host opens a
// pass per live viewport, reports drag gestures and reads the overlay
// decision through it, then closes it with End. Passes of one frame run
// in any order; the drop protocol tolerates the drop viewport's pass
// running before the release is known.
type ViewportPass struct {
	b            *Bridge
	vp           ViewportID
	local        *geom.Point
	releasedHere bool
	valid        bool
}

// BeginPass opens the pass for one viewport: refreshes its geometry,
// lays out its dock and floating trees, and folds its pointer
// observation into the frame's pointer state.
func (b *Bridge) BeginPass(vp ViewportID, in PassInput) (*ViewportPass, error) {
	tree, ok := b.viewportTree(vp)
	if !ok {
		return nil, ErrUnknownViewport
	}

	g := b.rebuildGeometry(vp, in)
	tree.Layout(g.dockLocal, b.opts.Layout)
	if set, ok := b.floats[vp]; ok {
		for _, f := range set.ordered() {
			f.tree.Layout(f.contentRect(b.opts.FloatingHeaderHeight), b.opts.Layout)
		}
	}

	pass := &ViewportPass{b: b, vp: vp, valid: true, releasedHere: in.PointerReleased}
	if in.Pointer != nil {
		local := *in.Pointer
		pass.local = &local
		if b.pointer.observe(vp, local.Add(g.inner.Min.Vec())) {
			b.record(EventStaleHint, vp, "pointer hint contradicts local observation, geometry wins")
		}
	}
	if in.PointerReleased {
		b.pointer.released = true
	}

	b.updateFloatDrag(vp, pass.local)
	b.updateGhost()
	return pass, nil
}

// Viewport names the pass's viewport.
func (p *ViewportPass) Viewport() ViewportID { return p.vp }

// DragTile starts (or re-asserts) a drag of a subtree of this viewport's
// dock tree. With shift held and group tear-off enabled, a tab drag is
// promoted to its enclosing tab container. Re-asserting the drag already
// in flight is a no-op; a different payload while a session is active is
// refused.
func (p *ViewportPass) DragTile(tile tiles.TileID) error {
	if !p.valid {
		return ErrPassEnded
	}
	tree, ok := p.b.viewportTree(p.vp)
	if !ok {
		return ErrUnknownViewport
	}
	return p.b.beginTileDrag(tree, Surface{Viewport: p.vp}, tile)
}

// DragFloatingTile starts a drag of a subtree of one of this viewport's
// contained floating windows.
func (p *ViewportPass) DragFloatingTile(id FloatingID, tile tiles.TileID) error {
	if !p.valid {
		return ErrPassEnded
	}
	f, ok := p.b.Floating(p.vp, id)
	if !ok {
		return ErrUnknownFloating
	}
	return p.b.beginTileDrag(f.tree, Surface{Viewport: p.vp, Floating: id}, tile)
}

// DragFloating grabs a contained floating window by its header: the
// window raises and follows the pointer, and a whole-window drag session
// opens so the window can be docked back under the modifier gate.
func (p *ViewportPass) DragFloating(id FloatingID) error {
	if !p.valid {
		return ErrPassEnded
	}
	b := p.b
	set, ok := b.floats[p.vp]
	if !ok {
		return ErrUnknownFloating
	}
	f, ok := set.get(id)
	if !ok {
		return ErrUnknownFloating
	}

	payload := DragPayload{BridgeID: b.opts.BridgeID, Source: p.vp, SourceFloating: id}
	if err := b.beginDrag(payload); err != nil {
		return err
	}
	set.bringToFront(id)
	if b.floatDrag == nil && p.local != nil {
		min := geom.Pt(0, 0).Add(f.Offset())
		b.floatDrag = &floatingDrag{vp: p.vp, id: id, grab: p.local.Sub(min)}
	}
	return nil
}

// DragWindowFrame starts a whole-window drag of this detached viewport:
// the OS moves the window natively while the session tracks the logical
// drag, letting other viewports advertise window-drop targets. The root
// viewport has no frame to drag.
func (p *ViewportPass) DragWindowFrame() error {
	if !p.valid {
		return ErrPassEnded
	}
	b := p.b
	if p.vp == RootViewport {
		return ErrNotDetached
	}
	if _, ok := b.detached[p.vp]; !ok {
		return ErrUnknownViewport
	}

	payload := DragPayload{BridgeID: b.opts.BridgeID, Source: p.vp}
	if err := b.beginDrag(payload); err != nil {
		return err
	}
	if b.opts.FocusOnTitleDrag {
		if err := b.backend.Focus(p.vp); err != nil {
			b.log.Debug().Err(err).Str("viewport", string(p.vp)).Msg("focus on title drag failed")
		}
	}
	if err := b.backend.BeginNativeMove(p.vp); err != nil {
		b.log.Debug().Err(err).Str("viewport", string(p.vp)).Msg("native move unavailable, tracking pointer instead")
	}
	return nil
}

// Overlay answers what releasing over this viewport right now would do:
// who holds authority, the target kind, and the preview rectangle in
// viewport-local coordinates. The decision is also the outcome; the drop
// path resolves through the same policy.
func (p *ViewportPass) Overlay() OverlayDecision {
	none := OverlayDecision{Authority: AuthorityNone, Target: TargetNone, Surface: Surface{Viewport: p.vp}}
	if !p.valid || p.local == nil {
		return none
	}
	payload, ok := p.b.session.Payload()
	if !ok {
		return none
	}

	exclude := FloatingID(0)
	if payload.IsWindowDrag() && payload.FromFloating() && payload.Source == p.vp {
		exclude = payload.SourceFloating
	}
	s := p.b.surfaceAt(p.vp, *p.local, exclude)
	return p.b.decideOverlay(s, *p.local, p.b.queryFor(payload, s, p.b.pointer.mods))
}

// End closes the pass and routes a release that was delivered to this
// viewport's event loop. The release resolves locally only when this
// viewport also hosts the authoritative target; otherwise it is captured
// as pending and the end-of-frame apply re-evaluates it against every
// viewport's geometry.
func (p *ViewportPass) End() {
	if !p.valid {
		return
	}
	p.valid = false
	b := p.b

	payload, ok := b.session.Payload()
	if !ok || b.routed || !b.pointer.released || !p.releasedHere {
		// A release reported globally, or delivered to some other
		// viewport, falls through to the end-of-frame safety net.
		return
	}

	dropVP, known := b.dropViewport(payload)
	if known && dropVP == p.vp && p.local != nil {
		if dec := p.Overlay(); dec.Authority != AuthorityNone {
			b.routed = true
			b.resolveLocal(payload, dec, *p.local)
			return
		}
		// Pointer here but nothing qualifies: the end-of-frame apply
		// still probes overlapped viewports, then tears off or no-ops.
		b.routed = true
		b.capturePending(payload)
		return
	}

	// The release logically belongs to another viewport, or to no known
	// geometry at all: deferred.
	b.routed = true
	b.capturePending(payload)
}

// resolveLocal applies a drop inside the pass that received the release,
// while its geometry and layouts are fresh. The claim makes it exclusive
// with the deferred apply; the decision it commits is the one the
// overlay just previewed.
func (b *Bridge) resolveLocal(payload DragPayload, dec OverlayDecision, local geom.Point) {
	if !b.session.ClaimRelease() {
		b.record(EventClaimRefused, dec.Surface.Viewport, "local resolve after prior claim")
		return
	}
	switch dec.Authority {
	case AuthorityTree:
		b.applyTreeReorder(payload, dec.Surface, local)
	case AuthorityBridge:
		b.applyBridgeMove(payload, dec)
	}
}

// beginTileDrag validates and opens a subtree drag session on a source
// tree.
func (b *Bridge) beginTileDrag(tree *tiles.Tree, src Surface, tile tiles.TileID) error {
	if !tree.Contains(tile) {
		return tiles.ErrTileNotFound
	}

	if cur, ok := b.session.Payload(); ok {
		// Re-asserting the in-flight drag is idempotent. The group
		// promotion below may have redirected the session to the tab
		// container, so the ancestor also matches.
		if cur.sourceSurface() == src && !cur.IsWindowDrag() &&
			(cur.Tile == tile || tree.IsDescendant(cur.Tile, tile)) {
			return nil
		}
		return ErrSessionActive
	}

	if b.opts.GroupTearOffWithShift && b.pointer.mods.Shift {
		if parent, ok := tree.Parent(tile); ok {
			if pt, ok := tree.Tile(parent); ok && pt.Kind == tiles.KindTabs {
				tile = parent
			}
		}
	}

	payload := DragPayload{BridgeID: b.opts.BridgeID, Source: src.Viewport, SourceFloating: src.Floating, Tile: tile}
	if err := b.beginDrag(payload); err != nil {
		return err
	}
	tree.SetDragged(tile)
	return nil
}

func (b *Bridge) beginDrag(payload DragPayload) error {
	if cur, ok := b.session.Payload(); ok {
		if cur == payload {
			return nil
		}
		return ErrSessionActive
	}
	if err := b.session.Begin(payload, b.frame); err != nil {
		return err
	}
	b.record(EventSessionBegin, payload.Source, payload.String())
	return nil
}

// dropViewport resolves which viewport the release lands on: a fresh
// backend hover hint wins, then smallest-area geometry under the global
// pointer. For a native window drag the dragged window itself always
// sits under the pointer, so it is excluded from geometry resolution.
func (b *Bridge) dropViewport(payload DragPayload) (ViewportID, bool) {
	exclude := ViewportID("")
	if payload.IsWindowDrag() && !payload.FromFloating() {
		exclude = payload.Source
	}

	if b.pointer.hintedHovered && b.pointer.hovered != nil && *b.pointer.hovered != exclude {
		if _, ok := b.geo[*b.pointer.hovered]; ok {
			return *b.pointer.hovered, true
		}
	}
	if b.pointer.global == nil {
		return "", false
	}
	return b.viewportUnderGlobal(*b.pointer.global, exclude)
}

// capturePending records the release for the end-of-frame apply. The
// first capture of a frame wins; the pointer position is frozen with it.
func (b *Bridge) capturePending(payload DragPayload) {
	if b.pending != nil {
		return
	}
	var pt *geom.Point
	if b.pointer.global != nil {
		p := *b.pointer.global
		pt = &p
	}
	b.pending = &PendingDrop{Payload: payload, Pointer: pt, Mods: b.pointer.mods, Frame: b.frame}
}

// updateFloatDrag keeps a grabbed floating window under the pointer.
func (b *Bridge) updateFloatDrag(vp ViewportID, local *geom.Point) {
	fd := b.floatDrag
	if fd == nil {
		return
	}
	if !b.session.Active() {
		b.floatDrag = nil
		return
	}
	if fd.vp != vp || local == nil {
		return
	}
	set, ok := b.floats[vp]
	if !ok {
		b.floatDrag = nil
		return
	}
	f, ok := set.get(fd.id)
	if !ok {
		b.floatDrag = nil
		return
	}
	f.SetOffset(local.SubVec(fd.grab).Vec())
}

// queryFor derives the policy input for one candidate surface. The
// dragged exclusion only applies when source and target are the same
// tree; numeric tile ids mean nothing across trees.
func (b *Bridge) queryFor(payload DragPayload, s Surface, mods Modifiers) dragQuery {
	q := dragQuery{
		window:      payload.IsWindowDrag(),
		sameSurface: payload.sourceSurface() == s,
		sameWindow:  payload.Source == s.Viewport,
		mods:        mods,
	}
	if q.sameSurface && !q.window {
		q.dragged = payload.Tile
	}
	return q
}
