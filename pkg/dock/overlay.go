package dock

import (
	"math"

	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// Authority says which subsystem owns the preview and the eventual
// mutation for the current pointer interaction.
type Authority int

const (
	// AuthorityNone: nothing previews, release is a no-op here.
	AuthorityNone Authority = iota
	// AuthorityTree: the tree collaborator's own reorder handles it.
	AuthorityTree
	// AuthorityBridge: the bridge overlay owns preview and outcome.
	AuthorityBridge
)

func (a Authority) String() string {
	switch a {
	case AuthorityTree:
		return "tree"
	case AuthorityBridge:
		return "bridge"
	default:
		return "none"
	}
}

// TargetKind names the overlay target class that matched.
type TargetKind int

const (
	TargetNone TargetKind = iota
	// TargetPaneZone is the directional cross over a hovered pane.
	TargetPaneZone
	// TargetOuterEdge is the band along the surface edge splitting the
	// whole surface.
	TargetOuterEdge
	// TargetTreeZone is the tree's own nearest-zone fallback, used when
	// the bridge is authoritative but no explicit overlay target is hit.
	TargetTreeZone
	// TargetTabBar is a tab strip accepting a whole-window drop at an
	// index.
	TargetTabBar
	// TargetTitleBand is the strip atop a non-tab region accepting a
	// whole-window drop as new tabs.
	TargetTitleBand
	// TargetRootDock is an empty surface adopting the drop as its root.
	TargetRootDock
)

func (k TargetKind) String() string {
	switch k {
	case TargetPaneZone:
		return "pane-zone"
	case TargetOuterEdge:
		return "outer-edge"
	case TargetTreeZone:
		return "tree-zone"
	case TargetTabBar:
		return "tab-bar"
	case TargetTitleBand:
		return "title-band"
	case TargetRootDock:
		return "root-dock"
	default:
		return "none"
	}
}

// OverlayDecision is the per-frame answer of the authority policy for
// one surface: who previews, what would be inserted where, and what to
// highlight. The decision a frame paints is the decision a release
// commits: apply re-evaluates with the same inputs, so the two cannot
// diverge.
type OverlayDecision struct {
	Authority Authority
	Target    TargetKind
	Surface   Surface
	// Insertion is set when Target names a concrete tree position;
	// TargetRootDock docks into the (empty) root with a nil insertion.
	Insertion *tiles.InsertionPoint
	// Preview is the highlight rect in viewport-local coordinates.
	Preview geom.Rect
	// SuppressTreePreview tells the embedding UI to skip the tree
	// collaborator's own preview paint this frame, so two highlight
	// systems never show at once. Threaded explicitly; there is no
	// ambient flag.
	SuppressTreePreview bool
}

// dragQuery is the policy input derived from the payload and the frame.
type dragQuery struct {
	window      bool         // whole-window drag (payload tile is zero)
	dragged     tiles.TileID // dragged subtree root, when same-tree
	sameSurface bool         // target surface == payload's source surface
	sameWindow  bool         // target surface lives in the payload's source viewport
	mods        Modifiers
}

// decideOverlay implements the authority priority order for one surface:
//
//  1. Cross-surface drags: the bridge is authoritative unconditionally.
//     Explicit overlay targets win; the tree's nearest-zone heuristic is
//     the fallback; an empty tree accepts as root.
//  2. Same-surface subtree drags: the tree's own reorder is
//     authoritative unless the pointer hits an explicit overlay target,
//     which flips authority to the bridge and suppresses the tree
//     preview for the frame.
//  3. Whole-window drags: explicit targets only, tab bars and title
//     bands, behind the modifier gate. Nothing qualifies means the
//     release is a pure no-op.
func (b *Bridge) decideOverlay(s Surface, local geom.Point, q dragQuery) OverlayDecision {
	none := OverlayDecision{Authority: AuthorityNone, Target: TargetNone, Surface: s}

	tree, ok := b.surfaceTree(s)
	if !ok {
		return none
	}
	surfRect, ok := b.surfaceRect(s)
	if !ok || !surfRect.Contains(local) {
		if q.sameSurface && !q.window {
			return OverlayDecision{Authority: AuthorityTree, Target: TargetNone, Surface: s}
		}
		return none
	}

	if q.window {
		return b.decideWindowDrop(s, tree, local, q)
	}

	if dec, ok := b.explicitTargetAt(s, tree, surfRect, local, q); ok {
		dec.SuppressTreePreview = q.sameSurface
		return dec
	}

	if q.sameSurface {
		return OverlayDecision{Authority: AuthorityTree, Target: TargetNone, Surface: s}
	}

	// Cross-surface with no explicit hit: the tree never previews a
	// foreign drag, so fall back to its nearest-zone heuristic under
	// bridge authority.
	if tree.IsEmpty() {
		return OverlayDecision{
			Authority: AuthorityBridge,
			Target:    TargetRootDock,
			Surface:   s,
			Preview:   surfRect,
		}
	}
	if zone, ok := tree.DockZoneAt(local, q.dragged); ok {
		ins := zone.Insertion
		return OverlayDecision{
			Authority: AuthorityBridge,
			Target:    TargetTreeZone,
			Surface:   s,
			Insertion: &ins,
			Preview:   zone.Preview,
		}
	}
	return none
}

// explicitTargetAt tests the bridge's own overlay targets: the outer
// edge bands, then the directional cross over the hovered pane.
func (b *Bridge) explicitTargetAt(s Surface, tree *tiles.Tree, surfRect geom.Rect, local geom.Point, q dragQuery) (OverlayDecision, bool) {
	if tree.IsEmpty() {
		return OverlayDecision{}, false
	}
	root, _ := tree.Root()

	if kind, ok := b.outerEdgeAt(surfRect, local); ok {
		// A subtree that IS the whole tree has nowhere to split against.
		if q.dragged != 0 && q.dragged == root {
			return OverlayDecision{}, false
		}
		return OverlayDecision{
			Authority: AuthorityBridge,
			Target:    TargetOuterEdge,
			Surface:   s,
			Insertion: &tiles.InsertionPoint{Parent: root, Kind: kind},
			Preview:   halfRect(surfRect, kind),
		}, true
	}

	leaf, ok := b.crossLeafAt(tree, local, q.dragged)
	if !ok {
		return OverlayDecision{}, false
	}
	leafRect, _ := tree.Rect(leaf)
	kind, ok := b.crossButtonAt(leafRect, local)
	if !ok {
		return OverlayDecision{}, false
	}
	dec := OverlayDecision{
		Authority: AuthorityBridge,
		Target:    TargetPaneZone,
		Surface:   s,
		Preview:   halfRect(leafRect, kind),
	}
	if kind == tiles.IntoTabs {
		dec.Insertion = &tiles.InsertionPoint{Parent: leaf, Kind: tiles.IntoTabs, Index: 1}
		dec.Preview = leafRect
	} else {
		dec.Insertion = &tiles.InsertionPoint{Parent: leaf, Kind: kind}
	}
	return dec, true
}

// outerEdgeAt maps proximity to a surface edge onto a whole-surface
// split direction. The nearest qualifying edge wins.
func (b *Bridge) outerEdgeAt(surfRect geom.Rect, local geom.Point) (tiles.InsertionKind, bool) {
	band := b.opts.OuterBandPx
	if band <= 0 {
		return 0, false
	}
	dists := []struct {
		d    float64
		kind tiles.InsertionKind
	}{
		{local.X - surfRect.Min.X, tiles.SplitLeftOf},
		{surfRect.Max.X - local.X, tiles.SplitRightOf},
		{local.Y - surfRect.Min.Y, tiles.SplitAbove},
		{surfRect.Max.Y - local.Y, tiles.SplitBelow},
	}
	best := -1
	for i, e := range dists {
		if e.d > band {
			continue
		}
		if best < 0 || e.d < dists[best].d {
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return dists[best].kind, true
}

// crossLeafAt finds the pane whose overlay cross the pointer could be
// on, skipping the dragged subtree.
func (b *Bridge) crossLeafAt(tree *tiles.Tree, local geom.Point, exclude tiles.TileID) (tiles.TileID, bool) {
	var best tiles.TileID
	bestArea := math.MaxFloat64
	found := false
	for _, id := range tree.VisibleTiles() {
		tile, _ := tree.Tile(id)
		if tile.Kind != tiles.KindPane {
			continue
		}
		if exclude != 0 && tree.IsDescendant(exclude, id) {
			continue
		}
		r, _ := tree.Rect(id)
		if !r.Contains(local) {
			continue
		}
		if r.Area() < bestArea {
			best, bestArea, found = id, r.Area(), true
		}
	}
	return best, found
}

// crossButtonAt hit-tests the five-button directional cross centered on
// a pane. Button size and gap are tunable; the exact thresholds are
// configuration, not constants.
func (b *Bridge) crossButtonAt(leafRect geom.Rect, local geom.Point) (tiles.InsertionKind, bool) {
	size := b.opts.CrossButtonSize
	gap := b.opts.CrossButtonGap
	if size <= 0 {
		return 0, false
	}
	c := leafRect.Center()
	step := size + gap
	buttons := []struct {
		rect geom.Rect
		kind tiles.InsertionKind
	}{
		{geom.RectFromCenterSize(c, geom.Sz(size, size)), tiles.IntoTabs},
		{geom.RectFromCenterSize(geom.Pt(c.X-step, c.Y), geom.Sz(size, size)), tiles.SplitLeftOf},
		{geom.RectFromCenterSize(geom.Pt(c.X+step, c.Y), geom.Sz(size, size)), tiles.SplitRightOf},
		{geom.RectFromCenterSize(geom.Pt(c.X, c.Y-step), geom.Sz(size, size)), tiles.SplitAbove},
		{geom.RectFromCenterSize(geom.Pt(c.X, c.Y+step), geom.Sz(size, size)), tiles.SplitBelow},
	}
	for _, bt := range buttons {
		if bt.rect.Intersect(leafRect).Contains(local) {
			return bt.kind, true
		}
	}
	return 0, false
}

// decideWindowDrop resolves the explicit-only targets of a whole-window
// drag: a tab strip (with insertion index from the pointer) or the
// title band atop a region not already governed by a tab strip.
func (b *Bridge) decideWindowDrop(s Surface, tree *tiles.Tree, local geom.Point, q dragQuery) OverlayDecision {
	none := OverlayDecision{Authority: AuthorityNone, Target: TargetNone, Surface: s}
	// A window never docks into itself, nor into floating windows it
	// hosts; the emptied source and its overlay layer are about to go
	// away together.
	if !b.opts.windowDockingActive(q.mods) || q.sameWindow {
		return none
	}
	if tree.IsEmpty() {
		if surfRect, ok := b.surfaceRect(s); ok {
			return OverlayDecision{
				Authority: AuthorityBridge,
				Target:    TargetRootDock,
				Surface:   s,
				Preview:   surfRect,
			}
		}
		return none
	}

	// Tab strips first: they are the most precise target.
	for _, id := range tree.VisibleTiles() {
		bar, ok := tree.TabBarRect(id)
		if !ok || !bar.Contains(local) {
			continue
		}
		index := tree.TabInsertIndexAt(id, local)
		return OverlayDecision{
			Authority: AuthorityBridge,
			Target:    TargetTabBar,
			Surface:   s,
			Insertion: &tiles.InsertionPoint{Parent: id, Kind: tiles.IntoTabs, Index: index},
			Preview:   bar,
		}
	}

	// Title band of the hovered region, unless a tab strip already
	// governs it.
	tile, ok := tree.TileAt(local)
	if !ok {
		return none
	}
	tileObj, _ := tree.Tile(tile)
	if tileObj.Kind == tiles.KindTabs {
		return none
	}
	if parent, ok := tree.Parent(tile); ok {
		if pt, _ := tree.Tile(parent); pt.Kind == tiles.KindTabs {
			return none
		}
	}
	rect, _ := tree.Rect(tile)
	band, _ := rect.SplitTop(b.opts.TitleBandHeight)
	if !band.Contains(local) {
		return none
	}
	return OverlayDecision{
		Authority: AuthorityBridge,
		Target:    TargetTitleBand,
		Surface:   s,
		Insertion: &tiles.InsertionPoint{Parent: tile, Kind: tiles.IntoTabs, Index: 1},
		Preview:   band,
	}
}

// halfRect is the preview for a directional insertion: the half of the
// rect the subtree would occupy, or the full rect for tabbing.
func halfRect(r geom.Rect, kind tiles.InsertionKind) geom.Rect {
	switch kind {
	case tiles.SplitLeftOf:
		return geom.R(r.Min.X, r.Min.Y, r.Min.X+r.Width()/2, r.Max.Y)
	case tiles.SplitRightOf:
		return geom.R(r.Min.X+r.Width()/2, r.Min.Y, r.Max.X, r.Max.Y)
	case tiles.SplitAbove:
		return geom.R(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+r.Height()/2)
	case tiles.SplitBelow:
		return geom.R(r.Min.X, r.Min.Y+r.Height()/2, r.Max.X, r.Max.Y)
	default:
		return r
	}
}

// surfaceRect is the hit-test rectangle of a surface in viewport-local
// coordinates: the dock rect, or a floating window's content area.
func (b *Bridge) surfaceRect(s Surface) (geom.Rect, bool) {
	g, ok := b.geo[s.Viewport]
	if !ok {
		return geom.Rect{}, false
	}
	if s.Floating == 0 {
		return g.dockLocal, true
	}
	f, ok := b.Floating(s.Viewport, s.Floating)
	if !ok {
		return geom.Rect{}, false
	}
	return f.contentRect(b.opts.FloatingHeaderHeight), true
}
