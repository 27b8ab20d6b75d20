package tiles

import "github.com/bnema/undock/pkg/geom"

// DockZone is the tree's own answer to "what happens if something drops
// here": the structural insertion plus the rectangle a UI should
// highlight while hovering.
type DockZone struct {
	Insertion InsertionPoint
	Preview   geom.Rect
}

// edgeFraction is how much of a pane's extent counts as its split edge.
const edgeFraction = 0.25

// DockZoneAt resolves the drop zone under a local pointer position,
// using the rects of the last Layout call. Tiles inside the excluded
// subtree are not eligible targets, so a subtree never lands inside
// itself during a same-tree move.
//
// Zones, in priority order: a tab strip yields tab insertion at the
// pointed index; a pane's edge band yields a split beside that pane; the
// pane's middle yields tabbing into it.
func (t *Tree) DockZoneAt(p geom.Point, exclude TileID) (DockZone, bool) {
	if !t.layout.valid || t.root == 0 {
		return DockZone{}, false
	}

	if zone, ok := t.tabStripZoneAt(p, exclude); ok {
		return zone, true
	}

	leaf, ok := t.leafAt(p, exclude)
	if !ok {
		return DockZone{}, false
	}
	rect := t.layout.rects[leaf]
	return t.paneZone(leaf, rect, p), true
}

func (t *Tree) tabStripZoneAt(p geom.Point, exclude TileID) (DockZone, bool) {
	for id, bar := range t.layout.tabBars {
		if !bar.Contains(p) {
			continue
		}
		if exclude != 0 && t.IsDescendant(exclude, id) {
			continue
		}
		index := t.TabInsertIndexAt(id, p)
		return DockZone{
			Insertion: InsertionPoint{Parent: id, Kind: IntoTabs, Index: index},
			Preview:   tabSlot(bar, t.layout.tabButtons[id], index),
		}, true
	}
	return DockZone{}, false
}

// tabSlot is the thin highlight at the insertion gap of a tab strip.
func tabSlot(bar geom.Rect, buttons []geom.Rect, index int) geom.Rect {
	const w = 4
	x := bar.Min.X
	switch {
	case len(buttons) == 0:
		x = bar.Min.X
	case index >= len(buttons):
		x = buttons[len(buttons)-1].Max.X
	default:
		x = buttons[index].Min.X
	}
	return geom.R(x-w/2, bar.Min.Y, x+w/2, bar.Max.Y)
}

func (t *Tree) leafAt(p geom.Point, exclude TileID) (TileID, bool) {
	var best TileID
	bestArea := 0.0
	found := false
	for _, id := range t.VisibleTiles() {
		tile := t.tiles[id]
		if tile.Kind != KindPane {
			continue
		}
		if exclude != 0 && t.IsDescendant(exclude, id) {
			continue
		}
		r := t.layout.rects[id]
		if !r.Contains(p) {
			continue
		}
		if !found || r.Area() < bestArea {
			best, bestArea, found = id, r.Area(), true
		}
	}
	return best, found
}

func (t *Tree) paneZone(leaf TileID, rect geom.Rect, p geom.Point) DockZone {
	w, h := rect.Width(), rect.Height()
	edgeW, edgeH := w*edgeFraction, h*edgeFraction

	switch {
	case p.X < rect.Min.X+edgeW:
		return DockZone{
			Insertion: InsertionPoint{Parent: leaf, Kind: SplitLeftOf},
			Preview:   geom.R(rect.Min.X, rect.Min.Y, rect.Min.X+w/2, rect.Max.Y),
		}
	case p.X >= rect.Max.X-edgeW:
		return DockZone{
			Insertion: InsertionPoint{Parent: leaf, Kind: SplitRightOf},
			Preview:   geom.R(rect.Min.X+w/2, rect.Min.Y, rect.Max.X, rect.Max.Y),
		}
	case p.Y < rect.Min.Y+edgeH:
		return DockZone{
			Insertion: InsertionPoint{Parent: leaf, Kind: SplitAbove},
			Preview:   geom.R(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+h/2),
		}
	case p.Y >= rect.Max.Y-edgeH:
		return DockZone{
			Insertion: InsertionPoint{Parent: leaf, Kind: SplitBelow},
			Preview:   geom.R(rect.Min.X, rect.Min.Y+h/2, rect.Max.X, rect.Max.Y),
		}
	default:
		return DockZone{
			Insertion: InsertionPoint{Parent: leaf, Kind: IntoTabs, Index: 1},
			Preview:   rect,
		}
	}
}
