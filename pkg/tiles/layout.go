package tiles

import "github.com/bnema/undock/pkg/geom"

// LayoutParams tune the deterministic layout pass.
type LayoutParams struct {
	// TabBarHeight is the strip reserved at the top of a tab container.
	TabBarHeight float64
	// Gap is the spacing between split children.
	Gap float64
}

// DefaultLayoutParams match a typical desktop theme.
func DefaultLayoutParams() LayoutParams {
	return LayoutParams{TabBarHeight: 24, Gap: 2}
}

type layoutState struct {
	params  LayoutParams
	rects   map[TileID]geom.Rect
	tabBars map[TileID]geom.Rect
	// tabButtons holds one rect per child of each tab container, aligned
	// with the children slice. Hidden tab children have a button but no
	// content rect.
	tabButtons map[TileID][]geom.Rect
	valid      bool
}

// Layout computes the rectangle of every visible tile inside the given
// surface rect. Inactive tab children receive no rect. The results stay
// queryable until the next Layout call or structural mutation.
func (t *Tree) Layout(rect geom.Rect, params LayoutParams) {
	t.layout = layoutState{
		params:     params,
		rects:      make(map[TileID]geom.Rect),
		tabBars:    make(map[TileID]geom.Rect),
		tabButtons: make(map[TileID][]geom.Rect),
		valid:      true,
	}
	if t.root != 0 {
		t.layoutTile(t.root, rect)
	}
}

func (t *Tree) layoutTile(id TileID, rect geom.Rect) {
	tile, ok := t.tiles[id]
	if !ok {
		return
	}
	t.layout.rects[id] = rect

	switch tile.Kind {
	case KindPane:
		// Leaf: nothing further.
	case KindTabs:
		bar, content := rect.SplitTop(t.layout.params.TabBarHeight)
		t.layout.tabBars[id] = bar
		t.layout.tabButtons[id] = divideEvenly(bar, len(tile.Children))
		if tile.Active != 0 {
			t.layoutTile(tile.Active, content)
		}
	case KindSplit:
		t.layoutSplit(tile, rect)
	}
}

func (t *Tree) layoutSplit(tile *Tile, rect geom.Rect) {
	n := len(tile.Children)
	if n == 0 {
		return
	}
	gap := t.layout.params.Gap
	total := 0.0
	for _, s := range tile.Shares {
		total += s
	}
	if total <= 0 {
		total = float64(n)
	}

	span := rect.Width()
	if tile.Dir == Vertical {
		span = rect.Height()
	}
	span -= gap * float64(n-1)
	if span < 0 {
		span = 0
	}

	offset := 0.0
	for i, child := range tile.Children {
		share := 1.0
		if i < len(tile.Shares) && tile.Shares[i] > 0 {
			share = tile.Shares[i]
		}
		extent := span * share / total
		var childRect geom.Rect
		if tile.Dir == Horizontal {
			childRect = geom.R(rect.Min.X+offset, rect.Min.Y, rect.Min.X+offset+extent, rect.Max.Y)
		} else {
			childRect = geom.R(rect.Min.X, rect.Min.Y+offset, rect.Max.X, rect.Min.Y+offset+extent)
		}
		t.layoutTile(child, childRect)
		offset += extent + gap
	}
}

func divideEvenly(bar geom.Rect, n int) []geom.Rect {
	if n == 0 {
		return nil
	}
	out := make([]geom.Rect, n)
	w := bar.Width() / float64(n)
	for i := range out {
		x0 := bar.Min.X + w*float64(i)
		out[i] = geom.R(x0, bar.Min.Y, x0+w, bar.Max.Y)
	}
	return out
}

// Rect returns the laid-out rectangle of a visible tile.
func (t *Tree) Rect(id TileID) (geom.Rect, bool) {
	if !t.layout.valid {
		return geom.Rect{}, false
	}
	r, ok := t.layout.rects[id]
	return r, ok
}

// TabBarRect returns the tab strip rectangle of a tab container.
func (t *Tree) TabBarRect(id TileID) (geom.Rect, bool) {
	if !t.layout.valid {
		return geom.Rect{}, false
	}
	r, ok := t.layout.tabBars[id]
	return r, ok
}

// TabInsertIndexAt maps a pointer position on a tab strip to the tab
// index a dropped subtree should take, counting button centers left of
// the pointer. Without layout data it appends.
func (t *Tree) TabInsertIndexAt(tabs TileID, p geom.Point) int {
	tile, ok := t.tiles[tabs]
	if !ok || tile.Kind != KindTabs {
		return 0
	}
	buttons := t.layout.tabButtons[tabs]
	if !t.layout.valid || len(buttons) == 0 {
		return len(tile.Children)
	}
	index := 0
	for _, b := range buttons {
		if b.Center().X < p.X {
			index++
		}
	}
	return index
}

// VisibleTiles returns the ids that received a rect in the last layout,
// in depth-first order.
func (t *Tree) VisibleTiles() []TileID {
	if !t.layout.valid {
		return nil
	}
	var out []TileID
	t.Walk(func(id TileID, _ Tile) bool {
		if _, ok := t.layout.rects[id]; ok {
			out = append(out, id)
		}
		return true
	})
	return out
}

// TileAt returns the smallest visible tile containing p.
func (t *Tree) TileAt(p geom.Point) (TileID, bool) {
	var best TileID
	bestArea := 0.0
	found := false
	for _, id := range t.VisibleTiles() {
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
