package tiles

import (
	"fmt"
	"sort"
	"strings"
)

// Tree is a single dock surface: a set of tiles plus the id of the root
// tile. A tree with no root is empty but still usable; inserting into it
// makes the inserted subtree the new root.
//
// Tree is not safe for concurrent use. The docking bridge drives it from
// a single frame loop.
type Tree struct {
	root  TileID
	tiles map[TileID]*Tile
	next  TileID

	// dragged is the tile the embedding UI is currently dragging out of
	// this tree, if any. It participates in drop-target filtering.
	dragged TileID

	layout layoutState
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{tiles: make(map[TileID]*Tile), next: 1}
}

func (t *Tree) allocID() TileID {
	id := t.next
	t.next++
	return id
}

// bumpNext moves the allocator past id so it can never be handed out again.
func (t *Tree) bumpNext(id TileID) {
	if id >= t.next {
		t.next = id + 1
	}
}

// NewPane allocates a leaf tile holding the given pane handle.
func (t *Tree) NewPane(p PaneID) TileID {
	id := t.allocID()
	t.tiles[id] = &Tile{Kind: KindPane, Pane: p}
	return id
}

// NewTabs allocates a tab container. The first child becomes active.
func (t *Tree) NewTabs(children ...TileID) TileID {
	id := t.allocID()
	tile := &Tile{Kind: KindTabs, Children: append([]TileID(nil), children...)}
	if len(children) > 0 {
		tile.Active = children[0]
	}
	t.tiles[id] = tile
	return id
}

// NewSplit allocates a split container with equal shares.
func (t *Tree) NewSplit(dir Direction, children ...TileID) TileID {
	id := t.allocID()
	tile := &Tile{
		Kind:     KindSplit,
		Dir:      dir,
		Children: append([]TileID(nil), children...),
		Shares:   make([]float64, len(children)),
	}
	for i := range tile.Shares {
		tile.Shares[i] = 1
	}
	t.tiles[id] = tile
	return id
}

// SetRoot makes id the root tile. The id must exist in the tree.
func (t *Tree) SetRoot(id TileID) error {
	if _, ok := t.tiles[id]; !ok {
		return ErrTileNotFound
	}
	t.root = id
	return nil
}

// Root returns the root tile id, or false when the tree is empty.
func (t *Tree) Root() (TileID, bool) { return t.root, t.root != 0 }

// IsEmpty reports whether the tree has no root.
func (t *Tree) IsEmpty() bool { return t.root == 0 }

// Len returns the number of tiles, reachable or not.
func (t *Tree) Len() int { return len(t.tiles) }

// Tile returns a copy of the tile with the given id.
func (t *Tree) Tile(id TileID) (Tile, bool) {
	tile, ok := t.tiles[id]
	if !ok {
		return Tile{}, false
	}
	return tile.clone(), true
}

// Contains reports whether the id exists in the tree.
func (t *Tree) Contains(id TileID) bool {
	_, ok := t.tiles[id]
	return ok
}

// Parent returns the container listing id among its children.
func (t *Tree) Parent(id TileID) (TileID, bool) {
	for pid, tile := range t.tiles {
		if tile.isContainer() && tile.childIndex(id) >= 0 {
			return pid, true
		}
	}
	return 0, false
}

// IsDescendant reports whether id lies in the subtree rooted at ancestor,
// the ancestor itself included.
func (t *Tree) IsDescendant(ancestor, id TileID) bool {
	if ancestor == 0 || id == 0 {
		return false
	}
	for {
		if id == ancestor {
			return true
		}
		parent, ok := t.Parent(id)
		if !ok {
			return false
		}
		id = parent
	}
}

// Walk visits the reachable tiles depth-first in child order. Returning
// false from fn stops the walk.
func (t *Tree) Walk(fn func(id TileID, tile Tile) bool) {
	if t.root == 0 {
		return
	}
	t.walkFrom(t.root, fn)
}

func (t *Tree) walkFrom(id TileID, fn func(id TileID, tile Tile) bool) bool {
	tile, ok := t.tiles[id]
	if !ok {
		return true
	}
	if !fn(id, tile.clone()) {
		return false
	}
	for _, c := range tile.Children {
		if !t.walkFrom(c, fn) {
			return false
		}
	}
	return true
}

// Panes returns the pane handles of all reachable leaves in layout order.
func (t *Tree) Panes() []PaneID {
	var out []PaneID
	t.Walk(func(_ TileID, tile Tile) bool {
		if tile.Kind == KindPane {
			out = append(out, tile.Pane)
		}
		return true
	})
	return out
}

// FirstPane returns the first reachable pane handle in layout order.
func (t *Tree) FirstPane() (PaneID, bool) {
	var found PaneID
	ok := false
	t.Walk(func(_ TileID, tile Tile) bool {
		if tile.Kind == KindPane {
			found, ok = tile.Pane, true
			return false
		}
		return true
	})
	return found, ok
}

// FindPane returns the leaf tile holding the given pane handle.
func (t *Tree) FindPane(p PaneID) (TileID, bool) {
	var found TileID
	ok := false
	t.Walk(func(id TileID, tile Tile) bool {
		if tile.Kind == KindPane && tile.Pane == p {
			found, ok = id, true
			return false
		}
		return true
	})
	return found, ok
}

// LeafCount returns the number of reachable panes.
func (t *Tree) LeafCount() int {
	n := 0
	t.Walk(func(_ TileID, tile Tile) bool {
		if tile.Kind == KindPane {
			n++
		}
		return true
	})
	return n
}

// SetActiveTab selects child as the visible tab of the tabs container.
func (t *Tree) SetActiveTab(tabs, child TileID) error {
	tile, ok := t.tiles[tabs]
	if !ok {
		return ErrTileNotFound
	}
	if tile.Kind != KindTabs {
		return ErrNotContainer
	}
	if tile.childIndex(child) < 0 {
		return ErrTileNotFound
	}
	tile.Active = child
	return nil
}

// SetShares replaces the share weights of a split container. The slice
// length must match the child count.
func (t *Tree) SetShares(split TileID, shares []float64) error {
	tile, ok := t.tiles[split]
	if !ok {
		return ErrTileNotFound
	}
	if tile.Kind != KindSplit {
		return ErrNotContainer
	}
	if len(shares) != len(tile.Children) {
		return fmt.Errorf("tiles: %d shares for %d children", len(shares), len(tile.Children))
	}
	tile.Shares = append([]float64(nil), shares...)
	return nil
}

// SetDragged marks the tile the embedding UI is dragging out of this
// tree. Pass 0 to clear.
func (t *Tree) SetDragged(id TileID) {
	if id != 0 {
		if _, ok := t.tiles[id]; !ok {
			return
		}
	}
	t.dragged = id
}

// DraggedTile returns the tile currently being dragged out of this tree.
func (t *Tree) DraggedTile() (TileID, bool) { return t.dragged, t.dragged != 0 }

// Clone returns a deep copy sharing no state with the receiver.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		root:    t.root,
		tiles:   make(map[TileID]*Tile, len(t.tiles)),
		next:    t.next,
		dragged: t.dragged,
	}
	for id, tile := range t.tiles {
		cp := tile.clone()
		c.tiles[id] = &cp
	}
	return c
}

// String renders the tree structure as indented text, one tile per line.
// Intended for logs and test diffs.
func (t *Tree) String() string {
	if t.root == 0 {
		return "(empty)\n"
	}
	var b strings.Builder
	t.writeTile(&b, t.root, 0)
	if unreachable := t.unreachableIDs(); len(unreachable) > 0 {
		fmt.Fprintf(&b, "unreachable: %v\n", unreachable)
	}
	return b.String()
}

func (t *Tree) writeTile(b *strings.Builder, id TileID, depth int) {
	indent := strings.Repeat("  ", depth)
	tile, ok := t.tiles[id]
	if !ok {
		fmt.Fprintf(b, "%s#%d MISSING\n", indent, id)
		return
	}
	switch tile.Kind {
	case KindPane:
		fmt.Fprintf(b, "%s#%d pane %q\n", indent, id, tile.Pane)
	case KindTabs:
		fmt.Fprintf(b, "%s#%d tabs active=#%d\n", indent, id, tile.Active)
	case KindSplit:
		fmt.Fprintf(b, "%s#%d split %s\n", indent, id, tile.Dir)
	}
	for _, c := range tile.Children {
		t.writeTile(b, c, depth+1)
	}
}

func (t *Tree) unreachableIDs() []TileID {
	seen := make(map[TileID]bool, len(t.tiles))
	t.Walk(func(id TileID, _ Tile) bool {
		seen[id] = true
		return true
	})
	var out []TileID
	for id := range t.tiles {
		if !seen[id] {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
