package tiles

// Subtree is a detached fragment of a tree: its tiles keyed by id plus
// the id of the fragment's root. It is the unit moved between surfaces.
type Subtree struct {
	Root  TileID
	Tiles map[TileID]Tile
}

// LeafCount returns the number of panes in the fragment.
func (s *Subtree) LeafCount() int {
	n := 0
	for _, tile := range s.Tiles {
		if tile.Kind == KindPane {
			n++
		}
	}
	return n
}

// Panes returns the pane handles of the fragment in depth-first order.
func (s *Subtree) Panes() []PaneID {
	var out []PaneID
	s.walk(s.Root, func(tile Tile) {
		if tile.Kind == KindPane {
			out = append(out, tile.Pane)
		}
	})
	return out
}

// FirstPane returns the first pane handle in depth-first order.
func (s *Subtree) FirstPane() (PaneID, bool) {
	var found PaneID
	ok := false
	s.walk(s.Root, func(tile Tile) {
		if !ok && tile.Kind == KindPane {
			found, ok = tile.Pane, true
		}
	})
	return found, ok
}

func (s *Subtree) walk(id TileID, fn func(Tile)) {
	tile, present := s.Tiles[id]
	if !present {
		return
	}
	fn(tile)
	for _, c := range tile.Children {
		s.walk(c, fn)
	}
}

// Contains reports whether the fragment holds the given tile id.
func (s *Subtree) Contains(id TileID) bool {
	_, ok := s.Tiles[id]
	return ok
}

// remapIDs rewrites every tile id in the fragment using fresh ids from
// alloc, fixing child lists and tab-active references along the way.
func (s *Subtree) remapIDs(alloc func() TileID) {
	mapping := make(map[TileID]TileID, len(s.Tiles))
	for old := range s.Tiles {
		mapping[old] = alloc()
	}
	remapped := make(map[TileID]Tile, len(s.Tiles))
	for old, tile := range s.Tiles {
		for i, c := range tile.Children {
			if n, ok := mapping[c]; ok {
				tile.Children[i] = n
			}
		}
		if n, ok := mapping[tile.Active]; ok {
			tile.Active = n
		}
		remapped[mapping[old]] = tile
	}
	s.Tiles = remapped
	s.Root = mapping[s.Root]
}

// Extract removes the subtree rooted at id and returns it as a detached
// fragment. The tree is simplified afterwards so no empty or single-child
// container is left behind on the path to the root.
//
// With reserve set, the fragment's tiles are renumbered into a fresh id
// range taken from this tree's allocator, so the ids travelling with the
// fragment can never be handed out again here. Same-tree reordering must
// pass reserve=false: the tiles keep their ids and re-inserting them
// consumes no identifier space.
func (t *Tree) Extract(id TileID, reserve bool) (*Subtree, error) {
	sub, parent, err := t.detach(id)
	if err != nil {
		return nil, err
	}
	if parent != 0 {
		t.simplifyUpFrom(parent)
	}
	if reserve {
		sub.remapIDs(t.allocID)
	}
	return sub, nil
}

// detach removes the subtree without simplifying the remaining tree, so
// callers that re-insert immediately (same-tree moves) can rely on the
// old parent chain still existing. Returns the detached fragment and the
// former parent (zero when id was the root).
func (t *Tree) detach(id TileID) (*Subtree, TileID, error) {
	if _, ok := t.tiles[id]; !ok {
		return nil, 0, ErrTileNotFound
	}

	t.layout.valid = false

	sub := &Subtree{Root: id, Tiles: make(map[TileID]Tile)}
	t.collect(id, sub.Tiles)

	parent, hasParent := t.Parent(id)
	if hasParent {
		t.tiles[parent].removeChild(id)
	}
	for tid := range sub.Tiles {
		delete(t.tiles, tid)
	}
	if t.root == id {
		t.root = 0
	}
	if sub.Contains(t.dragged) {
		t.dragged = 0
	}
	if !hasParent {
		parent = 0
	}
	return sub, parent, nil
}

func (t *Tree) collect(id TileID, into map[TileID]Tile) {
	tile, ok := t.tiles[id]
	if !ok {
		return
	}
	into[id] = tile.clone()
	for _, c := range tile.Children {
		t.collect(c, into)
	}
}

// simplifyUpFrom collapses degenerate containers from id towards the
// root: empty containers are removed, single-child containers are
// replaced by their child.
func (t *Tree) simplifyUpFrom(id TileID) {
	for id != 0 {
		tile, ok := t.tiles[id]
		if !ok || !tile.isContainer() {
			return
		}
		parent, hasParent := t.Parent(id)

		switch len(tile.Children) {
		case 0:
			delete(t.tiles, id)
			if hasParent {
				t.tiles[parent].removeChild(id)
			}
			if t.root == id {
				t.root = 0
			}
		case 1:
			child := tile.Children[0]
			delete(t.tiles, id)
			if hasParent {
				t.replaceChild(parent, id, child)
			}
			if t.root == id {
				t.root = child
			}
		default:
			return
		}

		if !hasParent {
			return
		}
		id = parent
	}
}

func (t *Tree) replaceChild(parent, old, new TileID) {
	tile, ok := t.tiles[parent]
	if !ok {
		return
	}
	i := tile.childIndex(old)
	if i < 0 {
		return
	}
	tile.Children[i] = new
	if tile.Kind == KindTabs && tile.Active == old {
		tile.Active = new
	}
}
