package tiles

// InsertionKind says how a subtree joins its target parent.
type InsertionKind int

const (
	// IntoTabs adds the subtree as a tab of the parent, wrapping the
	// parent in a new tab container first if it is not one.
	IntoTabs InsertionKind = iota
	// SplitLeftOf places the subtree beside the parent in a horizontal
	// split, subtree first.
	SplitLeftOf
	// SplitRightOf places the subtree beside the parent in a horizontal
	// split, parent first.
	SplitRightOf
	// SplitAbove places the subtree beside the parent in a vertical
	// split, subtree first.
	SplitAbove
	// SplitBelow places the subtree beside the parent in a vertical
	// split, parent first.
	SplitBelow
)

func (k InsertionKind) String() string {
	switch k {
	case IntoTabs:
		return "tabs"
	case SplitLeftOf:
		return "left-of"
	case SplitRightOf:
		return "right-of"
	case SplitAbove:
		return "above"
	case SplitBelow:
		return "below"
	default:
		return "unknown"
	}
}

func (k InsertionKind) direction() Direction {
	if k == SplitAbove || k == SplitBelow {
		return Vertical
	}
	return Horizontal
}

func (k InsertionKind) before() bool { return k == SplitLeftOf || k == SplitAbove }

// InsertionPoint names where a subtree lands: a parent tile already in
// the destination tree, a relation to it, and for tab insertion the index
// within the tab strip.
type InsertionPoint struct {
	Parent TileID
	Kind   InsertionKind
	Index  int
}

// Insert merges the fragment into the tree at the given point. A nil
// point docks into the root: an empty tree adopts the fragment's root,
// otherwise the fragment joins the root container (or the root is
// wrapped in a tab container to receive it).
//
// When any of the fragment's ids is already taken in this tree, the
// whole fragment is renumbered onto fresh local ids first. The returned
// id is the fragment root's id after any renumbering.
func (t *Tree) Insert(sub *Subtree, at *InsertionPoint) (TileID, error) {
	if sub == nil || !sub.Contains(sub.Root) {
		return 0, ErrEmptySubtree
	}
	if at != nil {
		_, inTree := t.tiles[at.Parent]
		// A parent id found only in the fragment is a genuine self-parent
		// target. Found in both, it is a cross-tree numeric alias that the
		// collision renumbering below resolves.
		if sub.Contains(at.Parent) && !inTree {
			return 0, ErrInvalidTarget
		}
		if !inTree {
			return 0, ErrTileNotFound
		}
	}

	t.layout.valid = false

	if t.collides(sub) {
		sub.remapIDs(t.allocID)
	}
	for id, tile := range sub.Tiles {
		cp := tile.clone()
		t.tiles[id] = &cp
		t.bumpNext(id)
	}

	if at == nil {
		t.dockIntoRoot(sub.Root)
		return sub.Root, nil
	}

	switch at.Kind {
	case IntoTabs:
		t.insertAsTab(at.Parent, sub.Root, at.Index)
	default:
		t.insertAsSplit(at.Parent, sub.Root, at.Kind)
	}
	return sub.Root, nil
}

func (t *Tree) collides(sub *Subtree) bool {
	for id := range sub.Tiles {
		if _, taken := t.tiles[id]; taken {
			return true
		}
	}
	return false
}

func (t *Tree) dockIntoRoot(id TileID) {
	if t.root == 0 {
		t.root = id
		return
	}
	root := t.tiles[t.root]
	switch root.Kind {
	case KindTabs:
		root.insertChild(id, len(root.Children), 0)
		root.Active = id
	case KindSplit:
		root.insertChild(id, len(root.Children), averageShare(root.Shares))
	default:
		wrapped := t.NewTabs(t.root, id)
		t.tiles[wrapped].Active = id
		t.root = wrapped
	}
}

// insertAsTab adds child to parent's tab strip at index, first wrapping
// parent in a new tab container when it is a pane or split.
func (t *Tree) insertAsTab(parent, child TileID, index int) {
	target := t.tiles[parent]
	if target.Kind != KindTabs {
		wrapped := t.NewTabs(parent)
		t.replaceInTree(parent, wrapped)
		parent = wrapped
		target = t.tiles[parent]
	}
	target.insertChild(child, index, 0)
	target.Active = child
}

// insertAsSplit places child next to parent along the requested axis.
// When parent is a split of that direction the child joins at the ends;
// when parent sits inside such a split the child joins as a sibling;
// anything else wraps parent in a fresh two-way split.
func (t *Tree) insertAsSplit(parent, child TileID, kind InsertionKind) {
	dir := kind.direction()
	target := t.tiles[parent]
	if target.Kind == KindSplit && target.Dir == dir {
		index := len(target.Children)
		if kind.before() {
			index = 0
		}
		target.insertChild(child, index, averageShare(target.Shares))
		return
	}
	if gp, ok := t.Parent(parent); ok {
		gpTile := t.tiles[gp]
		if gpTile.Kind == KindSplit && gpTile.Dir == dir {
			index := gpTile.childIndex(parent)
			share := averageShare(gpTile.Shares)
			if index < len(gpTile.Shares) {
				share = gpTile.Shares[index]
			}
			if !kind.before() {
				index++
			}
			gpTile.insertChild(child, index, share)
			return
		}
	}
	var split TileID
	if kind.before() {
		split = t.NewSplit(dir, child, parent)
	} else {
		split = t.NewSplit(dir, parent, child)
	}
	t.swapIntoPlace(parent, split)
}

// swapIntoPlace substitutes replacement for original at the original's
// position in the tree, where replacement already lists original as a
// child.
func (t *Tree) swapIntoPlace(original, replacement TileID) {
	if t.root == original {
		t.root = replacement
		return
	}
	for pid, tile := range t.tiles {
		if pid == replacement || !tile.isContainer() {
			continue
		}
		if tile.childIndex(original) >= 0 {
			t.replaceChild(pid, original, replacement)
			return
		}
	}
	// No parent found: original was detached, adopt replacement as root.
	if t.root == 0 {
		t.root = replacement
	}
}

// replaceInTree is swapIntoPlace for the tab-wrapping case.
func (t *Tree) replaceInTree(original, replacement TileID) {
	t.swapIntoPlace(original, replacement)
}

func averageShare(shares []float64) float64 {
	if len(shares) == 0 {
		return 1
	}
	sum := 0.0
	for _, s := range shares {
		sum += s
	}
	return sum / float64(len(shares))
}
