package dock

import "github.com/bnema/undock/pkg/tiles"

// takeFromHost removes the dragged payload from its source surface and
// returns it as a portable fragment. Subtree drags reserve their
// identifier range at the source, so a later return of the fragment
// cannot collide with tiles the source created in the meantime. A
// whole-window drag consumes the entire source tree; the emptied host
// is retired by the end-of-frame reap.
func (b *Bridge) takeFromHost(payload DragPayload) (*tiles.Subtree, error) {
	src := payload.sourceSurface()
	tree, ok := b.surfaceTree(src)
	if !ok {
		return nil, missingSurfaceErr(src)
	}
	if payload.IsWindowDrag() {
		root, ok := tree.Root()
		if !ok {
			return nil, tiles.ErrEmptySubtree
		}
		return tree.Extract(root, false)
	}
	return tree.Extract(payload.Tile, true)
}

// insertIntoHost merges a fragment into the destination surface at the
// resolved insertion point. When the fragment is itself a tab container
// landing on a tab target and flattening is enabled, its tabs are
// spliced in one by one instead of nesting a strip inside a strip.
func (b *Bridge) insertIntoHost(sub *tiles.Subtree, dest Surface, at *tiles.InsertionPoint) (tiles.TileID, error) {
	tree, ok := b.surfaceTree(dest)
	if !ok {
		return 0, missingSurfaceErr(dest)
	}
	if at != nil && at.Kind == tiles.IntoTabs && b.opts.FlattenDockedContainers {
		if root, ok := sub.Tiles[sub.Root]; ok && root.Kind == tiles.KindTabs && len(root.Children) > 0 {
			return spliceTabs(tree, sub, root, at)
		}
	}
	return tree.Insert(sub, at)
}

// spliceTabs inserts each child of a tab-container fragment as its own
// tab, keeping child order and carrying the container's active tab over
// to the destination strip.
func spliceTabs(tree *tiles.Tree, sub *tiles.Subtree, root tiles.Tile, at *tiles.InsertionPoint) (tiles.TileID, error) {
	var first, active tiles.TileID
	parent := at.Parent
	for i, child := range root.Children {
		frag := fragmentOf(sub, child)
		id, err := tree.Insert(frag, &tiles.InsertionPoint{Parent: parent, Kind: tiles.IntoTabs, Index: at.Index + i})
		if err != nil {
			if first != 0 {
				// Partial splice: the inserted tabs stay, the rest of
				// the fragment is lost with the error.
				return first, err
			}
			return 0, err
		}
		if i == 0 {
			first = id
			// The target may have been wrapped in a fresh tab container
			// by the first insert; aim the remaining tabs at the actual
			// strip.
			if p, ok := tree.Parent(id); ok {
				parent = p
			}
		}
		if child == root.Active {
			active = id
		}
	}
	if active != 0 {
		if err := tree.SetActiveTab(parent, active); err == nil {
			return active, nil
		}
	}
	return first, nil
}

// fragmentOf carves the closure of one child out of a larger fragment.
func fragmentOf(sub *tiles.Subtree, root tiles.TileID) *tiles.Subtree {
	out := &tiles.Subtree{Root: root, Tiles: make(map[tiles.TileID]tiles.Tile)}
	var collect func(id tiles.TileID)
	collect = func(id tiles.TileID) {
		t, ok := sub.Tiles[id]
		if !ok {
			return
		}
		out.Tiles[id] = t
		for _, c := range t.Children {
			collect(c)
		}
	}
	collect(root)
	return out
}

func missingSurfaceErr(s Surface) error {
	if s.OnFloating() {
		return ErrUnknownFloating
	}
	return ErrUnknownViewport
}
