package tiles

// Move relocates a subtree within this tree: detach, insert at the
// target, then simplify the vacated parent chain. Simplification is
// deferred past the insert so a target parent next to the moved subtree
// cannot collapse away mid-move. Ids are preserved; a same-tree move
// never consumes identifier space.
//
// A nil insertion docks the subtree back into the root. A target inside
// the moved subtree fails with ErrInvalidTarget before anything is
// touched.
func (t *Tree) Move(id TileID, at *InsertionPoint) error {
	if _, ok := t.tiles[id]; !ok {
		return ErrTileNotFound
	}
	if at != nil {
		if _, ok := t.tiles[at.Parent]; !ok {
			return ErrTileNotFound
		}
		if t.IsDescendant(id, at.Parent) {
			return ErrInvalidTarget
		}
	}

	sub, parent, err := t.detach(id)
	if err != nil {
		return err
	}
	if _, err := t.Insert(sub, at); err != nil {
		// Validated above; restore to the root rather than lose tiles.
		_, _ = t.Insert(sub, nil)
		return err
	}
	if parent != 0 && t.Contains(parent) {
		t.simplifyUpFrom(parent)
	}
	return nil
}
