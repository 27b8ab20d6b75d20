// Package tiles implements the dock tile tree: leaf panes arranged into
// nested tab groups and splits. The tree owns structure and layout only;
// pane content stays on the embedding application's side, referenced by
// stable pane identifiers. These are pure Go types with no infrastructure
// dependencies so they stay easy to test and serialize.
package tiles

import "errors"

var (
	// ErrTileNotFound is returned when an operation references a tile id
	// that is not present in the tree.
	ErrTileNotFound = errors.New("tiles: tile not found")

	// ErrNotContainer is returned when a tabs- or split-only operation is
	// applied to a leaf pane.
	ErrNotContainer = errors.New("tiles: tile is not a container")

	// ErrInvalidTarget is returned when an insertion names a parent that
	// belongs to the subtree being inserted. Applying it would detach the
	// subtree from the tree it is supposed to join.
	ErrInvalidTarget = errors.New("tiles: insertion target inside moved subtree")

	// ErrEmptySubtree is returned when inserting a subtree whose tile set
	// does not contain its own root.
	ErrEmptySubtree = errors.New("tiles: subtree has no root tile")
)

// TileID identifies a tile within one tree. The zero value is never
// allocated and means "no tile".
type TileID uint64

// IsNone reports whether the id is the zero "no tile" value.
func (id TileID) IsNone() bool { return id == 0 }

// PaneID is the embedding application's stable handle for a pane's
// content. The tree stores only the handle.
type PaneID string

// Kind discriminates the three tile variants.
type Kind int

const (
	KindPane Kind = iota
	KindTabs
	KindSplit
)

func (k Kind) String() string {
	switch k {
	case KindPane:
		return "pane"
	case KindTabs:
		return "tabs"
	case KindSplit:
		return "split"
	default:
		return "unknown"
	}
}

// Direction is the axis of a split container.
type Direction int

const (
	// Horizontal lays children out left to right.
	Horizontal Direction = iota
	// Vertical lays children out top to bottom.
	Vertical
)

func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Tile is one node of the tree. Which fields are meaningful depends on
// Kind: Pane for leaves, Children/Active for tabs, Children/Dir/Shares
// for splits.
type Tile struct {
	Kind     Kind
	Pane     PaneID
	Children []TileID
	Active   TileID
	Dir      Direction
	Shares   []float64
}

func (t Tile) isContainer() bool { return t.Kind == KindTabs || t.Kind == KindSplit }

func (t Tile) clone() Tile {
	c := t
	c.Children = append([]TileID(nil), t.Children...)
	c.Shares = append([]float64(nil), t.Shares...)
	return c
}

func (t *Tile) childIndex(id TileID) int {
	for i, c := range t.Children {
		if c == id {
			return i
		}
	}
	return -1
}

func (t *Tile) removeChild(id TileID) bool {
	i := t.childIndex(id)
	if i < 0 {
		return false
	}
	t.Children = append(t.Children[:i], t.Children[i+1:]...)
	if t.Kind == KindSplit && i < len(t.Shares) {
		t.Shares = append(t.Shares[:i], t.Shares[i+1:]...)
	}
	if t.Kind == KindTabs && t.Active == id {
		t.Active = 0
		if len(t.Children) > 0 {
			if i >= len(t.Children) {
				i = len(t.Children) - 1
			}
			t.Active = t.Children[i]
		}
	}
	return true
}

func (t *Tile) insertChild(id TileID, index int, share float64) {
	if index < 0 {
		index = 0
	}
	if index > len(t.Children) {
		index = len(t.Children)
	}
	t.Children = append(t.Children, 0)
	copy(t.Children[index+1:], t.Children[index:])
	t.Children[index] = id
	if t.Kind == KindSplit {
		t.Shares = append(t.Shares, 0)
		copy(t.Shares[index+1:], t.Shares[index:])
		t.Shares[index] = share
	}
}
