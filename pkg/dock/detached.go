package dock

import (
	"fmt"

	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// DetachedDock pairs a detached viewport's tree with the placement the
// bridge last requested for its window. The placement is a builder
// record: the backend owns the real window; this is what the bridge
// asked for and what persistence snapshots.
type DetachedDock struct {
	id        ViewportID
	tree      *tiles.Tree
	placement WindowPlacement
}

func (d *DetachedDock) ID() ViewportID             { return d.id }
func (d *DetachedDock) Tree() *tiles.Tree          { return d.tree }
func (d *DetachedDock) Placement() WindowPlacement { return d.placement }

// titleFor derives a window title from the tree content: the first pane
// in layout order names the window, like a browser window takes its
// active tab's title.
func (b *Bridge) titleFor(tree *tiles.Tree) string {
	if p, ok := tree.FirstPane(); ok {
		return b.reg.PaneTitle(p)
	}
	return "Detached"
}

// newDetachedID allocates a viewport id for a new detached dock.
func (b *Bridge) newDetachedID() ViewportID {
	b.nextDetached++
	return ViewportID(fmt.Sprintf("detached-%d", b.nextDetached))
}

// DetachTile tears a subtree out of a viewport's dock without a drag
// gesture: the command-driven "pop out". The subtree's identifier range
// is reserved at the source, and a source emptied by the extraction is
// reaped immediately.
func (b *Bridge) DetachTile(vp ViewportID, tile tiles.TileID) (*DetachedDock, error) {
	tree, ok := b.viewportTree(vp)
	if !ok {
		return nil, ErrUnknownViewport
	}
	if !tree.Contains(tile) {
		return nil, tiles.ErrTileNotFound
	}

	var tileRect *geom.Rect
	if r, ok := b.tileRectGlobal(vp, tree, tile); ok {
		tileRect = &r
	}
	sub, err := tree.Extract(tile, true)
	if err != nil {
		return nil, err
	}
	d := b.spawnDetached(sub, tileRect, nil, vp)
	if d == nil {
		return nil, tiles.ErrEmptySubtree
	}
	b.reap()
	return d, nil
}

// NotifyWindowPlacement records a placement change the backend observed,
// typically the user moving or resizing the OS window. Only the fields
// the backend reports are taken; the bridge keeps its title and
// decoration choices.
func (b *Bridge) NotifyWindowPlacement(vp ViewportID, p WindowPlacement) error {
	d, ok := b.detached[vp]
	if !ok {
		return ErrUnknownViewport
	}
	if p.Pos != nil {
		pos := *p.Pos
		d.placement.Pos = &pos
	}
	if p.Size.IsPositive() {
		d.placement.Size = p.Size
	}
	return nil
}
