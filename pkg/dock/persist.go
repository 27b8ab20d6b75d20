package dock

import (
	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// PaneRegistry connects the bridge to the application's pane content:
// titles for window chrome and stable keys for persistence. Tile ids are
// session-local and never persisted; pane keys are what survives a
// restart.
type PaneRegistry interface {
	// PaneTitle is the user-visible title of a pane.
	PaneTitle(p tiles.PaneID) string
	// PaneKey is a stable persistence key for a pane. Panes without one
	// (transient content) are left out of snapshots.
	PaneKey(p tiles.PaneID) (string, bool)
	// PaneByKey resolves a persisted key back to live content. Keys that
	// no longer resolve are dropped on restore.
	PaneByKey(key string) (tiles.PaneID, bool)
}

// identityRegistry treats pane ids as their own titles and keys.
type identityRegistry struct{}

func (identityRegistry) PaneTitle(p tiles.PaneID) string        { return string(p) }
func (identityRegistry) PaneKey(p tiles.PaneID) (string, bool)  { return string(p), true }
func (identityRegistry) PaneByKey(key string) (tiles.PaneID, bool) {
	return tiles.PaneID(key), true
}

// TileSnapshot is one serialized tile. Pane holds the registry key, not
// the runtime pane id.
type TileSnapshot struct {
	ID       tiles.TileID   `json:"id"`
	Kind     string         `json:"kind"`
	Pane     string         `json:"pane,omitempty"`
	Children []tiles.TileID `json:"children,omitempty"`
	Active   tiles.TileID   `json:"active,omitempty"`
	Dir      string         `json:"dir,omitempty"`
	Shares   []float64      `json:"shares,omitempty"`
}

// TreeSnapshot is a serialized dock tree, reachable tiles only.
type TreeSnapshot struct {
	Root  tiles.TileID   `json:"root,omitempty"`
	Tiles []TileSnapshot `json:"tiles,omitempty"`
}

// FloatingSnapshot is a serialized contained floating window.
type FloatingSnapshot struct {
	Offset    geom.Vec     `json:"offset"`
	Size      geom.Size    `json:"size"`
	Collapsed bool         `json:"collapsed,omitempty"`
	Tree      TreeSnapshot `json:"tree"`
}

// DetachedSnapshot is a serialized detached viewport: its window
// placement, dock tree and floating overlay.
type DetachedSnapshot struct {
	Placement WindowPlacement    `json:"placement"`
	Tree      TreeSnapshot       `json:"tree"`
	Floating  []FloatingSnapshot `json:"floating,omitempty"`
}

// LayoutSnapshot is the bridge's whole persistent state: every tree of
// every surface, by pane key.
type LayoutSnapshot struct {
	BridgeID string             `json:"bridge_id"`
	Root     TreeSnapshot       `json:"root"`
	Floating []FloatingSnapshot `json:"floating,omitempty"`
	Detached []DetachedSnapshot `json:"detached,omitempty"`
}

// Snapshot serializes the bridge's layout. Panes the registry refuses a
// key for are recorded keyless and will not survive a restore.
func (b *Bridge) Snapshot() LayoutSnapshot {
	snap := LayoutSnapshot{
		BridgeID: b.opts.BridgeID,
		Root:     b.snapshotTree(b.tree),
		Floating: b.snapshotFloats(RootViewport),
	}
	for _, vp := range b.detachedOrder {
		d, ok := b.detached[vp]
		if !ok {
			continue
		}
		snap.Detached = append(snap.Detached, DetachedSnapshot{
			Placement: d.placement,
			Tree:      b.snapshotTree(d.tree),
			Floating:  b.snapshotFloats(vp),
		})
	}
	return snap
}

func (b *Bridge) snapshotFloats(vp ViewportID) []FloatingSnapshot {
	set, ok := b.floats[vp]
	if !ok {
		return nil
	}
	var out []FloatingSnapshot
	for _, f := range set.ordered() {
		out = append(out, FloatingSnapshot{
			Offset:    f.offset,
			Size:      f.size,
			Collapsed: f.collapsed,
			Tree:      b.snapshotTree(f.tree),
		})
	}
	return out
}

func (b *Bridge) snapshotTree(t *tiles.Tree) TreeSnapshot {
	snap := TreeSnapshot{}
	root, ok := t.Root()
	if !ok {
		return snap
	}
	snap.Root = root
	t.Walk(func(id tiles.TileID, tile tiles.Tile) bool {
		ts := TileSnapshot{ID: id, Kind: tile.Kind.String()}
		switch tile.Kind {
		case tiles.KindPane:
			if key, ok := b.reg.PaneKey(tile.Pane); ok {
				ts.Pane = key
			}
		case tiles.KindTabs:
			ts.Children = append([]tiles.TileID(nil), tile.Children...)
			ts.Active = tile.Active
		case tiles.KindSplit:
			ts.Children = append([]tiles.TileID(nil), tile.Children...)
			ts.Dir = tile.Dir.String()
			ts.Shares = append([]float64(nil), tile.Shares...)
		}
		snap.Tiles = append(snap.Tiles, ts)
		return true
	})
	return snap
}

// Restore replaces the bridge's layout with a snapshot. Keyless panes
// and keys the registry no longer resolves are dropped; containers left
// with one child collapse and empty windows are not recreated. Restoring
// with a drag in flight ends the session first. Placements are clamped
// onto the current monitors, so a layout saved on a bigger desk still
// comes up visible.
func (b *Bridge) Restore(snap LayoutSnapshot) error {
	if snap.BridgeID != "" && snap.BridgeID != b.opts.BridgeID {
		return ErrForeignSnapshot
	}
	if b.session.Active() {
		b.endSession("layout restore")
	}
	b.pending = nil

	for _, vp := range append([]ViewportID(nil), b.detachedOrder...) {
		b.removeDetached(vp, "layout restore")
	}

	b.tree = b.restoreTree(snap.Root)
	b.floats = map[ViewportID]*floatingSet{RootViewport: newFloatingSet()}
	b.restoreFloats(RootViewport, snap.Floating)

	for _, ds := range snap.Detached {
		tree := b.restoreTree(ds.Tree)
		if tree.IsEmpty() && len(ds.Floating) == 0 {
			continue
		}
		id := b.newDetachedID()
		placement := ClampPlacement(ds.Placement, b.monitors)
		placement.Title = b.titleFor(tree)
		d := &DetachedDock{id: id, tree: tree, placement: placement}
		b.detached[id] = d
		b.detachedOrder = append(b.detachedOrder, id)
		b.restoreFloats(id, ds.Floating)
		if err := b.backend.CreateWindow(id, placement); err != nil {
			b.log.Warn().Err(err).Str("viewport", string(id)).Msg("window creation failed on restore")
		}
	}
	b.record(EventLayoutRestore, RootViewport, "layout restored")
	return nil
}

func (b *Bridge) restoreFloats(vp ViewportID, snaps []FloatingSnapshot) {
	for _, fs := range snaps {
		tree := b.restoreTree(fs.Tree)
		if tree.IsEmpty() {
			continue
		}
		b.nextFloating++
		b.floatingSetFor(vp).add(&FloatingWindow{
			id:        b.nextFloating,
			tree:      tree,
			offset:    fs.Offset,
			size:      fs.Size,
			collapsed: fs.Collapsed,
		})
	}
}

// restoreTree rebuilds a tree from its snapshot bottom-up, dropping
// unresolvable panes and collapsing the containers that loss empties.
// Rebuilt tiles get fresh ids; snapshot ids only encode structure.
func (b *Bridge) restoreTree(snap TreeSnapshot) *tiles.Tree {
	t := tiles.NewTree()
	if snap.Root == 0 {
		return t
	}
	byID := make(map[tiles.TileID]TileSnapshot, len(snap.Tiles))
	for _, ts := range snap.Tiles {
		byID[ts.ID] = ts
	}

	var build func(id tiles.TileID) (tiles.TileID, bool)
	build = func(id tiles.TileID) (tiles.TileID, bool) {
		ts, ok := byID[id]
		if !ok {
			return 0, false
		}
		switch ts.Kind {
		case "pane":
			if ts.Pane == "" {
				return 0, false
			}
			pane, ok := b.reg.PaneByKey(ts.Pane)
			if !ok {
				b.log.Debug().Str("key", ts.Pane).Msg("pane key no longer resolves, dropped")
				return 0, false
			}
			return t.NewPane(pane), true

		case "tabs":
			var kids []tiles.TileID
			var active tiles.TileID
			for _, c := range ts.Children {
				nid, ok := build(c)
				if !ok {
					continue
				}
				kids = append(kids, nid)
				if c == ts.Active {
					active = nid
				}
			}
			switch len(kids) {
			case 0:
				return 0, false
			case 1:
				return kids[0], true
			}
			nid := t.NewTabs(kids...)
			if active != 0 {
				_ = t.SetActiveTab(nid, active)
			}
			return nid, true

		case "split":
			var kids []tiles.TileID
			var shares []float64
			for i, c := range ts.Children {
				nid, ok := build(c)
				if !ok {
					continue
				}
				kids = append(kids, nid)
				if i < len(ts.Shares) {
					shares = append(shares, ts.Shares[i])
				}
			}
			switch len(kids) {
			case 0:
				return 0, false
			case 1:
				return kids[0], true
			}
			dir := tiles.Horizontal
			if ts.Dir == tiles.Vertical.String() {
				dir = tiles.Vertical
			}
			nid := t.NewSplit(dir, kids...)
			if len(shares) == len(kids) {
				_ = t.SetShares(nid, shares)
			}
			return nid, true
		}
		return 0, false
	}

	if root, ok := build(snap.Root); ok {
		if err := t.SetRoot(root); err != nil {
			b.log.Error().Err(err).Msg("restored root rejected")
		}
	}
	return t
}
