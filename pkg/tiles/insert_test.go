package tiles

import "testing"

func paneSubtree(p PaneID) *Subtree {
	donor := NewTree()
	id := donor.NewPane(p)
	sub, _ := donor.Extract(id, false)
	return sub
}

func TestInsert_IntoEmptyTreeBecomesRoot(t *testing.T) {
	tree := NewTree()

	id, err := tree.Insert(paneSubtree("x"), nil)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	root, ok := tree.Root()
	if !ok || root != id {
		t.Errorf("root = %d, want inserted id %d", root, id)
	}
}

func TestInsert_RootDockWrapsPaneInTabs(t *testing.T) {
	tree := NewTree()
	first := tree.NewPane("first")
	if err := tree.SetRoot(first); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}

	second, err := tree.Insert(paneSubtree("second"), nil)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	root, _ := tree.Root()
	tile, _ := tree.Tile(root)
	if tile.Kind != KindTabs {
		t.Fatalf("root kind = %v, want tabs", tile.Kind)
	}
	if len(tile.Children) != 2 || tile.Active != second {
		t.Errorf("children = %v, active = %d", tile.Children, tile.Active)
	}
}

func TestInsert_AsTab(t *testing.T) {
	tree, tabs, a, _, _ := buildThreePane(t)

	id, err := tree.Insert(paneSubtree("new"), &InsertionPoint{Parent: tabs, Kind: IntoTabs, Index: 1})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	tile, _ := tree.Tile(tabs)
	if len(tile.Children) != 3 {
		t.Fatalf("children = %v", tile.Children)
	}
	if tile.Children[0] != a || tile.Children[1] != id {
		t.Errorf("tab order = %v", tile.Children)
	}
	if tile.Active != id {
		t.Errorf("active = %d, want the new tab %d", tile.Active, id)
	}
}

func TestInsert_TabOntoPaneWraps(t *testing.T) {
	tree, _, _, _, c := buildThreePane(t)

	id, err := tree.Insert(paneSubtree("new"), &InsertionPoint{Parent: c, Kind: IntoTabs, Index: 1})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	parent, ok := tree.Parent(id)
	if !ok {
		t.Fatal("inserted tile has no parent")
	}
	tile, _ := tree.Tile(parent)
	if tile.Kind != KindTabs {
		t.Fatalf("wrap kind = %v, want tabs", tile.Kind)
	}
	if len(tile.Children) != 2 || tile.Children[0] != c || tile.Children[1] != id {
		t.Errorf("wrapped children = %v", tile.Children)
	}
	if problems := tree.Integrity(); len(problems) > 0 {
		t.Errorf("integrity: %v", problems)
	}
}

func TestInsert_SplitBesidePaneJoinsExistingAxis(t *testing.T) {
	tree, _, _, _, c := buildThreePane(t)
	root, _ := tree.Root()

	// Root split is horizontal; right-of c should join it as a sibling,
	// not nest another split.
	id, err := tree.Insert(paneSubtree("new"), &InsertionPoint{Parent: c, Kind: SplitRightOf})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	tile, _ := tree.Tile(root)
	if len(tile.Children) != 3 {
		t.Fatalf("root children = %v, want 3 siblings", tile.Children)
	}
	if tile.Children[2] != id {
		t.Errorf("new pane at index %d of %v", tile.childIndex(id), tile.Children)
	}
}

func TestInsert_SplitAcrossAxisNests(t *testing.T) {
	tree, _, _, _, c := buildThreePane(t)

	id, err := tree.Insert(paneSubtree("new"), &InsertionPoint{Parent: c, Kind: SplitBelow})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	parent, _ := tree.Parent(id)
	tile, _ := tree.Tile(parent)
	if tile.Kind != KindSplit || tile.Dir != Vertical {
		t.Fatalf("parent = %v %v, want vertical split", tile.Kind, tile.Dir)
	}
	if len(tile.Children) != 2 || tile.Children[0] != c || tile.Children[1] != id {
		t.Errorf("children = %v", tile.Children)
	}
}

func TestInsert_SplitBeforePutsSubtreeFirst(t *testing.T) {
	tree := NewTree()
	only := tree.NewPane("only")
	if err := tree.SetRoot(only); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}

	id, err := tree.Insert(paneSubtree("new"), &InsertionPoint{Parent: only, Kind: SplitAbove})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	root, _ := tree.Root()
	tile, _ := tree.Tile(root)
	if tile.Kind != KindSplit || tile.Dir != Vertical {
		t.Fatalf("root = %v %v", tile.Kind, tile.Dir)
	}
	if tile.Children[0] != id || tile.Children[1] != only {
		t.Errorf("order = %v, want new first", tile.Children)
	}
}

func TestInsert_TargetInsideSubtreeRejected(t *testing.T) {
	tree, tabs, _, _, _ := buildThreePane(t)
	sub, err := tree.Extract(tabs, false)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	_, err = tree.Insert(sub, &InsertionPoint{Parent: sub.Root, Kind: IntoTabs})
	if err != ErrInvalidTarget {
		t.Errorf("err = %v, want ErrInvalidTarget", err)
	}
}

func TestInsert_MissingParentRejected(t *testing.T) {
	tree, _, _, _, _ := buildThreePane(t)

	_, err := tree.Insert(paneSubtree("new"), &InsertionPoint{Parent: 9999, Kind: IntoTabs})
	if err != ErrTileNotFound {
		t.Errorf("err = %v, want ErrTileNotFound", err)
	}
}

func TestInsert_CrossTreeCollisionRenumbers(t *testing.T) {
	src, srcTabs, _, _, _ := buildThreePane(t)
	dst, _, _, _, dstC := buildThreePane(t)

	sub, err := src.Extract(srcTabs, false)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	// Both trees allocate from 1, so the fragment ids collide with dst.
	id, err := dst.Insert(sub, &InsertionPoint{Parent: dstC, Kind: SplitRightOf})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if !dst.Contains(id) {
		t.Fatal("inserted root missing from destination")
	}
	if got := dst.LeafCount(); got != 5 {
		t.Errorf("destination leaves = %d, want 5", got)
	}
	if problems := dst.Integrity(); len(problems) > 0 {
		t.Errorf("integrity after cross-tree insert: %v", problems)
	}
}
