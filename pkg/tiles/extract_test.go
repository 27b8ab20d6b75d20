package tiles

import "testing"

func TestExtract_LeafSimplifiesParent(t *testing.T) {
	tree, tabs, a, b, _ := buildThreePane(t)

	sub, err := tree.Extract(a, false)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if sub.Root != a || sub.LeafCount() != 1 {
		t.Fatalf("extracted %d leaves rooted at %d", sub.LeafCount(), sub.Root)
	}

	// Tabs dropped to a single child, so it collapses into the split.
	if tree.Contains(tabs) {
		t.Error("single-child tabs container survived extraction")
	}
	if p, ok := tree.Parent(b); !ok || p == tabs {
		t.Errorf("pane b reparented to %d, %v", p, ok)
	}
	if got := tree.LeafCount(); got != 2 {
		t.Errorf("LeafCount = %d, want 2", got)
	}
	if problems := tree.Integrity(); len(problems) > 0 {
		t.Errorf("integrity after extract: %v", problems)
	}
}

func TestExtract_SubtreeKeepsStructure(t *testing.T) {
	tree, tabs, a, b, c := buildThreePane(t)

	sub, err := tree.Extract(tabs, false)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if sub.Root != tabs {
		t.Fatalf("subtree root = %d, want %d", sub.Root, tabs)
	}
	if !sub.Contains(a) || !sub.Contains(b) {
		t.Error("subtree lost its panes")
	}
	if sub.Contains(c) {
		t.Error("subtree captured a sibling")
	}

	// The split collapsed to its surviving pane, now the root.
	root, ok := tree.Root()
	if !ok || root != c {
		t.Errorf("root = %d, %v, want pane c (%d)", root, ok, c)
	}
}

func TestExtract_RootEmptiesTree(t *testing.T) {
	tree := NewTree()
	p := tree.NewPane("only")
	if err := tree.SetRoot(p); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}

	sub, err := tree.Extract(p, false)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !tree.IsEmpty() {
		t.Error("tree should be empty after extracting its root")
	}
	if sub.LeafCount() != 1 {
		t.Errorf("subtree leaves = %d", sub.LeafCount())
	}
}

func TestExtract_MissingTile(t *testing.T) {
	tree, _, _, _, _ := buildThreePane(t)
	if _, err := tree.Extract(9999, false); err != ErrTileNotFound {
		t.Errorf("err = %v, want ErrTileNotFound", err)
	}
}

func TestExtract_ReorderKeepsIDs(t *testing.T) {
	tree, _, a, _, _ := buildThreePane(t)
	before := tree.next

	sub, err := tree.Extract(a, false)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if sub.Root != a {
		t.Errorf("non-reserving extract renumbered %d to %d", a, sub.Root)
	}
	if tree.next != before {
		t.Errorf("non-reserving extract moved the allocator %d -> %d", before, tree.next)
	}

	// Putting it straight back reuses the same id.
	back, err := tree.Insert(sub, nil)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if back != a {
		t.Errorf("reinserted as %d, want original id %d", back, a)
	}
}

func TestExtract_ReserveBurnsIDRange(t *testing.T) {
	tree, tabs, a, b, _ := buildThreePane(t)
	before := tree.next

	sub, err := tree.Extract(tabs, true)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	// Every id in the fragment is fresh relative to the source.
	for id := range sub.Tiles {
		if id < before {
			t.Errorf("fragment carries old id %d (allocator was at %d)", id, before)
		}
		if tree.Contains(id) {
			t.Errorf("fragment id %d still present in source", id)
		}
	}
	if sub.Root == tabs {
		t.Error("reserving extract kept the old root id")
	}
	if tree.next <= before {
		t.Error("reserving extract did not advance the allocator")
	}
	if sub.Contains(a) || sub.Contains(b) {
		t.Error("old pane ids still resolve inside the fragment")
	}
	// The panes themselves travelled, under new ids.
	if got := sub.LeafCount(); got != 2 {
		t.Errorf("fragment leaves = %d, want 2", got)
	}
}

func TestExtract_ClearsDraggedInsideSubtree(t *testing.T) {
	tree, tabs, a, _, _ := buildThreePane(t)
	tree.SetDragged(a)

	if _, err := tree.Extract(tabs, false); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, ok := tree.DraggedTile(); ok {
		t.Error("dragged marker survived extraction of its subtree")
	}
}
