package tiles

import (
	"strings"
	"testing"
)

// buildThreePane makes: split[ tabs[a, b], pane c ] and returns the
// interesting ids.
func buildThreePane(t *testing.T) (tree *Tree, tabs, a, b, c TileID) {
	t.Helper()
	tree = NewTree()
	a = tree.NewPane("a")
	b = tree.NewPane("b")
	c = tree.NewPane("c")
	tabs = tree.NewTabs(a, b)
	root := tree.NewSplit(Horizontal, tabs, c)
	if err := tree.SetRoot(root); err != nil {
		t.Fatalf("SetRoot: %v", err)
	}
	return tree, tabs, a, b, c
}

func TestTree_WalkOrder(t *testing.T) {
	tree, _, _, _, _ := buildThreePane(t)

	var panes []PaneID
	tree.Walk(func(_ TileID, tile Tile) bool {
		if tile.Kind == KindPane {
			panes = append(panes, tile.Pane)
		}
		return true
	})

	want := []PaneID{"a", "b", "c"}
	if len(panes) != len(want) {
		t.Fatalf("walked %d panes, want %d", len(panes), len(want))
	}
	for i, p := range want {
		if panes[i] != p {
			t.Errorf("pane[%d] = %q, want %q", i, panes[i], p)
		}
	}
}

func TestTree_ParentAndDescendants(t *testing.T) {
	tree, tabs, a, _, c := buildThreePane(t)
	root, _ := tree.Root()

	tests := []struct {
		name     string
		ancestor TileID
		id       TileID
		want     bool
	}{
		{"pane under its tabs", tabs, a, true},
		{"pane under root", root, a, true},
		{"self", tabs, tabs, true},
		{"sibling not descendant", tabs, c, false},
		{"child not ancestor", a, tabs, false},
		{"zero ids", 0, a, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tree.IsDescendant(tt.ancestor, tt.id); got != tt.want {
				t.Errorf("IsDescendant(%d, %d) = %v, want %v", tt.ancestor, tt.id, got, tt.want)
			}
		})
	}

	if p, ok := tree.Parent(a); !ok || p != tabs {
		t.Errorf("Parent(a) = %d, %v", p, ok)
	}
	if _, ok := tree.Parent(root); ok {
		t.Error("root should have no parent")
	}
}

func TestTree_FindPane(t *testing.T) {
	tree, _, _, b, _ := buildThreePane(t)

	id, ok := tree.FindPane("b")
	if !ok || id != b {
		t.Fatalf("FindPane(b) = %d, %v", id, ok)
	}
	if _, ok := tree.FindPane("nope"); ok {
		t.Error("found a pane that does not exist")
	}
	if got := tree.LeafCount(); got != 3 {
		t.Errorf("LeafCount = %d, want 3", got)
	}
}

func TestTree_SetActiveTab(t *testing.T) {
	tree, tabs, a, b, c := buildThreePane(t)

	if err := tree.SetActiveTab(tabs, b); err != nil {
		t.Fatalf("SetActiveTab: %v", err)
	}
	tile, _ := tree.Tile(tabs)
	if tile.Active != b {
		t.Errorf("active = %d, want %d", tile.Active, b)
	}

	if err := tree.SetActiveTab(tabs, c); err != ErrTileNotFound {
		t.Errorf("activating non-child: err = %v", err)
	}
	if err := tree.SetActiveTab(a, b); err != ErrNotContainer {
		t.Errorf("activating on a pane: err = %v", err)
	}
}

func TestTree_String(t *testing.T) {
	tree, _, _, _, _ := buildThreePane(t)

	s := tree.String()
	for _, want := range []string{"split horizontal", "tabs", `pane "a"`, `pane "c"`} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
	if NewTree().String() != "(empty)\n" {
		t.Errorf("empty tree String() = %q", NewTree().String())
	}
}

func TestTree_CloneIsIndependent(t *testing.T) {
	tree, tabs, _, b, _ := buildThreePane(t)
	clone := tree.Clone()

	if err := tree.SetActiveTab(tabs, b); err != nil {
		t.Fatalf("SetActiveTab: %v", err)
	}
	cloneTile, _ := clone.Tile(tabs)
	if cloneTile.Active == b {
		t.Error("mutating the original changed the clone")
	}
	if clone.String() == tree.String() {
		t.Error("clone should render the pre-mutation structure")
	}
}
