package tiles

import "fmt"

// Integrity scans the tree for structural damage and returns one message
// per finding. A healthy tree yields nil. The bridge runs this after
// every mutation batch in debug builds; the checks mirror what the
// mutation paths promise to preserve.
func (t *Tree) Integrity() []string {
	var problems []string

	if t.root != 0 {
		if _, ok := t.tiles[t.root]; !ok {
			problems = append(problems, fmt.Sprintf("root #%d not in tile set", t.root))
		}
	}

	parents := make(map[TileID]TileID)
	for pid, tile := range t.tiles {
		if !tile.isContainer() {
			continue
		}
		seen := make(map[TileID]bool, len(tile.Children))
		for _, c := range tile.Children {
			if seen[c] {
				problems = append(problems, fmt.Sprintf("container #%d lists child #%d twice", pid, c))
				continue
			}
			seen[c] = true
			if _, ok := t.tiles[c]; !ok {
				problems = append(problems, fmt.Sprintf("container #%d lists missing child #%d", pid, c))
			}
			if prev, taken := parents[c]; taken {
				problems = append(problems, fmt.Sprintf("tile #%d claimed by parents #%d and #%d", c, prev, pid))
				continue
			}
			parents[c] = pid
		}
		if tile.Kind == KindTabs && len(tile.Children) > 0 {
			if tile.Active == 0 || tile.childIndex(tile.Active) < 0 {
				problems = append(problems, fmt.Sprintf("tabs #%d active #%d not among children", pid, tile.Active))
			}
		}
		if tile.Kind == KindSplit && len(tile.Shares) != len(tile.Children) {
			problems = append(problems, fmt.Sprintf("split #%d has %d shares for %d children", pid, len(tile.Shares), len(tile.Children)))
		}
	}

	if t.root != 0 {
		if n := len(t.unreachableIDs()); n > 0 {
			problems = append(problems, fmt.Sprintf("%d unreachable tiles", n))
		}
	}
	for id := range t.tiles {
		if id >= t.next {
			problems = append(problems, fmt.Sprintf("tile #%d at or past allocator position %d", id, t.next))
		}
	}
	return problems
}
