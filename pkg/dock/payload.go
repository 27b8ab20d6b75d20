package dock

import (
	"fmt"

	"github.com/bnema/undock/pkg/tiles"
)

// FloatingID identifies a contained floating window within one viewport.
// The zero value means "not a floating window".
type FloatingID uint64

// DragPayload is the immutable descriptor of what a drag gesture moves.
// BridgeID isolates independent bridge instances sharing one process: a
// bridge ignores payloads carrying another bridge's id. A zero Tile
// means the whole detached window travels as a unit (a tab-bar or title
// drag); otherwise the payload is the subtree rooted at Tile.
type DragPayload struct {
	BridgeID       string
	Source         ViewportID
	SourceFloating FloatingID
	Tile           tiles.TileID
}

// IsWindowDrag reports whether the payload moves an entire detached
// window rather than a subtree.
func (p DragPayload) IsWindowDrag() bool { return p.Tile == 0 }

// FromFloating reports whether the drag started inside a contained
// floating window.
func (p DragPayload) FromFloating() bool { return p.SourceFloating != 0 }

// sourceSurface is the surface the payload's subtree currently lives on.
func (p DragPayload) sourceSurface() Surface {
	return Surface{Viewport: p.Source, Floating: p.SourceFloating}
}

// sourceHost is the tagged host holding the dragged content.
func (p DragPayload) sourceHost() Host {
	switch {
	case p.SourceFloating != 0:
		return Host{Kind: HostFloating, Viewport: p.Source, Floating: p.SourceFloating}
	case p.IsWindowDrag():
		return Host{Kind: HostWindow, Viewport: p.Source}
	default:
		return Host{Kind: HostDock, Viewport: p.Source}
	}
}

func (p DragPayload) String() string {
	switch {
	case p.IsWindowDrag() && p.SourceFloating != 0:
		return fmt.Sprintf("floating %d of %s", p.SourceFloating, p.Source)
	case p.IsWindowDrag():
		return fmt.Sprintf("window %s", p.Source)
	case p.SourceFloating != 0:
		return fmt.Sprintf("tile #%d of floating %d in %s", p.Tile, p.SourceFloating, p.Source)
	default:
		return fmt.Sprintf("tile #%d of %s", p.Tile, p.Source)
	}
}

// HostKind discriminates the three places dragged content can live.
type HostKind int

const (
	// HostDock is the dock tree of a viewport.
	HostDock HostKind = iota
	// HostFloating is a contained floating window within a viewport.
	HostFloating
	// HostWindow is an entire detached viewport moved as a unit.
	HostWindow
)

func (k HostKind) String() string {
	switch k {
	case HostDock:
		return "dock"
	case HostFloating:
		return "floating"
	case HostWindow:
		return "window"
	default:
		return "unknown"
	}
}

// Host names one concrete location content can occupy: a viewport's dock
// tree, a floating window inside a viewport, or a whole detached window.
// Take and insert operations are uniform across the three variants.
type Host struct {
	Kind     HostKind
	Viewport ViewportID
	Floating FloatingID
}

// Surface is a hit-test location within one viewport: its dock tree, or
// one of its contained floating windows.
type Surface struct {
	Viewport ViewportID
	Floating FloatingID
}

// OnFloating reports whether the surface is a floating window rather
// than the viewport's dock tree.
func (s Surface) OnFloating() bool { return s.Floating != 0 }

func (s Surface) host() Host {
	if s.Floating != 0 {
		return Host{Kind: HostFloating, Viewport: s.Viewport, Floating: s.Floating}
	}
	return Host{Kind: HostDock, Viewport: s.Viewport}
}
