package dock

import (
	"fmt"

	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// FloatingWindow is a contained floating window: it lives inside one
// viewport, clipped to it, holding its own small tree. It is not an OS
// window; promotion to one goes through the detach path.
type FloatingWindow struct {
	id        FloatingID
	tree      *tiles.Tree
	offset    geom.Vec // top-left relative to the viewport inner origin
	size      geom.Size
	collapsed bool
}

func (f *FloatingWindow) ID() FloatingID    { return f.id }
func (f *FloatingWindow) Tree() *tiles.Tree { return f.tree }
func (f *FloatingWindow) Offset() geom.Vec  { return f.offset }
func (f *FloatingWindow) Size() geom.Size   { return f.size }
func (f *FloatingWindow) Collapsed() bool   { return f.collapsed }

// SetCollapsed folds the window to its header strip.
func (f *FloatingWindow) SetCollapsed(v bool) { f.collapsed = v }

// SetOffset moves the window within its viewport.
func (f *FloatingWindow) SetOffset(o geom.Vec) { f.offset = o }

// rect is the full hit-testable rectangle in viewport-local coordinates:
// header strip plus, unless collapsed, the content area.
func (f *FloatingWindow) rect(headerHeight float64) geom.Rect {
	h := headerHeight
	if !f.collapsed {
		h += f.size.H
	}
	return geom.RectFromMinSize(geom.Pt(f.offset.X, f.offset.Y), geom.Sz(f.size.W, h))
}

// headerRect is the grab strip at the top.
func (f *FloatingWindow) headerRect(headerHeight float64) geom.Rect {
	return geom.RectFromMinSize(geom.Pt(f.offset.X, f.offset.Y), geom.Sz(f.size.W, headerHeight))
}

// contentRect is the tree surface below the header. Zero-height when
// collapsed.
func (f *FloatingWindow) contentRect(headerHeight float64) geom.Rect {
	if f.collapsed {
		return geom.RectFromMinSize(geom.Pt(f.offset.X, f.offset.Y+headerHeight), geom.Sz(f.size.W, 0))
	}
	return geom.RectFromMinSize(geom.Pt(f.offset.X, f.offset.Y+headerHeight), f.size)
}

// OpenFloating creates a contained floating window on a viewport,
// seeded with a single pane. A zero size means the configured default.
func (b *Bridge) OpenFloating(vp ViewportID, pane tiles.PaneID, offset geom.Vec, size geom.Size) (*FloatingWindow, error) {
	if _, ok := b.viewportTree(vp); !ok {
		return nil, ErrUnknownViewport
	}
	tree := tiles.NewTree()
	if err := tree.SetRoot(tree.NewPane(pane)); err != nil {
		return nil, err
	}
	if !size.IsPositive() {
		size = b.opts.DefaultFloatingSize
	}

	b.nextFloating++
	f := &FloatingWindow{id: b.nextFloating, tree: tree, offset: offset, size: size}
	b.floatingSetFor(vp).add(f)
	return f, nil
}

// CloseFloating removes a contained floating window and everything in
// it.
func (b *Bridge) CloseFloating(vp ViewportID, id FloatingID) error {
	set, ok := b.floats[vp]
	if !ok {
		return ErrUnknownFloating
	}
	if !set.remove(id) {
		return ErrUnknownFloating
	}
	b.record(EventReapFloating, vp, fmt.Sprintf("floating %d closed", id))
	return nil
}

// RaiseFloating brings a contained floating window to the front of its
// viewport's overlay.
func (b *Bridge) RaiseFloating(vp ViewportID, id FloatingID) error {
	set, ok := b.floats[vp]
	if !ok {
		return ErrUnknownFloating
	}
	if _, ok := set.get(id); !ok {
		return ErrUnknownFloating
	}
	set.bringToFront(id)
	return nil
}

// floatingSet keeps one viewport's floating windows and their z-order.
// The slice runs bottom to top, so the topmost window is last; hit tests
// walk it in order and let the last containing window win.
type floatingSet struct {
	windows map[FloatingID]*FloatingWindow
	zOrder  []FloatingID
}

func newFloatingSet() *floatingSet {
	return &floatingSet{windows: make(map[FloatingID]*FloatingWindow)}
}

func (s *floatingSet) add(f *FloatingWindow) {
	s.windows[f.id] = f
	s.zOrder = append(s.zOrder, f.id)
}

func (s *floatingSet) get(id FloatingID) (*FloatingWindow, bool) {
	f, ok := s.windows[id]
	return f, ok
}

func (s *floatingSet) remove(id FloatingID) bool {
	if _, ok := s.windows[id]; !ok {
		return false
	}
	delete(s.windows, id)
	for i, z := range s.zOrder {
		if z == id {
			s.zOrder = append(s.zOrder[:i], s.zOrder[i+1:]...)
			break
		}
	}
	return true
}

func (s *floatingSet) bringToFront(id FloatingID) {
	for i, z := range s.zOrder {
		if z == id {
			s.zOrder = append(s.zOrder[:i], s.zOrder[i+1:]...)
			s.zOrder = append(s.zOrder, id)
			return
		}
	}
}

// ordered returns the windows bottom to top.
func (s *floatingSet) ordered() []*FloatingWindow {
	out := make([]*FloatingWindow, 0, len(s.zOrder))
	for _, id := range s.zOrder {
		if f, ok := s.windows[id]; ok {
			out = append(out, f)
		}
	}
	return out
}

func (s *floatingSet) empty() bool { return len(s.windows) == 0 }
