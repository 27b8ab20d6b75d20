// Package dock implements a multi-viewport docking bridge: the protocol
// that lets a user tear tabs out of a dock tree into their own top-level
// windows, drag them across windows, and dock them back into the root
// window, another detached window, or a contained floating window.
//
// The bridge owns the drag session state machine, the authority policy
// deciding per frame whether the tree collaborator or the bridge's own
// overlay previews (and later applies) a drop, the deferred cross-window
// drop protocol, and the window lifecycle that follows from mutations.
// It deliberately owns no rendering: an embedding UI drives it once per
// frame and paints whatever the decisions describe.
//
// All Bridge methods must be called from a single goroutine, the UI
// frame loop. Nothing here is safe for concurrent use.
package dock

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// PendingDrop is a release captured by one viewport for end-of-frame
// resolution elsewhere: the payload, the best-effort global pointer at
// release, and the modifier chord. Exactly one slot exists per bridge;
// it is consumed once and cleared regardless of the outcome.
type PendingDrop struct {
	Payload DragPayload
	Pointer *geom.Point
	Mods    Modifiers
	Frame   uint64
}

// Bridge is one docking instance: the root tree, the detached viewports
// and floating windows hanging off it, and the drag arbitration state
// shared by all of them.
type Bridge struct {
	opts    Options
	backend WindowBackend
	reg     PaneRegistry
	log     zerolog.Logger

	tree          *tiles.Tree
	detached      map[ViewportID]*DetachedDock
	detachedOrder []ViewportID
	floats        map[ViewportID]*floatingSet
	nextDetached  int
	nextFloating  FloatingID

	session   DragSession
	pointer   pointerState
	pending   *PendingDrop
	ghost     *GhostDrag
	floatDrag *floatingDrag

	geo      map[ViewportID]*viewGeometry
	monitors []geom.Rect
	frame    uint64
	events   *eventLog

	// routed marks that some pass already routed this frame's release,
	// so later passes seeing the same release don't double-route it.
	routed bool
}

// New builds a bridge. backend may be nil for a headless bridge
// (NopBackend is substituted); reg may be nil when panes need no titles
// or persistence keys beyond their raw ids.
func New(opts Options, backend WindowBackend, reg PaneRegistry, log zerolog.Logger) *Bridge {
	if backend == nil {
		backend = NopBackend{}
	}
	if reg == nil {
		reg = identityRegistry{}
	}
	return &Bridge{
		opts:     opts,
		backend:  backend,
		reg:      reg,
		log:      log.With().Str("component", "dock").Str("bridge", opts.BridgeID).Logger(),
		tree:     tiles.NewTree(),
		detached: make(map[ViewportID]*DetachedDock),
		floats:   map[ViewportID]*floatingSet{RootViewport: newFloatingSet()},
		geo:      make(map[ViewportID]*viewGeometry),
		events:   newEventLog(opts.EventLogCapacity),
	}
}

// Options returns the bridge's tuning.
func (b *Bridge) Options() Options { return b.opts }

// Tree returns the root viewport's dock tree.
func (b *Bridge) Tree() *tiles.Tree { return b.tree }

// Detached returns the live detached viewport ids in creation order.
func (b *Bridge) Detached() []ViewportID {
	return append([]ViewportID(nil), b.detachedOrder...)
}

// DetachedDock returns the record of one detached viewport.
func (b *Bridge) DetachedDock(id ViewportID) (*DetachedDock, bool) {
	d, ok := b.detached[id]
	return d, ok
}

// Placement returns the placement last requested for a detached
// viewport's window.
func (b *Bridge) Placement(id ViewportID) (WindowPlacement, bool) {
	d, ok := b.detached[id]
	if !ok {
		return WindowPlacement{}, false
	}
	return d.placement, true
}

// Viewports returns all live viewport ids, root first, then detached in
// creation order.
func (b *Bridge) Viewports() []ViewportID {
	out := make([]ViewportID, 0, 1+len(b.detachedOrder))
	out = append(out, RootViewport)
	out = append(out, b.detachedOrder...)
	return out
}

// FloatingIDs returns a viewport's floating window ids bottom to top.
func (b *Bridge) FloatingIDs(vp ViewportID) []FloatingID {
	set, ok := b.floats[vp]
	if !ok {
		return nil
	}
	return append([]FloatingID(nil), set.zOrder...)
}

// Floating returns one contained floating window.
func (b *Bridge) Floating(vp ViewportID, id FloatingID) (*FloatingWindow, bool) {
	set, ok := b.floats[vp]
	if !ok {
		return nil, false
	}
	return set.get(id)
}

// DragActive reports whether a drag session is in flight.
func (b *Bridge) DragActive() bool { return b.session.Active() }

// CurrentPayload returns the active drag's payload.
func (b *Bridge) CurrentPayload() (DragPayload, bool) { return b.session.Payload() }

// Ghost returns the live ghost preview, if the current drag has one.
func (b *Bridge) Ghost() (GhostDrag, bool) {
	if b.ghost == nil {
		return GhostDrag{}, false
	}
	return *b.ghost, true
}

// Events returns the diagnostic log oldest-first.
func (b *Bridge) Events() []Event { return b.events.snapshot() }

// PaneTitle resolves a pane's display title through the registry.
func (b *Bridge) PaneTitle(p tiles.PaneID) string { return b.reg.PaneTitle(p) }

// viewportTree maps a viewport id to its dock tree.
func (b *Bridge) viewportTree(vp ViewportID) (*tiles.Tree, bool) {
	if vp == RootViewport {
		return b.tree, true
	}
	d, ok := b.detached[vp]
	if !ok {
		return nil, false
	}
	return d.tree, true
}

// surfaceTree maps a surface to the tree rendered on it.
func (b *Bridge) surfaceTree(s Surface) (*tiles.Tree, bool) {
	if s.Floating != 0 {
		f, ok := b.Floating(s.Viewport, s.Floating)
		if !ok {
			return nil, false
		}
		return f.tree, true
	}
	return b.viewportTree(s.Viewport)
}

// floatingSetFor returns the viewport's floating set, creating it on
// first use for live viewports.
func (b *Bridge) floatingSetFor(vp ViewportID) *floatingSet {
	if set, ok := b.floats[vp]; ok {
		return set
	}
	set := newFloatingSet()
	b.floats[vp] = set
	return set
}

func (b *Bridge) record(kind string, vp ViewportID, detail string) {
	b.events.record(Event{Frame: b.frame, Kind: kind, Viewport: vp, Detail: detail})
	b.log.Debug().
		Uint64("frame", b.frame).
		Str("event", kind).
		Str("viewport", string(vp)).
		Msg(detail)
}

// sortedGeoViewports returns viewport ids with known geometry, root
// first then lexical, for deterministic fallback iteration.
func (b *Bridge) sortedGeoViewports() []ViewportID {
	out := make([]ViewportID, 0, len(b.geo))
	for vp := range b.geo {
		out = append(out, vp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i] == RootViewport {
			return true
		}
		if out[j] == RootViewport {
			return false
		}
		return out[i] < out[j]
	})
	return out
}
