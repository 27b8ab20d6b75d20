package dock

import "github.com/bnema/undock/pkg/geom"

// FrameInput carries the backend platform hints for one frame. Every
// field except Modifiers is optional; absent hints degrade to
// geometry-only inference rather than failing.
type FrameInput struct {
	// PointerGlobal is the pointer position in global (compositor)
	// coordinates, when the backend can report one.
	PointerGlobal *geom.Point
	// PointerMotion is the raw pointer delta since the previous frame.
	// Used to keep tracking the pointer through native window moves,
	// when absolute positions freeze.
	PointerMotion *geom.Vec
	// HoveredViewport is the backend's claim of which viewport the
	// pointer is over. Geometry beats a contradicting hint.
	HoveredViewport *ViewportID
	// Monitors lists monitor rectangles for clamping restored or newly
	// created window placements.
	Monitors []geom.Rect

	PointerDown     bool
	PointerReleased bool
	Modifiers       Modifiers
}

// PassInput describes one viewport's surface for its per-frame pass.
type PassInput struct {
	// InnerRect is the viewport's content area in global coordinates.
	InnerRect geom.Rect
	// DockRect is the dock surface in viewport-local coordinates.
	DockRect geom.Rect
	// Pointer is the viewport-local pointer position, nil when the
	// pointer is not over this viewport or its position is unknown.
	Pointer *geom.Point
	// PointerReleased reports that this viewport's event loop saw the
	// button release. Releases are routed by the drop protocol, so the
	// viewport that receives the event need not be the one that resolves
	// it.
	PointerReleased bool
}

// staleHintTolerance is how far, in logical pixels, a backend pointer
// hint may disagree with a locally observed pointer before the hint is
// discarded for the frame.
const staleHintTolerance = 1.5

// pointerState is the bridge's best per-frame knowledge of the global
// pointer, merged from backend hints and per-viewport observations.
type pointerState struct {
	global        *geom.Point
	hovered       *ViewportID
	hintedGlobal  bool // global came from a backend hint this frame
	hintedHovered bool
	released      bool
	down          bool
	mods          Modifiers
}

func (ps *pointerState) beginFrame(in FrameInput) {
	prev := ps.global
	ps.hintedGlobal = false
	ps.hintedHovered = false
	ps.released = in.PointerReleased
	ps.down = in.PointerDown
	ps.mods = in.Modifiers

	switch {
	case in.PointerGlobal != nil:
		p := *in.PointerGlobal
		ps.global = &p
		ps.hintedGlobal = true
	case in.PointerMotion != nil && prev != nil:
		// Integrate raw motion: during a native window move the backend
		// often stops reporting absolute positions but still streams
		// deltas.
		p := prev.Add(*in.PointerMotion)
		ps.global = &p
	default:
		ps.global = prev
	}

	if in.HoveredViewport != nil {
		vp := *in.HoveredViewport
		ps.hovered = &vp
		ps.hintedHovered = true
	} else {
		ps.hovered = nil
	}
}

// observe folds one viewport's locally observed pointer into the frame
// state. A local observation is geometry, so it wins over a
// contradicting hint; the caller records the stale-hint event.
func (ps *pointerState) observe(vp ViewportID, globalPt geom.Point) (staleHint bool) {
	if ps.hintedGlobal && ps.global != nil && ps.global.Dist(globalPt) > staleHintTolerance {
		staleHint = true
		ps.hintedGlobal = false
	}
	if !ps.hintedGlobal || ps.global == nil {
		p := globalPt
		ps.global = &p
	}
	if !ps.hintedHovered {
		v := vp
		ps.hovered = &v
	}
	return staleHint
}
