package dock

import (
	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// TearOffMode selects how a subtree leaves its dock.
type TearOffMode int

const (
	// TearOffGhost previews the future window while the drag is still in
	// flight and finalizes it on release.
	TearOffGhost TearOffMode = iota
	// TearOffDirect creates the window only at release time.
	TearOffDirect
)

// Modifiers is the keyboard chord state sampled with the frame input.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

// Options tune one bridge instance. Zero values are not useful; start
// from DefaultOptions.
type Options struct {
	// BridgeID isolates bridges sharing a process. Payloads carrying a
	// different bridge id are ignored entirely.
	BridgeID string

	// DockingEnabled is the master switch for whole-window docking.
	// Subtree drags are unaffected.
	DockingEnabled bool
	// DockingWithShift flips the modifier polarity of whole-window
	// docking: false (default) means holding shift suspends docking,
	// true means docking only engages while shift is held.
	DockingWithShift bool

	// TearOffThreshold is how far, in logical pixels, the pointer must
	// leave the source dock surface before a subtree drag becomes a
	// tear-off.
	TearOffThreshold float64
	// TearOffMode selects ghost preview or direct creation.
	TearOffMode TearOffMode
	// GhostNativeOnLeave upgrades the ghost preview to a native window
	// request once the pointer leaves the source viewport entirely.
	GhostNativeOnLeave bool
	// ForceTearOffWithAlt makes alt-release tear off even inside the
	// threshold distance.
	ForceTearOffWithAlt bool
	// FloatingWithCtrl makes ctrl-release produce a contained floating
	// window instead of a detached viewport.
	FloatingWithCtrl bool
	// GroupTearOffWithShift promotes a shift-initiated tab drag to the
	// closest enclosing tab group.
	GroupTearOffWithShift bool

	// FocusOnTitleDrag asks the backend to focus a detached window when
	// its title drag starts.
	FocusOnTitleDrag bool
	// Decorations is applied to windows the bridge creates.
	Decorations Decorations

	// TitleBandHeight is the strip at the top of a non-tab container
	// that accepts whole-window drops.
	TitleBandHeight float64
	// OuterBandPx is the dock-edge band that splits the whole surface.
	OuterBandPx float64
	// CrossButtonSize and CrossButtonGap shape the directional overlay
	// cross drawn over the hovered pane. The exact hit-test thresholds
	// are tunable rather than fixed.
	CrossButtonSize float64
	CrossButtonGap  float64

	// Layout is forwarded to every tree layout pass.
	Layout tiles.LayoutParams
	// FloatingHeaderHeight is the grab strip of contained floating
	// windows.
	FloatingHeaderHeight float64

	DefaultDetachedSize geom.Size
	MinDetachedSize     geom.Size
	DefaultFloatingSize geom.Size

	// FlattenDockedContainers splits a container-rooted subtree into its
	// children when tab-docking, so tab strips never nest containers.
	FlattenDockedContainers bool

	// EventLogCapacity bounds the in-memory diagnostic ring. Zero
	// disables the log.
	EventLogCapacity int
	// DebugIntegrityChecks runs a tree integrity sweep after every
	// frame's mutations and logs findings.
	DebugIntegrityChecks bool
}

// DefaultOptions returns the tuning a desktop app would start from.
func DefaultOptions() Options {
	return Options{
		BridgeID:                "undock",
		DockingEnabled:          true,
		DockingWithShift:        false,
		TearOffThreshold:        8,
		TearOffMode:             TearOffGhost,
		GhostNativeOnLeave:      true,
		ForceTearOffWithAlt:     true,
		FloatingWithCtrl:        true,
		GroupTearOffWithShift:   true,
		FocusOnTitleDrag:        true,
		Decorations:             DecorOS,
		TitleBandHeight:         24,
		OuterBandPx:             16,
		CrossButtonSize:         32,
		CrossButtonGap:          4,
		Layout:                  tiles.DefaultLayoutParams(),
		FloatingHeaderHeight:    22,
		DefaultDetachedSize:     geom.Sz(320, 240),
		MinDetachedSize:         geom.Sz(200, 120),
		DefaultFloatingSize:     geom.Sz(260, 180),
		FlattenDockedContainers: true,
		EventLogCapacity:        200,
		DebugIntegrityChecks:    false,
	}
}

// windowDockingActive resolves the modifier gate for whole-window drags:
// with the default polarity shift suspends docking, with the inverted
// polarity shift enables it.
func (o Options) windowDockingActive(m Modifiers) bool {
	if !o.DockingEnabled {
		return false
	}
	return m.Shift == o.DockingWithShift
}
