package dock

import "github.com/bnema/undock/pkg/geom"

// ViewportID identifies one rendering surface: the root window or a
// detached one. Ids are opaque to callers.
type ViewportID string

// RootViewport is the distinguished id of the process-lifetime root
// surface. Detached viewports come and go; the root does not.
const RootViewport ViewportID = "root"

// Decorations selects the chrome of windows the bridge asks the backend
// to create.
type Decorations int

const (
	// DecorOS requests native window decorations.
	DecorOS Decorations = iota
	// DecorClientSide requests borderless windows; the embedding UI draws
	// its own chrome.
	DecorClientSide
)

// WindowPlacement is the builder record the bridge hands to the window
// backend when creating or updating a top-level window. Pos is nil when
// the backend should choose a position.
type WindowPlacement struct {
	Pos         *geom.Point `json:"pos,omitempty"`
	Size        geom.Size   `json:"size"`
	Title       string      `json:"title"`
	Decorations Decorations `json:"decorations"`
}

// Rect returns the placement's outer rectangle when the position is
// known.
func (w WindowPlacement) Rect() (geom.Rect, bool) {
	if w.Pos == nil {
		return geom.Rect{}, false
	}
	return geom.RectFromMinSize(*w.Pos, w.Size), true
}
