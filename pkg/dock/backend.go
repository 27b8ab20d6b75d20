package dock

// WindowBackend is the windowing layer the bridge drives. The bridge
// requests windows; it never creates them itself. Implementations map
// these calls onto their toolkit's viewport or OS-window API. Errors are
// logged by the bridge and degrade to no-ops; a backend failure must
// not corrupt the tree state already committed.
type WindowBackend interface {
	// CreateWindow realizes a new top-level window for a detached
	// viewport.
	CreateWindow(id ViewportID, placement WindowPlacement) error
	// UpdateWindow applies a changed placement to an existing window.
	UpdateWindow(id ViewportID, placement WindowPlacement) error
	// BeginNativeMove hands the window to the OS for an interactive
	// move, when the platform supports it.
	BeginNativeMove(id ViewportID) error
	// CloseWindow destroys the window of a reaped viewport.
	CloseWindow(id ViewportID) error
	// Focus raises and focuses the window.
	Focus(id ViewportID) error
}

// NopBackend satisfies WindowBackend with no-ops. Useful headless and in
// tests that only care about tree state.
type NopBackend struct{}

func (NopBackend) CreateWindow(ViewportID, WindowPlacement) error { return nil }
func (NopBackend) UpdateWindow(ViewportID, WindowPlacement) error { return nil }
func (NopBackend) BeginNativeMove(ViewportID) error               { return nil }
func (NopBackend) CloseWindow(ViewportID) error                   { return nil }
func (NopBackend) Focus(ViewportID) error                         { return nil }
