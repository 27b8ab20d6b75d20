package dock

import "errors"

var (
	// ErrSessionActive is returned by Begin when a drag session for this
	// bridge is already unresolved. A second drag cannot start until the
	// first one ends.
	ErrSessionActive = errors.New("dock: drag session already active")

	// ErrNoSession is returned when an operation requires an active drag
	// session and none exists.
	ErrNoSession = errors.New("dock: no active drag session")

	// ErrUnknownViewport is returned when a viewport id does not name the
	// root or any live detached viewport.
	ErrUnknownViewport = errors.New("dock: unknown viewport")

	// ErrUnknownFloating is returned when a floating window id does not
	// resolve within its viewport.
	ErrUnknownFloating = errors.New("dock: unknown floating window")

	// ErrMissingTarget marks a drop whose resolved target no longer
	// exists. Always degrades to a no-op, never surfaces to users.
	ErrMissingTarget = errors.New("dock: drop target missing")

	// ErrSelfParent marks an insertion that would place a subtree inside
	// itself. The mutation is refused and substituted with a no-op.
	ErrSelfParent = errors.New("dock: insertion target inside dragged subtree")

	// ErrNotDetached is returned for window-frame operations on the root
	// viewport, which the bridge never moves or closes.
	ErrNotDetached = errors.New("dock: viewport is not a detached window")

	// ErrPassEnded is returned by pass methods called after End.
	ErrPassEnded = errors.New("dock: viewport pass already ended")

	// ErrForeignSnapshot is returned when restoring a snapshot recorded
	// by a different bridge instance.
	ErrForeignSnapshot = errors.New("dock: snapshot belongs to another bridge")
)
