package dock

// DragSession tracks single-owner arbitration of the current drag. One
// session exists per bridge; it starts when a gesture begins and ends,
// on every path, when the gesture resolves. The release claim is
// monotonic: during one drag the first claimant wins and every later
// claim observes false, which is what makes "at most one mutation per
// release" hold by construction.
type DragSession struct {
	active     bool
	payload    DragPayload
	claimed    bool
	beganFrame uint64
}

// Begin starts a session for the payload. Starting while another drag
// from the same bridge is unresolved fails with ErrSessionActive and
// leaves the running session untouched.
func (s *DragSession) Begin(payload DragPayload, frame uint64) error {
	if s.active {
		return ErrSessionActive
	}
	s.active = true
	s.payload = payload
	s.claimed = false
	s.beganFrame = frame
	return nil
}

// Active reports whether a drag is in flight.
func (s *DragSession) Active() bool { return s.active }

// Payload returns the active drag's payload.
func (s *DragSession) Payload() (DragPayload, bool) {
	if !s.active {
		return DragPayload{}, false
	}
	return s.payload, true
}

// Claimed reports whether some handler already claimed this drag's
// release.
func (s *DragSession) Claimed() bool { return s.active && s.claimed }

// ClaimRelease attempts to claim the release for the caller. Exactly one
// caller per drag observes true. A claim with no active session also
// returns true: there is nothing to double-apply, and stray release
// events must still be allowed to run their cleanup.
func (s *DragSession) ClaimRelease() bool {
	if !s.active {
		return true
	}
	if s.claimed {
		return false
	}
	s.claimed = true
	return true
}

// End clears the session. Called exactly once per drag regardless of
// outcome; calling it with no active session is a harmless no-op so
// cleanup paths need no guards.
func (s *DragSession) End() {
	s.active = false
	s.payload = DragPayload{}
	s.claimed = false
	s.beganFrame = 0
}
