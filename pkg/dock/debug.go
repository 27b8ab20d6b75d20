package dock

import "fmt"

// Event is one entry of the bridge's bounded diagnostic log. The log
// exists so "the drag did nothing" stays explainable: every refused
// claim, degraded drop and reaped window leaves a record.
type Event struct {
	Frame    uint64
	Kind     string
	Viewport ViewportID
	Detail   string
}

func (e Event) String() string {
	if e.Viewport == "" {
		return fmt.Sprintf("[%d] %s %s", e.Frame, e.Kind, e.Detail)
	}
	return fmt.Sprintf("[%d] %s %s %s", e.Frame, e.Kind, e.Viewport, e.Detail)
}

// Event kinds recorded by the bridge.
const (
	EventSessionBegin  = "session_begin"
	EventSessionEnd    = "session_end"
	EventClaimRefused  = "claim_refused"
	EventDropApplied   = "drop_applied"
	EventDropNoop      = "drop_noop"
	EventDropRejected  = "drop_rejected"
	EventStaleHint     = "stale_hint"
	EventTearOff       = "tear_off"
	EventGhostSpawn    = "ghost_spawn"
	EventGhostFinalize = "ghost_finalize"
	EventGhostDiscard  = "ghost_discard"
	EventReapFloating  = "reap_floating"
	EventReapDetached  = "reap_detached"
	EventIntegrity     = "integrity"
	EventRestoreDrop   = "restore_drop"
	EventLayoutRestore = "layout_restore"
)

// eventLog is a fixed-capacity ring of recent events. Capacity zero
// disables recording entirely.
type eventLog struct {
	cap   int
	buf   []Event
	start int
}

func newEventLog(capacity int) *eventLog {
	return &eventLog{cap: capacity}
}

func (l *eventLog) record(e Event) {
	if l.cap <= 0 {
		return
	}
	if len(l.buf) < l.cap {
		l.buf = append(l.buf, e)
		return
	}
	l.buf[l.start] = e
	l.start = (l.start + 1) % l.cap
}

// snapshot returns the events oldest-first.
func (l *eventLog) snapshot() []Event {
	if len(l.buf) == 0 {
		return nil
	}
	out := make([]Event, 0, len(l.buf))
	out = append(out, l.buf[l.start:]...)
	out = append(out, l.buf[:l.start]...)
	return out
}

func (l *eventLog) clear() {
	l.buf = l.buf[:0]
	l.start = 0
}
