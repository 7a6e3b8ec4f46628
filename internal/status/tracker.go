// internal/status/tracker.go
package status

// Tracker owns the status Snapshot and applies state transitions.
// Not safe for concurrent use: one goroutine (the mirror) drives it.
type Tracker struct {
	snap Snapshot
}

// NewTracker starts in HealthUnknown for the given mode code.
func NewTracker(mode uint16) *Tracker {
	return &Tracker{snap: Snapshot{
		Health: HealthUnknown,
		Mode:   mode,
	}}
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot { return t.snap }

// Observe applies one sampler tick. Returns true if the snapshot changed.
func (t *Tracker) Observe(present, failed bool) bool {
	prev := t.snap

	switch {
	case failed:
		t.snap.Health = HealthSampleFailed
		t.snap.LastErrorCode = ErrorSampleFailed
	case present:
		// Recovery resets the error and the no-data counter.
		t.snap.Health = HealthOK
		t.snap.LastErrorCode = ErrorNone
		t.snap.SecondsWithoutData = 0
	default:
		t.snap.Health = HealthNoData
	}

	return t.snap != prev
}

// TickSecond advances SecondsWithoutData while not OK.
// Saturates at MaxSeconds. NOTE: Observe never increments it.
func (t *Tracker) TickSecond() bool {
	if t.snap.Health == HealthOK {
		return false
	}
	if t.snap.SecondsWithoutData >= MaxSeconds {
		return false
	}
	t.snap.SecondsWithoutData++
	return true
}

// MarkStopped records that the loop is gone.
func (t *Tracker) MarkStopped() bool {
	if t.snap.Health == HealthStopped {
		return false
	}
	t.snap.Health = HealthStopped
	return true
}
