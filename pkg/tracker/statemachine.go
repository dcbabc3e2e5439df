package tracker

// Entity status state machine
//
// The allowed edges are:
//
//	pending     → in_progress   (requires all dependencies completed)
//	in_progress → completed
//	in_progress → failed
//	completed   → pending       (explicit reopen only)
//	failed      → pending       (explicit reopen only)
//
// Reopen edges are never taken implicitly: callers must request them
// through the coordinator, which records the override in the journal.

// CanTransition reports whether moving from one status to another is an
// allowed edge in the normal lifecycle. Reopen edges return false here;
// use IsReopen to detect them.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusInProgress
	case StatusInProgress:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}

// IsTerminal reports whether the status is a terminal state.
func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsReopen reports whether the transition is a reopen override: a terminal
// entity being returned to pending.
func IsReopen(from, to Status) bool {
	return IsTerminal(from) && to == StatusPending
}
