package tracker

import "testing"

// TestCanTransition enumerates the allowed lifecycle edges
func TestCanTransition(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusInProgress}:   true,
		{StatusInProgress, StatusCompleted}: true,
		{StatusInProgress, StatusFailed}:    true,
	}

	statuses := []Status{StatusPending, StatusInProgress, StatusCompleted, StatusFailed}
	for _, from := range statuses {
		for _, to := range statuses {
			got := CanTransition(from, to)
			want := allowed[[2]Status{from, to}]
			if got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

// TestIsTerminal tests the terminal status set
func TestIsTerminal(t *testing.T) {
	if !IsTerminal(StatusCompleted) || !IsTerminal(StatusFailed) {
		t.Error("completed and failed should be terminal")
	}
	if IsTerminal(StatusPending) || IsTerminal(StatusInProgress) {
		t.Error("pending and in_progress should not be terminal")
	}
}

// TestIsReopen tests that only terminal→pending counts as a reopen
func TestIsReopen(t *testing.T) {
	if !IsReopen(StatusCompleted, StatusPending) {
		t.Error("completed→pending should be a reopen")
	}
	if !IsReopen(StatusFailed, StatusPending) {
		t.Error("failed→pending should be a reopen")
	}
	if IsReopen(StatusInProgress, StatusPending) {
		t.Error("in_progress→pending should not be a reopen")
	}
	if IsReopen(StatusCompleted, StatusInProgress) {
		t.Error("completed→in_progress should not be a reopen")
	}
}
