package coordinator

import (
	"fmt"

	"github.com/warrenlabs/warren/internal/journal"
	"github.com/warrenlabs/warren/pkg/tracker"
)

// TransitionOptions qualifies a status change request.
type TransitionOptions struct {
	Reopen bool   // Explicitly allow a terminal→pending override
	Reason string // Recorded in the journal for reopen overrides
}

// Transition moves an entity through the status state machine, persists
// the change, and applies the ledger delta.
//
// The pending→in_progress edge is gated: every dependency must be
// completed, and a DependencyNotSatisfiedError names each blocking id.
// Terminal→pending requires opts.Reopen and is recorded in the journal;
// any other disallowed edge fails with a TransitionError.
func (c *Coordinator) Transition(kind tracker.Kind, id tracker.EntityID, to tracker.Status, opts TransitionOptions) error {
	if err := to.Validate(); err != nil {
		return err
	}

	e, err := c.store.Read(kind, id)
	if err != nil {
		return err
	}

	from := e.Status
	if from == to {
		return nil
	}

	switch {
	case tracker.IsReopen(from, to):
		if !opts.Reopen {
			return &tracker.TransitionError{Kind: kind, ID: id, From: from, To: to}
		}
	case !tracker.CanTransition(from, to):
		return &tracker.TransitionError{Kind: kind, ID: id, From: from, To: to}
	}

	if to == tracker.StatusInProgress {
		if blocking, err := c.blockingDependencies(e); err != nil {
			return err
		} else if len(blocking) > 0 {
			return &tracker.DependencyNotSatisfiedError{Kind: kind, ID: id, Blocking: blocking}
		}
	}

	e.Status = to
	if err := c.store.Write(e); err != nil {
		return err
	}

	if tracker.IsReopen(from, to) {
		detail := fmt.Sprintf("reopened from %s", from)
		if opts.Reason != "" {
			detail += ": " + opts.Reason
		}
		if err := c.journal.Record(journal.ActionReopen, kind, id.String(), detail); err != nil {
			return fmt.Errorf("status changed but journal append failed: %w", err)
		}
	}

	return c.ledger.ApplyDelta(kind, []tracker.EntityID{id})
}

// blockingDependencies returns the dependencies of e that are not yet
// completed, in declaration order. Dangling dependencies block too: an
// unresolvable id can never be known completed.
func (c *Coordinator) blockingDependencies(e *tracker.Entity) ([]tracker.EntityID, error) {
	var blocking []tracker.EntityID

	for _, dep := range e.Dependencies {
		target, err := c.store.Read(e.Kind, dep)
		if err != nil {
			if tracker.IsNotFound(err) {
				blocking = append(blocking, dep)
				continue
			}
			return nil, err
		}

		if target.Status != tracker.StatusCompleted {
			blocking = append(blocking, dep)
		}
	}

	return blocking, nil
}
