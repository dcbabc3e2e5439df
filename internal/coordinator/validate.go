package coordinator

import (
	"github.com/warrenlabs/warren/pkg/tracker"
)

// Validate checks one entity against its namespace and returns every
// violation found rather than failing fast, so a caller can report all
// problems in a single pass. An empty result means the entity may be
// persisted.
//
// Checks, in order: local shape, id uniqueness, parent existence and
// acyclicity, dependency existence, dependency graph acyclicity (over the
// full entity set with this entity's edges applied), and status
// transition legality against the stored version if one exists.
func (c *Coordinator) Validate(e *tracker.Entity) []error {
	var violations []error

	if err := e.Validate(); err != nil {
		// Shape failures make relationship checks meaningless.
		return []error{err}
	}

	ns := c.load(e.Kind)

	// Id uniqueness: a stored entity with the same id in a different file
	// is a collision. The same file is this entity's own prior version.
	prior := ns.byID[e.ID]
	if prior != nil && e.Path != "" && prior.Path != e.Path {
		violations = append(violations, &tracker.DuplicateIDError{
			Kind:   e.Kind,
			ID:     e.ID,
			Paths:  []string{prior.Path, e.Path},
			Titles: []string{prior.Title, e.Title},
		})
	}

	// Evaluate the graph checks against the namespace as it would look
	// with this entity's edits applied.
	ns.byID[e.ID] = e
	if prior == nil {
		ns.order = append(ns.order, e.ID)
	}

	if e.ParentID != nil {
		if _, ok := ns.byID[*e.ParentID]; !ok || *e.ParentID == e.ID {
			if *e.ParentID == e.ID {
				violations = append(violations, &tracker.CycleError{
					Kind:  e.Kind,
					Field: "parent_task",
					IDs:   []tracker.EntityID{e.ID, e.ID},
				})
			} else {
				violations = append(violations, &tracker.DanglingReferenceError{
					Kind:  e.Kind,
					ID:    e.ID,
					Field: "parent_task",
					Ref:   *e.ParentID,
				})
			}
		} else if cycle := parentCycle(e, ns.byID); cycle != nil {
			violations = append(violations, &tracker.CycleError{
				Kind:  e.Kind,
				Field: "parent_task",
				IDs:   cycle,
			})
		}
	}

	for _, dep := range e.Dependencies {
		if dep == e.ID {
			continue // self-dependency surfaces as a dependency cycle below
		}
		if _, ok := ns.byID[dep]; !ok {
			violations = append(violations, &tracker.DanglingReferenceError{
				Kind:  e.Kind,
				ID:    e.ID,
				Field: "dependencies",
				Ref:   dep,
			})
		}
	}

	for _, cycle := range dependencyCycles(ns.byID, ns.order) {
		violations = append(violations, &tracker.CycleError{
			Kind:  e.Kind,
			Field: "dependencies",
			IDs:   append(cycle, cycle[0]),
		})
	}

	if prior != nil && prior.Status != e.Status {
		if !tracker.CanTransition(prior.Status, e.Status) {
			violations = append(violations, &tracker.TransitionError{
				Kind: e.Kind,
				ID:   e.ID,
				From: prior.Status,
				To:   e.Status,
			})
		}
	}

	return violations
}

// ValidateAll sweeps a whole namespace: scan problems (unparseable files,
// duplicate ids), per-entity shape, dangling references, parent chains,
// and dependency cycles. Used by the validate command for a full health
// report.
func (c *Coordinator) ValidateAll(kind tracker.Kind) []error {
	ns := c.load(kind)

	violations := append([]error(nil), ns.problems...)

	for _, id := range ns.order {
		e := ns.byID[id]

		if e.ParentID != nil {
			if *e.ParentID == e.ID {
				violations = append(violations, &tracker.CycleError{
					Kind:  kind,
					Field: "parent_task",
					IDs:   []tracker.EntityID{e.ID, e.ID},
				})
			} else if _, ok := ns.byID[*e.ParentID]; !ok {
				violations = append(violations, &tracker.DanglingReferenceError{
					Kind:  kind,
					ID:    e.ID,
					Field: "parent_task",
					Ref:   *e.ParentID,
				})
			} else if cycle := parentCycle(e, ns.byID); onOwnCycle(e.ID, cycle) && lowestOnCycle(cycle) == e.ID {
				// Report each parent cycle once, from its lowest member.
				violations = append(violations, &tracker.CycleError{
					Kind:  kind,
					Field: "parent_task",
					IDs:   cycle,
				})
			}
		}

		for _, dep := range e.Dependencies {
			if _, ok := ns.byID[dep]; !ok && dep != e.ID {
				violations = append(violations, &tracker.DanglingReferenceError{
					Kind:  kind,
					ID:    e.ID,
					Field: "dependencies",
					Ref:   dep,
				})
			}
		}
	}

	for _, cycle := range dependencyCycles(ns.byID, ns.order) {
		violations = append(violations, &tracker.CycleError{
			Kind:  kind,
			Field: "dependencies",
			IDs:   append(cycle, cycle[0]),
		})
	}

	return violations
}

// onOwnCycle reports whether the id closes the chain itself, rather than
// merely hanging off an ancestor loop.
func onOwnCycle(id tracker.EntityID, chain []tracker.EntityID) bool {
	return len(chain) > 1 && chain[len(chain)-1] == id
}

// lowestOnCycle returns the smallest id on a closed chain.
func lowestOnCycle(chain []tracker.EntityID) tracker.EntityID {
	lowest := chain[0]
	for _, id := range chain[1:] {
		if id.Less(lowest) {
			lowest = id
		}
	}
	return lowest
}
