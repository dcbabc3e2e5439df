package tracker

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy
//
// Store errors (NotFound, Parse, Schema, DuplicateID on create) are local:
// they fail the single operation and never corrupt other entities.
// Coordinator errors (DanglingReference, Cycle, DependencyNotSatisfied,
// DuplicateID across files, Drift) describe relationships between entities
// and are collected rather than raised fail-fast, so one validation or
// reconcile pass yields the complete diagnostic.

// NotFoundError indicates no entity file exists for (kind, id).
type NotFoundError struct {
	Kind Kind
	ID   EntityID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: not found", e.Kind, e.ID)
}

// IsNotFound reports whether the error indicates a missing entity.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ParseError indicates a malformed front matter block or an unreadable
// entity file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError indicates a front matter field holding a value outside its
// enumerated or required shape (unknown status, missing title, and so on).
type SchemaError struct {
	Path  string
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s: field %s: %v", e.Path, e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// DuplicateIDError indicates an id collision within a namespace: either a
// create against an existing id, or two independently created files that
// both claim the same id (a concurrent-writer conflict). For the latter,
// Paths and Titles name every claimant so a human can resolve the conflict;
// the system never silently picks one.
type DuplicateIDError struct {
	Kind   Kind
	ID     EntityID
	Paths  []string
	Titles []string
}

func (e *DuplicateIDError) Error() string {
	if len(e.Paths) > 1 {
		return fmt.Sprintf("%s %s: duplicate id claimed by %s (titles: %s)",
			e.Kind, e.ID, strings.Join(e.Paths, ", "), strings.Join(e.Titles, " / "))
	}
	return fmt.Sprintf("%s %s: id already exists", e.Kind, e.ID)
}

// DanglingReferenceError indicates a parent_task or dependency reference
// to an entity that does not exist in the namespace.
type DanglingReferenceError struct {
	Kind  Kind
	ID    EntityID
	Field string // "parent_task" or "dependencies"
	Ref   EntityID
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s %s: %s references non-existent entity %s", e.Kind, e.ID, e.Field, e.Ref)
}

// CycleError indicates a cycle in the parent chain or the dependency
// graph. IDs holds the entities on the detected cycle.
type CycleError struct {
	Kind  Kind
	Field string // "parent_task" or "dependencies"
	IDs   []EntityID
}

func (e *CycleError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("%s: %s cycle involving %s", e.Kind, e.Field, strings.Join(ids, " -> "))
}

// DependencyNotSatisfiedError indicates an attempted pending→in_progress
// transition while one or more dependencies have not completed. Blocking
// names every dependency still in the way.
type DependencyNotSatisfiedError struct {
	Kind     Kind
	ID       EntityID
	Blocking []EntityID
}

func (e *DependencyNotSatisfiedError) Error() string {
	ids := make([]string, len(e.Blocking))
	for i, id := range e.Blocking {
		ids[i] = id.String()
	}
	return fmt.Sprintf("%s %s: cannot start: dependencies not completed: %s",
		e.Kind, e.ID, strings.Join(ids, ", "))
}

// TransitionError indicates a status change that is not an allowed edge in
// the entity state machine.
type TransitionError struct {
	Kind Kind
	ID   EntityID
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	if IsReopen(e.From, e.To) {
		return fmt.Sprintf("%s %s: %s -> %s requires an explicit reopen", e.Kind, e.ID, e.From, e.To)
	}
	return fmt.Sprintf("%s %s: illegal status transition %s -> %s", e.Kind, e.ID, e.From, e.To)
}

// DriftError indicates a store/ledger bijection violation found by
// reconcile: an orphan ledger line, a missing ledger line, or a ledger
// field that disagrees with the entity file.
type DriftError struct {
	Kind     Kind
	ID       EntityID
	Field    string // "entry" for whole-line drift, else the stale field name
	Expected string
	Actual   string
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("%s %s: ledger drift: %s: expected %q, found %q",
		e.Kind, e.ID, e.Field, e.Expected, e.Actual)
}
