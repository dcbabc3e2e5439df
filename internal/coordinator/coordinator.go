// Package coordinator enforces the invariants that individual entity
// edits cannot locally guarantee: id uniqueness, parent linkage,
// dependency validity, graph acyclicity, the status state machine, and
// the store/ledger bijection.
//
// The coordinator never locks anything. Independent writers mutate the
// shared files freely; consistency is restored by convergent repair - any
// interleaving of writes followed by a reconcile pass yields a consistent
// state or a clearly reported conflict.
package coordinator

import (
	"github.com/warrenlabs/warren/internal/journal"
	"github.com/warrenlabs/warren/internal/ledger"
	"github.com/warrenlabs/warren/internal/store"
	"github.com/warrenlabs/warren/pkg/tracker"
)

// Coordinator reasons about relationships between entities of one
// workspace.
type Coordinator struct {
	store   *store.Store
	ledger  *ledger.Ledger
	journal *journal.Journal
}

// New creates a Coordinator over the given store, ledger, and journal.
func New(st *store.Store, ld *ledger.Ledger, jn *journal.Journal) *Coordinator {
	return &Coordinator{store: st, ledger: ld, journal: jn}
}

// namespace is the coordinator's working view of one entity kind: every
// cleanly parsed entity indexed by id, plus the problems the scan found
// (parse failures, duplicate ids).
type namespace struct {
	kind     tracker.Kind
	byID     map[tracker.EntityID]*tracker.Entity
	order    []tracker.EntityID // ascending id order, for deterministic reports
	problems []error
}

// load scans a namespace from the store.
func (c *Coordinator) load(kind tracker.Kind) *namespace {
	entities, problems := c.store.Scan(kind)

	ns := &namespace{
		kind:     kind,
		byID:     make(map[tracker.EntityID]*tracker.Entity, len(entities)),
		problems: problems,
	}
	for _, e := range entities {
		ns.byID[e.ID] = e
		ns.order = append(ns.order, e.ID)
	}

	return ns
}
