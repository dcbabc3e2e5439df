package coordinator

import (
	"fmt"
	"os"

	"github.com/warrenlabs/warren/internal/journal"
	"github.com/warrenlabs/warren/internal/ledger"
	"github.com/warrenlabs/warren/pkg/tracker"
)

// ReconcileReport is the outcome of one reconcile pass over a namespace.
//
// Drift entries are auto-repairable: re-deriving the ledger from the
// entity store fixes them. Conflicts are not: duplicate ids from
// concurrent creation and unparseable entity files need a human (or a
// version-control merge) to resolve, and reconcile never silently picks a
// winner.
type ReconcileReport struct {
	Kind      tracker.Kind
	Drift     []*tracker.DriftError // Ledger/store bijection violations
	Conflicts []error               // Duplicate ids, unparseable files
	Repaired  bool                  // Whether drift was repaired this pass
}

// Clean reports whether the namespace had neither drift nor conflicts.
func (r *ReconcileReport) Clean() bool {
	return len(r.Drift) == 0 && len(r.Conflicts) == 0
}

// Reconcile sweeps one namespace, comparing entity store contents against
// the index ledger, and reports every discrepancy: orphan ledger lines
// (entity gone without a ledger update), missing ledger lines (entity
// created without one), and stale fields (ledger line disagreeing with
// the entity's current title, status, or priority).
//
// With repair set, drift is corrected by a full ledger rebuild and the
// repair is journaled. Conflicts are never auto-repaired.
func (c *Coordinator) Reconcile(kind tracker.Kind, repair bool) (*ReconcileReport, error) {
	report := &ReconcileReport{Kind: kind}

	ns := c.load(kind)
	report.Conflicts = ns.problems

	// Ids involved in conflicts are excluded from drift analysis: with
	// two claimant files there is no single truth to compare against.
	conflicted := make(map[tracker.EntityID]bool)
	for _, problem := range ns.problems {
		if dup, ok := problem.(*tracker.DuplicateIDError); ok {
			conflicted[dup.ID] = true
		}
	}

	entries, err := c.ledger.Load(kind)
	switch {
	case os.IsNotExist(err):
		report.Drift = append(report.Drift, &tracker.DriftError{
			Kind:     kind,
			Field:    "document",
			Expected: kind.LedgerFile(),
			Actual:   "missing",
		})
	case err != nil:
		report.Drift = append(report.Drift, &tracker.DriftError{
			Kind:     kind,
			Field:    "document",
			Expected: kind.LedgerFile(),
			Actual:   fmt.Sprintf("corrupt: %v", err),
		})
	default:
		report.Drift = append(report.Drift, diffLedger(ns, entries, conflicted)...)
	}

	if repair && len(report.Drift) > 0 {
		// Repair derives from the tolerant scanned view: a conflicted or
		// unparseable file must not abort the rebuild, and conflicted ids
		// stay out of the ledger until a human resolves them.
		entities := make([]*tracker.Entity, 0, len(ns.order))
		for _, id := range ns.order {
			entities = append(entities, ns.byID[id])
		}
		if _, err := c.ledger.RebuildFrom(kind, entities); err != nil {
			return report, fmt.Errorf("failed to repair %s ledger: %w", kind, err)
		}
		report.Repaired = true

		detail := fmt.Sprintf("rebuilt %s after %d drift finding(s)", kind.LedgerFile(), len(report.Drift))
		if err := c.journal.Record(journal.ActionRepair, kind, "", detail); err != nil {
			return report, fmt.Errorf("ledger repaired but journal append failed: %w", err)
		}
	}

	return report, nil
}

// ReconcileAll reconciles every namespace.
func (c *Coordinator) ReconcileAll(repair bool) ([]*ReconcileReport, error) {
	var reports []*ReconcileReport
	for _, kind := range tracker.Kinds {
		report, err := c.Reconcile(kind, repair)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// diffLedger compares the scanned namespace against parsed ledger entries
// and returns one DriftError per discrepancy, in store order first, then
// ledger order for orphans.
func diffLedger(ns *namespace, entries []ledger.Entry, conflicted map[tracker.EntityID]bool) []*tracker.DriftError {
	var drift []*tracker.DriftError

	entryByID := make(map[tracker.EntityID]*ledger.Entry, len(entries))
	for i := range entries {
		en := &entries[i]
		if _, dup := entryByID[en.ID]; dup {
			if conflicted[en.ID] {
				continue // already reported as a conflict, not drift
			}
			drift = append(drift, &tracker.DriftError{
				Kind:     ns.kind,
				ID:       en.ID,
				Field:    "entry",
				Expected: "one ledger line",
				Actual:   "duplicate ledger lines",
			})
			continue
		}
		entryByID[en.ID] = en
	}

	// Entities without a ledger line, and stale fields.
	for _, id := range ns.order {
		if conflicted[id] {
			continue
		}
		e := ns.byID[id]

		entry, ok := entryByID[id]
		if !ok {
			drift = append(drift, &tracker.DriftError{
				Kind:     ns.kind,
				ID:       id,
				Field:    "entry",
				Expected: e.Title,
				Actual:   "missing ledger line",
			})
			continue
		}

		if entry.Title != e.Title {
			drift = append(drift, &tracker.DriftError{
				Kind: ns.kind, ID: id, Field: "title",
				Expected: e.Title, Actual: entry.Title,
			})
		}
		if entry.Status != string(e.Status) {
			drift = append(drift, &tracker.DriftError{
				Kind: ns.kind, ID: id, Field: "status",
				Expected: string(e.Status), Actual: entry.Status,
			})
		}
		if entry.Priority != string(e.Priority) {
			drift = append(drift, &tracker.DriftError{
				Kind: ns.kind, ID: id, Field: "priority",
				Expected: string(e.Priority), Actual: entry.Priority,
			})
		}
	}

	// Ledger lines without an entity file (orphans).
	for _, en := range entries {
		if conflicted[en.ID] {
			continue
		}
		if _, ok := ns.byID[en.ID]; !ok {
			drift = append(drift, &tracker.DriftError{
				Kind:     ns.kind,
				ID:       en.ID,
				Field:    "entry",
				Expected: "no ledger line",
				Actual:   fmt.Sprintf("orphan line %q", en.Title),
			})
		}
	}

	return drift
}
