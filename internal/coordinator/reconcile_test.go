package coordinator

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warrenlabs/warren/internal/journal"
	"github.com/warrenlabs/warren/pkg/tracker"
)

func TestReconcile_CleanWorkspace(t *testing.T) {
	f := newFixture(t)

	f.createTask(t, 1, "Tracked", tracker.StatusPending)
	_, err := f.ledger.Rebuild(tracker.KindTask)
	require.NoError(t, err)

	report, err := f.coordinator.Reconcile(tracker.KindTask, false)
	require.NoError(t, err)
	assert.True(t, report.Clean())
	assert.False(t, report.Repaired)
}

func TestReconcile_MissingLedger(t *testing.T) {
	f := newFixture(t)

	f.createTask(t, 1, "Untracked", tracker.StatusPending)

	report, err := f.coordinator.Reconcile(tracker.KindTask, false)
	require.NoError(t, err)
	require.Len(t, report.Drift, 1)
	assert.Equal(t, "document", report.Drift[0].Field)
	assert.Equal(t, "missing", report.Drift[0].Actual)
}

func TestReconcile_MissingLedgerLine(t *testing.T) {
	f := newFixture(t)

	f.createTask(t, 1, "Tracked", tracker.StatusPending)
	_, err := f.ledger.Rebuild(tracker.KindTask)
	require.NoError(t, err)

	// A second writer creates an entity without touching the ledger.
	f.createTask(t, 2, "Untracked", tracker.StatusPending)

	report, err := f.coordinator.Reconcile(tracker.KindTask, false)
	require.NoError(t, err)
	require.Len(t, report.Drift, 1)
	assert.Equal(t, tracker.EntityID{Num: 2}, report.Drift[0].ID)
	assert.Equal(t, "missing ledger line", report.Drift[0].Actual)
}

func TestReconcile_OrphanLedgerLine(t *testing.T) {
	f := newFixture(t)

	e := f.createTask(t, 1, "Keeper", tracker.StatusPending)
	f.createTask(t, 2, "Doomed", tracker.StatusPending)
	_, err := f.ledger.Rebuild(tracker.KindTask)
	require.NoError(t, err)

	// An entity file vanishes without a ledger update.
	doomed, err := f.store.Read(tracker.KindTask, tracker.EntityID{Num: 2})
	require.NoError(t, err)
	require.NoError(t, os.Remove(doomed.Path))

	report, err := f.coordinator.Reconcile(tracker.KindTask, false)
	require.NoError(t, err)
	require.Len(t, report.Drift, 1)
	assert.Equal(t, tracker.EntityID{Num: 2}, report.Drift[0].ID)
	assert.Contains(t, report.Drift[0].Actual, "orphan line")
	assert.False(t, report.Repaired)

	// Repair rebuilds the ledger from the store and journals the repair.
	report, err = f.coordinator.Reconcile(tracker.KindTask, true)
	require.NoError(t, err)
	assert.True(t, report.Repaired)

	entries, err := f.ledger.Load(tracker.KindTask)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, e.ID, entries[0].ID)

	journaled, err := f.journal.Entries()
	require.NoError(t, err)
	require.Len(t, journaled, 1)
	assert.Equal(t, journal.ActionRepair, journaled[0].Action)
	assert.Equal(t, tracker.KindTask, journaled[0].Kind)

	// The workspace has converged: a further pass is clean.
	report, err = f.coordinator.Reconcile(tracker.KindTask, false)
	require.NoError(t, err)
	assert.True(t, report.Clean())
}

func TestReconcile_StaleFields(t *testing.T) {
	f := newFixture(t)

	e := f.createTask(t, 1, "Old title", tracker.StatusPending)
	_, err := f.ledger.Rebuild(tracker.KindTask)
	require.NoError(t, err)

	// The entity changes underneath the ledger.
	e.Title = "New title"
	e.Status = tracker.StatusInProgress
	require.NoError(t, f.store.Write(e))

	report, err := f.coordinator.Reconcile(tracker.KindTask, false)
	require.NoError(t, err)
	require.Len(t, report.Drift, 2)

	fields := map[string][2]string{}
	for _, d := range report.Drift {
		fields[d.Field] = [2]string{d.Expected, d.Actual}
	}
	assert.Equal(t, [2]string{"New title", "Old title"}, fields["title"])
	assert.Equal(t, [2]string{"in_progress", "pending"}, fields["status"])
}

func TestReconcile_CorruptLedger(t *testing.T) {
	f := newFixture(t)

	f.createTask(t, 1, "Tracked", tracker.StatusPending)
	require.NoError(t, os.WriteFile(f.ledger.Path(tracker.KindTask),
		[]byte("# Tasks\n\n| ID | Title | Status | Priority |\n|----|-------|--------|----------|\n| garbage row |\n"), 0644))

	report, err := f.coordinator.Reconcile(tracker.KindTask, true)
	require.NoError(t, err)
	require.NotEmpty(t, report.Drift)
	assert.Equal(t, "document", report.Drift[0].Field)
	assert.Contains(t, report.Drift[0].Actual, "corrupt")
	assert.True(t, report.Repaired)

	entries, err := f.ledger.Load(tracker.KindTask)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReconcile_DuplicateIDConflict(t *testing.T) {
	f := newFixture(t)

	f.createTask(t, 1, "Fine", tracker.StatusPending)
	_, err := f.ledger.Rebuild(tracker.KindTask)
	require.NoError(t, err)

	// Two uncoordinated writers both created id 5 with different slugs.
	for _, v := range []struct{ name, title string }{
		{"task5_add-caching.md", "Add caching"},
		{"task5_cache-layer.md", "Cache layer"},
	} {
		f.writeRawTask(t, v.name,
			"---\nid: 5\ntitle: "+v.title+"\ntype: task\nstatus: pending\npriority: high\n---\n")
	}

	report, err := f.coordinator.Reconcile(tracker.KindTask, true)
	require.NoError(t, err)

	// The collision is a conflict naming both claimants, never repaired
	// by picking a winner.
	require.Len(t, report.Conflicts, 1)
	var dup *tracker.DuplicateIDError
	require.True(t, errors.As(report.Conflicts[0], &dup))
	assert.Equal(t, tracker.EntityID{Num: 5}, dup.ID)
	assert.Len(t, dup.Paths, 2)
	assert.ElementsMatch(t, []string{"Add caching", "Cache layer"}, dup.Titles)

	// The conflicted id produced no drift findings and no repair.
	assert.Empty(t, report.Drift)
	assert.False(t, report.Repaired)

	// Both claimant files are still on disk.
	files, err := os.ReadDir(f.store.KindDir(tracker.KindTask))
	require.NoError(t, err)
	assert.Len(t, files, 3)
}

func TestReconcile_RepairToleratesBrokenFiles(t *testing.T) {
	f := newFixture(t)

	f.createTask(t, 1, "Tracked", tracker.StatusPending)
	_, err := f.ledger.Rebuild(tracker.KindTask)
	require.NoError(t, err)

	// Another writer leaves an untracked entity (drift) and a mangled
	// file (conflict) behind. Repair must fix the former despite the
	// latter.
	f.createTask(t, 2, "Untracked", tracker.StatusPending)
	f.writeRawTask(t, "task3_broken.md", "no front matter here\n")

	report, err := f.coordinator.Reconcile(tracker.KindTask, true)
	require.NoError(t, err)
	assert.True(t, report.Repaired)

	require.Len(t, report.Conflicts, 1)
	var parseErr *tracker.ParseError
	assert.True(t, errors.As(report.Conflicts[0], &parseErr))

	entries, err := f.ledger.Load(tracker.KindTask)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, tracker.EntityID{Num: 1}, entries[0].ID)
	assert.Equal(t, tracker.EntityID{Num: 2}, entries[1].ID)

	// Drift is gone; only the conflict remains for a human.
	report, err = f.coordinator.Reconcile(tracker.KindTask, false)
	require.NoError(t, err)
	assert.Empty(t, report.Drift)
	assert.Len(t, report.Conflicts, 1)
	assert.False(t, report.Repaired)
}

func TestReconcile_RepairConvergesOnDuplicateIDs(t *testing.T) {
	f := newFixture(t)

	f.createTask(t, 1, "Fine", tracker.StatusPending)
	_, err := f.ledger.Rebuild(tracker.KindTask)
	require.NoError(t, err)

	// Unrelated drift to trigger a repair, plus a duplicate-id conflict.
	f.createTask(t, 2, "Untracked", tracker.StatusPending)
	for _, v := range []struct{ name, title string }{
		{"task5_add-caching.md", "Add caching"},
		{"task5_cache-layer.md", "Cache layer"},
	} {
		f.writeRawTask(t, v.name,
			"---\nid: 5\ntitle: "+v.title+"\ntype: task\nstatus: pending\npriority: high\n---\n")
	}

	report, err := f.coordinator.Reconcile(tracker.KindTask, true)
	require.NoError(t, err)
	assert.True(t, report.Repaired)
	require.Len(t, report.Conflicts, 1)

	// The rebuilt ledger carries no row for the contested id.
	entries, err := f.ledger.Load(tracker.KindTask)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, en := range entries {
		assert.NotEqual(t, tracker.EntityID{Num: 5}, en.ID)
	}

	// Repair has converged: further passes find no drift to re-repair.
	report, err = f.coordinator.Reconcile(tracker.KindTask, true)
	require.NoError(t, err)
	assert.Empty(t, report.Drift)
	assert.False(t, report.Repaired)
	assert.Len(t, report.Conflicts, 1)
}

func TestReconcile_DuplicateLedgerLinesForConflictedID(t *testing.T) {
	f := newFixture(t)

	for _, v := range []struct{ name, title string }{
		{"task5_add-caching.md", "Add caching"},
		{"task5_cache-layer.md", "Cache layer"},
	} {
		f.writeRawTask(t, v.name,
			"---\nid: 5\ntitle: "+v.title+"\ntype: task\nstatus: pending\npriority: high\n---\n")
	}

	// A previous buggy writer listed both claimants in the ledger. The
	// rows belong to the reported conflict, not to drift.
	stale := "# Tasks\n\n| ID | Title | Status | Priority |\n|----|-------|--------|----------|\n" +
		"| 5 | Add caching | pending | high |\n| 5 | Cache layer | pending | high |\n"
	require.NoError(t, os.WriteFile(f.ledger.Path(tracker.KindTask), []byte(stale), 0644))

	report, err := f.coordinator.Reconcile(tracker.KindTask, true)
	require.NoError(t, err)
	assert.Empty(t, report.Drift)
	assert.False(t, report.Repaired)
	assert.Len(t, report.Conflicts, 1)
}

func TestReconcileAll_CoversEveryNamespace(t *testing.T) {
	f := newFixture(t)

	f.createTask(t, 1, "Task side", tracker.StatusPending)

	reports, err := f.coordinator.ReconcileAll(true)
	require.NoError(t, err)
	require.Len(t, reports, len(tracker.Kinds))

	for _, report := range reports {
		assert.True(t, report.Repaired, "%s ledger should have been created", report.Kind)
	}

	// Every ledger now exists and a second pass is clean.
	reports, err = f.coordinator.ReconcileAll(false)
	require.NoError(t, err)
	for _, report := range reports {
		assert.True(t, report.Clean())
	}
}
