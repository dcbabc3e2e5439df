// Package ledger maintains the per-namespace index files (TASKS.md,
// BUGS.md, PLAN.md): one summary line per entity, derived entirely from
// the entity store. The ledger holds no information of its own - it is a
// rebuildable cache kept human-readable for review and diff-friendly for
// version control.
package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/warrenlabs/warren/internal/store"
	"github.com/warrenlabs/warren/pkg/tracker"
)

// Entry is the denormalized one-line projection of an entity held in an
// index ledger. Status and Priority are kept as raw strings so that stale
// or hand-mangled ledger values remain representable for drift reporting.
type Entry struct {
	ID       tracker.EntityID
	Title    string
	Status   string
	Priority string
}

// Ledger derives and maintains index files over an entity store.
type Ledger struct {
	store *store.Store
}

// New creates a Ledger over the given store.
func New(st *store.Store) *Ledger {
	return &Ledger{store: st}
}

// Path returns the absolute path of the index file for a kind.
func (l *Ledger) Path(kind tracker.Kind) string {
	return filepath.Join(l.store.Root(), kind.LedgerFile())
}

// Rebuild regenerates the full index file for a kind from the entity
// store: one line per entity, grouped by status (active work first), then
// by priority (critical first), then by ascending id. The derivation is
// pure, so two consecutive rebuilds with no intervening writes produce
// byte-identical output. Fails on the first malformed entity file; repair
// paths that must tolerate bad files use RebuildFrom with a scanned view.
func (l *Ledger) Rebuild(kind tracker.Kind) ([]Entry, error) {
	entities, err := l.store.List(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s entities: %w", kind, err)
	}

	return l.RebuildFrom(kind, entities)
}

// RebuildFrom regenerates the index file from an already-loaded entity
// set instead of re-reading the store. Reconcile repairs through this
// with the tolerant Scan view, so unparseable files and duplicate-id
// claimants stay out of the rebuilt ledger rather than aborting the
// repair.
func (l *Ledger) RebuildFrom(kind tracker.Kind, entities []*tracker.Entity) ([]Entry, error) {
	entities = append([]*tracker.Entity(nil), entities...)

	sort.SliceStable(entities, func(i, j int) bool {
		a, b := entities[i], entities[j]
		if a.Status.Rank() != b.Status.Rank() {
			return a.Status.Rank() < b.Status.Rank()
		}
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		return a.ID.Less(b.ID)
	})

	entries := make([]Entry, len(entities))
	for i, e := range entities {
		entries[i] = entryFor(e)
	}

	if err := store.AtomicWriteFile(l.Path(kind), renderDocument(kind, entries)); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", kind.LedgerFile(), err)
	}

	return entries, nil
}

// ApplyDelta incrementally updates the index file for the given changed
// ids: affected lines are re-rendered in place and newly created entities
// are appended, preserving the order of unaffected lines to minimize diff
// noise under version control. Falls back to a full Rebuild when the
// ledger file is missing, corrupt, or its entry count disagrees with the
// store (self-healing on drift).
func (l *Ledger) ApplyDelta(kind tracker.Kind, changed []tracker.EntityID) error {
	entries, err := l.Load(kind)
	if err != nil {
		// Missing or corrupt ledger: derive it from scratch.
		_, err := l.Rebuild(kind)
		return err
	}

	entities, err := l.store.List(kind)
	if err != nil {
		return fmt.Errorf("failed to read %s entities: %w", kind, err)
	}

	if len(entities) != len(entries) {
		_, err := l.Rebuild(kind)
		return err
	}

	byID := make(map[tracker.EntityID]*tracker.Entity, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
	}

	index := make(map[tracker.EntityID]int, len(entries))
	for i, en := range entries {
		index[en.ID] = i
	}

	for _, id := range changed {
		entity, ok := byID[id]
		if !ok {
			// Changed id no longer resolves to an entity: the ledger can
			// only be trusted after a full re-derivation.
			_, err := l.Rebuild(kind)
			return err
		}

		if i, ok := index[id]; ok {
			entries[i] = entryFor(entity)
		} else {
			entries = append(entries, entryFor(entity))
			index[id] = len(entries) - 1
		}
	}

	if len(entries) != len(entities) {
		_, err := l.Rebuild(kind)
		return err
	}

	if err := store.AtomicWriteFile(l.Path(kind), renderDocument(kind, entries)); err != nil {
		return fmt.Errorf("failed to write %s: %w", kind.LedgerFile(), err)
	}

	return nil
}

// Load parses the current index file for a kind. A missing file returns a
// NotFoundError-free os error; a structurally broken file returns a
// ParseError so callers can distinguish corruption from absence.
func (l *Ledger) Load(kind tracker.Kind) ([]Entry, error) {
	content, err := os.ReadFile(l.Path(kind))
	if err != nil {
		return nil, err
	}

	entries, err := parseDocument(content)
	if err != nil {
		return nil, &tracker.ParseError{Path: l.Path(kind), Err: err}
	}

	return entries, nil
}

// entryFor projects an entity to its ledger line.
func entryFor(e *tracker.Entity) Entry {
	return Entry{
		ID:       e.ID,
		Title:    e.Title,
		Status:   string(e.Status),
		Priority: string(e.Priority),
	}
}
