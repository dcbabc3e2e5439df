// Package store implements the durable entity store: one Markdown file
// with YAML front matter per entity, kept under the .warren directory.
//
// The store validates local shape only (required fields, enum values,
// filename/front-matter id agreement). Relationships between entities are
// the coordinator's concern: an entity referencing a non-existent parent
// or dependency is accepted here and flagged there.
//
// Every write is a single-file atomic replace (temp file + rename), so a
// concurrent reader never observes a partially written entity.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/warrenlabs/warren/pkg/tracker"
)

// Store provides filesystem-backed entity persistence rooted at a
// .warren directory.
type Store struct {
	root string // path to the .warren directory
}

// New creates a Store rooted at the given .warren directory.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the .warren directory the store is rooted at.
func (s *Store) Root() string {
	return s.root
}

// KindDir returns the absolute entity directory for a kind.
func (s *Store) KindDir(kind tracker.Kind) string {
	return filepath.Join(s.root, kind.Dir())
}

// Read locates and parses the entity file for (kind, id).
// Returns a NotFoundError if no file claims the id, a DuplicateIDError if
// more than one file claims it, and ParseError/SchemaError for malformed
// content.
func (s *Store) Read(kind tracker.Kind, id tracker.EntityID) (*tracker.Entity, error) {
	paths, err := s.filesForID(kind, id)
	if err != nil {
		return nil, err
	}

	switch len(paths) {
	case 0:
		return nil, &tracker.NotFoundError{Kind: kind, ID: id}
	case 1:
		return s.readFile(kind, paths[0])
	default:
		return nil, s.duplicateError(kind, id, paths)
	}
}

// Write serializes the entity back to its file via an atomic replace.
// The entity must already exist; use Create for new entities. If the
// entity was read from disk its original path is reused, so retitling an
// entity does not silently fork a second file.
func (s *Store) Write(e *tracker.Entity) error {
	if err := e.Validate(); err != nil {
		return err
	}

	path := e.Path
	if path == "" {
		existing, err := s.filesForID(e.Kind, e.ID)
		if err != nil {
			return err
		}
		switch len(existing) {
		case 0:
			return &tracker.NotFoundError{Kind: e.Kind, ID: e.ID}
		case 1:
			path = existing[0]
		default:
			return s.duplicateError(e.Kind, e.ID, existing)
		}
	}

	content, err := Render(e)
	if err != nil {
		return err
	}

	if err := AtomicWriteFile(path, content); err != nil {
		return fmt.Errorf("failed to write %s %s: %w", e.Kind, e.ID, err)
	}

	e.Path = path
	return nil
}

// Create persists a new entity. Fails with a DuplicateIDError if any file
// in the namespace already claims the id. The O_EXCL create makes two
// same-path racers fail cleanly; same-id different-slug races are caught
// by the pre-check here and, if interleaved, by reconcile afterwards.
func (s *Store) Create(e *tracker.Entity) error {
	if err := e.Validate(); err != nil {
		return err
	}

	dir := s.KindDir(e.Kind)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create entity directory: %w", err)
	}

	existing, err := s.filesForID(e.Kind, e.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return s.duplicateError(e.Kind, e.ID, existing)
	}

	path := filepath.Join(dir, tracker.EntityFileName(e.Kind, e.ID, e.Title))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if os.IsExist(err) {
		return &tracker.DuplicateIDError{Kind: e.Kind, ID: e.ID, Paths: []string{path}}
	}
	if err != nil {
		return fmt.Errorf("failed to create %s %s: %w", e.Kind, e.ID, err)
	}
	f.Close()

	content, err := Render(e)
	if err != nil {
		os.Remove(path)
		return err
	}

	if err := AtomicWriteFile(path, content); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write %s %s: %w", e.Kind, e.ID, err)
	}

	e.Path = path
	return nil
}

// Walk streams all entities of a kind in ascending id order, re-reading
// the filesystem on every call. Iteration stops at the first error from
// the callback or from parsing.
func (s *Store) Walk(kind tracker.Kind, fn func(*tracker.Entity) error) error {
	files, err := s.entityFiles(kind)
	if err != nil {
		return err
	}

	for _, ef := range files {
		e, err := s.readFile(kind, ef.path)
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}

	return nil
}

// List returns all entities of a kind in ascending id order.
func (s *Store) List(kind tracker.Kind) ([]*tracker.Entity, error) {
	var entities []*tracker.Entity
	err := s.Walk(kind, func(e *tracker.Entity) error {
		entities = append(entities, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// Scan reads a full namespace for the coordinator, tolerating bad files.
// It returns every cleanly parsed entity in ascending id order plus one
// problem per malformed file and one DuplicateIDError per id claimed by
// multiple files. Entities with duplicated ids are excluded from the
// result: reconcile reports the conflict rather than picking a winner.
func (s *Store) Scan(kind tracker.Kind) ([]*tracker.Entity, []error) {
	files, err := s.entityFiles(kind)
	if err != nil {
		return nil, []error{err}
	}

	byID := make(map[tracker.EntityID][]string)
	for _, ef := range files {
		byID[ef.id] = append(byID[ef.id], ef.path)
	}

	var entities []*tracker.Entity
	var problems []error

	for _, ef := range files {
		if len(byID[ef.id]) > 1 {
			continue // reported once per id below
		}

		e, err := s.readFile(kind, ef.path)
		if err != nil {
			problems = append(problems, err)
			continue
		}
		entities = append(entities, e)
	}

	for id, paths := range byID {
		if len(paths) > 1 {
			problems = append(problems, s.duplicateError(kind, id, paths))
		}
	}

	return entities, problems
}

// entityFile pairs a parsed filename id with its absolute path.
type entityFile struct {
	id   tracker.EntityID
	path string
}

// entityFiles enumerates the namespace directory, sorted by id then path
// for determinism. Files that do not match the naming convention are
// ignored (editors and merge tools leave strays behind).
func (s *Store) entityFiles(kind tracker.Kind) ([]entityFile, error) {
	dir := s.KindDir(kind)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var files []entityFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") || strings.HasPrefix(name, ".") {
			continue
		}

		id, err := tracker.ParseEntityFileName(kind, name)
		if err != nil {
			continue
		}

		files = append(files, entityFile{id: id, path: filepath.Join(dir, name)})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].id != files[j].id {
			return files[i].id.Less(files[j].id)
		}
		return files[i].path < files[j].path
	})

	return files, nil
}

// filesForID returns every file in the namespace whose filename claims
// the given id.
func (s *Store) filesForID(kind tracker.Kind, id tracker.EntityID) ([]string, error) {
	files, err := s.entityFiles(kind)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, ef := range files {
		if ef.id == id {
			paths = append(paths, ef.path)
		}
	}
	return paths, nil
}

// readFile parses one entity file and cross-checks the filename id
// against the front matter id.
func (s *Store) readFile(kind tracker.Kind, path string) (*tracker.Entity, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &tracker.ParseError{Path: path, Err: err}
	}

	e, err := Parse(path, content)
	if err != nil {
		return nil, err
	}

	nameID, err := tracker.ParseEntityFileName(kind, filepath.Base(path))
	if err == nil && nameID != e.ID {
		return nil, &tracker.SchemaError{
			Path:  path,
			Field: "id",
			Err:   fmt.Errorf("front matter id %s disagrees with filename id %s", e.ID, nameID),
		}
	}

	if e.Kind != kind {
		return nil, &tracker.SchemaError{
			Path:  path,
			Field: "type",
			Err:   fmt.Errorf("entity of kind %s found in %s namespace", e.Kind, kind),
		}
	}

	return e, nil
}

// duplicateError builds a DuplicateIDError naming every claimant path and
// title (titles best-effort: unreadable claimants report "<unreadable>").
func (s *Store) duplicateError(kind tracker.Kind, id tracker.EntityID, paths []string) *tracker.DuplicateIDError {
	titles := make([]string, len(paths))
	for i, p := range paths {
		titles[i] = "<unreadable>"
		if content, err := os.ReadFile(p); err == nil {
			if e, err := Parse(p, content); err == nil {
				titles[i] = e.Title
			}
		}
	}
	return &tracker.DuplicateIDError{Kind: kind, ID: id, Paths: paths, Titles: titles}
}
