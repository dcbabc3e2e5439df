// Package journal provides the append-only audit journal for operations
// that must never happen silently: reopening a terminal entity and
// reconcile repairs. The journal is a JSONL file under the .warren
// directory; each line is one self-contained entry.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/warrenlabs/warren/pkg/tracker"
)

// FileName is the journal file name under the .warren directory.
const FileName = "journal.jsonl"

// Action classifies a journal entry.
type Action string

const (
	// ActionReopen records an explicit terminal→pending override
	ActionReopen Action = "reopen"

	// ActionRepair records an auto-repair applied by reconcile
	ActionRepair Action = "repair"
)

// Entry is one journaled event.
type Entry struct {
	ID     string       `json:"id"`               // UUID of this journal entry
	At     time.Time    `json:"at"`               // When the event was recorded (UTC)
	Writer string       `json:"writer"`           // Identity of the acting writer
	Action Action       `json:"action"`           // reopen or repair
	Kind   tracker.Kind `json:"kind"`             // Namespace of the affected entity
	Entity string       `json:"entity,omitempty"` // Textual entity id, empty for namespace-wide events
	Detail string       `json:"detail"`           // Human-readable description
}

// Journal appends audit entries on behalf of one writer.
type Journal struct {
	path   string
	writer string
}

// New creates a Journal under the given .warren directory, attributing
// entries to the given writer identity.
func New(root, writer string) *Journal {
	return &Journal{
		path:   filepath.Join(root, FileName),
		writer: writer,
	}
}

// Record appends one entry. The entry is marshalled to a single line and
// written with O_APPEND in one write call, so interleaved writers do not
// tear each other's lines.
func (j *Journal) Record(action Action, kind tracker.Kind, entity, detail string) error {
	entry := Entry{
		ID:     uuid.New().String(),
		At:     time.Now().UTC(),
		Writer: j.writer,
		Action: action,
		Kind:   kind,
		Entity: entity,
		Detail: detail,
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}

	return nil
}

// Entries reads all journal entries, oldest first. A missing journal is
// an empty journal. Unreadable lines are skipped: the journal is an audit
// aid, not a source of truth.
func (j *Journal) Entries() ([]Entry, error) {
	f, err := os.Open(j.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	return entries, nil
}
