package ledger

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/warrenlabs/warren/pkg/tracker"
)

// Ledger document format
//
// A ledger is a Markdown file with a heading and a single table, one row
// per entity with fixed-order fields:
//
//	# Tasks
//
//	| ID | Title | Status | Priority |
//	|----|-------|--------|----------|
//	| 3 | Fix login redirect | in_progress | critical |
//
// The pipe-delimited row is the stable machine format; everything else is
// presentation. Pipes inside titles are escaped as \| on render.

const tableHeader = "| ID | Title | Status | Priority |"
const tableSeparator = "|----|-------|--------|----------|"

// docTitle returns the ledger heading for a kind.
func docTitle(kind tracker.Kind) string {
	switch kind {
	case tracker.KindBugFix:
		return "Bugs"
	case tracker.KindFeature:
		return "Plan"
	default:
		return "Tasks"
	}
}

// renderDocument renders a full ledger document for the given entries, in
// the order given.
func renderDocument(kind tracker.Kind, entries []Entry) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", docTitle(kind))
	buf.WriteString(tableHeader + "\n")
	buf.WriteString(tableSeparator + "\n")

	for _, e := range entries {
		buf.WriteString(renderRow(e) + "\n")
	}

	return buf.Bytes()
}

// renderRow renders one entry as a table row.
func renderRow(e Entry) string {
	return fmt.Sprintf("| %s | %s | %s | %s |",
		e.ID, escapeCell(e.Title), e.Status, e.Priority)
}

// parseDocument extracts the entries from a ledger document. Returns an
// error on any row that does not match the fixed four-field shape, so
// callers treat the whole file as corrupt and fall back to a rebuild.
func parseDocument(content []byte) ([]Entry, error) {
	var entries []Entry

	for lineNo, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "|") {
			continue
		}
		if trimmed == tableHeader || strings.HasPrefix(trimmed, "|--") || strings.HasPrefix(trimmed, "| --") {
			continue
		}

		entry, err := parseRow(trimmed)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// parseRow parses one table row into an Entry.
func parseRow(row string) (Entry, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(row, "|"), "|")
	cells := splitCells(inner)
	if len(cells) != 4 {
		return Entry{}, fmt.Errorf("malformed ledger row (expected 4 fields, got %d): %s", len(cells), row)
	}

	id, err := tracker.ParseID(cells[0])
	if err != nil {
		return Entry{}, fmt.Errorf("malformed ledger row: %w", err)
	}

	return Entry{
		ID:       id,
		Title:    cells[1],
		Status:   cells[2],
		Priority: cells[3],
	}, nil
}

// escapeCell protects pipe characters inside a cell value.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// splitCells splits a row interior on unescaped pipes and trims each
// cell, undoing escapeCell.
func splitCells(inner string) []string {
	var cells []string
	var cell strings.Builder
	escaped := false

	for _, r := range inner {
		switch {
		case escaped:
			if r != '|' {
				cell.WriteByte('\\')
			}
			cell.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteRune(r)
		}
	}
	if escaped {
		cell.WriteByte('\\')
	}
	cells = append(cells, strings.TrimSpace(cell.String()))

	return cells
}
