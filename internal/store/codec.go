package store

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/warrenlabs/warren/pkg/tracker"
	"gopkg.in/yaml.v3"
)

// Entity file codec
//
// An entity file is a YAML front matter block between "---" delimiters,
// followed by a free-text Markdown body:
//
//	---
//	id: 42
//	title: Add login form
//	type: task
//	status: pending
//	priority: high
//	---
//
//	Description and acceptance criteria...
//
// Serialization is canonical: fixed key order, two-space indent, one blank
// line between front matter and body. Re-serializing a parsed entity
// without modification reproduces the same bytes.

// Render serializes an entity to its on-disk form.
func Render(e *tracker.Entity) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(e); err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}

	buf.WriteString("---\n")

	if e.Body != "" {
		buf.WriteString("\n")
		buf.WriteString(e.Body)
		if !strings.HasSuffix(e.Body, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

// Parse decodes an entity file. The path is recorded on the entity and
// used in error messages. Malformed front matter yields a ParseError;
// well-formed front matter with missing or unrecognized field values
// yields a SchemaError.
func Parse(path string, content []byte) (*tracker.Entity, error) {
	front, body, err := splitFrontMatter(content)
	if err != nil {
		return nil, &tracker.ParseError{Path: path, Err: err}
	}

	dec := yaml.NewDecoder(bytes.NewReader(front))
	dec.KnownFields(true)

	var e tracker.Entity
	if err := dec.Decode(&e); err != nil {
		return nil, &tracker.ParseError{Path: path, Err: err}
	}

	if err := checkSchema(path, &e); err != nil {
		return nil, err
	}

	e.Body = body
	e.Path = path
	return &e, nil
}

// splitFrontMatter separates the YAML block from the body. The file must
// open with "---" on its first line and close the block with another
// "---" line.
func splitFrontMatter(content []byte) (front []byte, body string, err error) {
	const delim = "---\n"

	if !bytes.HasPrefix(content, []byte(delim)) {
		return nil, "", fmt.Errorf("missing front matter block (file must start with ---)")
	}

	rest := content[len(delim):]

	if idx := bytes.Index(rest, []byte("\n---\n")); idx >= 0 {
		front = rest[:idx+1]
		body = string(rest[idx+len("\n---\n"):])
	} else if bytes.HasSuffix(rest, []byte("\n---")) {
		front = rest[:len(rest)-len("---")]
		body = ""
	} else {
		return nil, "", fmt.Errorf("unterminated front matter block (missing closing ---)")
	}

	// Strip the single blank separator line added by Render; the body
	// itself is otherwise preserved verbatim.
	body = strings.TrimPrefix(body, "\n")

	return front, body, nil
}

// checkSchema validates required fields and enum values of a freshly
// decoded entity, attributing each failure to its front matter field.
func checkSchema(path string, e *tracker.Entity) error {
	if e.ID.IsZero() {
		return &tracker.SchemaError{Path: path, Field: "id", Err: fmt.Errorf("required field missing")}
	}
	if err := e.ID.Validate(); err != nil {
		return &tracker.SchemaError{Path: path, Field: "id", Err: err}
	}

	if e.Title == "" {
		return &tracker.SchemaError{Path: path, Field: "title", Err: fmt.Errorf("required field missing or empty")}
	}

	if e.Kind == "" {
		return &tracker.SchemaError{Path: path, Field: "type", Err: fmt.Errorf("required field missing")}
	}
	if err := e.Kind.Validate(); err != nil {
		return &tracker.SchemaError{Path: path, Field: "type", Err: err}
	}

	if e.Status == "" {
		return &tracker.SchemaError{Path: path, Field: "status", Err: fmt.Errorf("required field missing")}
	}
	if err := e.Status.Validate(); err != nil {
		return &tracker.SchemaError{Path: path, Field: "status", Err: err}
	}

	if e.Priority == "" {
		return &tracker.SchemaError{Path: path, Field: "priority", Err: fmt.Errorf("required field missing")}
	}
	if err := e.Priority.Validate(); err != nil {
		return &tracker.SchemaError{Path: path, Field: "priority", Err: err}
	}

	if e.ParentID != nil {
		if err := e.ParentID.Validate(); err != nil {
			return &tracker.SchemaError{Path: path, Field: "parent_task", Err: err}
		}
	}

	for _, dep := range e.Dependencies {
		if err := dep.Validate(); err != nil {
			return &tracker.SchemaError{Path: path, Field: "dependencies", Err: err}
		}
	}

	return nil
}
