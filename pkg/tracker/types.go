package tracker

import "fmt"

// Entity represents one unit of trackable work: a task, bug fix, or
// feature. Entities are persisted one-per-file as YAML front matter plus a
// free-text Markdown body, and are never physically deleted in normal
// operation - removed work is marked with a terminal status and retained
// for audit history.
type Entity struct {
	ID           EntityID   `yaml:"id" json:"id"`                                         // Unique within the entity's namespace
	Title        string     `yaml:"title" json:"title"`                                   // Short human-readable summary, non-empty
	Kind         Kind       `yaml:"type" json:"type"`                                     // task, bug_fix, or feature
	Status       Status     `yaml:"status" json:"status"`                                 // Lifecycle state (see state machine)
	Priority     Priority   `yaml:"priority" json:"priority"`                             // critical, high, medium, or low
	Feature      *EntityID  `yaml:"feature,omitempty" json:"feature,omitempty"`           // Optional link to the feature this work belongs to
	Subsystems   []string   `yaml:"subsystems,omitempty" json:"subsystems,omitempty"`     // Free-text grouping tags, informational only
	Dependencies []EntityID `yaml:"dependencies,omitempty" json:"dependencies,omitempty"` // Ids that must complete before this entity may start
	ParentID     *EntityID  `yaml:"parent_task,omitempty" json:"parent_task,omitempty"`   // Optional same-kind parent (for sub-entities)

	Body string `yaml:"-" json:"body,omitempty"` // Free-form Markdown body (description, acceptance criteria)
	Path string `yaml:"-" json:"path,omitempty"` // Source file path, set by the store on read
}

// Kind classifies an entity. Each kind is its own namespace: ids are
// unique per kind, and each kind has its own directory and index ledger.
type Kind string

const (
	// KindTask represents a unit of implementation work
	KindTask Kind = "task"

	// KindBugFix represents a defect to diagnose and fix
	KindBugFix Kind = "bug_fix"

	// KindFeature represents a planned feature grouping related tasks
	KindFeature Kind = "feature"
)

// Kinds lists all entity kinds in canonical order.
var Kinds = []Kind{KindTask, KindBugFix, KindFeature}

// Status is an entity's lifecycle state. Normal flow is monotonic
// (pending → in_progress → completed), with failed reachable from
// in_progress. Completed and failed are terminal; re-opening is an
// explicit, journaled override, never a silent transition.
type Status string

const (
	// StatusPending means the entity has not been started
	StatusPending Status = "pending"

	// StatusInProgress means a writer is actively working the entity
	StatusInProgress Status = "in_progress"

	// StatusCompleted means the work finished successfully (terminal)
	StatusCompleted Status = "completed"

	// StatusFailed means the work was abandoned or failed (terminal)
	StatusFailed Status = "failed"
)

// Priority orders entities within a status group in the index ledger.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Validate checks that the entity's local shape is well-formed: required
// fields present, enum fields holding recognized values. Relationships to
// other entities (parent existence, dependency existence, acyclicity) are
// the coordinator's job, not the entity's.
func (e *Entity) Validate() error {
	if err := e.ID.Validate(); err != nil {
		return err
	}

	if e.Title == "" {
		return fmt.Errorf("entity %s: title cannot be empty", e.ID)
	}

	if err := e.Kind.Validate(); err != nil {
		return fmt.Errorf("entity %s: %w", e.ID, err)
	}

	if err := e.Status.Validate(); err != nil {
		return fmt.Errorf("entity %s: %w", e.ID, err)
	}

	if err := e.Priority.Validate(); err != nil {
		return fmt.Errorf("entity %s: %w", e.ID, err)
	}

	if e.ParentID != nil {
		if err := e.ParentID.Validate(); err != nil {
			return fmt.Errorf("entity %s: invalid parent_task: %w", e.ID, err)
		}
	}

	if e.Feature != nil {
		if err := e.Feature.Validate(); err != nil {
			return fmt.Errorf("entity %s: invalid feature reference: %w", e.ID, err)
		}
	}

	for i, dep := range e.Dependencies {
		if err := dep.Validate(); err != nil {
			return fmt.Errorf("entity %s: invalid dependency at index %d: %w", e.ID, i, err)
		}
	}

	// Duplicate dependency entries are a shape error, not a graph error
	seen := make(map[EntityID]bool, len(e.Dependencies))
	for _, dep := range e.Dependencies {
		if seen[dep] {
			return fmt.Errorf("entity %s: duplicate dependency %s", e.ID, dep)
		}
		seen[dep] = true
	}

	return nil
}

// Validate checks if the Kind is a valid enum value.
func (k Kind) Validate() error {
	switch k {
	case KindTask, KindBugFix, KindFeature:
		return nil
	default:
		return fmt.Errorf("unknown entity kind: %q", k)
	}
}

// Validate checks if the Status is a valid enum value.
func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusFailed:
		return nil
	default:
		return fmt.Errorf("unknown status: %q", s)
	}
}

// Validate checks if the Priority is a valid enum value.
func (p Priority) Validate() error {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return nil
	default:
		return fmt.Errorf("unknown priority: %q", p)
	}
}

// Rank returns the priority's sort rank; critical sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	default:
		return 3
	}
}

// Rank returns the status's ledger group rank: active work first, then
// queued work, then terminal states.
func (s Status) Rank() int {
	switch s {
	case StatusInProgress:
		return 0
	case StatusPending:
		return 1
	case StatusCompleted:
		return 2
	default:
		return 3
	}
}
