// Package tracker provides the shared type definitions and file layout
// conventions for the Warren task-tracking data layer.
//
// # Overview
//
// Warren stores trackable work as plain Markdown files with a YAML front
// matter block, kept under a .warren/ directory that independent writers
// (AI coding assistants, humans, scripts) read and mutate directly. There
// is no server and no lock manager: the filesystem is the coordination
// medium, and version control is the conflict-resolution layer for
// simultaneous edits to a single file.
//
// # Core concepts
//
// An Entity is one unit of trackable work: a task, a bug fix, or a feature.
// Each entity kind forms its own namespace with its own id space, its own
// entity directory, and its own index ledger (TASKS.md, BUGS.md, PLAN.md).
//
// The index ledger is a derived, regenerable view: one summary line per
// entity. For every entity file exactly one ledger line must exist, and
// vice versa. Restoring that bijection after uncoordinated edits is the
// job of the coordinator's reconcile pass.
//
// Entity status follows a small state machine: pending → in_progress →
// {completed, failed}. An entity may only enter in_progress once every one
// of its dependencies has completed. Terminal entities can be reopened,
// but only as an explicit, journaled override.
//
// # Identifiers
//
// Top-level entities carry integer ids ("42"); sub-entities carry dotted
// ids ("42.1") whose first component names the parent. EntityID models the
// two forms as one tagged type rather than overloading a string field.
package tracker
