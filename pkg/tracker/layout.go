package tracker

import (
	"fmt"
	"strings"
)

// File layout helpers
//
// All Warren state lives under a single .warren/ directory at the
// workspace root. Each namespace has an entity directory and an index
// ledger file:
//
//	Entity file:  .warren/{dir}/{prefix}{id}_{slug}.md
//	Sub-entity:   .warren/{dir}/{prefix}{parent}.{n}_{slug}.md
//	Ledger file:  .warren/TASKS.md | BUGS.md | PLAN.md

// RootDir is the name of the Warren state directory.
const RootDir = ".warren"

// Dir returns the entity directory name for a kind, relative to the
// Warren root.
func (k Kind) Dir() string {
	switch k {
	case KindBugFix:
		return "bugs"
	case KindFeature:
		return "features"
	default:
		return "tasks"
	}
}

// FilePrefix returns the entity file name prefix for a kind.
func (k Kind) FilePrefix() string {
	switch k {
	case KindBugFix:
		return "bug"
	case KindFeature:
		return "feature"
	default:
		return "task"
	}
}

// LedgerFile returns the index ledger file name for a kind, relative to
// the Warren root.
func (k Kind) LedgerFile() string {
	switch k {
	case KindBugFix:
		return "BUGS.md"
	case KindFeature:
		return "PLAN.md"
	default:
		return "TASKS.md"
	}
}

// EntityFileName builds the canonical file name for an entity:
// {prefix}{id}_{slug}.md, e.g. "task42_add-login-form.md" or
// "task42.1_wire-oauth.md".
func EntityFileName(kind Kind, id EntityID, title string) string {
	return fmt.Sprintf("%s%s_%s.md", kind.FilePrefix(), id, Slugify(title))
}

// ParseEntityFileName extracts the entity id from a file name of the
// canonical form. The slug is advisory only; the id between the kind
// prefix and the first underscore is authoritative.
func ParseEntityFileName(kind Kind, name string) (EntityID, error) {
	base := strings.TrimSuffix(name, ".md")
	if base == name {
		return EntityID{}, fmt.Errorf("entity file %q: missing .md extension", name)
	}

	prefix := kind.FilePrefix()
	if !strings.HasPrefix(base, prefix) {
		return EntityID{}, fmt.Errorf("entity file %q: expected prefix %q", name, prefix)
	}

	rest := strings.TrimPrefix(base, prefix)
	idPart, _, _ := strings.Cut(rest, "_")

	id, err := ParseID(idPart)
	if err != nil {
		return EntityID{}, fmt.Errorf("entity file %q: %w", name, err)
	}

	return id, nil
}

// Slugify reduces a title to a lowercase hyphen-separated slug suitable
// for a file name. Non-alphanumeric runs collapse to single hyphens; the
// slug is capped at 40 characters to keep paths short.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}

		if b.Len() >= 40 {
			break
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "untitled"
	}
	return slug
}
