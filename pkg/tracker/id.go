package tracker

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EntityID identifies an entity within its namespace. Top-level entities
// use a plain integer form ("42"); sub-entities use a dotted form ("42.1")
// whose first component names the parent's number. Ids are unique within a
// namespace; tasks, bugs, and features each have their own id space.
type EntityID struct {
	Num int // Top-level number (>= 1)
	Sub int // Sub-entity number (>= 1), or 0 for top-level entities
}

// ParseID parses the textual form of an entity id: either "42" or "42.1".
func ParseID(s string) (EntityID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return EntityID{}, fmt.Errorf("empty entity id")
	}

	top, sub, dotted := strings.Cut(s, ".")

	num, err := strconv.Atoi(top)
	if err != nil || num < 1 {
		return EntityID{}, fmt.Errorf("invalid entity id %q: number must be a positive integer", s)
	}

	id := EntityID{Num: num}
	if dotted {
		n, err := strconv.Atoi(sub)
		if err != nil || n < 1 {
			return EntityID{}, fmt.Errorf("invalid entity id %q: sub-number must be a positive integer", s)
		}
		id.Sub = n
	}

	return id, nil
}

// String renders the id in its textual form: "42" or "42.1".
func (id EntityID) String() string {
	if id.Sub > 0 {
		return fmt.Sprintf("%d.%d", id.Num, id.Sub)
	}
	return strconv.Itoa(id.Num)
}

// IsZero reports whether the id is unset.
func (id EntityID) IsZero() bool {
	return id.Num == 0 && id.Sub == 0
}

// IsSub reports whether the id names a sub-entity (dotted form).
func (id EntityID) IsSub() bool {
	return id.Sub > 0
}

// TopLevel returns the id of the top-level entity this id belongs to.
// For a top-level id this is the id itself.
func (id EntityID) TopLevel() EntityID {
	return EntityID{Num: id.Num}
}

// Less orders ids by top-level number, then sub-number. Used for the
// deterministic ascending-id ordering of store listings.
func (id EntityID) Less(other EntityID) bool {
	if id.Num != other.Num {
		return id.Num < other.Num
	}
	return id.Sub < other.Sub
}

// Validate checks that the id is well-formed.
func (id EntityID) Validate() error {
	if id.Num < 1 {
		return fmt.Errorf("invalid entity id: number must be >= 1, got %d", id.Num)
	}
	if id.Sub < 0 {
		return fmt.Errorf("invalid entity id: sub-number must be >= 0, got %d", id.Sub)
	}
	return nil
}

// MarshalYAML renders top-level ids as integers and sub-entity ids as
// quoted dotted strings, matching the on-disk front matter convention.
func (id EntityID) MarshalYAML() (interface{}, error) {
	if id.Sub > 0 {
		return id.String(), nil
	}
	return id.Num, nil
}

// MarshalJSON renders the id in its textual form.
func (id EntityID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON accepts the textual form, quoted or (for top-level ids)
// as a bare number.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = string(data)
	}

	parsed, err := ParseID(s)
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}

// UnmarshalYAML accepts both the integer and the dotted-string forms.
func (id *EntityID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("invalid entity id: expected scalar, got %v", value.Kind)
	}

	parsed, err := ParseID(value.Value)
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}
