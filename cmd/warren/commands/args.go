package commands

import (
	"fmt"

	"github.com/warrenlabs/warren/pkg/tracker"
)

// parseKind resolves a user-supplied kind argument, accepting the
// singular namespace names and common aliases.
func parseKind(arg string) (tracker.Kind, error) {
	switch arg {
	case "task", "tasks":
		return tracker.KindTask, nil
	case "bug", "bugs", "bug_fix":
		return tracker.KindBugFix, nil
	case "feature", "features":
		return tracker.KindFeature, nil
	default:
		return "", fmt.Errorf("unknown kind %q (expected task, bug, or feature)", arg)
	}
}

// parseKindID resolves the common "<kind> <id>" argument pair.
func parseKindID(args []string) (tracker.Kind, tracker.EntityID, error) {
	kind, err := parseKind(args[0])
	if err != nil {
		return "", tracker.EntityID{}, err
	}

	id, err := tracker.ParseID(args[1])
	if err != nil {
		return "", tracker.EntityID{}, err
	}

	return kind, id, nil
}
