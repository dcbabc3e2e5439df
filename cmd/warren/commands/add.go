package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warrenlabs/warren/internal/printer"
	"github.com/warrenlabs/warren/internal/workspace"
	"github.com/warrenlabs/warren/pkg/tracker"
)

var (
	addPriority   string
	addParent     string
	addDeps       []string
	addSubsystems []string
	addBody       string
	addFeature    string
)

var addCmd = &cobra.Command{
	Use:   "add <kind> <title>",
	Short: "Create a new task, bug, or feature",
	Long: `Create a new entity file in the given namespace. The id is assigned
automatically: the next free top-level number, or the next sub-number
under --parent.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "medium", "Priority: critical, high, medium, or low")
	addCmd.Flags().StringVar(&addParent, "parent", "", "Parent entity id (creates a sub-entity)")
	addCmd.Flags().StringSliceVar(&addDeps, "dep", nil, "Dependency id (repeatable)")
	addCmd.Flags().StringSliceVar(&addSubsystems, "subsystem", nil, "Subsystem tag (repeatable)")
	addCmd.Flags().StringVar(&addBody, "body", "", "Free-text body (description, acceptance criteria)")
	addCmd.Flags().StringVar(&addFeature, "feature", "", "Feature id this work belongs to")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	title := strings.Join(args[1:], " ")

	ws, err := workspace.Open()
	if err != nil {
		return err
	}

	e := &tracker.Entity{
		Title:      title,
		Kind:       kind,
		Status:     tracker.StatusPending,
		Priority:   tracker.Priority(addPriority),
		Subsystems: addSubsystems,
		Body:       addBody,
	}

	if addParent != "" {
		parent, err := tracker.ParseID(addParent)
		if err != nil {
			return err
		}
		e.ParentID = &parent
	}

	for _, dep := range addDeps {
		id, err := tracker.ParseID(dep)
		if err != nil {
			return err
		}
		e.Dependencies = append(e.Dependencies, id)
	}

	if addFeature != "" {
		feature, err := tracker.ParseID(addFeature)
		if err != nil {
			return err
		}
		e.Feature = &feature
	}

	e.ID, err = nextID(ws, kind, e.ParentID)
	if err != nil {
		return err
	}

	if violations := ws.Coordinator.Validate(e); len(violations) > 0 {
		printer.Violations(fmt.Sprintf("Cannot create %s %q:", kind, title), violations)
		return fmt.Errorf("%d validation error(s)", len(violations))
	}

	if err := ws.Store.Create(e); err != nil {
		return err
	}

	if err := ws.Ledger.ApplyDelta(kind, []tracker.EntityID{e.ID}); err != nil {
		return err
	}

	printer.Success("Created %s %s: %s\n", kind, e.ID, title)
	return nil
}

// nextID assigns the next free id in a namespace: the highest top-level
// number plus one, or the highest sub-number under the parent plus one.
func nextID(ws *workspace.Workspace, kind tracker.Kind, parent *tracker.EntityID) (tracker.EntityID, error) {
	entities, err := ws.Store.List(kind)
	if err != nil {
		return tracker.EntityID{}, err
	}

	if parent == nil {
		max := 0
		for _, e := range entities {
			if !e.ID.IsSub() && e.ID.Num > max {
				max = e.ID.Num
			}
		}
		return tracker.EntityID{Num: max + 1}, nil
	}

	if parent.IsSub() {
		return tracker.EntityID{}, fmt.Errorf("parent %s is itself a sub-entity; only one level of nesting is supported", parent)
	}

	if _, err := ws.Store.Read(kind, *parent); err != nil {
		return tracker.EntityID{}, err
	}

	maxSub := 0
	for _, e := range entities {
		if e.ID.Num == parent.Num && e.ID.Sub > maxSub {
			maxSub = e.ID.Sub
		}
	}
	return tracker.EntityID{Num: parent.Num, Sub: maxSub + 1}, nil
}
