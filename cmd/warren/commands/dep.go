package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warrenlabs/warren/internal/printer"
	"github.com/warrenlabs/warren/internal/workspace"
	"github.com/warrenlabs/warren/pkg/tracker"
)

var depCmd = &cobra.Command{
	Use:   "dep",
	Short: "Manage entity dependencies",
}

var depAddCmd = &cobra.Command{
	Use:   "add <kind> <id> <dep-id>",
	Short: "Add a dependency to an entity",
	Long: `Record that an entity depends on another: the dependency must reach
completed before the entity may move to in_progress. The edit is
validated against the whole namespace, so dangling references and
dependency cycles are rejected.`,
	Args: cobra.ExactArgs(3),
	RunE: runDepAdd,
}

var depRmCmd = &cobra.Command{
	Use:   "rm <kind> <id> <dep-id>",
	Short: "Remove a dependency from an entity",
	Args:  cobra.ExactArgs(3),
	RunE:  runDepRm,
}

func init() {
	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRmCmd)
	rootCmd.AddCommand(depCmd)
}

func runDepAdd(cmd *cobra.Command, args []string) error {
	kind, id, err := parseKindID(args)
	if err != nil {
		return err
	}

	dep, err := tracker.ParseID(args[2])
	if err != nil {
		return err
	}

	ws, err := workspace.Open()
	if err != nil {
		return err
	}

	e, err := ws.Store.Read(kind, id)
	if err != nil {
		return err
	}

	for _, existing := range e.Dependencies {
		if existing == dep {
			printer.Info("%s %s already depends on %s\n", kind, id, dep)
			return nil
		}
	}

	e.Dependencies = append(e.Dependencies, dep)

	if violations := ws.Coordinator.Validate(e); len(violations) > 0 {
		printer.Violations(fmt.Sprintf("Cannot add dependency %s to %s %s:", dep, kind, id), violations)
		return fmt.Errorf("%d validation error(s)", len(violations))
	}

	if err := ws.Store.Write(e); err != nil {
		return err
	}

	printer.Success("%s %s now depends on %s\n", kind, id, dep)
	return nil
}

func runDepRm(cmd *cobra.Command, args []string) error {
	kind, id, err := parseKindID(args)
	if err != nil {
		return err
	}

	dep, err := tracker.ParseID(args[2])
	if err != nil {
		return err
	}

	ws, err := workspace.Open()
	if err != nil {
		return err
	}

	e, err := ws.Store.Read(kind, id)
	if err != nil {
		return err
	}

	kept := e.Dependencies[:0]
	found := false
	for _, existing := range e.Dependencies {
		if existing == dep {
			found = true
			continue
		}
		kept = append(kept, existing)
	}
	if !found {
		return fmt.Errorf("%s %s does not depend on %s", kind, id, dep)
	}
	e.Dependencies = kept

	if err := ws.Store.Write(e); err != nil {
		return err
	}

	printer.Success("Removed dependency %s from %s %s\n", dep, kind, id)
	return nil
}
