package commands

import (
	"github.com/spf13/cobra"
	"github.com/warrenlabs/warren/internal/coordinator"
	"github.com/warrenlabs/warren/internal/printer"
	"github.com/warrenlabs/warren/internal/workspace"
	"github.com/warrenlabs/warren/pkg/tracker"
)

var reopenReason string

var startCmd = &cobra.Command{
	Use:   "start <kind> <id>",
	Short: "Move an entity to in_progress",
	Long: `Move a pending entity to in_progress. The transition is gated: every
dependency must already be completed, and the blocking ids are named
when it is not.`,
	Args: cobra.ExactArgs(2),
	RunE: transitionRunner(tracker.StatusInProgress, coordinator.TransitionOptions{}),
}

var completeCmd = &cobra.Command{
	Use:   "complete <kind> <id>",
	Short: "Mark an in_progress entity completed",
	Args:  cobra.ExactArgs(2),
	RunE:  transitionRunner(tracker.StatusCompleted, coordinator.TransitionOptions{}),
}

var failCmd = &cobra.Command{
	Use:   "fail <kind> <id>",
	Short: "Mark an in_progress entity failed",
	Args:  cobra.ExactArgs(2),
	RunE:  transitionRunner(tracker.StatusFailed, coordinator.TransitionOptions{}),
}

var reopenCmd = &cobra.Command{
	Use:   "reopen <kind> <id>",
	Short: "Reopen a completed or failed entity",
	Long: `Return a terminal entity to pending. Reopening is an explicit override,
never a silent transition: the override and its reason are recorded in
the journal.`,
	Args: cobra.ExactArgs(2),
	RunE: runReopen,
}

func init() {
	reopenCmd.Flags().StringVar(&reopenReason, "reason", "", "Why the entity is being reopened (journaled)")
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(failCmd)
	rootCmd.AddCommand(reopenCmd)
}

// transitionRunner builds a RunE that moves an entity to the target
// status through the coordinator.
func transitionRunner(to tracker.Status, opts coordinator.TransitionOptions) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		kind, id, err := parseKindID(args)
		if err != nil {
			return err
		}

		ws, err := workspace.Open()
		if err != nil {
			return err
		}

		if err := ws.Coordinator.Transition(kind, id, to, opts); err != nil {
			return err
		}

		printer.Success("%s %s is now %s\n", kind, id, to)
		return nil
	}
}

func runReopen(cmd *cobra.Command, args []string) error {
	opts := coordinator.TransitionOptions{Reopen: true, Reason: reopenReason}
	return transitionRunner(tracker.StatusPending, opts)(cmd, args)
}
