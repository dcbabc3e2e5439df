package commands

import (
	"github.com/spf13/cobra"
	"github.com/warrenlabs/warren/internal/printer"
	"github.com/warrenlabs/warren/internal/workspace"
	"github.com/warrenlabs/warren/pkg/tracker"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild [kind]",
	Short: "Rebuild index ledgers from the entity store",
	Long: `Re-derive one ledger (or all of them) from the entity files. The
ledger is a pure function of the store, so a rebuild on a consistent
workspace is byte-identical to what is already on disk.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, args []string) error {
	kinds := tracker.Kinds
	if len(args) == 1 {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		kinds = []tracker.Kind{kind}
	}

	ws, err := workspace.Open()
	if err != nil {
		return err
	}

	for _, kind := range kinds {
		entries, err := ws.Ledger.Rebuild(kind)
		if err != nil {
			return err
		}
		printer.Success("Rebuilt %s with %d entries\n", kind.LedgerFile(), len(entries))
	}

	return nil
}
