package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warrenlabs/warren/internal/coordinator"
	"github.com/warrenlabs/warren/internal/printer"
	"github.com/warrenlabs/warren/internal/workspace"
)

var reconcileRepair bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [kind]",
	Short: "Detect and optionally repair ledger drift",
	Long: `Compare the index ledgers against the entity store and report every
discrepancy. Drift (orphan lines, missing lines, stale fields) can be
repaired with --repair, which rebuilds the ledger from the entity files
and journals the repair. Conflicts (duplicate ids, unparseable files)
are reported but never auto-resolved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileRepair, "repair", false, "Rebuild drifted ledgers from the entity store")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ws, err := workspace.Open()
	if err != nil {
		return err
	}

	repair := reconcileRepair
	if !cmd.Flags().Changed("repair") && ws.Config.Reconcile != nil && ws.Config.Reconcile.AutoRepair != nil {
		repair = *ws.Config.Reconcile.AutoRepair
	}

	var reports []*coordinator.ReconcileReport
	if len(args) == 1 {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		report, err := ws.Coordinator.Reconcile(kind, repair)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	} else {
		reports, err = ws.Coordinator.ReconcileAll(repair)
		if err != nil {
			return err
		}
	}

	clean := true
	unrepaired := 0
	conflicts := 0
	for _, report := range reports {
		if report.Clean() {
			continue
		}
		clean = false

		if len(report.Conflicts) > 0 {
			printer.Violations(fmt.Sprintf("%s conflicts (manual resolution required):", report.Kind), report.Conflicts)
			conflicts += len(report.Conflicts)
		}

		if len(report.Drift) > 0 {
			drift := make([]error, len(report.Drift))
			for i, d := range report.Drift {
				drift[i] = d
			}
			printer.Violations(fmt.Sprintf("%s drift:", report.Kind), drift)

			if report.Repaired {
				printer.Success("Rebuilt %s from the entity store\n", report.Kind.LedgerFile())
			} else {
				unrepaired += len(report.Drift)
			}
		}
	}

	if clean {
		printer.Success("All ledgers are consistent with the entity store\n")
		return nil
	}

	if unrepaired > 0 {
		return fmt.Errorf("%d drift finding(s) not repaired (run with --repair)", unrepaired)
	}
	if conflicts > 0 {
		// Repaired or not, unresolved conflicts must not exit 0 or
		// scripted writers will sail past them.
		return fmt.Errorf("%d conflict(s) require manual resolution", conflicts)
	}
	return nil
}
