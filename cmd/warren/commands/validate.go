package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warrenlabs/warren/internal/printer"
	"github.com/warrenlabs/warren/internal/workspace"
	"github.com/warrenlabs/warren/pkg/tracker"
)

var validateCmd = &cobra.Command{
	Use:   "validate [kind]",
	Short: "Check every entity against the store invariants",
	Long: `Sweep one namespace (or all of them) and report every violation:
unparseable files, schema problems, duplicate ids, dangling references,
parent and dependency cycles. Exits non-zero if anything is wrong.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	total := 0
	for _, kind := range kinds {
		violations := ws.Coordinator.ValidateAll(kind)
		if len(violations) == 0 {
			continue
		}
		printer.Violations(fmt.Sprintf("%s namespace:", kind), violations)
		total += len(violations)
	}

	if total > 0 {
		return fmt.Errorf("%d validation error(s)", total)
	}

	printer.Success("All entities are valid\n")
	return nil
}
