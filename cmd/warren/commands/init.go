package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/warrenlabs/warren/internal/printer"
	"github.com/warrenlabs/warren/internal/workspace"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a Warren workspace in the current directory",
	Long: `Initialize a Warren workspace by creating the .warren/ directory:
the warren.yml configuration, one directory per entity kind (tasks,
bugs, features), and an empty index ledger per namespace.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	ws, err := workspace.Init(cwd)
	if err != nil {
		return printer.Error("Failed to initialize workspace", err.Error(), nil)
	}

	printer.Success("Initialized Warren workspace at %s\n", ws.Root)
	printer.Info("Writer identity: %s (override in %s)\n", ws.Config.Writer, "warren.yml")
	return nil
}
