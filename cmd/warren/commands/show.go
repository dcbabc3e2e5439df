package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/warrenlabs/warren/internal/workspace"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <kind> <id>",
	Short: "Show one entity in full",
	Long: `Show the complete entity file for (kind, id): the front matter and the
free-text body. Use --json for machine-readable output.`,
	Args: cobra.ExactArgs(2),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	kind, id, err := parseKindID(args)
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

	if showJSON {
		data, err := json.MarshalIndent(e, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entity: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	content, err := os.ReadFile(e.Path)
	if err != nil {
		return err
	}
	os.Stdout.Write(content)
	return nil
}
