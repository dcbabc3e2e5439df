package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/warrenlabs/warren/internal/workspace"
	"github.com/warrenlabs/warren/pkg/tracker"
)

var (
	listStatus   string
	listPriority string
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List entities of a kind",
	Long: `List all entities of a kind in ascending id order, optionally filtered
by status and priority. Use --json for line-delimited JSON output.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&listPriority, "priority", "", "Filter by priority")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as line-delimited JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}

	ws, err := workspace.Open()
	if err != nil {
		return err
	}

	entities, err := ws.Store.List(kind)
	if err != nil {
		return err
	}

	var filtered []*tracker.Entity
	for _, e := range entities {
		if listStatus != "" && string(e.Status) != listStatus {
			continue
		}
		if listPriority != "" && string(e.Priority) != listPriority {
			continue
		}
		filtered = append(filtered, e)
	}

	if listJSON {
		enc := json.NewEncoder(os.Stdout)
		for _, e := range filtered {
			if err := enc.Encode(e); err != nil {
				return fmt.Errorf("failed to encode entity: %w", err)
			}
		}
		return nil
	}

	if len(filtered) == 0 {
		fmt.Printf("No %s entities found\n", kind)
		return nil
	}

	table := tablewriter.NewTable(os.Stdout)
	table.Header([]string{"ID", "TITLE", "STATUS", "PRIORITY", "DEPS"})
	for _, e := range filtered {
		table.Append([]string{
			e.ID.String(),
			truncate(e.Title, 48),
			string(e.Status),
			string(e.Priority),
			formatDeps(e.Dependencies),
		})
	}
	if err := table.Render(); err != nil {
		return err
	}

	noun := "entity"
	if len(filtered) != 1 {
		noun = "entities"
	}
	fmt.Printf("\n%d %s found\n", len(filtered), noun)
	return nil
}

// truncate shortens a string for table display, counting runes so a
// multi-byte title is never cut mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max-3]) + "..."
	}
	return s
}

// formatDeps renders a dependency list for table display.
func formatDeps(deps []tracker.EntityID) string {
	if len(deps) == 0 {
		return "-"
	}
	parts := make([]string, len(deps))
	for i, d := range deps {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}
