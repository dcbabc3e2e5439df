package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "warren",
	Short: "Warren - shared task tracking on plain files",
	Long: `Warren tracks tasks, bugs, and features as Markdown files with YAML
front matter under a shared .warren/ directory, mutated directly by any
writer with filesystem access - AI coding assistants, humans, scripts.

There is no server and no lock manager: per-file writes are atomic,
version control resolves simultaneous edits to a single file, and
'warren reconcile' restores cross-file consistency afterwards.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
