package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const versionTemplate = `sqlclass {{.Version}}

Statements are parsed with the MySQL 8.0 grammar. Statements the grammar
rejects are classified from their leading keywords.
`

// Version is set at build time via ldflags
var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print sqlclass version and the SQL dialect it understands",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sqlclass %s (commit: %s, built: %s)\n\n", Version, CommitSHA, BuildDate)
		fmt.Fprintln(out, "Understands:")
		fmt.Fprintln(out, "  • MySQL 8.0 / 8.4 statement grammar (including Percona Server)")
		fmt.Fprintln(out, "  • Keyword fallback for statements outside the grammar")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Digest sampling needs MySQL 8.0.3 or later; older servers report normalized text.")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	// Enable the standard --version flag, matching the `version` subcommand output.
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, CommitSHA, BuildDate)
	rootCmd.SetVersionTemplate(versionTemplate)
}
