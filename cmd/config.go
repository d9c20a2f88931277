package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nethalo/sqlclass/internal/cache"
	"github.com/nethalo/sqlclass/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage sqlclass configuration",
}

var configInitCmd = &cobra.Command{
	Use:          "init",
	Short:        "Create config file interactively",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		reader := bufio.NewReader(cmd.InOrStdin())

		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		configDir := filepath.Join(home, ".sqlclass")
		configPath := filepath.Join(configDir, "config.yaml")

		// Check if config already exists
		if _, err := os.Stat(configPath); err == nil {
			fmt.Fprintf(out, "Config file already exists at %s\n", configPath)
			fmt.Fprint(out, "Overwrite? [y/N]: ")
			answer, _ := reader.ReadString('\n')
			if strings.TrimSpace(strings.ToLower(answer)) != "y" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		// Create config directory
		if err := os.MkdirAll(configDir, 0700); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		fmt.Fprintln(out, "sqlclass configuration setup")
		fmt.Fprintln(out, "────────────────────────────")
		fmt.Fprintln(out)

		ask := func(prompt, def string) string {
			if def != "" {
				fmt.Fprintf(out, "%s [%s]: ", prompt, def)
			} else {
				fmt.Fprintf(out, "%s (optional): ", prompt)
			}
			answer, _ := reader.ReadString('\n')
			answer = strings.TrimSpace(answer)
			if answer == "" {
				return def
			}
			return answer
		}

		host := ask("MySQL host", "127.0.0.1")
		port := ask("MySQL port", "3306")
		user := ask("MySQL user", "sqlclass")
		database := ask("Default database", "")
		format := ask("Default output format", "text")
		listen := ask("HTTP listen address", server.DefaultListen)

		// Build config
		var config strings.Builder
		config.WriteString("# sqlclass configuration\n")
		config.WriteString("# https://github.com/nethalo/sqlclass\n\n")

		config.WriteString("connections:\n")
		config.WriteString("  default:\n")
		config.WriteString(fmt.Sprintf("    host: %s\n", host))
		config.WriteString(fmt.Sprintf("    port: %s\n", port))
		config.WriteString(fmt.Sprintf("    user: %s\n", user))
		config.WriteString("    # password: omitted for security, will prompt\n")
		if database != "" {
			config.WriteString(fmt.Sprintf("    database: %s\n", database))
		}

		config.WriteString("\ndefaults:\n")
		config.WriteString(fmt.Sprintf("  format: %s\n", format))
		config.WriteString("  log_level: warn\n")

		config.WriteString("\nclassifier:\n")
		config.WriteString("  # 0 nothing, 1 non-parsed, 2 non-partially-parsed, 3 non-tokenized\n")
		config.WriteString("  log_unrecognized_statements: 0\n")
		config.WriteString(fmt.Sprintf("  cache_size: %d\n", cache.DefaultSize))

		config.WriteString("\nserve:\n")
		config.WriteString(fmt.Sprintf("  listen: %s\n", listen))

		if err := os.WriteFile(configPath, []byte(config.String()), 0600); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Fprintf(out, "\n✅ Config written to %s\n", configPath)

		// Don't recommend creating root user
		if user != "root" {
			fmt.Fprintln(out, "\nRecommended: create a MySQL user that can only read statement digests:")
			fmt.Fprintln(out)
			fmt.Fprintf(out, "  CREATE USER '%s'@'%%' IDENTIFIED BY '<password>';\n", user)
			fmt.Fprintf(out, "  GRANT SELECT ON performance_schema.* TO '%s'@'%%';\n", user)
			fmt.Fprintf(out, "  GRANT REPLICATION CLIENT ON *.* TO '%s'@'%%';\n", user)
			fmt.Fprintln(out)
		}

		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		configFile := viper.ConfigFileUsed()
		if configFile == "" {
			fmt.Fprintln(out, "No config file found.")
			fmt.Fprintln(out, "Run 'sqlclass config init' to create one.")
			return nil
		}

		fmt.Fprintf(out, "Config file: %s\n\n", configFile)

		data, err := os.ReadFile(configFile)
		if err != nil {
			return fmt.Errorf("reading config: %w", err)
		}

		fmt.Fprintln(out, string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
