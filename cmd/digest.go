package cmd

import (
	"fmt"

	"github.com/nethalo/sqlclass/internal/cache"
	"github.com/nethalo/sqlclass/internal/classifier"
	"github.com/nethalo/sqlclass/internal/mysql"
	"github.com/nethalo/sqlclass/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var digestCmd = &cobra.Command{
	Use:          "digest",
	Short:        "Classify the busiest statements of a running server",
	SilenceUsage: true, // Don't show usage on errors
	Long: `Connect to a MySQL instance, read the statement digests with the highest
total latency from performance_schema and classify a sample of each.

Digests that write are flagged when the server is read only, and digests
that could only be classified from their keywords are flagged for review.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		connCfg := connectionConfig()

		// Prompt for password if not provided
		if connCfg.Password == "" {
			connCfg.Password = mysql.PromptPassword(cmd.ErrOrStderr())
		}

		ctx := commandContext(cmd)
		conn, err := mysql.Connect(ctx, connCfg)
		if err != nil {
			return fmt.Errorf("connection failed: %w", err)
		}
		defer conn.Close()

		server, err := mysql.GetServerInfo(ctx, conn)
		if err != nil {
			return fmt.Errorf("reading server state: %w", err)
		}

		schema, _ := cmd.Flags().GetString("schema")
		limit, _ := cmd.Flags().GetInt("limit")
		digests, err := mysql.TopDigests(ctx, conn, server.Version, schema, limit)
		if err != nil {
			return err
		}

		log := newLogger(cmd.ErrOrStderr())
		c, err := newClassifier(log, nil)
		if err != nil {
			return err
		}
		records, err := cache.New(c, viper.GetInt("classifier.cache_size"), nil)
		if err != nil {
			return err
		}

		reports := buildDigestReports(records, server, digests)
		renderer := output.NewRenderer(viper.GetString("format"), cmd.OutOrStdout())
		renderer.RenderDigests(server, reports)
		return nil
	},
}

func buildDigestReports(records *cache.Cache, server *mysql.ServerInfo, digests []mysql.Digest) []output.DigestReport {
	reports := make([]output.DigestReport, 0, len(digests))
	for _, d := range digests {
		rec := records.GetOrClassify(d.Statement())
		reports = append(reports, output.DigestReport{
			Digest:  d,
			Record:  rec,
			Warning: digestWarning(server, rec),
		})
	}
	return reports
}

// digestWarning explains why a digest needs attention, or returns "".
func digestWarning(server *mysql.ServerInfo, rec *classifier.Record) string {
	switch {
	case rec.Status() == classifier.Invalid:
		return "statement could not be classified; a proxy routes it to the primary"
	case !server.Writable() && !rec.ReplicaSafe():
		if server.IsReplica {
			return "statement is not read-only but runs on a replica"
		}
		return "statement is not read-only but the server is read only"
	case rec.Status() < classifier.PartiallyParsed:
		return "statement was classified from its keywords only"
	}
	return ""
}

func init() {
	rootCmd.AddCommand(digestCmd)
	digestCmd.Flags().String("schema", "", "Only digests of this schema")
	digestCmd.Flags().Int("limit", mysql.DefaultDigestLimit, "Number of digests to classify")
}
