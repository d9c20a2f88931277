package cmd

import (
	"fmt"
	"runtime"

	"github.com/nethalo/sqlclass/internal/cache"
	"github.com/nethalo/sqlclass/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [SQL statement]",
	Short: "Classify one statement or a file of statements",
	Long: `Classify MySQL statements and report for each:
  - Parse status (PARSED, PARTIALLY_PARSED, TOKENIZED, INVALID)
  - Statement type flags and principal operation
  - Tables, databases and columns with their usage
  - Whether the statement may be routed to a replica

A file or standard input may hold many statements separated by semicolons;
they are classified in parallel and summarized.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		sqlText, err := getSQLInput(cmd, args)
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

		renderer := output.NewRenderer(viper.GetString("format"), cmd.OutOrStdout())

		// A single argument is classified as given, so that a statement
		// with several parts is reported INVALID the way a proxy sees it.
		if len(args) > 0 && !cmd.Flags().Changed("file") && !cmd.Flags().Changed("stdin") {
			renderer.RenderRecord(sqlText, records.GetOrClassify(sqlText))
			return nil
		}

		stmts, err := splitStatements(sqlText)
		if err != nil {
			return err
		}
		if len(stmts) == 0 {
			return fmt.Errorf("no statements found")
		}

		workers, _ := cmd.Flags().GetInt("workers")
		results := classifyAll(records, stmts, workers)
		log.Debug().Int("statements", len(stmts)).Int("cached", records.Len()).Msg("classification done")

		renderer.RenderBatch(results)
		return nil
	},
}

// classifyAll classifies stmts with at most workers goroutines. Results keep
// the input order.
func classifyAll(records *cache.Cache, stmts []string, workers int) []output.Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(stmts) {
		workers = len(stmts)
	}

	results := make([]output.Result, len(stmts))
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, sql := range stmts {
		g.Go(func() error {
			results[i] = output.Result{SQL: sql, Record: records.GetOrClassify(sql)}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func addClassifyFlags(cmd *cobra.Command) {
	cmd.Flags().String("file", "", "Read SQL from file instead of argument")
	cmd.Flags().Bool("stdin", false, "Read SQL from standard input")
	cmd.Flags().Int("workers", runtime.NumCPU(), "Number of statements classified in parallel")
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	addClassifyFlags(classifyCmd)
}
