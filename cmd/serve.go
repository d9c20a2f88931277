package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/nethalo/sqlclass/internal/cache"
	"github.com/nethalo/sqlclass/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:          "serve",
	Short:        "Serve classifications over HTTP",
	SilenceUsage: true,
	Long: `Start an HTTP service that classifies statements.

  POST /classify         {"sql": "..."}
  POST /classify/batch   {"statements": ["...", "..."]}
  POST /classify/packet  one raw MySQL client packet
  GET  /metrics          Prometheus metrics
  GET  /healthz          liveness`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd.ErrOrStderr())

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		registry.MustRegister(collectors.NewGoCollector())

		c, err := newClassifier(log, registry)
		if err != nil {
			return err
		}
		records, err := cache.New(c, viper.GetInt("classifier.cache_size"), registry)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(c, records, registry, log).Run(ctx, viper.GetString("serve.listen"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", server.DefaultListen, "Address to listen on")
	viper.BindPFlag("serve.listen", serveCmd.Flags().Lookup("listen"))
}
