package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nethalo/sqlclass/internal/classifier"
	"github.com/nethalo/sqlclass/internal/mysql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "sqlclass",
	Short: "Classify MySQL statements the way a routing proxy sees them",
	Long: `sqlclass tells you what a MySQL statement does before a proxy routes it.

For every statement it reports whether it reads or writes, its principal
operation, the tables, databases and columns it touches, transaction and
autocommit effects, and whether it is safe to send to a replica.

Classify statements from the command line, from a file, from the busiest
digests of a running server, or over HTTP.`,
}

// Execute is called by main.main(). It adds all child commands to the root
// command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sqlclass/config.yaml)")
	rootCmd.PersistentFlags().StringP("host", "H", "", "MySQL host")
	rootCmd.PersistentFlags().IntP("port", "P", 3306, "MySQL port")
	rootCmd.PersistentFlags().StringP("user", "u", "", "MySQL user")
	rootCmd.PersistentFlags().StringP("password", "p", "", "MySQL password (will prompt if flag present without value)")
	rootCmd.PersistentFlags().Lookup("password").NoOptDefVal = "" // Allow -p without value to trigger prompt
	rootCmd.PersistentFlags().StringP("database", "d", "", "Default database")
	rootCmd.PersistentFlags().StringP("socket", "S", "", "Unix socket path")
	rootCmd.PersistentFlags().String("tls", "", "TLS mode: disabled, preferred, required, skip-verify, custom")
	rootCmd.PersistentFlags().String("tls-ca", "", "CA certificate for --tls=custom")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "Output format: text, plain, json, markdown")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("classifier-args", "", "Classifier options, e.g. log_unrecognized_statements=1")

	// Bind flags to viper
	viper.BindPFlag("host", rootCmd.PersistentFlags().Lookup("host"))
	viper.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	viper.BindPFlag("user", rootCmd.PersistentFlags().Lookup("user"))
	viper.BindPFlag("password", rootCmd.PersistentFlags().Lookup("password"))
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))
	viper.BindPFlag("socket", rootCmd.PersistentFlags().Lookup("socket"))
	viper.BindPFlag("connections.default.tls", rootCmd.PersistentFlags().Lookup("tls"))
	viper.BindPFlag("connections.default.tls_ca", rootCmd.PersistentFlags().Lookup("tls-ca"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("classifier-args", rootCmd.PersistentFlags().Lookup("classifier-args"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		viper.AddConfigPath(home + "/.sqlclass")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SQLCLASS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// Silently ignore missing config file, it's optional
	if err := viper.ReadInConfig(); err == nil {
		// Map nested config structure to flat keys that flags expect
		// Only set these if the flags haven't been explicitly set by the user
		if !rootCmd.PersistentFlags().Changed("host") && viper.IsSet("connections.default.host") {
			viper.Set("host", viper.GetString("connections.default.host"))
		}
		if !rootCmd.PersistentFlags().Changed("port") && viper.IsSet("connections.default.port") {
			viper.Set("port", viper.GetInt("connections.default.port"))
		}
		if !rootCmd.PersistentFlags().Changed("user") && viper.IsSet("connections.default.user") {
			viper.Set("user", viper.GetString("connections.default.user"))
		}
		if !rootCmd.PersistentFlags().Changed("database") && viper.IsSet("connections.default.database") {
			viper.Set("database", viper.GetString("connections.default.database"))
		}
		if !rootCmd.PersistentFlags().Changed("format") && viper.IsSet("defaults.format") {
			viper.Set("format", viper.GetString("defaults.format"))
		}
		if !rootCmd.PersistentFlags().Changed("log-level") && viper.IsSet("defaults.log_level") {
			viper.Set("log-level", viper.GetString("defaults.log_level"))
		}
	}
}

// newLogger returns the console logger used by every command.
func newLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("log-level")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// newClassifier builds a classifier from --classifier-args, falling back to
// classifier.log_unrecognized_statements from the config file.
func newClassifier(log zerolog.Logger, reg prometheus.Registerer) (*classifier.Classifier, error) {
	opts := []classifier.Option{classifier.WithLogger(log)}
	if args := viper.GetString("classifier-args"); args != "" {
		opts = append(opts, classifier.WithArgs(args))
	} else if viper.IsSet("classifier.log_unrecognized_statements") {
		opts = append(opts, classifier.WithLogLevel(classifier.LogLevel(viper.GetInt("classifier.log_unrecognized_statements"))))
	}
	if reg != nil {
		opts = append(opts, classifier.WithRegisterer(reg))
	}

	c, err := classifier.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating classifier: %w", err)
	}
	return c, nil
}

// connectionConfig reads the connection flags, applying the defaults.
func connectionConfig() mysql.ConnectionConfig {
	connCfg := mysql.ConnectionConfig{
		Host:     viper.GetString("host"),
		Port:     viper.GetInt("port"),
		User:     viper.GetString("user"),
		Password: viper.GetString("password"),
		Database: viper.GetString("database"),
		Socket:   viper.GetString("socket"),
		TLSMode:  viper.GetString("connections.default.tls"),
		TLSCA:    viper.GetString("connections.default.tls_ca"),
		Timeout:  viper.GetDuration("connections.default.timeout"),
	}

	if connCfg.Host == "" && connCfg.Socket == "" {
		connCfg.Host = "127.0.0.1"
	}
	if connCfg.User == "" {
		connCfg.User = "sqlclass"
	}
	return connCfg
}

// commandContext returns the command's context, or a background context when
// the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
