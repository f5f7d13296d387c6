// Package cli implements the xrlayer command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	xlog "github.com/reglet-dev/xrlayer/log"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "xrlayer",
	Short: "API layer dispatch engine tooling",
	Long: "Inspects and exercises the xrlayer API layer: prints its configuration\n" +
		"schema, validates layer configuration files, and runs the layer inside a\n" +
		"simulated loader and runtime.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text|json)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the command logger from the persistent flags.
// override, when not empty, replaces the --log-level flag.
func newLogger(cmd *cobra.Command, override string) (*slog.Logger, error) {
	levelName := logLevel
	if override != "" && !cmd.Flags().Changed("log-level") {
		levelName = override
	}
	level, err := xlog.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	format, err := xlog.ParseFormat(logFormat)
	if err != nil {
		return nil, err
	}
	return xlog.New(
		xlog.WithLevel(level),
		xlog.WithFormat(format),
		xlog.WithWriter(cmd.ErrOrStderr()),
	), nil
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
