// Package cmd holds the bikeprice command line.
package cmd

import (
	"bikeprice/internal/di"
	"bikeprice/internal/structures"
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var version = "dev"

var (
	flags   structures.CliFlags
	timeout time.Duration
)

// rootCmd regenerates the snapshot when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "bikeprice",
	Short: "Build and serve the bike rental pricing snapshot",
	Long: `bikeprice fetches memberships, pay-per-ride pricing and day passes for
every city in the registry, normalizes them and writes one JSON snapshot.

Examples:
  bikeprice                      regenerate the snapshot file
  bikeprice serve                serve the snapshot and refresh it periodically
  bikeprice check-daydeals       report which cities list day passes
  bikeprice cities               print the registry grouped by country`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runGenerate,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Regenerate the snapshot file once",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bikeprice version %s\n", version)
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Minute, "upper bound for one run")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkDayDealsCmd)
	rootCmd.AddCommand(citiesCmd)
	rootCmd.AddCommand(versionCmd)
}

// runContext is cancelled by SIGINT, SIGTERM or the --timeout flag.
func runContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	runner, err := di.InitRunner(&flags)
	if err != nil {
		return err
	}
	defer runner.Close()

	ctx, cancel := runContext(cmd.Context())
	defer cancel()
	return runner.Generate(ctx)
}
