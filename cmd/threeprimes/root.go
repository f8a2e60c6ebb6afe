package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/threeprimes/internal/cli"
	"github.com/aretw0/threeprimes/internal/config"
	"github.com/aretw0/threeprimes/internal/logging"
	"github.com/spf13/cobra"
)

// Populated by the root command before any subcommand runs.
var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "threeprimes",
	Short: "Find three primes summing to an odd integer",
	Long: `threeprimes searches for a triple of probable primes whose sum is a given odd
integer greater than 7, as predicted by Goldbach's weak conjecture. Primality is
decided by the Miller-Rabin test over arbitrary precision integers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("log-level") {
			loaded.Log.Level, _ = flags.GetString("log-level")
		}
		if flags.Changed("log-format") {
			loaded.Log.Format, _ = flags.GetString("log-format")
		}
		if err := loaded.Validate(); err != nil {
			return err
		}

		level, err := logging.ParseLevel(loaded.Log.Level)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.New(level, loaded.Log.Format)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, cli.ErrNoTriple) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}
