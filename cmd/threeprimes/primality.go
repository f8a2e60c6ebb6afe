package main

import (
	"os"

	"github.com/aretw0/threeprimes/internal/cli"
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test N [N...]",
	Short: "Run the Miller-Rabin test on one or more integers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.TestOptions{Numbers: args}
		opts.Witnesses, _ = cmd.Flags().GetInt("witnesses")
		return cli.RunTest(cmd.Context(), cfg, opts, os.Stdout, logger)
	},
}

var modexpCmd = &cobra.Command{
	Use:   "modexp BASE EXPONENT MODULUS",
	Short: "Compute BASE^EXPONENT mod MODULUS",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunModExp(args[0], args[1], args[2], os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(testCmd, modexpCmd)
	testCmd.Flags().IntP("witnesses", "w", 0, "Miller-Rabin rounds per test (default from config)")
}
