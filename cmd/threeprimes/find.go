package main

import (
	"os"

	"github.com/aretw0/threeprimes/internal/cli"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find N",
	Short: "Find three probable primes summing to N",
	Long: `Searches for the first triple i <= j <= k of odd probable primes with i+j+k = N
and writes "i j k" to the output file. Exits with status 2 if no triple exists.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.FindOptions{N: args[0]}
		opts.Out, _ = cmd.Flags().GetString("out")
		opts.Witnesses, _ = cmd.Flags().GetInt("witnesses")
		opts.Timeout, _ = cmd.Flags().GetDuration("timeout")
		opts.Time, _ = cmd.Flags().GetBool("time")
		return cli.RunFind(cmd.Context(), cfg, opts, os.Stdout, logger)
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().StringP("out", "o", "", "Output file (default from config, output_threeprime.txt)")
	findCmd.Flags().IntP("witnesses", "w", 0, "Miller-Rabin rounds per test (default from config)")
	findCmd.Flags().Duration("timeout", 0, "Abort the search after this duration (0 = no limit)")
	findCmd.Flags().Bool("time", false, "Print the elapsed wall time")
}
