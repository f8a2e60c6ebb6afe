package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/threeprimes"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of threeprimes",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("threeprimes version %s\n", strings.TrimSpace(threeprimes.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
