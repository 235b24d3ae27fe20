package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chris-casper/RF-Sim/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rfsim version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("rfsim %s\n", config.GetVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
