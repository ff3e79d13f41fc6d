package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pacerkit/pacer"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pacer",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pacer version %s\n", strings.TrimSpace(pacer.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
