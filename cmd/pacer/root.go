package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pacer",
	Short: "Pacer drives units of work through their run-state lifecycle",
	Long: `Pacer executes YAML-defined flows through a run-state machine:
every transition passes an ordered handler chain, runs emit a concurrent
liveness heartbeat, and paused runs can be resumed from their snapshot.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the pacer config file")
	rootCmd.PersistentFlags().String("store", "", "Snapshot store kind (memory, redis); overrides config")
}
