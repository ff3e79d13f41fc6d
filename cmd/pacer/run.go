package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pacerkit/pacer/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flow.yaml]",
	Short: "Execute a flow under heartbeat supervision",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		storeKind, _ := cmd.Flags().GetString("store")
		resume, _ := cmd.Flags().GetString("resume")
		debug, _ := cmd.Flags().GetBool("debug")
		jsonMode, _ := cmd.Flags().GetBool("json")

		err := cli.RunFlow(cmd.Context(), cli.RunOptions{
			FlowPath:   args[0],
			ConfigPath: configPath,
			StoreKind:  storeKind,
			Resume:     resume,
			Debug:      debug,
			JSON:       jsonMode,
		})
		if err != nil {
			if !errors.Is(err, cli.ErrRunFailed) {
				fmt.Printf("Error: %v\n", err)
			}
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("resume", "", "Resume a paused run by its run ID")
	runCmd.Flags().Bool("debug", false, "Enable debug logging")
	runCmd.Flags().Bool("json", false, "Print the result as JSON")
}
