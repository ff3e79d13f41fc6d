package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pacerkit/pacer/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only run introspection server",
	Long:  `Exposes /healthz, /metrics and the latest snapshot per run over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		configPath, _ := cmd.Flags().GetString("config")
		storeKind, _ := cmd.Flags().GetString("store")

		err := cli.Serve(cli.ServeOptions{
			Port:       port,
			ConfigPath: configPath,
			StoreKind:  storeKind,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
