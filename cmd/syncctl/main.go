package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag   string
	tokenFlag string
	rootCmd   = &cobra.Command{
		Use:   "syncctl",
		Short: "CLI client for the meetsync webhook service",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Sync service base URL")

	// sync subcommand: replay a webhook delivery for one recording
	syncCmd := &cobra.Command{
		Use:   "sync <recording-id>",
		Short: "Trigger a sync for a recording id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(apiFlag, args[0], os.Stdout)
		},
	}
	rootCmd.AddCommand(syncCmd)

	// last-payload subcommand: fetch the most recent webhook body
	lastCmd := &cobra.Command{
		Use:   "last-payload",
		Short: "Fetch the last received webhook payload",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLastPayload(apiFlag, tokenFlag, os.Stdout)
		},
	}
	lastCmd.Flags().StringVarP(&tokenFlag, "token", "t", "", "Debug endpoint token")
	rootCmd.AddCommand(lastCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
