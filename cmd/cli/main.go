package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "stmtledger-cli",
		Short:         "Statement ledger CLI tool",
		Long:          `A command line interface for interacting with the statement ledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&client.baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&client.timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&client.token, "token", os.Getenv("STMTLEDGER_TOKEN"), "Bearer token (defaults to $STMTLEDGER_TOKEN)")

	rootCmd.AddCommand(
		newAccountCmd(client),
		newStatementCmd(client),
		newBalanceCmd(client),
		newLedgerCmd(client),
	)

	return rootCmd
}
