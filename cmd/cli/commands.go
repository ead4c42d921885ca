package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iho/stmtledger/internal/adapter/http/dto"
)

func newAccountCmd(client *apiClient) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var req dto.CreateAccountRequest

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			if err := client.do(cmd.Context(), http.MethodPost, "/api/v1/accounts", req, &account); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), account)
		},
	}
	createCmd.Flags().StringVar(&req.Name, "name", "", "Account holder name")
	createCmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	createCmd.Flags().StringVar(&req.Password, "password", "", "Account password")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("password")

	getCmd := &cobra.Command{
		Use:   "get <account-id>",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var account dto.AccountResponse
			if err := client.do(cmd.Context(), http.MethodGet, accountPath(args[0]), nil, &account); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), account)
		},
	}

	accountCmd.AddCommand(createCmd, getCmd)

	return accountCmd
}

func newStatementCmd(client *apiClient) *cobra.Command {
	statementCmd := &cobra.Command{
		Use:   "statement",
		Short: "Deposit, withdraw and inspect statements",
	}

	statementCmd.AddCommand(
		newRecordCmd(client, "deposit", "Deposit an amount into an account"),
		newRecordCmd(client, "withdraw", "Withdraw an amount from an account"),
	)

	getCmd := &cobra.Command{
		Use:   "get <account-id> <statement-id>",
		Short: "Show a statement of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var statement dto.StatementResponse
			path := accountPath(args[0]) + "/statements/" + url.PathEscape(args[1])
			if err := client.do(cmd.Context(), http.MethodGet, path, nil, &statement); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), statement)
		},
	}

	var limit, offset int

	listCmd := &cobra.Command{
		Use:   "list <account-id>",
		Short: "List statements of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("limit", strconv.Itoa(limit))
			query.Set("offset", strconv.Itoa(offset))

			var list dto.ListStatementsResponse
			path := accountPath(args[0]) + "/statements?" + query.Encode()
			if err := client.do(cmd.Context(), http.MethodGet, path, nil, &list); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), list)
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of statements")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Number of statements to skip")

	statementCmd.AddCommand(getCmd, listCmd)

	return statementCmd
}

// newRecordCmd builds the deposit and withdraw commands, which differ only in the route.
func newRecordCmd(client *apiClient, operation, short string) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   operation + " <account-id> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.CreateStatementRequest{Amount: args[1], Description: description}

			var statement dto.StatementResponse
			path := accountPath(args[0]) + "/statements/" + operation
			if err := client.do(cmd.Context(), http.MethodPost, path, req, &statement); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), statement)
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Statement description")

	return cmd
}

func newBalanceCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show the balance and statements of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var balance dto.BalanceResponse
			if err := client.do(cmd.Context(), http.MethodGet, accountPath(args[0])+"/balance", nil, &balance); err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), balance)
		},
	}
}

func newLedgerCmd(client *apiClient) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	reconcileCmd := &cobra.Command{
		Use:   "reconcile <account-id>",
		Short: "Check that an account balance matches its statement history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result dto.ReconciliationResponse
			if err := client.do(cmd.Context(), http.MethodGet, accountPath(args[0])+"/reconciliation", nil, &result); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.IsReconciled {
				fmt.Fprintf(out, "Reconciliation FAILED\nRecorded: %s\nCalculated: %s\nDifference: %s\n",
					result.RecordedBalance, result.CalculatedBalance, result.Difference)
				return fmt.Errorf("account %s is not reconciled", result.AccountID)
			}

			fmt.Fprintf(out, "Reconciliation PASSED\nStatements: %d\nBalance: %s\n",
				result.StatementCount, result.RecordedBalance)

			return nil
		},
	}

	ledgerCmd.AddCommand(reconcileCmd)

	return ledgerCmd
}

func accountPath(accountID string) string {
	return "/api/v1/accounts/" + url.PathEscape(accountID)
}
