package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Bhuvanyu1/Cloudcatcher/pkg/client"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"acct"},
		Short:   "Manage cloud accounts",
	}

	cmd.AddCommand(newAccountListCmd())
	cmd.AddCommand(newAccountGetCmd())
	cmd.AddCommand(newAccountAddCmd())
	cmd.AddCommand(newAccountDeleteCmd())
	cmd.AddCommand(newAccountEnableCmd())
	cmd.AddCommand(newAccountDisableCmd())

	return cmd
}

func newAccountListCmd() *cobra.Command {
	var provider, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			accounts, err := apiClient.Accounts().List(ctx, &client.AccountListOptions{
				Provider: provider,
				Status:   status,
			})
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(accounts)
			}

			t := NewTable("ID", "PROVIDER", "NAME", "STATUS", "INSTANCES", "LAST SYNC")
			for _, a := range accounts {
				lastSync := "never"
				if a.LastSyncAt != nil {
					lastSync = a.LastSyncAt.Format("2006-01-02 15:04:05")
				}
				t.AddRow(
					truncate(a.ID, 12),
					a.Provider,
					truncate(a.Name, 30),
					formatStatus(a.Status),
					strconv.Itoa(a.InstanceCount),
					lastSync,
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "filter by provider (aws, azure, gcp, do)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")

	return cmd
}

func newAccountGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get account details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			account, err := apiClient.Accounts().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get account: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(account)
			}

			fmt.Printf("ID:        %s\n", account.ID)
			fmt.Printf("Provider:  %s\n", account.Provider)
			fmt.Printf("Name:      %s\n", account.Name)
			fmt.Printf("Status:    %s\n", account.Status)
			fmt.Printf("Instances: %d\n", account.InstanceCount)
			if account.LastSyncAt != nil {
				fmt.Printf("Last sync: %s\n", account.LastSyncAt.Format("2006-01-02 15:04:05"))
			}
			if account.LastError != "" {
				fmt.Printf("Error:     %s\n", account.LastError)
			}
			return nil
		},
	}
}

func newAccountAddCmd() *cobra.Command {
	var credentialRef string

	cmd := &cobra.Command{
		Use:   "add <provider> <name>",
		Short: "Register a cloud account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			account, err := apiClient.Accounts().Create(ctx, client.CreateAccountRequest{
				Provider:      args[0],
				Name:          args[1],
				CredentialRef: credentialRef,
			})
			if err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}
			fmt.Printf("Account %s created (%s/%s)\n", account.ID, account.Provider, account.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&credentialRef, "credential-ref", "", "reference to stored credentials")

	return cmd
}

func newAccountDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account and its inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := apiClient.Accounts().Delete(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete account: %w", err)
			}
			fmt.Printf("Account %s deleted\n", args[0])
			return nil
		},
	}
}

func newAccountEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <id>",
		Short: "Re-enable a disabled account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			account, err := apiClient.Accounts().Enable(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to enable account: %w", err)
			}
			fmt.Printf("Account %s enabled (status: %s)\n", account.ID, account.Status)
			return nil
		},
	}
}

func newAccountDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <id>",
		Short: "Exclude an account from syncs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			account, err := apiClient.Accounts().Disable(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to disable account: %w", err)
			}
			fmt.Printf("Account %s disabled\n", account.ID)
			return nil
		},
	}
}
