package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [account-id]",
		Short: "Sync inventory from cloud providers",
		Long: `Sync fetches the current instance inventory from every enabled
account, or from a single account when an account ID is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if len(args) == 1 {
				result, err := apiClient.Sync().Account(ctx, args[0])
				if err != nil {
					return fmt.Errorf("sync failed: %w", err)
				}
				format := getOutputFormat()
				if format != "table" {
					return printOutput(result)
				}
				fmt.Printf("Account %s synced: %d instances (%d created, %d updated) in %s\n",
					result.AccountID, result.InstancesFound, result.Created, result.Updated, result.Duration)
				return nil
			}

			fleet, err := apiClient.Sync().All(ctx)
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(fleet)
			}

			fmt.Printf("Synced %d accounts, %d instances\n", fleet.AccountsSynced, fleet.InstancesFound)
			for _, e := range fleet.Errors {
				fmt.Printf("  error: %s\n", e)
			}
			return nil
		},
	}
}
