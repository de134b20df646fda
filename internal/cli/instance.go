package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bhuvanyu1/Cloudcatcher/pkg/client"
)

func newInstanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "instance",
		Aliases: []string{"inst"},
		Short:   "Inspect the instance inventory",
	}

	cmd.AddCommand(newInstanceListCmd())

	return cmd
}

func newInstanceListCmd() *cobra.Command {
	var provider, accountID, state, name, region string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List instances in the inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			instances, err := apiClient.Instances().List(ctx, &client.InstanceListOptions{
				Provider:  provider,
				AccountID: accountID,
				State:     state,
				Name:      name,
				Region:    region,
			})
			if err != nil {
				return fmt.Errorf("failed to list instances: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(instances)
			}

			t := NewTable("PROVIDER", "INSTANCE", "NAME", "TYPE", "STATE", "REGION", "PUBLIC IP")
			for _, i := range instances {
				t.AddRow(
					i.Provider,
					truncate(i.InstanceID, 20),
					truncate(i.Name, 25),
					i.TypeOrSize,
					formatStatus(i.State),
					i.RegionOrZone,
					i.PublicIP,
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "filter by provider (aws, azure, gcp, do)")
	cmd.Flags().StringVar(&accountID, "account", "", "filter by account ID")
	cmd.Flags().StringVar(&state, "state", "", "filter by state (running, stopped, pending, terminated)")
	cmd.Flags().StringVar(&name, "name", "", "filter by name substring")
	cmd.Flags().StringVar(&region, "region", "", "filter by region or zone")

	return cmd
}
