package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show dashboard summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			stats, err := apiClient.Dashboard().Stats(ctx)
			if err != nil {
				return fmt.Errorf("failed to get dashboard stats: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(stats)
			}

			fmt.Println("CloudWatcher Dashboard")
			fmt.Println(strings.Repeat("=", 40))

			connected := stats.AccountsByStatus["connected"]
			fmt.Printf("  Accounts:        %d connected (%d total)\n", connected, stats.TotalAccounts)

			running := stats.InstancesByState["running"]
			fmt.Printf("  Instances:       %d synced (%d running)\n", stats.TotalInstances, running)

			fmt.Printf("  Recommendations: %d open (%d finops, %d secops)\n",
				stats.OpenRecommendations, stats.FinOpsCount, stats.SecOpsCount)
			fmt.Printf("  Alerts:          %d total\n", stats.TotalAlerts)
			if stats.LastSync != nil {
				fmt.Printf("  Last sync:       %s\n", stats.LastSync.Format("2006-01-02 15:04:05"))
			}

			if len(stats.InstancesByProvider) > 0 {
				fmt.Println("\n  By provider:")
				for _, p := range []string{"aws", "azure", "gcp", "do"} {
					if n := stats.InstancesByProvider[p]; n > 0 {
						fmt.Printf("    %-6s %d\n", p, n)
					}
				}
			}

			return nil
		},
	}
}
