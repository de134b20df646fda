package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bhuvanyu1/Cloudcatcher/pkg/client"
)

func newRecommendationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recommendation",
		Aliases: []string{"rec"},
		Short:   "Manage cost and security recommendations",
	}

	cmd.AddCommand(newRecListCmd())
	cmd.AddCommand(newRecRunCmd())
	cmd.AddCommand(newRecDismissCmd())
	cmd.AddCommand(newRecResolveCmd())

	return cmd
}

func newRecListCmd() *cobra.Command {
	var category, severity, status, accountID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			recs, err := apiClient.Recommendations().List(ctx, &client.RecommendationListOptions{
				Category:  category,
				Severity:  severity,
				Status:    status,
				AccountID: accountID,
			})
			if err != nil {
				return fmt.Errorf("failed to list recommendations: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(recs)
			}

			t := NewTable("ID", "RULE", "SEVERITY", "STATUS", "RESOURCE", "TITLE")
			for _, r := range recs {
				t.AddRow(
					truncate(r.ID, 12),
					r.RuleID,
					formatSeverity(r.Severity),
					formatStatus(r.Status),
					truncate(r.ResourceID, 30),
					truncate(r.Title, 40),
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category (finops, secops)")
	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity (low, medium, high)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (open, dismissed, resolved)")
	cmd.Flags().StringVar(&accountID, "account", "", "filter by account ID")

	return cmd
}

func newRecRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the recommendation engine over the inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			result, err := apiClient.Recommendations().Run(ctx)
			if err != nil {
				return fmt.Errorf("failed to run recommendations: %w", err)
			}
			fmt.Printf("%d recommendations generated\n", result.RecommendationsGenerated)
			return nil
		},
	}
}

func newRecDismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <id>",
		Short: "Dismiss a recommendation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if _, err := apiClient.Recommendations().Dismiss(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to dismiss recommendation: %w", err)
			}
			fmt.Printf("Recommendation %s dismissed\n", args[0])
			return nil
		},
	}
}

func newRecResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <id>",
		Short: "Mark a recommendation as resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if _, err := apiClient.Recommendations().Resolve(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to resolve recommendation: %w", err)
			}
			fmt.Printf("Recommendation %s resolved\n", args[0])
			return nil
		},
	}
}
