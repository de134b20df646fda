package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bhuvanyu1/Cloudcatcher/pkg/client"
)

func newAlertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Inspect anomaly alerts",
	}

	cmd.AddCommand(newAlertListCmd())
	cmd.AddCommand(newAlertDetectCmd())
	cmd.AddCommand(newAlertCorrelatedCmd())

	return cmd
}

func newAlertListCmd() *cobra.Command {
	var alertType, severity string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			alerts, err := apiClient.Alerts().List(ctx, &client.AlertListOptions{
				AlertType: alertType,
				Severity:  severity,
			})
			if err != nil {
				return fmt.Errorf("failed to list alerts: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(alerts)
			}

			t := NewTable("ID", "TYPE", "SEVERITY", "SOURCE", "RESOURCE", "CREATED")
			for _, a := range alerts {
				t.AddRow(
					truncate(a.ID, 12),
					a.AlertType,
					formatSeverity(a.Severity),
					a.Source,
					truncate(a.ResourceID, 30),
					a.CreatedAt.Format("2006-01-02 15:04:05"),
				)
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&alertType, "type", "", "filter by alert type")
	cmd.Flags().StringVar(&severity, "severity", "", "filter by severity")

	return cmd
}

func newAlertDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Run anomaly detection over the inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			result, err := apiClient.Alerts().Detect(ctx)
			if err != nil {
				return fmt.Errorf("failed to run detection: %w", err)
			}
			fmt.Printf("%d alerts emitted\n", result.AlertsEmitted)
			for _, a := range result.Alerts {
				fmt.Printf("  %s %s %s\n", formatSeverity(a.Severity), a.AlertType, a.ResourceID)
			}
			return nil
		},
	}
}

func newAlertCorrelatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "correlated",
		Short: "Show resources flagged by multiple categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			correlated, err := apiClient.Dashboard().CorrelatedAlerts(ctx)
			if err != nil {
				return fmt.Errorf("failed to get correlated alerts: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(correlated)
			}

			t := NewTable("RESOURCE", "SEVERITY", "CATEGORIES", "FINDINGS")
			for _, c := range correlated {
				t.AddRow(
					truncate(c.ResourceID, 40),
					formatSeverity(c.Severity),
					fmt.Sprintf("%v", c.Categories),
					fmt.Sprintf("%d recs, %d alerts", len(c.Recommendations), len(c.Alerts)),
				)
			}
			t.Render()
			return nil
		},
	}
}
