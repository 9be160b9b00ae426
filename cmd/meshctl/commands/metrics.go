package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewMetricsCommand creates the metrics command
func NewMetricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Show mesh metrics",
		Long:  "Display aggregate node and policy counts plus traffic statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			envelope, err := client.Metrics().Get(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get metrics: %w", err)
			}
			if err := checkEnvelope(envelope.Success, envelope.Error, envelope.Message); err != nil {
				return err
			}
			if envelope.Data == nil {
				return errMissingResource
			}

			metrics := envelope.Data

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return renderJSON(metrics)
			case OutputFormatYAML:
				return renderYAML(metrics)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Metric", "Value")

				_ = table.Append("Total Nodes", strconv.Itoa(metrics.TotalNodes))
				_ = table.Append("Active Nodes", strconv.Itoa(metrics.ActiveNodes))
				_ = table.Append("Hubs", strconv.Itoa(metrics.HubCount))
				_ = table.Append("Spokes", strconv.Itoa(metrics.SpokeCount))
				_ = table.Append("Policies", strconv.Itoa(metrics.TotalPolicies))

				_ = table.Render()

				if len(metrics.Traffic) > 0 {
					fmt.Println("\nTraffic:")

					encoder := json.NewEncoder(os.Stdout)
					encoder.SetIndent("", "  ")

					var traffic interface{}
					if err := json.Unmarshal(metrics.Traffic, &traffic); err == nil {
						_ = encoder.Encode(traffic)
					}
				}
			}

			return nil
		},
	}
}
