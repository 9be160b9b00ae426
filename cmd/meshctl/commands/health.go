package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show controller health",
		Long:  "Display control plane health, version and per-subsystem status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			envelope, err := client.Health().Get(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get health: %w", err)
			}
			if err := checkEnvelope(envelope.Success, envelope.Error, envelope.Message); err != nil {
				return err
			}
			if envelope.Data == nil {
				return errMissingResource
			}

			health := envelope.Data

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return renderJSON(health)
			case OutputFormatYAML:
				return renderYAML(health)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Property", "Value")

				_ = table.Append("Status", health.Status)
				_ = table.Append("Version", health.Version)
				_ = table.Append("Timestamp", health.Timestamp.Local().Format(time.RFC3339))

				names := make([]string, 0, len(health.Components))
				for name := range health.Components {
					names = append(names, name)
				}

				sort.Strings(names)

				for _, name := range names {
					_ = table.Append("Component: "+name, health.Components[name])
				}

				_ = table.Render()
			}

			return nil
		},
	}
}
