package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewTopologyCommand creates the topology command
func NewTopologyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "topology",
		Short: "Show the mesh topology",
		Long:  "Display a point-in-time snapshot of mesh nodes and the links between them",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			envelope, err := client.Topology().Get(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get topology: %w", err)
			}
			if err := checkEnvelope(envelope.Success, envelope.Error, envelope.Message); err != nil {
				return err
			}
			if envelope.Data == nil {
				return errMissingResource
			}

			topology := envelope.Data

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return renderJSON(topology)
			case OutputFormatYAML:
				return renderYAML(topology)
			default:
				nodeTable := tablewriter.NewWriter(os.Stdout)
				nodeTable.Header("ID", "Name", "Role", "Address", "Online")

				for _, node := range topology.Nodes {
					_ = nodeTable.Append(node.ID, node.Name, string(node.Role), node.Address, boolString(node.Online))
				}

				_ = nodeTable.Render()

				if len(topology.Links) > 0 {
					fmt.Println()

					linkTable := tablewriter.NewWriter(os.Stdout)
					linkTable.Header("Source", "Target", "Type")

					for _, link := range topology.Links {
						_ = linkTable.Append(link.Source, link.Target, link.Type)
					}

					_ = linkTable.Render()
				}
			}

			return nil
		},
	}
}
