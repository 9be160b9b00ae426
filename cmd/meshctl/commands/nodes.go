package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hubmesh-io/hubmesh/pkg/mesh"
)

// NewNodesCommand creates the nodes command group
func NewNodesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "nodes",
		Aliases: []string{"node"},
		Short:   "Manage mesh nodes",
		Long:    "List, create, update and delete mesh nodes, and fetch their device configuration",
	}

	cmd.AddCommand(newNodesListCommand())
	cmd.AddCommand(newNodesGetCommand())
	cmd.AddCommand(newNodesCreateCommand())
	cmd.AddCommand(newNodesUpdateCommand())
	cmd.AddCommand(newNodesDeleteCommand())
	cmd.AddCommand(newNodesConfigCommand())

	return cmd
}

func newNodesListCommand() *cobra.Command {
	var (
		page     int
		perPage  int
		nodeType string
		status   string
		allPages bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mesh nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			params := mesh.NewQueryParams()
			if page > 0 {
				params.WithPage(page)
			}
			if perPage > 0 {
				params.WithPerPage(perPage)
			}
			if nodeType != "" {
				params.WithFilter("node_type", nodeType)
			}
			if status != "" {
				params.WithFilter("status", status)
			}

			ctx := context.Background()

			var nodes []mesh.Node

			if allPages {
				nodes, err = mesh.FetchAllPages(ctx, client.Nodes().List, params)
				if err != nil {
					return fmt.Errorf("failed to list nodes: %w", err)
				}
			} else {
				envelope, err := client.Nodes().List(ctx, params)
				if err != nil {
					return fmt.Errorf("failed to list nodes: %w", err)
				}
				if err := checkEnvelope(envelope.Success, envelope.Error, envelope.Message); err != nil {
					return err
				}
				nodes = envelope.Data
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return renderJSON(nodes)
			case OutputFormatYAML:
				return renderYAML(nodes)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Role", "Address", "Endpoint", "Status", "Last Handshake")

				for _, node := range nodes {
					_ = table.Append(node.ID, node.Name, string(node.Role), node.Address,
						strOrNA(node.Endpoint), string(node.Status), timeOrNA(node.LastHandshake))
				}

				_ = table.Render()
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "results per page")
	cmd.Flags().StringVar(&nodeType, "type", "", "filter by node type (hub, spoke)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, active, inactive, disabled)")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")

	return cmd
}

func newNodesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NODE_ID",
		Short: "Show a mesh node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			envelope, err := client.Nodes().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get node: %w", err)
			}
			if err := checkEnvelope(envelope.Success, envelope.Error, envelope.Message); err != nil {
				return err
			}
			if envelope.Data == nil {
				return errMissingResource
			}

			return renderNode(envelope.Data)
		},
	}
}

func newNodesCreateCommand() *cobra.Command {
	var (
		name       string
		role       string
		publicKey  string
		address    string
		endpoint   string
		listenPort int
		allowedIPs []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new mesh node",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			request := &mesh.NodeCreateRequest{
				Name:       name,
				Role:       mesh.NodeRole(role),
				PublicKey:  publicKey,
				Address:    address,
				AllowedIPs: allowedIPs,
			}

			if endpoint != "" {
				request.Endpoint = &endpoint
			}
			if listenPort > 0 {
				request.ListenPort = &listenPort
			}

			envelope, err := client.Nodes().Create(context.Background(), request)
			if err != nil {
				return fmt.Errorf("failed to create node: %w", err)
			}
			if err := checkEnvelope(envelope.Success, envelope.Error, envelope.Message); err != nil {
				return err
			}
			if envelope.Data == nil {
				return errMissingResource
			}

			fmt.Printf("Node '%s' created with ID %s\n", envelope.Data.Name, envelope.Data.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "node name (required)")
	cmd.Flags().StringVar(&role, "role", "spoke", "node role (hub, spoke)")
	cmd.Flags().StringVar(&publicKey, "public-key", "", "WireGuard public key (required)")
	cmd.Flags().StringVar(&address, "address", "", "mesh address in CIDR notation (required)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "public endpoint (host:port)")
	cmd.Flags().IntVar(&listenPort, "listen-port", 0, "WireGuard listen port")
	cmd.Flags().StringSliceVar(&allowedIPs, "allowed-ips", nil, "allowed IP ranges")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("public-key")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}

func newNodesUpdateCommand() *cobra.Command {
	var (
		name       string
		endpoint   string
		listenPort int
		status     string
		allowedIPs []string
	)

	cmd := &cobra.Command{
		Use:   "update NODE_ID",
		Short: "Update a mesh node",
		Long:  "Apply a partial update; only the provided flags are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			request := &mesh.NodeUpdateRequest{AllowedIPs: allowedIPs}

			if cmd.Flags().Changed("name") {
				request.Name = &name
			}
			if cmd.Flags().Changed("endpoint") {
				request.Endpoint = &endpoint
			}
			if cmd.Flags().Changed("listen-port") {
				request.ListenPort = &listenPort
			}
			if cmd.Flags().Changed("status") {
				nodeStatus := mesh.NodeStatus(status)
				request.Status = &nodeStatus
			}

			envelope, err := client.Nodes().Update(context.Background(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update node: %w", err)
			}
			if err := checkEnvelope(envelope.Success, envelope.Error, envelope.Message); err != nil {
				return err
			}

			fmt.Printf("Node %s updated\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new node name")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "new public endpoint (host:port)")
	cmd.Flags().IntVar(&listenPort, "listen-port", 0, "new WireGuard listen port")
	cmd.Flags().StringVar(&status, "status", "", "new status (pending, active, inactive, disabled)")
	cmd.Flags().StringSliceVar(&allowedIPs, "allowed-ips", nil, "new allowed IP ranges")

	return cmd
}

func newNodesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NODE_ID",
		Short: "Remove a mesh node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			envelope, err := client.Nodes().Delete(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete node: %w", err)
			}
			if err := checkEnvelope(envelope.Success, envelope.Error, envelope.Message); err != nil {
				return err
			}

			fmt.Printf("Node %s deleted\n", args[0])

			return nil
		},
	}
}

func newNodesConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config NODE_ID",
		Short: "Fetch a node's device configuration",
		Long:  "Fetch the server-generated device configuration blob for a node",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			envelope, err := client.Nodes().Config(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get node config: %w", err)
			}
			if err := checkEnvelope(envelope.Success, envelope.Error, envelope.Message); err != nil {
				return err
			}
			if envelope.Data == nil {
				return errMissingResource
			}

			// The config shape is server-defined, so it always renders as a
			// structured document.
			var blob interface{}
			if err := json.Unmarshal(*envelope.Data, &blob); err != nil {
				return fmt.Errorf("failed to parse node config: %w", err)
			}

			if viper.GetString("output") == OutputFormatYAML {
				return renderYAML(blob)
			}

			return renderJSON(blob)
		},
		Args: cobra.ExactArgs(1),
	}
}

// renderNode prints one node in the selected output format.
func renderNode(node *mesh.Node) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return renderJSON(node)
	case OutputFormatYAML:
		return renderYAML(node)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Property", "Value")

		_ = table.Append("ID", node.ID)
		_ = table.Append("Name", node.Name)
		_ = table.Append("Role", string(node.Role))
		_ = table.Append("Public Key", node.PublicKey)
		_ = table.Append("Address", node.Address)
		_ = table.Append("Endpoint", strOrNA(node.Endpoint))
		_ = table.Append("Listen Port", intOrNA(node.ListenPort))

		if len(node.AllowedIPs) > 0 {
			_ = table.Append("Allowed IPs", strings.Join(node.AllowedIPs, "\n"))
		}

		_ = table.Append("Status", string(node.Status))
		_ = table.Append("Last Handshake", timeOrNA(node.LastHandshake))
		_ = table.Append("Created", node.CreatedAt.Format("2006-01-02 15:04:05"))
		_ = table.Append("Updated", node.UpdatedAt.Format("2006-01-02 15:04:05"))

		_ = table.Render()
	}

	return nil
}
