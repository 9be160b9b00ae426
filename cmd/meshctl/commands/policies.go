package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hubmesh-io/hubmesh/pkg/mesh"
)

// NewPoliciesCommand creates the policies command group
func NewPoliciesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "policies",
		Aliases: []string{"policy"},
		Short:   "Manage connectivity policies",
		Long:    "List, create, update and delete mesh connectivity policies",
	}

	cmd.AddCommand(newPoliciesListCommand())
	cmd.AddCommand(newPoliciesGetCommand())
	cmd.AddCommand(newPoliciesCreateCommand())
	cmd.AddCommand(newPoliciesUpdateCommand())
	cmd.AddCommand(newPoliciesDeleteCommand())

	return cmd
}

func newPoliciesListCommand() *cobra.Command {
	var (
		page     int
		perPage  int
		action   string
		allPages bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List connectivity policies",
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
			if action != "" {
				params.WithFilter("action", action)
			}

			ctx := context.Background()

			var policies []mesh.Policy

			if allPages {
				policies, err = mesh.FetchAllPages(ctx, client.Policies().List, params)
				if err != nil {
					return fmt.Errorf("failed to list policies: %w", err)
				}
			} else {
				envelope, err := client.Policies().List(ctx, params)
				if err != nil {
					return fmt.Errorf("failed to list policies: %w", err)
				}
				if err := checkEnvelope(envelope.Success, envelope.Error, envelope.Message); err != nil {
					return err
				}
				policies = envelope.Data
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return renderJSON(policies)
			case OutputFormatYAML:
				return renderYAML(policies)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "Action", "Priority", "Protocol", "Port", "Enabled")

				for _, policy := range policies {
					_ = table.Append(policy.ID, policy.Name, string(policy.Action),
						fmt.Sprintf("%d", policy.Priority), strOrNA(policy.Protocol),
						intOrNA(policy.Port), boolString(policy.Enabled))
				}

				_ = table.Render()
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "results per page")
	cmd.Flags().StringVar(&action, "action", "", "filter by action (allow, deny)")
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")

	return cmd
}

func newPoliciesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get POLICY_ID",
		Short: "Show a connectivity policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			envelope, err := client.Policies().Get(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get policy: %w", err)
			}
			if err := checkEnvelope(envelope.Success, envelope.Error, envelope.Message); err != nil {
				return err
			}
			if envelope.Data == nil {
				return errMissingResource
			}

			return renderPolicy(envelope.Data)
		},
	}
}

func newPoliciesCreateCommand() *cobra.Command {
	var (
		name        string
		description string
		sourceNode  string
		destNode    string
		sourceCIDR  string
		destCIDR    string
		protocol    string
		port        int
		action      string
		priority    int
		disabled    bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a connectivity policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			request := &mesh.PolicyCreateRequest{
				Name:     name,
				Action:   mesh.PolicyAction(action),
				Priority: priority,
				Enabled:  !disabled,
			}

			if description != "" {
				request.Description = &description
			}
			if sourceNode != "" {
				request.SourceNode = &sourceNode
			}
			if destNode != "" {
				request.DestNode = &destNode
			}
			if sourceCIDR != "" {
				request.SourceCIDR = &sourceCIDR
			}
			if destCIDR != "" {
				request.DestCIDR = &destCIDR
			}
			if protocol != "" {
				request.Protocol = &protocol
			}
			if port > 0 {
				request.Port = &port
			}

			envelope, err := client.Policies().Create(context.Background(), request)
			if err != nil {
				return fmt.Errorf("failed to create policy: %w", err)
			}
			if err := checkEnvelope(envelope.Success, envelope.Error, envelope.Message); err != nil {
				return err
			}
			if envelope.Data == nil {
				return errMissingResource
			}

			fmt.Printf("Policy '%s' created with ID %s\n", envelope.Data.Name, envelope.Data.ID)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "policy name (required)")
	cmd.Flags().StringVar(&description, "description", "", "policy description")
	cmd.Flags().StringVar(&sourceNode, "source-node", "", "source node ID")
	cmd.Flags().StringVar(&destNode, "dest-node", "", "destination node ID")
	cmd.Flags().StringVar(&sourceCIDR, "source-cidr", "", "source address range")
	cmd.Flags().StringVar(&destCIDR, "dest-cidr", "", "destination address range")
	cmd.Flags().StringVar(&protocol, "protocol", "", "protocol (tcp, udp, icmp)")
	cmd.Flags().IntVar(&port, "port", 0, "destination port")
	cmd.Flags().StringVar(&action, "action", "allow", "action (allow, deny)")
	cmd.Flags().IntVar(&priority, "priority", 0, "evaluation priority")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "create the policy disabled")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPoliciesUpdateCommand() *cobra.Command {
	var (
		name     string
		action   string
		priority int
		enabled  bool
	)

	cmd := &cobra.Command{
		Use:   "update POLICY_ID",
		Short: "Update a connectivity policy",
		Long:  "Apply a partial update; only the provided flags are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			request := &mesh.PolicyUpdateRequest{}

			if cmd.Flags().Changed("name") {
				request.Name = &name
			}
			if cmd.Flags().Changed("action") {
				policyAction := mesh.PolicyAction(action)
				request.Action = &policyAction
			}
			if cmd.Flags().Changed("priority") {
				request.Priority = &priority
			}
			if cmd.Flags().Changed("enabled") {
				request.Enabled = &enabled
			}

			envelope, err := client.Policies().Update(context.Background(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update policy: %w", err)
			}
			if err := checkEnvelope(envelope.Success, envelope.Error, envelope.Message); err != nil {
				return err
			}

			fmt.Printf("Policy %s updated\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new policy name")
	cmd.Flags().StringVar(&action, "action", "", "new action (allow, deny)")
	cmd.Flags().IntVar(&priority, "priority", 0, "new evaluation priority")
	cmd.Flags().BoolVar(&enabled, "enabled", true, "enable or disable the policy")

	return cmd
}

func newPoliciesDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete POLICY_ID",
		Short: "Remove a connectivity policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := createClient()
			if err != nil {
				return err
			}

			envelope, err := client.Policies().Delete(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete policy: %w", err)
			}
			if err := checkEnvelope(envelope.Success, envelope.Error, envelope.Message); err != nil {
				return err
			}

			fmt.Printf("Policy %s deleted\n", args[0])

			return nil
		},
	}
}

// renderPolicy prints one policy in the selected output format.
func renderPolicy(policy *mesh.Policy) error {
	output := viper.GetString("output")
	switch output {
	case OutputFormatJSON:
		return renderJSON(policy)
	case OutputFormatYAML:
		return renderYAML(policy)
	default:
		table := tablewriter.NewWriter(os.Stdout)
		table.Header("Property", "Value")

		_ = table.Append("ID", policy.ID)
		_ = table.Append("Name", policy.Name)
		_ = table.Append("Description", strOrNA(policy.Description))
		_ = table.Append("Source Node", strOrNA(policy.SourceNode))
		_ = table.Append("Dest Node", strOrNA(policy.DestNode))
		_ = table.Append("Source CIDR", strOrNA(policy.SourceCIDR))
		_ = table.Append("Dest CIDR", strOrNA(policy.DestCIDR))
		_ = table.Append("Protocol", strOrNA(policy.Protocol))
		_ = table.Append("Port", intOrNA(policy.Port))
		_ = table.Append("Action", string(policy.Action))
		_ = table.Append("Priority", fmt.Sprintf("%d", policy.Priority))
		_ = table.Append("Enabled", boolString(policy.Enabled))
		_ = table.Append("Created", policy.CreatedAt.Format("2006-01-02 15:04:05"))
		_ = table.Append("Updated", policy.UpdatedAt.Format("2006-01-02 15:04:05"))

		_ = table.Render()
	}

	return nil
}
