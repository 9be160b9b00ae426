package commands

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/hubmesh-io/hubmesh/internal/auth"
	"github.com/hubmesh-io/hubmesh/pkg/mesh"
	"github.com/hubmesh-io/hubmesh/pkg/meshclient"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var (
		apiEndpoint string
		token       string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API token",
		Long: `Store a control plane API token in the local credential file.

The token is verified against the health endpoint before it is saved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiEndpoint == "" {
				apiEndpoint = viper.GetString("api")
			}

			if token == "" {
				fmt.Print("API token: ")

				byteToken, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}

				token = string(byteToken)

				fmt.Println()
			}

			if token == "" {
				return errTokenRequired
			}

			store, err := auth.NewFileTokenStore("")
			if err != nil {
				return fmt.Errorf("opening credential store: %w", err)
			}

			ctx := context.Background()

			// Verify the token before persisting it.
			client, err := meshclient.New(&mesh.Config{
				BaseURL:     apiEndpoint,
				AccessToken: token,
			})
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			envelope, err := client.Health().Get(ctx)
			if err != nil {
				return fmt.Errorf("failed to verify token: %w", err)
			}
			if err := checkEnvelope(envelope.Success, envelope.Error, envelope.Message); err != nil {
				return fmt.Errorf("failed to verify token: %w", err)
			}

			if err := store.Set(ctx, token); err != nil {
				return fmt.Errorf("failed to store token: %w", err)
			}

			fmt.Printf("Token saved to %s\n", store.Path())

			if envelope.Data != nil {
				fmt.Printf("Connected to control plane version %s\n", envelope.Data.Version)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&apiEndpoint, "api", "", "control plane URL")
	cmd.Flags().StringVar(&token, "token", "", "API token (prompted when omitted)")

	return cmd
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := auth.NewFileTokenStore("")
			if err != nil {
				return fmt.Errorf("opening credential store: %w", err)
			}

			if err := store.Clear(context.Background()); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}

			fmt.Fprintln(os.Stdout, "Logged out")

			return nil
		},
	}
}
