// Package commands implements the meshctl subcommands.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hubmesh-io/hubmesh/internal/auth"
	"github.com/hubmesh-io/hubmesh/pkg/mesh"
	"github.com/hubmesh-io/hubmesh/pkg/meshclient"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	NotAvailable = "N/A"
)

// Common static errors used throughout the commands package.
var (
	errServerDeclined  = errors.New("request declined")
	errMissingResource = errors.New("server returned no resource")
	errTokenRequired   = errors.New("a token is required")
)

// createClient builds a client from the effective configuration: the --api
// flag (or MESHCTL_API), falling back to the library's own resolution chain.
// The bearer token lives in the shared credential file, so a token stored by
// 'meshctl login' is picked up here automatically.
func createClient() (mesh.Client, error) {
	store, err := auth.NewFileTokenStore("")
	if err != nil {
		return nil, fmt.Errorf("opening credential store: %w", err)
	}

	config := &mesh.Config{
		BaseURL:    viper.GetString("api"),
		TokenStore: store,
		Debug:      viper.GetBool("verbose"),
		OnAuthExpired: func() {
			fmt.Fprintln(os.Stderr, "Session expired. Run 'meshctl login' to authenticate again.")
		},
	}

	client, err := meshclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return client, nil
}

// renderJSON writes data as indented JSON to stdout.
func renderJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(data)
}

// renderYAML writes data as YAML to stdout.
func renderYAML(data interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer func() { _ = encoder.Close() }()

	return encoder.Encode(data)
}

// checkEnvelope turns a declined envelope into a CLI error. The server can
// decline with a 2xx, so the HTTP layer never sees it.
func checkEnvelope(success bool, errText, message string) error {
	if success {
		return nil
	}

	if message != "" {
		return fmt.Errorf("%w: %s: %s", errServerDeclined, errText, message)
	}

	return fmt.Errorf("%w: %s", errServerDeclined, errText)
}

func strOrNA(value *string) string {
	if value == nil || *value == "" {
		return NotAvailable
	}

	return *value
}

func intOrNA(value *int) string {
	if value == nil {
		return NotAvailable
	}

	return strconv.Itoa(*value)
}

func timeOrNA(value *time.Time) string {
	if value == nil || value.IsZero() {
		return NotAvailable
	}

	return value.Local().Format(time.RFC3339)
}

func boolString(value bool) string {
	if value {
		return "yes"
	}

	return "no"
}
