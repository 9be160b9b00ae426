// Package meshclient provides the main entry point for creating hubmesh
// control-plane API clients.
package meshclient

import (
	"fmt"
	"os"
	"strings"

	"github.com/hubmesh-io/hubmesh/internal/client"
	"github.com/hubmesh-io/hubmesh/internal/constants"
	"github.com/hubmesh-io/hubmesh/pkg/mesh"
)

// New creates a new control-plane API client. The base URL is resolved from
// config.BaseURL, then the MESH_API_URL environment variable, then the
// default http://localhost:8080/api/v1.
func New(config *mesh.Config) (mesh.Client, error) {
	if config == nil {
		return nil, mesh.ErrConfigRequired
	}

	config.BaseURL = normalizeBaseURL(resolveBaseURL(config.BaseURL))

	apiClient, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return apiClient, nil
}

// NewFromEnv creates a client configured entirely from the environment.
func NewFromEnv() (mesh.Client, error) {
	return New(&mesh.Config{})
}

// NewWithToken creates a client with an endpoint and a static access token.
func NewWithToken(endpoint, token string) (mesh.Client, error) {
	return New(&mesh.Config{
		BaseURL:     endpoint,
		AccessToken: token,
	})
}

// resolveBaseURL applies the documented fallback chain.
func resolveBaseURL(baseURL string) string {
	if baseURL != "" {
		return baseURL
	}

	if envURL := os.Getenv(constants.EnvBaseURL); envURL != "" {
		return envURL
	}

	return constants.DefaultBaseURL
}

// normalizeBaseURL trims a trailing slash and adds a scheme when missing.
func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	return baseURL
}
