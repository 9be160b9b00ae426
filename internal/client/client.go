// Package client implements the mesh.Client interface and the five resource
// clients built on the transport layer.
package client

import (
	"github.com/hubmesh-io/hubmesh/internal/auth"
	"github.com/hubmesh-io/hubmesh/internal/constants"
	"github.com/hubmesh-io/hubmesh/internal/http"
	"github.com/hubmesh-io/hubmesh/pkg/mesh"
)

// Client implements the mesh.Client interface.
type Client struct {
	httpClient *http.Client
	tokenStore mesh.TokenStore
	baseURL    string
	logger     mesh.Logger

	// Resource clients
	nodes    mesh.NodesClient
	policies mesh.PoliciesClient
	topology mesh.TopologyClient
	health   mesh.HealthClient
	metrics  mesh.MetricsClient
}

// createHTTPClientOptions builds transport options from config.
func createHTTPClientOptions(config *mesh.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := config.RetryWaitMin
		if retryWaitMin <= 0 {
			retryWaitMin = constants.DefaultRetryWaitMin
		}

		retryWaitMax := config.RetryWaitMax
		if retryWaitMax <= 0 {
			retryWaitMax = constants.DefaultRetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if len(config.RequestInterceptors) > 0 || len(config.ResponseInterceptors) > 0 {
		httpOpts = append(httpOpts, http.WithInterceptors(config.RequestInterceptors, config.ResponseInterceptors))
	}

	return httpOpts
}

// New creates a new control-plane API client.
func New(config *mesh.Config) (*Client, error) {
	if config == nil {
		return nil, mesh.ErrConfigRequired
	}

	if config.BaseURL == "" {
		return nil, mesh.ErrBaseURLRequired
	}

	store := config.TokenStore
	if store == nil {
		store = auth.NewMemoryTokenStore(config.AccessToken)
	}

	httpClient := http.NewClient(config.BaseURL, store, createHTTPClientOptions(config)...)

	// Every 401 clears the stored credential and signals the hosting
	// application exactly once, before the error reaches the caller.
	httpClient.AddResponseInterceptor(mesh.AuthExpiredInterceptor(store.Clear, config.OnAuthExpired))

	client := &Client{
		httpClient: httpClient,
		tokenStore: store,
		baseURL:    config.BaseURL,
		logger:     config.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

// TokenStore returns the credential store used by this client.
func (c *Client) TokenStore() mesh.TokenStore {
	return c.tokenStore
}

// Nodes implements mesh.Client.Nodes.
func (c *Client) Nodes() mesh.NodesClient {
	return c.nodes
}

// Policies implements mesh.Client.Policies.
func (c *Client) Policies() mesh.PoliciesClient {
	return c.policies
}

// Topology implements mesh.Client.Topology.
func (c *Client) Topology() mesh.TopologyClient {
	return c.topology
}

// Health implements mesh.Client.Health.
func (c *Client) Health() mesh.HealthClient {
	return c.health
}

// Metrics implements mesh.Client.Metrics.
func (c *Client) Metrics() mesh.MetricsClient {
	return c.metrics
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	c.nodes = NewNodesClient(c.httpClient)
	c.policies = NewPoliciesClient(c.httpClient)
	c.topology = NewTopologyClient(c.httpClient)
	c.health = NewHealthClient(c.httpClient)
	c.metrics = NewMetricsClient(c.httpClient)
}
