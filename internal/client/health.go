package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hubmesh-io/hubmesh/internal/constants"
	internalhttp "github.com/hubmesh-io/hubmesh/internal/http"
	"github.com/hubmesh-io/hubmesh/pkg/mesh"
)

// HealthClient implements the mesh.HealthClient interface.
type HealthClient struct {
	httpClient *internalhttp.Client
}

// NewHealthClient creates a new HealthClient.
func NewHealthClient(httpClient *internalhttp.Client) *HealthClient {
	return &HealthClient{
		httpClient: httpClient,
	}
}

// Get fetches controller health.
func (c *HealthClient) Get(ctx context.Context) (*mesh.Envelope[mesh.HealthStatus], error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathHealth, nil)
	if err != nil {
		return nil, fmt.Errorf("getting health: %w", err)
	}

	var result mesh.Envelope[mesh.HealthStatus]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing health response: %w", err)
	}

	return &result, nil
}
