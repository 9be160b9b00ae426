package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hubmesh-io/hubmesh/internal/constants"
	internalhttp "github.com/hubmesh-io/hubmesh/internal/http"
	"github.com/hubmesh-io/hubmesh/pkg/mesh"
)

// TopologyClient implements the mesh.TopologyClient interface.
type TopologyClient struct {
	httpClient *internalhttp.Client
}

// NewTopologyClient creates a new TopologyClient.
func NewTopologyClient(httpClient *internalhttp.Client) *TopologyClient {
	return &TopologyClient{
		httpClient: httpClient,
	}
}

// Get fetches the full topology snapshot.
func (c *TopologyClient) Get(ctx context.Context) (*mesh.Envelope[mesh.Topology], error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathTopology, nil)
	if err != nil {
		return nil, fmt.Errorf("getting topology: %w", err)
	}

	var result mesh.Envelope[mesh.Topology]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing topology response: %w", err)
	}

	return &result, nil
}
