package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hubmesh-io/hubmesh/internal/constants"
	internalhttp "github.com/hubmesh-io/hubmesh/internal/http"
	"github.com/hubmesh-io/hubmesh/pkg/mesh"
)

// MetricsClient implements the mesh.MetricsClient interface.
type MetricsClient struct {
	httpClient *internalhttp.Client
}

// NewMetricsClient creates a new MetricsClient.
func NewMetricsClient(httpClient *internalhttp.Client) *MetricsClient {
	return &MetricsClient{
		httpClient: httpClient,
	}
}

// Get fetches aggregate mesh metrics.
func (c *MetricsClient) Get(ctx context.Context) (*mesh.Envelope[mesh.MeshMetrics], error) {
	resp, err := c.httpClient.Get(ctx, constants.APIPathMetrics, nil)
	if err != nil {
		return nil, fmt.Errorf("getting metrics: %w", err)
	}

	var result mesh.Envelope[mesh.MeshMetrics]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing metrics response: %w", err)
	}

	return &result, nil
}
