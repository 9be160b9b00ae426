package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/hubmesh-io/hubmesh/internal/constants"
	internalhttp "github.com/hubmesh-io/hubmesh/internal/http"
	"github.com/hubmesh-io/hubmesh/pkg/mesh"
)

// NodesClient implements the mesh.NodesClient interface.
type NodesClient struct {
	httpClient *internalhttp.Client
}

// NewNodesClient creates a new NodesClient.
func NewNodesClient(httpClient *internalhttp.Client) *NodesClient {
	return &NodesClient{
		httpClient: httpClient,
	}
}

// List lists mesh nodes. Supported filters: node_type, status. Ordering is
// server-defined and not re-sorted here.
func (c *NodesClient) List(ctx context.Context, params *mesh.QueryParams) (*mesh.ListEnvelope[mesh.Node], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, constants.APIPathNodes, query)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}

	var result mesh.ListEnvelope[mesh.Node]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing nodes list response: %w", err)
	}

	return &result, nil
}

// Get retrieves a specific node. No existence check is performed before
// sending.
func (c *NodesClient) Get(ctx context.Context, id string) (*mesh.Envelope[mesh.Node], error) {
	path := constants.APIPathNodes + "/" + id

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting node: %w", err)
	}

	var result mesh.Envelope[mesh.Node]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing node response: %w", err)
	}

	return &result, nil
}

// Create registers a new node. The identifier and timestamps are assigned
// server-side and echoed back in the envelope.
func (c *NodesClient) Create(ctx context.Context, request *mesh.NodeCreateRequest) (*mesh.Envelope[mesh.Node], error) {
	resp, err := c.httpClient.Post(ctx, constants.APIPathNodes, request)
	if err != nil {
		return nil, fmt.Errorf("creating node: %w", err)
	}

	var result mesh.Envelope[mesh.Node]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing node response: %w", err)
	}

	return &result, nil
}

// Update applies a partial update. An empty request is valid and sent as an
// empty object.
func (c *NodesClient) Update(ctx context.Context, id string, request *mesh.NodeUpdateRequest) (*mesh.Envelope[mesh.Node], error) {
	path := constants.APIPathNodes + "/" + id

	if request == nil {
		request = &mesh.NodeUpdateRequest{}
	}

	resp, err := c.httpClient.Put(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating node: %w", err)
	}

	var result mesh.Envelope[mesh.Node]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing node response: %w", err)
	}

	return &result, nil
}

// Delete removes a node.
func (c *NodesClient) Delete(ctx context.Context, id string) (*mesh.Envelope[mesh.OpaqueJSON], error) {
	path := constants.APIPathNodes + "/" + id

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting node: %w", err)
	}

	return decodeEmptyEnvelope(resp.Body)
}

// Config fetches the node's device configuration blob. Its shape is defined
// entirely server-side.
func (c *NodesClient) Config(ctx context.Context, id string) (*mesh.Envelope[mesh.OpaqueJSON], error) {
	path := constants.APIPathNodes + "/" + id + "/config"

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting node config: %w", err)
	}

	var result mesh.Envelope[mesh.OpaqueJSON]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing node config response: %w", err)
	}

	return &result, nil
}

// decodeEmptyEnvelope decodes an envelope that carries no payload. A bodyless
// 204 still counts as success.
func decodeEmptyEnvelope(body []byte) (*mesh.Envelope[mesh.OpaqueJSON], error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return &mesh.Envelope[mesh.OpaqueJSON]{Success: true}, nil
	}

	var result mesh.Envelope[mesh.OpaqueJSON]

	err := json.Unmarshal(body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	return &result, nil
}
