package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/hubmesh-io/hubmesh/internal/constants"
	internalhttp "github.com/hubmesh-io/hubmesh/internal/http"
	"github.com/hubmesh-io/hubmesh/pkg/mesh"
)

// PoliciesClient implements the mesh.PoliciesClient interface.
type PoliciesClient struct {
	httpClient *internalhttp.Client
}

// NewPoliciesClient creates a new PoliciesClient.
func NewPoliciesClient(httpClient *internalhttp.Client) *PoliciesClient {
	return &PoliciesClient{
		httpClient: httpClient,
	}
}

// List lists connectivity policies. Priority ordering semantics belong to
// the server; results are returned as received.
func (c *PoliciesClient) List(ctx context.Context, params *mesh.QueryParams) (*mesh.ListEnvelope[mesh.Policy], error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	resp, err := c.httpClient.Get(ctx, constants.APIPathPolicies, query)
	if err != nil {
		return nil, fmt.Errorf("listing policies: %w", err)
	}

	var result mesh.ListEnvelope[mesh.Policy]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing policies list response: %w", err)
	}

	return &result, nil
}

// Get retrieves a specific policy.
func (c *PoliciesClient) Get(ctx context.Context, id string) (*mesh.Envelope[mesh.Policy], error) {
	path := constants.APIPathPolicies + "/" + id

	resp, err := c.httpClient.Get(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("getting policy: %w", err)
	}

	var result mesh.Envelope[mesh.Policy]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing policy response: %w", err)
	}

	return &result, nil
}

// Create creates a new policy.
func (c *PoliciesClient) Create(ctx context.Context, request *mesh.PolicyCreateRequest) (*mesh.Envelope[mesh.Policy], error) {
	resp, err := c.httpClient.Post(ctx, constants.APIPathPolicies, request)
	if err != nil {
		return nil, fmt.Errorf("creating policy: %w", err)
	}

	var result mesh.Envelope[mesh.Policy]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing policy response: %w", err)
	}

	return &result, nil
}

// Update applies a partial update. An empty request is valid.
func (c *PoliciesClient) Update(ctx context.Context, id string, request *mesh.PolicyUpdateRequest) (*mesh.Envelope[mesh.Policy], error) {
	path := constants.APIPathPolicies + "/" + id

	if request == nil {
		request = &mesh.PolicyUpdateRequest{}
	}

	resp, err := c.httpClient.Put(ctx, path, request)
	if err != nil {
		return nil, fmt.Errorf("updating policy: %w", err)
	}

	var result mesh.Envelope[mesh.Policy]

	err = json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, fmt.Errorf("parsing policy response: %w", err)
	}

	return &result, nil
}

// Delete removes a policy.
func (c *PoliciesClient) Delete(ctx context.Context, id string) (*mesh.Envelope[mesh.OpaqueJSON], error) {
	path := constants.APIPathPolicies + "/" + id

	resp, err := c.httpClient.Delete(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("deleting policy: %w", err)
	}

	return decodeEmptyEnvelope(resp.Body)
}
