// Package http implements the transport layer: one configuration point for
// base URL, timeout and default headers, with interception hooks on every
// outgoing request and incoming response.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/hubmesh-io/hubmesh/internal/constants"
	"github.com/hubmesh-io/hubmesh/pkg/mesh"
)

// Request describes a single API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is the decoded-enough result of a call: status, headers and the
// raw body bytes for the resource client to unmarshal.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client issues JSON requests against one base URL.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
	chain      *mesh.InterceptorChain
	logger     mesh.Logger
	debug      bool
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger used for debug output.
func WithLogger(logger mesh.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithRetryConfig opts into transport retries for 429 and 5xx responses.
// Retries are off unless this option is applied.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithInterceptors registers additional request and response interceptors.
// They run in the order given, after the bearer credential phase.
func WithInterceptors(requestInterceptors []mesh.RequestInterceptor, responseInterceptors []mesh.ResponseInterceptor) Option {
	return func(c *Client) {
		for _, interceptor := range requestInterceptors {
			c.chain.AddRequestInterceptor(interceptor)
		}

		for _, interceptor := range responseInterceptors {
			c.chain.AddResponseInterceptor(interceptor)
		}
	}
}

// NewClient creates a transport bound to baseURL. When store is non-nil its
// token is attached as a bearer credential on every request.
func NewClient(baseURL string, store mesh.TokenStore, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: retryClient,
		chain:      mesh.NewInterceptorChain(),
		userAgent:  constants.DefaultUserAgent,
	}

	if store != nil {
		client.chain.AddRequestInterceptor(mesh.BearerTokenInterceptor(store.Get))
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// AddRequestInterceptor appends an interceptor run before every send.
func (c *Client) AddRequestInterceptor(interceptor mesh.RequestInterceptor) {
	c.chain.AddRequestInterceptor(interceptor)
}

// AddResponseInterceptor appends an interceptor run after every receive,
// before the caller sees the result.
func (c *Client) AddResponseInterceptor(interceptor mesh.ResponseInterceptor) {
	c.chain.AddResponseInterceptor(interceptor)
}

// Do performs a request. It returns the response together with an error for
// non-2xx statuses, so callers still see the status and body of a failure.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	var bodyBytes []byte

	if req.Body != nil {
		var err error

		bodyBytes, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	interceptReq := &mesh.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: make(http.Header),
		Body:    bodyBytes,
	}

	interceptReq.Headers.Set("Accept", "application/json")
	interceptReq.Headers.Set("User-Agent", c.userAgent)

	if req.Body != nil {
		interceptReq.Headers.Set("Content-Type", "application/json")
	}

	for key, value := range req.Headers {
		interceptReq.Headers.Set(key, value)
	}

	// Outgoing phase runs before every send; a failing interceptor aborts
	// the call.
	err := c.chain.ExecuteRequestInterceptors(ctx, interceptReq)
	if err != nil {
		return nil, err
	}

	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, bodyBytes)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = interceptReq.Headers

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		interceptResp := &mesh.Response{Error: err}

		interceptErr := c.chain.ExecuteResponseInterceptors(ctx, interceptReq, interceptResp)
		if interceptErr != nil {
			return nil, interceptErr
		}

		return nil, fmt.Errorf("sending request: %w", err)
	}

	respBody, err := io.ReadAll(httpResp.Body)

	closeErr := httpResp.Body.Close()
	if closeErr != nil && c.logger != nil {
		c.logger.Warn("failed to close response body", map[string]interface{}{
			"error": closeErr.Error(),
		})
	}

	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	interceptResp := &mesh.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	if httpResp.StatusCode >= http.StatusBadRequest {
		interceptResp.Error = mesh.ParseAPIError(httpResp.StatusCode, respBody)
	}

	// Incoming phase runs before the resource client sees the result; this
	// is where 401 handling clears the credential.
	err = c.chain.ExecuteResponseInterceptors(ctx, interceptReq, interceptResp)
	if err != nil {
		return &Response{
			StatusCode: interceptResp.StatusCode,
			Headers:    interceptResp.Headers,
			Body:       interceptResp.Body,
		}, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"url":         fullURL,
			"status_code": interceptResp.StatusCode,
		})
	}

	response := &Response{
		StatusCode: interceptResp.StatusCode,
		Headers:    interceptResp.Headers,
		Body:       interceptResp.Body,
	}

	if interceptResp.Error != nil {
		return response, interceptResp.Error
	}

	return response, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   path,
		Body:   body,
	})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   path,
	})
}
