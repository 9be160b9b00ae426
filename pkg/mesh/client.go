package mesh

import (
	"context"
	"time"
)

// NodesClient manages mesh nodes.
type NodesClient interface {
	List(ctx context.Context, params *QueryParams) (*ListEnvelope[Node], error)
	Get(ctx context.Context, id string) (*Envelope[Node], error)
	Create(ctx context.Context, request *NodeCreateRequest) (*Envelope[Node], error)
	Update(ctx context.Context, id string, request *NodeUpdateRequest) (*Envelope[Node], error)
	Delete(ctx context.Context, id string) (*Envelope[OpaqueJSON], error)
	Config(ctx context.Context, id string) (*Envelope[OpaqueJSON], error)
}

// PoliciesClient manages connectivity policies.
type PoliciesClient interface {
	List(ctx context.Context, params *QueryParams) (*ListEnvelope[Policy], error)
	Get(ctx context.Context, id string) (*Envelope[Policy], error)
	Create(ctx context.Context, request *PolicyCreateRequest) (*Envelope[Policy], error)
	Update(ctx context.Context, id string, request *PolicyUpdateRequest) (*Envelope[Policy], error)
	Delete(ctx context.Context, id string) (*Envelope[OpaqueJSON], error)
}

// TopologyClient reads the mesh topology snapshot.
type TopologyClient interface {
	Get(ctx context.Context) (*Envelope[Topology], error)
}

// HealthClient reads controller health.
type HealthClient interface {
	Get(ctx context.Context) (*Envelope[HealthStatus], error)
}

// MetricsClient reads aggregate mesh metrics.
type MetricsClient interface {
	Get(ctx context.Context) (*Envelope[MeshMetrics], error)
}

// Client provides access to all resource clients of the control plane.
type Client interface {
	Nodes() NodesClient
	Policies() PoliciesClient
	Topology() TopologyClient
	Health() HealthClient
	Metrics() MetricsClient
}

// Logger is the structured logging interface used by the HTTP layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// TokenStore holds the single bearer credential this layer reads on every
// outgoing request. The store is the only mutable state shared between
// in-flight requests: implementations must make Get/Set/Clear safe for
// concurrent use, with the token as one atomic value.
type TokenStore interface {
	// Get returns the stored token, or "" when none is stored. Absence is
	// not an error.
	Get(ctx context.Context) (string, error)

	// Set replaces the stored token.
	Set(ctx context.Context, token string) error

	// Clear removes the stored token. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}

// Config represents client configuration for building a mesh.Client.
//
// BaseURL is resolved by meshclient.New: an explicit value wins, then the
// MESH_API_URL environment variable, then the documented default
// http://localhost:8080/api/v1.
//
// Retries are disabled by default; any retry policy is the caller's
// responsibility and must be opted into via RetryMax.
type Config struct {
	// BaseURL is the API base URL, including the /api/v1 prefix.
	BaseURL string

	// AccessToken, when set, seeds an in-memory token store. Ignored when
	// TokenStore is provided.
	AccessToken string

	// TokenStore is the credential store read on every request. When nil,
	// an in-memory store is created (seeded from AccessToken).
	TokenStore TokenStore

	// OnAuthExpired is invoked exactly once per 401 response, after the
	// stored credential has been cleared. The hosting application decides
	// what "go to login" means; the client only signals it.
	OnAuthExpired func()

	// HTTPTimeout overrides the default 10s request timeout.
	HTTPTimeout time.Duration

	// RetryMax enables transport retries when > 0. Off by default.
	RetryMax int
	// RetryWaitMin is the minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration

	// RequestInterceptors run before every send, after the bearer
	// credential is attached. A failing interceptor aborts the call.
	RequestInterceptors []RequestInterceptor
	// ResponseInterceptors run after every receive, before the resource
	// client sees the result and before the 401 handling phase.
	ResponseInterceptors []ResponseInterceptor

	// Debug enables verbose request/response logging when Logger is set.
	Debug bool
	// Logger is the structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}
