package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration and credential files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for API requests.
	DefaultHTTPTimeout = 10 * time.Second
)

// Retry limits. Retries are disabled by default; these values apply only
// when a caller opts in via the transport's retry option.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// API endpoint configuration.
const (
	// EnvBaseURL is the environment variable supplying the API base URL.
	EnvBaseURL = "MESH_API_URL"

	// DefaultBaseURL is used when no base URL is configured.
	DefaultBaseURL = "http://localhost:8080/api/v1"

	// DefaultUserAgent identifies this client on outgoing requests.
	DefaultUserAgent = "hubmesh-go"
)

// API endpoint paths, relative to the base URL.
const (
	// APIPathNodes is the nodes collection endpoint.
	APIPathNodes = "/nodes"

	// APIPathPolicies is the policies collection endpoint.
	APIPathPolicies = "/policies"

	// APIPathTopology is the topology snapshot endpoint.
	APIPathTopology = "/topology"

	// APIPathHealth is the controller health endpoint.
	APIPathHealth = "/health"

	// APIPathMetrics is the aggregate metrics endpoint.
	APIPathMetrics = "/metrics"
)

// Credential storage.
const (
	// TokenEntryName is the named entry the bearer token is stored under.
	TokenEntryName = "authToken"

	// CredentialsDirName is the directory under the user home that holds
	// the credential file.
	CredentialsDirName = ".meshctl"

	// CredentialsFileName is the credential file name.
	CredentialsFileName = "credentials.yml"
)
