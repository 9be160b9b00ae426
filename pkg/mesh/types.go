package mesh

import (
	"encoding/json"
	"fmt"
	"time"
)

// OpaqueJSON carries a server-defined payload whose shape this layer does
// not fix (device configuration blobs, traffic statistics and the like).
type OpaqueJSON = json.RawMessage

// Envelope is the uniform wrapper every endpoint response conforms to.
// Data is absent whenever the server reports failure; callers must check
// Success before reading it, independent of the HTTP status.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ListEnvelope is the paginated variant of Envelope returned by list
// endpoints.
type ListEnvelope[T any] struct {
	Success bool   `json:"success"`
	Data    []T    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`

	Pagination
}

// NodeRole classifies a mesh participant as a relay hub or a spoke that
// connects through one.
type NodeRole string

const (
	NodeRoleHub   NodeRole = "hub"
	NodeRoleSpoke NodeRole = "spoke"
)

// UnmarshalJSON rejects roles outside the closed enumeration.
func (r *NodeRole) UnmarshalJSON(data []byte) error {
	var s string

	err := json.Unmarshal(data, &s)
	if err != nil {
		return fmt.Errorf("decoding node role: %w", err)
	}

	switch NodeRole(s) {
	case NodeRoleHub, NodeRoleSpoke:
		*r = NodeRole(s)

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownNodeRole, s)
	}
}

// NodeStatus is the lifecycle state of a node.
type NodeStatus string

const (
	NodeStatusPending  NodeStatus = "pending"
	NodeStatusActive   NodeStatus = "active"
	NodeStatusInactive NodeStatus = "inactive"
	NodeStatusDisabled NodeStatus = "disabled"
)

// UnmarshalJSON rejects statuses outside the closed enumeration.
func (s *NodeStatus) UnmarshalJSON(data []byte) error {
	var str string

	err := json.Unmarshal(data, &str)
	if err != nil {
		return fmt.Errorf("decoding node status: %w", err)
	}

	switch NodeStatus(str) {
	case NodeStatusPending, NodeStatusActive, NodeStatusInactive, NodeStatusDisabled:
		*s = NodeStatus(str)

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownNodeStatus, str)
	}
}

// Node identifies a mesh participant. Optional fields are pointers so
// callers can distinguish "not provided" from an empty value.
type Node struct {
	ID            string     `json:"id"                       yaml:"id"`
	Name          string     `json:"name"                     yaml:"name"`
	Role          NodeRole   `json:"role"                     yaml:"role"`
	PublicKey     string     `json:"public_key"               yaml:"public_key"`
	Address       string     `json:"address"                  yaml:"address"`
	Endpoint      *string    `json:"endpoint,omitempty"       yaml:"endpoint,omitempty"`
	ListenPort    *int       `json:"listen_port,omitempty"    yaml:"listen_port,omitempty"`
	AllowedIPs    []string   `json:"allowed_ips,omitempty"    yaml:"allowed_ips,omitempty"`
	LastHandshake *time.Time `json:"last_handshake,omitempty" yaml:"last_handshake,omitempty"`
	Status        NodeStatus `json:"status"                   yaml:"status"`
	CreatedAt     time.Time  `json:"created_at"               yaml:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"               yaml:"updated_at"`
}

// NodeCreateRequest holds the writable fields of a node. The identifier and
// both timestamps are server-assigned and deliberately absent.
type NodeCreateRequest struct {
	Name       string     `json:"name"`
	Role       NodeRole   `json:"role"`
	PublicKey  string     `json:"public_key"`
	Address    string     `json:"address"`
	Endpoint   *string    `json:"endpoint,omitempty"`
	ListenPort *int       `json:"listen_port,omitempty"`
	AllowedIPs []string   `json:"allowed_ips,omitempty"`
	Status     NodeStatus `json:"status,omitempty"`
}

// NodeUpdateRequest is a partial update; any subset of fields may be set,
// including none.
type NodeUpdateRequest struct {
	Name       *string     `json:"name,omitempty"`
	Role       *NodeRole   `json:"role,omitempty"`
	PublicKey  *string     `json:"public_key,omitempty"`
	Address    *string     `json:"address,omitempty"`
	Endpoint   *string     `json:"endpoint,omitempty"`
	ListenPort *int        `json:"listen_port,omitempty"`
	AllowedIPs []string    `json:"allowed_ips,omitempty"`
	Status     *NodeStatus `json:"status,omitempty"`
}

// PolicyAction is what a matching policy does with traffic.
type PolicyAction string

const (
	PolicyActionAllow PolicyAction = "allow"
	PolicyActionDeny  PolicyAction = "deny"
)

// UnmarshalJSON rejects actions outside the closed enumeration.
func (a *PolicyAction) UnmarshalJSON(data []byte) error {
	var s string

	err := json.Unmarshal(data, &s)
	if err != nil {
		return fmt.Errorf("decoding policy action: %w", err)
	}

	switch PolicyAction(s) {
	case PolicyActionAllow, PolicyActionDeny:
		*a = PolicyAction(s)

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPolicyAction, s)
	}
}

// Policy is a connectivity rule between nodes or address ranges. Priority
// ordering semantics are defined by the server and not reinterpreted here.
type Policy struct {
	ID          string       `json:"id"                     yaml:"id"`
	Name        string       `json:"name"                   yaml:"name"`
	Description *string      `json:"description,omitempty"  yaml:"description,omitempty"`
	SourceNode  *string      `json:"source_node,omitempty"  yaml:"source_node,omitempty"`
	DestNode    *string      `json:"dest_node,omitempty"    yaml:"dest_node,omitempty"`
	SourceCIDR  *string      `json:"source_cidr,omitempty"  yaml:"source_cidr,omitempty"`
	DestCIDR    *string      `json:"dest_cidr,omitempty"    yaml:"dest_cidr,omitempty"`
	Protocol    *string      `json:"protocol,omitempty"     yaml:"protocol,omitempty"`
	Port        *int         `json:"port,omitempty"         yaml:"port,omitempty"`
	Action      PolicyAction `json:"action"                 yaml:"action"`
	Priority    int          `json:"priority"               yaml:"priority"`
	Enabled     bool         `json:"enabled"                yaml:"enabled"`
	CreatedAt   time.Time    `json:"created_at"             yaml:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"             yaml:"updated_at"`
}

// PolicyCreateRequest holds the writable fields of a policy.
type PolicyCreateRequest struct {
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	SourceNode  *string      `json:"source_node,omitempty"`
	DestNode    *string      `json:"dest_node,omitempty"`
	SourceCIDR  *string      `json:"source_cidr,omitempty"`
	DestCIDR    *string      `json:"dest_cidr,omitempty"`
	Protocol    *string      `json:"protocol,omitempty"`
	Port        *int         `json:"port,omitempty"`
	Action      PolicyAction `json:"action"`
	Priority    int          `json:"priority"`
	Enabled     bool         `json:"enabled"`
}

// PolicyUpdateRequest is a partial update of a policy.
type PolicyUpdateRequest struct {
	Name        *string       `json:"name,omitempty"`
	Description *string       `json:"description,omitempty"`
	SourceNode  *string       `json:"source_node,omitempty"`
	DestNode    *string       `json:"dest_node,omitempty"`
	SourceCIDR  *string       `json:"source_cidr,omitempty"`
	DestCIDR    *string       `json:"dest_cidr,omitempty"`
	Protocol    *string       `json:"protocol,omitempty"`
	Port        *int          `json:"port,omitempty"`
	Action      *PolicyAction `json:"action,omitempty"`
	Priority    *int          `json:"priority,omitempty"`
	Enabled     *bool         `json:"enabled,omitempty"`
}

// TopologyNode is the subset of node fields the topology snapshot carries,
// plus the server-derived online flag.
type TopologyNode struct {
	ID      string   `json:"id"      yaml:"id"`
	Name    string   `json:"name"    yaml:"name"`
	Role    NodeRole `json:"role"    yaml:"role"`
	Address string   `json:"address" yaml:"address"`
	Online  bool     `json:"online"  yaml:"online"`
}

// TopologyLink is a directed edge in the topology snapshot.
type TopologyLink struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Type   string `json:"type"   yaml:"type"`
}

// Topology is a point-in-time graph of mesh connectivity. The server is the
// source of truth; no uniqueness is enforced client-side.
type Topology struct {
	Nodes []TopologyNode `json:"nodes" yaml:"nodes"`
	Links []TopologyLink `json:"links" yaml:"links"`
}

// HealthStatus reports controller health per subsystem.
type HealthStatus struct {
	Status     string            `json:"status"               yaml:"status"`
	Version    string            `json:"version"              yaml:"version"`
	Timestamp  time.Time         `json:"timestamp"            yaml:"timestamp"`
	Components map[string]string `json:"components,omitempty" yaml:"components,omitempty"`
}

// MeshMetrics holds aggregate counters plus open-ended traffic statistics.
type MeshMetrics struct {
	TotalNodes    int        `json:"total_nodes"       yaml:"total_nodes"`
	ActiveNodes   int        `json:"active_nodes"      yaml:"active_nodes"`
	HubCount      int        `json:"hub_count"         yaml:"hub_count"`
	SpokeCount    int        `json:"spoke_count"       yaml:"spoke_count"`
	TotalPolicies int        `json:"total_policies"    yaml:"total_policies"`
	Traffic       OpaqueJSON `json:"traffic,omitempty" yaml:"traffic,omitempty"`
}
