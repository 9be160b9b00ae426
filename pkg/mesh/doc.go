// Package mesh provides types, interfaces, and helpers for working with the
// hubmesh control-plane API.
//
// # Overview
//
// The mesh package defines the domain types (Node, Policy, Topology,
// HealthStatus, MeshMetrics), the uniform response Envelope, and the
// interfaces for resource-oriented clients (NodesClient, PoliciesClient and
// friends). A concrete implementation is provided by the meshclient package,
// which wires configuration, transport and authentication. Most consumers
// should import meshclient to construct a client and then interact with the
// resource interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/hubmesh-io/hubmesh/pkg/mesh"
//	  "github.com/hubmesh-io/hubmesh/pkg/meshclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := meshclient.New(&mesh.Config{BaseURL: "https://mesh.example.com/api/v1"})
//	  if err != nil { log.Fatal(err) }
//
//	  nodes, err := cli.Nodes().List(ctx, mesh.NewQueryParams().WithPerPage(20))
//	  if err != nil { log.Fatal(err) }
//	  _ = nodes
//	}
//
// # Envelopes
//
// Every endpoint wraps its payload in Envelope (or ListEnvelope for
// paginated lists). HTTP status and the envelope's Success flag are
// independent signals: a transport-level failure or non-2xx status surfaces
// as a Go error, while an application-level failure decodes cleanly with
// Success=false and Error/Message set. Callers must check both.
//
// # Queries and pagination
//
// QueryParams expresses page, per_page and resource-specific filters.
// PaginationIterator and FetchAllPages walk multi-page results:
//
//	it := mesh.NewPaginationIterator(ctx, cli.Nodes().List, nil)
//	for it.HasNext() {
//	  node, err := it.Next()
//	  if err != nil { break }
//	  _ = node
//	}
//
// # Authentication
//
// A TokenStore supplies the bearer credential attached to every request.
// On any 401 the store is cleared and Config.OnAuthExpired fires once, so a
// hosting application can route the user back to its login surface; the
// original error still reaches the caller.
package mesh
