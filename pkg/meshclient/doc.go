// Package meshclient provides the primary entry point for constructing a
// hubmesh control-plane client that implements the mesh.Client interface.
//
// It layers configuration, HTTP transport and bearer authentication on top
// of the resource interfaces and types defined in the mesh package.
//
// Quick start
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
//
//	  // Minimal: base URL from MESH_API_URL, or the localhost default.
//	  cli, err := meshclient.NewFromEnv()
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with an access token you already have:
//	  cli, err = meshclient.NewWithToken("https://mesh.example.com/api/v1", "mytoken")
//	  if err != nil { log.Fatal(err) }
//
//	  env, err := cli.Topology().Get(ctx)
//	  if err != nil { log.Fatal(err) }
//	  if env.Success { _ = env.Data }
//	}
//
// # Credential storage
//
// By default tokens live in an in-memory store. Supply mesh.Config.TokenStore
// to share a persistent credential (the meshctl CLI uses a file-backed store
// holding the token under the "authToken" entry). On any 401 the store is
// cleared and Config.OnAuthExpired fires once before the error is returned.
package meshclient
