package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubmesh-io/hubmesh/pkg/mesh"
)

func TestPoliciesClient_List(t *testing.T) {
	t.Parallel()

	meshClient, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/policies", request.URL.Path)
		assert.Equal(t, "deny", request.URL.Query().Get("action"))

		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"id": "p1", "name": "block-guests", "action": "deny", "priority": 10, "enabled": true},
			},
			"page":        1,
			"per_page":    20,
			"total":       1,
			"total_pages": 1,
		})
	}))

	params := mesh.NewQueryParams().WithFilter("action", "deny")

	envelope, err := meshClient.Policies().List(context.Background(), params)
	require.NoError(t, err)
	assert.True(t, envelope.Success)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "block-guests", envelope.Data[0].Name)
	assert.Equal(t, mesh.PolicyActionDeny, envelope.Data[0].Action)
	assert.Equal(t, 1, envelope.TotalPages)
}

func TestPoliciesClient_Get(t *testing.T) {
	t.Parallel()

	meshClient, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/policies/p1", request.URL.Path)

		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"id":          "p1",
				"name":        "allow-dns",
				"protocol":    "udp",
				"port":        53,
				"action":      "allow",
				"priority":    5,
				"enabled":     true,
				"source_cidr": "10.0.0.0/24",
			},
		})
	}))

	envelope, err := meshClient.Policies().Get(context.Background(), "p1")
	require.NoError(t, err)
	require.NotNil(t, envelope.Data)
	assert.Equal(t, "allow-dns", envelope.Data.Name)
	require.NotNil(t, envelope.Data.Port)
	assert.Equal(t, 53, *envelope.Data.Port)
	require.NotNil(t, envelope.Data.Protocol)
	assert.Equal(t, "udp", *envelope.Data.Protocol)
	assert.Nil(t, envelope.Data.DestCIDR)
}

func TestPoliciesClient_Create(t *testing.T) {
	t.Parallel()

	meshClient, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "POST", request.Method)

		body, _ := io.ReadAll(request.Body)
		assert.JSONEq(t, `{"name":"allow-web","protocol":"tcp","port":443,"action":"allow","priority":1,"enabled":true}`, string(body))

		writer.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"id": "p2", "name": "allow-web", "protocol": "tcp", "port": 443,
				"action": "allow", "priority": 1, "enabled": true,
			},
		})
	}))

	protocol := "tcp"
	port := 443

	envelope, err := meshClient.Policies().Create(context.Background(), &mesh.PolicyCreateRequest{
		Name:     "allow-web",
		Protocol: &protocol,
		Port:     &port,
		Action:   mesh.PolicyActionAllow,
		Priority: 1,
		Enabled:  true,
	})
	require.NoError(t, err)
	require.NotNil(t, envelope.Data)
	assert.Equal(t, "p2", envelope.Data.ID)
	assert.Equal(t, mesh.PolicyActionAllow, envelope.Data.Action)

	// Unknown action in the response is rejected at decode time.
	t.Run("unknown action rejected", func(t *testing.T) {
		t.Parallel()

		badClient, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"success": true,
				"data":    map[string]interface{}{"id": "p3", "name": "x", "action": "reject"},
			})
		}))

		_, err := badClient.Policies().Create(context.Background(), &mesh.PolicyCreateRequest{Name: "x", Action: mesh.PolicyActionDeny})
		require.Error(t, err)
		assert.ErrorIs(t, err, mesh.ErrUnknownPolicyAction)
	})
}

func TestPoliciesClient_Update(t *testing.T) {
	t.Parallel()

	meshClient, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "PUT", request.Method)
		assert.Equal(t, "/policies/p1", request.URL.Path)

		body, _ := io.ReadAll(request.Body)
		assert.JSONEq(t, `{"enabled":false}`, string(body))

		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"id": "p1", "name": "allow-dns", "action": "allow", "priority": 5, "enabled": false,
			},
		})
	}))

	enabled := false

	envelope, err := meshClient.Policies().Update(context.Background(), "p1", &mesh.PolicyUpdateRequest{Enabled: &enabled})
	require.NoError(t, err)
	require.NotNil(t, envelope.Data)
	assert.False(t, envelope.Data.Enabled)
}

func TestPoliciesClient_Delete(t *testing.T) {
	t.Parallel()

	meshClient, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "DELETE", request.Method)
		assert.Equal(t, "/policies/p1", request.URL.Path)

		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"success": true,
			"message": "policy deleted",
		})
	}))

	envelope, err := meshClient.Policies().Delete(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, envelope.Success)
	assert.Equal(t, "policy deleted", envelope.Message)
}
