package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubmesh-io/hubmesh/internal/client"
	"github.com/hubmesh-io/hubmesh/pkg/mesh"
)

// recordingTokenStore counts mutations so tests can assert on them.
type recordingTokenStore struct {
	mutex  sync.Mutex
	token  string
	clears int
}

func (s *recordingTokenStore) Get(ctx context.Context) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.token, nil
}

func (s *recordingTokenStore) Set(ctx context.Context, token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = token

	return nil
}

func (s *recordingTokenStore) Clear(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = ""
	s.clears++

	return nil
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := client.New(nil)
		require.ErrorIs(t, err, mesh.ErrConfigRequired)
	})

	t.Run("missing base URL", func(t *testing.T) {
		t.Parallel()

		_, err := client.New(&mesh.Config{})
		require.ErrorIs(t, err, mesh.ErrBaseURLRequired)
	})

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()

		meshClient, err := client.New(&mesh.Config{BaseURL: "http://localhost:8080/api/v1"})
		require.NoError(t, err)
		assert.NotNil(t, meshClient.Nodes())
		assert.NotNil(t, meshClient.Policies())
		assert.NotNil(t, meshClient.Topology())
		assert.NotNil(t, meshClient.Health())
		assert.NotNil(t, meshClient.Metrics())
		assert.NotNil(t, meshClient.TokenStore())
	})
}

func TestNew_InjectedTokenStore(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "Bearer injected-token", request.Header.Get("Authorization"))

		_ = json.NewEncoder(writer).Encode(map[string]interface{}{"success": true, "data": map[string]interface{}{"status": "ok"}})
	}))
	defer server.Close()

	store := &recordingTokenStore{token: "injected-token"}

	meshClient, err := client.New(&mesh.Config{
		BaseURL:    server.URL,
		TokenStore: store,
	})
	require.NoError(t, err)
	assert.Same(t, store, meshClient.TokenStore())

	_, err = meshClient.Health().Get(context.Background())
	require.NoError(t, err)
}

func TestNew_ConfigInterceptors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "dashboard", request.Header.Get("X-Request-Source"))

		_ = json.NewEncoder(writer).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"status": "ok"},
		})
	}))
	defer server.Close()

	var statuses []int

	meshClient, err := client.New(&mesh.Config{
		BaseURL: server.URL,
		RequestInterceptors: []mesh.RequestInterceptor{
			mesh.HeaderInterceptor(map[string]string{"X-Request-Source": "dashboard"}),
		},
		ResponseInterceptors: []mesh.ResponseInterceptor{
			func(ctx context.Context, req *mesh.Request, resp *mesh.Response) error {
				statuses = append(statuses, resp.StatusCode)

				return nil
			},
		},
	})
	require.NoError(t, err)

	envelope, err := meshClient.Health().Get(context.Background())
	require.NoError(t, err)
	assert.True(t, envelope.Success)
	assert.Equal(t, []int{200}, statuses)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_AuthExpiry(t *testing.T) {
	t.Parallel()
	t.Run("401 clears the token and notifies once", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"success": false,
				"error":   "token expired",
			})
		}))
		defer server.Close()

		store := &recordingTokenStore{token: "stale-token"}
		expirations := 0

		meshClient, err := client.New(&mesh.Config{
			BaseURL:       server.URL,
			TokenStore:    store,
			OnAuthExpired: func() { expirations++ },
		})
		require.NoError(t, err)

		_, err = meshClient.Nodes().Get(context.Background(), "n1")
		require.Error(t, err)
		assert.True(t, mesh.IsUnauthorized(err))
		assert.Empty(t, store.token)
		assert.Equal(t, 1, store.clears)
		assert.Equal(t, 1, expirations)
	})

	t.Run("each 401 response notifies once", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		store := &recordingTokenStore{token: "stale-token"}
		expirations := 0

		meshClient, err := client.New(&mesh.Config{
			BaseURL:       server.URL,
			TokenStore:    store,
			OnAuthExpired: func() { expirations++ },
		})
		require.NoError(t, err)

		_, err = meshClient.Nodes().Get(context.Background(), "n1")
		require.Error(t, err)

		_, err = meshClient.Nodes().Get(context.Background(), "n2")
		require.Error(t, err)

		assert.Equal(t, 2, expirations)
		assert.Equal(t, 2, store.clears)
	})

	t.Run("other errors leave the token alone", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(writer).Encode(map[string]interface{}{
				"success": false,
				"error":   "insufficient privileges",
			})
		}))
		defer server.Close()

		store := &recordingTokenStore{token: "valid-token"}
		expirations := 0

		meshClient, err := client.New(&mesh.Config{
			BaseURL:       server.URL,
			TokenStore:    store,
			OnAuthExpired: func() { expirations++ },
		})
		require.NoError(t, err)

		_, err = meshClient.Nodes().Get(context.Background(), "n1")
		require.Error(t, err)
		assert.False(t, mesh.IsUnauthorized(err))
		assert.Equal(t, "valid-token", store.token)
		assert.Zero(t, store.clears)
		assert.Zero(t, expirations)
	})

	t.Run("nil callback still clears", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		store := &recordingTokenStore{token: "stale-token"}

		meshClient, err := client.New(&mesh.Config{
			BaseURL:    server.URL,
			TokenStore: store,
		})
		require.NoError(t, err)

		_, err = meshClient.Nodes().Get(context.Background(), "n1")
		require.Error(t, err)
		assert.Empty(t, store.token)
		assert.Equal(t, 1, store.clears)
	})
}
