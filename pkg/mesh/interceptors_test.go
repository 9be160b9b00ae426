package mesh_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubmesh-io/hubmesh/pkg/mesh"
)

func TestInterceptorChain(t *testing.T) {
	t.Parallel()
	t.Run("request interceptors run in order", func(t *testing.T) {
		t.Parallel()

		chain := mesh.NewInterceptorChain()

		var order []string

		chain.AddRequestInterceptor(func(ctx context.Context, req *mesh.Request) error {
			order = append(order, "first")

			return nil
		})
		chain.AddRequestInterceptor(func(ctx context.Context, req *mesh.Request) error {
			order = append(order, "second")

			return nil
		})

		err := chain.ExecuteRequestInterceptors(context.Background(), &mesh.Request{})
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("request interceptor error stops the chain", func(t *testing.T) {
		t.Parallel()

		chain := mesh.NewInterceptorChain()
		reached := false

		chain.AddRequestInterceptor(func(ctx context.Context, req *mesh.Request) error {
			return errors.New("boom")
		})
		chain.AddRequestInterceptor(func(ctx context.Context, req *mesh.Request) error {
			reached = true

			return nil
		})

		err := chain.ExecuteRequestInterceptors(context.Background(), &mesh.Request{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "request interceptor failed")
		assert.False(t, reached)
	})

	t.Run("response interceptors see status and error", func(t *testing.T) {
		t.Parallel()

		chain := mesh.NewInterceptorChain()

		var seen int

		chain.AddResponseInterceptor(func(ctx context.Context, req *mesh.Request, resp *mesh.Response) error {
			seen = resp.StatusCode

			return nil
		})

		err := chain.ExecuteResponseInterceptors(context.Background(), &mesh.Request{}, &mesh.Response{StatusCode: 502})
		require.NoError(t, err)
		assert.Equal(t, 502, seen)
	})
}

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]interface{}
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, recordedEntry{level: "debug", msg: msg, fields: fields})
}

func (l *recordingLogger) Info(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, recordedEntry{level: "info", msg: msg, fields: fields})
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, recordedEntry{level: "warn", msg: msg, fields: fields})
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, recordedEntry{level: "error", msg: msg, fields: fields})
}

func TestLoggingInterceptor(t *testing.T) {
	t.Parallel()

	logger := &recordingLogger{}
	interceptor := mesh.LoggingInterceptor(logger)

	req := &mesh.Request{Method: "GET", Path: "/nodes"}
	err := interceptor(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, logger.entries, 1)
	assert.Equal(t, "debug", logger.entries[0].level)
	assert.Equal(t, "API Request", logger.entries[0].msg)
	assert.Equal(t, "GET", logger.entries[0].fields["method"])
	assert.Equal(t, "/nodes", logger.entries[0].fields["path"])
}

func TestLoggingResponseInterceptor(t *testing.T) {
	t.Parallel()
	t.Run("successful response logs at debug", func(t *testing.T) {
		t.Parallel()

		logger := &recordingLogger{}
		interceptor := mesh.LoggingResponseInterceptor(logger)

		req := &mesh.Request{Method: "GET", Path: "/health"}
		resp := &mesh.Response{StatusCode: 200}

		err := interceptor(context.Background(), req, resp)
		require.NoError(t, err)

		require.Len(t, logger.entries, 1)
		assert.Equal(t, "debug", logger.entries[0].level)
		assert.Equal(t, "API Response", logger.entries[0].msg)
		assert.Equal(t, 200, logger.entries[0].fields["status_code"])
	})

	t.Run("transport failure logs at error", func(t *testing.T) {
		t.Parallel()

		logger := &recordingLogger{}
		interceptor := mesh.LoggingResponseInterceptor(logger)

		req := &mesh.Request{Method: "GET", Path: "/health"}
		resp := &mesh.Response{Error: errors.New("connection refused")}

		err := interceptor(context.Background(), req, resp)
		require.NoError(t, err)

		require.Len(t, logger.entries, 1)
		assert.Equal(t, "error", logger.entries[0].level)
		assert.Equal(t, "API Response Error", logger.entries[0].msg)
	})
}

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()
	t.Run("sets fixed headers", func(t *testing.T) {
		t.Parallel()

		interceptor := mesh.HeaderInterceptor(map[string]string{
			"X-Request-Source": "dashboard",
			"X-Tenant":         "lab",
		})

		req := &mesh.Request{Method: "GET", Path: "/nodes"}
		err := interceptor(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "dashboard", req.Headers.Get("X-Request-Source"))
		assert.Equal(t, "lab", req.Headers.Get("X-Tenant"))
	})

	t.Run("overwrites an existing value", func(t *testing.T) {
		t.Parallel()

		interceptor := mesh.HeaderInterceptor(map[string]string{"X-Tenant": "lab"})

		req := &mesh.Request{Method: "GET", Path: "/nodes", Headers: http.Header{}}
		req.Headers.Set("X-Tenant", "stale")

		err := interceptor(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "lab", req.Headers.Get("X-Tenant"))
	})
}

func TestBearerTokenInterceptor(t *testing.T) {
	t.Parallel()
	t.Run("attaches bearer header", func(t *testing.T) {
		t.Parallel()

		interceptor := mesh.BearerTokenInterceptor(func(ctx context.Context) (string, error) {
			return "secret", nil
		})

		req := &mesh.Request{Method: "GET", Path: "/nodes"}
		err := interceptor(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "Bearer secret", req.Headers.Get("Authorization"))
	})

	t.Run("empty token is not an error", func(t *testing.T) {
		t.Parallel()

		interceptor := mesh.BearerTokenInterceptor(func(ctx context.Context) (string, error) {
			return "", nil
		})

		req := &mesh.Request{Method: "GET", Path: "/nodes"}
		err := interceptor(context.Background(), req)
		require.NoError(t, err)
		assert.Nil(t, req.Headers)
	})

	t.Run("provider error aborts", func(t *testing.T) {
		t.Parallel()

		providerErr := errors.New("keychain locked")
		interceptor := mesh.BearerTokenInterceptor(func(ctx context.Context) (string, error) {
			return "", providerErr
		})

		err := interceptor(context.Background(), &mesh.Request{})
		require.Error(t, err)
		assert.ErrorIs(t, err, providerErr)
	})
}

func TestAuthExpiredInterceptor(t *testing.T) {
	t.Parallel()
	t.Run("401 clears credential and fires callback once", func(t *testing.T) {
		t.Parallel()

		cleared := 0
		expired := 0

		interceptor := mesh.AuthExpiredInterceptor(
			func(ctx context.Context) error {
				cleared++

				return nil
			},
			func() { expired++ },
		)

		resp := &mesh.Response{StatusCode: http.StatusUnauthorized}
		err := interceptor(context.Background(), &mesh.Request{}, resp)
		require.NoError(t, err)
		assert.Equal(t, 1, cleared)
		assert.Equal(t, 1, expired)
	})

	t.Run("non-401 statuses pass through untouched", func(t *testing.T) {
		t.Parallel()

		cleared := 0
		expired := 0

		interceptor := mesh.AuthExpiredInterceptor(
			func(ctx context.Context) error {
				cleared++

				return nil
			},
			func() { expired++ },
		)

		for _, status := range []int{200, 400, 403, 404, 500} {
			resp := &mesh.Response{StatusCode: status}
			err := interceptor(context.Background(), &mesh.Request{}, resp)
			require.NoError(t, err)
		}

		assert.Equal(t, 0, cleared)
		assert.Equal(t, 0, expired)
	})

	t.Run("nil callback is allowed", func(t *testing.T) {
		t.Parallel()

		interceptor := mesh.AuthExpiredInterceptor(nil, nil)

		resp := &mesh.Response{StatusCode: http.StatusUnauthorized}
		err := interceptor(context.Background(), &mesh.Request{}, resp)
		require.NoError(t, err)
	})

	t.Run("clear failure is reported", func(t *testing.T) {
		t.Parallel()

		clearErr := errors.New("store read-only")
		interceptor := mesh.AuthExpiredInterceptor(
			func(ctx context.Context) error { return clearErr },
			nil,
		)

		resp := &mesh.Response{StatusCode: http.StatusUnauthorized}
		err := interceptor(context.Background(), &mesh.Request{}, resp)
		require.Error(t, err)
		assert.ErrorIs(t, err, clearErr)
	})
}
