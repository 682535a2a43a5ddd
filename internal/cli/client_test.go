package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&Config{ServerURL: srv.URL + "/", Token: "tok"})
}

func TestClientSendsTokenAndDecodesReply(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "/api/v1/tournaments/tournament_Cup/start", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	var result HealthResult
	require.NoError(t, c.Post("/api/v1/tournaments/tournament_Cup/start", map[string]string{}, &result))
	assert.Equal(t, "ok", result.Status)
}

func TestClientServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    string
		message string
	}{
		{
			name:    "api error envelope",
			status:  http.StatusConflict,
			body:    `{"error":{"code":"NO_OPEN_MATCH","message":"no open match"}}`,
			code:    "NO_OPEN_MATCH",
			message: "no open match (NO_OPEN_MATCH)",
		},
		{
			name:    "plain text",
			status:  http.StatusBadGateway,
			body:    "upstream down\n",
			message: "HTTP 502: upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := c.Get("/api/v1/tournaments", nil)
			require.Error(t, err)

			var serverErr *ServerError
			require.True(t, errors.As(err, &serverErr))
			assert.Equal(t, tt.status, serverErr.Status)
			assert.Equal(t, tt.code, serverErr.Code)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestClientTrace(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	var trace bytes.Buffer
	c.trace = &trace

	require.NoError(t, c.Delete("/api/v1/backups/b1", nil))
	assert.Contains(t, trace.String(), "> DELETE ")
	assert.Contains(t, trace.String(), "/api/v1/backups/b1")
	assert.Contains(t, trace.String(), "< 204 No Content")
}
