package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"StillFM/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
}

func (s staticTokens) Token(context.Context) (string, bool) {
	return s.token, s.token != ""
}

func TestRequestFailureUsesServerDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"title must not be empty"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Post(context.Background(), "Create", "/admin/meditations/", map[string]string{}, nil, false)

	var failure *RequestFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, http.StatusUnprocessableEntity, failure.Status)
	assert.Equal(t, "title must not be empty", err.Error())
}

func TestRequestFailureGenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Get(context.Background(), "List meditations", "/meditations", nil)

	var failure *RequestFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "List meditations failed: 502", err.Error())
}

func TestNetworkErrorOnUnreachableHost(t *testing.T) {
	// A server that is already closed refuses connections.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL)
	err := client.Get(context.Background(), "List meditations", "/meditations", nil)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "List meditations", netErr.Action)
}

func TestRequestIDHeaderIsAttached(t *testing.T) {
	var requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	require.NoError(t, client.Get(context.Background(), "List meditations", "/meditations", nil))
	assert.NotEmpty(t, requestID)
}

func TestBearerAuthorizerAppliedOnlyWhenAuthed(t *testing.T) {
	var header string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetAuthorizer(&BearerAuthorizer{Tokens: staticTokens{token: "tok-123"}})

	require.NoError(t, client.Get(context.Background(), "List meditations", "/meditations", nil))
	assert.Empty(t, header, "unauthenticated requests must not carry credentials")

	require.NoError(t, client.GetAuthed(context.Background(), "Resolve identity", "/auth/me", nil))
	assert.Equal(t, "Bearer tok-123", header)
}

func TestAdminKeyAuthorizer(t *testing.T) {
	var header string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get(AdminKeyHeader)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.SetAuthorizer(&AdminKeyAuthorizer{Key: "shared-secret"})

	require.NoError(t, client.GetAuthed(context.Background(), "List meditations", "/meditations", nil))
	assert.Equal(t, "shared-secret", header)
}

func TestAuthorizerFor(t *testing.T) {
	tokens := staticTokens{token: "tok"}

	bearer, err := AuthorizerFor(&config.Config{AdminAuthMode: config.AuthModeBearer}, tokens)
	require.NoError(t, err)
	assert.IsType(t, &BearerAuthorizer{}, bearer)

	adminKey, err := AuthorizerFor(&config.Config{AdminAuthMode: config.AuthModeAdminKey, AdminKey: "k"}, tokens)
	require.NoError(t, err)
	assert.IsType(t, &AdminKeyAuthorizer{}, adminKey)

	_, err = AuthorizerFor(&config.Config{AdminAuthMode: config.AuthModeAdminKey}, tokens)
	assert.Error(t, err, "admin-key mode without a key must be rejected at startup")

	_, err = AuthorizerFor(&config.Config{AdminAuthMode: "mystery"}, tokens)
	assert.Error(t, err)
}
