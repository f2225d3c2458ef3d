package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
}

func writeEnvelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": status < 400,
		"data":    data,
	})
}

func TestClient_Login(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "dev@example.com", req.Email)

		writeEnvelope(w, http.StatusOK, AuthResponse{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			User:         &User{ID: 1, Email: req.Email, Role: "freelancer"},
		})
	})

	resp, err := c.Login(context.Background(), "dev@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "access-token", resp.AccessToken)
	assert.Equal(t, int64(1), resp.User.ID)
	// Login stores the token for subsequent requests.
	assert.Equal(t, "access-token", c.GetToken())
}

func TestClient_SubscribeConflict(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error": map[string]interface{}{
				"code":    "ALREADY_SUBSCRIBED",
				"message": "An active subscription already exists",
				"details": map[string]interface{}{"expires_at": "2025-07-01T12:00:00Z"},
			},
		})
	})
	c.SetToken("token")

	_, err := c.Subscriptions().Subscribe(context.Background(), 1)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.True(t, apiErr.IsConflict())
	assert.True(t, apiErr.IsAlreadySubscribed())
	assert.Equal(t, "ALREADY_SUBSCRIBED", apiErr.Code)
	assert.Contains(t, apiErr.Details, "expires_at")
}

func TestClient_AuthorizationHeader(t *testing.T) {
	var gotAuth string
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, map[string]bool{"subscribed": true})
	})
	c.SetToken("jwt-token")

	subscribed, err := c.Subscriptions().Current(context.Background())
	require.NoError(t, err)
	assert.True(t, subscribed)
	assert.Equal(t, "Bearer jwt-token", gotAuth)
}

func TestClient_PlansList(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("include_counts"))
		writeEnvelope(w, http.StatusOK, []Plan{
			{ID: 1, Name: "Starter Monthly", Price: 9.99, DurationDays: 30, PlanType: "monthly", Subscribers: 12},
			{ID: 2, Name: "Pro Yearly", Price: 99.99, DurationDays: 365, PlanType: "yearly"},
		})
	})

	plans, err := c.Plans().List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, int64(12), plans[0].Subscribers)
}

func TestClient_NonEnvelopeError(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	err := c.Health(context.Background())
	require.Error(t, err)
}
