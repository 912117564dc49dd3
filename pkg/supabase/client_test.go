package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(Config{
		BaseURL:    server.URL,
		APIKey:     "anon-key",
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)
	return client, server
}

func TestNewRequiresURLAndKey(t *testing.T) {
	_, err := New(Config{APIKey: "key"})
	require.Error(t, err)
	_, err = New(Config{BaseURL: "https://example.supabase.co"})
	require.Error(t, err)
}

func TestSignInWithPasswordSuccess(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "user@example.com", payload["email"])

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token-abc",
			"token_type":   "bearer",
			"expires_in":   3600,
			"user": map[string]any{
				"id":    "user-1",
				"email": "user@example.com",
			},
		})
	}))

	creds, err := client.SignInWithPassword(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", creds.UserID)
	assert.Equal(t, "user@example.com", creds.Email)
	assert.Equal(t, "token-abc", creds.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), creds.TokenExpiry, time.Minute)
}

func TestSignInWithPasswordErrorTextPassesThrough(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "Invalid login credentials",
		})
	}))

	_, err := client.SignInWithPassword(context.Background(), "user@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid login credentials", err.Error())
}

func TestSignInWithPasswordNullUserFailsGenerically(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"user": nil})
	}))

	_, err := client.SignInWithPassword(context.Background(), "user@example.com", "secret")
	require.Error(t, err)
	assert.Equal(t, "login failed", err.Error())
}

func TestSignInRecoversUserFromTokenClaims(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "claim-user",
		"email": "claims@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access_token": token})
	}))

	creds, err := client.SignInWithPassword(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "claim-user", creds.UserID)
	assert.Equal(t, "claims@example.com", creds.Email)
	assert.False(t, creds.TokenExpiry.IsZero())
}

func TestSelectAllReturnsRows(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/sales", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode([]map[string]any{
			{"product": "Pen", "amount": 10.0, "date": "2024-01-01"},
		})
	}))

	rows, err := client.SelectAll(context.Background(), "sales")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Pen", rows[0]["product"])
}

func TestSelectAllEmptyTable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{})
	}))

	rows, err := client.SelectAll(context.Background(), "sales")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSelectAllSurfacesBackendError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"relation \"missing\" does not exist"}`))
	}))

	_, err := client.SelectAll(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
