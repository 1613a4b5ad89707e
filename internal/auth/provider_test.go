package auth

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

func TestHTTPProvider_SignIn(t *testing.T) {
	var (
		gotPath   string
		gotAPIKey string
		gotBody   map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAPIKey = r.Header.Get("apikey")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"expires_in":   3600,
			"user":         map[string]string{"id": "user-1", "email": "jane@example.com"},
		})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "anon-key", time.Second)
	session, err := p.SignIn(context.Background(), "jane@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "/token?grant_type=password", gotPath)
	assert.Equal(t, "anon-key", gotAPIKey)
	assert.Equal(t, "jane@example.com", gotBody["email"])
	assert.Equal(t, "secret", gotBody["password"])

	assert.Equal(t, "tok-1", session.AccessToken)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "jane@example.com", session.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpiresAt, 5*time.Second)
}

func TestHTTPProvider_SignInRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "", time.Second)
	_, err := p.SignIn(context.Background(), "jane@example.com", "wrong")
	assert.Error(t, err)
}

func TestHTTPProvider_SignUpSendsFullName(t *testing.T) {
	var gotBody struct {
		Email string `json:"email"`
		Data  struct {
			FullName string `json:"full_name"`
		} `json:"data"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/signup", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-2",
			"expires_in":   3600,
			"user":         map[string]string{"id": "user-2", "email": "jane@example.com"},
		})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "", time.Second)
	session, err := p.SignUp(context.Background(), "jane@example.com", "secret", "Jane Doe")
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", gotBody.Email)
	assert.Equal(t, "Jane Doe", gotBody.Data.FullName)
	assert.Equal(t, "user-2", session.UserID)
}

func TestHTTPProvider_SignOutSendsBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/logout", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "", time.Second)
	require.NoError(t, p.SignOut(context.Background(), "tok-1"))
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestDevProvider_RoundTrip(t *testing.T) {
	p := NewDevProvider(nil)

	_, err := p.SignIn(context.Background(), "jane@example.com", "secret")
	assert.Error(t, err, "sign in before registration must fail")

	created, err := p.SignUp(context.Background(), "jane@example.com", "secret", "Jane Doe")
	require.NoError(t, err)
	assert.NotEmpty(t, created.AccessToken)

	_, err = p.SignUp(context.Background(), "jane@example.com", "other", "Jane Doe")
	assert.Error(t, err, "duplicate registration must fail")

	_, err = p.SignIn(context.Background(), "jane@example.com", "wrong")
	assert.Error(t, err)

	session, err := p.SignIn(context.Background(), "jane@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, session.UserID)
	assert.NotEqual(t, created.AccessToken, session.AccessToken)

	require.NoError(t, p.SignOut(context.Background(), session.AccessToken))
	assert.Error(t, p.SignOut(context.Background(), session.AccessToken), "second sign out must fail")
}
