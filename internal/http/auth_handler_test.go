package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subhankar021/ShopHub/internal/auth"
)

func signedInState() *auth.State {
	return &auth.State{
		Session: &auth.Session{AccessToken: "tok-1", UserID: "user-1"},
		User:    &auth.Identity{ID: "user-1", Email: "jane@example.com", FullName: "Jane Doe"},
	}
}

func TestAuthHandler_SignIn(t *testing.T) {
	h := NewAuthHandler(&MockAuth{State: signedInState()}, time.Second)

	rec := httptest.NewRecorder()
	h.SignIn(rec, newRequest(t, http.MethodPost, "/api/v1/auth/signin",
		`{"email": "jane@example.com", "password": "secret"}`))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "tok-1", resp.AccessToken)
	assert.Equal(t, "Jane Doe", resp.User.FullName)
}

func TestAuthHandler_SignInInvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&MockAuth{SignInErr: auth.ErrInvalidCredentials}, time.Second)

	rec := httptest.NewRecorder()
	h.SignIn(rec, newRequest(t, http.MethodPost, "/api/v1/auth/signin",
		`{"email": "jane@example.com", "password": "wrong"}`))

	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp ErrorResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "invalid email or password", resp.Error)
}

func TestAuthHandler_SignInMissingFields(t *testing.T) {
	h := NewAuthHandler(&MockAuth{}, time.Second)

	rec := httptest.NewRecorder()
	h.SignIn(rec, newRequest(t, http.MethodPost, "/api/v1/auth/signin", `{"email": "jane@example.com"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_SignUp(t *testing.T) {
	h := NewAuthHandler(&MockAuth{State: signedInState()}, time.Second)

	rec := httptest.NewRecorder()
	h.SignUp(rec, newRequest(t, http.MethodPost, "/api/v1/auth/signup",
		`{"email": "jane@example.com", "password": "secret", "full_name": "Jane Doe"}`))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SessionResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "user-1", resp.User.ID)
}

func TestAuthHandler_SignUpRegistrationFailed(t *testing.T) {
	h := NewAuthHandler(&MockAuth{SignUpErr: auth.ErrRegistrationFailed}, time.Second)

	rec := httptest.NewRecorder()
	h.SignUp(rec, newRequest(t, http.MethodPost, "/api/v1/auth/signup",
		`{"email": "jane@example.com", "password": "secret", "full_name": "Jane Doe"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAuthHandler_SignOut(t *testing.T) {
	mock := &MockAuth{}
	h := NewAuthHandler(mock, time.Second)

	req := withIdentity(newRequest(t, http.MethodPost, "/api/v1/auth/signout", ""), "tok-1", testIdentity)
	rec := httptest.NewRecorder()
	h.SignOut(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "tok-1", mock.SignedOutToken)
}

func TestAuthHandler_SignOutAnonymous(t *testing.T) {
	h := NewAuthHandler(&MockAuth{}, time.Second)

	rec := httptest.NewRecorder()
	h.SignOut(rec, newRequest(t, http.MethodPost, "/api/v1/auth/signout", ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Session(t *testing.T) {
	h := NewAuthHandler(&MockAuth{}, time.Second)

	req := withIdentity(newRequest(t, http.MethodGet, "/api/v1/auth/session", ""), "tok-1", testIdentity)
	rec := httptest.NewRecorder()
	h.Session(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "tok-1", resp.AccessToken)
	assert.Equal(t, "user-1", resp.User.ID)
}

func TestAuthHandler_SessionAnonymous(t *testing.T) {
	h := NewAuthHandler(&MockAuth{}, time.Second)

	rec := httptest.NewRecorder()
	h.Session(rec, newRequest(t, http.MethodGet, "/api/v1/auth/session", ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	mock := &MockAuth{}
	h := NewAuthHandler(mock, time.Second)

	identity := &auth.Identity{ID: "user-1", Email: "jane@example.com", FullName: "Jane Doe"}
	req := withIdentity(newRequest(t, http.MethodPut, "/api/v1/auth/profile",
		`{"address": "1 Main St, Springfield, IL 62701, USA", "phone": "555-0100"}`), "tok-1", identity)
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1 Main St, Springfield, IL 62701, USA", mock.LastFields["address"])
	assert.Equal(t, "555-0100", mock.LastFields["phone"])
	assert.NotContains(t, mock.LastFields, "full_name")

	var resp SessionResponse
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "555-0100", resp.User.Phone)
	assert.Equal(t, "Jane Doe", resp.User.FullName)
}

func TestAuthHandler_UpdateProfileNoFields(t *testing.T) {
	h := NewAuthHandler(&MockAuth{}, time.Second)

	req := withIdentity(newRequest(t, http.MethodPut, "/api/v1/auth/profile", `{}`), "tok-1", testIdentity)
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_UpdateProfileUnknownSession(t *testing.T) {
	h := NewAuthHandler(&MockAuth{UpdateErr: auth.ErrInvalidCredentials}, time.Second)

	req := withIdentity(newRequest(t, http.MethodPut, "/api/v1/auth/profile",
		`{"phone": "555-0100"}`), "tok-x", testIdentity)
	rec := httptest.NewRecorder()
	h.UpdateProfile(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
