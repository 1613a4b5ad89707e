package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/subhankar021/ShopHub/internal/auth"
	"github.com/subhankar021/ShopHub/internal/profile"
)

// AuthService is the slice of the auth store the handler needs.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*auth.State, error)
	SignUp(ctx context.Context, email, password, fullName string) (*auth.State, error)
	SignOut(ctx context.Context, accessToken string) error
	UpdateProfile(ctx context.Context, accessToken string, fields profile.Fields) error
}

type AuthHandler struct {
	auth    AuthService
	timeout time.Duration
}

func NewAuthHandler(auth AuthService, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		timeout: timeout,
	}
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type SessionResponse struct {
	AccessToken string         `json:"access_token"`
	User        *auth.Identity `json:"user"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
}

// POST /api/v1/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	state, err := h.auth.SignIn(ctx, req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "sign in failed")
		return
	}

	respondJSON(w, http.StatusOK, &SessionResponse{
		AccessToken: state.Session.AccessToken,
		User:        state.User,
	})
}

// POST /api/v1/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email, password and full_name are required")
		return
	}

	state, err := h.auth.SignUp(ctx, req.Email, req.Password, req.FullName)
	if errors.Is(err, auth.ErrRegistrationFailed) {
		respondError(w, http.StatusUnprocessableEntity, "registration_failed", err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "sign up failed")
		return
	}

	respondJSON(w, http.StatusCreated, &SessionResponse{
		AccessToken: state.Session.AccessToken,
		User:        state.User,
	})
}

// POST /api/v1/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	accessToken, ok := getAccessToken(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not_authenticated", "authentication required")
		return
	}

	if err := h.auth.SignOut(ctx, accessToken); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "sign out failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	accessToken, ok := getAccessToken(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not_authenticated", "authentication required")
		return
	}
	identity, ok := getIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not_authenticated", "session expired or unknown")
		return
	}

	respondJSON(w, http.StatusOK, &SessionResponse{
		AccessToken: accessToken,
		User:        identity,
	})
}

// PUT /api/v1/auth/profile
//
// Only fields present in the body are written; an explicit empty string
// clears the field.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	accessToken, ok := getAccessToken(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not_authenticated", "authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	fields := profile.Fields{}
	if req.FullName != nil {
		fields["full_name"] = *req.FullName
	}
	if req.Address != nil {
		fields["address"] = *req.Address
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if len(fields) == 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "no updatable fields in request")
		return
	}

	if err := h.auth.UpdateProfile(ctx, accessToken, fields); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "not_authenticated", "session expired or unknown")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "profile update failed")
		return
	}

	identity, _ := getIdentity(r.Context())
	if identity != nil {
		for column, value := range fields {
			switch column {
			case "full_name":
				identity.FullName = value
			case "address":
				identity.Address = value
			case "phone":
				identity.Phone = value
			}
		}
	}
	respondJSON(w, http.StatusOK, &SessionResponse{AccessToken: accessToken, User: identity})
}
