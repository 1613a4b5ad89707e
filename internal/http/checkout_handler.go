package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/subhankar021/ShopHub/internal/checkout"
)

// CheckoutService is the slice of the checkout flow the handler needs.
type CheckoutService interface {
	Submit(ctx context.Context, req checkout.Request) (*checkout.Result, error)
	Status(sessionID string) (checkout.Status, string)
}

type CheckoutHandler struct {
	checkout CheckoutService
	timeout  time.Duration
}

func NewCheckoutHandler(checkout CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type CheckoutRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

type CheckoutResponse struct {
	OrderID   int64  `json:"order_id"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Redirect  string `json:"redirect"`
}

type CheckoutStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// POST /api/v1/checkout
//
// The Idempotency-Key header dedupes retried submissions; a client that
// sends none gets a fresh key, so only explicit retries are deduped.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID, ok := getSessionID(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "missing_session", "cart session not established")
		return
	}
	accessToken, _ := getAccessToken(r.Context())

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if key == "" {
		key = uuid.NewString()
	}

	result, err := h.checkout.Submit(ctx, checkout.Request{
		SessionID:      sessionID,
		AccessToken:    accessToken,
		IdempotencyKey: key,
		Shipping: checkout.ShippingForm{
			FullName: req.FullName,
			Email:    req.Email,
			Address:  req.Address,
			City:     req.City,
			State:    req.State,
			ZipCode:  req.ZipCode,
			Country:  req.Country,
		},
	})
	switch {
	case errors.Is(err, checkout.ErrNotAuthenticated):
		w.Header().Set("Location", "/login?redirect=/checkout")
		respondError(w, http.StatusSeeOther, "not_authenticated", err.Error())
		return
	case errors.Is(err, checkout.ErrEmptyCart):
		w.Header().Set("Location", "/cart")
		respondError(w, http.StatusSeeOther, "empty_cart", err.Error())
		return
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		respondError(w, http.StatusConflict, "submission_in_flight", err.Error())
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "checkout_failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, &CheckoutResponse{
		OrderID:   result.OrderID,
		Duplicate: result.Duplicate,
		Redirect:  fmt.Sprintf("/order-success/%d", result.OrderID),
	})
}

// GET /api/v1/checkout/status
func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := getSessionID(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "missing_session", "cart session not established")
		return
	}

	status, message := h.checkout.Status(sessionID)
	respondJSON(w, http.StatusOK, &CheckoutStatusResponse{
		Status:  status.String(),
		Message: message,
	})
}
