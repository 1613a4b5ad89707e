package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/subhankar021/ShopHub/internal/order"
)

// OrderService is the slice of the order repository the handler needs.
type OrderService interface {
	Get(ctx context.Context, id int64, userID string) (*order.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*order.Order, error)
}

type OrderHandler struct {
	orders  OrderService
	timeout time.Duration
}

func NewOrderHandler(orders OrderService, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		timeout: timeout,
	}
}

type OrdersResponse struct {
	Orders []*order.Order `json:"orders"`
}

// GET /api/v1/orders/{id}
//
// Lookups are scoped to the authenticated identity, so another user's
// order id reads as not found rather than forbidden.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity, ok := getIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not_authenticated", "authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a positive integer")
		return
	}

	o, err := h.orders.Get(ctx, id, identity.ID)
	if errors.Is(err, order.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to fetch order")
		return
	}

	respondJSON(w, http.StatusOK, o)
}

// GET /api/v1/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	identity, ok := getIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not_authenticated", "authentication required")
		return
	}

	orders, err := h.orders.ListByUser(ctx, identity.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to fetch orders")
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}

	respondJSON(w, http.StatusOK, &OrdersResponse{Orders: orders})
}
