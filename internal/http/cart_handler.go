package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/subhankar021/ShopHub/internal/cart"
	"github.com/subhankar021/ShopHub/internal/catalog"
)

// CartStore is the slice of the cart store the handler needs.
type CartStore interface {
	Add(sessionID string, item cart.Item)
	Remove(sessionID string, productID int64)
	SetQuantity(sessionID string, productID int64, quantity int)
	Clear(sessionID string)
	Items(sessionID string) []cart.Item
	TotalItems(sessionID string) int
	TotalPrice(sessionID string) float64
}

// ProductLookup resolves the product being added so its name, price and
// image are snapshotted into the cart line.
type ProductLookup interface {
	Get(ctx context.Context, id int64) (*catalog.Product, error)
}

type CartHandler struct {
	carts    CartStore
	products ProductLookup
	timeout  time.Duration
}

func NewCartHandler(carts CartStore, products ProductLookup, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		timeout:  timeout,
	}
}

type CartResponse struct {
	Items      []cart.Item `json:"items"`
	TotalItems int         `json:"total_items"`
	TotalPrice float64     `json:"total_price"`
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := getSessionID(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "missing_session", "cart session not established")
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse(sessionID))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID, ok := getSessionID(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "missing_session", "cart session not established")
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	product, err := h.products.Get(ctx, req.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to fetch product")
		return
	}

	h.carts.Add(sessionID, cart.Item{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		ImageURL: product.ImageURL,
	})

	respondJSON(w, http.StatusOK, h.cartResponse(sessionID))
}

// PUT /api/v1/cart/items/{productID}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := getSessionID(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "missing_session", "cart session not established")
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	h.carts.SetQuantity(sessionID, productID, req.Quantity)

	respondJSON(w, http.StatusOK, h.cartResponse(sessionID))
}

// DELETE /api/v1/cart/items/{productID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := getSessionID(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "missing_session", "cart session not established")
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	h.carts.Remove(sessionID, productID)

	respondJSON(w, http.StatusOK, h.cartResponse(sessionID))
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := getSessionID(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "missing_session", "cart session not established")
		return
	}

	h.carts.Clear(sessionID)

	respondJSON(w, http.StatusOK, h.cartResponse(sessionID))
}

func (h *CartHandler) cartResponse(sessionID string) *CartResponse {
	items := h.carts.Items(sessionID)
	if items == nil {
		items = []cart.Item{}
	}
	return &CartResponse{
		Items:      items,
		TotalItems: h.carts.TotalItems(sessionID),
		TotalPrice: h.carts.TotalPrice(sessionID),
	}
}
