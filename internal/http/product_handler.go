package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/subhankar021/ShopHub/internal/catalog"
)

const relatedProductsLimit = 4

// CatalogService is the slice of the catalog repository the handler needs.
type CatalogService interface {
	List(ctx context.Context, filter catalog.Filter) ([]*catalog.Product, error)
	Get(ctx context.Context, id int64) (*catalog.Product, error)
	Related(ctx context.Context, category string, excludeID int64, limit int) ([]*catalog.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

type ProductHandler struct {
	catalog CatalogService
	timeout time.Duration
}

func NewProductHandler(catalog CatalogService, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type ProductsResponse struct {
	Products []*catalog.Product `json:"products"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// GET /api/v1/products?category=&search=&sortBy=&limit=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	filter := catalog.Filter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Sort:     r.URL.Query().Get("sortBy"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}

	products, err := h.catalog.List(ctx, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to fetch products")
		return
	}
	if products == nil {
		products = []*catalog.Product{}
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products})
}

// GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	product, err := h.catalog.Get(ctx, id)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to fetch product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// GET /api/v1/products/{id}/related
func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	product, err := h.catalog.Get(ctx, id)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to fetch product")
		return
	}

	related, err := h.catalog.Related(ctx, product.Category, product.ID, relatedProductsLimit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to fetch related products")
		return
	}
	if related == nil {
		related = []*catalog.Product{}
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: related})
}

// GET /api/v1/categories
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.catalog.Categories(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to fetch categories")
		return
	}
	if categories == nil {
		categories = []string{}
	}

	respondJSON(w, http.StatusOK, &CategoriesResponse{Categories: categories})
}
