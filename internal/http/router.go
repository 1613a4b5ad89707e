package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Products *ProductHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrderHandler
	Auth     *AuthHandler
}

func NewRouter(h Handlers, resolver IdentityResolver, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(CartSessionMiddleware)
	r.Use(SessionMiddleware(resolver))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Get("/{id}", h.Products.Get)
			r.Get("/{id}/related", h.Products.Related)
		})
		r.Get("/categories", h.Products.Categories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.Get)
			r.Delete("/", h.Cart.Clear)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{productID}", h.Cart.UpdateItem)
			r.Delete("/items/{productID}", h.Cart.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", h.Checkout.Submit)
			r.Get("/status", h.Checkout.Status)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.List)
			r.Get("/{id}", h.Orders.Get)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signin", h.Auth.SignIn)
			r.Post("/signup", h.Auth.SignUp)
			r.Post("/signout", h.Auth.SignOut)
			r.Get("/session", h.Auth.Session)
			r.Put("/profile", h.Auth.UpdateProfile)
		})
	})

	return r
}
