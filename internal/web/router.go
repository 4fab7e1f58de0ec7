package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Cart       *CartHandler
	Wishlist   *WishlistHandler
	Checkout   *CheckoutHandler
	Auth       *AuthHandler
	Storefront *StorefrontHandler
}

// NewRouter mounts the storefront API and fragment routes.
func NewRouter(h Handlers, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{product_id}", h.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", h.Cart.RemoveItem)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.Wishlist.GetWishlist)
			r.Post("/toggle", h.Wishlist.Toggle)
			r.Post("/{product_id}/move-to-cart", h.Wishlist.MoveToCart)
			r.Delete("/{product_id}", h.Wishlist.Remove)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/begin", h.Checkout.Begin)
			r.Post("/method", h.Checkout.SelectMethod)
			r.Post("/submit", h.Checkout.Submit)
			r.Post("/paystack/success", h.Checkout.PaystackSuccess)
			r.Post("/paystack/close", h.Checkout.PaystackClose)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/me", h.Auth.CurrentUser)
		})

		r.Get("/products", h.Storefront.SearchProducts)
		r.Post("/newsletter", h.Storefront.Subscribe)
	})

	r.Get("/fragments/{name}", h.Storefront.Fragment)

	return r
}
