package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/catalog"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/wishlist"
)

type WishlistHandler struct {
	wishlist *wishlist.Manager
	catalog  *catalog.Catalog
}

func NewWishlistHandler(wishlistManager *wishlist.Manager, cat *catalog.Catalog) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlistManager, catalog: cat}
}

type ToggleRequestDTO struct {
	ProductID string `json:"product_id"`
}

type ToggleResponseDTO struct {
	Added bool `json:"added"`
	Count int  `json:"count"`
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	items := h.wishlist.Items(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	product, ok := h.catalog.Get(req.ProductID)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown_product", "product not found")
		return
	}

	added, err := h.wishlist.Toggle(r.Context(), product)
	if err != nil {
		if errors.Is(err, wishlist.ErrInvalidProduct) {
			respondError(w, http.StatusBadRequest, "invalid_product", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to toggle wishlist")
		return
	}

	respondJSON(w, http.StatusOK, ToggleResponseDTO{Added: added, Count: h.wishlist.Count(r.Context())})
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	if _, err := h.wishlist.Remove(r.Context(), productID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove item")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": h.wishlist.Count(r.Context())})
}

func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")

	err := h.wishlist.MoveToCart(r.Context(), productID)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]int{"count": h.wishlist.Count(r.Context())})
	case errors.Is(err, wishlist.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "product is not on the wishlist")
	case errors.Is(err, wishlist.ErrCartUnavailable):
		respondError(w, http.StatusServiceUnavailable, "cart_unavailable", "cart is not available")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to move item to cart")
	}
}
