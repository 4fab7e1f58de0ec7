package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/cart"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/catalog"
)

type CartHandler struct {
	cart    *cart.Manager
	editor  *cart.QuantityEditor
	catalog *catalog.Catalog
}

func NewCartHandler(cartManager *cart.Manager, editor *cart.QuantityEditor, cat *catalog.Catalog) *CartHandler {
	return &CartHandler{cart: cartManager, editor: editor, catalog: cat}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	// Quantity arrives as the raw input field value; anything that does
	// not parse is coerced to 1.
	Quantity string `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cart.Snapshot(r.Context()))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	product, ok := h.catalog.Get(req.ProductID)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown_product", "product not found")
		return
	}

	if err := h.cart.AddItem(r.Context(), product, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrInvalidProduct) {
			respondError(w, http.StatusBadRequest, "invalid_product", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add item")
		return
	}

	respondJSON(w, http.StatusCreated, h.cart.Snapshot(r.Context()))
}

// UpdateQuantity schedules a debounced quantity edit: rapid edits to
// the same line collapse into one write of the final value.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	quantity, err := strconv.Atoi(req.Quantity)
	if err != nil || quantity < 1 {
		quantity = 1
	}

	h.editor.Edit(productID, quantity)
	respondJSON(w, http.StatusAccepted, h.cart.Snapshot(r.Context()))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "product_id")
	if _, err := h.cart.RemoveItem(r.Context(), productID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove item")
		return
	}
	respondJSON(w, http.StatusOK, h.cart.Snapshot(r.Context()))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}
	respondJSON(w, http.StatusOK, h.cart.Snapshot(r.Context()))
}
