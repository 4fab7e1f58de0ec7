package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/catalog"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/newsletter"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/view"
)

// StorefrontHandler serves the catalog, the newsletter signup and the
// rendered HTML fragments.
type StorefrontHandler struct {
	catalog    *catalog.Catalog
	newsletter *newsletter.Manager
	fragments  *view.FragmentCache
}

func NewStorefrontHandler(cat *catalog.Catalog, newsletterManager *newsletter.Manager, fragments *view.FragmentCache) *StorefrontHandler {
	return &StorefrontHandler{catalog: cat, newsletter: newsletterManager, fragments: fragments}
}

type SubscribeRequestDTO struct {
	Email string `json:"email"`
}

// SearchProducts filters the catalog by name; no query returns the
// whole catalog.
func (h *StorefrontHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	matches := h.catalog.Search(r.URL.Query().Get("query"))
	respondJSON(w, http.StatusOK, map[string]any{"products": matches, "count": len(matches)})
}

func (h *StorefrontHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err := h.newsletter.Subscribe(r.Context(), req.Email)
	switch {
	case err == nil:
		respondJSON(w, http.StatusCreated, map[string]string{"message": "thank you for subscribing"})
	case errors.Is(err, newsletter.ErrAlreadySubscribed):
		respondJSON(w, http.StatusOK, map[string]string{"message": err.Error()})
	case errors.Is(err, newsletter.ErrInvalidEmail):
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to subscribe")
	}
}

// Fragment serves the cached rendering of one surface as HTML.
func (h *StorefrontHandler) Fragment(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	html, ok := h.fragments.Fragment(name)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown_fragment", "no such fragment")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}
