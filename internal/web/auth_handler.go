package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/auth"
)

type AuthHandler struct {
	auth *auth.Manager
}

func NewAuthHandler(authManager *auth.Manager) *AuthHandler {
	return &AuthHandler{auth: authManager}
}

type CredentialsDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"user": user, "redirect": "index.html"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": user, "redirect": "index.html"})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to log out")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"redirect": "index.html"})
}

// CurrentUser answers with the session user, or null for a guest.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"user": h.auth.CurrentUser(r.Context())})
}

func (h *AuthHandler) respondAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingFields),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrPasswordTooShort):
		respondError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, auth.ErrEmailTaken):
		respondError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "authentication failed")
	}
}
