package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/checkout"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/domain"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/payment"
)

type CheckoutHandler struct {
	checkout *checkout.Orchestrator
	payment  *payment.Adapter
}

// NewCheckoutHandler wires the checkout flow. The payment adapter may
// be nil when no gateway is configured; the Paystack callbacks then
// answer 503.
func NewCheckoutHandler(orch *checkout.Orchestrator, adapter *payment.Adapter) *CheckoutHandler {
	return &CheckoutHandler{checkout: orch, payment: adapter}
}

type SelectMethodRequestDTO struct {
	Method string `json:"method"`
}

type PaystackCallbackDTO struct {
	Reference string `json:"reference"`
}

func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	if err := h.checkout.Begin(r.Context()); err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, http.StatusConflict, "empty_cart", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to begin checkout")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": h.checkout.Status().String()})
}

func (h *CheckoutHandler) SelectMethod(w http.ResponseWriter, r *http.Request) {
	var req SelectMethodRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.checkout.SelectMethod(domain.PaymentMethod(req.Method)); err != nil {
		switch {
		case errors.Is(err, checkout.ErrUnknownMethod):
			respondError(w, http.StatusBadRequest, "unknown_method", err.Error())
		case errors.Is(err, checkout.ErrIllegalTransition):
			respondError(w, http.StatusConflict, "illegal_transition", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to select method")
		}
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status": h.checkout.Status().String(),
		"method": string(h.checkout.Method()),
	})
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form checkout.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	result, err := h.checkout.Submit(r.Context(), form)
	if err != nil {
		h.respondSubmitError(w, r, err)
		return
	}

	response := map[string]any{"status": result.Status.String()}
	if result.Order != nil {
		response["order"] = result.Order
	}
	if result.Redirect != "" {
		response["redirect"] = result.Redirect
	}
	if result.PendingExternal {
		response["pendingExternal"] = true
		if h.payment != nil {
			if handoff := h.payment.Handoff(); handoff != nil {
				response["authorizationUrl"] = handoff.AuthorizationURL
				response["reference"] = handoff.Reference
			}
		}
	}
	respondJSON(w, http.StatusOK, response)
}

func (h *CheckoutHandler) respondSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *checkout.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: vErr.Message,
			Code:  "validation_failed",
			Field: vErr.Field,
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", err.Error())
	case errors.Is(err, checkout.ErrNoMethodSelected):
		respondError(w, http.StatusConflict, "no_method_selected", err.Error())
	case errors.Is(err, checkout.ErrGatewayStartFailure):
		respondError(w, http.StatusBadGateway, "gateway_unavailable", err.Error())
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	default:
		log.Printf("checkout: submit failed (request %s): %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to submit checkout")
	}
}

// PaystackSuccess is the gateway success callback: it finalizes the
// paid order exactly once.
func (h *CheckoutHandler) PaystackSuccess(w http.ResponseWriter, r *http.Request) {
	if h.payment == nil {
		respondError(w, http.StatusServiceUnavailable, "gateway_unavailable", "no payment gateway configured")
		return
	}

	var req PaystackCallbackDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reference == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "a transaction reference is required")
		return
	}

	order, err := h.payment.HandleSuccess(r.Context(), req.Reference)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrAlreadyHandled), errors.Is(err, checkout.ErrAlreadyCompleted):
			respondError(w, http.StatusConflict, "already_completed", "this payment was already processed")
		case errors.Is(err, checkout.ErrIllegalTransition):
			respondError(w, http.StatusConflict, "illegal_transition", err.Error())
		default:
			log.Printf("checkout: paystack success handling failed (request %s): %v", getRequestID(r.Context()), err)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to finalize order")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"order":    order,
		"redirect": "index.html?order=success&id=" + order.ID,
	})
}

// PaystackClose is the widget close callback. Informational only.
func (h *CheckoutHandler) PaystackClose(w http.ResponseWriter, r *http.Request) {
	if h.payment == nil {
		respondError(w, http.StatusServiceUnavailable, "gateway_unavailable", "no payment gateway configured")
		return
	}
	h.payment.HandleClose()
	respondJSON(w, http.StatusOK, map[string]string{"status": h.checkout.Status().String()})
}
