package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
)

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.checkout.Checkout(r.Context(), checkout.Request{
		SessionID:     chi.URLParam(r, "sessionId"),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		TableNumber:   req.TableNumber,
	})
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.checkout.Get(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.checkout.MarkPaid(r.Context(), chi.URLParam(r, "orderId"), req.Reference)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
