package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
)

func (h *Handler) FetchLines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.carts.FetchLines(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}

func (h *Handler) InsertLine(w http.ResponseWriter, r *http.Request) {
	var req dto.InsertLineRequest
	if !decode(w, r, &req) {
		return
	}
	l, err := h.carts.InsertLine(r.Context(), chi.URLParam(r, "sessionId"), req.ProductID, req.Quantity)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *Handler) IncrementExistingLine(w http.ResponseWriter, r *http.Request) {
	var req dto.IncrementLineRequest
	if !decode(w, r, &req) {
		return
	}
	l, err := h.carts.IncrementExistingLine(r.Context(), chi.URLParam(r, "sessionId"), req.ProductID, req.Delta)
	if err != nil {
		h.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateQuantityRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.carts.UpdateQuantity(r.Context(), chi.URLParam(r, "lineId"), req.Quantity); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.DeleteLine(r.Context(), chi.URLParam(r, "lineId")); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearAllLines(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.ClearAllLines(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		h.writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
