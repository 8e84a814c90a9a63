package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/product"
)

type Handler struct {
	products product.Repository
	carts    cart.Store
	checkout Checkout
	log      logrus.FieldLogger
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok", Service: ServiceName})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		middleware.WriteError(w, r, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeErr maps domain errors onto status codes. Anything unrecognised is
// logged and reported as 500 without detail.
func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cart.ErrLineExists):
		middleware.WriteError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, cart.ErrProductUnavailable):
		middleware.WriteError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, checkout.ErrInvalidRequest),
		errors.Is(err, product.ErrInvalidProduct),
		errors.Is(err, product.ErrInvalidCategory):
		middleware.WriteError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		middleware.WriteError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, cart.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, checkout.ErrNotFound):
		middleware.WriteError(w, r, http.StatusNotFound, err.Error())
	default:
		h.log.WithFields(logrus.Fields{
			"path":          r.URL.Path,
			"correlationId": middleware.GetCorrelationID(r.Context()),
		}).WithError(err).Error("request failed")
		middleware.WriteError(w, r, http.StatusInternalServerError, "internal error")
	}
}
